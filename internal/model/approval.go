package model

import "time"

// ApprovalStatus is the state of one approver's decision
type ApprovalStatus string

const (
	ApprovalPendiente ApprovalStatus = "pendiente"
	ApprovalAprobado  ApprovalStatus = "aprobado"
	ApprovalRechazado ApprovalStatus = "rechazado"
)

// ApprovalInfo is one entry of a solicitud's approval chain. Entries are
// created at submit time and resolved in place; they are never removed.
type ApprovalInfo struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	SolicitudID      uint           `gorm:"index;not null" json:"solicitudId"`
	ApproverUserID   uint           `gorm:"index;not null" json:"approverUserId"`
	ApproverName     string         `gorm:"type:varchar(255)" json:"approverName,omitempty"`
	ApprovalOrder    int            `gorm:"not null" json:"approvalOrder"`
	Status           ApprovalStatus `gorm:"type:varchar(20);not null;default:'pendiente'" json:"status"`
	RequiredApproval bool           `gorm:"not null;default:false" json:"requiredApproval"`
	ApprovalDate     *time.Time     `json:"approvalDate,omitempty"`
	Comments         string         `gorm:"type:text" json:"comments,omitempty"`
	RejectionReason  string         `gorm:"type:text" json:"rejectionReason,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

func (ApprovalInfo) TableName() string { return "solicitud_approvals" }
