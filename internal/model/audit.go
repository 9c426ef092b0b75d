package model

import "time"

const (
	ActionCreate  = "CREATE"
	ActionUpdate  = "UPDATE"
	ActionSubmit  = "SUBMIT"
	ActionApprove = "APPROVE"
	ActionReject  = "REJECT"
)

// AuditLog tracks who did what to a solicitud and when
type AuditLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SolicitudID uint      `gorm:"index;not null" json:"solicitudId"`
	UserID      uint      `gorm:"index" json:"userId"`
	UserName    string    `gorm:"type:varchar(255)" json:"userName,omitempty"`
	Action      string    `gorm:"type:varchar(50);not null;index" json:"action"`
	OldValue    string    `gorm:"type:text" json:"oldValue,omitempty"` // serialized JSON snapshot
	NewValue    string    `gorm:"type:text" json:"newValue,omitempty"`
	Comment     string    `gorm:"type:text" json:"comment,omitempty"`
	IPAddress   string    `gorm:"type:varchar(64)" json:"ipAddress,omitempty"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
}
