package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SolicitudStatus is the lifecycle state of a financial request
type SolicitudStatus string

const (
	StatusBorrador        SolicitudStatus = "borrador"
	StatusPendiente       SolicitudStatus = "pendiente"
	StatusEnRevision      SolicitudStatus = "en_revision"
	StatusAprobadoParcial SolicitudStatus = "aprobado_parcial"
	StatusAprobado        SolicitudStatus = "aprobado"
	StatusRechazado       SolicitudStatus = "rechazado"
	StatusCompletado      SolicitudStatus = "completado"
	StatusCancelado       SolicitudStatus = "cancelado"
)

var statusTransitions = map[SolicitudStatus][]SolicitudStatus{
	StatusBorrador:        {StatusPendiente, StatusCancelado},
	StatusPendiente:       {StatusEnRevision, StatusCancelado},
	StatusEnRevision:      {StatusAprobadoParcial, StatusAprobado, StatusRechazado, StatusCancelado},
	StatusAprobadoParcial: {StatusAprobado, StatusRechazado, StatusCancelado},
	StatusAprobado:        {StatusCompletado, StatusCancelado},
	StatusRechazado:       {},
	StatusCompletado:      {},
	StatusCancelado:       {},
}

// Valid reports whether s is a known status
func (s SolicitudStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// IsTerminal reports whether no further transition is possible from s
func (s SolicitudStatus) IsTerminal() bool {
	return s == StatusCompletado || s == StatusRechazado || s == StatusCancelado
}

// IsEditable reports whether a solicitud in s may still be modified. Only drafts are.
func (s SolicitudStatus) IsEditable() bool {
	return s == StatusBorrador
}

// CanTransitionTo reports whether moving from s to next is a legal step
func (s SolicitudStatus) CanTransitionTo(next SolicitudStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentType tells where the money is paid to
type PaymentType string

const (
	PaymentUnoMismo PaymentType = "uno_mismo"
	PaymentTerceros PaymentType = "terceros"
)

func (p PaymentType) Valid() bool {
	return p == PaymentUnoMismo || p == PaymentTerceros
}

// DocumentType classifies an attachment
type DocumentType string

const (
	DocComprobante DocumentType = "comprobante"
	DocPresupuesto DocumentType = "presupuesto"
	DocOtro        DocumentType = "otro"
)

// SolicitudItem is one line of a solicitud. ItemNumber is its 1-based position.
type SolicitudItem struct {
	ID          uint             `gorm:"primaryKey" json:"id,omitempty"`
	SolicitudID uint             `gorm:"index;not null" json:"-"`
	ItemNumber  int              `gorm:"not null" json:"itemNumber"`
	Description string           `gorm:"type:text;not null" json:"description"`
	Amount      decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"amount"`
	Quantity    *decimal.Decimal `gorm:"type:decimal(18,4)" json:"quantity,omitempty"`
	UnitPrice   *decimal.Decimal `gorm:"type:decimal(18,4)" json:"unitPrice,omitempty"`
}

func (SolicitudItem) TableName() string { return "solicitud_items" }

// Normalize derives Amount from Quantity x UnitPrice when both are present
func (i *SolicitudItem) Normalize() {
	if i.Quantity != nil && i.UnitPrice != nil {
		i.Amount = i.Quantity.Mul(*i.UnitPrice)
	}
}

// Attachment holds file metadata only; contents live elsewhere
type Attachment struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	SolicitudID    uint         `gorm:"index;not null" json:"-"`
	FileName       string       `gorm:"type:varchar(255);not null" json:"fileName"`
	FileType       string       `gorm:"type:varchar(100)" json:"fileType,omitempty"`
	FileSize       int64        `json:"fileSize"`
	FilePath       string       `gorm:"type:text" json:"filePath"`
	UploadedBy     uint         `json:"uploadedBy"`
	UploadedByName string       `gorm:"type:varchar(255)" json:"uploadedByName,omitempty"`
	DocumentType   DocumentType `gorm:"type:varchar(20)" json:"documentType"`
	UploadedAt     time.Time    `json:"uploadedAt"`
}

func (Attachment) TableName() string { return "solicitud_attachments" }

// Solicitud is a financial request owned by a ministry and moved through the
// approval workflow. TotalAmount is always derived from Items.
type Solicitud struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	Code              string          `gorm:"type:varchar(20);index" json:"code"`
	MinistryID        uint            `gorm:"index;not null" json:"ministryId"`
	MinistryName      string          `gorm:"type:varchar(255)" json:"ministryName,omitempty"`
	RequesterUserID   uint            `gorm:"index;not null" json:"requesterUserId"`
	RequesterName     string          `gorm:"type:varchar(255)" json:"requesterName,omitempty"`
	ResponsibleUserID uint            `gorm:"not null" json:"responsibleUserId"`
	ResponsibleName   string          `gorm:"type:varchar(255)" json:"responsibleName,omitempty"`
	Title             string          `gorm:"type:varchar(255);not null" json:"title"`
	Description       string          `gorm:"type:text;not null" json:"description"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"totalAmount"`
	Currency          string          `gorm:"type:varchar(10);not null;default:'PEN'" json:"currency"`
	Status            SolicitudStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentType       PaymentType     `gorm:"type:varchar(20);not null" json:"paymentType"`
	PaymentDetail     string          `gorm:"type:text" json:"paymentDetail,omitempty"`
	RequesterComments string          `gorm:"type:text" json:"requesterComments,omitempty"`
	RejectionReason   string          `gorm:"type:text" json:"rejectionReason,omitempty"`
	Items             []SolicitudItem `gorm:"foreignKey:SolicitudID;constraint:OnDelete:CASCADE" json:"items"`
	Attachments       []Attachment    `gorm:"foreignKey:SolicitudID;constraint:OnDelete:CASCADE" json:"attachments"`
	Approvals         []ApprovalInfo  `gorm:"foreignKey:SolicitudID;constraint:OnDelete:CASCADE" json:"approvals"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
	SubmittedAt       *time.Time      `json:"submittedAt,omitempty"`
	CompletedAt       *time.Time      `json:"completedAt,omitempty"`
}

func (Solicitud) TableName() string { return "solicitudes" }

// SetItems replaces the item list, renumbering it 1..N and recomputing the total
func (s *Solicitud) SetItems(items []SolicitudItem) {
	s.Items = make([]SolicitudItem, len(items))
	for i, item := range items {
		item.ID = 0
		item.SolicitudID = s.ID
		item.ItemNumber = i + 1
		item.Normalize()
		s.Items[i] = item
	}
	s.TotalAmount = SumItems(s.Items)
}

// SumItems adds up the item amounts
func SumItems(items []SolicitudItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}

// Clone returns a deep copy so the copy can be mutated without touching s
func (s *Solicitud) Clone() *Solicitud {
	if s == nil {
		return nil
	}
	c := *s
	c.SubmittedAt = cloneTime(s.SubmittedAt)
	c.CompletedAt = cloneTime(s.CompletedAt)

	c.Items = make([]SolicitudItem, len(s.Items))
	for i, item := range s.Items {
		item.Quantity = cloneDecimal(item.Quantity)
		item.UnitPrice = cloneDecimal(item.UnitPrice)
		c.Items[i] = item
	}

	c.Attachments = make([]Attachment, len(s.Attachments))
	copy(c.Attachments, s.Attachments)

	c.Approvals = make([]ApprovalInfo, len(s.Approvals))
	for i, a := range s.Approvals {
		a.ApprovalDate = cloneTime(a.ApprovalDate)
		c.Approvals[i] = a
	}
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

// SolicitudFilter narrows list queries. Zero values match everything.
type SolicitudFilter struct {
	Status          SolicitudStatus
	MinistryID      uint
	RequesterUserID uint
}

// Matches reports whether s satisfies every set criterion
func (f SolicitudFilter) Matches(s *Solicitud) bool {
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	if f.MinistryID != 0 && s.MinistryID != f.MinistryID {
		return false
	}
	if f.RequesterUserID != 0 && s.RequesterUserID != f.RequesterUserID {
		return false
	}
	return true
}
