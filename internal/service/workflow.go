package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"iglesia360/internal/model"
	"iglesia360/internal/repository"
	"iglesia360/pkg/apperror"

	"github.com/shopspring/decimal"
)

// TreasurerThreshold is the total above which the treasurer's sign-off is required.
// A total of exactly this amount does not require it.
var TreasurerThreshold = decimal.NewFromInt(5000)

// Notifier receives workflow events once a mutation has been stored
type Notifier interface {
	Publish(event model.WorkflowEvent)
}

type nopNotifier struct{}

func (nopNotifier) Publish(model.WorkflowEvent) {}

// WorkflowDeps wires the solicitud and approval services. Both services must
// share the same Locks so mutations of one solicitud never interleave.
type WorkflowDeps struct {
	Solicitudes repository.SolicitudRepository
	Ministries  repository.MinistryRepository
	Users       repository.UserRepository
	Audit       repository.AuditRepository
	Tx          repository.TransactionManager
	Notifier    Notifier
	Locks       *IDLocker
	// approver of the second chain step when no active tesorero exists
	TreasurerUserID uint
	Now             func() time.Time
}

func (d WorkflowDeps) withDefaults() WorkflowDeps {
	if d.Notifier == nil {
		d.Notifier = nopNotifier{}
	}
	if d.Locks == nil {
		d.Locks = NewIDLocker()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

func (d WorkflowDeps) userName(ctx context.Context, id uint) string {
	if id == 0 {
		return ""
	}
	u, err := d.Users.FindByID(ctx, id)
	if err != nil {
		return ""
	}
	return u.Name
}

func (d WorkflowDeps) ministryName(ctx context.Context, id uint) string {
	m, err := d.Ministries.FindByID(ctx, id)
	if err != nil {
		return ""
	}
	return m.Name
}

// treasurer resolves the second approver of every chain
func (d WorkflowDeps) treasurer(ctx context.Context) (uint, string) {
	treasurers, err := d.Users.FindAll(ctx, model.UserFilter{Status: model.UserActive, Role: model.RoleTesorero})
	if err != nil {
		log.Printf("treasurer lookup failed, using configured id %d: %v", d.TreasurerUserID, err)
	}
	if len(treasurers) > 0 {
		return treasurers[0].ID, treasurers[0].Name
	}
	return d.TreasurerUserID, d.userName(ctx, d.TreasurerUserID)
}

// load fetches a solicitud translating the repository sentinel
func (d WorkflowDeps) load(ctx context.Context, id uint) (*model.Solicitud, error) {
	s, err := d.Solicitudes.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Solicitud not found")
	}
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load solicitud")
	}
	return s, nil
}

func (d WorkflowDeps) audit(ctx context.Context, actorID uint, s *model.Solicitud, action string, oldValue, newValue interface{}, comment string) error {
	entry := &model.AuditLog{
		SolicitudID: s.ID,
		UserID:      actorID,
		UserName:    d.userName(ctx, actorID),
		Action:      action,
		OldValue:    marshalSnapshot(oldValue),
		NewValue:    marshalSnapshot(newValue),
		Comment:     comment,
		IPAddress:   ClientIP(ctx),
		CreatedAt:   d.Now(),
	}
	return d.Audit.Log(ctx, entry)
}

func (d WorkflowDeps) publish(eventType model.EventType, s *model.Solicitud, actorID uint) {
	d.Notifier.Publish(model.WorkflowEvent{
		Type:        eventType,
		SolicitudID: s.ID,
		Code:        s.Code,
		Status:      s.Status,
		ActorID:     actorID,
		At:          d.Now(),
	})
}

// solicitudSnapshot is the audit view of a solicitud
type solicitudSnapshot struct {
	Status            model.SolicitudStatus `json:"status"`
	Title             string                `json:"title"`
	Description       string                `json:"description"`
	ResponsibleUserID uint                  `json:"responsibleUserId"`
	PaymentType       model.PaymentType     `json:"paymentType"`
	TotalAmount       decimal.Decimal       `json:"totalAmount"`
	Items             int                   `json:"items"`
}

func snapshotOf(s *model.Solicitud) *solicitudSnapshot {
	if s == nil {
		return nil
	}
	return &solicitudSnapshot{
		Status:            s.Status,
		Title:             s.Title,
		Description:       s.Description,
		ResponsibleUserID: s.ResponsibleUserID,
		PaymentType:       s.PaymentType,
		TotalAmount:       s.TotalAmount,
		Items:             len(s.Items),
	}
}

func marshalSnapshot(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case *solicitudSnapshot:
		if t == nil {
			return ""
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

type clientIPKey struct{}

// WithClientIP stores the caller address for audit entries
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
