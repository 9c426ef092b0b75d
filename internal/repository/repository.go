package repository

import (
	"context"
	"errors"

	"iglesia360/internal/model"
)

var (
	// ErrNotFound is returned when the requested entity does not exist
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate is returned when a unique attribute is already taken
	ErrDuplicate = errors.New("repository: duplicate")
)

// SolicitudRepository is the entity store of the workflow engine.
// Implementations hand out copies; mutating a returned value never changes
// stored state until it is passed back to Replace.
type SolicitudRepository interface {
	// Insert assigns the id and the SOL### code atomically with the insert
	Insert(ctx context.Context, s *model.Solicitud) error
	FindByID(ctx context.Context, id uint) (*model.Solicitud, error)
	// FindAll returns matching solicitudes, most recently created first
	FindAll(ctx context.Context, filter model.SolicitudFilter) ([]model.Solicitud, error)
	Replace(ctx context.Context, s *model.Solicitud) error
}

type MinistryRepository interface {
	Create(ctx context.Context, m *model.Ministry) error
	FindByID(ctx context.Context, id uint) (*model.Ministry, error)
	FindAll(ctx context.Context, status string) ([]model.Ministry, error)
	Count(ctx context.Context) (int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindAll(ctx context.Context, filter model.UserFilter) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type AuditRepository interface {
	Log(ctx context.Context, entry *model.AuditLog) error
	ListBySolicitud(ctx context.Context, solicitudID uint) ([]model.AuditLog, error)
	List(ctx context.Context, offset, limit int) ([]model.AuditLog, int64, error)
}
