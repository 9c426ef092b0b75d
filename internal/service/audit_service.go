package service

import (
	"context"
	"errors"
	"time"

	"iglesia360/internal/model"
	"iglesia360/internal/repository"
	"iglesia360/pkg/apperror"
	"iglesia360/pkg/pagination"
)

type AuditLogResponse struct {
	ID          uint   `json:"id"`
	SolicitudID uint   `json:"solicitudId"`
	UserID      uint   `json:"userId"`
	UserName    string `json:"userName"`
	Action      string `json:"action"`
	OldValue    string `json:"oldValue,omitempty"`
	NewValue    string `json:"newValue,omitempty"`
	Comment     string `json:"comment,omitempty"`
	IPAddress   string `json:"ipAddress,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, p pagination.Params) ([]AuditLogResponse, int, error)
	GetHistory(ctx context.Context, solicitudID uint) ([]AuditLogResponse, error)
}

type auditService struct {
	audit       repository.AuditRepository
	solicitudes repository.SolicitudRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(audit repository.AuditRepository, solicitudes repository.SolicitudRepository) AuditService {
	return &auditService{audit: audit, solicitudes: solicitudes}
}

func toAuditResponse(l model.AuditLog) AuditLogResponse {
	username := l.UserName
	if username == "" {
		username = "System"
	}
	return AuditLogResponse{
		ID:          l.ID,
		SolicitudID: l.SolicitudID,
		UserID:      l.UserID,
		UserName:    username,
		Action:      l.Action,
		OldValue:    l.OldValue,
		NewValue:    l.NewValue,
		Comment:     l.Comment,
		IPAddress:   l.IPAddress,
		CreatedAt:   l.CreatedAt.Format(time.RFC3339),
	}
}

func toAuditResponses(logs []model.AuditLog) []AuditLogResponse {
	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, toAuditResponse(l))
	}
	return res
}

// GetAuditLogs lists every audit entry, newest first
func (s *auditService) GetAuditLogs(ctx context.Context, p pagination.Params) ([]AuditLogResponse, int, error) {
	logs, total, err := s.audit.List(ctx, p.Offset, p.PageSize)
	if err != nil {
		return nil, 0, apperror.Wrap(err, "Failed to retrieve audit logs")
	}
	return toAuditResponses(logs), int(total), nil
}

// GetHistory lists the audit trail of one solicitud, oldest first
func (s *auditService) GetHistory(ctx context.Context, solicitudID uint) ([]AuditLogResponse, error) {
	if _, err := s.solicitudes.FindByID(ctx, solicitudID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Solicitud not found")
		}
		return nil, apperror.Wrap(err, "Failed to load solicitud")
	}

	logs, err := s.audit.ListBySolicitud(ctx, solicitudID)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to retrieve solicitud history")
	}
	return toAuditResponses(logs), nil
}
