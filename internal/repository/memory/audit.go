package memory

import (
	"context"
	"sort"

	"iglesia360/internal/model"
	"iglesia360/internal/repository"
)

type AuditRepository struct {
	store *table[model.AuditLog]
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{
		store: newTable(
			func(l *model.AuditLog) *uint { return &l.ID },
			func(l *model.AuditLog) *model.AuditLog { c := *l; return &c },
		),
	}
}

var _ repository.AuditRepository = (*AuditRepository)(nil)

func (r *AuditRepository) Log(_ context.Context, entry *model.AuditLog) error {
	r.store.insert(entry, nil)
	return nil
}

func (r *AuditRepository) ListBySolicitud(_ context.Context, solicitudID uint) ([]model.AuditLog, error) {
	logs := r.store.find(func(l *model.AuditLog) bool { return l.SolicitudID == solicitudID })
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].CreatedAt.Before(logs[j].CreatedAt)
	})
	return logs, nil
}

func (r *AuditRepository) List(_ context.Context, offset, limit int) ([]model.AuditLog, int64, error) {
	logs := r.store.find(nil)
	sort.SliceStable(logs, func(i, j int) bool {
		if !logs[i].CreatedAt.Equal(logs[j].CreatedAt) {
			return logs[i].CreatedAt.After(logs[j].CreatedAt)
		}
		return logs[i].ID > logs[j].ID
	})

	total := int64(len(logs))
	if offset < 0 || offset >= len(logs) {
		return []model.AuditLog{}, total, nil
	}
	end := offset + limit
	if limit < 0 || end > len(logs) {
		end = len(logs)
	}
	return logs[offset:end], total, nil
}
