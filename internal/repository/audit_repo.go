package repository

import (
	"context"

	"iglesia360/internal/model"

	"gorm.io/gorm"
)

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *auditRepository) ListBySolicitud(ctx context.Context, solicitudID uint) ([]model.AuditLog, error) {
	logs := []model.AuditLog{}
	err := GetDB(ctx, r.db).
		Where("solicitud_id = ?", solicitudID).
		Order("created_at ASC, id ASC").
		Find(&logs).Error
	return logs, err
}

func (r *auditRepository) List(ctx context.Context, offset, limit int) ([]model.AuditLog, int64, error) {
	logs := []model.AuditLog{}
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.AuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if offset < 0 || int64(offset) >= total {
		return logs, total, nil
	}
	if err := db.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
