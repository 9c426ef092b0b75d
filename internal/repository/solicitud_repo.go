package repository

import (
	"context"
	"fmt"

	"iglesia360/internal/model"

	"gorm.io/gorm"
)

type solicitudRepository struct {
	db *gorm.DB
}

// NewSolicitudRepository returns a gorm backed SolicitudRepository
func NewSolicitudRepository(db *gorm.DB) SolicitudRepository {
	return &solicitudRepository{db: db}
}

func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("item_number ASC") }).
		Preload("Approvals", func(db *gorm.DB) *gorm.DB { return db.Order("approval_order ASC, id ASC") }).
		Preload("Attachments", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

func (r *solicitudRepository) Insert(ctx context.Context, s *model.Solicitud) error {
	return GetDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		s.ID = 0
		s.Code = ""
		if err := tx.Create(s).Error; err != nil {
			return fmt.Errorf("insert solicitud: %w", err)
		}
		s.Code = fmt.Sprintf("SOL%03d", s.ID)
		if err := tx.Model(&model.Solicitud{}).Where("id = ?", s.ID).UpdateColumn("code", s.Code).Error; err != nil {
			return fmt.Errorf("assign solicitud code: %w", err)
		}
		return nil
	})
}

func (r *solicitudRepository) FindByID(ctx context.Context, id uint) (*model.Solicitud, error) {
	var s model.Solicitud
	if err := withChildren(GetDB(ctx, r.db)).First(&s, id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *solicitudRepository) FindAll(ctx context.Context, filter model.SolicitudFilter) ([]model.Solicitud, error) {
	db := GetDB(ctx, r.db)
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.MinistryID != 0 {
		db = db.Where("ministry_id = ?", filter.MinistryID)
	}
	if filter.RequesterUserID != 0 {
		db = db.Where("requester_user_id = ?", filter.RequesterUserID)
	}

	solicitudes := []model.Solicitud{}
	if err := withChildren(db).Order("created_at DESC, id DESC").Find(&solicitudes).Error; err != nil {
		return nil, err
	}
	return solicitudes, nil
}

// Replace overwrites the stored solicitud. Items are rewritten from scratch,
// approvals are upserted so their ids stay stable.
func (r *solicitudRepository) Replace(ctx context.Context, s *model.Solicitud) error {
	return GetDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Solicitud{}).Where("id = ?", s.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}

		if err := tx.Where("solicitud_id = ?", s.ID).Delete(&model.SolicitudItem{}).Error; err != nil {
			return fmt.Errorf("clear items: %w", err)
		}
		for i := range s.Items {
			s.Items[i].ID = 0
			s.Items[i].SolicitudID = s.ID
		}
		for i := range s.Approvals {
			s.Approvals[i].SolicitudID = s.ID
		}
		for i := range s.Attachments {
			s.Attachments[i].SolicitudID = s.ID
		}

		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(s).Error; err != nil {
			return fmt.Errorf("save solicitud: %w", err)
		}
		return nil
	})
}
