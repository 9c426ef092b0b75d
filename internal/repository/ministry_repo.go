package repository

import (
	"context"

	"iglesia360/internal/model"

	"gorm.io/gorm"
)

type ministryRepository struct {
	db *gorm.DB
}

func NewMinistryRepository(db *gorm.DB) MinistryRepository {
	return &ministryRepository{db: db}
}

func (r *ministryRepository) Create(ctx context.Context, m *model.Ministry) error {
	return translate(GetDB(ctx, r.db).Create(m).Error)
}

func (r *ministryRepository) FindByID(ctx context.Context, id uint) (*model.Ministry, error) {
	var m model.Ministry
	if err := GetDB(ctx, r.db).First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *ministryRepository) FindAll(ctx context.Context, status string) ([]model.Ministry, error) {
	db := GetDB(ctx, r.db)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	ministries := []model.Ministry{}
	if err := db.Order("id ASC").Find(&ministries).Error; err != nil {
		return nil, err
	}
	return ministries, nil
}

func (r *ministryRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.Ministry{}).Count(&total).Error
	return total, err
}
