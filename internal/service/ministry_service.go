package service

import (
	"context"
	"errors"

	"iglesia360/internal/model"
	"iglesia360/internal/repository"
	"iglesia360/pkg/apperror"
	"iglesia360/pkg/pagination"
)

type MinistryService interface {
	ListMinistries(ctx context.Context, status string, p pagination.Params) ([]model.Ministry, int, error)
	GetMinistry(ctx context.Context, id uint) (*model.Ministry, error)
}

type ministryService struct {
	repo repository.MinistryRepository
}

func NewMinistryService(repo repository.MinistryRepository) MinistryService {
	return &ministryService{repo: repo}
}

func (s *ministryService) ListMinistries(ctx context.Context, status string, p pagination.Params) ([]model.Ministry, int, error) {
	all, err := s.repo.FindAll(ctx, status)
	if err != nil {
		return nil, 0, apperror.Wrap(err, "Failed to fetch ministries")
	}
	return pagination.Slice(all, p), len(all), nil
}

func (s *ministryService) GetMinistry(ctx context.Context, id uint) (*model.Ministry, error) {
	m, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Ministry not found")
	}
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to fetch ministry")
	}
	return m, nil
}
