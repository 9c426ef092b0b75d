package memory

import (
	"context"

	"iglesia360/internal/model"
	"iglesia360/internal/repository"
)

type MinistryRepository struct {
	store *table[model.Ministry]
}

func NewMinistryRepository() *MinistryRepository {
	return &MinistryRepository{
		store: newTable(
			func(m *model.Ministry) *uint { return &m.ID },
			func(m *model.Ministry) *model.Ministry { c := *m; return &c },
		),
	}
}

var _ repository.MinistryRepository = (*MinistryRepository)(nil)

func (r *MinistryRepository) Create(_ context.Context, m *model.Ministry) error {
	if _, taken := r.store.first(func(have *model.Ministry) bool { return have.Code == m.Code }); taken {
		return repository.ErrDuplicate
	}
	r.store.insert(m, nil)
	return nil
}

func (r *MinistryRepository) FindByID(_ context.Context, id uint) (*model.Ministry, error) {
	m, ok := r.store.get(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return m, nil
}

func (r *MinistryRepository) FindAll(_ context.Context, status string) ([]model.Ministry, error) {
	return r.store.find(func(m *model.Ministry) bool {
		return status == "" || m.Status == status
	}), nil
}

func (r *MinistryRepository) Count(context.Context) (int64, error) {
	return r.store.count(), nil
}
