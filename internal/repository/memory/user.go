package memory

import (
	"context"
	"strings"

	"iglesia360/internal/model"
	"iglesia360/internal/repository"
)

type UserRepository struct {
	store *table[model.User]
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		store: newTable(
			func(u *model.User) *uint { return &u.ID },
			cloneUser,
		),
	}
}

var _ repository.UserRepository = (*UserRepository)(nil)

func cloneUser(u *model.User) *model.User {
	c := *u
	c.Roles = append(model.Roles{}, u.Roles...)
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	return &c
}

func sameEmail(email string) func(*model.User) bool {
	return func(u *model.User) bool { return strings.EqualFold(u.Email, email) }
}

func (r *UserRepository) Create(_ context.Context, user *model.User) error {
	if _, taken := r.store.first(sameEmail(user.Email)); taken {
		return repository.ErrDuplicate
	}
	r.store.insert(user, nil)
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id uint) (*model.User, error) {
	u, ok := r.store.get(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := r.store.first(sameEmail(email))
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *UserRepository) FindAll(_ context.Context, filter model.UserFilter) ([]model.User, error) {
	return r.store.find(filter.Matches), nil
}

func (r *UserRepository) Update(_ context.Context, user *model.User) error {
	if other, taken := r.store.first(sameEmail(user.Email)); taken && other.ID != user.ID {
		return repository.ErrDuplicate
	}
	if !r.store.replace(user, nil) {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id uint) error {
	if !r.store.remove(id) {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Count(context.Context) (int64, error) {
	return r.store.count(), nil
}
