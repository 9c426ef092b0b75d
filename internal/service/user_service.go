package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"iglesia360/internal/model"
	"iglesia360/internal/repository"
	"iglesia360/internal/validation"
	"iglesia360/pkg/apperror"
	"iglesia360/pkg/pagination"

	"golang.org/x/crypto/bcrypt"
)

// DTOs for Request validation
type CreateUserRequest struct {
	Email    string       `json:"email" validate:"required,email"`
	Name     string       `json:"name" validate:"notblank"`
	Phone    string       `json:"phone"`
	Roles    []model.Role `json:"roles" validate:"dive,oneof=admin tesorero pastor_general pastor_red usuario"`
	Password string       `json:"password"`
}

type UpdateUserRequest struct {
	Name   *string           `json:"name,omitempty" validate:"omitnil,notblank"`
	Phone  *string           `json:"phone,omitempty"`
	Status *model.UserStatus `json:"status,omitempty" validate:"omitnil,oneof=active inactive suspended"`
	Roles  []model.Role      `json:"roles,omitempty" validate:"omitnil,dive,oneof=admin tesorero pastor_general pastor_red usuario"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string      `json:"token"`
	User     *model.User `json:"user"`
	Permisos []string    `json:"permisos"`
}

// TokenIssuer signs access tokens for authenticated users
type TokenIssuer interface {
	Issue(user *model.User) (string, error)
}

// UserService defines the interface for business logic related to User
type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*model.User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
	ListUsers(ctx context.Context, filter model.UserFilter, p pagination.Params) ([]model.User, int, error)
	UpdateUser(ctx context.Context, id uint, req UpdateUserRequest) (*model.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

type userService struct {
	repo   repository.UserRepository
	tokens TokenIssuer
}

// NewUserService returns a new instance of UserService
func NewUserService(repo repository.UserRepository, tokens TokenIssuer) UserService {
	return &userService{repo: repo, tokens: tokens}
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*model.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperror.Conflict("Email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Wrap(err, "Failed to create user")
	}

	roles := model.Roles(req.Roles)
	if len(roles) == 0 {
		roles = model.Roles{model.RoleUsuario}
	}

	user := &model.User{
		Email:  req.Email,
		Name:   strings.TrimSpace(req.Name),
		Phone:  strings.TrimSpace(req.Phone),
		Status: model.UserActive,
		Roles:  roles,
	}

	if req.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperror.Wrap(err, "Failed to hash password")
		}
		user.Password = string(hashedPassword)
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("Email already exists")
		}
		return nil, apperror.Wrap(err, "Failed to create user")
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	identifier := strings.TrimSpace(req.Email)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Username)
	}
	if identifier == "" || req.Password == "" {
		return nil, apperror.Validation("Email and password are required", validation.Violations{"email": "is required", "password": "is required"})
	}

	user, err := s.repo.FindByEmail(ctx, identifier)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return nil, apperror.Wrap(err, "Login failed")
	}

	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, apperror.Unauthorized("Invalid email or password")
	}
	if user.Status != model.UserActive {
		return nil, apperror.Unauthorized("User is not active")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to generate token")
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, apperror.Wrap(err, "Login failed")
	}

	return &LoginResponse{
		Token:    token,
		User:     user,
		Permisos: model.PermissionsFor(user.Roles),
	}, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to fetch user")
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, filter model.UserFilter, p pagination.Params) ([]model.User, int, error) {
	users, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, apperror.Wrap(err, "Failed to fetch users")
	}
	return pagination.Slice(users, p), len(users), nil
}

func (s *userService) UpdateUser(ctx context.Context, id uint, req UpdateUserRequest) (*model.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	if req.Roles != nil {
		user.Roles = model.Roles(req.Roles)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Wrap(err, "Failed to update user")
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("User not found")
	}
	if err != nil {
		return apperror.Wrap(err, "Failed to delete user")
	}
	return nil
}
