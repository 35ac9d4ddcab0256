package service

import (
	"context"
	"errors"
	"fmt"

	"accountsvc/internal/model"
	"accountsvc/internal/repository"

	"github.com/shopspring/decimal"
)

// DTOs for Request validation
type CreateUserRequest struct {
	Name          string           `json:"name" binding:"required"`
	Email         string           `json:"email" binding:"required,email"`
	Phone         *string          `json:"phone"`
	CreditBalance *decimal.Decimal `json:"credit_balance"`
	RoleID        *uint            `json:"role_id"`
}

// UpdateUserRequest uses pointer fields so an omitted field is
// distinguishable from one explicitly set to its zero value; only fields
// present in the payload are merged into the stored record.
type UpdateUserRequest struct {
	Name          *string          `json:"name"`
	Email         *string          `json:"email" binding:"omitempty,email"`
	Phone         *string          `json:"phone"`
	CreditBalance *decimal.Decimal `json:"credit_balance"`
	RoleID        *uint            `json:"role_id"`
}

// SearchUsersQuery carries the query-string parameters of GET /users/search.
type SearchUsersQuery struct {
	Name   string
	Email  string
	Phone  string
	SortBy string
	Order  string
}

type UserResponse struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Phone         *string         `json:"phone,omitempty"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
	RoleID        *uint           `json:"role_id,omitempty"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

// UserService defines the interface for business logic related to User
type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	GetUserByID(ctx context.Context, id uint) (*UserResponse, error)
	ListUsers(ctx context.Context) ([]UserResponse, error)
	SearchUsers(ctx context.Context, q SearchUsersQuery) ([]UserResponse, error)
	UpdateUser(ctx context.Context, id uint, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, id uint) error
}

type userService struct {
	repo     repository.UserRepository
	notifier Notifier
}

// NewUserService returns a new instance of UserService
func NewUserService(repo repository.UserRepository, notifier Notifier) UserService {
	return &userService{repo: repo, notifier: notifier}
}

// Helper: parse model to standard json API response
func mapUserToResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Phone:         user.Phone,
		CreditBalance: user.CreditBalance,
		RoleID:        user.RoleID,
		CreatedAt:     user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:     user.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	user := &model.User{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		RoleID: req.RoleID,
	}
	if req.CreditBalance != nil {
		user.CreditBalance = *req.CreditBalance
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Read back so store-computed defaults land in the response
	created, err := s.repo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload created user: %w", err)
	}

	publish(s.notifier, EventUserCreated, mapUserToResponse(created))
	return mapUserToResponse(created), nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return mapUserToResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, *mapUserToResponse(&u))
	}
	return responses, nil
}

func (s *userService) SearchUsers(ctx context.Context, q SearchUsersQuery) ([]UserResponse, error) {
	users, err := s.repo.Search(ctx, repository.UserFilter{
		Name:   q.Name,
		Email:  q.Email,
		Phone:  q.Phone,
		SortBy: q.SortBy,
		Order:  q.Order,
	})
	if err != nil {
		if errors.Is(err, repository.ErrInvalidSortField) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSortField, q.SortBy)
		}
		return nil, err
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, *mapUserToResponse(&u))
	}
	return responses, nil
}

func (s *userService) UpdateUser(ctx context.Context, id uint, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// Merge only the fields the payload actually carried
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.CreditBalance != nil {
		user.CreditBalance = *req.CreditBalance
	}
	if req.RoleID != nil {
		// role_id 0 clears the assignment
		if *req.RoleID == 0 {
			user.RoleID = nil
		} else {
			roleID := *req.RoleID
			user.RoleID = &roleID
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload updated user: %w", err)
	}

	publish(s.notifier, EventUserUpdated, mapUserToResponse(updated))
	return mapUserToResponse(updated), nil
}

func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	publish(s.notifier, EventUserDeleted, map[string]uint{"id": id})
	return nil
}
