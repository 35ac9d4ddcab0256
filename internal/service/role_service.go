package service

import (
	"context"
	"errors"
	"fmt"

	"accountsvc/internal/model"
	"accountsvc/internal/repository"
)

// --- DTOs ---

type CreateRoleRequest struct {
	Name        string           `json:"name" binding:"required"`
	Permissions model.Permission `json:"permissions"`
}

type UpdateRoleRequest struct {
	Name        *string           `json:"name"`
	Permissions *model.Permission `json:"permissions"`
}

type RoleResponse struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Permissions model.Permission `json:"permissions"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
}

// --- Interface ---

type RoleService interface {
	CreateRole(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error)
	GetRoleByID(ctx context.Context, id uint) (*RoleResponse, error)
	ListRoles(ctx context.Context) ([]RoleResponse, error)
	ListRoleUsers(ctx context.Context, id uint) ([]UserResponse, error)
	UpdateRole(ctx context.Context, id uint, req UpdateRoleRequest) (*RoleResponse, error)
	DeleteRole(ctx context.Context, id uint) error
}

type roleService struct {
	roles    repository.RoleRepository
	users    repository.UserRepository
	tx       repository.TransactionManager
	notifier Notifier
}

func NewRoleService(roles repository.RoleRepository, users repository.UserRepository, tx repository.TransactionManager, notifier Notifier) RoleService {
	return &roleService{roles: roles, users: users, tx: tx, notifier: notifier}
}

// --- Implementation ---

func mapRoleToResponse(role *model.Role) *RoleResponse {
	return &RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Permissions: role.Permissions,
		CreatedAt:   role.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   role.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (s *roleService) CreateRole(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error) {
	if !req.Permissions.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPermission, req.Permissions)
	}

	role := &model.Role{
		Name:        req.Name,
		Permissions: req.Permissions,
	}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	created, err := s.roles.GetByID(ctx, role.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload created role: %w", err)
	}

	publish(s.notifier, EventRoleCreated, mapRoleToResponse(created))
	return mapRoleToResponse(created), nil
}

func (s *roleService) GetRoleByID(ctx context.Context, id uint) (*RoleResponse, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return mapRoleToResponse(role), nil
}

func (s *roleService) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]RoleResponse, 0, len(roles))
	for _, r := range roles {
		responses = append(responses, *mapRoleToResponse(&r))
	}
	return responses, nil
}

func (s *roleService) ListRoleUsers(ctx context.Context, id uint) ([]UserResponse, error) {
	if _, err := s.roles.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}

	users, err := s.users.ListByRole(ctx, id)
	if err != nil {
		return nil, err
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, *mapUserToResponse(&u))
	}
	return responses, nil
}

func (s *roleService) UpdateRole(ctx context.Context, id uint, req UpdateRoleRequest) (*RoleResponse, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		role.Name = *req.Name
	}
	if req.Permissions != nil {
		if !req.Permissions.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrInvalidPermission, *req.Permissions)
		}
		role.Permissions = *req.Permissions
	}

	if err := s.roles.Update(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	updated, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload updated role: %w", err)
	}

	publish(s.notifier, EventRoleUpdated, mapRoleToResponse(updated))
	return mapRoleToResponse(updated), nil
}

// DeleteRole removes a role unless users still reference it. The reference
// check and the delete share one transaction so a concurrent assignment
// cannot slip in between.
func (s *roleService) DeleteRole(ctx context.Context, id uint) error {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.roles.GetByID(txCtx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrRoleNotFound
			}
			return err
		}

		count, err := s.users.CountByRole(txCtx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: %d user(s)", ErrRoleInUse, count)
		}

		return s.roles.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	publish(s.notifier, EventRoleDeleted, map[string]uint{"id": id})
	return nil
}
