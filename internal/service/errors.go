package service

import "errors"

// Sentinel errors handlers match on to pick a status code.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrRoleNotFound      = errors.New("role not found")
	ErrInvalidSortField  = errors.New("invalid sort field")
	ErrInvalidPermission = errors.New("invalid permission value")
	ErrRoleInUse         = errors.New("role is still assigned to users")
)
