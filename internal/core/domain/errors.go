package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidID          = errors.New("malformed identifier")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownPrincipal   = errors.New("authenticated user no longer exists")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidRole        = errors.New("invalid role")
	ErrSelfDemotion       = errors.New("admin cannot change their own role")
	ErrSelfDeletion       = errors.New("admin cannot delete their own account")
	ErrValidation         = errors.New("validation failed")
)
