package ports

import (
	"context"

	"github.com/actowiz/text-submission-api/internal/core/domain"
)

// RoleChange is the result of a successful role update.
type RoleChange struct {
	ID    string      `json:"_id"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// UserService is the user administration use case. Every method assumes the
// caller already passed the admin authorization guard.
type UserService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateRole(ctx context.Context, actor domain.Principal, targetID, role string) (*RoleChange, error)
	DeleteUser(ctx context.Context, actor domain.Principal, targetID string) error
	Statistics(ctx context.Context) (*domain.Statistics, error)
}
