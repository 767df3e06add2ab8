package ports

import (
	"context"
	"time"

	"github.com/actowiz/text-submission-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
//
// Lookups by id return domain.ErrInvalidID when the id is not a well-formed
// identifier and domain.ErrUserNotFound when no such user exists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	// CountUpdatedSince counts users whose updatedAt is at or after since.
	CountUpdatedSince(ctx context.Context, since time.Time) (int64, error)
}
