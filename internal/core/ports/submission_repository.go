package ports

import (
	"context"

	"github.com/actowiz/text-submission-api/internal/core/domain"
)

// SubmissionRepository persists text submissions. There is no update path.
type SubmissionRepository interface {
	// Create inserts s and fills in its ID and CreatedAt.
	Create(ctx context.Context, s *domain.TextSubmission) error
	// ListWithOwners returns every submission newest-first, joined with its owner.
	ListWithOwners(ctx context.Context) ([]*domain.SubmissionView, error)
	Count(ctx context.Context) (int64, error)
}
