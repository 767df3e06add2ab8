package ports

import (
	"context"

	"github.com/actowiz/text-submission-api/internal/core/domain"
)

// SubmissionService accepts and lists text submissions.
type SubmissionService interface {
	Submit(ctx context.Context, principal domain.Principal, text string) (*domain.TextSubmission, error)
	ListSubmissions(ctx context.Context) ([]*domain.SubmissionView, error)
}
