package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/actowiz/text-submission-api/internal/core/domain"
	"github.com/actowiz/text-submission-api/internal/core/ports"
)

type SubmissionService struct {
	submissions ports.SubmissionRepository
	users       ports.UserRepository
	notifier    ports.SubmissionNotifier
	log         zerolog.Logger
}

func NewSubmissionService(
	submissions ports.SubmissionRepository,
	users ports.UserRepository,
	notifier ports.SubmissionNotifier,
	log zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		submissions: submissions,
		users:       users,
		notifier:    notifier,
		log:         log,
	}
}

// Submit persists text on behalf of principal and then notifies real-time
// listeners. Nothing is announced unless the insert succeeded.
func (s *SubmissionService) Submit(ctx context.Context, principal domain.Principal, text string) (*domain.TextSubmission, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", domain.ErrValidation)
	}

	owner, err := s.users.FindByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return nil, domain.ErrUnknownPrincipal
		}
		return nil, fmt.Errorf("load owner: %w", err)
	}

	submission := &domain.TextSubmission{UserID: owner.ID, Text: text}
	if err := s.submissions.Create(ctx, submission); err != nil {
		s.log.Error().Err(err).Str("user_id", owner.ID).Msg("failed to create submission")
		return nil, err
	}

	s.notifier.Notify(domain.SubmissionEvent{
		Username:       owner.Email,
		SubmissionTime: submission.CreatedAt,
		SubmittedText:  submission.Text,
	})

	s.log.Info().Str("submission_id", submission.ID).Str("user_id", owner.ID).Msg("submission created")
	return submission, nil
}

func (s *SubmissionService) ListSubmissions(ctx context.Context) ([]*domain.SubmissionView, error) {
	return s.submissions.ListWithOwners(ctx)
}
