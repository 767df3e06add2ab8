package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/actowiz/text-submission-api/internal/core/domain"
	"github.com/actowiz/text-submission-api/internal/core/ports"
)

// UserService implements the user administration use case.
type UserService struct {
	users       ports.UserRepository
	submissions ports.SubmissionRepository
	log         zerolog.Logger
	now         func() time.Time
}

func NewUserService(users ports.UserRepository, submissions ports.SubmissionRepository, log zerolog.Logger) *UserService {
	return &UserService{
		users:       users,
		submissions: submissions,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// UpdateRole changes the target's role. An admin acting on their own account
// may only keep the admin role.
func (s *UserService) UpdateRole(ctx context.Context, actor domain.Principal, targetID, rawRole string) (*ports.RoleChange, error) {
	role, err := domain.ParseRole(rawRole)
	if err != nil {
		return nil, err
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if actor.Is(target.ID) && target.Role == domain.RoleAdmin && role != domain.RoleAdmin {
		return nil, domain.ErrSelfDemotion
	}

	if err := s.users.UpdateRole(ctx, target.ID, role, s.now()); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	s.log.Info().
		Str("actor", actor.ID).
		Str("target", target.ID).
		Str("from", string(target.Role)).
		Str("to", string(role)).
		Msg("user role updated")

	return &ports.RoleChange{ID: target.ID, Email: target.Email, Role: role}, nil
}

// DeleteUser removes the target account. The target's submissions are left in
// place.
func (s *UserService) DeleteUser(ctx context.Context, actor domain.Principal, targetID string) error {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return err
	}

	if actor.Is(target.ID) {
		return domain.ErrSelfDeletion
	}

	if err := s.users.Delete(ctx, target.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.log.Info().Str("actor", actor.ID).Str("target", target.ID).Msg("user deleted")
	return nil
}

// Statistics runs the three counts concurrently and waits for all of them.
func (s *UserService) Statistics(ctx context.Context) (*domain.Statistics, error) {
	var stats domain.Statistics
	since := s.now().Add(-domain.ActiveWindow)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.users.Count(gctx)
		if err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		stats.TotalUsers = n
		return nil
	})
	g.Go(func() error {
		n, err := s.submissions.Count(gctx)
		if err != nil {
			return fmt.Errorf("count submissions: %w", err)
		}
		stats.TextSubmissions = n
		return nil
	})
	g.Go(func() error {
		n, err := s.users.CountUpdatedSince(gctx, since)
		if err != nil {
			return fmt.Errorf("count active users: %w", err)
		}
		stats.ActiveSessions = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
