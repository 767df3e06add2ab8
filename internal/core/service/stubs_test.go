package service

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/actowiz/text-submission-api/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	users   map[string]*domain.User
	seq     int
	failErr error // if set, every call returns this error

	updateCalls int
	deleteCalls int
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = cloneUser(u)
	}
	return r
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

// validID mirrors the ObjectID check of the real repository: ids in tests are
// short strings, anything containing a space is treated as malformed.
func validID(id string) bool {
	for _, c := range id {
		if c == ' ' {
			return false
		}
	}
	return id != ""
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	c := cloneUser(user)
	c.ID = "u" + strconv.Itoa(r.seq)
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	if !validID(id) {
		return nil, domain.ErrInvalidID
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id string, role domain.Role, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls++
	if r.failErr != nil {
		return r.failErr
	}
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	u.UpdatedAt = updatedAt
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteCalls++
	if r.failErr != nil {
		return r.failErr
	}
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return 0, r.failErr
	}
	return int64(len(r.users)), nil
}

func (r *stubUserRepo) CountUpdatedSince(_ context.Context, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return 0, r.failErr
	}
	var n int64
	for _, u := range r.users {
		if !u.UpdatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// In-memory submission repository
// ---------------------------------------------------------------------------

type stubSubmissionRepo struct {
	mu        sync.Mutex
	items     []*domain.TextSubmission
	users     *stubUserRepo
	createErr error
	countErr  error
	clock     func() time.Time
}

func newStubSubmissionRepo(users *stubUserRepo) *stubSubmissionRepo {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	return &stubSubmissionRepo{
		users: users,
		clock: func() time.Time {
			n++
			return base.Add(time.Duration(n) * time.Minute)
		},
	}
}

func (r *stubSubmissionRepo) Create(_ context.Context, s *domain.TextSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	s.ID = "s" + strconv.Itoa(len(r.items)+1)
	s.CreatedAt = r.clock()
	clone := *s
	r.items = append(r.items, &clone)
	return nil
}

func (r *stubSubmissionRepo) ListWithOwners(ctx context.Context) ([]*domain.SubmissionView, error) {
	r.mu.Lock()
	items := make([]*domain.TextSubmission, len(r.items))
	copy(items, r.items)
	r.mu.Unlock()

	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })

	out := make([]*domain.SubmissionView, 0, len(items))
	for _, s := range items {
		v := &domain.SubmissionView{TextSubmission: *s}
		if u, err := r.users.FindByID(ctx, s.UserID); err == nil {
			v.User = &domain.SubmissionOwner{ID: u.ID, Email: u.Email}
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *stubSubmissionRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countErr != nil {
		return 0, r.countErr
	}
	return int64(len(r.items)), nil
}

// ---------------------------------------------------------------------------
// Recording notifier
// ---------------------------------------------------------------------------

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.SubmissionEvent
}

func (n *recordingNotifier) Notify(e domain.SubmissionEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *recordingNotifier) Events() []domain.SubmissionEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.SubmissionEvent, len(n.events))
	copy(out, n.events)
	return out
}
