package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/user-table-api/internal/models"
	appErrors "github.com/noah-isme/user-table-api/pkg/errors"
)

// userAPI is the remote data collaborator. Implementations do not echo records back.
type userAPI interface {
	FetchAll(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, user models.User) error
	Update(ctx context.Context, id int, patch models.UserPatch) error
	Delete(ctx context.Context, id int) error
	DeleteMany(ctx context.Context, ids []int) error
}

type callKind int

const (
	callUpdate callKind = iota
	callDelete
)

type inflightCall struct {
	kind   callKind
	patch  models.UserPatch
	cancel context.CancelFunc
}

// UserStore owns the canonical user list of one table. Mutations are pessimistic:
// the remote call must succeed before the local list changes.
type UserStore struct {
	api     userAPI
	logger  *zap.Logger
	metrics *MetricsService

	mu       sync.RWMutex
	users    []models.User
	loading  bool
	loadErr  error
	inflight map[int][]*inflightCall
	// pending holds lower-cased e-mails claimed by creates and updates still in flight.
	pending map[string]int
}

// NewUserStore creates an empty store backed by api.
func NewUserStore(api userAPI, logger *zap.Logger, metrics *MetricsService) *UserStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserStore{
		api:      api,
		logger:   logger,
		metrics:  metrics,
		inflight: make(map[int][]*inflightCall),
		pending:  make(map[string]int),
	}
}

// Load replaces the list with the remote one. On failure the list is left empty.
func (s *UserStore) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.loadErr = nil
	s.mu.Unlock()

	start := time.Now()
	users, err := s.api.FetchAll(ctx)
	s.metrics.ObserveRemoteCall("fetch_all", time.Since(start))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.users = nil
		s.loadErr = err
		s.logger.Warn("user load failed", zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrLoadFailed.Code, appErrors.ErrLoadFailed.Status, appErrors.ErrLoadFailed.Message)
	}
	s.users = users
	s.logger.Debug("users loaded", zap.Int("count", len(users)))
	return nil
}

// Loading reports whether a load is in progress.
func (s *UserStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LoadError returns the last load failure, if any.
func (s *UserStore) LoadError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Snapshot returns a copy of the current list.
func (s *UserStore) Snapshot() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

// Find returns a copy of the user with id.
func (s *UserStore) Find(id int) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.users[i], true
	}
	return models.User{}, false
}

// NextID returns max(id)+1, or 1 for an empty store.
func (s *UserStore) NextID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.NextUserID(s.users)
}

// EmailTaken reports whether another user (not exceptID) already has email.
func (s *UserStore) EmailTaken(email string, exceptID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.emailTakenLocked(email, exceptID)
}

func (s *UserStore) emailTakenLocked(email string, exceptID int) bool {
	email = strings.TrimSpace(email)
	for _, u := range s.users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

// reserveEmail claims email for owner until release is called. It fails with CONFLICT when
// another user has the address or another in-flight call already claimed it. Owner 0 is a
// create and never shares a claim.
func (s *UserStore) reserveEmail(email string, owner int) (func(), error) {
	key := strings.ToLower(strings.TrimSpace(email))
	s.mu.Lock()
	defer s.mu.Unlock()
	if claimant, ok := s.pending[key]; (ok && (claimant != owner || owner == 0)) || s.emailTakenLocked(email, owner) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already in use")
	}
	s.pending[key] = owner
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.pending[key] == owner {
			delete(s.pending, key)
		}
	}, nil
}

// Add creates user remotely and prepends it. If another add claimed the id meanwhile,
// the user is renumbered so ids stay unique. The e-mail is claimed before the remote call,
// so concurrent adds of one address cannot both succeed. The stored user is returned.
func (s *UserStore) Add(ctx context.Context, user models.User) (models.User, error) {
	release, err := s.reserveEmail(user.Email, 0)
	if err != nil {
		return models.User{}, err
	}
	defer release()

	if err := s.call(ctx, "create", func(ctx context.Context) error { return s.api.Create(ctx, user) }); err != nil {
		return models.User{}, mutationError(err, "failed to create user")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(user.ID) >= 0 {
		next := models.NextUserID(s.users)
		s.logger.Warn("user id already taken, renumbering", zap.Int("user_id", user.ID), zap.Int("new_id", next))
		user.ID = next
	}
	s.users = append([]models.User{user}, s.users...)
	return user, nil
}

// Update merges patch into the user with id. A missing id is not an error.
// A Delete of the same id, or a newer Update touching any of the same fields, cancels this call.
func (s *UserStore) Update(ctx context.Context, id int, patch models.UserPatch) error {
	if patch.Email != nil {
		release, err := s.reserveEmail(*patch.Email, id)
		if err != nil {
			return err
		}
		defer release()
	}
	ctx, done := s.track(ctx, id, callUpdate, patch)
	defer done()

	if err := s.call(ctx, "update", func(ctx context.Context) error { return s.api.Update(ctx, id, patch) }); err != nil {
		return mutationError(err, "failed to update user")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.users[i] = patch.Apply(s.users[i])
	}
	return nil
}

// ToggleStatus flips active/inactive for id. The target status is decided when the call starts.
func (s *UserStore) ToggleStatus(ctx context.Context, id int) error {
	user, ok := s.Find(id)
	if !ok {
		return nil
	}
	next := user.Status.Toggled()
	return s.Update(ctx, id, models.UserPatch{Status: &next})
}

// Delete removes the user with id. A missing id is not an error.
func (s *UserStore) Delete(ctx context.Context, id int) error {
	s.cancelInflight(id)
	ctx, done := s.track(ctx, id, callDelete, models.UserPatch{})
	defer done()

	if err := s.call(ctx, "delete", func(ctx context.Context) error { return s.api.Delete(ctx, id) }); err != nil {
		return mutationError(err, "failed to delete user")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.users = append(s.users[:i:i], s.users[i+1:]...)
	}
	return nil
}

// DeleteMany removes every user in ids; unknown ids are ignored.
func (s *UserStore) DeleteMany(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	for _, id := range ids {
		s.cancelInflight(id)
	}

	if err := s.call(ctx, "delete_many", func(ctx context.Context) error { return s.api.DeleteMany(ctx, ids) }); err != nil {
		return mutationError(err, "failed to delete users")
	}

	drop := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		if _, ok := drop[u.ID]; !ok {
			kept = append(kept, u)
		}
	}
	s.users = kept
	return nil
}

func (s *UserStore) call(ctx context.Context, op string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	s.metrics.ObserveRemoteCall(op, time.Since(start))
	s.metrics.RecordMutation(op, err)
	if err != nil {
		s.logger.Warn("user mutation failed", zap.String("op", op), zap.Error(err))
	}
	return err
}

// track registers an outstanding call for id. An Update supersedes earlier Updates of the
// same id whose patches share a field; disjoint patches such as a status toggle and an
// edit save both commit.
func (s *UserStore) track(ctx context.Context, id int, kind callKind, patch models.UserPatch) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	entry := &inflightCall{kind: kind, patch: patch, cancel: cancel}

	s.mu.Lock()
	if kind == callUpdate {
		for _, prev := range s.inflight[id] {
			if prev.kind == callUpdate && prev.patch.Overlaps(patch) {
				prev.cancel()
			}
		}
	}
	s.inflight[id] = append(s.inflight[id], entry)
	s.mu.Unlock()

	return ctx, func() {
		cancel()
		s.mu.Lock()
		defer s.mu.Unlock()
		calls := s.inflight[id]
		for i, c := range calls {
			if c == entry {
				calls = append(calls[:i], calls[i+1:]...)
				break
			}
		}
		if len(calls) == 0 {
			delete(s.inflight, id)
		} else {
			s.inflight[id] = calls
		}
	}
}

func (s *UserStore) cancelInflight(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.inflight[id] {
		c.cancel()
	}
}

func (s *UserStore) indexOf(id int) int {
	for i, u := range s.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func mutationError(err error, message string) error {
	if errors.Is(err, context.Canceled) {
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, message+": superseded by a newer request")
	}
	return appErrors.Wrap(err, appErrors.ErrMutationFailed.Code, appErrors.ErrMutationFailed.Status, message)
}
