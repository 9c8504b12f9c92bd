package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/user-table-api/pkg/errors"
)

// SessionRegistry owns every open table session and expires idle ones.
type SessionRegistry struct {
	deps    TableDeps
	ttl     time.Duration
	logger  *zap.Logger
	metrics *MetricsService
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*TableService

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewSessionRegistry builds a registry. A non-positive ttl disables expiry.
func NewSessionRegistry(deps TableDeps, ttl time.Duration) *SessionRegistry {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &SessionRegistry{
		deps:     deps,
		ttl:      ttl,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
		now:      deps.Now,
		sessions: make(map[string]*TableService),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Create opens a session and loads its users. A load failure is returned alongside the
// session, which stays registered so the client can render the error and retry.
func (r *SessionRegistry) Create(ctx context.Context) (*TableService, error) {
	session := NewTableService(uuid.NewString(), r.deps)

	r.mu.Lock()
	r.sessions[session.ID()] = session
	r.mu.Unlock()
	r.metrics.SessionOpened()
	r.logger.Info("table session opened", zap.String("table_id", session.ID()))

	return session, session.Load(ctx)
}

// Get returns the session with id.
func (r *SessionRegistry) Get(id string) (*TableService, error) {
	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, appErrors.ErrSessionNotFound
	}
	return session, nil
}

// Delete closes the session with id.
func (r *SessionRegistry) Delete(id string) error {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return appErrors.ErrSessionNotFound
	}
	r.metrics.SessionClosed()
	r.logger.Info("table session closed", zap.String("table_id", id))
	return nil
}

// Len returns the number of open sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Expire closes sessions idle for longer than the ttl and returns how many were closed.
func (r *SessionRegistry) Expire() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var expired []string
	for id, session := range r.sessions {
		if session.LastSeen().Before(cutoff) {
			expired = append(expired, id)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, id := range expired {
		r.metrics.SessionClosed()
		r.logger.Info("table session expired", zap.String("table_id", id))
	}
	return len(expired)
}

// StartJanitor expires idle sessions every interval until ctx ends or Stop is called.
func (r *SessionRegistry) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 || r.ttl <= 0 {
		close(r.done)
		return
	}
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-r.stop:
				return
			case <-ticker.C:
				r.Expire()
			}
		}
	}()
}

// Stop halts the janitor and waits for it to exit. StartJanitor must have been called.
func (r *SessionRegistry) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
	<-r.done
}
