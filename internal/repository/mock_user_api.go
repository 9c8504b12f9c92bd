package repository

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/user-table-api/internal/models"
)

// ErrSimulatedFailure is returned when the mock injects a remote failure.
var ErrSimulatedFailure = errors.New("simulated remote failure")

// MockUserAPIConfig tunes latency, data volume and failure injection of the mock backend.
type MockUserAPIConfig struct {
	UserCount         int
	Seed              int64
	FetchLatency      time.Duration
	CreateLatency     time.Duration
	UpdateLatency     time.Duration
	DeleteLatency     time.Duration
	DeleteManyLatency time.Duration
	FailureRate       float64
	Now               func() time.Time
}

// MockUserAPI simulates the remote user endpoints. It does not echo server-side fields,
// so callers apply mutations locally once a call returns nil.
type MockUserAPI struct {
	cfg    MockUserAPIConfig
	logger *zap.Logger

	mu      sync.Mutex
	failRng *rand.Rand
}

// NewMockUserAPI constructs the mock backend.
func NewMockUserAPI(cfg MockUserAPIConfig, logger *zap.Logger) *MockUserAPI {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.UserCount < 0 {
		cfg.UserCount = 0
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &MockUserAPI{
		cfg:     cfg,
		logger:  logger,
		failRng: rand.New(rand.NewSource(cfg.Seed + 1)),
	}
}

// FetchAll returns the seeded user list after the fetch latency.
func (m *MockUserAPI) FetchAll(ctx context.Context) ([]models.User, error) {
	if err := m.roundTrip(ctx, "fetch_all", m.cfg.FetchLatency); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(m.cfg.Seed))
	return GenerateUsers(rng, m.cfg.UserCount, m.cfg.Now()), nil
}

// Create accepts a new user.
func (m *MockUserAPI) Create(ctx context.Context, user models.User) error {
	return m.roundTrip(ctx, "create", m.cfg.CreateLatency, zap.Int("user_id", user.ID))
}

// Update accepts a partial update.
func (m *MockUserAPI) Update(ctx context.Context, id int, _ models.UserPatch) error {
	return m.roundTrip(ctx, "update", m.cfg.UpdateLatency, zap.Int("user_id", id))
}

// Delete accepts a single deletion.
func (m *MockUserAPI) Delete(ctx context.Context, id int) error {
	return m.roundTrip(ctx, "delete", m.cfg.DeleteLatency, zap.Int("user_id", id))
}

// DeleteMany accepts a bulk deletion.
func (m *MockUserAPI) DeleteMany(ctx context.Context, ids []int) error {
	return m.roundTrip(ctx, "delete_many", m.cfg.DeleteManyLatency, zap.Ints("user_ids", ids))
}

func (m *MockUserAPI) roundTrip(ctx context.Context, op string, latency time.Duration, fields ...zap.Field) error {
	if err := sleep(ctx, latency); err != nil {
		return err
	}
	if m.shouldFail() {
		m.logger.Debug("mock api failure injected", append(fields, zap.String("op", op))...)
		return ErrSimulatedFailure
	}
	m.logger.Debug("mock api call", append(fields, zap.String("op", op), zap.Duration("latency", latency))...)
	return nil
}

func (m *MockUserAPI) shouldFail() bool {
	if m.cfg.FailureRate <= 0 {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failRng.Float64() < m.cfg.FailureRate
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
