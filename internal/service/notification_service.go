package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/user-table-api/internal/models"
	"github.com/noah-isme/user-table-api/pkg/jobs"
)

const jobKindWelcomeEmail = "welcome_email"

// WelcomeEmail is the payload of a welcome e-mail job.
type WelcomeEmail struct {
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Mailer delivers welcome e-mails.
type Mailer interface {
	SendWelcome(ctx context.Context, msg WelcomeEmail) error
}

// LogMailer stands in for a real mail gateway and only logs deliveries.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer builds a LogMailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger}
}

// SendWelcome logs the message.
func (m *LogMailer) SendWelcome(_ context.Context, msg WelcomeEmail) error {
	m.logger.Info("welcome email sent", zap.Int("user_id", msg.UserID), zap.String("email", msg.Email))
	return nil
}

// NotificationConfig sizes the delivery worker pool.
type NotificationConfig struct {
	Workers    int
	Retries    int
	RetryDelay time.Duration
}

// NotificationService queues welcome e-mails for background delivery.
type NotificationService struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewNotificationService wires mailer behind an in-memory job queue.
func NewNotificationService(mailer Mailer, cfg NotificationConfig, logger *zap.Logger, metrics *MetricsService) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := func(ctx context.Context, job jobs.Job) error {
		msg, ok := job.Payload.(WelcomeEmail)
		if !ok {
			return fmt.Errorf("unexpected payload %T", job.Payload)
		}
		return mailer.SendWelcome(ctx, msg)
	}
	queue := jobs.NewQueue("notifications", handler, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: 64,
		MaxRetries: cfg.Retries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
		OnResult: func(_ jobs.Job, err error) {
			metrics.RecordNotification(err)
		},
	})
	return &NotificationService{queue: queue, logger: logger}
}

// Start launches the delivery workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop waits for the workers to exit.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// SendWelcome enqueues a welcome e-mail for user.
func (s *NotificationService) SendWelcome(user models.User) error {
	id, err := s.queue.Enqueue(jobs.Job{
		Kind:    jobKindWelcomeEmail,
		Payload: WelcomeEmail{UserID: user.ID, Name: user.Name, Email: user.Email},
	})
	if err != nil {
		return fmt.Errorf("enqueue welcome email: %w", err)
	}
	s.logger.Debug("welcome email queued", zap.String("job_id", id), zap.Int("user_id", user.ID))
	return nil
}
