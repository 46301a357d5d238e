package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nutratech/prf-api/internal/models"
)

// mailSender is the delivery dependency of the dispatcher. Satisfied by
// pkg/mailer.SMTPMailer in production and by stubs in tests.
type mailSender interface {
	Send(to, subject, htmlBody string) error
	Verify() error
}

// mailMetrics records delivery outcomes. Satisfied by MetricsService.
type mailMetrics interface {
	RecordMailSent(event string, success bool)
}

type noopMailMetrics struct{}

func (noopMailMetrics) RecordMailSent(string, bool) {}

// NotificationService composes and delivers workflow mail. Delivery failures
// are logged and counted, never returned: a dead mail server must not block
// or roll back an approval that already committed.
type NotificationService struct {
	sender      mailSender
	metrics     mailMetrics
	logger      *zap.Logger
	sendTimeout time.Duration
}

// NotificationServiceOption configures the service.
type NotificationServiceOption func(*NotificationService)

// WithMailMetrics wires a delivery-outcome recorder.
func WithMailMetrics(m mailMetrics) NotificationServiceOption {
	return func(s *NotificationService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithSendTimeout bounds how long a detached dispatch may run.
func WithSendTimeout(d time.Duration) NotificationServiceOption {
	return func(s *NotificationService) {
		if d > 0 {
			s.sendTimeout = d
		}
	}
}

// NewNotificationService constructs the dispatcher.
func NewNotificationService(sender mailSender, logger *zap.Logger, opts ...NotificationServiceOption) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &NotificationService{
		sender:      sender,
		metrics:     noopMailMetrics{},
		logger:      logger,
		sendTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// Verify performs the SMTP handshake without sending mail. Called at startup
// so a misconfigured transport surfaces immediately instead of on the first
// approval.
func (s *NotificationService) Verify() error {
	return s.sender.Verify()
}

// Notify composes and sends one message. A recipient with no email address is
// a skip, not an error: chain slots are legitimately unassigned. The only
// error ever returned is a template rendering failure, which indicates a bug
// rather than a transport problem; callers treat it the same as a send
// failure.
func (s *NotificationService) Notify(ctx context.Context, n models.Notification) error {
	if n.To.Email == "" {
		s.logger.Info("skipping notification: recipient has no email",
			zap.String("event", string(n.Event)),
			zap.String("recipient", n.To.Name),
			zap.String("prfNo", n.Data.PrfNo))
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	subject, body, err := renderMail(n.Event, n.Data)
	if err != nil {
		s.metrics.RecordMailSent(string(n.Event), false)
		return err
	}

	if err := s.sender.Send(n.To.Email, subject, body); err != nil {
		s.metrics.RecordMailSent(string(n.Event), false)
		return err
	}

	s.metrics.RecordMailSent(string(n.Event), true)
	s.logger.Info("notification sent",
		zap.String("event", string(n.Event)),
		zap.String("to", n.To.Email),
		zap.String("prfNo", n.Data.PrfNo))
	return nil
}

// SendAll delivers a batch in order, continuing past individual failures.
// Order matters: the requestor's progress update goes out before the next
// approver's assignment so the two reads coherently on the receiving side.
func (s *NotificationService) SendAll(ctx context.Context, batch []models.Notification) {
	for _, n := range batch {
		if err := s.Notify(ctx, n); err != nil {
			s.logger.Warn("notification delivery failed",
				zap.String("event", string(n.Event)),
				zap.String("to", n.To.Email),
				zap.String("prfNo", n.Data.PrfNo),
				zap.Error(err))
		}
	}
}

// Dispatch sends a batch on a detached goroutine. The caller's request
// context is deliberately not inherited: the business transaction has already
// committed, and mail must not be cancelled because the HTTP client hung up.
func (s *NotificationService) Dispatch(batch []models.Notification) {
	if len(batch) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.sendTimeout)
		defer cancel()
		s.SendAll(ctx, batch)
	}()
}
