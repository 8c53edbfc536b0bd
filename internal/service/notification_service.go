package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/otakupedia/catalog-api/internal/models"
	appErrors "github.com/otakupedia/catalog-api/pkg/errors"
	"github.com/otakupedia/catalog-api/pkg/jobs"
)

type notificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, recipientID string) (int, error)
	MarkRead(ctx context.Context, id, recipientID string) (bool, error)
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
}

// NotificationService persists notifications and fans them out to the
// per-user redis channels that connected clients subscribe to. Delivery runs
// on a background queue so request paths never block on it.
type NotificationService struct {
	repo   notificationStore
	redis  *redis.Client
	logger *zap.Logger
	queue  *jobs.Queue
}

// NewNotificationService constructs the service and its delivery queue.
func NewNotificationService(repo notificationStore, redisClient *redis.Client, logger *zap.Logger, queueCfg jobs.QueueConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{repo: repo, redis: redisClient, logger: logger}
	if queueCfg.Logger == nil {
		queueCfg.Logger = logger
	}
	s.queue = jobs.NewQueue("notifications", s.deliver, queueCfg)
	return s
}

// Start begins background delivery workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the delivery workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// Notify queues a notification for delivery. Failures are logged rather than
// surfaced; notifications never fail the operation that triggered them.
func (s *NotificationService) Notify(ctx context.Context, n models.Notification) {
	if n.RecipientID == "" {
		return
	}
	if err := s.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: string(n.ActionType), Payload: n}); err != nil {
		s.logger.Warn("failed to enqueue notification",
			zap.String("recipient_id", n.RecipientID),
			zap.String("action", string(n.ActionType)),
			zap.Error(err))
	}
}

// NotifyAll fans one event out to several recipients.
func (s *NotificationService) NotifyAll(ctx context.Context, recipients []string, template models.Notification) {
	for _, recipient := range recipients {
		n := template
		n.ID = ""
		n.RecipientID = recipient
		s.Notify(ctx, n)
	}
}

func (s *NotificationService) deliver(ctx context.Context, job jobs.Job) error {
	n, ok := job.Payload.(models.Notification)
	if !ok {
		s.logger.Error("notification job carried unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	if err := s.repo.Create(ctx, &n); err != nil {
		return fmt.Errorf("persist notification: %w", err)
	}
	if s.redis != nil {
		payload, err := json.Marshal(n)
		if err == nil {
			channel := fmt.Sprintf("user_notifications:%s", n.RecipientID)
			if err := s.redis.Publish(ctx, channel, payload).Err(); err != nil {
				s.logger.Warn("failed to publish notification", zap.String("channel", channel), zap.Error(err))
			}
		}
	}
	return nil
}

// List returns the newest notifications for the authenticated user.
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, int, error) {
	notifications, err := s.repo.ListByRecipient(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	unread, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count notifications")
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, unread, nil
}

// MarkRead marks one notification as read for the authenticated user.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	ok, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notification read")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "notification not found")
	}
	return nil
}

// MarkAllRead marks every unread notification for the authenticated user.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	updated, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notifications read")
	}
	return updated, nil
}
