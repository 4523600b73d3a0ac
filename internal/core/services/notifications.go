package services

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"linkup/internal/core/contracts"
	"linkup/internal/core/domain"
)

var tracer = otel.Tracer("gateway")

// NotificationService is the single place a domain action becomes a persisted
// notification row plus a topic publish. Every REST handler that needs to
// notify someone goes through Publish rather than duplicating the
// transactional-then-publish sequence.
type NotificationService struct {
	repo     domain.NotificationRepository
	registry contracts.Registry
	cache    contracts.UnreadCountCache
	tx       contracts.TxManager
	log      *slog.Logger
}

func NewNotificationService(
	log *slog.Logger,
	repo domain.NotificationRepository,
	registry contracts.Registry,
	cache contracts.UnreadCountCache,
	tx contracts.TxManager,
) *NotificationService {
	return &NotificationService{
		log:      log,
		repo:     repo,
		registry: registry,
		cache:    cache,
		tx:       tx,
	}
}

// Publish inserts the notification inside a transaction and, once the commit
// succeeds, publishes the created row to the recipient's private topic. The
// publish happens even when the actor notifies themselves: the recipient may
// have only the socket open.
func (s *NotificationService) Publish(
	ctx context.Context,
	typ, content string,
	targetUserID uuid.UUID,
	metadata map[string]any,
) (*domain.Notification, error) {
	ctx, span := tracer.Start(ctx, "NotificationService.Publish", trace.WithAttributes(
		attribute.String("notification.type", typ),
		attribute.String("target.user_id", targetUserID.String()),
	))
	defer span.End()

	if err := validation.Validate(typ, validation.Required); err != nil {
		return nil, fmt.Errorf("%w: type: %v", domain.ErrValidationFailed, err)
	}
	if err := validation.Validate(content, validation.Required, validation.Length(1, 2000)); err != nil {
		return nil, fmt.Errorf("%w: content: %v", domain.ErrValidationFailed, err)
	}
	if targetUserID == uuid.Nil {
		return nil, fmt.Errorf("%w: target user required", domain.ErrValidationFailed)
	}

	var created *domain.Notification
	if err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		var txErr error
		created, txErr = s.repo.InsertNotification(txCtx, &domain.Notification{
			Type:     typ,
			Content:  content,
			Metadata: metadata,
			UserID:   targetUserID,
		})
		return txErr
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		s.log.ErrorContext(ctx, "notifications - publish - insert failed", "type", typ, "target", targetUserID, "err", err)
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, targetUserID); err != nil {
		s.log.WarnContext(ctx, "notifications - publish - cache invalidate failed", "target", targetUserID, "err", err)
	}

	s.registry.Publish(ctx, domain.NotificationTopic(targetUserID), domain.NotificationEvent{
		Type:         domain.TypeNotification,
		Notification: *created,
	}, "")
	s.log.InfoContext(ctx, "notifications - publish - success", "notification_id", created.ID, "target", targetUserID)
	return created, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		return s.repo.MarkRead(txCtx, notificationID)
	}); err != nil {
		s.log.ErrorContext(ctx, "notifications - mark read - failed", "notification_id", notificationID, "err", err)
		return err
	}
	return s.cache.Invalidate(ctx, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		return s.repo.MarkAllRead(txCtx, userID)
	}); err != nil {
		s.log.ErrorContext(ctx, "notifications - mark all read - failed", "user_id", userID, "err", err)
		return err
	}
	return s.cache.Invalidate(ctx, userID)
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, cursor *domain.Cursor) ([]domain.Notification, error) {
	return s.repo.ListNotifications(ctx, userID, cursor, 10)
}

// UnreadCount serves the badge counter, preferring the cache.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	if count, ok, err := s.cache.Get(ctx, userID); err == nil && ok {
		return count, nil
	}
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Set(ctx, userID, count); err != nil {
		s.log.WarnContext(ctx, "notifications - unread count - cache set failed", "user_id", userID, "err", err)
	}
	return count, nil
}
