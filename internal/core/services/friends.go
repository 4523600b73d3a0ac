package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"linkup/internal/core/contracts"
	"linkup/internal/core/domain"
)

// FriendStatusNone is the wire value for "no friendship row exists".
const FriendStatusNone = "none"

type FriendService struct {
	repo          domain.FriendRepository
	notifications *NotificationService
	registry      contracts.Registry
	tx            contracts.TxManager
	log           *slog.Logger
}

func NewFriendService(
	log *slog.Logger,
	repo domain.FriendRepository,
	notifications *NotificationService,
	registry contracts.Registry,
	tx contracts.TxManager,
) *FriendService {
	return &FriendService{
		log:           log,
		repo:          repo,
		notifications: notifications,
		registry:      registry,
		tx:            tx,
	}
}

// SendRequest inserts a pending friendship row, publishes the status snapshot
// to the receiver's private friend topic and raises a notification for them.
func (s *FriendService) SendRequest(ctx context.Context, actor domain.Identity, receiverID uuid.UUID) (*domain.Friendship, error) {
	ctx, span := tracer.Start(ctx, "FriendService.SendRequest", trace.WithAttributes(
		attribute.String("actor.user_id", actor.UserID.String()),
		attribute.String("receiver.user_id", receiverID.String()),
	))
	defer span.End()

	if receiverID == uuid.Nil || receiverID == actor.UserID {
		return nil, fmt.Errorf("%w: invalid receiver", domain.ErrValidationFailed)
	}

	var created *domain.Friendship
	if err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		var txErr error
		created, txErr = s.repo.InsertRequest(txCtx, actor.UserID, receiverID)
		return txErr
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		s.log.ErrorContext(ctx, "friends - send request - insert failed", "actor", actor.UserID, "receiver", receiverID, "err", err)
		return nil, err
	}

	s.publishStatus(ctx, actor, created, created.Status)

	if _, err := s.notifications.Publish(ctx,
		domain.NotificationFriendRequest,
		actor.Username+" sent you a friend request",
		receiverID,
		map[string]any{"from": actor.UserID.String()},
	); err != nil {
		// The request itself committed; a lost notification is not fatal.
		s.log.WarnContext(ctx, "friends - send request - notification failed", "receiver", receiverID, "err", err)
	}
	return created, nil
}

func (s *FriendService) Accept(ctx context.Context, actor domain.Identity, otherID uuid.UUID) (*domain.Friendship, error) {
	return s.changeStatus(ctx, actor, otherID, domain.FriendAccepted)
}

func (s *FriendService) Reject(ctx context.Context, actor domain.Identity, otherID uuid.UUID) (*domain.Friendship, error) {
	return s.changeStatus(ctx, actor, otherID, domain.FriendRejected)
}

// CancelRequest removes a request the actor previously sent and tells the
// receiver the status is gone.
func (s *FriendService) CancelRequest(ctx context.Context, actor domain.Identity, receiverID uuid.UUID) error {
	var deleted *domain.Friendship
	if err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		var txErr error
		deleted, txErr = s.repo.DeleteRequest(txCtx, actor.UserID, receiverID)
		return txErr
	}); err != nil {
		s.log.ErrorContext(ctx, "friends - cancel request - delete failed", "actor", actor.UserID, "receiver", receiverID, "err", err)
		return err
	}
	s.publishStatus(ctx, actor, deleted, FriendStatusNone)
	return nil
}

func (s *FriendService) Status(ctx context.Context, userA, userB uuid.UUID) (string, error) {
	status, err := s.repo.GetStatus(ctx, userA, userB)
	if err == domain.ErrFriendshipNotFound {
		return FriendStatusNone, nil
	}
	return status, err
}

func (s *FriendService) ListPending(ctx context.Context, userID uuid.UUID, cursor *domain.Cursor) ([]domain.FriendPreview, error) {
	return s.repo.ListPending(ctx, userID, cursor, 10)
}

func (s *FriendService) ListSent(ctx context.Context, userID uuid.UUID, cursor *domain.Cursor) ([]domain.FriendPreview, error) {
	return s.repo.ListSent(ctx, userID, cursor, 10)
}

func (s *FriendService) changeStatus(ctx context.Context, actor domain.Identity, otherID uuid.UUID, status string) (*domain.Friendship, error) {
	ctx, span := tracer.Start(ctx, "FriendService.changeStatus", trace.WithAttributes(
		attribute.String("friend.status", status),
	))
	defer span.End()

	if otherID == uuid.Nil || otherID == actor.UserID {
		return nil, fmt.Errorf("%w: invalid counterpart", domain.ErrValidationFailed)
	}

	var updated *domain.Friendship
	if err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		var txErr error
		updated, txErr = s.repo.UpdateStatus(txCtx, actor.UserID, otherID, status)
		return txErr
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		s.log.ErrorContext(ctx, "friends - change status - update failed", "actor", actor.UserID, "other", otherID, "status", status, "err", err)
		return nil, err
	}

	s.publishStatus(ctx, actor, updated, status)
	return updated, nil
}

// publishStatus notifies the party that did not act. The actor never receives
// a republish of their own action.
func (s *FriendService) publishStatus(ctx context.Context, actor domain.Identity, f *domain.Friendship, status string) {
	otherID := f.SenderID
	if otherID == actor.UserID {
		otherID = f.ReceiverID
	}
	if otherID == actor.UserID {
		return
	}
	s.registry.Publish(ctx, domain.FriendTopic(otherID), domain.FriendEvent{
		Type:         domain.TypeFriend,
		FriendID:     f.ID,
		FriendStatus: status,
		UserID:       actor.UserID,
		UpdatedAt:    f.UpdatedAt,
	}, "")
}
