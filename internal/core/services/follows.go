package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"linkup/internal/core/contracts"
	"linkup/internal/core/domain"
)

type FollowService struct {
	repo          domain.FollowRepository
	notifications *NotificationService
	tx            contracts.TxManager
	log           *slog.Logger
}

func NewFollowService(
	log *slog.Logger,
	repo domain.FollowRepository,
	notifications *NotificationService,
	tx contracts.TxManager,
) *FollowService {
	return &FollowService{
		log:           log,
		repo:          repo,
		notifications: notifications,
		tx:            tx,
	}
}

// Follow creates the edge and notifies the followee through the shared
// transactional-then-publish path.
func (s *FollowService) Follow(ctx context.Context, actor domain.Identity, followeeID uuid.UUID) error {
	if followeeID == uuid.Nil || followeeID == actor.UserID {
		return fmt.Errorf("%w: invalid followee", domain.ErrValidationFailed)
	}
	if err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		return s.repo.InsertFollow(txCtx, actor.UserID, followeeID)
	}); err != nil {
		s.log.ErrorContext(ctx, "follows - follow - insert failed", "actor", actor.UserID, "followee", followeeID, "err", err)
		return err
	}
	if _, err := s.notifications.Publish(ctx,
		domain.NotificationFollow,
		actor.Username+" started following you",
		followeeID,
		map[string]any{"from": actor.UserID.String()},
	); err != nil {
		s.log.WarnContext(ctx, "follows - follow - notification failed", "followee", followeeID, "err", err)
	}
	return nil
}

func (s *FollowService) Unfollow(ctx context.Context, actor domain.Identity, followeeID uuid.UUID) error {
	if followeeID == uuid.Nil {
		return fmt.Errorf("%w: invalid followee", domain.ErrValidationFailed)
	}
	if err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		return s.repo.DeleteFollow(txCtx, actor.UserID, followeeID)
	}); err != nil {
		s.log.ErrorContext(ctx, "follows - unfollow - delete failed", "actor", actor.UserID, "followee", followeeID, "err", err)
		return err
	}
	return nil
}
