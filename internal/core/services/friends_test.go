package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkup/internal/core/domain"
	"linkup/internal/core/services"
	"linkup/internal/platform/logger"
)

func newFriendService(tx *fakeTx) (*services.FriendService, *fakeFriendRepo, *fakeRegistry) {
	repo := newFakeFriendRepo()
	registry := &fakeRegistry{}
	notifications := services.NewNotificationService(logger.Discard(), &fakeNotificationRepo{}, registry, newFakeCache(), tx)
	svc := services.NewFriendService(logger.Discard(), repo, notifications, registry, tx)
	return svc, repo, registry
}

func TestSendRequestPublishesToReceiverOnly(t *testing.T) {
	svc, repo, registry := newFriendService(&fakeTx{})
	actor := domain.Identity{UserID: uuid.New(), Username: "alice"}
	receiver := uuid.New()

	created, err := svc.SendRequest(context.Background(), actor, receiver)
	require.NoError(t, err)
	assert.Equal(t, domain.FriendPending, created.Status)
	assert.Len(t, repo.rows, 1)

	friendCalls := registry.publishesTo(domain.FriendTopic(receiver))
	require.Len(t, friendCalls, 1)
	event, ok := friendCalls[0].payload.(domain.FriendEvent)
	require.True(t, ok)
	assert.Equal(t, domain.FriendPending, event.FriendStatus)
	assert.Equal(t, actor.UserID, event.UserID)

	// The sender never gets a republish of their own action.
	assert.Empty(t, registry.publishesTo(domain.FriendTopic(actor.UserID)))

	// A friend request also lands in the receiver's notification feed.
	notifCalls := registry.publishesTo(domain.NotificationTopic(receiver))
	require.Len(t, notifCalls, 1)
}

func TestSendRequestRejectsSelf(t *testing.T) {
	svc, repo, registry := newFriendService(&fakeTx{})
	actor := domain.Identity{UserID: uuid.New(), Username: "alice"}

	_, err := svc.SendRequest(context.Background(), actor, actor.UserID)
	require.ErrorIs(t, err, domain.ErrValidationFailed)
	assert.Empty(t, repo.rows)
	assert.Empty(t, registry.publishes)
}

func TestSendRequestDuplicateFails(t *testing.T) {
	svc, _, _ := newFriendService(&fakeTx{})
	actor := domain.Identity{UserID: uuid.New(), Username: "alice"}
	receiver := uuid.New()

	_, err := svc.SendRequest(context.Background(), actor, receiver)
	require.NoError(t, err)
	_, err = svc.SendRequest(context.Background(), actor, receiver)
	require.ErrorIs(t, err, domain.ErrFriendshipExists)
}

func TestAcceptNotifiesOriginalSender(t *testing.T) {
	svc, _, registry := newFriendService(&fakeTx{})
	sender := domain.Identity{UserID: uuid.New(), Username: "alice"}
	receiver := domain.Identity{UserID: uuid.New(), Username: "bob"}
	_, err := svc.SendRequest(context.Background(), sender, receiver.UserID)
	require.NoError(t, err)

	updated, err := svc.Accept(context.Background(), receiver, sender.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.FriendAccepted, updated.Status)

	calls := registry.publishesTo(domain.FriendTopic(sender.UserID))
	require.Len(t, calls, 1)
	event := calls[0].payload.(domain.FriendEvent)
	assert.Equal(t, domain.FriendAccepted, event.FriendStatus)
	assert.Equal(t, receiver.UserID, event.UserID)

	// The accepting side acted; only the pending-request publish from
	// SendRequest targets them, never an echo of their own accept.
	assert.Len(t, registry.publishesTo(domain.FriendTopic(receiver.UserID)), 1)
}

func TestChangeStatusFailureSuppressesPublish(t *testing.T) {
	svc, _, registry := newFriendService(&fakeTx{err: errors.New("unavailable")})
	actor := domain.Identity{UserID: uuid.New(), Username: "bob"}

	_, err := svc.Accept(context.Background(), actor, uuid.New())
	require.Error(t, err)
	assert.Empty(t, registry.publishes)
}

func TestCancelRequestPublishesNone(t *testing.T) {
	txOK := &fakeTx{}
	svc, _, registry := newFriendService(txOK)
	actor := domain.Identity{UserID: uuid.New(), Username: "alice"}
	receiver := uuid.New()
	_, err := svc.SendRequest(context.Background(), actor, receiver)
	require.NoError(t, err)

	require.NoError(t, svc.CancelRequest(context.Background(), actor, receiver))

	calls := registry.publishesTo(domain.FriendTopic(receiver))
	require.Len(t, calls, 2)
	event := calls[1].payload.(domain.FriendEvent)
	assert.Equal(t, services.FriendStatusNone, event.FriendStatus)
}

func TestStatusMapsMissingRowToNone(t *testing.T) {
	svc, _, _ := newFriendService(&fakeTx{})

	status, err := svc.Status(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, services.FriendStatusNone, status)
}
