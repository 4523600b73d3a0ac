package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkup/internal/app/room"
	"linkup/internal/core/domain"
	"linkup/internal/core/services"
	"linkup/internal/platform/logger"
)

func newChatService() (*services.ChatService, *fakeRegistry, *fakeBlobStore, *fakePresence) {
	registry := &fakeRegistry{}
	blobs := &fakeBlobStore{}
	presence := newFakePresence()
	svc := services.NewChatService(logger.Discard(), room.NewStore(), registry, blobs, presence)
	return svc, registry, blobs, presence
}

func TestJoinBroadcastsThenSnapshotsNewcomer(t *testing.T) {
	svc, registry, _, presence := newChatService()
	alice := domain.RoomParticipant{UserID: uuid.New(), Username: "alice"}

	svc.Join(context.Background(), "conn-1", alice)

	broadcasts := registry.publishesTo(domain.TopicGlobalChat)
	require.Len(t, broadcasts, 1)
	userEvent := broadcasts[0].payload.(domain.RoomUserEvent)
	assert.Equal(t, domain.TypeUsersAdd, userEvent.Type)
	assert.Equal(t, alice.UserID, userEvent.User.UserID)

	require.Len(t, registry.sends, 2)
	roster := registry.sends[0].payload.(domain.RoomRosterEvent)
	assert.Equal(t, domain.TypeUsersSet, roster.Type)
	require.Len(t, roster.Users, 1)
	history := registry.sends[1].payload.(domain.RoomHistoryEvent)
	assert.Equal(t, domain.TypeMessagesSet, history.Type)
	assert.Empty(t, history.Messages)

	online, err := presence.GetOnlineUsers(context.Background(), domain.TopicGlobalChat)
	require.NoError(t, err)
	assert.Contains(t, online, alice.UserID.String())
}

func TestSayBroadcastsToOthersAndAcksSender(t *testing.T) {
	svc, registry, _, _ := newChatService()
	alice := domain.RoomParticipant{UserID: uuid.New(), Username: "alice"}
	svc.Join(context.Background(), "conn-1", alice)
	registry.publishes = nil
	registry.sends = nil

	require.NoError(t, svc.Say(context.Background(), "conn-1", alice, domain.ChatSayAction{Message: "hello room"}))

	broadcasts := registry.publishesTo(domain.TopicGlobalChat)
	require.Len(t, broadcasts, 1)
	assert.Equal(t, "conn-1", broadcasts[0].exclude)
	event := broadcasts[0].payload.(domain.RoomMessageEvent)
	assert.Equal(t, domain.TypeMessageAdd, event.Type)
	assert.Equal(t, "hello room", event.Message.Text)
	assert.False(t, event.Message.SentAt.IsZero())

	require.Len(t, registry.sends, 1)
	assert.Equal(t, "conn-1", registry.sends[0].connID)
	assert.Equal(t, broadcasts[0].payload, registry.sends[0].payload)
}

func TestSayRejectsEmptyMessage(t *testing.T) {
	svc, registry, _, _ := newChatService()
	alice := domain.RoomParticipant{UserID: uuid.New(), Username: "alice"}

	err := svc.Say(context.Background(), "conn-1", alice, domain.ChatSayAction{})
	require.ErrorIs(t, err, domain.ErrValidationFailed)
	assert.Empty(t, registry.publishes)
}

func TestLeaveAnnouncesWhileOthersRemain(t *testing.T) {
	svc, registry, _, _ := newChatService()
	alice := domain.RoomParticipant{UserID: uuid.New(), Username: "alice"}
	bob := domain.RoomParticipant{UserID: uuid.New(), Username: "bob"}
	svc.Join(context.Background(), "conn-1", alice)
	svc.Join(context.Background(), "conn-2", bob)
	registry.publishes = nil

	svc.Leave(context.Background(), alice)

	broadcasts := registry.publishesTo(domain.TopicGlobalChat)
	require.Len(t, broadcasts, 1)
	event := broadcasts[0].payload.(domain.RoomUserEvent)
	assert.Equal(t, domain.TypeUserRemove, event.Type)
	assert.Equal(t, alice.UserID, event.User.UserID)
}

func TestLastLeaveResetsRoomAndDeletesAttachments(t *testing.T) {
	svc, registry, blobs, presence := newChatService()
	alice := domain.RoomParticipant{UserID: uuid.New(), Username: "alice"}
	svc.Join(context.Background(), "conn-1", alice)
	attachment := "chat/att-1.png"
	require.NoError(t, svc.Say(context.Background(), "conn-1", alice, domain.ChatSayAction{Message: "see this", Attachment: &attachment}))
	registry.publishes = nil

	svc.Leave(context.Background(), alice)

	// No one is left to hear a USER_REMOVE.
	assert.Empty(t, registry.publishes)
	assert.Equal(t, []string{attachment}, blobs.deleted)
	assert.Equal(t, 1, presence.cleared)

	// The next joiner starts from an empty room.
	svc.Join(context.Background(), "conn-2", alice)
	history := registry.sends[len(registry.sends)-1].payload.(domain.RoomHistoryEvent)
	assert.Empty(t, history.Messages)
}
