package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"linkup/internal/core/contracts"
	"linkup/internal/core/domain"
)

const presenceTTL = 45 * time.Second

// ChatService runs the global chat room: ephemeral roster and history, no
// durable mutation anywhere on this path.
type ChatService struct {
	room     contracts.RoomStore
	registry contracts.Registry
	blobs    contracts.BlobStore
	presence contracts.PresenceStore
	log      *slog.Logger
}

func NewChatService(
	log *slog.Logger,
	room contracts.RoomStore,
	registry contracts.Registry,
	blobs contracts.BlobStore,
	presence contracts.PresenceStore,
) *ChatService {
	return &ChatService{
		log:      log,
		room:     room,
		registry: registry,
		blobs:    blobs,
		presence: presence,
	}
}

// Join adds the participant, announces them to the room, then sends the
// newcomer a one-time snapshot of the roster and history. The newcomer also
// sees their own USERS_ADD broadcast; that is fine since the snapshot is
// authoritative.
func (s *ChatService) Join(ctx context.Context, connID string, p domain.RoomParticipant) {
	ctx, span := tracer.Start(ctx, "ChatService.Join", trace.WithAttributes(
		attribute.String("user_id", p.UserID.String()),
	))
	defer span.End()

	s.room.AddParticipant(p)
	s.registry.Publish(ctx, domain.TopicGlobalChat, domain.RoomUserEvent{
		Type: domain.TypeUsersAdd,
		User: p,
	}, "")

	users, msgs := s.room.Snapshot()
	s.registry.Send(ctx, connID, domain.RoomRosterEvent{Type: domain.TypeUsersSet, Users: users})
	s.registry.Send(ctx, connID, domain.RoomHistoryEvent{Type: domain.TypeMessagesSet, Messages: msgs})

	if err := s.presence.UpdateOnlineStatus(ctx, domain.TopicGlobalChat, p.UserID.String(), presenceTTL); err != nil {
		s.log.WarnContext(ctx, "chat - join - presence update failed", "user_id", p.UserID, "err", err)
	}
	s.log.InfoContext(ctx, "chat - join - participant added", "user_id", p.UserID, "roster_size", len(users))
}

// Say appends the message to the room history, broadcasts it to everyone
// else and acknowledges the sender directly.
func (s *ChatService) Say(ctx context.Context, connID string, sender domain.RoomParticipant, in domain.ChatSayAction) error {
	if err := validation.Validate(in.Message, validation.Required, validation.Length(1, 2000)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidationFailed, err)
	}

	stored := s.room.AppendMessage(domain.RoomMessage{
		Sender:     sender,
		Text:       in.Message,
		Attachment: in.Attachment,
	})
	event := domain.RoomMessageEvent{Type: domain.TypeMessageAdd, Message: stored}
	s.registry.Publish(ctx, domain.TopicGlobalChat, event, connID)
	s.registry.Send(ctx, connID, event)
	return nil
}

// Leave removes the participant. While others remain they get a USER_REMOVE
// broadcast; when the last participant leaves there is no one to notify, so
// the room resets instead and the orphaned attachments are deleted. Blob
// deletion runs strictly after the synchronous roster mutation.
func (s *ChatService) Leave(ctx context.Context, p domain.RoomParticipant) {
	remaining, orphaned := s.room.RemoveParticipant(p.UserID)
	if remaining > 0 {
		s.registry.Publish(ctx, domain.TopicGlobalChat, domain.RoomUserEvent{
			Type: domain.TypeUserRemove,
			User: p,
		}, "")
	}
	for _, path := range orphaned {
		if err := s.blobs.Delete(ctx, path); err != nil {
			s.log.WarnContext(ctx, "chat - leave - attachment delete failed", "path", path, "err", err)
		}
	}
	if remaining == 0 {
		if err := s.presence.ClearChannel(ctx, domain.TopicGlobalChat); err != nil {
			s.log.WarnContext(ctx, "chat - leave - presence clear failed", "err", err)
		}
	}
	s.log.InfoContext(ctx, "chat - leave - participant removed", "user_id", p.UserID, "remaining", remaining)
}

// OnlineUsers surfaces the presence set for the room.
func (s *ChatService) OnlineUsers(ctx context.Context) ([]string, error) {
	return s.presence.GetOnlineUsers(ctx, domain.TopicGlobalChat)
}
