package services

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"linkup/internal/core/contracts"
	"linkup/internal/core/domain"
)

type MessageService struct {
	messages      domain.MessageRepository
	profiles      domain.ProfileRepository
	conversations domain.ConversationRepository
	registry      contracts.Registry
	tx            contracts.TxManager
	log           *slog.Logger
}

func NewMessageService(
	log *slog.Logger,
	messages domain.MessageRepository,
	profiles domain.ProfileRepository,
	conversations domain.ConversationRepository,
	registry contracts.Registry,
	tx contracts.TxManager,
) *MessageService {
	return &MessageService{
		log:           log,
		messages:      messages,
		profiles:      profiles,
		conversations: conversations,
		registry:      registry,
		tx:            tx,
	}
}

// Send persists the message with the caller's verified identity as sender,
// never an id picked from the payload. The outbound event is built from the
// inserted row plus the sender's profile snapshot, and only after the commit
// is it published to both parties' private conversation topics, so a sender
// with several open sessions receives the echo through the same channel.
func (s *MessageService) Send(ctx context.Context, sender domain.Identity, in domain.SendMessageAction) (*domain.ConversationMessageEvent, error) {
	ctx, span := tracer.Start(ctx, "MessageService.Send", trace.WithAttributes(
		attribute.String("conversation_id", in.ConversationID.String()),
		attribute.String("sender.user_id", sender.UserID.String()),
	))
	defer span.End()

	if err := validation.ValidateStruct(&in,
		validation.Field(&in.ConversationID, validation.Required),
		validation.Field(&in.ReceiverID, validation.Required),
		validation.Field(&in.MessageContent, validation.Required, validation.Length(1, 5000)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidationFailed, err)
	}
	if in.ReceiverID == sender.UserID {
		return nil, fmt.Errorf("%w: cannot message yourself", domain.ErrValidationFailed)
	}

	var event *domain.ConversationMessageEvent
	if err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		if txErr := s.requireParticipant(txCtx, in.ConversationID, sender.UserID); txErr != nil {
			return txErr
		}
		inserted, txErr := s.messages.InsertMessage(txCtx, &domain.Message{
			ConversationID: in.ConversationID,
			SenderID:       sender.UserID,
			Content:        in.MessageContent,
			FileID:         in.FileID,
		})
		if txErr != nil {
			return txErr
		}
		avatarURL, txErr := s.profiles.GetAvatarURL(txCtx, sender.UserID)
		if txErr != nil {
			return txErr
		}
		event = &domain.ConversationMessageEvent{
			Type:           domain.TypeConversationMessage,
			ConversationID: in.ConversationID,
			MessageID:      inserted.ID,
			Sender: domain.MessageSender{
				UserID:    sender.UserID,
				Username:  sender.Username,
				AvatarURL: avatarURL,
			},
			MessageContent: inserted.Content,
			CreatedAt:      inserted.CreatedAt,
		}
		return nil
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		s.log.ErrorContext(ctx, "messages - send - insert failed", "conversation_id", in.ConversationID, "sender", sender.UserID, "err", err)
		return nil, err
	}

	s.registry.Publish(ctx, domain.ConversationTopic(sender.UserID), event, "")
	s.registry.Publish(ctx, domain.ConversationTopic(in.ReceiverID), event, "")
	s.log.InfoContext(ctx, "messages - send - published", "message_id", event.MessageID, "conversation_id", in.ConversationID)
	return event, nil
}

func (s *MessageService) List(ctx context.Context, actor domain.Identity, conversationID uuid.UUID, cursor *domain.Cursor) ([]domain.MessagePreview, error) {
	if conversationID == uuid.Nil {
		return nil, fmt.Errorf("%w: conversation id required", domain.ErrValidationFailed)
	}
	if err := s.requireParticipant(ctx, conversationID, actor.UserID); err != nil {
		return nil, err
	}
	return s.messages.ListMessages(ctx, conversationID, cursor, 10)
}

// requireParticipant gates every read or write against a conversation: the
// caller must be one of its two parties, regardless of what ids the payload
// claims.
func (s *MessageService) requireParticipant(ctx context.Context, conversationID, userID uuid.UUID) error {
	conv, err := s.conversations.GetConversationByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if conv.User1ID != userID && conv.User2ID != userID {
		return domain.ErrNotParticipant
	}
	return nil
}

// StartConversation finds or creates the conversation between two users.
func (s *MessageService) StartConversation(ctx context.Context, actor domain.Identity, otherID uuid.UUID) (*domain.Conversation, error) {
	if otherID == uuid.Nil || otherID == actor.UserID {
		return nil, fmt.Errorf("%w: invalid counterpart", domain.ErrValidationFailed)
	}
	var conv *domain.Conversation
	if err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		var txErr error
		conv, txErr = s.conversations.GetOrCreateConversation(txCtx, actor.UserID, otherID)
		return txErr
	}); err != nil {
		s.log.ErrorContext(ctx, "messages - start conversation - failed", "actor", actor.UserID, "other", otherID, "err", err)
		return nil, err
	}
	return conv, nil
}

func (s *MessageService) Conversations(ctx context.Context, userID uuid.UUID) ([]domain.ConversationPreview, error) {
	return s.conversations.ListConversations(ctx, userID)
}
