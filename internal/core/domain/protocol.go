package domain

import (
	"time"

	"github.com/google/uuid"
)

// Outbound event kinds. Every frame written to a socket carries one of these
// in its "type" field.
const (
	TypeNotification        = "notification"
	TypeFriend              = "friend"
	TypeConversationMessage = "conversation_message"
	TypeError               = "error"

	// Global chat room events.
	TypeUsersAdd    = "USERS_ADD"
	TypeUsersSet    = "USERS_SET"
	TypeMessageAdd  = "MESSAGE_ADD"
	TypeUserRemove  = "USER_REMOVE"
	TypeMessagesSet = "MESSAGES_SET"
)

// Inbound socket actions.
const (
	ActionConversationMessage = "conversation_message"
	ActionChatMessage         = "message"
)

// Shared broadcast topics.
const (
	TopicCentral    = "central"
	TopicGlobalChat = "global-chat"
)

// Per-user private topics. A connection subscribes to its own user's topics
// at handshake and never to another user's.

func NotificationTopic(userID uuid.UUID) string {
	return "private-notification:" + userID.String()
}

func ConversationTopic(userID uuid.UUID) string {
	return "private-conversation:" + userID.String()
}

func FriendTopic(userID uuid.UUID) string {
	return "private-friend:" + userID.String()
}

// InboundFrame is decoded first to pick the action; the action-specific
// payload is decoded in a second pass. Unknown actions are ignored.
type InboundFrame struct {
	Action string `json:"action"`
}

// SendMessageAction asks the gateway to persist and fan out a conversation
// message. The sender is always the connection's verified identity.
type SendMessageAction struct {
	ConversationID uuid.UUID  `json:"conversationId"`
	ReceiverID     uuid.UUID  `json:"receiverId"`
	MessageContent string     `json:"messageContent"`
	FileID         *uuid.UUID `json:"fileId,omitempty"`
}

// ChatSayAction is a global-chat broadcast. Attachment is an already-uploaded
// blob path carried by reference.
type ChatSayAction struct {
	Message    string  `json:"message"`
	Attachment *string `json:"attachment,omitempty"`
}

// NotificationEvent is published to the recipient's private notification topic.
type NotificationEvent struct {
	Type         string       `json:"type"`
	Notification Notification `json:"notification"`
}

// FriendEvent is a self-contained status snapshot published to the party that
// did not perform the action. Consumers must not rely on arrival order.
type FriendEvent struct {
	Type         string    `json:"type"`
	FriendID     uuid.UUID `json:"friendId"`
	FriendStatus string    `json:"friendStatus"`
	UserID       uuid.UUID `json:"userId"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// MessageSender is the profile snapshot embedded in a conversation message
// event, taken at send time.
type MessageSender struct {
	UserID    uuid.UUID `json:"userId"`
	Username  string    `json:"username"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
}

// ConversationMessageEvent is published to both parties' private conversation
// topics after the row commits. ID and CreatedAt are the persisted values.
type ConversationMessageEvent struct {
	Type           string        `json:"type"`
	ConversationID uuid.UUID     `json:"conversationId"`
	MessageID      uuid.UUID     `json:"messageId"`
	Sender         MessageSender `json:"sender"`
	MessageContent string        `json:"messageContent"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// RoomUserEvent announces one participant joining or leaving the room.
type RoomUserEvent struct {
	Type string          `json:"type"`
	User RoomParticipant `json:"user"`
}

// RoomRosterEvent carries the full participant list, sent once to a newcomer.
type RoomRosterEvent struct {
	Type  string            `json:"type"`
	Users []RoomParticipant `json:"users"`
}

// RoomMessageEvent carries one chat broadcast.
type RoomMessageEvent struct {
	Type    string      `json:"type"`
	Message RoomMessage `json:"message"`
}

// RoomHistoryEvent carries the room history, sent once to a newcomer.
type RoomHistoryEvent struct {
	Type     string        `json:"type"`
	Messages []RoomMessage `json:"messages"`
}

// ErrorEvent is sent back only to the acting connection.
type ErrorEvent struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
