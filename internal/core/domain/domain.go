package domain

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the verified result of token resolution. It is established
// once per connection at handshake time and never re-derived per message.
type Identity struct {
	UserID   uuid.UUID
	Username string
}

// User represents an account row.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Profile holds the display fields attached to a user.
type Profile struct {
	UserID    uuid.UUID
	FullName  string
	Bio       string
	AvatarURL *string
	UpdatedAt time.Time
}

// Notification types mirror the persisted enum.
const (
	NotificationAccountActivity = "account_activity"
	NotificationFriendRequest   = "friend_request"
	NotificationPostInteraction = "post_interaction"
	NotificationMention         = "mention"
	NotificationFollow          = "follow"
	NotificationContentUpdate   = "content_update"
	NotificationSystemAlert     = "system_alert"
)

// Notification is one row in the recipient's notification feed.
type Notification struct {
	ID        uuid.UUID      `json:"notificationId"`
	Type      string         `json:"notificationType"`
	Content   string         `json:"notificationContent"`
	Read      bool           `json:"isRead"`
	Metadata  map[string]any `json:"notificationMetadata,omitempty"`
	UserID    uuid.UUID      `json:"userId"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Friendship statuses.
const (
	FriendPending  = "pending"
	FriendAccepted = "accepted"
	FriendRejected = "rejected"
)

// Friendship is a directed request row between two users. Status transitions
// may be performed by either party; queries match the pair in both orders.
type Friendship struct {
	ID         uuid.UUID
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Follow is a one-way subscription from follower to followee.
type Follow struct {
	FollowerID uuid.UUID
	FolloweeID uuid.UUID
	CreatedAt  time.Time
}

// Conversation links exactly two users.
type Conversation struct {
	ID        uuid.UUID
	User1ID   uuid.UUID
	User2ID   uuid.UUID
	CreatedAt time.Time
}

// Message is one persisted conversation entry. FileID optionally references
// an uploaded attachment.
type Message struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Content        string
	FileID         *uuid.UUID
	CreatedAt      time.Time
}

// Post is an authored feed entry.
type Post struct {
	ID        uuid.UUID
	AuthorID  uuid.UUID
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment belongs to a post. ParentID, when set, makes it a reply to another
// comment on the same post.
type Comment struct {
	ID        uuid.UUID
	PostID    uuid.UUID
	AuthorID  uuid.UUID
	ParentID  *uuid.UUID
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Reaction types. A user holds at most one reaction per post; switching
// overwrites the previous row.
const (
	ReactionLike    = "like"
	ReactionDislike = "dislike"
)

// RoomParticipant is the in-memory sender snapshot used by the global chat.
// It is never persisted.
type RoomParticipant struct {
	UserID    uuid.UUID `json:"userId"`
	Username  string    `json:"username"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
}

// RoomMessage is one entry in a room's process-lifetime history. Attachment,
// when set, is a blob-store path that must be deleted when the room resets.
type RoomMessage struct {
	Sender     RoomParticipant `json:"sender"`
	Text       string          `json:"text"`
	Attachment *string         `json:"attachment,omitempty"`
	SentAt     time.Time       `json:"sentAt"`
}
