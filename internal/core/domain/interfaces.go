package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Cursor is a keyset-pagination position: rows strictly older than
// (CreatedAt, ID) in the feed ordering.
type Cursor struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// FriendPreview is a friend-request list row joined with the counterpart's
// profile fields.
type FriendPreview struct {
	UserID    uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"fullName"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// MessagePreview is a message list row joined with the sender snapshot.
type MessagePreview struct {
	Message
	SenderUsername  string
	SenderAvatarURL *string
}

// ConversationPreview is a conversation list row with the other party resolved.
type ConversationPreview struct {
	Conversation
	Other MessageSender
}

// PostAuthor is the profile snapshot joined onto feed and comment rows.
type PostAuthor struct {
	UserID    uuid.UUID `json:"userId"`
	Username  string    `json:"username"`
	FullName  string    `json:"fullName"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
}

// PostPreview is one feed row with its counters and the viewer's own reaction
// resolved. LikeCount is likes minus dislikes and may go negative.
type PostPreview struct {
	ID             uuid.UUID  `json:"postId"`
	Title          string     `json:"postTitle"`
	Content        string     `json:"postContent"`
	LikeCount      int64      `json:"likeCount"`
	CommentCount   int64      `json:"commentCount"`
	ViewerReaction *string    `json:"likedByUser"`
	Author         PostAuthor `json:"author"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// CommentPreview is a comment row with its reply count and author snapshot.
type CommentPreview struct {
	ID         uuid.UUID  `json:"commentId"`
	PostID     uuid.UUID  `json:"postId"`
	ParentID   *uuid.UUID `json:"parentCommentId"`
	Content    string     `json:"commentContent"`
	ReplyCount int64      `json:"replyCount"`
	Author     PostAuthor `json:"author"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// UserRepository handles account rows.
type UserRepository interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

// ProfileRepository handles display fields.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
	UpdateProfile(ctx context.Context, p *Profile) (*Profile, error)
	GetAvatarURL(ctx context.Context, userID uuid.UUID) (*string, error)
}

// NotificationRepository persists the notification feed. Insert returns the
// row with server-generated id and timestamps populated.
type NotificationRepository interface {
	InsertNotification(ctx context.Context, n *Notification) (*Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	ListNotifications(ctx context.Context, userID uuid.UUID, cursor *Cursor, limit int) ([]Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

// FriendRepository persists friendship requests. Pair-matching operations
// accept the two user ids in either order.
type FriendRepository interface {
	InsertRequest(ctx context.Context, senderID, receiverID uuid.UUID) (*Friendship, error)
	UpdateStatus(ctx context.Context, userA, userB uuid.UUID, status string) (*Friendship, error)
	DeleteRequest(ctx context.Context, senderID, receiverID uuid.UUID) (*Friendship, error)
	GetStatus(ctx context.Context, userA, userB uuid.UUID) (string, error)
	ListPending(ctx context.Context, receiverID uuid.UUID, cursor *Cursor, limit int) ([]FriendPreview, error)
	ListSent(ctx context.Context, senderID uuid.UUID, cursor *Cursor, limit int) ([]FriendPreview, error)
}

// FollowRepository persists follower edges.
type FollowRepository interface {
	InsertFollow(ctx context.Context, followerID, followeeID uuid.UUID) error
	DeleteFollow(ctx context.Context, followerID, followeeID uuid.UUID) error
}

// ConversationRepository handles conversation lifecycle.
type ConversationRepository interface {
	GetOrCreateConversation(ctx context.Context, userA, userB uuid.UUID) (*Conversation, error)
	GetConversationByID(ctx context.Context, id uuid.UUID) (*Conversation, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]ConversationPreview, error)
}

// MessageRepository persists conversation messages. Insert returns the row
// with server-generated id and created_at populated.
type MessageRepository interface {
	InsertMessage(ctx context.Context, m *Message) (*Message, error)
	ListMessages(ctx context.Context, conversationID uuid.UUID, cursor *Cursor, limit int) ([]MessagePreview, error)
}

// PostRepository persists posts. Update and Delete are author-scoped: they
// touch only rows the caller owns and report ErrPostNotFound otherwise, so a
// missing post and a foreign post are indistinguishable to the caller.
type PostRepository interface {
	InsertPost(ctx context.Context, p *Post) (*Post, error)
	UpdatePost(ctx context.Context, authorID, postID uuid.UUID, title, content string) (*Post, error)
	DeletePost(ctx context.Context, authorID, postID uuid.UUID) error
	GetPostAuthorID(ctx context.Context, postID uuid.UUID) (uuid.UUID, error)
	GetPost(ctx context.Context, viewerID, postID uuid.UUID) (*PostPreview, error)
	ListLatest(ctx context.Context, viewerID uuid.UUID, cursor *Cursor, limit int) ([]PostPreview, error)
	ListByAuthor(ctx context.Context, viewerID, authorID uuid.UUID, cursor *Cursor, limit int) ([]PostPreview, error)
	ListFollowed(ctx context.Context, viewerID uuid.UUID, cursor *Cursor, limit int) ([]PostPreview, error)
}

// CommentRepository persists post comments. Top-level listings exclude
// replies; replies are fetched per parent comment.
type CommentRepository interface {
	InsertComment(ctx context.Context, c *Comment) (*Comment, error)
	ListComments(ctx context.Context, postID uuid.UUID, cursor *Cursor, limit int) ([]CommentPreview, error)
	ListReplies(ctx context.Context, parentID uuid.UUID, cursor *Cursor, limit int) ([]CommentPreview, error)
}

// ReactionRepository persists post reactions, one row per (post, user).
type ReactionRepository interface {
	UpsertReaction(ctx context.Context, postID, userID uuid.UUID, typ string) error
	DeleteReaction(ctx context.Context, postID, userID uuid.UUID) error
}
