package services_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"linkup/internal/core/contracts"
	"linkup/internal/core/domain"
)

// fakeRegistry records every publish and direct send for assertions.
type publishCall struct {
	topic   string
	payload any
	exclude string
}

type sendCall struct {
	connID  string
	payload any
}

type fakeRegistry struct {
	mu        sync.Mutex
	publishes []publishCall
	sends     []sendCall
}

func (r *fakeRegistry) Subscribe(c contracts.Client, topic string) {}
func (r *fakeRegistry) UnsubscribeAll(c contracts.Client)          {}

func (r *fakeRegistry) Publish(ctx context.Context, topic string, payload any, excludeID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publishes = append(r.publishes, publishCall{topic: topic, payload: payload, exclude: excludeID})
}

func (r *fakeRegistry) Send(ctx context.Context, connID string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sends = append(r.sends, sendCall{connID: connID, payload: payload})
}

func (r *fakeRegistry) publishesTo(topic string) []publishCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []publishCall
	for _, p := range r.publishes {
		if p.topic == topic {
			out = append(out, p)
		}
	}
	return out
}

// fakeTx runs the function inline, or fails without running it.
type fakeTx struct {
	err error
}

func (t *fakeTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if t.err != nil {
		return t.err
	}
	return fn(ctx)
}

type fakeNotificationRepo struct {
	rows []domain.Notification
}

func (r *fakeNotificationRepo) InsertNotification(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	stored := *n
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	r.rows = append(r.rows, stored)
	return &stored, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows[i].Read = true
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	for i := range r.rows {
		if r.rows[i].UserID == userID {
			r.rows[i].Read = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) ListNotifications(ctx context.Context, userID uuid.UUID, cursor *domain.Cursor, limit int) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range r.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, n := range r.rows {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

type fakeCache struct {
	mu          sync.Mutex
	counts      map[uuid.UUID]int64
	invalidated int
}

func newFakeCache() *fakeCache {
	return &fakeCache{counts: make(map[uuid.UUID]int64)}
}

func (c *fakeCache) Get(ctx context.Context, userID uuid.UUID) (int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.counts[userID]
	return n, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, userID uuid.UUID, count int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[userID] = count
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.counts, userID)
	c.invalidated++
	return nil
}

type fakeFriendRepo struct {
	rows map[uuid.UUID]*domain.Friendship
}

func newFakeFriendRepo() *fakeFriendRepo {
	return &fakeFriendRepo{rows: make(map[uuid.UUID]*domain.Friendship)}
}

func (r *fakeFriendRepo) InsertRequest(ctx context.Context, senderID, receiverID uuid.UUID) (*domain.Friendship, error) {
	for _, f := range r.rows {
		if samePair(f, senderID, receiverID) {
			return nil, domain.ErrFriendshipExists
		}
	}
	f := &domain.Friendship{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     domain.FriendPending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	r.rows[f.ID] = f
	return f, nil
}

func (r *fakeFriendRepo) UpdateStatus(ctx context.Context, userA, userB uuid.UUID, status string) (*domain.Friendship, error) {
	for _, f := range r.rows {
		if samePair(f, userA, userB) {
			f.Status = status
			f.UpdatedAt = time.Now()
			return f, nil
		}
	}
	return nil, domain.ErrFriendshipNotFound
}

func (r *fakeFriendRepo) DeleteRequest(ctx context.Context, senderID, receiverID uuid.UUID) (*domain.Friendship, error) {
	for id, f := range r.rows {
		if f.SenderID == senderID && f.ReceiverID == receiverID {
			delete(r.rows, id)
			return f, nil
		}
	}
	return nil, domain.ErrFriendshipNotFound
}

func (r *fakeFriendRepo) GetStatus(ctx context.Context, userA, userB uuid.UUID) (string, error) {
	for _, f := range r.rows {
		if samePair(f, userA, userB) {
			return f.Status, nil
		}
	}
	return "", domain.ErrFriendshipNotFound
}

func (r *fakeFriendRepo) ListPending(ctx context.Context, receiverID uuid.UUID, cursor *domain.Cursor, limit int) ([]domain.FriendPreview, error) {
	return nil, nil
}

func (r *fakeFriendRepo) ListSent(ctx context.Context, senderID uuid.UUID, cursor *domain.Cursor, limit int) ([]domain.FriendPreview, error) {
	return nil, nil
}

func samePair(f *domain.Friendship, a, b uuid.UUID) bool {
	return (f.SenderID == a && f.ReceiverID == b) || (f.SenderID == b && f.ReceiverID == a)
}

type fakeUserRepo struct {
	rows map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{rows: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, username, email, passwordHash string) (*domain.User, error) {
	if _, ok := r.rows[username]; ok {
		return nil, domain.ErrUserAlreadyExists
	}
	u := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	r.rows[username] = u
	return u, nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, u := range r.rows {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	if u, ok := r.rows[username]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

type fakeMessageRepo struct {
	rows []domain.Message
}

func (r *fakeMessageRepo) InsertMessage(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	stored := *m
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	r.rows = append(r.rows, stored)
	return &stored, nil
}

func (r *fakeMessageRepo) ListMessages(ctx context.Context, conversationID uuid.UUID, cursor *domain.Cursor, limit int) ([]domain.MessagePreview, error) {
	var out []domain.MessagePreview
	for _, m := range r.rows {
		if m.ConversationID == conversationID {
			out = append(out, domain.MessagePreview{Message: m})
		}
	}
	return out, nil
}

type fakeProfileRepo struct {
	avatars map[uuid.UUID]*string
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{avatars: make(map[uuid.UUID]*string)}
}

func (r *fakeProfileRepo) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return &domain.Profile{UserID: userID, AvatarURL: r.avatars[userID]}, nil
}

func (r *fakeProfileRepo) UpdateProfile(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	r.avatars[p.UserID] = p.AvatarURL
	updated := *p
	updated.UpdatedAt = time.Now()
	return &updated, nil
}

func (r *fakeProfileRepo) GetAvatarURL(ctx context.Context, userID uuid.UUID) (*string, error) {
	return r.avatars[userID], nil
}

type fakeConversationRepo struct {
	rows []domain.Conversation
}

func (r *fakeConversationRepo) GetOrCreateConversation(ctx context.Context, userA, userB uuid.UUID) (*domain.Conversation, error) {
	for i := range r.rows {
		c := &r.rows[i]
		if (c.User1ID == userA && c.User2ID == userB) || (c.User1ID == userB && c.User2ID == userA) {
			return c, nil
		}
	}
	c := domain.Conversation{ID: uuid.New(), User1ID: userA, User2ID: userB, CreatedAt: time.Now()}
	r.rows = append(r.rows, c)
	return &r.rows[len(r.rows)-1], nil
}

func (r *fakeConversationRepo) GetConversationByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	for i := range r.rows {
		if r.rows[i].ID == id {
			return &r.rows[i], nil
		}
	}
	return nil, domain.ErrConversationNotFound
}

func (r *fakeConversationRepo) ListConversations(ctx context.Context, userID uuid.UUID) ([]domain.ConversationPreview, error) {
	return nil, nil
}

type fakePostRepo struct {
	rows map[uuid.UUID]*domain.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{rows: make(map[uuid.UUID]*domain.Post)}
}

func (r *fakePostRepo) InsertPost(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	stored := *p
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.rows[stored.ID] = &stored
	return &stored, nil
}

func (r *fakePostRepo) UpdatePost(ctx context.Context, authorID, postID uuid.UUID, title, content string) (*domain.Post, error) {
	p, ok := r.rows[postID]
	if !ok || p.AuthorID != authorID {
		return nil, domain.ErrPostNotFound
	}
	p.Title = title
	p.Content = content
	p.UpdatedAt = time.Now()
	return p, nil
}

func (r *fakePostRepo) DeletePost(ctx context.Context, authorID, postID uuid.UUID) error {
	p, ok := r.rows[postID]
	if !ok || p.AuthorID != authorID {
		return domain.ErrPostNotFound
	}
	delete(r.rows, postID)
	return nil
}

func (r *fakePostRepo) GetPostAuthorID(ctx context.Context, postID uuid.UUID) (uuid.UUID, error) {
	p, ok := r.rows[postID]
	if !ok {
		return uuid.Nil, domain.ErrPostNotFound
	}
	return p.AuthorID, nil
}

func (r *fakePostRepo) GetPost(ctx context.Context, viewerID, postID uuid.UUID) (*domain.PostPreview, error) {
	p, ok := r.rows[postID]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return &domain.PostPreview{
		ID:      p.ID,
		Title:   p.Title,
		Content: p.Content,
		Author:  domain.PostAuthor{UserID: p.AuthorID},
	}, nil
}

func (r *fakePostRepo) ListLatest(ctx context.Context, viewerID uuid.UUID, cursor *domain.Cursor, limit int) ([]domain.PostPreview, error) {
	return nil, nil
}

func (r *fakePostRepo) ListByAuthor(ctx context.Context, viewerID, authorID uuid.UUID, cursor *domain.Cursor, limit int) ([]domain.PostPreview, error) {
	return nil, nil
}

func (r *fakePostRepo) ListFollowed(ctx context.Context, viewerID uuid.UUID, cursor *domain.Cursor, limit int) ([]domain.PostPreview, error) {
	return nil, nil
}

type fakeCommentRepo struct {
	rows []domain.Comment
}

func (r *fakeCommentRepo) InsertComment(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	stored := *c
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.rows = append(r.rows, stored)
	return &stored, nil
}

func (r *fakeCommentRepo) ListComments(ctx context.Context, postID uuid.UUID, cursor *domain.Cursor, limit int) ([]domain.CommentPreview, error) {
	var out []domain.CommentPreview
	for _, c := range r.rows {
		if c.PostID == postID && c.ParentID == nil {
			out = append(out, domain.CommentPreview{ID: c.ID, PostID: c.PostID, Content: c.Content})
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) ListReplies(ctx context.Context, parentID uuid.UUID, cursor *domain.Cursor, limit int) ([]domain.CommentPreview, error) {
	var out []domain.CommentPreview
	for _, c := range r.rows {
		if c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, domain.CommentPreview{ID: c.ID, PostID: c.PostID, ParentID: c.ParentID, Content: c.Content})
		}
	}
	return out, nil
}

type reactionKey struct {
	postID uuid.UUID
	userID uuid.UUID
}

type fakeReactionRepo struct {
	rows map[reactionKey]string
}

func newFakeReactionRepo() *fakeReactionRepo {
	return &fakeReactionRepo{rows: make(map[reactionKey]string)}
}

func (r *fakeReactionRepo) UpsertReaction(ctx context.Context, postID, userID uuid.UUID, typ string) error {
	r.rows[reactionKey{postID: postID, userID: userID}] = typ
	return nil
}

func (r *fakeReactionRepo) DeleteReaction(ctx context.Context, postID, userID uuid.UUID) error {
	delete(r.rows, reactionKey{postID: postID, userID: userID})
	return nil
}

type fakePresence struct {
	mu      sync.Mutex
	online  map[string][]string
	cleared int
}

func newFakePresence() *fakePresence {
	return &fakePresence{online: make(map[string][]string)}
}

func (p *fakePresence) UpdateOnlineStatus(ctx context.Context, channel, userID string, ttl time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.online[channel] = append(p.online[channel], userID)
	return nil
}

func (p *fakePresence) GetOnlineUsers(ctx context.Context, channel string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online[channel], nil
}

func (p *fakePresence) ClearChannel(ctx context.Context, channel string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.online, channel)
	p.cleared++
	return nil
}

type fakeBlobStore struct {
	mu      sync.Mutex
	deleted []string
}

func (b *fakeBlobStore) Save(ctx context.Context, path string, r io.Reader) (int64, error) {
	return 0, nil
}

func (b *fakeBlobStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return nil, nil
}

func (b *fakeBlobStore) Delete(ctx context.Context, path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, path)
	return nil
}
