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

func newPostService(tx *fakeTx) (*services.PostService, *fakePostRepo, *fakeCommentRepo, *fakeReactionRepo, *fakeRegistry) {
	posts := newFakePostRepo()
	comments := &fakeCommentRepo{}
	reactions := newFakeReactionRepo()
	registry := &fakeRegistry{}
	notifications := services.NewNotificationService(logger.Discard(), &fakeNotificationRepo{}, registry, newFakeCache(), tx)
	svc := services.NewPostService(logger.Discard(), posts, comments, reactions, notifications, tx)
	return svc, posts, comments, reactions, registry
}

func seedPost(t *testing.T, posts *fakePostRepo, authorID uuid.UUID) uuid.UUID {
	t.Helper()
	post, err := posts.InsertPost(context.Background(), &domain.Post{
		AuthorID: authorID,
		Title:    "first",
		Content:  "hello world",
	})
	require.NoError(t, err)
	return post.ID
}

func TestCreatePostValidatesBody(t *testing.T) {
	svc, posts, _, _, _ := newPostService(&fakeTx{})
	actor := domain.Identity{UserID: uuid.New(), Username: "alice"}

	_, err := svc.Create(context.Background(), actor, "", "content")
	require.ErrorIs(t, err, domain.ErrValidationFailed)
	_, err = svc.Create(context.Background(), actor, "title", "")
	require.ErrorIs(t, err, domain.ErrValidationFailed)
	assert.Empty(t, posts.rows)
}

func TestCreatePostPersistsAuthor(t *testing.T) {
	svc, posts, _, _, _ := newPostService(&fakeTx{})
	actor := domain.Identity{UserID: uuid.New(), Username: "alice"}

	created, err := svc.Create(context.Background(), actor, "title", "content")
	require.NoError(t, err)
	assert.Equal(t, actor.UserID, created.AuthorID)
	assert.Len(t, posts.rows, 1)
}

func TestUpdateForeignPostReportsNotFound(t *testing.T) {
	svc, posts, _, _, _ := newPostService(&fakeTx{})
	author := uuid.New()
	postID := seedPost(t, posts, author)
	stranger := domain.Identity{UserID: uuid.New(), Username: "mallory"}

	_, err := svc.Update(context.Background(), stranger, postID, "new title", "new content")
	require.ErrorIs(t, err, domain.ErrPostNotFound)
	assert.Equal(t, "first", posts.rows[postID].Title)
}

func TestDeleteForeignPostReportsNotFound(t *testing.T) {
	svc, posts, _, _, _ := newPostService(&fakeTx{})
	author := uuid.New()
	postID := seedPost(t, posts, author)
	stranger := domain.Identity{UserID: uuid.New(), Username: "mallory"}

	err := svc.Delete(context.Background(), stranger, postID)
	require.ErrorIs(t, err, domain.ErrPostNotFound)
	assert.Len(t, posts.rows, 1)

	err = svc.Delete(context.Background(), domain.Identity{UserID: author}, postID)
	require.NoError(t, err)
	assert.Empty(t, posts.rows)
}

func TestCommentNotifiesPostAuthor(t *testing.T) {
	svc, posts, comments, _, registry := newPostService(&fakeTx{})
	author := uuid.New()
	postID := seedPost(t, posts, author)
	commenter := domain.Identity{UserID: uuid.New(), Username: "bob"}

	created, err := svc.Comment(context.Background(), commenter, postID, nil, "nice one")
	require.NoError(t, err)
	assert.Equal(t, commenter.UserID, created.AuthorID)
	assert.Len(t, comments.rows, 1)

	calls := registry.publishesTo(domain.NotificationTopic(author))
	require.Len(t, calls, 1)
	event, ok := calls[0].payload.(domain.NotificationEvent)
	require.True(t, ok)
	assert.Equal(t, domain.NotificationPostInteraction, event.Notification.Type)
	assert.Equal(t, postID.String(), event.Notification.Metadata["postId"])
}

func TestCommentOnOwnPostNotifiesNobody(t *testing.T) {
	svc, posts, comments, _, registry := newPostService(&fakeTx{})
	author := domain.Identity{UserID: uuid.New(), Username: "alice"}
	postID := seedPost(t, posts, author.UserID)

	_, err := svc.Comment(context.Background(), author, postID, nil, "replying to myself")
	require.NoError(t, err)
	assert.Len(t, comments.rows, 1)
	assert.Empty(t, registry.publishes)
}

func TestCommentUnknownPostFails(t *testing.T) {
	svc, _, comments, _, registry := newPostService(&fakeTx{})
	commenter := domain.Identity{UserID: uuid.New(), Username: "bob"}

	_, err := svc.Comment(context.Background(), commenter, uuid.New(), nil, "hello?")
	require.ErrorIs(t, err, domain.ErrPostNotFound)
	assert.Empty(t, comments.rows)
	assert.Empty(t, registry.publishes)
}

func TestCommentFailedCommitSuppressesNotification(t *testing.T) {
	posts := newFakePostRepo()
	registry := &fakeRegistry{}
	tx := &fakeTx{err: errors.New("connection reset")}
	notifications := services.NewNotificationService(logger.Discard(), &fakeNotificationRepo{}, registry, newFakeCache(), tx)
	svc := services.NewPostService(logger.Discard(), posts, &fakeCommentRepo{}, newFakeReactionRepo(), notifications, tx)
	postID := seedPost(t, posts, uuid.New())

	_, err := svc.Comment(context.Background(), domain.Identity{UserID: uuid.New(), Username: "bob"}, postID, nil, "lost")
	require.Error(t, err)
	assert.Empty(t, registry.publishes)
}

func TestLikeNotifiesAuthorDislikeDoesNot(t *testing.T) {
	svc, posts, _, reactions, registry := newPostService(&fakeTx{})
	author := uuid.New()
	postID := seedPost(t, posts, author)
	reader := domain.Identity{UserID: uuid.New(), Username: "bob"}

	require.NoError(t, svc.React(context.Background(), reader, postID, domain.ReactionLike))
	calls := registry.publishesTo(domain.NotificationTopic(author))
	require.Len(t, calls, 1)
	event, ok := calls[0].payload.(domain.NotificationEvent)
	require.True(t, ok)
	assert.Equal(t, domain.NotificationPostInteraction, event.Notification.Type)

	require.NoError(t, svc.React(context.Background(), reader, postID, domain.ReactionDislike))
	assert.Len(t, registry.publishesTo(domain.NotificationTopic(author)), 1)
	assert.Equal(t, domain.ReactionDislike, reactions.rows[reactionKey{postID: postID, userID: reader.UserID}])
}

func TestReactRejectsUnknownType(t *testing.T) {
	svc, posts, _, reactions, _ := newPostService(&fakeTx{})
	author := uuid.New()
	postID := seedPost(t, posts, author)

	err := svc.React(context.Background(), domain.Identity{UserID: uuid.New()}, postID, "love")
	require.ErrorIs(t, err, domain.ErrValidationFailed)
	assert.Empty(t, reactions.rows)
}

func TestUnreactRemovesReaction(t *testing.T) {
	svc, posts, _, reactions, _ := newPostService(&fakeTx{})
	author := uuid.New()
	postID := seedPost(t, posts, author)
	reader := domain.Identity{UserID: uuid.New(), Username: "bob"}

	require.NoError(t, svc.React(context.Background(), reader, postID, domain.ReactionLike))
	require.NoError(t, svc.Unreact(context.Background(), reader, postID))
	assert.Empty(t, reactions.rows)
}
