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

type PostService struct {
	posts         domain.PostRepository
	comments      domain.CommentRepository
	reactions     domain.ReactionRepository
	notifications *NotificationService
	tx            contracts.TxManager
	log           *slog.Logger
}

func NewPostService(
	log *slog.Logger,
	posts domain.PostRepository,
	comments domain.CommentRepository,
	reactions domain.ReactionRepository,
	notifications *NotificationService,
	tx contracts.TxManager,
) *PostService {
	return &PostService{
		log:           log,
		posts:         posts,
		comments:      comments,
		reactions:     reactions,
		notifications: notifications,
		tx:            tx,
	}
}

func (s *PostService) Create(ctx context.Context, actor domain.Identity, title, content string) (*domain.Post, error) {
	ctx, span := tracer.Start(ctx, "PostService.Create", trace.WithAttributes(
		attribute.String("actor.user_id", actor.UserID.String()),
	))
	defer span.End()

	if err := validatePostBody(title, content); err != nil {
		return nil, err
	}

	var created *domain.Post
	if err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		var txErr error
		created, txErr = s.posts.InsertPost(txCtx, &domain.Post{
			AuthorID: actor.UserID,
			Title:    title,
			Content:  content,
		})
		return txErr
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		s.log.ErrorContext(ctx, "posts - create - insert failed", "actor", actor.UserID, "err", err)
		return nil, err
	}
	s.log.InfoContext(ctx, "posts - create - success", "post_id", created.ID, "author", actor.UserID)
	return created, nil
}

func (s *PostService) Update(ctx context.Context, actor domain.Identity, postID uuid.UUID, title, content string) (*domain.Post, error) {
	if postID == uuid.Nil {
		return nil, fmt.Errorf("%w: post id required", domain.ErrValidationFailed)
	}
	if err := validatePostBody(title, content); err != nil {
		return nil, err
	}

	var updated *domain.Post
	if err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		var txErr error
		updated, txErr = s.posts.UpdatePost(txCtx, actor.UserID, postID, title, content)
		return txErr
	}); err != nil {
		s.log.ErrorContext(ctx, "posts - update - failed", "post_id", postID, "actor", actor.UserID, "err", err)
		return nil, err
	}
	return updated, nil
}

func (s *PostService) Delete(ctx context.Context, actor domain.Identity, postID uuid.UUID) error {
	if postID == uuid.Nil {
		return fmt.Errorf("%w: post id required", domain.ErrValidationFailed)
	}
	if err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		return s.posts.DeletePost(txCtx, actor.UserID, postID)
	}); err != nil {
		s.log.ErrorContext(ctx, "posts - delete - failed", "post_id", postID, "actor", actor.UserID, "err", err)
		return err
	}
	return nil
}

func (s *PostService) Get(ctx context.Context, viewer domain.Identity, postID uuid.UUID) (*domain.PostPreview, error) {
	if postID == uuid.Nil {
		return nil, fmt.Errorf("%w: post id required", domain.ErrValidationFailed)
	}
	return s.posts.GetPost(ctx, viewer.UserID, postID)
}

func (s *PostService) Latest(ctx context.Context, viewer domain.Identity, cursor *domain.Cursor) ([]domain.PostPreview, error) {
	return s.posts.ListLatest(ctx, viewer.UserID, cursor, 10)
}

func (s *PostService) ByAuthor(ctx context.Context, viewer domain.Identity, authorID uuid.UUID, cursor *domain.Cursor) ([]domain.PostPreview, error) {
	if authorID == uuid.Nil {
		return nil, fmt.Errorf("%w: author id required", domain.ErrValidationFailed)
	}
	return s.posts.ListByAuthor(ctx, viewer.UserID, authorID, cursor, 10)
}

func (s *PostService) Followed(ctx context.Context, viewer domain.Identity, cursor *domain.Cursor) ([]domain.PostPreview, error) {
	return s.posts.ListFollowed(ctx, viewer.UserID, cursor, 10)
}

// Comment inserts the comment and, once the commit succeeds, raises a
// post-interaction notification for the post author. Commenting on your own
// post notifies nobody.
func (s *PostService) Comment(ctx context.Context, actor domain.Identity, postID uuid.UUID, parentID *uuid.UUID, content string) (*domain.Comment, error) {
	ctx, span := tracer.Start(ctx, "PostService.Comment", trace.WithAttributes(
		attribute.String("post.id", postID.String()),
		attribute.String("actor.user_id", actor.UserID.String()),
	))
	defer span.End()

	if postID == uuid.Nil {
		return nil, fmt.Errorf("%w: post id required", domain.ErrValidationFailed)
	}
	if err := validation.Validate(content, validation.Required, validation.Length(1, 2000)); err != nil {
		return nil, fmt.Errorf("%w: content: %v", domain.ErrValidationFailed, err)
	}

	var created *domain.Comment
	var authorID uuid.UUID
	if err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		var txErr error
		if authorID, txErr = s.posts.GetPostAuthorID(txCtx, postID); txErr != nil {
			return txErr
		}
		created, txErr = s.comments.InsertComment(txCtx, &domain.Comment{
			PostID:   postID,
			AuthorID: actor.UserID,
			ParentID: parentID,
			Content:  content,
		})
		return txErr
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		s.log.ErrorContext(ctx, "posts - comment - insert failed", "post_id", postID, "actor", actor.UserID, "err", err)
		return nil, err
	}

	s.notifyInteraction(ctx, actor, authorID, postID, actor.Username+" commented on your post")
	return created, nil
}

func (s *PostService) Comments(ctx context.Context, postID uuid.UUID, cursor *domain.Cursor) ([]domain.CommentPreview, error) {
	if postID == uuid.Nil {
		return nil, fmt.Errorf("%w: post id required", domain.ErrValidationFailed)
	}
	return s.comments.ListComments(ctx, postID, cursor, 10)
}

func (s *PostService) Replies(ctx context.Context, commentID uuid.UUID, cursor *domain.Cursor) ([]domain.CommentPreview, error) {
	if commentID == uuid.Nil {
		return nil, fmt.Errorf("%w: comment id required", domain.ErrValidationFailed)
	}
	return s.comments.ListReplies(ctx, commentID, cursor, 10)
}

// React records or switches the actor's reaction. Only a like notifies the
// post author; a dislike stays silent.
func (s *PostService) React(ctx context.Context, actor domain.Identity, postID uuid.UUID, typ string) error {
	ctx, span := tracer.Start(ctx, "PostService.React", trace.WithAttributes(
		attribute.String("post.id", postID.String()),
		attribute.String("reaction.type", typ),
	))
	defer span.End()

	if postID == uuid.Nil {
		return fmt.Errorf("%w: post id required", domain.ErrValidationFailed)
	}
	if typ != domain.ReactionLike && typ != domain.ReactionDislike {
		return fmt.Errorf("%w: unknown reaction %q", domain.ErrValidationFailed, typ)
	}

	var authorID uuid.UUID
	if err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		var txErr error
		if authorID, txErr = s.posts.GetPostAuthorID(txCtx, postID); txErr != nil {
			return txErr
		}
		return s.reactions.UpsertReaction(txCtx, postID, actor.UserID, typ)
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upsert failed")
		s.log.ErrorContext(ctx, "posts - react - failed", "post_id", postID, "actor", actor.UserID, "err", err)
		return err
	}

	if typ == domain.ReactionLike {
		s.notifyInteraction(ctx, actor, authorID, postID, actor.Username+" liked your post")
	}
	return nil
}

func (s *PostService) Unreact(ctx context.Context, actor domain.Identity, postID uuid.UUID) error {
	if postID == uuid.Nil {
		return fmt.Errorf("%w: post id required", domain.ErrValidationFailed)
	}
	if err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		return s.reactions.DeleteReaction(txCtx, postID, actor.UserID)
	}); err != nil {
		s.log.ErrorContext(ctx, "posts - unreact - failed", "post_id", postID, "actor", actor.UserID, "err", err)
		return err
	}
	return nil
}

func (s *PostService) notifyInteraction(ctx context.Context, actor domain.Identity, authorID, postID uuid.UUID, content string) {
	if authorID == actor.UserID {
		return
	}
	if _, err := s.notifications.Publish(ctx,
		domain.NotificationPostInteraction,
		content,
		authorID,
		map[string]any{"from": actor.UserID.String(), "postId": postID.String()},
	); err != nil {
		// The interaction itself committed; a lost notification is not fatal.
		s.log.WarnContext(ctx, "posts - notify interaction - failed", "post_id", postID, "author", authorID, "err", err)
	}
}

func validatePostBody(title, content string) error {
	if err := validation.Validate(title, validation.Required, validation.Length(1, 200)); err != nil {
		return fmt.Errorf("%w: title: %v", domain.ErrValidationFailed, err)
	}
	if err := validation.Validate(content, validation.Required, validation.Length(1, 10000)); err != nil {
		return fmt.Errorf("%w: content: %v", domain.ErrValidationFailed, err)
	}
	return nil
}
