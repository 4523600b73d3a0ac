package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"linkup/internal/core/domain"
)

type CommentRepo struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepo {
	return &CommentRepo{db: db}
}

func (r *CommentRepo) InsertComment(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	stored := *c
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, `
        INSERT INTO comments (post_id, author_id, parent_id, content)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `, c.PostID, c.AuthorID, c.ParentID, c.Content).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *CommentRepo) ListComments(ctx context.Context, postID uuid.UUID, cursor *domain.Cursor, limit int) ([]domain.CommentPreview, error) {
	return r.listComments(ctx, `
        WHERE c.post_id = $1 AND c.parent_id IS NULL`, postID, cursor, limit)
}

func (r *CommentRepo) ListReplies(ctx context.Context, parentID uuid.UUID, cursor *domain.Cursor, limit int) ([]domain.CommentPreview, error) {
	return r.listComments(ctx, `
        WHERE c.parent_id = $1`, parentID, cursor, limit)
}

func (r *CommentRepo) listComments(ctx context.Context, where string, id uuid.UUID, cursor *domain.Cursor, limit int) ([]domain.CommentPreview, error) {
	base := `
        SELECT c.id, c.post_id, c.parent_id, c.content,
               (SELECT count(*) FROM comments rc WHERE rc.parent_id = c.id),
               u.id, u.username, p.full_name, p.avatar_url,
               c.created_at, c.updated_at
        FROM comments c
        JOIN users u ON u.id = c.author_id
        JOIN profiles p ON p.user_id = c.author_id` + where
	query := base + `
        ORDER BY c.created_at DESC, c.id DESC
        LIMIT $2`
	args := []any{id, limit}
	if cursor != nil {
		query = base + `
          AND (c.created_at, c.id) < ($2, $3)
        ORDER BY c.created_at DESC, c.id DESC
        LIMIT $4`
		args = []any{id, cursor.CreatedAt, cursor.ID, limit}
	}

	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CommentPreview
	for rows.Next() {
		var row domain.CommentPreview
		var fullName sql.NullString
		if err := rows.Scan(
			&row.ID, &row.PostID, &row.ParentID, &row.Content, &row.ReplyCount,
			&row.Author.UserID, &row.Author.Username, &fullName, &row.Author.AvatarURL,
			&row.CreatedAt, &row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		row.Author.FullName = fullName.String
		out = append(out, row)
	}
	return out, rows.Err()
}
