package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"linkup/internal/core/domain"
)

type PostRepo struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepo {
	return &PostRepo{db: db}
}

func (r *PostRepo) InsertPost(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	stored := *p
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, `
        INSERT INTO posts (author_id, title, content)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at
    `, p.AuthorID, p.Title, p.Content).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// UpdatePost matches on author as well as id, so editing someone else's post
// reports not-found rather than forbidden.
func (r *PostRepo) UpdatePost(ctx context.Context, authorID, postID uuid.UUID, title, content string) (*domain.Post, error) {
	p := &domain.Post{ID: postID, AuthorID: authorID, Title: title, Content: content}
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, `
        UPDATE posts
        SET title = $3, content = $4, updated_at = now()
        WHERE id = $1 AND author_id = $2
        RETURNING created_at, updated_at
    `, postID, authorID, title, content).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrPostNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PostRepo) DeletePost(ctx context.Context, authorID, postID uuid.UUID) error {
	exec := GetExecutor(ctx, r.db)
	result, err := exec.ExecContext(ctx, `
        DELETE FROM posts WHERE id = $1 AND author_id = $2
    `, postID, authorID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostRepo) GetPostAuthorID(ctx context.Context, postID uuid.UUID) (uuid.UUID, error) {
	var authorID uuid.UUID
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, `
        SELECT author_id FROM posts WHERE id = $1
    `, postID).Scan(&authorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return uuid.Nil, domain.ErrPostNotFound
		}
		return uuid.Nil, err
	}
	return authorID, nil
}

// postSelect resolves the counters and the viewer's own reaction per row.
// The viewer id is always $1. LikeCount is likes minus dislikes.
const postSelect = `
        SELECT po.id, po.title, po.content,
               (SELECT count(*) FROM post_reactions pr WHERE pr.post_id = po.id AND pr.type = 'like')
             - (SELECT count(*) FROM post_reactions pr WHERE pr.post_id = po.id AND pr.type = 'dislike'),
               (SELECT count(*) FROM comments c WHERE c.post_id = po.id),
               (SELECT pr.type FROM post_reactions pr WHERE pr.post_id = po.id AND pr.user_id = $1),
               u.id, u.username, p.full_name, p.avatar_url,
               po.created_at, po.updated_at
        FROM posts po
        JOIN users u ON u.id = po.author_id
        JOIN profiles p ON p.user_id = po.author_id`

func (r *PostRepo) GetPost(ctx context.Context, viewerID, postID uuid.UUID) (*domain.PostPreview, error) {
	out, err := r.listPosts(ctx, `
        WHERE po.id = $2`, []any{viewerID, postID}, nil, 1)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, domain.ErrPostNotFound
	}
	return &out[0], nil
}

func (r *PostRepo) ListLatest(ctx context.Context, viewerID uuid.UUID, cursor *domain.Cursor, limit int) ([]domain.PostPreview, error) {
	return r.listPosts(ctx, "", []any{viewerID}, cursor, limit)
}

func (r *PostRepo) ListByAuthor(ctx context.Context, viewerID, authorID uuid.UUID, cursor *domain.Cursor, limit int) ([]domain.PostPreview, error) {
	return r.listPosts(ctx, `
        WHERE po.author_id = $2`, []any{viewerID, authorID}, cursor, limit)
}

func (r *PostRepo) ListFollowed(ctx context.Context, viewerID uuid.UUID, cursor *domain.Cursor, limit int) ([]domain.PostPreview, error) {
	return r.listPosts(ctx, `
        WHERE EXISTS (
            SELECT 1 FROM follows f
            WHERE f.follower_id = $1 AND f.followee_id = po.author_id
        )`, []any{viewerID}, cursor, limit)
}

func (r *PostRepo) listPosts(ctx context.Context, where string, args []any, cursor *domain.Cursor, limit int) ([]domain.PostPreview, error) {
	query := postSelect + where
	if cursor != nil {
		keyword := "WHERE"
		if where != "" {
			keyword = "  AND"
		}
		query += fmt.Sprintf(`
        %s (po.created_at, po.id) < ($%d, $%d)`, keyword, len(args)+1, len(args)+2)
		args = append(args, cursor.CreatedAt, cursor.ID)
	}
	query += fmt.Sprintf(`
        ORDER BY po.created_at DESC, po.id DESC
        LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PostPreview
	for rows.Next() {
		var row domain.PostPreview
		var fullName sql.NullString
		if err := rows.Scan(
			&row.ID, &row.Title, &row.Content,
			&row.LikeCount, &row.CommentCount, &row.ViewerReaction,
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
