package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type ReactionRepo struct {
	db *sql.DB
}

func NewReactionRepository(db *sql.DB) *ReactionRepo {
	return &ReactionRepo{db: db}
}

// UpsertReaction keeps at most one row per (post, user); reacting again
// switches the type in place.
func (r *ReactionRepo) UpsertReaction(ctx context.Context, postID, userID uuid.UUID, typ string) error {
	exec := GetExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, `
        INSERT INTO post_reactions (post_id, user_id, type)
        VALUES ($1, $2, $3)
        ON CONFLICT (post_id, user_id)
        DO UPDATE SET type = EXCLUDED.type, updated_at = now()
    `, postID, userID, typ)
	return err
}

func (r *ReactionRepo) DeleteReaction(ctx context.Context, postID, userID uuid.UUID) error {
	exec := GetExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, `
        DELETE FROM post_reactions
        WHERE post_id = $1 AND user_id = $2
    `, postID, userID)
	return err
}
