package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type FollowRepo struct {
	db *sql.DB
}

func NewFollowRepository(db *sql.DB) *FollowRepo {
	return &FollowRepo{db: db}
}

func (r *FollowRepo) InsertFollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	exec := GetExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, `
        INSERT INTO follows (follower_id, followee_id)
        VALUES ($1, $2)
        ON CONFLICT (follower_id, followee_id) DO NOTHING
    `, followerID, followeeID)
	return err
}

func (r *FollowRepo) DeleteFollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	exec := GetExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, `
        DELETE FROM follows
        WHERE follower_id = $1 AND followee_id = $2
    `, followerID, followeeID)
	return err
}
