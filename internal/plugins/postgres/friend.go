package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"linkup/internal/core/domain"
)

type FriendRepo struct {
	db *sql.DB
}

func NewFriendRepository(db *sql.DB) *FriendRepo {
	return &FriendRepo{db: db}
}

func (r *FriendRepo) InsertRequest(ctx context.Context, senderID, receiverID uuid.UUID) (*domain.Friendship, error) {
	f := &domain.Friendship{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     domain.FriendPending,
	}
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, `
        INSERT INTO friendships (sender_id, receiver_id, status)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at
    `, senderID, receiverID, domain.FriendPending).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrFriendshipExists
		}
		return nil, err
	}
	return f, nil
}

// UpdateStatus matches the pair in either direction; either party may act.
func (r *FriendRepo) UpdateStatus(ctx context.Context, userA, userB uuid.UUID, status string) (*domain.Friendship, error) {
	f := &domain.Friendship{Status: status}
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, `
        UPDATE friendships
        SET status = $3, updated_at = now()
        WHERE (sender_id = $1 AND receiver_id = $2)
           OR (sender_id = $2 AND receiver_id = $1)
        RETURNING id, sender_id, receiver_id, created_at, updated_at
    `, userA, userB, status).Scan(&f.ID, &f.SenderID, &f.ReceiverID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrFriendshipNotFound
		}
		return nil, err
	}
	return f, nil
}

// DeleteRequest removes only a row the caller sent; cancellation is not
// symmetric. The deleted row comes back so callers can fan out the change.
func (r *FriendRepo) DeleteRequest(ctx context.Context, senderID, receiverID uuid.UUID) (*domain.Friendship, error) {
	f := &domain.Friendship{SenderID: senderID, ReceiverID: receiverID}
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, `
        DELETE FROM friendships
        WHERE sender_id = $1 AND receiver_id = $2
        RETURNING id, status, created_at, updated_at
    `, senderID, receiverID).Scan(&f.ID, &f.Status, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrFriendshipNotFound
		}
		return nil, err
	}
	return f, nil
}

func (r *FriendRepo) GetStatus(ctx context.Context, userA, userB uuid.UUID) (string, error) {
	var status string
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, `
        SELECT status FROM friendships
        WHERE (sender_id = $1 AND receiver_id = $2)
           OR (sender_id = $2 AND receiver_id = $1)
    `, userA, userB).Scan(&status)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", domain.ErrFriendshipNotFound
		}
		return "", err
	}
	return status, nil
}

func (r *FriendRepo) ListPending(ctx context.Context, receiverID uuid.UUID, cursor *domain.Cursor, limit int) ([]domain.FriendPreview, error) {
	return r.listRequests(ctx, `
        SELECT u.id, u.username, p.full_name, p.avatar_url, f.created_at
        FROM friendships f
        JOIN users u ON u.id = f.sender_id
        JOIN profiles p ON p.user_id = f.sender_id
        WHERE f.receiver_id = $1 AND f.status = 'pending'`, receiverID, cursor, limit)
}

func (r *FriendRepo) ListSent(ctx context.Context, senderID uuid.UUID, cursor *domain.Cursor, limit int) ([]domain.FriendPreview, error) {
	return r.listRequests(ctx, `
        SELECT u.id, u.username, p.full_name, p.avatar_url, f.created_at
        FROM friendships f
        JOIN users u ON u.id = f.receiver_id
        JOIN profiles p ON p.user_id = f.receiver_id
        WHERE f.sender_id = $1 AND f.status = 'pending'`, senderID, cursor, limit)
}

func (r *FriendRepo) listRequests(ctx context.Context, base string, userID uuid.UUID, cursor *domain.Cursor, limit int) ([]domain.FriendPreview, error) {
	query := base + `
        ORDER BY f.created_at DESC, f.id DESC
        LIMIT $2`
	args := []any{userID, limit}
	if cursor != nil {
		query = base + `
          AND (f.created_at, f.id) < ($2, $3)
        ORDER BY f.created_at DESC, f.id DESC
        LIMIT $4`
		args = []any{userID, cursor.CreatedAt, cursor.ID, limit}
	}

	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.FriendPreview
	for rows.Next() {
		var row domain.FriendPreview
		var fullName sql.NullString
		if err := rows.Scan(&row.UserID, &row.Username, &fullName, &row.AvatarURL, &row.CreatedAt); err != nil {
			return nil, err
		}
		row.FullName = fullName.String
		out = append(out, row)
	}
	return out, rows.Err()
}
