package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"linkup/internal/core/domain"
)

type NotificationRepo struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) InsertNotification(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	var metadata []byte
	if n.Metadata != nil {
		var err error
		metadata, err = json.Marshal(n.Metadata)
		if err != nil {
			return nil, err
		}
	}
	stored := *n
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, `
        INSERT INTO notifications (user_id, type, content, metadata)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `, n.UserID, n.Type, n.Content, metadata).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	exec := GetExecutor(ctx, r.db)
	result, err := exec.ExecContext(ctx, `
        UPDATE notifications SET is_read = true WHERE id = $1
    `, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	exec := GetExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, `
        UPDATE notifications SET is_read = true
        WHERE user_id = $1 AND is_read = false
    `, userID)
	return err
}

// ListNotifications pages the feed newest-first with a keyset cursor, so a
// page stays stable while new rows arrive at the head.
func (r *NotificationRepo) ListNotifications(ctx context.Context, userID uuid.UUID, cursor *domain.Cursor, limit int) ([]domain.Notification, error) {
	query := `
        SELECT id, type, content, is_read, metadata, user_id, created_at
        FROM notifications
        WHERE user_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2`
	args := []any{userID, limit}
	if cursor != nil {
		query = `
        SELECT id, type, content, is_read, metadata, user_id, created_at
        FROM notifications
        WHERE user_id = $1
          AND (created_at, id) < ($2, $3)
        ORDER BY created_at DESC, id DESC
        LIMIT $4`
		args = []any{userID, cursor.CreatedAt, cursor.ID, limit}
	}

	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var metadata []byte
		if err := rows.Scan(&n.ID, &n.Type, &n.Content, &n.Read, &metadata, &n.UserID, &n.CreatedAt); err != nil {
			return nil, err
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
				return nil, err
			}
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, `
        SELECT count(*) FROM notifications
        WHERE user_id = $1 AND is_read = false
    `, userID).Scan(&count)
	return count, err
}
