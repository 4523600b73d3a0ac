package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"linkup/internal/core/domain"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

func (r *MessageRepo) InsertMessage(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	stored := *m
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, `
        INSERT INTO messages (conversation_id, sender_id, content, file_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `, m.ConversationID, m.SenderID, m.Content, m.FileID).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// ListMessages pages history newest-first with a keyset cursor; clients
// render the page reversed.
func (r *MessageRepo) ListMessages(ctx context.Context, conversationID uuid.UUID, cursor *domain.Cursor, limit int) ([]domain.MessagePreview, error) {
	base := `
        SELECT m.id, m.conversation_id, m.sender_id, m.content, m.file_id, m.created_at,
               u.username, p.avatar_url
        FROM messages m
        JOIN users u ON u.id = m.sender_id
        JOIN profiles p ON p.user_id = m.sender_id
        WHERE m.conversation_id = $1`
	query := base + `
        ORDER BY m.created_at DESC, m.id DESC
        LIMIT $2`
	args := []any{conversationID, limit}
	if cursor != nil {
		query = base + `
          AND (m.created_at, m.id) < ($2, $3)
        ORDER BY m.created_at DESC, m.id DESC
        LIMIT $4`
		args = []any{conversationID, cursor.CreatedAt, cursor.ID, limit}
	}

	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MessagePreview
	for rows.Next() {
		var row domain.MessagePreview
		if err := rows.Scan(
			&row.ID, &row.ConversationID, &row.SenderID, &row.Content, &row.FileID, &row.CreatedAt,
			&row.SenderUsername, &row.SenderAvatarURL,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
