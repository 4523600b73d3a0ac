package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"linkup/internal/core/domain"
)

type ConversationRepo struct {
	db *sql.DB
}

func NewConversationRepository(db *sql.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// GetOrCreateConversation normalizes the pair ordering so the unique index on
// (user1_id, user2_id) holds regardless of which party starts.
func (r *ConversationRepo) GetOrCreateConversation(ctx context.Context, userA, userB uuid.UUID) (*domain.Conversation, error) {
	first, second := userA, userB
	if second.String() < first.String() {
		first, second = second, first
	}

	conv := &domain.Conversation{User1ID: first, User2ID: second}
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, `
        INSERT INTO conversations (user1_id, user2_id)
        VALUES ($1, $2)
        ON CONFLICT (user1_id, user2_id) DO NOTHING
        RETURNING id, created_at
    `, first, second).Scan(&conv.ID, &conv.CreatedAt)
	switch {
	case err == nil:
		return conv, nil
	case err == sql.ErrNoRows:
		// Already exists
		err = exec.QueryRowContext(ctx, `
            SELECT id, created_at FROM conversations
            WHERE user1_id = $1 AND user2_id = $2
        `, first, second).Scan(&conv.ID, &conv.CreatedAt)
		if err != nil {
			return nil, err
		}
		return conv, nil
	default:
		return nil, err
	}
}

func (r *ConversationRepo) GetConversationByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	conv := &domain.Conversation{ID: id}
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, `
        SELECT user1_id, user2_id, created_at
        FROM conversations WHERE id = $1
    `, id).Scan(&conv.User1ID, &conv.User2ID, &conv.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrConversationNotFound
		}
		return nil, err
	}
	return conv, nil
}

// ListConversations resolves the counterpart's identity per row, newest
// activity first.
func (r *ConversationRepo) ListConversations(ctx context.Context, userID uuid.UUID) ([]domain.ConversationPreview, error) {
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, `
        SELECT c.id, c.user1_id, c.user2_id, c.created_at,
               u.id, u.username, p.avatar_url
        FROM conversations c
        JOIN users u
          ON u.id = CASE WHEN c.user1_id = $1 THEN c.user2_id ELSE c.user1_id END
        JOIN profiles p ON p.user_id = u.id
        WHERE c.user1_id = $1 OR c.user2_id = $1
        ORDER BY c.created_at DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ConversationPreview
	for rows.Next() {
		var row domain.ConversationPreview
		if err := rows.Scan(
			&row.ID, &row.User1ID, &row.User2ID, &row.CreatedAt,
			&row.Other.UserID, &row.Other.Username, &row.Other.AvatarURL,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
