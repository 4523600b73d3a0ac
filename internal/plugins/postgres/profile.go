package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"linkup/internal/core/domain"
)

type ProfileRepo struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	p := &domain.Profile{UserID: userID}
	var fullName, bio sql.NullString
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, `
        SELECT full_name, bio, avatar_url, updated_at
        FROM profiles WHERE user_id = $1
    `, userID).Scan(&fullName, &bio, &p.AvatarURL, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	p.FullName = fullName.String
	p.Bio = bio.String
	return p, nil
}

func (r *ProfileRepo) UpdateProfile(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	updated := *p
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, `
        UPDATE profiles
        SET full_name = $2, bio = $3, avatar_url = $4, updated_at = now()
        WHERE user_id = $1
        RETURNING updated_at
    `, p.UserID, p.FullName, p.Bio, p.AvatarURL).Scan(&updated.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (r *ProfileRepo) GetAvatarURL(ctx context.Context, userID uuid.UUID) (*string, error) {
	var avatarURL *string
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, `
        SELECT avatar_url FROM profiles WHERE user_id = $1
    `, userID).Scan(&avatarURL)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return avatarURL, nil
}
