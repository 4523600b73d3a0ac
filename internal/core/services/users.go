package services

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"linkup/internal/core/contracts"
	"linkup/internal/core/domain"
)

type UserService struct {
	users         domain.UserRepository
	profiles      domain.ProfileRepository
	notifications *NotificationService
	tx            contracts.TxManager
	log           *slog.Logger
}

func NewUserService(
	log *slog.Logger,
	users domain.UserRepository,
	profiles domain.ProfileRepository,
	notifications *NotificationService,
	tx contracts.TxManager,
) *UserService {
	return &UserService{
		log:           log,
		users:         users,
		profiles:      profiles,
		notifications: notifications,
		tx:            tx,
	}
}

func (s *UserService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	if err := (validation.Errors{
		"username": validation.Validate(username, validation.Required, validation.Length(3, 32), is.Alphanumeric),
		"email":    validation.Validate(email, validation.Required, is.Email),
		"password": validation.Validate(password, validation.Required, validation.Length(8, 128)),
	}).Filter(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidationFailed, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var created *domain.User
	if err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		var txErr error
		created, txErr = s.users.CreateUser(txCtx, username, email, string(hash))
		return txErr
	}); err != nil {
		s.log.ErrorContext(ctx, "users - register - create failed", "username", username, "err", err)
		return nil, err
	}
	s.log.InfoContext(ctx, "users - register - success", "user_id", created.ID)
	return created, nil
}

func (s *UserService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return s.profiles.GetProfile(ctx, userID)
}

// UpdateProfile updates the display fields and raises an account-activity
// notification for the owner. The owner is both actor and recipient here;
// the publish still happens so socket-only sessions observe the change.
func (s *UserService) UpdateProfile(ctx context.Context, actor domain.Identity, fullName, bio string, avatarURL *string) (*domain.Profile, error) {
	if err := (validation.Errors{
		"fullName": validation.Validate(fullName, validation.Length(0, 100)),
		"bio":      validation.Validate(bio, validation.Length(0, 500)),
	}).Filter(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidationFailed, err)
	}

	var updated *domain.Profile
	if err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		var txErr error
		updated, txErr = s.profiles.UpdateProfile(txCtx, &domain.Profile{
			UserID:    actor.UserID,
			FullName:  fullName,
			Bio:       bio,
			AvatarURL: avatarURL,
		})
		return txErr
	}); err != nil {
		s.log.ErrorContext(ctx, "users - update profile - failed", "user_id", actor.UserID, "err", err)
		return nil, err
	}

	if _, err := s.notifications.Publish(ctx,
		domain.NotificationAccountActivity,
		"Your profile was updated",
		actor.UserID,
		nil,
	); err != nil {
		s.log.WarnContext(ctx, "users - update profile - notification failed", "user_id", actor.UserID, "err", err)
	}
	return updated, nil
}
