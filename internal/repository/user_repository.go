package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain"
)

var ErrUserNotFound = errors.New("user not found")

const maxFailedAttempts = 5

const lockDuration = 15 * time.Minute

type UserRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewUserRepository(db *gorm.DB, log *zap.Logger) *UserRepository {
	return &UserRepository{db: db, log: log}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching user by email: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return &u, nil
}

// UpdateLoginAttempt records the outcome of a login. A success resets the
// failure counter; a failure increments it and locks the account once the
// threshold is crossed.
func (r *UserRepository) UpdateLoginAttempt(ctx context.Context, id uuid.UUID, success bool) error {
	if success {
		now := time.Now()
		err := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).
			Updates(map[string]any{
				"failed_login_count": 0,
				"locked_until":       nil,
				"last_login_at":      now,
			}).Error
		if err != nil {
			return fmt.Errorf("recording login: %w", err)
		}
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u domain.User
		if err := tx.First(&u, "id = ?", id).Error; err != nil {
			return fmt.Errorf("fetching user for lockout: %w", err)
		}
		updates := map[string]any{"failed_login_count": u.FailedLoginCount + 1}
		if u.FailedLoginCount+1 >= maxFailedAttempts {
			lockedUntil := time.Now().Add(lockDuration)
			updates["locked_until"] = lockedUntil
		}
		if err := tx.Model(&domain.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("recording failed login: %w", err)
		}
		return nil
	})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).
		Updates(map[string]any{
			"password_hash":       hash,
			"password_changed_at": time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return nil
}

// DeleteAccount removes the user row. The caller is responsible for wiping
// the user's visits and favorites first; those live behind their own
// repositories.
func (r *UserRepository) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Exec(`DELETE FROM auth.users WHERE id = ?`, id)
	if res.Error != nil {
		return fmt.Errorf("deleting user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
