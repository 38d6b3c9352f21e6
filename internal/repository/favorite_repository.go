package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain/favorite"
)

type FavoriteRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewFavoriteRepository(db *gorm.DB, log *zap.Logger) *FavoriteRepository {
	return &FavoriteRepository{db: db, log: log}
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string) ([]*favorite.Favorite, error) {
	var favorites []*favorite.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sort_order ASC, created_at ASC").
		Find(&favorites).Error
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	return favorites, nil
}

// Add inserts the favorite; a duplicate (user_id, hcpcs) is a no-op and the
// existing row is loaded back into f.
func (r *FavoriteRepository) Add(ctx context.Context, f *favorite.Favorite) error {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "hcpcs"}},
		DoNothing: true,
	}).Create(f)
	if res.Error != nil {
		return fmt.Errorf("adding favorite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		err := r.db.WithContext(ctx).
			Where("user_id = ? AND hcpcs = ?", f.UserID, f.Hcpcs).
			First(f).Error
		if err != nil {
			return fmt.Errorf("loading existing favorite: %w", err)
		}
	}
	return nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, hcpcs string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND hcpcs = ?", userID, hcpcs).
		Delete(&favorite.Favorite{})
	if res.Error != nil {
		return fmt.Errorf("removing favorite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return favorite.ErrFavoriteNotFound
	}
	return nil
}

func (r *FavoriteRepository) UpdateSortOrder(ctx context.Context, userID, hcpcs string, sortOrder int) error {
	err := r.db.WithContext(ctx).
		Model(&favorite.Favorite{}).
		Where("user_id = ? AND hcpcs = ?", userID, hcpcs).
		Update("sort_order", sortOrder).Error
	if err != nil {
		return fmt.Errorf("updating sort order: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&favorite.Favorite{}).Error; err != nil {
		return fmt.Errorf("deleting user favorites: %w", err)
	}
	return nil
}
