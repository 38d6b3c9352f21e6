package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain/visit"
)

type VisitRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewVisitRepository(db *gorm.DB, log *zap.Logger) *VisitRepository {
	return &VisitRepository{db: db, log: log}
}

func (r *VisitRepository) Create(ctx context.Context, v *visit.Visit) error {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("creating visit: %w", err)
	}
	return nil
}

func (r *VisitRepository) ListByUser(ctx context.Context, userID string) ([]*visit.Visit, error) {
	var visits []*visit.Visit
	err := r.db.WithContext(ctx).
		Preload("Procedures", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&visits).Error
	if err != nil {
		return nil, fmt.Errorf("listing visits: %w", err)
	}
	return visits, nil
}

// Update rewrites the visit row and replaces its procedure set in one
// transaction. Ownership is enforced by the (id, user_id) predicate.
func (r *VisitRepository) Update(ctx context.Context, v *visit.Visit) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&visit.Visit{}).
			Where("id = ? AND user_id = ?", v.ID, v.UserID).
			Updates(map[string]any{
				"date":       v.Date,
				"time":       v.Time,
				"notes":      v.Notes,
				"is_no_show": v.IsNoShow,
			})
		if res.Error != nil {
			return fmt.Errorf("updating visit: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return visit.ErrVisitNotFound
		}

		if err := tx.Where("visit_id = ?", v.ID).Delete(&visit.Procedure{}).Error; err != nil {
			return fmt.Errorf("clearing procedures: %w", err)
		}
		for i := range v.Procedures {
			v.Procedures[i].ID = 0
			v.Procedures[i].VisitID = v.ID
		}
		if len(v.Procedures) > 0 {
			if err := tx.Create(&v.Procedures).Error; err != nil {
				return fmt.Errorf("replacing procedures: %w", err)
			}
		}
		return nil
	})
}

// Delete removes the visit; the ON DELETE CASCADE constraint takes the
// procedures with it.
func (r *VisitRepository) Delete(ctx context.Context, id int64, userID string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&visit.Visit{})
	if res.Error != nil {
		return fmt.Errorf("deleting visit: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return visit.ErrVisitNotFound
	}
	return nil
}

func (r *VisitRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(
			`DELETE FROM billing.visit_procedures WHERE visit_id IN (SELECT id FROM billing.visits WHERE user_id = ?)`,
			userID,
		).Error
		if err != nil {
			return fmt.Errorf("deleting user procedures: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&visit.Visit{}).Error; err != nil {
			return fmt.Errorf("deleting user visits: %w", err)
		}
		return nil
	})
}
