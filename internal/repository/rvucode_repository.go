package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain/rvucode"
)

type RVUCodeRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewRVUCodeRepository(db *gorm.DB, log *zap.Logger) *RVUCodeRepository {
	return &RVUCodeRepository{db: db, log: log}
}

func (r *RVUCodeRepository) ListAll(ctx context.Context) ([]rvucode.ReferenceCode, error) {
	var codes []rvucode.ReferenceCode
	if err := r.db.WithContext(ctx).Order("hcpcs ASC").Find(&codes).Error; err != nil {
		return nil, fmt.Errorf("listing rvu codes: %w", err)
	}
	return codes, nil
}

func (r *RVUCodeRepository) UpsertBatch(ctx context.Context, codes []rvucode.ReferenceCode) error {
	if len(codes) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hcpcs"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "status_code", "work_rvu"}),
	}).CreateInBatches(codes, 500).Error
	if err != nil {
		return fmt.Errorf("upserting rvu codes: %w", err)
	}
	return nil
}
