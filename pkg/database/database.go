package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/config"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain/favorite"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain/rvucode"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain/visit"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt:                              true,
		DisableForeignKeyConstraintWhenMigrating: false,
		DisableAutomaticPing:                     false,
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: false,
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	schemas := []string{"auth", "billing", "reference", "audit"} // logical namespace
	for _, schema := range schemas {
		if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)).Error; err != nil {
			return fmt.Errorf("creating schema %s: %w", schema, err)
		}
	}

	models := []any{
		&domain.User{},
		&domain.AuditLog{},
		&rvucode.ReferenceCode{},
		&visit.Visit{},
		&visit.Procedure{},
		&favorite.Favorite{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		name  string
		query string
	}{
		// Analytics scans are always bounded by (user_id, date); the composite
		// index from the model definition covers summary and breakdown alike.
		{
			name:  "idx_visit_procedures_visit",
			query: `CREATE INDEX IF NOT EXISTS idx_visit_procedures_visit ON billing.visit_procedures (visit_id, hcpcs)`,
		},
		{
			name:  "idx_rvu_codes_description_trgm",
			query: `CREATE INDEX IF NOT EXISTS idx_rvu_codes_description_trgm ON reference.rvu_codes USING gin (description gin_trgm_ops)`,
		},
		{
			name:  "idx_audit_logs_user_time",
			query: `CREATE INDEX IF NOT EXISTS idx_audit_logs_user_time ON audit.logs (user_id, occurred_at DESC)`,
		},
	}

	for _, idx := range indexes {
		_ = db.Exec("CREATE EXTENSION IF NOT EXISTS pg_trgm").Error

		if err := db.Exec(idx.query).Error; err != nil {
			_ = err
		}
	}

	return nil
}
