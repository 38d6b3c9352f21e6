package repository

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain/analytics"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/pkg/metrics"
)

// AnalyticsRepository computes the time-bucketed aggregates directly in SQL.
// Both modes share one truncation path: date_trunc degenerates to identity for
// day granularity, so no separate literal-date query is needed.
type AnalyticsRepository struct {
	db  *gorm.DB
	log *zap.Logger
	mc  *metrics.Collector
}

func NewAnalyticsRepository(db *gorm.DB, log *zap.Logger, mc *metrics.Collector) *AnalyticsRepository {
	return &AnalyticsRepository{db: db, log: log, mc: mc}
}

// summaryQuery buckets all of the user's visits in range. The LEFT JOIN keeps
// procedure-less (no-show) visits in their bucket: they contribute to
// total_no_shows while COUNT(DISTINCT p.visit_id) skips them because the
// joined columns are NULL.
const summaryQuery = `
SELECT date_trunc(?, v.date)::date AS period_start,
       COALESCE(SUM(p.work_rvu * p.quantity), 0) AS total_work_rvu,
       COUNT(DISTINCT p.visit_id) AS total_encounters,
       COUNT(DISTINCT CASE WHEN v.is_no_show THEN v.id END) AS total_no_shows
FROM billing.visits v
LEFT JOIN billing.visit_procedures p ON p.visit_id = v.id
WHERE v.user_id = ? AND v.date >= ? AND v.date <= ?
GROUP BY period_start
ORDER BY period_start ASC`

// breakdownQuery groups line items by period and code. Description and status
// code stay in the grouping key: procedures carry snapshot copies, and rows
// from different reference releases must not be merged.
const breakdownQuery = `
SELECT date_trunc(?, v.date)::date AS period_start,
       p.hcpcs,
       p.description,
       p.status_code,
       SUM(p.work_rvu * p.quantity) AS total_work_rvu,
       SUM(p.quantity) AS total_quantity,
       COUNT(*) AS encounter_count
FROM billing.visit_procedures p
JOIN billing.visits v ON v.id = p.visit_id
WHERE v.user_id = ? AND v.date >= ? AND v.date <= ?
GROUP BY period_start, p.hcpcs, p.description, p.status_code
ORDER BY period_start DESC, total_work_rvu DESC`

func (r *AnalyticsRepository) Summarize(ctx context.Context, q analytics.Query) ([]analytics.PeriodSummary, error) {
	start := time.Now()
	rows := make([]analytics.PeriodSummary, 0)
	err := r.db.WithContext(ctx).
		Raw(summaryQuery, string(q.Granularity), q.UserID, q.Start, q.End).
		Scan(&rows).Error
	r.observe("summarize", start)
	if err != nil {
		r.log.Error("summary aggregation failed", zap.Error(err), zap.String("granularity", string(q.Granularity)))
		return nil, fmt.Errorf("%w: %v", analytics.ErrAggregationFailed, err)
	}
	return rows, nil
}

func (r *AnalyticsRepository) BreakdownByCode(ctx context.Context, q analytics.Query) ([]analytics.CodeBreakdown, error) {
	start := time.Now()
	rows := make([]analytics.CodeBreakdown, 0)
	err := r.db.WithContext(ctx).
		Raw(breakdownQuery, string(q.Granularity), q.UserID, q.Start, q.End).
		Scan(&rows).Error
	r.observe("breakdown", start)
	if err != nil {
		r.log.Error("breakdown aggregation failed", zap.Error(err), zap.String("granularity", string(q.Granularity)))
		return nil, fmt.Errorf("%w: %v", analytics.ErrAggregationFailed, err)
	}
	return rows, nil
}

func (r *AnalyticsRepository) observe(operation string, start time.Time) {
	if r.mc != nil {
		r.mc.DBQueryDuration.WithLabelValues(operation, "visits").Observe(time.Since(start).Seconds())
	}
}
