package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain/analytics"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/pkg/metrics"
)

type AnalyticsService struct {
	repo analytics.Repository
	log  *zap.Logger
	mc   *metrics.Collector
}

func NewAnalyticsService(repo analytics.Repository, log *zap.Logger, mc *metrics.Collector) *AnalyticsService {
	return &AnalyticsService{repo: repo, log: log, mc: mc}
}

// Summary aggregates total RVU production per period over [start, end].
func (s *AnalyticsService) Summary(ctx context.Context, userID, period string, start, end time.Time) ([]analytics.PeriodSummary, error) {
	q, err := s.buildQuery(userID, period, start, end)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.Summarize(ctx, q)
	if err != nil {
		s.log.Error("summary aggregation failed", zap.Error(err), zap.String("user_id", userID))
		return nil, err
	}

	if s.mc != nil {
		s.mc.AnalyticsQueriesTotal.WithLabelValues("summary", string(q.Granularity)).Inc()
	}
	return rows, nil
}

// Breakdown aggregates per-code production per period over [start, end].
func (s *AnalyticsService) Breakdown(ctx context.Context, userID, period string, start, end time.Time) ([]analytics.CodeBreakdown, error) {
	q, err := s.buildQuery(userID, period, start, end)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.BreakdownByCode(ctx, q)
	if err != nil {
		s.log.Error("breakdown aggregation failed", zap.Error(err), zap.String("user_id", userID))
		return nil, err
	}

	if s.mc != nil {
		s.mc.AnalyticsQueriesTotal.WithLabelValues("breakdown", string(q.Granularity)).Inc()
	}
	return rows, nil
}

func (s *AnalyticsService) buildQuery(userID, period string, start, end time.Time) (analytics.Query, error) {
	g, err := analytics.ParseGranularity(period)
	if err != nil {
		return analytics.Query{}, err
	}
	if start.IsZero() || end.IsZero() {
		return analytics.Query{}, analytics.ErrMissingDateRange
	}
	return analytics.Query{
		UserID:      userID,
		Granularity: g,
		Start:       start,
		End:         end,
	}, nil
}
