package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain/analytics"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	return gdb, mock
}

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestSummarizeBucketsByPeriod(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewAnalyticsRepository(gdb, zap.NewNop(), nil)

	rows := sqlmock.NewRows([]string{"period_start", "total_work_rvu", "total_encounters", "total_no_shows"}).
		AddRow(date("2026-03-02"), "14.72", 8, 1).
		AddRow(date("2026-03-09"), "9.60", 5, 0)

	mock.ExpectQuery(`SELECT date_trunc\(\$1, v\.date\)::date AS period_start`).
		WithArgs("week", "user-1", date("2026-03-01"), date("2026-03-31")).
		WillReturnRows(rows)

	got, err := repo.Summarize(context.Background(), analytics.Query{
		UserID:      "user-1",
		Granularity: analytics.GranularityWeek,
		Start:       date("2026-03-01"),
		End:         date("2026-03-31"),
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, date("2026-03-02"), got[0].PeriodStart)
	assert.Equal(t, "14.72", got[0].TotalWorkRvu.String())
	assert.EqualValues(t, 8, got[0].TotalEncounters)
	assert.EqualValues(t, 1, got[0].TotalNoShows)
	assert.Equal(t, date("2026-03-09"), got[1].PeriodStart)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummarizeEmptyRangeReturnsEmptySlice(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewAnalyticsRepository(gdb, zap.NewNop(), nil)

	mock.ExpectQuery(`SELECT date_trunc`).
		WillReturnRows(sqlmock.NewRows([]string{"period_start", "total_work_rvu", "total_encounters", "total_no_shows"}))

	got, err := repo.Summarize(context.Background(), analytics.Query{
		UserID:      "user-1",
		Granularity: analytics.GranularityDay,
		Start:       date("2026-01-01"),
		End:         date("2026-01-31"),
	})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSummarizeWrapsDatabaseError(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewAnalyticsRepository(gdb, zap.NewNop(), nil)

	mock.ExpectQuery(`SELECT date_trunc`).
		WillReturnError(assert.AnError)

	_, err := repo.Summarize(context.Background(), analytics.Query{
		UserID:      "user-1",
		Granularity: analytics.GranularityMonth,
		Start:       date("2026-01-01"),
		End:         date("2026-12-31"),
	})
	assert.ErrorIs(t, err, analytics.ErrAggregationFailed)
}

func TestBreakdownGroupsByCodeWithinPeriod(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewAnalyticsRepository(gdb, zap.NewNop(), nil)

	rows := sqlmock.NewRows([]string{
		"period_start", "hcpcs", "description", "status_code",
		"total_work_rvu", "total_quantity", "encounter_count",
	}).
		AddRow(date("2026-03-01"), "99214", "Office visit, moderate", "A", "5.76", 3, 3).
		AddRow(date("2026-03-01"), "99213", "Office visit, low", "A", "2.60", 2, 2).
		AddRow(date("2026-02-01"), "99223", "Initial hospital care", "A", "3.50", 1, 1)

	mock.ExpectQuery(`FROM billing\.visit_procedures p`).
		WithArgs("month", "user-1", date("2026-02-01"), date("2026-03-31")).
		WillReturnRows(rows)

	got, err := repo.BreakdownByCode(context.Background(), analytics.Query{
		UserID:      "user-1",
		Granularity: analytics.GranularityMonth,
		Start:       date("2026-02-01"),
		End:         date("2026-03-31"),
	})
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Latest period first, highest RVU first within the period.
	assert.Equal(t, "99214", got[0].Hcpcs)
	assert.Equal(t, "5.76", got[0].TotalWorkRvu.String())
	assert.EqualValues(t, 3, got[0].TotalQuantity)
	assert.Equal(t, "99213", got[1].Hcpcs)
	assert.Equal(t, date("2026-02-01"), got[2].PeriodStart)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBreakdownWrapsDatabaseError(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewAnalyticsRepository(gdb, zap.NewNop(), nil)

	mock.ExpectQuery(`FROM billing\.visit_procedures p`).
		WillReturnError(assert.AnError)

	_, err := repo.BreakdownByCode(context.Background(), analytics.Query{
		UserID:      "user-1",
		Granularity: analytics.GranularityYear,
		Start:       date("2026-01-01"),
		End:         date("2026-12-31"),
	})
	assert.ErrorIs(t, err, analytics.ErrAggregationFailed)
}
