package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Granularity is the time bucket visits are grouped into. Its string value is
// the Postgres date_trunc unit.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// ParseGranularity maps an API period token to a Granularity. Both the long
// form used by the web client (daily, weekly, ...) and the bare unit (day,
// week, ...) are accepted.
func ParseGranularity(token string) (Granularity, error) {
	switch token {
	case "daily", "day":
		return GranularityDay, nil
	case "weekly", "week":
		return GranularityWeek, nil
	case "monthly", "month":
		return GranularityMonth, nil
	case "yearly", "year":
		return GranularityYear, nil
	default:
		return "", ErrInvalidGranularity
	}
}

// Query identifies one aggregation request. Start and End are inclusive
// calendar dates; a reversed range yields an empty result, not an error.
type Query struct {
	UserID      string
	Granularity Granularity
	Start       time.Time
	End         time.Time
}

// PeriodSummary is one bucket of the summary aggregation. TotalEncounters
// counts distinct visits with at least one procedure; no-show visits count
// toward TotalNoShows only.
type PeriodSummary struct {
	PeriodStart     time.Time       `json:"period_start"`
	TotalWorkRvu    decimal.Decimal `json:"total_work_rvu"`
	TotalEncounters int64           `json:"total_encounters"`
	TotalNoShows    int64           `json:"total_no_shows"`
}

// CodeBreakdown is one (period, code) bucket of the breakdown aggregation.
// Description and status code are part of the grouping key: procedures store
// snapshot copies, so the same hcpcs can legitimately appear with different
// descriptions across reference releases.
type CodeBreakdown struct {
	PeriodStart    time.Time       `json:"period_start"`
	Hcpcs          string          `json:"hcpcs"`
	Description    string          `json:"description"`
	StatusCode     string          `json:"status_code"`
	TotalWorkRvu   decimal.Decimal `json:"total_work_rvu"`
	TotalQuantity  int64           `json:"total_quantity"`
	EncounterCount int64           `json:"encounter_count"`
}
