package analytics

import "errors"

var (
	ErrInvalidGranularity = errors.New("unrecognized period granularity")
	ErrMissingDateRange   = errors.New("start and end dates are required")
	ErrAggregationFailed  = errors.New("analytics aggregation failed")
)
