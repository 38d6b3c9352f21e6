package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGranularity(t *testing.T) {
	cases := []struct {
		token string
		want  Granularity
	}{
		{"daily", GranularityDay},
		{"day", GranularityDay},
		{"weekly", GranularityWeek},
		{"week", GranularityWeek},
		{"monthly", GranularityMonth},
		{"month", GranularityMonth},
		{"yearly", GranularityYear},
		{"year", GranularityYear},
	}

	for _, tc := range cases {
		t.Run(tc.token, func(t *testing.T) {
			g, err := ParseGranularity(tc.token)
			require.NoError(t, err)
			assert.Equal(t, tc.want, g)
		})
	}
}

func TestParseGranularityRejectsUnknownTokens(t *testing.T) {
	for _, token := range []string{"", "hourly", "quarterly", "Daily", "DAY"} {
		_, err := ParseGranularity(token)
		assert.ErrorIs(t, err, ErrInvalidGranularity, "token %q", token)
	}
}
