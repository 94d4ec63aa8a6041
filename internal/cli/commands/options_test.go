package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeFlag(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2023-05-29T10:15:30Z", time.Date(2023, 5, 29, 10, 15, 30, 0, time.UTC)},
		{"2023-05-29T10:15:30", time.Date(2023, 5, 29, 10, 15, 30, 0, time.UTC)},
		{"2023-05-29 10:15:30", time.Date(2023, 5, 29, 10, 15, 30, 0, time.UTC)},
		{"2023-05-29", time.Date(2023, 5, 29, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := parseTimeFlag(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, got.Equal(tt.want), "parseTimeFlag(%q) = %v", tt.in, got)
	}

	_, err := parseTimeFlag("yesterday")
	require.Error(t, err)
}

func TestFilterOptions_Predicate(t *testing.T) {
	opts := FilterOptions{
		Since:     "2023-05-29",
		Until:     "2023-05-30",
		Level:     "ERROR",
		Search:    "timeout",
		AccountNo: "ACC1",
	}

	p, err := opts.Predicate()
	require.NoError(t, err)
	require.NotNil(t, p.Start)
	require.NotNil(t, p.End)
	assert.True(t, p.Start.Before(*p.End))
	assert.Equal(t, "ERROR", p.Level)
	assert.Equal(t, "timeout", p.SearchTerm)
	assert.Equal(t, "ACC1", p.AccountNo)
	assert.False(t, p.IsZero())
}

func TestFilterOptions_PredicateInvalidTime(t *testing.T) {
	opts := FilterOptions{Since: "not a time"}
	_, err := opts.Predicate()
	require.Error(t, err)

	opts = FilterOptions{Until: "also bad"}
	_, err = opts.Predicate()
	require.Error(t, err)
}

func TestFilterOptions_EmptyPredicate(t *testing.T) {
	p, err := (&FilterOptions{}).Predicate()
	require.NoError(t, err)
	assert.True(t, p.IsZero())
}
