package logparser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_CommaMilliseconds(t *testing.T) {
	var n Normalizer

	res := n.Normalize("2023-05-29 10:15:30,123")
	require.False(t, res.Defaulted)
	assert.Equal(t, time.Date(2023, 5, 29, 10, 15, 30, 123000000, time.UTC), res.Time)
}

func TestNormalize_Layouts(t *testing.T) {
	var n Normalizer

	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"rfc3339 offset", "2023-05-29T10:00:00+00:00", time.Date(2023, 5, 29, 10, 0, 0, 0, time.UTC)},
		{"rfc3339 zulu", "2023-05-29T10:00:00Z", time.Date(2023, 5, 29, 10, 0, 0, 0, time.UTC)},
		{"iso millis", "2023-05-29T10:15:30.123", time.Date(2023, 5, 29, 10, 15, 30, 123000000, time.UTC)},
		{"space separated", "2023-05-29 10:15:30", time.Date(2023, 5, 29, 10, 15, 30, 0, time.UTC)},
		{"slash date", "2023/05/29 10:15:30", time.Date(2023, 5, 29, 10, 15, 30, 0, time.UTC)},
		{"offset converted to utc", "2023-05-29T12:00:00+02:00", time.Date(2023, 5, 29, 10, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := n.Normalize(tt.raw)
			require.False(t, res.Defaulted, "reason: %s", res.Reason)
			assert.True(t, res.Time.Equal(tt.want), "got %v, want %v", res.Time, tt.want)
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	var n Normalizer

	first := n.Normalize("2023-05-29 10:15:30,123")
	require.False(t, first.Defaulted)

	second := n.Normalize(first.Time.Format(time.RFC3339Nano))
	require.False(t, second.Defaulted)
	assert.True(t, first.Time.Equal(second.Time))
}

func TestNormalize_DefaultsToNow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	n := Normalizer{Now: func() time.Time { return now }}

	for _, raw := range []string{"", "not a timestamp", "29th of May"} {
		res := n.Normalize(raw)
		assert.True(t, res.Defaulted, "input %q should default", raw)
		assert.True(t, res.Time.Equal(now))
		assert.NotEmpty(t, res.Reason)
	}
}

func TestNormalize_SyslogYearPinned(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	n := Normalizer{Now: func() time.Time { return now }}

	res := n.Normalize("May 29 10:15:30")
	require.False(t, res.Defaulted)
	assert.Equal(t, 2024, res.Time.Year())
	assert.Equal(t, time.May, res.Time.Month())
	assert.Equal(t, 29, res.Time.Day())
}
