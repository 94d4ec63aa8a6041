package filter

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loglens/loglens/pkg/logparser"
)

func ts(h int) time.Time {
	return time.Date(2023, 5, 29, h, 0, 0, 0, time.UTC)
}

func sampleRecords() []logparser.LogRecord {
	return []logparser.LogRecord{
		{
			Timestamp: ts(9),
			Level:     "INFO",
			Message:   "Started",
			Source:    "com.example.Boot",
		},
		{
			Timestamp:  ts(10),
			Level:      "ERROR",
			Message:    "timeout waiting for core banking host",
			Source:     "com.bank.Gateway",
			StackTrace: "at com.bank.Gateway.call(Gateway.java:42)",
		},
		{
			Timestamp: ts(11),
			Level:     "INFO",
			Message:   "Transaction TX123 (PAYMENT): SUCCESS",
			EventType: logparser.EventTransaction,
			AdditionalInfo: &logparser.EventFields{
				UniqueID: "TX123",
				TxType:   "PAYMENT",
				Status:   "SUCCESS",
			},
		},
		{
			Timestamp: ts(12),
			Level:     "ERROR",
			Message:   "Account query for ACC001: FAILED",
			EventType: logparser.EventAccountQuery,
			AdditionalInfo: &logparser.EventFields{
				AccountNo: "ACC001",
				Status:    "FAILED",
			},
		},
	}
}

func TestApply_EmptyPredicateReturnsAll(t *testing.T) {
	records := sampleRecords()
	assert.Len(t, Apply(records, Predicate{}), len(records))
}

func TestApply_TimeBoundsInclusive(t *testing.T) {
	records := sampleRecords()
	start, end := ts(10), ts(11)

	out := Apply(records, Predicate{Start: &start, End: &end})
	require.Len(t, out, 2)
	assert.True(t, out[0].Timestamp.Equal(ts(10)))
	assert.True(t, out[1].Timestamp.Equal(ts(11)))
}

func TestApply_LevelCaseInsensitive(t *testing.T) {
	out := Apply(sampleRecords(), Predicate{Level: "error"})
	require.Len(t, out, 2)
	for _, r := range out {
		assert.Equal(t, "ERROR", r.Level)
	}
}

func TestApply_SourceSubstring(t *testing.T) {
	out := Apply(sampleRecords(), Predicate{Source: "bank"})
	require.Len(t, out, 1)
	assert.Equal(t, "com.bank.Gateway", out[0].Source)
}

func TestApply_BusinessKeyLocations(t *testing.T) {
	// Exact additionalInfo hit.
	out := Apply(sampleRecords(), Predicate{UniqueID: "TX123"})
	require.Len(t, out, 1)

	// Message substring hit, no additionalInfo present.
	records := []logparser.LogRecord{{
		Timestamp: ts(9), Level: "INFO", Message: "processed TX999 ok",
	}}
	assert.Len(t, Apply(records, Predicate{UniqueID: "TX999"}), 1)

	// Level-slot hit: an identifier demoted into the level field.
	records = []logparser.LogRecord{{
		Timestamp: ts(9), Level: "ACC777", Message: "lenient parse artifact",
	}}
	assert.Len(t, Apply(records, Predicate{AccountNo: "ACC777"}), 1)

	// Username is never recovered from the level slot.
	records = []logparser.LogRecord{{
		Timestamp: ts(9), Level: "jdoe", Message: "lenient parse artifact",
	}}
	assert.Empty(t, Apply(records, Predicate{Username: "jdoe"}))
}

func TestApply_EventType(t *testing.T) {
	// Structured field match.
	out := Apply(sampleRecords(), Predicate{EventType: "ACCOUNT_QUERY"})
	require.Len(t, out, 1)
	assert.Equal(t, logparser.EventAccountQuery, out[0].EventType)

	// Message substring match without the structured field.
	records := []logparser.LogRecord{{
		Timestamp: ts(9), Level: "INFO", Message: "raw CARD_STATUS text",
	}}
	assert.Len(t, Apply(records, Predicate{EventType: "CARD_STATUS"}), 1)
}

func TestApply_SearchTermAllSurfaces(t *testing.T) {
	records := sampleRecords()

	// Message hit, case-insensitive.
	assert.Len(t, Apply(records, Predicate{SearchTerm: "TIMEOUT"}), 1)
	// Stack trace hit.
	assert.Len(t, Apply(records, Predicate{SearchTerm: "gateway.java"}), 1)
	// additionalInfo value hit.
	assert.Len(t, Apply(records, Predicate{SearchTerm: "payment"}), 1)
	// eventType hit.
	assert.Len(t, Apply(records, Predicate{SearchTerm: "account_query"}), 1)
}

func TestApply_ConjunctionAndComposition(t *testing.T) {
	var records []logparser.LogRecord
	for i := 0; i < 100; i++ {
		rec := logparser.LogRecord{
			Timestamp: ts(9),
			Level:     "INFO",
			Message:   fmt.Sprintf("record %d", i),
		}
		if i%2 == 0 {
			rec.Level = "ERROR"
		}
		if i%3 == 0 {
			rec.Message += " timeout"
		}
		records = append(records, rec)
	}

	combined := Apply(records, Predicate{Level: "ERROR", SearchTerm: "timeout"})

	// Filtering by both fields equals filtering sequentially, in either order.
	sequential := Apply(Apply(records, Predicate{Level: "ERROR"}), Predicate{SearchTerm: "timeout"})
	reversed := Apply(Apply(records, Predicate{SearchTerm: "timeout"}), Predicate{Level: "ERROR"})
	assert.Equal(t, sequential, combined)
	assert.Equal(t, reversed, combined)

	for _, r := range combined {
		assert.Equal(t, "ERROR", r.Level)
		assert.Contains(t, r.Message, "timeout")
	}
}
