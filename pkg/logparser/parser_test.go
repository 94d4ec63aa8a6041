package logparser

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser(now time.Time) *Parser {
	return New(WithNormalizer(Normalizer{Now: func() time.Time { return now }}))
}

func TestParseText_ContainerLine(t *testing.T) {
	p := New()

	result := p.ParseText("2023-05-29 10:15:30,123 INFO [http-nio-8080-exec-1] com.example.Class - Started")
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.True(t, rec.Timestamp.Equal(time.Date(2023, 5, 29, 10, 15, 30, 123000000, time.UTC)))
	assert.Equal(t, "INFO", rec.Level)
	assert.Equal(t, "com.example.Class", rec.Source)
	assert.Equal(t, "Started", rec.Message)
	require.NotNil(t, rec.AdditionalInfo)
	assert.Equal(t, "http-nio-8080-exec-1", rec.AdditionalInfo.Thread)
	assert.Zero(t, result.Diagnostics.DefaultedTimestamps)
}

func TestParseText_StackTraceAttachment(t *testing.T) {
	p := New()

	result := p.ParseText(strings.Join([]string{
		"2023-05-29 10:15:30,123 ERROR [t1] X - Boom",
		"  at com.foo.bar(Baz.java:10)",
	}, "\n"))

	require.Len(t, result.Records, 1)
	assert.Equal(t, "  at com.foo.bar(Baz.java:10)", result.Records[0].StackTrace)
}

func TestParseText_MultiLineStackTraceOrder(t *testing.T) {
	p := New()

	result := p.ParseText(strings.Join([]string{
		"2023-05-29 10:15:30,123 ERROR [t1] X - Boom",
		"at com.foo.Outer.run(Outer.java:55)",
		"Caused by: java.io.IOException: broken pipe",
		"  at com.foo.Inner.write(Inner.java:12)",
		"2023-05-29 10:15:31,000 INFO [t1] X - Recovered",
	}, "\n"))

	require.Len(t, result.Records, 2)
	assert.Equal(t, strings.Join([]string{
		"at com.foo.Outer.run(Outer.java:55)",
		"Caused by: java.io.IOException: broken pipe",
		"  at com.foo.Inner.write(Inner.java:12)",
	}, "\n"), result.Records[0].StackTrace)
	assert.Equal(t, "Recovered", result.Records[1].Message)
	assert.Empty(t, result.Records[1].StackTrace)
}

func TestParseText_OrderPreserved(t *testing.T) {
	p := New()

	var lines []string
	for _, msg := range []string{"one", "two", "three", "four"} {
		lines = append(lines, "2023-05-29 10:15:30,123 INFO [t] L - "+msg)
	}
	result := p.ParseText(strings.Join(lines, "\n"))

	require.Len(t, result.Records, 4)
	for i, msg := range []string{"one", "two", "three", "four"} {
		assert.Equal(t, msg, result.Records[i].Message)
	}
}

func TestParseText_BlankLinesIgnored(t *testing.T) {
	p := New()

	result := p.ParseText("\n\n2023-05-29 10:15:30 INFO all good\n\n   \n")
	require.Len(t, result.Records, 1)
	assert.Equal(t, "all good", result.Records[0].Message)
}

func TestParseText_PipePayloadLine(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := newTestParser(now)

	result := p.ParseText("TRANSACTION|TX123|PAYMENT|2023-05-29T10:00:00+00:00|SUCCESS|response=OK|ofsResponse=ACK")
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.Equal(t, EventTransaction, rec.EventType)
	require.NotNil(t, rec.AdditionalInfo)
	assert.Equal(t, "TX123", rec.AdditionalInfo.UniqueID)
	assert.Equal(t, "PAYMENT", rec.AdditionalInfo.TxType)
	assert.Equal(t, "SUCCESS", rec.AdditionalInfo.Status)
	assert.Equal(t, "OK", rec.AdditionalInfo.Response)
	assert.Equal(t, "ACK", rec.AdditionalInfo.OfsResponse)
	// Timestamp comes from the payload, not the fallback clock.
	assert.True(t, rec.Timestamp.Equal(time.Date(2023, 5, 29, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, LevelUnknown, rec.Level)
}

func TestParseText_BusinessPipeWithStructuredPrefix(t *testing.T) {
	p := New()

	result := p.ParseText("2023-05-29 10:15:30,123 INFO [exec-1] com.bank.Gateway - AUTH_EVENT|2023-05-29T10:15:30Z|jdoe|10.0.0.1|LOGIN|OK|ACK")
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.Equal(t, EventAuth, rec.EventType)
	assert.Equal(t, "INFO", rec.Level)
	assert.Equal(t, "com.bank.Gateway", rec.Source)
	require.NotNil(t, rec.AdditionalInfo)
	assert.Equal(t, "jdoe", rec.AdditionalInfo.Username)
	assert.Equal(t, "exec-1", rec.AdditionalInfo.Thread)
	// Prefix timestamp wins over the payload's.
	assert.True(t, rec.Timestamp.Equal(time.Date(2023, 5, 29, 10, 15, 30, 123000000, time.UTC)))
}

func TestParseText_BasicExtractorRescue(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := newTestParser(now)

	result := p.ParseText("something happened at ERROR o'clock")
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.Equal(t, "ERROR", rec.Level)
	assert.Equal(t, "something happened at ERROR o'clock", rec.Message)
	assert.True(t, rec.Timestamp.Equal(now))
	assert.Equal(t, 1, result.Diagnostics.BasicExtractorLines)
}

func TestParseText_NeverDropsLines(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := newTestParser(now)

	line := "completely unstructured gibberish without any markers"
	result := p.ParseText(line)
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.Equal(t, LevelUnknown, rec.Level)
	assert.Equal(t, line, rec.Message)
	assert.True(t, rec.Timestamp.Equal(now))
	require.NotNil(t, rec.AdditionalInfo)
	assert.Contains(t, rec.AdditionalInfo.Get("attemptedFormats"), "business-pipe")
	assert.Equal(t, 1, result.Diagnostics.UnknownFormatLines)
}

func TestParseText_ContinuationWithoutCurrentRecord(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := newTestParser(now)

	// A stack frame with no preceding record starts its own UNKNOWN record
	// instead of being silently dropped.
	result := p.ParseText("at com.foo.bar(Baz.java:10)")
	require.Len(t, result.Records, 1)
	assert.Equal(t, LevelUnknown, result.Records[0].Level)
	assert.Equal(t, "at com.foo.bar(Baz.java:10)", result.Records[0].Message)
}

func TestParseText_CRLFInput(t *testing.T) {
	p := New()

	result := p.ParseText("2023-05-29 10:15:30 INFO first\r\n2023-05-29 10:15:31 INFO second\r\n")
	require.Len(t, result.Records, 2)
	assert.Equal(t, "first", result.Records[0].Message)
	assert.Equal(t, "second", result.Records[1].Message)
}

func TestParseText_LevelUpperCased(t *testing.T) {
	p := New()

	result := p.ParseText("2023-05-29 10:15:30 warn disk nearly full")
	require.Len(t, result.Records, 1)
	assert.Equal(t, "WARN", result.Records[0].Level)
}
