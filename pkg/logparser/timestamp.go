package logparser

import (
	"strings"
	"time"
)

// timestampLayouts are tried in order when normalizing a raw timestamp.
// More specific layouts come first so fractional seconds and zone offsets
// are not truncated by a shorter match.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000-07:00",
	"2006-01-02T15:04:05-07:00",
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"02/Jan/2006:15:04:05 -0700",
	"Jan 2 2006 15:04:05",
	"Jan 2 15:04:05",
}

// NormalizeResult reports how a timestamp was resolved.
type NormalizeResult struct {
	// Time is the resolved timestamp, in UTC. Always valid.
	Time time.Time

	// Defaulted is true when the raw value could not be parsed and the
	// current time was substituted.
	Defaulted bool

	// Reason describes why the value was defaulted, for diagnostics.
	Reason string
}

// Normalizer converts heterogeneous timestamp text into canonical UTC times.
// A zero Normalizer is ready to use; Now may be overridden for tests.
type Normalizer struct {
	// Now supplies the fallback time for unparseable input.
	// Defaults to time.Now.
	Now func() time.Time
}

// Normalize parses raw into an absolute UTC time. It never fails: when no
// layout matches, the result carries the current time with Defaulted set so
// callers can log the fallback without losing the non-fatal contract.
func (n *Normalizer) Normalize(raw string) NormalizeResult {
	s := strings.TrimSpace(raw)
	if s == "" {
		return n.defaulted("empty timestamp")
	}

	// Millisecond-comma locales (e.g. "10:15:30,123") parse once the first
	// comma becomes a period.
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i] + "." + s[i+1:]
	}

	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		// Layouts without a year (syslog) parse to year zero; pin them
		// to the current year.
		if t.Year() == 0 {
			now := n.now()
			t = time.Date(now.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
		}
		return NormalizeResult{Time: t.UTC()}
	}

	return n.defaulted("unrecognized timestamp " + strings.TrimSpace(raw))
}

func (n *Normalizer) defaulted(reason string) NormalizeResult {
	return NormalizeResult{Time: n.now().UTC(), Defaulted: true, Reason: reason}
}

func (n *Normalizer) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}
