// Package filter applies multi-field predicates over parsed log records.
package filter

import (
	"strings"
	"time"

	"github.com/loglens/loglens/pkg/logparser"
)

// Predicate is a set of optional constraints over log records. Constraints
// are conjunctive across fields; nil or empty fields impose no restriction.
type Predicate struct {
	// Start and End bound the record timestamp, inclusive.
	Start *time.Time
	End   *time.Time

	// Level is a case-insensitive exact match.
	Level string

	// Source is a substring match against the record source.
	Source string

	// Business keys. Each is checked against the corresponding
	// additionalInfo field (exact), the message (substring), and - except
	// for Username - the level field (exact), recovering identifiers that
	// lenient dialect matching demoted into the level slot.
	AccountNo string
	UniqueID  string
	CardNo    string
	Username  string
	Status    string

	// EventType matches the structured eventType or a message substring.
	EventType string

	// SearchTerm is a case-insensitive substring match across message,
	// source, stack trace, level, eventType, and additionalInfo values.
	SearchTerm string
}

// IsZero reports whether the predicate imposes no constraints.
func (p *Predicate) IsZero() bool {
	return p.Start == nil && p.End == nil && p.Level == "" && p.Source == "" &&
		p.AccountNo == "" && p.UniqueID == "" && p.CardNo == "" &&
		p.Username == "" && p.Status == "" && p.EventType == "" &&
		p.SearchTerm == ""
}

// Apply returns the records matching every active constraint, preserving
// relative order.
func Apply(records []logparser.LogRecord, p Predicate) []logparser.LogRecord {
	if p.IsZero() {
		return records
	}
	var out []logparser.LogRecord
	for i := range records {
		if Matches(&records[i], p) {
			out = append(out, records[i])
		}
	}
	return out
}

// Matches reports whether a single record satisfies the predicate.
func Matches(r *logparser.LogRecord, p Predicate) bool {
	if p.Start != nil && r.Timestamp.Before(*p.Start) {
		return false
	}
	if p.End != nil && r.Timestamp.After(*p.End) {
		return false
	}
	if p.Level != "" && !strings.EqualFold(r.Level, p.Level) {
		return false
	}
	if p.Source != "" && !strings.Contains(r.Source, p.Source) {
		return false
	}

	if !matchBusinessKey(r, "accountNo", p.AccountNo, true) {
		return false
	}
	if !matchBusinessKey(r, "uniqueId", p.UniqueID, true) {
		return false
	}
	if !matchBusinessKey(r, "cardNo", p.CardNo, true) {
		return false
	}
	if !matchBusinessKey(r, "username", p.Username, false) {
		return false
	}
	if !matchBusinessKey(r, "status", p.Status, true) {
		return false
	}

	if p.EventType != "" {
		if string(r.EventType) != p.EventType && !strings.Contains(r.Message, p.EventType) {
			return false
		}
	}

	if p.SearchTerm != "" && !matchSearch(r, p.SearchTerm) {
		return false
	}

	return true
}

// matchBusinessKey checks a business identifier in up to three locations
// with OR semantics: exact additionalInfo field, message substring, and
// (when checkLevel is set) exact level match.
func matchBusinessKey(r *logparser.LogRecord, key, want string, checkLevel bool) bool {
	if want == "" {
		return true
	}
	if r.AdditionalInfo != nil && r.AdditionalInfo.Get(key) == want {
		return true
	}
	if strings.Contains(r.Message, want) {
		return true
	}
	if checkLevel && r.Level == want {
		return true
	}
	return false
}

func matchSearch(r *logparser.LogRecord, term string) bool {
	t := strings.ToLower(term)
	for _, s := range []string{r.Message, r.Source, r.StackTrace, r.Level, string(r.EventType)} {
		if s != "" && strings.Contains(strings.ToLower(s), t) {
			return true
		}
	}
	if r.AdditionalInfo != nil {
		for _, v := range r.AdditionalInfo.StringValues() {
			if strings.Contains(strings.ToLower(v), t) {
				return true
			}
		}
	}
	return false
}
