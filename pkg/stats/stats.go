// Package stats computes distributions over parsed log records.
package stats

import (
	"github.com/loglens/loglens/pkg/logparser"
)

const (
	hourBucketLayout = "2006-01-02 15"
	dateBucketLayout = "2006-01-02"
)

// LogStatistics holds single-pass aggregates over a record set. Maps only
// carry keys that actually occurred.
type LogStatistics struct {
	TotalEntries int `json:"totalEntries" yaml:"totalEntries"`

	ErrorCount   int `json:"errorCount" yaml:"errorCount"`
	WarningCount int `json:"warningCount" yaml:"warningCount"`
	InfoCount    int `json:"infoCount" yaml:"infoCount"`

	BySource    map[string]int `json:"bySource,omitempty" yaml:"bySource,omitempty"`
	ByHour      map[string]int `json:"byHour,omitempty" yaml:"byHour,omitempty"`
	ByAccountNo map[string]int `json:"byAccountNo,omitempty" yaml:"byAccountNo,omitempty"`
	ByUniqueID  map[string]int `json:"byUniqueId,omitempty" yaml:"byUniqueId,omitempty"`
	ByEventType map[string]int `json:"byEventType,omitempty" yaml:"byEventType,omitempty"`
	ByStatus    map[string]int `json:"byStatus,omitempty" yaml:"byStatus,omitempty"`

	// Date-bucketed nested distributions: date -> key -> count.
	AccountsByDate  map[string]map[string]int `json:"accountsByDate,omitempty" yaml:"accountsByDate,omitempty"`
	UniqueIDsByDate map[string]map[string]int `json:"uniqueIdsByDate,omitempty" yaml:"uniqueIdsByDate,omitempty"`
}

// Compute aggregates a record sequence in a single pass.
func Compute(records []logparser.LogRecord) *LogStatistics {
	s := &LogStatistics{
		BySource:        make(map[string]int),
		ByHour:          make(map[string]int),
		ByAccountNo:     make(map[string]int),
		ByUniqueID:      make(map[string]int),
		ByEventType:     make(map[string]int),
		ByStatus:        make(map[string]int),
		AccountsByDate:  make(map[string]map[string]int),
		UniqueIDsByDate: make(map[string]map[string]int),
	}

	for i := range records {
		s.add(&records[i])
	}

	return s
}

func (s *LogStatistics) add(r *logparser.LogRecord) {
	s.TotalEntries++

	switch r.Level {
	case "ERROR":
		s.ErrorCount++
	case "WARN", "WARNING":
		s.WarningCount++
	case "INFO":
		s.InfoCount++
	}

	if r.Source != "" {
		s.BySource[r.Source]++
	}

	s.ByHour[r.Timestamp.Format(hourBucketLayout)]++

	if r.EventType != "" {
		s.ByEventType[string(r.EventType)]++
	}

	if r.AdditionalInfo == nil {
		return
	}
	date := r.Timestamp.Format(dateBucketLayout)

	if acct := r.AdditionalInfo.AccountNo; acct != "" {
		s.ByAccountNo[acct]++
		bumpNested(s.AccountsByDate, date, acct)
	}
	if id := r.AdditionalInfo.UniqueID; id != "" {
		s.ByUniqueID[id]++
		bumpNested(s.UniqueIDsByDate, date, id)
	}
	if st := r.AdditionalInfo.Status; st != "" {
		s.ByStatus[st]++
	}
}

func bumpNested(m map[string]map[string]int, outer, inner string) {
	if m[outer] == nil {
		m[outer] = make(map[string]int)
	}
	m[outer][inner]++
}
