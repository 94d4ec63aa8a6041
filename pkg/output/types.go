// Package output provides formatting and output generation for parse results.
package output

import (
	"time"

	"github.com/loglens/loglens/pkg/logparser"
	"github.com/loglens/loglens/pkg/stats"
)

// Report is the complete output of an ingestion run.
type Report struct {
	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`

	// Records are the parsed records after filtering.
	Records []logparser.LogRecord `json:"records,omitempty"`

	// Stats holds derived distributions, when requested.
	Stats *stats.LogStatistics `json:"stats,omitempty"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate counts for a run.
type Summary struct {
	// ParsedRecords is the number of records produced by the parser.
	ParsedRecords int `json:"parsedRecords"`

	// MatchedRecords is the number of records that passed the filter.
	MatchedRecords int `json:"matchedRecords"`

	// Diagnostics summarizes non-fatal parse issues.
	Diagnostics logparser.Diagnostics `json:"diagnostics"`
}

// Metadata provides context about the run.
type Metadata struct {
	// Sources lists the files or URLs that were ingested.
	Sources []string `json:"sources,omitempty"`

	// Filtered is true when a filter predicate was active.
	Filtered bool `json:"filtered"`

	// IngestedAt is when ingestion completed.
	IngestedAt time.Time `json:"ingestedAt"`

	// Duration is how long ingestion took.
	Duration time.Duration `json:"duration"`
}
