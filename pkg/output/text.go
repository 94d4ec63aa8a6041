package output

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/loglens/loglens/pkg/logparser"
	"github.com/loglens/loglens/pkg/stats"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(_ context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		f.formatSummary(report, w)
		return nil
	}

	for i := range report.Records {
		f.formatRecord(&report.Records[i], w)
	}

	if report.Stats != nil {
		f.formatStats(report.Stats, w)
	}

	fmt.Fprintln(w, "---")
	f.formatSummary(report, w)
	return nil
}

func (f *TextFormatter) formatSummary(report *Report, w io.Writer) {
	fmt.Fprintf(w, "loglens: %d records parsed, %d matched\n",
		report.Summary.ParsedRecords,
		report.Summary.MatchedRecords)

	d := report.Summary.Diagnostics
	if d.DefaultedTimestamps > 0 || d.UnknownFormatLines > 0 || d.BasicExtractorLines > 0 {
		fmt.Fprintf(w, "diagnostics: %d defaulted timestamps, %d basic-extractor lines, %d unrecognized lines\n",
			d.DefaultedTimestamps, d.BasicExtractorLines, d.UnknownFormatLines)
	}

	if f.opts.Verbose {
		fmt.Fprintf(w, "duration: %s\n", report.Metadata.Duration.Round(time.Millisecond))
	}
}

func (f *TextFormatter) formatRecord(r *logparser.LogRecord, w io.Writer) {
	line := fmt.Sprintf("%s %-7s", r.Timestamp.Format(time.RFC3339), r.Level)
	if r.Source != "" {
		line += " " + r.Source
	}
	if r.EventType != "" {
		line += " [" + string(r.EventType) + "]"
	}
	fmt.Fprintf(w, "%s %s\n", line, r.Message)

	if !f.opts.Verbose {
		return
	}
	if r.AdditionalInfo != nil {
		for _, kv := range flattenInfo(r.AdditionalInfo) {
			fmt.Fprintf(w, "    %s\n", kv)
		}
	}
	if r.StackTrace != "" {
		for _, l := range strings.Split(r.StackTrace, "\n") {
			fmt.Fprintf(w, "    %s\n", l)
		}
	}
}

func (f *TextFormatter) formatStats(s *stats.LogStatistics, w io.Writer) {
	fmt.Fprintln(w, "=== Statistics ===")
	fmt.Fprintf(w, "total: %d (error: %d, warning: %d, info: %d)\n",
		s.TotalEntries, s.ErrorCount, s.WarningCount, s.InfoCount)

	writeDistribution(w, "by source", s.BySource)
	writeDistribution(w, "by hour", s.ByHour)
	writeDistribution(w, "by event type", s.ByEventType)
	writeDistribution(w, "by status", s.ByStatus)
	writeDistribution(w, "by account", s.ByAccountNo)
	writeDistribution(w, "by unique id", s.ByUniqueID)
}

func writeDistribution(w io.Writer, title string, m map[string]int) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(w, "%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-30s %d\n", k, m[k])
	}
}

func flattenInfo(info *logparser.EventFields) []string {
	var kvs []string
	for _, key := range []string{
		"accountNo", "cardNo", "uniqueId", "username", "txType",
		"remoteAddr", "action", "status", "response", "ofsResponse",
		"thread", "timestamp",
	} {
		if v := info.Get(key); v != "" {
			kvs = append(kvs, key+"="+v)
		}
	}
	if len(info.Parts) > 0 {
		kvs = append(kvs, "parts="+strings.Join(info.Parts, "|"))
	}
	extraKeys := make([]string, 0, len(info.Extra))
	for k := range info.Extra {
		extraKeys = append(extraKeys, k)
	}
	sort.Strings(extraKeys)
	for _, k := range extraKeys {
		kvs = append(kvs, k+"="+info.Extra[k])
	}
	return kvs
}
