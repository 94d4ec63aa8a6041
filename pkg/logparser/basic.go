package logparser

import "regexp"

// basicDatetimePattern is the last-resort timestamp probe: ISO or
// space-separated date-times anywhere in the line.
var basicDatetimePattern = regexp.MustCompile(`\d{4}[-/]\d{2}[-/]\d{2}[T ]\d{2}:\d{2}:\d{2}(?:[.,]\d{1,9})?(?:Z|[+-]\d{2}:?\d{2})?`)

// extractBasic is the heuristic applied when no registered dialect matches.
// It probes the line independently for a timestamp and a level keyword; if
// either hits, it produces a record carrying whichever fields were found
// with the whole line as the message. Returns ok=false when neither probe
// matches, leaving the line to the unknown-format fallback.
func extractBasic(line string) (Partial, bool) {
	ts := basicDatetimePattern.FindString(line)
	var level string
	if m := levelKeywordPattern.FindStringSubmatch(line); m != nil {
		level = m[1]
	}

	if ts == "" && level == "" {
		return Partial{}, false
	}

	rec := LogRecord{Level: level, Message: line}
	rec.Info().Set("note", "extracted with basic format detection")
	return Partial{Record: rec, RawTimestamp: ts}, true
}
