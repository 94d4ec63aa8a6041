package logparser

import (
	"regexp"
	"strings"
)

// Partial is the output of a dialect extractor: a partially populated record
// plus the raw timestamp text still to be normalized.
type Partial struct {
	Record       LogRecord
	RawTimestamp string
}

// FormatDescriptor pairs a compiled line pattern with a pure extractor that
// maps a successful match to a partial record. Extractors must tolerate
// missing optional payload fields without failing.
type FormatDescriptor struct {
	Name       string
	PatternStr string
	Pattern    *regexp.Regexp
	Example    string
	Extract    func(line string, match []string) Partial
}

var (
	// embeddedTimestampPattern finds an ISO-style timestamp anywhere in a line.
	embeddedTimestampPattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:[.,]\d{1,9})?(?:Z|[+-]\d{2}:?\d{2})?`)

	// levelKeywordPattern finds a severity keyword anywhere in a line.
	levelKeywordPattern = regexp.MustCompile(`(?i)\b(ERROR|WARNING|WARN|INFO|DEBUG|TRACE)\b`)

	// loggerTokenPattern finds a "logger :" token used by the generic pipe
	// fallback to recover a source from unstructured prefixes.
	loggerTokenPattern = regexp.MustCompile(`([A-Za-z][\w.$-]*)\s+:`)
)

// DefaultFormats returns the built-in dialect cascade, most specific first.
// Ordering is a total tie-break: the first matching dialect wins, and the
// pipe-delimited business dialect must run before the generic text matchers
// because an ISO-timestamped line whose message contains pipes would
// otherwise be claimed by them.
func DefaultFormats() []*FormatDescriptor {
	formats := []*FormatDescriptor{
		{
			Name:       "business-pipe",
			PatternStr: `^(\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:[.,]\d{1,9})?)\s+(\w+)\s+\[([^\]]+)\]\s+([\w.$-]+)\s*-\s*([^|]+\|[^|]+\|.+)$`,
			Example:    "2023-05-29 10:15:30,123 INFO [exec-1] com.bank.Tx - TRANSACTION|TX1|PAYMENT|2023-05-29T10:00:00Z|SUCCESS",
			Extract: func(_ string, m []string) Partial {
				p := extractPayload(m[5])
				rec := LogRecord{
					Level:          m[2],
					Message:        p.message,
					Source:         m[4],
					EventType:      p.eventType,
					AdditionalInfo: p.fields,
				}
				rec.Info().Set("thread", m[3])
				return Partial{Record: rec, RawTimestamp: m[1]}
			},
		},
		{
			Name:       "container",
			PatternStr: `^(\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:[.,]\d{1,9})?)\s+(\w+)\s+\[([^\]]+)\]\s+([\w.$-]+)\s*-\s*(.*)$`,
			Example:    "2023-05-29 10:15:30,123 INFO [http-nio-8080-exec-1] com.example.Class - Started",
			Extract: func(_ string, m []string) Partial {
				rec := LogRecord{
					Level:   m[2],
					Message: m[5],
					Source:  m[4],
				}
				rec.Info().Set("thread", m[3])
				return Partial{Record: rec, RawTimestamp: m[1]}
			},
		},
		{
			Name:       "iso-bracketed-level",
			PatternStr: `^(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:[.,]\d{1,9})?(?:Z|[+-]\d{2}:?\d{2})?)\s+\[(\w+)\]\s+(.*)$`,
			Example:    "2023-05-29T10:15:30Z [ERROR] Connection refused",
			Extract: func(_ string, m []string) Partial {
				return Partial{
					Record:       LogRecord{Level: m[2], Message: m[3]},
					RawTimestamp: m[1],
				}
			},
		},
		{
			Name:       "simple-datetime-level",
			PatternStr: `^(\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:[.,]\d{1,9})?)\s+(?i:(ERROR|WARNING|WARN|INFO|DEBUG|TRACE|FATAL))\s+(.*)$`,
			Example:    "2023-05-29 10:15:30 INFO Application started",
			Extract: func(_ string, m []string) Partial {
				return Partial{
					Record:       LogRecord{Level: m[2], Message: m[3]},
					RawTimestamp: m[1],
				}
			},
		},
		{
			Name:       "generic-pipe",
			PatternStr: `^[^|\n]*\|[^|\n]*\|.*$`,
			Example:    "AUTH_EVENT|2023-05-29T10:00:00Z|jdoe|10.0.0.1|LOGIN|OK|ACK",
			Extract:    extractGenericPipe,
		},
		{
			Name:       "bracketed-common",
			PatternStr: `^\[([^\]]+)\]\s+(\w+):\s+(.*)$`,
			Example:    "[2023-05-29 10:15:30] ERROR: Disk full",
			Extract: func(_ string, m []string) Partial {
				return Partial{
					Record:       LogRecord{Level: m[2], Message: m[3]},
					RawTimestamp: m[1],
				}
			},
		},
		{
			Name:       "syslog",
			PatternStr: `^(\w{3}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2})\s+(\S+)\[(\d+)\]\s+(\w+):\s+(.*)$`,
			Example:    "May 29 10:15:30 appserver[812] ERROR: oom",
			Extract: func(_ string, m []string) Partial {
				rec := LogRecord{Level: m[4], Message: m[5], Source: m[2]}
				rec.Info().Set("pid", m[3])
				return Partial{Record: rec, RawTimestamp: m[1]}
			},
		},
	}

	for _, f := range formats {
		f.Pattern = regexp.MustCompile(f.PatternStr)
	}

	return formats
}

// extractGenericPipe handles any line with at least two pipes that no
// structured dialect claimed. The payload is re-dispatched through the
// discriminator layouts; timestamp, level and source are back-filled from
// the original line when the payload did not provide them.
func extractGenericPipe(line string, _ []string) Partial {
	payload := line
	first := strings.TrimSpace(line[:strings.IndexByte(line, '|')])
	for _, et := range KnownEventTypes {
		if strings.HasSuffix(first, string(et)) {
			payload = line[strings.Index(line, string(et)):]
			break
		}
	}

	p := extractPayload(payload)
	rec := LogRecord{
		Message:        p.message,
		EventType:      p.eventType,
		AdditionalInfo: p.fields,
	}

	rawTS := p.rawTimestamp
	if rawTS == "" {
		rawTS = embeddedTimestampPattern.FindString(line)
	}
	if m := levelKeywordPattern.FindStringSubmatch(line); m != nil {
		rec.Level = m[1]
	}
	if m := loggerTokenPattern.FindStringSubmatch(line); m != nil {
		rec.Source = m[1]
	}

	return Partial{Record: rec, RawTimestamp: rawTS}
}
