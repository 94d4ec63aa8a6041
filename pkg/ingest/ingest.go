// Package ingest provides the entry points that turn files, CSV rows, and
// remote responses into parsed log records.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/loglens/loglens/pkg/logparser"
)

// csvSynonyms maps candidate header names to canonical record fields.
// Matching is case-sensitive per the ingestion contract.
var csvSynonyms = map[string]string{
	"timestamp":  "timestamp",
	"time":       "timestamp",
	"date":       "timestamp",
	"level":      "level",
	"severity":   "level",
	"type":       "level",
	"message":    "message",
	"msg":        "message",
	"log":        "message",
	"source":     "source",
	"logger":     "source",
	"class":      "source",
	"stackTrace": "stackTrace",
	"stack":      "stackTrace",
	"exception":  "stackTrace",
}

// Ingestor selects between row-oriented (CSV) and line-oriented ingestion.
type Ingestor struct {
	parser     *logparser.Parser
	normalizer logparser.Normalizer
	logger     *zap.Logger
}

// Option configures the Ingestor.
type Option func(*Ingestor)

// WithLogger sets the diagnostic logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(in *Ingestor) {
		if l != nil {
			in.logger = l
		}
	}
}

// WithNormalizer replaces the timestamp normalizer used for CSV rows.
func WithNormalizer(n logparser.Normalizer) Option {
	return func(in *Ingestor) {
		in.normalizer = n
	}
}

// New creates an Ingestor around the given parser.
func New(parser *logparser.Parser, opts ...Option) *Ingestor {
	in := &Ingestor{
		parser: parser,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// IngestFile reads one file and parses it, choosing the CSV path for .csv
// extensions and the line-oriented path otherwise. Unreadable content is the
// one structural failure that propagates as an error.
func (in *Ingestor) IngestFile(path string) (*logparser.ParseResult, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		result, err := in.IngestCSV(f)
		if err != nil {
			return nil, fmt.Errorf("parsing CSV file %s: %w", path, err)
		}
		return result, nil
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading log file %s: %w", path, err)
	}
	return in.parser.ParseText(string(data)), nil
}

// IngestText parses raw line-oriented log text.
func (in *Ingestor) IngestText(text string) *logparser.ParseResult {
	return in.parser.ParseText(text)
}

// IngestCSV parses row-oriented input. The header row is remapped through
// the synonym table; unrecognized columns are folded into additionalInfo
// verbatim. A structurally malformed CSV aborts the call.
func (in *Ingestor) IngestCSV(r io.Reader) (*logparser.ParseResult, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return &logparser.ParseResult{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	// First synonym hit wins per canonical field; later duplicates fall
	// through to additionalInfo.
	columns := make([]string, len(header))
	seen := make(map[string]bool)
	for i, name := range header {
		name = strings.TrimSpace(name)
		if canonical, ok := csvSynonyms[name]; ok && !seen[canonical] {
			columns[i] = canonical
			seen[canonical] = true
		} else {
			columns[i] = ""
		}
	}

	result := &logparser.ParseResult{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		result.Diagnostics.LinesScanned++
		result.Records = append(result.Records, in.recordFromRow(header, columns, row, &result.Diagnostics))
	}

	return result, nil
}

func (in *Ingestor) recordFromRow(header, columns, row []string, diag *logparser.Diagnostics) logparser.LogRecord {
	rec := logparser.LogRecord{}
	var rawTS string

	for i, value := range row {
		switch columns[i] {
		case "timestamp":
			rawTS = value
		case "level":
			rec.Level = value
		case "message":
			rec.Message = value
		case "source":
			rec.Source = value
		case "stackTrace":
			rec.StackTrace = value
		default:
			if value != "" {
				rec.Info().Set(strings.TrimSpace(header[i]), value)
			}
		}
	}

	ts := in.normalizer.Normalize(rawTS)
	if ts.Defaulted {
		diag.DefaultedTimestamps++
		in.logger.Debug("CSV timestamp defaulted", zap.String("reason", ts.Reason))
	}
	rec.Timestamp = ts.Time

	if rec.Level == "" {
		rec.Level = logparser.LevelUnknown
	}
	rec.Level = strings.ToUpper(rec.Level)

	return rec
}
