package logparser

import (
	"bufio"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// continuationPattern recognizes stack-trace continuation lines: "at ...",
// "Caused by: ...", or indented "at ..." frames.
var continuationPattern = regexp.MustCompile(`^(?:at |Caused by: |\s+at )`)

// Diagnostics summarizes the non-fatal issues absorbed during a parse.
// Ingestion always completes; these counts are the only trace of best-effort
// fallbacks.
type Diagnostics struct {
	LinesScanned        int `json:"linesScanned" yaml:"linesScanned"`
	DefaultedTimestamps int `json:"defaultedTimestamps" yaml:"defaultedTimestamps"`
	BasicExtractorLines int `json:"basicExtractorLines" yaml:"basicExtractorLines"`
	UnknownFormatLines  int `json:"unknownFormatLines" yaml:"unknownFormatLines"`
}

// ParseResult is the output of one ingestion call.
type ParseResult struct {
	Records     []LogRecord `json:"records" yaml:"records"`
	Diagnostics Diagnostics `json:"diagnostics" yaml:"diagnostics"`
}

// Merge appends another result's records and accumulates its diagnostics,
// preserving record order across multiple inputs.
func (r *ParseResult) Merge(other *ParseResult) {
	r.Records = append(r.Records, other.Records...)
	r.Diagnostics.LinesScanned += other.Diagnostics.LinesScanned
	r.Diagnostics.DefaultedTimestamps += other.Diagnostics.DefaultedTimestamps
	r.Diagnostics.BasicExtractorLines += other.Diagnostics.BasicExtractorLines
	r.Diagnostics.UnknownFormatLines += other.Diagnostics.UnknownFormatLines
}

// Parser drives dialect matching line-by-line and assembles multi-line
// records. Each call to ParseText operates on independent state; a single
// Parser is safe for concurrent use on unrelated inputs.
type Parser struct {
	formats    []*FormatDescriptor
	normalizer Normalizer
	logger     *zap.Logger
}

// Option configures the Parser.
type Option func(*Parser)

// WithLogger sets the diagnostic logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithFormats replaces the default dialect cascade. Order is significant:
// the first matching format wins.
func WithFormats(formats []*FormatDescriptor) Option {
	return func(p *Parser) {
		if len(formats) > 0 {
			p.formats = formats
		}
	}
}

// WithNormalizer replaces the timestamp normalizer, mainly to pin the
// fallback clock in tests.
func WithNormalizer(n Normalizer) Option {
	return func(p *Parser) {
		p.normalizer = n
	}
}

// New creates a Parser with the default dialect cascade.
func New(opts ...Option) *Parser {
	p := &Parser{
		formats: DefaultFormats(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Formats returns the parser's dialect cascade in evaluation order.
func (p *Parser) Formats() []*FormatDescriptor {
	return p.formats
}

// assembler is the explicit state machine threaded through a scan: at most
// one unfinalized record at a time, finalized into an append-only output.
type assembler struct {
	current *Partial
	stack   []string
}

func (a *assembler) accumulating() bool {
	return a.current != nil
}

// ParseText converts raw log text into the canonical record sequence.
// It never fails for well-formed text: unmatched lines become UNKNOWN
// records and malformed timestamps default to the current time, both
// reflected in the returned diagnostics.
func (p *Parser) ParseText(text string) *ParseResult {
	result := &ParseResult{}
	state := &assembler{}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line size
	for scanner.Scan() {
		p.processLine(scanner.Text(), state, result)
	}
	// bufio.Scanner only fails here on oversized lines; treat the remainder
	// as exhausted rather than aborting the parse.
	if err := scanner.Err(); err != nil {
		p.logger.Warn("log scan stopped early", zap.Error(err))
	}

	p.finalize(state, result)
	return result
}

func (p *Parser) processLine(line string, state *assembler, result *ParseResult) {
	if strings.TrimSpace(line) == "" {
		return
	}
	result.Diagnostics.LinesScanned++

	if continuationPattern.MatchString(line) && state.accumulating() {
		state.stack = append(state.stack, line)
		return
	}

	// Any other non-blank line starts a new record; close out the current
	// one first.
	p.finalize(state, result)

	for _, f := range p.formats {
		m := f.Pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		partial := f.Extract(line, m)
		state.current = &partial
		return
	}

	if partial, ok := extractBasic(line); ok {
		result.Diagnostics.BasicExtractorLines++
		p.logger.Debug("line rescued by basic extractor", zap.String("line", line))
		state.current = &partial
		return
	}

	// Unknown format: never drop a non-blank line. The attempted dialect
	// names are kept on the record as a troubleshooting trail.
	result.Diagnostics.UnknownFormatLines++
	p.logger.Debug("line matched no dialect", zap.String("line", line))
	rec := LogRecord{Level: LevelUnknown, Message: line}
	rec.Info().Set("note", "unparsed line, format not recognized")
	rec.Info().Set("attemptedFormats", p.formatNames())
	state.current = &Partial{Record: rec}
}

// finalize normalizes and appends the current record, if any, enforcing the
// record invariants: non-zero UTC timestamp, upper-case level, stack-trace
// lines joined in original order.
func (p *Parser) finalize(state *assembler, result *ParseResult) {
	if !state.accumulating() {
		return
	}

	rec := state.current.Record

	ts := p.normalizer.Normalize(state.current.RawTimestamp)
	if ts.Defaulted {
		result.Diagnostics.DefaultedTimestamps++
		p.logger.Debug("timestamp defaulted", zap.String("reason", ts.Reason))
	}
	rec.Timestamp = ts.Time

	if rec.Level == "" {
		rec.Level = LevelUnknown
	}
	rec.Level = strings.ToUpper(rec.Level)

	if len(state.stack) > 0 {
		rec.StackTrace = strings.Join(state.stack, "\n")
	}

	if rec.AdditionalInfo != nil && rec.AdditionalInfo.IsZero() {
		rec.AdditionalInfo = nil
	}

	result.Records = append(result.Records, rec)
	state.current = nil
	state.stack = nil
}

func (p *Parser) formatNames() string {
	names := make([]string, len(p.formats))
	for i, f := range p.formats {
		names[i] = f.Name
	}
	return strings.Join(names, ", ")
}
