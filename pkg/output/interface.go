package output

import (
	"context"
	"io"
)

// Formatter renders a report in a specific format.
type Formatter interface {
	// Format renders the report to the given writer.
	Format(ctx context.Context, report *Report, w io.Writer) error

	// Name returns the format name (text, json).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose enables detailed output including stack traces and
	// additional fields.
	Verbose bool

	// Quiet enables minimal summary-only output.
	Quiet bool
}

// New returns the formatter for the named format, or nil for unknown names.
func New(name string, opts FormatOptions) Formatter {
	switch name {
	case "json":
		return NewJSONFormatter(opts)
	case "text", "":
		return NewTextFormatter(opts)
	default:
		return nil
	}
}
