package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/loglens/loglens/pkg/filter"
	"github.com/loglens/loglens/pkg/output"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// timeFlagLayouts are accepted by --since and --until.
var timeFlagLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FilterOptions holds the record-filtering flags shared by the ingest,
// stats, and fetch commands.
type FilterOptions struct {
	Since     string
	Until     string
	Level     string
	Source    string
	Search    string
	AccountNo string
	CardNo    string
	UniqueID  string
	Username  string
	Status    string
	EventType string
}

// AddFilterFlags registers the shared filter flags on a command.
func AddFilterFlags(cmd *cobra.Command, opts *FilterOptions) {
	cmd.Flags().StringVar(&opts.Since, "since", "", "Only records at or after this time (RFC3339 or '2006-01-02 15:04:05')")
	cmd.Flags().StringVar(&opts.Until, "until", "", "Only records at or before this time")
	cmd.Flags().StringVar(&opts.Level, "level", "", "Exact level match (case-insensitive)")
	cmd.Flags().StringVar(&opts.Source, "source", "", "Source substring match")
	cmd.Flags().StringVar(&opts.Search, "search", "", "Free-text search across all record fields")
	cmd.Flags().StringVar(&opts.AccountNo, "account", "", "Account number")
	cmd.Flags().StringVar(&opts.CardNo, "card", "", "Card number")
	cmd.Flags().StringVar(&opts.UniqueID, "unique-id", "", "Transaction unique id")
	cmd.Flags().StringVar(&opts.Username, "username", "", "Username")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Business event status")
	cmd.Flags().StringVar(&opts.EventType, "event-type", "", "Business event type (e.g. TRANSACTION)")
}

// Predicate converts the flags into a filter predicate.
func (o *FilterOptions) Predicate() (filter.Predicate, error) {
	p := filter.Predicate{
		Level:      o.Level,
		Source:     o.Source,
		AccountNo:  o.AccountNo,
		CardNo:     o.CardNo,
		UniqueID:   o.UniqueID,
		Username:   o.Username,
		Status:     o.Status,
		EventType:  o.EventType,
		SearchTerm: o.Search,
	}

	if o.Since != "" {
		t, err := parseTimeFlag(o.Since)
		if err != nil {
			return p, fmt.Errorf("invalid --since %q: %w", o.Since, err)
		}
		p.Start = &t
	}
	if o.Until != "" {
		t, err := parseTimeFlag(o.Until)
		if err != nil {
			return p, fmt.Errorf("invalid --until %q: %w", o.Until, err)
		}
		p.End = &t
	}

	return p, nil
}

func parseTimeFlag(s string) (time.Time, error) {
	for _, layout := range timeFlagLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

// newLogger builds the diagnostic logger for a command run. Verbose runs
// get development output at debug level; otherwise only warnings surface.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func newFormatter(format string, opts output.FormatOptions) (output.Formatter, error) {
	f := output.New(format, opts)
	if f == nil {
		return nil, fmt.Errorf("unknown output format %q (use text or json)", format)
	}
	return f, nil
}
