package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/loglens/loglens/pkg/filter"
	"github.com/loglens/loglens/pkg/ingest"
	"github.com/loglens/loglens/pkg/logparser"
	"github.com/loglens/loglens/pkg/output"
	"github.com/loglens/loglens/pkg/stats"
)

// StatsOptions holds command-line options for the stats command.
type StatsOptions struct {
	Output  string
	Verbose bool
	Quiet   bool

	Filter FilterOptions
}

// NewStatsCommand creates the stats command.
func NewStatsCommand() *cobra.Command {
	opts := &StatsOptions{}

	cmd := &cobra.Command{
		Use:   "stats <log-file> [log-file...]",
		Short: "Compute distributions over parsed log records",
		Long: `Parse log files and report derived statistics: level counts, and
distributions by source, hour, event type, status, account number, and
transaction id, including date-bucketed account and transaction groupings.

Filter flags restrict which records feed the aggregation.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include parse diagnostics")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only")
	AddFilterFlags(cmd, &opts.Filter)

	return cmd
}

func runStats(cmd *cobra.Command, args []string, opts *StatsOptions) error {
	logger, err := newLogger(opts.Verbose)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	pred, err := opts.Filter.Predicate()
	if err != nil {
		return err
	}

	start := time.Now()
	in := ingest.New(logparser.New(logparser.WithLogger(logger)), ingest.WithLogger(logger))

	combined := &logparser.ParseResult{}
	for _, path := range args {
		result, err := in.IngestFile(path)
		if err != nil {
			return err
		}
		combined.Merge(result)
	}

	matched := filter.Apply(combined.Records, pred)

	report := &output.Report{
		Stats: stats.Compute(matched),
		Summary: output.Summary{
			ParsedRecords:  len(combined.Records),
			MatchedRecords: len(matched),
			Diagnostics:    combined.Diagnostics,
		},
		Metadata: output.Metadata{
			Sources:    args,
			Filtered:   !pred.IsZero(),
			IngestedAt: time.Now(),
			Duration:   time.Since(start),
		},
	}

	formatter, err := newFormatter(opts.Output, output.FormatOptions{Verbose: opts.Verbose, Quiet: opts.Quiet})
	if err != nil {
		return err
	}
	if err := formatter.Format(cmd.Context(), report, os.Stdout); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if len(matched) == 0 {
		ExitCode = 1
	}
	return nil
}
