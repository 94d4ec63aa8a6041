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

// IngestOptions holds command-line options for the ingest command.
type IngestOptions struct {
	Output  string
	Verbose bool
	Quiet   bool
	Stats   bool
	CSV     bool

	Filter FilterOptions
}

// NewIngestCommand creates the ingest command.
func NewIngestCommand() *cobra.Command {
	opts := &IngestOptions{}

	cmd := &cobra.Command{
		Use:   "ingest <log-file> [log-file...]",
		Short: "Parse log files into canonical records",
		Long: `Parse one or more log files into the canonical record model.

Each line is matched against the dialect cascade (run "loglens formats" to
list it); stack-trace continuation lines are folded into the preceding
record, and lines matching no dialect become UNKNOWN records rather than
being dropped. Files with a .csv extension take the row-oriented path.

Exit codes:
  0 - Records matched
  1 - No records matched the active filter
  2 - Configuration or runtime error`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show stack traces, event fields, and parse diagnostics")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no records")
	cmd.Flags().BoolVar(&opts.Stats, "stats", false, "Include derived statistics")
	cmd.Flags().BoolVar(&opts.CSV, "csv", false, "Force CSV ingestion regardless of file extension")
	AddFilterFlags(cmd, &opts.Filter)

	return cmd
}

func runIngest(cmd *cobra.Command, args []string, opts *IngestOptions) error {
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
		result, err := ingestOne(in, path, opts.CSV)
		if err != nil {
			return err
		}
		combined.Merge(result)
	}

	matched := filter.Apply(combined.Records, pred)

	report := &output.Report{
		Records: matched,
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
	if opts.Stats {
		report.Stats = stats.Compute(matched)
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

func ingestOne(in *ingest.Ingestor, path string, forceCSV bool) (*logparser.ParseResult, error) {
	if !forceCSV {
		return in.IngestFile(path)
	}

	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	defer f.Close()

	result, err := in.IngestCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV file %s: %w", path, err)
	}
	return result, nil
}
