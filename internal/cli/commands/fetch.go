package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/loglens/loglens/pkg/config"
	"github.com/loglens/loglens/pkg/filter"
	"github.com/loglens/loglens/pkg/ingest"
	"github.com/loglens/loglens/pkg/logparser"
	"github.com/loglens/loglens/pkg/output"
	"github.com/loglens/loglens/pkg/stats"
)

// FetchOptions holds command-line options for the fetch command.
type FetchOptions struct {
	Output  string
	Verbose bool
	Quiet   bool
	Stats   bool

	ConfigFile string
	Endpoint   string
	Username   string
	Password   string
	Timeout    time.Duration

	Filter FilterOptions
}

// NewFetchCommand creates the fetch command.
func NewFetchCommand() *cobra.Command {
	opts := &FetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch [url]",
		Short: "Fetch remote log text over HTTP and parse it",
		Long: `Retrieve raw log text from an HTTP endpoint and parse it like a local
file. The URL can be given directly, or by name with --endpoint against a
config file that carries the URL and credentials.

Any non-2xx response is a hard failure; nothing is parsed from a failed
fetch.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show stack traces, event fields, and parse diagnostics")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no records")
	cmd.Flags().BoolVar(&opts.Stats, "stats", false, "Include derived statistics")
	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Config file with named endpoints")
	cmd.Flags().StringVar(&opts.Endpoint, "endpoint", "", "Named endpoint from the config file")
	cmd.Flags().StringVar(&opts.Username, "user", "", "HTTP Basic username")
	cmd.Flags().StringVar(&opts.Password, "password", "", "HTTP Basic password")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Request timeout (default 30s)")
	AddFilterFlags(cmd, &opts.Filter)

	return cmd
}

func runFetch(cmd *cobra.Command, args []string, opts *FetchOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := newLogger(opts.Verbose)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	fetchOpts, err := resolveFetchTarget(ctx, args, opts)
	if err != nil {
		return err
	}

	pred, err := opts.Filter.Predicate()
	if err != nil {
		return err
	}

	start := time.Now()
	text, err := ingest.NewFetcher().Fetch(ctx, fetchOpts)
	if err != nil {
		return err
	}

	in := ingest.New(logparser.New(logparser.WithLogger(logger)), ingest.WithLogger(logger))
	result := in.IngestText(text)
	matched := filter.Apply(result.Records, pred)

	report := &output.Report{
		Records: matched,
		Summary: output.Summary{
			ParsedRecords:  len(result.Records),
			MatchedRecords: len(matched),
			Diagnostics:    result.Diagnostics,
		},
		Metadata: output.Metadata{
			Sources:    []string{fetchOpts.URL},
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
	if err := formatter.Format(ctx, report, os.Stdout); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if len(matched) == 0 {
		ExitCode = 1
	}
	return nil
}

// resolveFetchTarget builds the fetch options from either a direct URL
// argument or a named endpoint in the config file. Command-line credentials
// override the endpoint's.
func resolveFetchTarget(ctx context.Context, args []string, opts *FetchOptions) (ingest.FetchOptions, error) {
	fo := ingest.FetchOptions{
		Username: opts.Username,
		Password: opts.Password,
		Timeout:  opts.Timeout,
	}

	switch {
	case opts.Endpoint != "":
		if opts.ConfigFile == "" {
			return fo, fmt.Errorf("--endpoint requires --config")
		}
		cfg, err := config.Load(ctx, opts.ConfigFile)
		if err != nil {
			return fo, fmt.Errorf("loading config: %w", err)
		}
		ep := cfg.Endpoint(opts.Endpoint)
		if ep == nil {
			return fo, fmt.Errorf("endpoint %q not found in %s", opts.Endpoint, opts.ConfigFile)
		}
		fo.URL = ep.URL
		if fo.Username == "" {
			fo.Username = ep.Username
			fo.Password = ep.Password
		}
		if fo.Timeout == 0 {
			fo.Timeout = ep.Timeout
		}
	case len(args) == 1:
		fo.URL = args[0]
	default:
		return fo, fmt.Errorf("either a URL argument or --endpoint is required")
	}

	return fo, nil
}
