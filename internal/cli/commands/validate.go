package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loglens/loglens/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a loglens configuration file without fetching or parsing.

Checks:
  - YAML syntax
  - Endpoint names and URLs
  - Credential and timeout consistency
  - Output format`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Printf("Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("\nConfiguration valid!\n")
	fmt.Printf("  Endpoints: %d\n", len(cfg.Endpoints))
	fmt.Printf("  Output:    %s\n", cfg.Output.Format)

	if len(cfg.Endpoints) > 0 {
		fmt.Printf("\nEndpoints:\n")
		for i, ep := range cfg.Endpoints {
			auth := "no auth"
			if ep.Username != "" {
				auth = "basic auth as " + ep.Username
			}
			fmt.Printf("  %d. %s - %s (%s)\n", i+1, ep.Name, ep.URL, auth)
		}
	}

	return nil
}
