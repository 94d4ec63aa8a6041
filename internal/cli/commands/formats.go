package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loglens/loglens/pkg/logparser"
)

// NewFormatsCommand creates the formats command.
func NewFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the registered log dialects",
		Long: `List the dialect cascade used to match log lines, in evaluation order.

The first matching dialect wins. Lines matching none fall back to a basic
timestamp/level probe, and finally to an UNKNOWN record carrying the raw
line.`,
		Run: func(cmd *cobra.Command, args []string) {
			for i, f := range logparser.DefaultFormats() {
				fmt.Printf("%d. %s\n", i+1, f.Name)
				fmt.Printf("   example: %s\n", f.Example)
			}
		},
	}
}
