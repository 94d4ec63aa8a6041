// loglens - Log Ingestion and Analysis Tool
//
// loglens converts heterogeneous application log text into a normalized,
// queryable record model with filtering and derived statistics.
package main

import (
	"os"

	"github.com/loglens/loglens/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
