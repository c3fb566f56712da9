package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/csrgraph/graphctl/pkg/telemetry"
	"github.com/csrgraph/graphctl/pkg/utils"
)

var (
	verbose bool
	logger  utils.Logger

	telemetryShutdown telemetry.ShutdownFunc
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "graphctl",
	Short: "Load, run and inspect Pregel graph computations over a CSR graph store",
	Long: `graphctl builds a compressed sparse row graph store from a relationship
source (a database table, a CSV object, or a profiling call graph) and runs
vertex-centric Pregel computations over it.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := utils.LevelInfo
		if verbose {
			logLevel = utils.LevelDebug
		}
		logger = utils.NewDefaultLogger(logLevel, os.Stdout)

		shutdown, err := telemetry.Init(context.Background())
		if err != nil {
			return err
		}
		telemetryShutdown = shutdown
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if telemetryShutdown != nil {
			return telemetryShutdown(context.Background())
		}
		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	binName := BinName()
	rootCmd.Example = `  # Build a graph store from a CSV relationship file and inspect it
  ` + binName + ` load --source csv --csv-key edges.csv --node-count 1000

  # Run a centrality pass over a call graph
  ` + binName + ` run --source callgraph --callgraph-file callgraph.json --algo centrality

  # Inspect the schema of a database-backed relationship table
  ` + binName + ` inspect --source db --db-table edges --node-count 5000`
}

// GetLogger returns the configured logger.
func GetLogger() utils.Logger {
	return logger
}

// BinName returns the base name of the current executable.
func BinName() string {
	return filepath.Base(os.Args[0])
}
