package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	opts    options
	verbose bool
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded host session through the add-ons",
	Long: `Reads events-*.jsonl.zst journal files, validates every tick entry and
feeds the recorded events to the add-ons in order. Prints the resulting fish
barrel estimate, worn life-saving jewellery, notifications and the online
player lists.

With --record the replayed window is journaled again, which cuts a tick range
out of a longer session.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		sum, err := run(cmd.Context(), opts, logger)
		if err != nil {
			return err
		}
		sum.print(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&opts.journalDir, "journal", "", "directory holding events-*.jsonl.zst files (default: journal.dir from --config)")
	f.StringVar(&opts.recordDir, "record", "", "write the replayed ticks to a new journal in this directory")
	f.StringVar(&opts.configPath, "config", "", "add-ons yaml config (optional)")
	f.StringVar(&opts.dbPath, "db", "", "sqlite config store; in-memory when empty")
	f.Uint64Var(&opts.fromTick, "from-tick", 0, "first tick to replay (inclusive, optional)")
	f.Uint64Var(&opts.toTick, "to-tick", 0, "last tick to replay (inclusive, optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
