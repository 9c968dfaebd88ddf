package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app holds flag values and shared state for one command invocation.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// Global flags
	configPath string
	verbose    bool
	quiet      bool

	// Input flags, applied on top of the config file when set
	delimiter    string
	columns      string
	skipHeader   bool
	strict       bool
	strictWindow int
	concurrency  int

	// Output flags
	output string
	outDir string

	minRatio float64

	logger *zap.Logger
}

// newRootCmd builds the command tree around a. A logger already set on a is
// kept; otherwise a production logger is built before any command runs.
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "duphash",
		Short: "Pairwise duplicate statistics for portfolio clause hashes",
		Long: `duphash reads hash logs written by the solvers of a parallel SAT portfolio
and reports, for every pair of (producer, strategy) identities, how many hashes
both reported and how many either reported.

Each input must list the records of one hash contiguously (sort the log by
hash first). Use --strict to fail when that does not hold.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger != nil {
				return nil
			}
			config := zap.NewProductionConfig()
			if a.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger.With(zap.String("run_id", uuid.NewString()))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "no summary on stderr")
	pf.StringVarP(&a.delimiter, "delimiter", "d", "", `field delimiter: "whitespace" or one character`)
	pf.StringVar(&a.columns, "columns", "", "hash,producer,strategy column indexes, e.g. 2,5,6")
	pf.BoolVar(&a.skipHeader, "skip-header", false, "ignore the first line of each input")
	pf.BoolVar(&a.strict, "strict", false, "fail when a hash reappears after its group closed")
	pf.IntVar(&a.strictWindow, "strict-window", 0, "with --strict, remember only this many closed hashes (0 = all)")
	pf.IntVarP(&a.concurrency, "concurrency", "j", 0, "inputs processed in parallel")
	pf.StringVarP(&a.output, "output", "o", "", "output file for a single input (default stdout)")
	pf.StringVar(&a.outDir, "out-dir", "", "directory for per-input outputs; required with several inputs")

	rootCmd.AddCommand(
		a.newPairsCmd(),
		a.newUniqueCmd(),
		a.newMatrixCmd(),
		a.newClustersCmd(),
	)

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := &app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	err := newRootCmd(a).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
