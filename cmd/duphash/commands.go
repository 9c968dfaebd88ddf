package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	dh "github.com/wallarm/duphash"
	"github.com/wallarm/duphash/internal/config"
)

// renderer writes one aggregation result in a command-specific format.
type renderer struct {
	ext    string
	render func(w io.Writer, res *dh.Result) error
}

func (a *app) newPairsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pairs [files...]",
		Short: "Duplicate and union counts per ordered identity pair",
		Long: `Writes one line per ordered pair of identities that share at least one hash:

  producer1 strategy1 producer2 strategy2 dup_count union_count

With no file, or "-", reads standard input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args, func(*config.Config) renderer {
				return renderer{ext: ".pw", render: dh.WritePairs}
			})
		},
	}
}

func (a *app) newUniqueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unique [files...]",
		Short: "Distinct hashes per identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args, func(*config.Config) renderer {
				return renderer{ext: ".unique", render: dh.WriteUnique}
			})
		},
	}
}

func (a *app) newMatrixCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "matrix [files...]",
		Short: "Pairwise duplicate/union ratio grid (tab separated)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args, func(*config.Config) renderer {
				return renderer{ext: ".matrix.tsv", render: func(w io.Writer, res *dh.Result) error {
					return dh.WriteMatrix(w, res.Matrix())
				}}
			})
		},
	}
}

func (a *app) newClustersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clusters [files...]",
		Short: "Group identities whose duplicate/union ratio reaches a threshold",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args, func(cfg *config.Config) renderer {
				return renderer{ext: ".clusters", render: func(w io.Writer, res *dh.Result) error {
					return dh.WriteClusters(w, res.Clusters(cfg.Clusters.MinRatio))
				}}
			})
		},
	}
	cmd.Flags().Float64Var(&a.minRatio, "min-ratio", 0, "minimum duplicate/union ratio to join two identities")
	return cmd
}

// resolveConfig loads the config file, if any, and applies flags that were
// set explicitly.
func (a *app) resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("delimiter") {
		cfg.Input.Delimiter = a.delimiter
	}
	if flags.Changed("columns") {
		cols, err := parseColumns(a.columns)
		if err != nil {
			return nil, err
		}
		cfg.Input.HashColumn, cfg.Input.ProducerColumn, cfg.Input.StrategyColumn = cols[0], cols[1], cols[2]
	}
	if flags.Changed("skip-header") {
		cfg.Input.SkipHeader = a.skipHeader
	}
	if flags.Changed("strict") {
		cfg.Strict.Enabled = a.strict
	}
	if flags.Changed("strict-window") {
		cfg.Strict.Window = a.strictWindow
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = a.concurrency
	}
	if flags.Changed("out-dir") {
		cfg.Output.Dir = a.outDir
	}
	if flags.Changed("min-ratio") {
		cfg.Clusters.MinRatio = a.minRatio
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseColumns(s string) ([3]int, error) {
	var cols [3]int
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return cols, fmt.Errorf("--columns wants hash,producer,strategy, got %q", s)
	}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return cols, fmt.Errorf("--columns: %w", err)
		}
		cols[i] = n
	}
	return cols, nil
}

// outcome is the aggregation of one input.
type outcome struct {
	input   string
	result  *dh.Result
	elapsed time.Duration
}

func (a *app) run(cmd *cobra.Command, args []string, pick func(*config.Config) renderer) error {
	cfg, err := a.resolveConfig(cmd)
	if err != nil {
		return err
	}

	inputs := args
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	if a.output != "" && cfg.Output.Dir != "" {
		return errors.New("--output cannot be combined with an output directory")
	}
	if len(inputs) > 1 {
		if cfg.Output.Dir == "" {
			return errors.New("several inputs need --out-dir")
		}
		for _, in := range inputs {
			if in == "-" {
				return errors.New("standard input cannot be combined with other inputs")
			}
		}
	}
	if cfg.Output.Dir != "" {
		if err := checkOutputNames(inputs); err != nil {
			return err
		}
	}

	outcomes, err := a.aggregateAll(cmd.Context(), cfg, inputs)
	if err != nil {
		return err
	}

	r := pick(cfg)
	for _, o := range outcomes {
		if err := a.writeOutcome(cfg, o, r); err != nil {
			return err
		}
	}

	if !a.quiet {
		printSummary(a.stderr, outcomes)
	}
	return nil
}

// aggregateAll processes every input with its own aggregator, at most
// cfg.Concurrency at a time. The first failure cancels the rest.
func (a *app) aggregateAll(ctx context.Context, cfg *config.Config, inputs []string) ([]outcome, error) {
	outcomes := make([]outcome, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)

	for i, in := range inputs {
		g.Go(func() error {
			start := time.Now()
			res, err := a.aggregateInput(ctx, cfg, in)
			if err != nil {
				return fmt.Errorf("%s: %w", displayName(in), err)
			}
			outcomes[i] = outcome{input: in, result: res, elapsed: time.Since(start)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (a *app) aggregateInput(ctx context.Context, cfg *config.Config, input string) (*dh.Result, error) {
	logger := a.logger.With(zap.String("input", displayName(input)))

	var r io.Reader = a.stdin
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	opts := append(cfg.AggregatorOptions(), dh.WithLogger(logger))
	res, err := dh.AggregateReader(ctx, r, cfg.Format(), opts...)
	if err != nil {
		logger.Error("aggregation failed", zap.Error(err))
		return nil, err
	}

	logger.Info("aggregated input",
		zap.Int("records", res.Stats.Records),
		zap.Int("groups", res.Stats.Groups),
		zap.Int("identities", res.Stats.Identities),
		zap.Int("pairs", res.Stats.Pairs))
	return res, nil
}

func (a *app) writeOutcome(cfg *config.Config, o outcome, r renderer) error {
	if cfg.Output.Dir == "" {
		if a.output == "" {
			return r.render(a.stdout, o.result)
		}
		return writeFile(a.output, o.result, r)
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return writeFile(filepath.Join(cfg.Output.Dir, outputName(o.input)+r.ext), o.result, r)
}

func writeFile(path string, res *dh.Result, r renderer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.render(f, res); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// outputName derives the per-input output base name: the file name
// without its extension.
func outputName(input string) string {
	if input == "-" {
		return "stdin"
	}
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// checkOutputNames fails when two inputs would write the same file in the
// output directory.
func checkOutputNames(inputs []string) error {
	owners := make(map[string]string, len(inputs))
	for _, in := range inputs {
		name := outputName(in)
		if prev, ok := owners[name]; ok {
			return fmt.Errorf("inputs %s and %s both map to output name %q, rename one of them", prev, in, name)
		}
		owners[name] = in
	}
	return nil
}

func displayName(input string) string {
	if input == "-" {
		return "<stdin>"
	}
	return input
}
