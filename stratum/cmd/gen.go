package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sarchlab/stratum/workload"
)

type genOptions struct {
	pattern string
	count   int
	seed    uint64
	out     string
	all     bool
	dir     string
}

var genOpts genOptions

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate synthetic trace files.",
	Long: "`gen --pattern spatial --count 1000 --out spatial.txt` writes a " +
		"trace of the given pattern. With --all, one trace of every pattern " +
		"is written into --dir.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return generateTraces(cmd.OutOrStdout(), genOpts)
	},
}

func init() {
	rootCmd.AddCommand(genCmd)

	flags := genCmd.Flags()
	flags.StringVar(&genOpts.pattern, "pattern", string(workload.PatternSequential),
		fmt.Sprintf("Access pattern, one of %v", workload.Patterns()))
	flags.IntVar(&genOpts.count, "count", 1000, "Number of accesses")
	flags.Uint64Var(&genOpts.seed, "seed", 42, "Seed of the generator")
	flags.StringVar(&genOpts.out, "out", "",
		"Output file, defaults to trace_<pattern>.txt")
	flags.BoolVar(&genOpts.all, "all", false, "Generate every pattern")
	flags.StringVar(&genOpts.dir, "dir", ".",
		"Output directory used with --all")
}

func generateTraces(out io.Writer, opts genOptions) error {
	if opts.count <= 0 {
		return fmt.Errorf("count must be positive, got %d", opts.count)
	}

	if !opts.all {
		pattern, err := workload.ParsePattern(opts.pattern)
		if err != nil {
			return err
		}

		path := opts.out
		if path == "" {
			path = traceFileName(pattern)
		}

		return generateOne(out, pattern, opts, path)
	}

	if err := os.MkdirAll(opts.dir, 0o755); err != nil {
		return err
	}

	for _, p := range workload.Patterns() {
		path := filepath.Join(opts.dir, traceFileName(p))
		if err := generateOne(out, p, opts, path); err != nil {
			return err
		}
	}

	return nil
}

func generateOne(
	out io.Writer,
	pattern workload.Pattern,
	opts genOptions,
	path string,
) error {
	ops, err := workload.NewGenerator(opts.seed).Generate(pattern, opts.count)
	if err != nil {
		return err
	}

	if err := workload.WriteFile(path, ops); err != nil {
		return err
	}

	fmt.Fprintf(out, "Generated %-12s -> %s (%d ops)\n",
		pattern, path, len(ops))

	return nil
}

func traceFileName(p workload.Pattern) string {
	return "trace_" + string(p) + ".txt"
}
