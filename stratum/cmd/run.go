package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/browser"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sarchlab/stratum/analysis"
	"github.com/sarchlab/stratum/config"
	"github.com/sarchlab/stratum/datarecording"
	"github.com/sarchlab/stratum/hierarchy"
	"github.com/sarchlab/stratum/simulation"
	"github.com/sarchlab/stratum/workload"
)

// demoTrace is replayed when no trace file is given.
var demoTrace = []workload.Op{
	workload.Load(0x1000),
	workload.Load(0x2000),
	workload.Load(0x1000),
	workload.Load(0x3000),
	workload.Load(0x1000),
}

type runOptions struct {
	configPath  string
	traces      []string
	seed        uint64
	seedSet     bool
	recordPath  string
	csv         bool
	monitor     bool
	port        int
	openBrowser bool
}

var runOpts runOptions

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay traces against a cache hierarchy.",
	Long: "`run --trace a.txt --trace b.txt` replays each trace against a " +
		"freshly built hierarchy and prints the statistics of every level. " +
		"Without a trace, a short demo trace is used.",
	RunE: func(cmd *cobra.Command, args []string) error {
		runOpts.seedSet = cmd.Flags().Changed("seed")

		return runTraces(cmd.OutOrStdout(), runOpts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	flags := runCmd.Flags()
	flags.StringVar(&runOpts.configPath, "config", "",
		"Hierarchy config file; the built-in hierarchy is used if empty")
	flags.StringArrayVar(&runOpts.traces, "trace", nil,
		"Trace file to replay, can be repeated")
	flags.Uint64Var(&runOpts.seed, "seed", 0,
		"Base seed of the random replacement policies")
	flags.StringVar(&runOpts.recordPath, "record", "",
		"Record the accesses into a SQLite database at this path, "+
			"without the "+datarecording.FileExtension+" extension")
	flags.BoolVar(&runOpts.csv, "csv", false,
		"Print the statistics as CSV")
	flags.BoolVar(&runOpts.monitor, "monitor", false,
		"Serve the state of the simulation over HTTP")
	flags.IntVar(&runOpts.port, "port", 0,
		"Port of the monitoring server")
	flags.BoolVar(&runOpts.openBrowser, "open-browser", false,
		"Open the monitoring server in a browser")
}

func loadConfig(opts runOptions) (config.HierarchyConfig, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error

		cfg, err = config.Load(opts.configPath)
		if err != nil {
			return config.HierarchyConfig{}, err
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return config.HierarchyConfig{}, err
	}

	if opts.seedSet {
		cfg.Seed = opts.seed
	}

	return cfg, nil
}

func buildSimulation(opts runOptions) (*simulation.Simulation, error) {
	builder := simulation.MakeBuilder()

	if opts.recordPath != "" {
		builder = builder.
			WithRecording().
			WithOutputFileName(opts.recordPath)
	}

	if opts.monitor {
		builder = builder.WithMonitor().WithMonitorPort(opts.port)
	}

	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		builder = builder.WithTraceLogging()
	}

	return builder.Build()
}

func runTraces(out io.Writer, opts runOptions) error {
	if opts.port != 0 && !opts.monitor {
		return fmt.Errorf("--port requires --monitor")
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	s, err := buildSimulation(opts)
	if err != nil {
		return err
	}
	defer s.Terminate()

	if opts.monitor && opts.openBrowser {
		if err := browser.OpenURL(s.MonitorURL()); err != nil {
			logrus.WithError(err).Warn("could not open browser")
		}
	}

	fmt.Fprintf(out, "Constructing Cache Hierarchy...\n")

	if len(opts.traces) == 0 {
		return runOne(out, s, cfg, opts, "demo", "built-in", demoTrace)
	}

	parser := workload.NewParser()
	seen := make(map[string]int)
	for _, path := range opts.traces {
		result := parser.ParseFile(path)

		name := filepath.Base(path)
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s#%d", name, n)
		}

		if err := runOne(out, s, cfg, opts, name, path, result.Ops); err != nil {
			return err
		}
	}

	return nil
}

func runOne(
	out io.Writer,
	s *simulation.Simulation,
	cfg config.HierarchyConfig,
	opts runOptions,
	name, source string,
	ops []workload.Op,
) error {
	fmt.Fprintf(out,
		"\n=========================================================\n")
	fmt.Fprintf(out, "Running Simulation: %s (%s)\n", name, source)
	fmt.Fprintf(out,
		"=========================================================\n")

	h, err := hierarchy.Build(cfg)
	if err != nil {
		return err
	}

	var history simulation.History
	if len(ops) == 0 {
		fmt.Fprintf(out, "No operations to simulate for %s\n", name)
	} else {
		history = s.Run(name, h, ops)
	}

	report := analysis.NewAggregator().Aggregate(history, h.Names())

	if recorder := s.GetDataRecorder(); recorder != nil {
		analysis.RecordReport(recorder, name, report)
	}

	if opts.csv {
		return report.WriteCSV(out)
	}

	fmt.Fprintf(out, "\n=== Simulation Results (Aggregated) ===\n")
	if err := report.WriteTable(out); err != nil {
		return err
	}

	if len(history) == 0 {
		return nil
	}

	return analysis.WriteHistory(out, history)
}
