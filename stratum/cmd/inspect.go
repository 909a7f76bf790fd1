package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/stratum/analysis"
	"github.com/sarchlab/stratum/datarecording"
)

var inspectRun string

var inspectCmd = &cobra.Command{
	Use:   "inspect <recording>",
	Short: "Print the level statistics stored in a recording.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspectRecording(cmd.Context(), cmd.OutOrStdout(),
			args[0], inspectRun)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectRun, "run", "",
		"Only show the statistics of this run")
}

func recordingFile(path string) string {
	if strings.HasSuffix(path, datarecording.FileExtension) {
		return path
	}

	if _, err := os.Stat(path); err == nil {
		return path
	}

	return path + datarecording.FileExtension
}

func inspectRecording(
	ctx context.Context,
	out io.Writer,
	path, run string,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	file := recordingFile(path)
	if _, err := os.Stat(file); err != nil {
		return err
	}

	reader, err := datarecording.NewReader(file)
	if err != nil {
		return err
	}
	defer reader.Close()

	tables, err := reader.ListTables(ctx)
	if err != nil {
		return err
	}

	if !slices.Contains(tables, analysis.LevelStatsTable) {
		return fmt.Errorf("%s has no %s table", file, analysis.LevelStatsTable)
	}

	reader.MapTable(analysis.LevelStatsTable, analysis.LevelStatsEntry{})

	params := datarecording.QueryParams{OrderBy: "rowid"}
	if run != "" {
		params.Where = "Run = ?"
		params.Args = []any{run}
	}

	results, total, err := reader.Query(ctx, analysis.LevelStatsTable, params)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%-20s %-15s %-10s %-10s %-20s\n",
		"Run", "Level", "Hits", "Misses", "Avg Latency")

	for _, r := range results {
		e := r.(*analysis.LevelStatsEntry)
		fmt.Fprintf(out, "%-20s %-15s %-10d %-10d %-20.0f\n",
			e.Run, e.Level, e.Hits, e.Misses, e.AvgLatency)
	}

	fmt.Fprintf(out, "(%d rows)\n", total)

	return nil
}
