package analysis

import (
	"slices"

	"github.com/sarchlab/stratum/datarecording"
)

// LevelStatsTable is the table that RecordReport writes into.
const LevelStatsTable = "level_stats"

// LevelStatsEntry is a row of the level statistics table.
type LevelStatsEntry struct {
	Run          string
	Level        string
	Hits         uint64
	Misses       uint64
	TotalLatency uint64
	AvgLatency   float64
}

// RecordReport stores the statistics of every level of the report, tagged
// with the name of the run.
func RecordReport(
	recorder datarecording.DataRecorder,
	run string,
	report Report,
) {
	if !slices.Contains(recorder.ListTables(), LevelStatsTable) {
		recorder.CreateTable(LevelStatsTable, LevelStatsEntry{})
	}

	for _, l := range report.Levels {
		recorder.InsertData(LevelStatsTable, LevelStatsEntry{
			Run:          run,
			Level:        l.Name,
			Hits:         l.Hits,
			Misses:       l.Misses,
			TotalLatency: l.TotalLatency,
			AvgLatency:   l.AverageHitLatency(),
		})
	}
}
