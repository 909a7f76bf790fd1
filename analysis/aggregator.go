// Package analysis turns the history of a run into per-level statistics.
package analysis

import (
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/stratum/simulation"
)

// LevelStats is what happened at one level from the point of view of the
// accesses that reached it.
type LevelStats struct {
	Name         string
	Hits         uint64
	Misses       uint64
	TotalLatency uint64
}

// AverageHitLatency returns the mean number of cycles of the accesses that
// hit at the level, or 0 if none did.
func (s LevelStats) AverageHitLatency() float64 {
	if s.Hits == 0 {
		return 0
	}

	return float64(s.TotalLatency) / float64(s.Hits)
}

// Accesses returns the number of accesses that reached the level.
func (s LevelStats) Accesses() uint64 {
	return s.Hits + s.Misses
}

// HitRate returns the fraction of the accesses reaching the level that hit.
func (s LevelStats) HitRate() float64 {
	if s.Accesses() == 0 {
		return 0
	}

	return float64(s.Hits) / float64(s.Accesses())
}

// A Report holds the statistics of all levels in hierarchy order.
type Report struct {
	Levels []LevelStats

	// Unattributed lists the records whose hit level is not part of the
	// hierarchy. They are not counted at any level.
	Unattributed []simulation.Record
}

// Level returns the statistics of the named level.
func (r Report) Level(name string) (LevelStats, bool) {
	for _, l := range r.Levels {
		if l.Name == name {
			return l, true
		}
	}

	return LevelStats{}, false
}

// An Aggregator attributes every record of a history to the levels it
// visited.
type Aggregator struct {
	log logrus.FieldLogger
}

// NewAggregator creates an aggregator that logs to the standard logger.
func NewAggregator() *Aggregator {
	return &Aggregator{log: logrus.StandardLogger()}
}

// WithLogger sets the logger that receives the diagnostics.
func (a *Aggregator) WithLogger(log logrus.FieldLogger) *Aggregator {
	a.log = log
	return a
}

// Aggregate walks each record down the named levels. Every level above the
// hit level gets a miss, the hit level gets a hit and the latency of the
// access.
func (a *Aggregator) Aggregate(
	history simulation.History,
	hierarchy []string,
) Report {
	report := Report{Levels: make([]LevelStats, len(hierarchy))}

	index := make(map[string]int, len(hierarchy))
	for i, name := range hierarchy {
		report.Levels[i].Name = name
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	for _, record := range history {
		hitIndex, found := index[record.Result.HitLevel]
		if !found {
			a.reportUnattributed(record)
			report.Unattributed = append(report.Unattributed, record)

			continue
		}

		for i := 0; i < hitIndex; i++ {
			report.Levels[i].Misses++
		}

		hit := &report.Levels[hitIndex]
		hit.Hits++
		hit.TotalLatency += record.Result.TotalCycles
	}

	return report
}

func (a *Aggregator) reportUnattributed(record simulation.Record) {
	a.log.WithFields(logrus.Fields{
		"index":     record.Index,
		"address":   record.Address,
		"hit_level": record.Result.HitLevel,
	}).Error("hit level is not part of the hierarchy")
}
