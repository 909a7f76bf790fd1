package analysis

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/sarchlab/stratum/simulation"
)

// DetailedLogLimit is the longest history that WriteHistory prints access
// by access.
const DetailedLogLimit = 20

// WriteTable prints the statistics of every level as a fixed-width table.
func (r Report) WriteTable(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%-15s %-10s %-10s %-20s\n",
		"Level", "Hits", "Misses", "Avg Latency (cyc)")
	if err != nil {
		return err
	}

	for _, l := range r.Levels {
		_, err = fmt.Fprintf(w, "%-15s %-10d %-10d %-20.0f\n",
			l.Name, l.Hits, l.Misses, l.AverageHitLatency())
		if err != nil {
			return err
		}
	}

	if len(r.Unattributed) > 0 {
		_, err = fmt.Fprintf(w, "(%d accesses hit an unknown level)\n",
			len(r.Unattributed))
	}

	return err
}

// WriteCSV writes the statistics of every level in CSV format.
func (r Report) WriteCSV(w io.Writer) error {
	csvWriter := csv.NewWriter(w)

	header := []string{"Level", "Hits", "Misses", "TotalLatency", "AvgLatency"}
	if err := csvWriter.Write(header); err != nil {
		return err
	}

	for _, l := range r.Levels {
		err := csvWriter.Write([]string{
			l.Name,
			strconv.FormatUint(l.Hits, 10),
			strconv.FormatUint(l.Misses, 10),
			strconv.FormatUint(l.TotalLatency, 10),
			fmt.Sprintf("%.2f", l.AverageHitLatency()),
		})
		if err != nil {
			return err
		}
	}

	csvWriter.Flush()

	return csvWriter.Error()
}

// WriteAccessLog prints one line per record.
func WriteAccessLog(w io.Writer, history simulation.History) error {
	for _, record := range history {
		_, err := fmt.Fprintf(w, "Access[%d] Addr=%x Hit=%s Cyc=%d\n",
			record.Index,
			record.Address,
			record.Result.HitLevel,
			record.Result.TotalCycles)
		if err != nil {
			return err
		}
	}

	return nil
}

// WriteHistory prints the access log of short histories and a one-line note
// for long ones.
func WriteHistory(w io.Writer, history simulation.History) error {
	if len(history) > DetailedLogLimit {
		_, err := fmt.Fprintf(w,
			"\n(Detailed history hidden for large trace: %d ops)\n",
			len(history))

		return err
	}

	if _, err := fmt.Fprintf(w, "\n=== Detailed History ===\n"); err != nil {
		return err
	}

	return WriteAccessLog(w, history)
}
