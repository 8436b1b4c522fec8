package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/rigtest/rigtest-go/pkg/record"
)

// Stats aggregates a record file.
type Stats struct {
	Runs         int
	ByOutcome    map[string]int
	ByCell       map[int]int
	LogEntries   int
	FailureCodes int
}

// CollectStats reads the whole record file and aggregates counts.
func CollectStats(path string) (*Stats, error) {
	r, err := record.NewReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	stats := &Stats{
		ByOutcome: make(map[string]int),
		ByCell:    make(map[int]int),
	}

	for {
		rec, err := r.Next()
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		stats.Runs++
		stats.ByOutcome[rec.Outcome.String()]++
		stats.ByCell[rec.CellNumber]++
		stats.LogEntries += len(rec.LogEntries)
		stats.FailureCodes += len(rec.FailureCodes)
	}
}

// RunStats writes aggregate statistics about the record file to w.
func RunStats(path string, w io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Runs:          %d\n", stats.Runs)
	fmt.Fprintf(w, "Log entries:   %d\n", stats.LogEntries)
	fmt.Fprintf(w, "Failure codes: %d\n", stats.FailureCodes)

	if len(stats.ByOutcome) > 0 {
		fmt.Fprintf(w, "\nBy outcome:\n")
		outcomes := make([]string, 0, len(stats.ByOutcome))
		for o := range stats.ByOutcome {
			outcomes = append(outcomes, o)
		}
		sort.Strings(outcomes)
		for _, o := range outcomes {
			fmt.Fprintf(w, "  %-8s %d\n", o, stats.ByOutcome[o])
		}
	}

	if len(stats.ByCell) > 0 {
		fmt.Fprintf(w, "\nBy cell:\n")
		cells := make([]int, 0, len(stats.ByCell))
		for c := range stats.ByCell {
			cells = append(cells, c)
		}
		sort.Ints(cells)
		for _, c := range cells {
			fmt.Fprintf(w, "  cell %-4d %d\n", c, stats.ByCell[c])
		}
	}

	return nil
}
