// Package commands implements the rig-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/rigtest/rigtest-go/pkg/record"
)

// ViewOptions controls the view command output.
type ViewOptions struct {
	// Filter selects which records to show.
	Filter record.Filter

	// ShowLogs includes each record's log entries.
	ShowLogs bool

	// MinLevel hides log entries below this level when ShowLogs is set.
	MinLevel *record.Level
}

// RunView reads the record file and writes a human-readable rendering to w.
func RunView(path string, opts ViewOptions, w io.Writer) error {
	r, err := record.NewFilteredReader(path, opts.Filter)
	if err != nil {
		return err
	}
	defer r.Close()

	count := 0
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}
		formatRecord(w, rec, opts)
		count++
	}

	fmt.Fprintf(w, "\n%d run(s)\n", count)
	return nil
}

// formatRecord writes a human-readable representation of one run.
func formatRecord(w io.Writer, rec record.RunRecord, opts ViewOptions) {
	dur := ""
	if rec.EndTimeMillis > 0 {
		d := time.Duration(rec.EndTimeMillis-rec.StartTimeMillis) * time.Millisecond
		dur = fmt.Sprintf(" (%s)", d.Round(time.Millisecond))
	}

	fmt.Fprintf(w, "\n=== Run %s ===\n", shortenID(rec.ID))
	fmt.Fprintf(w, "Cell:    %d\n", rec.CellNumber)
	fmt.Fprintf(w, "DUT:     %s\n", rec.DUTSerial)
	fmt.Fprintf(w, "Station: %s\n", rec.StationID)
	fmt.Fprintf(w, "Started: %s\n", formatMillis(rec.StartTimeMillis))
	fmt.Fprintf(w, "Outcome: %s%s\n", rec.Outcome, dur)

	if len(rec.FailureCodes) > 0 {
		fmt.Fprintf(w, "Failure codes:\n")
		for _, fc := range rec.FailureCodes {
			if fc.Details != "" {
				fmt.Fprintf(w, "  %s: %s\n", fc.Code, fc.Details)
			} else {
				fmt.Fprintf(w, "  %s\n", fc.Code)
			}
		}
	}

	if !opts.ShowLogs {
		fmt.Fprintf(w, "Log entries: %d\n", len(rec.LogEntries))
		return
	}

	for _, e := range rec.LogEntries {
		if opts.MinLevel != nil && e.LevelNumber < int(*opts.MinLevel) {
			continue
		}
		loc := ""
		if e.SourceFile != "" {
			loc = fmt.Sprintf(" (%s:%d)", e.SourceFile, e.SourceLine)
		}
		fmt.Fprintf(w, "  %s %-8s %s %s%s\n",
			formatMillis(e.TimestampMillis), e.LevelName, e.LoggerName, e.Message, loc)
	}
}

func formatMillis(millis int64) string {
	return time.UnixMilli(millis).UTC().Format("2006-01-02T15:04:05.000Z")
}

// shortenID truncates a UUID for display.
func shortenID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
