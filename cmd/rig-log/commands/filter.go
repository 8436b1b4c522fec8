package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rigtest/rigtest-go/pkg/record"
)

// FilterOptions specifies the filter criteria and output path for the
// filter command. String fields are raw flag values; empty means no filter.
type FilterOptions struct {
	Output      string
	Cell        string
	Outcome     string
	DUTSerial   string
	StationID   string
	StartAfter  string // RFC3339
	StartBefore string // RFC3339
}

// BuildFilter parses the raw options into a record.Filter.
func (o *FilterOptions) BuildFilter() (record.Filter, error) {
	var f record.Filter

	if o.Cell != "" {
		n, err := strconv.Atoi(o.Cell)
		if err != nil {
			return f, fmt.Errorf("invalid cell %q", o.Cell)
		}
		f.CellNumber = &n
	}
	if o.Outcome != "" {
		oc, err := ParseOutcomeFlag(o.Outcome)
		if err != nil {
			return f, err
		}
		f.Outcome = &oc
	}
	f.DUTSerial = o.DUTSerial
	f.StationID = o.StationID

	if o.StartAfter != "" {
		ts, err := time.Parse(time.RFC3339, o.StartAfter)
		if err != nil {
			return f, fmt.Errorf("invalid start-after time %q: %w", o.StartAfter, err)
		}
		millis := ts.UnixMilli()
		f.StartAfterMillis = &millis
	}
	if o.StartBefore != "" {
		ts, err := time.Parse(time.RFC3339, o.StartBefore)
		if err != nil {
			return f, fmt.Errorf("invalid start-before time %q: %w", o.StartBefore, err)
		}
		millis := ts.UnixMilli()
		f.StartBeforeMillis = &millis
	}

	return f, nil
}

// RunFilter copies matching records from path to opts.Output.
func RunFilter(path string, opts FilterOptions) error {
	filter, err := opts.BuildFilter()
	if err != nil {
		return err
	}

	r, err := record.NewFilteredReader(path, filter)
	if err != nil {
		return err
	}
	defer r.Close()

	w, err := record.NewWriter(opts.Output)
	if err != nil {
		return err
	}
	defer w.Close()

	for {
		rec, err := r.Next()
		if err == io.EOF {
			return w.Close()
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}
		w.Write(rec)
	}
}

// ParseOutcomeFlag parses an outcome name (case-insensitive).
func ParseOutcomeFlag(s string) (record.Outcome, error) {
	switch strings.ToUpper(s) {
	case "UNSET":
		return record.OutcomeUnset, nil
	case "PASS":
		return record.OutcomePass, nil
	case "FAIL":
		return record.OutcomeFail, nil
	case "ERROR":
		return record.OutcomeError, nil
	case "TIMEOUT":
		return record.OutcomeTimeout, nil
	case "ABORTED":
		return record.OutcomeAborted, nil
	default:
		return 0, fmt.Errorf("unknown outcome %q (pass, fail, error, timeout, aborted)", s)
	}
}
