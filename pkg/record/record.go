// Package record defines the per-run result record of a test rig: the
// structured log entries and failure codes collected while a test executes
// on one cell, plus the CBOR file format used to persist finished records.
//
// Run is the live, synchronized object a run in progress appends to
// (pkg/runlog appends to it); RunRecord is the plain value type that gets
// encoded to record files and read back by the rig-log CLI.
package record

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Outcome classifies how a run ended.
type Outcome uint8

const (
	// OutcomeUnset means the run has not finished yet.
	OutcomeUnset Outcome = 0
	// OutcomePass means all phases passed.
	OutcomePass Outcome = 1
	// OutcomeFail means a phase reported a test failure.
	OutcomeFail Outcome = 2
	// OutcomeError means a phase errored or panicked.
	OutcomeError Outcome = 3
	// OutcomeTimeout means the run exceeded its deadline.
	OutcomeTimeout Outcome = 4
	// OutcomeAborted means the run was cancelled externally.
	OutcomeAborted Outcome = 5
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeUnset:
		return "UNSET"
	case OutcomePass:
		return "PASS"
	case OutcomeFail:
		return "FAIL"
	case OutcomeError:
		return "ERROR"
	case OutcomeTimeout:
		return "TIMEOUT"
	case OutcomeAborted:
		return "ABORTED"
	default:
		return "UNKNOWN"
	}
}

// RunRecord is the structured result of one test execution on one cell, as
// persisted to record files. It is a plain value type: safe to copy, encode
// and decode freely. Log entries and failure codes are in insertion order.
type RunRecord struct {
	// ID uniquely identifies the run (UUID).
	ID string `cbor:"1,keyasint" json:"id"`

	// CellNumber is the rig cell the run executed on.
	CellNumber int `cbor:"2,keyasint" json:"cell_number"`

	// DUTSerial is the serial number of the device under test.
	DUTSerial string `cbor:"3,keyasint,omitempty" json:"dut_serial,omitempty"`

	// StationID identifies the test station.
	StationID string `cbor:"4,keyasint,omitempty" json:"station_id,omitempty"`

	// StartTimeMillis is when the run started (epoch milliseconds).
	StartTimeMillis int64 `cbor:"5,keyasint" json:"start_time_millis"`

	// EndTimeMillis is when the run finished (0 while running).
	EndTimeMillis int64 `cbor:"6,keyasint,omitempty" json:"end_time_millis,omitempty"`

	// Outcome classifies how the run ended.
	Outcome Outcome `cbor:"7,keyasint" json:"outcome"`

	// LogEntries are the captured log lines, in emission order.
	LogEntries []LogEntry `cbor:"8,keyasint,omitempty" json:"log_entries,omitempty"`

	// FailureCodes explain a non-nominal outcome.
	FailureCodes []FailureCode `cbor:"9,keyasint,omitempty" json:"failure_codes,omitempty"`
}

// Run is the synchronized record of a run in progress. Appends are safe for
// concurrent use: multiple phases of one run may log at the same time. The
// identity fields are fixed at creation; Snapshot produces the RunRecord
// value for persistence.
type Run struct {
	mu  sync.Mutex
	rec RunRecord
}

// NewRun creates the record for a run starting now.
func NewRun(cellNumber int, dutSerial, stationID string) *Run {
	return &Run{
		rec: RunRecord{
			ID:              uuid.New().String(),
			CellNumber:      cellNumber,
			DUTSerial:       dutSerial,
			StationID:       stationID,
			StartTimeMillis: time.Now().UnixMilli(),
		},
	}
}

// ID returns the run's unique identifier.
func (r *Run) ID() string {
	return r.rec.ID
}

// CellNumber returns the rig cell the run executes on.
func (r *Run) CellNumber() int {
	return r.rec.CellNumber
}

// DUTSerial returns the serial number of the device under test.
func (r *Run) DUTSerial() string {
	return r.rec.DUTSerial
}

// Outcome returns the run's outcome (OutcomeUnset while running).
func (r *Run) Outcome() Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rec.Outcome
}

// AddLogEntry appends a log entry. Safe for concurrent use.
func (r *Run) AddLogEntry(entry LogEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec.LogEntries = append(r.rec.LogEntries, entry)
}

// AddFailureCode validates and appends a failure code. Safe for concurrent
// use. Returns ErrInvalidFailureCode if code is empty.
func (r *Run) AddFailureCode(code, details string) error {
	fc, err := NewFailureCode(code, details)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec.FailureCodes = append(r.rec.FailureCodes, fc)
	return nil
}

// Finalize marks the run as finished with the given outcome.
func (r *Run) Finalize(outcome Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec.Outcome = outcome
	r.rec.EndTimeMillis = time.Now().UnixMilli()
}

// Logs returns a copy of the log entries captured so far.
func (r *Run) Logs() []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]LogEntry, len(r.rec.LogEntries))
	copy(out, r.rec.LogEntries)
	return out
}

// Failures returns a copy of the failure codes recorded so far.
func (r *Run) Failures() []FailureCode {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]FailureCode, len(r.rec.FailureCodes))
	copy(out, r.rec.FailureCodes)
	return out
}

// Snapshot returns a RunRecord value safe to encode while the run is still
// appending. The copy shares no slices with the live record.
func (r *Run) Snapshot() RunRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := r.rec
	snap.LogEntries = make([]LogEntry, len(r.rec.LogEntries))
	copy(snap.LogEntries, r.rec.LogEntries)
	snap.FailureCodes = make([]FailureCode, len(r.rec.FailureCodes))
	copy(snap.FailureCodes, r.rec.FailureCodes)
	return snap
}
