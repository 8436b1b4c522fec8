package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rigtest/rigtest-go/pkg/record"
)

// writeFixture creates a record file with three runs: cell 0 PASS,
// cell 1 FAIL (one failure code), cell 2 ERROR.
func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runs.rrec")

	w, err := record.NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	defer w.Close()

	pass := record.NewRun(0, "SN-PASS", "station-1")
	pass.AddLogEntry(record.LogEntry{
		LevelNumber: int(record.LevelInfo),
		LevelName:   "INFO",
		LoggerName:  "rig.cells.0",
		Message:     "all good",
	})
	pass.Finalize(record.OutcomePass)
	w.Write(pass.Snapshot())

	fail := record.NewRun(1, "SN-FAIL", "station-1")
	fail.AddLogEntry(record.LogEntry{
		LevelNumber: int(record.LevelError),
		LevelName:   "ERROR",
		LoggerName:  "rig.cells.1",
		Message:     "no signal",
	})
	if err := fail.AddFailureCode("NO_WIFI_SIGNAL", "timeout"); err != nil {
		t.Fatalf("AddFailureCode failed: %v", err)
	}
	fail.Finalize(record.OutcomeFail)
	w.Write(fail.Snapshot())

	errored := record.NewRun(2, "SN-ERR", "station-2")
	errored.Finalize(record.OutcomeError)
	w.Write(errored.Snapshot())

	return path
}

func TestRunViewSummaries(t *testing.T) {
	path := writeFixture(t)

	var buf bytes.Buffer
	if err := RunView(path, ViewOptions{}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"SN-PASS", "SN-FAIL", "SN-ERR", "PASS", "FAIL", "ERROR", "NO_WIFI_SIGNAL", "3 run(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("view output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "all good") {
		t.Error("log entries shown without -logs")
	}
}

func TestRunViewWithLogsAndLevel(t *testing.T) {
	path := writeFixture(t)

	minLevel := record.LevelWarning
	var buf bytes.Buffer
	err := RunView(path, ViewOptions{ShowLogs: true, MinLevel: &minLevel}, &buf)
	if err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "no signal") {
		t.Errorf("error entry missing:\n%s", out)
	}
	if strings.Contains(out, "all good") {
		t.Errorf("info entry shown despite level filter:\n%s", out)
	}
}

func TestRunViewFiltered(t *testing.T) {
	path := writeFixture(t)

	opts := FilterOptions{Outcome: "fail"}
	filter, err := opts.BuildFilter()
	if err != nil {
		t.Fatalf("BuildFilter failed: %v", err)
	}

	var buf bytes.Buffer
	if err := RunView(path, ViewOptions{Filter: filter}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "SN-FAIL") || strings.Contains(out, "SN-PASS") {
		t.Errorf("filter not applied:\n%s", out)
	}
	if !strings.Contains(out, "1 run(s)") {
		t.Errorf("expected a single run:\n%s", out)
	}
}

func TestExportJSONL(t *testing.T) {
	path := writeFixture(t)

	var buf bytes.Buffer
	if err := exportJSONL(path, &buf); err != nil {
		t.Fatalf("exportJSONL failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &rec); err != nil {
		t.Fatalf("line 2 is not JSON: %v", err)
	}
	if rec["dut_serial"] != "SN-FAIL" {
		t.Errorf("dut_serial: got %v", rec["dut_serial"])
	}
	codes, ok := rec["failure_codes"].([]any)
	if !ok || len(codes) != 1 {
		t.Fatalf("failure_codes: got %v", rec["failure_codes"])
	}
	fc := codes[0].(map[string]any)
	if fc["code"] != "NO_WIFI_SIGNAL" {
		t.Errorf("code: got %v", fc["code"])
	}
}

func TestRunExportToFile(t *testing.T) {
	path := writeFixture(t)
	out := filepath.Join(t.TempDir(), "runs.jsonl")

	if err := RunExport(path, "jsonl", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
}

func TestRunExportReportsCreateError(t *testing.T) {
	path := writeFixture(t)
	// Output path inside a missing directory must surface the error.
	out := filepath.Join(t.TempDir(), "missing", "runs.jsonl")
	if err := RunExport(path, "jsonl", out); err == nil {
		t.Error("expected an error for an uncreatable output path")
	}
}

func TestRunExportRejectsUnknownFormat(t *testing.T) {
	path := writeFixture(t)
	if err := RunExport(path, "csv", ""); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestRunFilter(t *testing.T) {
	path := writeFixture(t)
	out := filepath.Join(t.TempDir(), "filtered.rrec")

	err := RunFilter(path, FilterOptions{Output: out, Cell: "1"})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}

	r, err := record.NewReader(out)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()

	rec, err := r.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if rec.CellNumber != 1 || rec.DUTSerial != "SN-FAIL" {
		t.Errorf("unexpected record: cell=%d dut=%s", rec.CellNumber, rec.DUTSerial)
	}
}

func TestBuildFilterRejectsBadValues(t *testing.T) {
	bad := []FilterOptions{
		{Cell: "two"},
		{Outcome: "exploded"},
		{StartAfter: "yesterday"},
		{StartBefore: "not-a-time"},
	}
	for _, opts := range bad {
		if _, err := opts.BuildFilter(); err == nil {
			t.Errorf("BuildFilter accepted %+v", opts)
		}
	}
}

func TestCollectStats(t *testing.T) {
	path := writeFixture(t)

	stats, err := CollectStats(path)
	if err != nil {
		t.Fatalf("CollectStats failed: %v", err)
	}

	if stats.Runs != 3 {
		t.Errorf("runs: got %d, want 3", stats.Runs)
	}
	if stats.ByOutcome["PASS"] != 1 || stats.ByOutcome["FAIL"] != 1 || stats.ByOutcome["ERROR"] != 1 {
		t.Errorf("by outcome: %v", stats.ByOutcome)
	}
	if stats.LogEntries != 2 {
		t.Errorf("log entries: got %d, want 2", stats.LogEntries)
	}
	if stats.FailureCodes != 1 {
		t.Errorf("failure codes: got %d, want 1", stats.FailureCodes)
	}

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Runs:          3") {
		t.Errorf("stats output:\n%s", buf.String())
	}
}
