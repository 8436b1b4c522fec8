// Package runlog bridges the runtime logging framework (log/slog) to
// per-run structured capture.
//
// Application and phase code logs through a per-run Logger; every record is
// redacted (pkg/redact), dispatched through an explicit Registry, and
// appended to the run's record.Run as a typed log entry. The pipeline
// for one record is:
//
//	Logger -> Registry dispatch -> redaction -> base handler (console)
//	                                         -> RecordSink -> record.Run
//
// Redaction always precedes capture; sinks never observe raw records.
//
// # Lifecycle
//
// One Logger exists per run. It attaches a fresh RecordSink when created
// and must be closed when the run ends:
//
//	reg := runlog.Install(slog.NewTextHandler(os.Stderr, nil))
//	rec := record.NewRun(cell, serial, station)
//	logger := runlog.New(reg, cell, rec)
//	defer logger.Close()
//
//	logger.Info("dut %s powered on", serial)
//	logger.AddFailureCode("NO_WIFI_SIGNAL", "timeout after 30s")
//
// Install wires the process-wide registry exactly once and routes the
// default slog logger through it, so lines logged outside any run are
// redacted too.
package runlog
