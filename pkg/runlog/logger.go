package runlog

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rigtest/rigtest-go/pkg/record"
)

// Logger is the per-context run logger handed to test phases. It binds one
// rig cell's logger scope to one RunRecord: everything logged through it is
// redacted, emitted through the registry, and captured as a structured entry
// on the record. It also carries the failure-code operation, so a phase can
// state why it bailed separately from free-text log lines.
//
// A Logger must be closed when its run ends. Close detaches the capture
// sink from the registry; without it the sink would keep appending to a
// record whose run is already over.
type Logger struct {
	reg     *Registry
	scope   string
	cell    int
	rec     *record.Run
	sink    *RecordSink
	slogger *slog.Logger

	closeOnce sync.Once
}

// New creates a Logger for one run: it attaches a fresh RecordSink bound to
// rec on the cell's scope and returns the logger that feeds it.
func New(reg *Registry, cell int, rec *record.Run) *Logger {
	scope := ScopeForCell(cell)
	sink := NewRecordSink(rec, scope)
	reg.Attach(scope, sink)

	return &Logger{
		reg:     reg,
		scope:   scope,
		cell:    cell,
		rec:     rec,
		sink:    sink,
		slogger: slog.New(reg.Handler(scope)).With(slog.Int("cell", cell)),
	}
}

// Record returns the bound run record.
func (l *Logger) Record() *record.Run {
	return l.rec
}

// Log formats the message Sprintf-style and emits it at the given level.
// All convenience methods funnel through here, so redaction and capture
// apply uniformly.
func (l *Logger) Log(level record.Level, format string, args ...any) {
	l.emit(level, fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level.
func (l *Logger) Debug(format string, args ...any) {
	l.emit(record.LevelDebug, fmt.Sprintf(format, args...))
}

// Info logs at INFO level.
func (l *Logger) Info(format string, args ...any) {
	l.emit(record.LevelInfo, fmt.Sprintf(format, args...))
}

// Warning logs at WARNING level.
func (l *Logger) Warning(format string, args ...any) {
	l.emit(record.LevelWarning, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level.
func (l *Logger) Error(format string, args ...any) {
	l.emit(record.LevelError, fmt.Sprintf(format, args...))
}

// Critical logs at CRITICAL level.
func (l *Logger) Critical(format string, args ...any) {
	l.emit(record.LevelCritical, fmt.Sprintf(format, args...))
}

// Exception logs at ERROR level with the error text and current stack
// attached. The captured entry's message ends with the formatted trace,
// separated from the base message by a newline.
func (l *Logger) Exception(err error, format string, args ...any) {
	trace := string(debug.Stack())
	exc := trace
	if err != nil {
		exc = err.Error() + "\n" + trace
	}
	l.emit(record.LevelError, fmt.Sprintf(format, args...), slog.String(ExceptionKey, exc))
}

// AddFailureCode records a failure code on the bound run record.
// code must be non-empty; details may be empty.
func (l *Logger) AddFailureCode(code, details string) error {
	return l.rec.AddFailureCode(code, details)
}

// Close detaches the capture sink from the registry. After Close, records
// emitted on the cell's scope no longer reach this run's record. Close is
// idempotent and must be called on every exit path of the run.
func (l *Logger) Close() {
	l.closeOnce.Do(func() {
		l.reg.Detach(l.scope, l.sink)
	})
}

// String returns a diagnostic identifier for the logger.
func (l *Logger) String() string {
	return fmt.Sprintf("<RunLogger cell %d: %s>", l.cell, l.rec.DUTSerial())
}

// emit builds the record with the caller's program counter and hands it to
// the scope's dispatch handler.
func (l *Logger) emit(level record.Level, msg string, attrs ...slog.Attr) {
	var pcs [1]uintptr
	// skip runtime.Callers, emit, and the exported wrapper
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), level.Slog(), msg, pcs[0])
	r.AddAttrs(attrs...)
	_ = l.slogger.Handler().Handle(context.Background(), r)
}
