package runlog

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rigtest/rigtest-go/pkg/record"
)

// ExceptionKey is the attribute key carrying formatted exception text.
// The sink appends its value to the entry message after a newline.
const ExceptionKey = "exception"

// RecordSink is an slog.Handler that converts each delivered record into a
// record.LogEntry and appends it to the bound run. It performs no
// level filtering of its own: deciding what gets delivered is the logging
// framework's job, capturing everything delivered is the sink's.
type RecordSink struct {
	rec        *record.Run
	loggerName string
	attrs      []slog.Attr
}

// NewRecordSink creates a sink appending to rec. loggerName is recorded on
// every entry as the emitting logger scope.
func NewRecordSink(rec *record.Run, loggerName string) *RecordSink {
	return &RecordSink{rec: rec, loggerName: loggerName}
}

// Enabled reports true for every level.
func (s *RecordSink) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle converts r into a structured log entry and appends it to the bound
// run record. It never returns an error for malformed message content:
// invalid UTF-8 is replaced, not rejected.
func (s *RecordSink) Handle(_ context.Context, r slog.Record) error {
	msg := r.Message

	var exc string
	scan := func(a slog.Attr) bool {
		if a.Key == ExceptionKey {
			exc = a.Value.String()
		}
		return true
	}
	for _, a := range s.attrs {
		scan(a)
	}
	r.Attrs(scan)

	if exc != "" {
		msg += "\n" + exc
	}
	msg = strings.ToValidUTF8(msg, "�")

	file, line := sourceLocation(r.PC)
	level := record.LevelFromSlog(r.Level)

	s.rec.AddLogEntry(record.LogEntry{
		TimestampMillis: r.Time.UnixMilli(),
		LevelNumber:     int(r.Level),
		LevelName:       level.String(),
		LoggerName:      s.loggerName,
		Message:         msg,
		SourceFile:      file,
		SourceLine:      line,
	})
	return nil
}

// WithAttrs returns a sink that also scans the given attributes when
// looking for exception text. Other attributes do not alter the entry:
// the structured fields are fixed by the run record contract.
func (s *RecordSink) WithAttrs(attrs []slog.Attr) slog.Handler {
	s2 := *s
	s2.attrs = append(append([]slog.Attr(nil), s.attrs...), attrs...)
	return &s2
}

// WithGroup returns the sink unchanged; entry fields are flat.
func (s *RecordSink) WithGroup(string) slog.Handler {
	return s
}

// sourceLocation resolves the program counter to a file base name and line.
func sourceLocation(pc uintptr) (string, int) {
	if pc == 0 {
		return "", 0
	}
	frames := runtime.CallersFrames([]uintptr{pc})
	frame, _ := frames.Next()
	if frame.File == "" {
		return "", 0
	}
	return filepath.Base(frame.File), frame.Line
}

// Compile-time interface satisfaction check.
var _ slog.Handler = (*RecordSink)(nil)
