package runlog

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigtest/rigtest-go/pkg/record"
)

func TestRecordSinkCapturesFields(t *testing.T) {
	rec := record.NewRun(1, "SN", "st")
	sink := NewRecordSink(rec, "rig.cells.1")

	ts := time.UnixMilli(1700000000123)
	r := slog.NewRecord(ts, slog.LevelWarn, "voltage out of range", 0)
	require.NoError(t, sink.Handle(context.Background(), r))

	logs := rec.Logs()
	require.Len(t, logs, 1)
	e := logs[0]
	assert.Equal(t, int64(1700000000123), e.TimestampMillis)
	assert.Equal(t, int(slog.LevelWarn), e.LevelNumber)
	assert.Equal(t, "WARNING", e.LevelName)
	assert.Equal(t, "rig.cells.1", e.LoggerName)
	assert.Equal(t, "voltage out of range", e.Message)
}

func TestRecordSinkCapturesEveryLevel(t *testing.T) {
	rec := record.NewRun(1, "SN", "st")
	sink := NewRecordSink(rec, "rig.cells.1")

	levels := []slog.Level{
		record.LevelDebug.Slog(),
		record.LevelInfo.Slog(),
		record.LevelWarning.Slog(),
		record.LevelError.Slog(),
		record.LevelCritical.Slog(),
	}
	for _, lvl := range levels {
		assert.True(t, sink.Enabled(context.Background(), lvl))
		r := slog.NewRecord(time.Now(), lvl, "m", 0)
		require.NoError(t, sink.Handle(context.Background(), r))
	}

	logs := rec.Logs()
	require.Len(t, logs, len(levels))
	assert.Equal(t, "DEBUG", logs[0].LevelName)
	assert.Equal(t, "CRITICAL", logs[4].LevelName)
}

func TestRecordSinkAppendsExceptionText(t *testing.T) {
	rec := record.NewRun(1, "SN", "st")
	sink := NewRecordSink(rec, "rig.cells.1")

	r := slog.NewRecord(time.Now(), slog.LevelError, "phase blew up", 0)
	r.AddAttrs(slog.String(ExceptionKey, "dial tcp: connection refused\ngoroutine 1 [running]:"))
	require.NoError(t, sink.Handle(context.Background(), r))

	logs := rec.Logs()
	require.Len(t, logs, 1)
	msg := logs[0].Message
	assert.True(t, strings.HasPrefix(msg, "phase blew up\n"), "message %q must start with base text and newline", msg)
	assert.True(t, strings.HasSuffix(msg, "goroutine 1 [running]:"), "message %q must end with the trace", msg)
}

func TestRecordSinkReplacesInvalidUTF8(t *testing.T) {
	rec := record.NewRun(1, "SN", "st")
	sink := NewRecordSink(rec, "rig.cells.1")

	raw := "serial dump: " + string([]byte{0xff, 0xfe, 0x41})
	r := slog.NewRecord(time.Now(), slog.LevelInfo, raw, 0)
	require.NoError(t, sink.Handle(context.Background(), r))

	logs := rec.Logs()
	require.Len(t, logs, 1)
	assert.True(t, strings.Contains(logs[0].Message, "�"), "replacement marker missing from %q", logs[0].Message)
	assert.True(t, strings.HasSuffix(logs[0].Message, "A"))
}

func TestRecordSinkResolvesSourceLocation(t *testing.T) {
	rec := record.NewRun(1, "SN", "st")
	reg := NewRegistry(nil)
	logger := New(reg, 1, rec)
	defer logger.Close()

	logger.Info("locate me")

	logs := rec.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, "sink_test.go", logs[0].SourceFile)
	assert.Greater(t, logs[0].SourceLine, 0)
}
