package record

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Level is the severity of a log entry.
// Numeric values follow slog's spacing so entries can be filtered with the
// same thresholds the runtime logger uses. CRITICAL extends the scale upward.
type Level int

const (
	// LevelDebug is verbose diagnostic output.
	LevelDebug Level = -4
	// LevelInfo is routine progress information.
	LevelInfo Level = 0
	// LevelWarning indicates something unexpected but recoverable.
	LevelWarning Level = 4
	// LevelError indicates a failure of the operation being logged.
	LevelError Level = 8
	// LevelCritical indicates a failure that invalidates the whole run.
	LevelCritical Level = 12
)

// String returns the symbolic level name.
func (l Level) String() string {
	switch {
	case l >= LevelCritical:
		return "CRITICAL"
	case l >= LevelError:
		return "ERROR"
	case l >= LevelWarning:
		return "WARNING"
	case l >= LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// ParseLevel parses a symbolic level name (case-insensitive).
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARNING", "WARN":
		return LevelWarning, nil
	case "ERROR":
		return LevelError, nil
	case "CRITICAL":
		return LevelCritical, nil
	default:
		return 0, fmt.Errorf("unknown level %q", s)
	}
}

// Slog converts the level to its slog equivalent.
func (l Level) Slog() slog.Level {
	return slog.Level(l)
}

// LevelFromSlog converts an slog level to a record level.
func LevelFromSlog(l slog.Level) Level {
	return Level(l)
}

// LogEntry is one captured log line in a run record.
// Field names are a stable contract consumed by report generation and the
// rig-log viewer; do not rename.
type LogEntry struct {
	// TimestampMillis is the capture time in milliseconds since the epoch.
	TimestampMillis int64 `cbor:"1,keyasint" json:"timestamp_millis"`

	// LevelNumber is the numeric severity (slog numbering, CRITICAL=12).
	LevelNumber int `cbor:"2,keyasint" json:"level_number"`

	// LevelName is the symbolic severity name.
	LevelName string `cbor:"3,keyasint" json:"level_name"`

	// LoggerName identifies the logger scope that emitted the entry.
	LoggerName string `cbor:"4,keyasint" json:"logger_name"`

	// Message is the final formatted message, post-redaction.
	// If an exception was attached, its text follows after a newline.
	Message string `cbor:"5,keyasint" json:"message"`

	// SourceFile is the base name of the emitting source file.
	SourceFile string `cbor:"6,keyasint,omitempty" json:"source_file,omitempty"`

	// SourceLine is the line number in SourceFile.
	SourceLine int `cbor:"7,keyasint,omitempty" json:"source_line,omitempty"`
}

// ErrInvalidFailureCode is returned when a failure code is created with an
// empty code. This is a caller bug, not a runtime condition.
var ErrInvalidFailureCode = errors.New("failure code must not be empty")

// FailureCode records why a run aborted or failed, as a short
// machine-meaningful token (e.g. NO_WIFI_SIGNAL) plus free-text detail.
type FailureCode struct {
	// Code is a single-word token describing the failure cause.
	Code string `cbor:"1,keyasint" json:"code"`

	// Details is an optional full description.
	Details string `cbor:"2,keyasint,omitempty" json:"details,omitempty"`
}

// NewFailureCode validates and constructs a FailureCode.
func NewFailureCode(code, details string) (FailureCode, error) {
	if code == "" {
		return FailureCode{}, ErrInvalidFailureCode
	}
	return FailureCode{Code: code, Details: details}, nil
}
