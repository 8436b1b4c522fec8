package record

import (
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// Writer appends finished run records to a file in CBOR format (.rrec).
// It is safe for concurrent use from multiple goroutines.
type Writer struct {
	file    *os.File
	encoder *cbor.Encoder
	mu      sync.Mutex
	closed  bool
}

// NewWriter creates a Writer that appends to the specified path.
// The file is created with permissions 0644 if it doesn't exist.
func NewWriter(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &Writer{
		file:    f,
		encoder: NewEncoder(f),
	}, nil
}

// Write appends a record to the file. Pass Run.Snapshot() for a run that
// may still be appending. Encoding errors are swallowed: persisting results
// must not disrupt the test station.
func (w *Writer) Write(rec RunRecord) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	_ = w.encoder.Encode(rec)
}

// Close closes the record file.
// It is safe to call Close multiple times. After Close, subsequent Write
// calls are silently ignored.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}
