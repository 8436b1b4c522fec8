package record

import (
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// Filter specifies criteria for selecting run records.
// Empty/nil fields match all records for that criterion.
type Filter struct {
	// CellNumber filters by rig cell.
	CellNumber *int

	// Outcome filters by run outcome.
	Outcome *Outcome

	// DUTSerial filters by exact DUT serial match.
	DUTSerial string

	// StationID filters by station.
	StationID string

	// StartAfterMillis selects runs started at or after this time.
	StartAfterMillis *int64

	// StartBeforeMillis selects runs started before this time.
	StartBeforeMillis *int64
}

// matches returns true if the record matches all filter criteria.
func (f *Filter) matches(rec RunRecord) bool {
	if f.CellNumber != nil && rec.CellNumber != *f.CellNumber {
		return false
	}
	if f.Outcome != nil && rec.Outcome != *f.Outcome {
		return false
	}
	if f.DUTSerial != "" && rec.DUTSerial != f.DUTSerial {
		return false
	}
	if f.StationID != "" && rec.StationID != f.StationID {
		return false
	}
	if f.StartAfterMillis != nil && rec.StartTimeMillis < *f.StartAfterMillis {
		return false
	}
	if f.StartBeforeMillis != nil && rec.StartTimeMillis >= *f.StartBeforeMillis {
		return false
	}
	return true
}

// Reader reads run records from a CBOR-encoded record file.
// It provides an iterator interface for streaming large files.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader creates a Reader that reads all records from the specified file.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader creates a Reader that reads records matching the filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{
		file:    f,
		decoder: NewDecoder(f),
		filter:  filter,
	}, nil
}

// Next returns the next record that matches the filter.
// Returns io.EOF when no more records are available.
func (r *Reader) Next() (RunRecord, error) {
	for {
		var rec RunRecord
		if err := r.decoder.Decode(&rec); err != nil {
			if err == io.EOF {
				return RunRecord{}, io.EOF
			}
			return RunRecord{}, err
		}

		if r.filter.matches(rec) {
			return rec, nil
		}
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
