package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rigtest/rigtest-go/pkg/record"
)

// RunExport converts the record file to JSONL. outputPath may be empty to
// write to stdout.
func RunExport(path, format, outputPath string) error {
	if format != "jsonl" {
		return fmt.Errorf("unsupported format %q (only jsonl)", format)
	}

	if outputPath == "" {
		return exportJSONL(path, os.Stdout)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := exportJSONL(path, f); err != nil {
		f.Close()
		return err
	}
	// A failed close can lose buffered data, so it fails the export.
	return f.Close()
}

// exportJSONL writes one JSON object per run record.
func exportJSONL(path string, out io.Writer) error {
	r, err := record.NewReader(path)
	if err != nil {
		return err
	}
	defer r.Close()

	enc := json.NewEncoder(out)
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
	}
}
