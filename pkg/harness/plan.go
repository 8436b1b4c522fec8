package harness

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Plan describes one run: where it executes and where the finished record
// goes.
type Plan struct {
	// StationID identifies the test station.
	StationID string `yaml:"station_id"`

	// CellNumber is the rig cell the run executes on.
	CellNumber int `yaml:"cell_number"`

	// DUTSerial is the serial number of the device under test.
	DUTSerial string `yaml:"dut_serial"`

	// OutputPath is the record file finished runs are appended to.
	// Empty means the record is not persisted by the runner.
	OutputPath string `yaml:"output_path"`

	// PhaseTimeout bounds each phase, e.g. "90s". Empty means no limit.
	PhaseTimeout string `yaml:"phase_timeout"`
}

// PlanError describes a plan that could not be loaded or validated.
type PlanError struct {
	File    string
	Message string
	Cause   error
}

func (e *PlanError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("plan %s: %s", e.File, e.Message)
	}
	return fmt.Sprintf("plan: %s", e.Message)
}

func (e *PlanError) Unwrap() error {
	return e.Cause
}

// ParsePlan parses a plan from YAML bytes.
func ParsePlan(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, &PlanError{
			Message: "failed to parse YAML",
			Cause:   err,
		}
	}

	if p.StationID == "" {
		return nil, &PlanError{Message: "station_id is required"}
	}
	if p.CellNumber < 0 {
		return nil, &PlanError{Message: "cell_number must not be negative"}
	}
	if p.DUTSerial == "" {
		return nil, &PlanError{Message: "dut_serial is required"}
	}
	if p.PhaseTimeout != "" {
		if _, err := time.ParseDuration(p.PhaseTimeout); err != nil {
			return nil, &PlanError{
				Message: fmt.Sprintf("invalid phase_timeout %q", p.PhaseTimeout),
				Cause:   err,
			}
		}
	}

	return &p, nil
}

// LoadPlan loads a plan from a file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &PlanError{
			File:    path,
			Message: "failed to read file",
			Cause:   err,
		}
	}

	p, err := ParsePlan(data)
	if err != nil {
		if pe, ok := err.(*PlanError); ok {
			pe.File = path
			return nil, pe
		}
		return nil, &PlanError{File: path, Message: err.Error()}
	}

	return p, nil
}

// phaseTimeout returns the parsed per-phase timeout, or 0 when unbounded.
func (p *Plan) phaseTimeout() time.Duration {
	if p.PhaseTimeout == "" {
		return 0
	}
	d, err := time.ParseDuration(p.PhaseTimeout)
	if err != nil {
		return 0
	}
	return d
}
