package report

import (
	"encoding/json"
	"os"
	"time"
)

// New creates an empty report for a run targeting format.
func New(format string) *Report {
	return &Report{
		Version:     SupportedReportVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Format:      format,
		Entries:     make(map[string]Entry),
	}
}

// ComputeStats recalculates aggregate statistics from entries and failures.
func (r *Report) ComputeStats() {
	var s Stats
	s.Converted = len(r.Entries)
	s.Failed = len(r.Failures)
	for _, e := range r.Entries {
		s.TotalInputBytes += e.SourceSize
		s.TotalOutputBytes += e.Size
		if e.Flattened {
			s.Flattened++
		}
	}
	r.Stats = s
}

// WriteJSON serializes the report to a JSON file. Map keys are emitted
// in sorted order by encoding/json, so output is stable.
func WriteJSON(r *Report, path string) error {
	r.ComputeStats()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a report written by WriteJSON.
func ReadJSON(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
