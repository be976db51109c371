// Package telemetry records per-generation statistics for a running
// population to CSV.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// Recorder appends GenerationStats rows to a single CSV file. A nil
// *Recorder is valid and every method on it is a no-op, so telemetry
// can be disabled simply by never constructing one.
type Recorder struct {
	file          *os.File
	headerWritten bool
}

// NewRecorder creates (or truncates) generations.csv inside dir and
// returns a Recorder writing to it. Returns (nil, nil) if dir is
// empty, meaning telemetry is disabled.
func NewRecorder(dir string) (*Recorder, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("telemetry: creating output directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "generations.csv"))
	if err != nil {
		return nil, fmt.Errorf("telemetry: creating generations.csv: %w", err)
	}
	return &Recorder{file: f}, nil
}

// Write appends one record, writing a CSV header on the first call.
func (r *Recorder) Write(rec GenerationStats) error {
	if r == nil {
		return nil
	}
	records := []GenerationStats{rec}
	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.file); err != nil {
			return fmt.Errorf("telemetry: writing generation record: %w", err)
		}
		r.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, r.file); err != nil {
		return fmt.Errorf("telemetry: writing generation record: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (r *Recorder) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	return r.file.Close()
}
