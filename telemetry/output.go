package telemetry

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// Writer appends StepStats rows to a CSV file, writing the header once.
type Writer struct {
	file          *os.File
	headerWritten bool
}

// NewWriter creates (truncating) the CSV file at path.
func NewWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating telemetry csv: %w", err)
	}
	return &Writer{file: f}, nil
}

// Write appends one row.
func (w *Writer) Write(s StepStats) error {
	records := []StepStats{s}

	if !w.headerWritten {
		if err := gocsv.Marshal(records, w.file); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		w.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, w.file); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	if w == nil || w.file == nil {
		return nil
	}
	return w.file.Close()
}
