package record

import (
	"compress/zlib"
	"encoding/gob"
	"fmt"
	"os"
)

/*

helpers to save and restore simulation state.
gob skips zero-valued fields, so a mostly-cold state compresses well even
before zlib gets to it.

*/

// SaveSnapshot writes the frame as a zlib-compressed gob to path.
func SaveSnapshot(path string, frame *Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	defer file.Close()

	zw := zlib.NewWriter(file)
	if err := gob.NewEncoder(zw).Encode(frame); err != nil {
		os.Remove(path)
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("flushing snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a frame previously written by SaveSnapshot.
func LoadSnapshot(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer file.Close()

	zr, err := zlib.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	defer zr.Close()

	var frame Frame
	if err := gob.NewDecoder(zr).Decode(&frame); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &frame, nil
}
