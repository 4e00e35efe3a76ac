// Package telemetry writes per-tick agent summaries to CSV, grounded on
// the same gocsv marshal-on-write pattern used elsewhere in this
// codebase's lineage: open the file once, marshal headers on the first
// record, and marshal-without-headers on every record after.
package telemetry

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// TickRecord is one row of the telemetry stream: a snapshot of an
// agent's motion state at the end of a tick. Field order here is the
// CSV column order.
type TickRecord struct {
	Tick      int64   `csv:"tick"`
	AgentID   uint64  `csv:"agent_id"`
	PositionX float32 `csv:"position_x"`
	PositionY float32 `csv:"position_y"`
	VelocityX float32 `csv:"velocity_x"`
	VelocityY float32 `csv:"velocity_y"`
	Speed     float32 `csv:"speed"`
	ActiveCtx int     `csv:"active_contexts"`
}

// Writer appends TickRecords to a CSV file. A nil *Writer is valid and
// every method on it is a no-op, so callers can leave telemetry disabled
// by simply not constructing one rather than branching on a flag at
// every call site — this is what NewWriter("") returns.
type Writer struct {
	file          *os.File
	headerWritten bool
}

// NewWriter opens path for writing and truncates any existing file.
// Passing an empty path returns a nil *Writer with no error, disabling
// telemetry output entirely; every method is safe to call on it.
func NewWriter(path string) (*Writer, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating telemetry file: %w", err)
	}
	return &Writer{file: f}, nil
}

// Write appends one tick's worth of records. It is never called from
// inside Agent.Tick or AgentSystem.Tick — callers collect records during
// the tick and flush them afterward, keeping file I/O off the hot path.
func (w *Writer) Write(records []TickRecord) error {
	if w == nil || len(records) == 0 {
		return nil
	}
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
