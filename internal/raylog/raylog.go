// Package raylog writes the optional newline-delimited ray trace debug
// log of spec.md §6: "if log_path is set, a newline-delimited record per
// traced ray is written as (t, frame, tx, pulse, sample, origin[3],
// direction[3], reflections)". It is a thin encoding/json writer over a
// buffered os.File, in the style of the teacher's per-stream debug log
// writers (internal/lidar/debug.go's SetLogWriter), generalized from a
// *log.Logger per stream to one JSON encoder guarded by a mutex, since
// Writer.LogRay is called concurrently from every scheduler worker.
package raylog

import (
	"bufio"
	"encoding/json"
	"os"
	"sync"

	"github.com/radarsimx/radarsimgo/internal/scheduler"
)

// record is the on-disk ND-JSON shape of one scheduler.RayRecord.
type record struct {
	Time        float64    `json:"t"`
	Frame       int        `json:"frame"`
	TxChannel   int        `json:"tx"`
	Pulse       int        `json:"pulse"`
	Sample      int        `json:"sample"`
	Origin      [3]float64 `json:"origin"`
	Direction   [3]float64 `json:"direction"`
	Reflections int        `json:"reflections"`
	SnapshotID  string     `json:"snapshot_id"`
}

// Writer implements scheduler.RayLogger, appending one JSON object per
// line to the file opened at construction.
type Writer struct {
	mu  sync.Mutex
	f   *os.File
	buf *bufio.Writer
	enc *json.Encoder
}

var _ scheduler.RayLogger = (*Writer)(nil)

// Open creates (or truncates) path and returns a Writer ready to receive
// ray records. The caller must call Close when the simulation run
// finishes to flush buffered output.
func Open(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	buf := bufio.NewWriter(f)
	return &Writer{f: f, buf: buf, enc: json.NewEncoder(buf)}, nil
}

// LogRay appends one JSON record for rec. Safe for concurrent use.
func (w *Writer) LogRay(rec scheduler.RayRecord) {
	w.mu.Lock()
	defer w.mu.Unlock()
	// Encode errors here would mean a full disk or a closed file; the
	// debug log is best-effort and must never abort the hot loop, per
	// spec.md §5 ("the only blocking I/O is optional ray-log writes when
	// a debug path is set" — it is explicitly non-fatal side I/O).
	_ = w.enc.Encode(record{
		Time:        rec.Time,
		Frame:       rec.Frame,
		TxChannel:   rec.TxChannel,
		Pulse:       rec.Pulse,
		Sample:      rec.Sample,
		Origin:      rec.Origin,
		Direction:   rec.Direction,
		Reflections: rec.Reflections,
		SnapshotID:  rec.SnapshotID,
	})
}

// Close flushes buffered output and closes the underlying file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.buf.Flush(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}
