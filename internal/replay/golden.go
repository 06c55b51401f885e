package replay

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/radarsimx/radarsimgo/internal/config"
	"github.com/radarsimx/radarsimgo/internal/simerr"
)

// Golden is one recorded baseband tensor keyed by the hash of the config
// that produced it, per spec.md §8's "replay golden files for
// determinism/bit-for-bit checks across two Runs with a fixed thread
// count".
type Golden struct {
	RunID             string
	ConfigHash        string
	RecordedUnixNanos int64
	Baseband          [][][]complex128
}

// ConfigHash hashes a radar config and its targets into a stable key: the
// same (radar, targets) pair must always hash identically so a later Run
// with an unchanged config looks up the same golden record, mirroring
// internal/db/db.go's sha256/hex blob-hash pattern for grid_blob dedup.
// Config.Transmitter.PhaseNoise and Channel.Polarization carry
// complex128, which encoding/json cannot marshal, so the key is built
// from %#v's deterministic Go-syntax representation instead of JSON.
func ConfigHash(cfg config.Radar, targets []config.Target) (string, error) {
	key := fmt.Sprintf("%#v|%#v", cfg, targets)
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:]), nil
}

// complexWire is the JSON-safe representation of one complex128 sample;
// encoding/json has no native complex support.
type complexWire struct {
	Re, Im float64
}

func toWire(bb [][][]complex128) [][][]complexWire {
	out := make([][][]complexWire, len(bb))
	for i, byPulse := range bb {
		out[i] = make([][]complexWire, len(byPulse))
		for j, bySample := range byPulse {
			out[i][j] = make([]complexWire, len(bySample))
			for k, v := range bySample {
				out[i][j][k] = complexWire{real(v), imag(v)}
			}
		}
	}
	return out
}

func fromWire(bb [][][]complexWire) [][][]complex128 {
	out := make([][][]complex128, len(bb))
	for i, byPulse := range bb {
		out[i] = make([][]complex128, len(byPulse))
		for j, bySample := range byPulse {
			out[i][j] = make([]complex128, len(bySample))
			for k, v := range bySample {
				out[i][j][k] = complex(v.Re, v.Im)
			}
		}
	}
	return out
}

// encodeBaseband gzip-compresses the JSON-encoded tensor, mirroring
// internal/db/db.go's compress/gzip use for stored blobs.
func encodeBaseband(bb [][][]complex128) ([]byte, error) {
	raw, err := json.Marshal(toWire(bb))
	if err != nil {
		return nil, simerr.Wrap(simerr.InvalidConfig, err, "replay: marshal baseband tensor")
	}
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(raw); err != nil {
		return nil, simerr.Wrap(simerr.DeviceError, err, "replay: gzip baseband tensor")
	}
	if err := gz.Close(); err != nil {
		return nil, simerr.Wrap(simerr.DeviceError, err, "replay: close gzip writer")
	}
	return buf.Bytes(), nil
}

func decodeBaseband(blob []byte) ([][][]complex128, error) {
	gz, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, simerr.Wrap(simerr.DeviceError, err, "replay: open gzip reader")
	}
	defer gz.Close()
	var wire [][][]complexWire
	if err := json.NewDecoder(gz).Decode(&wire); err != nil {
		return nil, simerr.Wrap(simerr.DeviceError, err, "replay: decode baseband tensor")
	}
	return fromWire(wire), nil
}

// Put inserts a new golden record for configHash, replacing any existing
// one with the same hash (re-recording a golden run after an intentional
// numerical change).
func (s *Store) Put(configHash string, recordedUnixNanos int64, bb [][][]complex128) (Golden, error) {
	blob, err := encodeBaseband(bb)
	if err != nil {
		return Golden{}, err
	}
	runID := uuid.NewString()
	channels := len(bb)
	pulses, samples := 0, 0
	if channels > 0 {
		pulses = len(bb[0])
		if pulses > 0 {
			samples = len(bb[0][0])
		}
	}

	_, err = s.db.Exec(`DELETE FROM golden_run WHERE config_hash = ?`, configHash)
	if err != nil {
		return Golden{}, wrapSQLErr(err, "replay: delete prior golden record")
	}
	_, err = s.db.Exec(
		`INSERT INTO golden_run (run_id, config_hash, recorded_unix_nanos, channels, pulses, samples, baseband_blob)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, configHash, recordedUnixNanos, channels, pulses, samples, blob,
	)
	if err != nil {
		return Golden{}, wrapSQLErr(err, "replay: insert golden record")
	}
	return Golden{RunID: runID, ConfigHash: configHash, RecordedUnixNanos: recordedUnixNanos, Baseband: bb}, nil
}

// Get returns the golden record for configHash, or (Golden{}, false, nil)
// if none has been recorded yet.
func (s *Store) Get(configHash string) (Golden, bool, error) {
	row := s.db.QueryRow(
		`SELECT run_id, recorded_unix_nanos, baseband_blob FROM golden_run WHERE config_hash = ?`,
		configHash,
	)
	var runID string
	var recorded int64
	var blob []byte
	if err := row.Scan(&runID, &recorded, &blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Golden{}, false, nil
		}
		return Golden{}, false, wrapSQLErr(err, "replay: query golden record")
	}
	bb, err := decodeBaseband(blob)
	if err != nil {
		return Golden{}, false, err
	}
	return Golden{RunID: runID, ConfigHash: configHash, RecordedUnixNanos: recorded, Baseband: bb}, true, nil
}
