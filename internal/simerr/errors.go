// Package simerr defines the typed error kinds the engine surfaces to
// callers, per the error-handling design: validation errors are raised at
// the entry boundary, runtime numeric errors abort the call.
package simerr

import (
	"errors"
	"fmt"
)

// Kind identifies which class of failure occurred.
type Kind int

const (
	// InvalidConfig covers shape or monotonicity violations in
	// waveform/timestamp arrays.
	InvalidConfig Kind = iota
	// MeshError covers non-triangular cells, degenerate triangles, or an
	// empty mesh.
	MeshError
	// MaterialError covers non-finite permittivity or permeability.
	MaterialError
	// TierLimit covers free-tier caps on target count, channel counts, or
	// mesh size.
	TierLimit
	// NumericError covers a non-finite intermediate value (NaN/Inf).
	// Always fatal.
	NumericError
	// DeviceError covers GPU allocation/kernel launch failure in the
	// original engine; in this CPU-only build it is only raised by the
	// optional replay store, for database open/migrate/query failures and
	// for stored-blob compression or decoding failures.
	DeviceError
)

func (k Kind) String() string {
	switch k {
	case InvalidConfig:
		return "InvalidConfig"
	case MeshError:
		return "MeshError"
	case MaterialError:
		return "MaterialError"
	case TierLimit:
		return "TierLimit"
	case NumericError:
		return "NumericError"
	case DeviceError:
		return "DeviceError"
	default:
		return "UnknownError"
	}
}

// Error is the engine's single error type; Kind selects the category a
// caller switches on, cause carries the underlying failure (if any).
type Error struct {
	Kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

// Unwrap exposes the wrapped cause so errors.Is/errors.As work across this
// boundary.
func (e *Error) Unwrap() error { return e.cause }

// New builds a Error with no wrapped cause.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap builds a Error that wraps cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...), cause: cause}
}

// Is reports whether err is, or wraps, a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
