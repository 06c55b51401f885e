package simerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapUnwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap(MeshError, cause, "triangle %d degenerate", 3)

	if !Is(err, MeshError) {
		t.Fatalf("expected MeshError, got %v", err)
	}
	if Is(err, TierLimit) {
		t.Fatalf("expected not TierLimit")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected Unwrap to expose cause")
	}
}

func TestNewNoCause(t *testing.T) {
	err := New(NumericError, "NaN detected at sample %d", 42)
	if !Is(err, NumericError) {
		t.Fatalf("expected NumericError, got %v", err)
	}
	if err.Unwrap() != nil {
		t.Fatalf("expected nil cause")
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		InvalidConfig: "InvalidConfig",
		MeshError:     "MeshError",
		MaterialError: "MaterialError",
		TierLimit:     "TierLimit",
		NumericError:  "NumericError",
		DeviceError:   "DeviceError",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
