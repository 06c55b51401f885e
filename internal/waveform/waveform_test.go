package waveform

import (
	"math"
	"testing"
)

func TestNew_RejectsNonMonotoneT(t *testing.T) {
	_, err := New([]float64{0, 0}, []float64{1, 2}, []float64{0}, []float64{0})
	if err == nil {
		t.Fatal("expected error for non-increasing t")
	}
}

func TestFInst_LinearChirp(t *testing.T) {
	// 0 -> 1e9 Hz over 1e-6 s, single pulse with no offset.
	w, err := New([]float64{0, 1e-6}, []float64{0, 1e9}, []float64{0}, []float64{0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := w.FInst(0, 0.5e-6)
	want := 0.5e9
	if math.Abs(got-want) > 1e-3 {
		t.Errorf("FInst midpoint = %v, want %v", got, want)
	}
}

func TestPhase_ConstantFrequencyIsLinear(t *testing.T) {
	// Constant 1 GHz tone: phase(tau) should be 2*pi*f*tau exactly.
	w, err := New([]float64{0, 1e-6}, []float64{1e9, 1e9}, []float64{0}, []float64{0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tau := 0.3e-6
	got := w.Phase(0, tau)
	want := 2 * math.Pi * 1e9 * tau
	if math.Abs(got-want) > 1e-3 {
		t.Errorf("Phase = %v, want %v", got, want)
	}
}

func TestPhase_IncludesPulseOffset(t *testing.T) {
	w, err := New([]float64{0, 1e-6}, []float64{0, 0}, []float64{1e6, 2e6}, []float64{0, 10e-6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tau := 0.5e-6
	got := w.Phase(1, tau)
	want := 2 * math.Pi * 2e6 * tau
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("Phase(pulse=1) = %v, want %v", got, want)
	}
}

func TestCarrierFrequency(t *testing.T) {
	w, err := New([]float64{0, 1e-6}, []float64{77e9, 77.5e9}, []float64{0, 1e6}, []float64{0, 10e-6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := w.CarrierFrequency(1); got != 77e9+1e6 {
		t.Errorf("CarrierFrequency(1) = %v, want %v", got, 77e9+1e6)
	}
}
