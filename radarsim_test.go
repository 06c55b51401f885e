package radarsim

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/radarsimx/radarsimgo/internal/config"
	"github.com/radarsimx/radarsimgo/internal/scheduler"
)

func omniPattern() config.AntennaPattern {
	return config.AntennaPattern{AnglesRad: []float64{-math.Pi, 0, math.Pi}, GainDB: []float64{0, 0, 0}}
}

func testRadar(originX float64) config.Radar {
	ch := config.Channel{AzPattern: omniPattern(), ElPattern: omniPattern()}
	return config.Radar{
		Transmitter: config.Transmitter{
			TxPowerDBm:       10,
			F:                []float64{76e9, 76.1e9},
			T:                []float64{0, 10e-6},
			FOffset:          []float64{0},
			PulseStartTime:   []float64{0},
			Pulses:           1,
			DensityPerLambda: 1,
			Channels:         []config.Channel{ch},
		},
		Receiver: config.Receiver{
			FS:       20e6,
			BBType:   config.BasebandComplex,
			Channels: []config.Channel{ch},
		},
		Motion:     config.Motion{Location: [3]float64{originX, 0, 0}},
		FrameTimes: []float64{0},
	}
}

func pointTarget(z float64) config.Target {
	return config.Target{Point: &config.PointTarget{
		Location: [3]float64{0, 0, z},
		RCS:      []float64{1},
		Phase:    []float64{0},
	}}
}

// unitPlate faces -Z, matching the RCS front-end's Monostatic(theta=0)
// sensor placement at -Z: winding {0,2,1},{0,3,2} puts the normal along -Z.
func unitPlate() config.Target {
	verts := [][3]float64{{-0.5, -0.5, 0}, {0.5, -0.5, 0}, {0.5, 0.5, 0}, {-0.5, 0.5, 0}}
	tris := [][3]int{{0, 2, 1}, {0, 3, 2}}
	return config.Target{Mesh: &config.MeshTarget{
		Model:        config.MeshData{Vertices: verts, Triangles: tris},
		Unit:         config.UnitMeter,
		Permittivity: config.Permittivity{Kind: config.PermittivityPEC},
	}}
}

func vPol() [3]complex128 {
	return [3]complex128{0, complex(1, 0), 0}
}

func TestSimRadar_PointTarget(t *testing.T) {
	cfg := testRadar(0)
	targets := []config.Target{pointTarget(100)}
	res, err := SimRadar(cfg, targets, RunOptions{Samples: 4, Level: scheduler.LevelSample})
	if err != nil {
		t.Fatalf("SimRadar: %v", err)
	}
	if len(res.Baseband) != 1 || len(res.Baseband[0][0]) != 4 {
		t.Fatalf("unexpected baseband shape: %+v", res.Baseband)
	}
	if res.Interference != nil {
		t.Fatalf("expected no interference tensor without an Interferer set")
	}
}

func TestSimRadar_WithInterferer(t *testing.T) {
	victim := testRadar(0)
	emitter := testRadar(100)
	res, err := SimRadar(victim, nil, RunOptions{Samples: 4, Level: scheduler.LevelSample, Interferer: &emitter})
	if err != nil {
		t.Fatalf("SimRadar: %v", err)
	}
	if res.Interference == nil {
		t.Fatal("expected an interference tensor when Interferer is set")
	}
	if len(res.Interference) != 1 || len(res.Interference[0][0]) != 4 {
		t.Fatalf("unexpected interference shape: %+v", res.Interference)
	}
}

// plateAt faces -Z, toward the radar at the origin (below the plate):
// winding {0,2,1},{0,3,2} puts the normal along -Z.
func plateAt(z float64) config.Target {
	verts := [][3]float64{{-1, -1, z}, {1, -1, z}, {1, 1, z}, {-1, 1, z}}
	tris := [][3]int{{0, 2, 1}, {0, 3, 2}}
	return config.Target{Mesh: &config.MeshTarget{
		Model:        config.MeshData{Vertices: verts, Triangles: tris},
		Unit:         config.UnitMeter,
		Permittivity: config.Permittivity{Kind: config.PermittivityPEC},
	}}
}

func TestSimRadar_DebugRayLog(t *testing.T) {
	cfg := testRadar(0)
	targets := []config.Target{plateAt(50)}
	logPath := filepath.Join(t.TempDir(), "rays.ndjson")
	_, err := SimRadar(cfg, targets, RunOptions{Samples: 2, Level: scheduler.LevelFrame, Debug: true, LogPath: logPath})
	if err != nil {
		t.Fatalf("SimRadar: %v", err)
	}
	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("expected a ray log file: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("expected a non-empty ray log")
	}
}

func TestSimRCS_Monostatic(t *testing.T) {
	targets := []config.Target{unitPlate()}
	req := RCSRequest{
		FrequencyHz:      77e9,
		DensityPerLambda: 10,
		Pairs: []DirectionPair{
			{IncidentPhi: 0, IncidentTheta: 0, IncidentPolarization: vPol(), ObserverPhi: math.Pi, ObserverTheta: math.Pi, ObserverPolarization: vPol()},
			{IncidentPhi: 0, IncidentTheta: math.Pi / 2, IncidentPolarization: vPol(), ObserverPhi: math.Pi, ObserverTheta: math.Pi / 2, ObserverPolarization: vPol()},
		},
	}
	res, err := SimRCS(targets, req)
	if err != nil {
		t.Fatalf("SimRCS: %v", err)
	}
	if len(res.Sigma) != 2 {
		t.Fatalf("len(Sigma) = %d, want 2", len(res.Sigma))
	}
	if res.Sigma[0] <= 0 {
		t.Errorf("broadside sigma = %v, want > 0", res.Sigma[0])
	}
	if res.Sigma[1] != 0 {
		t.Errorf("grazing sigma = %v, want 0", res.Sigma[1])
	}
}

func TestSimLidar_HitsPlate(t *testing.T) {
	// Faces -Z, toward the sensor at the origin below it.
	verts := [][3]float64{{-5, -5, 10}, {5, -5, 10}, {5, 5, 10}, {-5, 5, 10}}
	tris := [][3]int{{0, 2, 1}, {0, 3, 2}}
	targets := []config.Target{{Mesh: &config.MeshTarget{
		Model: config.MeshData{Vertices: verts, Triangles: tris},
		Unit:  config.UnitMeter,
	}}}
	rays, err := SimLidar(config.Pose{}, []float64{0}, []float64{0}, targets)
	if err != nil {
		t.Fatalf("SimLidar: %v", err)
	}
	if len(rays) != 1 || !rays[0].Hit {
		t.Fatalf("expected a hit, got %+v", rays)
	}
}
