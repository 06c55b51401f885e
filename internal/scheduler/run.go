package scheduler

import (
	"context"
	"math"
	"runtime"

	"github.com/alitto/pond"

	"github.com/radarsimx/radarsimgo/internal/antenna"
	"github.com/radarsimx/radarsimgo/internal/config"
	"github.com/radarsimx/radarsimgo/internal/geom"
	"github.com/radarsimx/radarsimgo/internal/mesh"
	"github.com/radarsimx/radarsimgo/internal/physopt"
	"github.com/radarsimx/radarsimgo/internal/platform"
	"github.com/radarsimx/radarsimgo/internal/raytrace"
	"github.com/radarsimx/radarsimgo/internal/scatterer"
	"github.com/radarsimx/radarsimgo/internal/simerr"
	"github.com/radarsimx/radarsimgo/internal/synth"
	"github.com/radarsimx/radarsimgo/internal/waveform"
)

const speedOfLight = 299792458.0

// RayRecord is one traced primary ray, matching spec.md §6's log_path
// schema: "(t, frame, tx, pulse, sample, origin[3], direction[3],
// reflections)". It is emitted once per primary ray actually traced (not
// once per sample that merely reuses a cached snapshot), so the log
// volume tracks the fidelity level rather than the full sample grid.
type RayRecord struct {
	Time                     float64
	Frame, TxChannel, Pulse, Sample int
	Origin, Direction        [3]float64
	Reflections              int
	SnapshotID               string
}

// RayLogger receives one RayRecord per primary ray traced when a debug
// ray log is requested (spec.md §6's log_path feature); package raylog
// implements the concrete ND-JSON writer.
type RayLogger interface {
	LogRay(rec RayRecord)
}

// Params bundles the inputs to Run beyond the radar/target configs, per
// spec.md §6's sim_radar signature (frame_time is carried on cfg.FrameTimes
// already; ray_filter/interf are handled by the caller via ReflectionCap
// and the separate interference package).
type Params struct {
	Level          Level
	Samples        int
	ReflectionCap  int // 0 selects raytrace.DefaultOptions()'s cap
	IsFreeTier     bool
	Logger         RayLogger
}

// Result is the dense output of one Run call (spec.md §3's baseband
// tensor plus the reported noise amplitude and timestamp tensor).
type Result struct {
	Baseband  [][][]complex128 // [ch][pulse][sample]
	NoiseSigma [][][]float64
	Timestamp [][][]float64
}

// Run executes the full scheduler/synthesizer pipeline of spec.md
// §4.6/§4.10: it builds the scene once per fidelity cadence, fans the
// per-(channel,pulse) rows out over a fixed-size worker pool, and fills
// the baseband tensor.
func Run(ctx context.Context, cfg config.Radar, targets []config.Target, params Params) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if err := config.ValidateTargets(targets, params.IsFreeTier); err != nil {
		return Result{}, err
	}
	if params.Samples <= 0 {
		return Result{}, simerr.New(simerr.InvalidConfig, "scheduler: samples must be positive")
	}

	txCfgChannels := cfg.Transmitter.Channels
	rxCfgChannels := cfg.Receiver.Channels
	txCount, rxCount := len(txCfgChannels), len(rxCfgChannels)
	frames := len(cfg.FrameTimes)
	pulses := cfg.Transmitter.Pulses
	numCh := frames * txCount * rxCount

	antTx, err := toAntennaChannels(txCfgChannels)
	if err != nil {
		return Result{}, err
	}
	antRx, err := toAntennaChannels(rxCfgChannels)
	if err != nil {
		return Result{}, err
	}

	wf, err := waveform.New(cfg.Transmitter.T, cfg.Transmitter.F, cfg.Transmitter.FOffset, cfg.Transmitter.PulseStartTime)
	if err != nil {
		return Result{}, err
	}

	channelDelay := make([]float64, numCh)
	for ch := 0; ch < numCh; ch++ {
		_, tx, rx := decomposeChannel(ch, txCount, rxCount)
		channelDelay[ch] = antTx[tx].DelaySeconds + antRx[rx].DelaySeconds
	}
	ts, err := platform.Timestamps(cfg.FrameTimes, cfg.Transmitter.PulseStartTime, cfg.Receiver.FS, params.Samples, channelDelay, txCount, rxCount)
	if err != nil {
		return Result{}, err
	}

	meshTargets, pointTargets, err := buildTargets(targets)
	if err != nil {
		return Result{}, err
	}
	radarMotion := toMotion(cfg.Motion)

	opts := raytrace.DefaultOptions()
	if params.ReflectionCap > 0 {
		opts.ReflectionCap = params.ReflectionCap
	}

	result := Result{
		Baseband:   make([][][]complex128, numCh),
		NoiseSigma: make([][][]float64, numCh),
		Timestamp:  ts,
	}
	noiseSigma := ThermalNoiseAmplitude(cfg.Receiver.BasebandBW, cfg.Receiver.LoadOhms, cfg.Receiver.BasebandGainDB)
	for ch := 0; ch < numCh; ch++ {
		result.Baseband[ch] = make([][]complex128, pulses)
		result.NoiseSigma[ch] = make([][]float64, pulses)
		for p := 0; p < pulses; p++ {
			result.Baseband[ch][p] = make([]complex128, params.Samples)
			row := make([]float64, params.Samples)
			for s := range row {
				row[s] = noiseSigma
			}
			result.NoiseSigma[ch][p] = row
		}
	}

	store := NewStore()
	n := runtime.NumCPU()
	if n > numCh*pulses {
		n = numCh * pulses
	}
	if n < 1 {
		n = 1
	}
	pool := pond.New(n, 0, pond.MinWorkers(n), pond.Context(ctx))
	defer pool.StopAndWait()

	for ch := 0; ch < numCh; ch++ {
		ch := ch
		frame, tx, rx := decomposeChannel(ch, txCount, rxCount)
		for p := 0; p < pulses; p++ {
			p := p
			pool.Submit(func() {
				runRow(rowParams{
					cfg: cfg, wf: wf, antTx: antTx, antRx: antRx,
					meshTargets: meshTargets, pointTargets: pointTargets,
					radarMotion: radarMotion, store: store, opts: opts,
					level: params.Level,
					frame: frame, tx: tx, rx: rx, ch: ch, p: p,
					numCh: numCh, pulses: pulses, logger: params.Logger,
				}, ts[ch][p], result.Baseband[ch][p])
			})
		}
	}

	return result, nil
}

type rowParams struct {
	cfg          config.Radar
	wf           *waveform.Waveform
	antTx, antRx []antenna.Channel
	meshTargets  []*mesh.Target
	pointTargets []*scatterer.Point
	radarMotion  platform.Motion
	store        *Store
	opts         raytrace.Options
	level        Level
	frame, tx, rx, ch, p, numCh, pulses int
	logger RayLogger
}

func runRow(rp rowParams, tsRow []float64, out []complex128) {
	link := synth.Link{
		Tx: rp.antTx[rp.tx], Rx: rp.antRx[rp.rx],
		Waveform: rp.wf, TxPowerDBm: rp.cfg.Transmitter.TxPowerDBm,
		RFGainDB: rp.cfg.Receiver.RFGainDB, BasebandGainDB: rp.cfg.Receiver.BasebandGainDB,
		BBType: rp.cfg.Receiver.BBType,
	}
	frameStart := rp.cfg.FrameTimes[rp.frame]
	pulseStart := rp.cfg.Transmitter.PulseStartTime[rp.p]

	for s, t := range tsRow {
		tau := t - frameStart - pulseStart

		txPos, txRot := channelWorldPose(rp.radarMotion, rp.antTx[rp.tx].Location, rp.ch, rp.p, s, t)
		rxPos, rxRot := channelWorldPose(rp.radarMotion, rp.antRx[rp.rx].Location, rp.ch, rp.p, s, t)
		g := synth.Geometry{TxPos: txPos, RxPos: rxPos, TxRot: txRot, RxRot: rxRot}

		phaseNoise := complex(1.0, 0)
		if pn := rp.cfg.Transmitter.PhaseNoise; pn != nil {
			phaseNoise = pn[rp.ch][rp.p][s]
		}

		flatIdx := rp.ch*rp.pulses*len(tsRow) + rp.p*len(tsRow) + s
		contribs := make([]complex128, 0, len(rp.pointTargets)+1)
		for _, pt := range rp.pointTargets {
			contribs = append(contribs, synth.Point(link, g, pt, flatIdx, rp.p, tau, phaseNoise))
		}

		if len(rp.meshTargets) > 0 {
			key := KeyFor(rp.level, rp.frame, rp.tx, rp.p, s)
			lambda := speedOfLight / rp.wf.CarrierFrequency(rp.p)
			incident := rotateField(txRot, rp.antTx[rp.tx].Polarization)
			observer := rotateField(rxRot, rp.antRx[rp.rx].Polarization)
			ptx := math.Pow(10, (rp.cfg.Transmitter.TxPowerDBm-30)/10)
			incident = physopt.Scale(incident, complex(math.Sqrt(ptx), 0))

			compiled := rp.store.Compile(context.Background(), key, rp.meshTargets, txPos, rp.ch, rp.p, s, t,
				lambda, rp.cfg.Transmitter.DensityPerLambda, incident, observer, rp.opts, rp.frame, rp.tx, rp.logger)
			contribs = append(contribs, synth.Ray(link, synth.RayContribution{Amplitude: compiled.Amplitude, RangeSum: compiled.RangeSum}, rp.p, tau, phaseNoise))
		}

		out[s] = synth.Accumulate(contribs...)
	}
}

func decomposeChannel(ch, txCount, rxCount int) (frame, tx, rx int) {
	perFrame := txCount * rxCount
	if perFrame == 0 {
		return 0, 0, 0
	}
	frame = ch / perFrame
	rem := ch % perFrame
	tx = rem / rxCount
	rx = rem % rxCount
	return
}

func channelWorldPose(m platform.Motion, local [3]float64, ch, p, s int, t float64) (geom.Vec3, geom.Mat3) {
	loc, rot := m.PoseAt(ch, p, s, t)
	pos := geom.Add(rot.Apply(toVec3(local)), loc)
	return pos, rot
}

func rotateField(rot geom.Mat3, pol [3]complex128) physopt.Field {
	re := geom.Vec3{X: real(pol[0]), Y: real(pol[1]), Z: real(pol[2])}
	im := geom.Vec3{X: imag(pol[0]), Y: imag(pol[1]), Z: imag(pol[2])}
	rRe, rIm := rot.Apply(re), rot.Apply(im)
	return physopt.Field{
		X: complex(rRe.X, rIm.X),
		Y: complex(rRe.Y, rIm.Y),
		Z: complex(rRe.Z, rIm.Z),
	}
}

func buildTargets(targets []config.Target) ([]*mesh.Target, []*scatterer.Point, error) {
	var meshTargets []*mesh.Target
	var pointTargets []*scatterer.Point
	for i, tgt := range targets {
		switch {
		case tgt.Mesh != nil:
			m, err := buildMeshTarget(i, *tgt.Mesh)
			if err != nil {
				return nil, nil, err
			}
			meshTargets = append(meshTargets, m)
		case tgt.Point != nil:
			pt, err := buildPointTarget(i, *tgt.Point)
			if err != nil {
				return nil, nil, err
			}
			pointTargets = append(pointTargets, pt)
		}
	}
	return meshTargets, pointTargets, nil
}
