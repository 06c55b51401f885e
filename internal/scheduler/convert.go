package scheduler

import (
	"github.com/radarsimx/radarsimgo/internal/antenna"
	"github.com/radarsimx/radarsimgo/internal/config"
	"github.com/radarsimx/radarsimgo/internal/geom"
	"github.com/radarsimx/radarsimgo/internal/mesh"
	"github.com/radarsimx/radarsimgo/internal/platform"
	"github.com/radarsimx/radarsimgo/internal/scatterer"
)

func toVec3(a [3]float64) geom.Vec3 {
	return geom.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

func toGrid(g [][][][3]float64) [][][]geom.Vec3 {
	if g == nil {
		return nil
	}
	out := make([][][]geom.Vec3, len(g))
	for i, byPulse := range g {
		out[i] = make([][]geom.Vec3, len(byPulse))
		for j, bySample := range byPulse {
			out[i][j] = make([]geom.Vec3, len(bySample))
			for k, v := range bySample {
				out[i][j][k] = toVec3(v)
			}
		}
	}
	return out
}

func toMotion(m config.Motion) platform.Motion {
	return platform.Motion{
		Location:     toVec3(m.Location),
		Speed:        toVec3(m.Speed),
		RotationRad:  toVec3(m.RotationRad),
		RotationRate: toVec3(m.RotationRate),
		LocationGrid: toGrid(m.LocationGrid),
		RotationGrid: toGrid(m.RotationGrid),
	}
}

func toPattern(p config.AntennaPattern) (*antenna.Pattern, error) {
	if len(p.AnglesRad) == 0 {
		return nil, nil
	}
	return antenna.NewPattern(p.AnglesRad, p.GainDB)
}

func toAntennaChannel(c config.Channel) (antenna.Channel, error) {
	az, err := toPattern(c.AzPattern)
	if err != nil {
		return antenna.Channel{}, err
	}
	el, err := toPattern(c.ElPattern)
	if err != nil {
		return antenna.Channel{}, err
	}
	ch := antenna.Channel{
		Location:      c.Location,
		Polarization:  c.Polarization,
		Az:            az,
		El:            el,
		AntennaGainDB: c.AntennaGainDB,
		DelaySeconds:  c.DelaySeconds,
		PulseModulation: c.PulseModulation,
	}
	if c.WaveformMod.Enabled {
		ch.WaveformModT = c.WaveformMod.T
		ch.WaveformModVar = c.WaveformMod.Var
	}
	return ch, nil
}

func toAntennaChannels(cs []config.Channel) ([]antenna.Channel, error) {
	out := make([]antenna.Channel, len(cs))
	for i, c := range cs {
		ch, err := toAntennaChannel(c)
		if err != nil {
			return nil, err
		}
		out[i] = ch
	}
	return out, nil
}

// buildMeshTarget converts a validated config.MeshTarget into an
// internal mesh.Target, applying the free-tier mesh size check is the
// caller's responsibility (done during config.Target.Validate).
func buildMeshTarget(index int, t config.MeshTarget) (*mesh.Target, error) {
	mat := t.Permittivity.Resolve(t.Permeability())
	return mesh.New(index, t.Model, t.Unit, toVec3(t.Origin), toMotion(t.Motion), mat, t.SkipDiffusion)
}

// BuildMeshTargets converts every mesh-kind entry of targets into an
// internal mesh.Target, skipping point targets. Front-ends that only
// need geometry (rcs, lidar, interference) share this helper instead of
// duplicating the config-to-mesh conversion.
func BuildMeshTargets(targets []config.Target) ([]*mesh.Target, error) {
	var out []*mesh.Target
	for i, t := range targets {
		if t.Mesh == nil {
			continue
		}
		m, err := buildMeshTarget(i, *t.Mesh)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// buildPointTarget converts a validated config.PointTarget into an
// internal scatterer.Point. When LocationGrid is supplied it is flattened
// in (ch, pulse, sample) row-major order to match the flattened sample
// index scatterer.Point.PositionAt expects; otherwise the scalar Location
// broadcasts to every sample (scatterer.Point's length-1 convention).
func buildPointTarget(index int, t config.PointTarget) (*scatterer.Point, error) {
	positions := []geom.Vec3{toVec3(t.Location)}
	if t.LocationGrid != nil {
		positions = nil
		for _, byPulse := range t.LocationGrid {
			for _, bySample := range byPulse {
				for _, v := range bySample {
					positions = append(positions, toVec3(v))
				}
			}
		}
	}
	return scatterer.New(index, positions, toVec3(t.Speed), t.RCS, t.Phase)
}
