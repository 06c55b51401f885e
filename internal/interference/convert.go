package interference

import (
	"github.com/radarsimx/radarsimgo/internal/antenna"
	"github.com/radarsimx/radarsimgo/internal/config"
	"github.com/radarsimx/radarsimgo/internal/geom"
	"github.com/radarsimx/radarsimgo/internal/platform"
)

// toVec3, toMotion and the antenna-channel converters below mirror
// scheduler/convert.go's config-to-domain mapping. They are kept local
// rather than exported from scheduler so this front-end does not reach
// into the main synthesizer's internals for what is otherwise a handful
// of straight field copies.

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
	return antenna.Channel{
		Location:        c.Location,
		Polarization:    c.Polarization,
		Az:              az,
		El:              el,
		AntennaGainDB:   c.AntennaGainDB,
		DelaySeconds:    c.DelaySeconds,
		PulseModulation: c.PulseModulation,
	}, nil
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
