package motion

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// SpringConfig describes a spring by friction and tension with unit mass.
type SpringConfig struct {
	Friction float64
	Tension  float64
}

// Params converts the config into harmonica's angular frequency and
// damping ratio.
func (c SpringConfig) Params() (frequency, damping float64) {
	if c.Tension <= 0 {
		return 0, 1
	}
	frequency = math.Sqrt(c.Tension)
	damping = c.Friction / (2 * frequency)
	return frequency, damping
}

const (
	axisX = iota
	axisY
	axisRot
	axes
)

// springField integrates the three transform axes with one spring. The
// spring coefficients depend on the frame delta, so they are rebuilt only
// when the delta or the profile changes.
type springField struct {
	cfg    SpringConfig
	dt     time.Duration
	spring harmonica.Spring
	pos    [axes]float64
	vel    [axes]float64
}

func (s *springField) configure(cfg SpringConfig, dt time.Duration) {
	if cfg == s.cfg && dt == s.dt {
		return
	}
	s.cfg = cfg
	s.dt = dt
	freq, damping := cfg.Params()
	s.spring = harmonica.NewSpring(dt.Seconds(), freq, damping)
}

func (s *springField) step(i int, target float64) float64 {
	p, v := s.spring.Update(s.pos[i], s.vel[i], target)
	s.pos[i] = p
	s.vel[i] = v
	return p
}

// stop zeroes all velocities, keeping positions.
func (s *springField) stop() {
	s.vel = [axes]float64{}
}

func (s *springField) load(t Transform) {
	s.pos = [axes]float64{t.X, t.Y, t.Rot}
}

func (s *springField) transform() Transform {
	return Transform{X: s.pos[axisX], Y: s.pos[axisY], Rot: s.pos[axisRot]}
}

func (s *springField) atRest(target Transform, delta, velocity float64) bool {
	want := [axes]float64{target.X, target.Y, target.Rot}
	for i := range axes {
		if math.Abs(s.pos[i]-want[i]) > delta || math.Abs(s.vel[i]) > velocity {
			return false
		}
	}
	return true
}
