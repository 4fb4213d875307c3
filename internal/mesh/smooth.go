package mesh

import "github.com/charmbracelet/harmonica"

// columnSmoother runs each reduced spectrum column through a damped spring
// so impulses attack and decay organically instead of stepping between
// frames. One spring parameter set is shared by all columns; position and
// velocity are tracked per column.
type columnSmoother struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
}

const (
	smootherRate      = 60
	smootherFrequency = 9.0
	smootherDamping   = 0.85
)

func newColumnSmoother() *columnSmoother {
	return &columnSmoother{
		spring: harmonica.NewSpring(harmonica.FPS(smootherRate), smootherFrequency, smootherDamping),
	}
}

// resize adjusts the tracked column count, resetting state when the mesh
// topology changes.
func (s *columnSmoother) resize(n int) {
	if len(s.pos) == n {
		return
	}
	s.pos = make([]float64, n)
	s.vel = make([]float64, n)
}

// step advances every column toward its target and writes the smoothed
// values back into cols in place.
func (s *columnSmoother) step(cols []float64) {
	s.resize(len(cols))
	for i, target := range cols {
		p, v := s.spring.Update(s.pos[i], s.vel[i], target)
		s.pos[i] = p
		s.vel[i] = v
		cols[i] = p
	}
}

// reset zeroes all spring state.
func (s *columnSmoother) reset() {
	for i := range s.pos {
		s.pos[i] = 0
		s.vel[i] = 0
	}
}
