// Package mesh implements the spectrum-driven mesh physics simulator: a
// deformable 2-D point grid driven by spring forces, neighbor coupling, and
// audio-spectrum impulses, advanced on a dedicated goroutine and handed to
// the render path through a double-buffered snapshot.
package mesh

import "math"

// vec is a 2-D vector in canvas space.
type vec struct {
	x, y float64
}

func (v vec) add(o vec) vec {
	return vec{v.x + o.x, v.y + o.y}
}

func (v vec) sub(o vec) vec {
	return vec{v.x - o.x, v.y - o.y}
}

func (v vec) scale(s float64) vec {
	return vec{v.x * s, v.y * s}
}

func (v vec) len() float64 {
	return math.Hypot(v.x, v.y)
}

func (v vec) lenSq() float64 {
	return v.x*v.x + v.y*v.y
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
