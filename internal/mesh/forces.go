package mesh

import (
	"math"
	"runtime"
	"sync"
)

// zero-length guard for direction vectors; coincident nodes contribute no
// cohesion or wave force instead of dividing by zero.
const distEpsilon = 1e-9

// forceContext carries everything the per-node force computation reads.
// All fields are read-only during accumulation, and forces[i] is written
// only by the iteration that owns index i, so the fan-out is a pure
// data-parallel map.
type forceContext struct {
	g        *grid
	columns  []float64
	simTime  float64
	advanced bool
	tun      *Tuning
	forces   []vec
}

// accumulate recomputes the per-node force accumulator from scratch: spring
// return to rest, neighbor cohesion, the spectrum impulse for the node's
// column, and (advanced effects only) the ambient radial wave. Above the
// parallel threshold the node range fans out across worker goroutines.
func accumulate(ctx *forceContext) {
	n := len(ctx.g.nodes)
	if n == 0 {
		return
	}

	if n < ctx.tun.ParallelThreshold {
		accumulateRange(ctx, 0, n)
		return
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			accumulateRange(ctx, lo, hi)
		}(start, end)
	}
	wg.Wait()
}

// accumulateRange computes forces for nodes [lo, hi).
func accumulateRange(ctx *forceContext, lo, hi int) {
	g := ctx.g
	tun := ctx.tun
	cols := g.cols
	center := float64(cols-1) / 2
	halfWidth := center
	if halfWidth < 1 {
		halfWidth = 1
	}
	meshCenter := vec{x: g.width / 2, y: g.height / 2}

	for i := lo; i < hi; i++ {
		nd := &g.nodes[i]
		var f vec

		// Spring back to the rest anchor.
		f = f.add(nd.rest.sub(nd.pos).scale(tun.SpringStiffness))

		// Neighbor cohesion: a normalized distance-error spring between
		// moving points, independent of the rest anchor, so the mesh
		// flexes collectively instead of each node recovering alone.
		for _, j := range nd.neighbors {
			other := &g.nodes[j]
			d := other.pos.sub(nd.pos)
			dist := d.len()
			restDist := other.rest.sub(nd.rest).len()
			if dist < distEpsilon || restDist < distEpsilon {
				continue
			}
			err := (dist - restDist) / restDist
			err = clamp(err, -tun.CohesionErrorLimit, tun.CohesionErrorLimit)
			f = f.add(d.scale(tun.NeighborStiffness * err / dist))
		}

		// Spectrum impulse for this node's column, strongest toward the
		// horizontal center of the mesh.
		col := i % cols
		if col < len(ctx.columns) {
			s := ctx.columns[col]
			if s != 0 {
				weight := 1 - math.Abs(float64(col)-center)/halfWidth
				f.y -= s * tun.ImpulseScale * weight
				if ctx.advanced && cols > 1 {
					f.x += (float64(col)/float64(cols-1) - 0.5) * s * tun.HorizontalImpulseScale
				}
			}
		}

		// Ambient radial ripple, independent of the audio input.
		if ctx.advanced {
			d := nd.pos.sub(meshCenter)
			dist := d.len()
			if dist > distEpsilon {
				mag := math.Sin(ctx.simTime*tun.WaveSpeed+dist*tun.WaveFrequency) * tun.WaveAmplitude
				f = f.add(d.scale(mag / dist))
			}
		}

		ctx.forces[i] = f
	}
}
