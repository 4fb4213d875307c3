package mesh

import (
	"math"

	"github.com/soundmesh/soundmesh/internal/domain"
)

// Minimum viable grid. Degenerate rebuild requests (zero budget, negative
// canvas) clamp to this instead of failing; visual degradation is preferred
// over a crash.
const (
	minCols = 3
	minRows = 2
)

// node is a single simulated point in the deformable grid.
//
// pos and vel are owned exclusively by the simulation goroutine during a
// step. rest is immutable after the grid is built. neighbors holds indices
// into the grid's node slice — back-references for force lookups, never
// ownership. Node indices are stable for the lifetime of one mesh
// generation; the arena is replaced wholesale on rebuild.
type node struct {
	pos       vec
	rest      vec
	vel       vec
	neighbors []int32
}

// gridKey captures the inputs that force a rebuild when they change.
type gridKey struct {
	width    float64
	height   float64
	barCount int
	level    domain.QualityLevel
	budget   int
}

// grid owns the node topology of the mesh.
type grid struct {
	nodes      []node
	cols       int
	rows       int
	width      float64
	height     float64
	spacing    float64 // average lattice spacing, used to normalize brightness
	generation uint64
	key        gridKey
	built      bool
}

// rebuild resizes and rewires the grid for the given canvas, bar count,
// profile, and node budget. It is a no-op returning false when nothing
// relevant changed since the last rebuild; on an actual rebuild all
// velocities reset to zero, the generation increments, and it returns true.
func (g *grid) rebuild(width, height float64, barCount int, profile domain.QualityProfile, budget int) bool {
	key := gridKey{
		width:    width,
		height:   height,
		barCount: barCount,
		level:    profile.Level,
		budget:   budget,
	}
	if g.built && key == g.key {
		return false
	}

	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	if budget < minCols*minRows {
		budget = minCols * minRows
	}

	cols := barCount
	if cols > profile.MaxColumns {
		cols = profile.MaxColumns
	}
	if cols < minCols {
		cols = minCols
	}
	rows := int(float64(cols) * height / width)

	// Scale both dimensions down proportionally when the naive grid would
	// blow the node budget. This keeps the simulation cost bounded no
	// matter how large the window gets.
	if cols*rows > budget {
		scale := math.Sqrt(float64(budget) / float64(cols*rows))
		cols = int(float64(cols) * scale)
		rows = int(float64(rows) * scale)
	}
	if cols < minCols {
		cols = minCols
	}
	if rows < minRows {
		rows = minRows
	}

	stepX := width / float64(cols+1)
	stepY := height / float64(rows+1)

	nodes := make([]node, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			rest := vec{
				x: float64(c+1) * stepX,
				y: float64(r+1) * stepY,
			}
			nodes[r*cols+c] = node{
				pos:  rest,
				rest: rest,
			}
		}
	}
	wireNeighbors(nodes, cols, rows, profile.DiagonalNeighbors)

	g.nodes = nodes
	g.cols = cols
	g.rows = rows
	g.width = width
	g.height = height
	g.spacing = (stepX + stepY) / 2
	g.generation++
	g.key = key
	g.built = true
	return true
}

// wireNeighbors builds the adjacency lists: cardinal neighbors always,
// diagonal neighbors only when the profile enables advanced wiring. The
// relation is symmetric by construction since every node records every
// in-bounds offset.
func wireNeighbors(nodes []node, cols, rows int, diagonal bool) {
	offsets := [][2]int{
		{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	}
	if diagonal {
		offsets = append(offsets,
			[2]int{-1, -1}, [2]int{1, -1}, [2]int{-1, 1}, [2]int{1, 1})
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			idx := r*cols + c
			list := make([]int32, 0, len(offsets))
			for _, off := range offsets {
				nc, nr := c+off[0], r+off[1]
				if nc < 0 || nc >= cols || nr < 0 || nr >= rows {
					continue
				}
				list = append(list, int32(nr*cols+nc))
			}
			nodes[idx].neighbors = list
		}
	}
}

// nodeCount returns the number of nodes in the current generation.
func (g *grid) nodeCount() int {
	return len(g.nodes)
}

// kineticEnergy sums 0.5*|v|^2 over all nodes (unit mass).
func (g *grid) kineticEnergy() float64 {
	var e float64
	for i := range g.nodes {
		e += 0.5 * g.nodes[i].vel.lenSq()
	}
	return e
}

// fillSnapshot writes the current node state into snap, growing its slices
// as needed. The caller owns snap exclusively (it is the handoff write
// buffer, never the published one).
func (g *grid) fillSnapshot(snap *domain.MeshSnapshot) {
	n := len(g.nodes)
	// Fresh arrays on a new generation: readers from the old generation may
	// still hold the recycled buffer's slices, and reusing them would let a
	// reader observe a node count changing mid-array.
	if cap(snap.Positions) < n || snap.Generation != g.generation {
		snap.Positions = make([]domain.Point, n)
		snap.Brightness = make([]float64, n)
	}
	snap.Positions = snap.Positions[:n]
	snap.Brightness = snap.Brightness[:n]

	norm := 1.0
	if g.spacing > 0 {
		norm = 1.0 / g.spacing
	}
	for i := range g.nodes {
		nd := &g.nodes[i]
		snap.Positions[i] = domain.Point{X: nd.pos.x, Y: nd.pos.y}
		snap.Brightness[i] = clamp(nd.pos.sub(nd.rest).len()*norm, 0, 1)
	}
	snap.Cols = g.cols
	snap.Rows = g.rows
	snap.Generation = g.generation
}
