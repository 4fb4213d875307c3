package mesh

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundmesh/soundmesh/internal/domain"
)

func TestHandoff_EmptyBeforeFirstPublish(t *testing.T) {
	h := newHandoff()
	_, ok := h.acquire()
	assert.False(t, ok)
}

func TestHandoff_PublishReturnsDistinctWriteBuffer(t *testing.T) {
	h := newHandoff()

	w := h.writeBuffer()
	next := h.publish(w)
	require.NotSame(t, w, next, "producer must never write into a published buffer")

	next2 := h.publish(next)
	assert.NotSame(t, next, next2)

	latest, ok := h.acquire()
	require.True(t, ok)
	assert.Equal(t, *next, latest)
}

func TestHandoff_GracePeriodCoversOnePublish(t *testing.T) {
	h := newHandoff()

	// Publish A, reader acquires it, then B is published. A's arrays must
	// survive untouched because A is in the grace role.
	a := h.writeBuffer()
	a.Positions = []domain.Point{{X: 1, Y: 1}}
	a.Cols, a.Rows = 1, 1
	a.Generation = 1

	b := h.publish(a)
	held, ok := h.acquire()
	require.True(t, ok)
	aPositions := held.Positions

	b.Positions = []domain.Point{{X: 2, Y: 2}}
	b.Cols, b.Rows = 1, 1
	b.Generation = 2
	h.publish(b)

	assert.Equal(t, domain.Point{X: 1, Y: 1}, aPositions[0])
}

// Alternating topologies under concurrent publish and acquire: every
// acquired snapshot must be internally consistent, with array lengths
// matching its own grid dimensions. Torn reads would show up as a length
// mismatch or a mixed sentinel value.
func TestHandoff_NoTornSnapshotsAcrossRebuilds(t *testing.T) {
	h := newHandoff()
	stop := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		write := h.writeBuffer()
		gen := uint64(0)
		for {
			select {
			case <-stop:
				return
			default:
			}
			gen++
			cols, rows := 3, 2
			if gen%2 == 0 {
				cols, rows = 5, 4
			}
			n := cols * rows
			// Mirrors fillSnapshot: fresh arrays per generation.
			if cap(write.Positions) < n || write.Generation != gen {
				write.Positions = make([]domain.Point, n)
				write.Brightness = make([]float64, n)
			}
			write.Positions = write.Positions[:n]
			write.Brightness = write.Brightness[:n]
			for i := range write.Positions {
				write.Positions[i] = domain.Point{X: float64(gen), Y: float64(gen)}
			}
			write.Cols, write.Rows = cols, rows
			write.Generation = gen
			write = h.publish(write)
		}
	}()

	deadline := time.After(200 * time.Millisecond)
	for {
		select {
		case <-deadline:
			close(stop)
			wg.Wait()
			return
		default:
		}
		snap, ok := h.acquire()
		if !ok {
			continue
		}
		require.Equal(t, snap.Cols*snap.Rows, len(snap.Positions),
			"generation %d: positions length does not match topology", snap.Generation)
		require.Equal(t, len(snap.Positions), len(snap.Brightness))
		want := domain.Point{X: float64(snap.Generation), Y: float64(snap.Generation)}
		for i := range snap.Positions {
			require.Equal(t, want, snap.Positions[i],
				"generation %d: node %d holds a foreign value", snap.Generation, i)
		}
	}
}
