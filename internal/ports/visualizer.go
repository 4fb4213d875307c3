package ports

import (
	"time"

	"github.com/soundmesh/soundmesh/internal/domain"
)

// MeshSimulator is the core-facing interface of the mesh physics simulator.
//
// The producer side (the render path, once per displayed frame) calls
// SubmitFrame; the consumer side calls Snapshot to read the most recently
// completed simulation state. Both calls are non-blocking with respect to
// the background simulation loop: SubmitFrame copies the spectrum into a
// shared buffer and sets a pending flag, Snapshot returns a reference to an
// immutable published buffer.
type MeshSimulator interface {
	// SubmitFrame hands the latest reduced-input data to the simulation
	// loop: the raw magnitude spectrum, the canvas dimensions, the
	// requested column count, and the active quality profile. An
	// unconsumed previous frame is overwritten (last-write-wins).
	SubmitFrame(spectrum []float64, width, height float64, barCount int, profile domain.QualityProfile)

	// Snapshot returns the most recently published mesh state, or the
	// initial at-rest lattice if no simulation step has completed yet.
	// The returned snapshot is immutable and safe to share by reference.
	Snapshot() domain.MeshSnapshot

	// ObserveFrameTime feeds one observed render-frame duration to the
	// adaptive resolution controller.
	ObserveFrameTime(d time.Duration)

	// Start spins up the background simulation goroutine.
	Start() error

	// Stop requests cooperative shutdown and blocks up to a bounded
	// timeout. Returns domain.ErrShutdownTimeout if the loop does not
	// exit in time.
	Stop() error
}

// MeshView is the render adapter consuming the simulator output.
// The visualizer service pushes spectrum frames and profile changes to the
// view; the view drives SubmitFrame/Snapshot at its own display cadence.
type MeshView interface {
	// UpdateSpectrum hands a new magnitude spectrum to the view.
	// Called from the event-bus dispatch goroutine; implementations must
	// not block.
	UpdateSpectrum(magnitudes []float64)

	// SetProfile switches the active quality profile.
	SetProfile(profile domain.QualityProfile)

	// Reset clears the view state (e.g. when a track stops).
	Reset()
}
