package mesh

import "time"

// Tuning bundles the numeric constants of the force model and integrator.
// The defaults assume spectrum magnitudes normalized to roughly [0, 1] and
// canvas coordinates in pixels.
type Tuning struct {
	// SpringStiffness scales the spring force pulling each node back to
	// its rest position.
	SpringStiffness float64

	// NeighborStiffness scales the cohesion force between connected nodes.
	NeighborStiffness float64

	// CohesionErrorLimit clamps the normalized distance error of the
	// cohesion spring. Extreme spectrum amplitudes can stretch a neighbor
	// pair far past its rest distance; without the clamp that produces
	// force spikes that the integrator then has to bleed off over many
	// steps.
	CohesionErrorLimit float64

	// ImpulseScale converts a reduced spectrum amplitude into a vertical
	// force.
	ImpulseScale float64

	// HorizontalImpulseScale converts a reduced spectrum amplitude into a
	// sideways force (advanced effects only).
	HorizontalImpulseScale float64

	// WaveSpeed and WaveAmplitude shape the ambient radial ripple
	// (advanced effects only). WaveFrequency is the spatial frequency in
	// radians per pixel of center distance.
	WaveSpeed     float64
	WaveAmplitude float64
	WaveFrequency float64

	// Damping divides the velocity every sub-step. Must be > 1 so the
	// mesh sheds the energy the spectrum forcing pumps in.
	Damping float64

	// MaxVelocity clamps each velocity component, in pixels per sub-step.
	MaxVelocity float64

	// SubStep is the fixed integration step. MaxSubSteps caps how many
	// owed sub-steps one scheduler tick may run; anything beyond the cap
	// is dropped rather than simulated.
	SubStep     time.Duration
	MaxSubSteps int

	// ParallelThreshold is the node count above which force accumulation
	// fans out across worker goroutines.
	ParallelThreshold int
}

// DefaultTuning returns the tuning used by the application.
func DefaultTuning() Tuning {
	return Tuning{
		SpringStiffness:        8.0,
		NeighborStiffness:      12.0,
		CohesionErrorLimit:     4.0,
		ImpulseScale:           260.0,
		HorizontalImpulseScale: 60.0,
		WaveSpeed:              1.6,
		WaveAmplitude:          5.0,
		WaveFrequency:          0.035,
		Damping:                1.06,
		MaxVelocity:            24.0,
		SubStep:                time.Second / 60,
		MaxSubSteps:            5,
		ParallelThreshold:      1024,
	}
}
