package mesh

import (
	"log/slog"
	"sync"
	"time"

	"github.com/soundmesh/soundmesh/internal/domain"
	"github.com/soundmesh/soundmesh/internal/ports"
)

const (
	// pollInterval paces the scheduler loop; cancellation latency is
	// bounded by one interval.
	pollInterval = 5 * time.Millisecond

	// panicBackoff is how long the loop pauses after recovering from a
	// panicked step before retrying.
	panicBackoff = 50 * time.Millisecond

	// stopTimeout bounds how long Stop waits for the loop to exit.
	stopTimeout = 500 * time.Millisecond
)

// Simulator is the spectrum-driven mesh physics simulator.
//
// Two long-lived execution contexts touch it: the render path, which calls
// SubmitFrame, Snapshot, and ObserveFrameTime once per displayed frame, and
// the internal simulation goroutine started by Start. The only state shared
// between them is the pending-input buffer and the handoff buffer, each
// guarded by its own short-lived mutex; everything else is confined to the
// simulation goroutine.
type Simulator struct {
	logger *slog.Logger
	bus    ports.EventBus
	tun    Tuning

	// Pending input, written by SubmitFrame (last-write-wins), drained by
	// the simulation goroutine.
	inMu       sync.Mutex
	inSpectrum []float64
	inWidth    float64
	inHeight   float64
	inBars     int
	inProfile  domain.QualityProfile
	pending    bool
	configured bool

	// Simulation-goroutine-confined state.
	g        grid
	forces   []vec
	columns  []float64
	spectrum []float64
	smoother *columnSmoother
	write    *domain.MeshSnapshot
	profile  domain.QualityProfile
	width    float64
	height   float64
	bars     int
	simTime  float64
	acc      time.Duration
	haveCfg  bool

	handoff  *handoff
	adaptive *adaptiveController

	// Lifecycle.
	runMu   sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

// NewSimulator creates a simulator. The bus is optional; when present the
// simulator publishes domain.MeshRebuiltEvent after every grid rebuild.
func NewSimulator(logger *slog.Logger, bus ports.EventBus, tun Tuning) *Simulator {
	s := &Simulator{
		logger:   logger,
		bus:      bus,
		tun:      tun,
		smoother: newColumnSmoother(),
		handoff:  newHandoff(),
		adaptive: newAdaptiveController(),
	}
	s.write = s.handoff.writeBuffer()
	return s
}

// SubmitFrame hands the latest spectrum and canvas configuration to the
// simulation loop. Non-blocking: the spectrum is copied into a shared
// buffer under a short mutex and a pending flag is set. An unconsumed
// previous frame is overwritten — only the freshest spectrum matters for a
// real-time visual.
func (s *Simulator) SubmitFrame(spectrum []float64, width, height float64, barCount int, profile domain.QualityProfile) {
	s.inMu.Lock()
	defer s.inMu.Unlock()

	if cap(s.inSpectrum) < len(spectrum) {
		s.inSpectrum = make([]float64, len(spectrum))
	}
	s.inSpectrum = s.inSpectrum[:len(spectrum)]
	copy(s.inSpectrum, spectrum)
	s.inWidth = width
	s.inHeight = height
	s.inBars = barCount
	s.inProfile = profile
	s.pending = true
	s.configured = true
}

// Snapshot returns the most recently published mesh state. Before the first
// completed simulation step it returns an empty snapshot (the simulator
// has no canvas to lay an at-rest mesh on until the first SubmitFrame).
func (s *Simulator) Snapshot() domain.MeshSnapshot {
	snap, _ := s.handoff.acquire()
	return snap
}

// ObserveFrameTime feeds one render-frame duration to the adaptive
// resolution controller.
func (s *Simulator) ObserveFrameTime(d time.Duration) {
	s.adaptive.observe(d)
}

// Start spins up the simulation goroutine.
func (s *Simulator) Start() error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if s.running {
		return domain.ErrSimulatorRunning
	}
	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})
	s.running = true
	go s.run(s.stopCh, s.done)
	return nil
}

// Stop requests cooperative shutdown and waits for the loop to exit, up to
// a bounded timeout. Stopping a simulator that is not running is a no-op.
func (s *Simulator) Stop() error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if !s.running {
		return nil
	}
	close(s.stopCh)
	s.running = false

	select {
	case <-s.done:
		return nil
	case <-time.After(stopTimeout):
		s.logger.Error("simulation loop did not stop in time")
		return domain.ErrShutdownTimeout
	}
}

// run is the scheduler loop. It accumulates wall-clock time, drains the
// pending input flag, and advances the simulation in fixed sub-steps. It
// runs continuously and independently of the render cadence.
func (s *Simulator) run(stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stopCh:
			return
		case now := <-ticker.C:
			s.safeTick(now.Sub(last))
			last = now
		}
	}
}

// safeTick runs one tick, containing panics so a numeric fault degrades the
// visual instead of killing the loop.
func (s *Simulator) safeTick(elapsed time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("simulation step panicked",
				slog.Any("panic", r))
			time.Sleep(panicBackoff)
		}
	}()
	s.tick(elapsed)
}

// tick drains pending input, rebuilds the grid when the configuration
// changed, and runs the owed fixed sub-steps.
func (s *Simulator) tick(elapsed time.Duration) {
	newInput := s.drainPending()
	if !s.haveCfg {
		return
	}

	budget := s.adaptive.budgetFor(s.profile.NodeBudget)
	if s.g.rebuild(s.width, s.height, s.bars, s.profile, budget) {
		s.onRebuild(budget)
	}

	if newInput {
		ReduceInto(s.columns, s.spectrum)
		if s.profile.SmoothColumns {
			s.smoother.step(s.columns)
		}
	}

	dt := s.tun.SubStep
	s.acc += elapsed
	steps := 0
	for s.acc >= dt && steps < s.tun.MaxSubSteps {
		s.step(dt.Seconds())
		s.acc -= dt
		steps++
	}
	// Owed steps beyond the cap are dropped, not queued: simulating a
	// backlog would stall the loop further (graceful degradation instead
	// of a spiral of death).
	if s.acc > dt {
		s.acc = 0
	}

	if steps > 0 {
		s.publish()
	}
}

// drainPending copies the pending input into simulation-confined state.
// Returns true when a new spectrum frame was consumed.
func (s *Simulator) drainPending() bool {
	s.inMu.Lock()
	defer s.inMu.Unlock()

	if !s.pending {
		return false
	}
	s.pending = false
	s.haveCfg = s.configured

	if cap(s.spectrum) < len(s.inSpectrum) {
		s.spectrum = make([]float64, len(s.inSpectrum))
	}
	s.spectrum = s.spectrum[:len(s.inSpectrum)]
	copy(s.spectrum, s.inSpectrum)
	s.width = s.inWidth
	s.height = s.inHeight
	s.bars = s.inBars
	s.profile = s.inProfile
	return true
}

// onRebuild resets per-generation scratch state and publishes the at-rest
// lattice so the render path has a consistent snapshot immediately.
func (s *Simulator) onRebuild(budget int) {
	n := s.g.nodeCount()
	if cap(s.forces) < n {
		s.forces = make([]vec, n)
	}
	s.forces = s.forces[:n]

	if len(s.columns) != s.g.cols {
		s.columns = make([]float64, s.g.cols)
	}
	s.smoother.reset()
	s.acc = 0

	s.publish()

	s.logger.Debug("mesh rebuilt",
		slog.Int("cols", s.g.cols),
		slog.Int("rows", s.g.rows),
		slog.Int("budget", budget),
		slog.Uint64("generation", s.g.generation))
	if s.bus != nil {
		s.bus.Publish(domain.NewMeshRebuiltEvent(s.g.cols, s.g.rows, budget, s.g.generation))
	}
}

// step runs one fixed sub-step: force accumulation then integration.
func (s *Simulator) step(dt float64) {
	s.simTime += dt
	ctx := forceContext{
		g:        &s.g,
		columns:  s.columns,
		simTime:  s.simTime,
		advanced: s.profile.AdvancedEffects,
		tun:      &s.tun,
		forces:   s.forces,
	}
	accumulate(&ctx)
	integrate(&s.g, s.forces, dt, &s.tun)
}

// publish fills the write buffer from the grid and swaps it into the
// handoff.
func (s *Simulator) publish() {
	s.g.fillSnapshot(s.write)
	s.write = s.handoff.publish(s.write)
}

// Verify that Simulator satisfies the core-facing interface.
var _ ports.MeshSimulator = (*Simulator)(nil)
