package mesh

import (
	"sync"
	"time"
)

// Adaptive resolution defaults. The controller holds the simulation inside
// a frame-time envelope by biasing the node budget of the next rebuild; it
// never touches topology itself.
const (
	adaptiveAlpha       = 0.1
	adaptiveHighWater   = 16 * time.Millisecond
	adaptiveLowWater    = 9 * time.Millisecond
	adaptiveShrink      = 0.85
	adaptiveGrow        = 1.05
	adaptiveMinScale    = 0.2
	adaptiveAdjustEvery = 500 * time.Millisecond
)

// adaptiveController keeps an exponential moving average of observed frame
// times. Observe is called once per displayed frame by the consumer side;
// budgetFor is read once per rebuild check by the simulation goroutine.
type adaptiveController struct {
	mu          sync.Mutex
	avg         time.Duration
	primed      bool
	scale       float64
	lastAdjust  time.Time
	adjustEvery time.Duration
}

func newAdaptiveController() *adaptiveController {
	return &adaptiveController{
		scale:       1,
		adjustEvery: adaptiveAdjustEvery,
	}
}

// observe folds one frame duration into the moving average.
func (a *adaptiveController) observe(d time.Duration) {
	if d <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.primed {
		a.avg = d
		a.primed = true
		return
	}
	a.avg = time.Duration(float64(a.avg)*(1-adaptiveAlpha) + float64(d)*adaptiveAlpha)
}

// average returns the current smoothed frame time.
func (a *adaptiveController) average() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.avg
}

// budgetFor maps the profile's node budget through the adaptive scale,
// adjusting the scale when the smoothed frame time has drifted out of the
// target envelope. Adjustments are rate-limited so one slow second does not
// collapse the mesh.
func (a *adaptiveController) budgetFor(profileBudget int) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := time.Now()
	if a.primed && now.Sub(a.lastAdjust) >= a.adjustEvery {
		switch {
		case a.avg > adaptiveHighWater:
			a.scale *= adaptiveShrink
			if a.scale < adaptiveMinScale {
				a.scale = adaptiveMinScale
			}
			a.lastAdjust = now
		case a.avg < adaptiveLowWater && a.scale < 1:
			a.scale *= adaptiveGrow
			if a.scale > 1 {
				a.scale = 1
			}
			a.lastAdjust = now
		}
	}

	budget := int(float64(profileBudget) * a.scale)
	if budget < minCols*minRows {
		budget = minCols * minRows
	}
	return budget
}
