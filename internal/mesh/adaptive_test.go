package mesh

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdaptive_FullBudgetBeforeFirstObservation(t *testing.T) {
	a := newAdaptiveController()
	assert.Equal(t, 2000, a.budgetFor(2000))
}

func TestAdaptive_SlowFramesShrinkBudget(t *testing.T) {
	a := newAdaptiveController()
	a.adjustEvery = 0 // no rate limit in tests

	for i := 0; i < 40; i++ {
		a.observe(40 * time.Millisecond)
	}
	require.Greater(t, a.average(), adaptiveHighWater)

	first := a.budgetFor(2000)
	assert.Less(t, first, 2000)

	second := a.budgetFor(2000)
	assert.Less(t, second, first, "sustained slow frames keep shrinking the budget")
}

func TestAdaptive_FastFramesRecoverBudget(t *testing.T) {
	a := newAdaptiveController()
	a.adjustEvery = 0

	for i := 0; i < 40; i++ {
		a.observe(40 * time.Millisecond)
	}
	shrunk := a.budgetFor(2000)
	require.Less(t, shrunk, 2000)

	for i := 0; i < 200; i++ {
		a.observe(5 * time.Millisecond)
	}
	require.Less(t, a.average(), adaptiveLowWater)

	grown := a.budgetFor(2000)
	assert.Greater(t, grown, shrunk)
}

func TestAdaptive_BudgetNeverExceedsProfile(t *testing.T) {
	a := newAdaptiveController()
	a.adjustEvery = 0

	// Fast frames with an already-full scale must not overshoot.
	for i := 0; i < 50; i++ {
		a.observe(2 * time.Millisecond)
	}
	for i := 0; i < 10; i++ {
		assert.LessOrEqual(t, a.budgetFor(1500), 1500)
	}
}

func TestAdaptive_ScaleFloor(t *testing.T) {
	a := newAdaptiveController()
	a.adjustEvery = 0

	for i := 0; i < 50; i++ {
		a.observe(100 * time.Millisecond)
	}
	var budget int
	for i := 0; i < 100; i++ {
		budget = a.budgetFor(2000)
	}
	assert.GreaterOrEqual(t, budget, int(2000*adaptiveMinScale)-1)
	assert.GreaterOrEqual(t, budget, minCols*minRows)
}

func TestAdaptive_AdjustmentsAreRateLimited(t *testing.T) {
	a := newAdaptiveController()

	for i := 0; i < 40; i++ {
		a.observe(40 * time.Millisecond)
	}
	first := a.budgetFor(2000)
	require.Less(t, first, 2000)

	// Immediately asking again must reuse the same scale.
	assert.Equal(t, first, a.budgetFor(2000))
	assert.Equal(t, first, a.budgetFor(2000))
}

func TestAdaptive_IgnoresNonPositiveDurations(t *testing.T) {
	a := newAdaptiveController()
	a.observe(0)
	a.observe(-5 * time.Millisecond)
	assert.Equal(t, 1000, a.budgetFor(1000))
}
