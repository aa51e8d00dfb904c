package league

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpectedScore(t *testing.T) {
	cfg := DefaultRatingConfig()
	assert.InDelta(t, 0.5, cfg.ExpectedScore(1500, 1500), 1e-9)

	// A 400-point edge means ~10:1 odds under the logistic formula.
	assert.InDelta(t, 10.0/11.0, cfg.ExpectedScore(1900, 1500), 1e-9)
	assert.InDelta(t, 1.0/11.0, cfg.ExpectedScore(1500, 1900), 1e-9)
}

func TestUpdateRatingsSymmetry(t *testing.T) {
	cfg := DefaultRatingConfig()
	a, b := 1620.0, 1480.0

	newA, newB := cfg.UpdateRatings(a, b, OutcomeWin)
	gain := newA - a
	loss := b - newB
	assert.InDelta(t, gain, loss, 1e-9, "gain and loss magnitudes must match with equal K")
	assert.Greater(t, newA, a)
	assert.Less(t, newB, b)
}

func TestUpdateRatingsUpsetSwingLarger(t *testing.T) {
	cfg := DefaultRatingConfig()

	_, favLoses := cfg.UpdateRatings(1700, 1400, OutcomeLoss)
	favExpectedDrop := 1400.0 - favLoses // underdog's gain equals favourite's drop

	newFav, _ := cfg.UpdateRatings(1700, 1400, OutcomeWin)
	favExpectedGain := newFav - 1700

	assert.Greater(t, math.Abs(favExpectedDrop), favExpectedGain,
		"losing as favourite must move ratings more than winning as favourite")
}

func TestUpdateRatingsDraw(t *testing.T) {
	cfg := DefaultRatingConfig()

	// Equal ratings and a draw: nothing moves.
	a, b := cfg.UpdateRatings(1500, 1500, OutcomeDraw)
	assert.InDelta(t, 1500, a, 1e-9)
	assert.InDelta(t, 1500, b, 1e-9)

	// Unequal ratings and a draw: favourite leaks points to the underdog.
	a, b = cfg.UpdateRatings(1600, 1400, OutcomeDraw)
	assert.Less(t, a, 1600.0)
	assert.Greater(t, b, 1400.0)
	assert.InDelta(t, 3000, a+b, 1e-9, "draw updates are zero-sum")
}
