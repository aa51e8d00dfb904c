package league

import "math"

// RatingConfig tunes the Elo-style skill-rating update.
type RatingConfig struct {
	K     float64
	Scale float64
}

// DefaultRatingConfig returns the standard chess-style tuning.
func DefaultRatingConfig() RatingConfig {
	return RatingConfig{K: 32, Scale: 400}
}

// Outcome values for UpdateRatings, expressed as side A's actual score.
const (
	OutcomeWin  = 1.0
	OutcomeLoss = 0.0
	OutcomeDraw = 0.5
)

// ExpectedScore returns the logistic expected score of A against B.
func (c RatingConfig) ExpectedScore(ratingA, ratingB float64) float64 {
	return 1 / (1 + math.Pow(10, (ratingB-ratingA)/c.Scale))
}

// UpdateRatings applies one result. outcome is A's actual score; B's is
// 1-outcome, so with equal K the two deltas are equal in magnitude and
// opposite in sign.
func (c RatingConfig) UpdateRatings(ratingA, ratingB, outcome float64) (float64, float64) {
	expA := c.ExpectedScore(ratingA, ratingB)
	expB := 1 - expA
	newA := ratingA + c.K*(outcome-expA)
	newB := ratingB + c.K*((1-outcome)-expB)
	return newA, newB
}
