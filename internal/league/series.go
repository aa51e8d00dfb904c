package league

import (
	"fmt"
	"math/rand"
)

// SeriesResult is the outcome of a best-of-N series between two teams.
type SeriesResult struct {
	HomeTeamID string
	AwayTeamID string
	HomeWins   int
	AwayWins   int
	BestOf     int
	Games      []*MatchResult
}

// WinnerID returns the series winner's team id.
func (r *SeriesResult) WinnerID() string {
	if r.HomeWins > r.AwayWins {
		return r.HomeTeamID
	}
	return r.AwayTeamID
}

// LoserID returns the series loser's team id.
func (r *SeriesResult) LoserID() string {
	if r.HomeWins > r.AwayWins {
		return r.AwayTeamID
	}
	return r.HomeTeamID
}

// SimulateSeries plays a best-of-N series, stopping as soon as one team
// reaches the win threshold. Chemistry is sampled once at series start; a
// series is played in one sitting, so the roster signature cannot change
// mid-series.
func (e *MatchEngine) SimulateSeries(home, away *Team, bestOf int, rng *rand.Rand) (*SeriesResult, error) {
	if bestOf < 1 || bestOf%2 == 0 {
		return nil, &ValidationError{Field: "series.best_of", Reason: fmt.Sprintf("must be odd and positive, got %d", bestOf)}
	}
	if err := home.Validate(); err != nil {
		return nil, fmt.Errorf("home team: %w", err)
	}
	if err := away.Validate(); err != nil {
		return nil, fmt.Errorf("away team: %w", err)
	}

	homeComp := Adjust(TeamComposite(home.ActiveRoster()), home.Chemistry)
	awayComp := Adjust(TeamComposite(away.ActiveRoster()), away.Chemistry)

	needed := bestOf/2 + 1
	result := &SeriesResult{HomeTeamID: home.ID, AwayTeamID: away.ID, BestOf: bestOf}
	for result.HomeWins < needed && result.AwayWins < needed {
		game, err := e.Simulate(home, away, homeComp, awayComp, rng)
		if err != nil {
			return nil, err
		}
		result.Games = append(result.Games, game)
		if game.WinnerID() == home.ID {
			result.HomeWins++
		} else {
			result.AwayWins++
		}
	}
	return result, nil
}
