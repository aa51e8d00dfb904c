package league

import "fmt"

// PlayerLine is one player's stat line for a single match.
type PlayerLine struct {
	PlayerID string
	Goals    int
	Assists  int
	Saves    int
	Shots    int
	Demos    int
}

// MatchEvent records an in-engine anomaly or notable moment as part of the
// result, e.g. the overtime-cap fallback warning.
type MatchEvent struct {
	Kind    string
	Message string
}

// Event kinds recorded on match results.
const (
	EventWarning = "warning"
)

// MatchResult is the immutable outcome of one fixture. Produced exactly
// once; once attached to a completed fixture it is never mutated.
type MatchResult struct {
	HomeTeamID string
	AwayTeamID string
	HomeScore  int
	AwayScore  int

	Overtime       bool
	ForcedDecisive bool

	HomeLines []PlayerLine
	AwayLines []PlayerLine

	Events []MatchEvent
}

// WinnerID returns the winning team's id. Overtime guarantees a winner.
func (r *MatchResult) WinnerID() string {
	if r.HomeScore > r.AwayScore {
		return r.HomeTeamID
	}
	return r.AwayTeamID
}

// LoserID returns the losing team's id.
func (r *MatchResult) LoserID() string {
	if r.HomeScore > r.AwayScore {
		return r.AwayTeamID
	}
	return r.HomeTeamID
}

// Fixture is a scheduled match. IDs ascend in schedule order and fix the
// order in which completed results are applied to standings.
type Fixture struct {
	ID     int
	HomeID string
	AwayID string
	Week   int

	Played bool
	Result *MatchResult
}

func (f *Fixture) String() string {
	if f.Played && f.Result != nil {
		return fmt.Sprintf("week %d: %s %d - %d %s",
			f.Week, f.HomeID, f.Result.HomeScore, f.Result.AwayScore, f.AwayID)
	}
	return fmt.Sprintf("week %d: %s vs %s", f.Week, f.HomeID, f.AwayID)
}

// complete attaches a result and flips the append-only completion flag.
func (f *Fixture) complete(r *MatchResult) error {
	if f.Played {
		return fmt.Errorf("fixture %d already completed", f.ID)
	}
	f.Result = r
	f.Played = true
	return nil
}
