package league

import (
	"fmt"
	"math/rand"
	"sort"
)

// SwissRecord tracks one team's running record in a Swiss bracket.
type SwissRecord struct {
	TeamID     string
	Wins       int
	Losses     int
	GameWins   int
	GameLosses int

	opponents map[string]bool
}

// GameDiff is the game-level differential tiebreak.
func (r *SwissRecord) GameDiff() int { return r.GameWins - r.GameLosses }

// SwissBracket runs a Swiss-system stage: teams play until they reach the
// win threshold (qualified) or the loss threshold (eliminated). Pairing is
// fully deterministic in standings order, so identical inputs always
// produce the identical bracket.
type SwissBracket struct {
	teamIDs       []string // entry order, the final pairing tiebreak
	entryIdx      map[string]int
	winThreshold  int
	lossThreshold int

	records    map[string]*SwissRecord
	qualified  []string
	eliminated []string
	round      int
}

// NewSwissBracket seeds a bracket; teamIDs must be in seed order.
func NewSwissBracket(teamIDs []string, winThreshold, lossThreshold int) (*SwissBracket, error) {
	if len(teamIDs) < 2 {
		return nil, &ValidationError{Field: "swiss.teams", Reason: "need at least 2 teams"}
	}
	if winThreshold < 1 || lossThreshold < 1 {
		return nil, &ValidationError{Field: "swiss.thresholds", Reason: "must be positive"}
	}
	b := &SwissBracket{
		teamIDs:       append([]string(nil), teamIDs...),
		entryIdx:      make(map[string]int, len(teamIDs)),
		winThreshold:  winThreshold,
		lossThreshold: lossThreshold,
		records:       make(map[string]*SwissRecord, len(teamIDs)),
	}
	for i, id := range teamIDs {
		if _, dup := b.records[id]; dup {
			return nil, &ValidationError{Field: "swiss.teams", Reason: "duplicate team " + id}
		}
		b.entryIdx[id] = i
		b.records[id] = &SwissRecord{TeamID: id, opponents: make(map[string]bool)}
	}
	return b, nil
}

// ActiveTeams returns the teams still playing, in entry order.
func (b *SwissBracket) ActiveTeams() []string {
	done := make(map[string]bool, len(b.qualified)+len(b.eliminated))
	for _, id := range b.qualified {
		done[id] = true
	}
	for _, id := range b.eliminated {
		done[id] = true
	}
	var active []string
	for _, id := range b.teamIDs {
		if !done[id] {
			active = append(active, id)
		}
	}
	return active
}

// Complete reports whether every team has qualified or been eliminated.
func (b *SwissBracket) Complete() bool { return len(b.ActiveTeams()) == 0 }

// Round returns the number of pairings generated so far.
func (b *SwissBracket) Round() int { return b.round }

// Standings returns all records sorted by wins, losses, game differential,
// game wins, then entry order.
func (b *SwissBracket) Standings() []SwissRecord {
	rows := make([]SwissRecord, 0, len(b.teamIDs))
	for _, id := range b.teamIDs {
		rows = append(rows, *b.records[id])
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, c := rows[i], rows[j]
		if a.Wins != c.Wins {
			return a.Wins > c.Wins
		}
		if a.Losses != c.Losses {
			return a.Losses < c.Losses
		}
		if a.GameDiff() != c.GameDiff() {
			return a.GameDiff() > c.GameDiff()
		}
		if a.GameWins != c.GameWins {
			return a.GameWins > c.GameWins
		}
		return b.entryIdx[a.TeamID] < b.entryIdx[c.TeamID]
	})
	return rows
}

// NextRound pairs the active teams for the next round. Teams with equal
// records meet first and rematches are avoided where the field allows;
// when the active count is odd, the lowest-standing unpaired team gets a
// bye (recorded as a 3-0 series win).
func (b *SwissBracket) NextRound() [][2]string {
	active := b.ActiveTeams()
	if len(active) == 0 {
		return nil
	}
	b.round++
	if len(active) == 1 {
		b.giveBye(active[0])
		return nil
	}

	// Standings order puts equal records adjacent, best first.
	activeSet := make(map[string]bool, len(active))
	for _, id := range active {
		activeSet[id] = true
	}
	var pool []string
	for _, row := range b.Standings() {
		if activeSet[row.TeamID] {
			pool = append(pool, row.TeamID)
		}
	}

	var pairs [][2]string
	for len(pool) >= 2 {
		first := pool[0]
		pick := -1
		for i := 1; i < len(pool); i++ {
			if !b.records[first].opponents[pool[i]] {
				pick = i
				break
			}
		}
		if pick == -1 {
			pick = 1 // all remaining are rematches; allow one
		}
		pairs = append(pairs, [2]string{first, pool[pick]})
		pool = append(pool[1:pick], pool[pick+1:]...)
	}
	if len(pool) == 1 {
		b.giveBye(pool[0])
	}
	return pairs
}

func (b *SwissBracket) giveBye(teamID string) {
	r := b.records[teamID]
	r.Wins++
	r.GameWins += 3
	if r.Wins >= b.winThreshold {
		b.qualified = append(b.qualified, teamID)
	}
}

// RecordResult feeds one completed series into the bracket.
func (b *SwissBracket) RecordResult(res *SeriesResult) error {
	winner, loser := b.records[res.WinnerID()], b.records[res.LoserID()]
	if winner == nil || loser == nil {
		return &ValidationError{Field: "swiss.result", Reason: "result references unknown team"}
	}
	won, lost := res.HomeWins, res.AwayWins
	if won < lost {
		won, lost = lost, won
	}
	winner.Wins++
	winner.GameWins += won
	winner.GameLosses += lost
	winner.opponents[loser.TeamID] = true
	loser.Losses++
	loser.GameWins += lost
	loser.GameLosses += won
	loser.opponents[winner.TeamID] = true

	if winner.Wins >= b.winThreshold {
		b.qualified = append(b.qualified, winner.TeamID)
	}
	if loser.Losses >= b.lossThreshold {
		b.eliminated = append(b.eliminated, loser.TeamID)
	}
	return nil
}

// QualifiedSeeded returns the qualified teams in final-standings order,
// ready to seed a playoff bracket.
func (b *SwissBracket) QualifiedSeeded() []string {
	isQualified := make(map[string]bool, len(b.qualified))
	for _, id := range b.qualified {
		isQualified[id] = true
	}
	var seeds []string
	for _, row := range b.Standings() {
		if isQualified[row.TeamID] {
			seeds = append(seeds, row.TeamID)
		}
	}
	return seeds
}

// Eliminated returns the eliminated teams in elimination order.
func (b *SwissBracket) Eliminated() []string {
	return append([]string(nil), b.eliminated...)
}

// bracketSize is the fixed double-elimination field.
const bracketSize = 8

// Bracket match identifiers, in play order.
const (
	matchUBQF1 = "UB_QF_1"
	matchUBQF2 = "UB_QF_2"
	matchUBQF3 = "UB_QF_3"
	matchUBQF4 = "UB_QF_4"
	matchLBR1A = "LB_R1_A"
	matchLBR1B = "LB_R1_B"
	matchUBSF1 = "UB_SF_1"
	matchUBSF2 = "UB_SF_2"
	matchLBR2A = "LB_R2_A"
	matchLBR2B = "LB_R2_B"
	matchUBF   = "UB_F"
	matchLBSF  = "LB_SF"
	matchLBF   = "LB_F"
	matchGF    = "GF"
	matchBR    = "BR"
)

var bracketOrder = []string{
	matchUBQF1, matchUBQF2, matchUBQF3, matchUBQF4,
	matchLBR1A, matchLBR1B,
	matchUBSF1, matchUBSF2,
	matchLBR2A, matchLBR2B,
	matchUBF, matchLBSF, matchLBF,
	matchGF, matchBR,
}

// BracketMatch is one slot in a double-elimination bracket. Home and Away
// are empty until the feeding matches decide them.
type BracketMatch struct {
	ID     string
	Home   string
	Away   string
	Winner string
	Loser  string
	Series *SeriesResult
}

func (m *BracketMatch) ready() bool {
	return m.Home != "" && m.Away != "" && m.Winner == ""
}

// DoubleElimination is an 8-team double-elimination playoff bracket with a
// grand-final bracket reset: the upper-bracket side must be beaten twice.
type DoubleElimination struct {
	matches    map[string]*BracketMatch
	placements map[int][]string
	resetLive  bool
	complete   bool
}

// NewDoubleElimination seeds the bracket; seeds must hold exactly 8 team
// ids in seed order. Quarterfinals pair 1v8, 4v5, 2v7, 3v6.
func NewDoubleElimination(seeds []string) (*DoubleElimination, error) {
	if len(seeds) != bracketSize {
		return nil, &ValidationError{
			Field:  "bracket.seeds",
			Reason: fmt.Sprintf("need exactly %d teams, got %d", bracketSize, len(seeds)),
		}
	}
	seen := make(map[string]bool, bracketSize)
	for _, id := range seeds {
		if seen[id] {
			return nil, &ValidationError{Field: "bracket.seeds", Reason: "duplicate team " + id}
		}
		seen[id] = true
	}
	d := &DoubleElimination{
		matches:    make(map[string]*BracketMatch, len(bracketOrder)),
		placements: make(map[int][]string),
	}
	for _, id := range bracketOrder {
		d.matches[id] = &BracketMatch{ID: id}
	}
	d.matches[matchUBQF1].Home, d.matches[matchUBQF1].Away = seeds[0], seeds[7]
	d.matches[matchUBQF2].Home, d.matches[matchUBQF2].Away = seeds[3], seeds[4]
	d.matches[matchUBQF3].Home, d.matches[matchUBQF3].Away = seeds[1], seeds[6]
	d.matches[matchUBQF4].Home, d.matches[matchUBQF4].Away = seeds[2], seeds[5]
	return d, nil
}

// Complete reports whether the champion has been decided.
func (d *DoubleElimination) Complete() bool { return d.complete }

// Placements maps finishing position to team ids (shared positions such as
// 5th-6th list both teams under the better place).
func (d *DoubleElimination) Placements() map[int][]string {
	out := make(map[int][]string, len(d.placements))
	for place, ids := range d.placements {
		out[place] = append([]string(nil), ids...)
	}
	return out
}

// NextMatches returns the playable matches in bracket order: both slots
// filled, no winner yet, and the bracket reset only after the lower-bracket
// side takes the grand final.
func (d *DoubleElimination) NextMatches() []*BracketMatch {
	if d.complete {
		return nil
	}
	var next []*BracketMatch
	for _, id := range bracketOrder {
		m := d.matches[id]
		if id == matchBR && !d.resetLive {
			continue
		}
		if m.ready() {
			next = append(next, m)
		}
	}
	return next
}

// RecordResult applies one series result to its bracket slot and advances
// winner and loser to their destinations.
func (d *DoubleElimination) RecordResult(matchID string, res *SeriesResult) error {
	m, ok := d.matches[matchID]
	if !ok {
		return &ValidationError{Field: "bracket.match", Reason: "unknown match " + matchID}
	}
	if !m.ready() {
		return fmt.Errorf("match %s is not playable", matchID)
	}
	winner := res.WinnerID()
	if winner != m.Home && winner != m.Away {
		return &ValidationError{Field: "bracket.result", Reason: "winner is not in match " + matchID}
	}
	loser := m.Home
	if winner == m.Home {
		loser = m.Away
	}
	m.Winner, m.Loser, m.Series = winner, loser, res

	switch matchID {
	case matchUBQF1:
		d.matches[matchUBSF1].Home = winner
		d.matches[matchLBR1A].Home = loser
	case matchUBQF2:
		d.matches[matchUBSF1].Away = winner
		d.matches[matchLBR1A].Away = loser
	case matchUBQF3:
		d.matches[matchUBSF2].Home = winner
		d.matches[matchLBR1B].Home = loser
	case matchUBQF4:
		d.matches[matchUBSF2].Away = winner
		d.matches[matchLBR1B].Away = loser
	case matchUBSF1:
		d.matches[matchUBF].Home = winner
		d.matches[matchLBR2B].Away = loser // crosses brackets to avoid instant rematches
	case matchUBSF2:
		d.matches[matchUBF].Away = winner
		d.matches[matchLBR2A].Away = loser
	case matchUBF:
		d.matches[matchGF].Home = winner
		d.matches[matchLBF].Away = loser
	case matchLBR1A:
		d.matches[matchLBR2A].Home = winner
		d.place(loser, 7)
	case matchLBR1B:
		d.matches[matchLBR2B].Home = winner
		d.place(loser, 7)
	case matchLBR2A:
		d.matches[matchLBSF].Home = winner
		d.place(loser, 5)
	case matchLBR2B:
		d.matches[matchLBSF].Away = winner
		d.place(loser, 5)
	case matchLBSF:
		d.matches[matchLBF].Home = winner
		d.place(loser, 4)
	case matchLBF:
		d.matches[matchGF].Away = winner
		d.place(loser, 3)
	case matchGF:
		if winner == d.matches[matchGF].Home {
			// The upper-bracket side has no losses; the title is decided.
			d.place(winner, 1)
			d.place(loser, 2)
			d.complete = true
		} else {
			d.resetLive = true
			d.matches[matchBR].Home = loser
			d.matches[matchBR].Away = winner
		}
	case matchBR:
		d.place(winner, 1)
		d.place(loser, 2)
		d.complete = true
	}
	return nil
}

func (d *DoubleElimination) place(teamID string, position int) {
	d.placements[position] = append(d.placements[position], teamID)
}

// placementPoints awards circuit points by finishing position, shared
// positions included.
var placementPoints = map[int]int{
	1: 15, 2: 11, 3: 9, 4: 7,
	5: 5, 6: 5, 7: 4, 8: 4,
	9: 3, 10: 3, 11: 3,
	12: 2, 13: 2, 14: 2,
	15: 1, 16: 1,
}

// PlayoffConfig tunes the post-season run.
type PlayoffConfig struct {
	// SwissWins/SwissLosses are the qualifying-stage thresholds, used only
	// when more than 8 teams enter.
	SwissWins     int
	SwissLosses   int
	SwissBestOf   int
	BracketBestOf int
}

func DefaultPlayoffConfig() PlayoffConfig {
	return PlayoffConfig{SwissWins: 3, SwissLosses: 3, SwissBestOf: 5, BracketBestOf: 7}
}

// PlayoffResult is the outcome of a full post-season run.
type PlayoffResult struct {
	// SwissStandings is nil when the field went straight to the bracket.
	SwissStandings []SwissRecord
	Series         []*SeriesResult
	Placements     map[int][]string
	Points         map[string]int
	ChampionID     string
}

// SimulatePlayoffs runs the post-season for a seeded field: a Swiss
// qualifying stage when more than 8 teams enter, then the 8-team
// double-elimination bracket. Seeds must be in seeding order (league
// standings); playoff results leave ratings, chemistry, and season stats
// untouched.
func (e *MatchEngine) SimulatePlayoffs(seeds []*Team, cfg PlayoffConfig, rng *rand.Rand) (*PlayoffResult, error) {
	if len(seeds) < bracketSize {
		return nil, &ValidationError{
			Field:  "playoffs.seeds",
			Reason: fmt.Sprintf("need at least %d teams, got %d", bracketSize, len(seeds)),
		}
	}
	byID := make(map[string]*Team, len(seeds))
	ids := make([]string, 0, len(seeds))
	for _, t := range seeds {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if byID[t.ID] != nil {
			return nil, &ValidationError{Field: "playoffs.seeds", Reason: "duplicate team " + t.ID}
		}
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}

	result := &PlayoffResult{Points: make(map[string]int)}
	swissPlaces := make(map[int][]string)

	if len(ids) > bracketSize {
		swiss, err := NewSwissBracket(ids, cfg.SwissWins, cfg.SwissLosses)
		if err != nil {
			return nil, err
		}
		for !swiss.Complete() {
			for _, pair := range swiss.NextRound() {
				series, err := e.SimulateSeries(byID[pair[0]], byID[pair[1]], cfg.SwissBestOf, rng)
				if err != nil {
					return nil, err
				}
				result.Series = append(result.Series, series)
				if err := swiss.RecordResult(series); err != nil {
					return nil, err
				}
			}
		}
		result.SwissStandings = swiss.Standings()
		// Teams knocked out in the Swiss stage place 9th onward, the last
		// team eliminated placing best.
		elim := swiss.Eliminated()
		for i, id := range elim {
			swissPlaces[bracketSize+len(elim)-i] = []string{id}
		}
		qualified := swiss.QualifiedSeeded()
		if len(qualified) < bracketSize {
			return nil, fmt.Errorf("swiss stage qualified %d teams, bracket needs %d: adjust thresholds for a field of %d",
				len(qualified), bracketSize, len(ids))
		}
		ids = qualified[:bracketSize]
	}

	bracket, err := NewDoubleElimination(ids)
	if err != nil {
		return nil, err
	}
	for !bracket.Complete() {
		for _, m := range bracket.NextMatches() {
			series, err := e.SimulateSeries(byID[m.Home], byID[m.Away], cfg.BracketBestOf, rng)
			if err != nil {
				return nil, err
			}
			result.Series = append(result.Series, series)
			if err := bracket.RecordResult(m.ID, series); err != nil {
				return nil, err
			}
		}
	}

	result.Placements = bracket.Placements()
	for place, teams := range swissPlaces {
		result.Placements[place] = teams
	}
	for place, teams := range result.Placements {
		for i, id := range teams {
			result.Points[id] = placementPoints[place+i]
			if place == 1 {
				result.ChampionID = id
			}
		}
	}
	return result, nil
}
