package league

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func swissSeries(home, away string, homeWins, awayWins int) *SeriesResult {
	return &SeriesResult{HomeTeamID: home, AwayTeamID: away, HomeWins: homeWins, AwayWins: awayWins, BestOf: 5}
}

// driveSwiss plays a bracket to completion with the higher-standing team of
// every pairing winning 3-1.
func driveSwiss(t *testing.T, b *SwissBracket) {
	t.Helper()
	for !b.Complete() {
		pairs := b.NextRound()
		for _, p := range pairs {
			require.NoError(t, b.RecordResult(swissSeries(p[0], p[1], 3, 1)))
		}
	}
}

func TestSwissBracketSplitsField(t *testing.T) {
	ids := make([]string, 16)
	for i := range ids {
		ids[i] = fmt.Sprintf("t%02d", i+1)
	}
	b, err := NewSwissBracket(ids, 3, 3)
	require.NoError(t, err)

	driveSwiss(t, b)

	assert.Len(t, b.QualifiedSeeded(), 8)
	assert.Len(t, b.Eliminated(), 8)
	for _, row := range b.Standings() {
		assert.LessOrEqual(t, row.Wins, 3)
		assert.LessOrEqual(t, row.Losses, 3)
	}

	// The top of the entry order never loses under higher-standing-wins.
	seeds := b.QualifiedSeeded()
	assert.Equal(t, "t01", seeds[0])
}

func TestSwissBracketAvoidsRematches(t *testing.T) {
	ids := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	b, err := NewSwissBracket(ids, 3, 3)
	require.NoError(t, err)

	met := make(map[string]int)
	for !b.Complete() {
		for _, p := range b.NextRound() {
			key := p[0] + "|" + p[1]
			if p[1] < p[0] {
				key = p[1] + "|" + p[0]
			}
			met[key]++
			require.NoError(t, b.RecordResult(swissSeries(p[0], p[1], 3, 0)))
		}
	}
	for key, n := range met {
		assert.Equal(t, 1, n, "pairing %s repeated", key)
	}
}

func TestSwissBracketBye(t *testing.T) {
	b, err := NewSwissBracket([]string{"A", "B", "C"}, 1, 1)
	require.NoError(t, err)

	pairs := b.NextRound()
	require.Len(t, pairs, 1)
	require.Equal(t, [2]string{"A", "B"}, pairs[0])
	require.NoError(t, b.RecordResult(swissSeries("A", "B", 3, 2)))

	// C sat out and took the bye as a 3-0 win, reaching the threshold.
	assert.True(t, b.Complete())
	assert.ElementsMatch(t, []string{"A", "C"}, b.QualifiedSeeded())
	assert.Equal(t, []string{"B"}, b.Eliminated())
}

func TestSwissBracketDeterministic(t *testing.T) {
	run := func() []SwissRecord {
		b, err := NewSwissBracket([]string{"A", "B", "C", "D", "E", "F", "G", "H"}, 3, 3)
		require.NoError(t, err)
		driveSwiss(t, b)
		return b.Standings()
	}
	require.Equal(t, run(), run())
}

func TestSwissBracketValidation(t *testing.T) {
	_, err := NewSwissBracket([]string{"A"}, 3, 3)
	assert.True(t, IsValidation(err))

	_, err = NewSwissBracket([]string{"A", "B", "A"}, 3, 3)
	assert.True(t, IsValidation(err))

	_, err = NewSwissBracket([]string{"A", "B"}, 0, 3)
	assert.True(t, IsValidation(err))
}

// driveBracket plays a double-elimination bracket with the named favourite
// deciding every series; every other match goes to the better (smaller) id.
func driveBracket(t *testing.T, d *DoubleElimination, upsets map[string]string) {
	t.Helper()
	for !d.Complete() {
		for _, m := range d.NextMatches() {
			winner := m.Home
			if m.Away < winner {
				winner = m.Away
			}
			if w, ok := upsets[m.ID]; ok {
				winner = w
			}
			res := swissSeries(m.Home, m.Away, 4, 1)
			if winner == m.Away {
				res = swissSeries(m.Home, m.Away, 1, 4)
			}
			require.NoError(t, d.RecordResult(m.ID, res))
		}
	}
}

func TestDoubleEliminationSeedOrderRun(t *testing.T) {
	seeds := []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8"}
	d, err := NewDoubleElimination(seeds)
	require.NoError(t, err)

	driveBracket(t, d, nil)

	places := d.Placements()
	assert.Equal(t, []string{"s1"}, places[1])
	assert.Equal(t, []string{"s2"}, places[2])
	assert.Equal(t, []string{"s3"}, places[3])
	assert.Equal(t, []string{"s4"}, places[4])
	assert.ElementsMatch(t, []string{"s5", "s6"}, places[5])
	assert.ElementsMatch(t, []string{"s7", "s8"}, places[7])
}

func TestDoubleEliminationBracketReset(t *testing.T) {
	seeds := []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8"}
	d, err := NewDoubleElimination(seeds)
	require.NoError(t, err)

	// The lower-bracket side takes the first grand final, forcing the
	// reset; the upper-bracket side then wins it all.
	driveBracket(t, d, map[string]string{matchGF: "s2", matchBR: "s1"})

	places := d.Placements()
	assert.Equal(t, []string{"s1"}, places[1])
	assert.Equal(t, []string{"s2"}, places[2])
}

func TestDoubleEliminationLowerRouteAvoidsInstantRematch(t *testing.T) {
	seeds := []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8"}
	d, err := NewDoubleElimination(seeds)
	require.NoError(t, err)

	// Play the quarterfinals, then the first lower round and semifinals; a
	// semifinal loser must land on the opposite lower-bracket side from the
	// quarterfinal losers it already beat.
	for pass := 0; pass < 2; pass++ {
		for _, m := range d.NextMatches() {
			winner := m.Home
			if m.Away < winner {
				winner = m.Away
			}
			res := swissSeries(m.Home, m.Away, 4, 0)
			if winner == m.Away {
				res = swissSeries(m.Home, m.Away, 0, 4)
			}
			require.NoError(t, d.RecordResult(m.ID, res))
		}
	}

	lbA := d.matches[matchLBR2A]
	lbB := d.matches[matchLBR2B]
	require.NotEmpty(t, lbA.Away)
	require.NotEmpty(t, lbB.Away)
	// s4 lost UB_SF_1 after beating s5 in its quarterfinal; it must not
	// meet the winner of s5's lower-bracket pool immediately.
	assert.Equal(t, "s3", lbA.Away, "UB_SF_2 loser crosses to the A side")
	assert.Equal(t, "s4", lbB.Away, "UB_SF_1 loser crosses to the B side")
}

func TestDoubleEliminationValidation(t *testing.T) {
	_, err := NewDoubleElimination([]string{"a", "b", "c"})
	assert.True(t, IsValidation(err))

	_, err = NewDoubleElimination([]string{"a", "b", "c", "d", "e", "f", "g", "a"})
	assert.True(t, IsValidation(err))

	d, err := NewDoubleElimination([]string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8"})
	require.NoError(t, err)
	err = d.RecordResult("nope", swissSeries("s1", "s8", 4, 0))
	assert.True(t, IsValidation(err))
	err = d.RecordResult(matchGF, swissSeries("s1", "s2", 4, 0))
	assert.Error(t, err, "grand final is not playable yet")
}

func TestSimulatePlayoffsEightTeams(t *testing.T) {
	teams := testTeams(8, 65)
	engine := NewMatchEngine(DefaultEngineConfig())

	res, err := engine.SimulatePlayoffs(teams, DefaultPlayoffConfig(), newTestRand(42))
	require.NoError(t, err)

	assert.Nil(t, res.SwissStandings, "an 8-team field goes straight to the bracket")
	assert.NotEmpty(t, res.ChampionID)
	assert.Equal(t, res.Placements[1][0], res.ChampionID)
	assert.Equal(t, 15, res.Points[res.ChampionID])

	placed := 0
	for _, ids := range res.Placements {
		placed += len(ids)
	}
	assert.Equal(t, 8, placed, "every entrant gets a finishing position")

	// Playoffs are exhibition-style: league state stays untouched.
	for _, tm := range teams {
		assert.Equal(t, 1500.0, tm.Rating)
		assert.Equal(t, PlayerStats{}, tm.Roster[0].SeasonStats)
	}
}

func TestSimulatePlayoffsWithSwissStage(t *testing.T) {
	teams := testTeams(16, 65)
	engine := NewMatchEngine(DefaultEngineConfig())

	res, err := engine.SimulatePlayoffs(teams, DefaultPlayoffConfig(), newTestRand(7))
	require.NoError(t, err)

	require.Len(t, res.SwissStandings, 16)
	placed := 0
	for _, ids := range res.Placements {
		placed += len(ids)
	}
	assert.Equal(t, 16, placed, "swiss eliminations place 9th-16th")
	for place := 9; place <= 16; place++ {
		require.Len(t, res.Placements[place], 1)
		assert.Equal(t, placementPoints[place], res.Points[res.Placements[place][0]])
	}
}

func TestSimulatePlayoffsDeterministic(t *testing.T) {
	run := func() *PlayoffResult {
		res, err := NewMatchEngine(DefaultEngineConfig()).
			SimulatePlayoffs(testTeams(8, 65), DefaultPlayoffConfig(), newTestRand(99))
		require.NoError(t, err)
		return res
	}
	a, b := run(), run()
	require.Equal(t, a.ChampionID, b.ChampionID)
	require.Equal(t, a.Placements, b.Placements)
	require.Equal(t, a.Points, b.Points)
}

func TestSimulatePlayoffsValidation(t *testing.T) {
	engine := NewMatchEngine(DefaultEngineConfig())

	_, err := engine.SimulatePlayoffs(testTeams(4, 60), DefaultPlayoffConfig(), newTestRand(1))
	assert.True(t, IsValidation(err), "field smaller than the bracket")

	dup := testTeams(8, 60)
	dup[7].ID = dup[0].ID
	_, err = engine.SimulatePlayoffs(dup, DefaultPlayoffConfig(), newTestRand(1))
	assert.True(t, IsValidation(err))
}
