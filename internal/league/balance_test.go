package league

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBalanceAggregates(t *testing.T) {
	template := testTeams(4, 65)
	cfg := BalanceConfig{Runs: 8, Workers: 2, Seed: 42}

	res, err := RunBalance(context.Background(), template, cfg)
	require.NoError(t, err)

	assert.Equal(t, 8, res.Runs)
	assert.Equal(t, 8*12, res.Matches, "4 teams play 12 matches per season")

	titles := 0
	for _, n := range res.Titles {
		titles += n
	}
	assert.Equal(t, 8, titles, "every run crowns exactly one champion")

	assert.Greater(t, res.AvgCombinedGoals(), 0.0)
	odds := res.Odds()
	require.NotEmpty(t, odds)
	total := 0.0
	for _, o := range odds {
		total += o.Probability
	}
	assert.InDelta(t, 100, total, 1e-6)
}

func TestRunBalanceTemplateUntouched(t *testing.T) {
	template := testTeams(4, 65)
	before := make([]float64, len(template))
	for i, tm := range template {
		before[i] = tm.Rating
	}

	_, err := RunBalance(context.Background(), template, BalanceConfig{Runs: 3, Workers: 3, Seed: 1})
	require.NoError(t, err)

	for i, tm := range template {
		assert.Equal(t, before[i], tm.Rating, "runs operate on clones")
		assert.Equal(t, PlayerStats{}, tm.Roster[0].SeasonStats)
	}
}

func TestRunBalanceDeterministic(t *testing.T) {
	template := testTeams(4, 60)
	cfg := BalanceConfig{Runs: 4, Workers: 4, Seed: 99}

	a, err := RunBalance(context.Background(), template, cfg)
	require.NoError(t, err)
	b, err := RunBalance(context.Background(), template, cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Titles, b.Titles, "per-run seeds make worker scheduling irrelevant")
	assert.Equal(t, a.TotalGoals, b.TotalGoals)
	assert.Equal(t, a.Overtimes, b.Overtimes)
}

func TestRunBalanceCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := RunBalance(ctx, testTeams(4, 60), BalanceConfig{Runs: 1000, Workers: 2, Seed: 1})
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res, "partial aggregate survives cancellation")
	assert.LessOrEqual(t, res.Runs, 1000)
}

func TestRunBalanceValidation(t *testing.T) {
	_, err := RunBalance(context.Background(), testTeams(4, 60), BalanceConfig{Runs: 0})
	assert.True(t, IsValidation(err))

	bad := testTeams(2, 60)
	bad[0].Roster = bad[0].Roster[:1]
	_, err = RunBalance(context.Background(), bad, BalanceConfig{Runs: 1})
	assert.True(t, IsValidation(err))
}

func TestRunBalanceStrongerTeamWinsMore(t *testing.T) {
	template := []*Team{testTeam("strong", 85), testTeam("mid1", 55), testTeam("mid2", 55), testTeam("mid3", 55)}

	res, err := RunBalance(context.Background(), template, BalanceConfig{Runs: 30, Workers: 4, Seed: 7})
	require.NoError(t, err)

	best := res.Odds()[0]
	assert.Equal(t, "strong", best.TeamID, "a 30-point attribute edge should dominate 30 seasons")
	assert.Greater(t, best.Titles, 15)
}
