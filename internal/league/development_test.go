package league

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevelopmentAgesAndResetsStats(t *testing.T) {
	p := testPlayer("p1", 60)
	p.SeasonStats = PlayerStats{Goals: 12, Assists: 4, Saves: 9, Shots: 40, Demos: 3}
	hiddenBefore := p.Hidden

	RunDevelopment([]*Player{p}, newTestRand(1))

	assert.Equal(t, 23, p.Age)
	assert.Equal(t, PlayerStats{}, p.SeasonStats)
	assert.Equal(t, hiddenBefore, p.Hidden, "hidden attributes are read-only to development")
	for _, v := range p.Attributes {
		assert.GreaterOrEqual(t, v, 0)
		assert.LessOrEqual(t, v, 100)
	}
}

func TestDevelopmentYoungPlayerGrows(t *testing.T) {
	p := testPlayer("young", 50)
	p.Age = 18
	p.Hidden.Potential = 90
	p.Hidden.Ambition = 80

	before := p.Attributes
	changes := RunDevelopment([]*Player{p}, newTestRand(3))
	require.NotEmpty(t, changes)

	grew := 0
	for a := Attribute(0); int(a) < NumAttributes; a++ {
		if p.Attributes[a] > before[a] {
			grew++
		}
		assert.LessOrEqual(t, p.Attributes[a], 90, "growth never exceeds potential")
	}
	assert.Greater(t, grew, NumAttributes/2, "a young high-ambition player improves broadly")
}

func TestDevelopmentVeteranDeclines(t *testing.T) {
	p := testPlayer("vet", 80)
	p.Age = 30

	before := p.Attributes
	RunDevelopment([]*Player{p}, newTestRand(4))

	declined := 0
	for a := Attribute(0); int(a) < NumAttributes; a++ {
		if p.Attributes[a] < before[a] {
			declined++
		}
	}
	assert.Greater(t, declined, NumAttributes/2, "a 30-year-old declines broadly")
}

func TestDevelopmentGrowthCappedAtPotential(t *testing.T) {
	p := testPlayer("capped", 84)
	p.Age = 16 // fastest growth band
	p.Hidden.Potential = 85
	p.Hidden.Ambition = 100

	RunDevelopment([]*Player{p}, newTestRand(5))
	for a := Attribute(0); int(a) < NumAttributes; a++ {
		assert.LessOrEqual(t, p.Attributes[a], 85)
	}
}

func TestDevelopmentAbovePotentialAttributeIsNotPulledDown(t *testing.T) {
	p := testPlayer("outlier", 50)
	p.Age = 18
	p.Hidden.Potential = 70
	p.Attributes[Finishing] = 92 // already beyond potential

	cfg := DefaultDevelopmentConfig()
	cfg.JitterScale = 0 // isolate the curve from noise
	NewDevelopmentEngine(cfg).Run([]*Player{p}, newTestRand(6))

	assert.Equal(t, 92, p.Attributes[Finishing])
}

func TestDevelopmentDeterministic(t *testing.T) {
	run := func() [NumAttributes]int {
		p := testPlayer("d", 55)
		p.Age = 19
		RunDevelopment([]*Player{p}, newTestRand(77))
		return p.Attributes
	}
	require.Equal(t, run(), run())
}

func TestDevelopmentChangesRecordTransitions(t *testing.T) {
	p := testPlayer("log", 80)
	p.Age = 32

	changes := RunDevelopment([]*Player{p}, newTestRand(8))
	require.NotEmpty(t, changes)
	for _, c := range changes {
		assert.Equal(t, "log", c.PlayerID)
		assert.NotEqual(t, c.From, c.To)
		assert.Equal(t, p.Attributes[c.Attribute], c.To)
	}
}
