package league

import "math/rand"

// Shared fixtures for the package tests.

func newTestRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func testPlayer(id string, level int) *Player {
	p := &Player{
		ID:   id,
		Name: "Player " + id,
		Age:  22,
		Hidden: HiddenAttributes{
			Potential:    85,
			Ambition:     60,
			Adaptability: 55,
		},
	}
	for i := range p.Attributes {
		p.Attributes[i] = level
	}
	return p
}

func testTeam(id string, level int) *Team {
	return &Team{
		ID:        id,
		Name:      "Team " + id,
		Chemistry: 50,
		Rating:    1500,
		Roster: []*Player{
			testPlayer(id+"-1", level),
			testPlayer(id+"-2", level),
			testPlayer(id+"-3", level),
		},
	}
}

func testTeams(n, level int) []*Team {
	teams := make([]*Team, n)
	for i := range teams {
		teams[i] = testTeam(string(rune('A'+i)), level)
	}
	return teams
}
