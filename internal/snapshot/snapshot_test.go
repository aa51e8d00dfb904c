package snapshot

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utakatalp/gm-simulator/internal/league"
)

func snapshotPlayer(id string, level int) *league.Player {
	p := &league.Player{
		ID:   id,
		Name: "Player " + id,
		Age:  22,
		Hidden: league.HiddenAttributes{
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

func snapshotTeams(n int) []*league.Team {
	teams := make([]*league.Team, n)
	for i := range teams {
		id := string(rune('A' + i))
		teams[i] = &league.Team{
			ID:        id,
			Name:      "Team " + id,
			Chemistry: 50,
			Rating:    1500,
			Roster: []*league.Player{
				snapshotPlayer(id+"-1", 60),
				snapshotPlayer(id+"-2", 60),
				snapshotPlayer(id+"-3", 60),
			},
		}
	}
	return teams
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	season, err := league.NewSeason(snapshotTeams(4))
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2; i++ {
		_, err := season.AdvanceWeek(rng)
		require.NoError(t, err)
	}

	data, err := Encode(season, 42)
	require.NoError(t, err)

	restored, seed, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, int64(42), seed, "base seed survives the round trip")
	assert.Equal(t, season.Week(), restored.Week())
	assert.Equal(t, season.State(), restored.State())
	require.Equal(t, season.Standings(), restored.Standings(), "standings rederive identically from the fixture record")
	require.Equal(t, season.Fixtures(), restored.Fixtures())
	require.Equal(t, season.Teams(), restored.Teams())

	// Both copies continue identically from the same stream position.
	next := rng.Int63()
	origReport, err := season.AdvanceWeek(rand.New(rand.NewSource(next)))
	require.NoError(t, err)
	restReport, err := restored.AdvanceWeek(rand.New(rand.NewSource(next)))
	require.NoError(t, err)
	require.Equal(t, origReport.Results, restReport.Results)
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	season, err := league.NewSeason(snapshotTeams(2))
	require.NoError(t, err)
	data, err := Encode(season, 1)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	doc["version"] = json.RawMessage("99")
	tampered, err := json.Marshal(doc)
	require.NoError(t, err)

	_, _, err = Decode(tampered)
	assert.ErrorIs(t, err, ErrUnknownVersion)
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, _, err := Decode([]byte(`{"version": 1, "teams": `))
	assert.Error(t, err)
}

func TestDecodeRejectsBadState(t *testing.T) {
	season, err := league.NewSeason(snapshotTeams(2))
	require.NoError(t, err)
	data, err := Encode(season, 1)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	doc["state"] = json.RawMessage(`"paused"`)
	tampered, err := json.Marshal(doc)
	require.NoError(t, err)

	_, _, err = Decode(tampered)
	assert.Error(t, err)
}

func TestDecodeTeams(t *testing.T) {
	teams := snapshotTeams(2)
	season, err := league.NewSeason(teams)
	require.NoError(t, err)
	data, err := Encode(season, 1)
	require.NoError(t, err)
	var doc Season
	require.NoError(t, json.Unmarshal(data, &doc))

	decoded, err := TeamsFromDocs(doc.Teams)
	require.NoError(t, err)
	require.Equal(t, teams, decoded)
}

func TestDecodeTeamsRejectsWrongAttributeCount(t *testing.T) {
	payload := []byte(`[{
		"id": "A", "name": "Team A", "chemistry": 50, "rating": 1500,
		"roster": [{"id": "A-1", "name": "P", "age": 22, "attributes": [1, 2, 3]}]
	}]`)
	_, err := DecodeTeams(payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attributes")
}
