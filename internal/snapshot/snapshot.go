// Package snapshot encodes season state as a versioned JSON document.
// Persistence collaborators (file stores, the Postgres store) move these
// documents around; the core only produces and consumes in-memory state.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/utakatalp/gm-simulator/internal/league"
)

// Version is the current schema version. Decode dispatches on the version
// field embedded in the document; bumping the schema means adding a
// migration branch there, never silently reinterpreting old documents.
const Version = 1

// ErrUnknownVersion reports a document written by an unknown schema
// version. Surfaced to the caller unmodified; the core never repairs
// corrupt persisted state.
var ErrUnknownVersion = errors.New("unknown snapshot version")

type PlayerStats struct {
	Games   int `json:"games"`
	Goals   int `json:"goals"`
	Assists int `json:"assists"`
	Saves   int `json:"saves"`
	Shots   int `json:"shots"`
	Demos   int `json:"demos"`
}

type Player struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Age          int         `json:"age"`
	Attributes   []int       `json:"attributes"`
	Potential    int         `json:"potential"`
	Ambition     int         `json:"ambition"`
	Adaptability int         `json:"adaptability"`
	SeasonStats  PlayerStats `json:"season_stats"`
}

type Team struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Chemistry int      `json:"chemistry"`
	Rating    float64  `json:"rating"`
	Roster    []Player `json:"roster"`
}

type PlayerLine struct {
	PlayerID string `json:"player_id"`
	Goals    int    `json:"goals"`
	Assists  int    `json:"assists"`
	Saves    int    `json:"saves"`
	Shots    int    `json:"shots"`
	Demos    int    `json:"demos"`
}

type MatchEvent struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type MatchResult struct {
	HomeTeamID     string       `json:"home_team_id"`
	AwayTeamID     string       `json:"away_team_id"`
	HomeScore      int          `json:"home_score"`
	AwayScore      int          `json:"away_score"`
	Overtime       bool         `json:"overtime"`
	ForcedDecisive bool         `json:"forced_decisive"`
	HomeLines      []PlayerLine `json:"home_lines"`
	AwayLines      []PlayerLine `json:"away_lines"`
	Events         []MatchEvent `json:"events,omitempty"`
}

type Fixture struct {
	ID     int          `json:"id"`
	HomeID string       `json:"home_id"`
	AwayID string       `json:"away_id"`
	Week   int          `json:"week"`
	Played bool         `json:"played"`
	Result *MatchResult `json:"result,omitempty"`
}

type Season struct {
	Version  int       `json:"version"`
	Seed     int64     `json:"seed"`
	Week     int       `json:"week"`
	State    string    `json:"state"`
	Teams    []Team    `json:"teams"`
	Fixtures []Fixture `json:"fixtures"`
}

// Encode serializes a season at the current schema version. seed is the
// season's base random seed, carried so a restored season draws the same
// streams a live one would.
func Encode(s *league.Season, seed int64) ([]byte, error) {
	doc := Season{
		Version: Version,
		Seed:    seed,
		Week:    s.Week(),
		State:   s.State().String(),
	}
	for _, t := range s.Teams() {
		doc.Teams = append(doc.Teams, fromTeam(t))
	}
	for _, f := range s.Fixtures() {
		doc.Fixtures = append(doc.Fixtures, fromFixture(f))
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Decode rebuilds a season and its base seed from a snapshot document,
// rederiving standings by replay so the table can never diverge from the
// fixture record.
func Decode(data []byte) (*league.Season, int64, error) {
	var header struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, 0, fmt.Errorf("decoding snapshot: %w", err)
	}
	if header.Version != Version {
		return nil, 0, fmt.Errorf("snapshot version %d: %w", header.Version, ErrUnknownVersion)
	}

	var doc Season
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, 0, fmt.Errorf("decoding snapshot: %w", err)
	}

	teams, err := toTeams(doc.Teams)
	if err != nil {
		return nil, 0, err
	}
	fixtures := make([]*league.Fixture, 0, len(doc.Fixtures))
	for _, f := range doc.Fixtures {
		fixtures = append(fixtures, toFixture(f))
	}
	state, err := parseState(doc.State)
	if err != nil {
		return nil, 0, err
	}
	season, err := league.RestoreSeason(teams, fixtures, doc.Week, state)
	if err != nil {
		return nil, 0, err
	}
	return season, doc.Seed, nil
}

// DecodeTeams reads a bare team list, the data-feed format collaborators
// use to hand fully-populated teams to the core.
func DecodeTeams(data []byte) ([]*league.Team, error) {
	var doc []Team
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding teams: %w", err)
	}
	return toTeams(doc)
}

// TeamsFromDocs converts decoded team documents into league teams, for
// collaborators that carry snapshot.Team in their own payloads.
func TeamsFromDocs(docs []Team) ([]*league.Team, error) {
	return toTeams(docs)
}

func parseState(s string) (league.SeasonState, error) {
	for _, st := range []league.SeasonState{league.NotStarted, league.InProgress, league.Completed} {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("season state %q: %w", s, ErrUnknownVersion)
}

func fromTeam(t *league.Team) Team {
	out := Team{ID: t.ID, Name: t.Name, Chemistry: t.Chemistry, Rating: t.Rating}
	for _, p := range t.Roster {
		out.Roster = append(out.Roster, Player{
			ID:           p.ID,
			Name:         p.Name,
			Age:          p.Age,
			Attributes:   append([]int(nil), p.Attributes[:]...),
			Potential:    p.Hidden.Potential,
			Ambition:     p.Hidden.Ambition,
			Adaptability: p.Hidden.Adaptability,
			SeasonStats: PlayerStats{
				Games:   p.SeasonStats.Games,
				Goals:   p.SeasonStats.Goals,
				Assists: p.SeasonStats.Assists,
				Saves:   p.SeasonStats.Saves,
				Shots:   p.SeasonStats.Shots,
				Demos:   p.SeasonStats.Demos,
			},
		})
	}
	return out
}

func toTeams(docs []Team) ([]*league.Team, error) {
	teams := make([]*league.Team, 0, len(docs))
	for _, td := range docs {
		t := &league.Team{ID: td.ID, Name: td.Name, Chemistry: td.Chemistry, Rating: td.Rating}
		for _, pd := range td.Roster {
			if len(pd.Attributes) != league.NumAttributes {
				return nil, fmt.Errorf("player %s: expected %d attributes, got %d",
					pd.ID, league.NumAttributes, len(pd.Attributes))
			}
			p := &league.Player{
				ID:   pd.ID,
				Name: pd.Name,
				Age:  pd.Age,
				Hidden: league.HiddenAttributes{
					Potential:    pd.Potential,
					Ambition:     pd.Ambition,
					Adaptability: pd.Adaptability,
				},
				SeasonStats: league.PlayerStats{
					Games:   pd.SeasonStats.Games,
					Goals:   pd.SeasonStats.Goals,
					Assists: pd.SeasonStats.Assists,
					Saves:   pd.SeasonStats.Saves,
					Shots:   pd.SeasonStats.Shots,
					Demos:   pd.SeasonStats.Demos,
				},
			}
			copy(p.Attributes[:], pd.Attributes)
			t.Roster = append(t.Roster, p)
		}
		teams = append(teams, t)
	}
	return teams, nil
}

func fromFixture(f *league.Fixture) Fixture {
	out := Fixture{ID: f.ID, HomeID: f.HomeID, AwayID: f.AwayID, Week: f.Week, Played: f.Played}
	if f.Result != nil {
		out.Result = fromResult(f.Result)
	}
	return out
}

func toFixture(f Fixture) *league.Fixture {
	out := &league.Fixture{ID: f.ID, HomeID: f.HomeID, AwayID: f.AwayID, Week: f.Week, Played: f.Played}
	if f.Result != nil {
		out.Result = toResult(f.Result)
	}
	return out
}

func fromResult(r *league.MatchResult) *MatchResult {
	out := &MatchResult{
		HomeTeamID:     r.HomeTeamID,
		AwayTeamID:     r.AwayTeamID,
		HomeScore:      r.HomeScore,
		AwayScore:      r.AwayScore,
		Overtime:       r.Overtime,
		ForcedDecisive: r.ForcedDecisive,
		HomeLines:      fromLines(r.HomeLines),
		AwayLines:      fromLines(r.AwayLines),
	}
	for _, ev := range r.Events {
		out.Events = append(out.Events, MatchEvent{Kind: ev.Kind, Message: ev.Message})
	}
	return out
}

func toResult(r *MatchResult) *league.MatchResult {
	out := &league.MatchResult{
		HomeTeamID:     r.HomeTeamID,
		AwayTeamID:     r.AwayTeamID,
		HomeScore:      r.HomeScore,
		AwayScore:      r.AwayScore,
		Overtime:       r.Overtime,
		ForcedDecisive: r.ForcedDecisive,
		HomeLines:      toLines(r.HomeLines),
		AwayLines:      toLines(r.AwayLines),
	}
	for _, ev := range r.Events {
		out.Events = append(out.Events, league.MatchEvent{Kind: ev.Kind, Message: ev.Message})
	}
	return out
}

func fromLines(lines []league.PlayerLine) []PlayerLine {
	out := make([]PlayerLine, len(lines))
	for i, l := range lines {
		out[i] = PlayerLine{PlayerID: l.PlayerID, Goals: l.Goals, Assists: l.Assists, Saves: l.Saves, Shots: l.Shots, Demos: l.Demos}
	}
	return out
}

func toLines(lines []PlayerLine) []league.PlayerLine {
	out := make([]league.PlayerLine, len(lines))
	for i, l := range lines {
		out[i] = league.PlayerLine{PlayerID: l.PlayerID, Goals: l.Goals, Assists: l.Assists, Saves: l.Saves, Shots: l.Shots, Demos: l.Demos}
	}
	return out
}
