package league

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
)

// SeasonState is the season lifecycle: NotStarted -> InProgress -> Completed.
type SeasonState int

const (
	NotStarted SeasonState = iota
	InProgress
	Completed
)

func (s SeasonState) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Completed:
		return "completed"
	}
	return "unknown"
}

// StandingsRow is one team's derived standings line. Rows are recomputed
// from completed fixtures on every advance, never patched incrementally.
type StandingsRow struct {
	TeamID       string
	Played       int
	Points       int
	Wins         int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
	GoalDiff     int
}

const pointsPerWin = 3

// NewsEvent is a narrative item for news-feed consumers.
type NewsEvent struct {
	Kind    string
	Message string
}

// News event kinds.
const (
	NewsUpset          = "upset"
	NewsMilestone      = "milestone"
	NewsShutout        = "shutout"
	NewsStreak         = "streak"
	NewsWarning        = "warning"
	NewsSeasonComplete = "season_complete"
)

// streakThreshold is the consecutive-win count that makes the news.
const streakThreshold = 3

// WeeklyReport is the outcome of one advanced week.
type WeeklyReport struct {
	Week      int
	Results   []*MatchResult
	Standings []StandingsRow
	Events    []NewsEvent
}

// SeasonConfig bundles the tunable constants for a season run.
type SeasonConfig struct {
	Engine EngineConfig
	Rating RatingConfig
}

func DefaultSeasonConfig() SeasonConfig {
	return SeasonConfig{Engine: DefaultEngineConfig(), Rating: DefaultRatingConfig()}
}

// Season owns its fixtures and standings. Teams are shared by reference
// with roster-management collaborators, but only the core mutates
// chemistry, ratings, and attributes.
type Season struct {
	teams       []*Team // seed order, the final standings tie-break
	teamsByID   map[string]*Team
	playersByID map[string]*Player

	fixtures  []*Fixture
	week      int
	state     SeasonState
	standings []StandingsRow

	cfg       SeasonConfig
	engine    *MatchEngine
	chemistry *ChemistryTracker
}

// NewSeason builds the fixture calendar for the given teams and returns a
// ready season with default configuration.
func NewSeason(teams []*Team) (*Season, error) {
	return NewSeasonConfigured(teams, DefaultSeasonConfig())
}

func NewSeasonConfigured(teams []*Team, cfg SeasonConfig) (*Season, error) {
	fixtures, err := BuildSchedule(teams)
	if err != nil {
		return nil, err
	}
	return newSeason(teams, fixtures, 1, NotStarted, cfg)
}

// RestoreSeason rebuilds a season from persisted state. Standings are
// rederived from the completed fixtures, so a snapshot cannot smuggle in a
// divergent table.
func RestoreSeason(teams []*Team, fixtures []*Fixture, week int, state SeasonState) (*Season, error) {
	for _, t := range teams {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	if week < 1 {
		return nil, &ValidationError{Field: "season.week", Reason: fmt.Sprintf("must be >= 1, got %d", week)}
	}
	s, err := newSeason(teams, fixtures, week, state, DefaultSeasonConfig())
	if err != nil {
		return nil, err
	}
	// A season that has already played weeks has established roster
	// signatures; re-establish them so the week after a restore applies the
	// same chemistry step a live season would.
	if state != NotStarted {
		for _, t := range s.teams {
			s.chemistry.Observe(t)
		}
	}
	return s, nil
}

func newSeason(teams []*Team, fixtures []*Fixture, week int, state SeasonState, cfg SeasonConfig) (*Season, error) {
	s := &Season{
		teams:       teams,
		teamsByID:   make(map[string]*Team, len(teams)),
		playersByID: make(map[string]*Player),
		fixtures:    fixtures,
		week:        week,
		state:       state,
		cfg:         cfg,
		engine:      NewMatchEngine(cfg.Engine),
		chemistry:   NewChemistryTracker(),
	}
	for _, t := range teams {
		s.teamsByID[t.ID] = t
		for _, p := range t.Roster {
			s.playersByID[p.ID] = p
		}
	}
	for _, f := range s.fixtures {
		if s.teamsByID[f.HomeID] == nil || s.teamsByID[f.AwayID] == nil {
			return nil, &ValidationError{Field: "fixture", Reason: fmt.Sprintf("fixture %d references unknown team", f.ID)}
		}
	}
	s.standings = ComputeStandings(s.teams, s.fixtures)
	return s, nil
}

func (s *Season) Teams() []*Team            { return s.teams }
func (s *Season) Fixtures() []*Fixture      { return s.fixtures }
func (s *Season) Week() int                 { return s.week }
func (s *Season) State() SeasonState        { return s.state }
func (s *Season) Standings() []StandingsRow { return s.standings }

func (s *Season) remaining() int {
	n := 0
	for _, f := range s.fixtures {
		if !f.Played {
			n++
		}
	}
	return n
}

// AdvanceWeek simulates every fixture of the current week, applies the
// results to standings in ascending fixture-id order, updates ratings and
// chemistry, and advances the week pointer. Fixtures within one week share
// no team, so they are simulated concurrently; each gets its own random
// stream derived from rng up front, in fixture order, which keeps the
// whole run reproducible.
func (s *Season) AdvanceWeek(rng *rand.Rand) (*WeeklyReport, error) {
	if s.state == Completed {
		return nil, ErrSeasonCompleted
	}
	if s.remaining() == 0 {
		return nil, ErrNoFixtures
	}

	var week []*Fixture
	for _, f := range s.fixtures {
		if f.Week == s.week && !f.Played {
			week = append(week, f)
		}
	}
	if len(week) == 0 {
		// A week with nothing to play but fixtures remaining means the
		// pointer drifted past the calendar: corrupt persisted state.
		return nil, fmt.Errorf("week %d has no fixtures but %d remain: %w", s.week, s.remaining(), ErrNoFixtures)
	}
	sort.Slice(week, func(i, j int) bool { return week[i].ID < week[j].ID })

	s.state = InProgress

	// Roster-stability bookkeeping for every team, once per week.
	for _, t := range s.teams {
		s.chemistry.Observe(t)
	}

	// Derive one child stream per fixture before fanning out.
	seeds := make([]int64, len(week))
	for i := range week {
		seeds[i] = rng.Int63()
	}

	results := make([]*MatchResult, len(week))
	errs := make([]error, len(week))
	var wg sync.WaitGroup
	for i, f := range week {
		wg.Add(1)
		go func(i int, f *Fixture) {
			defer wg.Done()
			home, away := s.teamsByID[f.HomeID], s.teamsByID[f.AwayID]
			homeComp := Adjust(TeamComposite(home.ActiveRoster()), home.Chemistry)
			awayComp := Adjust(TeamComposite(away.ActiveRoster()), away.Chemistry)
			child := rand.New(rand.NewSource(seeds[i]))
			results[i], errs[i] = s.engine.Simulate(home, away, homeComp, awayComp, child)
		}(i, f)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("simulating week %d: %w", s.week, err)
		}
	}

	report := &WeeklyReport{Week: s.week}

	// Apply results in ascending fixture-id order, not completion order.
	for i, f := range week {
		res := results[i]
		if err := f.complete(res); err != nil {
			return nil, err
		}
		report.Results = append(report.Results, res)
		report.Events = append(report.Events, s.applyResult(res)...)
	}

	s.standings = ComputeStandings(s.teams, s.fixtures)
	report.Standings = s.standings

	// Streaks are derived from the fixture record, in seed order so event
	// order is deterministic.
	for _, t := range s.teams {
		if winStreak(t.ID, s.fixtures) == streakThreshold {
			report.Events = append(report.Events, NewsEvent{
				Kind:    NewsStreak,
				Message: fmt.Sprintf("%s are on a %d-game win streak", t.Name, streakThreshold),
			})
		}
	}

	s.week++
	if s.remaining() == 0 {
		s.state = Completed
		report.Events = append(report.Events, NewsEvent{
			Kind:    NewsSeasonComplete,
			Message: fmt.Sprintf("season complete, %s finish top of the table", s.standings[0].TeamID),
		})
	}
	return report, nil
}

// applyResult feeds one completed result into ratings and player stats and
// derives its narrative events.
func (s *Season) applyResult(res *MatchResult) []NewsEvent {
	home := s.teamsByID[res.HomeTeamID]
	away := s.teamsByID[res.AwayTeamID]

	var events []NewsEvent
	winner, loser := s.teamsByID[res.WinnerID()], s.teamsByID[res.LoserID()]
	if winner.Rating+100 < loser.Rating {
		events = append(events, NewsEvent{
			Kind:    NewsUpset,
			Message: fmt.Sprintf("%s upset %s %d-%d", winner.Name, loser.Name, res.HomeScore, res.AwayScore),
		})
	}

	outcome := OutcomeLoss
	if res.WinnerID() == home.ID {
		outcome = OutcomeWin
	}
	home.Rating, away.Rating = s.cfg.Rating.UpdateRatings(home.Rating, away.Rating, outcome)

	events = append(events, s.applyLines(res.HomeLines)...)
	events = append(events, s.applyLines(res.AwayLines)...)

	for _, ev := range res.Events {
		if ev.Kind == EventWarning {
			events = append(events, NewsEvent{Kind: NewsWarning, Message: ev.Message})
		}
	}
	if res.HomeScore == 0 || res.AwayScore == 0 {
		events = append(events, NewsEvent{
			Kind:    NewsShutout,
			Message: fmt.Sprintf("%s shut out %s", winner.Name, loser.Name),
		})
	}
	return events
}

var goalMilestones = []int{10, 25, 50}

func (s *Season) applyLines(lines []PlayerLine) []NewsEvent {
	var events []NewsEvent
	for _, line := range lines {
		p := s.playersByID[line.PlayerID]
		if p == nil {
			continue
		}
		before := p.SeasonStats.Goals
		p.SeasonStats.add(line)
		for _, m := range goalMilestones {
			if before < m && p.SeasonStats.Goals >= m {
				events = append(events, NewsEvent{
					Kind:    NewsMilestone,
					Message: fmt.Sprintf("%s reaches %d goals this season", p.Name, m),
				})
			}
		}
	}
	return events
}

// ComputeStandings replays all completed fixtures in fixture-id order and
// returns the sorted table. Exposed so persisted state can be checked
// against a from-scratch replay.
func ComputeStandings(teams []*Team, fixtures []*Fixture) []StandingsRow {
	rowIdx := make(map[string]int, len(teams))
	rows := make([]StandingsRow, len(teams))
	for i, t := range teams {
		rows[i] = StandingsRow{TeamID: t.ID}
		rowIdx[t.ID] = i
	}

	ordered := make([]*Fixture, 0, len(fixtures))
	for _, f := range fixtures {
		if f.Played && f.Result != nil {
			ordered = append(ordered, f)
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	for _, f := range ordered {
		r := f.Result
		h := &rows[rowIdx[f.HomeID]]
		a := &rows[rowIdx[f.AwayID]]
		h.Played++
		a.Played++
		h.GoalsFor += r.HomeScore
		h.GoalsAgainst += r.AwayScore
		a.GoalsFor += r.AwayScore
		a.GoalsAgainst += r.HomeScore
		if r.HomeScore > r.AwayScore {
			h.Wins++
			h.Points += pointsPerWin
			a.Losses++
		} else {
			a.Wins++
			a.Points += pointsPerWin
			h.Losses++
		}
	}
	for i := range rows {
		rows[i].GoalDiff = rows[i].GoalsFor - rows[i].GoalsAgainst
	}

	seed := make(map[string]int, len(teams))
	for i, t := range teams {
		seed[t.ID] = i
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDiff != b.GoalDiff {
			return a.GoalDiff > b.GoalDiff
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		if h2h := headToHead(a.TeamID, b.TeamID, ordered); h2h != 0 {
			return h2h > 0
		}
		return seed[a.TeamID] < seed[b.TeamID]
	})
	return rows
}

// winStreak counts a team's consecutive wins up to its latest completed
// fixture, walking the record backwards in fixture-id order.
func winStreak(teamID string, fixtures []*Fixture) int {
	played := make([]*Fixture, 0, len(fixtures))
	for _, f := range fixtures {
		if f.Played && f.Result != nil && (f.HomeID == teamID || f.AwayID == teamID) {
			played = append(played, f)
		}
	}
	sort.Slice(played, func(i, j int) bool { return played[i].ID < played[j].ID })

	streak := 0
	for i := len(played) - 1; i >= 0; i-- {
		if played[i].Result.WinnerID() != teamID {
			break
		}
		streak++
	}
	return streak
}

// headToHead compares two teams on their completed meetings: +1 if a won
// more of them, -1 if b did, 0 when split or never met.
func headToHead(a, b string, fixtures []*Fixture) int {
	winsA, winsB := 0, 0
	for _, f := range fixtures {
		if !f.Played || f.Result == nil {
			continue
		}
		meets := (f.HomeID == a && f.AwayID == b) || (f.HomeID == b && f.AwayID == a)
		if !meets {
			continue
		}
		switch f.Result.WinnerID() {
		case a:
			winsA++
		case b:
			winsB++
		}
	}
	switch {
	case winsA > winsB:
		return 1
	case winsB > winsA:
		return -1
	}
	return 0
}
