package league

import (
	"fmt"
	"math"
	"math/rand"
)

// EngineConfig holds the match engine's calibration constants. Calibrated
// so a balanced matchup averages a combined score in the 3-6 goal range.
type EngineConfig struct {
	// BaseChances is the mean scoring-chance count per team per game.
	BaseChances float64
	// BaseConversion is the base probability of converting a chance.
	BaseConversion float64
	// AssistChance is the probability a goal has an assist.
	AssistChance float64
	// DemoChance is the per-chance probability of a demolition.
	DemoChance float64
	// OvertimeCap bounds the number of sudden-death chance pairs before
	// the forced-decisive fallback kicks in.
	OvertimeCap int
	// ForcedConversion is the elevated conversion probability used by the
	// fallback.
	ForcedConversion float64
}

// DefaultEngineConfig returns the tuned constants.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		BaseChances:      12,
		BaseConversion:   0.25,
		AssistChance:     0.6,
		DemoChance:       0.12,
		OvertimeCap:      64,
		ForcedConversion: 0.85,
	}
}

// MatchEngine turns two teams' chemistry-adjusted composites into a score
// and per-player stat lines. Simulation is pure: identical inputs and an
// identical random stream always produce a byte-identical result.
type MatchEngine struct {
	cfg EngineConfig
}

func NewMatchEngine(cfg EngineConfig) *MatchEngine {
	return &MatchEngine{cfg: cfg}
}

// SimulateMatch is the standalone entry point, decoupled from season
// state, for balance-testing harnesses. Composites are chemistry-adjusted
// from each team's own chemistry score.
func SimulateMatch(home, away *Team, seed int64) (*MatchResult, error) {
	return NewMatchEngine(DefaultEngineConfig()).SimulateSeeded(home, away, seed)
}

// SimulateSeeded simulates with a fresh stream for the given seed. Both
// teams are validated before any roster aggregation touches them.
func (e *MatchEngine) SimulateSeeded(home, away *Team, seed int64) (*MatchResult, error) {
	if err := home.Validate(); err != nil {
		return nil, fmt.Errorf("home team: %w", err)
	}
	if err := away.Validate(); err != nil {
		return nil, fmt.Errorf("away team: %w", err)
	}
	rng := rand.New(rand.NewSource(seed))
	homeComp := Adjust(TeamComposite(home.ActiveRoster()), home.Chemistry)
	awayComp := Adjust(TeamComposite(away.ActiveRoster()), away.Chemistry)
	return e.Simulate(home, away, homeComp, awayComp, rng)
}

// side is the per-team working state of one simulation.
type side struct {
	team   *Team
	active []*Player
	lines  []PlayerLine
	score  int
}

func newSide(t *Team) *side {
	active := t.ActiveRoster()
	lines := make([]PlayerLine, len(active))
	for i, p := range active {
		lines[i] = PlayerLine{PlayerID: p.ID}
	}
	return &side{team: t, active: active, lines: lines}
}

// Simulate resolves a full match. Composites must already be
// chemistry-adjusted; rng is the caller-supplied stream that makes the
// run reproducible.
func (e *MatchEngine) Simulate(home, away *Team, homeComp, awayComp Composite, rng *rand.Rand) (*MatchResult, error) {
	if err := home.Validate(); err != nil {
		return nil, fmt.Errorf("home team: %w", err)
	}
	if err := away.Validate(); err != nil {
		return nil, fmt.Errorf("away team: %w", err)
	}
	if home.ID == away.ID {
		return nil, &ValidationError{Field: "fixture", Reason: "team cannot play itself"}
	}

	h := newSide(home)
	a := newSide(away)
	result := &MatchResult{HomeTeamID: home.ID, AwayTeamID: away.ID}

	homeChances := e.chanceCount(homeComp.Offense, awayComp.Defense, rng)
	awayChances := e.chanceCount(awayComp.Offense, homeComp.Defense, rng)

	// Regulation: interleave the two sides' chances so the late-and-close
	// clutch window sees an evolving score.
	total := homeChances + awayChances
	resolved := 0
	for i := 0; i < homeChances || i < awayChances; i++ {
		if i < homeChances {
			clutch := lateAndClose(resolved, total, h.score-a.score)
			if e.resolveChance(h, a, clutch, rng) {
				h.score++
			}
			resolved++
		}
		if i < awayChances {
			clutch := lateAndClose(resolved, total, a.score-h.score)
			if e.resolveChance(a, h, clutch, rng) {
				a.score++
			}
			resolved++
		}
	}

	// Overtime: golden goal, one chance at a time, clutch always on.
	if h.score == a.score {
		result.Overtime = true
		decided := false
		for i := 0; i < e.cfg.OvertimeCap && !decided; i++ {
			if e.resolveChance(h, a, true, rng) {
				h.score++
				decided = true
				break
			}
			if e.resolveChance(a, h, true, rng) {
				a.score++
				decided = true
			}
		}
		if !decided {
			// Recoverable fallback, never an abort: elevated fixed
			// conversion until someone scores, with a hard guarantee on
			// the final attempt.
			result.ForcedDecisive = true
			result.Events = append(result.Events, MatchEvent{
				Kind:    EventWarning,
				Message: fmt.Sprintf("overtime cap (%d) exceeded, forcing decisive chance", e.cfg.OvertimeCap),
			})
			for j := 0; ; j++ {
				p := e.cfg.ForcedConversion
				if j >= 8 {
					p = 1.0
				}
				if e.resolveForced(h, a, p, rng) {
					h.score++
					break
				}
				if e.resolveForced(a, h, p, rng) {
					a.score++
					break
				}
			}
		}
	}

	result.HomeScore = h.score
	result.AwayScore = a.score
	result.HomeLines = h.lines
	result.AwayLines = a.lines
	return result, nil
}

// chanceCount draws a Poisson-distributed scoring-chance count whose mean
// grows with the attacking offense relative to the defending defense.
func (e *MatchEngine) chanceCount(offense, defense float64, rng *rand.Rand) int {
	ratio := offense / math.Max(defense, 1)
	modifier := clampFloat(0.8+0.4*ratio, 0.5, 2.0)
	return samplePoisson(e.cfg.BaseChances*modifier, rng)
}

// samplePoisson draws from a Poisson distribution via inverse transform.
func samplePoisson(mean float64, rng *rand.Rand) int {
	if mean <= 0 {
		return 0
	}
	L := math.Exp(-mean)
	p := 1.0
	k := 0
	for p > L {
		k++
		p *= rng.Float64()
	}
	return k - 1
}

// resolveChance plays out one scoring chance for att against def and
// reports whether it became a goal. Stat lines are credited as it goes.
func (e *MatchEngine) resolveChance(att, def *side, clutch bool, rng *rand.Rand) bool {
	shooter := weightedPick(att.active, shooterWeights, -1, rng)
	att.lines[shooter].Shots++

	p := e.conversionProb(att.active[shooter], def.active)

	// Consistency variance: low consistency widens the per-chance swing.
	sigma := 0.4 * float64(100-att.active[shooter].Attributes[Consistency]) / 100
	mod := clampFloat(1+rng.NormFloat64()*sigma, 0.5, 1.5)
	p *= mod

	if clutch {
		p *= 1 + float64(att.active[shooter].Attributes[Clutch]-50)*0.005
	}
	p = clampFloat(p, 0.01, 0.95)

	if rng.Float64() < e.cfg.DemoChance {
		demo := weightedPick(def.active, demoWeights, -1, rng)
		def.lines[demo].Demos++
	}

	if rng.Float64() < p {
		att.lines[shooter].Goals++
		if rng.Float64() < e.cfg.AssistChance && len(att.active) > 1 {
			// Without replacement: the shooter cannot assist their own goal.
			assister := weightedPick(att.active, assistWeights, shooter, rng)
			att.lines[assister].Assists++
		}
		return true
	}

	saver := weightedPick(def.active, map[Attribute]float64{Saving: 1}, -1, rng)
	def.lines[saver].Saves++
	return false
}

// resolveForced is the overtime fallback: same attribution machinery with
// a fixed conversion probability.
func (e *MatchEngine) resolveForced(att, def *side, p float64, rng *rand.Rand) bool {
	shooter := weightedPick(att.active, shooterWeights, -1, rng)
	att.lines[shooter].Shots++
	if rng.Float64() < p {
		att.lines[shooter].Goals++
		return true
	}
	saver := weightedPick(def.active, map[Attribute]float64{Saving: 1}, -1, rng)
	def.lines[saver].Saves++
	return false
}

// conversionProb maps the shooter's finishing ability against the
// defending lineup's saving ability into a bounded probability. Negative
// differentials bias the result downward but never below the floor.
func (e *MatchEngine) conversionProb(shooter *Player, defenders []*Player) float64 {
	attack := float64(shooter.Attributes[Finishing])*0.4 +
		float64(shooter.Attributes[Shooting])*0.3 +
		float64(shooter.Attributes[Creativity])*0.2 +
		float64(shooter.Attributes[Aerial])*0.1

	var defend float64
	for _, d := range defenders {
		defend += float64(d.Attributes[Saving])*0.5 +
			float64(d.Attributes[Challenging])*0.3 +
			float64(d.Attributes[Positioning])*0.2
	}
	if len(defenders) > 0 {
		defend /= float64(len(defenders))
	}

	ratio := attack / math.Max(defend, 1)
	return clampFloat(e.cfg.BaseConversion*(0.5+0.5*ratio), 0.05, 0.60)
}

// lateAndClose reports whether the match state triggers the clutch window:
// final quarter of regulation with the margin within one goal.
func lateAndClose(resolved, total, diff int) bool {
	if total == 0 {
		return false
	}
	return resolved*4 >= total*3 && diff >= -1 && diff <= 1
}

// weightedPick selects a player index weighted by a composite table,
// optionally excluding one index so a single event never credits the same
// player twice.
func weightedPick(players []*Player, table map[Attribute]float64, exclude int, rng *rand.Rand) int {
	weights := make([]float64, len(players))
	var total float64
	for i, p := range players {
		if i == exclude {
			continue
		}
		w := weighted(p, table)
		if w <= 0 {
			w = 1 // all-zero attributes still get a uniform share
		}
		weights[i] = w
		total += w
	}
	r := rng.Float64() * total
	for i, w := range weights {
		if i == exclude || w == 0 {
			continue
		}
		r -= w
		if r <= 0 {
			return i
		}
	}
	for i := range players {
		if i != exclude {
			return i
		}
	}
	return 0
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
