package league

import (
	"math"
	"math/rand"
)

// DevelopmentConfig tunes the season-boundary growth and decline curves.
type DevelopmentConfig struct {
	// PeakAge is the threshold: growth below it, decline at or beyond.
	PeakAge int
	// GrowthBase scales positive deltas for players under peak age.
	GrowthBase float64
	// DeclineBase scales the per-year decline past peak.
	DeclineBase float64
	// JitterScale is the base standard deviation of per-attribute jitter.
	JitterScale float64
	// JitterBound hard-limits jitter magnitude.
	JitterBound float64
}

func DefaultDevelopmentConfig() DevelopmentConfig {
	return DevelopmentConfig{
		PeakAge:     24,
		GrowthBase:  4,
		DeclineBase: 1.5,
		JitterScale: 1.0,
		JitterBound: 3,
	}
}

// DevelopmentChange records one attribute mutation for event consumers.
type DevelopmentChange struct {
	PlayerID  string
	Attribute Attribute
	From      int
	To        int
}

// DevelopmentEngine mutates players' visible attributes at season
// boundaries. Hidden attributes are never written; adaptability only
// modulates the jitter variance.
type DevelopmentEngine struct {
	cfg DevelopmentConfig
}

func NewDevelopmentEngine(cfg DevelopmentConfig) *DevelopmentEngine {
	return &DevelopmentEngine{cfg: cfg}
}

// RunDevelopment runs the default-configured engine over the players.
func RunDevelopment(players []*Player, rng *rand.Rand) []DevelopmentChange {
	return NewDevelopmentEngine(DefaultDevelopmentConfig()).Run(players, rng)
}

// Mechanical attributes decline faster than game sense with age.
var declineWeights = func() [NumAttributes]float64 {
	var w [NumAttributes]float64
	for i := range w {
		w[i] = 0.5
	}
	for _, a := range []Attribute{Aerial, GroundControl, Shooting, AdvancedMechanics, Recovery, CarControl, Speed} {
		w[a] = 1.0
	}
	return w
}()

// Run ages every player one year and applies the per-attribute growth or
// decline curve plus bounded jitter. Every resulting attribute is clamped
// to [0,100]; season stat counters are reset for the new season.
func (e *DevelopmentEngine) Run(players []*Player, rng *rand.Rand) []DevelopmentChange {
	var changes []DevelopmentChange
	for _, p := range players {
		p.Age++
		changes = append(changes, e.developPlayer(p, rng)...)
		p.ResetSeasonStats()
	}
	return changes
}

func (e *DevelopmentEngine) developPlayer(p *Player, rng *rand.Rand) []DevelopmentChange {
	var changes []DevelopmentChange

	ambition := float64(p.Hidden.Ambition) / 50
	adaptMod := 0.8 + 0.4*float64(p.Hidden.Adaptability)/100
	// Jitter spread shrinks as adaptability rises.
	sigma := e.cfg.JitterScale * float64(150-p.Hidden.Adaptability) / 100

	for a := Attribute(0); int(a) < NumAttributes; a++ {
		current := p.Attributes[a]

		var delta float64
		if p.Age < e.cfg.PeakAge {
			headroom := p.Hidden.Potential - current
			if headroom > 0 {
				delta = e.cfg.GrowthBase * growthAgeFactor(p.Age) * (float64(headroom) / 50) * ambition * adaptMod
			}
		} else {
			yearsPast := float64(p.Age-e.cfg.PeakAge) + 1
			delta = -e.cfg.DeclineBase * yearsPast * declineWeights[a]
		}

		jitter := clampFloat(rng.NormFloat64()*sigma, -e.cfg.JitterBound, e.cfg.JitterBound)

		next := current + int(math.Round(delta+jitter))
		if p.Age < e.cfg.PeakAge {
			// Growth cannot push an attribute past potential, but an
			// attribute already above it is left where it is.
			if ceiling := max(current, p.Hidden.Potential); next > ceiling {
				next = ceiling
			}
		}
		next = min(100, max(0, next))

		if next != current {
			p.Attributes[a] = next
			changes = append(changes, DevelopmentChange{
				PlayerID: p.ID, Attribute: a, From: current, To: next,
			})
		}
	}
	return changes
}

// growthAgeFactor mirrors the age curve: the youngest players improve
// fastest, with growth tapering toward peak age.
func growthAgeFactor(age int) float64 {
	switch {
	case age < 17:
		return 1.5
	case age < 19:
		return 1.3
	case age < 21:
		return 1.1
	default:
		return 1.0
	}
}
