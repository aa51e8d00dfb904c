package league

// Attribute identifies one of the 20 visible player attributes.
// The zero-based values double as indexes into Player.Attributes.
type Attribute int

const (
	// Mechanical skills
	Aerial Attribute = iota
	GroundControl
	Shooting
	AdvancedMechanics
	Recovery
	CarControl
	// Game sense
	Positioning
	GameReading
	DecisionMaking
	Passing
	BoostManagement
	// Defensive / offensive
	Saving
	Challenging
	Finishing
	Creativity
	// Meta
	Speed
	Consistency
	Clutch
	Mental
	Teamwork

	NumAttributes int = iota
)

var attributeNames = [NumAttributes]string{
	"aerial", "ground_control", "shooting", "advanced_mechanics", "recovery",
	"car_control", "positioning", "game_reading", "decision_making", "passing",
	"boost_management", "saving", "challenging", "finishing", "creativity",
	"speed", "consistency", "clutch", "mental", "teamwork",
}

func (a Attribute) String() string {
	if a < 0 || int(a) >= NumAttributes {
		return "unknown"
	}
	return attributeNames[a]
}

// Composite holds a team's aggregated offense and defense scores.
type Composite struct {
	Offense float64
	Defense float64
}

// Weight tables for composite aggregation. Keyed by attribute so the
// calibration constants live in one place.
var offenseWeights = map[Attribute]float64{
	Finishing:     0.30,
	Shooting:      0.25,
	Creativity:    0.20,
	Aerial:        0.15,
	GroundControl: 0.10,
}

var defenseWeights = map[Attribute]float64{
	Saving:      0.35,
	Challenging: 0.25,
	Positioning: 0.25,
	GameReading: 0.15,
}

// Shot selection and attribution weights, used by the match engine when
// crediting events to individual players.
var shooterWeights = map[Attribute]float64{
	Finishing:  0.4,
	Shooting:   0.3,
	Creativity: 0.3,
}

var assistWeights = map[Attribute]float64{
	Passing:     0.5,
	Creativity:  0.3,
	GameReading: 0.2,
}

var demoWeights = map[Attribute]float64{
	Challenging: 0.6,
	Speed:       0.4,
}

// weighted returns the weighted sum of a player's attributes for a table.
// Iterates in attribute order, not map order: float summation order must be
// fixed for results to be bit-reproducible.
func weighted(p *Player, table map[Attribute]float64) float64 {
	var sum float64
	for a := Attribute(0); int(a) < NumAttributes; a++ {
		if w, ok := table[a]; ok {
			sum += float64(p.Attributes[a]) * w
		}
	}
	return sum
}

// TeamComposite aggregates the active roster into offense/defense composites.
// Pure function of roster state: no randomness, no mutation.
func TeamComposite(active []*Player) Composite {
	if len(active) == 0 {
		return Composite{}
	}
	var c Composite
	for _, p := range active {
		c.Offense += weighted(p, offenseWeights)
		c.Defense += weighted(p, defenseWeights)
	}
	c.Offense /= float64(len(active))
	c.Defense /= float64(len(active))
	return c
}
