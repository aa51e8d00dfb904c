package league

// Chemistry tuning constants.
const (
	chemistryGrowthStep  = 2  // gained per week with a stable active roster
	chemistryPenaltyFull = 30 // lost when the entire active roster changes
)

// ChemistryTracker tracks per-team roster stability. A stable active roster
// grows chemistry toward 100 by a capped step each processed week; a change
// drops it by a penalty proportional to the fraction of the roster swapped.
type ChemistryTracker struct {
	lastActive map[string][]string
}

func NewChemistryTracker() *ChemistryTracker {
	return &ChemistryTracker{lastActive: make(map[string][]string)}
}

// Observe processes one week for a team, mutating its chemistry score.
// The first observation establishes the signature without a bonus or
// penalty.
func (c *ChemistryTracker) Observe(t *Team) {
	current := t.activeIDs()
	prev, ok := c.lastActive[t.ID]
	c.lastActive[t.ID] = current

	if !ok {
		return
	}

	changed := changedFraction(prev, current)
	if changed == 0 {
		t.Chemistry = min(100, t.Chemistry+chemistryGrowthStep)
		return
	}
	penalty := int(changed*chemistryPenaltyFull + 0.5)
	t.Chemistry = max(0, t.Chemistry-penalty)
}

// Adjust scales composite ratings by chemistry: 0.9x at chemistry 0, 1.1x
// at chemistry 100. Applied immediately before match simulation.
func Adjust(c Composite, chemistry int) Composite {
	scale := 0.9 + 0.2*float64(chemistry)/100
	return Composite{Offense: c.Offense * scale, Defense: c.Defense * scale}
}

// changedFraction returns the fraction of the previous active roster no
// longer present.
func changedFraction(prev, current []string) float64 {
	if len(prev) == 0 {
		return 0
	}
	cur := make(map[string]bool, len(current))
	for _, id := range current {
		cur[id] = true
	}
	removed := 0
	for _, id := range prev {
		if !cur[id] {
			removed++
		}
	}
	return float64(removed) / float64(len(prev))
}
