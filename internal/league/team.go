package league

import "fmt"

// ActiveRosterSize is the number of players fielded in a match.
const ActiveRosterSize = 3

// Team represents a club competing in the league. The first three roster
// entries are the active lineup; an optional fourth is the substitute.
// Chemistry stays within [0,100] and Rating (Elo) stays strictly positive.
type Team struct {
	ID   string
	Name string

	// Roster order is meaningful: Roster[:3] is the active lineup.
	Roster []*Player

	Chemistry int
	Rating    float64
}

// ActiveRoster returns the fielded players. Callers must Validate first if
// the roster may be malformed.
func (t *Team) ActiveRoster() []*Player {
	if len(t.Roster) < ActiveRosterSize {
		return t.Roster
	}
	return t.Roster[:ActiveRosterSize]
}

// Substitute returns the bench player, or nil.
func (t *Team) Substitute() *Player {
	if len(t.Roster) > ActiveRosterSize {
		return t.Roster[ActiveRosterSize]
	}
	return nil
}

// Validate checks the roster-size invariant (exactly 3 active, at most one
// substitute) and every player on it.
func (t *Team) Validate() error {
	if t.ID == "" {
		return &ValidationError{Field: "team.id", Reason: "empty"}
	}
	if n := len(t.Roster); n < ActiveRosterSize || n > ActiveRosterSize+1 {
		return &ValidationError{
			Field:  "team.roster",
			Reason: fmt.Sprintf("need 3 active players and at most 1 substitute, got %d", n),
		}
	}
	seen := make(map[string]bool, len(t.Roster))
	for _, p := range t.Roster {
		if p == nil {
			return &ValidationError{Field: "team.roster", Reason: "nil player"}
		}
		if err := p.Validate(); err != nil {
			return err
		}
		if seen[p.ID] {
			return &ValidationError{Field: "team.roster", Reason: "duplicate player " + p.ID}
		}
		seen[p.ID] = true
	}
	if t.Chemistry < 0 || t.Chemistry > 100 {
		return &ValidationError{Field: "team.chemistry", Reason: fmt.Sprintf("out of range [0,100]: %d", t.Chemistry)}
	}
	if t.Rating <= 0 {
		return &ValidationError{Field: "team.rating", Reason: fmt.Sprintf("must be positive, got %v", t.Rating)}
	}
	return nil
}

// Clone deep-copies the team and its roster.
func (t *Team) Clone() *Team {
	cp := *t
	cp.Roster = make([]*Player, len(t.Roster))
	for i, p := range t.Roster {
		cp.Roster[i] = p.Clone()
	}
	return &cp
}

// activeIDs returns the active-roster player ids in roster order. This is
// the roster signature the chemistry tracker compares week over week.
func (t *Team) activeIDs() []string {
	ids := make([]string, 0, ActiveRosterSize)
	for _, p := range t.ActiveRoster() {
		ids = append(ids, p.ID)
	}
	return ids
}
