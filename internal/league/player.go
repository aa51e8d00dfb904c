package league

import "fmt"

// HiddenAttributes govern development curves and are fixed at creation.
// They are never exposed to gameplay display and only the development
// engine reads them.
type HiddenAttributes struct {
	Potential    int
	Ambition     int
	Adaptability int
}

// PlayerStats accumulates a player's stat lines over a season.
type PlayerStats struct {
	Games   int
	Goals   int
	Assists int
	Saves   int
	Shots   int
	Demos   int
}

func (s *PlayerStats) add(line PlayerLine) {
	s.Games++
	s.Goals += line.Goals
	s.Assists += line.Assists
	s.Saves += line.Saves
	s.Shots += line.Shots
	s.Demos += line.Demos
}

// Player is a competitor on a team roster. Visible attributes stay within
// [0,100] after every mutation; the development engine is the only writer.
type Player struct {
	ID         string
	Name       string
	Age        int
	Attributes [NumAttributes]int
	Hidden     HiddenAttributes

	SeasonStats PlayerStats
}

// Validate fails fast on malformed player data.
func (p *Player) Validate() error {
	if p.ID == "" {
		return &ValidationError{Field: "player.id", Reason: "empty"}
	}
	if p.Age <= 0 {
		return &ValidationError{Field: "player.age", Reason: fmt.Sprintf("must be positive, got %d", p.Age)}
	}
	for a, v := range p.Attributes {
		if v < 0 || v > 100 {
			return &ValidationError{
				Field:  "player." + Attribute(a).String(),
				Reason: fmt.Sprintf("out of range [0,100]: %d", v),
			}
		}
	}
	for _, h := range []struct {
		name string
		val  int
	}{
		{"potential", p.Hidden.Potential},
		{"ambition", p.Hidden.Ambition},
		{"adaptability", p.Hidden.Adaptability},
	} {
		if h.val < 0 || h.val > 100 {
			return &ValidationError{
				Field:  "player.hidden." + h.name,
				Reason: fmt.Sprintf("out of range [0,100]: %d", h.val),
			}
		}
	}
	return nil
}

// Clone deep-copies the player. Used by the balance runner so parallel
// seasons share no mutable state.
func (p *Player) Clone() *Player {
	cp := *p
	return &cp
}

// ResetSeasonStats zeroes the per-season counters at a season boundary.
func (p *Player) ResetSeasonStats() {
	p.SeasonStats = PlayerStats{}
}
