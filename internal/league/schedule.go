package league

// BuildSchedule produces a double round-robin fixture calendar via the
// circle method: each team plays every other twice (once home, once away),
// no team appears twice in the same week, and the output is fully
// determined by the team list order. Fixture ids ascend in schedule order.
func BuildSchedule(teams []*Team) ([]*Fixture, error) {
	if len(teams) < 2 {
		return nil, &ValidationError{Field: "teams", Reason: "need at least 2 teams"}
	}
	seen := make(map[string]bool, len(teams))
	for _, t := range teams {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if seen[t.ID] {
			return nil, &ValidationError{Field: "teams", Reason: "duplicate team " + t.ID}
		}
		seen[t.ID] = true
	}

	// Work on a copy: rotation must not reorder the caller's slice. An odd
	// team count gets a nil bye slot.
	ring := make([]*Team, len(teams))
	copy(ring, teams)
	if len(ring)%2 != 0 {
		ring = append(ring, nil)
	}
	n := len(ring)
	weeksPerHalf := n - 1

	var fixtures []*Fixture
	id := 1
	for round := 0; round < weeksPerHalf; round++ {
		for j := 0; j < n/2; j++ {
			home, away := ring[j], ring[n-1-j]
			if home == nil || away == nil {
				continue // bye
			}
			fixtures = append(fixtures, &Fixture{
				ID:     id,
				HomeID: home.ID,
				AwayID: away.ID,
				Week:   round + 1,
			})
			id++
		}
		// Rotate all but the first element.
		last := ring[n-1]
		copy(ring[2:], ring[1:n-1])
		ring[1] = last
	}

	// Second half mirrors the first with home and away swapped.
	firstHalf := len(fixtures)
	for i := 0; i < firstHalf; i++ {
		f := fixtures[i]
		fixtures = append(fixtures, &Fixture{
			ID:     id,
			HomeID: f.AwayID,
			AwayID: f.HomeID,
			Week:   f.Week + weeksPerHalf,
		})
		id++
	}
	return fixtures, nil
}
