// Package model contains domain models passed between layers.
package model

// Competitor is a ranked entrant of the pool. Values are never mutated after
// they are loaded; teams hold copies and only change which competitor sits at
// a position.
type Competitor struct {
	Name       string  // display name, e.g. qualifier username
	Seed       int     // overall rank in the pool, 1 = best
	EventSeeds []int   // per-event rank, one entry per scored event
	Timezone   float64 // UTC offset in hours
}

// Team is an ordered list of competitors. Position i always holds the member
// drafted from bracket i.
type Team struct {
	Members []Competitor
}

// Clone returns a copy of the team whose member slice can be mutated freely.
func (t Team) Clone() Team {
	members := make([]Competitor, len(t.Members))
	copy(members, t.Members)
	return Team{Members: members}
}

// Size returns the number of members.
func (t Team) Size() int {
	return len(t.Members)
}

// TeamSet is the full assignment of the pool into teams.
type TeamSet []Team

// Clone returns a deep copy; trials run on clones so that a discarded trial
// never leaks into the committed state.
func (ts TeamSet) Clone() TeamSet {
	out := make(TeamSet, len(ts))
	for i, t := range ts {
		out[i] = t.Clone()
	}
	return out
}

// Swap exchanges the members at position pos between teams a and b.
// Applying the same swap twice restores the original assignment.
func (ts TeamSet) Swap(a, b, pos int) {
	ts[a].Members[pos], ts[b].Members[pos] = ts[b].Members[pos], ts[a].Members[pos]
}

// Names returns every member name in team order.
func (ts TeamSet) Names() []string {
	var names []string
	for _, t := range ts {
		for _, c := range t.Members {
			names = append(names, c.Name)
		}
	}
	return names
}

// Len returns the total number of competitors across all teams.
func (ts TeamSet) Len() int {
	n := 0
	for _, t := range ts {
		n += len(t.Members)
	}
	return n
}
