// Package draft builds the initial team assignment with a serpentine draft.
package draft

import (
	"fmt"
	"sort"

	"github.com/okian/teambalance/internal/domain/model"
)

// Assemble validates the pool and splits it into teams. Bracket i is dealt to
// teams in ascending order when i is even and descending order when i is odd,
// so team k holds the bracket-i member at position i.
func Assemble(s model.Settings, pool []model.Competitor) (model.TeamSet, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := s.ValidatePool(pool); err != nil {
		return nil, err
	}

	ranked := make([]model.Competitor, len(pool))
	copy(ranked, pool)
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Seed < ranked[j].Seed })

	count := s.TeamCount()
	teams := make(model.TeamSet, count)
	for k := range teams {
		teams[k].Members = make([]model.Competitor, 0, s.BracketCount)
	}
	for i := 0; i < s.BracketCount; i++ {
		for j := 0; j < count; j++ {
			index := j
			if i%2 == 1 {
				index = count - j - 1
			}
			teams[index].Members = append(teams[index].Members, ranked[count*i+j])
		}
	}
	return teams, nil
}

// CheckPositions verifies that position i of every team holds a bracket-i
// member and that the teams still partition a pool of s.PoolSize.
func CheckPositions(s model.Settings, teams model.TeamSet) error {
	if len(teams) != s.TeamCount() {
		return fmt.Errorf("%w: expected %d teams, got %d", model.ErrMalformedInput, s.TeamCount(), len(teams))
	}
	seen := make(map[int]bool, s.PoolSize)
	for k, t := range teams {
		if t.Size() != s.BracketCount {
			return fmt.Errorf("%w: team %d has %d members, expected %d", model.ErrMalformedInput, k, t.Size(), s.BracketCount)
		}
		for pos, c := range t.Members {
			if b := s.BracketOf(c.Seed); b != pos {
				return fmt.Errorf("%w: team %d position %d holds seed %d from bracket %d", model.ErrMalformedInput, k, pos, c.Seed, b)
			}
			if seen[c.Seed] {
				return fmt.Errorf("%w: seed %d assigned twice", model.ErrMalformedInput, c.Seed)
			}
			seen[c.Seed] = true
		}
	}
	return nil
}
