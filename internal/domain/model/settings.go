package model

import (
	"fmt"
	"strings"
)

// Settings is the immutable configuration shared by every balancing component.
type Settings struct {
	PoolSize     int       // number of competitors
	EventCount   int       // number of scored events per competitor
	BracketCount int       // number of seed brackets, equal to the team size
	Weights      []float64 // per-bracket multipliers, top bracket first
}

// DefaultSettings mirrors a 128 player, 8 map, 4 seed tournament.
func DefaultSettings() Settings {
	return Settings{
		PoolSize:     128,
		EventCount:   8,
		BracketCount: 4,
		Weights:      []float64{1.0, 1.0, 1.1, 1.2},
	}
}

// TeamCount returns the number of teams the pool splits into.
func (s Settings) TeamCount() int {
	return s.PoolSize / s.BracketCount
}

// BracketSize returns the number of competitors per bracket.
func (s Settings) BracketSize() int {
	return s.PoolSize / s.BracketCount
}

// BracketOf returns the bracket index for a seed.
func (s Settings) BracketOf(seed int) int {
	return (seed - 1) / s.BracketSize()
}

// Validate checks the structural constraints of the configuration.
func (s Settings) Validate() error {
	switch {
	case s.PoolSize <= 0:
		return fmt.Errorf("%w: pool size must be positive, got %d", ErrInvalidConfiguration, s.PoolSize)
	case s.EventCount <= 0:
		return fmt.Errorf("%w: event count must be positive, got %d", ErrInvalidConfiguration, s.EventCount)
	case s.BracketCount <= 0:
		return fmt.Errorf("%w: bracket count must be positive, got %d", ErrInvalidConfiguration, s.BracketCount)
	case s.PoolSize%s.BracketCount != 0:
		return fmt.Errorf("%w: pool size %d is not divisible by bracket count %d", ErrInvalidConfiguration, s.PoolSize, s.BracketCount)
	case len(s.Weights) != s.BracketCount:
		return fmt.Errorf("%w: expected %d weights, got %d", ErrInvalidConfiguration, s.BracketCount, len(s.Weights))
	}
	for i, w := range s.Weights {
		if w <= 0 {
			return fmt.Errorf("%w: weight %d must be positive, got %g", ErrInvalidConfiguration, i, w)
		}
		if i > 0 && w < s.Weights[i-1] {
			return fmt.Errorf("%w: weights must not decrease, weight %d (%g) < weight %d (%g)",
				ErrInvalidConfiguration, i, w, i-1, s.Weights[i-1])
		}
	}
	return nil
}

// ValidatePool checks that pool matches the configuration: correct size,
// seeds exactly 1..PoolSize, and one event seed per event.
func (s Settings) ValidatePool(pool []Competitor) error {
	if len(pool) != s.PoolSize {
		return fmt.Errorf("%w: expected %d competitors, got %d", ErrMalformedInput, s.PoolSize, len(pool))
	}
	seen := make([]bool, s.PoolSize+1)
	for _, c := range pool {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: competitor with seed %d has no name", ErrMalformedInput, c.Seed)
		}
		if c.Seed < 1 || c.Seed > s.PoolSize {
			return fmt.Errorf("%w: seed %d of %q is outside 1..%d", ErrMalformedInput, c.Seed, c.Name, s.PoolSize)
		}
		if seen[c.Seed] {
			return fmt.Errorf("%w: duplicate seed %d (%q)", ErrMalformedInput, c.Seed, c.Name)
		}
		seen[c.Seed] = true
		if len(c.EventSeeds) != s.EventCount {
			return fmt.Errorf("%w: %q has %d event seeds, expected %d", ErrMalformedInput, c.Name, len(c.EventSeeds), s.EventCount)
		}
	}
	return nil
}
