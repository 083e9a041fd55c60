// Package poolgen builds synthetic qualifier pools for tests and local runs.
package poolgen

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/google/uuid"
	"github.com/okian/teambalance/internal/domain/model"
)

// Default generation parameters.
const (
	defaultSeed        = 42
	defaultNoise       = 8.0
	defaultMinTimezone = -12
	defaultMaxTimezone = 14
	nameIDLength       = 8
)

// Option applies a configuration option to the generator.
type Option func(*generator)

// WithSeed sets the random seed; equal seeds produce equal pools.
func WithSeed(seed int64) Option {
	return func(g *generator) {
		g.seed = seed
	}
}

// WithNoise sets how far event ranks drift from the overall seed.
// Zero makes every event seed equal to the overall seed.
func WithNoise(noise float64) Option {
	return func(g *generator) {
		if noise >= 0 {
			g.noise = noise
		}
	}
}

// WithTimezoneRange bounds the generated UTC offsets (inclusive).
func WithTimezoneRange(minOffset, maxOffset int) Option {
	return func(g *generator) {
		if maxOffset >= minOffset {
			g.minTZ = minOffset
			g.maxTZ = maxOffset
		}
	}
}

type generator struct {
	seed  int64
	noise float64
	minTZ int
	maxTZ int
}

// Generate returns a pool matching s: seeds 1..PoolSize, one rank per event
// (each event's ranks form a permutation of 1..PoolSize) and a UTC offset.
func Generate(s model.Settings, opts ...Option) []model.Competitor {
	g := &generator{
		seed:  defaultSeed,
		noise: defaultNoise,
		minTZ: defaultMinTimezone,
		maxTZ: defaultMaxTimezone,
	}
	for _, opt := range opts {
		opt(g)
	}
	rng := rand.New(rand.NewSource(g.seed)) //nolint:gosec // deterministic pools for reproducible runs

	pool := make([]model.Competitor, s.PoolSize)
	for i := range pool {
		id, err := uuid.NewRandomFromReader(rng)
		name := fmt.Sprintf("player-%03d", i+1)
		if err == nil {
			name = "player-" + id.String()[:nameIDLength]
		}
		pool[i] = model.Competitor{
			Name:       name,
			Seed:       i + 1,
			EventSeeds: make([]int, s.EventCount),
			Timezone:   float64(g.minTZ + rng.Intn(g.maxTZ-g.minTZ+1)),
		}
	}

	keys := make([]float64, s.PoolSize)
	order := make([]int, s.PoolSize)
	for e := 0; e < s.EventCount; e++ {
		for i := range pool {
			keys[i] = float64(pool[i].Seed) + rng.NormFloat64()*g.noise
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool { return keys[order[a]] < keys[order[b]] })
		for rank, idx := range order {
			pool[idx].EventSeeds[e] = rank + 1
		}
	}
	return pool
}
