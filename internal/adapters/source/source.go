// Package source reads and writes qualifier pool files.
//
// The file shape is the qualifier export:
//
//	{"Players": [{"Name": "...", "Seed": 1, "Map seeds": [3, 1], "Time zone": -5}]}
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/okian/teambalance/internal/domain/model"
	"github.com/okian/teambalance/pkg/logger"
)

// filePayload mirrors the qualifier export document.
type filePayload struct {
	Players []playerRecord `json:"Players"`
}

type playerRecord struct {
	Name       string  `json:"Name"`
	Seed       int     `json:"Seed"`
	EventSeeds []int   `json:"Map seeds"`
	Timezone   float64 `json:"Time zone"`
}

// LoadFile reads the pool at path.
func LoadFile(ctx context.Context, path string) ([]model.Competitor, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadPool, err)
	}
	defer func() { _ = f.Close() }()

	pool, err := Decode(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Get().Info(ctx, "pool loaded", logger.String("path", path), logger.Int("competitors", len(pool)))
	return pool, nil
}

// Decode parses a pool document and returns competitors sorted by seed.
// Structural checks against the tournament shape are left to
// model.Settings.ValidatePool.
func Decode(_ context.Context, r io.Reader) ([]model.Competitor, error) {
	var payload filePayload
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodePool, err)
	}
	if payload.Players == nil {
		return nil, fmt.Errorf("%w: missing Players", ErrDecodePool)
	}

	pool := make([]model.Competitor, len(payload.Players))
	for i, p := range payload.Players {
		seeds := make([]int, len(p.EventSeeds))
		copy(seeds, p.EventSeeds)
		pool[i] = model.Competitor{
			Name:       p.Name,
			Seed:       p.Seed,
			EventSeeds: seeds,
			Timezone:   p.Timezone,
		}
	}
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].Seed < pool[j].Seed })
	return pool, nil
}

// Encode writes pool in the qualifier export shape.
func Encode(w io.Writer, pool []model.Competitor) error {
	payload := filePayload{Players: make([]playerRecord, len(pool))}
	for i, c := range pool {
		payload.Players[i] = playerRecord{
			Name:       c.Name,
			Seed:       c.Seed,
			EventSeeds: c.EventSeeds,
			Timezone:   c.Timezone,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("encode pool: %w", err)
	}
	return nil
}
