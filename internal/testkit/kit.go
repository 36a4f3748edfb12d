// Package testkit generates deterministic synthetic catalogs with planted
// associations for tests and demos.
package testkit

import (
	"context"
	"fmt"
	"math/rand"

	"chorda/adapters/rng"
	"chorda/domain/core"
	"chorda/domain/table"
)

// Config controls the synthetic catalog.
type Config struct {
	Rows int
	Seed int64

	// ClassCoupling is the probability that the dependent categorical
	// follows its class-determined value instead of a uniform draw.
	// Higher coupling plants a stronger association.
	ClassCoupling float64
}

// DefaultConfig returns a catalog configuration with a strong planted
// association and enough rows for stable statistics.
func DefaultConfig() Config {
	return Config{Rows: 500, Seed: 42, ClassCoupling: 0.8}
}

// Generate builds the synthetic catalog:
//   - class:       three balanced categories
//   - morphology:  coupled to class with probability ClassCoupling
//   - band:        independent uniform categorical (null association)
//   - brightness:  standard-ish numeric base signal
//   - amplitude:   2*brightness + 3 plus noise (strong positive correlation)
//   - jitter:      independent numeric noise
func Generate(cfg Config) (*table.Table, error) {
	if cfg.Rows <= 0 {
		return nil, fmt.Errorf("testkit: rows must be positive, got %d", cfg.Rows)
	}
	if cfg.ClassCoupling == 0 {
		cfg.ClassCoupling = 0.8
	}

	adapter := rng.NewAdapter()
	r, err := adapter.SeededStream(context.Background(), "testkit-catalog", cfg.Seed)
	if err != nil {
		return nil, err
	}

	classes := []string{"class-i", "class-ii", "class-iii"}
	morphologies := []string{"periodic", "burster", "dipper"}
	bands := []string{"w1", "w2", "w3", "w4"}

	class := make([]string, cfg.Rows)
	morphology := make([]string, cfg.Rows)
	band := make([]string, cfg.Rows)
	brightness := make([]float64, cfg.Rows)
	amplitude := make([]float64, cfg.Rows)
	jitter := make([]float64, cfg.Rows)

	for i := 0; i < cfg.Rows; i++ {
		ci := r.Intn(len(classes))
		class[i] = classes[ci]

		if r.Float64() < cfg.ClassCoupling {
			morphology[i] = morphologies[ci]
		} else {
			morphology[i] = morphologies[r.Intn(len(morphologies))]
		}
		band[i] = bands[r.Intn(len(bands))]

		brightness[i] = gauss(r, 12, 2)
		amplitude[i] = 2*brightness[i] + 3 + gauss(r, 0, 0.5)
		jitter[i] = gauss(r, 0, 1)
	}

	return table.New(
		table.Column{Name: core.VariableKey("class"), Kind: table.KindCategorical, Labels: class},
		table.Column{Name: core.VariableKey("morphology"), Kind: table.KindCategorical, Labels: morphology},
		table.Column{Name: core.VariableKey("band"), Kind: table.KindCategorical, Labels: band},
		table.Column{Name: core.VariableKey("brightness"), Kind: table.KindNumeric, Values: brightness},
		table.Column{Name: core.VariableKey("amplitude"), Kind: table.KindNumeric, Values: amplitude},
		table.Column{Name: core.VariableKey("jitter"), Kind: table.KindNumeric, Values: jitter},
	)
}

func gauss(r *rand.Rand, mean, sd float64) float64 {
	return mean + sd*r.NormFloat64()
}
