// Package rng provides the deterministic random-source adapter behind
// ports.RNGPort.
package rng

import (
	"context"
	"math/rand"
)

// Adapter implements ports.RNGPort with plain seeded math/rand sources.
type Adapter struct{}

// NewAdapter creates the default RNG adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// SeededStream creates a deterministic random number generator for a named
// operation.
func (a *Adapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	return rand.New(rand.NewSource(seed)), nil
}

// Stream creates a deterministic RNG stream for a specific
// scope/stage/key combination. The sub-seed is derived by hashing the
// identifiers onto the base seed, so identical inputs yield identical
// streams independent of call order or worker scheduling.
func (a *Adapter) Stream(ctx context.Context, scope, stage, key string, baseSeed int64) (*rand.Rand, error) {
	seed := baseSeed
	if scope != "" {
		seed += int64(hashString(scope))
	}
	if stage != "" {
		seed += int64(hashString(stage))
	}
	if key != "" {
		seed += int64(hashString(key)) * 0x9E3779B9
	}
	return rand.New(rand.NewSource(seed)), nil
}

// hashString creates a simple djb2 hash for deterministic seeding.
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c)
	}
	return hash
}
