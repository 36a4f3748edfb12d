package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic
// resampling. Determinism is a regression-testing requirement, not a
// security property.
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a
	// named operation.
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// Stream creates a deterministic RNG stream for a specific
	// operation/key combination. Identical (scope, stage, key, baseSeed)
	// inputs always yield identical streams, independent of call order.
	Stream(ctx context.Context, scope, stage, key string, baseSeed int64) (*rand.Rand, error)
}
