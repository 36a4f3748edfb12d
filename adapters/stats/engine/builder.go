// Package engine assembles pairwise statistics into association matrices
// and augments them with bootstrap confidence intervals.
package engine

import (
	"context"
	"fmt"
	"log"
	"math"

	"chorda/domain/assoc"
	"chorda/domain/core"
	"chorda/domain/table"
	"chorda/internal/bootstrap"
)

// PairwiseFunc computes the association statistic for an ordered entity
// pair. It is never called for i == j: the diagonal is 1.0 by convention,
// since some statistics are ill-defined or trivially saturated on a
// variable against itself.
type PairwiseFunc func(nameI, nameJ string) (float64, error)

// BuildOptions controls the non-finite-value policy. The default coerces
// NaN/Inf to 0 and records a warning on the matrix; Strict surfaces the
// instability as an error instead.
type BuildOptions struct {
	Strict bool
}

// BuildMatrix evaluates pairwise over every ordered entity pair and
// guarantees a square, finite matrix with unit diagonal. Symmetry holds
// whenever pairwise is symmetric in its arguments; the builder does not
// enforce it, so an asymmetric statistic propagates its asymmetry.
func BuildMatrix(measure string, entities []string, pairwise PairwiseFunc, opts BuildOptions) (*assoc.Matrix, error) {
	if len(entities) == 0 {
		return nil, core.ErrEmptyInput
	}

	m := assoc.NewMatrix(measure, entities)
	for i, nameI := range entities {
		for j, nameJ := range entities {
			if i == j {
				continue
			}
			v, err := pairwise(nameI, nameJ)
			if err != nil {
				return nil, err
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				if opts.Strict {
					return nil, fmt.Errorf("%w: %s(%s, %s)", core.ErrNumericInstability, measure, nameI, nameJ)
				}
				log.Printf("[Engine] coerced non-finite %s(%s, %s) to 0", measure, nameI, nameJ)
				m.AddWarning(nameI, nameJ, "non-finite statistic coerced to 0")
				v = 0
			}
			m.Set(i, j, v)
		}
	}
	return m, nil
}

// CategoricalMatrix builds an association matrix over the named categorical
// columns of a table using the given contingency-based measure.
func CategoricalMatrix(t *table.Table, measure string, names []core.VariableKey, fn func(x, y []string) (float64, error), opts BuildOptions) (*assoc.Matrix, error) {
	entities := make([]string, len(names))
	for i, n := range names {
		entities[i] = string(n)
	}
	return BuildMatrix(measure, entities, func(nameI, nameJ string) (float64, error) {
		x, err := t.Categorical(core.VariableKey(nameI))
		if err != nil {
			return 0, err
		}
		y, err := t.Categorical(core.VariableKey(nameJ))
		if err != nil {
			return 0, err
		}
		return fn(x, y)
	}, opts)
}

// AttachIntervals augments every off-diagonal cell of a categorical
// association matrix with a bootstrap percentile interval. Point estimates
// are never altered. This is by far the most expensive call in the
// pipeline: O(resamples × N) per pair.
func AttachIntervals(ctx context.Context, m *assoc.Matrix, t *table.Table, fn func(x, y []string) (float64, error), est *bootstrap.Estimator, opts bootstrap.Options) error {
	for i := 0; i < m.Dim(); i++ {
		for j := i + 1; j < m.Dim(); j++ {
			x, err := t.Categorical(core.VariableKey(m.Entities[i]))
			if err != nil {
				return err
			}
			y, err := t.Categorical(core.VariableKey(m.Entities[j]))
			if err != nil {
				return err
			}
			pairOpts := opts
			pairOpts.StreamKey = m.Entities[i] + "|" + m.Entities[j]
			ci, err := est.Interval(ctx, len(x), bootstrap.CategoricalStat(x, y, fn), pairOpts)
			if err != nil {
				return err
			}
			m.SetInterval(i, j, ci)
		}
	}
	return nil
}
