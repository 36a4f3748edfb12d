package engine

import (
	"chorda/domain/assoc"

	"github.com/montanaflynn/stats"
)

// MarginalPredicate decides whether an entity survives a matrix reduction,
// given its marginal mass.
type MarginalPredicate func(marginal float64) bool

// Reduce returns the sub-matrix over entities whose marginal satisfies the
// predicate, preserving order. The reduced matrix is a fresh value: feeding
// it through the same layout call recomputes marginals and normalization on
// the reduced set, so proportions stay meaningful within the zoomed view.
// Attached intervals and warnings for surviving pairs are carried over.
func Reduce(m *assoc.Matrix, keep MarginalPredicate) *assoc.Matrix {
	var idx []int
	var entities []string
	for i := range m.Entities {
		if keep(m.Marginal(i)) {
			idx = append(idx, i)
			entities = append(entities, m.Entities[i])
		}
	}

	out := assoc.NewMatrix(m.Measure, entities)
	out.Signed = m.Signed
	for a, i := range idx {
		for b, j := range idx {
			if a == b {
				continue
			}
			out.Set(a, b, m.At(i, j))
			if ci, ok := m.Interval(i, j); ok {
				out.SetInterval(a, b, ci)
			}
		}
	}
	for _, w := range m.Warnings {
		if containsEntity(entities, w.EntityX) && containsEntity(entities, w.EntityY) {
			out.Warnings = append(out.Warnings, w)
		}
	}
	return out
}

// BelowMedian is the rare-category focus predicate: it keeps entities whose
// marginal falls strictly below the median marginal.
func BelowMedian(m *assoc.Matrix) MarginalPredicate {
	marginals := make([]float64, m.Dim())
	for i := range marginals {
		marginals[i] = m.Marginal(i)
	}
	median, _ := stats.Median(marginals)
	return func(marginal float64) bool {
		return marginal < median
	}
}

func containsEntity(entities []string, e string) bool {
	for _, x := range entities {
		if x == e {
			return true
		}
	}
	return false
}
