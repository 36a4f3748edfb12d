package measures

import (
	"math"

	"chorda/domain/assoc"
	"chorda/domain/core"
	"chorda/domain/table"

	"github.com/montanaflynn/stats"
)

// Pearson computes the Pearson correlation coefficient for two equal-length
// numeric series. A zero-variance series yields 0 (no variation to explain).
func Pearson(x, y []float64) (float64, error) {
	if err := checkPaired("pearson", len(x), len(y)); err != nil {
		return 0, err
	}

	n := float64(len(x))
	sumX, sumY := 0.0, 0.0
	sumXY, sumX2, sumY2 := 0.0, 0.0, 0.0

	for i := 0; i < len(x); i++ {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
		sumY2 += y[i] * y[i]
	}

	numerator := n*sumXY - sumX*sumY
	denominator := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))

	if denominator == 0 {
		return 0, nil
	}

	r := numerator / denominator
	// Guard float drift past the theoretical bounds.
	if r > 1 {
		r = 1
	}
	if r < -1 {
		r = -1
	}
	return r, nil
}

// Standardize centers a series and scales it to unit variance (z-score).
// A constant series standardizes to all zeros rather than dividing by zero.
func Standardize(v []float64) []float64 {
	mean, _ := stats.Mean(v)
	sd, _ := stats.StandardDeviationSample(v)

	out := make([]float64, len(v))
	if sd == 0 || math.IsNaN(sd) {
		return out
	}
	for i, x := range v {
		out[i] = (x - mean) / sd
	}
	return out
}

// PearsonMatrix computes the symmetric Pearson correlation matrix over the
// given numeric columns. When standardize is set each column is z-scored
// first; the coefficient itself is scale-invariant, but the columns compared
// here carry incompatible units, and any downstream width comparison across
// metrics would mislead if raw values leaked into other uses. The result is
// a signed matrix with unit diagonal.
func PearsonMatrix(columns []table.Column, standardize bool) (*assoc.Matrix, error) {
	if len(columns) == 0 {
		return nil, core.ErrEmptyInput
	}

	series := make([][]float64, len(columns))
	entities := make([]string, len(columns))
	n := columns[0].Len()
	for i, c := range columns {
		if c.Kind != table.KindNumeric {
			return nil, core.NewValidationError(string(c.Name), "pearson requires numeric columns")
		}
		if c.Len() != n {
			return nil, core.NewShapeMismatchError("pearson matrix", n, c.Len())
		}
		entities[i] = string(c.Name)
		if standardize {
			series[i] = Standardize(c.Values)
		} else {
			series[i] = c.Values
		}
	}

	m := assoc.NewMatrix("pearson", entities)
	m.Signed = true
	for i := 0; i < len(series); i++ {
		for j := i + 1; j < len(series); j++ {
			r, err := Pearson(series[i], series[j])
			if err != nil {
				return nil, err
			}
			m.Set(i, j, r)
			m.Set(j, i, r)
		}
	}
	return m, nil
}
