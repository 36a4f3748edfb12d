// Package measures implements the pairwise association statistics: Cramér's
// V and the Phi coefficient for categorical series, the chi-squared test of
// independence they are built on, and Pearson correlation for numeric
// series.
package measures

import (
	"math"

	"chorda/domain/assoc"
	"chorda/domain/core"

	"gonum.org/v1/gonum/stat/distuv"
)

// Chi2Result holds the outcome of a chi-squared independence test.
type Chi2Result struct {
	Stat float64 `json:"chi_square"`
	P    float64 `json:"p_value"`
	DF   int     `json:"dof"`

	// Degenerate is set when a contingency dimension collapsed to a single
	// category. Stat and P are NaN in that case; this is a warning state,
	// not an error.
	Degenerate bool `json:"degenerate,omitempty"`
}

// chiSquare computes the observed-vs-expected chi-squared statistic over all
// cells of a contingency table, with expected counts from the row/column
// marginals.
func chiSquare(ct *assoc.ContingencyTable) float64 {
	rowTotals := ct.RowTotals()
	colTotals := ct.ColTotals()
	total := float64(ct.N)

	stat := 0.0
	for r := range ct.Counts {
		for c := range ct.Counts[r] {
			expected := float64(rowTotals[r]*colTotals[c]) / total
			if expected > 0 {
				observed := float64(ct.Counts[r][c])
				diff := observed - expected
				stat += diff * diff / expected
			}
		}
	}
	return stat
}

// CramersV measures association strength between two categorical series,
// normalized to [0, 1]. A table with a single observed category in either
// dimension has no variation to explain and yields exactly 0.
func CramersV(x, y []string) (float64, error) {
	ct, err := assoc.Crosstab(x, y)
	if err != nil {
		return 0, err
	}
	return CramersVTable(ct), nil
}

// CramersVTable computes Cramér's V from an existing contingency table.
func CramersVTable(ct *assoc.ContingencyTable) float64 {
	minDim := ct.MinDim()
	if minDim == 0 {
		return 0
	}
	v := math.Sqrt(chiSquare(ct) / (float64(ct.N) * float64(minDim)))
	// Guard float drift past the theoretical bound.
	if v > 1 {
		v = 1
	}
	return v
}

// Phi computes sqrt(χ²/N), the standard effect size for 2x2 tables. It is
// applied here to larger tables as well, where it is NOT bounded by 1;
// callers must interpret it with that caveat. A single observed category in
// either dimension yields 0.
func Phi(x, y []string) (float64, error) {
	ct, err := assoc.Crosstab(x, y)
	if err != nil {
		return 0, err
	}
	return PhiTable(ct), nil
}

// PhiTable computes the Phi coefficient from an existing contingency table.
func PhiTable(ct *assoc.ContingencyTable) float64 {
	if ct.MinDim() == 0 {
		return 0
	}
	return math.Sqrt(chiSquare(ct) / float64(ct.N))
}

// ChiSquareTest runs the chi-squared test of independence and returns the
// statistic, p-value and degrees of freedom. When a contingency dimension
// collapses to one category the result is NaN with Degenerate set; that is
// reported, never raised.
func ChiSquareTest(x, y []string) (Chi2Result, error) {
	ct, err := assoc.Crosstab(x, y)
	if err != nil {
		return Chi2Result{}, err
	}
	return ChiSquareTestTable(ct), nil
}

// ChiSquareTestTable runs the independence test on an existing table.
func ChiSquareTestTable(ct *assoc.ContingencyTable) Chi2Result {
	df := (ct.Rows() - 1) * (ct.Cols() - 1)
	if df <= 0 {
		return Chi2Result{
			Stat:       math.NaN(),
			P:          math.NaN(),
			DF:         0,
			Degenerate: true,
		}
	}
	stat := chiSquare(ct)
	dist := distuv.ChiSquared{K: float64(df)}
	p := 1 - dist.CDF(stat)
	if p < 0 {
		p = 0
	}
	return Chi2Result{Stat: stat, P: p, DF: df}
}

// checkPaired validates the shared precondition of the pairwise statistics.
func checkPaired(op string, lenX, lenY int) error {
	if lenX != lenY {
		return core.NewShapeMismatchError(op, lenX, lenY)
	}
	if lenX == 0 {
		return core.ErrEmptyInput
	}
	return nil
}
