package assoc

import (
	"fmt"
	"math"
	"strings"
	"time"

	"chorda/domain/core"
)

// ConfidenceInterval bounds a point estimate. Lower <= point <= upper holds
// for every interval attached to a matrix; a degenerate resampling
// distribution collapses the interval to a point, which is valid output.
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Warning records a cell whose raw statistic was degenerate or non-finite
// and was coerced to the conventional value.
type Warning struct {
	EntityX string `json:"entity_x"`
	EntityY string `json:"entity_y"`
	Message string `json:"message"`
}

// Matrix is a square entity-by-entity association matrix with explicit
// ordering. The diagonal is 1.0 by convention. Intervals and Warnings are
// augmentation: attaching them never alters point estimates.
type Matrix struct {
	ID        core.ArtifactID `json:"id"`
	Measure   string          `json:"measure"`
	Entities  []string        `json:"entities"`
	Values    [][]float64     `json:"values"`
	Signed    bool            `json:"signed"` // true for Pearson, false for V/Phi
	CreatedAt time.Time       `json:"created_at"`

	Intervals map[string]ConfidenceInterval `json:"intervals,omitempty"`
	Warnings  []Warning                     `json:"warnings,omitempty"`
}

// NewMatrix allocates a square matrix with unit diagonal for the given
// ordered entity list.
func NewMatrix(measure string, entities []string) *Matrix {
	n := len(entities)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
		values[i][i] = 1.0
	}
	return &Matrix{
		ID:        core.ArtifactID(core.NewID()),
		Measure:   measure,
		Entities:  append([]string(nil), entities...),
		Values:    values,
		CreatedAt: core.Now(),
	}
}

// Dim returns the matrix dimension.
func (m *Matrix) Dim() int { return len(m.Entities) }

// At returns the statistic for the (i, j) entity pair.
func (m *Matrix) At(i, j int) float64 { return m.Values[i][j] }

// Set assigns the statistic for the (i, j) entity pair.
func (m *Matrix) Set(i, j int, v float64) { m.Values[i][j] = v }

// Index returns the position of an entity in the ordering.
func (m *Matrix) Index(entity string) (int, bool) {
	for i, e := range m.Entities {
		if e == entity {
			return i, true
		}
	}
	return 0, false
}

// Marginal returns the total association mass touching entity i: the sum of
// absolute off-diagonal values in its row. The diagonal is a convention, not
// mass, so it is excluded.
func (m *Matrix) Marginal(i int) float64 {
	var sum float64
	for j := range m.Values[i] {
		if j == i {
			continue
		}
		sum += math.Abs(m.Values[i][j])
	}
	return sum
}

// AddWarning records a coercion event against a cell.
func (m *Matrix) AddWarning(x, y, message string) {
	m.Warnings = append(m.Warnings, Warning{EntityX: x, EntityY: y, Message: message})
}

// SetInterval attaches a confidence interval to the (i, j) cell and its
// mirror. The interval is widened if needed so it always contains the point
// estimate already in the cell.
func (m *Matrix) SetInterval(i, j int, ci ConfidenceInterval) {
	point := m.Values[i][j]
	if ci.Lower > point {
		ci.Lower = point
	}
	if ci.Upper < point {
		ci.Upper = point
	}
	if m.Intervals == nil {
		m.Intervals = make(map[string]ConfidenceInterval)
	}
	m.Intervals[cellKey(i, j)] = ci
	m.Intervals[cellKey(j, i)] = ci
}

// Interval returns the confidence interval attached to (i, j), if any.
func (m *Matrix) Interval(i, j int) (ConfidenceInterval, bool) {
	ci, ok := m.Intervals[cellKey(i, j)]
	return ci, ok
}

func cellKey(i, j int) string {
	return fmt.Sprintf("%d:%d", i, j)
}

// Abs returns a copy with every value replaced by its absolute value,
// preserving entity order. The copy is unsigned: it is the thresholdable
// view of a signed matrix, while sign tags must come from the original.
func (m *Matrix) Abs() *Matrix {
	out := NewMatrix(m.Measure, m.Entities)
	for i := range m.Values {
		for j := range m.Values[i] {
			out.Values[i][j] = math.Abs(m.Values[i][j])
		}
	}
	return out
}

// String renders the matrix as an aligned text table for printing by a
// reporting collaborator.
func (m *Matrix) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-16s", m.Measure)
	for _, e := range m.Entities {
		fmt.Fprintf(&b, " %12s", truncate(e, 12))
	}
	b.WriteByte('\n')
	for i, e := range m.Entities {
		fmt.Fprintf(&b, "%-16s", truncate(e, 16))
		for j := range m.Entities {
			fmt.Fprintf(&b, " %12.4f", m.Values[i][j])
		}
		if i < len(m.Entities)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
