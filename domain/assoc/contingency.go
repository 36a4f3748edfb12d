package assoc

import (
	"chorda/domain/core"
)

// ContingencyTable holds cross-tabulated counts of two categorical series.
// Row and column labels are kept in first-seen order so repeated runs over
// the same input produce identical tables.
type ContingencyTable struct {
	RowLabels []string `json:"row_labels"`
	ColLabels []string `json:"col_labels"`
	Counts    [][]int  `json:"counts"` // Counts[r][c], every cell >= 0
	N         int      `json:"n"`      // sum of all cells
}

// Crosstab builds the contingency table for two equal-length label series.
func Crosstab(x, y []string) (*ContingencyTable, error) {
	if len(x) != len(y) {
		return nil, core.NewShapeMismatchError("crosstab", len(x), len(y))
	}
	if len(x) == 0 {
		return nil, core.ErrEmptyInput
	}

	rowIdx := make(map[string]int)
	colIdx := make(map[string]int)
	ct := &ContingencyTable{N: len(x)}

	for i := range x {
		r, ok := rowIdx[x[i]]
		if !ok {
			r = len(ct.RowLabels)
			rowIdx[x[i]] = r
			ct.RowLabels = append(ct.RowLabels, x[i])
			ct.Counts = append(ct.Counts, make([]int, len(ct.ColLabels)))
		}
		c, ok := colIdx[y[i]]
		if !ok {
			c = len(ct.ColLabels)
			colIdx[y[i]] = c
			ct.ColLabels = append(ct.ColLabels, y[i])
			for ri := range ct.Counts {
				ct.Counts[ri] = append(ct.Counts[ri], 0)
			}
		}
		ct.Counts[r][c]++
	}
	return ct, nil
}

// Rows returns the number of distinct row categories.
func (ct *ContingencyTable) Rows() int { return len(ct.RowLabels) }

// Cols returns the number of distinct column categories.
func (ct *ContingencyTable) Cols() int { return len(ct.ColLabels) }

// MinDim returns min(rows, cols) - 1, the Cramér's V normalization term.
func (ct *ContingencyTable) MinDim() int {
	m := ct.Rows()
	if ct.Cols() < m {
		m = ct.Cols()
	}
	return m - 1
}

// RowTotals returns the marginal count of each row category.
func (ct *ContingencyTable) RowTotals() []int {
	totals := make([]int, ct.Rows())
	for r, row := range ct.Counts {
		for _, n := range row {
			totals[r] += n
		}
	}
	return totals
}

// ColTotals returns the marginal count of each column category.
func (ct *ContingencyTable) ColTotals() []int {
	totals := make([]int, ct.Cols())
	for _, row := range ct.Counts {
		for c, n := range row {
			totals[c] += n
		}
	}
	return totals
}

// SelectRows returns a new table keeping only the rows at the given indices,
// preserving order. Used by the rare-category zoom.
func (ct *ContingencyTable) SelectRows(keep []int) *ContingencyTable {
	out := &ContingencyTable{ColLabels: append([]string(nil), ct.ColLabels...)}
	for _, r := range keep {
		out.RowLabels = append(out.RowLabels, ct.RowLabels[r])
		row := append([]int(nil), ct.Counts[r]...)
		out.Counts = append(out.Counts, row)
		for _, n := range row {
			out.N += n
		}
	}
	return out
}

// SelectCols returns a new table keeping only the columns at the given
// indices, preserving order.
func (ct *ContingencyTable) SelectCols(keep []int) *ContingencyTable {
	out := &ContingencyTable{RowLabels: append([]string(nil), ct.RowLabels...)}
	for _, c := range keep {
		out.ColLabels = append(out.ColLabels, ct.ColLabels[c])
	}
	for _, row := range ct.Counts {
		sel := make([]int, 0, len(keep))
		for _, c := range keep {
			sel = append(sel, row[c])
			out.N += row[c]
		}
		out.Counts = append(out.Counts, sel)
	}
	return out
}
