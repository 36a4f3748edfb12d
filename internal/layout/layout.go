// Package layout turns association matrices and contingency tables into
// circular chord-diagram geometry. Computation is pure: identical inputs
// always produce identical geometry.
package layout

import (
	"math"

	"chorda/domain/assoc"
	"chorda/domain/chord"
	"chorda/domain/core"
)

// grid is the shared layout input: a square matrix collapses rows and
// columns onto one entity ring, a contingency table places rows and columns
// as two disjoint groups.
type grid struct {
	nodes     []string
	groups    []int
	marginals []float64
	cells     []cell
	signed    bool
}

type cell struct {
	source, target int
	value          float64
}

// Compute lays out a square association matrix. Cells below the threshold
// are excluded from the chord set entirely, though they still contribute to
// node-size marginals. A layout with zero chords is a valid empty-result
// state, not an error.
func Compute(m *assoc.Matrix, cfg chord.Config) (*chord.Layout, error) {
	n := m.Dim()
	if n == 0 {
		return nil, core.ErrEmptyInput
	}
	if len(m.Values) != n {
		return nil, core.ErrNonSquare
	}
	for _, row := range m.Values {
		if len(row) != n {
			return nil, core.ErrNonSquare
		}
	}

	g := grid{
		nodes:     m.Entities,
		groups:    make([]int, n),
		marginals: make([]float64, n),
		signed:    m.Signed,
	}
	for i := 0; i < n; i++ {
		g.marginals[i] = m.Marginal(i)
	}
	// Upper triangle only: the matrix is one combined square, so (i, j)
	// and (j, i) describe the same chord.
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			g.cells = append(g.cells, cell{source: i, target: j, value: m.At(i, j)})
		}
	}
	return g.layout(cfg)
}

// ComputeBipartite lays out a contingency table with row categories and
// column categories as two disjoint node groups on the same ring. Cell
// counts are normalized by the maximum count before thresholding, matching
// the convention that a threshold expresses a fraction of the strongest
// relationship.
func ComputeBipartite(ct *assoc.ContingencyTable, cfg chord.Config) (*chord.Layout, error) {
	rows, cols := ct.Rows(), ct.Cols()
	if rows == 0 || cols == 0 {
		return nil, core.ErrEmptyInput
	}

	maxCount := 0
	for _, row := range ct.Counts {
		for _, c := range row {
			if c > maxCount {
				maxCount = c
			}
		}
	}

	g := grid{
		nodes:     make([]string, 0, rows+cols),
		groups:    make([]int, 0, rows+cols),
		marginals: make([]float64, 0, rows+cols),
	}
	g.nodes = append(g.nodes, ct.RowLabels...)
	g.nodes = append(g.nodes, ct.ColLabels...)
	for range ct.RowLabels {
		g.groups = append(g.groups, 0)
	}
	for range ct.ColLabels {
		g.groups = append(g.groups, 1)
	}
	for _, t := range ct.RowTotals() {
		g.marginals = append(g.marginals, float64(t))
	}
	for _, t := range ct.ColTotals() {
		g.marginals = append(g.marginals, float64(t))
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := 0.0
			if maxCount > 0 {
				v = float64(ct.Counts[r][c]) / float64(maxCount)
			}
			g.cells = append(g.cells, cell{source: r, target: rows + c, value: v})
		}
	}
	return g.layout(cfg)
}

func (g grid) layout(cfg chord.Config) (*chord.Layout, error) {
	cfg, err := cfg.Normalize()
	if err != nil {
		return nil, err
	}

	n := len(g.nodes)
	span := 2 * math.Pi / float64(n)
	if cfg.NodeGap < 0 || cfg.NodeGap >= span {
		return nil, core.ErrInvalidNodeGap
	}

	maxMarginal := 0.0
	for _, m := range g.marginals {
		if m > maxMarginal {
			maxMarginal = m
		}
	}

	l := &chord.Layout{
		ID:     core.ArtifactID(core.NewID()),
		Nodes:  make([]chord.Node, n),
		Config: cfg,
	}
	for i := range g.nodes {
		angle := float64(i) * span
		size := 0.0
		if maxMarginal > 0 {
			size = g.marginals[i] / maxMarginal
		}
		rotation := angle * 180 / math.Pi
		flipped := rotation > 90 && rotation < 270
		if flipped {
			rotation += 180
		}
		l.Nodes[i] = chord.Node{
			ID:            g.nodes[i],
			Group:         g.groups[i],
			Angle:         angle,
			Span:          span - cfg.NodeGap,
			Size:          size,
			LabelRotation: rotation,
			LabelFlipped:  flipped,
		}
	}

	// Hard threshold: excluded cells generate no chord at all. They have
	// already contributed to the marginals above.
	var surviving []cell
	maxAbs := 0.0
	for _, c := range g.cells {
		abs := math.Abs(c.value)
		if abs < cfg.Threshold {
			continue
		}
		surviving = append(surviving, c)
		if abs > maxAbs {
			maxAbs = abs
		}
	}
	if len(surviving) == 0 || maxAbs == 0 {
		// Empty-after-filter: valid layout with zero chords.
		return l, nil
	}

	for _, c := range surviving {
		abs := math.Abs(c.value)
		var weight float64
		switch cfg.Scale {
		case chord.ScaleLog:
			weight = math.Log1p(abs) / math.Log1p(maxAbs)
		default:
			weight = abs / maxAbs
		}

		sign := chord.SignNone
		if g.signed {
			// Sign comes from the original signed value, never from
			// the absolute value used for filtering.
			if c.value > 0 {
				sign = chord.SignPositive
			} else if c.value < 0 {
				sign = chord.SignNegative
			}
		}

		l.Chords = append(l.Chords, chord.Chord{
			Source:  g.nodes[c.source],
			Target:  g.nodes[c.target],
			Value:   c.value,
			Weight:  weight,
			Sign:    sign,
			Width:   weight,
			Opacity: 0.3 + 0.4*weight,
			Radius:  cfg.BaseRadius + cfg.BowFactor*weight,
		})
	}
	return l, nil
}
