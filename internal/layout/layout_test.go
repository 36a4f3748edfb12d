package layout

import (
	"errors"
	"math"
	"testing"

	"chorda/domain/assoc"
	"chorda/domain/chord"
	"chorda/domain/core"
)

func triMatrix(measure string, entities []string, upper map[[2]int]float64) *assoc.Matrix {
	m := assoc.NewMatrix(measure, entities)
	for k, v := range upper {
		m.Set(k[0], k[1], v)
		m.Set(k[1], k[0], v)
	}
	return m
}

func TestCompute_ThresholdSelectsChords(t *testing.T) {
	m := triMatrix("cramers_v", []string{"P", "Q", "R"}, map[[2]int]float64{
		{0, 1}: 0.05,
		{0, 2}: 0.5,
		{1, 2}: 0.2,
	})

	cfg := chord.Default()
	cfg.Threshold = 0.1
	l, err := Compute(m, cfg)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	if len(l.Chords) != 2 {
		t.Fatalf("expected exactly 2 chords, got %d", len(l.Chords))
	}
	seen := map[string]bool{}
	for _, c := range l.Chords {
		seen[c.Source+"-"+c.Target] = true
	}
	if !seen["P-R"] || !seen["Q-R"] {
		t.Fatalf("expected chords (P,R) and (Q,R), got %v", seen)
	}
}

func TestCompute_LinearWeights(t *testing.T) {
	m := triMatrix("cramers_v", []string{"P", "Q", "R"}, map[[2]int]float64{
		{0, 1}: 0.05,
		{0, 2}: 0.5,
		{1, 2}: 0.2,
	})

	cfg := chord.Default()
	cfg.Threshold = 0.1
	l, err := Compute(m, cfg)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	for _, c := range l.Chords {
		switch {
		case c.Source == "P" && c.Target == "R":
			if math.Abs(c.Weight-1) > 1e-12 {
				t.Fatalf("strongest surviving chord weight: %v, want 1", c.Weight)
			}
		case c.Source == "Q" && c.Target == "R":
			if math.Abs(c.Weight-0.4) > 1e-12 {
				t.Fatalf("(Q,R) weight: %v, want 0.4", c.Weight)
			}
		}
		if c.Opacity < 0.3 || c.Opacity > 0.7 {
			t.Fatalf("opacity out of band: %v", c.Opacity)
		}
		wantRadius := cfg.BaseRadius + cfg.BowFactor*c.Weight
		if math.Abs(c.Radius-wantRadius) > 1e-12 {
			t.Fatalf("radius: %v, want %v", c.Radius, wantRadius)
		}
	}
}

func TestCompute_LogScaleCompresses(t *testing.T) {
	m := triMatrix("cramers_v", []string{"P", "Q", "R"}, map[[2]int]float64{
		{0, 2}: 0.5,
		{1, 2}: 0.2,
	})

	cfg := chord.Default()
	cfg.Threshold = 0.1
	cfg.Scale = chord.ScaleLog
	l, err := Compute(m, cfg)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	var weak float64
	for _, c := range l.Chords {
		if c.Source == "Q" && c.Target == "R" {
			weak = c.Weight
		}
	}
	// Log scaling lifts the weaker chord relative to linear 0.2/0.5.
	if weak <= 0.2/0.5 {
		t.Fatalf("log weight %v not compressed above linear ratio %v", weak, 0.2/0.5)
	}
	want := math.Log1p(0.2) / math.Log1p(0.5)
	if math.Abs(weak-want) > 1e-12 {
		t.Fatalf("log weight: %v, want %v", weak, want)
	}
}

func TestCompute_ThresholdAboveMaxYieldsEmptyLayout(t *testing.T) {
	m := triMatrix("cramers_v", []string{"P", "Q", "R"}, map[[2]int]float64{
		{0, 1}: 0.3,
		{0, 2}: 0.5,
		{1, 2}: 0.2,
	})

	cfg := chord.Default()
	cfg.Threshold = 0.9
	l, err := Compute(m, cfg)
	if err != nil {
		t.Fatalf("empty-after-filter must be valid: %v", err)
	}
	if len(l.Chords) != 0 {
		t.Fatalf("expected zero chords, got %d", len(l.Chords))
	}
	// Node placement is unaffected by the filter.
	if len(l.Nodes) != 3 {
		t.Fatalf("node count: %d", len(l.Nodes))
	}
	span := 2 * math.Pi / 3
	for i, n := range l.Nodes {
		if math.Abs(n.Angle-float64(i)*span) > 1e-12 {
			t.Fatalf("node %d angle: %v", i, n.Angle)
		}
	}
}

func TestCompute_SignFromOriginalValue(t *testing.T) {
	m := triMatrix("pearson", []string{"P", "Q", "R"}, map[[2]int]float64{
		{0, 1}: -0.8,
		{0, 2}: 0.6,
	})
	m.Signed = true

	cfg := chord.Default()
	l, err := Compute(m, cfg)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	for _, c := range l.Chords {
		switch {
		case c.Source == "P" && c.Target == "Q":
			if c.Sign != chord.SignNegative {
				t.Fatalf("(P,Q) sign: %v, want negative", c.Sign)
			}
			if c.Weight != 1 {
				t.Fatalf("weight must come from |value|: %v", c.Weight)
			}
		case c.Source == "P" && c.Target == "R":
			if c.Sign != chord.SignPositive {
				t.Fatalf("(P,R) sign: %v, want positive", c.Sign)
			}
		}
	}
}

func TestCompute_LabelFlipInLowerHalf(t *testing.T) {
	entities := []string{"a", "b", "c", "d"}
	m := triMatrix("cramers_v", entities, map[[2]int]float64{{0, 1}: 0.5})

	l, err := Compute(m, chord.Default())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	// Four nodes sit at 0, 90, 180, 270 degrees. Only the node at 180 falls
	// strictly inside (90, 270) and gets a flipped label.
	for i, n := range l.Nodes {
		wantFlipped := i == 2
		if n.LabelFlipped != wantFlipped {
			t.Fatalf("node %d flipped=%v, want %v", i, n.LabelFlipped, wantFlipped)
		}
		if wantFlipped {
			if math.Abs(n.LabelRotation-360) > 1e-9 {
				t.Fatalf("flipped rotation: %v", n.LabelRotation)
			}
		}
	}
}

func TestCompute_NodeGapValidation(t *testing.T) {
	m := triMatrix("cramers_v", []string{"a", "b", "c"}, map[[2]int]float64{{0, 1}: 0.5})

	cfg := chord.Default()
	cfg.NodeGap = 2 * math.Pi / 3 // equals the span, invalid
	if _, err := Compute(m, cfg); !errors.Is(err, core.ErrInvalidNodeGap) {
		t.Fatalf("expected ErrInvalidNodeGap, got %v", err)
	}

	cfg.NodeGap = 0.1
	l, err := Compute(m, cfg)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	span := 2 * math.Pi / 3
	for _, n := range l.Nodes {
		if math.Abs(n.Span-(span-0.1)) > 1e-12 {
			t.Fatalf("node span: %v, want %v", n.Span, span-0.1)
		}
	}
}

func TestCompute_EmptyMatrix(t *testing.T) {
	m := assoc.NewMatrix("cramers_v", nil)
	if _, err := Compute(m, chord.Default()); !errors.Is(err, core.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestComputeBipartite_GroupsAndNormalization(t *testing.T) {
	ct, err := assoc.Crosstab(
		[]string{"a", "a", "a", "b", "b", "b", "b"},
		[]string{"u", "u", "u", "v", "v", "v", "u"},
	)
	if err != nil {
		t.Fatalf("crosstab: %v", err)
	}

	cfg := chord.Default()
	cfg.Threshold = 0.2
	l, err := ComputeBipartite(ct, cfg)
	if err != nil {
		t.Fatalf("bipartite layout: %v", err)
	}

	if len(l.Nodes) != 4 {
		t.Fatalf("node count: %d", len(l.Nodes))
	}
	for i, n := range l.Nodes {
		wantGroup := 0
		if i >= 2 {
			wantGroup = 1
		}
		if n.Group != wantGroup {
			t.Fatalf("node %d group: %d, want %d", i, n.Group, wantGroup)
		}
	}

	// Counts: (a,u)=3, (b,v)=3, (b,u)=1, (a,v)=0. Normalized by max=3 the
	// (b,u) cell is 1/3 and survives threshold 0.2; (a,v) never appears.
	if len(l.Chords) != 3 {
		t.Fatalf("chord count: %d, want 3", len(l.Chords))
	}
	for _, c := range l.Chords {
		if c.Source == "a" && c.Target == "v" {
			t.Fatalf("zero cell produced a chord")
		}
		if c.Sign != chord.SignNone {
			t.Fatalf("contingency chords are unsigned, got %v", c.Sign)
		}
	}
}
