package engine

import (
	"context"
	"errors"
	"math"
	"testing"

	"chorda/adapters/rng"
	"chorda/adapters/stats/measures"
	"chorda/domain/core"
	"chorda/internal/bootstrap"
	"chorda/internal/testkit"
)

func TestBuildMatrix_UnitDiagonalAndSymmetry(t *testing.T) {
	vals := map[string]float64{
		"a|b": 0.4, "b|a": 0.4,
		"a|c": 0.9, "c|a": 0.9,
		"b|c": 0.1, "c|b": 0.1,
	}
	m, err := BuildMatrix("test", []string{"a", "b", "c"}, func(i, j string) (float64, error) {
		return vals[i+"|"+j], nil
	}, BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	for i := 0; i < m.Dim(); i++ {
		if m.At(i, i) != 1.0 {
			t.Fatalf("diagonal [%d] = %v, want 1.0", i, m.At(i, i))
		}
	}
	if m.At(0, 2) != 0.9 || m.At(2, 0) != 0.9 {
		t.Fatalf("off-diagonal values lost: %v / %v", m.At(0, 2), m.At(2, 0))
	}
}

func TestBuildMatrix_CoercesNonFinite(t *testing.T) {
	m, err := BuildMatrix("test", []string{"a", "b"}, func(i, j string) (float64, error) {
		return math.NaN(), nil
	}, BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if m.At(0, 1) != 0 {
		t.Fatalf("expected NaN coerced to 0, got %v", m.At(0, 1))
	}
	if len(m.Warnings) == 0 {
		t.Fatalf("expected a coercion warning")
	}
}

func TestBuildMatrix_StrictSurfacesInstability(t *testing.T) {
	_, err := BuildMatrix("test", []string{"a", "b"}, func(i, j string) (float64, error) {
		return math.Inf(1), nil
	}, BuildOptions{Strict: true})
	if !errors.Is(err, core.ErrNumericInstability) {
		t.Fatalf("expected ErrNumericInstability, got %v", err)
	}
}

func TestBuildMatrix_EmptyEntities(t *testing.T) {
	_, err := BuildMatrix("test", nil, nil, BuildOptions{})
	if !errors.Is(err, core.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestCategoricalMatrix_PlantedAssociation(t *testing.T) {
	tbl, err := testkit.Generate(testkit.DefaultConfig())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	names := []core.VariableKey{"class", "morphology", "band"}
	m, err := CategoricalMatrix(tbl, "cramers_v", names, measures.CramersV, BuildOptions{})
	if err != nil {
		t.Fatalf("categorical matrix: %v", err)
	}

	// class and morphology are coupled; band is independent of both.
	planted := m.At(0, 1)
	null := m.At(0, 2)
	if planted < 0.5 {
		t.Fatalf("planted association too weak: %v", planted)
	}
	if null > 0.2 {
		t.Fatalf("null association too strong: %v", null)
	}
	if m.At(0, 1) != m.At(1, 0) {
		t.Fatalf("asymmetric: %v vs %v", m.At(0, 1), m.At(1, 0))
	}
}

func TestAttachIntervals_EveryOffDiagonalCell(t *testing.T) {
	cfg := testkit.DefaultConfig()
	cfg.Rows = 120
	tbl, err := testkit.Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	names := []core.VariableKey{"class", "morphology", "band"}
	m, err := CategoricalMatrix(tbl, "cramers_v", names, measures.CramersV, BuildOptions{})
	if err != nil {
		t.Fatalf("categorical matrix: %v", err)
	}

	est := bootstrap.New(rng.NewAdapter())
	opts := bootstrap.Options{Resamples: 200, Confidence: 0.95, Seed: 7}
	if err := AttachIntervals(context.Background(), m, tbl, measures.CramersV, est, opts); err != nil {
		t.Fatalf("attach intervals: %v", err)
	}

	for i := 0; i < m.Dim(); i++ {
		for j := i + 1; j < m.Dim(); j++ {
			ci, ok := m.Interval(i, j)
			if !ok {
				t.Fatalf("missing interval at (%d, %d)", i, j)
			}
			point := m.At(i, j)
			if ci.Lower > point || ci.Upper < point {
				t.Fatalf("interval [%v, %v] excludes point %v at (%d, %d)", ci.Lower, ci.Upper, point, i, j)
			}
		}
	}
}

func TestReduce_BelowMedianZoom(t *testing.T) {
	m, err := BuildMatrix("test", []string{"heavy", "mid", "light", "faint"}, func(i, j string) (float64, error) {
		weights := map[string]float64{"heavy": 0.9, "mid": 0.5, "light": 0.2, "faint": 0.1}
		return weights[i] * weights[j], nil
	}, BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	zoomed := Reduce(m, BelowMedian(m))
	if zoomed.Dim() >= m.Dim() {
		t.Fatalf("reduction did not shrink the matrix: %d", zoomed.Dim())
	}
	for _, e := range zoomed.Entities {
		if e == "heavy" {
			t.Fatalf("heavy entity survived a below-median zoom")
		}
	}
	// Order of survivors follows the original entity order.
	for k := 1; k < len(zoomed.Entities); k++ {
		if indexOf(m.Entities, zoomed.Entities[k-1]) > indexOf(m.Entities, zoomed.Entities[k]) {
			t.Fatalf("entity order not preserved: %v", zoomed.Entities)
		}
	}
	// Surviving cell values are carried over unchanged.
	for a, ea := range zoomed.Entities {
		for b, eb := range zoomed.Entities {
			if a == b {
				continue
			}
			i := indexOf(m.Entities, ea)
			j := indexOf(m.Entities, eb)
			if zoomed.At(a, b) != m.At(i, j) {
				t.Fatalf("cell (%s, %s) changed: %v vs %v", ea, eb, zoomed.At(a, b), m.At(i, j))
			}
		}
	}
}

func indexOf(entities []string, e string) int {
	for i, x := range entities {
		if x == e {
			return i
		}
	}
	return -1
}
