// Package report writes plain-text summaries of computed associations for
// a reporting collaborator. Formatting only; no statistics are computed
// here beyond simple category counting.
package report

import (
	"fmt"
	"io"
	"sort"

	"chorda/adapters/stats/measures"
	"chorda/domain/assoc"
)

// EffectBand classifies an effect size on the conventional Cramér's V
// interpretation scale.
func EffectBand(v float64) string {
	switch {
	case v < 0.1:
		return "negligible"
	case v < 0.3:
		return "weak"
	case v < 0.5:
		return "moderate"
	default:
		return "strong"
	}
}

// WriteMatrix prints a matrix with any attached confidence intervals and
// recorded warnings.
func WriteMatrix(w io.Writer, m *assoc.Matrix) {
	fmt.Fprintln(w, m.String())
	for i := 0; i < m.Dim(); i++ {
		for j := i + 1; j < m.Dim(); j++ {
			if ci, ok := m.Interval(i, j); ok {
				fmt.Fprintf(w, "  %s vs %s: %.4f [%.4f, %.4f] (%s)\n",
					m.Entities[i], m.Entities[j], m.At(i, j), ci.Lower, ci.Upper, EffectBand(m.At(i, j)))
			}
		}
	}
	for _, warning := range m.Warnings {
		fmt.Fprintf(w, "  warning: %s vs %s: %s\n", warning.EntityX, warning.EntityY, warning.Message)
	}
}

// WriteChi2 prints one independence-test result.
func WriteChi2(w io.Writer, name string, r measures.Chi2Result) {
	if r.Degenerate {
		fmt.Fprintf(w, "%s: degenerate contingency table, test undefined\n", name)
		return
	}
	verdict := "NOT SIGNIFICANT"
	if r.P < 0.001 {
		verdict = "SIGNIFICANT"
	}
	fmt.Fprintf(w, "%s: chi2=%.2f, p=%.2e, dof=%d (%s)\n", name, r.Stat, r.P, r.DF, verdict)
}

// Imbalance summarizes class imbalance for a categorical series: total
// count, share of the largest category, and max:min ratio.
type Imbalance struct {
	Total  int
	MaxPct float64
	Ratio  float64
}

// MeasureImbalance computes the imbalance summary for one label series.
func MeasureImbalance(labels []string) Imbalance {
	counts := make(map[string]int)
	for _, l := range labels {
		counts[l]++
	}
	maxCount, minCount := 0, len(labels)
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
		if c < minCount {
			minCount = c
		}
	}
	out := Imbalance{Total: len(labels)}
	if len(labels) > 0 {
		out.MaxPct = 100 * float64(maxCount) / float64(len(labels))
	}
	if minCount > 0 {
		out.Ratio = float64(maxCount) / float64(minCount)
	}
	return out
}

// WriteImbalance prints imbalance summaries in a stable variable order.
func WriteImbalance(w io.Writer, byVariable map[string]Imbalance) {
	names := make([]string, 0, len(byVariable))
	for name := range byVariable {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		im := byVariable[name]
		fmt.Fprintf(w, "%s: N=%d, max=%.1f%%, ratio=%.0f:1", name, im.Total, im.MaxPct, im.Ratio)
		if im.Ratio > 50 {
			fmt.Fprint(w, " (severe imbalance)")
		}
		fmt.Fprintln(w)
	}
}
