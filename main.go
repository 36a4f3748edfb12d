package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"chorda/adapters/excel"
	"chorda/adapters/rng"
	"chorda/adapters/stats/engine"
	"chorda/adapters/stats/measures"
	"chorda/adapters/svg"
	"chorda/domain/assoc"
	"chorda/domain/chord"
	"chorda/domain/core"
	"chorda/domain/table"
	"chorda/internal/bootstrap"
	"chorda/internal/config"
	"chorda/internal/layout"
	"chorda/internal/report"
	"chorda/ports"
	"chorda/ui"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[Main] no .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Main] configuration error: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("[Main] %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	var reader ports.TableReader = excel.NewTableReader(cfg.Data.File)
	tbl, err := reader.Read()
	if err != nil {
		return err
	}

	var categorical []core.VariableKey
	var numeric []table.Column
	for _, c := range tbl.Columns {
		switch c.Kind {
		case table.KindCategorical:
			categorical = append(categorical, c.Name)
		case table.KindNumeric:
			numeric = append(numeric, c)
		}
	}

	matrices := make(map[string]*assoc.Matrix)

	if len(categorical) >= 2 {
		log.Printf("[Main] computing categorical associations over %d variables", len(categorical))
		cramers, err := engine.CategoricalMatrix(tbl, "cramers_v", categorical, measures.CramersV, engine.BuildOptions{})
		if err != nil {
			return err
		}
		phi, err := engine.CategoricalMatrix(tbl, "phi", categorical, measures.Phi, engine.BuildOptions{})
		if err != nil {
			return err
		}

		est := bootstrap.New(rng.NewAdapter())
		opts := bootstrap.Options{
			Resamples:  cfg.Analysis.Resamples,
			Confidence: cfg.Analysis.Confidence,
			Seed:       cfg.Analysis.Seed,
		}
		log.Printf("[Main] bootstrapping %d resamples per pair (seed %d)", cfg.Analysis.Resamples, cfg.Analysis.Seed)
		if err := engine.AttachIntervals(ctx, cramers, tbl, measures.CramersV, est, opts); err != nil {
			return err
		}

		matrices["cramers_v"] = cramers
		matrices["phi"] = phi

		fmt.Println("Chi-squared tests of independence")
		for i := 0; i < len(categorical); i++ {
			for j := i + 1; j < len(categorical); j++ {
				x, _ := tbl.Categorical(categorical[i])
				y, _ := tbl.Categorical(categorical[j])
				res, err := measures.ChiSquareTest(x, y)
				if err != nil {
					return err
				}
				report.WriteChi2(os.Stdout, fmt.Sprintf("%s vs %s", categorical[i], categorical[j]), res)
			}
		}

		imbalance := make(map[string]report.Imbalance)
		for _, name := range categorical {
			labels, _ := tbl.Categorical(name)
			imbalance[string(name)] = report.MeasureImbalance(labels)
		}
		fmt.Println("\nClass imbalance")
		report.WriteImbalance(os.Stdout, imbalance)
	}

	if len(numeric) >= 2 {
		log.Printf("[Main] computing standardized correlation matrix over %d variables", len(numeric))
		pearson, err := measures.PearsonMatrix(numeric, true)
		if err != nil {
			return err
		}
		matrices["pearson"] = pearson
	}

	for name, m := range matrices {
		fmt.Printf("\n%s matrix\n", name)
		report.WriteMatrix(os.Stdout, m)
	}

	if err := renderAll(cfg, tbl, categorical, matrices); err != nil {
		return err
	}

	if cfg.Server.Enabled {
		return ui.NewApp(matrices, cfg.Analysis).Serve(cfg.Server.Port)
	}
	return nil
}

// renderAll writes one chord SVG per matrix, a bipartite contingency chord
// for the first categorical pair, and a rare-category zoom of the Cramér's V
// matrix.
func renderAll(cfg *config.Config, tbl *table.Table, categorical []core.VariableKey, matrices map[string]*assoc.Matrix) error {
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return err
	}

	layoutCfg := chord.Default()
	layoutCfg.Threshold = cfg.Analysis.Threshold
	layoutCfg.Scale = chord.Scale(cfg.Analysis.Scale)
	layoutCfg.NodeGap = cfg.Analysis.NodeGap

	var renderer ports.LayoutRenderer = svg.NewRenderer()
	render := func(name string, l *chord.Layout) error {
		path := filepath.Join(cfg.Output.Dir, name+".svg")
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := renderer.Render(f, l); err != nil {
			return err
		}
		log.Printf("[Main] wrote %s (%d nodes, %d chords)", path, len(l.Nodes), len(l.Chords))
		return nil
	}

	for name, m := range matrices {
		l, err := layout.Compute(m, layoutCfg)
		if err != nil {
			return err
		}
		if err := render("chord_"+name, l); err != nil {
			return err
		}
	}

	if m, ok := matrices["cramers_v"]; ok && m.Dim() > 2 {
		zoomed := engine.Reduce(m, engine.BelowMedian(m))
		if zoomed.Dim() > 0 {
			l, err := layout.Compute(zoomed, layoutCfg)
			if err != nil {
				return err
			}
			if err := render("chord_cramers_v_zoomed", l); err != nil {
				return err
			}
		}
	}

	if len(categorical) >= 2 {
		x, _ := tbl.Categorical(categorical[0])
		y, _ := tbl.Categorical(categorical[1])
		ct, err := assoc.Crosstab(x, y)
		if err != nil {
			return err
		}
		l, err := layout.ComputeBipartite(ct, layoutCfg)
		if err != nil {
			return err
		}
		if err := render(fmt.Sprintf("chord_%s_%s", categorical[0], categorical[1]), l); err != nil {
			return err
		}
	}
	return nil
}
