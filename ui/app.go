// Package ui exposes computed matrices and rendered chord diagrams over a
// small read-only HTTP surface.
package ui

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"chorda/adapters/svg"
	"chorda/domain/assoc"
	"chorda/domain/chord"
	"chorda/internal/config"
	"chorda/internal/layout"
	"chorda/ports"
)

// App serves association matrices and chord diagrams for a single loaded
// dataset. Matrices are computed once at startup; layouts are derived per
// request from the query parameters.
type App struct {
	router   chi.Router
	matrices map[string]*assoc.Matrix
	defaults config.AnalysisConfig
	renderer ports.LayoutRenderer
}

// NewApp wires the routes over precomputed matrices keyed by measure name.
func NewApp(matrices map[string]*assoc.Matrix, defaults config.AnalysisConfig) *App {
	app := &App{
		router:   chi.NewRouter(),
		matrices: matrices,
		defaults: defaults,
		renderer: svg.NewRenderer(),
	}

	app.router.Use(middleware.Logger)
	app.router.Use(middleware.Recoverer)

	app.router.Get("/api/measures", app.handleMeasures)
	app.router.Get("/api/matrix/{measure}", app.handleMatrix)
	app.router.Get("/api/chord/{measure}.svg", app.handleChordSVG)

	return app
}

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Serve blocks listening on the given port.
func (a *App) Serve(port string) error {
	log.Printf("[UI] listening on :%s", port)
	return http.ListenAndServe(":"+port, a.router)
}

func (a *App) handleMeasures(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(a.matrices))
	for name := range a.matrices {
		names = append(names, name)
	}
	writeJSON(w, map[string]any{"measures": names})
}

func (a *App) handleMatrix(w http.ResponseWriter, r *http.Request) {
	m, ok := a.matrices[chi.URLParam(r, "measure")]
	if !ok {
		http.Error(w, "unknown measure", http.StatusNotFound)
		return
	}
	writeJSON(w, m)
}

func (a *App) handleChordSVG(w http.ResponseWriter, r *http.Request) {
	m, ok := a.matrices[chi.URLParam(r, "measure")]
	if !ok {
		http.Error(w, "unknown measure", http.StatusNotFound)
		return
	}

	cfg := chord.Default()
	cfg.Threshold = a.defaults.Threshold
	cfg.Scale = chord.Scale(a.defaults.Scale)
	cfg.NodeGap = a.defaults.NodeGap
	if v := r.URL.Query().Get("threshold"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			http.Error(w, "invalid threshold", http.StatusBadRequest)
			return
		}
		cfg.Threshold = f
	}
	if v := r.URL.Query().Get("scale"); v != "" {
		cfg.Scale = chord.Scale(v)
	}

	l, err := layout.Compute(m, cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if err := a.renderer.Render(w, l); err != nil {
		log.Printf("[UI] render failed: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[UI] encode failed: %v", err)
	}
}
