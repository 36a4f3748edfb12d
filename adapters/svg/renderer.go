// Package svg rasterizes chord layouts to SVG. It is a drawing
// collaborator: all geometric and thresholding semantics arrive fixed in
// the layout, only pixel and palette choices are made here.
package svg

import (
	"fmt"
	"io"
	"math"
	"strings"

	svgo "github.com/ajstarks/svgo"

	"chorda/domain/chord"
)

const chordSamples = 64

// Renderer draws a layout onto a square canvas.
type Renderer struct {
	Size int // canvas edge in pixels
}

// NewRenderer creates a renderer with the default canvas size.
func NewRenderer() *Renderer {
	return &Renderer{Size: 800}
}

// Render writes the layout as an SVG document.
func (r *Renderer) Render(w io.Writer, l *chord.Layout) error {
	size := r.Size
	if size <= 0 {
		size = 800
	}
	cx, cy := size/2, size/2
	// Unit circle maps to 35% of the canvas so labels at ~1.35 stay inside.
	scale := float64(size) * 0.35

	canvas := svgo.New(w)
	canvas.Start(size, size)
	canvas.Rect(0, 0, size, size, "fill:white")

	angles := make(map[string]float64, len(l.Nodes))
	for _, n := range l.Nodes {
		angles[n.ID] = n.Angle
	}

	for _, c := range l.Chords {
		a1, a2 := angles[c.Source], angles[c.Target]
		canvas.Path(arcPath(cx, cy, scale*c.Radius, a1, a2),
			fmt.Sprintf(`fill="none" stroke="%s" stroke-width="%.2f" stroke-opacity="%.3f"`,
				strokeColor(c.Sign), 1+4*c.Width, c.Opacity))
	}

	for _, n := range l.Nodes {
		x, y := polar(cx, cy, scale, n.Angle)
		radius := 3 + int(math.Round(8*n.Size))
		canvas.Circle(x, y, radius, fmt.Sprintf(`fill="%s"`, nodeColor(n.Group)))

		lx, ly := polar(cx, cy, scale*l.Config.LabelRadius, n.Angle)
		anchor := "start"
		if n.LabelFlipped {
			anchor = "end"
		}
		canvas.Text(lx, ly, n.ID,
			fmt.Sprintf(`font-size="12" font-family="sans-serif" text-anchor="%s" transform="rotate(%.1f,%d,%d)"`,
				anchor, n.LabelRotation-90, lx, ly))
	}

	canvas.End()
	return nil
}

// polar maps a layout angle (clockwise from the top of the circle, as a
// polar plot with offset π/2) to canvas coordinates.
func polar(cx, cy int, r, angle float64) (int, int) {
	x := float64(cx) + r*math.Sin(angle)
	y := float64(cy) - r*math.Cos(angle)
	return int(math.Round(x)), int(math.Round(y))
}

// arcPath samples the chord's arc between the two node angles at the bow
// radius. Stronger chords bow further out, trading prominence for value.
func arcPath(cx, cy int, r, a1, a2 float64) string {
	var b strings.Builder
	for i := 0; i <= chordSamples; i++ {
		t := float64(i) / chordSamples
		angle := a1 + (a2-a1)*t
		x, y := polar(cx, cy, r, angle)
		if i == 0 {
			fmt.Fprintf(&b, "M%d,%d", x, y)
		} else {
			fmt.Fprintf(&b, " L%d,%d", x, y)
		}
	}
	return b.String()
}

func strokeColor(s chord.Sign) string {
	switch s {
	case chord.SignPositive:
		return "#d62728"
	case chord.SignNegative:
		return "#1f77b4"
	default:
		return "#2ca02c"
	}
}

func nodeColor(group int) string {
	if group == 1 {
		return "#9467bd"
	}
	return "#8c564b"
}
