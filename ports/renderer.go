package ports

import (
	"io"

	"chorda/domain/chord"
)

// LayoutRenderer is the output boundary for layouts: a drawing collaborator
// rasterizes the geometry. All thresholding and geometric semantics are
// fixed by the layout; pixel and palette choices belong to the renderer.
type LayoutRenderer interface {
	Render(w io.Writer, l *chord.Layout) error
}
