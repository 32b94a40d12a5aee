package render

import (
	"io"

	"github.com/komsit37/stockdash/pkg/stockdash/table"
)

// Renderer renders a projected stats table to an output writer.
type Renderer interface {
	Render(w io.Writer, t table.Table, opts RenderOptions) error
}

type RenderOptions struct {
	Title       string
	Color       bool
	PrettyJSON  bool
	MaxColWidth int
}
