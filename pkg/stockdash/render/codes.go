package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/komsit37/stockdash/pkg/stockdash/table"
)

// codesRenderer prints all stock codes in a single comma-separated line.
type codesRenderer struct{}

func NewCodesRenderer() Renderer {
	return codesRenderer{}
}

func (codesRenderer) Render(w io.Writer, t table.Table, _ RenderOptions) error {
	codes := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		code := strings.TrimSpace(row.Code)
		if code == "" {
			continue
		}
		codes = append(codes, code)
	}
	_, err := fmt.Fprintln(w, strings.Join(codes, ","))
	return err
}

// ByName returns the renderer for an output format name.
func ByName(name string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "table":
		return NewTableRenderer(), nil
	case "json":
		return NewJSONRenderer(), nil
	case "codes":
		return NewCodesRenderer(), nil
	}
	return nil, fmt.Errorf("unknown output format %q (want table, json or codes)", name)
}
