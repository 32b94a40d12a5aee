package render

import (
	"encoding/json"
	"io"

	"github.com/tidwall/pretty"

	"github.com/komsit37/stockdash/pkg/stockdash/table"
	"github.com/komsit37/stockdash/pkg/stockdash/types"
)

// jsonModel is the output shape for JSONRenderer.
type jsonModel struct {
	Name    string     `json:"name,omitempty"`
	Columns []string   `json:"columns"`
	Items   []jsonItem `json:"items"`
}

type jsonItem struct {
	ID     int64                  `json:"id"`
	Code   string                 `json:"code"`
	Fields map[string]types.Value `json:"fields"`
}

type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

// Render writes the raw, unformatted values of the visible columns.
func (r *JSONRenderer) Render(w io.Writer, t table.Table, opts RenderOptions) error {
	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.Key != table.ActionKey {
			cols = append(cols, c.Key)
		}
	}
	items := make([]jsonItem, 0, len(t.Rows))
	for _, row := range t.Rows {
		fields := make(map[string]types.Value, len(cols))
		for _, k := range cols {
			fields[k] = cellValue(row, k)
		}
		items = append(items, jsonItem{ID: row.ID, Code: row.Code, Fields: fields})
	}
	return writeJSON(w, jsonModel{Name: opts.Title, Columns: cols, Items: items}, opts)
}

func writeJSON(w io.Writer, v any, opts RenderOptions) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if opts.PrettyJSON {
		b = pretty.Pretty(b)
		if opts.Color {
			b = pretty.Color(b, nil)
		}
	} else {
		b = append(b, '\n')
	}
	_, err = w.Write(b)
	return err
}
