package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Tabular is implemented by CLI payloads that can render as a table.
type Tabular interface {
	Headers() []string
	Rows() [][]string
}

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - table (payloads implementing Tabular)
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "table":
		t, ok := v.(Tabular)
		if !ok {
			return fmt.Errorf("format table: %T has no table form", v)
		}
		return WriteTable(w, t)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON wraps v in a {"data": ...} envelope.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	env := map[string]any{"data": v}
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(env, "", "  ")
	} else {
		b, err = json.Marshal(env)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

func WriteTable(w io.Writer, t Tabular) error {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.Headers()...).
		Rows(t.Rows()...)
	_, err := fmt.Fprintln(w, tbl.Render())
	return err
}
