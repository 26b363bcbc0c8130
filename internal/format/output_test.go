package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

type rows [][]string

func (r rows) Headers() []string { return []string{"ID", "COLOR"} }
func (r rows) Rows() [][]string  { return r }

func TestWrite_JSONEnvelope(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, []string{"a"}, "", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	var env map[string]any
	if err := json.Unmarshal(buf.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, buf.String())
	}
	if xs, _ := env["data"].([]any); len(xs) != 1 || xs[0] != "a" {
		t.Fatalf("unexpected envelope: %#v", env)
	}

	buf.Reset()
	if err := Write(&buf, map[string]int{"n": 1}, "json", true); err != nil {
		t.Fatalf("write pretty: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"data\"") {
		t.Fatalf("expected indented output; got %q", buf.String())
	}
}

func TestWrite_Table(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, rows{{"note-1", "yellow"}, {"note-2", "pink"}}, "table", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ID", "COLOR", "note-1", "yellow", "note-2", "pink"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in table:\n%s", want, out)
		}
	}
}

func TestWrite_Errors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, 42, "table", false); err == nil {
		t.Fatalf("expected error for non-tabular value")
	}
	if err := Write(&buf, 42, "xml", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
