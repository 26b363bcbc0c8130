package tui

import (
	"reflect"
	"testing"
)

func TestSplitShellWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"nano", []string{"nano"}},
		{"code --wait", []string{"code", "--wait"}},
		{"vim -u 'my vimrc'", []string{"vim", "-u", "my vimrc"}},
		{`emacsclient -a "" -t`, []string{"emacsclient", "-a", "", "-t"}},
		{`vim\ -u\ foo`, []string{"vim -u foo"}},
		{`hx 'it\s'`, []string{"hx", `it\s`}},
	}

	for _, tt := range tests {
		if got := splitShellWords(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("splitShellWords(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
}
