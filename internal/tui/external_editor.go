package tui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type externalEditorDoneMsg struct {
	path string
	err  error
}

func externalEditorName() string {
	for _, k := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return "vi"
}

// externalEditorCmd builds the command that opens path in the user's editor.
func externalEditorCmd(path string) *exec.Cmd {
	args := splitShellWords(externalEditorName())
	if len(args) == 0 {
		args = []string{"vi"}
	}
	return exec.Command(args[0], append(args[1:], path)...)
}

// openExternalEditor suspends the board and hands the note being edited to
// $VISUAL/$EDITOR. The result lands back in the inline editor unsaved.
func (m *appModel) openExternalEditor() tea.Cmd {
	f, err := os.CreateTemp("", "stickies-note-*.txt")
	if err != nil {
		m.status = "Editor failed: " + err.Error()
		return nil
	}
	path := f.Name()
	_, werr := f.WriteString(m.editor.Value())
	cerr := f.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(path)
		m.status = "Editor failed: could not write temp file"
		return nil
	}

	m.log.Debug("opening external editor", zap.String("editor", externalEditorName()), zap.String("note", m.editID))
	return tea.ExecProcess(externalEditorCmd(path), func(err error) tea.Msg {
		return externalEditorDoneMsg{path: path, err: err}
	})
}

func (m *appModel) applyExternalEditorResult(msg externalEditorDoneMsg) {
	defer func() { _ = os.Remove(msg.path) }()

	if m.editID == "" {
		return
	}
	if msg.err != nil {
		m.status = "Editor failed: " + msg.err.Error()
		return
	}
	b, err := os.ReadFile(msg.path)
	if err != nil {
		m.status = "Editor read failed: " + err.Error()
		return
	}

	before := m.editor.Value()
	after := strings.TrimSuffix(strings.ReplaceAll(string(b), "\r\n", "\n"), "\n")
	if after == before {
		m.status = fmt.Sprintf("No changes from %s", externalEditorName())
		return
	}
	m.editor.SetValue(after)
	m.status = fmt.Sprintf("Updated from %s (ctrl+s to save)", externalEditorName())
}
