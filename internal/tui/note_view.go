package tui

import (
	"time"

	"stickies/internal/board"
	"stickies/internal/model"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const doubleClickWindow = 400 * time.Millisecond

type noteState int

const (
	noteIdle noteState = iota
	noteDragging
	noteEditing
)

func (s noteState) String() string {
	switch s {
	case noteDragging:
		return "dragging"
	case noteEditing:
		return "editing"
	default:
		return "idle"
	}
}

// noteView is the transient, never-persisted interaction state of one
// displayed note. It is dropped when the note leaves the board.
type noteView struct {
	id          string
	state       noteState
	lastPressAt time.Time
}

// dragSession routes pointer motion to one note for the lifetime of a drag.
// The board screen holds at most one; it is released on pointer-up and when
// the dragged note disappears.
type dragSession struct {
	noteID string
	offset model.Position
}

func (d *dragSession) target(pointer model.Position) model.Position {
	return pointer.Sub(d.offset)
}

type hitKind int

const (
	hitNone hitKind = iota
	hitBody
	hitDelete
	hitEditor
)

// noteHit classifies a cell relative to a note drawn with layout l.
func noteHit(n model.Note, l board.Layout, editing bool, x, y int) hitKind {
	left, top := n.Position.X, n.Position.Y
	if x < left || x >= left+l.NoteWidth || y < top || y >= top+l.NoteHeight {
		return hitNone
	}
	if y == top {
		dx := x - left
		if dx >= l.NoteWidth-deleteControlInset && dx < l.NoteWidth-1 {
			return hitDelete
		}
	}
	if editing && y > top && y < top+l.NoteHeight-1 && x > left && x < left+l.NoteWidth-1 {
		return hitEditor
	}
	return hitBody
}

func (m *appModel) view(id string) *noteView {
	v, ok := m.views[id]
	if !ok {
		v = &noteView{id: id}
		m.views[id] = v
	}
	return v
}

func (m *appModel) stateOf(id string) noteState {
	if v, ok := m.views[id]; ok {
		return v.state
	}
	return noteIdle
}

func (m *appModel) beginDrag(n model.Note, pointer model.Position) {
	m.drag = &dragSession{noteID: n.ID, offset: pointer.Sub(n.Position)}
	m.view(n.ID).state = noteDragging
}

func (m *appModel) dragTo(pointer model.Position) {
	if m.drag == nil {
		return
	}
	ok := m.board.UpdatePosition(m.drag.noteID, m.drag.target(pointer))
	m.syncBoard()
	if !ok {
		m.endDrag()
	}
}

func (m *appModel) endDrag() {
	if m.drag == nil {
		return
	}
	if v, ok := m.views[m.drag.noteID]; ok {
		v.state = noteIdle
	}
	m.drag = nil
	m.applyPendingReload()
}

func (m *appModel) beginEdit(n model.Note) tea.Cmd {
	m.editID = n.ID
	m.editor = newNoteEditor(n, m.board.Layout())
	m.view(n.ID).state = noteEditing
	return m.editor.Focus()
}

// commitEdit writes the editor text to the board (save key or blur).
func (m *appModel) commitEdit() {
	if m.editID == "" {
		return
	}
	m.board.UpdateContent(m.editID, m.editor.Value())
	m.syncBoard()
	m.finishEdit()
}

// cancelEdit discards the editor text; the board still holds the original.
func (m *appModel) cancelEdit() {
	m.finishEdit()
}

func (m *appModel) finishEdit() {
	if v, ok := m.views[m.editID]; ok {
		v.state = noteIdle
	}
	m.editID = ""
	m.editor.Blur()
	m.applyPendingReload()
}

// syncBoard refreshes views once the board has taken in an outside write,
// either through a reload or ahead of one of its own mutations.
func (m *appModel) syncBoard() {
	if r := m.board.Revision(); r != m.revision {
		m.revision = r
		m.syncViews()
	}
}

// syncViews drops views of notes that left the board and closes a drag or
// edit whose note is gone.
func (m *appModel) syncViews() {
	live := map[string]bool{}
	for _, n := range m.board.Notes() {
		live[n.ID] = true
	}
	for id := range m.views {
		if !live[id] {
			delete(m.views, id)
		}
	}
	if m.drag != nil && !live[m.drag.noteID] {
		m.drag = nil
	}
	if m.editID != "" && !live[m.editID] {
		m.editID = ""
		m.editor.Blur()
	}
}

func newNoteEditor(n model.Note, l board.Layout) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Type your note..."
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.SetWidth(l.NoteWidth - 2)
	ta.SetHeight(l.NoteHeight - 2)

	paper := styleNote(n.Color)
	st := textarea.Style{
		Base:        lipgloss.NewStyle(),
		CursorLine:  paper,
		EndOfBuffer: paper,
		Placeholder: paper.Faint(true),
		Prompt:      paper,
		Text:        paper,
	}
	ta.FocusedStyle = st
	ta.BlurredStyle = st
	ta.Cursor.SetMode(cursor.CursorStatic)
	ta.SetValue(n.Content)
	return ta
}
