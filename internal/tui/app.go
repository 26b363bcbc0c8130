package tui

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"stickies/internal/board"
	"stickies/internal/model"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Screen is the viewport collaborator: the current terminal size in cells.
// The board reads it when placing new notes; the TUI updates it on resize.
type Screen struct {
	mu   sync.Mutex
	w, h int
}

func NewScreen(w, h int) *Screen { return &Screen{w: w, h: h} }

func (s *Screen) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w, s.h
}

func (s *Screen) set(w, h int) {
	s.mu.Lock()
	s.w, s.h = w, h
	s.mu.Unlock()
}

// storeChangedMsg reports that the slot database changed on disk.
type storeChangedMsg struct{}

type appModel struct {
	board  *board.Board
	screen *Screen
	log    *zap.Logger

	width  int
	height int

	views map[string]*noteView
	// At most one note is dragged or edited at a time.
	drag   *dragSession
	editID string
	editor textarea.Model

	changes       <-chan struct{}
	reloadPending bool
	revision      int

	// status replaces the palette hint until the next key or press.
	status string

	now  func() time.Time
	intN func(int) int
}

func newAppModel(opts Options) appModel {
	screen := opts.Screen
	if screen == nil {
		screen = NewScreen(80, 24)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	w, h := screen.Size()
	m := appModel{
		board:   opts.Board,
		screen:  screen,
		log:     log.Named("tui"),
		width:   w,
		height:  h,
		views:   map[string]*noteView{},
		editor:  textarea.New(),
		changes: opts.Changes,
		now:     time.Now,
		intN:    rand.IntN,
	}
	m.revision = m.board.Revision()
	m.syncViews()
	return m
}

func (m appModel) Init() tea.Cmd { return waitForStoreChange(m.changes) }

func waitForStoreChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.set(msg.Width, msg.Height)
		return m, nil

	case storeChangedMsg:
		if m.drag != nil || m.editID != "" {
			m.reloadPending = true
		} else {
			m.reload()
		}
		return m, waitForStoreChange(m.changes)

	case externalEditorDoneMsg:
		m.applyExternalEditorResult(msg)
		return m, nil

	case tea.MouseMsg:
		cmd := m.handleMouse(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.editID != "" {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *appModel) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	if m.editID != "" {
		switch k.String() {
		case "ctrl+e":
			return *m, m.openExternalEditor()
		case "ctrl+c":
			m.commitEdit()
			return *m, tea.Quit
		case "esc":
			m.cancelEdit()
			return *m, nil
		case "ctrl+s", "alt+enter":
			m.commitEdit()
			return *m, nil
		}
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(k)
		return *m, cmd
	}

	switch s := k.String(); s {
	case "ctrl+c", "q":
		return *m, tea.Quit
	case "n":
		m.createNote(model.Colors[m.intN(len(model.Colors))])
	case "r":
		// Explicit reload applies even mid-drag; a vanished note ends the drag.
		m.reload()
	case "1", "2", "3", "4", "5":
		m.createNote(model.Colors[int(s[0]-'1')])
	}
	return *m, nil
}

func (m *appModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	pointer := model.Position{X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionMotion:
		m.dragTo(pointer)
		return nil
	case tea.MouseActionRelease:
		m.endDrag()
		return nil
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		m.status = ""
	default:
		return nil
	}

	if sw, ok := paletteHitAt(msg.X, msg.Y); ok {
		m.blurEditor()
		c := sw.color
		if sw.random() {
			c = model.Colors[m.intN(len(model.Colors))]
		}
		m.createNote(c)
		return nil
	}
	if msg.Y == paletteRow {
		// The bar covers whatever note sits under it.
		m.blurEditor()
		return nil
	}

	n, hit := m.noteAt(msg.X, msg.Y)
	switch hit {
	case hitNone:
		m.blurEditor()
		return nil
	case hitEditor:
		// Presses inside the text region belong to the editor.
		return nil
	case hitDelete:
		if n.ID != m.editID {
			m.blurEditor()
		}
		m.deleteNote(n.ID)
		return nil
	}

	// hitBody
	if n.ID == m.editID {
		return nil
	}
	m.blurEditor()

	v := m.view(n.ID)
	now := m.now()
	if !v.lastPressAt.IsZero() && now.Sub(v.lastPressAt) <= doubleClickWindow {
		v.lastPressAt = time.Time{}
		m.endDrag()
		return m.beginEdit(n)
	}
	v.lastPressAt = now
	m.beginDrag(n, pointer)
	return nil
}

// blurEditor commits an open edit, as losing focus does.
func (m *appModel) blurEditor() {
	if m.editID != "" {
		m.commitEdit()
	}
}

func (m *appModel) createNote(c model.Color) {
	n := m.board.Create(c)
	m.syncBoard()
	m.view(n.ID)
	m.log.Debug("note created", zap.String("id", n.ID), zap.String("color", string(c)))
}

func (m *appModel) deleteNote(id string) {
	ok := m.board.Delete(id)
	m.syncBoard()
	if !ok {
		return
	}
	m.syncViews()
	m.log.Debug("note deleted", zap.String("id", id))
	m.applyPendingReload()
}

func (m *appModel) reload() {
	m.reloadPending = false
	if _, err := m.board.Reload(context.Background()); err != nil {
		m.log.Warn("reload failed", zap.Error(err))
		return
	}
	m.syncBoard()
}

func (m *appModel) applyPendingReload() {
	if m.reloadPending && m.drag == nil && m.editID == "" {
		m.reload()
	}
}

// drawOrder is insertion order with the dragged or edited note last (on top).
func (m *appModel) drawOrder() []model.Note {
	notes := m.board.Notes()
	active := ""
	switch {
	case m.drag != nil:
		active = m.drag.noteID
	case m.editID != "":
		active = m.editID
	}
	if active == "" {
		return notes
	}
	out := make([]model.Note, 0, len(notes))
	var top []model.Note
	for _, n := range notes {
		if n.ID == active {
			top = append(top, n)
			continue
		}
		out = append(out, n)
	}
	return append(out, top...)
}

// noteAt finds the topmost note under a cell.
func (m *appModel) noteAt(x, y int) (model.Note, hitKind) {
	order := m.drawOrder()
	l := m.board.Layout()
	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		if hit := noteHit(n, l, n.ID == m.editID, x, y); hit != hitNone {
			return n, hit
		}
	}
	return model.Note{}, hitNone
}

func (m appModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	rows := make([]string, m.height)
	blank := styleSurface().Render(strings.Repeat(" ", m.width))
	for i := range rows {
		rows[i] = blank
	}

	l := m.board.Layout()
	for _, n := range m.drawOrder() {
		state := m.stateOf(n.ID)
		editorView := ""
		if state == noteEditing {
			editorView = m.editor.View()
		}
		overlay(rows, renderNote(n, l, state, editorView), n.Position.X, n.Position.Y, m.width)
	}
	// The palette stays on top so it is always clickable.
	status := m.status
	if status == "" && m.editID != "" {
		status = editingHint
	}
	rows[paletteRow] = renderPalette(m.width, status)
	return strings.Join(rows, "\n")
}
