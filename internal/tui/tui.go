package tui

import (
	"stickies/internal/board"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type Options struct {
	Board *board.Board
	// Screen must be the same viewport the board was built with.
	Screen *Screen
	// Changes signals outside writes to the board's storage (optional).
	Changes <-chan struct{}
	Logger  *zap.Logger
	NoColor bool
}

func Run(opts Options) error {
	applyColorProfilePreference(opts.NoColor)
	applyThemePreference()
	applyGlyphPreference()

	m := newAppModel(opts)
	// Cell motion reports movement only while a button is held, which is
	// exactly the span of a drag.
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
