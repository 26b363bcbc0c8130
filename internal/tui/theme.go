package tui

import (
	"os"
	"strconv"
	"strings"

	"stickies/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The board must stay readable on light and dark terminals. Chrome uses
// lipgloss.AdaptiveColor; notes keep their paper color on both and always use
// dark ink.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted     lipgloss.TerminalColor = ac("240", "243")
	colorSurfaceBg lipgloss.TerminalColor = ac("255", "235")
	colorSurfaceFg lipgloss.TerminalColor = ac("235", "252")
	colorAccent    lipgloss.TerminalColor = ac("27", "62")
	colorAccentFg  lipgloss.TerminalColor = ac("255", "235")

	colorNoteInk lipgloss.TerminalColor = lipgloss.Color("#2b2b2b")
)

// notePaper maps each palette color to its card background.
var notePaper = map[model.Color]lipgloss.AdaptiveColor{
	model.ColorYellow: ac("#fff59d", "#f5e56b"),
	model.ColorPink:   ac("#f8bbd0", "#f06f9c"),
	model.ColorBlue:   ac("#b3e5fc", "#5cb8e6"),
	model.ColorGreen:  ac("#c8e6c9", "#7cc47f"),
	model.ColorOrange: ac("#ffcc80", "#f5a742"),
}

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleSurface() lipgloss.Style {
	return lipgloss.NewStyle().Background(colorSurfaceBg).Foreground(colorSurfaceFg)
}

func styleNote(c model.Color) lipgloss.Style {
	return lipgloss.NewStyle().Background(notePaper[c]).Foreground(colorNoteInk)
}

// applyColorProfilePreference sets Lip Gloss's color profile for the TUI.
//
// termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which can disable
// colors in a TUI by accident; only NO_COLOR (or --no-color) is honored here.
func applyColorProfilePreference(noColor bool) {
	if noColor || strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") && profile != termenv.TrueColor {
		profile = termenv.ANSI256
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures background detection for AdaptiveColor.
//
// Priority:
// 1) STICKIES_TUI_THEME=light|dark|auto
// 2) COLORFGBG heuristic ("fg;bg")
func applyThemePreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("STICKIES_TUI_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}

	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}
