package tui

import (
	"os"
	"strings"
	"sync"
)

// Some terminal fonts render box-drawing characters badly, so the note frames
// come in a Unicode and an ASCII flavor.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

type borderGlyphs struct {
	tl, tr, bl, br, h, v string
}

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode

	restingBorder = borderGlyphs{tl: "╭", tr: "╮", bl: "╰", br: "╯", h: "─", v: "│"}
	// Dragged or edited notes get a heavier frame.
	activeBorder = borderGlyphs{tl: "┏", tr: "┓", bl: "┗", br: "┛", h: "━", v: "┃"}

	restingBorderASCII = borderGlyphs{tl: "+", tr: "+", bl: "+", br: "+", h: "-", v: "|"}
	activeBorderASCII  = borderGlyphs{tl: "#", tr: "#", bl: "#", br: "#", h: "=", v: "#"}
)

func applyGlyphPreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("STICKIES_TUI_GLYPHS"))) {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	defer glyphsMu.RUnlock()
	return currentGlyphs
}

func noteBorder(state noteState) borderGlyphs {
	ascii := glyphs() == glyphSetASCII
	switch {
	case state != noteIdle && ascii:
		return activeBorderASCII
	case state != noteIdle:
		return activeBorder
	case ascii:
		return restingBorderASCII
	default:
		return restingBorder
	}
}

func glyphEllipsis() string {
	if glyphs() == glyphSetASCII {
		return "~"
	}
	return "…"
}
