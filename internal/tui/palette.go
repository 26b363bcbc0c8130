package tui

import (
	"fmt"
	"strings"

	"stickies/internal/model"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const (
	paletteRow   = 0
	paletteLabel = " New note: "
	paletteHint  = "dbl-click: edit  drag: move  [x]: delete  q: quit "
	editingHint  = "ctrl+s: save  esc: cancel  ctrl+e: $EDITOR"
)

// paletteSwatch is one clickable control on the palette bar. An empty color
// means "pick one at random".
type paletteSwatch struct {
	x0, x1 int
	label  string
	color  model.Color
}

func (s paletteSwatch) random() bool { return s.color == "" }

func paletteSwatches() []paletteSwatch {
	x := xansi.StringWidth(paletteLabel)
	var out []paletteSwatch
	add := func(label string, c model.Color) {
		w := xansi.StringWidth(label)
		out = append(out, paletteSwatch{x0: x, x1: x + w, label: label, color: c})
		x += w + 1
	}
	add("[+]", "")
	for i, c := range model.Colors {
		add(fmt.Sprintf(" %d %s ", i+1, c), c)
	}
	return out
}

func paletteHitAt(x, y int) (paletteSwatch, bool) {
	if y != paletteRow {
		return paletteSwatch{}, false
	}
	for _, s := range paletteSwatches() {
		if x >= s.x0 && x < s.x1 {
			return s, true
		}
	}
	return paletteSwatch{}, false
}

// renderPalette draws the bar; a non-empty status takes the place of the hint.
func renderPalette(width int, status string) string {
	surface := styleSurface()
	var b strings.Builder
	b.WriteString(surface.Bold(true).Render(paletteLabel))
	for i, s := range paletteSwatches() {
		if i > 0 {
			b.WriteString(surface.Render(" "))
		}
		if s.random() {
			b.WriteString(lipgloss.NewStyle().Background(colorAccent).Foreground(colorAccentFg).Bold(true).Render(s.label))
			continue
		}
		b.WriteString(styleNote(s.color).Render(s.label))
	}
	left := b.String()

	hint := paletteHint
	if status != "" {
		hint = status + " "
	}
	used := xansi.StringWidth(left)
	if room := width - used; room > xansi.StringWidth(hint) {
		left += surface.Render(strings.Repeat(" ", room-xansi.StringWidth(hint)))
		left += styleMuted().Background(colorSurfaceBg).Render(hint)
	}
	return padOrCutANSI(left, width)
}
