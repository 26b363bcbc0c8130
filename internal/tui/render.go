package tui

import (
	"strings"

	"stickies/internal/board"
	"stickies/internal/model"

	xansi "github.com/charmbracelet/x/ansi"
)

const (
	deleteControl = "[x]"
	// deleteControlInset is how far the delete control starts from the note's right edge.
	deleteControlInset = len(deleteControl) + 1

	emptyNotePlaceholder = "Double-click to edit"
	ansiReset            = "\x1b[0m"
)

// renderNote draws one note as exactly l.NoteHeight lines of l.NoteWidth cells.
func renderNote(n model.Note, l board.Layout, state noteState, editorView string) []string {
	w, h := l.NoteWidth, l.NoteHeight
	innerW, innerH := w-2, h-2
	paper := styleNote(n.Color)

	g := noteBorder(state)

	lines := make([]string, 0, h)
	lines = append(lines, paper.Render(g.tl+strings.Repeat(g.h, w-2-len(deleteControl))+deleteControl+g.tr))

	var body []string
	if state == noteEditing {
		body = strings.Split(editorView, "\n")
		for i := range body {
			body[i] = padOrCutANSI(body[i], innerW)
		}
	} else {
		text := n.Content
		style := paper
		if strings.TrimSpace(text) == "" {
			text = emptyNotePlaceholder
			style = paper.Faint(true)
		}
		for _, line := range wrapNoteText(text, innerW, innerH) {
			body = append(body, style.Render(padOrCutANSI(line, innerW)))
		}
	}
	blank := paper.Render(strings.Repeat(" ", innerW))
	for i := 0; i < innerH; i++ {
		row := blank
		if i < len(body) {
			row = body[i]
		}
		lines = append(lines, paper.Render(g.v)+row+paper.Render(g.v))
	}

	lines = append(lines, paper.Render(g.bl+strings.Repeat(g.h, w-2)+g.br))
	return lines
}

// wrapNoteText word-wraps text to width, breaking words that do not fit, and
// keeps at most maxLines lines (the last one marked with an ellipsis if cut).
func wrapNoteText(text string, width, maxLines int) []string {
	if width <= 0 || maxLines <= 0 {
		return nil
	}
	text = strings.ReplaceAll(text, "\t", "    ")
	wrapped := xansi.Hardwrap(xansi.Wordwrap(text, width, " -"), width, true)
	lines := strings.Split(wrapped, "\n")
	if len(lines) <= maxLines {
		return lines
	}
	lines = lines[:maxLines]
	last := lines[maxLines-1]
	if xansi.StringWidth(last) >= width {
		last = xansi.Cut(last, 0, width-1)
	}
	lines[maxLines-1] = last + glyphEllipsis()
	return lines
}

func padOrCutANSI(s string, w int) string {
	cur := xansi.StringWidth(s)
	switch {
	case cur < w:
		return s + strings.Repeat(" ", w-cur)
	case cur > w:
		return xansi.Cut(s, 0, w) + ansiReset
	default:
		return s
	}
}

// overlay paints block onto rows with its top-left corner at (x, y), clipping
// whatever falls outside the screen.
func overlay(rows []string, block []string, x, y, width int) {
	for i, line := range block {
		r := y + i
		if r < 0 || r >= len(rows) {
			continue
		}
		lineW := xansi.StringWidth(line)
		x0, x1 := max(x, 0), min(x+lineW, width)
		if x1 <= x0 {
			continue
		}
		seg := xansi.Cut(line, x0-x, x1-x)
		under := rows[r]
		rows[r] = xansi.Cut(under, 0, x0) + ansiReset + seg + ansiReset + xansi.Cut(under, x1, width)
	}
}
