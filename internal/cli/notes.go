package cli

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"stickies/internal/board"
	"stickies/internal/model"

	"github.com/spf13/cobra"
)

// noteRows renders as a JSON array of notes or as a table.
type noteRows []model.Note

func (r noteRows) Headers() []string { return []string{"ID", "COLOR", "X", "Y", "CONTENT"} }

func (r noteRows) Rows() [][]string {
	out := make([][]string, 0, len(r))
	for _, n := range r {
		out = append(out, []string{n.ID, string(n.Color), strconv.Itoa(n.Position.X), strconv.Itoa(n.Position.Y), contentPreview(n.Content, 40)})
	}
	return out
}

func contentPreview(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > limit {
		return string(r[:limit-1]) + "…"
	}
	return s
}

type deletedPayload struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (d deletedPayload) Headers() []string { return []string{"ID", "DELETED"} }

func (d deletedPayload) Rows() [][]string {
	return [][]string{{d.ID, strconv.FormatBool(d.Deleted)}}
}

func newNotesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"note"},
		Short:   "List and change notes on a board",
	}
	cmd.AddCommand(newNotesListCmd(app))
	cmd.AddCommand(newNotesShowCmd(app))
	cmd.AddCommand(newNotesAddCmd(app))
	cmd.AddCommand(newNotesEditCmd(app))
	cmd.AddCommand(newNotesMoveCmd(app))
	cmd.AddCommand(newNotesRmCmd(app))
	return cmd
}

func newNotesListCmd(app *App) *cobra.Command {
	var color string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var want model.Color
			if strings.TrimSpace(color) != "" {
				c, err := model.ParseColor(color)
				if err != nil {
					return writeErr(cmd, err)
				}
				want = c
			}
			s, err := openSession(cmd.Context(), app, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			rows := noteRows{}
			for _, n := range s.board.Notes() {
				if want == "" || n.Color == want {
					rows = append(rows, n)
				}
			}
			return writeOut(cmd, app, rows)
		},
	}
	cmd.Flags().StringVar(&color, "color", "", "Only notes of this color")
	return cmd
}

func newNotesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <note-id>",
		Short: "Show one note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), app, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			n, ok := s.board.Note(args[0])
			if !ok {
				return writeErr(cmd, errNoteNotFound(args[0]))
			}
			return writeOut(cmd, app, noteOut(n))
		},
	}
}

func newNotesAddCmd(app *App) *cobra.Command {
	var (
		color  string
		text   string
		width  int
		height int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a note at a random spot in a width x height viewport",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := model.Colors[rand.IntN(len(model.Colors))]
			if strings.TrimSpace(color) != "" {
				parsed, err := model.ParseColor(color)
				if err != nil {
					return writeErr(cmd, err)
				}
				c = parsed
			}
			if width <= 0 || height <= 0 {
				return writeErr(cmd, fmt.Errorf("viewport must be positive; got %dx%d", width, height))
			}

			s, err := openSession(cmd.Context(), app, false, board.WithViewport(func() (int, int) { return width, height }))
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			n := s.board.Create(c)
			if text != "" {
				s.board.UpdateContent(n.ID, text)
				n, _ = s.board.Note(n.ID)
			}
			if err := s.board.LastWriteErr(); err != nil {
				return writeErr(cmd, fmt.Errorf("save note: %w", err))
			}
			return writeOut(cmd, app, noteOut(n))
		},
	}
	cmd.Flags().StringVar(&color, "color", "", "Note color: yellow|pink|blue|green|orange (default: random)")
	cmd.Flags().StringVar(&text, "text", "", "Note text")
	cmd.Flags().IntVar(&width, "width", 80, "Viewport width in cells used for placement")
	cmd.Flags().IntVar(&height, "height", 24, "Viewport height in cells used for placement")
	return cmd
}

func newNotesEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <note-id> <text>",
		Short: "Replace a note's text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateNote(cmd, app, args[0], func(b *board.Board) bool {
				return b.UpdateContent(args[0], args[1])
			})
		},
	}
}

func newNotesMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <note-id> <x> <y>",
		Short: "Move a note (coordinates may be negative or off-screen)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.Atoi(args[1])
			if err != nil {
				return writeErr(cmd, fmt.Errorf("x: %w", err))
			}
			y, err := strconv.Atoi(args[2])
			if err != nil {
				return writeErr(cmd, fmt.Errorf("y: %w", err))
			}
			return mutateNote(cmd, app, args[0], func(b *board.Board) bool {
				return b.UpdatePosition(args[0], model.Position{X: x, Y: y})
			})
		},
	}
}

func newNotesRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <note-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), app, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			if !s.board.Delete(args[0]) {
				return writeErr(cmd, errNoteNotFound(args[0]))
			}
			if err := s.board.LastWriteErr(); err != nil {
				return writeErr(cmd, fmt.Errorf("save board: %w", err))
			}
			return writeOut(cmd, app, deletedPayload{ID: args[0], Deleted: true})
		},
	}
}

// mutateNote applies fn to the board and prints the note afterwards. fn reports
// false when the note does not exist. An unchanged note is not an error.
func mutateNote(cmd *cobra.Command, app *App, id string, fn func(*board.Board) bool) error {
	s, err := openSession(cmd.Context(), app, false)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer s.Close()

	if _, ok := s.board.Note(id); !ok {
		return writeErr(cmd, errNoteNotFound(id))
	}
	fn(s.board)
	if err := s.board.LastWriteErr(); err != nil {
		return writeErr(cmd, fmt.Errorf("save board: %w", err))
	}
	n, _ := s.board.Note(id)
	return writeOut(cmd, app, noteOut(n))
}

// noteOut is a single note that can also print as a one-row table.
type noteOut model.Note

func (n noteOut) Headers() []string { return noteRows{}.Headers() }

func (n noteOut) Rows() [][]string { return noteRows{model.Note(n)}.Rows() }
