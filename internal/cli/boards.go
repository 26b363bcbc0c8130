package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"stickies/internal/board"

	"github.com/spf13/cobra"
)

type boardInfo struct {
	Key       string    `json:"key"`
	Notes     int       `json:"notes"`
	Size      int       `json:"size"`
	UpdatedAt time.Time `json:"updatedAt"`
	Current   bool      `json:"current"`
}

type boardRows []boardInfo

func (r boardRows) Headers() []string { return []string{"KEY", "NOTES", "BYTES", "UPDATED", ""} }

func (r boardRows) Rows() [][]string {
	out := make([][]string, 0, len(r))
	for _, b := range r {
		mark := ""
		if b.Current {
			mark = "*"
		}
		out = append(out, []string{b.Key, strconv.Itoa(b.Notes), strconv.Itoa(b.Size), b.UpdatedAt.Local().Format(time.DateTime), mark})
	}
	return out
}

func newBoardsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boards",
		Short: "Inspect the boards stored in the data dir",
	}
	cmd.AddCommand(newBoardsListCmd(app))
	cmd.AddCommand(newBoardsRmCmd(app))
	return cmd
}

func newBoardsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored board keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), app, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			rows, err := listBoards(cmd.Context(), s)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, rows)
		},
	}
}

func listBoards(ctx context.Context, s *session) (boardRows, error) {
	infos, err := s.db.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	rows := boardRows{}
	for _, info := range infos {
		raw, _, err := s.db.Read(ctx, info.Key)
		if err != nil {
			return nil, fmt.Errorf("read board %s: %w", info.Key, err)
		}
		count := 0
		if notes, err := board.Decode(raw); err == nil {
			kept, _ := board.Sanitize(notes)
			count = len(kept)
		}
		rows = append(rows, boardInfo{
			Key:       info.Key,
			Notes:     count,
			Size:      info.Size,
			UpdatedAt: info.UpdatedAt,
			Current:   info.Key == s.board.Key(),
		})
	}
	return rows, nil
}

func newBoardsRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <key>",
		Short: "Delete a stored board and all its notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), app, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			infos, err := s.db.Keys(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			found := false
			for _, info := range infos {
				found = found || info.Key == args[0]
			}
			if !found {
				return writeErr(cmd, errBoardNotFound(args[0]))
			}
			if err := s.db.Delete(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, fmt.Errorf("delete board: %w", err))
			}
			return writeOut(cmd, app, deletedPayload{ID: args[0], Deleted: true})
		},
	}
}
