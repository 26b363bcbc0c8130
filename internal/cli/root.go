package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"stickies/internal/board"
	"stickies/internal/format"
	"stickies/internal/logging"
	"stickies/internal/store"
	"stickies/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	Dir       string
	Board     string
	Format    string
	Pretty    bool
	LogFile   string
	NoColor   bool
	Ephemeral bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "stickies",
		Short:        "Sticky notes on a terminal board (TUI + CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Open the board
  stickies

  # Scriptable commands
  stickies notes add --color pink --text "Call Sam"
  stickies notes list --format table

  # Direct note lookup (shortcut for: stickies notes show <note-id>)
  stickies note-2f1c...
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("STICKIES_DIR", ""), "Data dir holding stickies.sqlite (default: config dataDir)")
	cmd.PersistentFlags().StringVar(&app.Board, "board", envOr("STICKIES_BOARD", ""), "Board key (default: config board, then 'sticky-notes')")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("STICKIES_FORMAT", "json"), "Output format (json|table)")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", envOr("STICKIES_LOG_FILE", ""), "Log file (default: config logFile)")
	cmd.PersistentFlags().BoolVar(&app.NoColor, "no-color", os.Getenv("NO_COLOR") != "", "Disable colors in the TUI")
	cmd.Flags().BoolVar(&app.Ephemeral, "ephemeral", false, "Keep the board in memory only (nothing is read or saved)")

	cmd.AddCommand(newNotesCmd(app))
	cmd.AddCommand(newBoardsCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// session is everything one command needs: resolved config, a logger, the
// slot database and the board loaded from it.
type session struct {
	cfg   *store.GlobalConfig
	log   *zap.Logger
	db    *store.SQLite
	slots store.Slots
	board *board.Board
}

func (s *session) dataDir(app *App) string {
	if app.Dir != "" {
		return app.Dir
	}
	return s.cfg.DataDir
}

func (s *session) Close() {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.log.Warn("close database", zap.Error(err))
		}
	}
	_ = s.log.Sync()
}

// openSession resolves flags over config and opens storage. With memory set
// the board lives in process memory only.
func openSession(ctx context.Context, app *App, memory bool, opts ...board.Option) (*session, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	logFile := app.LogFile
	if logFile == "" {
		logFile = cfg.LogFile
	}
	log, err := logging.New(logFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, log: log}

	if memory {
		s.slots = store.NewMemory()
	} else {
		db, err := store.OpenSQLite(ctx, s.dataDir(app))
		if err != nil {
			_ = log.Sync()
			return nil, fmt.Errorf("open store: %w", err)
		}
		s.db, s.slots = db, db
	}

	key := app.Board
	if key == "" {
		key = cfg.Board
	}
	layout := board.Layout{
		NoteWidth:     cfg.Note.Width,
		NoteHeight:    cfg.Note.Height,
		Padding:       *cfg.Padding,
		HeaderReserve: *cfg.HeaderReserve,
	}
	opts = append([]board.Option{board.WithLayout(layout), board.WithLogger(log)}, opts...)
	s.board = board.New(ctx, s.slots, key, opts...)
	return s, nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	screen := tui.NewScreen(80, 24)
	s, err := openSession(ctx, app, app.Ephemeral, board.WithViewport(screen.Size))
	if err != nil {
		return writeErr(cmd, err)
	}
	defer s.Close()

	var changes <-chan struct{}
	if s.db != nil {
		changes, err = store.Watch(ctx, s.db.Dir(), s.log)
		if err != nil {
			// Live reload is a convenience; the board works without it.
			s.log.Warn("watch disabled", zap.Error(err))
		}
	}
	s.log.Info("tui starting", zap.String("board", s.board.Key()), zap.Int("notes", s.board.Len()))

	return tui.Run(tui.Options{
		Board:   s.board,
		Screen:  screen,
		Changes: changes,
		Logger:  s.log,
		NoColor: app.NoColor,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.Pretty)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
