package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteFileName = "stickies.sqlite"

// SQLite stores slots in <dir>/stickies.sqlite.
type SQLite struct {
	dir string
	db  *sql.DB
}

func SQLitePath(dir string) string {
	return filepath.Join(dir, sqliteFileName)
}

func OpenSQLite(ctx context.Context, dir string) (*SQLite, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", SQLitePath(dir))
	if err != nil {
		return nil, err
	}
	// The TUI and CLI may share the file. WAL gives one writer + many readers;
	// busy_timeout avoids "database is locked" when both write at once.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	// Pragmas are per-connection.
	db.SetMaxOpenConns(1)
	if err := migrateSlots(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{dir: dir, db: db}, nil
}

func migrateSlots(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS slots (
			k TEXT PRIMARY KEY,
			v BLOB NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return fmt.Errorf("migrate slots: %w", err)
		}
	}
	return nil
}

func (s *SQLite) Dir() string { return s.dir }

func (s *SQLite) Read(ctx context.Context, key string) ([]byte, bool, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx, `SELECT v FROM slots WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read slot %q: %w", key, err)
	}
	return v, true, nil
}

func (s *SQLite) Write(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO slots(k, v, updated_at_unixms) VALUES(?, ?, ?)
		ON CONFLICT(k) DO UPDATE SET v = excluded.v, updated_at_unixms = excluded.updated_at_unixms`,
		key, value, time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("write slot %q: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *SQLite) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE k = ?`, key); err != nil {
		return fmt.Errorf("delete slot %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Keys(ctx context.Context) ([]SlotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT k, length(v), updated_at_unixms FROM slots`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []SlotInfo{}
	for rows.Next() {
		var info SlotInfo
		var ms int64
		if err := rows.Scan(&info.Key, &info.Size, &ms); err != nil {
			return nil, err
		}
		info.UpdatedAt = time.UnixMilli(ms).UTC()
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortSlotInfos(out)
	return out, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func sortSlotInfos(xs []SlotInfo) {
	sort.Slice(xs, func(i, j int) bool { return xs[i].Key < xs[j].Key })
}
