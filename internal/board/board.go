// Package board owns the canonical note collection of one board and keeps its
// persisted slot in sync with every mutation.
package board

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"stickies/internal/model"
	"stickies/internal/store"

	"go.uber.org/zap"
)

var ErrNoteNotFound = errors.New("note not found")

// Board owns one slot. Other processes may write the same slot; every
// mutation re-reads it first and applies the change by id to what is stored.
// It is not safe for concurrent use; all calls come from one event loop.
type Board struct {
	key   string
	slots store.Slots
	opts  *options
	log   *zap.Logger

	notes []model.Note

	// lastWritten is the slot value this board last read or wrote.
	lastWritten  []byte
	lastWriteErr error
	revision     int
}

// New loads the board persisted under key. A missing, unreadable or corrupt
// value yields an empty board; New never fails.
func New(ctx context.Context, slots store.Slots, key string, opts ...Option) *Board {
	o := defaultOptions()
	for _, fn := range opts {
		fn(o)
	}
	b := &Board{
		key:   key,
		slots: slots,
		opts:  o,
		log:   o.log.Named("board").With(zap.String("key", key)),
		notes: []model.Note{},
	}

	raw, ok, err := slots.Read(ctx, key)
	switch {
	case err != nil:
		b.log.Warn("slot read failed; starting empty", zap.Error(err))
	case !ok:
		b.log.Debug("no saved notes")
	default:
		b.notes = b.decodeSoft(raw)
		b.lastWritten = raw
	}
	return b
}

func (b *Board) Key() string { return b.key }

func (b *Board) Len() int { return len(b.notes) }

// Layout returns the geometry notes are placed and drawn with.
func (b *Board) Layout() Layout { return b.opts.layout }

// Notes returns a copy of the collection in insertion order.
func (b *Board) Notes() []model.Note {
	out := make([]model.Note, len(b.notes))
	copy(out, b.notes)
	return out
}

func (b *Board) Note(id string) (model.Note, bool) {
	if i := b.indexOf(id); i >= 0 {
		return b.notes[i], true
	}
	return model.Note{}, false
}

// Create appends a new empty note of the given color at a random spot in the
// current viewport and persists the board.
func (b *Board) Create(color model.Color) model.Note {
	var n model.Note
	b.mutate(func() bool {
		w, h := b.opts.viewport()
		n = model.Note{
			ID:       b.freshID(),
			Content:  "",
			Color:    color,
			Position: b.opts.layout.Place(w, h, b.opts.intN),
		}
		b.notes = append(b.notes, n)
		return true
	})
	return n
}

// UpdateContent replaces a note's text. It reports false, without writing,
// when id is not on the board.
func (b *Board) UpdateContent(id, content string) bool {
	return b.mutate(func() bool {
		i := b.indexOf(id)
		if i < 0 {
			return false
		}
		b.notes[i].Content = content
		return true
	})
}

// UpdatePosition moves a note. Called once per pointer motion while dragging.
func (b *Board) UpdatePosition(id string, pos model.Position) bool {
	return b.mutate(func() bool {
		i := b.indexOf(id)
		if i < 0 {
			return false
		}
		b.notes[i].Position = pos
		return true
	})
}

func (b *Board) Delete(id string) bool {
	return b.mutate(func() bool {
		i := b.indexOf(id)
		if i < 0 {
			return false
		}
		b.notes = append(b.notes[:i], b.notes[i+1:]...)
		return true
	})
}

// Reload re-reads the slot after an outside write. It reports whether the
// collection changed; values this board wrote itself are ignored.
func (b *Board) Reload(ctx context.Context) (bool, error) {
	raw, ok, err := b.slots.Read(ctx, b.key)
	if err != nil {
		return false, err
	}
	return b.adopt(raw, ok), nil
}

// Revision counts how often the collection was replaced by an outside write.
// Views compare it to notice notes that came or went underneath them.
func (b *Board) Revision() int { return b.revision }

// LastWriteErr is the error from the most recent slot write, or nil once a
// later write succeeds. The in-memory collection is never rolled back.
func (b *Board) LastWriteErr() error { return b.lastWriteErr }

func (b *Board) indexOf(id string) int {
	for i := range b.notes {
		if b.notes[i].ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) freshID() string {
	for attempt := 0; attempt < 8; attempt++ {
		id := strings.TrimSpace(b.opts.newID())
		if id != "" && b.indexOf(id) < 0 {
			return id
		}
	}
	// The generator keeps colliding; derive a free id from the last one.
	base := strings.TrimSpace(b.opts.newID())
	if base == "" {
		base = "note"
	}
	for n := 2; ; n++ {
		id := fmt.Sprintf("%s-%d", base, n)
		if b.indexOf(id) < 0 {
			return id
		}
	}
}

// mutate applies fn to the latest stored collection and persists the result.
// A slot changed by another writer since this board last saw it is adopted
// first, so fn never overwrites notes it did not know about.
func (b *Board) mutate(fn func() bool) bool {
	ctx := context.Background()
	if raw, ok, err := b.slots.Read(ctx, b.key); err != nil {
		b.log.Warn("slot read before write failed; using in-memory notes", zap.Error(err))
	} else if b.adopt(raw, ok) {
		b.log.Info("merged outside write before mutation", zap.Int("notes", len(b.notes)))
	}
	if !fn() {
		return false
	}
	b.persist(ctx)
	return true
}

// adopt replaces the collection with a stored value this board did not write.
func (b *Board) adopt(raw []byte, ok bool) bool {
	if !ok {
		raw = nil
	}
	if bytes.Equal(raw, b.lastWritten) {
		return false
	}
	b.notes = b.decodeSoft(raw)
	b.lastWritten = raw
	b.revision++
	b.log.Debug("reloaded", zap.Int("notes", len(b.notes)))
	return true
}

func (b *Board) persist(ctx context.Context) {
	raw, err := Encode(b.notes)
	if err != nil {
		b.lastWriteErr = err
		b.log.Error("encode notes", zap.Error(err))
		return
	}
	if b.lastWritten != nil && bytes.Equal(raw, b.lastWritten) {
		return
	}
	if err := b.slots.Write(ctx, b.key, raw); err != nil {
		b.lastWriteErr = err
		b.log.Warn("slot write failed; keeping in-memory notes", zap.Error(err), zap.Int("notes", len(b.notes)))
		return
	}
	b.lastWritten = raw
	b.lastWriteErr = nil
}

func (b *Board) decodeSoft(raw []byte) []model.Note {
	if len(bytes.TrimSpace(raw)) == 0 {
		return []model.Note{}
	}
	notes, err := Decode(raw)
	if err != nil {
		b.log.Warn("saved notes are corrupt; starting empty", zap.Error(err))
		return []model.Note{}
	}
	kept, dropped := Sanitize(notes)
	for _, d := range dropped {
		b.log.Warn("dropping invalid saved note", zap.String("id", d.Note.ID), zap.String("reason", d.Reason))
	}
	return kept
}

// Encode serializes the collection as the slot value: a JSON array in order.
func Encode(notes []model.Note) ([]byte, error) {
	if notes == nil {
		notes = []model.Note{}
	}
	return json.Marshal(notes)
}

func Decode(raw []byte) ([]model.Note, error) {
	var notes []model.Note
	if err := json.Unmarshal(raw, &notes); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	if notes == nil {
		notes = []model.Note{}
	}
	return notes, nil
}

type Dropped struct {
	Note   model.Note
	Reason string
}

// Sanitize keeps the notes that satisfy the board invariants (non-empty unique
// id, palette color) in their original order.
func Sanitize(notes []model.Note) ([]model.Note, []Dropped) {
	kept := make([]model.Note, 0, len(notes))
	var dropped []Dropped
	seen := map[string]bool{}
	for _, n := range notes {
		switch {
		case strings.TrimSpace(n.ID) == "":
			dropped = append(dropped, Dropped{Note: n, Reason: "empty id"})
		case seen[n.ID]:
			dropped = append(dropped, Dropped{Note: n, Reason: "duplicate id"})
		case !n.Color.Valid():
			dropped = append(dropped, Dropped{Note: n, Reason: fmt.Sprintf("color %q", n.Color)})
		default:
			seen[n.ID] = true
			kept = append(kept, n)
		}
	}
	return kept, dropped
}
