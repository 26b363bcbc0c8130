package board

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"stickies/internal/model"
	"stickies/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "sticky-notes"

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("note-%d", n)
	}
}

func newTestBoard(t *testing.T, slots store.Slots, opts ...Option) *Board {
	t.Helper()
	base := []Option{
		WithIDFunc(seqIDs()),
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithViewport(func() (int, int) { return 120, 40 }),
	}
	return New(context.Background(), slots, testKey, append(base, opts...)...)
}

func savedNotes(t *testing.T, slots store.Slots) []model.Note {
	t.Helper()
	raw, ok, err := slots.Read(context.Background(), testKey)
	require.NoError(t, err)
	require.True(t, ok, "expected slot %q to be written", testKey)
	notes, err := Decode(raw)
	require.NoError(t, err)
	return notes
}

func TestNew_EmptyOrCorruptStorageStartsEmpty(t *testing.T) {
	t.Parallel()

	cases := map[string][]byte{
		"absent":     nil,
		"empty":      []byte(""),
		"null":       []byte("null"),
		"not json":   []byte("{{{"),
		"wrong kind": []byte(`{"id":"a"}`),
	}
	for name, raw := range cases {
		raw := raw
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			slots := store.NewMemory()
			if raw != nil {
				require.NoError(t, slots.Write(context.Background(), testKey, raw))
			}
			b := newTestBoard(t, slots)
			assert.Equal(t, 0, b.Len())
			assert.Equal(t, []model.Note{}, b.Notes())
		})
	}
}

func TestNew_DropsInvalidEntries(t *testing.T) {
	t.Parallel()

	slots := store.NewMemory()
	raw := `[
		{"id":"a","content":"keep","color":"yellow","position":{"x":1,"y":2}},
		{"id":"","content":"no id","color":"pink","position":{"x":0,"y":0}},
		{"id":"b","content":"bad color","color":"purple","position":{"x":0,"y":0}},
		{"id":"a","content":"dup","color":"blue","position":{"x":0,"y":0}},
		{"id":"c","content":"legacy","color":"green","x":5,"y":6}
	]`
	require.NoError(t, slots.Write(context.Background(), testKey, []byte(raw)))

	b := newTestBoard(t, slots)
	assert.Equal(t, []model.Note{
		{ID: "a", Content: "keep", Color: model.ColorYellow, Position: model.Position{X: 1, Y: 2}},
		{ID: "c", Content: "legacy", Color: model.ColorGreen, Position: model.Position{X: 5, Y: 6}},
	}, b.Notes())
}

func TestCreate_NNotesUniqueIDsPaletteColors(t *testing.T) {
	t.Parallel()

	slots := store.NewMemory()
	b := New(context.Background(), slots, testKey) // real uuid ids

	const n = 50
	for i := 0; i < n; i++ {
		b.Create(model.Colors[i%len(model.Colors)])
	}
	notes := b.Notes()
	require.Len(t, notes, n)
	seen := map[string]bool{}
	for _, note := range notes {
		assert.False(t, seen[note.ID], "duplicate id %s", note.ID)
		seen[note.ID] = true
		assert.True(t, note.Color.Valid(), "color %q", note.Color)
		assert.Equal(t, "", note.Content)
	}
	assert.Equal(t, notes, savedNotes(t, slots), "every create persists the whole collection")
}

func TestCreate_RetriesCollidingIDs(t *testing.T) {
	t.Parallel()

	b := newTestBoard(t, store.NewMemory(), WithIDFunc(func() string { return "same" }))
	a := b.Create(model.ColorPink)
	c := b.Create(model.ColorPink)
	assert.Equal(t, "same", a.ID)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestScenario_CreateYellowThenEdit(t *testing.T) {
	t.Parallel()

	slots := store.NewMemory()
	b := newTestBoard(t, slots)
	l := b.Layout()

	n := b.Create(model.ColorYellow)
	assert.Equal(t, "", n.Content)
	assert.GreaterOrEqual(t, n.Position.X, l.Padding)
	assert.LessOrEqual(t, n.Position.X, 120-l.NoteWidth-l.Padding)
	assert.GreaterOrEqual(t, n.Position.Y, l.Padding+l.HeaderReserve)
	assert.LessOrEqual(t, n.Position.Y, 40-l.NoteHeight-l.Padding)

	require.True(t, b.UpdateContent(n.ID, "Buy milk"))

	saved := savedNotes(t, slots)
	require.Len(t, saved, 1)
	assert.Equal(t, n.ID, saved[0].ID)
	assert.Equal(t, "Buy milk", saved[0].Content)
	assert.Equal(t, model.ColorYellow, saved[0].Color)
	assert.Equal(t, n.Position, saved[0].Position)
}

func TestUpdateContent_OnlyTouchesTarget(t *testing.T) {
	t.Parallel()

	b := newTestBoard(t, store.NewMemory())
	a := b.Create(model.ColorBlue)
	c := b.Create(model.ColorGreen)
	before := b.Notes()

	require.True(t, b.UpdateContent(c.ID, "x"))
	after := b.Notes()
	assert.Equal(t, before[0], after[0])
	assert.Equal(t, "x", after[1].Content)
	assert.Equal(t, c.ID, after[1].ID)
	assert.Equal(t, c.Color, after[1].Color)
	assert.Equal(t, c.Position, after[1].Position)
	assert.Equal(t, a.ID, after[0].ID)
}

func TestMissingIDIsNoOp(t *testing.T) {
	t.Parallel()

	slots := store.NewMemory()
	b := newTestBoard(t, slots)
	b.Create(model.ColorOrange)
	writes := slots.Writes()
	before := b.Notes()

	assert.False(t, b.UpdateContent("nope", "x"))
	assert.False(t, b.UpdatePosition("nope", model.Position{X: 1, Y: 1}))
	assert.False(t, b.Delete("nope"))
	assert.Equal(t, before, b.Notes())
	assert.Equal(t, writes, slots.Writes(), "no-ops must not write")
}

func TestUpdatePosition_LastWriteWins(t *testing.T) {
	t.Parallel()

	slots := store.NewMemory()
	b := newTestBoard(t, slots)
	n := b.Create(model.ColorPink)

	require.True(t, b.UpdatePosition(n.ID, model.Position{X: 10, Y: 20}))
	require.True(t, b.UpdatePosition(n.ID, model.Position{X: 15, Y: 20}))
	got, ok := b.Note(n.ID)
	require.True(t, ok)
	assert.Equal(t, model.Position{X: 15, Y: 20}, got.Position)
	assert.Equal(t, model.Position{X: 15, Y: 20}, savedNotes(t, slots)[0].Position)

	// Off-screen positions are kept as-is.
	require.True(t, b.UpdatePosition(n.ID, model.Position{X: -30, Y: 500}))
	got, _ = b.Note(n.ID)
	assert.Equal(t, model.Position{X: -30, Y: 500}, got.Position)
}

func TestUpdatePosition_SamePositionSkipsWrite(t *testing.T) {
	t.Parallel()

	slots := store.NewMemory()
	b := newTestBoard(t, slots)
	n := b.Create(model.ColorPink)
	writes := slots.Writes()

	assert.True(t, b.UpdatePosition(n.ID, n.Position))
	assert.Equal(t, writes, slots.Writes())
}

func TestDelete_RemovesExactlyOneKeepsOrder(t *testing.T) {
	t.Parallel()

	slots := store.NewMemory()
	b := newTestBoard(t, slots)
	var ids []string
	for _, c := range model.Colors {
		ids = append(ids, b.Create(c).ID)
	}

	require.True(t, b.Delete(ids[2]))
	got := b.Notes()
	require.Len(t, got, 4)
	assert.Equal(t, []string{ids[0], ids[1], ids[3], ids[4]}, []string{got[0].ID, got[1].ID, got[2].ID, got[3].ID})
	assert.Equal(t, got, savedNotes(t, slots))
}

func TestDelete_Idempotent(t *testing.T) {
	t.Parallel()

	slots := store.NewMemory()
	b := newTestBoard(t, slots)
	n := b.Create(model.ColorYellow)
	b.Create(model.ColorBlue)

	require.True(t, b.Delete(n.ID))
	once := b.Notes()
	saved := savedNotes(t, slots)

	assert.False(t, b.Delete(n.ID))
	assert.Equal(t, once, b.Notes())
	assert.Equal(t, saved, savedNotes(t, slots))
}

func TestScenario_DeleteOneOfTwoStackedNotes(t *testing.T) {
	t.Parallel()

	b := newTestBoard(t, store.NewMemory())
	a := b.Create(model.ColorYellow)
	c := b.Create(model.ColorPink)
	require.True(t, b.UpdatePosition(a.ID, model.Position{}))
	require.True(t, b.UpdatePosition(c.ID, model.Position{}))

	require.True(t, b.Delete(a.ID))
	assert.Equal(t, []model.Note{{ID: c.ID, Color: model.ColorPink, Position: model.Position{}}}, b.Notes())
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	notes := []model.Note{
		{ID: "a", Content: "multi\nline ✓", Color: model.ColorYellow, Position: model.Position{X: 3, Y: 4}},
		{ID: "b", Content: "", Color: model.ColorOrange, Position: model.Position{X: -1, Y: 99}},
	}
	raw, err := Encode(notes)
	require.NoError(t, err)
	back, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, notes, back)

	raw, err = Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestPersistAcrossInstances(t *testing.T) {
	t.Parallel()

	slots := store.NewMemory()
	b := newTestBoard(t, slots)
	n := b.Create(model.ColorGreen)
	b.UpdateContent(n.ID, "hello")

	b2 := newTestBoard(t, slots)
	assert.Equal(t, b.Notes(), b2.Notes())
}

func TestSeparateKeysAreIndependentBoards(t *testing.T) {
	t.Parallel()

	slots := store.NewMemory()
	work := New(context.Background(), slots, "work")
	home := New(context.Background(), slots, "home")
	work.Create(model.ColorBlue)

	assert.Equal(t, 1, work.Len())
	assert.Equal(t, 0, home.Len())
	assert.Equal(t, 0, New(context.Background(), slots, "home").Len())
}

func TestWriteFailure_KeepsMemoryState(t *testing.T) {
	t.Parallel()

	slots := store.NewMemory()
	b := newTestBoard(t, slots)
	n := b.Create(model.ColorYellow)

	slots.FailWrites = true
	assert.True(t, b.UpdateContent(n.ID, "unsaved"))
	got, _ := b.Note(n.ID)
	assert.Equal(t, "unsaved", got.Content)
	assert.ErrorIs(t, b.LastWriteErr(), store.ErrWriteRefused)
	assert.Equal(t, "", savedNotes(t, slots)[0].Content)

	slots.FailWrites = false
	b.UpdatePosition(n.ID, model.Position{X: 7, Y: 7})
	assert.NoError(t, b.LastWriteErr())
	assert.Equal(t, "unsaved", savedNotes(t, slots)[0].Content, "next successful write carries the whole collection")
}

func TestReload_PicksUpOutsideWritesIgnoresOwn(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	slots := store.NewMemory()
	b := newTestBoard(t, slots)
	b.Create(model.ColorYellow)

	changed, err := b.Reload(ctx)
	require.NoError(t, err)
	assert.False(t, changed, "own write is not a change")

	other := New(ctx, slots, testKey, WithIDFunc(func() string { return "from-cli" }))
	other.Create(model.ColorBlue)

	changed, err = b.Reload(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	require.Equal(t, 2, b.Len())
	assert.Equal(t, "from-cli", b.Notes()[1].ID)
}

func TestMutationsKeepOutsideWrites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	slots := store.NewMemory()
	b := newTestBoard(t, slots)
	mine := b.Create(model.ColorYellow)

	other := New(ctx, slots, testKey, WithIDFunc(func() string { return "from-cli" }))
	other.Create(model.ColorBlue)

	// No Reload in between: the mutation itself must notice the outside note.
	require.True(t, b.UpdatePosition(mine.ID, model.Position{X: 16, Y: 7}))
	assert.Equal(t, 1, b.Revision())
	saved := savedNotes(t, slots)
	require.Len(t, saved, 2)
	assert.Equal(t, model.Position{X: 16, Y: 7}, saved[0].Position)
	assert.Equal(t, "from-cli", saved[1].ID)

	require.True(t, other.UpdateContent("from-cli", "from elsewhere"))
	require.True(t, b.UpdateContent(mine.ID, "hi"))
	saved = savedNotes(t, slots)
	require.Len(t, saved, 2)
	assert.Equal(t, "hi", saved[0].Content)
	assert.Equal(t, "from elsewhere", saved[1].Content)

	changed, err := b.Reload(ctx)
	require.NoError(t, err)
	assert.False(t, changed, "the merged write is the board's own")
}

func TestMutationOnNoteRemovedOutsideIsNoOp(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	slots := store.NewMemory()
	b := newTestBoard(t, slots)
	n := b.Create(model.ColorPink)

	other := New(ctx, slots, testKey)
	require.True(t, other.Delete(n.ID))
	writes := slots.Writes()

	assert.False(t, b.UpdatePosition(n.ID, model.Position{X: 3, Y: 3}))
	assert.False(t, b.UpdateContent(n.ID, "gone"))
	assert.False(t, b.Delete(n.ID))
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, writes, slots.Writes(), "nothing to write back")
	assert.Empty(t, savedNotes(t, slots))
}

func TestPlace(t *testing.T) {
	t.Parallel()

	l := Layout{NoteWidth: 24, NoteHeight: 9, Padding: 1, HeaderReserve: 2}
	r := rand.New(rand.NewPCG(7, 7))
	for i := 0; i < 500; i++ {
		p := l.Place(100, 30, r.IntN)
		require.GreaterOrEqual(t, p.X, 1)
		require.LessOrEqual(t, p.X, 100-24-1)
		require.GreaterOrEqual(t, p.Y, 3)
		require.LessOrEqual(t, p.Y, 30-9-1)
	}

	// Viewport smaller than a note: clamp to the lower bounds.
	assert.Equal(t, model.Position{X: 1, Y: 3}, l.Place(10, 5, r.IntN))

	// Exact fit has a single spot.
	assert.Equal(t, model.Position{X: 1, Y: 3}, l.Place(26, 13, r.IntN))
}
