package cli

import (
	"errors"
	"fmt"

	"stickies/internal/board"
)

// ErrBoardNotFound is returned for a board key with no saved slot.
var ErrBoardNotFound = errors.New("board not found")

// lookupError names the missing note or board and unwraps to its sentinel, so
// callers match with errors.Is while users see the id.
type lookupError struct {
	kind     string
	id       string
	sentinel error
}

func (e lookupError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func (e lookupError) Unwrap() error { return e.sentinel }

func errNoteNotFound(id string) error {
	return lookupError{kind: "note", id: id, sentinel: board.ErrNoteNotFound}
}

func errBoardNotFound(key string) error {
	return lookupError{kind: "board", id: key, sentinel: ErrBoardNotFound}
}
