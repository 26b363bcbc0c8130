package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidColor = errors.New("invalid note color")

type Color string

const (
	ColorYellow Color = "yellow"
	ColorPink   Color = "pink"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorOrange Color = "orange"
)

// Colors lists the palette in display order.
var Colors = []Color{ColorYellow, ColorPink, ColorBlue, ColorGreen, ColorOrange}

func (c Color) Valid() bool {
	switch c {
	case ColorYellow, ColorPink, ColorBlue, ColorGreen, ColorOrange:
		return true
	}
	return false
}

func ParseColor(s string) (Color, error) {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q (want one of yellow, pink, blue, green, orange)", ErrInvalidColor, s)
	}
	return c, nil
}

// Position is a screen coordinate in terminal cells. It is never clamped:
// notes may sit partially or fully off-screen.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) Sub(q Position) Position { return Position{X: p.X - q.X, Y: p.Y - q.Y} }

type Note struct {
	ID       string   `json:"id"`
	Content  string   `json:"content"`
	Color    Color    `json:"color"`
	Position Position `json:"position"`
}

// UnmarshalJSON accepts the nested position form and the older flat form
// where x/y sit next to the other fields.
func (n *Note) UnmarshalJSON(b []byte) error {
	var wire struct {
		ID       string    `json:"id"`
		Content  string    `json:"content"`
		Color    Color     `json:"color"`
		Position *Position `json:"position,omitempty"`

		// Legacy fields (migrated to Position on load).
		LegacyX *float64 `json:"x,omitempty"`
		LegacyY *float64 `json:"y,omitempty"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	*n = Note{ID: wire.ID, Content: wire.Content, Color: wire.Color}
	switch {
	case wire.Position != nil:
		n.Position = *wire.Position
	case wire.LegacyX != nil || wire.LegacyY != nil:
		if wire.LegacyX != nil {
			n.Position.X = int(*wire.LegacyX)
		}
		if wire.LegacyY != nil {
			n.Position.Y = int(*wire.LegacyY)
		}
	}
	return nil
}
