package board

import (
	"math/rand/v2"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type options struct {
	layout   Layout
	newID    func() string
	intN     func(int) int
	viewport func() (w, h int)
	log      *zap.Logger
}

// Option configures a Board.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		layout:   DefaultLayout(),
		newID:    func() string { return "note-" + uuid.NewString() },
		intN:     rand.IntN,
		viewport: func() (int, int) { return 80, 24 },
		log:      zap.NewNop(),
	}
}

func WithLayout(l Layout) Option {
	return func(o *options) { o.layout = l }
}

// WithIDFunc replaces the id generator. Ids it returns that already exist on
// the board are retried.
func WithIDFunc(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// WithRand makes placement deterministic.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		if r != nil {
			o.intN = r.IntN
		}
	}
}

// WithViewport sets the viewport size source consulted when a note is created.
func WithViewport(fn func() (w, h int)) Option {
	return func(o *options) {
		if fn != nil {
			o.viewport = fn
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}
