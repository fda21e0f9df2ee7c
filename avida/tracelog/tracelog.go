// Package tracelog provides the engine's optional diagnostic logger. The
// engine never logs by default; silent runtime faults are organism
// semantics, not failures to report. Hosts that want a trace of births
// and divides build a logger here and hand it to the world.
package tracelog

import (
	"io"
	"log/slog"

	slogmulti "github.com/samber/slog-multi"
)

// Null returns a logger that discards everything written to it.
func Null() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// New fans a single logger out to one text handler per writer, the way
// slog-multi composes multiple sinks behind one *slog.Logger. With no
// writers it behaves like Null.
func New(writers ...io.Writer) *slog.Logger {
	if len(writers) == 0 {
		return Null()
	}
	handlers := make([]slog.Handler, 0, len(writers))
	for _, w := range writers {
		handlers = append(handlers, slog.NewTextHandler(w, nil))
	}
	return slog.New(slogmulti.Fanout(handlers...))
}
