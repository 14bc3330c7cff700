package sizemap

import (
	"log/slog"

	"github.com/joshuapare/segalloc/internal/logger"
)

// crash records an internal invariant violation and aborts.
// Recoverable configuration problems never come through here.
func crash(l *slog.Logger, msg string, args ...any) {
	if l == nil {
		l = logger.L
	}
	l.Error(msg, args...)
	panic(&InvariantError{Msg: msg, Args: args})
}
