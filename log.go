package ansiterm

import (
	"log/slog"
	"os"
)

// logger is used only for the fatal-abort paths the legacy core treats as
// unrecoverable process exits (stacking violation, device I/O failure)
// and for event-source diagnostics; it is never used on
// the hot path of drawing or event decoding. Defaults to a text handler on
// stderr so it doesn't collide with the screen engine's own stdout use.
var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// SetLogger replaces the package-wide logger, letting an application route
// these diagnostics into its own structured-logging pipeline.
func SetLogger(l *slog.Logger) { logger = l }

func logFatal(err error) {
	logger.Error("ansiterm: fatal", "error", err)
}

// fatal implements spec §7's propagation policy for the two error kinds
// this rewrite keeps process-fatal (stacking violation, device I/O): a
// single-line diagnostic to stderr, then a nonzero exit — the terminal is
// unusable or the library's own bookkeeping is corrupted either way, so
// there is no recoverable state to hand back to the caller.
var fatal = func(err error) {
	logFatal(err)
	osExit(1)
}

var osExit = os.Exit
