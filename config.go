package ansiterm

import "io"

// Config controls Terminal construction. The zero value is valid and
// no environment variable is ever read by the core —
// no field here is ever populated from the environment; callers that want
// environment-driven configuration read it themselves and set these
// fields explicitly.
type Config struct {
	// Stdin/Stdout replace os.Stdin/os.Stdout. Stdin is used only when it
	// is an *os.File, whose descriptor is read directly; any other reader
	// is ignored and os.Stdin is read. Stdout may be any writer, but an
	// *os.File must be a terminal; raw-mode setup and size queries always
	// use os.Stdout's descriptor.
	Stdin  io.Reader
	Stdout io.Writer

	// Inline puts the screen engine in inline mode (no alternate-screen
	// switch) rather than the default full-screen alternate-buffer mode.
	Inline bool

	// WindowManager loads component E at construction, as
	// Terminal.EnableWindows does.
	WindowManager bool

	// FrameTimerHz, if nonzero, arms a repeating timer that emits
	// EventFrame at this rate.
	FrameTimerHz int
}
