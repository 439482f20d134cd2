package ansiterm

import (
	"bufio"
	"fmt"
	"io"
)

// ansiWriter buffers and emits the ANSI escape sequences of the wire
// format table. It knows nothing about cells or pages; it is the thin
// bottom layer the screen engine calls once it has decided what minimum
// sequence realizes a state transition.
type ansiWriter struct {
	w   *bufio.Writer
	err error
}

func newANSIWriter(w io.Writer) *ansiWriter {
	return &ansiWriter{w: bufio.NewWriter(w)}
}

func (a *ansiWriter) raw(s string) {
	if a.err != nil {
		return
	}
	_, a.err = a.w.WriteString(s)
}

func (a *ansiWriter) rawf(format string, args ...any) {
	if a.err != nil {
		return
	}
	_, a.err = fmt.Fprintf(a.w, format, args...)
}

// Flush pushes buffered output to the underlying writer, returning
// ErrDeviceIO (wrapped) if either buffered writes or the flush itself
// failed — a failed write to the output is fatal.
func (a *ansiWriter) Flush() error {
	if a.err != nil {
		err := a.err
		a.err = nil
		return fmt.Errorf("%w: %v", ErrDeviceIO, err)
	}
	if err := a.w.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceIO, err)
	}
	return nil
}

func (a *ansiWriter) clearHome() { a.raw("\x1b[2J\x1b[H") }
func (a *ansiWriter) home()     { a.raw("\x1b[H") }
func (a *ansiWriter) up()       { a.raw("\x1b[A") }
func (a *ansiWriter) down()     { a.raw("\x1b[B") }
func (a *ansiWriter) left()     { a.raw("\x1b[D") }
func (a *ansiWriter) right()    { a.raw("\x1b[C") }
func (a *ansiWriter) cr()       { a.raw("\r") }
func (a *ansiWriter) crlf()     { a.raw("\r\n") }

// moveTo emits an absolute cursor-position sequence (row first, 1-based).
func (a *ansiWriter) moveTo(x, y int) { a.rawf("\x1b[%d;%dH", y, x) }

func (a *ansiWriter) attrOff() { a.raw("\x1b[0m") }

func (a *ansiWriter) setAttr(attr Attr) {
	switch attr {
	case AttrBlink:
		a.raw("\x1b[5m")
	case AttrReverse:
		a.raw("\x1b[7m")
	case AttrUnderline:
		a.raw("\x1b[4m")
	case AttrBold:
		a.raw("\x1b[1m")
	case AttrItalic:
		a.raw("\x1b[3m")
	case AttrSuperscript, AttrSubscript:
		// No standard SGR code exists for these; nothing is emitted.
	}
}

func (a *ansiWriter) setFore(c Color) { a.rawf("\x1b[%dm", foreCode(c)) }
func (a *ansiWriter) setBack(c Color) { a.rawf("\x1b[%dm", backCode(c)) }

func (a *ansiWriter) wrapOn()  { a.raw("\x1b[7h") }
func (a *ansiWriter) wrapOff() { a.raw("\x1b[7l") }

func (a *ansiWriter) cursorOn()  { a.raw("\x1b[?25h") }
func (a *ansiWriter) cursorOff() { a.raw("\x1b[?25l") }

func (a *ansiWriter) altScreenOn()  { a.raw("\x1b[?1049h") }
func (a *ansiWriter) altScreenOff() { a.raw("\x1b[?1049l") }

func (a *ansiWriter) mouseOn()  { a.raw("\x1b[?1003h") }
func (a *ansiWriter) mouseOff() { a.raw("\x1b[?1003l") }

func (a *ansiWriter) writeByte(b byte) {
	if a.err != nil {
		return
	}
	a.err = a.w.WriteByte(b)
}

func (a *ansiWriter) writeRune(r rune) {
	if a.err != nil {
		return
	}
	_, a.err = a.w.WriteRune(r)
}
