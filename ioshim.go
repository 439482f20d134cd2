package ansiterm

import "io"

// ioSlot names the five primitives the I/O interception contract covers
//: read, write, open, close, lseek.
// Only write is implemented as a concrete override target in this
// library; the other four are names only, and no exported method installs
// an interposer into them.
const (
	ioSlotRead  = "io.read"
	ioSlotWrite = "io.write"
	ioSlotOpen  = "io.open"
	ioSlotClose = "io.close"
	ioSlotLseek = "io.lseek"
)

// termWriter is the default occupant of the "io.write" slot: it is not
// stored in the registry, and InstallWriteInterceptor returns it as the
// previous writer when the slot is empty. Every
// byte written through it is interpreted by the screen engine's
// PlaceChar, so an application's ordinary fmt.Fprintf(term.Writer(), ...)
// calls route through the same minimum-delta repaint logic as the typed
// API.
type termWriter struct {
	t *Terminal
}

func (w termWriter) Write(p []byte) (int, error) {
	for _, b := range p {
		w.t.screen.PlaceChar(rune(b))
	}
	if err := w.t.screen.Flush(); err != nil {
		fatal(err)
		return 0, err
	}
	return len(p), nil
}

// Writer returns an io.Writer that routes application output through the
// screen engine: the termWriter, whatever the "io.write" slot currently
// holds.
func (t *Terminal) Writer() io.Writer { return termWriter{t: t} }

// InstallWriteInterceptor installs a new occupant of the "io.write" slot,
// returning the previous one so the caller's interposer can pass through
// to it.
func (t *Terminal) InstallWriteInterceptor(owner any, w io.Writer) io.Writer {
	prev := t.reg.Install(ioSlotWrite, owner, w)
	if prev == nil {
		return t.Writer()
	}
	return prev.(io.Writer)
}

// RemoveWriteInterceptor undoes InstallWriteInterceptor, restoring prev
// and checking LIFO order.
func (t *Terminal) RemoveWriteInterceptor(owner any, prev io.Writer) error {
	return t.reg.Remove(ioSlotWrite, owner, prev)
}
