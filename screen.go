package ansiterm

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// Screen is the screen engine: it owns the page set, the
// physical-terminal shadow, and the low-level ANSI writer, and turns
// high-level operations (position, place_char, scroll, attribute/color
// set, page select) into the minimum escape sequence that realizes the
// new state. Raw-mode setup and resize detection are adapted from the
// teacher's Screen type; the repaint/diff algorithms below are new.
type Screen struct {
	pages  *pageSet
	shadow *shadow
	aw     *ansiWriter

	fd     int
	width  int
	height int

	origTermios *unix.Termios
	inRawMode   bool
	altScreen   bool // true: alternate-screen mode; false: inline mode

	resizeChan chan Size
	sigChan    chan os.Signal

	mu sync.Mutex
}

// Size is a terminal dimension pair.
type Size struct {
	Width  int
	Height int
}

// NewScreen creates a screen engine writing to w (os.Stdout if nil),
// querying the current terminal size via ioctl with an 80x24 fallback.
func NewScreen(w io.Writer) (*Screen, error) {
	if w == nil {
		w = os.Stdout
	}
	fd := int(os.Stdout.Fd())
	width, height, err := getTerminalSize(fd)
	if err != nil {
		width, height = 80, 24
	}
	return &Screen{
		pages:      newPageSet(width, height),
		shadow:     newShadow(),
		aw:         newANSIWriter(w),
		fd:         fd,
		width:      width,
		height:     height,
		resizeChan: make(chan Size, 1),
		sigChan:    make(chan os.Signal, 1),
		altScreen:  true,
	}, nil
}

func getTerminalSize(fd int) (int, int, error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Col), int(ws.Row), nil
}

func (s *Screen) Size() Size  { return Size{Width: s.width, Height: s.height} }
func (s *Screen) Width() int  { return s.width }
func (s *Screen) Height() int { return s.height }

// CursorPos returns the update page's current cursor position.
func (s *Screen) CursorPos() (int, int) {
	p := s.pages.Update()
	return p.curX, p.curY
}

// Tabs returns the update page's tab-stop array.
func (s *Screen) Tabs() *TabStops { return s.pages.Update().tabs }

// ResizeChan delivers a Size whenever SIGWINCH changes the terminal
// dimensions; the event-source layer drains it to synthesize EventResize.
func (s *Screen) ResizeChan() <-chan Size { return s.resizeChan }

// EnterRawMode puts the terminal into raw mode and, unless inline is true,
// switches to the alternate screen buffer.
func (s *Screen) EnterRawMode(inline bool) error {
	if s.inRawMode {
		return nil
	}
	if err := s.setRaw(); err != nil {
		return err
	}
	s.inRawMode = true
	s.altScreen = !inline

	signal.Notify(s.sigChan, syscall.SIGWINCH)
	go s.handleSignals()

	if s.altScreen {
		s.aw.altScreenOn()
		s.aw.clearHome()
		s.aw.cursorOn()
	}
	return s.aw.Flush()
}

func (s *Screen) setRaw() error {
	termios, err := unix.IoctlGetTermios(s.fd, ioctlGetTermios)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceIO, err)
	}
	s.origTermios = termios

	raw := *termios
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Cflag |= unix.CS8
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(s.fd, ioctlSetTermios, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceIO, err)
	}
	return nil
}

// ExitRawMode restores the terminal to the state it was in before
// EnterRawMode, undoing the alternate-screen switch if one was made.
func (s *Screen) ExitRawMode() error {
	if !s.inRawMode {
		return nil
	}
	s.aw.cursorOn()
	if s.altScreen {
		s.aw.altScreenOff()
	}
	if err := s.aw.Flush(); err != nil {
		return err
	}

	signal.Stop(s.sigChan)

	if s.origTermios != nil {
		if err := unix.IoctlSetTermios(s.fd, ioctlSetTermios, s.origTermios); err != nil {
			return fmt.Errorf("%w: %v", ErrDeviceIO, err)
		}
	}
	s.inRawMode = false
	return nil
}

func (s *Screen) handleSignals() {
	for range s.sigChan {
		width, height, err := getTerminalSize(s.fd)
		if err != nil {
			continue
		}
		if width == s.width && height == s.height {
			continue
		}
		s.mu.Lock()
		s.width, s.height = width, height
		s.pages.Resize(width, height)
		s.shadow.curValid = false
		s.mu.Unlock()
		select {
		case s.resizeChan <- Size{Width: width, Height: height}:
		default:
		}
	}
}

// Position sets the update page's cursor to (x,y), emitting the minimum
// motion sequence when the update page is also the display page and the
// target is within bounds.
func (s *Screen) Position(x, y int) {
	p := s.pages.Update()
	p.curX, p.curY = x, y

	if s.pages.update != s.pages.display {
		return
	}
	if x < 1 || x > s.width || y < 1 || y > s.height {
		s.shadow.curValid = false
		return
	}

	switch {
	case s.shadow.at(x, y):
		// already there: no motion needed
	case x == 1 && y == 1:
		s.aw.home()
	case s.shadow.curValid && s.shadow.curX == x && s.shadow.curY-1 == y:
		s.aw.up()
	case s.shadow.curValid && s.shadow.curX == x && s.shadow.curY+1 == y:
		s.aw.down()
	case s.shadow.curValid && s.shadow.curY == y && s.shadow.curX-1 == x:
		s.aw.left()
	case s.shadow.curValid && s.shadow.curY == y && s.shadow.curX+1 == x:
		s.aw.right()
	case x == 1 && s.shadow.curValid && s.shadow.curY == y:
		s.aw.cr()
	default:
		s.aw.moveTo(x, y)
	}
	s.shadow.curX, s.shadow.curY, s.shadow.curValid = x, y, true
}

// PlaceChar interprets CR/LF/BS/FF/HT/DEL and control bytes, or writes a
// printable rune into the update page's back buffer, advancing the cursor
// with auto-wrap semantics.
func (s *Screen) PlaceChar(c rune) {
	p := s.pages.Update()

	switch {
	case c == '\r':
		p.curX = 1
		s.Position(p.curX, p.curY)
		return
	case c == '\n':
		p.curY++
		p.curX = 1
		s.Position(p.curX, p.curY)
		return
	case c == '\b':
		if p.curX > 1 {
			p.curX--
		}
		s.Position(p.curX, p.curY)
		return
	case c == '\f':
		p.buf.Clear()
		if s.pages.update == s.pages.display {
			s.aw.clearHome()
			s.shadow.curX, s.shadow.curY, s.shadow.curValid = 1, 1, true
		}
		p.curX, p.curY = 1, 1
		return
	case c == '\t':
		if next, ok := p.tabs.Next(p.curX); ok {
			p.curX = next
			s.Position(p.curX, p.curY)
		}
		return
	case c == 0x7f || c < 0x20:
		return // suppressed
	}

	inBounds := p.curX >= 1 && p.curX <= s.width && p.curY >= 1 && p.curY <= s.height
	if inBounds {
		p.buf.Set(p.curX-1, p.curY-1, Cell{Ch: c, FG: p.fg, BG: p.bg, Attr: p.attr})
		if s.pages.update == s.pages.display {
			s.emitAttrColorIfChanged(p.attr, p.fg, p.bg)
			s.aw.writeRune(c)
			s.shadow.curX++
			s.shadow.curValid = s.shadow.curX <= s.width
		}
	}

	p.curX++
	if p.curX > s.width {
		if p.auto {
			p.curX = 1
			p.curY++
		}
	}
	s.Position(p.curX, p.curY)
}

func (s *Screen) emitAttrColorIfChanged(attr Attr, fg, bg Color) {
	if s.shadow.attr != attr {
		s.aw.attrOff()
		s.aw.setAttr(attr)
		s.shadow.attr = attr
		s.aw.setFore(fg)
		s.aw.setBack(bg)
		s.shadow.fg, s.shadow.bg = fg, bg
		return
	}
	if s.shadow.fg != fg {
		s.aw.setFore(fg)
		s.shadow.fg = fg
	}
	if s.shadow.bg != bg {
		s.aw.setBack(bg)
		s.shadow.bg = bg
	}
}

// SetAttr sets the update page's write attribute: a full reset followed by the new attribute and a re-emit of the
// current colors, since attribute reset clears color on many terminals.
func (s *Screen) SetAttr(attr Attr) {
	p := s.pages.Update()
	p.attr = attr
	if s.pages.update == s.pages.display {
		s.aw.attrOff()
		s.aw.setAttr(attr)
		s.aw.setFore(p.fg)
		s.aw.setBack(p.bg)
		s.shadow.attr, s.shadow.fg, s.shadow.bg = attr, p.fg, p.bg
	}
}

// SetFore sets the update page's write foreground color.
func (s *Screen) SetFore(c Color) {
	p := s.pages.Update()
	p.fg = c
	if s.pages.update == s.pages.display {
		s.aw.setFore(c)
		s.shadow.fg = c
	}
}

// SetBack sets the update page's write background color.
func (s *Screen) SetBack(c Color) {
	p := s.pages.Update()
	p.bg = c
	if s.pages.update == s.pages.display {
		s.aw.setBack(c)
		s.shadow.bg = c
	}
}

// Scroll moves the update page's contents by (dx,dy) cells, filling
// vacated cells with the current write style.
func (s *Screen) Scroll(dx, dy int) {
	p := s.pages.Update()
	fill := Cell{Ch: ' ', FG: p.fg, BG: p.bg, Attr: p.attr}

	if abs(dx) >= s.width || abs(dy) >= s.height {
		p.buf.FillCell(0, 0, p.buf.Width(), p.buf.Height(), fill)
		if s.pages.update == s.pages.display {
			s.aw.clearHome()
			s.shadow.curX, s.shadow.curY, s.shadow.curValid = 1, 1, true
		}
		return
	}

	if dx == 0 && dy > 0 && s.pages.update == s.pages.display {
		s.scrollFast(p, dy, fill)
		return
	}
	s.scrollSlow(p, dx, dy, fill)
}

func (s *Screen) scrollFast(p *Page, dy int, fill Cell) {
	snap := p.buf.Snapshot()
	shiftBuffer(p.buf, snap, 0, dy, fill)

	s.Position(1, s.height)
	for i := 0; i < dy; i++ {
		s.aw.raw("\n")
	}
	s.shadow.curX, s.shadow.curY = 1, s.height
	p.curX, p.curY = 1, s.height
}

func (s *Screen) scrollSlow(p *Page, dx, dy int, fill Cell) {
	snap := p.buf.Snapshot()
	shiftBuffer(p.buf, snap, dx, dy, fill)

	if s.pages.update == s.pages.display {
		s.repaintDiff(p.buf, snap)
	}
}

// shiftBuffer rewrites dst in place to be src shifted by (dx,dy), filling
// vacated cells with fill.
func shiftBuffer(dst, src *Buffer, dx, dy int, fill Cell) {
	dst.Clear()
	dst.Blit(src, dx, dy, 0, 0, src.Width(), src.Height())
	if dy > 0 {
		dst.FillCell(0, dst.Height()-dy, dst.Width(), dy, fill)
	} else if dy < 0 {
		dst.FillCell(0, 0, dst.Width(), -dy, fill)
	}
	if dx > 0 {
		dst.FillCell(dst.Width()-dx, 0, dx, dst.Height(), fill)
	} else if dx < 0 {
		dst.FillCell(0, 0, -dx, dst.Height(), fill)
	}
	dst.MarkAllDirty()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// repaintDiff does a diff-wise repaint: for each row,
// find the rightmost differing column against snapshot and emit only up
// to that column, tracking attribute/color transitions, then restores the
// cursor. The row walk starts from an absolute reset, like fullRepaint's
// clearHome, so the shadow never leans on a position from before this call;
// every crlf emitted along the way, not just the ones following a changed
// row, advances the shadow to match so the final restore computes its
// motion from true state.
func (s *Screen) repaintDiff(cur, snap *Buffer) {
	savedX, savedY := s.pages.Update().curX, s.pages.Update().curY

	s.aw.moveTo(1, 1)
	s.shadow.curX, s.shadow.curY, s.shadow.curValid = 1, 1, true

	for y := 0; y < s.height; y++ {
		last := -1
		for x := 0; x < s.width; x++ {
			if !cur.Get(x, y).Equal(snap.Get(x, y)) {
				last = x
			}
		}
		if last < 0 {
			if y < s.height-1 {
				s.aw.crlf()
				s.shadow.curX, s.shadow.curY = 1, y+2
			}
			continue
		}

		s.aw.moveTo(1, y+1)
		s.shadow.curX, s.shadow.curY, s.shadow.curValid = 1, y+1, true
		for x := 0; x <= last; x++ {
			c := cur.Get(x, y)
			if c.Ch == 0 {
				continue // placeholder column of a double-width glyph
			}
			s.emitAttrColorIfChanged(c.Attr, c.FG, c.BG)
			s.aw.writeRune(c.Ch)
		}
		s.shadow.curX = last + 2
		if y < s.height-1 {
			s.aw.crlf()
			s.shadow.curX, s.shadow.curY = 1, y+2
		}
	}

	s.Position(savedX, savedY)
}

// SelectPage changes the update and display pages, then performs the full
// repaint of the new display page. Reselecting the already-displayed page is
// legal and still refreshes it.
func (s *Screen) SelectPage(update, display int) error {
	if err := s.pages.Select(update, display); err != nil {
		return err
	}
	s.fullRepaint()
	return nil
}

func (s *Screen) fullRepaint() {
	p := s.pages.Display()
	s.aw.clearHome()
	s.shadow.curX, s.shadow.curY, s.shadow.curValid = 1, 1, true

	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			c := p.buf.Get(x, y)
			if c.Ch == 0 {
				continue
			}
			s.emitAttrColorIfChanged(c.Attr, c.FG, c.BG)
			s.aw.writeRune(c.Ch)
		}
		if y < s.height-1 {
			s.aw.crlf()
		}
	}
	// The row walk leaves the physical cursor somewhere on the last row;
	// mark the shadow invalid so the restore below uses an absolute move.
	s.shadow.curValid = false
	s.Position(p.curX, p.curY)
	s.setCursorVisible(p.curvis)
}

func (s *Screen) setCursorVisible(visible bool) {
	want := visible && s.shadow.curValid
	if want == s.shadow.curVisible {
		return
	}
	if want {
		s.aw.cursorOn()
	} else {
		s.aw.cursorOff()
	}
	s.shadow.curVisible = want
}

// SetCursorVisible sets the update page's cursor-visibility flag and
// reconciles the physical cursor if the update page is on display.
func (s *Screen) SetCursorVisible(visible bool) {
	p := s.pages.Update()
	p.curvis = visible
	if s.pages.update == s.pages.display {
		s.setCursorVisible(visible)
	}
}

// SetAuto sets the update page's auto flag. With it on, PlaceChar wraps
// to column 1 of the next row at the right edge; it does not scroll the
// page when the cursor moves past the bottom row.
func (s *Screen) SetAuto(on bool) { s.pages.Update().auto = on }

// Flush pushes any buffered ANSI output to the terminal.
func (s *Screen) Flush() error { return s.aw.Flush() }
