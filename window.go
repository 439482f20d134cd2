package ansiterm

// Window is one node of the window-manager's parented window tree.
// Anonymous windows (opened with id 0) are assigned sequential negative
// ids. A window in buffered mode keeps content larger than its client
// viewport in an offscreen buffer and scrolls a view into it, rather
// than always drawing 1:1 onto the client rectangle.
type Window struct {
	id     int
	parent *Window
	children []*Window

	pages *pageSet

	originX, originY     int // in parent's surface
	clientOffX, clientOffY int // client offset from origin (frame/title)
	clientW, clientH     int
	extentW, extentH     int // parent-relative extent, frame included

	tabs *TabStops

	// attrBits is the window-manager layer's write-attribute state: unlike
	// a Page's single Attr, several attributes may be simultaneously
	// active for subsequent writes (spec §3's "at the window-manager
	// layer attributes are a bitset"). PlaceChar collapses it to one Attr
	// per cell when writing into the page's back buffer.
	attrBits AttrSet

	framed   bool
	sizable  bool
	sysbar   bool
	title    string

	visible bool
	focus   bool
	zorder  int

	buffered  bool
	offbuf    *Buffer
	scrollY   int
	maxScroll int
}

// newWindow allocates a window with the defaults every open_window call
// starts from: visible-false (lazy display),
// a single client-sized page, and an empty frame/title.
func newWindow(id int, parent *Window, clientW, clientH int) *Window {
	w := &Window{
		id:      id,
		parent:  parent,
		pages:   newPageSet(clientW, clientH),
		clientW: clientW, clientH: clientH,
		extentW: clientW, extentH: clientH,
		tabs: NewTabStops(clientW),
	}
	return w
}

// SetFrame toggles the frame/size-bar/system-bar decorations and
// recomputes the client offset and extent accordingly.
func (w *Window) SetFrame(framed, sizable, sysbar bool) {
	w.framed, w.sizable, w.sysbar = framed, sizable, sysbar
	w.recomputeClientGeometry()
}

func (w *Window) recomputeClientGeometry() {
	top, left := 0, 0
	if w.framed {
		top, left = 1, 1
		if w.sysbar {
			top += 2 // system bar row and the underbar row below it
		}
	}
	w.clientOffX, w.clientOffY = left, top
	extraW, extraH := 0, 0
	if w.framed {
		extraW, extraH = 2, 2 // left+right and top+bottom border
		if w.sysbar {
			extraH += 2 // system bar and underbar rows, beyond the plain top/bottom border
		}
	}
	w.extentW = w.clientW + extraW
	w.extentH = w.clientH + extraH
}

// SetTitle sets the window's title string, shown centered in the system
// bar if one is present.
func (w *Window) SetTitle(title string) { w.title = title }

// containsParentPoint reports whether (px,py), in the parent's coordinate
// space, falls within this window's extent rectangle — used by the window
// manager's hit-testing.
func (w *Window) containsParentPoint(px, py int) bool {
	return px >= w.originX && px < w.originX+w.extentW &&
		py >= w.originY && py < w.originY+w.extentH
}

// EnableBuffer switches the window into buffered mode with an offscreen
// buffer of the given size, letting content exceed the client viewport
// and scroll into view.
func (w *Window) EnableBuffer(width, height int) {
	w.buffered = true
	w.offbuf = NewBuffer(width, height)
	w.scrollY = 0
	w.updateMaxScroll()
}

// DisableBuffer reverts to drawing directly into the client-sized page.
func (w *Window) DisableBuffer() {
	w.buffered = false
	w.offbuf = nil
}

func (w *Window) updateMaxScroll() {
	if w.offbuf == nil || w.clientH <= 0 {
		w.maxScroll = 0
		return
	}
	w.maxScroll = w.offbuf.Height() - w.clientH
	if w.maxScroll < 0 {
		w.maxScroll = 0
	}
	if w.scrollY > w.maxScroll {
		w.scrollY = w.maxScroll
	}
}

// ScrollTo moves the buffered-mode viewport to line y, clamped to range.
func (w *Window) ScrollTo(y int) {
	if y < 0 {
		y = 0
	}
	if y > w.maxScroll {
		y = w.maxScroll
	}
	w.scrollY = y
}

// sourceBuffer returns the buffer a composite pass should read from: the
// offscreen buffer's scrolled viewport in buffered mode, else the display
// page's back buffer directly.
func (w *Window) sourceBuffer() (*Buffer, int, int) {
	if w.buffered && w.offbuf != nil {
		return w.offbuf, 0, w.scrollY
	}
	return w.pages.Display().buf, 0, 0
}

// writeBuf returns the buffer PlaceChar writes into: the offscreen buffer
// in buffered mode (which may be larger than the client viewport), else
// the update page's own back buffer.
func (w *Window) writeBuf() *Buffer {
	if w.buffered && w.offbuf != nil {
		return w.offbuf
	}
	return w.pages.Update().buf
}

// PlaceChar writes c into the window's own surface, with the same
// control-character handling as the screen engine's PlaceChar, but
// without direct ANSI emission: a window is never drawn in place, only
// composited onto the root surface by the window manager.
func (w *Window) PlaceChar(c rune) {
	p := w.pages.Update()
	buf := w.writeBuf()

	switch {
	case c == '\r':
		p.curX = 1
		return
	case c == '\n':
		p.curY++
		p.curX = 1
		return
	case c == '\b':
		if p.curX > 1 {
			p.curX--
		}
		return
	case c == '\f':
		buf.Clear()
		p.curX, p.curY = 1, 1
		return
	case c == '\t':
		if next, ok := p.tabs.Next(p.curX); ok {
			p.curX = next
		}
		return
	case c == 0x7f || c < 0x20:
		return
	}

	if p.curX >= 1 && p.curX <= buf.Width() && p.curY >= 1 && p.curY <= buf.Height() {
		buf.Set(p.curX-1, p.curY-1, Cell{Ch: c, FG: p.fg, BG: p.bg, Attr: w.attrBits.collapse()})
	}
	p.curX++
	if p.curX > buf.Width() && p.auto {
		p.curX = 1
		p.curY++
	}
}

// Position sets the window's own cursor, client-relative.
func (w *Window) Position(x, y int) { w.pages.Update().curX, w.pages.Update().curY = x, y }

// SetAttr replaces the window's entire write-attribute bitset with the
// single bit corresponding to attr (or clears it for AttrNone), the same
// one-shot-replace semantics the screen engine's SetAttr has for a page.
func (w *Window) SetAttr(attr Attr) { w.attrBits = attrBit(attr) }

// SetAttrBit toggles one bit of the window's write-attribute bitset,
// leaving every other currently-active attribute untouched — the
// "several may be simultaneously active for subsequent writes" case a
// single Attr replace cannot express.
func (w *Window) SetAttrBit(bit AttrSet, on bool) { w.attrBits = w.attrBits.Set(bit, on) }

// AttrBits returns the window's current write-attribute bitset.
func (w *Window) AttrBits() AttrSet { return w.attrBits }

// SetFore/SetBack set the window's write state for subsequent PlaceChar
// calls.
func (w *Window) SetFore(c Color) { w.pages.Update().fg = c }
func (w *Window) SetBack(c Color) { w.pages.Update().bg = c }

// attrBit maps a single Attr to its corresponding AttrSet bit (AttrNone
// maps to the zero value, clearing every bit).
func attrBit(attr Attr) AttrSet {
	switch attr {
	case AttrBlink:
		return AttrSetBlink
	case AttrReverse:
		return AttrSetReverse
	case AttrUnderline:
		return AttrSetUnderline
	case AttrSuperscript:
		return AttrSetSuperscript
	case AttrSubscript:
		return AttrSetSubscript
	case AttrItalic:
		return AttrSetItalic
	case AttrBold:
		return AttrSetBold
	default:
		return 0
	}
}
