package ansiterm

import (
	"fmt"
	"os"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Terminal is the public façade of component F. Its cursor, drawing,
// attribute and color methods always act on the screen engine (4.D).
// EnableWindows loads the window manager (4.E): the window methods
// (OpenWindow, WriteWindow, ...) act on it, and event dispatch finds it
// through the call-override registry of 4.A. Loading it does not re-route
// the screen-engine methods to per-window implementations.
type Terminal struct {
	screen *Screen
	reg    *registry
	seq    *sequencer
	dec    *decoder
	es     eventSource

	wm    *windowManager
	menus map[int]*Menu

	cfg Config

	mu       sync.Mutex
	handler  func(*Event) bool
	autohold bool

	frameTimerID int

	events chan Event
	errs   chan error
	stop   chan struct{}
}

// New constructs a Terminal: puts the terminal into raw mode, starts the
// event-source backend, and spawns the background reader goroutine that
// implements a two-thread model (application thread + event-source
// thread) as one goroutine blocked in the kernel wait primitive, feeding a
// channel the application thread drains via NextEvent/Events.
func New(cfg Config) (*Terminal, error) {
	out := cfg.Stdout
	if out == nil {
		out = os.Stdout
	}
	if f, ok := out.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return nil, fmt.Errorf("%w: stdout is not a terminal", ErrDeviceIO)
	}

	screen, err := NewScreen(out)
	if err != nil {
		return nil, err
	}
	if err := screen.EnterRawMode(cfg.Inline); err != nil {
		return nil, err
	}

	es, err := newEventSource()
	if err != nil {
		screen.ExitRawMode()
		return nil, err
	}

	in := cfg.Stdin
	if in == nil {
		in = os.Stdin
	}
	stdinFD := int(os.Stdin.Fd())
	if f, ok := in.(*os.File); ok {
		stdinFD = int(f.Fd())
	}
	if err := es.RegisterInput(stdinFD); err != nil {
		es.Close()
		screen.ExitRawMode()
		return nil, err
	}

	t := &Terminal{
		screen: screen,
		reg:    newRegistry(),
		seq:    newSequencer(),
		dec:    newDecoder(),
		es:     es,
		cfg:    cfg,
		events: make(chan Event, 64),
		errs:   make(chan error, 1),
		stop:   make(chan struct{}),
	}

	go t.eventLoop(stdinFD)
	go t.resizeForwarder()

	if cfg.WindowManager {
		t.EnableWindows()
	}
	if cfg.FrameTimerHz > 0 {
		if err := t.FrameTimerOn(cfg.FrameTimerHz); err != nil {
			logger.Error("ansiterm: frame timer arm failed", "error", err)
		}
	}
	return t, nil
}

// Close tears the Terminal down: if AutoholdOn was called, blocks for one
// more event first (the legacy core's "hold the screen open" behavior for
// a program that would otherwise exit straight back to the shell), then
// stops the event-source backend and restores the terminal.
func (t *Terminal) Close() error {
	if t.autohold {
		t.NextEvent()
	}
	close(t.stop)
	var firstErr error
	if t.wm != nil {
		if err := t.reg.Remove(slotWindowManager, t.wm, nil); err != nil {
			fatal(err)
			firstErr = err
		}
	}
	if err := t.es.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := t.screen.ExitRawMode(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (t *Terminal) eventLoop(stdinFD int) {
	buf := make([]byte, 256)
	for {
		se, err := t.es.Next()
		if err != nil {
			fatal(fmt.Errorf("%w: event source Next failed: %v", ErrDeviceIO, err))
			select {
			case t.errs <- err:
			default:
			}
			return
		}

		switch se.Kind {
		case sourceInput:
			n, err := unix.Read(stdinFD, buf)
			if err != nil || n <= 0 {
				continue
			}
			for i := 0; i < n; i++ {
				for _, ev := range t.dec.Feed(buf[i]) {
					t.dispatch(ev)
				}
			}
		case sourceTimer:
			if !t.seq.Repeating(se.TimerID) {
				t.es.DisarmTimer(se.TimerID)
				t.seq.Disarm(se.TimerID)
			}
			kind := EventTimer
			if se.TimerID == t.frameTimerID {
				kind = EventFrame
			}
			t.dispatch(Event{Kind: kind, TimerID: se.TimerID})
		case sourceSignal:
			if se.Signal == syscall.SIGTERM || se.Signal == syscall.SIGINT {
				t.dispatch(Event{Kind: EventTerminate})
			}
		}

		select {
		case <-t.stop:
			return
		default:
		}
	}
}

func (t *Terminal) resizeForwarder() {
	for {
		select {
		case <-t.screen.ResizeChan():
			t.dispatch(Event{Kind: EventResize})
		case <-t.stop:
			return
		}
	}
}

// dispatch routes a decoded or synthesized event through the window
// manager's hit-test/focus policy when one is loaded, then
// the application's event-handler override, then the NextEvent channel.
func (t *Terminal) dispatch(ev Event) {
	if wm, _ := t.reg.Current(slotWindowManager).(*windowManager); wm != nil {
		switch ev.Kind {
		case EventMouseButtonAssert, EventMouseButtonDeassert, EventMouseMove:
			win, cx, cy, deliver := wm.DispatchMouseButton(ev.MouseX, ev.MouseY, ev.MouseButton)
			if win != nil {
				ev.WindowID = win.id
			}
			if !deliver {
				return
			}
			ev.MouseX, ev.MouseY = cx, cy
		case EventResize, EventTerminate, EventTimer, EventFrame, EventMenu,
			EventJoystickButtonAssert, EventJoystickButtonDeassert, EventJoystickMove:
			// not keyboard-addressed: these are global/synthetic events that
			// a lack of window focus must not silently drop (a repeating
			// timer firing with no window focused, or an application
			// explicitly targeting SelectMenuEntry at a window id, must
			// still reach the application).
		default:
			// keyboard events (EventChar and the generic editor/function-key
			// kinds) route to whichever window currently holds focus, and
			// are dropped if none does.
			win, ok := wm.DispatchKey()
			if !ok {
				return
			}
			ev.WindowID = win.id
		}
	}

	t.mu.Lock()
	h := t.handler
	t.mu.Unlock()
	if h != nil {
		if h(&ev) {
			ev.Handled = true
		}
		if ev.Handled {
			return
		}
	}

	select {
	case t.events <- ev:
	case <-t.stop:
	}
}

// NextEvent blocks for the next event, the
// only blocking operation exposed to the application.
func (t *Terminal) NextEvent() (Event, error) {
	select {
	case ev := <-t.events:
		return ev, nil
	case err := <-t.errs:
		return Event{}, err
	}
}

// EventStream is an iterator-style wrapper over NextEvent.
type EventStream struct{ t *Terminal }

// Events returns an EventStream for applications that prefer a Next()
// loop over calling NextEvent directly.
func (t *Terminal) Events() *EventStream { return &EventStream{t: t} }

// Next blocks for the next event, identically to Terminal.NextEvent.
func (es *EventStream) Next() (Event, error) { return es.t.NextEvent() }

// SetEventHandler installs an override that sees every event before it
// reaches NextEvent; returning true marks the event handled and stops it
// from being enqueued.
func (t *Terminal) SetEventHandler(h func(*Event) bool) {
	t.mu.Lock()
	t.handler = h
	t.mu.Unlock()
}

// --- cursor, geometry, write state ---

func (t *Terminal) MaxX() int { return t.screen.Width() }
func (t *Terminal) MaxY() int { return t.screen.Height() }

func (t *Terminal) CurX() int { x, _ := t.screen.CursorPos(); return x }
func (t *Terminal) CurY() int { _, y := t.screen.CursorPos(); return y }

// CurBound reports whether the cursor is currently within the screen
// bounds.
func (t *Terminal) CurBound() bool {
	x, y := t.screen.CursorPos()
	return x >= 1 && x <= t.screen.Width() && y >= 1 && y <= t.screen.Height()
}

func (t *Terminal) Home()  { t.screen.Position(1, 1) }
func (t *Terminal) Up()    { x, y := t.screen.CursorPos(); t.screen.Position(x, y-1) }
func (t *Terminal) Down()  { x, y := t.screen.CursorPos(); t.screen.Position(x, y+1) }
func (t *Terminal) Left()  { x, y := t.screen.CursorPos(); t.screen.Position(x-1, y) }
func (t *Terminal) Right() { x, y := t.screen.CursorPos(); t.screen.Position(x+1, y) }

// DeleteLast erases the cell to the left of the cursor and leaves the
// cursor there.
func (t *Terminal) DeleteLast() {
	t.screen.PlaceChar('\b')
	t.screen.PlaceChar(' ')
	t.screen.PlaceChar('\b')
}

// WriteString places s through the screen engine one rune at a time,
// the same path the I/O-interception writer in ioshim.go uses.
func (t *Terminal) WriteString(s string) error {
	for _, r := range s {
		t.screen.PlaceChar(r)
	}
	err := t.screen.Flush()
	if err != nil {
		fatal(err)
	}
	return err
}

func (t *Terminal) setAttrBool(bit Attr, on bool) {
	if on {
		t.screen.SetAttr(bit)
	} else {
		t.screen.SetAttr(AttrNone)
	}
}

// Attribute setters, each a one-shot replace of the page's single write
// attribute.
func (t *Terminal) Blink(on bool)       { t.setAttrBool(AttrBlink, on) }
func (t *Terminal) Reverse(on bool)     { t.setAttrBool(AttrReverse, on) }
func (t *Terminal) Underline(on bool)   { t.setAttrBool(AttrUnderline, on) }
func (t *Terminal) Superscript(on bool) { t.setAttrBool(AttrSuperscript, on) }
func (t *Terminal) Subscript(on bool)   { t.setAttrBool(AttrSubscript, on) }
func (t *Terminal) Italic(on bool)      { t.setAttrBool(AttrItalic, on) }
func (t *Terminal) Bold(on bool)        { t.setAttrBool(AttrBold, on) }

func (t *Terminal) FColor(c Color) { t.screen.SetFore(c) }
func (t *Terminal) BColor(c Color) { t.screen.SetBack(c) }

func (t *Terminal) AutoOn()  { t.screen.SetAuto(true) }
func (t *Terminal) AutoOff() { t.screen.SetAuto(false) }

func (t *Terminal) CursorOn()  { t.screen.SetCursorVisible(true) }
func (t *Terminal) CursorOff() { t.screen.SetCursorVisible(false) }

func (t *Terminal) AutoholdOn()  { t.autohold = true }
func (t *Terminal) AutoholdOff() { t.autohold = false }

func (t *Terminal) Scroll(dx, dy int) { t.screen.Scroll(dx, dy) }

func (t *Terminal) SelectPage(update, display int) error {
	return t.screen.SelectPage(update, display)
}

// TabSet/TabReset/TabClear operate on the update page's tab-stop array
//: set/clear the stop at the current
// cursor column, or clear every stop.
func (t *Terminal) TabSet() error { return t.screen.Tabs().Set(t.CurX()) }
func (t *Terminal) TabReset()     { t.screen.Tabs().Clear(t.CurX()) }
func (t *Terminal) TabClear()     { t.screen.Tabs().ClearAll() }

// FunKeyCount returns how many function keys the decoder recognizes
//.
func (t *Terminal) FunKeyCount() int { return funkeyCount }

// MouseButtons reports the fixed button count this xterm-mouse-protocol
// decoder supports; there is no capability
// negotiation, so this is a constant rather than a live query.
func (t *Terminal) MouseButtons() int { return 3 }

// JoystickCount is always zero: no joystick backend is implemented, only
// the event-kind/payload shape for one.
func (t *Terminal) JoystickCount() int { return 0 }

// --- timers ---

// Timer allocates and arms the next free timer id for period ticks
// (100-microsecond units), returning ErrResourceExhausted once all
// MaxTimers ids are in use.
func (t *Terminal) Timer(ticks int64, repeat bool) (int, error) {
	id := t.seq.Alloc()
	if id == 0 {
		return 0, ErrResourceExhausted
	}
	if err := t.seq.Arm(id, ticks, repeat); err != nil {
		return 0, err
	}
	if err := t.es.ArmTimer(id, ticks, repeat); err != nil {
		t.seq.Disarm(id)
		return 0, err
	}
	return id, nil
}

// KillTimer disarms id idempotently and immediately: no further events for id are enqueued after it returns.
func (t *Terminal) KillTimer(id int) error {
	if err := t.es.DisarmTimer(id); err != nil {
		return err
	}
	return t.seq.Disarm(id)
}

// FrameTimerOn arms a repeating timer at hz frames per second, delivered
// as EventFrame instead of EventTimer.
func (t *Terminal) FrameTimerOn(hz int) error {
	if hz <= 0 {
		return ErrBadPosition
	}
	id, err := t.Timer(int64(10000/hz), true)
	if err != nil {
		return err
	}
	t.frameTimerID = id
	return nil
}

func (t *Terminal) FrameTimerOff() error {
	if t.frameTimerID == 0 {
		return nil
	}
	err := t.KillTimer(t.frameTimerID)
	t.frameTimerID = 0
	return err
}

// --- window manager additions ---

// Menu is a flat list of labeled, application-assigned entry ids attached
// to a window; selecting one (by whatever input handling the application
// performs) synthesizes an EventMenu via SelectMenuEntry.
type Menu struct {
	WindowID int
	Entries  []MenuEntry
}

// MenuEntry is one selectable item of a Menu.
type MenuEntry struct {
	ID    int
	Label string
}

// slotWindowManager is the override-registry capability slot the window
// manager installs itself into: dispatch consults it, per component A's
// "swap: install new pointer, return previous" contract, rather than a
// bare nil check, so the currently effective event-routing target is
// always whatever the registry says it is.
const slotWindowManager = "window_manager"

// EnableWindows loads the window manager and installs it in the registry
// slot that event dispatch consults; the screen-engine methods keep acting
// on the root screen. Idempotent.
func (t *Terminal) EnableWindows() {
	if t.wm != nil {
		return
	}
	t.wm = newWindowManager(t.screen, t.reg)
	t.reg.Install(slotWindowManager, t.wm, t.wm)
}

func (t *Terminal) window(id int) (*Window, error) {
	if t.wm == nil {
		return nil, ErrBadWindow
	}
	win, ok := t.wm.byID[id]
	if !ok {
		return nil, ErrBadWindow
	}
	return win, nil
}

// OpenWindow creates a child window:
// id 0 requests an anonymous id (see GetWinID), and the returned id is
// negative in that case.
func (t *Terminal) OpenWindow(parentID, id, x, y, w, h int) (int, error) {
	if t.wm == nil {
		return 0, ErrBadWindow
	}
	win, err := t.wm.OpenWindow(parentID, id, x, y, w, h)
	if err != nil {
		return 0, err
	}
	return win.id, nil
}

// CloseWindow tears a window down and frees its id for reuse.
func (t *Terminal) CloseWindow(id int) error {
	if t.wm == nil {
		return ErrBadWindow
	}
	return t.wm.CloseWindow(id)
}

// ShowWindow marks a window visible and triggers a recomposite; a window
// also becomes visible implicitly on its first WriteWindow call.
func (t *Terminal) ShowWindow(id int) error {
	win, err := t.window(id)
	if err != nil {
		return err
	}
	t.wm.Show(win)
	return nil
}

func (t *Terminal) SetTitle(id int, title string) error {
	win, err := t.window(id)
	if err != nil {
		return err
	}
	win.SetTitle(title)
	t.wm.compositeAndFlush()
	return nil
}

// SetFrame toggles frame/size-bar/system-bar decorations.
func (t *Terminal) SetFrame(id int, framed, sizable, sysbar bool) error {
	win, err := t.window(id)
	if err != nil {
		return err
	}
	win.SetFrame(framed, sizable, sysbar)
	t.wm.compositeAndFlush()
	return nil
}

// GetSize/SetSize get and set the window's client
// rectangle size, frame excluded.
func (t *Terminal) GetSize(id int) (w, h int, err error) {
	win, err := t.window(id)
	if err != nil {
		return 0, 0, err
	}
	return win.clientW, win.clientH, nil
}

func (t *Terminal) SetSize(id, w, h int) error {
	win, err := t.window(id)
	if err != nil {
		return err
	}
	win.clientW, win.clientH = w, h
	win.pages.Resize(w, h)
	win.tabs = NewTabStops(w)
	win.recomputeClientGeometry()
	win.updateMaxScroll()
	t.wm.compositeAndFlush()
	return nil
}

// SetPos moves the window's origin in its parent's
// surface.
func (t *Terminal) SetPos(id, x, y int) error {
	win, err := t.window(id)
	if err != nil {
		return err
	}
	win.originX, win.originY = x, y
	t.wm.compositeAndFlush()
	return nil
}

// ScreenSize is the root surface's size.
func (t *Terminal) ScreenSize() (w, h int) { return t.screen.Width(), t.screen.Height() }

// ScreenCenter is the origin that centers a w-by-h
// window on the root surface.
func (t *Terminal) ScreenCenter(w, h int) (x, y int) {
	return (t.screen.Width()-w)/2 + 1, (t.screen.Height()-h)/2 + 1
}

// BufferOn/BufferOff/SizeBuf control a
// window's offscreen buffer, which may exceed its client viewport and be
// scrolled into view with ScrollWindow.
func (t *Terminal) BufferOn(id, width, height int) error {
	win, err := t.window(id)
	if err != nil {
		return err
	}
	win.EnableBuffer(width, height)
	return nil
}

func (t *Terminal) BufferOff(id int) error {
	win, err := t.window(id)
	if err != nil {
		return err
	}
	win.DisableBuffer()
	return nil
}

func (t *Terminal) SizeBuf(id int) (w, h int, err error) {
	win, err := t.window(id)
	if err != nil {
		return 0, 0, err
	}
	if win.offbuf == nil {
		return 0, 0, nil
	}
	return win.offbuf.Width(), win.offbuf.Height(), nil
}

// ScrollWindow moves a buffered window's viewport to line y.
func (t *Terminal) ScrollWindow(id, y int) error {
	win, err := t.window(id)
	if err != nil {
		return err
	}
	win.ScrollTo(y)
	t.wm.compositeAndFlush()
	return nil
}

// WinClient is the client rectangle in the root
// surface's coordinate space.
func (t *Terminal) WinClient(id int) (x, y, w, h int, err error) {
	win, err := t.window(id)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return win.originX + win.clientOffX, win.originY + win.clientOffY, win.clientW, win.clientH, nil
}

func (t *Terminal) Front(id int) error {
	win, err := t.window(id)
	if err != nil {
		return err
	}
	t.wm.Front(win)
	return nil
}

func (t *Terminal) Back(id int) error {
	win, err := t.window(id)
	if err != nil {
		return err
	}
	t.wm.Back(win)
	return nil
}

// Focus transfers input focus to id explicitly, outside
// the usual button-1 hit-test transfer of DispatchMouseButton.
func (t *Terminal) Focus(id int) error {
	win, err := t.window(id)
	if err != nil {
		return err
	}
	t.wm.focused = win
	return nil
}

// GetWinID previews the next anonymous window id OpenWindow(parent, 0,
// ...) would assign.
func (t *Terminal) GetWinID() (int, error) {
	if t.wm == nil {
		return 0, ErrBadWindow
	}
	return t.wm.nextAnon, nil
}

// WriteWindow places s into window id's own surface and recomposites;
// the window becomes visible on this, its first write, if it was not
// already.
func (t *Terminal) WriteWindow(id int, s string) error {
	win, err := t.window(id)
	if err != nil {
		return err
	}
	for _, r := range s {
		win.PlaceChar(r)
	}
	win.visible = true
	t.wm.compositeAndFlush()
	return nil
}

func (t *Terminal) WindowAttr(id int, attr Attr) error {
	win, err := t.window(id)
	if err != nil {
		return err
	}
	win.SetAttr(attr)
	return nil
}

// WindowAttrBit toggles a single attribute of window id's write-attribute
// bitset without disturbing any other attribute currently active for
// subsequent writes — the window-manager-layer counterpart of the
// page-level attribute setters (Blink/Reverse/...), which each replace the
// page's single Attr outright.
func (t *Terminal) WindowAttrBit(id int, bit AttrSet, on bool) error {
	win, err := t.window(id)
	if err != nil {
		return err
	}
	win.SetAttrBit(bit, on)
	return nil
}

func (t *Terminal) WindowFColor(id int, c Color) error {
	win, err := t.window(id)
	if err != nil {
		return err
	}
	win.SetFore(c)
	return nil
}

func (t *Terminal) WindowBColor(id int, c Color) error {
	win, err := t.window(id)
	if err != nil {
		return err
	}
	win.SetBack(c)
	return nil
}

// SetMenu attaches a flat entry list to a window; SelectMenuEntry synthesizes the corresponding EventMenu.
func (t *Terminal) SetMenu(id int, entries []MenuEntry) error {
	if _, err := t.window(id); err != nil {
		return err
	}
	if t.menus == nil {
		t.menus = make(map[int]*Menu)
	}
	t.menus[id] = &Menu{WindowID: id, Entries: entries}
	return nil
}

func (t *Terminal) SelectMenuEntry(windowID, entryID int) {
	t.dispatch(Event{Kind: EventMenu, WindowID: windowID, MenuEntryID: entryID})
}
