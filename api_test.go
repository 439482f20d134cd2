package ansiterm

import (
	"syscall"
	"testing"
)

// fakeEventSource is a no-op eventSource backend for testing Terminal
// methods that don't need a live kernel multiplexer.
type fakeEventSource struct {
	armed   map[int]bool
	closed  bool
	nextErr error
}

func newFakeEventSource() *fakeEventSource {
	return &fakeEventSource{armed: make(map[int]bool)}
}

func (f *fakeEventSource) RegisterInput(fd int) error             { return nil }
func (f *fakeEventSource) RegisterSignal(sig syscall.Signal) error { return nil }
func (f *fakeEventSource) ArmTimer(id int, period100us int64, repeating bool) error {
	f.armed[id] = true
	return nil
}
func (f *fakeEventSource) DisarmTimer(id int) error { f.armed[id] = false; return nil }
func (f *fakeEventSource) Next() (sourceEvent, error) {
	if f.nextErr != nil {
		return sourceEvent{}, f.nextErr
	}
	return sourceEvent{}, nil
}
func (f *fakeEventSource) WakeUp() error { return nil }
func (f *fakeEventSource) Close() error  { f.closed = true; return nil }

// newTestTerminal builds a Terminal without going through New(), so it
// needs no real tty: the screen is the same fake used by screen_test.go,
// and the event-source backend is the no-op fake above.
func newTestTerminal(t *testing.T) *Terminal {
	t.Helper()
	screen, _ := newTestScreen(20, 10)
	return &Terminal{
		screen: screen,
		reg:    newRegistry(),
		seq:    newSequencer(),
		dec:    newDecoder(),
		es:     newFakeEventSource(),
		events: make(chan Event, 8),
		errs:   make(chan error, 1),
		stop:   make(chan struct{}),
	}
}

func TestTerminalGeometryAndCursor(t *testing.T) {
	term := newTestTerminal(t)
	if term.MaxX() != 20 || term.MaxY() != 10 {
		t.Errorf("MaxX/MaxY = %d,%d, want 20,10", term.MaxX(), term.MaxY())
	}
	term.Home()
	if term.CurX() != 1 || term.CurY() != 1 {
		t.Errorf("after Home, cursor = (%d,%d), want (1,1)", term.CurX(), term.CurY())
	}
	term.Right()
	term.Down()
	if term.CurX() != 2 || term.CurY() != 2 {
		t.Errorf("after Right+Down, cursor = (%d,%d), want (2,2)", term.CurX(), term.CurY())
	}
	term.Left()
	term.Up()
	if term.CurX() != 1 || term.CurY() != 1 {
		t.Errorf("after Left+Up, cursor = (%d,%d), want (1,1)", term.CurX(), term.CurY())
	}
	if !term.CurBound() {
		t.Error("cursor at (1,1) of a 20x10 screen should be in bounds")
	}
}

func TestTerminalWriteStringAndDeleteLast(t *testing.T) {
	term := newTestTerminal(t)
	if err := term.WriteString("ab"); err != nil {
		t.Fatalf("WriteString() = %v", err)
	}
	if term.CurX() != 3 {
		t.Errorf("curX after writing 2 chars = %d, want 3", term.CurX())
	}
	term.DeleteLast()
	if term.CurX() != 2 {
		t.Errorf("curX after DeleteLast = %d, want 2", term.CurX())
	}
}

func TestTerminalAttributeSetters(t *testing.T) {
	term := newTestTerminal(t)
	term.Bold(true)
	if term.screen.pages.Update().attr != AttrBold {
		t.Errorf("after Bold(true), write attr = %v, want AttrBold", term.screen.pages.Update().attr)
	}
	term.Bold(false)
	if term.screen.pages.Update().attr != AttrNone {
		t.Errorf("after Bold(false), write attr = %v, want AttrNone", term.screen.pages.Update().attr)
	}
}

func TestTerminalColorSetters(t *testing.T) {
	term := newTestTerminal(t)
	term.FColor(Red)
	term.BColor(Blue)
	p := term.screen.pages.Update()
	if p.fg != Red || p.bg != Blue {
		t.Errorf("fg,bg = %v,%v, want Red,Blue", p.fg, p.bg)
	}
}

func TestTerminalAutohold(t *testing.T) {
	term := newTestTerminal(t)
	if term.autohold {
		t.Error("autohold should default off")
	}
	term.AutoholdOn()
	if !term.autohold {
		t.Error("AutoholdOn should set autohold")
	}
	term.AutoholdOff()
	if term.autohold {
		t.Error("AutoholdOff should clear autohold")
	}
}

func TestTerminalTabOperations(t *testing.T) {
	term := newTestTerminal(t)
	term.screen.Tabs().ClearAll()
	term.Home()
	term.Right() // curX = 2
	if err := term.TabSet(); err != nil {
		t.Fatalf("TabSet() = %v", err)
	}
	term.Home()
	term.screen.PlaceChar('\t')
	if term.CurX() != 2 {
		t.Errorf("curX after tab to the set stop = %d, want 2", term.CurX())
	}
	term.TabReset()
	term.TabClear()
}

func TestTerminalFixedQueries(t *testing.T) {
	term := newTestTerminal(t)
	if term.FunKeyCount() != funkeyCount {
		t.Errorf("FunKeyCount() = %d, want %d", term.FunKeyCount(), funkeyCount)
	}
	if term.MouseButtons() != 3 {
		t.Errorf("MouseButtons() = %d, want 3", term.MouseButtons())
	}
	if term.JoystickCount() != 0 {
		t.Errorf("JoystickCount() = %d, want 0", term.JoystickCount())
	}
}

func TestTerminalTimerLifecycle(t *testing.T) {
	term := newTestTerminal(t)
	fes := term.es.(*fakeEventSource)

	id, err := term.Timer(100, true)
	if err != nil {
		t.Fatalf("Timer() = %v", err)
	}
	if !fes.armed[id] {
		t.Error("Timer should arm the event-source backend")
	}
	if err := term.KillTimer(id); err != nil {
		t.Fatalf("KillTimer() = %v", err)
	}
	if fes.armed[id] {
		t.Error("KillTimer should disarm the event-source backend")
	}
}

func TestTerminalTimerExhaustion(t *testing.T) {
	term := newTestTerminal(t)
	for i := 0; i < MaxTimers; i++ {
		if _, err := term.Timer(10, false); err != nil {
			t.Fatalf("Timer() #%d = %v", i, err)
		}
	}
	if _, err := term.Timer(10, false); err != ErrResourceExhausted {
		t.Errorf("Timer() past MaxTimers = %v, want ErrResourceExhausted", err)
	}
}

func TestTerminalFrameTimerOnOff(t *testing.T) {
	term := newTestTerminal(t)
	if err := term.FrameTimerOn(10); err != nil {
		t.Fatalf("FrameTimerOn() = %v", err)
	}
	if term.frameTimerID == 0 {
		t.Error("FrameTimerOn should record a nonzero timer id")
	}
	if err := term.FrameTimerOn(0); err != ErrBadPosition {
		t.Errorf("FrameTimerOn(0) = %v, want ErrBadPosition", err)
	}
	if err := term.FrameTimerOff(); err != nil {
		t.Fatalf("FrameTimerOff() = %v", err)
	}
	if term.frameTimerID != 0 {
		t.Error("FrameTimerOff should clear frameTimerID")
	}
	if err := term.FrameTimerOff(); err != nil {
		t.Errorf("second FrameTimerOff() = %v, want nil (idempotent)", err)
	}
}

func TestTerminalWindowLifecycle(t *testing.T) {
	term := newTestTerminal(t)
	if _, err := term.OpenWindow(0, 5, 2, 2, 8, 4); err != ErrBadWindow {
		t.Fatalf("OpenWindow before EnableWindows = %v, want ErrBadWindow", err)
	}

	term.EnableWindows()
	id, err := term.OpenWindow(0, 5, 2, 2, 8, 4)
	if err != nil || id != 5 {
		t.Fatalf("OpenWindow() = %d,%v, want 5,nil", id, err)
	}

	if err := term.SetTitle(id, "demo"); err != nil {
		t.Fatalf("SetTitle() = %v", err)
	}
	if err := term.SetFrame(id, true, false, false); err != nil {
		t.Fatalf("SetFrame() = %v", err)
	}
	if w, h, err := term.GetSize(id); err != nil || w != 8 || h != 4 {
		t.Errorf("GetSize() = %d,%d,%v, want 8,4,nil", w, h, err)
	}
	if err := term.SetSize(id, 6, 3); err != nil {
		t.Fatalf("SetSize() = %v", err)
	}
	if w, h, _ := term.GetSize(id); w != 6 || h != 3 {
		t.Errorf("GetSize() after SetSize = %d,%d, want 6,3", w, h)
	}
	if err := term.SetPos(id, 3, 3); err != nil {
		t.Fatalf("SetPos() = %v", err)
	}
	// origin 3,3 plus the frame's 1-cell client offset
	if x, y, _, _, err := term.WinClient(id); err != nil || x != 4 || y != 4 {
		t.Errorf("WinClient() origin = %d,%d,%v, want 4,4,nil", x, y, err)
	}

	if w, h := term.ScreenSize(); w != 20 || h != 10 {
		t.Errorf("ScreenSize() = %d,%d, want 20,10", w, h)
	}
	if x, y := term.ScreenCenter(4, 2); x != 9 || y != 5 {
		t.Errorf("ScreenCenter(4,2) = %d,%d, want 9,5", x, y)
	}

	if err := term.BufferOn(id, 6, 20); err != nil {
		t.Fatalf("BufferOn() = %v", err)
	}
	if w, h, err := term.SizeBuf(id); err != nil || w != 6 || h != 20 {
		t.Errorf("SizeBuf() = %d,%d,%v, want 6,20,nil", w, h, err)
	}
	if err := term.ScrollWindow(id, 5); err != nil {
		t.Fatalf("ScrollWindow() = %v", err)
	}
	if err := term.BufferOff(id); err != nil {
		t.Fatalf("BufferOff() = %v", err)
	}

	if err := term.WriteWindow(id, "hi"); err != nil {
		t.Fatalf("WriteWindow() = %v", err)
	}
	win, _ := term.window(id)
	if !win.visible {
		t.Error("WriteWindow should make the window visible")
	}

	if err := term.WindowAttr(id, AttrBold); err != nil {
		t.Fatalf("WindowAttr() = %v", err)
	}
	if err := term.WindowFColor(id, Cyan); err != nil {
		t.Fatalf("WindowFColor() = %v", err)
	}
	if err := term.WindowBColor(id, Magenta); err != nil {
		t.Fatalf("WindowBColor() = %v", err)
	}

	if err := term.Focus(id); err != nil {
		t.Fatalf("Focus() = %v", err)
	}
	if term.wm.focused != win {
		t.Error("Focus should set the window manager's focused window")
	}
	if err := term.Front(id); err != nil {
		t.Fatalf("Front() = %v", err)
	}
	if err := term.Back(id); err != nil {
		t.Fatalf("Back() = %v", err)
	}

	if err := term.ShowWindow(id); err != nil {
		t.Fatalf("ShowWindow() = %v", err)
	}
	if err := term.CloseWindow(id); err != nil {
		t.Fatalf("CloseWindow() = %v", err)
	}
	if _, _, err := term.GetSize(id); err != ErrBadWindow {
		t.Errorf("GetSize() after close = %v, want ErrBadWindow", err)
	}
}

func TestTerminalAnonymousWindowID(t *testing.T) {
	term := newTestTerminal(t)
	term.EnableWindows()
	preview, err := term.GetWinID()
	if err != nil {
		t.Fatalf("GetWinID() = %v", err)
	}
	id, err := term.OpenWindow(0, 0, 1, 1, 4, 4)
	if err != nil {
		t.Fatalf("OpenWindow(anonymous) = %v", err)
	}
	if id != preview {
		t.Errorf("OpenWindow(0,...) assigned %d, GetWinID previewed %d", id, preview)
	}
}

func TestTerminalMenuSelectDispatches(t *testing.T) {
	term := newTestTerminal(t)
	term.EnableWindows()
	id, _ := term.OpenWindow(0, 7, 0, 0, 5, 5)

	entries := []MenuEntry{{ID: 1, Label: "one"}, {ID: 2, Label: "two"}}
	if err := term.SetMenu(id, entries); err != nil {
		t.Fatalf("SetMenu() = %v", err)
	}

	term.SelectMenuEntry(id, 2)
	select {
	case ev := <-term.events:
		if ev.Kind != EventMenu || ev.WindowID != id || ev.MenuEntryID != 2 {
			t.Errorf("dispatched event = %+v, want EventMenu window %d entry 2", ev, id)
		}
	default:
		t.Fatal("SelectMenuEntry should dispatch an EventMenu")
	}
}

func TestTerminalSetEventHandlerInterceptsEvents(t *testing.T) {
	term := newTestTerminal(t)
	var seen Event
	term.SetEventHandler(func(ev *Event) bool {
		seen = *ev
		return true
	})
	term.dispatch(Event{Kind: EventChar, Char: 'q'})

	select {
	case ev := <-term.events:
		t.Fatalf("handler returning true should swallow the event, got %+v", ev)
	default:
	}
	if seen.Kind != EventChar || seen.Char != 'q' {
		t.Errorf("handler saw %+v, want EventChar 'q'", seen)
	}
}

func TestTerminalNextEventPropagatesError(t *testing.T) {
	term := newTestTerminal(t)
	term.errs <- ErrDeviceIO
	if _, err := term.NextEvent(); err != ErrDeviceIO {
		t.Errorf("NextEvent() error = %v, want ErrDeviceIO", err)
	}
}
