package ansiterm

import (
	"io"
	"testing"
)

func newTestWM(t *testing.T) *windowManager {
	t.Helper()
	s := &Screen{
		pages:  newPageSet(40, 20),
		shadow: newShadow(),
		aw:     newANSIWriter(io.Discard),
		width:  40,
		height: 20,
	}
	return newWindowManager(s, newRegistry())
}

func TestWindowManagerOpenCloseWindow(t *testing.T) {
	wm := newTestWM(t)
	win, err := wm.OpenWindow(0, 5, 1, 1, 10, 5)
	if err != nil {
		t.Fatalf("OpenWindow() = %v", err)
	}
	if win.id != 5 || win.parent != wm.root {
		t.Errorf("win = %+v, want id 5 parented at root", win)
	}
	if _, err := wm.OpenWindow(0, 5, 1, 1, 10, 5); err != ErrBadWindow {
		t.Errorf("reopening id 5 = %v, want ErrBadWindow", err)
	}
	if err := wm.CloseWindow(5); err != nil {
		t.Fatalf("CloseWindow() = %v", err)
	}
	if _, ok := wm.byID[5]; ok {
		t.Error("id 5 should be freed after CloseWindow")
	}
}

func TestWindowManagerAnonymousIDsAreNegativeAndUnique(t *testing.T) {
	wm := newTestWM(t)
	a, _ := wm.OpenWindow(0, 0, 1, 1, 5, 5)
	b, _ := wm.OpenWindow(0, 0, 1, 1, 5, 5)
	if a.id >= 0 || b.id >= 0 {
		t.Errorf("anonymous ids = %d, %d, want both negative", a.id, b.id)
	}
	if a.id == b.id {
		t.Error("anonymous ids must be unique")
	}
}

func TestWindowManagerFrontBackZOrder(t *testing.T) {
	wm := newTestWM(t)
	a, _ := wm.OpenWindow(0, 1, 0, 0, 5, 5)
	b, _ := wm.OpenWindow(0, 2, 0, 0, 5, 5)
	a.visible, b.visible = true, true

	if b.zorder <= a.zorder {
		t.Fatalf("b (opened later) should start with a higher rank than a")
	}
	wm.Front(a)
	if a.zorder <= b.zorder {
		t.Error("Front(a) should give a a new maximum rank")
	}
	wm.Back(a)
	if a.zorder >= b.zorder {
		t.Error("Back(a) should make every other window's rank higher than a's")
	}
}

func TestWindowManagerHitTestPicksTopmost(t *testing.T) {
	wm := newTestWM(t)
	a, _ := wm.OpenWindow(0, 1, 0, 0, 10, 10)
	b, _ := wm.OpenWindow(0, 2, 0, 0, 10, 10)
	a.visible, b.visible = true, true
	wm.Front(b)

	hit := wm.HitTest(5, 5)
	if hit != b {
		t.Error("HitTest should pick the topmost overlapping window")
	}
	if wm.HitTest(50, 50) != nil {
		t.Error("HitTest outside every window should return nil")
	}
}

func TestWindowManagerDispatchMouseFocusPolicy(t *testing.T) {
	wm := newTestWM(t)
	win, _ := wm.OpenWindow(0, 1, 2, 2, 10, 10)
	win.visible = true

	// non-focused window, button 1: gains focus, not delivered.
	hit, _, _, deliver := wm.DispatchMouseButton(5, 5, 1)
	if deliver {
		t.Error("first button-1 click on a non-focused window should not deliver")
	}
	if wm.focused != hit {
		t.Error("button 1 on a non-focused window should transfer focus")
	}

	// now focused: delivers translated client coordinates.
	_, cx, cy, deliver := wm.DispatchMouseButton(5, 5, 1)
	if !deliver {
		t.Error("button on the focused window should deliver")
	}
	if cx != 4 || cy != 4 {
		t.Errorf("client coords = (%d,%d), want (4,4)", cx, cy)
	}

	// no window under the pointer clears focus.
	wm.DispatchMouseButton(100, 100, 1)
	if wm.focused != nil {
		t.Error("clicking empty space should clear focus")
	}
}

func TestWindowManagerDispatchMouseDropsNonButton1OnUnfocused(t *testing.T) {
	wm := newTestWM(t)
	win, _ := wm.OpenWindow(0, 1, 0, 0, 10, 10)
	win.visible = true

	_, _, _, deliver := wm.DispatchMouseButton(1, 1, 2)
	if deliver {
		t.Error("a non-button-1 click on a non-focused window must be dropped")
	}
	if wm.focused != nil {
		t.Error("a non-button-1 click must not transfer focus")
	}
}

func TestWindowManagerDispatchKeyRoutesToFocused(t *testing.T) {
	wm := newTestWM(t)
	win, _ := wm.OpenWindow(0, 1, 0, 0, 10, 10)
	win.visible = true

	if _, ok := wm.DispatchKey(); ok {
		t.Error("no focused window yet: DispatchKey should report !ok")
	}
	wm.focused = win
	got, ok := wm.DispatchKey()
	if !ok || got != win {
		t.Error("DispatchKey should route to the focused window")
	}
}
