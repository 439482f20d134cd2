package ansiterm

import "testing"

func TestNewShadowDefaults(t *testing.T) {
	s := newShadow()
	if !s.curValid || !s.curVisible {
		t.Error("new shadow should have a valid, visible cursor")
	}
	if !s.at(1, 1) {
		t.Errorf("new shadow cursor = (%d,%d), want (1,1)", s.curX, s.curY)
	}
	if s.fg != Black || s.bg != White || s.attr != AttrNone {
		t.Errorf("new shadow style = %s/%s/%v, want black/white/none", s.fg, s.bg, s.attr)
	}
}

func TestShadowAt(t *testing.T) {
	s := newShadow()
	s.curX, s.curY = 5, 7
	if s.at(5, 7) != true {
		t.Error("at(5,7) should be true")
	}
	if s.at(5, 8) {
		t.Error("at(5,8) should be false")
	}
	s.curValid = false
	if s.at(5, 7) {
		t.Error("at() should be false once curValid is false")
	}
}
