package ansiterm

import (
	"reflect"
	"testing"
)

func TestNewTabStopsDefaults(t *testing.T) {
	tabs := NewTabStops(30)
	want := []int{9, 17, 25}
	if got := tabs.Columns(); !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %v, want %v", got, want)
	}
}

func TestTabStopsSetClear(t *testing.T) {
	tabs := NewTabStops(20)
	if err := tabs.Set(5); err != nil {
		t.Fatalf("Set(5) = %v, want nil", err)
	}
	if !reflect.DeepEqual(tabs.Columns(), []int{5, 9, 17}) {
		t.Errorf("Columns() after Set(5) = %v", tabs.Columns())
	}
	tabs.Clear(9)
	if reflect.DeepEqual(tabs.Columns(), []int{5, 9, 17}) {
		t.Error("Clear(9) had no effect")
	}
}

func TestTabStopsSetRejectsNonPositive(t *testing.T) {
	tabs := NewTabStops(20)
	if err := tabs.Set(0); err != ErrBadPosition {
		t.Errorf("Set(0) = %v, want ErrBadPosition", err)
	}
}

func TestTabStopsClearAll(t *testing.T) {
	tabs := NewTabStops(40)
	tabs.ClearAll()
	if len(tabs.Columns()) != 0 {
		t.Errorf("Columns() after ClearAll = %v, want empty", tabs.Columns())
	}
}

func TestTabStopsNext(t *testing.T) {
	tabs := NewTabStops(30)
	next, ok := tabs.Next(10)
	if !ok || next != 17 {
		t.Errorf("Next(10) = (%d,%v), want (17,true)", next, ok)
	}
	_, ok = tabs.Next(25)
	if ok {
		t.Error("Next(25) should find nothing past the last stop")
	}
}
