package ansiterm

import (
	"errors"
	"testing"
)

func TestRegistryInstallRemove(t *testing.T) {
	r := newRegistry()
	ownerA := "moduleA"

	prev := r.Install("place_char", ownerA, "implA")
	if prev != nil {
		t.Fatalf("Install on a fresh slot returned %v, want nil", prev)
	}
	if r.Current("place_char") != "implA" {
		t.Errorf("Current() = %v, want implA", r.Current("place_char"))
	}

	if err := r.Remove("place_char", ownerA, nil); err != nil {
		t.Fatalf("Remove() = %v, want nil", err)
	}
	if r.Current("place_char") != nil {
		t.Errorf("Current() after Remove = %v, want nil", r.Current("place_char"))
	}
}

func TestRegistryStackingViolationWrongOwner(t *testing.T) {
	r := newRegistry()
	r.Install("scroll", "moduleA", "implA")
	err := r.Remove("scroll", "moduleB", nil)
	if !errors.Is(err, ErrStackingViolation) {
		t.Errorf("Remove() by wrong owner = %v, want ErrStackingViolation", err)
	}
}

func TestRegistryStackingViolationNeverInstalled(t *testing.T) {
	r := newRegistry()
	err := r.Remove("nonexistent", "moduleA", nil)
	if !errors.Is(err, ErrStackingViolation) {
		t.Errorf("Remove() on unknown slot = %v, want ErrStackingViolation", err)
	}
}

func TestRegistryPushDownStacking(t *testing.T) {
	r := newRegistry()
	prevA := r.Install("scroll", "moduleA", "implA")
	prevB := r.Install("scroll", "moduleB", "implB")
	if prevB != "implA" {
		t.Errorf("Install by moduleB returned %v, want implA", prevB)
	}
	if err := r.Remove("scroll", "moduleB", prevB); err != nil {
		t.Fatalf("Remove moduleB = %v", err)
	}
	if r.Current("scroll") != "implA" {
		t.Errorf("Current() after unwinding moduleB = %v, want implA", r.Current("scroll"))
	}
	if err := r.Remove("scroll", "moduleA", prevA); err != nil {
		t.Fatalf("Remove moduleA = %v", err)
	}
}
