package profile

import (
	"slices"
	"testing"
)

func TestStart_NoMode(t *testing.T) {
	s := Start(Settings{Dir: t.TempDir()})

	if _, ok := s.(nop); !ok {
		t.Fatalf("Start() = %T, want no-op session", s)
	}

	s.Stop()
	s.Stop()
}

func TestStart_UnknownMode(t *testing.T) {
	if slices.Contains(Modes(), "bogus") {
		t.Fatal("Modes() contains bogus")
	}

	s := Start(Settings{Mode: "bogus", Dir: t.TempDir()})
	if _, ok := s.(nop); !ok {
		t.Fatalf("Start() = %T, want no-op session", s)
	}

	s.Stop()
}

func TestModes_Sorted(t *testing.T) {
	if m := Modes(); !slices.IsSorted(m) {
		t.Errorf("Modes() = %v, not sorted", m)
	}
}
