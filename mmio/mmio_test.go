package mmio

import "testing"

func TestSimWindowRoundTrip(t *testing.T) {
	w := NewSimWindow(PageSize)
	if w.Size() != PageSize {
		t.Fatalf("expected %d-byte window, got %d", PageSize, w.Size())
	}

	w.Write32(0x300, 24500)
	if got := w.Read32(0x300); got != 24500 {
		t.Errorf("expected 24500, got %d", got)
	}

	// Neighbouring registers are independent.
	w.Write32(0x304, 9000)
	if got := w.Read32(0x300); got != 24500 {
		t.Errorf("write to 0x304 disturbed 0x300: got %d", got)
	}
}

func TestSimWindowZeroed(t *testing.T) {
	w := NewSimWindow(PageSize)
	for _, off := range []uint32{0, 0x160, 0x300, 0x374, PageSize - 4} {
		if got := w.Read32(off); got != 0 {
			t.Errorf("offset 0x%x: expected 0, got %d", off, got)
		}
	}
}

func TestMisalignedOffsetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on misaligned offset")
		}
	}()
	NewSimWindow(PageSize).Read32(0x301)
}

func TestOutOfWindowOffsetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on out-of-window offset")
		}
	}()
	NewSimWindow(PageSize).Read32(PageSize)
}
