package scroll

import (
	"testing"
)

func TestViewport_StepReachesTarget(t *testing.T) {
	v := NewViewport(9, 3)
	v.ScrollTo(1)
	frames := 0
	for v.Step() {
		frames++
		if frames > 20 {
			t.Fatal("animation did not settle")
		}
	}
	if v.Offset() != 9 || v.Animating() {
		t.Fatalf("expected offset 9 and settled, got %d animating=%v", v.Offset(), v.Animating())
	}
	if frames != 2 {
		t.Fatalf("expected 2 intermediate frames at speed 3, got %d", frames)
	}
}

func TestViewport_ScrollToClamps(t *testing.T) {
	v := NewViewport(10, 3)
	v.ScrollTo(7)
	if v.Target() != 2 {
		t.Fatalf("expected target clamped to 2, got %d", v.Target())
	}
	v.ScrollTo(-1)
	if v.Target() != 0 {
		t.Fatalf("expected target clamped to 0, got %d", v.Target())
	}
}

func TestViewport_Ratio(t *testing.T) {
	v := NewViewport(10, 3)
	if got := v.Ratio(0); got != 1 {
		t.Fatalf("expected full first card, got %v", got)
	}
	v.ScrollTo(1)
	v.Step() // offset 3
	if got := v.Ratio(0); got != 0.7 {
		t.Fatalf("expected 0.7, got %v", got)
	}
	if got := v.Ratio(1); got != 0.3 {
		t.Fatalf("expected 0.3, got %v", got)
	}
	if got := v.Ratio(2); got != 0 {
		t.Fatalf("expected off-screen card at 0, got %v", got)
	}
	first, last := v.Visible()
	if first != 0 || last != 1 {
		t.Fatalf("unexpected visible range %d..%d", first, last)
	}
}

func TestViewport_SetCountAndHeight(t *testing.T) {
	v := NewViewport(10, 5)
	v.JumpTo(4)
	v.SetCount(2)
	if v.Target() != 1 || v.Offset() != 10 {
		t.Fatalf("expected clamp to last card, got target=%d offset=%d", v.Target(), v.Offset())
	}
	v.SetHeight(6)
	if v.Offset() != 6 {
		t.Fatalf("expected offset to follow height, got %d", v.Offset())
	}
}

func TestViewport_Empty(t *testing.T) {
	v := NewViewport(10, 0)
	if first, last := v.Visible(); last >= first {
		t.Fatalf("expected empty visible range, got %d..%d", first, last)
	}
	if v.Step() {
		t.Fatal("empty viewport must not animate")
	}
}
