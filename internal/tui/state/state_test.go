package state

import "testing"

func TestClampCursor(t *testing.T) {
	if got := ClampCursor(-1, 3); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
	if got := ClampCursor(3, 3); got != 2 {
		t.Fatalf("expected clamp to 2, got %d", got)
	}
	if got := ClampCursor(1, 3); got != 1 {
		t.Fatalf("expected keep 1, got %d", got)
	}
	if got := ClampCursor(5, 0); got != 0 {
		t.Fatalf("expected 0 for empty feed, got %d", got)
	}
}

func TestCardHeight(t *testing.T) {
	if got := CardHeight(0, false); got != 12 {
		t.Fatalf("expected default height 12, got %d", got)
	}
	if got := CardHeight(20, false); got != 16 {
		t.Fatalf("expected height 16, got %d", got)
	}
	if got := CardHeight(20, true); got != 14 {
		t.Fatalf("expected height 14 with status, got %d", got)
	}
	if got := CardHeight(5, true); got != 3 {
		t.Fatalf("expected minimum height 3, got %d", got)
	}
}

func TestCenteredWindow(t *testing.T) {
	start, end := CenteredWindow(5, 3, 3)
	if start != 2 || end != 5 {
		t.Fatalf("unexpected window: start=%d end=%d", start, end)
	}
	start, end = CenteredWindow(10, 0, 4)
	if start != 0 || end != 4 {
		t.Fatalf("unexpected window at top: start=%d end=%d", start, end)
	}
	start, end = CenteredWindow(2, 1, 4)
	if start != 0 || end != 2 {
		t.Fatalf("expected whole range when it fits: start=%d end=%d", start, end)
	}
}
