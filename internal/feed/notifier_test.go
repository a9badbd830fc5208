package feed

import (
	"testing"
	"time"
)

var (
	atEnd   = EndInputs{AtLastItem: true, Exhausted: true}
	awayEnd = EndInputs{AtLastItem: false, Exhausted: true}
)

func TestEndNotifier_ShowsOnceAndAutoHides(t *testing.T) {
	n := NewEndNotifier(0)

	eff := n.Observe(atEnd)
	if !eff.Visible || !eff.Changed || eff.Timer == nil {
		t.Fatalf("expected banner to show with timer, got %+v", eff)
	}
	if eff.Timer.After != 4000*time.Millisecond {
		t.Fatalf("unexpected timer: %+v", eff.Timer)
	}

	// Jitter at the boundary keeps the banner and starts no new timer.
	eff = n.Observe(atEnd)
	if !eff.Visible || eff.Changed || eff.Timer != nil {
		t.Fatalf("unexpected effect on repeat: %+v", eff)
	}

	if !n.Expire(1) {
		t.Fatal("expected timer to hide the banner")
	}
	if n.State() != EndSuppressed {
		t.Fatalf("expected suppressed, got %s", n.State())
	}

	eff = n.Observe(atEnd)
	if eff.Visible || eff.Timer != nil {
		t.Fatalf("banner must not reappear on its own, got %+v", eff)
	}
}

func TestEndNotifier_ReshowsAfterLeavingLastItem(t *testing.T) {
	n := NewEndNotifier(4 * time.Second)

	first := n.Observe(atEnd)
	eff := n.Observe(awayEnd)
	if eff.Visible || !eff.Changed {
		t.Fatalf("leaving the last item must hide immediately: %+v", eff)
	}
	if n.State() != EndHidden {
		t.Fatalf("expected hidden, got %s", n.State())
	}

	again := n.Observe(atEnd)
	if !again.Visible || again.Timer == nil {
		t.Fatalf("expected banner to re-show, got %+v", again)
	}
	if n.Expire(first.Timer.Gen) {
		t.Fatal("cancelled timer must not hide the new banner")
	}
	if !n.Visible() {
		t.Fatal("banner should still be visible")
	}
	if !n.Expire(again.Timer.Gen) {
		t.Fatal("current timer should hide the banner")
	}
}

func TestEndNotifier_NeverVisibleWhileLoading(t *testing.T) {
	n := NewEndNotifier(0)

	eff := n.Observe(EndInputs{AtLastItem: true, Exhausted: true, Loading: true})
	if eff.Visible || eff.Timer != nil {
		t.Fatalf("banner must stay hidden while loading: %+v", eff)
	}
	if !LoadingMore(EndInputs{Loading: true}) {
		t.Fatal("expected loading indicator")
	}

	eff = n.Observe(atEnd)
	if !eff.Visible {
		t.Fatal("banner should show once loading settles")
	}
}

func TestEndNotifier_NotExhaustedStaysHidden(t *testing.T) {
	n := NewEndNotifier(0)
	eff := n.Observe(EndInputs{AtLastItem: true})
	if eff.Visible || n.State() != EndHidden {
		t.Fatalf("unexpected effect: %+v state=%s", eff, n.State())
	}
}
