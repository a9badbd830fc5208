package feed

import (
	"context"
	"testing"
	"time"
)

type fakeRouter struct {
	path     string
	replaced []string
}

func (r *fakeRouter) CurrentPath() string { return r.path }

func (r *fakeRouter) ReplacePath(path string) {
	r.path = path
	r.replaced = append(r.replaced, path)
}

func newTestTracker(seed []Item, src PageSource, router Router) (*Tracker, *Store) {
	store := NewStore(seed)
	loader := NewLoader(store, src, nil, "sagar", nil)
	return NewTracker(context.Background(), store, loader, router, "", DefaultLookahead, nil), store
}

func TestTracker_InitialIndexFromDeepLink(t *testing.T) {
	tr, store := newTestTracker(items("a", "b", "c"), &fakeSource{}, nil)
	if got := tr.InitialIndex("b"); got != 1 {
		t.Fatalf("expected initial index 1, got %d", got)
	}
	if store.ActiveIndex() != 1 {
		t.Fatalf("expected store active index 1, got %d", store.ActiveIndex())
	}

	tr, _ = newTestTracker(items("a", "b", "c"), &fakeSource{}, nil)
	if got := tr.InitialIndex("missing"); got != 0 {
		t.Fatalf("expected unknown slug to fall back to 0, got %d", got)
	}
}

func TestTracker_IgnoresSignalsBelowThreshold(t *testing.T) {
	router := &fakeRouter{path: "/a"}
	tr, store := newTestTracker(items("a", "b", "c", "d", "e"), &fakeSource{}, router)

	for _, v := range []Visibility{
		{Index: 1, Ratio: 0.49, Intersecting: true},
		{Index: 1, Ratio: 0.9, Intersecting: false},
	} {
		if act := tr.Observe(v); act.Activated {
			t.Fatalf("signal %+v must not activate", v)
		}
	}
	if store.ActiveIndex() != 0 || len(router.replaced) != 0 {
		t.Fatalf("state changed on ignored signals: idx=%d replaced=%v", store.ActiveIndex(), router.replaced)
	}
}

func TestTracker_ActivationReplacesPathOnce(t *testing.T) {
	router := &fakeRouter{path: "/a"}
	tr, store := newTestTracker(items("a", "b", "c", "d", "e"), &fakeSource{}, router)

	act := tr.Observe(Visibility{Index: 1, Ratio: 0.6, Intersecting: true})
	if !act.Activated || act.Index != 1 || !act.Changed || act.Path != "/b" || !act.PathReplaced {
		t.Fatalf("unexpected activation: %+v", act)
	}
	if store.ActiveIndex() != 1 {
		t.Fatalf("expected active index 1, got %d", store.ActiveIndex())
	}

	act = tr.Observe(Visibility{Index: 1, Ratio: 1, Intersecting: true})
	if act.PathReplaced || act.Changed {
		t.Fatalf("repeated activation must not replace the path: %+v", act)
	}
	if len(router.replaced) != 1 {
		t.Fatalf("expected one replace, got %v", router.replaced)
	}
	if act.Pending != nil {
		t.Fatal("index 1 of 5 is not near the end")
	}
}

func TestTracker_BasePath(t *testing.T) {
	store := NewStore(items("a", "b"))
	router := &fakeRouter{}
	tr := NewTracker(context.Background(), store, NewLoader(store, &fakeSource{}, nil, "", nil), router, "/watch/", 2, nil)
	tr.Observe(Visibility{Index: 0, Ratio: 1, Intersecting: true})
	if router.path != "/watch/a" {
		t.Fatalf("unexpected path: %q", router.path)
	}
}

func TestTracker_OutOfRangeIndexIsClamped(t *testing.T) {
	tr, store := newTestTracker(items("a", "b", "c"), &fakeSource{}, &fakeRouter{})
	act := tr.Observe(Visibility{Index: 12, Ratio: 1, Intersecting: true})
	if act.Index != 2 || store.ActiveIndex() != 2 {
		t.Fatalf("expected clamp to 2, got act=%d store=%d", act.Index, store.ActiveIndex())
	}
}

func TestTracker_NearEndTriggersLoad(t *testing.T) {
	src := &fakeSource{pages: map[int][]Item{1: items("f", "g")}}
	tr, store := newTestTracker(items("a", "b", "c", "d", "e"), src, &fakeRouter{})

	act := tr.Observe(Visibility{Index: 2, Ratio: 1, Intersecting: true})
	if act.Pending != nil {
		t.Fatal("index 2 of 5 must not trigger a load")
	}

	act = tr.Observe(Visibility{Index: 3, Ratio: 1, Intersecting: true})
	if act.Pending == nil {
		t.Fatal("index 3 of 5 must trigger a load")
	}
	res := waitResult(t, act.Pending)
	if res.Outcome != OutcomeAppended || store.Len() != 7 {
		t.Fatalf("unexpected result %+v len=%d", res, store.Len())
	}
}

func TestTracker_RapidSignalsIssueOneRequest(t *testing.T) {
	src := &fakeSource{
		pages: map[int][]Item{1: items("d")},
		gate:  make(chan struct{}),
	}
	tr, _ := newTestTracker(items("a", "b", "c"), src, &fakeRouter{})

	first := tr.Observe(Visibility{Index: 1, Ratio: 0.7, Intersecting: true})
	second := tr.Observe(Visibility{Index: 2, Ratio: 0.7, Intersecting: true})
	if first.Pending == nil {
		t.Fatal("expected first activation to start a load")
	}
	if second.Pending != nil {
		t.Fatal("second activation must not start a load while one is in flight")
	}
	close(src.gate)
	waitResult(t, first.Pending)
	if got := len(src.calls()); got != 1 {
		t.Fatalf("expected exactly one request, got %d", got)
	}
}

func TestTracker_RunUnsubscribesOnCancel(t *testing.T) {
	tr, store := newTestTracker(items("a", "b", "c", "d", "e"), &fakeSource{}, &fakeRouter{})
	hub := NewSignals()
	sub := hub.Subscribe(4)
	ctx, cancel := context.WithCancel(context.Background())

	activated := make(chan Activation, 4)
	done := make(chan struct{})
	go func() {
		tr.Run(ctx, sub, func(a Activation) { activated <- a })
		close(done)
	}()

	hub.Publish(Visibility{Index: 1, Ratio: 0.8, Intersecting: true})
	select {
	case a := <-activated:
		if a.Index != 1 {
			t.Fatalf("unexpected activation: %+v", a)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for activation")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if hub.Len() != 0 {
		t.Fatalf("expected subscription to be removed, got %d", hub.Len())
	}
	if store.ActiveIndex() != 1 {
		t.Fatalf("expected active index 1, got %d", store.ActiveIndex())
	}
}

func TestSignals_CloseEndsSubscriptions(t *testing.T) {
	hub := NewSignals()
	sub := hub.Subscribe(1)
	hub.Close()
	if _, ok := <-sub.C; ok {
		t.Fatal("expected closed channel")
	}
	sub.Unsubscribe()

	late := hub.Subscribe(1)
	if _, ok := <-late.C; ok {
		t.Fatal("subscribing to a closed hub must yield a closed channel")
	}
	if hub.Publish(Visibility{}) != 0 {
		t.Fatal("closed hub must not deliver")
	}
}

func TestSignals_PublishDropsWhenFull(t *testing.T) {
	hub := NewSignals()
	sub := hub.Subscribe(1)
	defer sub.Unsubscribe()

	if n := hub.Publish(Visibility{Index: 1}); n != 1 {
		t.Fatalf("expected delivery, got %d", n)
	}
	if n := hub.Publish(Visibility{Index: 2}); n != 0 {
		t.Fatalf("expected drop on full buffer, got %d", n)
	}
	if v := <-sub.C; v.Index != 1 {
		t.Fatalf("unexpected event: %+v", v)
	}
}
