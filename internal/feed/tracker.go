package feed

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	// ActivationThreshold is the visible coverage an item needs to become active.
	ActivationThreshold = 0.5
	// DefaultLookahead triggers pagination this many items before the tail.
	DefaultLookahead = 2
)

// Visibility is one viewport coverage signal for the item at Index.
type Visibility struct {
	Index        int
	Ratio        float64
	Intersecting bool
}

// Router is the address bar. ReplacePath must not add a history entry.
type Router interface {
	CurrentPath() string
	ReplacePath(path string)
}

// Activation is the tracker's reaction to a visibility signal.
type Activation struct {
	// Activated is false when the signal did not meet the threshold.
	Activated bool
	Index     int
	Changed   bool
	Item      Item
	// PathReplaced is set when the router path was rewritten to Path.
	PathReplaced bool
	Path         string
	// Pending is non-nil when a page load was started.
	Pending <-chan PageResult
}

// Tracker follows the active item, keeps the address bar in sync and starts
// pagination near the end of the list.
type Tracker struct {
	store     *Store
	loader    *Loader
	router    Router
	basePath  string
	lookahead int
	ctx       context.Context
	logger    *log.Logger
}

func NewTracker(ctx context.Context, store *Store, loader *Loader, router Router, basePath string, lookahead int, logger *log.Logger) *Tracker {
	if lookahead < 1 {
		lookahead = DefaultLookahead
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Tracker{
		store:     store,
		loader:    loader,
		router:    router,
		basePath:  strings.TrimRight(basePath, "/"),
		lookahead: lookahead,
		ctx:       ctx,
		logger:    logger,
	}
}

// InitialIndex positions the store at the deep-linked slug, or at 0 when the
// slug is empty or unknown. It runs before any visibility signal.
func (t *Tracker) InitialIndex(deepLink string) int {
	idx := 0
	if deepLink != "" {
		if i := t.store.IndexOf(deepLink); i >= 0 {
			idx = i
		}
	}
	return t.store.SetActiveIndex(idx)
}

// PathFor returns the address bar path for slug.
func (t *Tracker) PathFor(slug string) string {
	return t.basePath + "/" + slug
}

// Observe reacts to one visibility signal.
func (t *Tracker) Observe(v Visibility) Activation {
	if !v.Intersecting || v.Ratio < ActivationThreshold {
		return Activation{}
	}
	if t.store.Closed() {
		return Activation{}
	}

	prev := t.store.ActiveIndex()
	idx := t.store.SetActiveIndex(v.Index)
	item, ok := t.store.At(idx)
	if !ok {
		return Activation{}
	}
	act := Activation{Activated: true, Index: idx, Changed: idx != prev, Item: item}

	act.Path = t.PathFor(item.Slug)
	if t.router != nil && t.router.CurrentPath() != act.Path {
		t.router.ReplacePath(act.Path)
		act.PathReplaced = true
	}

	if t.nearEnd(idx) {
		act.Pending = t.loader.LoadNextPage(t.ctx)
		t.logger.Debug("near end, loading next page", "index", idx, "len", t.store.Len())
	}
	return act
}

func (t *Tracker) nearEnd(idx int) bool {
	if t.loader == nil || t.loader.Loading() || t.store.Exhausted() {
		return false
	}
	return idx >= t.store.Len()-t.lookahead
}

// Run feeds signals from sub into Observe until ctx ends or the subscription
// closes, then unsubscribes. onActivate, when set, is called for every
// activation on the Run goroutine.
func (t *Tracker) Run(ctx context.Context, sub *Subscription, onActivate func(Activation)) {
	defer sub.Unsubscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-sub.C:
			if !ok {
				return
			}
			act := t.Observe(v)
			if act.Activated && onActivate != nil {
				onActivate(act)
			}
		}
	}
}
