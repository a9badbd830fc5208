package feed

import (
	"sync"
	"time"
)

// DefaultEndBannerTTL is how long the end-of-feed banner stays up.
const DefaultEndBannerTTL = 4000 * time.Millisecond

// EndState is the state of the end-of-feed banner.
type EndState int

const (
	// EndHidden: banner hidden and not yet shown on this visit to the last item.
	EndHidden EndState = iota
	// EndShowing: banner visible, auto-hide timer running.
	EndShowing
	// EndSuppressed: banner timed out while the viewer stayed on the last item.
	EndSuppressed
)

func (s EndState) String() string {
	switch s {
	case EndShowing:
		return "showing"
	case EndSuppressed:
		return "suppressed"
	default:
		return "hidden"
	}
}

// EndInputs are the signals the banner reacts to.
type EndInputs struct {
	AtLastItem bool
	Exhausted  bool
	Loading    bool
}

// EndTimer asks the caller to call Expire(Gen) after After.
type EndTimer struct {
	Gen   int
	After time.Duration
}

// EndEffect is the banner's reaction to new inputs.
type EndEffect struct {
	Visible bool
	Changed bool
	Timer   *EndTimer
}

// EndNotifier is the end-of-feed banner state machine. It schedules nothing on
// its own: callers run the requested timer and report back through Expire.
// Cancelling a timer is a generation bump, so a stale Expire is ignored.
type EndNotifier struct {
	mu    sync.Mutex
	state EndState
	shown bool
	gen   int
	ttl   time.Duration
}

func NewEndNotifier(ttl time.Duration) *EndNotifier {
	if ttl <= 0 {
		ttl = DefaultEndBannerTTL
	}
	return &EndNotifier{ttl: ttl}
}

// Observe feeds the current inputs into the machine.
func (n *EndNotifier) Observe(in EndInputs) EndEffect {
	n.mu.Lock()
	defer n.mu.Unlock()

	wasVisible := n.state == EndShowing

	if !in.AtLastItem {
		n.shown = false
		n.state = EndHidden
		if wasVisible {
			n.gen++
		}
		return EndEffect{Visible: false, Changed: wasVisible}
	}

	if in.Loading {
		// Never visible while a tail fetch is outstanding.
		if wasVisible {
			n.gen++
			n.state = EndSuppressed
		}
		return EndEffect{Visible: false, Changed: wasVisible}
	}

	if in.Exhausted && !n.shown {
		n.shown = true
		n.state = EndShowing
		n.gen++
		return EndEffect{
			Visible: true,
			Changed: !wasVisible,
			Timer:   &EndTimer{Gen: n.gen, After: n.ttl},
		}
	}

	return EndEffect{Visible: wasVisible}
}

// Expire handles a fired timer. It reports whether the banner was hidden.
func (n *EndNotifier) Expire(gen int) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if gen != n.gen || n.state != EndShowing {
		return false
	}
	n.state = EndSuppressed
	return true
}

func (n *EndNotifier) State() EndState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

func (n *EndNotifier) Visible() bool {
	return n.State() == EndShowing
}

// LoadingMore is the separate "loading more" indicator.
func LoadingMore(in EndInputs) bool {
	return in.Loading
}
