package scroll

import (
	"slices"

	"github.com/glabrego/storyreel/internal/feed"
)

// Observer reports threshold crossings of card visibility, the way a browser
// intersection observer with a single threshold does: a card is reported when
// its ratio moves across the threshold in either direction, or when it first
// comes into view above it.
type Observer struct {
	threshold float64
	above     map[int]bool
}

func NewObserver(threshold float64) *Observer {
	if threshold <= 0 {
		threshold = feed.ActivationThreshold
	}
	return &Observer{threshold: threshold, above: make(map[int]bool)}
}

// Update compares the viewport against the last observed state and returns
// the crossings in index order.
func (o *Observer) Update(v Viewport) []feed.Visibility {
	var out []feed.Visibility

	// Cards that left the screen entirely.
	for idx := range o.above {
		if v.Ratio(idx) == 0 {
			delete(o.above, idx)
			out = append(out, feed.Visibility{Index: idx, Ratio: 0, Intersecting: false})
		}
	}

	first, last := v.Visible()
	for idx := first; idx <= last; idx++ {
		ratio := v.Ratio(idx)
		now := ratio >= o.threshold
		if now == o.above[idx] {
			continue
		}
		if now {
			o.above[idx] = true
		} else {
			delete(o.above, idx)
		}
		out = append(out, feed.Visibility{Index: idx, Ratio: ratio, Intersecting: ratio > 0})
	}

	slices.SortFunc(out, func(a, b feed.Visibility) int { return a.Index - b.Index })
	return out
}

// Reset forgets every observed card, so the next Update reports whatever is
// on screen.
func (o *Observer) Reset() {
	clear(o.above)
}
