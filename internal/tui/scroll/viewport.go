// Package scroll models the vertical snap-scrolling surface the feed is drawn
// on: one card per screen, animated toward snap points, and an observer that
// reports how much of each card is on screen.
package scroll

import (
	tuistate "github.com/glabrego/storyreel/internal/tui/state"
)

// Viewport is a snap-scrolling window over count cards of equal height.
// Offsets are in rows; card i spans [i*height, (i+1)*height).
type Viewport struct {
	height int
	count  int
	offset int
	target int
}

func NewViewport(height, count int) Viewport {
	if height < 1 {
		height = 1
	}
	return Viewport{height: height, count: count}
}

func (v Viewport) Height() int { return v.height }
func (v Viewport) Count() int  { return v.count }
func (v Viewport) Offset() int { return v.offset }

// Target is the card the viewport is snapping to.
func (v Viewport) Target() int { return v.target }

// Animating reports whether the viewport has not reached its snap point.
func (v Viewport) Animating() bool {
	return v.offset != v.target*v.height
}

// SetHeight resizes cards, keeping the viewport snapped to its target.
func (v *Viewport) SetHeight(height int) {
	if height < 1 {
		height = 1
	}
	v.height = height
	v.offset = v.target * height
}

// SetCount updates the number of cards after the feed grew.
func (v *Viewport) SetCount(count int) {
	v.count = count
	v.target = tuistate.ClampCursor(v.target, count)
	if limit := v.maxOffset(); v.offset > limit {
		v.offset = limit
	}
}

// ScrollTo sets a new snap target; Step moves toward it.
func (v *Viewport) ScrollTo(index int) {
	v.target = tuistate.ClampCursor(index, v.count)
}

// JumpTo snaps to index without animation.
func (v *Viewport) JumpTo(index int) {
	v.ScrollTo(index)
	v.offset = v.target * v.height
}

// Step advances one animation frame and reports whether more frames remain.
func (v *Viewport) Step() bool {
	dest := v.target * v.height
	delta := dest - v.offset
	if delta == 0 {
		return false
	}
	speed := v.height / 3
	if speed < 1 {
		speed = 1
	}
	switch {
	case delta > speed:
		v.offset += speed
	case delta < -speed:
		v.offset -= speed
	default:
		v.offset = dest
	}
	return v.Animating()
}

// Ratio is the fraction of card index inside the viewport.
func (v Viewport) Ratio(index int) float64 {
	if index < 0 || index >= v.count {
		return 0
	}
	top := index * v.height
	bottom := top + v.height
	lo := max(top, v.offset)
	hi := min(bottom, v.offset+v.height)
	if hi <= lo {
		return 0
	}
	return float64(hi-lo) / float64(v.height)
}

// Visible returns the range [first, last] of cards with any row on screen.
func (v Viewport) Visible() (int, int) {
	if v.count == 0 {
		return 0, -1
	}
	first := v.offset / v.height
	last := (v.offset + v.height - 1) / v.height
	return tuistate.ClampCursor(first, v.count), tuistate.ClampCursor(last, v.count)
}

func (v Viewport) maxOffset() int {
	if v.count == 0 {
		return 0
	}
	return (v.count - 1) * v.height
}
