package feed

import (
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Guard admits at most one pagination fetch at a time. A trigger that arrives
// while the guard is held is dropped, not queued.
type Guard struct {
	sem  *semaphore.Weighted
	held atomic.Bool
}

func NewGuard() *Guard {
	return &Guard{sem: semaphore.NewWeighted(1)}
}

// TryAcquire takes the guard without blocking.
func (g *Guard) TryAcquire() bool {
	if !g.sem.TryAcquire(1) {
		return false
	}
	g.held.Store(true)
	return true
}

// Release frees the guard. Releasing an idle guard is a no-op.
func (g *Guard) Release() {
	if g.held.CompareAndSwap(true, false) {
		g.sem.Release(1)
	}
}

// Held is the loading flag.
func (g *Guard) Held() bool {
	return g.held.Load()
}
