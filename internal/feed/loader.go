package feed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// PageQuery is one request to the story backend. PageNo is 0-based; Slug is
// only set for the deep-link seed request.
type PageQuery struct {
	PageNo     int
	DomainName string
	Slug       string
}

// PageSource fetches a page of candidate items.
type PageSource interface {
	FetchPage(ctx context.Context, q PageQuery) ([]Item, error)
}

// Outcome classifies a LoadNextPage call.
type Outcome int

const (
	// OutcomeSkipped means the call was refused: a fetch was in flight, the
	// feed was exhausted or the session was closed. No request was made.
	OutcomeSkipped Outcome = iota
	OutcomeAppended
	OutcomeExhausted
	// OutcomeFailed means the fetch failed and the feed is now exhausted.
	OutcomeFailed
	// OutcomeDiscarded means the fetch resolved after teardown and was ignored.
	OutcomeDiscarded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeAppended:
		return "appended"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeFailed:
		return "failed"
	case OutcomeDiscarded:
		return "discarded"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// PageResult reports the result of one LoadNextPage call.
type PageResult struct {
	Outcome Outcome
	Page    int
	Added   int
	Err     error
}

// Loader extends a Store page by page.
type Loader struct {
	store  *Store
	source PageSource
	guard  *Guard
	domain string
	logger *log.Logger
}

func NewLoader(store *Store, source PageSource, guard *Guard, domain string, logger *log.Logger) *Loader {
	if guard == nil {
		guard = NewGuard()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{store: store, source: source, guard: guard, domain: domain, logger: logger}
}

// Loading reports whether a fetch is in flight.
func (l *Loader) Loading() bool {
	return l.guard.Held()
}

// LoadNextPage requests page cursor+1. The guard is taken before this method
// returns, so a second call made before the first fetch resolves is skipped.
// The returned channel yields exactly one result and is then closed; by the
// time the result is readable the guard has been released.
//
// Failures never surface as errors to the caller: they exhaust the feed and are
// reported through PageResult.Err.
func (l *Loader) LoadNextPage(ctx context.Context) <-chan PageResult {
	done := make(chan PageResult, 1)

	if l.store.Closed() || l.store.Exhausted() || !l.guard.TryAcquire() {
		done <- PageResult{Outcome: OutcomeSkipped}
		close(done)
		return done
	}
	// Exhaustion can only be set while holding the guard, but the check above
	// ran before acquiring it.
	if l.store.Exhausted() {
		l.guard.Release()
		done <- PageResult{Outcome: OutcomeSkipped}
		close(done)
		return done
	}

	page := l.store.Cursor() + 1
	go func() {
		res := l.fetch(ctx, page)
		done <- res
		close(done)
	}()
	return done
}

func (l *Loader) fetch(ctx context.Context, page int) (res PageResult) {
	defer l.guard.Release()

	res.Page = page
	items, err := l.source.FetchPage(ctx, PageQuery{PageNo: page, DomainName: l.domain})
	if l.store.Closed() {
		res.Outcome = OutcomeDiscarded
		l.logger.Debug("page resolved after teardown", "page", page)
		return res
	}
	if err != nil {
		l.store.MarkExhausted()
		res.Outcome = OutcomeFailed
		res.Err = fmt.Errorf("load page %d: %w", page, err)
		l.logger.Warn("pagination failed, feed exhausted", "page", page, "err", err)
		return res
	}

	merge, err := l.store.AppendItems(items)
	switch {
	case errors.Is(err, ErrClosed):
		res.Outcome = OutcomeDiscarded
	case errors.Is(err, ErrExhausted):
		res.Outcome = OutcomeExhausted
	case merge.Exhausted:
		res.Outcome = OutcomeExhausted
		l.logger.Info("feed exhausted", "page", page, "received", len(items), "duplicates", merge.Duplicates)
	default:
		res.Outcome = OutcomeAppended
		res.Added = merge.Added
		l.logger.Info("page merged", "page", page, "added", merge.Added, "duplicates", merge.Duplicates, "cursor", merge.Cursor)
	}
	return res
}

// dedupe drops candidates whose slug is empty, already in existing, or repeated
// earlier in the batch. Order is preserved.
func dedupe(candidates []Item, existing map[string]struct{}) ([]Item, int) {
	out := make([]Item, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	dupes := 0
	for _, item := range candidates {
		if item.Slug == "" {
			dupes++
			continue
		}
		if _, ok := existing[item.Slug]; ok {
			dupes++
			continue
		}
		if _, ok := seen[item.Slug]; ok {
			dupes++
			continue
		}
		seen[item.Slug] = struct{}{}
		out = append(out, item)
	}
	return out, dupes
}
