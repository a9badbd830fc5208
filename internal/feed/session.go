package feed

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Options configure a Session.
type Options struct {
	// DomainName scopes every pagination request.
	DomainName string
	// BasePath prefixes address bar paths; "" yields "/<slug>".
	BasePath     string
	Lookahead    int
	EndBannerTTL time.Duration
	Logger       *log.Logger
}

// Session is one feed-viewing session. Create it with NewSession and release
// it with Close; results that arrive after Close are dropped.
type Session struct {
	ID string

	Store    *Store
	Loader   *Loader
	Tracker  *Tracker
	Notifier *EndNotifier
	Signals  *Signals

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	logger    *log.Logger
}

// NewSession builds a session from the seed batch and positions it at the
// deep-linked slug.
func NewSession(seed []Item, deepLink string, source PageSource, router Router, opts Options) *Session {
	id := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = logger.With("session", id[:8])

	ctx, cancel := context.WithCancel(context.Background())
	store := NewStore(seed)
	loader := NewLoader(store, source, NewGuard(), opts.DomainName, logger)
	s := &Session{
		ID:       id,
		Store:    store,
		Loader:   loader,
		Tracker:  NewTracker(ctx, store, loader, router, opts.BasePath, opts.Lookahead, logger),
		Notifier: NewEndNotifier(opts.EndBannerTTL),
		Signals:  NewSignals(),
		ctx:      ctx,
		cancel:   cancel,
		logger:   logger,
	}
	idx := s.Tracker.InitialIndex(deepLink)
	logger.Info("session started", "items", store.Len(), "domain", opts.DomainName, "deep_link", deepLink, "index", idx)
	return s
}

// Context is cancelled when the session closes.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Observe forwards a visibility signal to the tracker.
func (s *Session) Observe(v Visibility) Activation {
	return s.Tracker.Observe(v)
}

// EndInputs derives the banner inputs from the store and the loader.
func (s *Session) EndInputs() EndInputs {
	snap := s.Store.Snapshot()
	return EndInputs{
		AtLastItem: snap.AtLastItem(),
		Exhausted:  snap.Exhausted,
		Loading:    s.Loader.Loading(),
	}
}

// UpdateEnd runs the banner machine on the current inputs.
func (s *Session) UpdateEnd() EndEffect {
	return s.Notifier.Observe(s.EndInputs())
}

// Run consumes the session's visibility hub until the session closes.
func (s *Session) Run(onActivate func(Activation)) {
	s.Tracker.Run(s.ctx, s.Signals.Subscribe(8), onActivate)
}

// Close tears the session down. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.Store.Close()
		s.Signals.Close()
		s.logger.Info("session closed", "items", s.Store.Len(), "cursor", s.Store.Cursor())
	})
}
