package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/glabrego/storyreel/internal/feed"
	"github.com/glabrego/storyreel/internal/render/text"
	"github.com/glabrego/storyreel/internal/scope"
	"github.com/glabrego/storyreel/internal/softstory"
	"github.com/glabrego/storyreel/internal/storage"
)

// DefaultCacheLimit bounds how many cached stories seed an offline session.
const DefaultCacheLimit = 50

type StoryClient interface {
	Watch(ctx context.Context, q softstory.Query) ([]softstory.RawStory, error)
}

type Repository interface {
	SaveStories(ctx context.Context, domainName string, items []feed.Item) error
	ListStories(ctx context.Context, domainName string, limit int) ([]feed.Item, error)
	SavePosition(ctx context.Context, p storage.Position) error
	LoadPosition(ctx context.Context, domainName string) (storage.Position, bool, error)
}

// Seed is the initial batch of a session.
type Seed struct {
	Items []feed.Item
	// DeepLink is the slug the session should open at.
	DeepLink string
	// FromCache is set when the backend was unreachable and the cache was used.
	FromCache bool
}

type Service struct {
	client StoryClient
	repo   Repository
	scope  scope.Scope
	logger *log.Logger
}

func NewService(client StoryClient, repo Repository, sc scope.Scope, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Service{client: client, repo: repo, scope: sc, logger: logger}
}

func (s *Service) Scope() scope.Scope {
	return s.scope
}

// Seed fetches page 0 positioned at slug. With an empty slug the last saved
// position for the domain is used. When the backend fails the cached stories
// are returned instead; an empty result means the story is unavailable.
func (s *Service) Seed(ctx context.Context, slug string) (Seed, error) {
	if slug == "" {
		last, err := s.LastSlug(ctx)
		if err != nil {
			s.logger.Warn("could not load saved position", "err", err)
		}
		slug = last
	}

	raw, err := s.client.Watch(ctx, softstory.Query{PageNo: 0, DomainName: s.scope.DomainName, Slug: slug})
	if err != nil {
		s.logger.Warn("seed fetch failed, falling back to cache", "slug", slug, "err", err)
		cached, cacheErr := s.repo.ListStories(ctx, s.scope.DomainName, DefaultCacheLimit)
		if cacheErr != nil {
			return Seed{}, fmt.Errorf("fetch seed stories: %w (cache: %v)", err, cacheErr)
		}
		if len(cached) == 0 {
			return Seed{}, fmt.Errorf("fetch seed stories: %w", err)
		}
		return Seed{Items: cached, DeepLink: slug, FromCache: true}, nil
	}

	items := s.toItems(raw)
	s.cache(ctx, items)
	return Seed{Items: items, DeepLink: slug}, nil
}

// FetchPage implements feed.PageSource.
func (s *Service) FetchPage(ctx context.Context, q feed.PageQuery) ([]feed.Item, error) {
	raw, err := s.client.Watch(ctx, softstory.Query{PageNo: q.PageNo, DomainName: q.DomainName, Slug: q.Slug})
	if err != nil {
		return nil, fmt.Errorf("fetch stories page %d: %w", q.PageNo, err)
	}
	items := s.toItems(raw)
	s.cache(ctx, items)
	return items, nil
}

// LastSlug is the slug of the last saved position for the domain, "" if none.
func (s *Service) LastSlug(ctx context.Context) (string, error) {
	p, ok, err := s.repo.LoadPosition(ctx, s.scope.DomainName)
	if err != nil {
		return "", fmt.Errorf("load position: %w", err)
	}
	if !ok {
		return "", nil
	}
	return p.Slug, nil
}

// SavePosition records the address bar path so the next session resumes there.
func (s *Service) SavePosition(ctx context.Context, path string) error {
	slug := path[strings.LastIndex(path, "/")+1:]
	if err := s.repo.SavePosition(ctx, storage.Position{Domain: s.scope.DomainName, Path: path, Slug: slug}); err != nil {
		return fmt.Errorf("save position: %w", err)
	}
	return nil
}

// cache failures never fail a fetch.
func (s *Service) cache(ctx context.Context, items []feed.Item) {
	if err := s.repo.SaveStories(ctx, s.scope.DomainName, items); err != nil {
		s.logger.Warn("could not cache stories", "count", len(items), "err", err)
	}
}

func (s *Service) toItems(raw []softstory.RawStory) []feed.Item {
	items := make([]feed.Item, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r.Slug) == "" {
			continue
		}
		items = append(items, ToItem(r, s.scope.FullDomain))
	}
	return items
}

// ToItem maps a backend story. The domain comes from the resolved scope, not
// from the story itself.
func ToItem(r softstory.RawStory, domain string) feed.Item {
	return feed.Item{
		Slug:        strings.TrimSpace(r.Slug),
		Title:       strings.TrimSpace(r.StoryTitle),
		Description: text.Plain(r.StoryDescription),
		MediaURL:    strings.TrimSpace(r.GeneratedStoryURL),
		Reporter:    strings.TrimSpace(r.ReporterName),
		Channel:     strings.TrimSpace(r.ChannelName),
		Domain:      domain,
	}
}
