package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/charmbracelet/log"

	"github.com/glabrego/storyreel/internal/app"
	"github.com/glabrego/storyreel/internal/config"
	"github.com/glabrego/storyreel/internal/feed"
	"github.com/glabrego/storyreel/internal/logging"
	"github.com/glabrego/storyreel/internal/scope"
	"github.com/glabrego/storyreel/internal/softstory"
	"github.com/glabrego/storyreel/internal/storage"
)

// environment is everything a feed command needs, built from configuration.
type environment struct {
	cfg     config.Config
	scope   scope.Scope
	logger  *log.Logger
	service *app.Service

	closers []io.Closer
}

func bootstrap(ctx context.Context) (_ *environment, err error) {
	if v == nil {
		return nil, errors.New("configuration not initialised")
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	env := &environment{cfg: cfg}
	defer func() {
		if err != nil {
			env.Close()
		}
	}()

	logger, logCloser, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logging init error: %w", err)
	}
	env.logger = logger
	env.closers = append(env.closers, logCloser)

	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	env.closers = append(env.closers, repo)
	if err := repo.Init(ctx); err != nil {
		return nil, fmt.Errorf("storage schema error: %w", err)
	}
	if err := repo.CheckWritable(ctx); err != nil {
		return nil, fmt.Errorf("storage write check failed (%v). Verify STORYREEL_DB_PATH is writable: %s", err, cfg.DBPath)
	}

	client := softstory.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.RequestTimeout}, softstory.Options{
		RequestsPerSecond: cfg.RequestsPerSecond,
		SeedCacheTTL:      cfg.SeedCacheTTL,
	})
	env.scope = scope.Resolve(cfg.Host, cfg.SaaSDomain)
	env.service = app.NewService(client, repo, env.scope, logger.WithPrefix("app"))

	logger.Info("storyreel started", "version", Version, "domain", env.scope.DomainName, "host", env.scope.FullDomain)
	return env, nil
}

func (e *environment) sessionOptions() feed.Options {
	return feed.Options{
		DomainName:   e.scope.DomainName,
		BasePath:     e.cfg.BasePath,
		Lookahead:    e.cfg.Lookahead,
		EndBannerTTL: e.cfg.EndBanner,
		Logger:       e.logger.WithPrefix("feed"),
	}
}

// initialPath is the address the session opens at.
func (e *environment) initialPath(slug string) string {
	if slug == "" {
		return e.cfg.BasePath + "/"
	}
	return path.Join(e.cfg.BasePath+"/", slug)
}

// Close releases resources in reverse order of acquisition.
func (e *environment) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i].Close()
	}
	e.closers = nil
}
