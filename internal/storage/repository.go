package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/glabrego/storyreel/internal/feed"
)

// Position is the last address bar path recorded for a domain.
type Position struct {
	Domain    string
	Path      string
	Slug      string
	UpdatedAt time.Time
}

type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS stories (
  slug TEXT PRIMARY KEY,
  domain_name TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT,
  media_url TEXT NOT NULL,
  reporter TEXT,
  channel TEXT,
  full_domain TEXT,
  seq INTEGER NOT NULL,
  fetched_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_stories_domain_seq ON stories(domain_name, seq);

CREATE TABLE IF NOT EXISTS positions (
  domain_name TEXT PRIMARY KEY,
  path TEXT NOT NULL,
  slug TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CheckWritable verifies the database accepts writes. The probe row is rolled
// back.
func (r *Repository) CheckWritable(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `INSERT INTO positions (domain_name, path, slug, updated_at) VALUES ('', '', '', '') ON CONFLICT(domain_name) DO NOTHING`); err != nil {
		return fmt.Errorf("write probe: %w", err)
	}
	return nil
}

// SaveStories upserts stories for domainName. Stories keep their first
// insertion order, so the cache replays the feed in the order it was seen.
func (r *Repository) SaveStories(ctx context.Context, domainName string, items []feed.Item) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var next int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM stories WHERE domain_name = ?`, domainName).Scan(&next); err != nil {
		return fmt.Errorf("read next sequence: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO stories (slug, domain_name, title, description, media_url, reporter, channel, full_domain, seq, fetched_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(slug) DO UPDATE SET
  domain_name=excluded.domain_name,
  title=excluded.title,
  description=excluded.description,
  media_url=excluded.media_url,
  reporter=excluded.reporter,
  channel=excluded.channel,
  full_domain=excluded.full_domain,
  fetched_at=excluded.fetched_at
`)
	if err != nil {
		return fmt.Errorf("prepare save statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for i, item := range items {
		_, err := stmt.ExecContext(
			ctx,
			item.Slug,
			domainName,
			item.Title,
			item.Description,
			item.MediaURL,
			item.Reporter,
			item.Channel,
			item.Domain,
			next+int64(i),
			now,
		)
		if err != nil {
			return fmt.Errorf("save story %s: %w", item.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ListStories returns up to limit cached stories for domainName in feed order.
func (r *Repository) ListStories(ctx context.Context, domainName string, limit int) ([]feed.Item, error) {
	if limit < 1 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT slug, title, description, media_url, reporter, channel, full_domain
FROM stories
WHERE domain_name = ?
ORDER BY seq ASC
LIMIT ?
`, domainName, limit)
	if err != nil {
		return nil, fmt.Errorf("query stories: %w", err)
	}
	defer rows.Close()

	items := make([]feed.Item, 0, limit)
	for rows.Next() {
		var item feed.Item
		var description, reporter, channel, fullDomain sql.NullString
		if err := rows.Scan(
			&item.Slug,
			&item.Title,
			&description,
			&item.MediaURL,
			&reporter,
			&channel,
			&fullDomain,
		); err != nil {
			return nil, fmt.Errorf("scan story: %w", err)
		}
		item.Description = description.String
		item.Reporter = reporter.String
		item.Channel = channel.String
		item.Domain = fullDomain.String
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return items, nil
}

// SavePosition records the address bar path for domainName.
func (r *Repository) SavePosition(ctx context.Context, p Position) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO positions (domain_name, path, slug, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(domain_name) DO UPDATE SET
  path=excluded.path,
  slug=excluded.slug,
  updated_at=excluded.updated_at
`, p.Domain, p.Path, p.Slug, p.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save position for %s: %w", p.Domain, err)
	}
	return nil
}

// LoadPosition returns the saved position for domainName. ok is false when
// none was recorded.
func (r *Repository) LoadPosition(ctx context.Context, domainName string) (Position, bool, error) {
	var p Position
	var updatedAt string
	err := r.db.QueryRowContext(ctx, `
SELECT domain_name, path, slug, updated_at FROM positions WHERE domain_name = ?
`, domainName).Scan(&p.Domain, &p.Path, &p.Slug, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Position{}, false, nil
	}
	if err != nil {
		return Position{}, false, fmt.Errorf("load position for %s: %w", domainName, err)
	}
	p.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return Position{}, false, fmt.Errorf("parse position updated_at %q: %w", updatedAt, err)
	}
	return p, true, nil
}
