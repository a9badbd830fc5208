package softstory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const watchPath = "/softStoryWatch"

// ErrMalformedData is returned when the envelope's data field is not an array.
var ErrMalformedData = errors.New("softstory: response data is not an array")

// RawStory is the subset of backend story fields used by the app.
type RawStory struct {
	ID                int64  `json:"id"`
	Slug              string `json:"slug"`
	StoryTitle        string `json:"story_title"`
	StoryDescription  string `json:"story_description"`
	GeneratedStoryURL string `json:"generated_story_url"`
	ReporterName      string `json:"reporter_name"`
	ChannelName       string `json:"channel_name"`
}

// Query is one watch request. PageNo is 0-based.
type Query struct {
	PageNo     int
	DomainName string
	Slug       string
}

func (q Query) cacheKey() string {
	return strconv.Itoa(q.PageNo) + "|" + q.DomainName + "|" + q.Slug
}

type envelope struct {
	Status  json.RawMessage `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	seeds   *gocache.Cache
}

// Options tune request pacing and the deep-link seed memo.
type Options struct {
	RequestsPerSecond float64
	SeedCacheTTL      time.Duration
}

func NewClient(baseURL string, httpClient *http.Client, opts Options) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	var seeds *gocache.Cache
	if opts.SeedCacheTTL > 0 {
		seeds = gocache.New(opts.SeedCacheTTL, 2*opts.SeedCacheTTL)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		limiter: rate.NewLimiter(limit, 1),
		seeds:   seeds,
	}
}

// Watch posts a paginated watch query and returns the stories in the envelope.
func (c *Client) Watch(ctx context.Context, q Query) ([]RawStory, error) {
	seed := q.PageNo == 0 && q.Slug != "" && c.seeds != nil
	if seed {
		if cached, ok := c.seeds.Get(q.cacheKey()); ok {
			return append([]RawStory(nil), cached.([]RawStory)...), nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for request slot: %w", err)
	}

	body, contentType, err := encodeQuery(q)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+watchPath, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("watch request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("watch failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode watch response: %w", err)
	}
	stories, err := decodeData(env.Data)
	if err != nil {
		return nil, err
	}

	if seed {
		c.seeds.SetDefault(q.cacheKey(), append([]RawStory(nil), stories...))
	}
	return stories, nil
}

func encodeQuery(q Query) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"page_no", strconv.Itoa(q.PageNo)},
		{"domain_name", q.DomainName},
		{"slug", q.Slug},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", f[0], err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func decodeData(raw json.RawMessage) ([]RawStory, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrMalformedData
	}
	var stories []RawStory
	if err := json.Unmarshal(trimmed, &stories); err != nil {
		return nil, fmt.Errorf("decode watch data: %w", err)
	}
	return stories, nil
}
