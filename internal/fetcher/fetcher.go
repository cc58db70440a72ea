package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// UserAgent identifies textproc to servers
	UserAgent = "textproc/1.0"

	// DefaultTimeout for HTTP requests
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries for failed requests
	DefaultMaxRetries = 3

	// maxBackoff caps the exponential backoff between attempts
	maxBackoff = 30 * time.Second
)

// ErrDisallowed is returned when robots.txt forbids fetching a URL
var ErrDisallowed = errors.New("disallowed by robots.txt")

// Options configures a Fetcher
type Options struct {
	RateLimit     float64 // requests per second, 0 = no limit unless robots.txt sets Crawl-delay
	Timeout       time.Duration
	MaxRetries    int
	RespectRobots bool
}

// Page is a fetched document
type Page struct {
	URL         string
	ContentType string
	Body        []byte
}

// Fetcher downloads input documents with rate limiting, retries and
// robots.txt compliance
type Fetcher struct {
	client        *http.Client
	limiter       *rate.Limiter
	logger        *slog.Logger
	maxRetries    int
	respectRobots bool
	userRateLimit float64
	backoffBase   time.Duration

	mu     sync.Mutex
	robots map[string]*Robots // keyed by scheme://host
}

// New creates a new Fetcher
func New(opts Options, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}

	return &Fetcher{
		client:        &http.Client{Timeout: opts.Timeout},
		limiter:       newLimiter(opts.RateLimit),
		logger:        logger,
		maxRetries:    opts.MaxRetries,
		respectRobots: opts.RespectRobots,
		userRateLimit: opts.RateLimit,
		backoffBase:   time.Second,
		robots:        make(map[string]*Robots),
	}
}

func newLimiter(requestsPerSecond float64) *rate.Limiter {
	if requestsPerSecond > 0 {
		return rate.NewLimiter(rate.Limit(requestsPerSecond), int(requestsPerSecond)+1)
	}
	return rate.NewLimiter(rate.Inf, 0)
}

// Fetch downloads rawURL. Client errors (4xx) fail immediately; transport
// errors and server errors (5xx) are retried with exponential backoff.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme %q", parsed.Scheme)
	}

	if f.respectRobots {
		robots := f.loadRobots(ctx, parsed)
		if !robots.Allowed(rawURL, UserAgent) {
			return nil, fmt.Errorf("%w: %s", ErrDisallowed, rawURL)
		}
	}

	var lastErr error
	for attempt := 0; attempt < f.maxRetries; attempt++ {
		if attempt > 0 {
			f.logger.Debug("retrying fetch", "url", rawURL, "attempt", attempt+1, "max_attempts", f.maxRetries)
			if err := f.backoff(ctx, attempt-1); err != nil {
				return nil, err
			}
		}

		page, retry, err := f.fetchOnce(ctx, rawURL)
		if err == nil {
			return page, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", f.maxRetries, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (*Page, bool, error) {
	if err := f.wait(ctx); err != nil {
		return nil, false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/plain,text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		err := fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
		return nil, resp.StatusCode >= 500, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("reading response body: %w", err)
	}

	f.logger.Debug("fetched", "url", rawURL, "content_type", resp.Header.Get("Content-Type"), "bytes", len(body))

	return &Page{
		URL:         rawURL,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, false, nil
}

func (f *Fetcher) wait(ctx context.Context) error {
	f.mu.Lock()
	limiter := f.limiter
	f.mu.Unlock()

	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}
	return nil
}

// backoff sleeps for an exponentially growing interval, or until ctx ends
func (f *Fetcher) backoff(ctx context.Context, attempt int) error {
	delay := f.backoffBase * time.Duration(1<<uint(attempt))
	if delay > maxBackoff {
		delay = maxBackoff
	}

	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// loadRobots returns the cached robots.txt rules for the URL's host, fetching
// them on first use. Failures are logged and treated as "everything allowed".
func (f *Fetcher) loadRobots(ctx context.Context, target *url.URL) *Robots {
	origin := target.Scheme + "://" + target.Host

	f.mu.Lock()
	cached, ok := f.robots[origin]
	f.mu.Unlock()
	if ok {
		return cached
	}

	robots, err := f.fetchRobots(ctx, origin)
	if err != nil {
		f.logger.Warn("robots.txt unavailable", "origin", origin, "error", err)
		robots = &Robots{}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.robots[origin] = robots

	// Apply crawl-delay from robots.txt if the user didn't specify a rate limit
	if f.userRateLimit == 0 {
		if delay := robots.CrawlDelay(UserAgent); delay > 0 {
			f.limiter = rate.NewLimiter(rate.Every(delay), 1)
			f.logger.Info("applying robots.txt crawl-delay", "origin", origin, "delay", delay)
		}
	}

	return robots
}

func (f *Fetcher) fetchRobots(ctx context.Context, origin string) (*Robots, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil, fmt.Errorf("creating robots.txt request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching robots.txt: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// No robots.txt means everything is allowed
		return &Robots{}, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("robots.txt returned status %d", resp.StatusCode)
	}

	robots, err := ParseRobots(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing robots.txt: %w", err)
	}
	return robots, nil
}
