// Package fetch issues rate-limited HTTP GETs against an upstream that
// throttles aggressively. All requests are sequential: pacing and the
// burst cooldown only hold if no two fetches are ever in flight at
// once, so a shared Fetcher serializes its callers.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultDelay            = 5 * time.Second
	defaultCooldown         = 2 * time.Minute
	defaultRequestThreshold = 50
	defaultMaxAttempts      = 5
	defaultUserAgent        = "ttsdeck/1.0"
	requestTimeout          = 30 * time.Second
)

// ErrTooManyAttempts is returned when the upstream keeps rate-limiting
// past the attempt budget.
var ErrTooManyAttempts = errors.New("too many attempts fetching data")

// StatusError is a non-429 HTTP error status. It is fatal: the fetcher
// does not retry it.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d fetching %s", e.StatusCode, e.URL)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// Config tunes the pacing and retry behavior.
type Config struct {
	// Delay is the minimum spacing between consecutive requests.
	Delay time.Duration
	// Cooldown is slept after a 429 and after the burst threshold is hit.
	Cooldown time.Duration
	// RequestThreshold is how many requests may go out before a
	// cooldown is forced.
	RequestThreshold int
	// MaxAttempts bounds the retries for a single fetch, first try
	// included.
	MaxAttempts int
	UserAgent   string
}

func (c *Config) applyDefaults() {
	if c.Delay <= 0 {
		c.Delay = defaultDelay
	}
	if c.Cooldown <= 0 {
		c.Cooldown = defaultCooldown
	}
	if c.RequestThreshold <= 0 {
		c.RequestThreshold = defaultRequestThreshold
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
}

// Fetcher issues paced, retrying GET requests. Safe for concurrent
// use: the mutex holds each fetch from start to finish, so no two
// requests are ever in flight at once.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	cfg     Config

	mu    sync.Mutex
	state backoff
}

// New creates a Fetcher. Zero-value Config fields fall back to
// defaults.
func New(cfg Config) *Fetcher {
	cfg.applyDefaults()
	return &Fetcher{
		client:  &http.Client{Timeout: requestTimeout},
		limiter: rate.NewLimiter(rate.Every(cfg.Delay), 1),
		cfg:     cfg,
	}
}

// Get fetches url and returns the response body.
//
// A 429 response sleeps out the cooldown, resets the burst counter and
// retries, up to MaxAttempts total attempts; any other non-2xx status
// fails immediately with a *StatusError.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state.begin()

	for {
		if f.state.needsCooldown(f.cfg.RequestThreshold) {
			log.Printf("fetch: request budget spent, sleeping for cooldown")
			if err := sleep(ctx, f.cfg.Cooldown); err != nil {
				return nil, err
			}
			f.state.resetCount()
		}

		// Inter-request spacing, independent of the cooldown above.
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, status, err := f.do(ctx, url)
		if err != nil {
			f.state.onFatalError()
			return nil, err
		}

		switch {
		case status >= 200 && status < 300:
			f.state.onSuccess()
			return body, nil

		case status == http.StatusTooManyRequests:
			if f.state.onRateLimited(f.cfg.MaxAttempts) == outcomeExhausted {
				return nil, fmt.Errorf("%w: %s", ErrTooManyAttempts, url)
			}
			log.Printf("fetch: rate limited by %s, sleeping", url)
			if err := sleep(ctx, f.cfg.Cooldown); err != nil {
				return nil, err
			}

		default:
			f.state.onFatalError()
			return nil, &StatusError{URL: url, StatusCode: status}
		}
	}
}

// RequestCount returns how many requests have gone out since the last
// cooldown reset.
func (f *Fetcher) RequestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.state.requestCount
}

func (f *Fetcher) do(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "application/json, text/html;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response from %s: %w", url, err)
	}

	return body, resp.StatusCode, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
