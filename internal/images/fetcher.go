// Package images downloads product images without ever blocking order flow.
// Fetches run concurrently under a fixed bound; each request carries its own
// timeout and a failed fetch is just a Result with an error, which callers
// render as a placeholder.
package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Result delivers the fetched bytes or the failure that replaced them.
type Result struct {
	URL  string
	Data []byte
	Err  error
}

type Fetcher struct {
	client  *http.Client
	sem     *semaphore.Weighted
	timeout time.Duration
	logger  *zap.Logger
}

func NewFetcher(maxInFlight int64, timeout time.Duration, logger *zap.Logger) *Fetcher {
	if maxInFlight <= 0 {
		maxInFlight = 8
	}
	return &Fetcher{
		client:  &http.Client{},
		sem:     semaphore.NewWeighted(maxInFlight),
		timeout: timeout,
		logger:  logger,
	}
}

// Fetch starts a bounded background download and returns a channel that
// receives exactly one Result. The channel is buffered, so the result can
// be dropped without leaking the worker.
func (f *Fetcher) Fetch(ctx context.Context, imageURL string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		out <- f.fetch(ctx, imageURL)
	}()
	return out
}

// FetchSync downloads an image, blocking the caller. Used by the HTTP proxy
// endpoint where the request is already waiting on the bytes.
func (f *Fetcher) FetchSync(ctx context.Context, imageURL string) Result {
	return f.fetch(ctx, imageURL)
}

func (f *Fetcher) fetch(ctx context.Context, imageURL string) Result {
	parsed, err := url.Parse(imageURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return Result{URL: imageURL, Err: fmt.Errorf("invalid image url %q", imageURL)}
	}

	if err := f.sem.Acquire(ctx, 1); err != nil {
		return Result{URL: imageURL, Err: fmt.Errorf("fetch cancelled: %w", err)}
	}
	defer f.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return Result{URL: imageURL, Err: fmt.Errorf("failed to build request: %w", err)}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("image fetch failed", zap.String("url", imageURL), zap.Error(err))
		return Result{URL: imageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("image fetch returned status %d", resp.StatusCode)
		f.logger.Warn("image fetch failed", zap.String("url", imageURL), zap.Error(err))
		return Result{URL: imageURL, Err: err}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		f.logger.Warn("image fetch failed", zap.String("url", imageURL), zap.Error(err))
		return Result{URL: imageURL, Err: err}
	}

	return Result{URL: imageURL, Data: data}
}
