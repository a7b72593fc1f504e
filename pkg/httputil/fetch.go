package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/docgraph/pkg/buildinfo"
	"github.com/matzehuels/docgraph/pkg/cache"
	"github.com/matzehuels/docgraph/pkg/errors"
	"github.com/matzehuels/docgraph/pkg/observability"
)

const httpTimeout = 15 * time.Second

// Fetcher downloads documents over HTTP with caching and retry.
type Fetcher struct {
	http    *http.Client
	cache   cache.Cache
	keyer   cache.Keyer
	headers map[string]string

	// MaxSize caps response bodies. Zero means errors.DefaultMaxDocumentSize.
	MaxSize int64

	// Attempts and Delay configure Retry.
	Attempts int
	Delay    time.Duration
}

// NewFetcher creates a Fetcher that stores bodies in c. A nil cache
// disables caching; a nil keyer uses cache.NewDefaultKeyer.
func NewFetcher(c cache.Cache, keyer cache.Keyer) *Fetcher {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Fetcher{
		http:  &http.Client{Timeout: httpTimeout},
		cache: c,
		keyer: keyer,
		headers: map[string]string{
			"User-Agent": "docgraph/" + buildinfo.Version,
			"Accept":     "application/json, application/xml, text/xml;q=0.9, */*;q=0.5",
		},
		Attempts: 3,
		Delay:    500 * time.Millisecond,
	}
}

// SetHeader sets a header sent with every request.
func (f *Fetcher) SetHeader(key, value string) { f.headers[key] = value }

// Fetch returns the body of rawURL, from the cache unless refresh is set.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, refresh bool) ([]byte, error) {
	return f.FetchLimit(ctx, rawURL, refresh, f.MaxSize)
}

// FetchLimit is Fetch with an explicit body size cap.
func (f *Fetcher) FetchLimit(ctx context.Context, rawURL string, refresh bool, maxSize int64) ([]byte, error) {
	if err := errors.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	key := f.keyer.HTTPKey("url", rawURL)

	if !refresh {
		if data, hit, err := f.cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "http")
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "http")
	}

	var data []byte
	err := Retry(ctx, f.Attempts, f.Delay, func() error {
		var err error
		data, err = f.get(ctx, rawURL, maxSize)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := f.cache.Set(ctx, key, data, cache.HTTPTTL); err == nil {
		observability.Cache().OnCacheSet(ctx, "http", len(data))
	}
	return data, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	host, path := req.URL.Host, req.URL.Path
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := f.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s", redact(rawURL))
		}
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", redact(rawURL))}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp, rawURL); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = errors.DefaultMaxDocumentSize
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "read %s", redact(rawURL))}
	}
	if err := errors.ValidateDocumentSize(int64(len(data)), limit); err != nil {
		return nil, err
	}
	return data, nil
}

func checkStatus(resp *http.Response, rawURL string) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s: status %d", redact(rawURL), code)
	case code == http.StatusTooManyRequests || code >= 500:
		return &RetryableError{
			Err:   errors.New(errors.ErrCodeNetwork, "%s: status %d", redact(rawURL), code),
			After: retryAfter(resp.Header, time.Now()),
		}
	default:
		return errors.New(errors.ErrCodeNetwork, "%s: status %d", redact(rawURL), code)
	}
}

// redact drops credentials and the query string from a URL for messages.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<url>"
	}
	u.User = nil
	u.RawQuery = ""
	return fmt.Sprint(u)
}
