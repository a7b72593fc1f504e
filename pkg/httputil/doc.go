// Package httputil fetches remote documents for docgraph.
//
// # Overview
//
// Documents can be given as http(s) URLs anywhere a file path is accepted.
// This package provides the client used for that:
//
//   - [Fetcher]: GET with size limit, caching and retry
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Fetcher] stores response bodies in any [cache.Cache] under
// [cache.Keyer.HTTPKey]("url", url) for [cache.HTTPTTL]. Pass refresh=true to
// bypass the cached copy:
//
//	f := httputil.NewFetcher(c, nil)
//	data, err := f.Fetch(ctx, "https://example.com/config.json", false)
//
// # Retry
//
// [Retry] re-runs an operation only for failures wrapped in
// [RetryableError]. The fetcher marks network failures and 5xx responses as
// retryable; 4xx responses fail immediately.
//
// [cache.Cache]: github.com/matzehuels/docgraph/pkg/cache
// [cache.Keyer.HTTPKey]: github.com/matzehuels/docgraph/pkg/cache
// [cache.HTTPTTL]: github.com/matzehuels/docgraph/pkg/cache
package httputil
