// Package transport builds the outbound HTTP stack shared by the driven adapters.
package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gregjones/httpcache"
)

// NewCachingClient returns an http.Client with the following transport stack:
//  1. logging (method, host, status and duration of every call)
//  2. revalidation (every request reaches the origin)
//  3. httpcache (ETag-based conditional request caching, in memory only)
//  4. http.DefaultTransport
//
// No client timeout is set; callers bound requests through their context.
func NewCachingClient(logger *slog.Logger) *http.Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	return &http.Client{Transport: Logging(logger, Revalidate(cacheTransport))}
}

// NewClient returns an http.Client that logs every call over http.DefaultTransport.
func NewClient(logger *slog.Logger) *http.Client {
	return &http.Client{Transport: Logging(logger, http.DefaultTransport)}
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Revalidate marks every request with "Cache-Control: max-age=0" so a cache
// below it treats stored responses as stale, whatever max-age or Expires the
// origin sent. A stored ETag still turns the call into a conditional request.
func Revalidate(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		r = r.Clone(r.Context())
		r.Header.Set("Cache-Control", "max-age=0")
		return next.RoundTrip(r)
	})
}

// Logging wraps next and logs each request at debug level. Only the host is
// logged because webhook paths and query strings can carry credentials.
func Logging(logger *slog.Logger, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		start := time.Now()

		resp, err := next.RoundTrip(r)
		if err != nil {
			logger.Debug("http call failed",
				"method", r.Method,
				"host", r.URL.Host,
				"duration", time.Since(start).Round(time.Microsecond),
				"error", err,
			)
			return nil, err
		}

		logger.Debug("http call",
			"method", r.Method,
			"host", r.URL.Host,
			"status", resp.StatusCode,
			"cached", resp.Header.Get(httpcache.XFromCache) != "",
			"duration", time.Since(start).Round(time.Microsecond),
		)
		return resp, nil
	})
}
