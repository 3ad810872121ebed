package providers

import (
	"mediawall/internal/structures"
	"net/http"

	"github.com/go-chi/httprate"
	"github.com/klauspost/compress/gzhttp"
)

type Middleware func(http.Handler) http.Handler

func passthrough(next http.Handler) http.Handler {
	return next
}

var compressibleTypes = []string{
	"application/json",
	"application/javascript",
	"text/html",
	"text/css",
	"text/plain",
	"image/svg+xml",
}

// NewCompressionMiddleware gzips text responses. Media streams must not be
// routed through it: compression would break byte ranges.
func NewCompressionMiddleware(conf *structures.Config) (Middleware, error) {
	if !conf.Compression.Enabled {
		return passthrough, nil
	}
	wrapper, err := gzhttp.NewWrapper(
		gzhttp.MinSize(conf.Compression.MinSize),
		gzhttp.ContentTypes(compressibleTypes),
	)
	if err != nil {
		return nil, err
	}
	return func(next http.Handler) http.Handler {
		return wrapper(next)
	}, nil
}

// NewRateLimitMiddleware applies a coarse per-client request budget to the API.
func NewRateLimitMiddleware(conf *structures.Config) Middleware {
	if conf.Api.RateLimit <= 0 || conf.Api.RateWindow <= 0 {
		return passthrough
	}
	return httprate.Limit(
		conf.Api.RateLimit,
		conf.Api.RateWindow,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			WriteJSONError(w, http.StatusTooManyRequests, "too many requests")
		}),
	)
}

// ClientID identifies the caller for throttling: True-Client-IP, X-Real-IP,
// the first X-Forwarded-For hop, then the socket address.
func ClientID(r *http.Request) string {
	id, err := httprate.KeyByRealIP(r)
	if err != nil || id == "" {
		return r.RemoteAddr
	}
	return id
}
