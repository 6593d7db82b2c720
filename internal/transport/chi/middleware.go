package chi

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// apiMiddlewares returns the middleware stack for /api/v1.
// CORS is skipped without allowed origins; rate limiting without a limit.
func (s *Server) apiMiddlewares() []func(http.Handler) http.Handler {
	var mws []func(http.Handler) http.Handler
	if len(s.opts.CORSAllowedOrigins) > 0 {
		mws = append(mws, cors.Handler(cors.Options{
			AllowedOrigins: s.opts.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Remaining"},
			MaxAge:         300,
		}))
	}
	if s.opts.RateLimitPerMin > 0 {
		mws = append(mws, httprate.Limit(
			s.opts.RateLimitPerMin,
			time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
				writeError(w, http.StatusTooManyRequests, codeRateLimited, "rate limit exceeded")
			}),
		))
	}
	return mws
}
