package api

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/wefi-dex/munchclub-admin/pkg/ratelimit"
)

const refreshLimiterIdleTTL = 10 * time.Minute

func newRefreshLimiter(burst int, perSecond float64) *ratelimit.KeyedLimiter {
	if burst <= 0 {
		return nil
	}
	return ratelimit.NewKeyedLimiter(float64(burst), perSecond, refreshLimiterIdleTTL)
}

// refreshLimitMiddleware bounds how often one client can fan out to the
// printer gateway. A nil limiter lets everything through.
func (s *Server) refreshLimitMiddleware(next http.Handler) http.Handler {
	if s.refreshLimiter == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		if ok, wait := s.refreshLimiter.Allow(ip); !ok {
			s.logger.Warn("Printer refresh rate limit exceeded", "ip", ip, "path", r.URL.Path)

			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			s.respondWithError(w, http.StatusTooManyRequests, "Too many printer status refreshes, retry later")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP prefers the first X-Forwarded-For hop, then RemoteAddr
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
