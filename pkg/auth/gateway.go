package auth

import (
	"net"
	"net/http"
	"strings"

	"yawt/pkg/logger"
	"yawt/pkg/utils"
)

// GatewayMiddleware applies the perimeter checks that run before user
// authentication: request logging, CORS, IP whitelisting and per-caller
// rate limiting. Health and metrics endpoints pass through unauthenticated
// so probes keep working.
func GatewayMiddleware(cfg SecConfig) func(http.Handler) http.Handler {
	// rate limiters keyed by user id or remote ip
	limiters := newLimiterPool(cfg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// log request (redacts sensitive headers)
			logger.LogRequest(r)

			// cors preflight
			origin := r.Header.Get("Origin")
			if origin != "" && originAllowed(origin, cfg.AllowedOrigins) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,PATCH,OPTIONS")
				w.Header().Set("Access-Control-Max-Age", "600")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type,X-User-ID,X-User-Signature")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			// ip whitelist
			if len(cfg.IPWhitelist) > 0 {
				ip := clientIP(r)
				logger.Debug("ip_check", "ip", ip)
				if !ipWhitelisted(ip, cfg.IPWhitelist) {
					utils.JSONError(w, http.StatusForbidden, "forbidden")
					logger.Warn("request_blocked", "reason", "ip_not_whitelisted", "ip", ip, "path", r.URL.Path)
					return
				}
			}

			// allow unauthenticated probes and scrapes
			if probePath(r.URL.Path) && r.Method == http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			// rate limiting keyed by claimed user id, falling back to ip
			key := strings.TrimSpace(r.Header.Get("X-User-ID"))
			if key == "" {
				key = clientIP(r)
			}
			if !limiters.Allow(key) {
				utils.JSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
				logger.Warn("rate_limited", "key", key, "path", r.URL.Path)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func probePath(path string) bool {
	return path == "/healthz" || path == "/readyz" || path == "/metrics"
}

func originAllowed(origin string, allowed []string) bool {
	if len(allowed) == 0 {
		return false
	}
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func ipWhitelisted(ip string, list []string) bool {
	for _, w := range list {
		if ip == w {
			return true
		}
	}
	return false
}
