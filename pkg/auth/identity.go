package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"yawt/pkg/logger"
	"yawt/pkg/utils"
)

// SecConfig drives authentication, CORS and rate limiting. Shared here so
// limiter.go and gateway.go can reference the same type.
type SecConfig struct {
	// SigningKeys verify X-User-Signature headers. Any key may match.
	SigningKeys    []string
	AllowedOrigins []string
	RPS            float64
	Burst          int
	IPWhitelist    []string
}

type ctxUserKey struct{}

// RequireSignedUser verifies the X-User-ID / X-User-Signature header pair
// (hex HMAC-SHA256 of the user id under a configured signing key) and
// injects the verified user id into the request context.
func RequireSignedUser(cfg SecConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get("X-User-ID"))
			sig := strings.TrimSpace(r.Header.Get("X-User-Signature"))

			if userID == "" || sig == "" {
				logger.Warn("missing_signature_headers", "path", r.URL.Path, "remote", r.RemoteAddr)
				utils.JSONError(w, http.StatusUnauthorized, "missing signature headers")
				return
			}
			if len(userID) > 128 {
				utils.JSONError(w, http.StatusUnauthorized, "user id too long")
				return
			}
			if len(cfg.SigningKeys) == 0 {
				logger.Error("no_signing_keys_configured")
				utils.JSONError(w, http.StatusInternalServerError, "server misconfigured: no signing secrets available")
				return
			}

			ok := false
			for _, k := range cfg.SigningKeys {
				mac := hmac.New(sha256.New, []byte(k))
				mac.Write([]byte(userID))
				expected := hex.EncodeToString(mac.Sum(nil))
				if hmac.Equal([]byte(expected), []byte(sig)) {
					ok = true
					break
				}
			}
			if !ok {
				logger.Warn("invalid_signature", "user", userID)
				utils.JSONError(w, http.StatusUnauthorized, "invalid signature")
				return
			}

			ctx := context.WithValue(r.Context(), ctxUserKey{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the verified user id or empty string.
func UserIDFromContext(ctx context.Context) string {
	if v := ctx.Value(ctxUserKey{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// SignUserID computes the hex HMAC-SHA256 signature clients must present
// for a user id. Exported for tests and the signing CLI helpers.
func SignUserID(key, userID string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(userID))
	return hex.EncodeToString(mac.Sum(nil))
}
