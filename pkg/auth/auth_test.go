package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireSignedUserAcceptsValidSignature(t *testing.T) {
	cfg := SecConfig{SigningKeys: []string{"secret"}}
	var got string
	h := RequireSignedUser(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = UserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/series", nil)
	req.Header.Set("X-User-ID", "alice")
	req.Header.Set("X-User-Signature", SignUserID("secret", "alice"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if got != "alice" {
		t.Fatalf("context user = %q", got)
	}
}

func TestRequireSignedUserSecondKeyMatches(t *testing.T) {
	cfg := SecConfig{SigningKeys: []string{"old", "new"}}
	h := RequireSignedUser(cfg)(okHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/v1/series", nil)
	req.Header.Set("X-User-ID", "bob")
	req.Header.Set("X-User-Signature", SignUserID("new", "bob"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestRequireSignedUserRejects(t *testing.T) {
	cfg := SecConfig{SigningKeys: []string{"secret"}}
	h := RequireSignedUser(cfg)(okHandler(t))

	cases := []struct {
		name string
		user string
		sig  string
	}{
		{"missing headers", "", ""},
		{"missing signature", "alice", ""},
		{"missing user", "", SignUserID("secret", "alice")},
		{"wrong key", "alice", SignUserID("other", "alice")},
		{"signature for other user", "alice", SignUserID("secret", "bob")},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/v1/series", nil)
		if tc.user != "" {
			req.Header.Set("X-User-ID", tc.user)
		}
		if tc.sig != "" {
			req.Header.Set("X-User-Signature", tc.sig)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d", tc.name, rr.Code)
		}
	}
}

func TestRequireSignedUserNoKeysConfigured(t *testing.T) {
	h := RequireSignedUser(SecConfig{})(okHandler(t))
	req := httptest.NewRequest(http.MethodGet, "/v1/series", nil)
	req.Header.Set("X-User-ID", "alice")
	req.Header.Set("X-User-Signature", "deadbeef")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestGatewayCORSPreflight(t *testing.T) {
	cfg := SecConfig{AllowedOrigins: []string{"https://app.example.com"}}
	h := GatewayMiddleware(cfg)(okHandler(t))

	req := httptest.NewRequest(http.MethodOptions, "/v1/series", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "https://app.example.com" {
		t.Fatalf("allow-origin = %q", rr.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestGatewayDisallowedOriginGetsNoCORSHeaders(t *testing.T) {
	cfg := SecConfig{AllowedOrigins: []string{"https://app.example.com"}}
	h := GatewayMiddleware(cfg)(okHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("unexpected allow-origin header")
	}
}

func TestGatewayIPWhitelist(t *testing.T) {
	cfg := SecConfig{IPWhitelist: []string{"10.1.2.3"}}
	h := GatewayMiddleware(cfg)(okHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/v1/series", nil)
	req.RemoteAddr = "192.0.2.1:4444"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/series", nil)
	req.RemoteAddr = "10.1.2.3:4444"
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestGatewayProbesBypassRateLimit(t *testing.T) {
	cfg := SecConfig{RPS: 1, Burst: 1}
	h := GatewayMiddleware(cfg)(okHandler(t))
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("probe %d: status = %d", i, rr.Code)
		}
	}
}

func TestGatewayRateLimitsPerUser(t *testing.T) {
	cfg := SecConfig{RPS: 1, Burst: 1}
	h := GatewayMiddleware(cfg)(okHandler(t))

	do := func(user string) int {
		req := httptest.NewRequest(http.MethodGet, "/v1/series", nil)
		req.Header.Set("X-User-ID", user)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := do("alice"); code != http.StatusOK {
		t.Fatalf("first request: %d", code)
	}
	if code := do("alice"); code != http.StatusTooManyRequests {
		t.Fatalf("second request: %d", code)
	}
	// a different caller has its own bucket
	if code := do("bob"); code != http.StatusOK {
		t.Fatalf("other user: %d", code)
	}
}
