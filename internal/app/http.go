package app

import (
	"net/http"

	"yawt/pkg/api"
	"yawt/pkg/auth"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// handler builds the full middleware-wrapped HTTP handler.
func (a *App) handler() http.Handler {
	secCfg := auth.SecConfig{
		SigningKeys:    append([]string{}, a.cfg.Security.SigningKeys...),
		AllowedOrigins: append([]string{}, a.cfg.Security.CORS.AllowedOrigins...),
		RPS:            a.cfg.Security.RateLimit.RPS,
		Burst:          a.cfg.Security.RateLimit.Burst,
		IPWhitelist:    append([]string{}, a.cfg.Security.IPWhitelist...),
	}

	root := mux.NewRouter()
	root.HandleFunc("/healthz", healthzHandler).Methods(http.MethodGet)
	root.HandleFunc("/readyz", a.readyzHandler).Methods(http.MethodGet)
	root.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	v1 := root.PathPrefix("/v1").Subrouter()
	v1.Use(auth.RequireSignedUser(secCfg))
	api.New(a.st, a.cfg.MaxBodyBytes()).Register(v1)

	return auth.GatewayMiddleware(secCfg)(root)
}

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// readyzHandler reports ready once the store is open.
func (a *App) readyzHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !a.st.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"not ready"}`))
		return
	}
	ver := a.version
	if ver == "" {
		ver = "dev"
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok","version":"` + ver + `"}`))
}

// startHTTP starts the HTTP server in a goroutine and returns a channel
// that will carry any server error.
func (a *App) startHTTP() <-chan error {
	a.srv = &http.Server{Addr: a.cfg.Addr(), Handler: a.handler()}
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.srv.ListenAndServe()
	}()
	return errCh
}
