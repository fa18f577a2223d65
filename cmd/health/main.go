// Standalone health responder. Some load balancers probe a port separate
// from the API listener; this binary answers those probes without touching
// the store.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/valyala/fasthttp"
)

func main() {
	addr := flag.String("addr", ":8081", "listen address")
	ver := flag.String("version", "dev", "version string reported to probes")
	flag.Parse()

	body := []byte(`{"status":"ok","version":"` + *ver + `"}`)

	srv := &fasthttp.Server{
		Name:         "yawt-health",
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		Handler: func(ctx *fasthttp.RequestCtx) {
			switch string(ctx.Path()) {
			case "/health", "/healthz":
				ctx.Response.Header.Set("Content-Type", "application/json")
				ctx.SetStatusCode(fasthttp.StatusOK)
				_, _ = ctx.Write(body)
			default:
				ctx.SetStatusCode(fasthttp.StatusNotFound)
			}
		},
	}

	log.Printf("health responder listening on %s", *addr)
	if err := srv.ListenAndServe(*addr); err != nil {
		log.Fatalf("health server exit: %v", err)
	}
}
