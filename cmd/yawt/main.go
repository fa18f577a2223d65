package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"yawt/internal/app"
	"yawt/pkg/config"
	"yawt/pkg/logger"
)

// build info, injected via -ldflags
var (
	version = "dev"
	commit  = "none"
)

func main() {
	_ = godotenv.Load(".env")

	cfgPath := flag.String("config", os.Getenv("YAWT_CONFIG"), "path to YAML config file")
	addr := flag.String("addr", "", "listen address (host:port), overrides config")
	dbPath := flag.String("db", "", "pebble database path, overrides config")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if *addr != "" {
		host, port, err := net.SplitHostPort(*addr)
		if err != nil {
			fmt.Fprintln(os.Stderr, "invalid -addr:", err)
			os.Exit(1)
		}
		cfg.Server.Address = host
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if *dbPath != "" {
		cfg.Server.DBPath = *dbPath
	}

	logger.Init(cfg.Logging.Level)

	a, err := app.New(cfg, version+" ("+commit+")")
	if err != nil {
		logger.Error("startup_failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		logger.Error("server_error", "error", err)
		os.Exit(1)
	}
}
