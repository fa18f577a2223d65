// Package config loads the server configuration from a YAML file with
// environment overrides. Flags parsed in main win over both.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// Config is the main configuration struct.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Security SecurityConfig `yaml:"security"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds listen and storage settings.
type ServerConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
	DBPath  string `yaml:"db_path"`
	// MaxRequestBody caps JSON request bodies; accepts humanized sizes
	// ("1MB", "512KiB").
	MaxRequestBody string `yaml:"max_request_body"`
}

// SecurityConfig holds auth and perimeter settings.
type SecurityConfig struct {
	// SigningKeys verify X-User-Signature headers (hex HMAC-SHA256 of the
	// user id). Any configured key may match.
	SigningKeys []string `yaml:"signing_keys"`
	CORS        struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`
	IPWhitelist []string `yaml:"ip_whitelist"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

const defaultMaxRequestBody = 1 << 20 // 1 MiB

// Load reads the YAML file at path (optional; "" or a missing file yields
// defaults) and applies environment overrides.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	cfg.applyDefaults()
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("YAWT_ADDR"); v != "" {
		host, port, err := net.SplitHostPort(v)
		if err == nil {
			cfg.Server.Address = host
			if p, perr := strconv.Atoi(port); perr == nil {
				cfg.Server.Port = p
			}
		}
	}
	if v := os.Getenv("YAWT_DB_PATH"); v != "" {
		cfg.Server.DBPath = v
	}
	if v := os.Getenv("YAWT_SIGNING_KEYS"); v != "" {
		for _, k := range strings.Split(v, ",") {
			if k = strings.TrimSpace(k); k != "" {
				cfg.Security.SigningKeys = append(cfg.Security.SigningKeys, k)
			}
		}
	}
	if v := os.Getenv("YAWT_LOG_LEVEL"); v != "" && cfg.Logging.Level == "" {
		cfg.Logging.Level = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.DBPath == "" {
		c.Server.DBPath = "./data"
	}
}

// Addr returns the listen address in host:port form.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Server.Address, strconv.Itoa(c.Server.Port))
}

// MaxBodyBytes returns the request body cap in bytes, defaulting to 1 MiB
// when unset or unparseable.
func (c Config) MaxBodyBytes() int64 {
	s := strings.TrimSpace(c.Server.MaxRequestBody)
	if s == "" {
		return defaultMaxRequestBody
	}
	n, err := humanize.ParseBytes(s)
	if err != nil || n == 0 {
		return defaultMaxRequestBody
	}
	return int64(n)
}
