package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stockpulse.yaml")
	requireNoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	requireNoError(t, err)

	if cfg.Source.Type != "postgres" {
		t.Fatalf("expected postgres source, got %q", cfg.Source.Type)
	}
	if cfg.Cache.TTL != 2*time.Minute {
		t.Fatalf("expected 2m cache ttl, got %s", cfg.Cache.TTL)
	}
	if cfg.RateLimit.Window != time.Minute || cfg.RateLimit.Limit != 100 {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
	if cfg.Database.QueryTimeout != 3*time.Second {
		t.Fatalf("expected 3s query timeout, got %s", cfg.Database.QueryTimeout)
	}
	if cfg.Auth.Mode != "header" || cfg.Auth.Header != "X-Client-Id" {
		t.Fatalf("unexpected auth defaults: %+v", cfg.Auth)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr())
	}
}

func TestLoad_MemorySourceWithBasicAuth(t *testing.T) {
	cfgPath := writeConfig(t, `
server:
  port: 9090
  host: "127.0.0.1"
  mode: "debug"
source:
  type: "memory"
  seed_path: "./seed.yaml"
cache:
  ttl: "30s"
  warm_interval: "1m"
ratelimit:
  window: "10s"
  limit: 5
auth:
  mode: "basic"
  clients:
    shop-frontend: "s3cret"
    ops: "0ps"
  admins: ["ops"]
`)

	cfg, err := Load(cfgPath)
	requireNoError(t, err)

	if cfg.Source.SeedPath != "./seed.yaml" {
		t.Fatalf("unexpected seed path %q", cfg.Source.SeedPath)
	}
	if cfg.Cache.TTL != 30*time.Second || cfg.Cache.WarmInterval != time.Minute {
		t.Fatalf("unexpected cache config: %+v", cfg.Cache)
	}
	if cfg.RateLimit.Window != 10*time.Second || cfg.RateLimit.Limit != 5 {
		t.Fatalf("unexpected rate limit config: %+v", cfg.RateLimit)
	}
	if cfg.Auth.Clients["shop-frontend"] != "s3cret" {
		t.Fatalf("expected client credentials, got %+v", cfg.Auth.Clients)
	}
	if len(cfg.Auth.Admins) != 1 || cfg.Auth.Admins[0] != "ops" {
		t.Fatalf("unexpected admins %+v", cfg.Auth.Admins)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	cfgPath := writeConfig(t, `
ratelimit:
  limit: 5
`)
	t.Setenv("STOCKPULSE_RATELIMIT__LIMIT", "250")
	t.Setenv("STOCKPULSE_CACHE__TTL", "45s")

	cfg, err := Load(cfgPath)
	requireNoError(t, err)

	if cfg.RateLimit.Limit != 250 {
		t.Fatalf("expected env limit 250, got %d", cfg.RateLimit.Limit)
	}
	if cfg.Cache.TTL != 45*time.Second {
		t.Fatalf("expected env ttl 45s, got %s", cfg.Cache.TTL)
	}
}

func TestLoad_TestServerMode(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  mode: \"test\"\n"))
	requireNoError(t, err)

	if cfg.Server.Mode != "test" {
		t.Fatalf("expected test mode, got %q", cfg.Server.Mode)
	}
}

func TestLoad_InvalidConfigFailsStartup(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "unknown source",
			body:    "source:\n  type: \"redis\"\n",
			wantErr: "unsupported source.type",
		},
		{
			name:    "memory source without seed",
			body:    "source:\n  type: \"memory\"\n",
			wantErr: "source.seed_path is required",
		},
		{
			name:    "zero rate limit",
			body:    "ratelimit:\n  limit: 0\n",
			wantErr: "ratelimit.limit must be > 0",
		},
		{
			name:    "negative ttl",
			body:    "cache:\n  ttl: \"-1s\"\n",
			wantErr: "cache.ttl must be > 0",
		},
		{
			name:    "basic auth without clients",
			body:    "auth:\n  mode: \"basic\"\n",
			wantErr: "auth.clients is required",
		},
		{
			name:    "bad server mode",
			body:    "server:\n  mode: \"verbose\"\n",
			wantErr: "invalid server.mode",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func requireNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
