package config

import (
	"strings"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Parse(nil, "empty")
	if err != nil {
		t.Fatalf("Parse(nil) error: %v", err)
	}
	if cfg.Port != defaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, defaultPort)
	}
	if !cfg.IsDev() {
		t.Errorf("IsDev() = false for default env %q", cfg.Env)
	}
	if cfg.Guestbook.Window != 10*time.Minute {
		t.Errorf("Window = %s, want 10m", cfg.Guestbook.Window)
	}
	if cfg.Guestbook.RecentHorizon != 24*time.Hour {
		t.Errorf("RecentHorizon = %s, want 24h", cfg.Guestbook.RecentHorizon)
	}
	if cfg.Guestbook.LatestLimit != 10 {
		t.Errorf("LatestLimit = %d, want 10", cfg.Guestbook.LatestLimit)
	}
	if cfg.OriginHeaders.Identity != "X-Real-IP" {
		t.Errorf("OriginHeaders.Identity = %q", cfg.OriginHeaders.Identity)
	}
	if cfg.Redis.Enable {
		t.Error("redis enabled by default")
	}
	for _, want := range []string{"root:password@tcp(127.0.0.1:3306)/guestbook", "clientFoundRows=true", "parseTime=true", "charset=utf8mb4"} {
		if !strings.Contains(cfg.DSN, want) {
			t.Errorf("DSN %q missing %q", cfg.DSN, want)
		}
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("RedisURL = %q", cfg.RedisURL)
	}
}

func TestParseOverrides(t *testing.T) {
	t.Parallel()

	content := []byte(`
port: 8080
env: Production
allowed_origins: [" bprp.xyz ", "", "*.bprp.xyz"]
database:
  driver: sqlite
  path: /var/lib/guestbook/visits.db
redis:
  enable: true
  url: cache.internal:6380/2
origin_headers:
  identity: X-Forwarded-For
  trust_client_ip: true
guestbook:
  window: 5m
  recent_horizon: 12h
  latest_limit: 3
  strict_writes: true
  timeline_cache_ttl: 15s
  redirect_url: https://example.com/gb
  retention:
    anonymous_after: 720h
`)
	cfg, err := Parse(content, "inline")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.IsDev() || cfg.Env != "production" {
		t.Errorf("Env = %q, want production", cfg.Env)
	}
	if got := strings.Join(cfg.AllowedOrigins, ","); got != "bprp.xyz,*.bprp.xyz" {
		t.Errorf("AllowedOrigins = %q", got)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("Driver = %q", cfg.Database.Driver)
	}
	if !strings.HasPrefix(cfg.DSN, "/var/lib/guestbook/visits.db?") {
		t.Errorf("sqlite DSN = %q", cfg.DSN)
	}
	if !cfg.Redis.Enable || cfg.RedisURL != "redis://cache.internal:6380/2" {
		t.Errorf("redis = %+v url %q", cfg.Redis, cfg.RedisURL)
	}
	if cfg.OriginHeaders.Identity != "X-Forwarded-For" || !cfg.OriginHeaders.TrustClientIP {
		t.Errorf("OriginHeaders = %+v", cfg.OriginHeaders)
	}
	if cfg.OriginHeaders.City != "CF-IPCity" {
		t.Errorf("OriginHeaders.City = %q, want default kept", cfg.OriginHeaders.City)
	}
	g := cfg.Guestbook
	if g.Window != 5*time.Minute || g.RecentHorizon != 12*time.Hour || g.LatestLimit != 3 {
		t.Errorf("guestbook windows = %+v", g)
	}
	if !g.StrictWrites || g.TimelineCacheTTL != 15*time.Second {
		t.Errorf("guestbook write/cache options = %+v", g)
	}
	if g.RedirectURL != "https://example.com/gb" || g.Title != defaultTitle {
		t.Errorf("guestbook redirect/title = %q %q", g.RedirectURL, g.Title)
	}
	if g.Retention.AnonymousAfter != 720*time.Hour {
		t.Errorf("Retention.AnonymousAfter = %s", g.Retention.AnonymousAfter)
	}
}

func TestParseRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "unknown field", content: "prot: 80\n", wantErr: "field prot not found"},
		{name: "port range", content: "port: 70000\n", wantErr: "invalid port"},
		{name: "driver", content: "database:\n  driver: postgres\n", wantErr: "unknown database.driver"},
		{name: "window", content: "guestbook:\n  window: 0s\n", wantErr: "guestbook.window"},
		{name: "latest limit", content: "guestbook:\n  latest_limit: -1\n", wantErr: "latest_limit"},
		{name: "retention shorter than window", content: "guestbook:\n  retention:\n    anonymous_after: 1m\n", wantErr: "shorter than"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.content), tt.name)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error containing %q", tt.content, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Parse(%q) error = %v, want %q", tt.content, err, tt.wantErr)
			}
		})
	}
}

func TestExplicitMySQLDSNGainsFoundRows(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte("database:\n  dsn: \"u:p@tcp(db:3306)/gb?parseTime=true\"\n"), "inline")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !strings.Contains(cfg.DSN, "clientFoundRows=true") || !strings.Contains(cfg.DSN, "tcp(db:3306)/gb") {
		t.Errorf("DSN = %q", cfg.DSN)
	}
}
