package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}
	if cfg.App.Port != "8081" {
		t.Fatalf("unexpected port %q", cfg.App.Port)
	}
	if cfg.SerpAPI.APIKey != "serp-key" {
		t.Fatalf("unexpected serpapi key %q", cfg.SerpAPI.APIKey)
	}
	if got := cfg.Upstream.Timeout; got != 10*time.Second {
		t.Fatalf("expected default upstream timeout 10s, got %v", got)
	}
	if got := cfg.Upstream.ResultLimit; got != 40 {
		t.Fatalf("expected default result limit 40, got %d", got)
	}
	if got := cfg.Cache.TTL; got != 15*time.Minute {
		t.Fatalf("expected default cache ttl 15m, got %v", got)
	}
	if cfg.Redis.Enabled() {
		t.Fatalf("redis should be disabled without url or address")
	}
	if cfg.DataForSEO.Enabled() {
		t.Fatalf("keyword provider should be disabled without credentials")
	}
	if len(cfg.Embed.AllowedOrigins) != 1 || cfg.Embed.AllowedOrigins[0] != "*" {
		t.Fatalf("unexpected default origins %v", cfg.Embed.AllowedOrigins)
	}
}

func TestLoad_OptionalSections(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	t.Setenv(EnvDataForSEOLogin, "login")
	t.Setenv(EnvDataForSEOPassword, "password")
	t.Setenv(EnvCacheTTL, "2m")
	t.Setenv(EnvEmbedFrameAncestors, "https://shop.example.com,https://www.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !cfg.Redis.Enabled() {
		t.Fatalf("redis should be enabled")
	}
	if !cfg.DataForSEO.Enabled() {
		t.Fatalf("keyword provider should be enabled")
	}
	if cfg.Cache.TTL != 2*time.Minute {
		t.Fatalf("unexpected cache ttl %v", cfg.Cache.TTL)
	}
	want := "frame-ancestors https://shop.example.com https://www.example.com"
	if got := cfg.Embed.FrameAncestorsDirective(); got != want {
		t.Fatalf("unexpected directive %q", got)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvSerpAPIKey); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvSerpAPIKey, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RejectsRelativeBaseURL(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvSerpAPIBaseURL, "serpapi.local")

	if _, err := Load(); err == nil {
		t.Fatal("expected relative base url to be rejected")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvSerpAPIKey, "serp-key")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}

func TestFrameAncestorsDirectiveDefaultsToSelf(t *testing.T) {
	if got := (EmbedConfig{FrameAncestors: []string{" "}}).FrameAncestorsDirective(); got != "frame-ancestors 'self'" {
		t.Fatalf("unexpected directive %q", got)
	}
}
