package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	Set(AppConfig{APIBaseURL: "http://api.local/api/"})
	c := Get()
	if c.APIBaseURL != "http://api.local/api" {
		t.Fatalf("base url = %q", c.APIBaseURL)
	}
	if c.AppPort != "5173" || c.APITimeoutSec != 15 || c.SessionCookieName != "webblog_bid" || c.SessionSweepSpec != "@every 10m" {
		t.Fatalf("defaults = %+v", c)
	}
	if len(c.AllowedOrigins) != 1 || c.AllowedOrigins[0] != "*" {
		t.Fatalf("origins = %v", c.AllowedOrigins)
	}
}

func TestLoadJSONConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	raw := `{
		"app": {"AppPort": "9000", "AllowedOrigins": ["https://blog.example"]},
		"api": {"BaseURL": "https://api.example/api", "TimeoutSec": 5},
		"session": {"CookieName": "sid", "IdleHours": 2},
		"log": {"Level": "debug", "Compress": true}
	}`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}
	var c AppConfig
	if err := loadJSONConfig(path, &c); err != nil {
		t.Fatal(err)
	}
	applyDefaults(&c)
	if c.AppPort != "9000" || c.APIBaseURL != "https://api.example/api" || c.APITimeoutSec != 5 {
		t.Fatalf("app/api = %+v", c)
	}
	if c.SessionCookieName != "sid" || c.SessionIdleHours != 2 || c.LogLevel != "debug" || !c.LogCompress {
		t.Fatalf("session/log = %+v", c)
	}
	if c.StorePrefix != "webblog:local:" {
		t.Fatalf("store prefix = %q", c.StorePrefix)
	}

	if err := loadJSONConfig(filepath.Join(t.TempDir(), "missing.json"), &c); err != nil {
		t.Fatalf("missing file: %v", err)
	}
	bad := filepath.Join(t.TempDir(), "bad.json")
	_ = os.WriteFile(bad, []byte("{"), 0o600)
	if err := loadJSONConfig(bad, &c); err == nil {
		t.Fatal("invalid JSON accepted")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://env/api/")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "-3")
	c := AppConfig{RateLimitPerMinute: 60}
	applyEnvOverrides(&c)
	if c.APIBaseURL != "http://env/api" {
		t.Fatalf("base url = %q", c.APIBaseURL)
	}
	if len(c.AllowedOrigins) != 2 || c.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origins = %v", c.AllowedOrigins)
	}
	if c.RateLimitPerMinute != 60 {
		t.Fatalf("negative rate limit applied: %d", c.RateLimitPerMinute)
	}
}
