package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/km-arc/go-force/framework/config"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func load(t *testing.T, properties string, envFiles ...string) *config.Config {
	t.Helper()
	t.Setenv("APP_CONFIG", properties)
	cfg, err := config.Load(envFiles...)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg
}

// unset clears key for the duration of the test, restoring it afterwards.
func unset(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	cfg := load(t, "testdata/missing.yaml", "testdata/empty.env")

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"App.Name", cfg.App.Name, "GoForce"},
		{"App.Env", cfg.App.Env, "local"},
		{"App.Port", cfg.App.Port, "8000"},
		{"DB.Driver", cfg.DB.Driver, "memory"},
		{"DB.MaxPoolSize", cfg.DB.MaxPoolSize, 10},
		{"JWT.Expiration", cfg.JWT.Expiration, time.Hour},
		{"JWT.Issuer", cfg.JWT.Issuer, "GoForce"},
		{"HTTP.ShutdownTimeout", cfg.HTTP.ShutdownTimeout, 10 * time.Second},
		{"RateLimit.RPS", cfg.RateLimit.RPS, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestLoad_PropertiesFile(t *testing.T) {
	cfg := load(t, "testdata/application.yaml", "testdata/empty.env")

	if cfg.App.Name != "Catalogue" {
		t.Errorf("App.Name: got %q", cfg.App.Name)
	}
	if cfg.App.Port != "9000" {
		t.Errorf("App.Port: got %q", cfg.App.Port)
	}
	if !cfg.App.Debug {
		t.Error("App.Debug: expected true")
	}
	if cfg.JWT.Expiration != 30*time.Minute {
		t.Errorf("JWT.Expiration: got %v", cfg.JWT.Expiration)
	}
	if cfg.RateLimit.RPS != 2.5 || cfg.RateLimit.Burst != 5 {
		t.Errorf("RateLimit: got %+v", cfg.RateLimit)
	}
	if len(cfg.HTTP.AllowedOrigins) != 2 || cfg.HTTP.AllowedOrigins[1] != "https://shop.example.com" {
		t.Errorf("AllowedOrigins: got %v", cfg.HTTP.AllowedOrigins)
	}
	if v, ok := cfg.GetString("product.name"); !ok || v != "Widget" {
		t.Errorf("product.name: got %q, %v", v, ok)
	}
}

func TestLoad_EnvOverridesProperties(t *testing.T) {
	t.Setenv("PRODUCT_NAME", "Gadget")
	t.Setenv("APP_NAME", "MyApp")

	cfg := load(t, "testdata/application.yaml", "testdata/empty.env")

	if v, _ := cfg.GetString("product.name"); v != "Gadget" {
		t.Errorf("product.name: got %q want Gadget", v)
	}
	if cfg.App.Name != "MyApp" {
		t.Errorf("App.Name: got %q want MyApp", cfg.App.Name)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	unset(t, "GOFORCE_TEST_GREETING")

	cfg := load(t, "testdata/missing.yaml", "testdata/test.env")
	if v, ok := cfg.GetString("goforce.test.greeting"); !ok || v != "hello from dotenv" {
		t.Errorf("got %q, %v", v, ok)
	}
}

func TestLoad_MissingDotEnvIsFine(t *testing.T) {
	load(t, "testdata/missing.yaml", "testdata/does-not-exist.env")
}

func TestLoad_BrokenPropertiesFile(t *testing.T) {
	t.Setenv("APP_CONFIG", "testdata/broken.yaml")
	if _, err := config.Load("testdata/empty.env"); err == nil {
		t.Error("expected a parse error")
	}
}

// ── GetString / typed getters ────────────────────────────────────────────────

func TestGetString_Missing(t *testing.T) {
	unset(t, "NOT_CONFIGURED")
	cfg := config.FromProperties(nil)
	if _, ok := cfg.GetString("not.configured"); ok {
		t.Error("expected absence")
	}
}

func TestTypedGetters(t *testing.T) {
	cfg := config.FromProperties(map[string]string{
		"some.int":   "42",
		"bad.int":    "notanint",
		"some.bool":  "TRUE",
		"some.float": "0.5",
		"some.list":  " a, ,b ",
	})

	if got := cfg.Int("some.int", 0); got != 42 {
		t.Errorf("Int: got %d want 42", got)
	}
	if got := cfg.Int("bad.int", 99); got != 99 {
		t.Errorf("Int fallback: got %d want 99", got)
	}
	if !cfg.Bool("some.bool", false) {
		t.Error("Bool: expected true")
	}
	if got := cfg.Float("some.float", 0); got != 0.5 {
		t.Errorf("Float: got %v", got)
	}
	if got := cfg.List("some.list"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("List: got %v", got)
	}
	if got := cfg.Get("absent.key", "fallback"); got != "fallback" {
		t.Errorf("Get fallback: got %q", got)
	}
}

func TestEnvKey(t *testing.T) {
	if got := config.EnvKey("product.name"); got != "PRODUCT_NAME" {
		t.Errorf("got %q", got)
	}
	if got := config.EnvKey("http.allowed-origins"); got != "HTTP_ALLOWED_ORIGINS" {
		t.Errorf("got %q", got)
	}
}

func TestParseProperties_Flattens(t *testing.T) {
	props, err := config.ParseProperties([]byte("a:\n  b:\n    c: 1\n  list: [x, y]\n  empty:\n"))
	if err != nil {
		t.Fatal(err)
	}
	if props["a.b.c"] != "1" || props["a.list"] != "x,y" {
		t.Errorf("unexpected %v", props)
	}
	if v, ok := props["a.empty"]; !ok || v != "" {
		t.Errorf("a.empty: got %q, %v", v, ok)
	}
}
