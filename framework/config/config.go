package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPropertiesFile is read when APP_CONFIG is not set.
const DefaultPropertiesFile = "application.yaml"

// Config is the central typed configuration struct. It is also the
// configuration source named values are resolved from: see GetString.
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	DB        DBConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig

	props map[string]string
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
	Port  string
}

type HTTPConfig struct {
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

type DBConfig struct {
	Driver      string // memory | postgres
	DSN         string
	MaxPoolSize int
}

type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

type RateLimitConfig struct {
	RPS   float64 // <= 0 disables the limiter
	Burst int
}

// Load reads .env files (default ".env", missing files are fine), then the
// YAML properties file named by APP_CONFIG (default application.yaml,
// optional), and builds the typed Config. Environment variables win over the
// properties file.
func Load(envFiles ...string) (*Config, error) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: loading %s: %w", f, err)
		}
	}

	path := os.Getenv("APP_CONFIG")
	if path == "" {
		path = DefaultPropertiesFile
	}
	props, err := readProperties(path)
	if err != nil {
		return nil, err
	}
	return FromProperties(props), nil
}

// FromProperties builds a Config over already flattened properties.
// Environment variables still take precedence.
func FromProperties(props map[string]string) *Config {
	c := &Config{props: props}
	if c.props == nil {
		c.props = map[string]string{}
	}

	c.App = AppConfig{
		Name:  c.Get("app.name", "GoForce"),
		Env:   c.Get("app.env", "local"),
		Debug: c.Bool("app.debug", false),
		Port:  c.Get("app.port", "8000"),
	}
	c.HTTP = HTTPConfig{
		AllowedOrigins:  c.List("http.allowed_origins"),
		ShutdownTimeout: c.Duration("http.shutdown_timeout", 10*time.Second),
	}
	c.DB = DBConfig{
		Driver:      c.Get("db.driver", "memory"),
		DSN:         c.Get("db.dsn", ""),
		MaxPoolSize: c.Int("db.max_pool_size", 10),
	}
	c.JWT = JWTConfig{
		Secret:     c.Get("jwt.secret", ""),
		Issuer:     c.Get("jwt.issuer", c.App.Name),
		Expiration: c.Duration("jwt.expiration", time.Hour),
	}
	c.RateLimit = RateLimitConfig{
		RPS:   c.Float("ratelimit.rps", 0),
		Burst: c.Int("ratelimit.burst", 1),
	}
	return c
}

// ── Lookup ───────────────────────────────────────────────────────────────────

// EnvKey maps a dotted property key to its environment variable:
// "product.name" → "PRODUCT_NAME".
func EnvKey(key string) string {
	return strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

// GetString returns the value for a dotted key: the environment variable
// EnvKey(key) when set, otherwise the properties file entry.
func (c *Config) GetString(key string) (string, bool) {
	if v, ok := os.LookupEnv(EnvKey(key)); ok {
		return v, true
	}
	v, ok := c.props[key]
	return v, ok
}

// Get returns the value for key, falling back to defaultVal.
func (c *Config) Get(key, defaultVal string) string {
	if v, ok := c.GetString(key); ok && v != "" {
		return v
	}
	return defaultVal
}

// Int returns an int value, or defaultVal when absent or invalid.
func (c *Config) Int(key string, defaultVal int) int {
	i, err := strconv.Atoi(c.Get(key, ""))
	if err != nil {
		return defaultVal
	}
	return i
}

// Float returns a float value, or defaultVal when absent or invalid.
func (c *Config) Float(key string, defaultVal float64) float64 {
	f, err := strconv.ParseFloat(c.Get(key, ""), 64)
	if err != nil {
		return defaultVal
	}
	return f
}

// Bool returns a bool value, or defaultVal when absent or invalid.
func (c *Config) Bool(key string, defaultVal bool) bool {
	b, err := strconv.ParseBool(c.Get(key, ""))
	if err != nil {
		return defaultVal
	}
	return b
}

// Duration returns a time.Duration value ("30s", "1h"), or defaultVal.
func (c *Config) Duration(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(c.Get(key, ""))
	if err != nil {
		return defaultVal
	}
	return d
}

// List splits a comma separated value, dropping blanks.
func (c *Config) List(key string) []string {
	var out []string
	for _, s := range strings.Split(c.Get(key, ""), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// IsLocal reports APP_ENV=local.
func (c *Config) IsLocal() bool { return c.App.Env == "local" }

// ── Properties file ──────────────────────────────────────────────────────────

func readProperties(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return ParseProperties(raw)
}

// ParseProperties flattens a YAML document into dotted keys. Lists become
// comma separated values.
//
//	product:
//	  name: Widget     →  product.name = Widget
func ParseProperties(raw []byte) (map[string]string, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("config: parsing properties: %w", err)
	}
	out := map[string]string{}
	flatten("", tree, out)
	return out, nil
}

func flatten(prefix string, node any, out map[string]string) {
	switch v := node.(type) {
	case map[string]any:
		for k, child := range v {
			flatten(join(prefix, k), child, out)
		}
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprint(item)
		}
		out[prefix] = strings.Join(parts, ",")
	case nil:
		out[prefix] = ""
	default:
		out[prefix] = fmt.Sprint(v)
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
