package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/km-arc/go-putty/framework/validation"
)

// Config is the typed configuration of a container application.
type Config struct {
	App     AppConfig
	Log     LogConfig
	Inspect InspectConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
}

type LogConfig struct {
	Level string // trace | debug | info | notice | warn | error
}

// InspectConfig controls the HTTP inspection API of the container.
type InspectConfig struct {
	Enabled bool
	Addr    string
	Token   string // bearer token required by the API when set
}

// Load reads the env files (default .env, missing files are ignored) and
// populates a Config from environment variables. Variables already set in
// the process win over the files.
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		_ = godotenv.Load(file)
	}

	return &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "Putty"),
			Env:   env("APP_ENV", "local"),
			Debug: envBool("APP_DEBUG", false),
		},
		Log: LogConfig{
			Level: env("LOG_LEVEL", "info"),
		},
		Inspect: InspectConfig{
			Enabled: envBool("INSPECT_ENABLED", false),
			Addr:    env("INSPECT_ADDR", "127.0.0.1:8090"),
			Token:   env("INSPECT_TOKEN", ""),
		},
	}
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	return validation.Validate(map[string]string{
		"APP_NAME":      c.App.Name,
		"APP_ENV":       c.App.Env,
		"LOG_LEVEL":     c.Log.Level,
		"INSPECT_ADDR":  c.Inspect.Addr,
		"INSPECT_TOKEN": c.Inspect.Token,
	}, validation.Rules{
		"APP_NAME":      "required|max:64|regex:^[A-Za-z0-9 _.-]+$",
		"APP_ENV":       "required|in:local,production,testing",
		"LOG_LEVEL":     "required|in:trace,debug,info,notice,warn,warning,error",
		"INSPECT_ADDR":  "required|hostport",
		"INSPECT_TOKEN": "sometimes|min:16|alpha_dash",
	})
}

func (c *Config) IsLocal() bool      { return c.App.Env == "local" }
func (c *Config) IsProduction() bool { return c.App.Env == "production" }
func (c *Config) IsTesting() bool    { return c.App.Env == "testing" }

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
