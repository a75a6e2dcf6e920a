package app

import (
	"io/fs"
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
)

// Config holds the complete application configuration, loadable from
// environment variables (SHOP_ prefix), a .env file, or YAML config files.
type Config struct {
	Addr       string `default:"0.0.0.0:8080" usage:"API server listen address"`
	StorageURL string `default:"memory://" usage:"Storage backend: memory://, sqlite:///path/to/db or postgres://..." flag:"storage-url"`
	// GeminiAPIKey enables the hosted advisor. Without it advice comes from
	// canned mock texts and chat replies with an apology.
	GeminiAPIKey   string `usage:"Gemini API key (SHOP_GEMINI_API_KEY, GEMINI_API_KEY or API_KEY)" flag:"gemini-api-key"`
	MaxChats       int    `default:"1000" usage:"Maximum number of live chat sessions" flag:"max-chats"`
	MaxImportBytes int64  `default:"10485760" usage:"Maximum CSV upload size in bytes" flag:"max-import-bytes"`
	RateLimit      RateLimitConfig
	CORS           CORSConfig
	Graceful       GracefulConfig
}

// RateLimitConfig controls the per-client token bucket.
type RateLimitConfig struct {
	Rate  float64 `default:"5"  usage:"Sustained requests per second per client"`
	Burst int     `default:"20" usage:"Burst size per client"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from a .env file, environment variables and
// YAML config files, then applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env")
	}

	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "SHOP",
		Files:     []string{"config.yaml", "/etc/shopaholics/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyPlatformDefaults maps the standard variables set by hosting platforms
// (PORT, DATABASE_URL) and the advisor key names used by the web client
// (GEMINI_API_KEY, API_KEY) onto the SHOP_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if v := os.Getenv("DATABASE_URL"); v != "" && c.StorageURL == "memory://" {
		c.StorageURL = v
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
	for _, name := range []string{"GEMINI_API_KEY", "API_KEY"} {
		if c.GeminiAPIKey != "" {
			break
		}
		c.GeminiAPIKey = os.Getenv(name)
	}
}

func (c *Config) validate() error {
	switch {
	case c.RateLimit.Rate <= 0:
		return errors.Errorf("rate limit must be positive, got %v", c.RateLimit.Rate)
	case c.RateLimit.Burst <= 0:
		return errors.Errorf("rate limit burst must be positive, got %d", c.RateLimit.Burst)
	case c.MaxImportBytes <= 0:
		return errors.Errorf("max import bytes must be positive, got %d", c.MaxImportBytes)
	}
	return nil
}
