package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/reconhq/recon-core/internal/pkg/logger"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is used when no -config flag is given.
const DefaultConfigPath = "config.yaml"

// Dispatch strategies for re-publishing a post to a portal that already
// holds a successful distribution record.
const (
	StrategySkipIfSuccess = "skip-if-success"
	StrategyAlwaysResend  = "always-resend"
)

// AIProvider configures the rewrite service client.
type AIProvider struct {
	Type     string `yaml:"type"` // "openai" (default) | "anthropic"
	APIKey   string `yaml:"api_key"`
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	Enabled  bool   `yaml:"enabled"`
}

// DispatchConfig holds distribution engine defaults.
type DispatchConfig struct {
	// Strategy is the default re-publish behavior; "skip-if-success" unless overridden.
	Strategy string `yaml:"strategy"`
	// TimeoutSeconds bounds each outbound portal publish call.
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// IdentityCheckTimeoutSeconds bounds each cross-portal username check.
	IdentityCheckTimeoutSeconds int `yaml:"identity_check_timeout_seconds"`
}

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int            `yaml:"port"`
	Env            string         `yaml:"env"` // "development" | "production"
	DSN            string         `yaml:"dsn"` // MySQL DSN
	RedisURL       string         `yaml:"redis_url"`
	JWTSecret      string         `yaml:"jwt_secret"`
	AllowedOrigins []string       `yaml:"allowed_origins"`
	Log            logger.Config  `yaml:"log"`
	AI             AIProvider     `yaml:"ai"`
	Dispatch       DispatchConfig `yaml:"dispatch"`
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "development") ||
		strings.EqualFold(strings.TrimSpace(c.Env), "dev")
}

// Load reads the YAML config file, applies environment overrides and defaults.
// A missing file is not an error: env-only deployments are supported.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fall through to env + defaults
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if cfg.DSN == "" {
		return nil, fmt.Errorf("database dsn is required (set dsn in %s or RECON_DSN)", path)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("RECON_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("RECON_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("RECON_DSN"); v != "" {
		cfg.DSN = v
	}
	if v := os.Getenv("RECON_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("RECON_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("RECON_AI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
		cfg.AI.Enabled = true
	}
	if v := os.Getenv("RECON_AI_MODEL"); v != "" {
		cfg.AI.Model = v
	}
	if v := os.Getenv("RECON_ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		cfg.AllowedOrigins = origins
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port == 0 {
		cfg.Port = 8000
	}
	if cfg.Env == "" {
		cfg.Env = "production"
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = "redis://localhost:6379/0"
	}
	if cfg.AI.Type == "" {
		cfg.AI.Type = "openai"
	}
	if cfg.Dispatch.Strategy == "" {
		cfg.Dispatch.Strategy = StrategySkipIfSuccess
	}
	if cfg.Dispatch.TimeoutSeconds <= 0 {
		cfg.Dispatch.TimeoutSeconds = 10
	}
	if cfg.Dispatch.IdentityCheckTimeoutSeconds <= 0 {
		cfg.Dispatch.IdentityCheckTimeoutSeconds = 5
	}
}
