package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Match    MatchConfig
	Catalog  CatalogConfig
	TextGen  TextGenConfig
	Digest   DigestConfig
}

type AppConfig struct {
	AppName     string `envconfig:"APP_NAME" default:"opportunity-matcher"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	HTTPPort    string `envconfig:"APP_HTTP_PORT" required:"true"`
	LogLevel    string `envconfig:"APP_LOG_LEVEL" default:"info"`
}

// StoreConfig selects the document store backend: memory, postgres or sqlite.
type StoreConfig struct {
	Driver     string `envconfig:"STORE_DRIVER" default:"memory"`
	SQLitePath string `envconfig:"STORE_SQLITE_PATH" default:"data/opportunities.db"`
}

type DatabaseConfig struct {
	DBHost     string `envconfig:"DB_HOST"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBName     string `envconfig:"DB_NAME"`
	DBUser     string `envconfig:"DB_USER"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBSSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	AppName    string `envconfig:"DB_APPLICATION_NAME" default:"opportunity-matcher"`

	ConnectTimeout        time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"5s"`
	PoolMaxConns          int32         `envconfig:"DB_POOL_MAX_CONNS" default:"10"`
	PoolMinConns          int32         `envconfig:"DB_POOL_MIN_CONNS" default:"0"`
	PoolMaxConnLifetime   time.Duration `envconfig:"DB_POOL_MAX_CONN_LIFETIME" default:"1h"`
	PoolMaxConnIdleTime   time.Duration `envconfig:"DB_POOL_MAX_CONN_IDLE_TIME" default:"30m"`
	PoolHealthCheckPeriod time.Duration `envconfig:"DB_POOL_HEALTH_CHECK_PERIOD" default:"1m"`
}

type RedisConfig struct {
	Enabled  bool          `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string        `envconfig:"REDIS_PORT" default:"6379"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	TTL      time.Duration `envconfig:"REDIS_TTL" default:"10m"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", strings.TrimSpace(r.Host), strings.TrimSpace(r.Port))
}

// AuthConfig holds the shared secret used to verify tokens minted by the
// identity provider. Auth is disabled when JWTSecret is empty.
type AuthConfig struct {
	JWTSecret string        `envconfig:"AUTH_JWT_SECRET"`
	TokenTTL  time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"1h"`
}

func (a AuthConfig) Enabled() bool {
	return strings.TrimSpace(a.JWTSecret) != ""
}

type MatchConfig struct {
	JitterEnabled   bool    `envconfig:"MATCH_JITTER_ENABLED" default:"true"`
	JitterSeed      uint64  `envconfig:"MATCH_JITTER_SEED" default:"0"`
	DefaultTopK     int     `envconfig:"MATCH_DEFAULT_TOP_K" default:"5"`
	RecommendTopK   int     `envconfig:"MATCH_RECOMMEND_TOP_K" default:"10"`
	DefaultMinScore float64 `envconfig:"MATCH_DEFAULT_MIN_SCORE" default:"0.3"`
	CatalogTopN     int     `envconfig:"MATCH_CATALOG_TOP_N" default:"5"`
	CatalogMinScore int     `envconfig:"MATCH_CATALOG_MIN_SCORE" default:"30"`
	ActivityWindow  int     `envconfig:"MATCH_ACTIVITY_WINDOW" default:"50"`
}

// CatalogConfig points at a YAML template file replacing the embedded
// catalog. Empty keeps the embedded one.
type CatalogConfig struct {
	Path string `envconfig:"CATALOG_PATH"`
}

// TextGenConfig selects the model used for match summaries. Provider is
// gemini or ollama; summaries are disabled when the provider is not usable
// (gemini without an API key, ollama without a base URL).
type TextGenConfig struct {
	Provider string        `envconfig:"TEXTGEN_PROVIDER" default:"gemini"`
	BaseURL  string        `envconfig:"TEXTGEN_BASE_URL"`
	APIKey   string        `envconfig:"TEXTGEN_API_KEY"`
	Model    string        `envconfig:"TEXTGEN_MODEL" default:"gemini-2.0-flash"`
	Timeout  time.Duration `envconfig:"TEXTGEN_TIMEOUT" default:"40s"`
}

func (t TextGenConfig) Enabled() bool {
	switch strings.ToLower(strings.TrimSpace(t.Provider)) {
	case "gemini":
		return strings.TrimSpace(t.APIKey) != ""
	case "ollama":
		return strings.TrimSpace(t.BaseURL) != ""
	default:
		return false
	}
}

type DigestConfig struct {
	Enabled  bool   `envconfig:"DIGEST_ENABLED" default:"false"`
	Schedule string `envconfig:"DIGEST_SCHEDULE" default:"0 0 * * * *"`
	Workers  int    `envconfig:"DIGEST_WORKERS" default:"4"`
	TopK     int    `envconfig:"DIGEST_TOP_K" default:"5"`
}

var ErrMissingRequiredEnv = errors.New("missing required environment variables")

var errInvalidConfig = errors.New("invalid configuration")

// Load reads every section from the environment. Keys are the full
// variable names (APP_HTTP_PORT, DB_HOST, ...).
func Load() (Config, error) {
	var cfg Config
	sections := []any{
		&cfg.App, &cfg.Store, &cfg.Database, &cfg.Redis,
		&cfg.Auth, &cfg.Match, &cfg.Catalog, &cfg.TextGen, &cfg.Digest,
	}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			var perr *envconfig.ParseError
			if errors.As(err, &perr) {
				return Config{}, fmt.Errorf("%w: %v", errInvalidConfig, err)
			}
			return Config{}, fmt.Errorf("%w: %v", ErrMissingRequiredEnv, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.App.HTTPPort) == "" {
		return fmt.Errorf("%w: APP_HTTP_PORT", ErrMissingRequiredEnv)
	}

	switch strings.ToLower(strings.TrimSpace(c.Store.Driver)) {
	case "memory", "sqlite":
	case "postgres":
		var missing []string
		if strings.TrimSpace(c.Database.DBHost) == "" {
			missing = append(missing, "DB_HOST")
		}
		if strings.TrimSpace(c.Database.DBName) == "" {
			missing = append(missing, "DB_NAME")
		}
		if strings.TrimSpace(c.Database.DBUser) == "" {
			missing = append(missing, "DB_USER")
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: %s", ErrMissingRequiredEnv, strings.Join(missing, ", "))
		}
	default:
		return fmt.Errorf("%w: STORE_DRIVER must be memory, postgres or sqlite, got %q", errInvalidConfig, c.Store.Driver)
	}

	switch strings.ToLower(strings.TrimSpace(c.TextGen.Provider)) {
	case "gemini", "ollama":
	default:
		return fmt.Errorf("%w: TEXTGEN_PROVIDER must be gemini or ollama, got %q", errInvalidConfig, c.TextGen.Provider)
	}

	if c.Match.ActivityWindow <= 0 || c.Match.ActivityWindow > 50 {
		return fmt.Errorf("%w: MATCH_ACTIVITY_WINDOW must be between 1 and 50", errInvalidConfig)
	}
	return nil
}
