package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/catalogadmin/pkg/constants"
	"github.com/agentstation/catalogadmin/pkg/errors"
)

// Session store backends.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Backend
	APIURL      string
	HTTPTimeout time.Duration
	AuthHeader  string
	PageSize    int

	Session SessionConfig
	Redis   RedisConfig
	Audit   AuditConfig

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// SessionConfig selects where the session token is kept.
type SessionConfig struct {
	Store string
	Path  string
	TTL   time.Duration
}

// RedisConfig is used when the session store is redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AuditConfig enables publishing of confirmed actions to NATS.
type AuditConfig struct {
	NatsURL string
	Subject string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (CATALOGADMIN_API_URL, CATALOGADMIN_SESSION_STORE, ...)
// 3. .env files
// 4. Config file (~/.catalogadmin.yaml or the path given)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(constants.AppName)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "failed to read "+configFile, err)
		}
	} else {
		// Search for config in standard locations
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("." + constants.AppName)

		// Read config file (ignore error if not found)
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		APIURL:      v.GetString("api_url"),
		HTTPTimeout: v.GetDuration("http_timeout"),
		AuthHeader:  v.GetString("auth_header"),
		PageSize:    v.GetInt("page_size"),

		Session: SessionConfig{
			Store: strings.ToLower(v.GetString("session.store")),
			Path:  v.GetString("session.path"),
			TTL:   v.GetDuration("session.ttl"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Audit: AuditConfig{
			NatsURL: v.GetString("audit.nats_url"),
			Subject: v.GetString("audit.subject"),
		},

		// Logging configuration
		LogLevel:  getEnvOrDefault("LOG_LEVEL", v.GetString("log_level")),
		LogFormat: getEnvOrDefault("LOG_FORMAT", v.GetString("log_format")),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", v.GetString("log_output")),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_url", constants.DefaultAPIURL)
	v.SetDefault("http_timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("auth_header", "Authorization")
	v.SetDefault("page_size", constants.DefaultPageSize)
	v.SetDefault("session.store", StoreFile)
	v.SetDefault("session.ttl", constants.DefaultSessionTTL)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("audit.subject", constants.DefaultAuditSubject)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Session.Store {
	case StoreFile, StoreRedis, StoreMemory:
	default:
		return errors.NewConfigError("session.store", "unknown store "+c.Session.Store+" (want file, redis or memory)", nil)
	}
	if c.PageSize < 1 || c.PageSize > constants.MaxPageSize {
		return errors.NewConfigError("page_size", "page size must be between 1 and 500", nil)
	}
	if c.HTTPTimeout < 0 {
		return errors.NewConfigError("http_timeout", "timeout cannot be negative", nil)
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded first so its values win over .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
