package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sevigo/pullpilot/internal/logger"
)

// Config holds the application's configuration values.
type Config struct {
	Server   ServerConfig
	Database *DBConfig
	Logging  logger.Config
	GitHub   GitHubConfig
	AI       AIConfig
	Jobs     JobsConfig
	Auth     AuthConfig
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Port            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// DBConfig holds the storage settings. Driver selects between the Postgres
// store and the in-memory store.
type DBConfig struct {
	Driver          string
	Host            string
	Port            int
	Username        string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DSN builds a lib/pq connection string.
func (c *DBConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, sslMode)
}

// GitHub credential modes.
const (
	AuthModeUser  = "user"
	AuthModeApp   = "app"
	AuthModeToken = "token"
)

// GitHubConfig describes how the upstream is reached and which credential is used.
type GitHubConfig struct {
	AuthMode       string
	AppID          int64
	PrivateKeyPath string
	Token          string
	APIURL         string
}

// Analysis providers.
const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
	ProviderCanned = "canned"
)

// AIConfig selects and tunes the analysis provider.
type AIConfig struct {
	Provider         string
	OllamaHost       string
	GeminiAPIKey     string
	GeneratorModel   string
	CannedReportPath string
	CannedDelay      time.Duration
	AnalysisTimeout  time.Duration
	MaxDiffLines     int
}

// JobsConfig bounds the background analysis workers.
type JobsConfig struct {
	MaxWorkers     int
	QueueSize      int
	StaleAfter     time.Duration
	ReaperInterval time.Duration
}

// AuthConfig holds the API identity token settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_REQUEST_TIMEOUT", "60s")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "30s")

	v.SetDefault("STORE_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "pullpilot")
	v.SetDefault("DB_PASSWORD", "pullpilot")
	v.SetDefault("DB_NAME", "pullpilot")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", "5m")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_OUTPUT", "stdout")

	v.SetDefault("GITHUB_AUTH_MODE", AuthModeUser)
	v.SetDefault("GITHUB_PRIVATE_KEY_PATH", "keys/pullpilot-app.private-key.pem")

	v.SetDefault("LLM_PROVIDER", ProviderOllama)
	v.SetDefault("OLLAMA_HOST", "http://localhost:11434")
	v.SetDefault("GENERATOR_MODEL_NAME", "gemma3:latest")
	v.SetDefault("CANNED_DELAY", "0s")
	v.SetDefault("ANALYSIS_TIMEOUT", "90s")
	v.SetDefault("MAX_DIFF_LINES", 3000)

	v.SetDefault("MAX_WORKERS", 5)
	v.SetDefault("JOB_QUEUE_SIZE", 100)
	v.SetDefault("STALE_JOB_AFTER", "10m")
	v.SetDefault("REAPER_INTERVAL", "1m")

	v.SetDefault("JWT_TTL", "24h")
}

// LoadConfig reads configuration from environment variables and an optional
// .env file, applies defaults and validates the result. Environment variables
// take precedence over the file.
func LoadConfig() (*Config, error) {
	return Load(".env")
}

// Load is LoadConfig with an explicit config file path. An empty path reads
// the environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		}
	}

	generatorModel := v.GetString("GENERATOR_MODEL_NAME")
	if strings.EqualFold(v.GetString("LLM_PROVIDER"), ProviderGemini) {
		if m := v.GetString("GEMINI_GENERATOR_MODEL_NAME"); m != "" {
			generatorModel = m
		} else {
			generatorModel = "gemini-2.5-flash"
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("SERVER_PORT"),
			RequestTimeout:  v.GetDuration("SERVER_REQUEST_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Database: &DBConfig{
			Driver:          strings.ToLower(v.GetString("STORE_DRIVER")),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			Username:        v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Database:        v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: v.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		},
		Logging: logger.Config{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
			Output: v.GetString("LOG_OUTPUT"),
			File:   v.GetString("LOG_FILE"),
		},
		GitHub: GitHubConfig{
			AuthMode:       strings.ToLower(v.GetString("GITHUB_AUTH_MODE")),
			AppID:          v.GetInt64("GITHUB_APP_ID"),
			PrivateKeyPath: v.GetString("GITHUB_PRIVATE_KEY_PATH"),
			Token:          v.GetString("GITHUB_TOKEN"),
			APIURL:         v.GetString("GITHUB_API_URL"),
		},
		AI: AIConfig{
			Provider:         strings.ToLower(v.GetString("LLM_PROVIDER")),
			OllamaHost:       v.GetString("OLLAMA_HOST"),
			GeminiAPIKey:     v.GetString("GEMINI_API_KEY"),
			GeneratorModel:   generatorModel,
			CannedReportPath: v.GetString("CANNED_REPORT_PATH"),
			CannedDelay:      v.GetDuration("CANNED_DELAY"),
			AnalysisTimeout:  v.GetDuration("ANALYSIS_TIMEOUT"),
			MaxDiffLines:     v.GetInt("MAX_DIFF_LINES"),
		},
		Jobs: JobsConfig{
			MaxWorkers:     v.GetInt("MAX_WORKERS"),
			QueueSize:      v.GetInt("JOB_QUEUE_SIZE"),
			StaleAfter:     v.GetDuration("STALE_JOB_AFTER"),
			ReaperInterval: v.GetDuration("REAPER_INTERVAL"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
			TokenTTL:  v.GetDuration("JWT_TTL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Database == nil {
		return errors.New("database config is required")
	}
	switch c.Database.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q: expected postgres or memory", c.Database.Driver)
	}
	if err := c.GitHub.Validate(); err != nil {
		return err
	}
	if err := c.AI.Validate(); err != nil {
		return err
	}
	if err := c.Jobs.Validate(); err != nil {
		return err
	}
	if c.Jobs.StaleAfter <= c.AI.AnalysisTimeout {
		return fmt.Errorf("STALE_JOB_AFTER (%s) must be greater than ANALYSIS_TIMEOUT (%s)", c.Jobs.StaleAfter, c.AI.AnalysisTimeout)
	}
	return nil
}

// ValidateForServer adds the checks that only matter when serving the HTTP API.
func (c *Config) ValidateForServer() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	return nil
}

// Validate checks the credential mode and its required settings.
func (c GitHubConfig) Validate() error {
	switch c.AuthMode {
	case AuthModeUser:
	case AuthModeApp:
		if c.AppID == 0 {
			return errors.New("GITHUB_APP_ID must be set when GITHUB_AUTH_MODE=app")
		}
		if c.PrivateKeyPath == "" {
			return errors.New("GITHUB_PRIVATE_KEY_PATH must be set when GITHUB_AUTH_MODE=app")
		}
	case AuthModeToken:
		if c.Token == "" {
			return errors.New("GITHUB_TOKEN must be set when GITHUB_AUTH_MODE=token")
		}
	default:
		return fmt.Errorf("unsupported GITHUB_AUTH_MODE %q: expected user, app or token", c.AuthMode)
	}
	return nil
}

// Validate checks the provider selection and limits.
func (c AIConfig) Validate() error {
	switch c.Provider {
	case ProviderOllama:
		if c.OllamaHost == "" {
			return errors.New("OLLAMA_HOST must be set for the ollama provider")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY must be set for the gemini provider")
		}
	case ProviderCanned:
		if c.CannedDelay < 0 {
			return errors.New("CANNED_DELAY must not be negative")
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q: expected ollama, gemini or canned", c.Provider)
	}
	if c.AnalysisTimeout <= 0 {
		return errors.New("ANALYSIS_TIMEOUT must be positive")
	}
	if c.MaxDiffLines <= 0 {
		return errors.New("MAX_DIFF_LINES must be positive")
	}
	return nil
}

// Validate checks the worker pool bounds.
func (c JobsConfig) Validate() error {
	if c.MaxWorkers < 1 || c.MaxWorkers > 100 {
		return fmt.Errorf("MAX_WORKERS must be between 1 and 100, got %d", c.MaxWorkers)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("JOB_QUEUE_SIZE must be positive, got %d", c.QueueSize)
	}
	if c.ReaperInterval <= 0 {
		return errors.New("REAPER_INTERVAL must be positive")
	}
	return nil
}
