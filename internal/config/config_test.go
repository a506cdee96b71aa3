package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, AuthModeUser, cfg.GitHub.AuthMode)
	assert.Equal(t, ProviderOllama, cfg.AI.Provider)
	assert.Equal(t, 3000, cfg.AI.MaxDiffLines)
	assert.Equal(t, 90*time.Second, cfg.AI.AnalysisTimeout)
	assert.Equal(t, 5, cfg.Jobs.MaxWorkers)
	assert.Equal(t, 10*time.Minute, cfg.Jobs.StaleAfter)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("LLM_PROVIDER", "canned")
	t.Setenv("CANNED_DELAY", "250ms")
	t.Setenv("MAX_WORKERS", "2")
	t.Setenv("GITHUB_AUTH_MODE", "token")
	t.Setenv("GITHUB_TOKEN", "ghp_test")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, ProviderCanned, cfg.AI.Provider)
	assert.Equal(t, 250*time.Millisecond, cfg.AI.CannedDelay)
	assert.Equal(t, 2, cfg.Jobs.MaxWorkers)
	assert.Equal(t, "ghp_test", cfg.GitHub.Token)
}

func TestLoad_GeminiModelName(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.GeneratorModel)

	t.Setenv("GEMINI_GENERATOR_MODEL_NAME", "gemini-2.5-pro")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", cfg.AI.GeneratorModel)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SERVER_PORT=7070\nMAX_DIFF_LINES=100\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, 100, cfg.AI.MaxDiffLines)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: &DBConfig{Driver: "memory"},
			GitHub:   GitHubConfig{AuthMode: AuthModeUser},
			AI: AIConfig{
				Provider:        ProviderCanned,
				AnalysisTimeout: time.Minute,
				MaxDiffLines:    3000,
			},
			Jobs: JobsConfig{MaxWorkers: 2, QueueSize: 10, StaleAfter: 5 * time.Minute, ReaperInterval: time.Minute},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "sqlite" }, wantErr: "STORE_DRIVER"},
		{name: "app mode without id", mutate: func(c *Config) { c.GitHub.AuthMode = AuthModeApp; c.GitHub.PrivateKeyPath = "k.pem" }, wantErr: "GITHUB_APP_ID"},
		{name: "token mode without token", mutate: func(c *Config) { c.GitHub.AuthMode = AuthModeToken }, wantErr: "GITHUB_TOKEN"},
		{name: "unknown auth mode", mutate: func(c *Config) { c.GitHub.AuthMode = "oauth" }, wantErr: "GITHUB_AUTH_MODE"},
		{name: "gemini without key", mutate: func(c *Config) { c.AI.Provider = ProviderGemini }, wantErr: "GEMINI_API_KEY"},
		{name: "unknown provider", mutate: func(c *Config) { c.AI.Provider = "openai" }, wantErr: "LLM_PROVIDER"},
		{name: "zero diff lines", mutate: func(c *Config) { c.AI.MaxDiffLines = 0 }, wantErr: "MAX_DIFF_LINES"},
		{name: "too many workers", mutate: func(c *Config) { c.Jobs.MaxWorkers = 101 }, wantErr: "MAX_WORKERS"},
		{name: "zero queue", mutate: func(c *Config) { c.Jobs.QueueSize = 0 }, wantErr: "JOB_QUEUE_SIZE"},
		{name: "stale before timeout", mutate: func(c *Config) { c.Jobs.StaleAfter = 30 * time.Second }, wantErr: "STALE_JOB_AFTER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ValidateForServer(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.ValidateForServer())

	cfg.Auth.JWTSecret = "short"
	assert.Error(t, cfg.ValidateForServer())

	cfg.Auth.JWTSecret = "a-long-enough-test-secret"
	assert.NoError(t, cfg.ValidateForServer())
}

func TestDBConfig_DSN(t *testing.T) {
	c := &DBConfig{Host: "db", Port: 5433, Username: "u", Password: "p", Database: "d"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=d sslmode=disable", c.DSN())
}
