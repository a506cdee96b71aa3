package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sevigo/pullpilot/internal/app"
	"github.com/sevigo/pullpilot/internal/config"
	"github.com/sevigo/pullpilot/internal/core"
	"github.com/sevigo/pullpilot/internal/wire"
)

var rootCmd = &cobra.Command{
	Use:   "pullpilot",
	Short: "pullpilot submits pull requests for AI review and inspects the results.",
	Long: `A CLI for the pullpilot review pipeline. It runs the same job service as
the API server in-process, against the configured store, so reviews submitted
here show up in the API and the other way around when the Postgres store is used.`,
	SilenceUsage: true,
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("env-file", ".env", "Path to the .env configuration file")
	rootCmd.PersistentFlags().StringP("user", "u", "local", "GitHub login to act as")
	rootCmd.PersistentFlags().StringP("github-token", "t", "", "GitHub token stored for the user")

	for key, flag := range map[string]string{
		"ENV_FILE":     "env-file",
		"USER":         "user",
		"GITHUB_TOKEN": "github-token",
	} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			slog.Error("Error binding flag", "flag", flag, "error", err)
			os.Exit(1)
		}
	}
}

// initConfig lets PULLPILOT_* environment variables override flag defaults.
func initConfig() {
	viper.SetEnvPrefix("PULLPILOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// session is an initialized application acting on behalf of one user.
type session struct {
	app     *app.App
	user    *core.User
	cleanup func()
}

// Close waits for queued analyses and releases the store.
func (s *session) Close() {
	s.app.StopWorkers()
	s.cleanup()
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load(viper.GetString("ENV_FILE"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	a, cleanup, err := wire.InitializeApp(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize app: %w", err)
	}

	token := viper.GetString("GITHUB_TOKEN")
	if token == "" {
		token = cfg.GitHub.Token
	}
	user, err := a.Store.UpsertUser(ctx, viper.GetString("USER"), token)
	if err != nil {
		a.StopWorkers()
		cleanup()
		return nil, err
	}
	return &session{app: a, user: user, cleanup: cleanup}, nil
}
