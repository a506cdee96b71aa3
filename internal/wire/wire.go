//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"github.com/sevigo/pullpilot/internal/app"
	"github.com/sevigo/pullpilot/internal/config"
)

// InitializeApp wires the application for an already loaded configuration.
func InitializeApp(ctx context.Context, cfg *config.Config) (*app.App, func(), error) {
	wire.Build(AppSet)
	return &app.App{}, nil, nil
}
