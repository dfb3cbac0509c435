//go:build wireinject
// +build wireinject

package di

import (
	"BotPull/pkg/config"
	"BotPull/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient infrastructure
		ProvideLogger,
		ProvideMetrics,

		// Snapshot producers
		ProvideFeedClient,
		ProvideStateStream,
		ProvideGenerator,

		// State pipeline
		ProvideSelector,
		ProvideHistory,
		ProvideFanout,
		ProvideStateCollector,

		// HTTP surface
		ProvideStateHandler,
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
