//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/c2d/internal/adapters"
	"github.com/trebuchet-org/c2d/internal/config"
	"github.com/trebuchet-org/c2d/internal/logging"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployFactory,
		usecase.NewDeployContracts,
		usecase.NewDeployAll,
		usecase.NewUpgradeProxy,
		usecase.NewSetExecutor,
		usecase.NewListExecutors,
		usecase.NewPredictAddresses,
		usecase.NewShowRecord,

		// App
		NewApp,
	)
	return nil, nil
}
