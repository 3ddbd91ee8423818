package app

import (
	"log/slog"

	"github.com/trebuchet-org/c2d/internal/adapters/blockchain"
	"github.com/trebuchet-org/c2d/internal/domain/config"
	"github.com/trebuchet-org/c2d/internal/metrics"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Log      *slog.Logger
	Metrics  *metrics.Recorder
	Progress usecase.ProgressSink

	// Use cases
	DeployFactory    *usecase.DeployFactory
	DeployContracts  *usecase.DeployContracts
	DeployAll        *usecase.DeployAll
	UpgradeProxy     *usecase.UpgradeProxy
	SetExecutor      *usecase.SetExecutor
	ListExecutors    *usecase.ListExecutors
	PredictAddresses *usecase.PredictAddresses
	ShowRecord       *usecase.ShowRecord

	chain *blockchain.Client
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	recorder *metrics.Recorder,
	sink usecase.ProgressSink,
	chain *blockchain.Client,
	deployFactory *usecase.DeployFactory,
	deployContracts *usecase.DeployContracts,
	deployAll *usecase.DeployAll,
	upgradeProxy *usecase.UpgradeProxy,
	setExecutor *usecase.SetExecutor,
	listExecutors *usecase.ListExecutors,
	predictAddresses *usecase.PredictAddresses,
	showRecord *usecase.ShowRecord,
) (*App, error) {
	return &App{
		Config:           cfg,
		Log:              log,
		Metrics:          recorder,
		Progress:         sink,
		DeployFactory:    deployFactory,
		DeployContracts:  deployContracts,
		DeployAll:        deployAll,
		UpgradeProxy:     upgradeProxy,
		SetExecutor:      setExecutor,
		ListExecutors:    listExecutors,
		PredictAddresses: predictAddresses,
		ShowRecord:       showRecord,
		chain:            chain,
	}, nil
}

// Close releases the RPC connection, if one was opened
func (a *App) Close() {
	if a.chain != nil {
		a.chain.Close()
	}
}
