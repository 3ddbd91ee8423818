package adapters

import (
	"github.com/google/wire"
	"github.com/spf13/afero"
	"github.com/trebuchet-org/c2d/internal/adapters/abi"
	"github.com/trebuchet-org/c2d/internal/adapters/artifacts"
	"github.com/trebuchet-org/c2d/internal/adapters/blockchain"
	"github.com/trebuchet-org/c2d/internal/adapters/create2"
	"github.com/trebuchet-org/c2d/internal/adapters/deployer"
	"github.com/trebuchet-org/c2d/internal/adapters/interactive"
	"github.com/trebuchet-org/c2d/internal/adapters/lock"
	"github.com/trebuchet-org/c2d/internal/adapters/onchain"
	"github.com/trebuchet-org/c2d/internal/adapters/repository/records"
	"github.com/trebuchet-org/c2d/internal/metrics"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

// ProvideFs provides the OS filesystem; tests swap in afero.NewMemMapFs
func ProvideFs() afero.Fs {
	return afero.NewOsFs()
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	ProvideFs,

	records.ProvideFileStore,
	wire.Bind(new(usecase.DeploymentRecordStore), new(*records.FileStore)),

	artifacts.ProvideLoader,
	wire.Bind(new(usecase.ArtifactLoader), new(*artifacts.Loader)),

	lock.ProvideLocker,
)

// BlockchainSet provides RPC-backed implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewClient,
	wire.Bind(new(usecase.ChainClient), new(*blockchain.Client)),

	abi.NewEventScanner,

	deployer.NewExecutor,
	wire.Bind(new(usecase.DeploymentExecutor), new(*deployer.Executor)),

	onchain.NewContracts,
	wire.Bind(new(usecase.ProxyAdmin), new(*onchain.Contracts)),
	wire.Bind(new(usecase.FactoryReader), new(*onchain.Contracts)),
)

// Create2Set provides the address predictor
var Create2Set = wire.NewSet(
	create2.ProvidePredictor,
	wire.Bind(new(usecase.AddressPredictor), new(*create2.Predictor)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewConfirmAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.ConfirmAdapter)),
)

// MetricsSet provides the per-run prometheus recorder
var MetricsSet = wire.NewSet(
	metrics.ProvideRecorder,
	wire.Bind(new(usecase.DeployMetrics), new(*metrics.Recorder)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	BlockchainSet,
	Create2Set,
	InteractiveSet,
	MetricsSet,
)
