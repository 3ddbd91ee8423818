package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/c2d/internal/domain/config"
	"github.com/trebuchet-org/c2d/internal/domain/models"
)

// AddressPredictor computes deterministic deployment addresses without chain access
type AddressPredictor interface {
	Salt(label string) common.Hash
	BytecodeHash(initCode []byte) common.Hash
	EffectiveSalt(caller common.Address, salt common.Hash) common.Hash
	Predict(deployer models.DeployerIdentity, salt common.Hash, bytecodeHash common.Hash) common.Address
}

// ChainProbe reports whether contract code exists at an address
type ChainProbe interface {
	HasCode(ctx context.Context, addr common.Address) (bool, error)
}

// TxRequest describes a transaction to sign and submit
type TxRequest struct {
	Role     config.SenderRole
	To       *common.Address // nil deploys with CREATE
	Data     []byte
	GasLimit uint64 // 0 estimates
}

// ChainClient is the RPC collaborator used by deployment flows
type ChainClient interface {
	ChainProbe
	SenderAddress(role config.SenderRole) (common.Address, error)
	Call(ctx context.Context, to common.Address, data []byte) ([]byte, error)
	StorageAt(ctx context.Context, addr common.Address, slot common.Hash) (common.Hash, error)
	SubmitTransaction(ctx context.Context, req TxRequest) (common.Hash, error)
	// WaitForReceipt blocks until the transaction is included. Cancellation of
	// ctx doesn't abort the wait once a transaction has been submitted.
	WaitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// DeployRequest is a single CREATE2 deployment through the factory
type DeployRequest struct {
	Factory  common.Address
	Caller   common.Address
	Salt     common.Hash
	InitCode []byte
	GasLimit uint64
}

// DeploymentExecutor submits a factory deployment and recovers the deployed address
type DeploymentExecutor interface {
	Deploy(ctx context.Context, req DeployRequest) (*models.DeployResult, error)
}

// ProxyAdmin encodes and drives the upgradeable proxy. Methods that send
// transactions wait for inclusion before returning.
type ProxyAdmin interface {
	InitializerData(impl *models.Artifact, method string, owner common.Address) ([]byte, error)
	ProxyInitCode(creationCode []byte, impl common.Address, initData []byte) []byte

	Owner(ctx context.Context, proxy common.Address) (common.Address, error)
	Implementation(ctx context.Context, proxy common.Address) (common.Address, error)
	IsExecutor(ctx context.Context, proxy, executor common.Address) (bool, error)

	Initialize(ctx context.Context, proxy, owner common.Address) (common.Hash, error)
	UpgradeTo(ctx context.Context, proxy, impl common.Address) (common.Hash, error)
	SetExecutor(ctx context.Context, proxy, executor common.Address, status bool) (common.Hash, error)
}

// FactoryReader queries the deterministic deployment factory
type FactoryReader interface {
	GetDeployed(ctx context.Context, factory, deployer common.Address, salt, bytecodeHash common.Hash) (common.Address, error)
}

// DeploymentRecordStore persists per-network records. Get methods return
// domain.ErrNotFound when nothing has been written yet.
type DeploymentRecordStore interface {
	Path(kind models.RecordKind, network, contract string) string

	GetFactory(ctx context.Context, network string) (*models.FactoryRecord, error)
	SaveFactory(ctx context.Context, record *models.FactoryRecord) error

	GetDeployment(ctx context.Context, network, contract string) (*models.DeploymentRecord, error)
	SaveDeployment(ctx context.Context, record *models.DeploymentRecord) error

	AppendHistory(ctx context.Context, entry *models.UpgradeHistoryEntry) (string, error)
	ListHistory(ctx context.Context, network, contract string) ([]*models.UpgradeHistoryEntry, error)

	GetExecutors(ctx context.Context, network, contract string) (*models.ExecutorRegistry, error)
	UpdateExecutors(ctx context.Context, network, contract string, update func(*models.ExecutorRegistry) error) (*models.ExecutorRegistry, error)
}

// LeaseKey identifies a check-then-deploy critical section
type LeaseKey struct {
	Network string
	Salt    common.Hash
}

func (k LeaseKey) String() string {
	return k.Network + "/" + k.Salt.Hex()
}

// Lease is held until released
type Lease interface {
	Release(ctx context.Context) error
}

// LeaseLocker serializes concurrent runs targeting the same (network, salt)
type LeaseLocker interface {
	Acquire(ctx context.Context, key LeaseKey) (Lease, error)
}

// ArtifactLoader reads compiled contract artifacts
type ArtifactLoader interface {
	Load(ctx context.Context, path string) (*models.Artifact, error)
}

// Confirmer asks the operator before sending state-changing transactions
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// DeployMetrics receives deployment telemetry
type DeployMetrics interface {
	ObserveDeployment(kind string, outcome models.DeployOutcome)
	ObserveAddressSource(source models.AddressSource)
	ObserveAddressMismatch()
	ObserveUpgrade(outcome string)
}

// NopMetrics discards all observations
type NopMetrics struct{}

func (NopMetrics) ObserveDeployment(string, models.DeployOutcome) {}
func (NopMetrics) ObserveAddressSource(models.AddressSource)      {}
func (NopMetrics) ObserveAddressMismatch()                        {}
func (NopMetrics) ObserveUpgrade(string)                          {}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
