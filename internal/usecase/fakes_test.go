package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/c2d/internal/adapters/create2"
	"github.com/trebuchet-org/c2d/internal/adapters/lock"
	"github.com/trebuchet-org/c2d/internal/adapters/repository/records"
	"github.com/trebuchet-org/c2d/internal/domain"
	"github.com/trebuchet-org/c2d/internal/domain/config"
	"github.com/trebuchet-org/c2d/internal/domain/models"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

var (
	deployer       = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	stranger       = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	factoryAddress = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

	factoryCode = common.FromHex("0x6080604052600a")
	implCode    = common.FromHex("0x6080604052600b") // B1
	proxyCode   = common.FromHex("0x6080604052600c")
	implV2Code  = common.FromHex("0x6080604052600d")
)

// fakeChain keeps code presence in memory and counts every RPC-backed call
type fakeChain struct {
	mu        sync.Mutex
	code      map[common.Address]bool
	submitted []usecase.TxRequest
	rpcCalls  int
	waitErr   error
}

func newFakeChain() *fakeChain {
	return &fakeChain{code: make(map[common.Address]bool)}
}

func (f *fakeChain) setCode(addr common.Address) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.code[addr] = true
}

func (f *fakeChain) HasCode(_ context.Context, addr common.Address) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rpcCalls++
	return f.code[addr], nil
}

func (f *fakeChain) SenderAddress(config.SenderRole) (common.Address, error) {
	return deployer, nil
}

func (f *fakeChain) Call(context.Context, common.Address, []byte) ([]byte, error) {
	return nil, errors.New("unexpected call")
}

func (f *fakeChain) StorageAt(context.Context, common.Address, common.Hash) (common.Hash, error) {
	return common.Hash{}, errors.New("unexpected storage read")
}

func (f *fakeChain) SubmitTransaction(_ context.Context, req usecase.TxRequest) (common.Hash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rpcCalls++
	f.submitted = append(f.submitted, req)
	return crypto.Keccak256Hash([]byte(fmt.Sprintf("tx-%d", len(f.submitted)))), nil
}

func (f *fakeChain) WaitForReceipt(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rpcCalls++
	if f.waitErr != nil {
		return nil, f.waitErr
	}
	receipt := &types.Receipt{TxHash: txHash, Status: types.ReceiptStatusSuccessful}
	if last := f.submitted[len(f.submitted)-1]; last.To == nil {
		receipt.ContractAddress = factoryAddress
		f.code[factoryAddress] = true
	}
	return receipt, nil
}

// fakeExecutor lands every deployment at its predicted address
type fakeExecutor struct {
	predictor usecase.AddressPredictor
	chain     *fakeChain
	deploys   []usecase.DeployRequest
}

func (e *fakeExecutor) Deploy(_ context.Context, req usecase.DeployRequest) (*models.DeployResult, error) {
	e.deploys = append(e.deploys, req)
	addr := e.predictor.Predict(models.DeployerIdentity{Factory: req.Factory, Caller: req.Caller}, req.Salt, e.predictor.BytecodeHash(req.InitCode))
	e.chain.setCode(addr)
	return &models.DeployResult{
		Address:   addr,
		Predicted: addr,
		TxHash:    crypto.Keccak256Hash(req.InitCode),
		Source:    models.AddressFromEvent,
	}, nil
}

// fakeAdmin models the proxy's owner, implementation slot and executor map
type fakeAdmin struct {
	defaultOwner common.Address
	owners       map[common.Address]common.Address
	ownerErr     map[common.Address]error
	impls        map[common.Address]common.Address
	executors    map[common.Address]bool
	factoryView  map[common.Hash]common.Address

	upgradeErr  error

	initialized []common.Address
	upgrades    []common.Address
	setCalls    int
}

func newFakeAdmin() *fakeAdmin {
	return &fakeAdmin{
		defaultOwner: deployer,
		owners:       make(map[common.Address]common.Address),
		ownerErr:     make(map[common.Address]error),
		impls:        make(map[common.Address]common.Address),
		executors:    make(map[common.Address]bool),
		factoryView:  make(map[common.Hash]common.Address),
	}
}

func (a *fakeAdmin) InitializerData(_ *models.Artifact, _ string, owner common.Address) ([]byte, error) {
	return append(common.FromHex("0xc4d66de8"), common.LeftPadBytes(owner.Bytes(), 32)...), nil
}

func (a *fakeAdmin) ProxyInitCode(creationCode []byte, impl common.Address, initData []byte) []byte {
	out := append([]byte{}, creationCode...)
	out = append(out, common.LeftPadBytes(impl.Bytes(), 32)...)
	return append(out, initData...)
}

func (a *fakeAdmin) Owner(_ context.Context, proxy common.Address) (common.Address, error) {
	if err := a.ownerErr[proxy]; err != nil {
		return common.Address{}, err
	}
	if owner, ok := a.owners[proxy]; ok {
		return owner, nil
	}
	return a.defaultOwner, nil
}

func (a *fakeAdmin) Implementation(_ context.Context, proxy common.Address) (common.Address, error) {
	return a.impls[proxy], nil
}

func (a *fakeAdmin) IsExecutor(_ context.Context, _, executor common.Address) (bool, error) {
	return a.executors[executor], nil
}

func (a *fakeAdmin) Initialize(_ context.Context, proxy, owner common.Address) (common.Hash, error) {
	a.initialized = append(a.initialized, proxy)
	delete(a.ownerErr, proxy)
	a.owners[proxy] = owner
	return common.HexToHash("0x1417"), nil
}

func (a *fakeAdmin) UpgradeTo(_ context.Context, proxy, impl common.Address) (common.Hash, error) {
	if a.upgradeErr != nil {
		return common.HexToHash("0x0909"), a.upgradeErr
	}
	a.upgrades = append(a.upgrades, impl)
	a.impls[proxy] = impl
	return common.HexToHash("0x0909"), nil
}

func (a *fakeAdmin) SetExecutor(_ context.Context, _, executor common.Address, status bool) (common.Hash, error) {
	a.setCalls++
	a.executors[executor] = status
	return common.HexToHash("0xe8ec"), nil
}

func (a *fakeAdmin) GetDeployed(_ context.Context, _, _ common.Address, salt, _ common.Hash) (common.Address, error) {
	addr, ok := a.factoryView[salt]
	if !ok {
		return common.Address{}, errors.New("execution reverted")
	}
	return addr, nil
}

type fakeArtifacts map[string]*models.Artifact

func (f fakeArtifacts) Load(_ context.Context, path string) (*models.Artifact, error) {
	a, ok := f[path]
	if !ok {
		return nil, fmt.Errorf("artifact %s: %w", path, domain.ErrNotFound)
	}
	return a, nil
}

type fakeConfirmer struct {
	answer bool
	asked  int
}

func (c *fakeConfirmer) Confirm(context.Context, string) (bool, error) {
	c.asked++
	return c.answer, nil
}

type countingMetrics struct {
	usecase.NopMetrics
	deployments map[string]int
	upgrades    map[string]int
}

func (m *countingMetrics) ObserveDeployment(kind string, outcome models.DeployOutcome) {
	m.deployments[kind+"/"+string(outcome)]++
}

func (m *countingMetrics) ObserveUpgrade(outcome string) {
	m.upgrades[outcome]++
}

// env wires the use cases to an in-memory store and lock directory
type env struct {
	cfg       *config.RuntimeConfig
	fs        afero.Fs
	store     *records.FileStore
	locker    *lock.FileLocker
	predictor *create2.Predictor
	chain     *fakeChain
	executor  *fakeExecutor
	admin     *fakeAdmin
	artifacts fakeArtifacts
	confirmer *fakeConfirmer
	metrics   *countingMetrics
	log       *slog.Logger
}

func newEnv(t *testing.T) *env {
	t.Helper()

	predictor, err := create2.NewPredictor(config.SchemeGuarded)
	require.NoError(t, err)

	plan := config.DefaultPlan("ExampleContract")
	cfg := &config.RuntimeConfig{
		NetworkName:    "local",
		DeploymentsDir: "/project/deployments",
		Plan:           plan,
	}

	fs := afero.NewMemMapFs()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	chain := newFakeChain()

	return &env{
		cfg:       cfg,
		fs:        fs,
		store:     records.NewFileStore(fs, cfg.DeploymentsDir, log),
		locker:    lock.NewFileLocker(fs, cfg.DeploymentsDir+"/locks", 0, log),
		predictor: predictor,
		chain:     chain,
		executor:  &fakeExecutor{predictor: predictor, chain: chain},
		admin:     newFakeAdmin(),
		artifacts: fakeArtifacts{
			plan.Factory.Artifact:        {Name: "Create2Factory", Bytecode: factoryCode},
			plan.Implementation.Artifact: {Name: "ExampleContract", Bytecode: implCode},
			plan.Proxy.Artifact:          {Name: "ERC1967Proxy", Bytecode: proxyCode},
			plan.Upgrade.Artifact:        {Name: "ExampleContractV2", Bytecode: implV2Code},
		},
		confirmer: &fakeConfirmer{answer: true},
		metrics:   &countingMetrics{deployments: map[string]int{}, upgrades: map[string]int{}},
		log:       log,
	}
}

func (e *env) deployFactory() *usecase.DeployFactory {
	return usecase.NewDeployFactory(e.cfg, e.chain, e.predictor, e.store, e.artifacts, e.locker, e.metrics, usecase.NopProgress{}, e.log)
}

func (e *env) deployContracts() *usecase.DeployContracts {
	return usecase.NewDeployContracts(e.cfg, e.chain, e.predictor, e.executor, e.store, e.artifacts, e.locker, e.admin, e.metrics, usecase.NopProgress{}, e.log)
}

func (e *env) upgradeProxy() *usecase.UpgradeProxy {
	return usecase.NewUpgradeProxy(e.cfg, e.chain, e.predictor, e.executor, e.store, e.artifacts, e.locker, e.admin, e.confirmer, e.metrics, usecase.NopProgress{}, e.log)
}

func (e *env) setExecutor() *usecase.SetExecutor {
	return usecase.NewSetExecutor(e.cfg, e.chain, e.predictor, e.store, e.locker, e.admin, e.confirmer, usecase.NopProgress{}, e.log)
}

func (e *env) predict() *usecase.PredictAddresses {
	return usecase.NewPredictAddresses(e.cfg, e.predictor, e.store, e.artifacts, e.admin, e.chain, e.admin)
}

// deployed runs the factory and contract flows and returns the contracts result
func (e *env) deployed(t *testing.T) *usecase.DeployContractsResult {
	t.Helper()
	ctx := context.Background()
	_, err := e.deployFactory().Run(ctx)
	require.NoError(t, err)
	result, err := e.deployContracts().Run(ctx)
	require.NoError(t, err)
	return result
}

func (e *env) predictAt(label string, initCode []byte) common.Address {
	identity := models.DeployerIdentity{Factory: factoryAddress, Caller: deployer}
	return e.predictor.Predict(identity, e.predictor.Salt(label), e.predictor.BytecodeHash(initCode))
}
