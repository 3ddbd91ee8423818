package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/c2d/internal/domain/config"
	"github.com/trebuchet-org/c2d/internal/domain/models"
)

// SetExecutorParams contains parameters for changing an executor's permission
type SetExecutorParams struct {
	Executor common.Address
	Status   bool
}

// SetExecutorResult reports the on-chain and recorded state after the change
type SetExecutorResult struct {
	Proxy    common.Address
	Executor common.Address
	Status   bool
	Changed  bool // a transaction was sent
	TxHash   *common.Hash
	Registry *models.ExecutorRegistry
}

// SetExecutor grants or revokes executor permission on the proxy and mirrors
// the result in the executor registry
type SetExecutor struct {
	cfg       *config.RuntimeConfig
	chain     ChainClient
	predictor AddressPredictor
	store     DeploymentRecordStore
	locker    LeaseLocker
	admin     ProxyAdmin
	confirmer Confirmer
	sink      ProgressSink
	log       *slog.Logger
	now       func() time.Time
}

// NewSetExecutor creates a new SetExecutor use case
func NewSetExecutor(
	cfg *config.RuntimeConfig,
	chain ChainClient,
	predictor AddressPredictor,
	store DeploymentRecordStore,
	locker LeaseLocker,
	admin ProxyAdmin,
	confirmer Confirmer,
	sink ProgressSink,
	log *slog.Logger,
) *SetExecutor {
	return &SetExecutor{
		cfg:       cfg,
		chain:     chain,
		predictor: predictor,
		store:     store,
		locker:    locker,
		admin:     admin,
		confirmer: confirmer,
		sink:      sink,
		log:       log.With("component", "SetExecutor"),
		now:       time.Now,
	}
}

func (uc *SetExecutor) Run(ctx context.Context, params SetExecutorParams) (*SetExecutorResult, error) {
	network := uc.cfg.NetworkName
	contract := uc.cfg.Plan.Contract

	record, err := requireDeployment(ctx, uc.store, network, contract)
	if err != nil {
		return nil, err
	}
	proxy := record.Proxy.Address

	caller, err := uc.chain.SenderAddress(config.DeployerRole)
	if err != nil {
		return nil, err
	}

	lease, err := uc.locker.Acquire(ctx, LeaseKey{
		Network: network,
		Salt:    uc.predictor.Salt("executors/" + models.ContractKey(contract)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to acquire executor registry lease: %w", err)
	}
	defer func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			uc.log.Warn("Failed to release lease", "error", err)
		}
	}()

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "reading", Message: "Reading executor status", Spinner: true})
	current, err := uc.admin.IsExecutor(ctx, proxy, params.Executor)
	if err != nil {
		return nil, err
	}

	result := &SetExecutorResult{
		Proxy:    proxy,
		Executor: params.Executor,
		Status:   current,
	}

	if current != params.Status {
		prompt := fmt.Sprintf("Set executor %s to %t on %s?", params.Executor.Hex(), params.Status, network)
		if err := confirm(ctx, uc.sink, uc.confirmer, prompt); err != nil {
			return nil, err
		}

		uc.sink.OnProgress(ctx, ProgressEvent{Stage: "updating", Message: "Sending setExecutor", Spinner: true})
		txHash, err := uc.admin.SetExecutor(ctx, proxy, params.Executor, params.Status)
		if err != nil {
			return nil, err
		}
		result.TxHash = &txHash
		result.Changed = true

		readBack, err := uc.admin.IsExecutor(ctx, proxy, params.Executor)
		if err != nil {
			return nil, err
		}
		if readBack != params.Status {
			return nil, fmt.Errorf("executor %s status is still %t after transaction %s", params.Executor.Hex(), readBack, txHash.Hex())
		}
		result.Status = readBack
	} else {
		uc.log.Info("Executor already has requested status", "executor", params.Executor, "status", current)
	}

	registry, err := uc.store.GetExecutors(ctx, network, contract)
	if err != nil {
		return nil, err
	}
	if entry, ok := registry.Executors[params.Executor]; ok && entry.Status == result.Status && !result.Changed {
		result.Registry = registry
		return result, nil
	}

	registry, err = uc.store.UpdateExecutors(ctx, network, contract, func(r *models.ExecutorRegistry) error {
		r.Executors[params.Executor] = &models.ExecutorEntry{
			Status:    result.Status,
			UpdatedAt: uc.now().UTC(),
			UpdatedBy: caller,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update executor registry: %w", err)
	}
	result.Registry = registry

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "complete", Message: "Executor registry updated"})
	return result, nil
}

// ListExecutors returns the recorded executor registry for the planned contract
type ListExecutors struct {
	cfg   *config.RuntimeConfig
	store DeploymentRecordStore
}

// NewListExecutors creates a new ListExecutors use case
func NewListExecutors(cfg *config.RuntimeConfig, store DeploymentRecordStore) *ListExecutors {
	return &ListExecutors{cfg: cfg, store: store}
}

func (uc *ListExecutors) Run(ctx context.Context) (*models.ExecutorRegistry, error) {
	return uc.store.GetExecutors(ctx, uc.cfg.NetworkName, uc.cfg.Plan.Contract)
}
