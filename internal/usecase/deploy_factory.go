package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/c2d/internal/domain"
	"github.com/trebuchet-org/c2d/internal/domain/config"
	"github.com/trebuchet-org/c2d/internal/domain/models"
)

// factoryLeaseLabel keys the lease held while the factory is deployed
const factoryLeaseLabel = "C2D_FACTORY"

// DeployFactoryResult reports the factory record and whether it was deployed now
type DeployFactoryResult struct {
	Record  *models.FactoryRecord
	Outcome models.DeployOutcome
	TxHash  *common.Hash
}

// DeployFactory deploys the CREATE2 factory with a plain CREATE transaction
type DeployFactory struct {
	cfg       *config.RuntimeConfig
	chain     ChainClient
	predictor AddressPredictor
	store     DeploymentRecordStore
	artifacts ArtifactLoader
	locker    LeaseLocker
	metrics   DeployMetrics
	sink      ProgressSink
	log       *slog.Logger
	now       func() time.Time
}

// NewDeployFactory creates a new DeployFactory use case
func NewDeployFactory(
	cfg *config.RuntimeConfig,
	chain ChainClient,
	predictor AddressPredictor,
	store DeploymentRecordStore,
	artifacts ArtifactLoader,
	locker LeaseLocker,
	metrics DeployMetrics,
	sink ProgressSink,
	log *slog.Logger,
) *DeployFactory {
	return &DeployFactory{
		cfg:       cfg,
		chain:     chain,
		predictor: predictor,
		store:     store,
		artifacts: artifacts,
		locker:    locker,
		metrics:   metrics,
		sink:      sink,
		log:       log.With("component", "DeployFactory"),
		now:       time.Now,
	}
}

// Run deploys the factory unless a recorded factory already has code on chain
func (uc *DeployFactory) Run(ctx context.Context) (*DeployFactoryResult, error) {
	network := uc.cfg.NetworkName

	lease, err := uc.locker.Acquire(ctx, LeaseKey{Network: network, Salt: uc.predictor.Salt(factoryLeaseLabel)})
	if err != nil {
		return nil, fmt.Errorf("failed to acquire factory lease: %w", err)
	}
	defer func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			uc.log.Warn("Failed to release lease", "error", err)
		}
	}()

	existing, err := uc.store.GetFactory(ctx, network)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		uc.sink.OnProgress(ctx, ProgressEvent{
			Stage:   "checking",
			Message: fmt.Sprintf("Checking factory at %s", existing.FactoryAddress.Hex()),
			Spinner: true,
		})
		exists, err := uc.chain.HasCode(ctx, existing.FactoryAddress)
		if err != nil {
			return nil, fmt.Errorf("failed to check factory code: %w", err)
		}
		if exists {
			uc.metrics.ObserveDeployment("factory", models.OutcomeSkipped)
			uc.log.Info("Factory already deployed, skipping", "address", existing.FactoryAddress)
			return &DeployFactoryResult{Record: existing, Outcome: models.OutcomeSkipped}, nil
		}
		uc.log.Warn("Recorded factory has no code, redeploying", "address", existing.FactoryAddress)
	}

	artifact, err := uc.artifacts.Load(ctx, uc.cfg.Plan.Factory.Artifact)
	if err != nil {
		return nil, err
	}

	deployer, err := uc.chain.SenderAddress(config.FactoryRole)
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "deploying",
		Message: fmt.Sprintf("Deploying %s", artifact.Name),
		Spinner: true,
	})

	txHash, err := uc.chain.SubmitTransaction(ctx, TxRequest{
		Role:     config.FactoryRole,
		Data:     artifact.Bytecode,
		GasLimit: uc.cfg.Deploy.GasLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit factory deployment: %w", err)
	}

	receipt, err := uc.chain.WaitForReceipt(ctx, txHash)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, &domain.ReceiptUnavailableError{TxHash: txHash}
	}
	if receipt.ContractAddress == (common.Address{}) {
		return nil, fmt.Errorf("factory deployment %s has no contract address in its receipt", txHash.Hex())
	}

	record := &models.FactoryRecord{
		Network:        network,
		FactoryAddress: receipt.ContractAddress,
		DeployedBy:     deployer,
		DeployedAt:     uc.now().UTC(),
		TxHash:         &txHash,
	}
	if existing != nil {
		record.Version = existing.Version
	}
	if err := uc.store.SaveFactory(ctx, record); err != nil {
		return nil, fmt.Errorf("factory deployed at %s but the record could not be saved: %w", record.FactoryAddress.Hex(), err)
	}

	uc.metrics.ObserveDeployment("factory", models.OutcomeDeployed)
	uc.log.Info("Factory deployed", "address", record.FactoryAddress, "tx", txHash)
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "complete", Message: "Factory deployed"})

	return &DeployFactoryResult{Record: record, Outcome: models.OutcomeDeployed, TxHash: &txHash}, nil
}
