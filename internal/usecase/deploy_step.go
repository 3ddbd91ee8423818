package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/c2d/internal/domain"
	"github.com/trebuchet-org/c2d/internal/domain/config"
	"github.com/trebuchet-org/c2d/internal/domain/models"
)

// deployStep is one deterministic deployment: init code placed under a salt label
type deployStep struct {
	name     string
	label    string
	initCode []byte
}

// stepRunner performs the check-then-deploy sequence shared by every flow.
// The lease for (network, salt) is held from the code check until the
// deployment is included.
type stepRunner struct {
	cfg       *config.RuntimeConfig
	predictor AddressPredictor
	chain     ChainProbe
	executor  DeploymentExecutor
	locker    LeaseLocker
	metrics   DeployMetrics
	log       *slog.Logger
}

func (r *stepRunner) run(ctx context.Context, factory, caller common.Address, step deployStep) (*models.StepResult, error) {
	salt := r.predictor.Salt(step.label)
	identity := models.DeployerIdentity{Factory: factory, Caller: caller}
	predicted := r.predictor.Predict(identity, salt, r.predictor.BytecodeHash(step.initCode))

	lease, err := r.locker.Acquire(ctx, LeaseKey{Network: r.cfg.NetworkName, Salt: salt})
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lease for %s: %w", step.name, err)
	}
	defer func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			r.log.Warn("Failed to release lease", "step", step.name, "error", err)
		}
	}()

	result := &models.StepResult{
		Name:      step.name,
		SaltLabel: step.label,
		Salt:      salt,
		Predicted: predicted,
	}

	exists, err := r.chain.HasCode(ctx, predicted)
	if err != nil {
		return nil, fmt.Errorf("failed to check code at %s: %w", predicted.Hex(), err)
	}
	if exists {
		result.Address = predicted
		result.Outcome = models.OutcomeSkipped
		result.Source = models.AddressFromChain
		r.metrics.ObserveDeployment(step.name, models.OutcomeSkipped)
		r.log.Info("Already deployed, skipping", "step", step.name, "address", predicted)
		return result, nil
	}

	deployed, err := r.executor.Deploy(ctx, DeployRequest{
		Factory:  factory,
		Caller:   caller,
		Salt:     salt,
		InitCode: step.initCode,
		GasLimit: r.cfg.Deploy.GasLimit,
	})
	if err != nil {
		if deployed != nil && errors.Is(err, domain.ErrAddressMismatch) {
			r.metrics.ObserveDeployment(step.name, models.OutcomeDeployed)
		}
		return nil, fmt.Errorf("failed to deploy %s: %w", step.name, err)
	}

	txHash := deployed.TxHash
	result.Address = deployed.Address
	result.Outcome = models.OutcomeDeployed
	result.Source = deployed.Source
	result.TxHash = &txHash
	result.Mismatch = deployed.Mismatch
	r.metrics.ObserveDeployment(step.name, models.OutcomeDeployed)
	r.log.Info("Deployed", "step", step.name, "address", deployed.Address, "tx", txHash)

	return result, nil
}

// requireFactory loads the factory record or reports it as a missing precursor
func requireFactory(ctx context.Context, store DeploymentRecordStore, network string) (*models.FactoryRecord, error) {
	record, err := store.GetFactory(ctx, network)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, &domain.PrecursorMissingError{
			Kind:    string(models.FactoryRecordKind),
			Network: network,
			Path:    store.Path(models.FactoryRecordKind, network, ""),
		}
	}
	return record, err
}

// requireDeployment loads the deployment record or reports it as a missing precursor
func requireDeployment(ctx context.Context, store DeploymentRecordStore, network, contract string) (*models.DeploymentRecord, error) {
	record, err := store.GetDeployment(ctx, network, contract)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, &domain.PrecursorMissingError{
			Kind:    string(models.DeploymentRecordKind),
			Network: network,
			Path:    store.Path(models.DeploymentRecordKind, network, contract),
		}
	}
	return record, err
}

// confirm stops any running spinner before asking
func confirm(ctx context.Context, sink ProgressSink, confirmer Confirmer, prompt string) error {
	sink.OnProgress(ctx, ProgressEvent{Stage: "confirm"})
	ok, err := confirmer.Confirm(ctx, prompt)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrCancelled
	}
	return nil
}
