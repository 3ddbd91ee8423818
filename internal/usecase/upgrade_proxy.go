package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/c2d/internal/domain"
	"github.com/trebuchet-org/c2d/internal/domain/config"
	"github.com/trebuchet-org/c2d/internal/domain/models"
)

// Upgrade outcomes reported to metrics
const (
	UpgradeOutcomeUpgraded = "upgraded"
	UpgradeOutcomeCurrent  = "current"
	UpgradeOutcomeRefused  = "refused"
	UpgradeOutcomeFailed   = "failed"
)

// UpgradeProxyResult describes what an upgrade did
type UpgradeProxyResult struct {
	Previous       *models.DeploymentRecord
	Record         *models.DeploymentRecord
	Implementation *models.StepResult
	UpgradeTxHash  *common.Hash
	RecordWritten  bool
	HistoryPath    string
}

// UpgradeProxy deploys a new implementation and repoints the recorded proxy at it
type UpgradeProxy struct {
	cfg       *config.RuntimeConfig
	chain     ChainClient
	store     DeploymentRecordStore
	artifacts ArtifactLoader
	admin     ProxyAdmin
	confirmer Confirmer
	metrics   DeployMetrics
	steps     *stepRunner
	sink      ProgressSink
	log       *slog.Logger
	now       func() time.Time
}

// NewUpgradeProxy creates a new UpgradeProxy use case
func NewUpgradeProxy(
	cfg *config.RuntimeConfig,
	chain ChainClient,
	predictor AddressPredictor,
	executor DeploymentExecutor,
	store DeploymentRecordStore,
	artifacts ArtifactLoader,
	locker LeaseLocker,
	admin ProxyAdmin,
	confirmer Confirmer,
	metrics DeployMetrics,
	sink ProgressSink,
	log *slog.Logger,
) *UpgradeProxy {
	log = log.With("component", "UpgradeProxy")
	return &UpgradeProxy{
		cfg:       cfg,
		chain:     chain,
		store:     store,
		artifacts: artifacts,
		admin:     admin,
		confirmer: confirmer,
		metrics:   metrics,
		steps: &stepRunner{
			cfg:       cfg,
			predictor: predictor,
			chain:     chain,
			executor:  executor,
			locker:    locker,
			metrics:   metrics,
			log:       log,
		},
		sink: sink,
		log:  log,
		now:  time.Now,
	}
}

// Run loads the current record and the upgrade artifact from the plan and upgrades
func (uc *UpgradeProxy) Run(ctx context.Context) (*UpgradeProxyResult, error) {
	plan := uc.cfg.Plan

	existing, err := requireDeployment(ctx, uc.store, uc.cfg.NetworkName, plan.Contract)
	if err != nil {
		return nil, err
	}

	artifact, err := uc.artifacts.Load(ctx, plan.Upgrade.Artifact)
	if err != nil {
		return nil, err
	}

	return uc.Upgrade(ctx, existing, artifact.Bytecode, plan.Upgrade.Salt)
}

// Upgrade supersedes existing with a record pointing at newInitCode deployed
// under saltLabel. The caller must own the proxy; nothing is sent otherwise.
// The record and its history entry are written only after upgradeTo is included.
func (uc *UpgradeProxy) Upgrade(ctx context.Context, existing *models.DeploymentRecord, newInitCode []byte, saltLabel string) (*UpgradeProxyResult, error) {
	proxy := existing.Proxy.Address

	caller, err := uc.chain.SenderAddress(config.DeployerRole)
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "ownership", Message: "Verifying proxy ownership", Spinner: true})
	owner, err := uc.admin.Owner(ctx, proxy)
	if err != nil {
		uc.metrics.ObserveUpgrade(UpgradeOutcomeFailed)
		return nil, err
	}
	if owner != caller {
		uc.metrics.ObserveUpgrade(UpgradeOutcomeRefused)
		return nil, &domain.OwnershipRefusedError{Proxy: proxy, Owner: owner, Caller: caller}
	}

	if err := confirm(ctx, uc.sink, uc.confirmer, fmt.Sprintf("Upgrade proxy %s on %s?", proxy.Hex(), uc.cfg.NetworkName)); err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "implementation", Message: "Deploying new implementation", Spinner: true})
	impl, err := uc.steps.run(ctx, existing.FactoryAddress, caller, deployStep{
		name:     "upgrade",
		label:    saltLabel,
		initCode: newInitCode,
	})
	if err != nil {
		uc.metrics.ObserveUpgrade(UpgradeOutcomeFailed)
		return nil, err
	}

	result := &UpgradeProxyResult{
		Previous:       existing,
		Record:         existing,
		Implementation: impl,
	}

	current, err := uc.admin.Implementation(ctx, proxy)
	if err != nil {
		uc.metrics.ObserveUpgrade(UpgradeOutcomeFailed)
		return nil, err
	}

	if current == impl.Address {
		uc.log.Info("Proxy already points at the new implementation", "proxy", proxy, "implementation", impl.Address)
	} else {
		uc.sink.OnProgress(ctx, ProgressEvent{Stage: "upgrade", Message: "Upgrading proxy", Spinner: true})
		txHash, err := uc.admin.UpgradeTo(ctx, proxy, impl.Address)
		if err != nil {
			uc.metrics.ObserveUpgrade(UpgradeOutcomeFailed)
			return nil, err
		}
		result.UpgradeTxHash = &txHash
	}

	if existing.Implementation.Address == impl.Address {
		uc.metrics.ObserveUpgrade(UpgradeOutcomeCurrent)
		uc.log.Info("Deployment record already reflects the upgrade", "contract", existing.Contract)
		return result, nil
	}

	next := uc.supersede(existing, impl)
	if err := uc.store.SaveDeployment(ctx, next); err != nil {
		uc.metrics.ObserveUpgrade(UpgradeOutcomeFailed)
		return nil, fmt.Errorf("proxy upgraded but the record could not be saved: %w", err)
	}
	result.Record = next
	result.RecordWritten = true

	path, err := uc.store.AppendHistory(ctx, &models.UpgradeHistoryEntry{
		Network:       next.Network,
		Contract:      next.Contract,
		Previous:      existing,
		Next:          next,
		UpgradeTxHash: result.UpgradeTxHash,
		RecordedAt:    *next.UpgradeDate,
	})
	if err != nil {
		uc.metrics.ObserveUpgrade(UpgradeOutcomeFailed)
		return result, fmt.Errorf("record saved but history entry failed: %w", err)
	}
	result.HistoryPath = path

	if result.UpgradeTxHash != nil {
		uc.metrics.ObserveUpgrade(UpgradeOutcomeUpgraded)
	} else {
		uc.metrics.ObserveUpgrade(UpgradeOutcomeCurrent)
	}
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "complete", Message: "Proxy upgraded"})
	return result, nil
}

// supersede derives the next record. The existing record is left untouched.
func (uc *UpgradeProxy) supersede(existing *models.DeploymentRecord, impl *models.StepResult) *models.DeploymentRecord {
	next := existing.Clone()

	previous := existing.Implementation.Address
	salt := impl.Salt
	upgradedAt := uc.now().UTC()

	next.PreviousImplementationAddress = &previous
	next.Implementation = models.SaltedAddress{
		Address:    impl.Address,
		SaltString: impl.SaltLabel,
		Salt:       impl.Salt,
	}
	next.ImplementationSalt = &salt
	next.UpgradeDate = &upgradedAt
	return next
}
