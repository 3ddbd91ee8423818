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

// OwnershipCheck is the post-deployment view of the proxy's owner
type OwnershipCheck struct {
	Expected    common.Address
	Owner       common.Address
	Verified    bool
	Initialized bool   // initialize(owner) was sent to a pre-existing proxy
	Problem     string // set when ownership could not be confirmed
}

// DeployContractsResult reports both steps and the resulting record
type DeployContractsResult struct {
	Implementation *models.StepResult
	Proxy          *models.StepResult
	Ownership      OwnershipCheck
	Record         *models.DeploymentRecord
	RecordWritten  bool
}

// DeployContracts deploys the implementation and its ERC1967 proxy through the factory
type DeployContracts struct {
	cfg       *config.RuntimeConfig
	chain     ChainClient
	store     DeploymentRecordStore
	artifacts ArtifactLoader
	admin     ProxyAdmin
	steps     *stepRunner
	sink      ProgressSink
	log       *slog.Logger
	now       func() time.Time
}

// NewDeployContracts creates a new DeployContracts use case
func NewDeployContracts(
	cfg *config.RuntimeConfig,
	chain ChainClient,
	predictor AddressPredictor,
	executor DeploymentExecutor,
	store DeploymentRecordStore,
	artifacts ArtifactLoader,
	locker LeaseLocker,
	admin ProxyAdmin,
	metrics DeployMetrics,
	sink ProgressSink,
	log *slog.Logger,
) *DeployContracts {
	log = log.With("component", "DeployContracts")
	return &DeployContracts{
		cfg:       cfg,
		chain:     chain,
		store:     store,
		artifacts: artifacts,
		admin:     admin,
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

// Run deploys or reuses the implementation and proxy, then records the pair
func (uc *DeployContracts) Run(ctx context.Context) (*DeployContractsResult, error) {
	network := uc.cfg.NetworkName
	plan := uc.cfg.Plan

	factory, err := requireFactory(ctx, uc.store, network)
	if err != nil {
		return nil, err
	}

	caller, err := uc.chain.SenderAddress(config.DeployerRole)
	if err != nil {
		return nil, err
	}

	implArtifact, err := uc.artifacts.Load(ctx, plan.Implementation.Artifact)
	if err != nil {
		return nil, err
	}
	proxyArtifact, err := uc.artifacts.Load(ctx, plan.Proxy.Artifact)
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "implementation",
		Current: 1,
		Total:   2,
		Message: fmt.Sprintf("Deploying %s implementation", implArtifact.Name),
		Spinner: true,
	})
	impl, err := uc.steps.run(ctx, factory.FactoryAddress, caller, deployStep{
		name:     "implementation",
		label:    plan.Implementation.Salt,
		initCode: implArtifact.Bytecode,
	})
	if err != nil {
		return nil, err
	}

	initData, err := uc.admin.InitializerData(implArtifact, plan.Proxy.Initializer, caller)
	if err != nil {
		return nil, fmt.Errorf("failed to encode proxy initializer: %w", err)
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "proxy",
		Current: 2,
		Total:   2,
		Message: fmt.Sprintf("Deploying %s proxy", proxyArtifact.Name),
		Spinner: true,
	})
	proxy, err := uc.steps.run(ctx, factory.FactoryAddress, caller, deployStep{
		name:     "proxy",
		label:    plan.Proxy.Salt,
		initCode: uc.admin.ProxyInitCode(proxyArtifact.Bytecode, impl.Address, initData),
	})
	if err != nil {
		return nil, err
	}

	result := &DeployContractsResult{
		Implementation: impl,
		Proxy:          proxy,
		Ownership:      uc.verifyOwnership(ctx, proxy, caller),
	}

	record, written, err := uc.saveRecord(ctx, factory.FactoryAddress, impl, proxy, result.Ownership)
	if err != nil {
		return nil, err
	}
	result.Record = record
	result.RecordWritten = written

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "complete", Message: "Contracts deployed"})
	return result, nil
}

// verifyOwnership never fails the run. A pre-existing proxy that can't answer
// owner() is assumed uninitialized and gets initialize(caller).
func (uc *DeployContracts) verifyOwnership(ctx context.Context, proxy *models.StepResult, caller common.Address) OwnershipCheck {
	check := OwnershipCheck{Expected: caller}

	owner, err := uc.admin.Owner(ctx, proxy.Address)
	if err != nil && proxy.Outcome == models.OutcomeSkipped {
		uc.log.Warn("owner() failed on existing proxy, attempting initialize", "proxy", proxy.Address, "error", err)
		if _, ierr := uc.admin.Initialize(ctx, proxy.Address, caller); ierr != nil {
			check.Problem = fmt.Sprintf("initialize failed: %v", ierr)
			uc.log.Warn("Initialize failed", "proxy", proxy.Address, "error", ierr)
			return check
		}
		check.Initialized = true
		owner, err = uc.admin.Owner(ctx, proxy.Address)
	}
	if err != nil {
		check.Problem = err.Error()
		uc.log.Warn("Could not verify proxy owner", "proxy", proxy.Address, "error", err)
		return check
	}

	check.Owner = owner
	if owner != caller {
		check.Problem = fmt.Sprintf("proxy owner is %s, expected %s", owner.Hex(), caller.Hex())
		uc.log.Warn("Proxy owner differs from deployer", "proxy", proxy.Address, "owner", owner, "expected", caller)
		return check
	}
	check.Verified = true
	return check
}

// saveRecord writes the deployment record unless the stored one already
// describes this proxy. An upgraded record for the same proxy is kept as is.
func (uc *DeployContracts) saveRecord(
	ctx context.Context,
	factory common.Address,
	impl, proxy *models.StepResult,
	ownership OwnershipCheck,
) (*models.DeploymentRecord, bool, error) {
	network := uc.cfg.NetworkName
	contract := uc.cfg.Plan.Contract

	existing, err := uc.store.GetDeployment(ctx, network, contract)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}

	owner := ownership.Expected
	if ownership.Owner != (common.Address{}) {
		owner = ownership.Owner
	}

	if existing != nil && existing.FactoryAddress == factory && existing.Proxy.Address == proxy.Address {
		sameImpl := existing.Implementation.Address == impl.Address
		if existing.Upgraded() || (sameImpl && existing.Owner == owner) {
			uc.log.Info("Deployment record unchanged", "network", network, "contract", contract)
			return existing, false, nil
		}
	}

	record := &models.DeploymentRecord{
		Network:        network,
		Contract:       contract,
		FactoryAddress: factory,
		Implementation: models.SaltedAddress{
			Address:    impl.Address,
			SaltString: impl.SaltLabel,
			Salt:       impl.Salt,
		},
		Proxy: models.SaltedAddress{
			Address:    proxy.Address,
			SaltString: proxy.SaltLabel,
			Salt:       proxy.Salt,
		},
		Owner:          owner,
		DeploymentDate: uc.now().UTC(),
	}
	if existing != nil {
		record.Version = existing.Version
	}

	if err := uc.store.SaveDeployment(ctx, record); err != nil {
		return nil, false, fmt.Errorf("failed to save deployment record: %w", err)
	}
	uc.log.Info("Deployment record saved", "path", uc.store.Path(models.DeploymentRecordKind, network, contract))
	return record, true, nil
}
