package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/c2d/internal/domain"
	"github.com/trebuchet-org/c2d/internal/domain/config"
	"github.com/trebuchet-org/c2d/internal/domain/models"
)

// PredictAddressesParams contains parameters for address prediction
type PredictAddressesParams struct {
	// Optional overrides; by default the recorded factory and the configured deployer are used
	Factory *common.Address
	Caller  *common.Address

	// Cross-check against chain state and the factory's getDeployed
	OnChain bool
}

// PredictedAddress is the prediction for one planned deployment
type PredictedAddress struct {
	Name          string
	SaltLabel     string
	Salt          common.Hash
	EffectiveSalt common.Hash
	BytecodeHash  common.Hash
	Address       common.Address

	// Populated with OnChain
	Deployed       *bool
	FactoryAddress *common.Address // getDeployed answer
	FactoryError   string
}

// FactoryMismatch reports whether the factory disagreed with the local prediction
func (p *PredictedAddress) FactoryMismatch() bool {
	return p.FactoryAddress != nil && *p.FactoryAddress != p.Address
}

// PredictAddressesResult holds predictions for every planned step
type PredictAddressesResult struct {
	Network   string
	Factory   common.Address
	Caller    common.Address
	Scheme    config.AddressScheme
	Addresses []*PredictedAddress
}

// PredictAddresses computes where the plan's contracts will be deployed
type PredictAddresses struct {
	cfg       *config.RuntimeConfig
	predictor AddressPredictor
	store     DeploymentRecordStore
	artifacts ArtifactLoader
	admin     ProxyAdmin
	chain     ChainClient
	factory   FactoryReader
}

// NewPredictAddresses creates a new PredictAddresses use case
func NewPredictAddresses(
	cfg *config.RuntimeConfig,
	predictor AddressPredictor,
	store DeploymentRecordStore,
	artifacts ArtifactLoader,
	admin ProxyAdmin,
	chain ChainClient,
	factory FactoryReader,
) *PredictAddresses {
	return &PredictAddresses{
		cfg:       cfg,
		predictor: predictor,
		store:     store,
		artifacts: artifacts,
		admin:     admin,
		chain:     chain,
		factory:   factory,
	}
}

// Run predicts the implementation, proxy and upgrade addresses. Without
// OnChain it performs no RPC calls.
func (uc *PredictAddresses) Run(ctx context.Context, params PredictAddressesParams) (*PredictAddressesResult, error) {
	plan := uc.cfg.Plan
	network := uc.cfg.NetworkName

	var factory common.Address
	if params.Factory != nil {
		factory = *params.Factory
	} else {
		record, err := requireFactory(ctx, uc.store, network)
		if err != nil {
			return nil, err
		}
		factory = record.FactoryAddress
	}

	var caller common.Address
	if params.Caller != nil {
		caller = *params.Caller
	} else {
		addr, err := uc.chain.SenderAddress(config.DeployerRole)
		if err != nil {
			return nil, err
		}
		caller = addr
	}

	implArtifact, err := uc.artifacts.Load(ctx, plan.Implementation.Artifact)
	if err != nil {
		return nil, err
	}
	proxyArtifact, err := uc.artifacts.Load(ctx, plan.Proxy.Artifact)
	if err != nil {
		return nil, err
	}

	result := &PredictAddressesResult{
		Network: network,
		Factory: factory,
		Caller:  caller,
	}
	if s, ok := uc.predictor.(interface{ Scheme() config.AddressScheme }); ok {
		result.Scheme = s.Scheme()
	}

	impl := uc.predict(factory, caller, "implementation", plan.Implementation.Salt, implArtifact.Bytecode)
	result.Addresses = append(result.Addresses, impl)

	initData, err := uc.admin.InitializerData(implArtifact, plan.Proxy.Initializer, caller)
	if err != nil {
		return nil, fmt.Errorf("failed to encode proxy initializer: %w", err)
	}
	proxyCode := uc.admin.ProxyInitCode(proxyArtifact.Bytecode, impl.Address, initData)
	result.Addresses = append(result.Addresses, uc.predict(factory, caller, "proxy", plan.Proxy.Salt, proxyCode))

	upgradeArtifact, err := uc.artifacts.Load(ctx, plan.Upgrade.Artifact)
	switch {
	case err == nil:
		result.Addresses = append(result.Addresses, uc.predict(factory, caller, "upgrade", plan.Upgrade.Salt, upgradeArtifact.Bytecode))
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	if params.OnChain {
		for _, p := range result.Addresses {
			if err := uc.crossCheck(ctx, factory, caller, p); err != nil {
				return nil, err
			}
		}
	}

	return result, nil
}

func (uc *PredictAddresses) predict(factory, caller common.Address, name, label string, initCode []byte) *PredictedAddress {
	salt := uc.predictor.Salt(label)
	hash := uc.predictor.BytecodeHash(initCode)
	return &PredictedAddress{
		Name:          name,
		SaltLabel:     label,
		Salt:          salt,
		EffectiveSalt: uc.predictor.EffectiveSalt(caller, salt),
		BytecodeHash:  hash,
		Address:       uc.predictor.Predict(models.DeployerIdentity{Factory: factory, Caller: caller}, salt, hash),
	}
}

// crossCheck records code presence and the factory's own answer. Factories
// without getDeployed are reported, not treated as failures.
func (uc *PredictAddresses) crossCheck(ctx context.Context, factory, caller common.Address, p *PredictedAddress) error {
	deployed, err := uc.chain.HasCode(ctx, p.Address)
	if err != nil {
		return fmt.Errorf("failed to check code at %s: %w", p.Address.Hex(), err)
	}
	p.Deployed = &deployed

	addr, err := uc.factory.GetDeployed(ctx, factory, caller, p.Salt, p.BytecodeHash)
	if err != nil {
		p.FactoryError = err.Error()
		return nil
	}
	p.FactoryAddress = &addr
	return nil
}
