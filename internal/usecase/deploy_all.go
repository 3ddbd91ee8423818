package usecase

import (
	"context"
)

// DeployAllResult combines the factory and contract results
type DeployAllResult struct {
	Factory   *DeployFactoryResult
	Contracts *DeployContractsResult
}

// DeployAll runs the factory and contract deployments in order
type DeployAll struct {
	factory   *DeployFactory
	contracts *DeployContracts
}

// NewDeployAll creates a new DeployAll use case
func NewDeployAll(factory *DeployFactory, contracts *DeployContracts) *DeployAll {
	return &DeployAll{factory: factory, contracts: contracts}
}

func (uc *DeployAll) Run(ctx context.Context) (*DeployAllResult, error) {
	factory, err := uc.factory.Run(ctx)
	if err != nil {
		return nil, err
	}
	contracts, err := uc.contracts.Run(ctx)
	if err != nil {
		return &DeployAllResult{Factory: factory}, err
	}
	return &DeployAllResult{Factory: factory, Contracts: contracts}, nil
}
