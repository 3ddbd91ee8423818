package models

import (
	"github.com/ethereum/go-ethereum/common"
)

// DeployerIdentity is the (factory, caller) pair a deterministic address depends on
type DeployerIdentity struct {
	Factory common.Address
	Caller  common.Address
}

// AddressSource records where a deployed address was taken from
type AddressSource string

const (
	AddressFromEvent     AddressSource = "event"
	AddressFromPredicted AddressSource = "predicted"
	AddressFromChain     AddressSource = "existing"
)

// DeployOutcome says whether a step sent a transaction or reused existing code
type DeployOutcome string

const (
	OutcomeDeployed DeployOutcome = "deployed"
	OutcomeSkipped  DeployOutcome = "skipped"
)

// DeployResult is what the deployment executor reports for one CREATE2 deployment
type DeployResult struct {
	Address   common.Address
	Predicted common.Address
	TxHash    common.Hash
	Source    AddressSource
	Mismatch  bool
}

// StepResult describes one deploy-or-skip step of a deployment flow
type StepResult struct {
	Name      string
	SaltLabel string
	Salt      common.Hash
	Address   common.Address
	Predicted common.Address
	Outcome   DeployOutcome
	Source    AddressSource
	TxHash    *common.Hash
	Mismatch  bool
}
