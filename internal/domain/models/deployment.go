package models

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// RecordKind identifies a persisted artifact type within a network
type RecordKind string

const (
	FactoryRecordKind    RecordKind = "factory"
	DeploymentRecordKind RecordKind = "deployment"
	ExecutorsRecordKind  RecordKind = "executors"
	HistoryRecordKind    RecordKind = "history"
)

// SaltedAddress is a CREATE2 deployment together with the salt that placed it
type SaltedAddress struct {
	Address    common.Address `json:"address"`
	SaltString string         `json:"saltString"` // label hashed into Salt
	Salt       common.Hash    `json:"salt"`
}

// DeploymentRecord describes the implementation/proxy pair deployed on a network.
// Records are superseded by upgrades, never edited in place.
type DeploymentRecord struct {
	Network        string         `json:"network"`
	Contract       string         `json:"contract"`
	FactoryAddress common.Address `json:"factoryAddress"`
	Implementation SaltedAddress  `json:"implementation"`
	Proxy          SaltedAddress  `json:"proxy"`
	Owner          common.Address `json:"owner"`
	DeploymentDate time.Time      `json:"deploymentDate"`

	// Set once the proxy has been upgraded
	PreviousImplementationAddress *common.Address `json:"previousImplementationAddress,omitempty"`
	ImplementationSalt            *common.Hash    `json:"implementationSalt,omitempty"`
	UpgradeDate                   *time.Time      `json:"upgradeDate,omitempty"`

	// Store version, incremented on every write
	Version uint64 `json:"version"`
}

// Upgraded reports whether the record has been superseded by at least one upgrade
func (r *DeploymentRecord) Upgraded() bool {
	return r.PreviousImplementationAddress != nil
}

// Clone returns a deep copy of the record
func (r *DeploymentRecord) Clone() *DeploymentRecord {
	if r == nil {
		return nil
	}
	c := *r
	if r.PreviousImplementationAddress != nil {
		prev := *r.PreviousImplementationAddress
		c.PreviousImplementationAddress = &prev
	}
	if r.ImplementationSalt != nil {
		salt := *r.ImplementationSalt
		c.ImplementationSalt = &salt
	}
	if r.UpgradeDate != nil {
		date := *r.UpgradeDate
		c.UpgradeDate = &date
	}
	return &c
}

// ContractKey normalizes a contract name for file names and lease keys
func ContractKey(contract string) string {
	return strings.ToLower(strings.TrimSpace(contract))
}
