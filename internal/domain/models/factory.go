package models

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// FactoryRecord tracks the deterministic deployment factory on a network
type FactoryRecord struct {
	Network        string         `json:"network"`
	FactoryAddress common.Address `json:"factoryAddress"`
	DeployedBy     common.Address `json:"deployedBy"`
	DeployedAt     time.Time      `json:"deployedAt"`
	TxHash         *common.Hash   `json:"txHash,omitempty"`
	Version        uint64         `json:"version"`
}
