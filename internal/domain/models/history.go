package models

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// UpgradeHistoryEntry is an immutable snapshot written once per upgrade
type UpgradeHistoryEntry struct {
	Network       string            `json:"network"`
	Contract      string            `json:"contract"`
	Previous      *DeploymentRecord `json:"previous"`
	Next          *DeploymentRecord `json:"next"`
	UpgradeTxHash *common.Hash      `json:"upgradeTxHash,omitempty"`
	RecordedAt    time.Time         `json:"recordedAt"`

	// File the entry was read from; not persisted
	Path string `json:"-"`
}
