package models

import (
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ExecutorEntry is the last known permission state for one executor address
type ExecutorEntry struct {
	Status    bool           `json:"status"`
	UpdatedAt time.Time      `json:"updatedAt"`
	UpdatedBy common.Address `json:"updatedBy"`
}

// ExecutorRegistry holds every executor entry for a contract on a network
type ExecutorRegistry struct {
	Network   string                            `json:"network"`
	Contract  string                            `json:"contract"`
	Executors map[common.Address]*ExecutorEntry `json:"executors"`
	Version   uint64                            `json:"version"`
}

// NewExecutorRegistry returns an empty registry
func NewExecutorRegistry(network, contract string) *ExecutorRegistry {
	return &ExecutorRegistry{
		Network:   network,
		Contract:  contract,
		Executors: make(map[common.Address]*ExecutorEntry),
	}
}

// Addresses returns executor addresses in a stable order
func (r *ExecutorRegistry) Addresses() []common.Address {
	out := make([]common.Address, 0, len(r.Executors))
	for addr := range r.Executors {
		out = append(out, addr)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Cmp(out[j]) < 0
	})
	return out
}
