package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/trebuchet-org/c2d/internal/domain"
	"github.com/trebuchet-org/c2d/internal/domain/config"
	"github.com/trebuchet-org/c2d/internal/domain/models"
)

// ShowRecordResult gathers everything recorded for a contract on a network.
// Missing records are left nil.
type ShowRecordResult struct {
	Network    string
	Contract   string
	Factory    *models.FactoryRecord
	Deployment *models.DeploymentRecord
	Executors  *models.ExecutorRegistry
	History    []*models.UpgradeHistoryEntry
}

// ShowRecord is the use case for inspecting persisted records
type ShowRecord struct {
	cfg   *config.RuntimeConfig
	store DeploymentRecordStore
	sink  ProgressSink
}

// NewShowRecord creates a new ShowRecord use case
func NewShowRecord(cfg *config.RuntimeConfig, store DeploymentRecordStore, sink ProgressSink) *ShowRecord {
	return &ShowRecord{cfg: cfg, store: store, sink: sink}
}

// Run loads the factory, deployment, executor and history records
func (uc *ShowRecord) Run(ctx context.Context) (*ShowRecordResult, error) {
	network := uc.cfg.NetworkName
	contract := uc.cfg.Plan.Contract

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading records",
		Spinner: true,
	})

	result := &ShowRecordResult{Network: network, Contract: contract}

	factory, err := uc.store.GetFactory(ctx, network)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	result.Factory = factory

	deployment, err := uc.store.GetDeployment(ctx, network, contract)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	result.Deployment = deployment

	if result.Factory == nil && result.Deployment == nil {
		return nil, fmt.Errorf("no records for network %s: %w", network, domain.ErrNotFound)
	}

	if result.Executors, err = uc.store.GetExecutors(ctx, network, contract); err != nil {
		return nil, err
	}
	if result.History, err = uc.store.ListHistory(ctx, network, contract); err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "complete", Message: "Records loaded"})
	return result, nil
}
