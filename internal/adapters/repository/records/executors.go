package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/c2d/internal/domain"
	"github.com/trebuchet-org/c2d/internal/domain/models"
)

// ExecutorsVersionSuffix names the sidecar holding the registry version. The
// registry file itself is a flat address -> entry map.
const ExecutorsVersionSuffix = ".version"

type registryVersion struct {
	Version uint64 `json:"version"`
}

// GetExecutors loads the executor registry, returning an empty one if none exists.
// A registry file without a sidecar is at version 0.
func (s *FileStore) GetExecutors(ctx context.Context, network, contract string) (*models.ExecutorRegistry, error) {
	registry := models.NewExecutorRegistry(network, contract)
	path := s.Path(models.ExecutorsRecordKind, network, contract)

	if err := s.loadFile(path, &registry.Executors); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if registry.Executors == nil {
		registry.Executors = make(map[common.Address]*models.ExecutorEntry)
	}

	var version registryVersion
	if err := s.loadFile(path+ExecutorsVersionSuffix, &version); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	registry.Version = version.Version
	return registry, nil
}

// UpdateExecutors applies update to the registry under the store lock and
// writes the result atomically. Nothing is written if update fails.
func (s *FileStore) UpdateExecutors(ctx context.Context, network, contract string, update func(*models.ExecutorRegistry) error) (*models.ExecutorRegistry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	registry, err := s.GetExecutors(ctx, network, contract)
	if err != nil {
		return nil, err
	}
	read := registry.Version

	if err := update(registry); err != nil {
		return nil, err
	}

	path := s.Path(models.ExecutorsRecordKind, network, contract)
	if err := s.checkVersion(path+ExecutorsVersionSuffix, read); err != nil {
		return nil, err
	}

	registry.Network = network
	registry.Contract = contract
	registry.Version = read + 1
	if err := s.saveFile(path, registry.Executors); err != nil {
		return nil, fmt.Errorf("failed to save executor registry: %w", err)
	}
	if err := s.saveFile(path+ExecutorsVersionSuffix, &registryVersion{Version: registry.Version}); err != nil {
		return nil, fmt.Errorf("failed to save executor registry version: %w", err)
	}
	return registry, nil
}
