package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
	"github.com/trebuchet-org/c2d/internal/domain"
	"github.com/trebuchet-org/c2d/internal/domain/config"
	"github.com/trebuchet-org/c2d/internal/domain/models"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

const (
	FactoryFilePattern    = "create2-factory-%s.json"
	DeploymentFilePattern = "%s-create2-%s.json"
	ExecutorsFilePattern  = "%s-executors-%s.json"
	HistoryFilePrefix     = "%s-upgrade-history-%s-"
)

// FileStore keeps records as JSON files keyed by (network, kind, contract).
// Every record carries a version; writes must present the version they read.
type FileStore struct {
	fs  afero.Fs
	dir string
	now func() time.Time
	log *slog.Logger
	mu  sync.Mutex
}

// NewFileStore creates a store rooted at dir
func NewFileStore(afs afero.Fs, dir string, log *slog.Logger) *FileStore {
	return &FileStore{
		fs:  afs,
		dir: dir,
		now: time.Now,
		log: log.With("component", "RecordStore"),
	}
}

// ProvideFileStore creates the store in the configured deployments directory
func ProvideFileStore(cfg *config.RuntimeConfig, afs afero.Fs, log *slog.Logger) *FileStore {
	return NewFileStore(afs, cfg.DeploymentsDir, log)
}

// Path returns the file backing a record
func (s *FileStore) Path(kind models.RecordKind, network, contract string) string {
	var name string
	switch kind {
	case models.FactoryRecordKind:
		name = fmt.Sprintf(FactoryFilePattern, network)
	case models.DeploymentRecordKind:
		name = fmt.Sprintf(DeploymentFilePattern, models.ContractKey(contract), network)
	case models.ExecutorsRecordKind:
		name = fmt.Sprintf(ExecutorsFilePattern, models.ContractKey(contract), network)
	case models.HistoryRecordKind:
		name = fmt.Sprintf(HistoryFilePrefix, models.ContractKey(contract), network) + "*.json"
	default:
		name = fmt.Sprintf("%s-%s-%s.json", kind, models.ContractKey(contract), network)
	}
	return filepath.Join(s.dir, name)
}

// GetFactory loads the factory record for a network
func (s *FileStore) GetFactory(ctx context.Context, network string) (*models.FactoryRecord, error) {
	var record models.FactoryRecord
	if err := s.loadFile(s.Path(models.FactoryRecordKind, network, ""), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// SaveFactory writes the factory record if its version is current
func (s *FileStore) SaveFactory(ctx context.Context, record *models.FactoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(models.FactoryRecordKind, record.Network, "")
	if err := s.checkVersion(path, record.Version); err != nil {
		return err
	}

	next := *record
	next.Version = record.Version + 1
	if err := s.saveFile(path, &next); err != nil {
		return fmt.Errorf("failed to save factory record: %w", err)
	}
	record.Version = next.Version
	return nil
}

// GetDeployment loads the current deployment record for a contract
func (s *FileStore) GetDeployment(ctx context.Context, network, contract string) (*models.DeploymentRecord, error) {
	var record models.DeploymentRecord
	if err := s.loadFile(s.Path(models.DeploymentRecordKind, network, contract), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// SaveDeployment writes a deployment record if its version is current
func (s *FileStore) SaveDeployment(ctx context.Context, record *models.DeploymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(models.DeploymentRecordKind, record.Network, record.Contract)
	if err := s.checkVersion(path, record.Version); err != nil {
		return err
	}

	next := record.Clone()
	next.Version = record.Version + 1
	if err := s.saveFile(path, next); err != nil {
		return fmt.Errorf("failed to save deployment record: %w", err)
	}
	record.Version = next.Version
	s.log.Debug("Saved deployment record", "path", path, "version", next.Version)
	return nil
}

// checkVersion compares expected to the version on disk; missing files are version 0
func (s *FileStore) checkVersion(path string, expected uint64) error {
	var current struct {
		Version uint64 `json:"version"`
	}
	err := s.loadFile(path, &current)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if current.Version != expected {
		return &domain.VersionConflictError{Path: path, Expected: expected, Current: current.Version}
	}
	return nil
}

// loadFile reads a JSON file, mapping a missing file to domain.ErrNotFound
func (s *FileStore) loadFile(path string, v any) error {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", path, domain.ErrNotFound)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// saveFile writes to a temp file in the same directory and renames it into place
func (s *FileStore) saveFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = s.fs.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpPath)
		return err
	}

	// Atomic rename
	if err := s.fs.Rename(tmpPath, path); err != nil {
		_ = s.fs.Remove(tmpPath)
		return err
	}
	return nil
}

func isTempFile(name string) bool {
	return strings.HasSuffix(name, ".tmp")
}

var _ usecase.DeploymentRecordStore = (*FileStore)(nil)
