package lock

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/trebuchet-org/c2d/internal/domain/config"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

// ProvideLocker selects the lease backend from configuration
func ProvideLocker(cfg *config.RuntimeConfig, afs afero.Fs, log *slog.Logger) (usecase.LeaseLocker, error) {
	switch cfg.Lock.Backend {
	case "", config.LockBackendFile:
		return NewFileLocker(afs, filepath.Join(cfg.DeploymentsDir, "locks"), cfg.Deploy.LeaseTTL, log), nil
	case config.LockBackendPostgres:
		if cfg.Lock.DSN == "" {
			return nil, fmt.Errorf("lock backend %q requires lock.dsn", cfg.Lock.Backend)
		}
		return NewPostgresLocker(cfg.Lock.DSN, log), nil
	default:
		return nil, fmt.Errorf("unknown lock backend %q", cfg.Lock.Backend)
	}
}
