package lock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/afero"
	"github.com/trebuchet-org/c2d/internal/domain"
	"github.com/trebuchet-org/c2d/internal/domain/config"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

var lockerSeq atomic.Uint64

// leaseFile is the on-disk lease body
type leaseFile struct {
	Owner      string    `json:"owner"`
	AcquiredAt time.Time `json:"acquiredAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// FileLocker grants leases by exclusively creating a file per key.
// Leases past their expiry are broken by the next contender.
type FileLocker struct {
	fs    afero.Fs
	dir   string
	ttl   time.Duration
	owner string
	now   func() time.Time
	log   *slog.Logger
}

// NewFileLocker creates a file-based lease locker
func NewFileLocker(afs afero.Fs, dir string, ttl time.Duration, log *slog.Logger) *FileLocker {
	if ttl <= 0 {
		ttl = config.DefaultLeaseTTL
	}
	host, _ := os.Hostname()
	return &FileLocker{
		fs:    afs,
		dir:   dir,
		ttl:   ttl,
		owner: fmt.Sprintf("%s:%d:%d", host, os.Getpid(), lockerSeq.Add(1)),
		now:   time.Now,
		log:   log.With("component", "FileLocker"),
	}
}

func (l *FileLocker) path(key usecase.LeaseKey) string {
	network := strings.NewReplacer("/", "_", string(filepath.Separator), "_").Replace(key.Network)
	return filepath.Join(l.dir, fmt.Sprintf("%s-%s.lock", network, key.Salt.Hex()))
}

// Acquire takes the lease for key or returns a LeaseHeldError
func (l *FileLocker) Acquire(ctx context.Context, key usecase.LeaseKey) (usecase.Lease, error) {
	if err := l.fs.MkdirAll(l.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	path := l.path(key)
	for attempt := 0; attempt < 2; attempt++ {
		f, err := l.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			now := l.now().UTC()
			body, _ := json.Marshal(leaseFile{Owner: l.owner, AcquiredAt: now, ExpiresAt: now.Add(l.ttl)})
			_, werr := f.Write(body)
			cerr := f.Close()
			if werr != nil || cerr != nil {
				_ = l.fs.Remove(path)
				return nil, fmt.Errorf("failed to write lease %s: %w", path, errors.Join(werr, cerr))
			}
			l.log.Debug("Acquired lease", "key", key.String())
			return &fileLease{locker: l, path: path, key: key}, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("failed to create lease %s: %w", path, err)
		}

		holder, expired := l.inspect(path)
		if !expired {
			return nil, &domain.LeaseHeldError{Key: key.String(), Holder: holder}
		}

		l.log.Warn("Breaking expired lease", "key", key.String(), "holder", holder)
		if err := l.fs.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to break expired lease: %w", err)
		}
	}

	return nil, &domain.LeaseHeldError{Key: key.String()}
}

// inspect reports the holder of a lease and whether it has expired. Unreadable
// leases are judged by modification time.
func (l *FileLocker) inspect(path string) (holder string, expired bool) {
	data, err := afero.ReadFile(l.fs, path)
	if err == nil {
		var lease leaseFile
		if json.Unmarshal(data, &lease) == nil && !lease.ExpiresAt.IsZero() {
			return lease.Owner, !l.now().Before(lease.ExpiresAt)
		}
	}

	info, err := l.fs.Stat(path)
	if err != nil {
		return "", errors.Is(err, fs.ErrNotExist)
	}
	return "", l.now().After(info.ModTime().Add(l.ttl))
}

type fileLease struct {
	locker *FileLocker
	path   string
	key    usecase.LeaseKey
}

// Release removes the lease file if this locker still owns it
func (f *fileLease) Release(ctx context.Context) error {
	data, err := afero.ReadFile(f.locker.fs, f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	var lease leaseFile
	if err := json.Unmarshal(data, &lease); err == nil && lease.Owner != f.locker.owner {
		f.locker.log.Warn("Lease was taken over, not releasing", "key", f.key.String(), "holder", lease.Owner)
		return nil
	}

	if err := f.locker.fs.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to release lease: %w", err)
	}
	f.locker.log.Debug("Released lease", "key", f.key.String())
	return nil
}

var _ usecase.LeaseLocker = (*FileLocker)(nil)
