package lock

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/jackc/pgx/v5"
	"github.com/trebuchet-org/c2d/internal/domain"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

// PostgresLocker uses session-level advisory locks so several machines can
// share deployment leases. The lock lives as long as its connection.
type PostgresLocker struct {
	dsn string
	log *slog.Logger
}

// NewPostgresLocker creates an advisory-lock based locker
func NewPostgresLocker(dsn string, log *slog.Logger) *PostgresLocker {
	return &PostgresLocker{
		dsn: dsn,
		log: log.With("component", "PostgresLocker"),
	}
}

// AdvisoryKey maps a lease key onto the bigint keyspace of pg_advisory_lock
func AdvisoryKey(key usecase.LeaseKey) int64 {
	sum := crypto.Keccak256([]byte(key.String()))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// Acquire tries the advisory lock without waiting
func (l *PostgresLocker) Acquire(ctx context.Context, key usecase.LeaseKey) (usecase.Lease, error) {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to lock database: %w", err)
	}

	id := AdvisoryKey(key)
	var acquired bool
	if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", id).Scan(&acquired); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to acquire advisory lock: %w", err)
	}
	if !acquired {
		_ = conn.Close(ctx)
		return nil, &domain.LeaseHeldError{Key: key.String(), Holder: fmt.Sprintf("advisory lock %d", id)}
	}

	l.log.Debug("Acquired advisory lock", "key", key.String(), "id", id)
	return &pgLease{conn: conn, id: id, log: l.log}, nil
}

type pgLease struct {
	conn *pgx.Conn
	id   int64
	log  *slog.Logger
}

// Release unlocks and closes the session
func (p *pgLease) Release(ctx context.Context) error {
	var released bool
	err := p.conn.QueryRow(ctx, "SELECT pg_advisory_unlock($1)", p.id).Scan(&released)
	if cerr := p.conn.Close(ctx); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to release advisory lock: %w", err)
	}
	if !released {
		p.log.Warn("Advisory lock was not held at release", "id", p.id)
	}
	return nil
}

var _ usecase.LeaseLocker = (*PostgresLocker)(nil)
