package postgres

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/tiffin-api/internal/application/billing"
	"github.com/jhoicas/tiffin-api/internal/domain"
)

var _ billing.ScanLocker = (*AdvisoryScanLocker)(nil)

// AdvisoryScanLocker candado de escaneo con pg_try_advisory_lock. El candado vive en una
// conexión dedicada del pool hasta release; si el proceso muere, Postgres lo libera con la sesión.
type AdvisoryScanLocker struct {
	pool *pgxpool.Pool
}

// NewAdvisoryScanLocker construye el candado sobre el pool.
func NewAdvisoryScanLocker(pool *pgxpool.Pool) *AdvisoryScanLocker {
	return &AdvisoryScanLocker{pool: pool}
}

// Acquire toma el candado sin esperar; domain.ErrScanInProgress si otra sesión lo tiene.
func (l *AdvisoryScanLocker) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("advisory lock: conexión: %w", err)
	}
	id := advisoryKey(key)
	var ok bool
	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, id).Scan(&ok); err != nil {
		conn.Release()
		return nil, fmt.Errorf("advisory lock: %w", err)
	}
	if !ok {
		conn.Release()
		return nil, fmt.Errorf("%w: %s", domain.ErrScanInProgress, key)
	}

	sess := poolSession{conn}
	var once sync.Once
	return func(ctx context.Context) error {
		var err error
		once.Do(func() { err = unlockSession(ctx, sess, id, key) })
		return err
	}, nil
}

// lockSession conexión que sostiene el advisory lock.
type lockSession interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Release()
	Discard(ctx context.Context) error
}

type poolSession struct{ *pgxpool.Conn }

// Discard saca la conexión del pool y la cierra; Postgres suelta sus candados con la sesión.
func (s poolSession) Discard(ctx context.Context) error {
	return s.Hijack().Close(ctx)
}

// unlockSession libera el candado y devuelve la conexión al pool. Si no hay certeza de que el
// candado se soltó, la conexión se descarta en lugar de volver al pool con el candado tomado.
func unlockSession(ctx context.Context, sess lockSession, id int64, key string) error {
	var unlocked bool
	if err := sess.QueryRow(ctx, `SELECT pg_advisory_unlock($1)`, id).Scan(&unlocked); err != nil {
		if cerr := sess.Discard(context.WithoutCancel(ctx)); cerr != nil {
			return fmt.Errorf("advisory unlock: %w (descartar conexión: %v)", err, cerr)
		}
		return fmt.Errorf("advisory unlock: %w", err)
	}
	sess.Release()
	if !unlocked {
		return fmt.Errorf("advisory unlock: el candado %s no estaba tomado", key)
	}
	return nil
}

// advisoryKey reduce la clave textual al bigint que exige pg_try_advisory_lock.
func advisoryKey(key string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return int64(h.Sum64())
}
