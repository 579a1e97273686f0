// Package redis adapta Redis como candado distribuido de escaneos de cobros.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/tiffin-api/internal/application/billing"
	"github.com/jhoicas/tiffin-api/internal/domain"
	"github.com/jhoicas/tiffin-api/pkg/config"
)

var _ billing.ScanLocker = (*ScanLocker)(nil)

// NewClient abre el cliente y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// ScanLocker candado con TTL: si el proceso muere, la clave expira sola.
type ScanLocker struct {
	locker *redislock.Client
	ttl    time.Duration
}

// NewScanLocker construye el candado. ttl debe cubrir la duración de un escaneo.
func NewScanLocker(rdb goredis.UniversalClient, ttl time.Duration) *ScanLocker {
	return &ScanLocker{locker: redislock.New(rdb), ttl: ttl}
}

// Acquire no reintenta: domain.ErrScanInProgress si la clave ya está tomada.
func (l *ScanLocker) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	lock, err := l.locker.Obtain(ctx, key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", domain.ErrScanInProgress, key)
	}
	if err != nil {
		return nil, fmt.Errorf("redis lock %s: %w", key, err)
	}
	return func(ctx context.Context) error {
		err := lock.Release(ctx)
		if errors.Is(err, redislock.ErrLockNotHeld) {
			// Expiró el TTL antes de terminar; otro escaneo pudo haber empezado.
			return fmt.Errorf("redis lock %s: expiró antes de liberarse", key)
		}
		return err
	}, nil
}
