package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/tiffin-api/internal/domain"
)

// ScanLocker serializa escaneos dentro de un único proceso.
type ScanLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewScanLocker crea el candado en memoria.
func NewScanLocker() *ScanLocker {
	return &ScanLocker{held: make(map[string]struct{})}
}

// Acquire toma la clave sin esperar; si ya está tomada devuelve domain.ErrScanInProgress.
func (l *ScanLocker) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[key]; busy {
		return nil, domain.ErrScanInProgress
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
		return nil
	}, nil
}
