// Package memory implementa todos los puertos de persistencia en memoria del proceso.
// Es la estrategia de almacenamiento local (STORAGE_DRIVER=memory) y el backend de los tests.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jhoicas/tiffin-api/internal/domain/entity"
	"github.com/jhoicas/tiffin-api/internal/domain/repository"
)

// Store guarda todas las entidades. Las lecturas y escrituras copian los valores:
// nadie fuera del store comparte punteros con su estado.
type Store struct {
	mu        sync.RWMutex
	customers map[string]*entity.Customer
	menu      map[string]*entity.MenuItem
	extras    map[string]*entity.DailyExtra
	advances  map[string]*entity.AdvancePayment
	invoices  map[string]*entity.Invoice
	users     map[string]*entity.User

	// seq conserva el orden de alta para ordenar extras del mismo día.
	seq      int64
	extraSeq map[string]int64

	txMu sync.Mutex
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		customers: make(map[string]*entity.Customer),
		menu:      make(map[string]*entity.MenuItem),
		extras:    make(map[string]*entity.DailyExtra),
		advances:  make(map[string]*entity.AdvancePayment),
		invoices:  make(map[string]*entity.Invoice),
		users:     make(map[string]*entity.User),
		extraSeq:  make(map[string]int64),
	}
}

// Customers devuelve el repositorio de clientes.
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{s: s} }

// MenuItems devuelve el repositorio del menú.
func (s *Store) MenuItems() *MenuItemRepo { return &MenuItemRepo{s: s} }

// Extras devuelve el repositorio de extras diarios.
func (s *Store) Extras() *DailyExtraRepo { return &DailyExtraRepo{s: s} }

// Advances devuelve el repositorio de anticipos.
func (s *Store) Advances() *AdvancePaymentRepo { return &AdvancePaymentRepo{s: s} }

// Invoices devuelve el repositorio de facturas.
func (s *Store) Invoices() *InvoiceRepo { return &InvoiceRepo{s: s} }

// Users devuelve el repositorio de administradores.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// RunBilling ejecuta fn de forma atómica: si fn falla, el estado vuelve a la foto tomada
// al inicio. Las escrituras de clientes, extras, anticipos y facturas fuera de fn esperan a
// que termine, así la foto nunca pisa una escritura ajena.
func (s *Store) RunBilling(ctx context.Context, fn func(
	customerRepo repository.CustomerRepository,
	extraRepo repository.DailyExtraRepository,
	advanceRepo repository.AdvancePaymentRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	err := fn(
		&CustomerRepo{s: s, tx: true},
		&DailyExtraRepo{s: s, tx: true},
		&AdvancePaymentRepo{s: s, tx: true},
		&InvoiceRepo{s: s, tx: true},
	)
	if err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	customers map[string]*entity.Customer
	extras    map[string]*entity.DailyExtra
	advances  map[string]*entity.AdvancePayment
	invoices  map[string]*entity.Invoice
	extraSeq  map[string]int64
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		customers: copyMap(s.customers),
		extras:    copyMap(s.extras),
		advances:  copyMap(s.advances),
		invoices:  copyMap(s.invoices),
		extraSeq:  copyMap(s.extraSeq),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = snap.customers
	s.extras = snap.extras
	s.advances = snap.advances
	s.invoices = snap.invoices
	s.extraSeq = snap.extraSeq
}

// Las entidades guardadas nunca se mutan en sitio (toda escritura reemplaza el puntero),
// por eso basta con copiar el mapa.
func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// writeLock serializa una escritura suelta con RunBilling. Dentro de la transacción no bloquea.
func (s *Store) writeLock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.txMu.Lock()
	return s.txMu.Unlock
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

func requireID(kind, id string) error {
	if id == "" {
		return fmt.Errorf("%s sin id", kind)
	}
	return nil
}

// containsFold indica si algún campo contiene query sin distinguir mayúsculas. query vacío coincide siempre.
func containsFold(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
