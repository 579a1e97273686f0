package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/tiffin-api/internal/application/dto"
	"github.com/jhoicas/tiffin-api/internal/domain"
	"github.com/jhoicas/tiffin-api/internal/domain/billing"
	"github.com/jhoicas/tiffin-api/internal/domain/entity"
	"github.com/jhoicas/tiffin-api/internal/domain/repository"
	"github.com/jhoicas/tiffin-api/pkg/logger"
)

// Motivos por los que el escaneo omite a un cliente.
const (
	SkipNotStarted       = "la suscripción inicia después del período"
	SkipArchived         = "archivado antes del período"
	SkipAlreadyInvoiced  = "ya facturado"
	SkipNonPositiveTotal = "sin deuda: el total no es positivo"
)

// SkippedCustomer cliente omitido por el escaneo y el motivo.
type SkippedCustomer struct {
	CustomerID   string
	CustomerName string
	Reason       string
}

// ScanResult resultado de un escaneo de cobros.
type ScanResult struct {
	Period  billing.Period
	Created []*entity.Invoice
	Skipped []SkippedCustomer

	customers map[string]*entity.Customer
}

// CreatedCount cantidad de facturas nuevas.
func (r *ScanResult) CreatedCount() int {
	return len(r.Created)
}

// Response convierte el resultado a la respuesta HTTP/CLI, con los datos de cada cliente facturado.
func (r *ScanResult) Response() dto.ScanResultResponse {
	out := dto.ScanResultResponse{
		Period:       r.Period.String(),
		CreatedCount: r.CreatedCount(),
		Created:      make([]dto.InvoiceResponse, 0, len(r.Created)),
		Skipped:      make([]dto.SkippedCustomer, 0, len(r.Skipped)),
	}
	for _, inv := range r.Created {
		out.Created = append(out.Created, dto.FromInvoice(inv, r.customers[inv.CustomerID]))
	}
	for _, s := range r.Skipped {
		out.Skipped = append(out.Skipped, dto.SkippedCustomer{CustomerID: s.CustomerID, CustomerName: s.CustomerName, Reason: s.Reason})
	}
	return out
}

// ScanLockKey clave del candado para un período.
func ScanLockKey(p billing.Period) string {
	return "dues-scan:" + p.String()
}

// DuesScanner genera las facturas pendientes del mes anterior para cada cliente elegible,
// a lo sumo una por cliente y período.
type DuesScanner struct {
	data        invoiceData
	invoiceRepo repository.InvoiceRepository
	locker      ScanLocker
	clock       Clock
	log         *logger.Logger
}

// NewDuesScanner construye el escáner.
func NewDuesScanner(
	customerRepo repository.CustomerRepository,
	menuRepo repository.MenuItemRepository,
	extraRepo repository.DailyExtraRepository,
	advanceRepo repository.AdvancePaymentRepository,
	invoiceRepo repository.InvoiceRepository,
	locker ScanLocker,
	clock Clock,
	log *logger.Logger,
) *DuesScanner {
	return &DuesScanner{
		data: invoiceData{
			customerRepo: customerRepo,
			menuRepo:     menuRepo,
			extraRepo:    extraRepo,
			advanceRepo:  advanceRepo,
		},
		invoiceRepo: invoiceRepo,
		locker:      locker,
		clock:       clock,
		log:         log,
	}
}

// TargetPeriod es el mes calendario anterior al actual según el reloj.
func (s *DuesScanner) TargetPeriod() billing.Period {
	return billing.PeriodOf(s.clock()).Previous()
}

// ScanForDues escanea el mes anterior al actual.
func (s *DuesScanner) ScanForDues(ctx context.Context) (*ScanResult, error) {
	return s.ScanPeriod(ctx, s.TargetPeriod())
}

// ScanPeriod escanea un período explícito. Un fallo con un cliente se registra como omisión
// y no detiene el lote. domain.ErrScanInProgress si otro escaneo del período está en curso.
// Solo se escanean meses cerrados: el mes en curso o uno futuro es domain.ErrInvalidInput.
func (s *DuesScanner) ScanPeriod(ctx context.Context, period billing.Period) (*ScanResult, error) {
	if current := billing.PeriodOf(s.clock()); !current.After(period) {
		return nil, fmt.Errorf("%w: %s no ha terminado; el último mes escaneable es %s",
			domain.ErrInvalidInput, period.Label(), current.Previous().Label())
	}
	release, err := s.locker.Acquire(ctx, ScanLockKey(period))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.log.Warn().Err(err).Str("period", period.String()).Msg("no se pudo liberar el candado de escaneo")
		}
	}()

	// ── 1. Lectura en lote ────────────────────────────────────────────────────
	customers, err := s.data.customerRepo.List(ctx, repository.CustomerFilter{IncludeArchived: true})
	if err != nil {
		return nil, fmt.Errorf("escaneo: listar clientes: %w", err)
	}
	invoices, err := s.invoiceRepo.List(ctx, repository.InvoiceFilter{})
	if err != nil {
		return nil, fmt.Errorf("escaneo: listar facturas: %w", err)
	}
	invoiced := make(map[string]bool)
	for _, inv := range invoices {
		if inv.Month == period.MonthNumber() && inv.Year == period.Year {
			invoiced[inv.CustomerID] = true
		}
	}
	menu, err := s.data.menuIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("escaneo: %w", err)
	}

	// ── 2. Un cliente a la vez ────────────────────────────────────────────────
	result := &ScanResult{
		Period:    period,
		Created:   []*entity.Invoice{},
		Skipped:   []SkippedCustomer{},
		customers: make(map[string]*entity.Customer),
	}
	for _, c := range customers {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if reason := s.eligibility(c, period, invoiced); reason != "" {
			s.skip(result, c, reason)
			continue
		}

		inv, err := s.data.monthly(ctx, c, period, menu)
		if err != nil {
			s.skip(result, c, "cálculo fallido: "+err.Error())
			continue
		}
		if !inv.Summary.GrandTotal.IsPositive() {
			s.skip(result, c, fmt.Sprintf("%s (%s)", SkipNonPositiveTotal, inv.Summary.GrandTotal.String()))
			continue
		}

		invoice := &entity.Invoice{
			ID:         uuid.New().String(),
			CustomerID: c.ID,
			Month:      period.MonthNumber(),
			Year:       period.Year,
			Amount:     inv.Summary.GrandTotal,
			Status:     entity.InvoiceStatusPending,
			CreatedAt:  s.clock(),
		}
		if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				s.skip(result, c, SkipAlreadyInvoiced)
			} else {
				s.skip(result, c, "no se pudo guardar la factura: "+err.Error())
			}
			continue
		}
		invoiced[c.ID] = true
		result.Created = append(result.Created, invoice)
		result.customers[c.ID] = c
		s.log.Info().
			Str("customer_id", c.ID).
			Str("invoice_id", invoice.ID).
			Str("period", period.String()).
			Str("amount", invoice.Amount.String()).
			Msg("factura pendiente creada")
	}

	s.log.Info().
		Str("period", period.String()).
		Int("created", result.CreatedCount()).
		Int("skipped", len(result.Skipped)).
		Msg("escaneo de cobros finalizado")
	return result, nil
}

// eligibility devuelve el motivo de omisión, o "" si el cliente debe facturarse.
func (s *DuesScanner) eligibility(c *entity.Customer, period billing.Period, invoiced map[string]bool) string {
	if billing.PeriodOf(c.StartDate).After(period) {
		return SkipNotStarted
	}
	if c.ArchivedAt != nil && billing.DateOnly(*c.ArchivedAt).Before(period.FirstDay()) {
		return SkipArchived
	}
	if invoiced[c.ID] {
		return SkipAlreadyInvoiced
	}
	return ""
}

func (s *DuesScanner) skip(result *ScanResult, c *entity.Customer, reason string) {
	result.Skipped = append(result.Skipped, SkippedCustomer{CustomerID: c.ID, CustomerName: c.Name, Reason: reason})
	s.log.Warn().Str("customer_id", c.ID).Str("reason", reason).Str("period", result.Period.String()).Msg("cliente omitido en escaneo")
}
