package billing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tiffin-api/internal/application/dto"
	"github.com/jhoicas/tiffin-api/internal/domain"
	"github.com/jhoicas/tiffin-api/internal/domain/entity"
	"github.com/jhoicas/tiffin-api/internal/domain/repository"
)

// StatusAll lista facturas en cualquier estado.
const StatusAll = "all"

// LifecycleUseCase administra facturas persistidas: cobro, listados, borrado y exportación.
type LifecycleUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	exporter     LedgerExporter
	clock        Clock
}

// NewLifecycleUseCase construye el caso de uso. exporter puede ser nil si no se exporta.
func NewLifecycleUseCase(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	exporter LedgerExporter,
	clock Clock,
) *LifecycleUseCase {
	return &LifecycleUseCase{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		exporter:     exporter,
		clock:        clock,
	}
}

// PayInvoice marca la factura como pagada con las notas del cobro.
//
// Retorna:
//   - domain.ErrInvalidInput  si las notas están vacías.
//   - domain.ErrNotFound      si la factura no existe.
//   - domain.ErrInvalidState  si ya estaba pagada (paidAt y notas no cambian).
func (uc *LifecycleUseCase) PayInvoice(ctx context.Context, invoiceID, notes string) (*dto.InvoiceResponse, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, fmt.Errorf("%w: indique el medio o la referencia del pago", domain.ErrInvalidInput)
	}
	inv, err := uc.invoiceRepo.MarkPaid(ctx, invoiceID, notes, uc.clock())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, invoiceID)
		case errors.Is(err, domain.ErrInvalidState):
			return nil, fmt.Errorf("%w: la factura %s ya fue pagada", domain.ErrInvalidState, invoiceID)
		}
		return nil, fmt.Errorf("marcar pagada: %w", err)
	}
	customer, err := uc.customerRepo.GetByID(ctx, inv.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("obtener cliente: %w", err)
	}
	out := dto.FromInvoice(inv, customer)
	return &out, nil
}

// ListInvoices lista facturas por estado (pending, paid o all), de la más reciente a la más antigua.
func (uc *LifecycleUseCase) ListInvoices(ctx context.Context, status string) ([]dto.InvoiceResponse, error) {
	rows, err := uc.ledger(ctx, status)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toInvoiceResponse(r))
	}
	return out, nil
}

// PaidHistory facturas pagadas, la de cobro más reciente primero.
func (uc *LifecycleUseCase) PaidHistory(ctx context.Context) ([]dto.InvoiceResponse, error) {
	list, err := uc.ListInvoices(ctx, entity.InvoiceStatusPaid)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i].PaidAt, list[j].PaidAt
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.After(*b)
	})
	return list, nil
}

// PendingByCustomer agrupa las facturas pendientes por cliente con el total adeudado.
// Los grupos se ordenan por total descendente.
func (uc *LifecycleUseCase) PendingByCustomer(ctx context.Context) ([]dto.PendingCustomerGroup, error) {
	rows, err := uc.ledger(ctx, entity.InvoiceStatusPending)
	if err != nil {
		return nil, err
	}
	groups := make(map[string]*dto.PendingCustomerGroup)
	order := make([]string, 0)
	for _, r := range rows {
		g, ok := groups[r.Invoice.CustomerID]
		if !ok {
			g = &dto.PendingCustomerGroup{
				CustomerID:     r.Invoice.CustomerID,
				CustomerName:   r.CustomerName,
				CustomerMobile: r.CustomerMobile,
				TotalDue:       decimal.Zero,
				Invoices:       []dto.InvoiceResponse{},
			}
			groups[r.Invoice.CustomerID] = g
			order = append(order, r.Invoice.CustomerID)
		}
		g.TotalDue = g.TotalDue.Add(r.Invoice.Amount)
		g.Invoices = append(g.Invoices, toInvoiceResponse(r))
	}
	out := make([]dto.PendingCustomerGroup, 0, len(order))
	for _, id := range order {
		out = append(out, *groups[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalDue.GreaterThan(out[j].TotalDue)
	})
	return out, nil
}

// DeleteInvoice borra una factura por acción explícita del administrador.
func (uc *LifecycleUseCase) DeleteInvoice(ctx context.Context, invoiceID string) error {
	if err := uc.invoiceRepo.Delete(ctx, invoiceID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: factura %s", domain.ErrNotFound, invoiceID)
		}
		return fmt.Errorf("borrar factura: %w", err)
	}
	return nil
}

// ExportLedger exporta el libro de facturas del estado dado a una hoja de cálculo.
func (uc *LifecycleUseCase) ExportLedger(ctx context.Context, status string) ([]byte, string, error) {
	if uc.exporter == nil {
		return nil, "", fmt.Errorf("exportación no configurada")
	}
	rows, err := uc.ledger(ctx, status)
	if err != nil {
		return nil, "", err
	}
	label := status
	if label == "" {
		label = StatusAll
	}
	data, err := uc.exporter.ExportLedger(ctx, "Invoices ("+label+")", rows)
	if err != nil {
		return nil, "", fmt.Errorf("exportar libro: %w", err)
	}
	return data, fmt.Sprintf("invoices_%s_%s.xlsx", label, uc.clock().Format("20060102")), nil
}

// ledger lista facturas y resuelve los datos de cada cliente con una sola lectura de clientes.
func (uc *LifecycleUseCase) ledger(ctx context.Context, status string) ([]LedgerRow, error) {
	filter := repository.InvoiceFilter{}
	switch status {
	case "", StatusAll:
	case entity.InvoiceStatusPending, entity.InvoiceStatusPaid:
		filter.Status = status
	default:
		return nil, fmt.Errorf("%w: estado %q (pending | paid | all)", domain.ErrInvalidInput, status)
	}
	invoices, err := uc.invoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar facturas: %w", err)
	}
	customers, err := uc.customerRepo.List(ctx, repository.CustomerFilter{IncludeArchived: true})
	if err != nil {
		return nil, fmt.Errorf("listar clientes: %w", err)
	}
	byID := make(map[string]*entity.Customer, len(customers))
	for _, c := range customers {
		byID[c.ID] = c
	}
	rows := make([]LedgerRow, 0, len(invoices))
	for _, inv := range invoices {
		row := LedgerRow{Invoice: inv}
		if c := byID[inv.CustomerID]; c != nil {
			row.CustomerName = c.Name
			row.CustomerMobile = c.Mobile
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func toInvoiceResponse(r LedgerRow) dto.InvoiceResponse {
	out := dto.FromInvoice(r.Invoice, nil)
	out.CustomerName = r.CustomerName
	out.CustomerMobile = r.CustomerMobile
	return out
}
