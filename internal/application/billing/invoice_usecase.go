package billing

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tiffin-api/internal/domain"
	"github.com/jhoicas/tiffin-api/internal/domain/billing"
	"github.com/jhoicas/tiffin-api/internal/domain/entity"
	"github.com/jhoicas/tiffin-api/internal/domain/repository"
	"github.com/jhoicas/tiffin-api/pkg/money"
)

// invoiceData reúne las lecturas que alimentan a la calculadora.
type invoiceData struct {
	customerRepo repository.CustomerRepository
	menuRepo     repository.MenuItemRepository
	extraRepo    repository.DailyExtraRepository
	advanceRepo  repository.AdvancePaymentRepository
}

func (d invoiceData) customer(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := d.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener cliente: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, id)
	}
	return c, nil
}

func (d invoiceData) menuIndex(ctx context.Context) (map[string]*entity.MenuItem, error) {
	items, err := d.menuRepo.List(ctx, repository.MenuFilter{})
	if err != nil {
		return nil, fmt.Errorf("listar menú: %w", err)
	}
	idx := make(map[string]*entity.MenuItem, len(items))
	for _, m := range items {
		idx[m.ID] = m
	}
	return idx, nil
}

func (d invoiceData) monthly(ctx context.Context, c *entity.Customer, p billing.Period, menu map[string]*entity.MenuItem) (*billing.ItemizedInvoice, error) {
	extras, err := d.extraRepo.ListByCustomer(ctx, c.ID, p.FirstDay(), p.LastDay())
	if err != nil {
		return nil, fmt.Errorf("listar extras: %w", err)
	}
	advances, err := d.advanceRepo.List(ctx, repository.AdvanceFilter{CustomerID: c.ID, Year: p.Year})
	if err != nil {
		return nil, fmt.Errorf("listar anticipos: %w", err)
	}
	return billing.CalculateMonthly(billing.MonthlyInput{
		Customer:  c,
		Period:    p,
		Extras:    extras,
		Advances:  advances,
		MenuItems: menu,
	})
}

// InvoiceUseCase genera facturas detalladas (sin persistir), las guarda como pendientes
// a pedido del administrador y las renderiza a PDF.
type InvoiceUseCase struct {
	data        invoiceData
	invoiceRepo repository.InvoiceRepository
	generator   InvoicePDFGenerator
	business    BusinessInfo
	clock       Clock
}

// NewInvoiceUseCase construye el caso de uso. generator puede ser nil si no se exponen PDFs.
func NewInvoiceUseCase(
	customerRepo repository.CustomerRepository,
	menuRepo repository.MenuItemRepository,
	extraRepo repository.DailyExtraRepository,
	advanceRepo repository.AdvancePaymentRepository,
	invoiceRepo repository.InvoiceRepository,
	generator InvoicePDFGenerator,
	business BusinessInfo,
	clock Clock,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		data: invoiceData{
			customerRepo: customerRepo,
			menuRepo:     menuRepo,
			extraRepo:    extraRepo,
			advanceRepo:  advanceRepo,
		},
		invoiceRepo: invoiceRepo,
		generator:   generator,
		business:    business,
		clock:       clock,
	}
}

// GenerateMonthlyInvoice calcula la factura del mes. domain.ErrNotFound si el cliente no existe.
func (uc *InvoiceUseCase) GenerateMonthlyInvoice(ctx context.Context, customerID string, year, month int) (*billing.ItemizedInvoice, error) {
	period, err := billing.NewPeriod(year, month)
	if err != nil {
		return nil, err
	}
	customer, err := uc.data.customer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	menu, err := uc.data.menuIndex(ctx)
	if err != nil {
		return nil, err
	}
	return uc.data.monthly(ctx, customer, period, menu)
}

// GenerateDailyInvoice calcula la factura de un día.
func (uc *InvoiceUseCase) GenerateDailyInvoice(ctx context.Context, customerID string, date time.Time) (*billing.ItemizedInvoice, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: fecha requerida", domain.ErrInvalidInput)
	}
	date = billing.DateOnly(date)
	customer, err := uc.data.customer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	extras, err := uc.data.extraRepo.ListByCustomer(ctx, customerID, date, date)
	if err != nil {
		return nil, fmt.Errorf("listar extras: %w", err)
	}
	menu, err := uc.data.menuIndex(ctx)
	if err != nil {
		return nil, err
	}
	return billing.CalculateDaily(billing.DailyInput{
		Customer:  customer,
		Date:      date,
		Extras:    extras,
		MenuItems: menu,
	})
}

// SaveAsPending guarda una factura pendiente para el mes. Sin amount se usa el gran total calculado.
// domain.ErrConflict si ya existe factura para ese cliente y período.
func (uc *InvoiceUseCase) SaveAsPending(ctx context.Context, customerID string, year, month int, amount *decimal.Decimal) (*entity.Invoice, error) {
	period, err := billing.NewPeriod(year, month)
	if err != nil {
		return nil, err
	}
	var total decimal.Decimal
	if amount != nil {
		if _, err := uc.data.customer(ctx, customerID); err != nil {
			return nil, err
		}
		if !money.Cents(*amount) {
			return nil, fmt.Errorf("%w: el importe admite como máximo dos decimales", domain.ErrInvalidInput)
		}
		total = *amount
	} else {
		inv, err := uc.GenerateMonthlyInvoice(ctx, customerID, year, month)
		if err != nil {
			return nil, err
		}
		total = inv.Summary.GrandTotal
	}
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: el total a cobrar debe ser positivo (%s)", domain.ErrInvalidInput, total.String())
	}

	invoice := &entity.Invoice{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		Month:      period.MonthNumber(),
		Year:       period.Year,
		Amount:     total,
		Status:     entity.InvoiceStatusPending,
		CreatedAt:  uc.clock(),
	}
	if err := uc.invoiceRepo.Create(ctx, invoice); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: ya existe una factura de %s para el cliente", domain.ErrConflict, period.Label())
		}
		return nil, fmt.Errorf("guardar factura: %w", err)
	}
	return invoice, nil
}

// InvoicePDF renderiza la factura mensual detallada.
// Retorna (pdfBytes, filename, nil) o los errores de GenerateMonthlyInvoice.
func (uc *InvoiceUseCase) InvoicePDF(ctx context.Context, customerID string, year, month int) ([]byte, string, error) {
	inv, err := uc.GenerateMonthlyInvoice(ctx, customerID, year, month)
	if err != nil {
		return nil, "", err
	}
	return uc.render(ctx, inv, inv.Period.String())
}

// DailyInvoicePDF renderiza la factura de un día.
func (uc *InvoiceUseCase) DailyInvoicePDF(ctx context.Context, customerID string, date time.Time) ([]byte, string, error) {
	inv, err := uc.GenerateDailyInvoice(ctx, customerID, date)
	if err != nil {
		return nil, "", err
	}
	return uc.render(ctx, inv, inv.Date.Format(billing.DateLayout))
}

func (uc *InvoiceUseCase) render(ctx context.Context, inv *billing.ItemizedInvoice, suffix string) ([]byte, string, error) {
	if uc.generator == nil {
		return nil, "", errors.New("pdf: generador no configurado")
	}
	pdfBytes, err := uc.generator.GenerateInvoicePDF(ctx, inv, uc.business)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("invoice_%s_%s.pdf", slug(inv.Customer.Name), suffix), nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slug(s string) string {
	out := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if out == "" {
		return "customer"
	}
	return out
}
