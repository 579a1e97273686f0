package billing

import (
	"context"
	"time"

	"github.com/jhoicas/tiffin-api/internal/domain/billing"
	"github.com/jhoicas/tiffin-api/internal/domain/entity"
)

// ScanLocker serializa escaneos de cobros por clave (un período).
// Acquire no espera: si la clave está tomada devuelve domain.ErrScanInProgress.
type ScanLocker interface {
	Acquire(ctx context.Context, key string) (release func(context.Context) error, err error)
}

// InvoicePDFGenerator puerto para renderizar la factura detallada como PDF.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, inv *billing.ItemizedInvoice, business BusinessInfo) ([]byte, error)
}

// LedgerRow una factura con los datos del cliente para el libro de cobros.
type LedgerRow struct {
	Invoice        *entity.Invoice
	CustomerName   string
	CustomerMobile string
}

// LedgerExporter puerto para exportar el libro de facturas (hoja de cálculo).
type LedgerExporter interface {
	ExportLedger(ctx context.Context, title string, rows []LedgerRow) ([]byte, error)
}

// BusinessInfo encabezado del negocio impreso en los documentos.
type BusinessInfo struct {
	Name    string
	Address string
	Phone   string
}

// Clock devuelve la hora actual. Se inyecta para fijar el "mes actual" en tests.
type Clock func() time.Time

// SystemClock reloj real evaluado en la zona dada.
func SystemClock(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}
