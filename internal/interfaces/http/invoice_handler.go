package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	appbilling "github.com/jhoicas/tiffin-api/internal/application/billing"
	"github.com/jhoicas/tiffin-api/internal/application/dto"
	"github.com/jhoicas/tiffin-api/internal/domain/billing"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// InvoiceHandler maneja el cálculo de facturas, su ciclo de vida y el escaneo de cobros (protegido).
type InvoiceHandler struct {
	invoices  *appbilling.InvoiceUseCase
	lifecycle *appbilling.LifecycleUseCase
	scanner   *appbilling.DuesScanner
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(invoices *appbilling.InvoiceUseCase, lifecycle *appbilling.LifecycleUseCase, scanner *appbilling.DuesScanner) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, lifecycle: lifecycle, scanner: scanner}
}

// ── Factura calculada ─────────────────────────────────────────────────────────

// Monthly godoc
// @Summary      Factura mensual detallada
// @Description  Calcula la factura del mes sin persistirla.
// @Tags         billing
// @Security     Bearer
// @Produce      json
// @Param        customer_id  query  string  true  "ID del cliente"
// @Param        year         query  int     true  "Año"
// @Param        month        query  int     true  "Mes 1-12"
// @Success      200  {object}  dto.ItemizedInvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/billing/monthly [get]
func (h *InvoiceHandler) Monthly(c *fiber.Ctx) error {
	var q dto.MonthlyInvoiceQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	inv, err := h.invoices.GenerateMonthlyInvoice(c.UserContext(), q.CustomerID, q.Year, q.Month)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromItemized(inv))
}

// MonthlyPDF GET /api/billing/monthly/pdf?customer_id=...&year=...&month=...
func (h *InvoiceHandler) MonthlyPDF(c *fiber.Ctx) error {
	var q dto.MonthlyInvoiceQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	pdfBytes, filename, err := h.invoices.InvoicePDF(c.UserContext(), q.CustomerID, q.Year, q.Month)
	if err != nil {
		return writeError(c, err)
	}
	return sendAttachment(c, contentTypePDF, filename, pdfBytes)
}

// Daily GET /api/billing/daily?customer_id=...&date=YYYY-MM-DD
func (h *InvoiceHandler) Daily(c *fiber.Ctx) error {
	var q dto.DailyInvoiceQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	date, err := billing.ParseDate(q.Date)
	if err != nil {
		return writeError(c, err)
	}
	inv, err := h.invoices.GenerateDailyInvoice(c.UserContext(), q.CustomerID, date)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromItemized(inv))
}

// DailyPDF GET /api/billing/daily/pdf?customer_id=...&date=YYYY-MM-DD
func (h *InvoiceHandler) DailyPDF(c *fiber.Ctx) error {
	var q dto.DailyInvoiceQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	date, err := billing.ParseDate(q.Date)
	if err != nil {
		return writeError(c, err)
	}
	pdfBytes, filename, err := h.invoices.DailyInvoicePDF(c.UserContext(), q.CustomerID, date)
	if err != nil {
		return writeError(c, err)
	}
	return sendAttachment(c, contentTypePDF, filename, pdfBytes)
}

// ── Facturas persistidas ──────────────────────────────────────────────────────

// SaveAsPending godoc
// @Summary      Guardar factura pendiente
// @Description  Sin amount se usa el gran total calculado del mes. 409 si ya existe factura del período.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaveAsPendingRequest  true  "Cliente y período"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) SaveAsPending(c *fiber.Ctx) error {
	var in dto.SaveAsPendingRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	inv, err := h.invoices.SaveAsPending(c.UserContext(), in.CustomerID, in.Year, in.Month, in.Amount)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromInvoice(inv, nil))
}

// List GET /api/invoices?status=pending|paid|all
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var q dto.InvoiceListQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	list, err := h.lifecycle.ListInvoices(c.UserContext(), q.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// PendingByCustomer GET /api/invoices/pending-by-customer
func (h *InvoiceHandler) PendingByCustomer(c *fiber.Ctx) error {
	groups, err := h.lifecycle.PendingByCustomer(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(groups)
}

// PaidHistory GET /api/invoices/paid
func (h *InvoiceHandler) PaidHistory(c *fiber.Ctx) error {
	list, err := h.lifecycle.PaidHistory(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Pay godoc
// @Summary      Marcar factura como pagada
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la factura"
// @Param        body  body  dto.PayInvoiceRequest  true  "Medio o referencia de pago"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pay [put]
func (h *InvoiceHandler) Pay(c *fiber.Ctx) error {
	var in dto.PayInvoiceRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.lifecycle.PayInvoice(c.UserContext(), c.Params("id"), in.Notes)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.lifecycle.DeleteInvoice(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Export GET /api/invoices/export?status=pending|paid|all (xlsx)
func (h *InvoiceHandler) Export(c *fiber.Ctx) error {
	var q dto.InvoiceListQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	data, filename, err := h.lifecycle.ExportLedger(c.UserContext(), q.Status)
	if err != nil {
		return writeError(c, err)
	}
	return sendAttachment(c, contentTypeXLSX, filename, data)
}

// Scan godoc
// @Summary      Escanear cobros
// @Description  Genera facturas pendientes del mes anterior (o del período indicado). 409 si ya hay un escaneo en curso.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScanRequest  false  "period YYYY-MM opcional"
// @Success      200   {object}  dto.ScanResultResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/scan [post]
func (h *InvoiceHandler) Scan(c *fiber.Ctx) error {
	var in dto.ScanRequest
	if len(c.Body()) > 0 {
		if err := bindBody(c, &in); err != nil {
			return writeError(c, err)
		}
	}
	period := h.scanner.TargetPeriod()
	if in.Period != "" {
		p, err := billing.ParsePeriod(in.Period)
		if err != nil {
			return writeError(c, err)
		}
		period = p
	}
	result, err := h.scanner.ScanPeriod(c.UserContext(), period)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result.Response())
}

func sendAttachment(c *fiber.Ctx, contentType, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}
