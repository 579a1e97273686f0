// Package excel exporta el libro de facturas a una hoja de cálculo .xlsx.
package excel

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	appbilling "github.com/jhoicas/tiffin-api/internal/application/billing"
	"github.com/jhoicas/tiffin-api/internal/domain/billing"
)

// SheetName hoja única del libro.
const SheetName = "Invoices"

// Fila del encabezado de columnas; los datos empiezan en la siguiente.
const headerRow = 3

var headings = []string{"Customer", "Mobile", "Period", "Amount", "Status", "Created", "Paid at", "Payment notes"}

// LedgerExporter implementa billing.LedgerExporter con excelize.
type LedgerExporter struct{}

var _ appbilling.LedgerExporter = (*LedgerExporter)(nil)

// NewLedgerExporter construye el exportador.
func NewLedgerExporter() *LedgerExporter { return &LedgerExporter{} }

// ExportLedger escribe título, encabezados, una fila por factura y el total de importes.
func (e *LedgerExporter) ExportLedger(ctx context.Context, title string, rows []appbilling.LedgerRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("excel: hoja: %w", err)
	}
	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	// ── 1. Título ─────────────────────────────────────────────────────────────
	if err := f.SetCellValue(SheetName, "A1", title); err != nil {
		return nil, err
	}
	if err := f.MergeCell(SheetName, "A1", "H1"); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, "A1", "A1", styles.title); err != nil {
		return nil, err
	}

	// ── 2. Encabezados ────────────────────────────────────────────────────────
	for i, h := range headings {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return nil, err
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(headings), headerRow)
	if err := f.SetCellStyle(SheetName, first, last, styles.header); err != nil {
		return nil, err
	}

	// ── 3. Datos ──────────────────────────────────────────────────────────────
	total := decimal.Zero
	for i, r := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if r.Invoice == nil {
			continue
		}
		inv := r.Invoice
		rowNo := headerRow + 1 + i
		period := fmt.Sprintf("%04d-%02d", inv.Year, inv.Month)
		if p, perr := billing.NewPeriod(inv.Year, inv.Month); perr == nil {
			period = p.Label()
		}
		paidAt := ""
		if inv.PaidAt != nil {
			paidAt = inv.PaidAt.Format("2006-01-02 15:04")
		}
		values := []interface{}{
			r.CustomerName,
			r.CustomerMobile,
			period,
			nil, // importe: ver setAmount
			inv.Status,
			inv.CreatedAt.Format("2006-01-02 15:04"),
			paidAt,
			inv.PaymentNotes,
		}
		start, _ := excelize.CoordinatesToCellName(1, rowNo)
		if err := f.SetSheetRow(SheetName, start, &values); err != nil {
			return nil, fmt.Errorf("excel: fila %d: %w", rowNo, err)
		}
		amountCell, _ := excelize.CoordinatesToCellName(4, rowNo)
		if err := setAmount(f, amountCell, inv.Amount); err != nil {
			return nil, fmt.Errorf("excel: fila %d: %w", rowNo, err)
		}
		total = total.Add(inv.Amount)
	}

	// ── 4. Total ──────────────────────────────────────────────────────────────
	totalRow := headerRow + 1 + len(rows)
	labelCell, _ := excelize.CoordinatesToCellName(3, totalRow)
	amountCell, _ := excelize.CoordinatesToCellName(4, totalRow)
	if err := f.SetCellValue(SheetName, labelCell, "Total"); err != nil {
		return nil, err
	}
	if err := setAmount(f, amountCell, total); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, labelCell, amountCell, styles.total); err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		from, _ := excelize.CoordinatesToCellName(4, headerRow+1)
		to, _ := excelize.CoordinatesToCellName(4, totalRow-1)
		if err := f.SetCellStyle(SheetName, from, to, styles.amount); err != nil {
			return nil, err
		}
	}

	for col, width := range map[string]float64{"A": 28, "B": 14, "C": 16, "D": 12, "E": 10, "F": 17, "G": 17, "H": 30} {
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

// setAmount escribe d como celda numérica con su texto decimal exacto (dos decimales),
// sin pasar por float64.
func setAmount(f *excelize.File, cell string, d decimal.Decimal) error {
	return f.SetCellDefault(SheetName, cell, d.StringFixed(2))
}

type sheetStyles struct {
	title, header, amount, total int
}

// amountFormat: separador de miles con dos decimales.
const amountFormat = "#,##0.00"

func newStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error
	numFmt := amountFormat
	if s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14, Color: "00467F"},
	}); err != nil {
		return s, fmt.Errorf("excel: estilo: %w", err)
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"00467F"}},
	}); err != nil {
		return s, fmt.Errorf("excel: estilo: %w", err)
	}
	if s.amount, err = f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt}); err != nil {
		return s, fmt.Errorf("excel: estilo: %w", err)
	}
	if s.total, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: &numFmt,
	}); err != nil {
		return s, fmt.Errorf("excel: estilo: %w", err)
	}
	return s, nil
}
