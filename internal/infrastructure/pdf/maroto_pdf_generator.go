// Package pdf genera la factura detallada del cliente en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Negocio + contacto   │  INVOICE + período + fecha  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BILL TO: Nombre + móvil + dirección + suscripción           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Date | Day | Breakfast | Lunch | Dinner              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: suscripción / comidas / anticipos / TOTAL          │
//	│  FOOTER: agradecimiento                                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/tiffin-api/internal/application/billing"
	"github.com/jhoicas/tiffin-api/internal/domain/billing"
	"github.com/jhoicas/tiffin-api/internal/domain/entity"
	"github.com/jhoicas/tiffin-api/pkg/money"
)

// pdfSymbol reemplaza ₹, que no existe en las fuentes base (cp1252).
const pdfSymbol = "Rs. "

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 240, Green: 244, Blue: 248}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF de una factura mensual o diaria y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	inv *billing.ItemizedInvoice,
	business appbilling.BusinessInfo,
) ([]byte, error) {
	if inv == nil || inv.Customer == nil {
		return nil, fmt.Errorf("pdf: factura sin cliente")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+inv.PeriodLabel, true).
		WithAuthor(nonEmpty(business.Name, "Tiffin Service"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(inv, business))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(billToRow(inv.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Desglose por día
	m.AddRows(tableHeaderRow())
	m.AddRows(tableDayRows(inv)...)

	// Resumen
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRows(inv)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: negocio (izq) y tipo de factura + período (der).
func headerRow(inv *billing.ItemizedInvoice, business appbilling.BusinessInfo) core.Row {
	title := "MONTHLY INVOICE"
	if inv.PeriodType == billing.PeriodDaily {
		title = "DAILY INVOICE"
	}
	contact := strings.Join(nonEmptyParts(business.Address, phoneLabel(business.Phone)), "   |   ")

	return row.New(20).Add(
		col.New(7).Add(
			text.New(nonEmpty(business.Name, "Tiffin Service"), props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New(contact, props.Text{
				Size: 8, Top: 10, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(inv.PeriodLabel, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Date: "+issueDate(inv), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// billToRow: datos del cliente.
func billToRow(c *entity.Customer) core.Row {
	plan := "Daily rate " + pdfMoney(c.DailyAmount)
	if c.SubscriptionType == entity.SubscriptionMonthly {
		plan = "Monthly plan " + pdfMoney(c.DailyAmount)
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New("BILL TO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(c.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Mobile: %s   |   Address: %s   |   %s   |   Meals: %s",
				nonEmpty(c.Mobile, "-"),
				nonEmpty(c.Address, "-"),
				plan,
				strings.Join(c.MealTimes, ", "),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla del desglose sobre fondo azul.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Date", 2, align.Left),
		h("Day", 1, align.Center),
		h("Breakfast", 3, align.Left),
		h("Lunch", 3, align.Left),
		h("Dinner", 3, align.Left),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableDayRows: una fila por día, con franjas alternas.
func tableDayRows(inv *billing.ItemizedInvoice) []core.Row {
	short := inv.MonthName
	if len(short) > 3 {
		short = short[:3]
	}
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(pdfText(s), props.Text{
			Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	result := make([]core.Row, 0, len(inv.Days))
	for i, d := range inv.Days {
		r := row.New(6).Add(
			cell(fmt.Sprintf("%d-%s", d.Day, short), 2, align.Left),
			cell(d.Date.Weekday().String()[:3], 1, align.Center),
			cell(d.Breakfast, 3, align.Left),
			cell(d.Lunch, 3, align.Left),
			cell(d.Dinner, 3, align.Left),
		)
		if i%2 == 1 {
			r = r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		result = append(result, r)
	}
	return result
}

// summaryRows: bloque de importes alineado a la derecha.
func summaryRows(inv *billing.ItemizedInvoice) []core.Row {
	s := inv.Summary
	var subscription string
	switch {
	case inv.PeriodType == billing.PeriodDaily:
		subscription = "Daily subscription"
	case inv.Customer.SubscriptionType == entity.SubscriptionDaily:
		subscription = fmt.Sprintf("Subscription (%d days x %s)", s.DaysInMonth, pdfMoney(s.DailyAmount))
	default:
		subscription = "Monthly subscription"
	}

	amountRow := func(label string, amount decimal.Decimal, bold bool) core.Row {
		style := fontstyle.Normal
		color := &props.Color{}
		size := 9.0
		if bold {
			style, color, size = fontstyle.Bold, colorPrimary, 10
		}
		return row.New(6).Add(
			col.New(4), // espacio izquierdo
			col.New(5).Add(text.New(label, props.Text{
				Style: style, Size: size, Align: align.Right, Color: color, Right: 2, Top: 1,
			})),
			col.New(3).Add(text.New(pdfMoney(amount), props.Text{
				Style: style, Size: size, Align: align.Right, Color: color, Right: 1, Top: 1,
			})),
		)
	}

	rows := []core.Row{
		amountRow(subscription+":", s.SubscriptionTotal, false),
		amountRow("Breakfast extras:", s.BreakfastTotal, false),
		amountRow("Lunch extras:", s.LunchTotal, false),
		amountRow("Dinner extras:", s.DinnerTotal, false),
		amountRow("Total:", s.TotalBeforeAdvance(), false),
	}
	if inv.PeriodType == billing.PeriodMonthly {
		rows = append(rows, amountRow("Less advance paid:", s.TotalAdvance.Neg(), false))
	}
	label := "AMOUNT DUE:"
	if s.GrandTotal.IsNegative() {
		label = "CREDIT BALANCE:"
	}
	return append(rows, amountRow(label, s.GrandTotal, true))
}

func footerRow() core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New("Thank you for your business!", props.Text{
			Style: fontstyle.Italic, Size: 9, Align: align.Center,
			Color: colorGray, Top: 2,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func issueDate(inv *billing.ItemizedInvoice) string {
	if inv.PeriodType == billing.PeriodDaily {
		return inv.Date.Format("02 Jan 2006")
	}
	return inv.Period.LastDay().Format("02 Jan 2006")
}

func pdfMoney(d decimal.Decimal) string {
	return money.FormatWith(d, pdfSymbol)
}

// pdfText adapta las celdas del desglose ("Dal – ₹40.00") a las fuentes base.
func pdfText(s string) string {
	return strings.NewReplacer(billing.CurrencySymbol, pdfSymbol, "–", "-").Replace(s)
}

func phoneLabel(phone string) string {
	if phone == "" {
		return ""
	}
	return "Tel: " + phone
}

func nonEmptyParts(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
