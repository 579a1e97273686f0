// Package money formatea importes en rupias para el PDF y la CLI.
package money

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Symbol de la moneda.
const Symbol = "₹"

var printer = message.NewPrinter(language.English)

// Format devuelve el importe con símbolo, separador de miles y dos decimales: ₹1,234.50.
func Format(d decimal.Decimal) string {
	return FormatWith(d, Symbol)
}

// FormatWith igual que Format con otro símbolo (las fuentes base del PDF no tienen ₹).
// La parte entera se agrupa como entero para no pasar por float.
func FormatWith(d decimal.Decimal, symbol string) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	d = d.Round(2)
	fixed := d.StringFixed(2)
	if d.GreaterThan(maxGrouped) {
		return sign + symbol + fixed
	}
	_, frac, _ := strings.Cut(fixed, ".")
	return sign + symbol + printer.Sprintf("%d", d.Truncate(0).IntPart()) + "." + frac
}

// Cents indica si d cabe en dos decimales sin redondeo (NUMERIC(12,2) en Postgres).
func Cents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

var maxGrouped = decimal.NewFromInt(math.MaxInt64)
