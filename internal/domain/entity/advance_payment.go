package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdvancePayment es un pago anticipado que se abona a un mes de facturación.
// Month/Year identifican el período que compensa; Date es el día en que se recibió el dinero.
type AdvancePayment struct {
	ID         string
	CustomerID string
	Amount     decimal.Decimal
	Date       time.Time
	Month      int // 1-12
	Year       int
	Notes      string
	CreatedAt  time.Time
}
