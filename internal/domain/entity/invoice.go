package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la factura. pending -> paid es la única transición.
const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
)

// Invoice es el cobro de un cliente para un mes (a lo sumo una por cliente, mes y año).
type Invoice struct {
	ID           string
	CustomerID   string
	Month        int // 1-12
	Year         int
	Amount       decimal.Decimal // gran total a pagar
	Status       string
	CreatedAt    time.Time
	PaidAt       *time.Time
	PaymentNotes string // medio o referencia de pago; obligatorio para pasar a paid
}

// IsPaid indica si la factura ya fue saldada.
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}
