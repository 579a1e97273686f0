package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de suscripción.
const (
	SubscriptionDaily   = "daily"   // DailyAmount es tarifa por día
	SubscriptionMonthly = "monthly" // DailyAmount es tarifa plana mensual
)

// Estados del cliente.
const (
	CustomerStatusActive = "active"
	CustomerStatusPaused = "paused"
)

// Customer representa un suscriptor del servicio de comidas.
type Customer struct {
	ID               string
	Name             string
	Mobile           string
	Address          string
	SubscriptionType string          // daily | monthly
	DailyAmount      decimal.Decimal // por día (daily) o tarifa plana del mes (monthly)
	MealTimes        []string        // subconjunto no vacío de breakfast, lunch, dinner
	Referral         string
	StartDate        time.Time // fecha de calendario, sin hora
	Status           string    // active | paused
	ArchivedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsArchived indica si el cliente fue dado de baja lógica.
func (c *Customer) IsArchived() bool {
	return c.ArchivedAt != nil
}

// ValidSubscriptionType verifica el tipo de suscripción.
func ValidSubscriptionType(s string) bool {
	return s == SubscriptionDaily || s == SubscriptionMonthly
}

// ValidCustomerStatus verifica el estado del cliente.
func ValidCustomerStatus(s string) bool {
	return s == CustomerStatusActive || s == CustomerStatusPaused
}
