// Package billing contiene el motor de facturación: períodos y el cálculo puro de la
// factura detallada (suscripción + extras - anticipos). No depende de infraestructura.
package billing

import (
	"fmt"
	"time"

	"github.com/jhoicas/tiffin-api/internal/domain"
)

// DateLayout es el formato ISO de fecha de calendario usado en todas las fronteras.
const DateLayout = "2006-01-02"

const (
	minYear = 2000
	maxYear = 9999
)

// Period es un mes de facturación. Month siempre va de 1 a 12.
type Period struct {
	Year  int
	Month time.Month
}

// NewPeriod valida año y mes (1-12).
func NewPeriod(year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("%w: mes %d fuera de rango 1-12", domain.ErrInvalidInput, month)
	}
	if year < minYear || year > maxYear {
		return Period{}, fmt.Errorf("%w: año %d fuera de rango", domain.ErrInvalidInput, year)
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// ParsePeriod interpreta "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("%w: período %q, formato esperado YYYY-MM", domain.ErrInvalidInput, s)
	}
	return NewPeriod(t.Year(), int(t.Month()))
}

// PeriodOf devuelve el mes calendario de t (en la zona de t).
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// Previous devuelve el mes anterior, retrocediendo el año en enero.
func (p Period) Previous() Period {
	if p.Month == time.January {
		return Period{Year: p.Year - 1, Month: time.December}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

// Days es la cantidad de días calendario del mes.
func (p Period) Days() int {
	// día 0 del mes siguiente = último día de este mes
	return time.Date(p.Year, p.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstDay devuelve el día 1 del mes (UTC, sin hora).
func (p Period) FirstDay() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// LastDay devuelve el último día del mes (UTC, sin hora).
func (p Period) LastDay() time.Time {
	return time.Date(p.Year, p.Month, p.Days(), 0, 0, 0, 0, time.UTC)
}

// Day devuelve la fecha del día d del mes.
func (p Period) Day(d int) time.Time {
	return time.Date(p.Year, p.Month, d, 0, 0, 0, 0, time.UTC)
}

// Contains indica si la fecha de calendario cae dentro del mes.
func (p Period) Contains(date time.Time) bool {
	return date.Year() == p.Year && date.Month() == p.Month
}

// After indica si p es posterior a o.
func (p Period) After(o Period) bool {
	if p.Year != o.Year {
		return p.Year > o.Year
	}
	return p.Month > o.Month
}

// Equal compara año y mes.
func (p Period) Equal(o Period) bool {
	return p.Year == o.Year && p.Month == o.Month
}

// MonthNumber devuelve el mes como entero 1-12 (forma usada en persistencia y API).
func (p Period) MonthNumber() int {
	return int(p.Month)
}

// String devuelve "YYYY-MM".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Label devuelve "January 2026".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", p.Month.String(), p.Year)
}

// DateOnly descarta hora y zona: conserva el día de calendario visto en la zona de t.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate interpreta "YYYY-MM-DD".
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q, formato esperado YYYY-MM-DD", domain.ErrInvalidInput, s)
	}
	return t, nil
}

// SameDate compara solo el día de calendario.
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
