// Package billing classifies a worker's pending billing periods and computes
// the payment-deadline countdown shown across the app.
package billing

import (
	"strconv"
	"time"

	"github.com/etturpe/ettur/pkg/model"
)

// PeriodKind distinguishes the two billing cadences.
type PeriodKind int

const (
	Weekly PeriodKind = iota
	Monthly
)

func (k PeriodKind) String() string {
	if k == Monthly {
		return "mes"
	}
	return "semana"
}

// Plural returns the plural cadence noun ("semanas" / "meses").
func (k PeriodKind) Plural() string {
	if k == Monthly {
		return "meses"
	}
	return "semanas"
}

// Period is one unpaid billing period as reported by the backend.
// Weekly periods carry a week number and explicit start/end dates; monthly
// periods carry the month number. Prices may differ per period (low season).
type Period struct {
	ID              int64      `json:"id"`
	Kind            PeriodKind `json:"-"`
	Numero          int        `json:"numero"` // week 1-52 or month 1-12
	Anio            int        `json:"anio"`
	Precio          float64    `json:"precio"`
	MesNombre       string     `json:"mes_nombre,omitempty"`
	FechaInicio     string     `json:"fecha_inicio,omitempty"` // weekly, "2006-01-02"
	FechaFin        string     `json:"fecha_fin,omitempty"`    // weekly, "2006-01-02"
	EsActual        bool       `json:"-"`
	PuedePagar      bool       `json:"puede_pagar"`
	EsTemporadaBaja bool       `json:"es_temporada_baja,omitempty"`
}

// Title returns the period's heading: "Semana 24" or "Febrero 2025".
func (p Period) Title() string {
	if p.Kind == Monthly {
		name := p.MesNombre
		if name == "" {
			name = model.MonthName(p.Numero)
		}
		if p.Anio > 0 {
			return name + " " + strconv.Itoa(p.Anio)
		}
		return name
	}
	return "Semana " + strconv.Itoa(p.Numero)
}

// Subtitle returns the period's secondary line.
func (p Period) Subtitle() string {
	if p.Kind == Monthly {
		return "Pago mensual"
	}
	return p.MesNombre
}

// EndOfPeriod returns the period's deadline: the last calendar day of the
// month for monthly periods, or the explicit end date for weekly ones, both
// at 23:59:59.999 local time. The zero time is returned when a weekly period
// has no end date.
func (p Period) EndOfPeriod(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	if p.Kind == Monthly {
		// Day 0 of the following month is the last day of this one.
		return time.Date(p.Anio, time.Month(p.Numero)+1, 0, 23, 59, 59, int(999*time.Millisecond), loc)
	}
	if p.FechaFin == "" {
		return time.Time{}
	}
	d, err := time.ParseInLocation("2006-01-02", p.FechaFin, loc)
	if err != nil {
		return time.Time{}
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
}

// DaysRemaining computes the countdown to the period's deadline, recomputed
// client-side regardless of any backend-supplied value. The count is the
// number of started days between today's midnight and the deadline, never
// negative.
func (p Period) DaysRemaining(now time.Time) int {
	end := p.EndOfPeriod(now.Location())
	if end.IsZero() {
		return 0
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	diff := end.Sub(midnight)
	if diff <= 0 {
		return 0
	}
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) != 0 {
		days++
	}
	return days
}

