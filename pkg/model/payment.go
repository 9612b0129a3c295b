package model

import (
	"fmt"
	"time"
)

// PaymentStatus is the backend's lifecycle state of a payment.
type PaymentStatus string

const (
	StatusPendiente  PaymentStatus = "pendiente"
	StatusPorValidar PaymentStatus = "pendiente_validacion"
	StatusPagado     PaymentStatus = "pagado"
	StatusRechazado  PaymentStatus = "rechazado"
)

// StatusBadge carries the render-ready presentation of a payment status.
type StatusBadge struct {
	Label string
	Color string // semantic severity: success, warning, info, danger, gray
	Icon  string
}

// Badge resolves the display badge for a status. Unknown statuses render
// verbatim with a neutral badge.
func (s PaymentStatus) Badge() StatusBadge {
	switch s {
	case StatusPendiente:
		return StatusBadge{Label: "Pendiente", Color: "warning", Icon: "⏳"}
	case StatusPorValidar:
		return StatusBadge{Label: "Por validar", Color: "info", Icon: "🔍"}
	case StatusPagado:
		return StatusBadge{Label: "Pagado", Color: "success", Icon: "✅"}
	case StatusRechazado:
		return StatusBadge{Label: "Rechazado", Color: "danger", Icon: "❌"}
	default:
		return StatusBadge{Label: string(s), Color: "gray", Icon: "❓"}
	}
}

// Payment is a registered Yape payment for one billing period.
type Payment struct {
	ID             int64         `json:"id"`
	UsuarioID      int64         `json:"usuario_id"`
	Usuario        *User         `json:"usuario,omitempty"`
	SemanaID       int64         `json:"semana_id,omitempty"`
	NumeroSemana   int           `json:"numero_semana,omitempty"`
	MesPago        int           `json:"mes_pago,omitempty"`
	Anio           int           `json:"anio,omitempty"`
	Monto          float64       `json:"monto"`
	Estado         PaymentStatus `json:"estado"`
	MetodoPago     string        `json:"metodo_pago"`
	CodigoPago     string        `json:"codigo_pago,omitempty"`
	ComprobanteURL string        `json:"comprobante_url,omitempty"`
	MotivoRechazo  string        `json:"motivo_rechazo,omitempty"`
	FechaPago      string        `json:"fecha_pago,omitempty"`
	CreatedAt      time.Time     `json:"created_at,omitempty"`
}

// EsMensual reports whether the payment covers a month rather than a week.
func (p *Payment) EsMensual() bool {
	return p.MesPago != 0 && p.SemanaID == 0
}

// WorkerType is a billing cadence + base price pairing.
type WorkerType struct {
	ID        int     `json:"id"`
	Nombre    string  `json:"nombre"`
	Precio    float64 `json:"precio"`
	EsMensual bool    `json:"es_mensual"`
}

// TipoPersonalizado is the worker type whose price is set per worker.
const TipoPersonalizado = 4

// FormatMoney renders an amount in Peruvian soles.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("S/ %.2f", amount)
}

var monthNames = [...]string{
	"", "Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MonthName returns the Spanish month name, or "" for out-of-range values.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month]
}
