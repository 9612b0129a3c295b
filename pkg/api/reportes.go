package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/etturpe/ettur/pkg/model"
)

// ReportesService aggregates collection and delinquency figures for the
// administrator dashboards.
type ReportesService struct {
	c *Client
}

// DashboardStats feeds the admin home page.
type DashboardStats struct {
	TotalTrabajadores  int     `json:"total_trabajadores"`
	PagosPorValidar    int     `json:"pagos_por_validar"`
	Morosos            int     `json:"morosos"`
	RecaudadoMes       float64 `json:"recaudado_mes"`
	RecaudadoAnio      float64 `json:"recaudado_anio"`
	SemanaActual       int     `json:"semana_actual"`
	PorcentajeCobranza float64 `json:"porcentaje_cobranza"`
}

// Delinquent is one worker behind on payments, ranked by periods owed.
type Delinquent struct {
	Usuario   model.User `json:"usuario"`
	Deuda     float64    `json:"deuda"`
	Periodos  int        `json:"periodos_pendientes"`
	EsMensual bool       `json:"es_mensual"`
	// UltimoPago is the date of the last approved payment, "" when none.
	UltimoPago string `json:"ultimo_pago,omitempty"`
}

// ReportRow is one line of a weekly, monthly or annual summary.
type ReportRow struct {
	Etiqueta   string  `json:"etiqueta"` // "Semana 24", "Junio", "2025"
	Esperado   float64 `json:"esperado"`
	Recaudado  float64 `json:"recaudado"`
	Pagos      int     `json:"pagos"`
	Pendientes int     `json:"pendientes"`
}

// Dashboard returns the admin home statistics.
func (s *ReportesService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := s.c.request(ctx, http.MethodGet, "/reportes/dashboard", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Weekly returns per-week collection figures for a year.
func (s *ReportesService) Weekly(ctx context.Context, anio int) ([]ReportRow, error) {
	return s.rows(ctx, fmt.Sprintf("/reportes/semanal?anio=%d", anio))
}

// Monthly returns per-month collection figures for a year.
func (s *ReportesService) Monthly(ctx context.Context, anio int) ([]ReportRow, error) {
	return s.rows(ctx, fmt.Sprintf("/reportes/mensual?anio=%d", anio))
}

// Annual returns per-year collection figures.
func (s *ReportesService) Annual(ctx context.Context) ([]ReportRow, error) {
	return s.rows(ctx, "/reportes/anual")
}

func (s *ReportesService) rows(ctx context.Context, path string) ([]ReportRow, error) {
	var rows []ReportRow
	if err := s.c.request(ctx, http.MethodGet, path, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Delinquents lists workers behind on payments, most owed first.
func (s *ReportesService) Delinquents(ctx context.Context) ([]Delinquent, error) {
	var out []Delinquent
	if err := s.c.request(ctx, http.MethodGet, "/reportes/morosos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Worker returns one worker's payment summary for the detail modal.
func (s *ReportesService) Worker(ctx context.Context, id int64) ([]model.Payment, error) {
	var pagos []model.Payment
	if err := s.c.request(ctx, http.MethodGet, fmt.Sprintf("/reportes/trabajador/%d", id), nil, &pagos); err != nil {
		return nil, err
	}
	return pagos, nil
}
