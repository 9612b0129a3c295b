package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/etturpe/ettur/pkg/model"
)

// ConfiguracionService reads and edits the service-wide settings: worker
// type prices, the Yape destination number and the low-season months.
type ConfiguracionService struct {
	c *Client
}

// Config is the backend's service configuration.
type Config struct {
	NumeroYape     string             `json:"numero_yape"`
	TitularYape    string             `json:"titular_yape"`
	Tipos          []model.WorkerType `json:"tipos_trabajador"`
	TemporadaBaja  []int              `json:"temporada_baja"` // month numbers 1-12
	PrecioTempBaja float64            `json:"precio_temporada_baja,omitempty"`
}

// Get fetches the full configuration.
func (s *ConfiguracionService) Get(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := s.c.request(ctx, http.MethodGet, "/configuracion", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WorkerTypes lists the billing types with their current prices.
func (s *ConfiguracionService) WorkerTypes(ctx context.Context) ([]model.WorkerType, error) {
	var tipos []model.WorkerType
	if err := s.c.request(ctx, http.MethodGet, "/configuracion/tipos", nil, &tipos); err != nil {
		return nil, err
	}
	return tipos, nil
}

// Update replaces the Yape destination details.
func (s *ConfiguracionService) Update(ctx context.Context, numeroYape, titular string) error {
	body := map[string]string{"numero_yape": numeroYape, "titular_yape": titular}
	return s.c.request(ctx, http.MethodPut, "/configuracion", body, nil)
}

// UpdatePrice changes the base price of one worker type.
func (s *ConfiguracionService) UpdatePrice(ctx context.Context, tipoID int, precio float64) error {
	body := map[string]float64{"precio": precio}
	return s.c.request(ctx, http.MethodPatch, fmt.Sprintf("/configuracion/tipos/%d/precio", tipoID), body, nil)
}

// UpdateSeasons replaces the set of low-season months.
func (s *ConfiguracionService) UpdateSeasons(ctx context.Context, meses []int, precio float64) error {
	body := map[string]any{"temporada_baja": meses, "precio_temporada_baja": precio}
	return s.c.request(ctx, http.MethodPut, "/configuracion/temporada-baja", body, nil)
}
