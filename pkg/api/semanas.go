package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/etturpe/ettur/pkg/billing"
)

// SemanasService exposes the billing-week calendar.
type SemanasService struct {
	c *Client
}

// List returns the weeks of a year with their dates and prices.
func (s *SemanasService) List(ctx context.Context, anio int) ([]billing.Period, error) {
	path := "/semanas"
	if anio > 0 {
		path += fmt.Sprintf("?anio=%d", anio)
	}
	var wire []pendingPeriod
	if err := s.c.request(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}
	return toPeriods(wire, billing.Weekly), nil
}

// Current returns the week in progress.
func (s *SemanasService) Current(ctx context.Context) (*billing.Period, error) {
	var wire pendingPeriod
	if err := s.c.request(ctx, http.MethodGet, "/semanas/actual", nil, &wire); err != nil {
		return nil, err
	}
	p := wire.Period
	p.Kind = billing.Weekly
	p.EsActual = true
	return &p, nil
}
