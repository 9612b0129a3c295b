package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/etturpe/ettur/pkg/billing"
	"github.com/etturpe/ettur/pkg/model"
)

// PagosService registers, lists and validates payments.
type PagosService struct {
	c *Client
}

// MaxComprobanteSize is the upload limit for receipt images.
const MaxComprobanteSize = 5 << 20

var comprobanteExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

var (
	ErrComprobanteMissing = errors.New("adjunta el comprobante de pago")
	ErrComprobanteType    = errors.New("el comprobante debe ser una imagen jpg, png o webp")
	ErrComprobanteSize    = errors.New("el comprobante no puede superar 5 MB")
)

// Comprobante is a receipt image attached to a payment registration.
type Comprobante struct {
	Filename string
	Data     []byte
}

// Validate checks the receipt against the upload constraints.
func (c *Comprobante) Validate() error {
	if c == nil || len(c.Data) == 0 {
		return fmt.Errorf("%w: %w", ErrValidation, ErrComprobanteMissing)
	}
	ext := strings.ToLower(filepath.Ext(c.Filename))
	if _, ok := comprobanteExts[ext]; !ok {
		return fmt.Errorf("%w: %w", ErrValidation, ErrComprobanteType)
	}
	if len(c.Data) > MaxComprobanteSize {
		return fmt.Errorf("%w: %w", ErrValidation, ErrComprobanteSize)
	}
	return nil
}

// RegisterPaymentInput is one Yape payment for a single period. Exactly one
// of SemanaID or MesPago is set.
type RegisterPaymentInput struct {
	SemanaID    int64
	MesPago     int
	Anio        int
	Monto       float64
	CodigoPago  string
	Comprobante *Comprobante
}

// Register submits a payment as multipart form data with the receipt image.
func (s *PagosService) Register(ctx context.Context, in RegisterPaymentInput) (*model.Payment, error) {
	if err := in.Comprobante.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if in.SemanaID != 0 {
		_ = w.WriteField("semana_id", fmt.Sprintf("%d", in.SemanaID))
	} else {
		_ = w.WriteField("mes_pago", fmt.Sprintf("%d", in.MesPago))
		_ = w.WriteField("anio", fmt.Sprintf("%d", in.Anio))
	}
	_ = w.WriteField("monto", fmt.Sprintf("%.2f", in.Monto))
	_ = w.WriteField("metodo_pago", "yape")
	_ = w.WriteField("codigo_pago", in.CodigoPago)

	part, err := w.CreateFormFile("comprobante", in.Comprobante.Filename)
	if err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if _, err := part.Write(in.Comprobante.Data); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.c.base+"/pagos", &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var p model.Payment
	if err := s.c.do(req, "/pagos", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns payments visible to the caller, optionally filtered by state.
func (s *PagosService) List(ctx context.Context, estado model.PaymentStatus) ([]model.Payment, error) {
	path := "/pagos"
	if estado != "" {
		path += "?estado=" + string(estado)
	}
	var pagos []model.Payment
	if err := s.c.request(ctx, http.MethodGet, path, nil, &pagos); err != nil {
		return nil, err
	}
	return pagos, nil
}

// MyPayments returns the authenticated worker's payment history for a year.
func (s *PagosService) MyPayments(ctx context.Context, anio int) ([]model.Payment, error) {
	path := "/pagos/mis-pagos"
	if anio > 0 {
		path += fmt.Sprintf("?anio=%d", anio)
	}
	var pagos []model.Payment
	if err := s.c.request(ctx, http.MethodGet, path, nil, &pagos); err != nil {
		return nil, err
	}
	return pagos, nil
}

// Pending returns payments awaiting administrator validation.
func (s *PagosService) Pending(ctx context.Context) ([]model.Payment, error) {
	var pagos []model.Payment
	if err := s.c.request(ctx, http.MethodGet, "/pagos/pendientes-validacion", nil, &pagos); err != nil {
		return nil, err
	}
	return pagos, nil
}

// pendingPeriod is the wire form of an unpaid period. The cadence and the
// current flag are carried out of band on billing.Period, so they decode
// through this wrapper.
type pendingPeriod struct {
	billing.Period
	EsActual bool `json:"es_actual"`
}

func toPeriods(wire []pendingPeriod, kind billing.PeriodKind) []billing.Period {
	out := make([]billing.Period, len(wire))
	for i, w := range wire {
		p := w.Period
		p.Kind = kind
		p.EsActual = w.EsActual
		out[i] = p
	}
	return out
}

// PendingWeeks returns the worker's unpaid weeks, oldest first.
func (s *PagosService) PendingWeeks(ctx context.Context) ([]billing.Period, error) {
	var wire []pendingPeriod
	if err := s.c.request(ctx, http.MethodGet, "/pagos/semanas-pendientes", nil, &wire); err != nil {
		return nil, err
	}
	return toPeriods(wire, billing.Weekly), nil
}

// PendingMonths returns the worker's unpaid months, oldest first.
func (s *PagosService) PendingMonths(ctx context.Context) ([]billing.Period, error) {
	var wire []pendingPeriod
	if err := s.c.request(ctx, http.MethodGet, "/pagos/meses-pendientes", nil, &wire); err != nil {
		return nil, err
	}
	return toPeriods(wire, billing.Monthly), nil
}

// Validate approves a payment under review.
func (s *PagosService) Validate(ctx context.Context, id int64) error {
	return s.c.request(ctx, http.MethodPatch, fmt.Sprintf("/pagos/%d/validar", id), nil, nil)
}

// Reject declines a payment under review with a reason shown to the worker.
func (s *PagosService) Reject(ctx context.Context, id int64, motivo string) error {
	body := map[string]string{"motivo_rechazo": motivo}
	return s.c.request(ctx, http.MethodPatch, fmt.Sprintf("/pagos/%d/rechazar", id), body, nil)
}
