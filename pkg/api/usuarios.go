package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/etturpe/ettur/pkg/model"
)

// UsuariosService manages worker and coadministrator accounts.
type UsuariosService struct {
	c *Client
}

// ListUsuariosOptions filters the user listing. Zero values mean "all".
type ListUsuariosOptions struct {
	Buscar string // matches name, DNI or plate
	Rol    string
	Activo *bool
}

// CreateUserInput is the payload for registering a new account.
type CreateUserInput struct {
	DNI              string              `json:"dni"`
	Nombre           string              `json:"nombre"`
	Apellido         string              `json:"apellido"`
	Placa            string              `json:"placa,omitempty"`
	Telefono         string              `json:"telefono,omitempty"`
	Rol              string              `json:"rol"`
	TipoTrabajadorID int                 `json:"tipo_trabajador_id,omitempty"`
	PrecioCustom     float64             `json:"precio_personalizado,omitempty"`
	Permisos         model.PermissionSet `json:"permisos,omitempty"`
}

// UpdateUserInput carries the editable account fields. Pointer fields are
// omitted when nil so partial updates leave the rest untouched.
type UpdateUserInput struct {
	Nombre   *string `json:"nombre,omitempty"`
	Apellido *string `json:"apellido,omitempty"`
	Placa    *string `json:"placa,omitempty"`
	Telefono *string `json:"telefono,omitempty"`
}

// List returns accounts matching opts.
func (s *UsuariosService) List(ctx context.Context, opts ListUsuariosOptions) ([]model.User, error) {
	q := url.Values{}
	if opts.Buscar != "" {
		q.Set("buscar", opts.Buscar)
	}
	if opts.Rol != "" {
		q.Set("rol", opts.Rol)
	}
	if opts.Activo != nil {
		q.Set("activo", fmt.Sprintf("%t", *opts.Activo))
	}
	path := "/usuarios"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var users []model.User
	if err := s.c.request(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Get fetches one account.
func (s *UsuariosService) Get(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := s.c.request(ctx, http.MethodGet, fmt.Sprintf("/usuarios/%d", id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create registers a new worker or coadministrator.
func (s *UsuariosService) Create(ctx context.Context, in CreateUserInput) (*model.User, error) {
	var u model.User
	if err := s.c.request(ctx, http.MethodPost, "/usuarios", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Update edits an account's basic fields.
func (s *UsuariosService) Update(ctx context.Context, id int64, in UpdateUserInput) (*model.User, error) {
	var u model.User
	if err := s.c.request(ctx, http.MethodPut, fmt.Sprintf("/usuarios/%d", id), in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Delete removes an account permanently.
func (s *UsuariosService) Delete(ctx context.Context, id int64) error {
	return s.c.request(ctx, http.MethodDelete, fmt.Sprintf("/usuarios/%d", id), nil, nil)
}

// ToggleActive flips an account between active and suspended.
func (s *UsuariosService) ToggleActive(ctx context.Context, id int64, activo bool) error {
	body := map[string]bool{"activo": activo}
	return s.c.request(ctx, http.MethodPatch, fmt.Sprintf("/usuarios/%d/estado", id), body, nil)
}

// ChangeType moves a worker to another billing type. precioCustom is only
// honoured for the personalized type.
func (s *UsuariosService) ChangeType(ctx context.Context, id int64, tipoID int, precioCustom float64) error {
	body := map[string]any{"tipo_trabajador_id": tipoID}
	if tipoID == model.TipoPersonalizado {
		body["precio_personalizado"] = precioCustom
	}
	return s.c.request(ctx, http.MethodPatch, fmt.Sprintf("/usuarios/%d/tipo", id), body, nil)
}

// UpdatePermissions replaces a coadministrator's permission set.
func (s *UsuariosService) UpdatePermissions(ctx context.Context, id int64, permisos model.PermissionSet) error {
	body := map[string]any{"permisos": permisos}
	return s.c.request(ctx, http.MethodPut, fmt.Sprintf("/usuarios/%d/permisos", id), body, nil)
}
