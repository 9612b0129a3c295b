package api

import (
	"context"
	"net/http"

	"github.com/etturpe/ettur/pkg/model"
)

// AuthService covers login, logout and the current-user probe.
type AuthService struct {
	c *Client
}

// LoginResult is the backend's successful login payload.
type LoginResult struct {
	Token    string              `json:"token"`
	Usuario  model.User          `json:"usuario"`
	Permisos model.PermissionSet `json:"permisos"`
}

// Login exchanges DNI and plate for a session token. No bearer token is
// attached to this call.
func (s *AuthService) Login(ctx context.Context, dni, placa string) (*LoginResult, error) {
	body := map[string]string{"dni": dni, "placa": placa}
	var res LoginResult
	if err := s.c.request(ctx, http.MethodPost, "/auth/login", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Logout invalidates the session token on the backend.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.c.request(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// Me returns the authenticated user as the backend currently sees it.
func (s *AuthService) Me(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := s.c.request(ctx, http.MethodGet, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
