// Package api implements the REST client for the ETTUR backend.
//
// All calls go through a single request helper that attaches the bearer
// token, enforces a request timeout and maps backend failures onto the
// typed errors below. A 401 on any path other than the login endpoint
// fires the client's unauthorized hook so the session layer can tear the
// session down.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Sentinel errors classifying every failure the client can return.
var (
	ErrAuthentication = errors.New("credenciales incorrectas")
	ErrSessionExpired = errors.New("sesion expirada")
	ErrNetwork        = errors.New("sin conexion con el servidor")
	ErrValidation     = errors.New("datos invalidos")
)

const requestTimeout = 15 * time.Second

const loginPath = "/auth/login"

// Error is a failed backend call. It wraps one of the sentinel errors so
// callers can classify with errors.Is while still surfacing the backend's
// own message to the user.
type Error struct {
	Status  int    // HTTP status, 0 for transport failures
	Message string // backend-provided message, if any
	kind    error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.kind.Error()
}

func (e *Error) Unwrap() error { return e.kind }

// Client talks to the ETTUR backend. Endpoint groups hang off it as
// services sharing the one transport.
type Client struct {
	base  string
	http  *http.Client
	token func() string
	// onUnauthorized is invoked once per 401 response on non-login paths.
	onUnauthorized func()

	Auth          *AuthService
	Usuarios      *UsuariosService
	Pagos         *PagosService
	Semanas       *SemanasService
	Configuracion *ConfiguracionService
	Reportes      *ReportesService
}

// New returns a client for the backend at baseURL.
func New(baseURL string) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: requestTimeout},
	}
	c.Auth = &AuthService{c: c}
	c.Usuarios = &UsuariosService{c: c}
	c.Pagos = &PagosService{c: c}
	c.Semanas = &SemanasService{c: c}
	c.Configuracion = &ConfiguracionService{c: c}
	c.Reportes = &ReportesService{c: c}
	return c
}

// SetTokenSource installs the function consulted for the bearer token on
// every request except login.
func (c *Client) SetTokenSource(fn func() string) { c.token = fn }

// SetUnauthorizedHook installs the callback fired when the backend rejects
// the session token.
func (c *Client) SetUnauthorizedHook(fn func()) { c.onUnauthorized = fn }

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string { return c.base }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// request performs one backend call and decodes the data field of the
// response envelope into out (which may be nil).
func (c *Client) request(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, path, out)
}

// do sends a prepared request, applying auth and error mapping. Multipart
// calls build their own request and come in through here too.
func (c *Client) do(req *http.Request, path string, out any) error {
	if path != loginPath && c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Warn("api request failed", "method", req.Method, "path", path, "err", err)
		return &Error{Message: "", kind: ErrNetwork}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Status: resp.StatusCode, kind: ErrNetwork}
	}

	var env envelope
	if len(raw) > 0 {
		// Tolerate non-JSON error bodies; the status code still classifies.
		_ = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.mapFailure(resp.StatusCode, path, env.Message)
	}
	if !env.Success && env.Message != "" {
		return &Error{Status: resp.StatusCode, Message: env.Message, kind: ErrValidation}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response for %s: %w", path, err)
		}
	}
	return nil
}

func (c *Client) mapFailure(status int, path, message string) error {
	switch {
	case status == http.StatusUnauthorized && path == loginPath:
		return &Error{Status: status, Message: message, kind: ErrAuthentication}
	case status == http.StatusUnauthorized:
		slog.Info("session rejected by backend", "path", path)
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return &Error{Status: status, Message: message, kind: ErrSessionExpired}
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return &Error{Status: status, Message: message, kind: ErrValidation}
	case status >= 500:
		return &Error{Status: status, Message: message, kind: ErrNetwork}
	default:
		return &Error{Status: status, Message: message, kind: ErrValidation}
	}
}
