// Package session owns who is logged in and what they may do. The Authority
// is the single source of truth consulted by navigation and every view; it
// caches the session locally (sealed) so the app reopens logged in.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/etturpe/ettur/pkg/api"
	"github.com/etturpe/ettur/pkg/crypto"
	"github.com/etturpe/ettur/pkg/model"
	"github.com/etturpe/ettur/pkg/nav"
	"github.com/etturpe/ettur/pkg/store"
)

// Authority holds the authenticated user, their permission set and the
// bearer token. Safe for concurrent use.
type Authority struct {
	mu     sync.RWMutex
	kv     store.KV
	sealer *crypto.SessionSealer
	client *api.Client

	token    string
	user     *model.User
	permisos model.PermissionSet

	onExpired func()
}

// New wires an Authority to its collaborators. The api client's token source
// and unauthorized hook are bound here, so every later call carries the
// session and a backend 401 tears it down.
func New(kv store.KV, sealer *crypto.SessionSealer, client *api.Client) *Authority {
	a := &Authority{kv: kv, sealer: sealer, client: client}
	client.SetTokenSource(a.Token)
	client.SetUnauthorizedHook(a.expire)
	return a
}

// SetExpiredHandler installs the callback fired when the backend invalidates
// the session mid-use. The UI uses it to force the login view.
func (a *Authority) SetExpiredHandler(fn func()) {
	a.mu.Lock()
	a.onExpired = fn
	a.mu.Unlock()
}

// Initialize restores a cached session from the local store. It returns true
// when both a token and a user were recovered. No network calls are made;
// a stale token surfaces as a 401 on the first real request.
func (a *Authority) Initialize() bool {
	token, err := a.loadString(store.KeyToken)
	if err != nil {
		a.resetCache(err)
		return false
	}

	var user model.User
	if err := a.loadJSON(store.KeyUser, &user); err != nil {
		a.resetCache(err)
		return false
	}

	permisos := model.PermissionSet{}
	if err := a.loadJSON(store.KeyPermisos, &permisos); err != nil && !errors.Is(err, store.ErrNotFound) {
		a.resetCache(err)
		return false
	}

	if token == "" || user.ID == 0 {
		return false
	}

	a.mu.Lock()
	a.token = token
	a.user = &user
	a.permisos = permisos
	a.mu.Unlock()

	slog.Info("session restored", "user", user.DNI, "rol", user.Rol)
	return true
}

// Login authenticates with DNI and vehicle plate. Input is validated before
// any network traffic; validation failures wrap api.ErrValidation so the UI
// renders them inline rather than as connection problems.
func (a *Authority) Login(ctx context.Context, dni, placa string) error {
	if err := model.ValidateDNI(dni); err != nil {
		return fmt.Errorf("%w: %w", api.ErrValidation, err)
	}
	if err := model.ValidatePlaca(placa); err != nil {
		return fmt.Errorf("%w: %w", api.ErrValidation, err)
	}

	res, err := a.client.Auth.Login(ctx, dni, model.FormatPlaca(placa))
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.token = res.Token
	a.user = &res.Usuario
	a.permisos = res.Permisos
	a.mu.Unlock()

	a.persist(res)
	slog.Info("login", "user", res.Usuario.DNI, "rol", res.Usuario.Rol)
	return nil
}

// Logout tells the backend to drop the token, then clears local state. The
// network call is best effort; the local session always ends.
func (a *Authority) Logout(ctx context.Context) {
	if a.IsAuthenticated() {
		if err := a.client.Auth.Logout(ctx); err != nil {
			slog.Warn("backend logout failed", "err", err)
		}
	}
	a.clear()
	slog.Info("logout")
}

// IsAuthenticated reports whether a session is active.
func (a *Authority) IsAuthenticated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token != "" && a.user != nil
}

// Token returns the current bearer token, "" when logged out.
func (a *Authority) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

// User returns a copy of the authenticated user, nil when logged out.
func (a *Authority) User() *model.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return nil
	}
	u := *a.user
	return &u
}

// Role returns the current role, RoleNone when logged out.
func (a *Authority) Role() model.Role {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.user.Role()
}

// HasCapability decides capability checks for the whole app. The general
// administrator holds every capability, workers hold none, and coadmins
// hold exactly what the backend granted them (absent means denied). The
// permission set is never consulted for the other roles.
func (a *Authority) HasCapability(c model.Capability) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	switch a.user.Role() {
	case model.RoleAdminGeneral:
		return true
	case model.RoleCoadmin:
		return a.permisos.Granted(c)
	default:
		return false
	}
}

// Permissions returns a copy of the coadmin permission set.
func (a *Authority) Permissions() model.PermissionSet {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make(model.PermissionSet, len(a.permisos))
	for k, v := range a.permisos {
		out[k] = v
	}
	return out
}

// RouteForRole returns the landing view for the current session.
func (a *Authority) RouteForRole() nav.View {
	return nav.HomeFor(a.Role())
}

// StoreDegraded reports whether the session cache fell back to memory, in
// which case the session will not survive a restart.
func (a *Authority) StoreDegraded() bool {
	return a.kv.Fallback()
}

// expire handles a backend 401 on a non-login call.
func (a *Authority) expire() {
	slog.Warn("session expired, clearing local state")
	a.clear()
	a.mu.RLock()
	fn := a.onExpired
	a.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func (a *Authority) clear() {
	a.mu.Lock()
	a.token = ""
	a.user = nil
	a.permisos = nil
	a.mu.Unlock()
	if err := a.kv.Clear(); err != nil {
		slog.Warn("clear session cache", "err", err)
	}
}

// persist writes the sealed session to the local store. Failures are logged
// and otherwise ignored; the in-memory session stays valid either way.
func (a *Authority) persist(res *api.LoginResult) {
	if err := a.saveString(store.KeyToken, res.Token); err != nil {
		slog.Warn("persist token", "err", err)
		return
	}
	if err := a.saveJSON(store.KeyUser, res.Usuario); err != nil {
		slog.Warn("persist user", "err", err)
	}
	if err := a.saveJSON(store.KeyPermisos, res.Permisos); err != nil {
		slog.Warn("persist permissions", "err", err)
	}
}

// resetCache drops an unreadable cached session so the next start is clean.
func (a *Authority) resetCache(err error) {
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	slog.Warn("cached session unreadable, discarding", "err", err)
	if cerr := a.kv.Clear(); cerr != nil {
		slog.Warn("clear session cache", "err", cerr)
	}
}

func (a *Authority) saveString(key, val string) error {
	blob, err := a.sealer.Seal([]byte(val))
	if err != nil {
		return err
	}
	return a.kv.Set(key, blob)
}

func (a *Authority) saveJSON(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	blob, err := a.sealer.Seal(raw)
	if err != nil {
		return err
	}
	return a.kv.Set(key, blob)
}

func (a *Authority) loadString(key string) (string, error) {
	blob, err := a.kv.Get(key)
	if err != nil {
		return "", err
	}
	raw, err := a.sealer.Open(blob)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (a *Authority) loadJSON(key string, v any) error {
	blob, err := a.kv.Get(key)
	if err != nil {
		return err
	}
	raw, err := a.sealer.Open(blob)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
