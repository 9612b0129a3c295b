// Package nav tracks which view is on screen and the history behind it.
package nav

import (
	"log/slog"
	"sync"

	"github.com/etturpe/ettur/pkg/model"
)

// View identifies one screen of the app.
type View string

const (
	ViewLogin         View = "login"
	ViewWorkerHome    View = "trabajador-dashboard"
	ViewWorkerPay     View = "trabajador-pagar"
	ViewWorkerHistory View = "trabajador-historial"
	ViewCoadminHome   View = "coadmin-dashboard"
	ViewAdminHome     View = "admin-dashboard"
	ViewAdminUsers    View = "admin-usuarios"
	ViewAdminConfig   View = "admin-configuracion"
	ViewAdminReports  View = "admin-reportes"
)

// HomeFor returns the landing view for a role.
func HomeFor(role model.Role) View {
	switch role {
	case model.RoleAdminGeneral:
		return ViewAdminHome
	case model.RoleCoadmin:
		return ViewCoadminHome
	case model.RoleTrabajador:
		return ViewWorkerHome
	default:
		return ViewLogin
	}
}

// Controller owns the current view and the back stack. A Controller is safe
// for use from the UI goroutine and async completion handlers.
type Controller struct {
	mu       sync.Mutex
	current  View
	stack    []View
	role     func() model.Role
	onChange func(View)
}

// NewController builds a controller starting at the login view. role is
// consulted on every navigation for the coadmin rewrite and the Back
// fallback.
func NewController(role func() model.Role) *Controller {
	return &Controller{current: ViewLogin, role: role}
}

// OnChange installs the callback invoked after every view change. The
// callback runs with the controller unlocked.
func (c *Controller) OnChange(fn func(View)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Current returns the view on screen.
func (c *Controller) Current() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// resolve applies the coadmin rewrite: a coadministrator asking for the
// admin home lands on the coadmin home instead.
func (c *Controller) resolve(v View) View {
	if v == ViewAdminHome && c.role != nil && c.role() == model.RoleCoadmin {
		return ViewCoadminHome
	}
	return v
}

// Go navigates forward to v, pushing the previous view onto the back stack.
// Navigating to the current view is a no-op.
func (c *Controller) Go(v View) {
	c.mu.Lock()
	v = c.resolve(v)
	if v == c.current {
		c.mu.Unlock()
		return
	}
	c.stack = append(c.stack, c.current)
	c.current = v
	fn := c.onChange
	c.mu.Unlock()

	slog.Debug("navigate", "view", v)
	if fn != nil {
		fn(v)
	}
}

// Replace switches to v without growing the back stack. Used after login
// and logout, where going "back" across the session boundary makes no sense.
func (c *Controller) Replace(v View) {
	c.mu.Lock()
	v = c.resolve(v)
	if v == c.current {
		c.mu.Unlock()
		return
	}
	c.current = v
	fn := c.onChange
	c.mu.Unlock()

	slog.Debug("navigate (replace)", "view", v)
	if fn != nil {
		fn(v)
	}
}

// Reset jumps to v and clears the history.
func (c *Controller) Reset(v View) {
	c.mu.Lock()
	c.stack = c.stack[:0]
	c.current = c.resolve(v)
	fn := c.onChange
	v = c.current
	c.mu.Unlock()

	slog.Debug("navigate (reset)", "view", v)
	if fn != nil {
		fn(v)
	}
}

// Back pops the previous view. With an empty stack it falls back to the
// current role's home.
func (c *Controller) Back() {
	c.mu.Lock()
	var v View
	if n := len(c.stack); n > 0 {
		v = c.stack[n-1]
		c.stack = c.stack[:n-1]
	} else {
		role := model.RoleNone
		if c.role != nil {
			role = c.role()
		}
		v = HomeFor(role)
	}
	v = c.resolve(v)
	c.current = v
	fn := c.onChange
	c.mu.Unlock()

	slog.Debug("navigate (back)", "view", v)
	if fn != nil {
		fn(v)
	}
}

// Depth returns how many views the back stack holds.
func (c *Controller) Depth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.stack)
}
