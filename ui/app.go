// Package ui provides the Fyne-based GUI for the ETTUR client.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/etturpe/ettur/pkg/api"
	"github.com/etturpe/ettur/pkg/nav"
	"github.com/etturpe/ettur/pkg/session"
	"github.com/etturpe/ettur/pkg/settings"
	"github.com/etturpe/ettur/pkg/version"
)

// App is the main GUI application.
type App struct {
	fyneApp fyne.App
	window  fyne.Window

	auth     *session.Authority
	client   *api.Client
	navctl   *nav.Controller
	settings *settings.Settings

	body        *fyne.Container
	statusLabel *widget.Label

	// gen increments on every view switch; async completions compare it to
	// drop results for views no longer on screen.
	gen atomic.Uint64
}

// NewApp creates the ETTUR GUI application.
func NewApp(cfg *settings.Settings, auth *session.Authority, client *api.Client, navctl *nav.Controller) *App {
	a := &App{
		fyneApp:  app.NewWithID("pe.ettur.client"),
		auth:     auth,
		client:   client,
		navctl:   navctl,
		settings: cfg,
	}
	a.window = a.fyneApp.NewWindow("ETTUR")
	a.window.Resize(fyne.NewSize(980, 680))
	a.window.SetMaster()
	return a
}

// Run builds the window and blocks until the app closes.
func (a *App) Run() {
	a.buildUI()
	a.bindEvents()
	a.navctl.Reset(a.auth.RouteForRole())
	a.window.ShowAndRun()
}

func (a *App) buildUI() {
	a.body = container.NewStack()

	a.statusLabel = widget.NewLabel("")
	a.statusLabel.TextStyle = fyne.TextStyle{Italic: true}
	if a.auth.StoreDegraded() {
		a.statusLabel.SetText("⚠ Sesión temporal: no se pudo abrir el almacenamiento local")
	}

	versionLabel := widget.NewLabel(version.String())
	versionLabel.TextStyle = fyne.TextStyle{Italic: true}
	versionLabel.Importance = widget.LowImportance

	statusBar := container.NewHBox(a.statusLabel, layout.NewSpacer(), versionLabel)

	content := container.NewBorder(nil, statusBar, nil, nil, a.body)
	a.window.SetContent(content)
}

func (a *App) bindEvents() {
	// Navigation changes originate on the UI goroutine (button handlers),
	// so render runs inline.
	a.navctl.OnChange(func(v nav.View) {
		a.render(v)
	})

	// Backend 401s arrive from request goroutines.
	a.auth.SetExpiredHandler(func() {
		fyne.Do(func() {
			dialog.ShowInformation("Sesión expirada", "Tu sesión ya no es válida. Inicia sesión nuevamente.", a.window)
			a.navctl.Reset(nav.ViewLogin)
		})
	})
}

func (a *App) render(v nav.View) {
	gen := a.gen.Add(1)
	slog.Debug("render view", "view", v)

	var view fyne.CanvasObject
	switch v {
	case nav.ViewLogin:
		view = a.loginView()
	case nav.ViewWorkerHome:
		view = a.workerHomeView(gen)
	case nav.ViewWorkerPay:
		view = a.payView(gen)
	case nav.ViewWorkerHistory:
		view = a.historyView(gen)
	case nav.ViewCoadminHome:
		view = a.coadminHomeView(gen)
	case nav.ViewAdminHome:
		view = a.adminHomeView(gen)
	case nav.ViewAdminUsers:
		view = a.adminUsersView(gen)
	case nav.ViewAdminConfig:
		view = a.adminConfigView(gen)
	case nav.ViewAdminReports:
		view = a.adminReportsView(gen)
	default:
		view = a.loginView()
	}

	a.body.Objects = []fyne.CanvasObject{view}
	a.body.Refresh()
}

// mounted reports whether the view that captured gen is still on screen.
func (a *App) mounted(gen uint64) bool {
	return a.gen.Load() == gen
}

// fetch runs work off the UI goroutine and applies the result only while the
// originating view is still mounted. Errors surface as dialogs.
func fetch[T any](a *App, gen uint64, work func() (T, error), apply func(T)) {
	go func() {
		v, err := work()
		fyne.Do(func() {
			if !a.mounted(gen) {
				slog.Debug("dropping stale fetch result")
				return
			}
			if err != nil {
				a.showError(err)
				return
			}
			apply(v)
		})
	}()
}

// showError renders a backend failure with a message the user can act on.
func (a *App) showError(err error) {
	switch {
	case errors.Is(err, api.ErrNetwork):
		dialog.ShowError(fmt.Errorf("no se pudo conectar con el servidor: %v", err), a.window)
	case errors.Is(err, api.ErrSessionExpired):
		// The expired handler already forced the login view.
	default:
		dialog.ShowError(err, a.window)
	}
}

// toast shows a short transient notice near the bottom of the window.
func (a *App) toast(msg string) {
	lbl := widget.NewLabel(msg)
	lbl.TextStyle = fyne.TextStyle{Bold: true}
	pop := widget.NewPopUp(container.NewPadded(lbl), a.window.Canvas())
	size := a.window.Canvas().Size()
	pop.ShowAtPosition(fyne.NewPos(size.Width/2-120, size.Height-90))
	time.AfterFunc(2500*time.Millisecond, func() {
		fyne.Do(pop.Hide)
	})
}

// topBar builds the shared header: back button, title and the session chip.
func (a *App) topBar(title string, backable bool) fyne.CanvasObject {
	items := []fyne.CanvasObject{}
	if backable {
		items = append(items, widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() {
			a.navctl.Back()
		}))
	}
	titleLabel := widget.NewLabelWithStyle(title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	items = append(items, titleLabel, layout.NewSpacer())

	if u := a.auth.User(); u != nil {
		chip := widget.NewLabel(fmt.Sprintf("%s · %s", u.FullName(), a.auth.Role().Label()))
		chip.TextStyle = fyne.TextStyle{Italic: true}
		items = append(items, chip)

		logoutBtn := widget.NewButtonWithIcon("Salir", theme.LogoutIcon(), func() {
			dialog.ShowConfirm("Cerrar sesión", "¿Deseas salir de ETTUR?", func(ok bool) {
				if !ok {
					return
				}
				go func() {
					a.auth.Logout(context.Background())
					fyne.Do(func() {
						a.navctl.Reset(nav.ViewLogin)
					})
				}()
			}, a.window)
		})
		items = append(items, logoutBtn)
	}

	return container.NewVBox(container.NewHBox(items...), widget.NewSeparator())
}
