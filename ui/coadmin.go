package ui

import (
	"context"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/etturpe/ettur/pkg/model"
	"github.com/etturpe/ettur/pkg/nav"
)

// coadminHomeView is the delegated-admin landing page. Every section is
// gated on an individually granted capability.
func (a *App) coadminHomeView(gen uint64) fyne.CanvasObject {
	u := a.auth.User()
	if u == nil {
		return a.loginView()
	}

	greeting := widget.NewLabelWithStyle("Hola, "+u.FullName(), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	var granted []string
	for _, c := range model.Capabilities() {
		if a.auth.HasCapability(c) {
			granted = append(granted, c.Label())
		}
	}
	permsText := "Sin permisos asignados. Contacta al administrador general."
	if len(granted) > 0 {
		permsText = "Permisos: " + strings.Join(granted, ", ")
	}
	perms := widget.NewLabel(permsText)
	perms.TextStyle = fyne.TextStyle{Italic: true}
	header := widget.NewCard("", "", container.NewVBox(greeting, perms))

	sections := container.NewVBox(header)

	actions := container.NewHBox()
	if a.auth.HasCapability(model.CapRegisterWorkers) {
		actions.Add(widget.NewButtonWithIcon("Trabajadores", theme.AccountIcon(), func() {
			a.navctl.Go(nav.ViewAdminUsers)
		}))
	}
	if a.auth.HasCapability(model.CapModifyPrices) {
		actions.Add(widget.NewButtonWithIcon("Configuración", theme.SettingsIcon(), func() {
			a.navctl.Go(nav.ViewAdminConfig)
		}))
	}
	if a.auth.HasCapability(model.CapViewReports) {
		actions.Add(widget.NewButtonWithIcon("Reportes", theme.DocumentIcon(), func() {
			a.navctl.Go(nav.ViewAdminReports)
		}))
	}
	if len(actions.Objects) > 0 {
		sections.Add(actions)
	}

	if a.auth.HasCapability(model.CapApprovePayments) {
		pendingBox := container.NewVBox(widget.NewLabel("Cargando pagos por validar..."))
		sections.Add(widget.NewCard("Pagos por validar", "", pendingBox))
		a.loadPendingValidations(gen, pendingBox)
	}

	return container.NewBorder(a.topBar("Panel de coadministración", false), nil, nil, nil,
		container.NewVScroll(sections))
}

// loadPendingValidations fills box with the payments awaiting review, each
// with validate and reject actions. Shared by the coadmin and admin homes.
func (a *App) loadPendingValidations(gen uint64, box *fyne.Container) {
	fetch(a, gen, func() ([]model.Payment, error) {
		return a.client.Pagos.Pending(context.Background())
	}, func(pagos []model.Payment) {
		box.Objects = nil
		if len(pagos) == 0 {
			box.Add(widget.NewLabel("No hay pagos pendientes de validación."))
			box.Refresh()
			return
		}
		for _, p := range pagos {
			p := p
			box.Add(a.validationRow(gen, box, p))
			box.Add(widget.NewSeparator())
		}
		box.Refresh()
	})
}

func (a *App) validationRow(gen uint64, box *fyne.Container, p model.Payment) fyne.CanvasObject {
	who := "—"
	if p.Usuario != nil {
		who = fmt.Sprintf("%s (%s)", p.Usuario.FullName(), p.Usuario.Placa)
	}
	label := widget.NewLabel(fmt.Sprintf("%s · %s · %s", who, periodoLabel(p), model.FormatMoney(p.Monto)))

	viewBtn := widget.NewButtonWithIcon("Comprobante", theme.FileImageIcon(), func() {
		a.showComprobante(p)
	})

	approveBtn := widget.NewButtonWithIcon("Validar", theme.ConfirmIcon(), func() {
		dialog.ShowConfirm("Validar pago",
			fmt.Sprintf("¿Confirmar el pago de %s por %s?", who, model.FormatMoney(p.Monto)),
			func(ok bool) {
				if !ok {
					return
				}
				fetch(a, gen, func() (struct{}, error) {
					return struct{}{}, a.client.Pagos.Validate(context.Background(), p.ID)
				}, func(struct{}) {
					a.toast("Pago validado")
					a.loadPendingValidations(gen, box)
				})
			}, a.window)
	})
	approveBtn.Importance = widget.HighImportance

	rejectBtn := widget.NewButtonWithIcon("Rechazar", theme.CancelIcon(), func() {
		a.showRejectDialog(gen, box, p)
	})
	rejectBtn.Importance = widget.DangerImportance

	return container.NewHBox(label, layout.NewSpacer(), viewBtn, approveBtn, rejectBtn)
}

// showRejectDialog asks for the rejection reason shown to the worker.
func (a *App) showRejectDialog(gen uint64, box *fyne.Container, p model.Payment) {
	reasonEntry := widget.NewMultiLineEntry()
	reasonEntry.SetPlaceHolder("Ej. el monto del comprobante no coincide")
	reasonEntry.SetMinRowsVisible(3)

	d := dialog.NewForm("Rechazar pago", "Rechazar", "Cancelar",
		[]*widget.FormItem{widget.NewFormItem("Motivo", reasonEntry)},
		func(ok bool) {
			if !ok {
				return
			}
			motivo := strings.TrimSpace(reasonEntry.Text)
			if motivo == "" {
				dialog.ShowError(fmt.Errorf("indica el motivo del rechazo"), a.window)
				return
			}
			fetch(a, gen, func() (struct{}, error) {
				return struct{}{}, a.client.Pagos.Reject(context.Background(), p.ID, motivo)
			}, func(struct{}) {
				a.toast("Pago rechazado")
				a.loadPendingValidations(gen, box)
			})
		}, a.window)
	d.Resize(fyne.NewSize(420, 260))
	d.Show()
}
