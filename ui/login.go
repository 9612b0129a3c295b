package ui

import (
	"context"
	"errors"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/etturpe/ettur/pkg/api"
	"github.com/etturpe/ettur/pkg/model"
)

func (a *App) loginView() fyne.CanvasObject {
	title := widget.NewLabelWithStyle("ETTUR", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	subtitle := widget.NewLabelWithStyle("Control de pagos de transporte", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})

	dniEntry := widget.NewEntry()
	dniEntry.SetPlaceHolder("DNI (8 dígitos)")
	dniError := newFieldError()

	placaEntry := widget.NewEntry()
	placaEntry.SetPlaceHolder("Placa del vehículo (ej. ABC-123)")
	placaError := newFieldError()

	formError := newFieldError()

	var submitBtn *widget.Button
	submit := func() {
		dni := strings.TrimSpace(dniEntry.Text)
		placa := model.FormatPlaca(placaEntry.Text)
		dniError.hide()
		placaError.hide()
		formError.hide()

		ok := true
		if err := model.ValidateDNI(dni); err != nil {
			dniError.show("Ingresa tu DNI de 8 dígitos")
			ok = false
		}
		if err := model.ValidatePlaca(placa); err != nil {
			placaError.show("Ingresa la placa de tu vehículo")
			ok = false
		}
		if !ok {
			return
		}

		submitBtn.Disable()
		submitBtn.SetText("Ingresando...")
		go func() {
			err := a.auth.Login(context.Background(), dni, placa)
			fyne.Do(func() {
				submitBtn.Enable()
				submitBtn.SetText("Ingresar")
				if err != nil {
					switch {
					case errors.Is(err, api.ErrAuthentication):
						formError.show("DNI o placa incorrectos")
					case errors.Is(err, api.ErrNetwork):
						formError.show("No se pudo conectar con el servidor")
					default:
						formError.show(err.Error())
					}
					return
				}
				if u := a.auth.User(); u != nil {
					a.toast("Bienvenido, " + u.Nombre)
				}
				a.navctl.Reset(a.auth.RouteForRole())
			})
		}()
	}

	submitBtn = widget.NewButton("Ingresar", submit)
	submitBtn.Importance = widget.HighImportance
	placaEntry.OnSubmitted = func(string) { submit() }
	dniEntry.OnSubmitted = func(string) { a.window.Canvas().Focus(placaEntry) }

	form := container.NewVBox(
		title,
		subtitle,
		widget.NewSeparator(),
		widget.NewLabel("DNI"),
		dniEntry,
		dniError.label,
		widget.NewLabel("Placa"),
		placaEntry,
		placaError.label,
		formError.label,
		submitBtn,
	)

	card := widget.NewCard("", "", container.NewPadded(form))
	centered := container.New(layout.NewGridWrapLayout(fyne.NewSize(380, 440)), card)
	return container.NewCenter(centered)
}

// fieldError is an inline validation message under a form field.
type fieldError struct {
	label *widget.Label
}

func newFieldError() *fieldError {
	l := widget.NewLabel("")
	l.Importance = widget.DangerImportance
	l.Hide()
	return &fieldError{label: l}
}

func (f *fieldError) show(msg string) {
	f.label.SetText(msg)
	f.label.Show()
}

func (f *fieldError) hide() {
	f.label.Hide()
}
