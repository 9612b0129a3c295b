package ui

import (
	"context"
	"fmt"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/etturpe/ettur/pkg/api"
	"github.com/etturpe/ettur/pkg/billing"
	"github.com/etturpe/ettur/pkg/model"
	"github.com/etturpe/ettur/pkg/nav"
)

// payView walks the worker through choosing a period, confirming the amount
// and attaching the Yape receipt.
func (a *App) payView(gen uint64) fyne.CanvasObject {
	stage := container.NewStack(container.NewCenter(widget.NewLabel("Cargando periodos pendientes...")))

	fetch(a, gen, func() ([]billing.Period, error) {
		return a.pendingPeriods(context.Background())
	}, func(pending []billing.Period) {
		stage.Objects = []fyne.CanvasObject{a.payPeriodList(gen, stage, pending)}
		stage.Refresh()
	})

	return container.NewBorder(a.topBar("Pagar", true), nil, nil, nil, stage)
}

// payPeriodList renders the pending periods. Only payable ones are
// selectable; the rest carry a hint to settle older debt first.
func (a *App) payPeriodList(gen uint64, stage *fyne.Container, pending []billing.Period) fyne.CanvasObject {
	if len(pending) == 0 {
		return container.NewCenter(container.NewVBox(
			widget.NewLabelWithStyle("🟢 ¡Estás al día!", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
			widget.NewLabel("No tienes periodos pendientes de pago."),
		))
	}

	rows := container.NewVBox()
	for _, p := range pending {
		p := p
		title := p.Title()
		if p.EsActual {
			title += " (actual)"
		}
		label := widget.NewLabelWithStyle(title, fyne.TextAlignLeading, fyne.TextStyle{Bold: p.EsActual})
		amount := widget.NewLabel(model.FormatMoney(p.Precio))

		if p.PuedePagar {
			payBtn := widget.NewButtonWithIcon("Pagar", theme.ConfirmIcon(), func() {
				stage.Objects = []fyne.CanvasObject{a.payConfirm(gen, stage, p)}
				stage.Refresh()
			})
			rows.Add(container.NewHBox(label, layout.NewSpacer(), amount, payBtn))
		} else {
			hint := widget.NewLabel("Paga primero los periodos anteriores")
			hint.TextStyle = fyne.TextStyle{Italic: true}
			hint.Importance = widget.LowImportance
			rows.Add(container.NewHBox(label, layout.NewSpacer(), amount, hint))
		}
		rows.Add(widget.NewSeparator())
	}

	header := widget.NewLabelWithStyle("Elige el periodo a pagar", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	return container.NewBorder(header, nil, nil, nil, container.NewVScroll(rows))
}

// payConfirm shows the amount, the Yape destination and the reference code,
// and requires the receipt image before the payment can be registered.
func (a *App) payConfirm(gen uint64, stage *fyne.Container, p billing.Period) fyne.CanvasObject {
	refCode := billing.ReferenceCode(p)

	detail := container.NewVBox(
		widget.NewLabelWithStyle(p.Title(), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Monto: "+model.FormatMoney(p.Precio)),
		widget.NewLabel("Yapea al número: "+a.settings.NumeroYape),
		widget.NewLabel("Código de referencia: "+refCode),
		widget.NewSeparator(),
	)

	var comprobante *api.Comprobante
	attachedLabel := widget.NewLabel("Ningún comprobante adjunto")
	attachedLabel.TextStyle = fyne.TextStyle{Italic: true}

	var confirmBtn *widget.Button

	attachBtn := widget.NewButtonWithIcon("Adjuntar comprobante", theme.FileImageIcon(), func() {
		dialog.ShowFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil {
				a.showError(err)
				return
			}
			if rc == nil {
				return
			}
			defer rc.Close()

			data, err := io.ReadAll(io.LimitReader(rc, api.MaxComprobanteSize+1))
			if err != nil {
				a.showError(fmt.Errorf("no se pudo leer el archivo: %w", err))
				return
			}
			c := &api.Comprobante{Filename: rc.URI().Name(), Data: data}
			if err := c.Validate(); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			comprobante = c
			attachedLabel.SetText("Adjunto: " + c.Filename)
			confirmBtn.Enable()
		}, a.window)
	})

	confirmBtn = widget.NewButtonWithIcon("Confirmar pago", theme.ConfirmIcon(), func() {
		in := api.RegisterPaymentInput{
			Monto:       p.Precio,
			CodigoPago:  refCode,
			Comprobante: comprobante,
		}
		if p.Kind == billing.Monthly {
			in.MesPago = p.Numero
			in.Anio = p.Anio
		} else {
			in.SemanaID = p.ID
		}

		confirmBtn.Disable()
		fetch(a, gen, func() (*model.Payment, error) {
			return a.client.Pagos.Register(context.Background(), in)
		}, func(pago *model.Payment) {
			stage.Objects = []fyne.CanvasObject{a.paySuccess(p, pago)}
			stage.Refresh()
		})
	})
	confirmBtn.Importance = widget.HighImportance
	confirmBtn.Disable()

	backBtn := widget.NewButton("Volver", func() {
		a.navctl.Back()
	})

	form := container.NewVBox(
		detail,
		attachBtn,
		attachedLabel,
		widget.NewSeparator(),
		container.NewHBox(backBtn, layout.NewSpacer(), confirmBtn),
	)
	return container.NewCenter(widget.NewCard("Confirmar pago", "", container.NewPadded(form)))
}

func (a *App) paySuccess(p billing.Period, pago *model.Payment) fyne.CanvasObject {
	badge := pago.Estado.Badge()
	body := container.NewVBox(
		widget.NewLabelWithStyle("✅ Pago registrado", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabel(fmt.Sprintf("%s · %s", p.Title(), model.FormatMoney(pago.Monto))),
		widget.NewLabel("Estado: "+badge.Icon+" "+badge.Label),
		widget.NewLabel("Un administrador validará tu comprobante."),
		widget.NewButton("Ir a mi panel", func() {
			a.navctl.Reset(nav.ViewWorkerHome)
		}),
	)
	return container.NewCenter(widget.NewCard("", "", container.NewPadded(body)))
}
