package ui

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
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

func (a *App) adminHomeView(gen uint64) fyne.CanvasObject {
	statsBox := container.NewHBox(widget.NewLabel("Cargando estadísticas..."))
	fetch(a, gen, func() (*api.DashboardStats, error) {
		return a.client.Reportes.Dashboard(context.Background())
	}, func(stats *api.DashboardStats) {
		statsBox.Objects = []fyne.CanvasObject{
			statCard("Trabajadores", fmt.Sprintf("%d", stats.TotalTrabajadores)),
			statCard("Por validar", fmt.Sprintf("%d", stats.PagosPorValidar)),
			statCard("Morosos", fmt.Sprintf("%d", stats.Morosos)),
			statCard("Recaudado (mes)", model.FormatMoney(stats.RecaudadoMes)),
			statCard("Recaudado (año)", model.FormatMoney(stats.RecaudadoAnio)),
		}
		statsBox.Refresh()
	})

	actions := container.NewHBox(
		widget.NewButtonWithIcon("Trabajadores", theme.AccountIcon(), func() {
			a.navctl.Go(nav.ViewAdminUsers)
		}),
		widget.NewButtonWithIcon("Configuración", theme.SettingsIcon(), func() {
			a.navctl.Go(nav.ViewAdminConfig)
		}),
		widget.NewButtonWithIcon("Reportes", theme.DocumentIcon(), func() {
			a.navctl.Go(nav.ViewAdminReports)
		}),
		layout.NewSpacer(),
	)

	pendingBox := container.NewVBox(widget.NewLabel("Cargando pagos por validar..."))
	a.loadPendingValidations(gen, pendingBox)

	morososBox := container.NewVBox(widget.NewLabel("Cargando morosos..."))
	fetch(a, gen, func() ([]api.Delinquent, error) {
		return a.client.Reportes.Delinquents(context.Background())
	}, func(morosos []api.Delinquent) {
		a.fillTopDelinquents(morososBox, morosos)
	})

	content := container.NewVBox(
		statsBox,
		actions,
		widget.NewCard("Pagos por validar", "", pendingBox),
		widget.NewCard("Principales morosos", "", morososBox),
	)
	return container.NewBorder(a.topBar("Panel de administración", false), nil, nil, nil,
		container.NewVScroll(content))
}

func statCard(title, value string) fyne.CanvasObject {
	v := widget.NewLabelWithStyle(value, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	t := widget.NewLabelWithStyle(title, fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	return widget.NewCard("", "", container.NewVBox(v, t))
}

// fillTopDelinquents renders the five workers owing the most periods, with
// the same urgency icons the countdown uses.
func (a *App) fillTopDelinquents(box *fyne.Container, morosos []api.Delinquent) {
	box.Objects = nil
	if len(morosos) == 0 {
		box.Add(widget.NewLabel("Nadie debe pagos. 🎉"))
		box.Refresh()
		return
	}
	limit := len(morosos)
	if limit > 5 {
		limit = 5
	}
	for _, m := range morosos[:limit] {
		kind := billing.Weekly
		if m.EsMensual {
			kind = billing.Monthly
		}
		noun := kind.Plural()
		if m.Periodos == 1 {
			noun = kind.String()
		}
		tier := billing.TierCritical
		if m.Periodos == 1 {
			tier = billing.TierWarning
		}
		line := fmt.Sprintf("%s %s (%s) · debe %s · %d %s",
			tier.Icon(), m.Usuario.FullName(), m.Usuario.Placa,
			model.FormatMoney(m.Deuda), m.Periodos, noun)
		box.Add(widget.NewLabel(line))
	}
	box.Refresh()
}

// showComprobante opens the receipt image in a modal. The image downloads in
// the background; receipts are static assets served by URL.
func (a *App) showComprobante(p model.Payment) {
	if p.ComprobanteURL == "" {
		dialog.ShowInformation("Comprobante", "Este pago no tiene comprobante adjunto.", a.window)
		return
	}
	url := p.ComprobanteURL
	if strings.HasPrefix(url, "/") {
		url = strings.TrimSuffix(a.client.BaseURL(), "/api") + url
	}

	loading := widget.NewLabel("Cargando comprobante...")
	holder := container.NewStack(loading)
	d := dialog.NewCustom("Comprobante · "+periodoLabel(p), "Cerrar", holder, a.window)
	d.Resize(fyne.NewSize(520, 560))
	d.Show()

	go func() {
		resp, err := http.Get(url)
		if err != nil {
			fyne.Do(func() { loading.SetText("No se pudo cargar el comprobante") })
			return
		}
		defer resp.Body.Close()
		data, err := io.ReadAll(io.LimitReader(resp.Body, api.MaxComprobanteSize))
		if err != nil || resp.StatusCode != http.StatusOK {
			fyne.Do(func() { loading.SetText("No se pudo cargar el comprobante") })
			return
		}
		fyne.Do(func() {
			img := canvas.NewImageFromResource(fyne.NewStaticResource("comprobante", data))
			img.FillMode = canvas.ImageFillContain
			img.SetMinSize(fyne.NewSize(480, 480))
			holder.Objects = []fyne.CanvasObject{img}
			holder.Refresh()
		})
	}()
}
