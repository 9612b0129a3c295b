package ui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/etturpe/ettur/pkg/api"
	"github.com/etturpe/ettur/pkg/model"
)

func (a *App) adminReportsView(gen uint64) fyne.CanvasObject {
	year := time.Now().Year()

	weekly := a.reportTab(gen, "semanal", year, a.client.Reportes.Weekly)
	monthly := a.reportTab(gen, "mensual", year, a.client.Reportes.Monthly)
	annual := a.reportTab(gen, "anual", 0, func(ctx context.Context, _ int) ([]api.ReportRow, error) {
		return a.client.Reportes.Annual(ctx)
	})
	morosos := a.delinquentsTab(gen)

	tabs := container.NewAppTabs(
		container.NewTabItem("Semanal", weekly),
		container.NewTabItem("Mensual", monthly),
		container.NewTabItem("Anual", annual),
		container.NewTabItem("Morosos", morosos),
	)
	return container.NewBorder(a.topBar("Reportes", true), nil, nil, nil, tabs)
}

// reportTab builds one summary table with a year selector. Annual reports
// pass year 0 and get no selector.
func (a *App) reportTab(gen uint64, name string, year int, load func(context.Context, int) ([]api.ReportRow, error)) fyne.CanvasObject {
	box := container.NewVBox(widget.NewLabel("Cargando reporte " + name + "..."))

	run := func(y int) {
		fetch(a, gen, func() ([]api.ReportRow, error) {
			return load(context.Background(), y)
		}, func(rows []api.ReportRow) {
			fillReportRows(box, rows)
		})
	}

	if year == 0 {
		run(0)
		return container.NewVScroll(box)
	}

	years := make([]string, 0, 4)
	for y := year; y > year-4; y-- {
		years = append(years, strconv.Itoa(y))
	}
	yearSelect := widget.NewSelect(years, func(sel string) {
		if y, err := strconv.Atoi(sel); err == nil {
			run(y)
		}
	})
	yearSelect.SetSelected(years[0])

	header := container.NewHBox(widget.NewLabel("Año:"), yearSelect, layout.NewSpacer())
	return container.NewBorder(header, nil, nil, nil, container.NewVScroll(box))
}

func fillReportRows(box *fyne.Container, rows []api.ReportRow) {
	box.Objects = nil
	if len(rows) == 0 {
		box.Add(widget.NewLabel("Sin datos para este periodo."))
		box.Refresh()
		return
	}

	head := container.NewGridWithColumns(5,
		boldLabel("Periodo"), boldLabel("Esperado"), boldLabel("Recaudado"),
		boldLabel("Pagos"), boldLabel("Pendientes"),
	)
	box.Add(head)
	box.Add(widget.NewSeparator())
	for _, r := range rows {
		box.Add(container.NewGridWithColumns(5,
			widget.NewLabel(r.Etiqueta),
			widget.NewLabel(model.FormatMoney(r.Esperado)),
			widget.NewLabel(model.FormatMoney(r.Recaudado)),
			widget.NewLabel(strconv.Itoa(r.Pagos)),
			widget.NewLabel(strconv.Itoa(r.Pendientes)),
		))
	}
	box.Refresh()
}

func boldLabel(text string) *widget.Label {
	return widget.NewLabelWithStyle(text, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
}

func (a *App) delinquentsTab(gen uint64) fyne.CanvasObject {
	box := container.NewVBox(widget.NewLabel("Cargando morosos..."))

	fetch(a, gen, func() ([]api.Delinquent, error) {
		return a.client.Reportes.Delinquents(context.Background())
	}, func(morosos []api.Delinquent) {
		box.Objects = nil
		if len(morosos) == 0 {
			box.Add(widget.NewLabel("Nadie debe pagos. 🎉"))
			box.Refresh()
			return
		}
		for _, m := range morosos {
			m := m
			line := widget.NewLabel(fmt.Sprintf("%s (DNI %s, %s) · debe %s · %d periodos",
				m.Usuario.FullName(), m.Usuario.DNI, m.Usuario.Placa,
				model.FormatMoney(m.Deuda), m.Periodos))
			detailBtn := widget.NewButton("Detalle", func() {
				a.showWorkerDetail(gen, m.Usuario)
			})
			box.Add(container.NewBorder(nil, nil, nil, detailBtn, line))
			box.Add(widget.NewSeparator())
		}
		box.Refresh()
	})

	return container.NewVScroll(box)
}

// showWorkerDetail opens a modal with one worker's payment record.
func (a *App) showWorkerDetail(gen uint64, u model.User) {
	body := container.NewVBox(widget.NewLabel("Cargando..."))
	scroll := container.NewVScroll(body)
	scroll.SetMinSize(fyne.NewSize(420, 320))
	d := dialog.NewCustom("Pagos de "+u.FullName(), "Cerrar", scroll, a.window)
	d.Resize(fyne.NewSize(460, 400))
	d.Show()

	fetch(a, gen, func() ([]model.Payment, error) {
		return a.client.Reportes.Worker(context.Background(), u.ID)
	}, func(pagos []model.Payment) {
		body.Objects = nil
		if len(pagos) == 0 {
			body.Add(widget.NewLabel("Sin pagos registrados."))
		}
		for _, p := range pagos {
			body.Add(paymentRow(p))
		}
		body.Refresh()
	})
}
