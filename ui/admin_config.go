package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/etturpe/ettur/pkg/api"
	"github.com/etturpe/ettur/pkg/model"
)

func (a *App) adminConfigView(gen uint64) fyne.CanvasObject {
	stage := container.NewStack(container.NewCenter(widget.NewLabel("Cargando configuración...")))

	fetch(a, gen, func() (*api.Config, error) {
		return a.client.Configuracion.Get(context.Background())
	}, func(cfg *api.Config) {
		stage.Objects = []fyne.CanvasObject{a.configForm(gen, cfg)}
		stage.Refresh()
	})

	return container.NewBorder(a.topBar("Configuración", true), nil, nil, nil, stage)
}

func (a *App) configForm(gen uint64, cfg *api.Config) fyne.CanvasObject {
	// Per-type prices.
	priceEntries := make(map[int]*widget.Entry, len(cfg.Tipos))
	priceBox := container.NewVBox()
	for _, tipo := range cfg.Tipos {
		tipo := tipo
		entry := widget.NewEntry()
		entry.SetText(strconv.FormatFloat(tipo.Precio, 'f', 2, 64))
		if tipo.ID == model.TipoPersonalizado {
			entry.Disable() // set per worker, not here
		}
		priceEntries[tipo.ID] = entry
		row := container.NewBorder(nil, nil, widget.NewLabel(tipo.Nombre), nil, entry)
		priceBox.Add(row)
	}

	savePricesBtn := widget.NewButton("Guardar precios", func() {
		changed := map[int]float64{}
		for _, tipo := range cfg.Tipos {
			entry := priceEntries[tipo.ID]
			if entry.Disabled() {
				continue
			}
			precio, err := strconv.ParseFloat(strings.TrimSpace(entry.Text), 64)
			if err != nil || precio <= 0 {
				dialog.ShowError(fmt.Errorf("precio inválido para %s", tipo.Nombre), a.window)
				return
			}
			if precio != tipo.Precio {
				changed[tipo.ID] = precio
			}
		}
		if len(changed) == 0 {
			a.toast("Sin cambios de precio")
			return
		}
		fetch(a, gen, func() (struct{}, error) {
			for id, precio := range changed {
				if err := a.client.Configuracion.UpdatePrice(context.Background(), id, precio); err != nil {
					return struct{}{}, err
				}
			}
			return struct{}{}, nil
		}, func(struct{}) {
			a.toast("Precios actualizados")
		})
	})
	savePricesBtn.Importance = widget.HighImportance
	pricesCard := widget.NewCard("Precios por tipo", "",
		container.NewVBox(priceBox, container.NewHBox(layout.NewSpacer(), savePricesBtn)))

	// Yape destination.
	yapeEntry := widget.NewEntry()
	yapeEntry.SetText(cfg.NumeroYape)
	titularEntry := widget.NewEntry()
	titularEntry.SetText(cfg.TitularYape)

	saveYapeBtn := widget.NewButton("Guardar Yape", func() {
		numero := strings.TrimSpace(yapeEntry.Text)
		if len(numero) != 9 {
			dialog.ShowError(fmt.Errorf("el número de Yape debe tener 9 dígitos"), a.window)
			return
		}
		fetch(a, gen, func() (struct{}, error) {
			return struct{}{}, a.client.Configuracion.Update(context.Background(), numero, strings.TrimSpace(titularEntry.Text))
		}, func(struct{}) {
			a.settings.NumeroYape = numero
			if err := a.settings.Save(); err == nil {
				a.toast("Número de Yape actualizado")
			} else {
				a.toast("Actualizado en el servidor (no se guardó localmente)")
			}
		})
	})
	yapeCard := widget.NewCard("Cuenta Yape", "", container.NewVBox(
		widget.NewLabel("Número:"), yapeEntry,
		widget.NewLabel("Titular:"), titularEntry,
		container.NewHBox(layout.NewSpacer(), saveYapeBtn),
	))

	// Low-season months.
	low := make(map[int]bool, len(cfg.TemporadaBaja))
	for _, m := range cfg.TemporadaBaja {
		low[m] = true
	}
	monthChecks := make([]*widget.Check, 13)
	monthGrid := container.NewGridWithColumns(3)
	for m := 1; m <= 12; m++ {
		chk := widget.NewCheck(model.MonthName(m), nil)
		chk.SetChecked(low[m])
		monthChecks[m] = chk
		monthGrid.Add(chk)
	}
	lowPriceEntry := widget.NewEntry()
	lowPriceEntry.SetPlaceHolder("Precio temporada baja (S/)")
	if cfg.PrecioTempBaja > 0 {
		lowPriceEntry.SetText(strconv.FormatFloat(cfg.PrecioTempBaja, 'f', 2, 64))
	}

	saveSeasonBtn := widget.NewButton("Guardar temporada baja", func() {
		var meses []int
		for m := 1; m <= 12; m++ {
			if monthChecks[m].Checked {
				meses = append(meses, m)
			}
		}
		var precio float64
		if txt := strings.TrimSpace(lowPriceEntry.Text); txt != "" {
			var err error
			precio, err = strconv.ParseFloat(txt, 64)
			if err != nil || precio <= 0 {
				dialog.ShowError(fmt.Errorf("precio de temporada baja inválido"), a.window)
				return
			}
		}
		fetch(a, gen, func() (struct{}, error) {
			return struct{}{}, a.client.Configuracion.UpdateSeasons(context.Background(), meses, precio)
		}, func(struct{}) {
			a.toast("Temporada baja actualizada")
		})
	})
	seasonCard := widget.NewCard("Temporada baja", "Meses con tarifa reducida para pagos mensuales",
		container.NewVBox(monthGrid, lowPriceEntry, container.NewHBox(layout.NewSpacer(), saveSeasonBtn)))

	return container.NewVScroll(container.NewVBox(pricesCard, yapeCard, seasonCard))
}
