package ui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/etturpe/ettur/pkg/billing"
	"github.com/etturpe/ettur/pkg/model"
	"github.com/etturpe/ettur/pkg/nav"
)

// periodsPerYear returns how many billing periods a worker's cadence has.
func periodsPerYear(u *model.User) int {
	if u != nil && u.EsMensual {
		return 12
	}
	return 52
}

// pendingPeriods fetches the worker's unpaid periods for their cadence.
func (a *App) pendingPeriods(ctx context.Context) ([]billing.Period, error) {
	if u := a.auth.User(); u != nil && u.EsMensual {
		return a.client.Pagos.PendingMonths(ctx)
	}
	return a.client.Pagos.PendingWeeks(ctx)
}

func (a *App) workerHomeView(gen uint64) fyne.CanvasObject {
	u := a.auth.User()
	if u == nil {
		return a.loginView()
	}

	greeting := widget.NewLabelWithStyle("Hola, "+u.Nombre, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	detail := widget.NewLabel(fmt.Sprintf("Placa %s · %s · %s por %s",
		u.Placa, u.TipoNombre, model.FormatMoney(u.Precio), cadenceNoun(u)))
	header := widget.NewCard("", "", container.NewVBox(greeting, detail))

	// Next-payment card, filled in once the pending periods arrive.
	nextBox := container.NewVBox(widget.NewLabel("Cargando próximos pagos..."))
	nextCard := widget.NewCard("Próximo pago", "", nextBox)

	fetch(a, gen, func() ([]billing.Period, error) {
		return a.pendingPeriods(context.Background())
	}, func(pending []billing.Period) {
		a.fillNextPayment(nextBox, pending, u)
	})

	// Year progress and recent payments.
	progressBox := container.NewVBox(widget.NewLabel("Cargando historial..."))
	progressCard := widget.NewCard("Avance "+strconv.Itoa(time.Now().Year()), "", progressBox)

	recentBox := container.NewVBox()
	recentCard := widget.NewCard("Últimos pagos", "", recentBox)

	fetch(a, gen, func() ([]model.Payment, error) {
		return a.client.Pagos.MyPayments(context.Background(), time.Now().Year())
	}, func(pagos []model.Payment) {
		a.fillYearProgress(progressBox, pagos, u)
		a.fillRecentPayments(recentBox, pagos)
	})

	payBtn := widget.NewButtonWithIcon("Pagar con Yape", theme.ConfirmIcon(), func() {
		a.navctl.Go(nav.ViewWorkerPay)
	})
	payBtn.Importance = widget.HighImportance
	historyBtn := widget.NewButtonWithIcon("Ver historial", theme.HistoryIcon(), func() {
		a.navctl.Go(nav.ViewWorkerHistory)
	})
	actions := container.NewHBox(payBtn, historyBtn, layout.NewSpacer())

	content := container.NewVBox(header, nextCard, actions, progressCard, recentCard)
	return container.NewBorder(a.topBar("Mi panel", false), nil, nil, nil, container.NewVScroll(content))
}

func cadenceNoun(u *model.User) string {
	if u.EsMensual {
		return "mes"
	}
	return "semana"
}

// fillNextPayment renders the countdown or the overdue banner into box.
func (a *App) fillNextPayment(box *fyne.Container, pending []billing.Period, u *model.User) {
	box.Objects = nil
	s := billing.Summarize(pending, time.Now())
	kind := billing.Weekly
	if u.EsMensual {
		kind = billing.Monthly
	}

	switch {
	case s.Empty:
		done := widget.NewLabelWithStyle("🟢 ¡Estás al día!", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
		box.Add(done)
		box.Add(widget.NewLabel("No tienes pagos pendientes."))
	case s.CaughtUp:
		title := widget.NewLabelWithStyle(s.Display.Title(), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
		countdown := widget.NewLabel(fmt.Sprintf("%s %s · vence en %d %s",
			s.DaysTier.Icon(), model.FormatMoney(s.Display.Precio), s.DaysRemaining, dayNoun(s.DaysRemaining)))
		msg := widget.NewLabel(s.DaysTier.Message())
		msg.TextStyle = fyne.TextStyle{Italic: true}
		box.Add(title)
		box.Add(countdown)
		box.Add(msg)
	default:
		banner := widget.NewLabelWithStyle("🔴 "+s.OverdueBanner(kind), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
		oldest := widget.NewLabel(fmt.Sprintf("Más antiguo: %s · %s",
			s.Display.Title(), model.FormatMoney(s.Display.Precio)))
		hint := widget.NewLabel("Ponte al día para evitar recargos.")
		hint.TextStyle = fyne.TextStyle{Italic: true}
		box.Add(banner)
		box.Add(oldest)
		box.Add(hint)
	}
	box.Refresh()
}

func dayNoun(days int) string {
	if days == 1 {
		return "día"
	}
	return "días"
}

func (a *App) fillYearProgress(box *fyne.Container, pagos []model.Payment, u *model.User) {
	box.Objects = nil
	paid := 0
	var total float64
	for _, p := range pagos {
		if p.Estado == model.StatusPagado {
			paid++
			total += p.Monto
		}
	}
	goal := periodsPerYear(u)

	bar := widget.NewProgressBar()
	bar.Min = 0
	bar.Max = float64(goal)
	bar.SetValue(float64(paid))
	bar.TextFormatter = func() string {
		return fmt.Sprintf("%d de %d %s", paid, goal, pluralCadence(u))
	}

	box.Add(bar)
	box.Add(widget.NewLabel("Total pagado este año: " + model.FormatMoney(total)))
	box.Refresh()
}

func pluralCadence(u *model.User) string {
	if u.EsMensual {
		return "meses"
	}
	return "semanas"
}

func (a *App) fillRecentPayments(box *fyne.Container, pagos []model.Payment) {
	box.Objects = nil
	if len(pagos) == 0 {
		box.Add(widget.NewLabel("Aún no registras pagos."))
		box.Refresh()
		return
	}
	limit := len(pagos)
	if limit > 5 {
		limit = 5
	}
	for _, p := range pagos[:limit] {
		box.Add(paymentRow(p))
	}
	box.Refresh()
}

// paymentRow renders one payment with its status badge.
func paymentRow(p model.Payment) fyne.CanvasObject {
	badge := p.Estado.Badge()
	title := periodoLabel(p)

	name := widget.NewLabel(title)
	amount := widget.NewLabelWithStyle(model.FormatMoney(p.Monto), fyne.TextAlignTrailing, fyne.TextStyle{Bold: true})
	status := widget.NewLabel(badge.Icon + " " + badge.Label)

	row := container.NewHBox(name, layout.NewSpacer(), status, amount)
	if p.Estado == model.StatusRechazado && p.MotivoRechazo != "" {
		reason := widget.NewLabel("Motivo: " + p.MotivoRechazo)
		reason.Importance = widget.DangerImportance
		return container.NewVBox(row, reason)
	}
	return row
}

func periodoLabel(p model.Payment) string {
	if p.EsMensual() {
		name := model.MonthName(p.MesPago)
		if p.Anio > 0 {
			return name + " " + strconv.Itoa(p.Anio)
		}
		return name
	}
	return "Semana " + strconv.Itoa(p.NumeroSemana)
}

func (a *App) historyView(gen uint64) fyne.CanvasObject {
	listBox := container.NewVBox(widget.NewLabel("Cargando..."))

	year := time.Now().Year()
	years := make([]string, 0, 4)
	for y := year; y > year-4; y-- {
		years = append(years, strconv.Itoa(y))
	}

	load := func(y int) {
		fetch(a, gen, func() ([]model.Payment, error) {
			return a.client.Pagos.MyPayments(context.Background(), y)
		}, func(pagos []model.Payment) {
			listBox.Objects = nil
			if len(pagos) == 0 {
				listBox.Add(widget.NewLabel("Sin pagos en " + strconv.Itoa(y)))
			}
			for _, p := range pagos {
				listBox.Add(paymentRow(p))
				listBox.Add(widget.NewSeparator())
			}
			listBox.Refresh()
		})
	}

	yearSelect := widget.NewSelect(years, func(sel string) {
		if y, err := strconv.Atoi(sel); err == nil {
			load(y)
		}
	})
	yearSelect.SetSelected(years[0])

	header := container.NewHBox(widget.NewLabel("Año:"), yearSelect, layout.NewSpacer())
	content := container.NewBorder(header, nil, nil, nil, container.NewVScroll(listBox))
	return container.NewBorder(a.topBar("Historial de pagos", true), nil, nil, nil, content)
}
