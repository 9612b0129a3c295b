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
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/etturpe/ettur/pkg/api"
	"github.com/etturpe/ettur/pkg/model"
)

var workerTypeNames = map[int]string{
	1: "Normal Semanal",
	2: "Especial Semanal",
	3: "Mensual",
	4: "Especial Personalizado",
}

func (a *App) adminUsersView(gen uint64) fyne.CanvasObject {
	listBox := container.NewVBox(widget.NewLabel("Cargando trabajadores..."))

	searchEntry := widget.NewEntry()
	searchEntry.SetPlaceHolder("Buscar por nombre, DNI o placa")

	roleFilter := widget.NewSelect([]string{"Todos", "Trabajadores", "Coadministradores"}, nil)
	roleFilter.SetSelected("Todos")

	var reload func()
	reload = func() {
		opts := api.ListUsuariosOptions{Buscar: strings.TrimSpace(searchEntry.Text)}
		switch roleFilter.Selected {
		case "Trabajadores":
			opts.Rol = model.RoleTrabajador.String()
		case "Coadministradores":
			opts.Rol = model.RoleCoadmin.String()
		}
		fetch(a, gen, func() ([]model.User, error) {
			return a.client.Usuarios.List(context.Background(), opts)
		}, func(users []model.User) {
			listBox.Objects = nil
			if len(users) == 0 {
				listBox.Add(widget.NewLabel("Sin resultados."))
			}
			for _, u := range users {
				u := u
				listBox.Add(a.userRow(gen, u, reload))
				listBox.Add(widget.NewSeparator())
			}
			listBox.Refresh()
		})
	}

	searchEntry.OnSubmitted = func(string) { reload() }
	roleFilter.OnChanged = func(string) { reload() }

	var createBtn fyne.CanvasObject = layout.NewSpacer()
	if a.auth.HasCapability(model.CapRegisterWorkers) {
		btn := widget.NewButtonWithIcon("Nuevo", theme.ContentAddIcon(), func() {
			a.showCreateUserDialog(gen, reload)
		})
		btn.Importance = widget.HighImportance
		createBtn = btn
	}

	header := container.NewBorder(nil, nil, nil,
		container.NewHBox(roleFilter, createBtn),
		searchEntry,
	)

	reload()
	content := container.NewBorder(header, nil, nil, nil, container.NewVScroll(listBox))
	return container.NewBorder(a.topBar("Trabajadores", true), nil, nil, nil, content)
}

func (a *App) userRow(gen uint64, u model.User, reload func()) fyne.CanvasObject {
	state := "Activo"
	if !u.Activo {
		state = "Suspendido"
	}
	info := widget.NewLabel(fmt.Sprintf("%s · DNI %s · %s · %s · %s",
		u.FullName(), u.DNI, u.Placa, u.Role().Label(), state))
	if u.Role() == model.RoleTrabajador {
		info.SetText(info.Text + " · " + u.TipoNombre + " " + model.FormatMoney(u.Precio))
	}

	actions := container.NewHBox()

	actions.Add(widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
		a.showEditUserDialog(gen, u, reload)
	}))

	if u.Role() == model.RoleTrabajador {
		actions.Add(widget.NewButton("Tipo", func() {
			a.showChangeTypeDialog(gen, u, reload)
		}))
	}
	if u.Role() == model.RoleCoadmin {
		actions.Add(widget.NewButton("Permisos", func() {
			a.showPermissionsDialog(gen, u, reload)
		}))
	}

	toggleText := "Suspender"
	if !u.Activo {
		toggleText = "Activar"
	}
	actions.Add(widget.NewButton(toggleText, func() {
		fetch(a, gen, func() (struct{}, error) {
			return struct{}{}, a.client.Usuarios.ToggleActive(context.Background(), u.ID, !u.Activo)
		}, func(struct{}) {
			a.toast("Estado actualizado")
			reload()
		})
	}))

	if a.auth.HasCapability(model.CapDeleteWorkers) {
		delBtn := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
			dialog.ShowConfirm("Eliminar",
				fmt.Sprintf("¿Eliminar a %s? Esta acción no se puede deshacer.", u.FullName()),
				func(ok bool) {
					if !ok {
						return
					}
					fetch(a, gen, func() (struct{}, error) {
						return struct{}{}, a.client.Usuarios.Delete(context.Background(), u.ID)
					}, func(struct{}) {
						a.toast("Usuario eliminado")
						reload()
					})
				}, a.window)
		})
		delBtn.Importance = widget.DangerImportance
		actions.Add(delBtn)
	}

	return container.NewBorder(nil, nil, nil, actions, info)
}

// typePicker builds the worker-type selector with the custom price entry
// that appears only for the personalized type.
func typePicker(current int, currentPrice float64) (*widget.Select, *widget.Entry, *fyne.Container) {
	names := make([]string, 0, len(workerTypeNames))
	for id := 1; id <= len(workerTypeNames); id++ {
		names = append(names, workerTypeNames[id])
	}

	priceEntry := widget.NewEntry()
	priceEntry.SetPlaceHolder("Precio (S/)")
	if currentPrice > 0 {
		priceEntry.SetText(strconv.FormatFloat(currentPrice, 'f', 2, 64))
	}
	priceRow := container.NewVBox(widget.NewLabel("Precio personalizado:"), priceEntry)
	priceRow.Hide()

	sel := widget.NewSelect(names, func(name string) {
		if name == workerTypeNames[model.TipoPersonalizado] {
			priceRow.Show()
		} else {
			priceRow.Hide()
		}
	})
	if name, ok := workerTypeNames[current]; ok {
		sel.SetSelected(name)
	} else {
		sel.SetSelected(names[0])
	}
	return sel, priceEntry, priceRow
}

func selectedTypeID(sel *widget.Select) int {
	for id, name := range workerTypeNames {
		if name == sel.Selected {
			return id
		}
	}
	return 1
}

func (a *App) showCreateUserDialog(gen uint64, reload func()) {
	dniEntry := widget.NewEntry()
	nombreEntry := widget.NewEntry()
	apellidoEntry := widget.NewEntry()
	placaEntry := widget.NewEntry()
	telefonoEntry := widget.NewEntry()

	roleSelect := widget.NewSelect([]string{model.RoleTrabajador.Label(), model.RoleCoadmin.Label()}, nil)
	roleSelect.SetSelected(model.RoleTrabajador.Label())

	typeSel, priceEntry, priceRow := typePicker(1, 0)
	typeBox := container.NewVBox(widget.NewLabel("Tipo de trabajador:"), typeSel, priceRow)

	permChecks := make(map[model.Capability]*widget.Check)
	permBox := container.NewVBox(widget.NewLabel("Permisos del coadministrador:"))
	for _, c := range model.Capabilities() {
		chk := widget.NewCheck(c.Label(), nil)
		permChecks[c] = chk
		permBox.Add(chk)
	}
	permBox.Hide()

	roleSelect.OnChanged = func(sel string) {
		if sel == model.RoleCoadmin.Label() {
			typeBox.Hide()
			permBox.Show()
		} else {
			typeBox.Show()
			permBox.Hide()
		}
	}

	form := container.NewVBox(
		widget.NewLabel("DNI:"), dniEntry,
		widget.NewLabel("Nombre:"), nombreEntry,
		widget.NewLabel("Apellido:"), apellidoEntry,
		widget.NewLabel("Placa:"), placaEntry,
		widget.NewLabel("Teléfono (opcional):"), telefonoEntry,
		widget.NewLabel("Rol:"), roleSelect,
		typeBox,
		permBox,
	)

	d := dialog.NewCustomConfirm("Registrar usuario", "Registrar", "Cancelar",
		container.NewVScroll(form),
		func(ok bool) {
			if !ok {
				return
			}
			dni := strings.TrimSpace(dniEntry.Text)
			if err := model.ValidateDNI(dni); err != nil {
				dialog.ShowError(err, a.window)
				return
			}

			in := api.CreateUserInput{
				DNI:      dni,
				Nombre:   strings.TrimSpace(nombreEntry.Text),
				Apellido: strings.TrimSpace(apellidoEntry.Text),
				Placa:    model.FormatPlaca(placaEntry.Text),
				Telefono: strings.TrimSpace(telefonoEntry.Text),
			}
			if roleSelect.Selected == model.RoleCoadmin.Label() {
				in.Rol = model.RoleCoadmin.String()
				in.Permisos = model.PermissionSet{}
				for c, chk := range permChecks {
					in.Permisos[c] = chk.Checked
				}
			} else {
				if err := model.ValidatePlaca(in.Placa); err != nil {
					dialog.ShowError(err, a.window)
					return
				}
				in.Rol = model.RoleTrabajador.String()
				in.TipoTrabajadorID = selectedTypeID(typeSel)
				if in.TipoTrabajadorID == model.TipoPersonalizado {
					precio, err := strconv.ParseFloat(strings.TrimSpace(priceEntry.Text), 64)
					if err != nil || precio <= 0 {
						dialog.ShowError(fmt.Errorf("ingresa un precio válido"), a.window)
						return
					}
					in.PrecioCustom = precio
				}
			}

			fetch(a, gen, func() (*model.User, error) {
				return a.client.Usuarios.Create(context.Background(), in)
			}, func(u *model.User) {
				a.toast("Registrado: " + u.FullName())
				reload()
			})
		}, a.window)
	d.Resize(fyne.NewSize(440, 560))
	d.Show()
}

func (a *App) showEditUserDialog(gen uint64, u model.User, reload func()) {
	nombreEntry := widget.NewEntry()
	nombreEntry.SetText(u.Nombre)
	apellidoEntry := widget.NewEntry()
	apellidoEntry.SetText(u.Apellido)
	placaEntry := widget.NewEntry()
	placaEntry.SetText(u.Placa)
	telefonoEntry := widget.NewEntry()
	telefonoEntry.SetText(u.Telefono)

	d := dialog.NewForm("Editar: "+u.FullName(), "Guardar", "Cancelar",
		[]*widget.FormItem{
			widget.NewFormItem("Nombre", nombreEntry),
			widget.NewFormItem("Apellido", apellidoEntry),
			widget.NewFormItem("Placa", placaEntry),
			widget.NewFormItem("Teléfono", telefonoEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			placa := model.FormatPlaca(placaEntry.Text)
			if u.Role() == model.RoleTrabajador {
				if err := model.ValidatePlaca(placa); err != nil {
					dialog.ShowError(err, a.window)
					return
				}
			}
			nombre := strings.TrimSpace(nombreEntry.Text)
			apellido := strings.TrimSpace(apellidoEntry.Text)
			telefono := strings.TrimSpace(telefonoEntry.Text)
			in := api.UpdateUserInput{
				Nombre:   &nombre,
				Apellido: &apellido,
				Placa:    &placa,
				Telefono: &telefono,
			}
			fetch(a, gen, func() (*model.User, error) {
				return a.client.Usuarios.Update(context.Background(), u.ID, in)
			}, func(*model.User) {
				a.toast("Cambios guardados")
				reload()
			})
		}, a.window)
	d.Resize(fyne.NewSize(420, 360))
	d.Show()
}

func (a *App) showChangeTypeDialog(gen uint64, u model.User, reload func()) {
	typeSel, priceEntry, priceRow := typePicker(u.TipoID, u.Precio)

	content := container.NewVBox(
		widget.NewLabel("Tipo actual: "+u.TipoNombre),
		typeSel,
		priceRow,
	)
	d := dialog.NewCustomConfirm("Cambiar tipo: "+u.FullName(), "Guardar", "Cancelar", content,
		func(ok bool) {
			if !ok {
				return
			}
			tipoID := selectedTypeID(typeSel)
			var precio float64
			if tipoID == model.TipoPersonalizado {
				var err error
				precio, err = strconv.ParseFloat(strings.TrimSpace(priceEntry.Text), 64)
				if err != nil || precio <= 0 {
					dialog.ShowError(fmt.Errorf("ingresa un precio válido"), a.window)
					return
				}
			}
			fetch(a, gen, func() (struct{}, error) {
				return struct{}{}, a.client.Usuarios.ChangeType(context.Background(), u.ID, tipoID, precio)
			}, func(struct{}) {
				a.toast("Tipo actualizado")
				reload()
			})
		}, a.window)
	d.Resize(fyne.NewSize(400, 280))
	d.Show()
}

func (a *App) showPermissionsDialog(gen uint64, u model.User, reload func()) {
	checks := make(map[model.Capability]*widget.Check)
	box := container.NewVBox()
	for _, c := range model.Capabilities() {
		chk := widget.NewCheck(c.Label(), nil)
		checks[c] = chk
		box.Add(chk)
	}

	// Preload the stored set so the boxes reflect what is already granted.
	fetch(a, gen, func() (*model.User, error) {
		return a.client.Usuarios.Get(context.Background(), u.ID)
	}, func(full *model.User) {
		for c, chk := range checks {
			chk.SetChecked(full.Permisos.Granted(c))
		}
	})

	d := dialog.NewCustomConfirm("Permisos: "+u.FullName(), "Guardar", "Cancelar", box,
		func(ok bool) {
			if !ok {
				return
			}
			permisos := model.PermissionSet{}
			for c, chk := range checks {
				permisos[c] = chk.Checked
			}
			fetch(a, gen, func() (struct{}, error) {
				return struct{}{}, a.client.Usuarios.UpdatePermissions(context.Background(), u.ID, permisos)
			}, func(struct{}) {
				a.toast("Permisos actualizados")
				reload()
			})
		}, a.window)
	d.Resize(fyne.NewSize(380, 320))
	d.Show()
}
