package model

import (
	"errors"
	"regexp"
	"strings"
)

const DNILength = 8

var ErrDNIEmpty = errors.New("dni must not be empty")
var ErrDNIInvalid = errors.New("dni must be exactly 8 digits")
var ErrPlacaEmpty = errors.New("placa must not be empty")
var ErrPlacaInvalid = errors.New("placa must be 5-7 letters and digits, optionally hyphenated")

var placaPattern = regexp.MustCompile(`^[A-Z0-9]{3,4}-?[A-Z0-9]{2,3}$`)

// User represents an ETTUR account as returned by the backend.
type User struct {
	ID           int64   `json:"id"`
	DNI          string  `json:"dni"`
	Nombre       string  `json:"nombre"`
	Apellido     string  `json:"apellido"`
	Placa        string  `json:"placa"`
	Rol          string  `json:"rol"`
	TipoID       int     `json:"tipo_trabajador_id"`
	TipoNombre   string  `json:"tipo_trabajador"`
	Precio       float64 `json:"precio"`
	EsMensual    bool    `json:"es_mensual"`
	EsSemanal    bool    `json:"es_semanal"`
	Activo       bool    `json:"activo"`
	Telefono     string  `json:"telefono,omitempty"`
	// Permisos is populated only on coadmin accounts fetched individually.
	Permisos PermissionSet `json:"permisos,omitempty"`
}

// Role returns the parsed role of the user.
func (u *User) Role() Role {
	if u == nil {
		return RoleNone
	}
	return ParseRole(u.Rol)
}

// FullName returns "Nombre Apellido" with empty parts dropped.
func (u *User) FullName() string {
	return strings.TrimSpace(u.Nombre + " " + u.Apellido)
}

// Initials returns up to two uppercase initials for avatar rendering.
func (u *User) Initials() string {
	first, last := "", ""
	if u.Nombre != "" {
		first = strings.ToUpper(u.Nombre[:1])
	}
	if u.Apellido != "" {
		last = strings.ToUpper(u.Apellido[:1])
	}
	if first+last == "" {
		return "??"
	}
	return first + last
}

// ValidateDNI checks that a DNI is exactly 8 ASCII digits.
func ValidateDNI(dni string) error {
	dni = strings.TrimSpace(dni)
	if dni == "" {
		return ErrDNIEmpty
	}
	if len(dni) != DNILength {
		return ErrDNIInvalid
	}
	for _, r := range dni {
		if r < '0' || r > '9' {
			return ErrDNIInvalid
		}
	}
	return nil
}

// ValidatePlaca checks a vehicle plate like "ABC-123" or "AB1234".
func ValidatePlaca(placa string) error {
	placa = FormatPlaca(placa)
	if placa == "" {
		return ErrPlacaEmpty
	}
	if !placaPattern.MatchString(placa) {
		return ErrPlacaInvalid
	}
	return nil
}

// FormatPlaca trims and uppercases a plate for display and submission.
func FormatPlaca(placa string) string {
	return strings.ToUpper(strings.TrimSpace(placa))
}
