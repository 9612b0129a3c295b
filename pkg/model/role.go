// Package model defines the core domain types for the ETTUR client.
package model

// Role represents a user's access level.
type Role int

const (
	RoleNone         Role = iota // No session
	RoleTrabajador               // Pays periodic fees, no admin capability
	RoleCoadmin                  // Delegated admin, capabilities granted individually
	RoleAdminGeneral             // Full control over every capability
)

func (r Role) String() string {
	switch r {
	case RoleTrabajador:
		return "trabajador"
	case RoleCoadmin:
		return "coadministrador"
	case RoleAdminGeneral:
		return "admin_general"
	default:
		return "none"
	}
}

// Label returns the human-facing role name.
func (r Role) Label() string {
	switch r {
	case RoleTrabajador:
		return "Trabajador"
	case RoleCoadmin:
		return "Coadministrador"
	case RoleAdminGeneral:
		return "Administrador General"
	default:
		return "-"
	}
}

// ParseRole converts a backend role string to a Role.
func ParseRole(s string) Role {
	switch s {
	case "admin_general":
		return RoleAdminGeneral
	case "coadministrador":
		return RoleCoadmin
	case "trabajador":
		return RoleTrabajador
	default:
		return RoleNone
	}
}

// Valid returns true if the role is a recognised value.
func (r Role) Valid() bool {
	return r > RoleNone && r <= RoleAdminGeneral
}

// Capability names a delegated admin action. The backend grants these
// individually to coadmins; admin_general holds all of them implicitly.
type Capability string

const (
	CapRegisterWorkers Capability = "puede_registrar_trabajadores"
	CapModifyPrices    Capability = "puede_modificar_precios"
	CapApprovePayments Capability = "puede_aprobar_pagos"
	CapViewReports     Capability = "puede_ver_reportes"
	CapDeleteWorkers   Capability = "puede_eliminar_trabajadores"
)

// Capabilities lists every known capability in display order.
func Capabilities() []Capability {
	return []Capability{
		CapRegisterWorkers,
		CapModifyPrices,
		CapApprovePayments,
		CapViewReports,
		CapDeleteWorkers,
	}
}

// Label returns the human-facing capability name.
func (c Capability) Label() string {
	switch c {
	case CapRegisterWorkers:
		return "Registrar trabajadores"
	case CapModifyPrices:
		return "Modificar precios"
	case CapApprovePayments:
		return "Aprobar pagos"
	case CapViewReports:
		return "Ver reportes"
	case CapDeleteWorkers:
		return "Eliminar trabajadores"
	default:
		return string(c)
	}
}

// PermissionSet maps capabilities to granted booleans. Meaningful only for
// coadmins; absent keys count as not granted.
type PermissionSet map[Capability]bool

// Granted reports whether the capability is present and true.
func (p PermissionSet) Granted(c Capability) bool {
	if p == nil {
		return false
	}
	return p[c]
}
