package model

import (
	"strings"
	"testing"
)

func TestValidateDNI(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"valid", "12345678", nil},
		{"valid with spaces", "  87654321  ", nil},
		{"empty", "", ErrDNIEmpty},
		{"whitespace only", "   ", ErrDNIEmpty},
		{"too short", "1234567", ErrDNIInvalid},
		{"too long", "123456789", ErrDNIInvalid},
		{"letters", "1234567a", ErrDNIInvalid},
		{"hyphenated", "1234-678", ErrDNIInvalid},
		{"unicode digits", "１２３４５６７８", ErrDNIInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateDNI(tt.input); err != tt.wantErr {
				t.Errorf("ValidateDNI(%q) = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePlaca(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"hyphenated", "ABC-123", nil},
		{"plain", "ABC123", nil},
		{"lowercase", "abc-123", nil},
		{"four-three", "AB1C-D23", nil},
		{"padded", " V2K-458 ", nil},
		{"empty", "", ErrPlacaEmpty},
		{"too short", "AB-1", ErrPlacaInvalid},
		{"symbols", "AB*-123", ErrPlacaInvalid},
		{"spaces inside", "ABC 123", ErrPlacaInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidatePlaca(tt.input); err != tt.wantErr {
				t.Errorf("ValidatePlaca(%q) = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		input string
		want  Role
	}{
		{"admin_general", RoleAdminGeneral},
		{"coadministrador", RoleCoadmin},
		{"trabajador", RoleTrabajador},
		{"", RoleNone},
		{"moderator", RoleNone},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseRole(tt.input); got != tt.want {
				t.Errorf("ParseRole(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestRoleRoundTrip(t *testing.T) {
	for _, r := range []Role{RoleTrabajador, RoleCoadmin, RoleAdminGeneral} {
		if got := ParseRole(r.String()); got != r {
			t.Errorf("ParseRole(%q) = %d, want %d", r.String(), got, r)
		}
		if !r.Valid() {
			t.Errorf("Role %q should be valid", r)
		}
	}
	if RoleNone.Valid() {
		t.Error("RoleNone should not be valid")
	}
}

func TestPermissionSetGranted(t *testing.T) {
	var nilSet PermissionSet
	if nilSet.Granted(CapApprovePayments) {
		t.Error("nil permission set must grant nothing")
	}

	set := PermissionSet{CapApprovePayments: true, CapViewReports: false}
	if !set.Granted(CapApprovePayments) {
		t.Error("granted capability reported as missing")
	}
	if set.Granted(CapViewReports) {
		t.Error("explicit false must not grant")
	}
	if set.Granted(CapDeleteWorkers) {
		t.Error("absent capability must not grant")
	}
}

func TestStatusBadge(t *testing.T) {
	tests := []struct {
		status PaymentStatus
		label  string
		color  string
	}{
		{StatusPendiente, "Pendiente", "warning"},
		{StatusPorValidar, "Por validar", "info"},
		{StatusPagado, "Pagado", "success"},
		{StatusRechazado, "Rechazado", "danger"},
		{PaymentStatus("anulado"), "anulado", "gray"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			b := tt.status.Badge()
			if b.Label != tt.label || b.Color != tt.color {
				t.Errorf("Badge() = {%q %q}, want {%q %q}", b.Label, b.Color, tt.label, tt.color)
			}
		})
	}
}

func TestUserHelpers(t *testing.T) {
	u := &User{Nombre: "maria", Apellido: "quispe"}
	if got := u.Initials(); got != "MQ" {
		t.Errorf("Initials() = %q, want MQ", got)
	}
	if got := (&User{}).Initials(); got != "??" {
		t.Errorf("Initials() on empty user = %q, want ??", got)
	}
	if got := (&User{Nombre: "Ana"}).FullName(); got != "Ana" {
		t.Errorf("FullName() = %q, want Ana", got)
	}

	var nilUser *User
	if nilUser.Role() != RoleNone {
		t.Error("nil user must have RoleNone")
	}
}

func TestFormatMoney(t *testing.T) {
	if got := FormatMoney(12.5); got != "S/ 12.50" {
		t.Errorf("FormatMoney(12.5) = %q", got)
	}
	if got := FormatMoney(0); got != "S/ 0.00" {
		t.Errorf("FormatMoney(0) = %q", got)
	}
}

func TestMonthName(t *testing.T) {
	if got := MonthName(2); got != "Febrero" {
		t.Errorf("MonthName(2) = %q", got)
	}
	for _, m := range []int{0, 13, -1} {
		if got := MonthName(m); got != "" {
			t.Errorf("MonthName(%d) = %q, want empty", m, got)
		}
	}
}

func TestCapabilityLabels(t *testing.T) {
	for _, c := range Capabilities() {
		if strings.TrimSpace(c.Label()) == "" {
			t.Errorf("capability %q has empty label", c)
		}
	}
}
