package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/etturpe/ettur/pkg/api"
	"github.com/etturpe/ettur/pkg/billing"
	"github.com/etturpe/ettur/pkg/model"

	"github.com/google/go-cmp/cmp"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.New(srv.URL)
}

func TestLoginSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("login must not carry a bearer token, got %q", auth)
		}
		w.Write([]byte(`{"success":true,"data":{
			"token":"tok-abc",
			"usuario":{"id":3,"dni":"12345678","nombre":"Rosa","apellido":"Quispe","rol":"trabajador"},
			"permisos":{"puede_aprobar_pagos":true}
		}}`))
	})
	c.SetTokenSource(func() string { return "stale-token" })

	got, err := c.Auth.Login(context.Background(), "12345678", "ABC-123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	want := &api.LoginResult{
		Token:    "tok-abc",
		Usuario:  model.User{ID: 3, DNI: "12345678", Nombre: "Rosa", Apellido: "Quispe", Rol: "trabajador"},
		Permisos: model.PermissionSet{model.CapApprovePayments: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("login result mismatch (-want +got):\n%s", diff)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"DNI o placa incorrectos"}`))
	})
	hookFired := false
	c.SetUnauthorizedHook(func() { hookFired = true })

	_, err := c.Auth.Login(context.Background(), "12345678", "ABC-123")
	if !errors.Is(err, api.ErrAuthentication) {
		t.Fatalf("err = %v, want ErrAuthentication", err)
	}
	if err.Error() != "DNI o placa incorrectos" {
		t.Errorf("error message = %q, want backend message", err.Error())
	}
	if hookFired {
		t.Error("401 on the login path must not fire the unauthorized hook")
	}
}

func TestUnauthorizedOnProtectedPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"token invalido"}`))
	})
	fired := 0
	c.SetUnauthorizedHook(func() { fired++ })

	_, err := c.Pagos.MyPayments(context.Background(), 2025)
	if !errors.Is(err, api.ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}
	if fired != 1 {
		t.Errorf("unauthorized hook fired %d times, want 1", fired)
	}
}

func TestBearerTokenAttached(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-xyz" {
			t.Errorf("Authorization = %q, want Bearer tok-xyz", got)
		}
		w.Write([]byte(`{"success":true,"data":[]}`))
	})
	c.SetTokenSource(func() string { return "tok-xyz" })

	if _, err := c.Usuarios.List(context.Background(), api.ListUsuariosOptions{}); err != nil {
		t.Fatalf("List: %v", err)
	}
}

func TestValidationError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"message":"el DNI ya esta registrado"}`))
	})

	_, err := c.Usuarios.Create(context.Background(), api.CreateUserInput{DNI: "12345678"})
	if !errors.Is(err, api.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatal("error must be an *api.Error")
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", apiErr.Status)
	}
}

func TestServerErrorMapsToNetwork(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := c.Reportes.Dashboard(context.Background())
	if !errors.Is(err, api.ErrNetwork) {
		t.Fatalf("err = %v, want ErrNetwork", err)
	}
}

func TestUnreachableServer(t *testing.T) {
	c := api.New("http://127.0.0.1:1") // nothing listens here
	_, err := c.Auth.Me(context.Background())
	if !errors.Is(err, api.ErrNetwork) {
		t.Fatalf("err = %v, want ErrNetwork", err)
	}
}

func TestPendingWeeksCarryKindAndCurrent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pagos/semanas-pendientes" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"data":[
			{"id":1,"numero":23,"anio":2025,"precio":12.5,"fecha_fin":"2025-06-08","puede_pagar":true},
			{"id":2,"numero":24,"anio":2025,"precio":12.5,"fecha_fin":"2025-06-15","es_actual":true}
		]}`))
	})

	got, err := c.Pagos.PendingWeeks(context.Background())
	if err != nil {
		t.Fatalf("PendingWeeks: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d periods, want 2", len(got))
	}
	for i, p := range got {
		if p.Kind != billing.Weekly {
			t.Errorf("period %d kind = %v, want Weekly", i, p.Kind)
		}
	}
	if got[0].EsActual || !got[1].EsActual {
		t.Errorf("es_actual not mapped: %v %v", got[0].EsActual, got[1].EsActual)
	}
}

func TestRegisterPaymentUpload(t *testing.T) {
	img := make([]byte, 64)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(api.MaxComprobanteSize); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("semana_id"); got != "7" {
			t.Errorf("semana_id = %q", got)
		}
		if got := r.FormValue("metodo_pago"); got != "yape" {
			t.Errorf("metodo_pago = %q", got)
		}
		f, hdr, err := r.FormFile("comprobante")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		if hdr.Filename != "yape.png" {
			t.Errorf("filename = %q", hdr.Filename)
		}
		w.Write([]byte(`{"success":true,"data":{"id":99,"estado":"pendiente_validacion","monto":12.5}}`))
	})

	p, err := c.Pagos.Register(context.Background(), api.RegisterPaymentInput{
		SemanaID:    7,
		Monto:       12.50,
		CodigoPago:  "ETT-S7-AB12",
		Comprobante: &api.Comprobante{Filename: "yape.png", Data: img},
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if p.ID != 99 || p.Estado != model.StatusPorValidar {
		t.Errorf("payment = %+v", p)
	}
}

func TestComprobanteValidation(t *testing.T) {
	tests := []struct {
		name string
		in   *api.Comprobante
		want error
	}{
		{"nil", nil, api.ErrComprobanteMissing},
		{"empty", &api.Comprobante{Filename: "a.png"}, api.ErrComprobanteMissing},
		{"bad extension", &api.Comprobante{Filename: "a.pdf", Data: []byte{1}}, api.ErrComprobanteType},
		{"no extension", &api.Comprobante{Filename: "imagen", Data: []byte{1}}, api.ErrComprobanteType},
		{"too large", &api.Comprobante{Filename: "a.jpg", Data: make([]byte, api.MaxComprobanteSize+1)}, api.ErrComprobanteSize},
		{"ok jpg", &api.Comprobante{Filename: "a.JPG", Data: []byte{1}}, nil},
		{"ok webp", &api.Comprobante{Filename: "a.webp", Data: []byte{1}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, api.ErrValidation) {
				t.Errorf("receipt errors must classify as ErrValidation, got %v", err)
			}
		})
	}
}
