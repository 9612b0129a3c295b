package session_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/etturpe/ettur/pkg/api"
	"github.com/etturpe/ettur/pkg/crypto"
	"github.com/etturpe/ettur/pkg/model"
	"github.com/etturpe/ettur/pkg/nav"
	"github.com/etturpe/ettur/pkg/session"
	"github.com/etturpe/ettur/pkg/store"
)

var testKey = make([]byte, 32)

func newSealer(t *testing.T) *crypto.SessionSealer {
	t.Helper()
	s, err := crypto.NewSessionSealer(testKey)
	if err != nil {
		t.Fatalf("sealer: %v", err)
	}
	return s
}

const loginBody = `{"success":true,"data":{
	"token":"tok-1",
	"usuario":{"id":5,"dni":"12345678","nombre":"Luis","apellido":"Mamani","placa":"ABC-123","rol":"coadministrador"},
	"permisos":{"puede_aprobar_pagos":true,"puede_ver_reportes":false}
}}`

func newAuthority(t *testing.T, handler http.HandlerFunc) (*session.Authority, store.KV, *api.Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := api.New(srv.URL)
	kv := store.NewMemory(false)
	return session.New(kv, newSealer(t), client), kv, client
}

func TestLoginValidatesBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	a, _, _ := newAuthority(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	tests := []struct {
		name       string
		dni, placa string
	}{
		{"empty dni", "", "ABC-123"},
		{"short dni", "1234567", "ABC-123"},
		{"alpha dni", "1234567a", "ABC-123"},
		{"empty placa", "12345678", ""},
		{"bad placa", "12345678", "!!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.Login(context.Background(), tt.dni, tt.placa)
			if !errors.Is(err, api.ErrValidation) {
				t.Errorf("Login = %v, want ErrValidation", err)
			}
		})
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("backend called %d times during validation failures", n)
	}
	if a.IsAuthenticated() {
		t.Error("must not be authenticated")
	}
}

func TestLoginSuccessAndRestore(t *testing.T) {
	a, kv, _ := newAuthority(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(loginBody))
	})

	if err := a.Login(context.Background(), "12345678", "abc-123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !a.IsAuthenticated() {
		t.Fatal("expected authenticated session")
	}
	if a.Role() != model.RoleCoadmin {
		t.Errorf("Role = %v", a.Role())
	}
	if a.Token() != "tok-1" {
		t.Errorf("Token = %q", a.Token())
	}
	if u := a.User(); u == nil || u.FullName() != "Luis Mamani" {
		t.Errorf("User = %+v", u)
	}

	// The cached blobs must not hold the token in the clear.
	blob, err := kv.Get(store.KeyToken)
	if err != nil {
		t.Fatalf("cached token missing: %v", err)
	}
	if string(blob) == "tok-1" {
		t.Error("token cached unencrypted")
	}

	// A fresh authority over the same store restores the session offline.
	b := session.New(kv, newSealer(t), api.New("http://127.0.0.1:1"))
	if !b.Initialize() {
		t.Fatal("Initialize should restore the cached session")
	}
	if b.Token() != "tok-1" || b.Role() != model.RoleCoadmin {
		t.Errorf("restored token=%q role=%v", b.Token(), b.Role())
	}
	if !b.HasCapability(model.CapApprovePayments) {
		t.Error("restored permissions lost puede_aprobar_pagos")
	}
}

func TestLoginRejected(t *testing.T) {
	a, _, _ := newAuthority(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"DNI o placa incorrectos"}`))
	})

	err := a.Login(context.Background(), "12345678", "ABC-123")
	if !errors.Is(err, api.ErrAuthentication) {
		t.Fatalf("Login = %v, want ErrAuthentication", err)
	}
	if a.IsAuthenticated() {
		t.Error("failed login must not authenticate")
	}
}

func TestInitializeEmptyStore(t *testing.T) {
	a := session.New(store.NewMemory(false), newSealer(t), api.New("http://127.0.0.1:1"))
	if a.Initialize() {
		t.Error("Initialize on empty store must return false")
	}
	if a.RouteForRole() != nav.ViewLogin {
		t.Errorf("RouteForRole = %v, want login", a.RouteForRole())
	}
}

func TestInitializeDiscardsCorruptCache(t *testing.T) {
	kv := store.NewMemory(false)
	if err := kv.Set(store.KeyToken, []byte("not a sealed blob")); err != nil {
		t.Fatal(err)
	}
	a := session.New(kv, newSealer(t), api.New("http://127.0.0.1:1"))
	if a.Initialize() {
		t.Fatal("corrupt cache must not authenticate")
	}
	if _, err := kv.Get(store.KeyToken); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("corrupt cache not cleared: %v", err)
	}
}

func TestHasCapability(t *testing.T) {
	login := func(role, permisos string) *session.Authority {
		a, _, _ := newAuthority(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":true,"data":{"token":"t","usuario":{"id":1,"dni":"12345678","rol":"` + role + `"},"permisos":` + permisos + `}}`))
		})
		if err := a.Login(context.Background(), "12345678", "ABC-123"); err != nil {
			t.Fatalf("login as %s: %v", role, err)
		}
		return a
	}

	// admin_general holds everything, even with an empty (or hostile) set.
	admin := login("admin_general", `{}`)
	for _, c := range model.Capabilities() {
		if !admin.HasCapability(c) {
			t.Errorf("admin_general missing %s", c)
		}
	}

	// trabajador holds nothing, regardless of the set's contents.
	worker := login("trabajador", `{"puede_aprobar_pagos":true}`)
	for _, c := range model.Capabilities() {
		if worker.HasCapability(c) {
			t.Errorf("trabajador granted %s", c)
		}
	}

	// coadmin follows the stored booleans, absent means denied.
	coadmin := login("coadministrador", `{"puede_aprobar_pagos":true,"puede_ver_reportes":false}`)
	if !coadmin.HasCapability(model.CapApprovePayments) {
		t.Error("coadmin denied an explicitly granted capability")
	}
	if coadmin.HasCapability(model.CapViewReports) {
		t.Error("coadmin granted an explicitly false capability")
	}
	if coadmin.HasCapability(model.CapDeleteWorkers) {
		t.Error("coadmin granted an absent capability")
	}
}

func TestRouteForRole(t *testing.T) {
	tests := []struct {
		role string
		want nav.View
	}{
		{"admin_general", nav.ViewAdminHome},
		{"coadministrador", nav.ViewCoadminHome},
		{"trabajador", nav.ViewWorkerHome},
	}
	for _, tt := range tests {
		a, _, _ := newAuthority(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":true,"data":{"token":"t","usuario":{"id":1,"dni":"12345678","rol":"` + tt.role + `"}}}`))
		})
		if err := a.Login(context.Background(), "12345678", "ABC-123"); err != nil {
			t.Fatalf("login: %v", err)
		}
		if got := a.RouteForRole(); got != tt.want {
			t.Errorf("RouteForRole(%s) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestLogoutClearsEvenWhenBackendFails(t *testing.T) {
	a, kv, _ := newAuthority(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			w.Write([]byte(loginBody))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})
	if err := a.Login(context.Background(), "12345678", "ABC-123"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	a.Logout(context.Background())
	if a.IsAuthenticated() {
		t.Error("Logout must clear the session")
	}
	if _, err := kv.Get(store.KeyToken); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Logout must clear the cache: %v", err)
	}
}

func TestBackendExpiryTearsDownSession(t *testing.T) {
	var authed atomic.Bool
	authed.Store(true)
	a, kv, client := newAuthority(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			w.Write([]byte(loginBody))
			return
		}
		if !authed.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"success":false,"message":"token invalido"}`))
			return
		}
		w.Write([]byte(`{"success":true,"data":[]}`))
	})
	if err := a.Login(context.Background(), "12345678", "ABC-123"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	expired := false
	a.SetExpiredHandler(func() { expired = true })

	authed.Store(false)
	_, err := client.Pagos.MyPayments(context.Background(), 2025)
	if !errors.Is(err, api.ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}
	if !expired {
		t.Error("expired handler not fired")
	}
	if a.IsAuthenticated() {
		t.Error("session must be cleared after a backend 401")
	}
	if _, err := kv.Get(store.KeyToken); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("cache must be cleared after a backend 401: %v", err)
	}
}
