package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/commercekit/custsession"
	"github.com/commercekit/custsession/permission"
	"github.com/commercekit/custsession/store"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T) *custsession.Manager {
	t.Helper()

	m, err := custsession.New().
		WithSecret(testSecret).
		WithStore(store.NewMemoryStore(time.Hour)).
		WithPermissions(permission.Config{
			Permissions: []string{"profile:read", "orders:write"},
			Roles: map[string][]string{
				"customer": {"profile:read", "orders:write"},
				"support":  {"profile:read"},
			},
		}).
		Build()
	if err != nil {
		t.Fatalf("building manager: %v", err)
	}
	t.Cleanup(m.Close)

	return m
}

func login(t *testing.T, m *custsession.Manager, customerID, role string) []*http.Cookie {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	if err := m.EstablishSession(rec, req, customerID, role, custsession.EstablishOptions{}); err != nil {
		t.Fatalf("establish: %v", err)
	}
	return rec.Result().Cookies()
}

func okHandler(t *testing.T, sawClaims *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || claims == nil {
			t.Error("claims missing from context")
		}
		*sawClaims = ok
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequirePermissionAllows(t *testing.T) {
	m := newTestManager(t)
	cookies := login(t, m, "cust-1", "customer")

	var sawClaims bool
	handler := RequirePermission(m, "orders:write")(okHandler(t, &sawClaims))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	for _, c := range cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !sawClaims {
		t.Fatal("handler must see resolved claims")
	}
}

func TestRequirePermissionDenies(t *testing.T) {
	m := newTestManager(t)
	cookies := login(t, m, "cust-1", "support")

	handler := RequirePermission(m, "orders:write")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run")
	}))

	// Role without the permission.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	for _, c := range cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	// No session at all.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
