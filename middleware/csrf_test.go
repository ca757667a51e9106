package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/commercekit/custsession"
)

func csrfHandler(m *custsession.Manager) http.Handler {
	return CSRF(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestCSRFSafeMethodsPass(t *testing.T) {
	m := newTestManager(t)
	handler := csrfHandler(m)

	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(method, "/", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("%s: status = %d", method, rec.Code)
		}
	}
}

func TestCSRFRejectsMissingHeader(t *testing.T) {
	m := newTestManager(t)
	handler := csrfHandler(m)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: "tok"})
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestCSRFAcceptsMatchingTokens(t *testing.T) {
	m := newTestManager(t)
	handler := csrfHandler(m)

	issueRec := httptest.NewRecorder()
	token, err := m.IssueCSRFToken(issueRec)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: token})
	req.Header.Set(custsession.CSRFHeaderName, token)
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	// Mismatch is rejected.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: token})
	req.Header.Set(custsession.CSRFHeaderName, "other")
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}
