package custsession

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCSRFIssueAndValidate(t *testing.T) {
	m := newTestManager(t)

	rec := httptest.NewRecorder()
	token, err := m.IssueCSRFToken(rec)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	cookie := responseCookie(t, rec, "csrf_token")
	if cookie == nil || cookie.Value != token {
		t.Fatal("cookie must carry the issued token")
	}
	if cookie.HttpOnly {
		t.Fatal("csrf cookie must not be HttpOnly")
	}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: token})
	if !m.ValidateCSRFToken(req, token) {
		t.Fatal("matching token must validate")
	}

	req.Header.Set(CSRFHeaderName, token)
	if !m.ValidateCSRFRequest(req) {
		t.Fatal("header echo must validate")
	}
}

func TestCSRFValidateRejections(t *testing.T) {
	m := newTestManager(t)

	// No cookie.
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if m.ValidateCSRFToken(req, "anything") {
		t.Fatal("missing cookie must fail")
	}

	// Empty submission.
	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: "tok"})
	if m.ValidateCSRFToken(req, "") {
		t.Fatal("empty submission must fail")
	}

	// Mismatch.
	if m.ValidateCSRFToken(req, "other") {
		t.Fatal("mismatched token must fail")
	}

	if got := m.Metrics().Value(MetricCSRFFailure); got != 3 {
		t.Fatalf("csrf failure counter = %d", got)
	}
}

func TestCSRFValidateRejectsMalformedToken(t *testing.T) {
	m := newTestManager(t)

	rec := httptest.NewRecorder()
	token, err := m.IssueCSRFToken(rec)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: token})

	// Values the issuer can never produce: wrong length, bad encoding.
	for _, submitted := range []string{"short", "!!!not-base64!!!", token + token} {
		if m.ValidateCSRFToken(req, submitted) {
			t.Fatalf("malformed token %q must be rejected", submitted)
		}
	}

	if !m.ValidateCSRFToken(req, token) {
		t.Fatal("well-formed matching token must still validate")
	}
}
