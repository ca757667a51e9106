package custsession

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/commercekit/custsession/internal"
)

// CSRFHeaderName is the request header clients echo the CSRF cookie into.
const CSRFHeaderName = "X-CSRF-Token"

// IssueCSRFToken mints a fresh CSRF token and writes it as a readable
// cookie. The returned value is what a well-behaved client will later echo
// in the CSRF header.
func (m *Manager) IssueCSRFToken(w http.ResponseWriter) (string, error) {
	if m == nil {
		return "", ErrManagerNotReady
	}
	return m.issueCSRFToken(w, m.config.Session.TTL)
}

// issueCSRFToken writes the token with an explicit max-age so the CSRF
// cookie can track an extended session cookie lifetime.
func (m *Manager) issueCSRFToken(w http.ResponseWriter, maxAge time.Duration) (string, error) {
	token, err := internal.NewToken()
	if err != nil {
		return "", err
	}
	m.setCSRFCookie(w, token.String(), maxAge)

	return token.String(), nil
}

// ValidateCSRFToken compares the submitted token against the CSRF cookie in
// constant time. Absent cookie, empty submission, and mismatch are all
// plain failures; no distinction is reported to the caller.
func (m *Manager) ValidateCSRFToken(r *http.Request, submitted string) bool {
	if m == nil {
		return false
	}

	expected, ok := cookieValue(r, m.config.Session.CSRFCookieName)
	if !ok || submitted == "" {
		m.metrics.Inc(MetricCSRFFailure)
		return false
	}

	// Every token this manager mints decodes to 128 bits; anything else
	// cannot match and is rejected before the byte compare.
	if _, err := internal.ParseToken(submitted); err != nil {
		m.metrics.Inc(MetricCSRFFailure)
		return false
	}

	if subtle.ConstantTimeCompare([]byte(expected), []byte(submitted)) != 1 {
		m.metrics.Inc(MetricCSRFFailure)
		m.emitAudit(r.Context(), AuditEvent{
			Timestamp: time.Now().UTC(),
			EventType: "csrf.rejected",
			UserAgent: requestUserAgent(r),
			Success:   false,
		})
		return false
	}

	return true
}

// ValidateCSRFRequest reads the submitted token from the CSRF header and
// validates it against the cookie.
func (m *Manager) ValidateCSRFRequest(r *http.Request) bool {
	if m == nil {
		return false
	}
	return m.ValidateCSRFToken(r, r.Header.Get(CSRFHeaderName))
}
