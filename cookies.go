package custsession

import (
	"net/http"
	"time"
)

// setSessionCookie writes the sealed session cookie. HttpOnly keeps the
// payload out of reach of client-side code.
func (m *Manager) setSessionCookie(w http.ResponseWriter, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.config.Session.CookieName,
		Value:    value,
		Path:     m.config.Session.CookiePath,
		Domain:   m.config.Session.CookieDomain,
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.config.Session.SecureCookies,
		SameSite: m.config.Session.SameSitePolicy,
	})
}

// setCSRFCookie writes the CSRF token cookie. It is intentionally NOT
// HttpOnly: client-side code must read it back to echo the value in the
// CSRF request header.
func (m *Manager) setCSRFCookie(w http.ResponseWriter, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.config.Session.CSRFCookieName,
		Value:    value,
		Path:     m.config.Session.CookiePath,
		Domain:   m.config.Session.CookieDomain,
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: false,
		Secure:   m.config.Session.SecureCookies,
		SameSite: m.config.Session.SameSitePolicy,
	})
}

// clearCookie expires a cookie immediately. Clearing is best-effort and
// must never fail the surrounding call.
func (m *Manager) clearCookie(w http.ResponseWriter, name string, httpOnly bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     m.config.Session.CookiePath,
		Domain:   m.config.Session.CookieDomain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: httpOnly,
		Secure:   m.config.Session.SecureCookies,
		SameSite: m.config.Session.SameSitePolicy,
	})
}

func cookieValue(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
