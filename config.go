package custsession

import (
	"errors"
	"net/http"
	"time"
)

// Config is the complete configuration tree for the session identity core.
// A zero Config is not usable; start from [DefaultConfig].
type Config struct {
	Session SessionConfig
	TOTP    TOTPConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls cookie sealing, naming, and lifetime.
type SessionConfig struct {
	// Secret seals and unseals the session cookie payload. Required:
	// session creation without it is a hard failure, not a no-op.
	Secret string

	// TTL is the session lifetime, applied to the store record, the
	// sealed payload's max age, and the default cookie max-age.
	TTL time.Duration

	// RememberTTL is the cookie max-age used when a session is
	// established with EstablishOptions.Remember.
	RememberTTL time.Duration

	CookieName     string
	CSRFCookieName string
	CookieDomain   string
	CookiePath     string
	SecureCookies  bool
	SameSitePolicy http.SameSite
}

/*
====================================
TOTP CONFIG
====================================
*/

// TOTPConfig controls multi-factor code generation and verification.
type TOTPConfig struct {
	Issuer    string
	Digits    int
	Period    int // seconds per time step
	Algorithm string
	Skew      int // accepted steps either side of "now"
}

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the baseline configuration: one-day sessions,
// 30-day remember cookies, Strict/Secure cookie attributes, and
// RFC 6238 TOTP defaults (SHA1, 6 digits, 30 s steps, ±1 step skew).
func DefaultConfig() Config {
	return Config{
		Session: SessionConfig{
			TTL:            24 * time.Hour,
			RememberTTL:    30 * 24 * time.Hour,
			CookieName:     "customer_session",
			CSRFCookieName: "csrf_token",
			CookiePath:     "/",
			SecureCookies:  true,
			SameSitePolicy: http.SameSiteStrictMode,
		},
		TOTP: TOTPConfig{
			Issuer:    "custsession",
			Digits:    6,
			Period:    30,
			Algorithm: "SHA1",
			Skew:      1,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate rejects configurations that cannot operate safely.
func (c *Config) Validate() error {
	if c.Session.Secret == "" {
		return ErrSecretMissing
	}
	if len(c.Session.Secret) < 32 {
		return errors.New("session secret must be at least 32 characters")
	}
	if c.Session.TTL <= 0 {
		return errors.New("session TTL must be positive")
	}
	if c.Session.RememberTTL < c.Session.TTL {
		return errors.New("remember TTL must be at least the session TTL")
	}
	if c.Session.CookieName == "" || c.Session.CSRFCookieName == "" {
		return errors.New("cookie names must be set")
	}
	if c.Session.CookieName == c.Session.CSRFCookieName {
		return errors.New("session and CSRF cookies must use distinct names")
	}

	if c.TOTP.Digits < 6 || c.TOTP.Digits > 10 {
		return errors.New("totp digits must be between 6 and 10")
	}
	if c.TOTP.Period <= 0 {
		return errors.New("totp period must be positive")
	}
	if c.TOTP.Skew < 0 {
		return errors.New("totp skew cannot be negative")
	}
	switch c.TOTP.Algorithm {
	case "", "SHA1", "SHA256", "SHA512":
	default:
		return errors.New("unsupported totp algorithm")
	}

	return nil
}

func cloneConfig(cfg Config) Config {
	// All fields are value types; a shallow copy is a deep copy.
	return cfg
}
