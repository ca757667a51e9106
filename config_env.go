package custsession

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadConfigFromEnv builds a Config from environment variables, loading a
// .env file first when one exists. Unset variables keep their
// [DefaultConfig] values.
//
// Recognized variables:
//
//	SESSION_SECRET        sealing secret (required for Build)
//	SESSION_TTL           Go duration, e.g. "24h"
//	SESSION_REMEMBER_TTL  Go duration, e.g. "720h"
//	COOKIE_DOMAIN         cookie Domain attribute
//	COOKIE_SECURE         "true" / "false"
//	COOKIE_SAMESITE       "strict" / "lax" / "none"
//	TOTP_ISSUER           otpauth issuer label
//	TOTP_DIGITS           code length
//	AUDIT_ENABLED         "true" / "false"
//	METRICS_ENABLED       "true" / "false"
func LoadConfigFromEnv() (Config, error) {
	// A missing .env file is not an error; real environments set
	// variables directly.
	_ = godotenv.Load()

	cfg := DefaultConfig()
	cfg.Session.Secret = os.Getenv("SESSION_SECRET")

	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SESSION_TTL: %w", err)
		}
		cfg.Session.TTL = d
	}
	if v := os.Getenv("SESSION_REMEMBER_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SESSION_REMEMBER_TTL: %w", err)
		}
		cfg.Session.RememberTTL = d
	}
	if v := os.Getenv("COOKIE_DOMAIN"); v != "" {
		cfg.Session.CookieDomain = v
	}
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid COOKIE_SECURE: %w", err)
		}
		cfg.Session.SecureCookies = secure
	}
	if v := os.Getenv("COOKIE_SAMESITE"); v != "" {
		switch v {
		case "strict":
			cfg.Session.SameSitePolicy = http.SameSiteStrictMode
		case "lax":
			cfg.Session.SameSitePolicy = http.SameSiteLaxMode
		case "none":
			cfg.Session.SameSitePolicy = http.SameSiteNoneMode
		default:
			return Config{}, fmt.Errorf("invalid COOKIE_SAMESITE: %q", v)
		}
	}
	if v := os.Getenv("TOTP_ISSUER"); v != "" {
		cfg.TOTP.Issuer = v
	}
	if v := os.Getenv("TOTP_DIGITS"); v != "" {
		digits, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TOTP_DIGITS: %w", err)
		}
		cfg.TOTP.Digits = digits
	}
	if v := os.Getenv("AUDIT_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid AUDIT_ENABLED: %w", err)
		}
		cfg.Audit.Enabled = enabled
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid METRICS_ENABLED: %w", err)
		}
		cfg.Metrics.Enabled = enabled
	}

	return cfg, nil
}
