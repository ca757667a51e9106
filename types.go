package custsession

// Claims is the caller-visible result of a successful session resolution.
// The internal session id is deliberately absent: rotation makes it
// meaningless outside the manager, and collaborators only ever need the
// customer identity and role.
type Claims struct {
	CustomerID string
	Role       string
}

// TOTPProvision holds the base32-encoded TOTP secret and otpauth:// URI
// returned by [Manager.EnrollMFA]. The URI is suitable for rendering as a
// QR code for authenticator apps.
type TOTPProvision struct {
	Secret string
	URI    string
}

// MFARecord is the per-customer multi-factor state. Enabled flips to true
// on the first successful verification and never back.
type MFARecord struct {
	Secret  string `json:"secret"` // base32-encoded
	Enabled bool   `json:"enabled"`
}

// EstablishOptions tunes session establishment.
type EstablishOptions struct {
	// Remember extends the cookie max-age to the configured remember TTL.
	// The store record keeps the standard TTL either way.
	Remember bool
}
