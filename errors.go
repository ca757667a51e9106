package custsession

import "errors"

var (
	// ErrUnauthorized is the single generic signal returned by permission
	// guards. It carries no detail about which role or permission was
	// involved.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrSecretMissing is returned when session creation is attempted
	// without a configured sealing secret.
	ErrSecretMissing = errors.New("session secret is not configured")
	// ErrSessionCreationFailed wraps store write failures during session
	// establishment or rotation.
	ErrSessionCreationFailed = errors.New("session creation failed")
	// ErrSessionInvalidationFailed wraps store delete failures during
	// logout, rotation, and revocation.
	ErrSessionInvalidationFailed = errors.New("session invalidation failed")
	// ErrMFAUnavailable wraps MFA record store failures.
	ErrMFAUnavailable = errors.New("mfa backend unavailable")
	// ErrMFANotEnrolled is returned when enrollment state is requested
	// for a customer without an MFA record.
	ErrMFANotEnrolled = errors.New("mfa not enrolled")
	// ErrManagerNotReady is returned by methods on a nil or unbuilt Manager.
	ErrManagerNotReady = errors.New("manager not initialized")
)
