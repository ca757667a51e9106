package custsession

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/commercekit/custsession/internal/audit"
	"github.com/commercekit/custsession/permission"
	"github.com/commercekit/custsession/store"
)

// Manager is the session identity core. It owns the sealed-cookie lifecycle
// (establish, resolve-with-rotation, destroy, revoke), CSRF issuance and
// validation, MFA enrollment, and permission guarding. Construct it with
// [New]; the zero value is not usable.
type Manager struct {
	config   Config
	store    store.Store
	mfaStore MFAStore
	matrix   *permission.Matrix
	totp     *totpManager
	metrics  *Metrics
	audit    *audit.Dispatcher

	now func() time.Time
}

// Matrix exposes the permission matrix for direct queries.
func (m *Manager) Matrix() *permission.Matrix {
	if m == nil {
		return nil
	}
	return m.matrix
}

// Metrics exposes the in-process counters.
func (m *Manager) Metrics() *Metrics {
	if m == nil {
		return nil
	}
	return m.metrics
}

// Close stops the audit dispatcher, draining buffered events.
func (m *Manager) Close() {
	if m == nil {
		return
	}
	m.audit.Close()
}

func requestUserAgent(r *http.Request) string {
	if ua := r.UserAgent(); ua != "" {
		return ua
	}
	return "unknown"
}

// EstablishSession creates a session for an already-authenticated customer:
// it mints a session id, seals the identity into the session cookie, issues
// a CSRF token, and records the session server-side.
//
// The cookies are written before the store write so that a store failure
// surfaces as an error without leaving the client cookie-less; callers
// treat any returned error as a failed login.
func (m *Manager) EstablishSession(w http.ResponseWriter, r *http.Request, customerID, role string, opts EstablishOptions) error {
	if m == nil {
		return ErrManagerNotReady
	}
	if m.config.Session.Secret == "" {
		return ErrSecretMissing
	}
	if customerID == "" || role == "" {
		return fmt.Errorf("%w: customer id and role are required", ErrSessionCreationFailed)
	}

	now := m.now()
	sessionID := uuid.NewString()

	token, err := sealPayload(m.config.Session.Secret, sealedPayload{
		CustomerID: customerID,
		Role:       role,
		SessionID:  sessionID,
		IssuedAt:   now.Unix(),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSessionCreationFailed, err)
	}

	cookieTTL := m.config.Session.TTL
	if opts.Remember {
		cookieTTL = m.config.Session.RememberTTL
	}
	m.setSessionCookie(w, token, cookieTTL)
	if _, err := m.issueCSRFToken(w, cookieTTL); err != nil {
		return err
	}

	record := &store.Record{
		SessionID:  sessionID,
		CustomerID: customerID,
		UserAgent:  requestUserAgent(r),
		CreatedAt:  now,
	}
	if err := m.store.Set(r.Context(), record); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionCreationFailed, err)
	}

	m.metrics.Inc(MetricSessionCreated)
	m.emitAudit(r.Context(), AuditEvent{
		Timestamp:  now.UTC(),
		EventType:  "session.created",
		CustomerID: customerID,
		Role:       role,
		UserAgent:  record.UserAgent,
		Success:    true,
	})

	return nil
}

// ResolveCurrentSession validates the inbound session cookie and, on
// success, rotates the session: a fresh id replaces the old one in both the
// store and the cookie, so a leaked cookie is only useful until its owner's
// next request.
//
// Every validation failure returns (nil, nil): missing or corrupt cookie,
// expired seal, absent store record, and backend unavailability are all
// indistinguishable "no session" outcomes. An error is returned only when
// rotation itself cannot complete, in which case no cookies are written.
func (m *Manager) ResolveCurrentSession(w http.ResponseWriter, r *http.Request) (*Claims, error) {
	if m == nil {
		return nil, ErrManagerNotReady
	}
	if m.config.Session.Secret == "" {
		return nil, nil
	}

	token, ok := cookieValue(r, m.config.Session.CookieName)
	if !ok {
		return nil, nil
	}

	now := m.now()
	payload, err := unsealPayload(m.config.Session.Secret, token, m.config.Session.TTL, now)
	if err != nil {
		// An unsealable cookie never reaches the store.
		m.metrics.Inc(MetricResolveMiss)
		return nil, nil
	}

	record, err := m.store.Get(r.Context(), payload.SessionID)
	if err != nil || record == nil {
		m.metrics.Inc(MetricResolveMiss)
		return nil, nil
	}

	// Rotate: write the successor first, then retire the old id. A crash
	// between the two leaves a dangling record that expires on its own.
	newID := uuid.NewString()
	newRecord := &store.Record{
		SessionID:  newID,
		CustomerID: record.CustomerID,
		UserAgent:  requestUserAgent(r),
		CreatedAt:  now,
	}
	if err := m.store.Set(r.Context(), newRecord); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionCreationFailed, err)
	}
	if err := m.store.Delete(r.Context(), payload.SessionID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionInvalidationFailed, err)
	}

	newToken, err := sealPayload(m.config.Session.Secret, sealedPayload{
		CustomerID: payload.CustomerID,
		Role:       payload.Role,
		SessionID:  newID,
		IssuedAt:   now.Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionCreationFailed, err)
	}
	m.setSessionCookie(w, newToken, m.config.Session.TTL)

	// Reissue the CSRF token only when the client lost it; an unchanged
	// token keeps in-flight forms valid.
	if _, ok := cookieValue(r, m.config.Session.CSRFCookieName); !ok {
		if _, err := m.IssueCSRFToken(w); err != nil {
			return nil, err
		}
	}

	m.metrics.Inc(MetricSessionRotated)
	m.emitAudit(r.Context(), AuditEvent{
		Timestamp:  now.UTC(),
		EventType:  "session.rotated",
		CustomerID: payload.CustomerID,
		Role:       payload.Role,
		UserAgent:  newRecord.UserAgent,
		Success:    true,
	})

	return &Claims{CustomerID: payload.CustomerID, Role: payload.Role}, nil
}

// DestroySession logs the customer out. Both cookies are cleared
// unconditionally and first; the server-side record is then removed on a
// best-effort basis. A cookie that cannot be unsealed is simply discarded
// without touching the store.
func (m *Manager) DestroySession(w http.ResponseWriter, r *http.Request) error {
	if m == nil {
		return ErrManagerNotReady
	}

	m.clearCookie(w, m.config.Session.CookieName, true)
	m.clearCookie(w, m.config.Session.CSRFCookieName, false)

	if m.config.Session.Secret == "" {
		return nil
	}
	token, ok := cookieValue(r, m.config.Session.CookieName)
	if !ok {
		return nil
	}

	now := m.now()
	payload, err := unsealPayload(m.config.Session.Secret, token, m.config.Session.TTL, now)
	if err != nil {
		return nil
	}

	if err := m.store.Delete(r.Context(), payload.SessionID); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionInvalidationFailed, err)
	}

	m.metrics.Inc(MetricSessionDestroyed)
	m.emitAudit(r.Context(), AuditEvent{
		Timestamp:  now.UTC(),
		EventType:  "session.destroyed",
		CustomerID: payload.CustomerID,
		Role:       payload.Role,
		Success:    true,
	})

	return nil
}

// ListSessionsFor enumerates the customer's live sessions.
func (m *Manager) ListSessionsFor(ctx context.Context, customerID string) ([]*store.Record, error) {
	if m == nil {
		return nil, ErrManagerNotReady
	}
	return m.store.List(ctx, customerID)
}

// Revoke removes a session server-side by id. The victim's cookie keeps
// unsealing until it expires, but resolution fails closed at the store
// lookup, so revocation takes effect on the victim's next request.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if m == nil {
		return ErrManagerNotReady
	}

	if err := m.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionInvalidationFailed, err)
	}

	m.metrics.Inc(MetricSessionRevoked)
	m.emitAudit(ctx, AuditEvent{
		Timestamp: m.now().UTC(),
		EventType: "session.revoked",
		Success:   true,
		Metadata:  map[string]string{"session_id": sessionID},
	})

	return nil
}
