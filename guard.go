package custsession

import (
	"net/http"
	"time"
)

// RequirePermission resolves the current session and checks that its role
// carries perm. The returned error is always the generic ErrUnauthorized:
// callers and clients learn nothing about whether the session was absent,
// the role unknown, or the permission missing.
//
// Resolution rotates the session as usual, so a granted request still gets
// a fresh cookie.
func (m *Manager) RequirePermission(w http.ResponseWriter, r *http.Request, perm string) (*Claims, error) {
	if m == nil {
		return nil, ErrManagerNotReady
	}

	claims, err := m.ResolveCurrentSession(w, r)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if claims == nil {
		m.metrics.Inc(MetricPermissionDenied)
		return nil, ErrUnauthorized
	}

	if !m.matrix.HasPermission(claims.Role, perm) {
		m.metrics.Inc(MetricPermissionDenied)
		m.emitAudit(r.Context(), AuditEvent{
			Timestamp:  time.Now().UTC(),
			EventType:  "permission.denied",
			CustomerID: claims.CustomerID,
			Role:       claims.Role,
			Success:    false,
			Metadata:   map[string]string{"permission": perm},
		})
		return nil, ErrUnauthorized
	}

	return claims, nil
}
