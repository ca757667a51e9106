package custsession

import (
	"context"
	"encoding/base32"
	"fmt"
	"time"
)

// MFAStore persists per-customer multi-factor enrollment state.
//
// Get returns (nil, nil) when the customer has no record. Set overwrites
// any prior record.
type MFAStore interface {
	Get(ctx context.Context, customerID string) (*MFARecord, error)
	Set(ctx context.Context, customerID string, record *MFARecord) error
}

// EnrollMFA generates a fresh TOTP secret for the customer and stores it in
// a disabled state. The customer proves possession by verifying a code,
// which flips the record to enabled. Re-enrolling replaces any existing
// secret and resets the enabled flag.
func (m *Manager) EnrollMFA(ctx context.Context, customerID string) (*TOTPProvision, error) {
	if m == nil || m.mfaStore == nil {
		return nil, ErrManagerNotReady
	}
	if customerID == "" {
		return nil, fmt.Errorf("customer id is required")
	}

	_, encoded, err := m.totp.GenerateSecret()
	if err != nil {
		return nil, err
	}

	record := &MFARecord{Secret: encoded, Enabled: false}
	if err := m.mfaStore.Set(ctx, customerID, record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMFAUnavailable, err)
	}

	m.metrics.Inc(MetricMFAEnrolled)
	m.emitAudit(ctx, AuditEvent{
		Timestamp:  time.Now().UTC(),
		EventType:  "mfa.enrolled",
		CustomerID: customerID,
		Success:    true,
	})

	return &TOTPProvision{
		Secret: encoded,
		URI:    m.totp.ProvisionURI(encoded, customerID),
	}, nil
}

// VerifyMFA checks a TOTP code for the customer. A customer without a
// record simply fails verification. The first successful verification of a
// disabled record enables it; the enabled flag never clears afterward.
func (m *Manager) VerifyMFA(ctx context.Context, customerID, code string) (bool, error) {
	if m == nil || m.mfaStore == nil {
		return false, ErrManagerNotReady
	}

	record, err := m.mfaStore.Get(ctx, customerID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMFAUnavailable, err)
	}
	if record == nil {
		m.metrics.Inc(MetricTOTPFailure)
		return false, nil
	}

	secret, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(record.Secret)
	if err != nil {
		return false, fmt.Errorf("corrupt mfa secret: %w", err)
	}

	ok, err := m.totp.VerifyCode(secret, code, time.Now())
	if err != nil {
		return false, err
	}
	if !ok {
		m.metrics.Inc(MetricTOTPFailure)
		m.emitAudit(ctx, AuditEvent{
			Timestamp:  time.Now().UTC(),
			EventType:  "mfa.verify",
			CustomerID: customerID,
			Success:    false,
		})
		return false, nil
	}

	if !record.Enabled {
		record.Enabled = true
		if err := m.mfaStore.Set(ctx, customerID, record); err != nil {
			return false, fmt.Errorf("%w: %v", ErrMFAUnavailable, err)
		}
	}

	m.metrics.Inc(MetricTOTPSuccess)
	m.emitAudit(ctx, AuditEvent{
		Timestamp:  time.Now().UTC(),
		EventType:  "mfa.verify",
		CustomerID: customerID,
		Success:    true,
	})

	return true, nil
}

// MFAEnabled reports whether the customer has completed MFA enrollment.
func (m *Manager) MFAEnabled(ctx context.Context, customerID string) (bool, error) {
	if m == nil || m.mfaStore == nil {
		return false, ErrManagerNotReady
	}

	record, err := m.mfaStore.Get(ctx, customerID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMFAUnavailable, err)
	}
	if record == nil {
		return false, ErrMFANotEnrolled
	}

	return record.Enabled, nil
}
