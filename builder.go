package custsession

import (
	"errors"
	"time"

	"github.com/commercekit/custsession/permission"
	"github.com/commercekit/custsession/store"
)

// Builder assembles a Manager step by step. All With* methods return the
// builder for chaining; validation happens once, in Build.
type Builder struct {
	config        Config
	store         store.Store
	mfaStore      MFAStore
	matrix        *permission.Matrix
	permissionCfg *permission.Config
	auditSink     AuditSink
	clock         func() time.Time
	err           error
}

// New starts a builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
		clock:  time.Now,
	}
}

// WithConfig replaces the entire configuration tree.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSecret sets the cookie sealing secret.
func (b *Builder) WithSecret(secret string) *Builder {
	b.config.Session.Secret = secret
	return b
}

// WithStore sets the session store backend.
func (b *Builder) WithStore(s store.Store) *Builder {
	b.store = s
	return b
}

// WithMFAStore sets the MFA enrollment store. Optional: a Manager without
// one rejects MFA operations with ErrManagerNotReady.
func (b *Builder) WithMFAStore(s MFAStore) *Builder {
	b.mfaStore = s
	return b
}

// WithMatrix installs a pre-built permission matrix.
func (b *Builder) WithMatrix(m *permission.Matrix) *Builder {
	b.matrix = m
	b.permissionCfg = nil
	return b
}

// WithPermissions declares the permission table inline; the matrix is built
// during Build. Mutually exclusive with WithMatrix (the later call wins).
func (b *Builder) WithPermissions(cfg permission.Config) *Builder {
	b.permissionCfg = &cfg
	b.matrix = nil
	return b
}

// WithAuditSink enables auditing into sink using the configured buffering.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = true
	return b
}

// WithClock overrides the time source. Intended for tests.
func (b *Builder) WithClock(clock func() time.Time) *Builder {
	if clock != nil {
		b.clock = clock
	}
	return b
}

// Build validates the configuration and wires the Manager. The first
// failure encountered is returned; a Manager is only ever returned fully
// initialized.
func (b *Builder) Build() (*Manager, error) {
	if b.err != nil {
		return nil, b.err
	}

	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	if b.store == nil {
		return nil, errors.New("a session store is required")
	}

	matrix := b.matrix
	if matrix == nil {
		if b.permissionCfg == nil {
			return nil, errors.New("a permission matrix is required")
		}
		built, err := permission.NewMatrix(*b.permissionCfg)
		if err != nil {
			return nil, err
		}
		matrix = built
	}

	m := &Manager{
		config:   b.config,
		store:    b.store,
		mfaStore: b.mfaStore,
		matrix:   matrix,
		totp:     newTOTPManager(b.config.TOTP),
		metrics:  NewMetrics(b.config.Metrics),
		audit:    newAuditDispatcher(b.config.Audit, b.auditSink),
		now:      b.clock,
	}

	return m, nil
}
