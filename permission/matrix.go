package permission

import (
	"errors"
	"fmt"
	"sync"
)

// Config is the static role/permission table loaded at boot.
type Config struct {
	// Permissions enumerates every known permission name.
	Permissions []string

	// Roles maps a role name to the permissions it is granted. Every
	// referenced permission must appear in Permissions.
	Roles map[string][]string

	// ReadRoles and WriteRoles list the roles eligible for read and
	// write access. Write roles are always also read-eligible.
	ReadRoles  []string
	WriteRoles []string
}

// Extension appends role names to the read- and write-eligible sets.
type Extension struct {
	Read  []string
	Write []string
}

// Matrix answers permission checks by pure set membership. All lookups are
// total: unknown roles and unknown permissions evaluate to false.
type Matrix struct {
	mu          sync.RWMutex
	permissions map[string]struct{}
	roles       map[string]map[string]struct{}
	readRoles   map[string]struct{}
	writeRoles  map[string]struct{}
}

// NewMatrix validates cfg and builds the matrix. A role referencing a
// permission missing from cfg.Permissions is rejected.
func NewMatrix(cfg Config) (*Matrix, error) {
	if len(cfg.Permissions) == 0 {
		return nil, errors.New("permissions must be provided")
	}

	m := &Matrix{
		permissions: make(map[string]struct{}, len(cfg.Permissions)),
		roles:       make(map[string]map[string]struct{}, len(cfg.Roles)),
		readRoles:   make(map[string]struct{}, len(cfg.ReadRoles)),
		writeRoles:  make(map[string]struct{}, len(cfg.WriteRoles)),
	}

	for _, name := range cfg.Permissions {
		if name == "" {
			return nil, errors.New("permission name cannot be empty")
		}
		m.permissions[name] = struct{}{}
	}

	for roleName, grants := range cfg.Roles {
		if roleName == "" {
			return nil, errors.New("role name cannot be empty")
		}
		set := make(map[string]struct{}, len(grants))
		for _, perm := range grants {
			if _, known := m.permissions[perm]; !known {
				return nil, fmt.Errorf("role %q references unregistered permission %q", roleName, perm)
			}
			set[perm] = struct{}{}
		}
		m.roles[roleName] = set
	}

	for _, role := range cfg.ReadRoles {
		m.readRoles[role] = struct{}{}
	}
	for _, role := range cfg.WriteRoles {
		m.writeRoles[role] = struct{}{}
		m.readRoles[role] = struct{}{}
	}

	return m, nil
}

// HasPermission reports whether role is granted perm. Unknown roles and
// unknown permissions return false.
func (m *Matrix) HasPermission(role, perm string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	grants, ok := m.roles[role]
	if !ok {
		return false
	}
	_, granted := grants[perm]
	return granted
}

// CanRead reports whether role is read-eligible.
func (m *Matrix) CanRead(role string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.readRoles[role]
	return ok
}

// CanWrite reports whether role is write-eligible.
func (m *Matrix) CanWrite(role string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.writeRoles[role]
	return ok
}

// Extend appends the extension's role names to the eligibility sets. Write
// roles become read-eligible as well. Re-extending with already-known roles
// changes nothing.
func (m *Matrix) Extend(ext Extension) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, role := range ext.Read {
		if role == "" {
			continue
		}
		m.readRoles[role] = struct{}{}
	}
	for _, role := range ext.Write {
		if role == "" {
			continue
		}
		m.writeRoles[role] = struct{}{}
		m.readRoles[role] = struct{}{}
	}
}

// AddRole appends a role with the given permission grants. Adding an
// existing role merges the grant sets; unknown permissions are rejected.
func (m *Matrix) AddRole(role string, grants []string) error {
	if role == "" {
		return errors.New("role name cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, perm := range grants {
		if _, known := m.permissions[perm]; !known {
			return fmt.Errorf("role %q references unregistered permission %q", role, perm)
		}
	}

	set, ok := m.roles[role]
	if !ok {
		set = make(map[string]struct{}, len(grants))
		m.roles[role] = set
	}
	for _, perm := range grants {
		set[perm] = struct{}{}
	}

	return nil
}

// Roles returns the number of roles carrying permission grants.
func (m *Matrix) Roles() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.roles)
}
