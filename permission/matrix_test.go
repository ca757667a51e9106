package permission

import "testing"

func testConfig() Config {
	return Config{
		Permissions: []string{"profile:read", "orders:read", "orders:write"},
		Roles: map[string][]string{
			"customer": {"profile:read", "orders:read", "orders:write"},
			"support":  {"profile:read", "orders:read"},
		},
		ReadRoles:  []string{"support"},
		WriteRoles: []string{"customer"},
	}
}

func TestNewMatrixValidation(t *testing.T) {
	if _, err := NewMatrix(Config{}); err == nil {
		t.Fatal("empty permission set must be rejected")
	}

	cfg := testConfig()
	cfg.Roles["broken"] = []string{"not:registered"}
	if _, err := NewMatrix(cfg); err == nil {
		t.Fatal("role referencing an unregistered permission must be rejected")
	}
}

func TestHasPermissionIsTotal(t *testing.T) {
	m, err := NewMatrix(testConfig())
	if err != nil {
		t.Fatalf("building matrix: %v", err)
	}

	if !m.HasPermission("customer", "orders:write") {
		t.Fatal("granted permission must pass")
	}
	if m.HasPermission("support", "orders:write") {
		t.Fatal("ungranted permission must fail")
	}
	if m.HasPermission("ghost", "orders:write") {
		t.Fatal("unknown role must fail, not panic")
	}
	if m.HasPermission("customer", "never:registered") {
		t.Fatal("unknown permission must fail, not panic")
	}
}

func TestReadWriteEligibility(t *testing.T) {
	m, err := NewMatrix(testConfig())
	if err != nil {
		t.Fatalf("building matrix: %v", err)
	}

	if !m.CanRead("support") || m.CanWrite("support") {
		t.Fatal("support must be read-only")
	}
	// Write eligibility implies read eligibility.
	if !m.CanRead("customer") || !m.CanWrite("customer") {
		t.Fatal("customer must be read- and write-eligible")
	}
	if m.CanRead("ghost") || m.CanWrite("ghost") {
		t.Fatal("unknown role must have no eligibility")
	}
}

func TestExtendIsAdditiveAndIdempotent(t *testing.T) {
	m, err := NewMatrix(testConfig())
	if err != nil {
		t.Fatalf("building matrix: %v", err)
	}

	ext := Extension{Read: []string{"auditor"}, Write: []string{"admin"}}
	m.Extend(ext)
	m.Extend(ext)

	if !m.CanRead("auditor") || m.CanWrite("auditor") {
		t.Fatal("auditor must be read-only after extension")
	}
	if !m.CanRead("admin") || !m.CanWrite("admin") {
		t.Fatal("admin must gain read with write")
	}
	if !m.CanRead("support") || !m.CanWrite("customer") {
		t.Fatal("extension must not disturb existing eligibility")
	}
}

func TestAddRole(t *testing.T) {
	m, err := NewMatrix(testConfig())
	if err != nil {
		t.Fatalf("building matrix: %v", err)
	}

	if err := m.AddRole("auditor", []string{"orders:read"}); err != nil {
		t.Fatalf("adding role: %v", err)
	}
	if !m.HasPermission("auditor", "orders:read") {
		t.Fatal("added role must carry its grants")
	}

	if err := m.AddRole("auditor", []string{"profile:read"}); err != nil {
		t.Fatalf("merging role: %v", err)
	}
	if !m.HasPermission("auditor", "orders:read") || !m.HasPermission("auditor", "profile:read") {
		t.Fatal("re-adding a role must merge grants")
	}

	if err := m.AddRole("bad", []string{"not:registered"}); err == nil {
		t.Fatal("unknown permission must be rejected")
	}
	if got := m.Roles(); got != 3 {
		t.Fatalf("role count = %d, want 3", got)
	}
}
