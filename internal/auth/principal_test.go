package auth

import (
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/glzzd/orion/internal/rbac"
)

func assignment(roleID string) rbac.RoleAssignment {
	return rbac.RoleAssignment{RoleID: roleID, AssignedAt: time.Now(), AssignedBy: "admin-1"}
}

func TestResolvePrincipalUnionsPermissions(t *testing.T) {
	user := &User{ID: "u1", TenantID: "t1"}
	roles := map[string]rbac.Role{
		"r1": {ID: "r1", Name: "HR_VIEWER", Permissions: []string{"hr:read", "dashboard:read"}},
		"r2": {ID: "r2", Name: "ADMIN", Permissions: []string{"admin:users", "dashboard:read"}},
	}
	p := ResolvePrincipal(user, []rbac.RoleAssignment{assignment("r1"), assignment("r2")}, roles, zap.NewNop())

	if p.UserID != "u1" || p.TenantID != "t1" {
		t.Fatalf("identity not carried: %+v", p)
	}
	want := []string{"admin:users", "dashboard:read", "hr:read"}
	if got := p.PermissionList(); !reflect.DeepEqual(got, want) {
		t.Fatalf("permissions = %v, want %v", got, want)
	}
	if !p.HasPermission("hr:read") || p.HasPermission("admin:roles") {
		t.Fatal("HasPermission gave wrong answer")
	}
	if !p.HasRole("ADMIN") || p.HasRole("SUPER_ADMIN") {
		t.Fatal("HasRole gave wrong answer")
	}
	if p.IsSuperAdmin {
		t.Fatal("regular roles must not grant super admin")
	}
}

func TestResolvePrincipalSkipsDanglingAssignments(t *testing.T) {
	user := &User{ID: "u1"}
	roles := map[string]rbac.Role{
		"r1": {ID: "r1", Name: "VIEWER", Permissions: []string{"dashboard:read"}},
	}
	p := ResolvePrincipal(user, []rbac.RoleAssignment{assignment("r1"), assignment("gone")}, roles, zap.NewNop())

	if len(p.RoleNames) != 1 || p.RoleNames[0] != "VIEWER" {
		t.Fatalf("roles = %v", p.RoleNames)
	}
	if len(p.Permissions) != 1 {
		t.Fatalf("permissions = %v", p.PermissionList())
	}
}

func TestResolvePrincipalSuperAdminExactMatch(t *testing.T) {
	user := &User{ID: "u1"}
	cases := []struct {
		roleName string
		want     bool
	}{
		{"SUPER_ADMIN", true},
		{"super_admin", false},
		{"Super_Admin", false},
		{"SUPER_ADMINX", false},
	}
	for _, tc := range cases {
		roles := map[string]rbac.Role{"r1": {ID: "r1", Name: tc.roleName}}
		p := ResolvePrincipal(user, []rbac.RoleAssignment{assignment("r1")}, roles, zap.NewNop())
		if p.IsSuperAdmin != tc.want {
			t.Errorf("role %q: IsSuperAdmin = %v, want %v", tc.roleName, p.IsSuperAdmin, tc.want)
		}
	}
}

func TestResolvePrincipalDedupesRoleNames(t *testing.T) {
	user := &User{ID: "u1"}
	roles := map[string]rbac.Role{
		"r1": {ID: "r1", Name: "VIEWER"},
		"r2": {ID: "r2", Name: "VIEWER"},
	}
	p := ResolvePrincipal(user, []rbac.RoleAssignment{assignment("r1"), assignment("r2")}, roles, zap.NewNop())
	if len(p.RoleNames) != 1 {
		t.Fatalf("roles = %v", p.RoleNames)
	}
}
