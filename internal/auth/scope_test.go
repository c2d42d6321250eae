package auth

import "testing"

func TestScopeTenant(t *testing.T) {
	cases := []struct {
		name      string
		principal Principal
		requested string
		want      string
	}{
		{"regular user pinned to own tenant", Principal{TenantID: "t1"}, "", "t1"},
		{"regular user cannot reach other tenant", Principal{TenantID: "t1"}, "t2", "t1"},
		{"regular user requesting own tenant", Principal{TenantID: "t1"}, "t1", "t1"},
		{"super admin gets requested tenant", Principal{TenantID: "t1", IsSuperAdmin: true}, "t2", "t2"},
		{"super admin empty request means all", Principal{TenantID: "t1", IsSuperAdmin: true}, "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ScopeTenant(tc.principal, tc.requested); got != tc.want {
				t.Fatalf("ScopeTenant = %q, want %q", got, tc.want)
			}
		})
	}
}
