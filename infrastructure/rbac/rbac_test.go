package rbac

import (
	"testing"

	"crewboard/infrastructure/cache"
)

func TestMatchPathWildcardSegments(t *testing.T) {
	cases := []struct {
		pattern string
		path    string
		ok      bool
	}{
		{pattern: "/app/tasks/*/status", path: "/app/tasks/7/status", ok: true},
		{pattern: "/app/projects/*/delete", path: "/app/projects/3/delete", ok: true},
		{pattern: "/app/finance/*", path: "/app/finance/revenues", ok: true},
		{pattern: "/app/finance/*", path: "/app/finance/reports/trend", ok: true},
		{pattern: "/app/admin/users", path: "/app/admin/users", ok: true},
		{pattern: "/app/admin/users", path: "/app/admin/users/1", ok: false},
		{pattern: "/app/tasks/*/status", path: "/app/tasks/7/comments", ok: false},
	}

	for _, tc := range cases {
		if got := matchPath(tc.pattern, tc.path); got != tc.ok {
			t.Fatalf("pattern=%s path=%s expected=%v got=%v", tc.pattern, tc.path, tc.ok, got)
		}
	}
}

func TestValidateResourceAccessFiltersByMethod(t *testing.T) {
	resources := []cache.Resource{
		{Role: RoleMember, UserResourceCode: "TASKS_STATUS", Method: "POST", Path: "/app/tasks/*/status"},
	}

	if !ValidateResourceAccess(resources, "/app/tasks/5/status", "post") {
		t.Fatalf("expected method match to be case-insensitive")
	}
	if ValidateResourceAccess(resources, "/app/tasks/5/status", "GET") {
		t.Fatalf("expected GET to be rejected")
	}
}

func TestValidRole(t *testing.T) {
	if !ValidRole(RoleAdmin) || !ValidRole(RoleMember) {
		t.Fatalf("expected admin and member to be valid roles")
	}
	if ValidRole("owner") {
		t.Fatalf("expected unknown role to be invalid")
	}
}
