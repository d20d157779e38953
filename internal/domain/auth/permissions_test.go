package auth

import "testing"

func TestRolePermissionsAreKnown(t *testing.T) {
	known := map[string]bool{}
	for _, perm := range DefaultPermissions {
		known[perm] = true
	}
	for role, perms := range RolePermissions {
		for _, perm := range perms {
			if !known[perm] {
				t.Fatalf("role %s references unknown permission %s", role, perm)
			}
		}
	}
}

func TestEmployeeCannotApproveLeave(t *testing.T) {
	for _, perm := range RolePermissions[RoleEmployee] {
		if perm == PermLeaveApprove {
			t.Fatal("employee role must not hold leave.approve")
		}
	}
}

func TestPrivilegedRole(t *testing.T) {
	if !PrivilegedRole(RoleHR) || !PrivilegedRole(RoleAdmin) {
		t.Fatal("hr and admin are privileged")
	}
	if PrivilegedRole(RoleManager) || PrivilegedRole(RoleEmployee) {
		t.Fatal("manager and employee are not privileged")
	}
}
