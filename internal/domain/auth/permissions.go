package auth

const (
	RoleEmployee = "employee"
	RoleManager  = "department_manager"
	RoleHR       = "hr"
	RoleAdmin    = "admin"
)

const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

const (
	PermEmployeesRead    = "core.employees.read"
	PermEmployeesWrite   = "core.employees.write"
	PermOrgRead          = "core.org.read"
	PermOrgWrite         = "core.org.write"
	PermLeaveRead        = "leave.read"
	PermLeaveWrite       = "leave.write"
	PermLeaveApprove     = "leave.approve"
	PermAttendanceRead   = "attendance.read"
	PermAttendanceWrite  = "attendance.write"
	PermComplianceRead   = "compliance.read"
	PermComplianceWrite  = "compliance.write"
	PermComplianceSweep  = "compliance.sweep"
	PermDocumentsRead    = "documents.read"
	PermDocumentsWrite   = "documents.write"
	PermOffboardingRead  = "offboarding.read"
	PermOffboardingWrite = "offboarding.write"
	PermReportsRead      = "reports.read"
	PermAuditRead        = "audit.read"
	PermSystemAdmin      = "admin.system"
)

var DefaultPermissions = []string{
	PermEmployeesRead,
	PermEmployeesWrite,
	PermOrgRead,
	PermOrgWrite,
	PermLeaveRead,
	PermLeaveWrite,
	PermLeaveApprove,
	PermAttendanceRead,
	PermAttendanceWrite,
	PermComplianceRead,
	PermComplianceWrite,
	PermComplianceSweep,
	PermDocumentsRead,
	PermDocumentsWrite,
	PermOffboardingRead,
	PermOffboardingWrite,
	PermReportsRead,
	PermAuditRead,
	PermSystemAdmin,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermEmployeesRead,
		PermOrgRead,
		PermLeaveRead,
		PermLeaveWrite,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermComplianceRead,
		PermDocumentsRead,
		PermDocumentsWrite,
		PermReportsRead,
	},
	RoleManager: {
		PermEmployeesRead,
		PermOrgRead,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermComplianceRead,
		PermDocumentsRead,
		PermDocumentsWrite,
		PermReportsRead,
	},
	RoleHR: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermOrgRead,
		PermOrgWrite,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermComplianceRead,
		PermComplianceWrite,
		PermComplianceSweep,
		PermDocumentsRead,
		PermDocumentsWrite,
		PermOffboardingRead,
		PermOffboardingWrite,
		PermReportsRead,
		PermAuditRead,
	},
	RoleAdmin: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermOrgRead,
		PermOrgWrite,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermComplianceRead,
		PermComplianceWrite,
		PermComplianceSweep,
		PermDocumentsRead,
		PermDocumentsWrite,
		PermOffboardingRead,
		PermOffboardingWrite,
		PermReportsRead,
		PermAuditRead,
		PermSystemAdmin,
	},
}

// PrivilegedRole reports whether the role bypasses document access checks.
func PrivilegedRole(role string) bool {
	return role == RoleHR || role == RoleAdmin
}
