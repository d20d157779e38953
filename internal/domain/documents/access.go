package documents

import "peopledesk/internal/domain/auth"

// Requester is the resolved identity an access decision is made for.
// EmployeeID and DepartmentID are empty for accounts with no employee
// record.
type Requester struct {
	UserID       string
	RoleName     string
	EmployeeID   string
	DepartmentID string
}

// CanAccess decides whether the requester may read the document. Pure:
// all identity resolution happens before the call. HR and admin read
// everything; every other grant comes from the document's access level.
// Subject identity only counts for individual documents, so hr- and
// admin-restricted records stay hidden from the employee they concern.
func CanAccess(doc Document, req Requester) bool {
	if auth.PrivilegedRole(req.RoleName) {
		return true
	}
	switch doc.AccessLevel {
	case AccessPublic:
		return true
	case AccessDepartment:
		return doc.DepartmentID != "" && doc.DepartmentID == req.DepartmentID
	case AccessManager:
		return req.RoleName == auth.RoleManager &&
			doc.DepartmentID != "" && doc.DepartmentID == req.DepartmentID
	case AccessIndividual:
		return doc.EmployeeID != "" && doc.EmployeeID == req.EmployeeID
	default:
		return false
	}
}
