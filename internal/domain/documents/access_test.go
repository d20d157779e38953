package documents

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"peopledesk/internal/domain/auth"
)

func TestCanAccessIndividualDocument(t *testing.T) {
	doc := Document{ID: "d1", EmployeeID: "emp-42", AccessLevel: AccessIndividual}

	assert.True(t, CanAccess(doc, Requester{RoleName: auth.RoleEmployee, EmployeeID: "emp-42"}),
		"subject of the document must read it")
	assert.False(t, CanAccess(doc, Requester{RoleName: auth.RoleEmployee, EmployeeID: "emp-43"}),
		"another employee must not read it")
	assert.True(t, CanAccess(doc, Requester{RoleName: auth.RoleAdmin}),
		"admin reads everything")
	assert.True(t, CanAccess(doc, Requester{RoleName: auth.RoleHR}),
		"hr reads everything")
}

func TestCanAccessDepartmentDocument(t *testing.T) {
	doc := Document{ID: "d2", DepartmentID: "dep-1", AccessLevel: AccessDepartment}

	assert.True(t, CanAccess(doc, Requester{RoleName: auth.RoleEmployee, DepartmentID: "dep-1"}))
	assert.False(t, CanAccess(doc, Requester{RoleName: auth.RoleEmployee, DepartmentID: "dep-2"}))
	assert.False(t, CanAccess(doc, Requester{RoleName: auth.RoleEmployee}),
		"requester without a department gets nothing")

	linked := Document{ID: "d2", EmployeeID: "emp-42", DepartmentID: "dep-1", AccessLevel: AccessDepartment}
	assert.False(t, CanAccess(linked, Requester{RoleName: auth.RoleEmployee, EmployeeID: "emp-42", DepartmentID: "dep-2"}),
		"being the document's subject does not bypass the department match")
}

func TestCanAccessManagerDocument(t *testing.T) {
	doc := Document{ID: "d3", DepartmentID: "dep-1", AccessLevel: AccessManager}

	assert.True(t, CanAccess(doc, Requester{RoleName: auth.RoleManager, DepartmentID: "dep-1"}))
	assert.False(t, CanAccess(doc, Requester{RoleName: auth.RoleManager, DepartmentID: "dep-2"}),
		"manager of another department is denied")
	assert.False(t, CanAccess(doc, Requester{RoleName: auth.RoleEmployee, DepartmentID: "dep-1"}),
		"non-manager in the department is denied")
}

func TestCanAccessPublicAndRestricted(t *testing.T) {
	anyone := Requester{RoleName: auth.RoleEmployee, EmployeeID: "emp-9"}

	assert.True(t, CanAccess(Document{AccessLevel: AccessPublic}, anyone))
	assert.False(t, CanAccess(Document{AccessLevel: AccessHR}, anyone))
	assert.False(t, CanAccess(Document{AccessLevel: AccessAdmin}, anyone))
	assert.False(t, CanAccess(Document{AccessLevel: "bogus"}, anyone),
		"unknown levels deny by default")
}

func TestCanAccessRestrictedLevelsDenySubject(t *testing.T) {
	subject := Requester{RoleName: auth.RoleEmployee, EmployeeID: "emp-42"}

	for _, level := range []string{AccessHR, AccessAdmin} {
		doc := Document{ID: "d4", EmployeeID: "emp-42", AccessLevel: level}
		assert.False(t, CanAccess(doc, subject),
			"%s documents stay hidden from the employee they concern", level)
		assert.True(t, CanAccess(doc, Requester{RoleName: auth.RoleHR}))
	}
}
