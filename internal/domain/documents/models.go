package documents

import (
	"errors"
	"time"
)

const (
	AccessPublic     = "public"
	AccessDepartment = "department"
	AccessManager    = "manager"
	AccessHR         = "hr"
	AccessAdmin      = "admin"
	AccessIndividual = "individual"
)

var ErrAccessDenied = errors.New("access denied")

type Document struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employeeId,omitempty"`
	DepartmentID string    `json:"departmentId,omitempty"`
	Title        string    `json:"title"`
	FileName     string    `json:"fileName"`
	ContentType  string    `json:"contentType"`
	SizeBytes    int64     `json:"sizeBytes"`
	AccessLevel  string    `json:"accessLevel"`
	StorageKey   string    `json:"-"`
	Encrypted    bool      `json:"encrypted"`
	UploadedBy   string    `json:"uploadedBy"`
	CreatedAt    time.Time `json:"createdAt"`
}

type AccessLogEntry struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	UserID     string    `json:"userId"`
	Action     string    `json:"action"`
	CreatedAt  time.Time `json:"createdAt"`
}
