package documents

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"peopledesk/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

// The department falls back to the linked employee's department, so
// department-level access works for documents attached only to an
// employee.
const documentColumns = `
    d.id, COALESCE(d.employee_id::text,''),
    COALESCE(d.department_id::text, e.department_id::text, ''), d.title,
    d.file_name, d.content_type, d.size_bytes, d.access_level, COALESCE(d.storage_key,''),
    d.encrypted, COALESCE(d.uploaded_by::text,''), d.created_at`

const documentFrom = ` FROM documents d LEFT JOIN employees e ON e.id = d.employee_id`

func scanDocument(row pgx.Row) (Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.EmployeeID, &d.DepartmentID, &d.Title, &d.FileName,
		&d.ContentType, &d.SizeBytes, &d.AccessLevel, &d.StorageKey, &d.Encrypted,
		&d.UploadedBy, &d.CreatedAt)
	return d, err
}

type Filter struct {
	EmployeeID   string
	DepartmentID string
	AccessLevel  string
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Document, error) {
	query := "SELECT" + documentColumns + documentFrom + " WHERE 1=1"
	args := []any{}
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND d.employee_id = $%d", len(args))
	}
	if filter.DepartmentID != "" {
		args = append(args, filter.DepartmentID)
		query += fmt.Sprintf(" AND COALESCE(d.department_id, e.department_id) = $%d", len(args))
	}
	if filter.AccessLevel != "" {
		args = append(args, filter.AccessLevel)
		query += fmt.Sprintf(" AND d.access_level = $%d", len(args))
	}
	query += " ORDER BY d.created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, documentID string) (Document, error) {
	return scanDocument(s.DB.QueryRow(ctx,
		"SELECT"+documentColumns+documentFrom+" WHERE d.id = $1", documentID))
}

func (s *Store) Create(ctx context.Context, d Document, content []byte) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO documents (employee_id, department_id, title, file_name, content_type,
                           size_bytes, access_level, storage_key, encrypted, uploaded_by, content)
    VALUES (NULLIF($1,'')::uuid, NULLIF($2,'')::uuid, $3, $4, $5, $6, $7, NULLIF($8,''),
            $9, NULLIF($10,'')::uuid, $11)
    RETURNING id
  `, d.EmployeeID, d.DepartmentID, d.Title, d.FileName, d.ContentType,
		d.SizeBytes, d.AccessLevel, d.StorageKey, d.Encrypted, d.UploadedBy, content).Scan(&id)
	return id, err
}

func (s *Store) Content(ctx context.Context, documentID string) ([]byte, error) {
	var content []byte
	err := s.DB.QueryRow(ctx,
		"SELECT content FROM documents WHERE id = $1", documentID).Scan(&content)
	return content, err
}

func (s *Store) Delete(ctx context.Context, documentID string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM documents WHERE id = $1", documentID)
	return err
}

func (s *Store) LogAccess(ctx context.Context, documentID, userID, action string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO document_access_logs (document_id, user_id, action)
    VALUES ($1, $2, $3)
  `, documentID, userID, action)
	return err
}

func (s *Store) AccessLog(ctx context.Context, documentID string) ([]AccessLogEntry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, document_id, user_id, action, created_at
    FROM document_access_logs
    WHERE document_id = $1
    ORDER BY created_at DESC
  `, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AccessLogEntry
	for rows.Next() {
		var e AccessLogEntry
		if err := rows.Scan(&e.ID, &e.DocumentID, &e.UserID, &e.Action, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
