package core

import (
	"context"
	"fmt"

	"peopledesk/internal/domain/auth"
	"peopledesk/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

type EmployeeFilter struct {
	DepartmentID string
	Status       string
	Search       string
}

func (s *Store) ListEmployees(ctx context.Context, filter EmployeeFilter, limit, offset int) ([]Employee, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if filter.DepartmentID != "" {
		where += fmt.Sprintf(" AND department_id = $%d", len(args)+1)
		args = append(args, filter.DepartmentID)
	}
	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", len(args)+1, len(args)+1, len(args)+1)
		args = append(args, "%"+filter.Search+"%")
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
    SELECT id, COALESCE(user_id::text,''), employee_number, first_name, last_name, email,
           COALESCE(phone,''), COALESCE(position,''), COALESCE(department_id::text,''),
           COALESCE(manager_id::text,''), start_date, end_date, status, created_at, updated_at
    FROM employees` + where
	query += fmt.Sprintf(" ORDER BY last_name, first_name LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.UserID, &e.EmployeeNumber, &e.FirstName, &e.LastName, &e.Email,
			&e.Phone, &e.Position, &e.DepartmentID, &e.ManagerID, &e.StartDate, &e.EndDate,
			&e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, nil
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	var e Employee
	err := s.DB.QueryRow(ctx, `
    SELECT id, COALESCE(user_id::text,''), employee_number, first_name, last_name, email,
           COALESCE(phone,''), COALESCE(position,''), COALESCE(department_id::text,''),
           COALESCE(manager_id::text,''), start_date, end_date, status, created_at, updated_at
    FROM employees
    WHERE id = $1
  `, employeeID).Scan(&e.ID, &e.UserID, &e.EmployeeNumber, &e.FirstName, &e.LastName, &e.Email,
		&e.Phone, &e.Position, &e.DepartmentID, &e.ManagerID, &e.StartDate, &e.EndDate,
		&e.Status, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (s *Store) CreateEmployee(ctx context.Context, e Employee) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (user_id, employee_number, first_name, last_name, email, phone, position,
                           department_id, manager_id, start_date, status)
    VALUES (NULLIF($1,'')::uuid, $2, $3, $4, $5, $6, $7, NULLIF($8,'')::uuid, NULLIF($9,'')::uuid, $10, $11)
    RETURNING id
  `, e.UserID, e.EmployeeNumber, e.FirstName, e.LastName, e.Email, e.Phone, e.Position,
		e.DepartmentID, e.ManagerID, e.StartDate, EmployeeStatusActive).Scan(&id)
	return id, err
}

func (s *Store) UpdateEmployee(ctx context.Context, e Employee) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET first_name = $1, last_name = $2, email = $3, phone = $4, position = $5,
        department_id = NULLIF($6,'')::uuid, manager_id = NULLIF($7,'')::uuid,
        start_date = $8, status = $9, updated_at = now()
    WHERE id = $10
  `, e.FirstName, e.LastName, e.Email, e.Phone, e.Position, e.DepartmentID, e.ManagerID,
		e.StartDate, e.Status, e.ID)
	return err
}

func (s *Store) DeleteEmployee(ctx context.Context, employeeID string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", employeeID)
	return err
}

func (s *Store) EmployeeIDByUserID(ctx context.Context, userID string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, "SELECT id FROM employees WHERE user_id = $1", userID).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) DepartmentOfEmployee(ctx context.Context, employeeID string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, "SELECT COALESCE(department_id::text,'') FROM employees WHERE id = $1", employeeID).Scan(&id)
	return id, err
}

func (s *Store) IsManagerOf(ctx context.Context, managerEmployeeID, employeeID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM employees WHERE id = $1 AND manager_id = $2
  `, employeeID, managerEmployeeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) ManagerUserIDForEmployee(ctx context.Context, employeeID string) (string, error) {
	var userID string
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(m.user_id::text,'')
    FROM employees e
    JOIN employees m ON e.manager_id = m.id
    WHERE e.id = $1
  `, employeeID).Scan(&userID)
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, COALESCE(parent_id::text,''), COALESCE(manager_id::text,''), created_at
    FROM departments
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.ParentID, &d.ManagerID, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *Store) CreateDepartment(ctx context.Context, d Department) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO departments (name, parent_id, manager_id)
    VALUES ($1, NULLIF($2,'')::uuid, NULLIF($3,'')::uuid)
    RETURNING id
  `, d.Name, d.ParentID, d.ManagerID).Scan(&id)
	return id, err
}

func (s *Store) UpdateDepartment(ctx context.Context, d Department) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE departments
    SET name = $1, parent_id = NULLIF($2,'')::uuid, manager_id = NULLIF($3,'')::uuid
    WHERE id = $4
  `, d.Name, d.ParentID, d.ManagerID, d.ID)
	return err
}

func (s *Store) DeleteDepartment(ctx context.Context, departmentID string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM departments WHERE id = $1", departmentID)
	return err
}

func (s *Store) UserEmail(ctx context.Context, userID string) (string, error) {
	var email string
	err := s.DB.QueryRow(ctx, "SELECT email FROM users WHERE id = $1", userID).Scan(&email)
	return email, err
}

func (s *Store) HRUserIDs(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT u.id
    FROM users u
    JOIN roles r ON u.role_id = r.id
    WHERE r.name = $1 AND u.status = $2
  `, auth.RoleHR, auth.UserStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
