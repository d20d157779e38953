package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peopledesk/internal/domain/auth"
)

type fakeRow struct {
	vals []any
}

func (r fakeRow) Scan(dest ...any) error {
	for i := range dest {
		switch d := dest[i].(type) {
		case *string:
			*d = r.vals[i].(string)
		case *int64:
			*d = r.vals[i].(int64)
		case *bool:
			*d = r.vals[i].(bool)
		case *time.Time:
			*d = r.vals[i].(time.Time)
		}
	}
	return nil
}

type queryRecorder struct {
	lastSQL string
	row     fakeRow
}

func (q *queryRecorder) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected Query")
}

func (q *queryRecorder) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.lastSQL = sql
	return q.row
}

func (q *queryRecorder) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("unexpected Exec")
}

func (q *queryRecorder) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("unexpected Begin")
}

// A document linked only through an employee must surface that
// employee's department, so department-level access can match it.
func TestGetResolvesDepartmentThroughEmployee(t *testing.T) {
	created := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)
	db := &queryRecorder{row: fakeRow{vals: []any{
		"doc-1", "emp-42", "dep-7", "Safety training record",
		"training.pdf", "application/pdf", int64(2048), AccessDepartment,
		"", false, "user-1", created,
	}}}

	doc, err := NewStore(db).Get(context.Background(), "doc-1")
	require.NoError(t, err)

	assert.Equal(t, "dep-7", doc.DepartmentID)
	assert.Contains(t, db.lastSQL, "LEFT JOIN employees e ON e.id = d.employee_id")
	assert.Contains(t, db.lastSQL, "COALESCE(d.department_id::text, e.department_id::text, '')")

	assert.True(t, CanAccess(doc, Requester{RoleName: auth.RoleEmployee, DepartmentID: "dep-7"}),
		"colleague in the resolved department reads the document")
}
