package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/spec-kit/department-app/internal/domain"
)

// EmployeeFilter narrows an employee listing. Nil fields are not applied;
// date bounds are inclusive.
type EmployeeFilter struct {
	DepartmentID *uuid.UUID
	StartDate    *time.Time
	EndDate      *time.Time
}

// EmployeeRepository manages employee persistence.
type EmployeeRepository interface {
	List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error)
	Create(ctx context.Context, emp *domain.Employee) error
	Update(ctx context.Context, emp *domain.Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByDepartment(ctx context.Context, departmentID uuid.UUID) (int64, error)
}

type employeeRepository struct {
	q Querier
}

const selectEmployees = `
        SELECT e.id, e.name, e.position, e.salary, e.birthdate, e.department_id,
            d.name AS department_name, d.phone_number AS department_phone_number
        FROM employees e
        JOIN departments d ON d.id = e.department_id`

const orderEmployees = ` ORDER BY e.name, e.id`

type employeeRow struct {
	ID                    uuid.UUID `db:"id"`
	Name                  string    `db:"name"`
	Position              string    `db:"position"`
	Salary                float64   `db:"salary"`
	Birthdate             sqlDate   `db:"birthdate"`
	DepartmentID          uuid.UUID `db:"department_id"`
	DepartmentName        string    `db:"department_name"`
	DepartmentPhoneNumber string    `db:"department_phone_number"`
}

func (r employeeRow) toDomain() domain.Employee {
	return domain.Employee{
		ID:           r.ID,
		Name:         r.Name,
		Position:     r.Position,
		Salary:       r.Salary,
		Birthdate:    r.Birthdate.Time,
		DepartmentID: r.DepartmentID,
		Department: domain.DepartmentSummary{
			ID:          r.DepartmentID,
			Name:        r.DepartmentName,
			PhoneNumber: r.DepartmentPhoneNumber,
		},
	}
}

func (r *employeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.DepartmentID != nil {
		clauses = append(clauses, "e.department_id = ?")
		args = append(args, *filter.DepartmentID)
	}
	if filter.StartDate != nil {
		clauses = append(clauses, "e.birthdate >= ?")
		args = append(args, formatDate(*filter.StartDate))
	}
	if filter.EndDate != nil {
		clauses = append(clauses, "e.birthdate <= ?")
		args = append(args, formatDate(*filter.EndDate))
	}

	query := selectEmployees
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += orderEmployees

	return r.selectEmployees(ctx, query, args...)
}

func (r *employeeRepository) listByDepartment(ctx context.Context, departmentID uuid.UUID) ([]domain.Employee, error) {
	return r.selectEmployees(ctx, selectEmployees+" WHERE e.department_id = ?"+orderEmployees, departmentID)
}

func (r *employeeRepository) selectEmployees(ctx context.Context, query string, args ...any) ([]domain.Employee, error) {
	var rows []employeeRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, r.q.Rebind(query), args...); err != nil {
		return nil, err
	}
	result := make([]domain.Employee, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	var row employeeRow
	err := sqlx.GetContext(ctx, r.q, &row, r.q.Rebind(selectEmployees+" WHERE e.id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	emp := row.toDomain()
	return &emp, nil
}

func (r *employeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	const query = `
        INSERT INTO employees (id, name, position, salary, birthdate, department_id)
        VALUES (?, ?, ?, ?, ?, ?)`
	if emp.ID == uuid.Nil {
		emp.ID = uuid.New()
	}
	_, err := r.q.ExecContext(ctx, r.q.Rebind(query),
		emp.ID,
		emp.Name,
		emp.Position,
		emp.Salary,
		formatDate(emp.Birthdate),
		emp.DepartmentID,
	)
	return mapWriteError(err)
}

func (r *employeeRepository) Update(ctx context.Context, emp *domain.Employee) error {
	const query = `
        UPDATE employees SET name = ?, position = ?, salary = ?, birthdate = ?, department_id = ?
        WHERE id = ?`
	result, err := r.q.ExecContext(ctx, r.q.Rebind(query),
		emp.Name,
		emp.Position,
		emp.Salary,
		formatDate(emp.Birthdate),
		emp.DepartmentID,
		emp.ID,
	)
	if err != nil {
		return mapWriteError(err)
	}
	return expectAffected(result)
}

func (r *employeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM employees WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func (r *employeeRepository) DeleteByDepartment(ctx context.Context, departmentID uuid.UUID) (int64, error) {
	result, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM employees WHERE department_id = ?`), departmentID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
