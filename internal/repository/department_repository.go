package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/spec-kit/department-app/internal/domain"
)

// DepartmentRepository manages department persistence. Reads return the
// department together with its employees.
type DepartmentRepository interface {
	List(ctx context.Context) ([]domain.Department, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Department, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, dept *domain.Department) error
	Update(ctx context.Context, dept *domain.Department) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type departmentRepository struct {
	q Querier
}

type departmentRow struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	PhoneNumber string    `db:"phone_number"`
}

func (r departmentRow) toDomain() domain.Department {
	return domain.Department{
		ID:          r.ID,
		Name:        r.Name,
		PhoneNumber: r.PhoneNumber,
		Employees:   []domain.Employee{},
	}
}

func (r *departmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	const query = `
        SELECT id, name, phone_number
        FROM departments ORDER BY name, id`
	var rows []departmentRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query); err != nil {
		return nil, err
	}

	employees, err := (&employeeRepository{q: r.q}).List(ctx, EmployeeFilter{})
	if err != nil {
		return nil, err
	}
	byDepartment := make(map[uuid.UUID][]domain.Employee, len(rows))
	for _, emp := range employees {
		byDepartment[emp.DepartmentID] = append(byDepartment[emp.DepartmentID], emp)
	}

	result := make([]domain.Department, 0, len(rows))
	for _, row := range rows {
		dept := row.toDomain()
		if emps, ok := byDepartment[dept.ID]; ok {
			dept.Employees = emps
		}
		result = append(result, dept)
	}
	return result, nil
}

func (r *departmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Department, error) {
	const query = `
        SELECT id, name, phone_number
        FROM departments WHERE id = ?`
	var row departmentRow
	err := sqlx.GetContext(ctx, r.q, &row, r.q.Rebind(query), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	employees, err := (&employeeRepository{q: r.q}).listByDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	dept := row.toDomain()
	dept.Employees = employees
	return &dept, nil
}

func (r *departmentRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int
	if err := sqlx.GetContext(ctx, r.q, &count, r.q.Rebind(`SELECT COUNT(1) FROM departments WHERE id = ?`), id); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	const query = `
        INSERT INTO departments (id, name, phone_number)
        VALUES (?, ?, ?)`
	if dept.ID == uuid.Nil {
		dept.ID = uuid.New()
	}
	_, err := r.q.ExecContext(ctx, r.q.Rebind(query), dept.ID, dept.Name, dept.PhoneNumber)
	return mapWriteError(err)
}

func (r *departmentRepository) Update(ctx context.Context, dept *domain.Department) error {
	const query = `
        UPDATE departments SET name = ?, phone_number = ?
        WHERE id = ?`
	result, err := r.q.ExecContext(ctx, r.q.Rebind(query), dept.Name, dept.PhoneNumber, dept.ID)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func (r *departmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM departments WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}
