package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/department-app/internal/domain"
	"github.com/spec-kit/department-app/internal/events"
	"github.com/spec-kit/department-app/internal/repository"
	apperrors "github.com/spec-kit/department-app/pkg/util"
)

// EmployeeService coordinates employee workflows.
type EmployeeService struct {
	store      repository.Store
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewEmployeeService constructs the service.
func NewEmployeeService(store repository.Store, dispatcher events.Dispatcher, logger *zap.Logger) *EmployeeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{store: store, dispatcher: dispatcher, logger: logger}
}

// List returns employees matching filter. A department filter naming an
// unknown department is a reference error rather than an empty result.
func (s *EmployeeService) List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, error) {
	var result []domain.Employee
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if filter.DepartmentID != nil {
			if err := requireDepartment(ctx, tx, *filter.DepartmentID); err != nil {
				return err
			}
		}
		employees, err := tx.Employees().List(ctx, repository.EmployeeFilter{
			DepartmentID: filter.DepartmentID,
			StartDate:    filter.StartDate,
			EndDate:      filter.EndDate,
		})
		if err != nil {
			return fmt.Errorf("list employees: %w", err)
		}
		result = employees
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Get returns one employee with its department summary.
func (s *EmployeeService) Get(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	var result *domain.Employee
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		emp, err := tx.Employees().GetByID(ctx, id)
		if err != nil {
			return employeeLookupError(id, err)
		}
		result = emp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Create stores a new employee in an existing department.
func (s *EmployeeService) Create(ctx context.Context, input CreateEmployeeInput) (*domain.Employee, error) {
	emp := &domain.Employee{
		ID:           uuid.New(),
		Name:         input.Name,
		Position:     input.Position,
		Salary:       input.Salary,
		Birthdate:    domain.Date(input.Birthdate),
		DepartmentID: input.DepartmentID,
	}
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := requireDepartment(ctx, tx, input.DepartmentID); err != nil {
			return err
		}
		if err := tx.Employees().Create(ctx, emp); err != nil {
			return employeeWriteError(err)
		}
		created, err := tx.Employees().GetByID(ctx, emp.ID)
		if err != nil {
			return fmt.Errorf("reload employee: %w", err)
		}
		emp = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventEmployeeCreated,
		ResourceID: emp.ID.String(),
		Payload:    employeePayload(emp),
	})
	return emp, nil
}

// Update applies the non-nil fields of input to the employee. A new
// department reference is checked before the employee itself.
func (s *EmployeeService) Update(ctx context.Context, id uuid.UUID, input UpdateEmployeeInput) (*domain.Employee, error) {
	var result *domain.Employee
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if input.DepartmentID != nil {
			if err := requireDepartment(ctx, tx, *input.DepartmentID); err != nil {
				return err
			}
		}
		emp, err := tx.Employees().GetByID(ctx, id)
		if err != nil {
			return employeeLookupError(id, err)
		}
		if input.Name != nil {
			emp.Name = *input.Name
		}
		if input.Position != nil {
			emp.Position = *input.Position
		}
		if input.Salary != nil {
			emp.Salary = *input.Salary
		}
		if input.Birthdate != nil {
			emp.Birthdate = domain.Date(*input.Birthdate)
		}
		if input.DepartmentID != nil {
			emp.DepartmentID = *input.DepartmentID
		}
		if err := tx.Employees().Update(ctx, emp); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return employeeLookupError(id, err)
			}
			return employeeWriteError(err)
		}
		updated, err := tx.Employees().GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("reload employee: %w", err)
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventEmployeeUpdated,
		ResourceID: id.String(),
		Payload:    employeePayload(result),
	})
	return result, nil
}

// Delete removes the employee.
func (s *EmployeeService) Delete(ctx context.Context, id uuid.UUID) error {
	var departmentID uuid.UUID
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		emp, err := tx.Employees().GetByID(ctx, id)
		if err != nil {
			return employeeLookupError(id, err)
		}
		if err := tx.Employees().Delete(ctx, id); err != nil {
			return employeeLookupError(id, err)
		}
		departmentID = emp.DepartmentID
		return nil
	})
	if err != nil {
		return err
	}

	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventEmployeeDeleted,
		ResourceID: id.String(),
		Payload: events.EmployeeDeletedPayload{
			EmployeeID:   id.String(),
			DepartmentID: departmentID.String(),
		},
	})
	return nil
}

func requireDepartment(ctx context.Context, tx repository.Store, id uuid.UUID) error {
	exists, err := tx.Departments().Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check department: %w", err)
	}
	if !exists {
		return apperrors.NewReferenceNotFound("department", map[string]any{"department_id": id.String()})
	}
	return nil
}

func employeeLookupError(id uuid.UUID, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("employee", map[string]any{"id": id.String()})
	}
	return err
}

// employeeWriteError covers a department deleted between the existence
// check and the write.
func employeeWriteError(err error) error {
	if errors.Is(err, repository.ErrForeignKey) {
		return apperrors.NewReferenceNotFound("department", nil)
	}
	return err
}

func employeePayload(emp *domain.Employee) events.EmployeePayload {
	return events.EmployeePayload{
		EmployeeID:   emp.ID.String(),
		Name:         emp.Name,
		Position:     emp.Position,
		Salary:       emp.Salary,
		Birthdate:    emp.BirthdateString(),
		DepartmentID: emp.DepartmentID.String(),
	}
}
