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

// DepartmentService coordinates department workflows.
type DepartmentService struct {
	store      repository.Store
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewDepartmentService constructs the service.
func NewDepartmentService(store repository.Store, dispatcher events.Dispatcher, logger *zap.Logger) *DepartmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{store: store, dispatcher: dispatcher, logger: logger}
}

// List returns every department with its employees.
func (s *DepartmentService) List(ctx context.Context) ([]domain.Department, error) {
	var result []domain.Department
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		departments, err := tx.Departments().List(ctx)
		if err != nil {
			return fmt.Errorf("list departments: %w", err)
		}
		result = departments
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Get returns a department with its employees.
func (s *DepartmentService) Get(ctx context.Context, id uuid.UUID) (*domain.Department, error) {
	var result *domain.Department
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		dept, err := tx.Departments().GetByID(ctx, id)
		if err != nil {
			return departmentLookupError(id, err)
		}
		result = dept
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Create stores a new department under a fresh identifier.
func (s *DepartmentService) Create(ctx context.Context, input CreateDepartmentInput) (*domain.Department, error) {
	dept := &domain.Department{
		ID:          uuid.New(),
		Name:        input.Name,
		PhoneNumber: input.PhoneNumber,
		Employees:   []domain.Employee{},
	}
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Departments().Create(ctx, dept); err != nil {
			return fmt.Errorf("create department: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventDepartmentCreated,
		ResourceID: dept.ID.String(),
		Payload:    departmentPayload(dept),
	})
	return dept, nil
}

// Update applies the non-nil fields of input to the department.
func (s *DepartmentService) Update(ctx context.Context, id uuid.UUID, input UpdateDepartmentInput) (*domain.Department, error) {
	var result *domain.Department
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		dept, err := tx.Departments().GetByID(ctx, id)
		if err != nil {
			return departmentLookupError(id, err)
		}
		if input.Name != nil {
			dept.Name = *input.Name
		}
		if input.PhoneNumber != nil {
			dept.PhoneNumber = *input.PhoneNumber
		}
		if err := tx.Departments().Update(ctx, dept); err != nil {
			return departmentLookupError(id, err)
		}
		result = dept
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventDepartmentUpdated,
		ResourceID: id.String(),
		Payload:    departmentPayload(result),
	})
	return result, nil
}

// Delete removes the department together with its employees.
func (s *DepartmentService) Delete(ctx context.Context, id uuid.UUID) error {
	var removed int64
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		n, err := tx.Employees().DeleteByDepartment(ctx, id)
		if err != nil {
			return fmt.Errorf("delete department employees: %w", err)
		}
		if err := tx.Departments().Delete(ctx, id); err != nil {
			return departmentLookupError(id, err)
		}
		removed = n
		return nil
	})
	if err != nil {
		return err
	}

	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventDepartmentDeleted,
		ResourceID: id.String(),
		Payload: events.DepartmentDeletedPayload{
			DepartmentID:     id.String(),
			EmployeesRemoved: removed,
		},
	})
	return nil
}

func departmentLookupError(id uuid.UUID, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("department", map[string]any{"id": id.String()})
	}
	return err
}

func departmentPayload(dept *domain.Department) events.DepartmentPayload {
	return events.DepartmentPayload{
		DepartmentID: dept.ID.String(),
		Name:         dept.Name,
		PhoneNumber:  dept.PhoneNumber,
	}
}
