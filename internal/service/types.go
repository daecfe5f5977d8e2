package service

import (
	"time"

	"github.com/google/uuid"
)

// CreateDepartmentInput carries validated fields for a new department.
type CreateDepartmentInput struct {
	Name        string
	PhoneNumber string
}

// UpdateDepartmentInput changes only the non-nil fields.
type UpdateDepartmentInput struct {
	Name        *string
	PhoneNumber *string
}

// CreateEmployeeInput carries validated fields for a new employee.
type CreateEmployeeInput struct {
	Name         string
	Position     string
	Salary       float64
	Birthdate    time.Time
	DepartmentID uuid.UUID
}

// UpdateEmployeeInput changes only the non-nil fields.
type UpdateEmployeeInput struct {
	Name         *string
	Position     *string
	Salary       *float64
	Birthdate    *time.Time
	DepartmentID *uuid.UUID
}

// EmployeeFilter narrows employee listings. Conditions combine with AND;
// the birthdate bounds are inclusive.
type EmployeeFilter struct {
	DepartmentID *uuid.UUID
	StartDate    *time.Time
	EndDate      *time.Time
}
