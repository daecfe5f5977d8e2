// Package validation holds the per-field checks applied to incoming request
// data before any mutation. Every check is side-effect free and reports the
// offending field through a *FieldError.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/spec-kit/department-app/internal/domain"
)

// Request field names.
const (
	FieldDepartmentID          = "department_id"
	FieldDepartmentName        = "department_name"
	FieldDepartmentPhoneNumber = "department_phone_number"
	FieldEmployeeID            = "employee_id"
	FieldEmployeeName          = "employee_name"
	FieldPosition              = "position"
	FieldSalary                = "salary"
	FieldBirthdate             = "birthdate"
	FieldStartDate             = "start_date"
	FieldEndDate               = "end_date"
)

// Optional country code of 1-3 digits followed by exactly 10 digits.
var phonePattern = regexp.MustCompile(`^(\+?\d{1,3})?\d{10}$`)

// FieldError names the field that failed validation.
type FieldError struct {
	Field   string
	Missing bool
}

func (e *FieldError) Error() string {
	if e.Missing {
		return fmt.Sprintf("missing parameter '%s'", e.Field)
	}
	return e.Field + " is invalid"
}

// Missing reports a required field absent from a create request.
func Missing(field string) error {
	return &FieldError{Field: field, Missing: true}
}

// Validator runs field checks. The clock decides what "today" is for date
// checks.
type Validator struct {
	engine *validator.Validate
	now    func() time.Time
}

// New returns a Validator using the wall clock.
func New() *Validator {
	return NewWithClock(time.Now)
}

// NewWithClock returns a Validator whose notion of today comes from now.
func NewWithClock(now func() time.Time) *Validator {
	engine := validator.New()
	_ = engine.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return &Validator{engine: engine, now: now}
}

// DepartmentName accepts 3 to 32 characters.
func (v *Validator) DepartmentName(name string) error {
	return v.check(FieldDepartmentName, name, "min=3,max=32")
}

// PhoneNumber accepts an optional 1-3 digit country code (with optional
// leading +) followed by 10 digits.
func (v *Validator) PhoneNumber(phone string) error {
	return v.check(FieldDepartmentPhoneNumber, phone, "phone")
}

// EmployeeName accepts 2 to 32 characters.
func (v *Validator) EmployeeName(name string) error {
	return v.check(FieldEmployeeName, name, "min=2,max=32")
}

// Position accepts 2 to 32 characters.
func (v *Validator) Position(position string) error {
	return v.check(FieldPosition, position, "min=2,max=32")
}

// Salary parses raw as a decimal number that must be finite and positive.
func (v *Validator) Salary(raw string) (float64, error) {
	salary, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsInf(salary, 0) || math.IsNaN(salary) {
		return 0, &FieldError{Field: FieldSalary}
	}
	if err := v.check(FieldSalary, salary, "gt=0"); err != nil {
		return 0, err
	}
	return salary, nil
}

// Date parses raw as YYYY-MM-DD and rejects dates after today.
func (v *Validator) Date(field, raw string) (time.Time, error) {
	parsed, err := time.Parse(domain.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, &FieldError{Field: field}
	}
	if parsed.After(domain.Date(v.now())) {
		return time.Time{}, &FieldError{Field: field}
	}
	return parsed, nil
}

// Identifier parses raw as a hyphenated UUID.
func (v *Validator) Identifier(field, raw string) (uuid.UUID, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if err := v.check(field, normalized, "uuid"); err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(normalized)
	if err != nil {
		return uuid.Nil, &FieldError{Field: field}
	}
	return id, nil
}

func (v *Validator) check(field string, value interface{}, tag string) error {
	if err := v.engine.Var(value, tag); err != nil {
		return &FieldError{Field: field}
	}
	return nil
}
