package domain

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Employee models a person working in exactly one department.
type Employee struct {
	ID           uuid.UUID
	Name         string
	Position     string
	Salary       float64
	Birthdate    time.Time
	DepartmentID uuid.UUID
	Department   DepartmentSummary
}

// BirthdateString formats the birthdate as YYYY-MM-DD.
func (e *Employee) BirthdateString() string {
	return e.Birthdate.Format(DateLayout)
}

// Date truncates t to midnight UTC of its calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
