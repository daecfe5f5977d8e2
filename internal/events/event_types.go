package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDepartmentCreated EventType = "department_created"
	EventDepartmentUpdated EventType = "department_updated"
	EventDepartmentDeleted EventType = "department_deleted"
	EventEmployeeCreated   EventType = "employee_created"
	EventEmployeeUpdated   EventType = "employee_updated"
	EventEmployeeDeleted   EventType = "employee_deleted"
)

// AllEventTypes lists every type services publish.
var AllEventTypes = []EventType{
	EventDepartmentCreated,
	EventDepartmentUpdated,
	EventDepartmentDeleted,
	EventEmployeeCreated,
	EventEmployeeUpdated,
	EventEmployeeDeleted,
}

// Event represents a committed change emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ResourceID string      `json:"resource_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload,omitempty"`
}

// DepartmentPayload describes a department after the change.
type DepartmentPayload struct {
	DepartmentID string `json:"department_id"`
	Name         string `json:"department_name"`
	PhoneNumber  string `json:"department_phone_number"`
}

// DepartmentDeletedPayload reports how many employees went with the department.
type DepartmentDeletedPayload struct {
	DepartmentID     string `json:"department_id"`
	EmployeesRemoved int64  `json:"employees_removed"`
}

// EmployeePayload describes an employee after the change.
type EmployeePayload struct {
	EmployeeID   string  `json:"employee_id"`
	Name         string  `json:"employee_name"`
	Position     string  `json:"position"`
	Salary       float64 `json:"salary"`
	Birthdate    string  `json:"birthdate"`
	DepartmentID string  `json:"department_id"`
}

// EmployeeDeletedPayload identifies a removed employee.
type EmployeeDeletedPayload struct {
	EmployeeID   string `json:"employee_id"`
	DepartmentID string `json:"department_id"`
}
