package dto

import "github.com/spec-kit/department-app/internal/domain"

// EmployeeResponse is the JSON form of an employee.
type EmployeeResponse struct {
	EmployeeID   string            `json:"employee_id"`
	EmployeeName string            `json:"employee_name"`
	Position     string            `json:"position"`
	Salary       float64           `json:"salary"`
	Birthdate    string            `json:"birthdate"`
	DepartmentID string            `json:"department_id"`
	Department   DepartmentSummary `json:"department"`
}

// NewEmployeeResponse converts a domain employee.
func NewEmployeeResponse(emp *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		EmployeeID:   emp.ID.String(),
		EmployeeName: emp.Name,
		Position:     emp.Position,
		Salary:       emp.Salary,
		Birthdate:    emp.BirthdateString(),
		DepartmentID: emp.DepartmentID.String(),
		Department: DepartmentSummary{
			DepartmentID:          emp.Department.ID.String(),
			DepartmentName:        emp.Department.Name,
			DepartmentPhoneNumber: emp.Department.PhoneNumber,
		},
	}
}

// NewEmployeeList converts a slice of employees, never returning nil.
func NewEmployeeList(employees []domain.Employee) []EmployeeResponse {
	items := make([]EmployeeResponse, 0, len(employees))
	for i := range employees {
		items = append(items, NewEmployeeResponse(&employees[i]))
	}
	return items
}
