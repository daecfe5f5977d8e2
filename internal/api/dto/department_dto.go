package dto

import "github.com/spec-kit/department-app/internal/domain"

// DepartmentResponse is the JSON form of a department with its employees.
type DepartmentResponse struct {
	DepartmentID          string             `json:"department_id"`
	DepartmentName        string             `json:"department_name"`
	DepartmentPhoneNumber string             `json:"department_phone_number"`
	NumberOfEmployees     int                `json:"number_of_employees"`
	AverageSalary         float64            `json:"average_salary"`
	Employees             []EmployeeResponse `json:"employees"`
}

// DepartmentSummary is the department reference embedded in employees.
type DepartmentSummary struct {
	DepartmentID          string `json:"department_id"`
	DepartmentName        string `json:"department_name"`
	DepartmentPhoneNumber string `json:"department_phone_number"`
}

// NewDepartmentResponse converts a domain department.
func NewDepartmentResponse(dept *domain.Department) DepartmentResponse {
	employees := make([]EmployeeResponse, 0, len(dept.Employees))
	for i := range dept.Employees {
		employees = append(employees, NewEmployeeResponse(&dept.Employees[i]))
	}
	return DepartmentResponse{
		DepartmentID:          dept.ID.String(),
		DepartmentName:        dept.Name,
		DepartmentPhoneNumber: dept.PhoneNumber,
		NumberOfEmployees:     dept.EmployeeCount(),
		AverageSalary:         dept.AverageSalary(),
		Employees:             employees,
	}
}

// NewDepartmentList converts a slice of departments, never returning nil.
func NewDepartmentList(departments []domain.Department) []DepartmentResponse {
	items := make([]DepartmentResponse, 0, len(departments))
	for i := range departments {
		items = append(items, NewDepartmentResponse(&departments[i]))
	}
	return items
}
