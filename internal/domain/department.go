package domain

import "github.com/google/uuid"

// Department represents an organizational unit that employees belong to.
// Employees is populated on read; the count and average salary derive from it.
type Department struct {
	ID          uuid.UUID
	Name        string
	PhoneNumber string
	Employees   []Employee
}

// EmployeeCount returns the number of employees attached to the department.
func (d *Department) EmployeeCount() int {
	return len(d.Employees)
}

// AverageSalary returns the mean salary of the department's employees, or 0
// when it has none.
func (d *Department) AverageSalary() float64 {
	if len(d.Employees) == 0 {
		return 0
	}
	var total float64
	for _, e := range d.Employees {
		total += e.Salary
	}
	return total / float64(len(d.Employees))
}

// DepartmentSummary is the reduced view embedded in employee records.
type DepartmentSummary struct {
	ID          uuid.UUID
	Name        string
	PhoneNumber string
}
