package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/department-app/internal/api/dto"
	"github.com/spec-kit/department-app/internal/service"
	"github.com/spec-kit/department-app/internal/validation"
)

// EmployeesHandler serves /api/employees.
type EmployeesHandler struct {
	service   *service.EmployeeService
	validator *validation.Validator
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(employeeService *service.EmployeeService, validator *validation.Validator) *EmployeesHandler {
	return &EmployeesHandler{service: employeeService, validator: validator}
}

// List GET /api/employees?department_id=&start_date=&end_date=.
// Unknown query keys are ignored; a present but empty key is invalid.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	filter, err := h.parseFilter(c)
	if err != nil {
		return err
	}
	employees, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEmployeeList(employees))
}

func (h *EmployeesHandler) parseFilter(c *fiber.Ctx) (service.EmployeeFilter, error) {
	var filter service.EmployeeFilter
	if raw, ok := queryValue(c, validation.FieldDepartmentID); ok {
		id, err := h.validator.Identifier(validation.FieldDepartmentID, raw)
		if err != nil {
			return filter, invalid(err)
		}
		filter.DepartmentID = &id
	}
	if raw, ok := queryValue(c, validation.FieldStartDate); ok {
		start, err := h.validator.Date(validation.FieldStartDate, raw)
		if err != nil {
			return filter, invalid(err)
		}
		filter.StartDate = &start
	}
	if raw, ok := queryValue(c, validation.FieldEndDate); ok {
		end, err := h.validator.Date(validation.FieldEndDate, raw)
		if err != nil {
			return filter, invalid(err)
		}
		filter.EndDate = &end
	}
	return filter, nil
}

// Create POST /api/employees.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	form, err := readForm(c)
	if err != nil {
		return err
	}

	var input service.CreateEmployeeInput
	if input.Name, err = form.Require(validation.FieldEmployeeName); err != nil {
		return err
	}
	if err := h.validator.EmployeeName(input.Name); err != nil {
		return invalid(err)
	}
	if input.Position, err = form.Require(validation.FieldPosition); err != nil {
		return err
	}
	if err := h.validator.Position(input.Position); err != nil {
		return invalid(err)
	}

	rawSalary, err := form.Require(validation.FieldSalary)
	if err != nil {
		return err
	}
	if input.Salary, err = h.validator.Salary(rawSalary); err != nil {
		return invalid(err)
	}

	rawBirthdate, err := form.Require(validation.FieldBirthdate)
	if err != nil {
		return err
	}
	if input.Birthdate, err = h.validator.Date(validation.FieldBirthdate, rawBirthdate); err != nil {
		return invalid(err)
	}

	rawDepartment, err := form.Require(validation.FieldDepartmentID)
	if err != nil {
		return err
	}
	if input.DepartmentID, err = h.validator.Identifier(validation.FieldDepartmentID, rawDepartment); err != nil {
		return invalid(err)
	}

	emp, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	c.Location("/api/employees/" + emp.ID.String())
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{
		Success:    "employee has been created",
		EmployeeID: emp.ID.String(),
	})
}

// Get GET /api/employees/:id.
func (h *EmployeesHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, h.validator, validation.FieldEmployeeID)
	if err != nil {
		return err
	}
	emp, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEmployeeResponse(emp))
}

// Update PUT /api/employees/:id. Absent fields stay unchanged.
func (h *EmployeesHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, h.validator, validation.FieldEmployeeID)
	if err != nil {
		return err
	}
	form, err := readForm(c)
	if err != nil {
		return err
	}

	var input service.UpdateEmployeeInput
	if name, ok := form.Lookup(validation.FieldEmployeeName); ok {
		if err := h.validator.EmployeeName(name); err != nil {
			return invalid(err)
		}
		input.Name = &name
	}
	if position, ok := form.Lookup(validation.FieldPosition); ok {
		if err := h.validator.Position(position); err != nil {
			return invalid(err)
		}
		input.Position = &position
	}
	if raw, ok := form.Lookup(validation.FieldSalary); ok {
		salary, err := h.validator.Salary(raw)
		if err != nil {
			return invalid(err)
		}
		input.Salary = &salary
	}
	if raw, ok := form.Lookup(validation.FieldBirthdate); ok {
		birthdate, err := h.validator.Date(validation.FieldBirthdate, raw)
		if err != nil {
			return invalid(err)
		}
		input.Birthdate = &birthdate
	}
	if raw, ok := form.Lookup(validation.FieldDepartmentID); ok {
		departmentID, err := h.validator.Identifier(validation.FieldDepartmentID, raw)
		if err != nil {
			return invalid(err)
		}
		input.DepartmentID = &departmentID
	}

	if _, err := h.service.Update(c.UserContext(), id, input); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{Success: "employee has been updated"})
}

// Delete DELETE /api/employees/:id.
func (h *EmployeesHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, h.validator, validation.FieldEmployeeID)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(dto.SuccessResponse{Success: "employee has been deleted"})
}
