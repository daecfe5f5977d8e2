package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/department-app/internal/api/dto"
	"github.com/spec-kit/department-app/internal/service"
	"github.com/spec-kit/department-app/internal/validation"
)

// DepartmentsHandler serves /api/departments.
type DepartmentsHandler struct {
	service   *service.DepartmentService
	validator *validation.Validator
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(departmentService *service.DepartmentService, validator *validation.Validator) *DepartmentsHandler {
	return &DepartmentsHandler{service: departmentService, validator: validator}
}

// List GET /api/departments.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	departments, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDepartmentList(departments))
}

// Create POST /api/departments.
func (h *DepartmentsHandler) Create(c *fiber.Ctx) error {
	form, err := readForm(c)
	if err != nil {
		return err
	}

	var input service.CreateDepartmentInput
	if input.Name, err = form.Require(validation.FieldDepartmentName); err != nil {
		return err
	}
	if err := h.validator.DepartmentName(input.Name); err != nil {
		return invalid(err)
	}
	if input.PhoneNumber, err = form.Require(validation.FieldDepartmentPhoneNumber); err != nil {
		return err
	}
	if err := h.validator.PhoneNumber(input.PhoneNumber); err != nil {
		return invalid(err)
	}

	dept, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	c.Location("/api/departments/" + dept.ID.String())
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{
		Success:      "department has been created",
		DepartmentID: dept.ID.String(),
	})
}

// Get GET /api/departments/:id.
func (h *DepartmentsHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, h.validator, validation.FieldDepartmentID)
	if err != nil {
		return err
	}
	dept, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDepartmentResponse(dept))
}

// Update PUT /api/departments/:id. Absent fields stay unchanged.
func (h *DepartmentsHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, h.validator, validation.FieldDepartmentID)
	if err != nil {
		return err
	}
	form, err := readForm(c)
	if err != nil {
		return err
	}

	var input service.UpdateDepartmentInput
	if name, ok := form.Lookup(validation.FieldDepartmentName); ok {
		if err := h.validator.DepartmentName(name); err != nil {
			return invalid(err)
		}
		input.Name = &name
	}
	if phone, ok := form.Lookup(validation.FieldDepartmentPhoneNumber); ok {
		if err := h.validator.PhoneNumber(phone); err != nil {
			return invalid(err)
		}
		input.PhoneNumber = &phone
	}

	if _, err := h.service.Update(c.UserContext(), id, input); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{Success: "department has been updated"})
}

// Delete DELETE /api/departments/:id.
func (h *DepartmentsHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, h.validator, validation.FieldDepartmentID)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(dto.SuccessResponse{Success: "department has been deleted"})
}
