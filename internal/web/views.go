// Package web serves the HTML pages. Every page reads the REST API through
// APIClient and renders the decoded JSON with a liquid template.
package web

import (
	"embed"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/osteele/liquid"
	"go.uber.org/zap"
)

//go:embed templates/*.liquid
var templatesFS embed.FS

const layoutTemplate = "layout"

// Views renders the department and employee pages.
type Views struct {
	client    *APIClient
	logger    *zap.Logger
	templates map[string]*liquid.Template
	readOnly  bool
}

// NewViews parses the embedded templates. A read-only instance hides every
// control that would change data; use it when the API requires a token.
func NewViews(client *APIClient, logger *zap.Logger, readOnly bool) (*Views, error) {
	engine := liquid.NewEngine()

	entries, err := templatesFS.ReadDir("templates")
	if err != nil {
		return nil, err
	}
	templates := make(map[string]*liquid.Template, len(entries))
	for _, entry := range entries {
		source, err := templatesFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return nil, err
		}
		tpl, parseErr := engine.ParseString(string(source))
		if parseErr != nil {
			return nil, fmt.Errorf("parse template %s: %w", entry.Name(), parseErr)
		}
		templates[strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))] = tpl
	}
	if _, ok := templates[layoutTemplate]; !ok {
		return nil, errors.New("layout template missing")
	}

	return &Views{client: client, logger: logger, templates: templates, readOnly: readOnly}, nil
}

// Register mounts the pages on router.
func (v *Views) Register(router fiber.Router) {
	router.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/departments/")
	})
	router.Get("/departments/", v.Departments)
	router.Get("/departments/add", v.DepartmentsAdd)
	router.Get("/departments/:id/edit", v.DepartmentEdit)
	router.Get("/employees/", v.Employees)
	router.Get("/employees/add", v.EmployeesAdd)
	router.Get("/employees/:id/edit", v.EmployeeEdit)
}

// Departments lists every department.
func (v *Views) Departments(c *fiber.Ctx) error {
	departments, err := v.client.Departments()
	if err != nil {
		return v.renderError(c, err)
	}
	return v.render(c, "departments", "Departments", map[string]any{"departments": departments})
}

// DepartmentsAdd shows the create form.
func (v *Views) DepartmentsAdd(c *fiber.Ctx) error {
	return v.render(c, "departments_add", "Add department", nil)
}

// DepartmentEdit shows the edit form for one department.
func (v *Views) DepartmentEdit(c *fiber.Ctx) error {
	department, err := v.client.Department(c.Params("id"))
	if err != nil {
		return v.renderError(c, err)
	}
	return v.render(c, "department_edit", "Edit department", map[string]any{"department": department})
}

// Employees lists employees, forwarding the non-empty filter values.
func (v *Views) Employees(c *fiber.Ctx) error {
	filter := url.Values{}
	for _, key := range []string{"department_id", "start_date", "end_date"} {
		if value := c.Query(key); value != "" {
			filter.Set(key, value)
		}
	}

	employees, err := v.client.Employees(filter)
	if err != nil {
		return v.renderError(c, err)
	}
	departments, err := v.client.Departments()
	if err != nil {
		return v.renderError(c, err)
	}
	return v.render(c, "employees", "Employees", map[string]any{
		"employees":   employees,
		"departments": departments,
		"filter": map[string]any{
			"department_id": filter.Get("department_id"),
			"start_date":    filter.Get("start_date"),
			"end_date":      filter.Get("end_date"),
		},
	})
}

// EmployeesAdd shows the create form with a department picker.
func (v *Views) EmployeesAdd(c *fiber.Ctx) error {
	departments, err := v.client.Departments()
	if err != nil {
		return v.renderError(c, err)
	}
	return v.render(c, "employees_add", "Add employee", map[string]any{"departments": departments})
}

// EmployeeEdit shows the edit form for one employee.
func (v *Views) EmployeeEdit(c *fiber.Ctx) error {
	employee, err := v.client.Employee(c.Params("id"))
	if err != nil {
		return v.renderError(c, err)
	}
	departments, err := v.client.Departments()
	if err != nil {
		return v.renderError(c, err)
	}
	return v.render(c, "employee_edit", "Edit employee", map[string]any{
		"employee":    employee,
		"departments": departments,
	})
}

func (v *Views) render(c *fiber.Ctx, name, title string, bindings map[string]any) error {
	tpl, ok := v.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	if bindings == nil {
		bindings = map[string]any{}
	}
	bindings["read_only"] = v.readOnly
	content, err := tpl.RenderString(bindings)
	if err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	page, err := v.templates[layoutTemplate].RenderString(map[string]any{
		"title":   title,
		"content": content,
	})
	if err != nil {
		return fmt.Errorf("render layout: %w", err)
	}
	c.Type("html", "utf-8")
	return c.SendString(page)
}

// renderError shows API failures as a page with the API's status code.
func (v *Views) renderError(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadGateway
	message := "the API could not be reached"

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		status = apiErr.Status
		message = apiErr.Message
	} else {
		v.logger.Error("view request failed", zap.String("path", c.Path()), zap.Error(err))
	}

	c.Status(status)
	return v.render(c, "error", "Error", map[string]any{"status": status, "message": message})
}
