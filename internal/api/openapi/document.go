// Package openapi describes the REST surface as an OpenAPI 3 document.
package openapi

import (
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gofiber/fiber/v2"
)

const (
	formContentType      = "application/x-www-form-urlencoded"
	multipartContentType = "multipart/form-data"
	jsonContentType      = "application/json"
)

// Generator builds the document once and serves it.
type Generator struct {
	title   string
	version string

	once sync.Once
	doc  *openapi3.T
}

// NewGenerator creates a generator for the given API version.
func NewGenerator(title, version string) *Generator {
	if title == "" {
		title = "Department App API"
	}
	if version == "" {
		version = "dev"
	}
	return &Generator{title: title, version: version}
}

// Document returns the OpenAPI description.
func (g *Generator) Document() *openapi3.T {
	g.once.Do(func() {
		g.doc = g.build()
	})
	return g.doc
}

// Handler serves GET /api/openapi.json.
func (g *Generator) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(g.Document())
	}
}

type schemas struct {
	department        *openapi3.SchemaRef
	departmentSummary *openapi3.SchemaRef
	employee          *openapi3.SchemaRef
	success           *openapi3.SchemaRef
	failure           *openapi3.SchemaRef
	token             *openapi3.SchemaRef
}

func (g *Generator) build() *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       g.title,
			Version:     g.version,
			Description: "Departments and the employees that belong to them.",
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas),
		},
	}

	s := addSchemas(doc)
	addDepartmentPaths(doc, s)
	addEmployeePaths(doc, s)
	addAuthPaths(doc, s)
	return doc
}

func addSchemas(doc *openapi3.T) schemas {
	register := func(name string, schema *openapi3.Schema) *openapi3.SchemaRef {
		doc.Components.Schemas[name] = &openapi3.SchemaRef{Value: schema}
		return openapi3.NewSchemaRef("#/components/schemas/"+name, schema)
	}

	summary := openapi3.NewObjectSchema().
		WithProperty("department_id", openapi3.NewUUIDSchema()).
		WithProperty("department_name", openapi3.NewStringSchema()).
		WithProperty("department_phone_number", openapi3.NewStringSchema())
	summaryRef := register("DepartmentSummary", summary)

	employee := openapi3.NewObjectSchema().
		WithProperty("employee_id", openapi3.NewUUIDSchema()).
		WithProperty("employee_name", openapi3.NewStringSchema()).
		WithProperty("position", openapi3.NewStringSchema()).
		WithProperty("salary", openapi3.NewFloat64Schema()).
		WithProperty("birthdate", openapi3.NewStringSchema().WithFormat("date")).
		WithProperty("department_id", openapi3.NewUUIDSchema()).
		WithPropertyRef("department", summaryRef)
	employeeRef := register("Employee", employee)

	department := openapi3.NewObjectSchema().
		WithProperty("department_id", openapi3.NewUUIDSchema()).
		WithProperty("department_name", openapi3.NewStringSchema()).
		WithProperty("department_phone_number", openapi3.NewStringSchema()).
		WithProperty("number_of_employees", openapi3.NewIntegerSchema()).
		WithProperty("average_salary", openapi3.NewFloat64Schema()).
		WithProperty("employees", openapi3.NewArraySchema().WithItems(employee))
	departmentRef := register("Department", department)

	success := openapi3.NewObjectSchema().
		WithProperty("success", openapi3.NewStringSchema()).
		WithProperty("department_id", openapi3.NewUUIDSchema()).
		WithProperty("employee_id", openapi3.NewUUIDSchema())
	failure := openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema())
	token := openapi3.NewObjectSchema().
		WithProperty("access_token", openapi3.NewStringSchema()).
		WithProperty("token_type", openapi3.NewStringSchema()).
		WithProperty("expires_at", openapi3.NewDateTimeSchema())

	return schemas{
		department:        departmentRef,
		departmentSummary: summaryRef,
		employee:          employeeRef,
		success:           register("Success", success),
		failure:           register("Error", failure),
		token:             register("Token", token),
	}
}

func addDepartmentPaths(doc *openapi3.T, s schemas) {
	form := openapi3.NewObjectSchema().
		WithProperty("department_name", openapi3.NewStringSchema().WithMinLength(3).WithMaxLength(32)).
		WithProperty("department_phone_number", openapi3.NewStringSchema().WithPattern(`^(\+?\d{1,3})?\d{10}$`))
	createForm := *form
	createForm.Required = []string{"department_name", "department_phone_number"}

	doc.Paths.Set("/api/departments", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "listDepartments",
			Summary:     "List departments with their employees",
			Tags:        []string{"Departments"},
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(200, jsonArray("Every department", s.department)),
			),
		},
		Post: &openapi3.Operation{
			OperationID: "createDepartment",
			Summary:     "Create a department",
			Tags:        []string{"Departments"},
			RequestBody: formBody(&createForm, true),
			Responses:   mutationResponses(201, "Department created", s),
		},
	})

	doc.Paths.Set("/api/departments/{id}", &openapi3.PathItem{
		Parameters: idParameter(),
		Get: &openapi3.Operation{
			OperationID: "getDepartment",
			Summary:     "Get a department",
			Tags:        []string{"Departments"},
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(200, jsonResponse("The department", s.department)),
				openapi3.WithStatus(400, jsonResponse("Malformed identifier", s.failure)),
				openapi3.WithStatus(404, jsonResponse("No such department", s.failure)),
			),
		},
		Put: &openapi3.Operation{
			OperationID: "updateDepartment",
			Summary:     "Update the fields sent; others stay unchanged",
			Tags:        []string{"Departments"},
			RequestBody: formBody(form, false),
			Responses:   mutationResponses(201, "Department updated", s),
		},
		Delete: &openapi3.Operation{
			OperationID: "deleteDepartment",
			Summary:     "Delete a department and its employees",
			Tags:        []string{"Departments"},
			Responses:   mutationResponses(200, "Department deleted", s),
		},
	})
}

func addEmployeePaths(doc *openapi3.T, s schemas) {
	form := openapi3.NewObjectSchema().
		WithProperty("employee_name", openapi3.NewStringSchema().WithMinLength(2).WithMaxLength(32)).
		WithProperty("position", openapi3.NewStringSchema().WithMinLength(2).WithMaxLength(32)).
		WithProperty("salary", openapi3.NewFloat64Schema()).
		WithProperty("birthdate", openapi3.NewStringSchema().WithFormat("date")).
		WithProperty("department_id", openapi3.NewUUIDSchema())
	createForm := *form
	createForm.Required = []string{"employee_name", "position", "salary", "birthdate", "department_id"}

	doc.Paths.Set("/api/employees", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "listEmployees",
			Summary:     "List employees, optionally filtered",
			Tags:        []string{"Employees"},
			Parameters: openapi3.Parameters{
				{Value: openapi3.NewQueryParameter("department_id").WithSchema(openapi3.NewUUIDSchema())},
				{Value: openapi3.NewQueryParameter("start_date").WithSchema(openapi3.NewStringSchema().WithFormat("date"))},
				{Value: openapi3.NewQueryParameter("end_date").WithSchema(openapi3.NewStringSchema().WithFormat("date"))},
			},
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(200, jsonArray("Matching employees", s.employee)),
				openapi3.WithStatus(400, jsonResponse("Malformed filter", s.failure)),
				openapi3.WithStatus(404, jsonResponse("Filtered department does not exist", s.failure)),
			),
		},
		Post: &openapi3.Operation{
			OperationID: "createEmployee",
			Summary:     "Create an employee",
			Tags:        []string{"Employees"},
			RequestBody: formBody(&createForm, true),
			Responses:   mutationResponses(201, "Employee created", s),
		},
	})

	doc.Paths.Set("/api/employees/{id}", &openapi3.PathItem{
		Parameters: idParameter(),
		Get: &openapi3.Operation{
			OperationID: "getEmployee",
			Summary:     "Get an employee",
			Tags:        []string{"Employees"},
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(200, jsonResponse("The employee", s.employee)),
				openapi3.WithStatus(400, jsonResponse("Malformed identifier", s.failure)),
				openapi3.WithStatus(404, jsonResponse("No such employee", s.failure)),
			),
		},
		Put: &openapi3.Operation{
			OperationID: "updateEmployee",
			Summary:     "Update the fields sent; others stay unchanged",
			Tags:        []string{"Employees"},
			RequestBody: formBody(form, false),
			Responses:   mutationResponses(201, "Employee updated", s),
		},
		Delete: &openapi3.Operation{
			OperationID: "deleteEmployee",
			Summary:     "Delete an employee",
			Tags:        []string{"Employees"},
			Responses:   mutationResponses(200, "Employee deleted", s),
		},
	})
}

func addAuthPaths(doc *openapi3.T, s schemas) {
	form := openapi3.NewObjectSchema().
		WithProperty("username", openapi3.NewStringSchema()).
		WithProperty("password", openapi3.NewStringSchema().WithFormat("password"))
	form.Required = []string{"username", "password"}

	doc.Paths.Set("/api/auth/token", &openapi3.PathItem{
		Post: &openapi3.Operation{
			OperationID: "issueToken",
			Summary:     "Exchange admin credentials for a bearer token",
			Tags:        []string{"Auth"},
			RequestBody: formBody(form, true),
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(200, jsonResponse("Signed token", s.token)),
				openapi3.WithStatus(401, jsonResponse("Invalid credentials", s.failure)),
			),
		},
	})
}

func idParameter() openapi3.Parameters {
	return openapi3.Parameters{
		{Value: openapi3.NewPathParameter("id").WithSchema(openapi3.NewUUIDSchema())},
	}
}

func formBody(schema *openapi3.Schema, required bool) *openapi3.RequestBodyRef {
	ref := &openapi3.SchemaRef{Value: schema}
	return &openapi3.RequestBodyRef{
		Value: &openapi3.RequestBody{
			Required: required,
			Content: openapi3.Content{
				formContentType:      &openapi3.MediaType{Schema: ref},
				multipartContentType: &openapi3.MediaType{Schema: ref},
			},
		},
	}
}

func mutationResponses(status int, description string, s schemas) *openapi3.Responses {
	return openapi3.NewResponses(
		openapi3.WithStatus(status, jsonResponse(description, s.success)),
		openapi3.WithStatus(400, jsonResponse("Invalid or missing field", s.failure)),
		openapi3.WithStatus(401, jsonResponse("Bearer token required when authentication is enabled", s.failure)),
		openapi3.WithStatus(404, jsonResponse("Record or referenced department not found", s.failure)),
	)
}

func jsonResponse(description string, schema *openapi3.SchemaRef) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().
			WithDescription(description).
			WithContent(openapi3.Content{jsonContentType: &openapi3.MediaType{Schema: schema}}),
	}
}

func jsonArray(description string, item *openapi3.SchemaRef) *openapi3.ResponseRef {
	array := openapi3.NewArraySchema()
	array.Items = item
	return jsonResponse(description, &openapi3.SchemaRef{Value: array})
}
