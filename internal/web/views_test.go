package web

import (
	"io"
	"net"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	departmentID = "6f1c1a8e-3c1b-4b8e-9a51-0d6c6f0f6d11"
	employeeID   = "0b5d1f5e-6f53-4a3e-8f55-3f0f2f4b8c21"
)

var employeeJSON = fiber.Map{
	"employee_id":   employeeID,
	"employee_name": "TEST_E1",
	"position":      "TEST_P",
	"salary":        111,
	"birthdate":     "1991-01-11",
	"department_id": departmentID,
	"department":    fiber.Map{"department_id": departmentID, "department_name": "<b>TEST_DP1</b>"},
}

var departmentJSON = fiber.Map{
	"department_id":           departmentID,
	"department_name":         "<b>TEST_DP1</b>",
	"department_phone_number": "+381111111111",
	"number_of_employees":     2,
	"average_salary":          166.5,
	"employees":               []fiber.Map{employeeJSON},
}

type fakeAPI struct {
	mu      sync.Mutex
	queries []string
}

func (f *fakeAPI) lastQuery() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return ""
	}
	return f.queries[len(f.queries)-1]
}

// startAPI serves canned API answers on a real loopback listener.
func startAPI(t *testing.T) (string, *fakeAPI) {
	t.Helper()
	fake := &fakeAPI{}
	notFound := func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not Found"})
	}

	api := fiber.New(fiber.Config{DisableStartupMessage: true})
	api.Get("/api/departments", func(c *fiber.Ctx) error {
		return c.JSON([]fiber.Map{departmentJSON})
	})
	api.Get("/api/departments/:id", func(c *fiber.Ctx) error {
		if c.Params("id") != departmentID {
			return notFound(c)
		}
		return c.JSON(departmentJSON)
	})
	api.Get("/api/employees", func(c *fiber.Ctx) error {
		fake.mu.Lock()
		fake.queries = append(fake.queries, string(c.Context().QueryArgs().QueryString()))
		fake.mu.Unlock()
		return c.JSON([]fiber.Map{employeeJSON})
	})
	api.Get("/api/employees/:id", func(c *fiber.Ctx) error {
		if c.Params("id") != employeeID {
			return notFound(c)
		}
		return c.JSON(employeeJSON)
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = api.Listener(ln) }()
	t.Cleanup(func() { _ = api.Shutdown() })

	return "http://" + ln.Addr().String(), fake
}

func newViewsApp(t *testing.T, baseURL string, readOnly bool) *fiber.App {
	t.Helper()
	views, err := NewViews(NewAPIClient(baseURL, 2*time.Second), zap.NewNop(), readOnly)
	require.NoError(t, err)
	app := fiber.New()
	views.Register(app)
	return app
}

func get(t *testing.T, app *fiber.App, target string) (int, string, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, target, nil), 5000)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, resp.Header.Get("Location"), string(body)
}

func TestViews_RootRedirects(t *testing.T) {
	app := newViewsApp(t, "http://127.0.0.1:1", false)
	status, location, _ := get(t, app, "/")
	assert.Equal(t, fiber.StatusFound, status)
	assert.Equal(t, "/departments/", location)
}

func TestViews_DepartmentPages(t *testing.T) {
	baseURL, _ := startAPI(t)
	app := newViewsApp(t, baseURL, false)

	status, _, body := get(t, app, "/departments/")
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Contains(t, body, "&lt;b&gt;TEST_DP1&lt;/b&gt;")
	assert.NotContains(t, body, "<b>TEST_DP1</b>")
	assert.Contains(t, body, "166.5")
	assert.Contains(t, body, "/departments/"+departmentID+"/edit")

	status, _, body = get(t, app, "/departments/add")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `name="department_phone_number"`)

	status, _, body = get(t, app, "/departments/"+departmentID+"/edit")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `value="+381111111111"`)
	assert.Contains(t, body, "TEST_E1")

	status, _, body = get(t, app, "/departments/6f1c1a8e-0000-4b8e-9a51-0d6c6f0f6d11/edit")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Contains(t, body, "Not Found")
}

func TestViews_ReadOnlyHidesMutations(t *testing.T) {
	baseURL, _ := startAPI(t)
	app := newViewsApp(t, baseURL, true)

	status, _, body := get(t, app, "/departments/")
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Contains(t, body, "&lt;b&gt;TEST_DP1&lt;/b&gt;")
	assert.Contains(t, body, "Read-only")
	assert.NotContains(t, body, `href="/departments/add"`)
	assert.NotContains(t, body, "/departments/"+departmentID+"/edit")
	assert.NotContains(t, body, "deleteResource('/api/departments/")

	status, _, body = get(t, app, "/employees/")
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Contains(t, body, "TEST_E1")
	assert.NotContains(t, body, `href="/employees/add"`)
	assert.NotContains(t, body, "deleteResource('/api/employees/")

	status, _, body = get(t, app, "/departments/"+departmentID+"/edit")
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Contains(t, body, "TEST_E1")
	assert.NotContains(t, body, `data-method="PUT"`)

	status, _, body = get(t, app, "/employees/add")
	require.Equal(t, fiber.StatusOK, status, body)
	assert.NotContains(t, body, `data-method="POST"`)
}

func TestViews_EmployeePagesForwardFilters(t *testing.T) {
	baseURL, fake := startAPI(t)
	app := newViewsApp(t, baseURL, false)

	status, _, body := get(t, app, "/employees/?department_id="+departmentID+"&start_date=&end_date=1999-01-01")
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "department_id="+departmentID+"&end_date=1999-01-01", fake.lastQuery())
	assert.Contains(t, body, "TEST_E1")
	assert.Contains(t, body, "selected")

	status, _, _ = get(t, app, "/employees/")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "", fake.lastQuery())

	status, _, body = get(t, app, "/employees/add")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `value="`+departmentID+`"`)

	status, _, body = get(t, app, "/employees/"+employeeID+"/edit")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `value="1991-01-11"`)
}

func TestViews_APIUnavailable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	app := newViewsApp(t, "http://"+addr, false)
	status, _, body := get(t, app, "/departments/")
	assert.Equal(t, fiber.StatusBadGateway, status)
	assert.Contains(t, body, "the API could not be reached")
}
