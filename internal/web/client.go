package web

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
)

// APIError is a non-2xx answer from the REST API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api responded %d: %s", e.Status, e.Message)
}

// APIClient reads the REST API over HTTP and hands back the decoded JSON
// untouched.
type APIClient struct {
	baseURL string
	timeout time.Duration
}

// NewAPIClient returns a client for the API rooted at baseURL.
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &APIClient{baseURL: baseURL, timeout: timeout}
}

// Departments GET /api/departments.
func (c *APIClient) Departments() (any, error) {
	return c.get("/api/departments", nil)
}

// Department GET /api/departments/:id.
func (c *APIClient) Department(id string) (any, error) {
	return c.get("/api/departments/"+url.PathEscape(id), nil)
}

// Employees GET /api/employees with the given filter.
func (c *APIClient) Employees(filter url.Values) (any, error) {
	return c.get("/api/employees", filter)
}

// Employee GET /api/employees/:id.
func (c *APIClient) Employee(id string) (any, error) {
	return c.get("/api/employees/"+url.PathEscape(id), nil)
}

func (c *APIClient) get(path string, query url.Values) (any, error) {
	agent := fiber.Get(c.baseURL + path)
	agent.Timeout(c.timeout)
	if len(query) > 0 {
		agent.QueryString(query.Encode())
	}

	var out any
	status, _, errs := agent.Struct(&out)
	if len(errs) > 0 {
		return nil, fmt.Errorf("GET %s: %w", path, errors.Join(errs...))
	}
	if status >= fiber.StatusBadRequest {
		apiErr := &APIError{Status: status, Message: fiber.ErrInternalServerError.Message}
		if body, ok := out.(map[string]any); ok {
			if msg, ok := body["error"].(string); ok {
				apiErr.Message = msg
			}
		}
		return nil, apiErr
	}
	return out, nil
}
