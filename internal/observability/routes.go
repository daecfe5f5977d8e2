package observability

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// UnmatchedRoute is the metrics key shared by every request no route served.
const UnmatchedRoute = "<unmatched>"

const localsUnmatched = "unmatched_route"

// NotFound answers requests that fell through every registered route. It must
// be registered after all other routes.
func NotFound(c *fiber.Ctx) error {
	c.Locals(localsUnmatched, true)
	return fiber.NewError(fiber.StatusNotFound, "Cannot "+c.Method()+" "+utils.CopyString(c.Path()))
}

// RouteKey returns the registered route pattern that served c, so metric
// keys stay bounded no matter which concrete paths clients request.
func RouteKey(c *fiber.Ctx) string {
	if unmatched, _ := c.Locals(localsUnmatched).(bool); unmatched {
		return UnmatchedRoute
	}
	if path := c.Route().Path; path != "" {
		return path
	}
	return UnmatchedRoute
}
