package http

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"github.com/spec-kit/department-app/internal/api/dto"
	"github.com/spec-kit/department-app/internal/observability"
	apperrors "github.com/spec-kit/department-app/pkg/util"
)

// RegisterMiddlewares attaches global middlewares. The request logger sits
// outside the error handler so it records the status actually sent.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(requestid.New())
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(cors.New())
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			logger.Error("panic recovered",
				zap.String("path", utils.CopyString(c.Path())),
				zap.String("panic", fmt.Sprint(e)),
				zap.Stack("stack"))
		},
	}))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}

		status, code, message := describeError(err)
		metrics.RecordError(observability.RouteKey(c), utils.CopyString(c.Method()), code)
		if status >= fiber.StatusInternalServerError {
			logger.Error("request failed", zap.String("path", utils.CopyString(c.Path())), zap.Error(err))
		}
		return c.Status(status).JSON(dto.ErrorResponse{Error: message})
	}
}

// ErrorHandler is installed as the fiber.Config error handler for anything
// that escapes the middleware chain.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, _, message := describeError(err)
	return c.Status(status).JSON(dto.ErrorResponse{Error: message})
}

func describeError(err error) (int, string, string) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, "HTTP_" + strconv.Itoa(fiberErr.Code), fiberErr.Message
	}

	domainErr := apperrors.ToDomainError(err)
	message := domainErr.Message
	if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
		message = domainErr.Error()
	}
	return domainErr.HTTPStatus, domainErr.Code, message
}
