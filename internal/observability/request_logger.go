package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"github.com/spec-kit/department-app/internal/auth"
)

// RequestLogger logs every request once it has been handled and feeds the
// request counters.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		// fiber strings alias fasthttp buffers that are reused per request.
		status := c.Response().StatusCode()
		method := utils.CopyString(c.Method())
		metrics.RecordRequest(RouteKey(c), method, status, elapsed)

		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", utils.CopyString(c.OriginalURL())),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			fields = append(fields, zap.String("request_id", rid))
		}
		if user, ok := c.Locals(auth.LocalsUsername).(string); ok && user != "" {
			fields = append(fields, zap.String("user", user))
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Error("request handled", fields...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("request handled", fields...)
		default:
			logger.Info("request handled", fields...)
		}
		return err
	}
}
