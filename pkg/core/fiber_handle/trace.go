package fiber_handle

import (
	"context"

	"github.com/gofiber/fiber/v2"
	uuid "github.com/satori/go.uuid"

	"github.com/Renagang21/o4o-platform-sub035/pkg/core/consts"
)

// NewApiTrace 为每个请求注入traceId，便于日志串联
func NewApiTrace() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := uuid.NewV4().String()

		ctx := context.WithValue(c.UserContext(), consts.TraceKey, traceID)
		c.SetUserContext(ctx)
		c.Locals(consts.TraceKey, traceID)
		return c.Next()
	}
}
