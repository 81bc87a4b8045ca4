package start

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	recover2 "github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Renagang21/o4o-platform-sub035/pkg/core/fiber_handle"
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/logger"
)

func GetApp() *fiber.App {
	app := fiber.New(
		fiber.Config{
			BodyLimit:    10 * 1024 * 1024,
			ErrorHandler: fiber_handle.ErrHandler,
		})
	app.Use(fiber_handle.Cors())
	app.Use(recover2.New(recover2.Config{
		Next:             nil,
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			fmt.Println(e)
		},
	}))
	app.Use(fiber_handle.HealthCheck(fiber_handle.HealthCheckConfig{Path: "/health"}))
	app.Use(fiber_handle.NewApiTrace())
	app.Use(logger.NewApiLogger(logger.Config{Logger: logger.GetLogger()}))
	return app
}
