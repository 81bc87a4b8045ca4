package router

import (
	"github.com/Renagang21/o4o-platform-sub035/app"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics"

	"github.com/gofiber/fiber/v2"
)

// Register 负责集中注册所有 HTTP 路由。
// 按规范：
//   - 只依赖 app.App（业务编排入口）和 fiber.App（HTTP Server）。
//   - 不直接依赖任何 DAO / Service / system/internal 包。
//   - 不包含业务逻辑，只做分组与路由绑定。
func Register(a *app.App, f *fiber.App) {
	// 公共 API 分组（前端埋点上报走这里）
	api := f.Group("/api")

	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"msg": "ok"})
	})

	// 后台管理路由分组
	admin := f.Group("/admin")

	// 注册运营分析组件路由
	analytics.RegisterRoutes(a.AnalyticsModule, api, admin)
}
