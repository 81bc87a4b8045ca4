package analytics

import (
	controller "github.com/Renagang21/o4o-platform-sub035/system/analytics/external/http"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 注册运营分析组件的所有 HTTP 路由
func RegisterRoutes(m *Module, api, admin fiber.Router) {
	// 对外埋点采集接口
	trackController := controller.NewAnalyticsTrackController(m.internalApp)
	trackController.RegisterRoutes(api)

	// 后台管理接口
	adminController := controller.NewAnalyticsAdminController(m.internalApp)
	adminController.RegisterRoutes(admin)
}
