package app

import (
	"github.com/Renagang21/o4o-platform-sub035/base"
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/start"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics"

	"github.com/gofiber/fiber/v2"
)

// App 应用组合根，聚合所有业务模块
type App struct {
	AnalyticsModule *analytics.Module
}

// NewApp 创建应用组合根，依赖由 base 中已初始化好的基础设施显式传入
func NewApp() *App {
	analyticsModule := analytics.NewModule(analytics.Deps{
		DB:       base.DB,
		Cache:    base.Cache,
		Queue:    base.Queue,
		Notifier: base.Notifier,
		Log:      base.Logger,
	})

	return &App{
		AnalyticsModule: analyticsModule,
	}
}

// GetApp 创建 Fiber 应用
func GetApp() *fiber.App {
	return start.GetApp()
}
