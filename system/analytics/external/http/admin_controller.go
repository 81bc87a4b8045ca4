package http

import (
	"strconv"

	"github.com/google/uuid"

	errorc "github.com/Renagang21/o4o-platform-sub035/pkg/core/err"
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/logger"
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/result"
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/util"
	"github.com/Renagang21/o4o-platform-sub035/pkg/notifier"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics/api/dto"
	internalapp "github.com/Renagang21/o4o-platform-sub035/system/analytics/internal/app"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics/internal/model"
	"github.com/Renagang21/o4o-platform-sub035/utils"

	"github.com/gofiber/fiber/v2"
)

// AnalyticsAdminController 运营分析后台管理控制器
type AnalyticsAdminController struct {
	app *internalapp.App
	err *errorc.ErrorBuilder
	log *logger.Log
}

// NewAnalyticsAdminController 创建运营分析后台管理控制器
func NewAnalyticsAdminController(app *internalapp.App) *AnalyticsAdminController {
	return &AnalyticsAdminController{
		app: app,
		err: errorc.NewErrorBuilder("AnalyticsAdminController"),
		log: logger.GetLogger().WithEntryName("AnalyticsAdminController"),
	}
}

// RegisterRoutes 注册路由
func (c *AnalyticsAdminController) RegisterRoutes(admin fiber.Router) {
	analytics := admin.Group("/analytics")

	// 总览与统计
	analytics.Get("/overview", c.GetOverview)
	analytics.Get("/engagement", c.GetUserEngagement)
	analytics.Get("/content-usage", c.GetContentUsage)
	analytics.Get("/dashboard/notifications", c.GetDashboardFeed)

	// 告警生命周期
	alertRouter := analytics.Group("/alerts")
	alertRouter.Get("/", c.ListAlerts)
	alertRouter.Get("/:id", c.GetAlert)
	alertRouter.Post("/:id/acknowledge", c.AcknowledgeAlert)
	alertRouter.Post("/:id/resolve", c.ResolveAlert)
	alertRouter.Post("/:id/dismiss", c.DismissAlert)
	alertRouter.Post("/:id/recurrence", c.RecordRecurrence)

	// 报表
	reportRouter := analytics.Group("/reports")
	reportRouter.Get("/", c.ListReports)
	reportRouter.Get("/:id", c.GetReport)
	reportRouter.Post("/", c.GenerateReport)

	// 手动触发定时任务
	jobRouter := analytics.Group("/jobs")
	jobRouter.Post("/realtime-monitoring", c.TriggerRealtimeMonitoring)
	jobRouter.Post("/health-check", c.TriggerHealthCheck)
	jobRouter.Post("/business-insights", c.TriggerBusinessInsights)
	jobRouter.Post("/escalation-sweep", c.TriggerEscalationSweep)

	// 通知渠道配置
	channelRouter := analytics.Group("/channels")
	channelRouter.Get("/", c.ListChannels)
	channelRouter.Post("/", c.CreateChannel)
	channelRouter.Put("/:id", c.UpdateChannel)
	channelRouter.Delete("/:id", c.DeleteChannel)
}

func (c *AnalyticsAdminController) windowDays(ctx *fiber.Ctx) int {
	days, err := strconv.Atoi(ctx.Query("windowDays", "7"))
	if err != nil || days <= 0 {
		return 7
	}
	return days
}

// GetOverview 查询运营总览
func (c *AnalyticsAdminController) GetOverview(ctx *fiber.Ctx) error {
	overview, err := c.app.OverviewService.GetOverview(util.Context(ctx), c.windowDays(ctx))
	return result.Once(ctx, overview, err)
}

// GetUserEngagement 查询用户参与度排行
func (c *AnalyticsAdminController) GetUserEngagement(ctx *fiber.Ctx) error {
	limit, _ := strconv.Atoi(ctx.Query("limit", "10"))
	engagement, err := c.app.OverviewService.GetUserEngagement(util.Context(ctx), c.windowDays(ctx), limit)
	if err != nil {
		return err
	}
	return result.OK(ctx, fiber.Map{
		"total":   len(engagement),
		"content": engagement,
	})
}

// GetContentUsage 查询内容使用统计
func (c *AnalyticsAdminController) GetContentUsage(ctx *fiber.Ctx) error {
	usage, err := c.app.OverviewService.GetContentUsage(util.Context(ctx), c.windowDays(ctx))
	return result.Once(ctx, usage, err)
}

// GetDashboardFeed 查询仪表盘最近通知
func (c *AnalyticsAdminController) GetDashboardFeed(ctx *fiber.Ctx) error {
	limit, err := strconv.Atoi(ctx.Query("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	notifications := c.app.Notifier.RecentDashboard(limit)
	return result.OK(ctx, fiber.Map{
		"total":   len(notifications),
		"content": notifications,
	})
}

// ListAlerts 分页查询告警
func (c *AnalyticsAdminController) ListAlerts(ctx *fiber.Ctx) error {
	pageNum, _ := strconv.Atoi(ctx.Query("pageNum", "1"))
	pageSize, _ := strconv.Atoi(ctx.Query("pageSize", "20"))
	status := model.AlertStatus(ctx.Query("status"))

	alerts, total, err := c.app.AlertService.ListAlerts(util.Context(ctx), status, pageNum, pageSize)
	if err != nil {
		return err
	}
	return result.OK(ctx, fiber.Map{
		"total":   total,
		"content": alerts,
	})
}

// GetAlert 查询告警详情
func (c *AnalyticsAdminController) GetAlert(ctx *fiber.Ctx) error {
	alert, err := c.app.AlertService.GetAlert(util.Context(ctx), ctx.Params("id"))
	return result.Once(ctx, alert, err)
}

func (c *AnalyticsAdminController) parseAlertAction(ctx *fiber.Ctx) (*dto.AlertActionRequest, error) {
	var req dto.AlertActionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return nil, c.err.New("解析请求参数失败", err).WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}
	if errMsg, err := utils.Validate(&req); err != nil {
		return nil, c.err.New(errMsg, err).WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}
	return &req, nil
}

// AcknowledgeAlert 确认告警
func (c *AnalyticsAdminController) AcknowledgeAlert(ctx *fiber.Ctx) error {
	req, err := c.parseAlertAction(ctx)
	if err != nil {
		return err
	}
	alert, err := c.app.AlertService.Acknowledge(util.Context(ctx), ctx.Params("id"), req.Actor, req.Note)
	if err != nil {
		return err
	}
	return result.OK(ctx, alert)
}

// ResolveAlert 处理告警
func (c *AnalyticsAdminController) ResolveAlert(ctx *fiber.Ctx) error {
	req, err := c.parseAlertAction(ctx)
	if err != nil {
		return err
	}
	alert, err := c.app.AlertService.Resolve(util.Context(ctx), ctx.Params("id"), req.Actor, req.Note, req.Action)
	if err != nil {
		return err
	}
	return result.OK(ctx, alert)
}

// DismissAlert 忽略告警
func (c *AnalyticsAdminController) DismissAlert(ctx *fiber.Ctx) error {
	req, err := c.parseAlertAction(ctx)
	if err != nil {
		return err
	}
	alert, err := c.app.AlertService.Dismiss(util.Context(ctx), ctx.Params("id"), req.Actor, req.Note)
	if err != nil {
		return err
	}
	return result.OK(ctx, alert)
}

// RecordRecurrence 记录告警重复发生
func (c *AnalyticsAdminController) RecordRecurrence(ctx *fiber.Ctx) error {
	alert, err := c.app.AlertService.RecordRecurrence(util.Context(ctx), ctx.Params("id"))
	if err != nil {
		return err
	}
	return result.OK(ctx, alert)
}

// ListReports 分页查询报表
func (c *AnalyticsAdminController) ListReports(ctx *fiber.Ctx) error {
	pageNum, _ := strconv.Atoi(ctx.Query("pageNum", "1"))
	pageSize, _ := strconv.Atoi(ctx.Query("pageSize", "20"))
	reportType := model.ReportType(ctx.Query("type"))
	category := model.ReportCategory(ctx.Query("category"))

	reports, total, err := c.app.ReportService.ListReports(util.Context(ctx), reportType, category, pageNum, pageSize)
	if err != nil {
		return err
	}
	return result.OK(ctx, fiber.Map{
		"total":   total,
		"content": reports,
	})
}

// GetReport 查询报表详情
func (c *AnalyticsAdminController) GetReport(ctx *fiber.Ctx) error {
	report, err := c.app.ReportService.GetReport(util.Context(ctx), ctx.Params("id"))
	return result.Once(ctx, report, err)
}

// GenerateReport 手动生成报表
func (c *AnalyticsAdminController) GenerateReport(ctx *fiber.Ctx) error {
	var req dto.GenerateReportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求参数失败", err).WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}
	if errMsg, err := utils.Validate(&req); err != nil {
		return c.err.New(errMsg, err).WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}

	category := model.ReportCategory(req.Category)
	if !category.IsValid() {
		return result.BadRequestNormal(ctx, "未知的报表分类", nil)
	}

	generatedBy := req.GeneratedBy
	if generatedBy == "" {
		generatedBy = "admin"
	}

	report, err := c.app.ReportService.Generate(util.Context(ctx), model.ReportTypeManual,
		category, req.PeriodStart.Time, req.PeriodEnd.Time, generatedBy)
	if err != nil {
		return err
	}
	return result.OK(ctx, report)
}

// TriggerRealtimeMonitoring 手动触发实时监控检查
func (c *AnalyticsAdminController) TriggerRealtimeMonitoring(ctx *fiber.Ctx) error {
	if err := c.app.MonitorService.RunRealtimeMonitoring(util.Context(ctx)); err != nil {
		return err
	}
	return result.OK(ctx, fiber.Map{"triggered": true})
}

// TriggerHealthCheck 手动触发健康巡检
func (c *AnalyticsAdminController) TriggerHealthCheck(ctx *fiber.Ctx) error {
	if err := c.app.MonitorService.RunHealthCheck(util.Context(ctx)); err != nil {
		return err
	}
	return result.OK(ctx, fiber.Map{"triggered": true})
}

// TriggerBusinessInsights 手动触发业务洞察
func (c *AnalyticsAdminController) TriggerBusinessInsights(ctx *fiber.Ctx) error {
	if err := c.app.MonitorService.RunBusinessInsights(util.Context(ctx)); err != nil {
		return err
	}
	return result.OK(ctx, fiber.Map{"triggered": true})
}

// TriggerEscalationSweep 手动触发告警升级扫描
func (c *AnalyticsAdminController) TriggerEscalationSweep(ctx *fiber.Ctx) error {
	escalated, err := c.app.AlertService.SweepEscalations(util.Context(ctx), 30)
	if err != nil {
		return err
	}
	return result.OK(ctx, fiber.Map{"escalated": escalated})
}

// ListChannels 查询通知渠道配置
func (c *AnalyticsAdminController) ListChannels(ctx *fiber.Ctx) error {
	configs := c.app.Notifier.GetNotifiers()
	return result.OK(ctx, fiber.Map{
		"total":   len(configs),
		"content": configs,
	})
}

func (c *AnalyticsAdminController) parseChannel(ctx *fiber.Ctx) (*notifier.NotifierConfig, error) {
	var req dto.NotifierChannelRequest
	if err := ctx.BodyParser(&req); err != nil {
		return nil, c.err.New("解析请求参数失败", err).WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}
	if errMsg, err := utils.Validate(&req); err != nil {
		return nil, c.err.New(errMsg, err).WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}

	return &notifier.NotifierConfig{
		ID:          req.ID,
		Type:        notifier.NotifierType(req.Type),
		Name:        req.Name,
		Config:      req.Config,
		Enabled:     req.Enabled,
		Description: req.Description,
	}, nil
}

// CreateChannel 创建通知渠道
func (c *AnalyticsAdminController) CreateChannel(ctx *fiber.Ctx) error {
	config, err := c.parseChannel(ctx)
	if err != nil {
		return err
	}
	if config.ID == "" {
		config.ID = uuid.NewString()
	}
	if err := c.app.Notifier.CreateNotifier(config); err != nil {
		return c.err.New("创建通知渠道失败", err).WithTraceID(util.Context(ctx))
	}
	return result.OK(ctx, config)
}

// UpdateChannel 更新通知渠道
func (c *AnalyticsAdminController) UpdateChannel(ctx *fiber.Ctx) error {
	config, err := c.parseChannel(ctx)
	if err != nil {
		return err
	}
	config.ID = ctx.Params("id")
	if err := c.app.Notifier.UpdateNotifier(config); err != nil {
		return c.err.New("更新通知渠道失败", err).WithTraceID(util.Context(ctx))
	}
	return result.OK(ctx, config)
}

// DeleteChannel 删除通知渠道
func (c *AnalyticsAdminController) DeleteChannel(ctx *fiber.Ctx) error {
	if err := c.app.Notifier.DeleteNotifier(ctx.Params("id")); err != nil {
		return c.err.New("删除通知渠道失败", err).WithTraceID(util.Context(ctx))
	}
	return result.OK(ctx, fiber.Map{"deleted": true})
}
