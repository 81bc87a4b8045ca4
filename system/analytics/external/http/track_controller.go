package http

import (
	errorc "github.com/Renagang21/o4o-platform-sub035/pkg/core/err"
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/logger"
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/model/common"
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/result"
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/util"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics/api/dto"
	internalapp "github.com/Renagang21/o4o-platform-sub035/system/analytics/internal/app"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics/internal/model"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics/internal/service"
	"github.com/Renagang21/o4o-platform-sub035/utils"

	"github.com/gofiber/fiber/v2"
)

// AnalyticsTrackController 前端埋点采集控制器。
// 采集接口尽力而为：入库失败只记日志，始终返回成功，避免影响业务页面。
type AnalyticsTrackController struct {
	app *internalapp.App
	err *errorc.ErrorBuilder
	log *logger.Log
}

// NewAnalyticsTrackController 创建埋点采集控制器
func NewAnalyticsTrackController(app *internalapp.App) *AnalyticsTrackController {
	return &AnalyticsTrackController{
		app: app,
		err: errorc.NewErrorBuilder("AnalyticsTrackController"),
		log: logger.GetLogger().WithEntryName("AnalyticsTrackController"),
	}
}

// RegisterRoutes 注册路由
func (c *AnalyticsTrackController) RegisterRoutes(api fiber.Router) {
	track := api.Group("/analytics")
	track.Post("/actions", c.TrackAction)
	track.Post("/page-views", c.TrackPageView)
	track.Post("/errors", c.TrackError)
	track.Post("/sessions/start", c.StartSession)
	track.Post("/sessions/end", c.EndSession)
	track.Post("/metrics", c.RecordMetric)
}

// TrackAction 上报用户行为
func (c *AnalyticsTrackController) TrackAction(ctx *fiber.Ctx) error {
	var req dto.TrackActionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求参数失败", err).WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}
	if errMsg, err := utils.Validate(&req); err != nil {
		return c.err.New(errMsg, err).WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}

	goCtx := util.Context(ctx)
	_, err := c.app.IngestService.RecordAction(goCtx, service.ActionInput{
		UserID:         req.UserID,
		SessionID:      req.SessionID,
		Type:           model.ActionType(req.Type),
		TargetURL:      req.TargetURL,
		TargetElement:  req.TargetElement,
		ResponseTimeMs: req.ResponseTimeMs,
		IsError:        req.IsError,
		ErrorMessage:   req.ErrorMessage,
		Metadata:       common.JSON(req.Metadata),
	})
	if err != nil {
		c.log.WithErr(err).WithTrace(goCtx).Warn("行为采集失败")
	}

	return result.OK(ctx, fiber.Map{"accepted": true})
}

// TrackPageView 上报页面访问
func (c *AnalyticsTrackController) TrackPageView(ctx *fiber.Ctx) error {
	var req dto.TrackPageViewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求参数失败", err).WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}
	if errMsg, err := utils.Validate(&req); err != nil {
		return c.err.New(errMsg, err).WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}

	goCtx := util.Context(ctx)
	if _, err := c.app.IngestService.TrackPageView(goCtx, req.UserID, req.SessionID, req.URL, req.Title); err != nil {
		c.log.WithErr(err).WithTrace(goCtx).Warn("页面访问采集失败")
	}

	return result.OK(ctx, fiber.Map{"accepted": true})
}

// TrackError 上报前端错误
func (c *AnalyticsTrackController) TrackError(ctx *fiber.Ctx) error {
	var req dto.TrackErrorRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求参数失败", err).WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}
	if errMsg, err := utils.Validate(&req); err != nil {
		return c.err.New(errMsg, err).WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}

	goCtx := util.Context(ctx)
	if _, err := c.app.IngestService.TrackError(goCtx, req.UserID, req.SessionID, req.Message, req.URL); err != nil {
		c.log.WithErr(err).WithTrace(goCtx).Warn("错误采集失败")
	}

	return result.OK(ctx, fiber.Map{"accepted": true})
}

// StartSession 会话开始或心跳
func (c *AnalyticsTrackController) StartSession(ctx *fiber.Ctx) error {
	var req dto.SessionStartRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求参数失败", err).WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}
	if errMsg, err := utils.Validate(&req); err != nil {
		return c.err.New(errMsg, err).WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}

	userAgent := req.UserAgent
	if userAgent == "" {
		userAgent = ctx.Get(fiber.HeaderUserAgent)
	}

	goCtx := util.Context(ctx)
	session, err := c.app.IngestService.StartOrTouchSession(goCtx, req.SessionID, service.SessionAttrs{
		UserID:    req.UserID,
		UserAgent: userAgent,
	})
	if err != nil {
		c.log.WithErr(err).WithTrace(goCtx).Warn("会话开始处理失败")
		return result.OK(ctx, fiber.Map{"accepted": true})
	}

	return result.OK(ctx, session)
}

// EndSession 会话结束，幂等
func (c *AnalyticsTrackController) EndSession(ctx *fiber.Ctx) error {
	var req dto.SessionEndRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求参数失败", err).WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}
	if errMsg, err := utils.Validate(&req); err != nil {
		return c.err.New(errMsg, err).WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}

	goCtx := util.Context(ctx)
	if _, err := c.app.IngestService.EndSession(goCtx, req.SessionID); err != nil {
		c.log.WithErr(err).WithTrace(goCtx).Warn("会话结束处理失败")
	}

	return result.OK(ctx, fiber.Map{"accepted": true})
}

// RecordMetric 上报系统指标
func (c *AnalyticsTrackController) RecordMetric(ctx *fiber.Ctx) error {
	var req dto.RecordMetricRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求参数失败", err).WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}
	if errMsg, err := utils.Validate(&req); err != nil {
		return c.err.New(errMsg, err).WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}

	goCtx := util.Context(ctx)
	metric, err := c.app.IngestService.RecordMetric(goCtx, service.MetricInput{
		Name:      req.Name,
		Type:      model.MetricType(req.Type),
		Category:  model.MetricCategory(req.Category),
		Value:     req.Value,
		Unit:      req.Unit,
		Source:    req.Source,
		Endpoint:  req.Endpoint,
		Component: req.Component,
		Tags:      common.JSON(req.Tags),
		Metadata:  common.JSON(req.Metadata),
	})
	if err != nil {
		c.log.WithErr(err).WithTrace(goCtx).Warn("指标采集失败")
		return result.OK(ctx, fiber.Map{"accepted": true})
	}

	return result.OK(ctx, metric)
}
