package app

import (
	"github.com/go-redis/cache/v9"
	"gorm.io/gorm"

	errorc "github.com/Renagang21/o4o-platform-sub035/pkg/core/err"
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/logger"
	"github.com/Renagang21/o4o-platform-sub035/pkg/notifier"
	"github.com/Renagang21/o4o-platform-sub035/pkg/workqueue"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics/internal/dao"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics/internal/service"
)

// Deps 组件的外部依赖，由组合根显式传入
type Deps struct {
	DB       *gorm.DB
	Cache    *cache.Cache
	Queue    *workqueue.Queue
	Notifier *notifier.Manager
	Log      *logger.Log
}

// App 运营分析组件应用层
type App struct {
	IngestService   *service.IngestService
	AlertService    *service.AlertService
	OverviewService *service.OverviewService
	ReportService   *service.ReportService
	MonitorService  *service.MonitorService
	DispatchService *service.DispatchService
	Notifier        *notifier.Manager
	log             *logger.Log
	err             *errorc.ErrorBuilder
}

// NewApp 创建运营分析组件应用层实例
func NewApp(deps Deps) *App {
	log := deps.Log.WithEntryName("AnalyticsApp")

	// 初始化 DAO
	sessionDao := dao.NewSessionDao(deps.DB, log)
	actionDao := dao.NewActionDao(deps.DB, log)
	metricDao := dao.NewMetricDao(deps.DB, log)
	alertDao := dao.NewAlertDao(deps.DB, log)
	reportDao := dao.NewReportDao(deps.DB, log)

	// 初始化 Service
	dispatchSvc := service.NewDispatchService(deps.Notifier, deps.Queue, log)
	alertSvc := service.NewAlertService(alertDao, dispatchSvc, log)
	ingestSvc := service.NewIngestService(sessionDao, actionDao, metricDao, alertSvc, deps.Queue, log)
	overviewSvc := service.NewOverviewService(sessionDao, actionDao, deps.Cache, log)
	reportSvc := service.NewReportService(reportDao, sessionDao, actionDao, dispatchSvc, log)
	monitorSvc := service.NewMonitorService(sessionDao, actionDao, ingestSvc, alertSvc, overviewSvc, log)

	return &App{
		IngestService:   ingestSvc,
		AlertService:    alertSvc,
		OverviewService: overviewSvc,
		ReportService:   reportSvc,
		MonitorService:  monitorSvc,
		DispatchService: dispatchSvc,
		Notifier:        deps.Notifier,
		log:             log,
		err:             errorc.NewErrorBuilder("AnalyticsApp"),
	}
}
