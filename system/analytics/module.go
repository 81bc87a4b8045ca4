package analytics

import (
	"context"
	"time"

	"github.com/Renagang21/o4o-platform-sub035/pkg/core/logger"
	"github.com/Renagang21/o4o-platform-sub035/pkg/scheduler"
	internalapp "github.com/Renagang21/o4o-platform-sub035/system/analytics/internal/app"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics/internal/model"
)

// Deps 组件的外部依赖（内部类型的公开别名，供组合根传入）
type Deps = internalapp.Deps

// Module 运营分析组件模块
type Module struct {
	internalApp *internalapp.App
	log         *logger.Log
}

// NewModule 创建运营分析组件模块
func NewModule(deps internalapp.Deps) *Module {
	log := deps.Log.WithEntryName("AnalyticsModule")

	return &Module{
		internalApp: internalapp.NewApp(deps),
		log:         log,
	}
}

// App 返回组件应用层
func (m *Module) App() *internalapp.App {
	return m.internalApp
}

// RegisterTasks 注册全部定时任务。分布式模式下只有持锁节点执行。
func (m *Module) RegisterTasks(s *scheduler.Scheduler) error {
	app := m.internalApp

	// 实时监控：每5分钟
	realtimeTask := scheduler.NewIntervalTask("analytics-realtime-monitoring",
		time.Now().Add(time.Minute), 5*time.Minute,
		scheduler.TaskExecuteModeDistributed, time.Minute,
		func(ctx context.Context) error {
			return app.MonitorService.RunRealtimeMonitoring(ctx)
		})
	if err := s.AddTask(realtimeTask); err != nil {
		return err
	}

	// 告警升级扫描：每15分钟
	sweepTask := scheduler.NewIntervalTask("analytics-escalation-sweep",
		time.Now().Add(time.Minute), 15*time.Minute,
		scheduler.TaskExecuteModeDistributed, time.Minute,
		func(ctx context.Context) error {
			_, err := app.AlertService.SweepEscalations(ctx, 30)
			return err
		})
	if err := s.AddTask(sweepTask); err != nil {
		return err
	}

	// 健康巡检：每小时整点
	healthTask, err := scheduler.NewCronTask("analytics-health-check", "0 0 * * * *",
		scheduler.TaskExecuteModeDistributed, 2*time.Minute,
		func(ctx context.Context) error {
			return app.MonitorService.RunHealthCheck(ctx)
		})
	if err != nil {
		return err
	}
	if err := s.AddTask(healthTask); err != nil {
		return err
	}

	// 日报：每天6点，按分类逐份生成
	dailyTask, err := scheduler.NewCronTask("analytics-daily-report", "0 0 6 * * *",
		scheduler.TaskExecuteModeDistributed, 10*time.Minute,
		func(ctx context.Context) error {
			return app.ReportService.GenerateScheduledSet(ctx, model.ReportTypeDaily, "scheduler")
		})
	if err != nil {
		return err
	}
	if err := s.AddTask(dailyTask); err != nil {
		return err
	}

	// 周报：每周一7点
	weeklyTask, err := scheduler.NewCronTask("analytics-weekly-report", "0 0 7 * * 1",
		scheduler.TaskExecuteModeDistributed, 10*time.Minute,
		func(ctx context.Context) error {
			return app.ReportService.GenerateScheduledSet(ctx, model.ReportTypeWeekly, "scheduler")
		})
	if err != nil {
		return err
	}
	if err := s.AddTask(weeklyTask); err != nil {
		return err
	}

	// 月报：每月1号8点
	monthlyTask, err := scheduler.NewCronTask("analytics-monthly-report", "0 0 8 1 * *",
		scheduler.TaskExecuteModeDistributed, 10*time.Minute,
		func(ctx context.Context) error {
			return app.ReportService.GenerateScheduledSet(ctx, model.ReportTypeMonthly, "scheduler")
		})
	if err != nil {
		return err
	}
	if err := s.AddTask(monthlyTask); err != nil {
		return err
	}

	// 业务洞察：每4小时
	insightsTask, err := scheduler.NewCronTask("analytics-business-insights", "0 0 */4 * * *",
		scheduler.TaskExecuteModeDistributed, 5*time.Minute,
		func(ctx context.Context) error {
			return app.MonitorService.RunBusinessInsights(ctx)
		})
	if err != nil {
		return err
	}
	if err := s.AddTask(insightsTask); err != nil {
		return err
	}

	m.log.Info("运营分析定时任务注册完成")
	return nil
}
