package service

import (
	"context"
	"fmt"
	"time"

	errorc "github.com/Renagang21/o4o-platform-sub035/pkg/core/err"
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/logger"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics/internal/dao"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics/internal/model"
)

// 实时监控与业务洞察的固定阈值
const (
	realtimeResponseTimeMs = 1000
	realtimeErrorCount     = 10
	churnRateThresholdPct  = 20
	lowEngagementRatioPct  = 50
)

// MonitorService 定时监控：实时指标检查、健康巡检、业务洞察
type MonitorService struct {
	SessionDao  *dao.SessionDao
	ActionDao   *dao.ActionDao
	ingestSvc   *IngestService
	alertSvc    *AlertService
	overviewSvc *OverviewService
	log         *logger.Log
	err         *errorc.ErrorBuilder
}

// NewMonitorService 创建监控服务实例
func NewMonitorService(sessionDao *dao.SessionDao, actionDao *dao.ActionDao, ingestSvc *IngestService, alertSvc *AlertService, overviewSvc *OverviewService, log *logger.Log) *MonitorService {
	return &MonitorService{
		SessionDao:  sessionDao,
		ActionDao:   actionDao,
		ingestSvc:   ingestSvc,
		alertSvc:    alertSvc,
		overviewSvc: overviewSvc,
		log:         log.WithEntryName("MonitorService"),
		err:         errorc.NewErrorBuilder("MonitorService"),
	}
}

// RunRealtimeMonitoring 检查最近5分钟的响应时间与错误数，越限即告警，
// 并把当前活跃会话数记录为一条指标
func (s *MonitorService) RunRealtimeMonitoring(ctx context.Context) error {
	now := time.Now()
	since := now.Add(-5 * time.Minute)

	avgResponse, err := s.ActionDao.AvgResponseTimeInWindow(ctx, since, now)
	if err != nil {
		return err
	}
	if avgResponse > realtimeResponseTimeMs {
		threshold := float64(realtimeResponseTimeMs)
		if _, err := s.alertSvc.CreateAlert(ctx, CreateAlertInput{
			Type:         model.AlertTypePerformance,
			Severity:     model.AlertSeverityHigh,
			Title:        "近5分钟平均响应时间过高",
			Message:      fmt.Sprintf("近5分钟平均响应时间 %.2fms，阈值 %.0fms", avgResponse, threshold),
			MetricName:   "realtime-response-time",
			CurrentValue: &avgResponse,
			Threshold:    &threshold,
			Comparison:   ">",
			Unit:         "ms",
		}); err != nil {
			s.log.WithErr(err).Error("创建响应时间告警失败")
		}
	}

	errorCount, err := s.ActionDao.CountErrorsInWindow(ctx, since, now)
	if err != nil {
		return err
	}
	if errorCount > realtimeErrorCount {
		current := float64(errorCount)
		threshold := float64(realtimeErrorCount)
		if _, err := s.alertSvc.CreateAlert(ctx, CreateAlertInput{
			Type:         model.AlertTypeError,
			Severity:     model.AlertSeverityCritical,
			Title:        "近5分钟错误数激增",
			Message:      fmt.Sprintf("近5分钟错误数 %d，阈值 %d", errorCount, realtimeErrorCount),
			MetricName:   "realtime-error-count",
			CurrentValue: &current,
			Threshold:    &threshold,
			Comparison:   ">",
			Unit:         "count",
		}); err != nil {
			s.log.WithErr(err).Error("创建错误数告警失败")
		}
	}

	activeSessions, err := s.SessionDao.CountActive(ctx)
	if err != nil {
		return err
	}
	_, err = s.ingestSvc.RecordMetric(ctx, MetricInput{
		Name:     "active-sessions",
		Type:     model.MetricTypeUsage,
		Category: model.MetricCategoryActiveSessions,
		Value:    float64(activeSessions),
		Unit:     "count",
		Source:   "monitor",
	})
	return err
}

// RunHealthCheck 基于最近1天的总览判定健康度并告警
func (s *MonitorService) RunHealthCheck(ctx context.Context) error {
	overview, err := s.overviewSvc.ComputeOverview(ctx, 1)
	if err != nil {
		return err
	}

	var severity model.AlertSeverity
	switch overview.Health {
	case HealthCritical:
		severity = model.AlertSeverityCritical
	case HealthWarning:
		severity = model.AlertSeverityMedium
	default:
		s.log.WithField("health", overview.Health).Debug("健康巡检正常")
		return nil
	}

	_, err = s.alertSvc.CreateAlert(ctx, CreateAlertInput{
		Type:     model.AlertTypeSystem,
		Severity: severity,
		Title:    fmt.Sprintf("系统健康度 %s", overview.Health),
		Message: fmt.Sprintf("近1天错误率 %.2f%%，平均响应时间 %.2fms",
			overview.ErrorRatePct, overview.AvgResponseTimeMs),
		MetricName: "system-health",
	})
	return err
}

// RunBusinessInsights 用最近3天的会话评估流失率与低参与度占比，越限即告警
func (s *MonitorService) RunBusinessInsights(ctx context.Context) error {
	now := time.Now()
	since := now.AddDate(0, 0, -3)

	sessions, err := s.SessionDao.FindActiveInWindow(ctx, since, now)
	if err != nil {
		return err
	}

	scoreByUser := make(map[string]float64)
	for _, sess := range sessions {
		if sess.UserID == "" {
			continue
		}
		scoreByUser[sess.UserID] += sess.EngagementScore()
	}
	activeNow := len(scoreByUser)

	prevSessions, err := s.SessionDao.FindActiveInWindow(ctx, since.AddDate(0, 0, -3), since)
	if err != nil {
		return err
	}
	prevUsers := make(map[string]struct{})
	for _, sess := range prevSessions {
		if sess.UserID != "" {
			prevUsers[sess.UserID] = struct{}{}
		}
	}

	var churned int
	for userID := range prevUsers {
		if _, ok := scoreByUser[userID]; !ok {
			churned++
		}
	}
	if len(prevUsers) > 0 {
		churnRate := float64(churned) / float64(len(prevUsers)) * 100
		if churnRate > churnRateThresholdPct {
			threshold := float64(churnRateThresholdPct)
			if _, err := s.alertSvc.CreateAlert(ctx, CreateAlertInput{
				Type:         model.AlertTypeBusiness,
				Severity:     model.AlertSeverityHigh,
				Title:        "用户流失率过高",
				Message:      fmt.Sprintf("近3天流失率 %.2f%%，阈值 %d%%", churnRate, churnRateThresholdPct),
				MetricName:   "churn-rate",
				CurrentValue: &churnRate,
				Threshold:    &threshold,
				Comparison:   ">",
				Unit:         "%",
			}); err != nil {
				s.log.WithErr(err).Error("创建流失率告警失败")
			}
		}
	}

	if activeNow > 0 {
		var lowEngagement int
		for _, score := range scoreByUser {
			if score < lowEngagementThreshold {
				lowEngagement++
			}
		}
		ratio := float64(lowEngagement) / float64(activeNow) * 100
		if ratio > lowEngagementRatioPct {
			threshold := float64(lowEngagementRatioPct)
			if _, err := s.alertSvc.CreateAlert(ctx, CreateAlertInput{
				Type:         model.AlertTypeBusiness,
				Severity:     model.AlertSeverityMedium,
				Title:        "低参与度用户占比过高",
				Message:      fmt.Sprintf("近3天低参与度用户占比 %.2f%%，阈值 %d%%", ratio, lowEngagementRatioPct),
				MetricName:   "low-engagement-ratio",
				CurrentValue: &ratio,
				Threshold:    &threshold,
				Comparison:   ">",
				Unit:         "%",
			}); err != nil {
				s.log.WithErr(err).Error("创建低参与度告警失败")
			}
		}
	}

	return nil
}
