package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	errorc "github.com/Renagang21/o4o-platform-sub035/pkg/core/err"
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/logger"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics/internal/dao"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics/internal/model"
)

// thresholdRule 固定的指标阈值规则
type thresholdRule struct {
	Category  model.MetricCategory
	Threshold float64
	Severity  model.AlertSeverity
	Type      model.AlertType
	Unit      string
}

// 规则表：每条命中都会新建一条告警（不做去重）
var thresholdRules = []thresholdRule{
	{Category: model.MetricCategoryResponseTime, Threshold: 1000, Severity: model.AlertSeverityHigh, Type: model.AlertTypePerformance, Unit: "ms"},
	{Category: model.MetricCategoryErrorRate, Threshold: 5, Severity: model.AlertSeverityCritical, Type: model.AlertTypeError, Unit: "%"},
	{Category: model.MetricCategoryMemoryUsage, Threshold: 85, Severity: model.AlertSeverityHigh, Type: model.AlertTypeSystem, Unit: "%"},
}

// AlertService 告警引擎：阈值评估、状态机流转、自动升级
type AlertService struct {
	AlertDao    *dao.AlertDao
	dispatchSvc *DispatchService
	log         *logger.Log
	err         *errorc.ErrorBuilder
}

// NewAlertService 创建告警引擎实例
func NewAlertService(alertDao *dao.AlertDao, dispatchSvc *DispatchService, log *logger.Log) *AlertService {
	return &AlertService{
		AlertDao:    alertDao,
		dispatchSvc: dispatchSvc,
		log:         log.WithEntryName("AlertService"),
		err:         errorc.NewErrorBuilder("AlertService"),
	}
}

// matchThresholdRule 查找指标命中的规则，严格大于阈值才算命中
func matchThresholdRule(metric *model.Metric) (thresholdRule, bool) {
	for _, rule := range thresholdRules {
		if metric.Category != rule.Category {
			continue
		}
		if metric.Value <= rule.Threshold {
			return thresholdRule{}, false
		}
		return rule, true
	}
	return thresholdRule{}, false
}

// EvaluateMetric 按规则表评估指标，命中则创建ACTIVE告警并触发通知；未命中返回nil
func (s *AlertService) EvaluateMetric(ctx context.Context, metric *model.Metric) (*model.Alert, error) {
	rule, ok := matchThresholdRule(metric)
	if !ok {
		return nil, nil
	}
	return s.CreateAlert(ctx, CreateAlertInput{
		Type:         rule.Type,
		Severity:     rule.Severity,
		Title:        fmt.Sprintf("%s 超过阈值", metric.Name),
		Message:      fmt.Sprintf("%s 当前值 %.2f%s，阈值 %.2f%s", metric.Name, metric.Value, rule.Unit, rule.Threshold, rule.Unit),
		MetricName:   metric.Name,
		CurrentValue: &metric.Value,
		Threshold:    &rule.Threshold,
		Comparison:   ">",
		Unit:         rule.Unit,
	})
}

// CreateAlertInput 创建告警入参
type CreateAlertInput struct {
	Type         model.AlertType
	Severity     model.AlertSeverity
	Title        string
	Message      string
	MetricName   string
	CurrentValue *float64
	Threshold    *float64
	Comparison   string
	Unit         string
}

// CreateAlert 创建一条ACTIVE告警并异步触发通知
func (s *AlertService) CreateAlert(ctx context.Context, input CreateAlertInput) (*model.Alert, error) {
	if input.Title == "" {
		return nil, s.err.New("告警标题不能为空", nil).ValidWithCtx()
	}

	now := time.Now()
	alert := &model.Alert{
		Type:            input.Type,
		Severity:        input.Severity,
		Status:          model.AlertStatusActive,
		Title:           input.Title,
		Message:         input.Message,
		MetricName:      input.MetricName,
		CurrentValue:    input.CurrentValue,
		Threshold:       input.Threshold,
		Comparison:      input.Comparison,
		Unit:            input.Unit,
		Channels:        model.ChannelsForSeverity(input.Severity),
		OccurrenceCount: 1,
		FirstOccurredAt: now,
		LastOccurredAt:  now,
	}
	alert.ID = uuid.NewString()

	if err := s.AlertDao.Create(ctx, alert); err != nil {
		return nil, err
	}

	s.dispatchSvc.DispatchAlert(alert)

	return alert, nil
}

// GetAlert 查询单条告警
func (s *AlertService) GetAlert(ctx context.Context, id string) (*model.Alert, error) {
	alert, err := s.AlertDao.FindOneByColumn(ctx, "id", id)
	if err != nil {
		if errorc.IsNotFound(err) {
			return nil, s.err.NotFound("告警不存在")
		}
		return nil, err
	}
	return alert, nil
}

// Acknowledge 确认告警：仅允许 ACTIVE → ACKNOWLEDGED
func (s *AlertService) Acknowledge(ctx context.Context, id string, actor string, note string) (*model.Alert, error) {
	alert, err := s.GetAlert(ctx, id)
	if err != nil {
		return nil, err
	}

	if !alert.Status.CanTransitionTo(model.AlertStatusAcknowledged) {
		return nil, s.err.InvalidState(fmt.Sprintf("告警状态 %s 不能确认", alert.Status))
	}

	now := time.Now()
	affected, err := s.AlertDao.TransitionStatus(ctx, id, alert.Status, model.AlertStatusAcknowledged, map[string]interface{}{
		"acknowledged_by":     actor,
		"acknowledged_at":     now,
		"acknowledgment_note": note,
	})
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, s.err.InvalidState("告警状态已被并发修改")
	}

	return s.GetAlert(ctx, id)
}

// Resolve 处理告警：ACTIVE/ACKNOWLEDGED → RESOLVED
func (s *AlertService) Resolve(ctx context.Context, id string, actor string, note string, action string) (*model.Alert, error) {
	alert, err := s.GetAlert(ctx, id)
	if err != nil {
		return nil, err
	}

	if !alert.Status.CanTransitionTo(model.AlertStatusResolved) {
		return nil, s.err.InvalidState(fmt.Sprintf("告警状态 %s 不能处理", alert.Status))
	}

	now := time.Now()
	affected, err := s.AlertDao.TransitionStatus(ctx, id, alert.Status, model.AlertStatusResolved, map[string]interface{}{
		"resolved_by":       actor,
		"resolved_at":       now,
		"resolution_note":   note,
		"resolution_action": action,
	})
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, s.err.InvalidState("告警状态已被并发修改")
	}

	return s.GetAlert(ctx, id)
}

// Dismiss 忽略告警：ACTIVE/ACKNOWLEDGED → DISMISSED
func (s *AlertService) Dismiss(ctx context.Context, id string, actor string, note string) (*model.Alert, error) {
	alert, err := s.GetAlert(ctx, id)
	if err != nil {
		return nil, err
	}

	if !alert.Status.CanTransitionTo(model.AlertStatusDismissed) {
		return nil, s.err.InvalidState(fmt.Sprintf("告警状态 %s 不能忽略", alert.Status))
	}

	now := time.Now()
	affected, err := s.AlertDao.TransitionStatus(ctx, id, alert.Status, model.AlertStatusDismissed, map[string]interface{}{
		"resolved_by":     actor,
		"resolved_at":     now,
		"resolution_note": note,
	})
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, s.err.InvalidState("告警状态已被并发修改")
	}

	return s.GetAlert(ctx, id)
}

// RecordRecurrence 显式记录一次重复发生
func (s *AlertService) RecordRecurrence(ctx context.Context, id string) (*model.Alert, error) {
	affected, err := s.AlertDao.IncrementOccurrence(ctx, id, time.Now())
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, s.err.NotFound("告警不存在")
	}
	return s.GetAlert(ctx, id)
}

// SweepEscalations 升级扫描：将存在超过阈值分钟数、级别HIGH/CRITICAL、仍ACTIVE且未升级的
// 告警标记为已升级，强制追加EMAIL渠道并发出升级通知。条件更新保证每条告警至多升级一次。
func (s *AlertService) SweepEscalations(ctx context.Context, ageThresholdMinutes int) (int, error) {
	now := time.Now()
	cutoff := now.Add(-time.Duration(ageThresholdMinutes) * time.Minute)

	candidates, err := s.AlertDao.FindEscalationCandidates(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	rule := fmt.Sprintf("age>=%dm", ageThresholdMinutes)
	escalated := 0
	for _, alert := range candidates {
		channels := alert.Channels.WithChannel(model.ChannelEmail)

		affected, err := s.AlertDao.MarkEscalated(ctx, alert.ID, now, rule, channels)
		if err != nil {
			s.log.WithErr(err).WithField("alertId", alert.ID).Error("升级告警失败")
			continue
		}
		if affected == 0 {
			// 并发的确认/处理或另一轮扫描抢先，跳过
			continue
		}

		alert.IsEscalated = true
		alert.EscalatedAt = &now
		alert.Channels = channels
		s.dispatchSvc.DispatchEscalation(alert)
		escalated++
	}

	return escalated, nil
}

// ListAlerts 按状态分页查询告警
func (s *AlertService) ListAlerts(ctx context.Context, status model.AlertStatus, pageNum, pageSize int) ([]*model.Alert, int64, error) {
	if pageNum <= 0 {
		pageNum = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return s.AlertDao.FindPageByStatus(ctx, status, pageNum, pageSize)
}
