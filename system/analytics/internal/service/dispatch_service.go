package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	errorc "github.com/Renagang21/o4o-platform-sub035/pkg/core/err"
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/logger"
	"github.com/Renagang21/o4o-platform-sub035/pkg/notifier"
	"github.com/Renagang21/o4o-platform-sub035/pkg/workqueue"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics/internal/model"
)

// DispatchService 通知分发服务：把业务事件转成Notification并经任务队列投递，
// 投递失败只记日志，永远不影响触发方
type DispatchService struct {
	manager *notifier.Manager
	queue   *workqueue.Queue
	log     *logger.Log
	err     *errorc.ErrorBuilder
}

// NewDispatchService 创建通知分发服务实例
func NewDispatchService(manager *notifier.Manager, queue *workqueue.Queue, log *logger.Log) *DispatchService {
	return &DispatchService{
		manager: manager,
		queue:   queue,
		log:     log.WithEntryName("DispatchService"),
		err:     errorc.NewErrorBuilder("DispatchService"),
	}
}

// notifierTypesFor 业务渠道到通知器类型的映射
func notifierTypesFor(channels model.ChannelList) []notifier.NotifierType {
	types := make([]notifier.NotifierType, 0, len(channels))
	for _, ch := range channels {
		switch ch {
		case model.ChannelDashboard:
			types = append(types, notifier.NotifierTypeDashboard)
		case model.ChannelEmail:
			types = append(types, notifier.NotifierTypeEmail)
		case model.ChannelSlack:
			types = append(types, notifier.NotifierTypeSlack)
		case model.ChannelWebhook:
			types = append(types, notifier.NotifierTypeWebhook)
		}
	}
	return types
}

// levelForSeverity 告警级别到通知级别的映射
func levelForSeverity(severity model.AlertSeverity) notifier.NotificationLevel {
	switch severity {
	case model.AlertSeverityCritical:
		return notifier.NotificationLevelCritical
	case model.AlertSeverityHigh:
		return notifier.NotificationLevelError
	case model.AlertSeverityMedium:
		return notifier.NotificationLevelWarning
	default:
		return notifier.NotificationLevelInfo
	}
}

// Dispatch 异步投递一条通知到指定渠道
func (s *DispatchService) Dispatch(title, message string, urgent bool, channels model.ChannelList, labels map[string]string) {
	level := notifier.NotificationLevelInfo
	if urgent {
		level = notifier.NotificationLevelCritical
	}

	s.dispatch(&notifier.Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   message,
		Level:     level,
		Labels:    labels,
		CreatedAt: time.Now(),
	}, channels)
}

// DispatchAlert 投递告警创建通知
func (s *DispatchService) DispatchAlert(alert *model.Alert) {
	s.dispatch(&notifier.Notification{
		ID:      uuid.NewString(),
		Title:   alert.Title,
		Content: alert.Message,
		Level:   levelForSeverity(alert.Severity),
		Labels: map[string]string{
			"alertId":  alert.ID,
			"type":     string(alert.Type),
			"severity": string(alert.Severity),
		},
		CreatedAt: time.Now(),
	}, alert.Channels)
}

// DispatchEscalation 投递告警升级通知，升级通知始终为紧急级别
func (s *DispatchService) DispatchEscalation(alert *model.Alert) {
	s.dispatch(&notifier.Notification{
		ID:      uuid.NewString(),
		Title:   "告警升级: " + alert.Title,
		Content: alert.Message,
		Level:   notifier.NotificationLevelCritical,
		Labels: map[string]string{
			"alertId":   alert.ID,
			"type":      string(alert.Type),
			"severity":  string(alert.Severity),
			"escalated": "true",
		},
		CreatedAt: time.Now(),
	}, alert.Channels)
}

// DispatchReport 投递报表完成通知
func (s *DispatchService) DispatchReport(report *model.Report) {
	s.dispatch(&notifier.Notification{
		ID:      uuid.NewString(),
		Title:   "报表生成完成: " + report.Title,
		Content: "统计周期 " + report.PeriodStart.Format("2006-01-02") + " 至 " + report.PeriodEnd.Format("2006-01-02"),
		Level:   notifier.NotificationLevelInfo,
		Labels: map[string]string{
			"reportId": report.ID,
			"type":     string(report.Type),
			"category": string(report.Category),
		},
		CreatedAt: time.Now(),
	}, model.ChannelList{model.ChannelDashboard, model.ChannelEmail})
}

func (s *DispatchService) dispatch(notification *notifier.Notification, channels model.ChannelList) {
	types := notifierTypesFor(channels)
	if len(types) == 0 {
		return
	}

	if err := s.queue.Submit(workqueue.Job{
		Name: "notification-dispatch",
		Run: func(ctx context.Context) error {
			results := s.manager.SendNotification(notification, types...)
			for _, r := range results {
				if !r.Success {
					s.log.WithField("notifier", r.NotifierName).
						WithField("error", r.Error).
						Warn("通知渠道投递失败")
				}
			}
			return nil
		},
	}); err != nil {
		s.log.WithErr(err).WithField("title", notification.Title).Warn("通知任务入队失败")
	}
}
