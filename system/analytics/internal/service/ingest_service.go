package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	errorc "github.com/Renagang21/o4o-platform-sub035/pkg/core/err"
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/logger"
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/model/common"
	"github.com/Renagang21/o4o-platform-sub035/pkg/workqueue"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics/internal/dao"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics/internal/model"
)

// IngestService 事件采集服务，所有入口都是尽力而为：内部失败只记日志，不影响上游请求
type IngestService struct {
	SessionDao *dao.SessionDao
	ActionDao  *dao.ActionDao
	MetricDao  *dao.MetricDao
	alertSvc   *AlertService
	queue      *workqueue.Queue
	log        *logger.Log
	err        *errorc.ErrorBuilder
}

// NewIngestService 创建采集服务实例
func NewIngestService(sessionDao *dao.SessionDao, actionDao *dao.ActionDao, metricDao *dao.MetricDao,
	alertSvc *AlertService, queue *workqueue.Queue, log *logger.Log) *IngestService {
	return &IngestService{
		SessionDao: sessionDao,
		ActionDao:  actionDao,
		MetricDao:  metricDao,
		alertSvc:   alertSvc,
		queue:      queue,
		log:        log.WithEntryName("IngestService"),
		err:        errorc.NewErrorBuilder("IngestService"),
	}
}

// ActionInput 上报行为的归一化入参
type ActionInput struct {
	UserID         string
	SessionID      string
	Type           model.ActionType
	TargetURL      string
	TargetElement  string
	ResponseTimeMs *float64
	IsError        bool
	ErrorMessage   string
	Metadata       common.JSON
}

// RecordAction 记录一条用户行为，会话计数通过任务队列异步更新，计数失败不影响行为落库
func (s *IngestService) RecordAction(ctx context.Context, input ActionInput) (*model.Action, error) {
	if input.Type == "" {
		return nil, s.err.New("行为类型不能为空", nil).ValidWithCtx()
	}

	action := &model.Action{
		UserID:         input.UserID,
		SessionID:      input.SessionID,
		Type:           input.Type,
		Category:       model.CategoryForActionType(input.Type),
		TargetURL:      input.TargetURL,
		TargetElement:  input.TargetElement,
		ResponseTimeMs: input.ResponseTimeMs,
		IsError:        input.IsError,
		ErrorMessage:   input.ErrorMessage,
		Metadata:       input.Metadata,
	}
	action.ID = uuid.NewString()

	if err := s.ActionDao.Create(ctx, action); err != nil {
		return nil, err
	}

	s.enqueueCounterUpdate(action.SessionID, action.Type)

	return action, nil
}

// enqueueCounterUpdate 异步更新会话计数，队列满或会话不存在都只记日志
func (s *IngestService) enqueueCounterUpdate(sessionID string, actionType model.ActionType) {
	if sessionID == "" {
		return
	}

	if err := s.queue.Submit(workqueue.Job{
		Name: "session-counter-update",
		Run: func(ctx context.Context) error {
			return s.updateSessionCounter(ctx, sessionID, actionType)
		},
	}); err != nil {
		s.log.WithErr(err).WithField("sessionId", sessionID).Warn("会话计数任务入队失败")
	}
}

// updateSessionCounter 按行为类型路由到对应计数列；会话不存在视为no-op
func (s *IngestService) updateSessionCounter(ctx context.Context, sessionID string, actionType model.ActionType) error {
	session, err := s.SessionDao.FindOneByColumn(ctx, "id", sessionID)
	if err != nil {
		if errorc.IsNotFound(err) {
			s.log.WithField("sessionId", sessionID).Debug("会话不存在，跳过计数更新")
			return nil
		}
		return err
	}

	now := time.Now()
	duration := session.DurationAt(now)

	var affected int64
	switch actionType {
	case model.ActionTypePageView:
		affected, err = s.SessionDao.IncrementCounter(ctx, sessionID, "page_view_count", now, duration)
	case model.ActionTypeErrorEncountered:
		affected, err = s.SessionDao.IncrementCounter(ctx, sessionID, "errors_encountered", now, duration)
	case model.ActionTypeFeedbackSubmitted:
		affected, err = s.SessionDao.IncrementCounter(ctx, sessionID, "feedback_submitted", now, duration)
	case model.ActionTypeContentViewed, model.ActionTypeContentCreated:
		affected, err = s.SessionDao.IncrementCounter(ctx, sessionID, "content_viewed", now, duration)
	default:
		affected, err = s.SessionDao.IncrementActionCount(ctx, sessionID, now, duration)
	}
	if err != nil {
		return err
	}
	if affected == 0 {
		s.log.WithField("sessionId", sessionID).Debug("会话已结束，跳过计数更新")
	}
	return nil
}

// MetricInput 上报指标的归一化入参
type MetricInput struct {
	Name      string
	Type      model.MetricType
	Category  model.MetricCategory
	Value     float64
	Unit      string
	Source    string
	Endpoint  string
	Component string
	Tags      common.JSON
	Metadata  common.JSON
}

// RecordMetric 记录一条指标采样并同步触发阈值检查；阈值检查失败不回滚已落库的指标
func (s *IngestService) RecordMetric(ctx context.Context, input MetricInput) (*model.Metric, error) {
	if input.Name == "" {
		return nil, s.err.New("指标名称不能为空", nil).ValidWithCtx()
	}

	metric := &model.Metric{
		Name:      input.Name,
		Type:      input.Type,
		Category:  input.Category,
		Value:     input.Value,
		Unit:      input.Unit,
		Source:    input.Source,
		Endpoint:  input.Endpoint,
		Component: input.Component,
		Tags:      input.Tags,
		Metadata:  input.Metadata,
	}
	metric.ID = uuid.NewString()

	if err := s.MetricDao.Create(ctx, metric); err != nil {
		return nil, err
	}

	if _, err := s.alertSvc.EvaluateMetric(ctx, metric); err != nil {
		s.log.WithErr(err).WithField("metric", metric.Name).Error("指标阈值检查失败")
	}

	return metric, nil
}

// SessionAttrs 会话开始时的附加属性
type SessionAttrs struct {
	UserID    string
	UserAgent string
}

// StartOrTouchSession 不存在则创建ACTIVE会话，存在则刷新活跃时间
func (s *IngestService) StartOrTouchSession(ctx context.Context, sessionID string, attrs SessionAttrs) (*model.Session, error) {
	if sessionID == "" {
		return nil, s.err.New("会话ID不能为空", nil).ValidWithCtx()
	}

	now := time.Now()

	existing, err := s.SessionDao.FindOneByColumn(ctx, "id", sessionID)
	if err == nil {
		duration := existing.DurationAt(now)
		if _, err := s.SessionDao.Touch(ctx, sessionID, now, duration); err != nil {
			return nil, err
		}
		existing.LastActivityAt = now
		existing.DurationSeconds = duration
		return existing, nil
	}
	if !errorc.IsNotFound(err) {
		return nil, err
	}

	device := model.ParseUserAgent(attrs.UserAgent)
	session := &model.Session{
		UserID:         attrs.UserID,
		Status:         model.SessionStatusActive,
		Device:         device.Device,
		Browser:        device.Browser,
		OS:             device.OS,
		LastActivityAt: now,
	}
	session.ID = sessionID

	if err := s.SessionDao.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// EndSession 结束会话，幂等：第二次调用不会改变首次的endedAt与时长
func (s *IngestService) EndSession(ctx context.Context, sessionID string) (*model.Session, error) {
	if sessionID == "" {
		return nil, s.err.New("会话ID不能为空", nil).ValidWithCtx()
	}

	session, err := s.SessionDao.FindOneByColumn(ctx, "id", sessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if _, err := s.SessionDao.End(ctx, sessionID, now, session.DurationAt(now)); err != nil {
		return nil, err
	}

	return s.SessionDao.FindOneByColumn(ctx, "id", sessionID)
}

// TrackPageView 页面浏览便捷入口
func (s *IngestService) TrackPageView(ctx context.Context, userID, sessionID, url, title string) (*model.Action, error) {
	var metadata common.JSON
	if title != "" {
		metadata = common.JSON{"title": title}
	}
	return s.RecordAction(ctx, ActionInput{
		UserID:    userID,
		SessionID: sessionID,
		Type:      model.ActionTypePageView,
		TargetURL: url,
		Metadata:  metadata,
	})
}

// TrackError 错误上报便捷入口
func (s *IngestService) TrackError(ctx context.Context, userID, sessionID, message, url string) (*model.Action, error) {
	return s.RecordAction(ctx, ActionInput{
		UserID:       userID,
		SessionID:    sessionID,
		Type:         model.ActionTypeErrorEncountered,
		TargetURL:    url,
		IsError:      true,
		ErrorMessage: message,
	})
}
