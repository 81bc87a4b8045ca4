package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/cache/v9"

	errorc "github.com/Renagang21/o4o-platform-sub035/pkg/core/err"
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/logger"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics/internal/dao"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics/internal/model"
)

// HealthLabel 运行健康度标签
type HealthLabel string

const (
	HealthCritical  HealthLabel = "critical"
	HealthWarning   HealthLabel = "warning"
	HealthGood      HealthLabel = "good"
	HealthExcellent HealthLabel = "excellent"
)

// ComputeHealthLabel 按错误率与平均响应时间判定健康度，阈值从严到宽依次匹配
func ComputeHealthLabel(errorRatePct, avgResponseTimeMs float64) HealthLabel {
	switch {
	case errorRatePct > 5 || avgResponseTimeMs > 2000:
		return HealthCritical
	case errorRatePct > 2 || avgResponseTimeMs > 1000:
		return HealthWarning
	case errorRatePct > 0.5 || avgResponseTimeMs > 500:
		return HealthGood
	default:
		return HealthExcellent
	}
}

// ComputeEngagementPct 窗口活跃用户占历史累计用户的百分比，无历史用户时为0
func ComputeEngagementPct(activeUsers, totalUsers int64) float64 {
	if totalUsers <= 0 {
		return 0
	}
	return float64(activeUsers) / float64(totalUsers) * 100
}

// Overview 窗口内的运营总览
type Overview struct {
	WindowDays        int         `json:"windowDays"`
	ActiveUsers       int64       `json:"activeUsers"`
	TotalUsers        int64       `json:"totalUsers"`
	NewUsers          int64       `json:"newUsers"`
	ActiveSessions    int64       `json:"activeSessions"`
	TotalSessions     int64       `json:"totalSessions"`
	TotalActions      int64       `json:"totalActions"`
	TotalPageViews    int64       `json:"totalPageViews"`
	TotalErrors       int64       `json:"totalErrors"`
	ErrorRatePct      float64     `json:"errorRatePct"`
	AvgResponseTimeMs float64     `json:"avgResponseTimeMs"`
	AvgSessionMinutes float64     `json:"avgSessionMinutes"`
	EngagementPct     float64     `json:"engagementPct"`
	Health            HealthLabel `json:"health"`
	GeneratedAt       time.Time   `json:"generatedAt"`
}

// UserEngagement 单个用户的参与度汇总
type UserEngagement struct {
	UserID          string  `json:"userId"`
	Sessions        int64   `json:"sessions"`
	PageViews       int64   `json:"pageViews"`
	Actions         int64   `json:"actions"`
	EngagementScore float64 `json:"engagementScore"`
}

// ContentUsage 内容维度使用统计
type ContentUsage struct {
	ContentViewed  int64            `json:"contentViewed"`
	ContentCreated int64            `json:"contentCreated"`
	UsageByType    map[string]int64 `json:"usageByType"`
}

// OverviewService 运营总览聚合，结果短期缓存以扛住仪表盘轮询
type OverviewService struct {
	SessionDao *dao.SessionDao
	ActionDao  *dao.ActionDao
	cache      *cache.Cache
	log        *logger.Log
	err        *errorc.ErrorBuilder
}

// NewOverviewService 创建总览服务实例
func NewOverviewService(sessionDao *dao.SessionDao, actionDao *dao.ActionDao, c *cache.Cache, log *logger.Log) *OverviewService {
	return &OverviewService{
		SessionDao: sessionDao,
		ActionDao:  actionDao,
		cache:      c,
		log:        log.WithEntryName("OverviewService"),
		err:        errorc.NewErrorBuilder("OverviewService"),
	}
}

// GetOverview 查询总览，按窗口天数缓存60秒
func (s *OverviewService) GetOverview(ctx context.Context, windowDays int) (*Overview, error) {
	if windowDays <= 0 {
		windowDays = 7
	}

	var overview *Overview
	err := s.cache.Once(&cache.Item{
		Ctx:   ctx,
		Key:   fmt.Sprintf("analytics:overview:%dd", windowDays),
		Value: &overview,
		TTL:   time.Minute,
		Do: func(*cache.Item) (interface{}, error) {
			return s.ComputeOverview(ctx, windowDays)
		},
	})
	if err != nil {
		return nil, err
	}
	return overview, nil
}

// ComputeOverview 直接从库里聚合窗口指标，不走缓存
func (s *OverviewService) ComputeOverview(ctx context.Context, windowDays int) (*Overview, error) {
	now := time.Now()
	since := now.AddDate(0, 0, -windowDays)

	activeUsers, err := s.SessionDao.CountDistinctUsers(ctx, since, now)
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.SessionDao.CountDistinctUsersTotal(ctx)
	if err != nil {
		return nil, err
	}
	newUsers, err := s.SessionDao.CountNewUsers(ctx, since, now)
	if err != nil {
		return nil, err
	}
	activeSessions, err := s.SessionDao.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	totalSessions, err := s.SessionDao.CountInWindow(ctx, since, now)
	if err != nil {
		return nil, err
	}
	avgDuration, err := s.SessionDao.AvgDurationSeconds(ctx, since, now)
	if err != nil {
		return nil, err
	}
	totalActions, err := s.ActionDao.CountInWindow(ctx, since, now)
	if err != nil {
		return nil, err
	}
	totalErrors, err := s.ActionDao.CountErrorsInWindow(ctx, since, now)
	if err != nil {
		return nil, err
	}
	avgResponse, err := s.ActionDao.AvgResponseTimeInWindow(ctx, since, now)
	if err != nil {
		return nil, err
	}
	pageViews, err := s.ActionDao.CountByTypeInWindow(ctx, model.ActionTypePageView, since, now)
	if err != nil {
		return nil, err
	}

	var errorRate float64
	if totalActions > 0 {
		errorRate = float64(totalErrors) / float64(totalActions) * 100
	}

	return &Overview{
		WindowDays:        windowDays,
		ActiveUsers:       activeUsers,
		TotalUsers:        totalUsers,
		NewUsers:          newUsers,
		ActiveSessions:    activeSessions,
		TotalSessions:     totalSessions,
		TotalActions:      totalActions,
		TotalPageViews:    pageViews,
		TotalErrors:       totalErrors,
		ErrorRatePct:      errorRate,
		AvgResponseTimeMs: avgResponse,
		AvgSessionMinutes: avgDuration / 60,
		EngagementPct:     ComputeEngagementPct(activeUsers, totalUsers),
		Health:            ComputeHealthLabel(errorRate, avgResponse),
		GeneratedAt:       now,
	}, nil
}

// GetUserEngagement 窗口内参与度最高的用户，按分数降序，最多返回limit个
func (s *OverviewService) GetUserEngagement(ctx context.Context, windowDays int, limit int) ([]*UserEngagement, error) {
	if windowDays <= 0 {
		windowDays = 7
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	now := time.Now()
	since := now.AddDate(0, 0, -windowDays)

	sessions, err := s.SessionDao.FindActiveInWindow(ctx, since, now)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]*UserEngagement)
	for _, sess := range sessions {
		if sess.UserID == "" {
			continue
		}
		entry, ok := byUser[sess.UserID]
		if !ok {
			entry = &UserEngagement{UserID: sess.UserID}
			byUser[sess.UserID] = entry
		}
		entry.Sessions++
		entry.PageViews += sess.PageViewCount
		entry.Actions += sess.ActionCount
		entry.EngagementScore += sess.EngagementScore()
	}

	result := make([]*UserEngagement, 0, len(byUser))
	for _, entry := range byUser {
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].EngagementScore != result[j].EngagementScore {
			return result[i].EngagementScore > result[j].EngagementScore
		}
		return result[i].UserID < result[j].UserID
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// GetContentUsage 窗口内内容类行为统计，按行为类型细分
func (s *OverviewService) GetContentUsage(ctx context.Context, windowDays int) (*ContentUsage, error) {
	if windowDays <= 0 {
		windowDays = 7
	}

	now := time.Now()
	since := now.AddDate(0, 0, -windowDays)

	counts, err := s.ActionDao.CountByCategoryGroupByType(ctx, model.ActionCategoryContent, since, now)
	if err != nil {
		return nil, err
	}

	usage := &ContentUsage{UsageByType: make(map[string]int64, len(counts))}
	for _, tc := range counts {
		usage.UsageByType[string(tc.Type)] = tc.Count
		switch tc.Type {
		case model.ActionTypeContentViewed:
			usage.ContentViewed = tc.Count
		case model.ActionTypeContentCreated:
			usage.ContentCreated = tc.Count
		}
	}
	return usage, nil
}
