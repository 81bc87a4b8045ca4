package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	errorc "github.com/Renagang21/o4o-platform-sub035/pkg/core/err"
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/logger"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics/internal/dao"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics/internal/model"
)

// ReportService 周期报表生成
type ReportService struct {
	ReportDao   *dao.ReportDao
	SessionDao  *dao.SessionDao
	ActionDao   *dao.ActionDao
	dispatchSvc *DispatchService
	log         *logger.Log
	err         *errorc.ErrorBuilder
}

// NewReportService 创建报表服务实例
func NewReportService(reportDao *dao.ReportDao, sessionDao *dao.SessionDao, actionDao *dao.ActionDao, dispatchSvc *DispatchService, log *logger.Log) *ReportService {
	return &ReportService{
		ReportDao:   reportDao,
		SessionDao:  sessionDao,
		ActionDao:   actionDao,
		dispatchSvc: dispatchSvc,
		log:         log.WithEntryName("ReportService"),
		err:         errorc.NewErrorBuilder("ReportService"),
	}
}

// DailyPeriod 昨天整天 [昨日00:00, 今日00:00)
func DailyPeriod(now time.Time) (time.Time, time.Time) {
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return end.AddDate(0, 0, -1), end
}

// WeeklyPeriod 截至今日00:00的最近7天
func WeeklyPeriod(now time.Time) (time.Time, time.Time) {
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return end.AddDate(0, 0, -7), end
}

// MonthlyPeriod 上一个自然月
func MonthlyPeriod(now time.Time) (time.Time, time.Time) {
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return end.AddDate(0, -1, 0), end
}

// PeriodFor 按报表周期类型取统计区间；MANUAL需要调用方自带区间
func PeriodFor(reportType model.ReportType, now time.Time) (time.Time, time.Time, bool) {
	switch reportType {
	case model.ReportTypeDaily:
		start, end := DailyPeriod(now)
		return start, end, true
	case model.ReportTypeWeekly:
		start, end := WeeklyPeriod(now)
		return start, end, true
	case model.ReportTypeMonthly:
		start, end := MonthlyPeriod(now)
		return start, end, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// ScheduledCategories 各周期任务要生成的报表分类集合。
// 日报侧重单维度明细，周报补充反馈与业务分析，月报只出综合报表。
func ScheduledCategories(reportType model.ReportType) []model.ReportCategory {
	switch reportType {
	case model.ReportTypeDaily:
		return []model.ReportCategory{
			model.ReportCategoryUserActivity,
			model.ReportCategorySystemPerformance,
			model.ReportCategoryContentUsage,
		}
	case model.ReportTypeWeekly:
		return []model.ReportCategory{
			model.ReportCategoryComprehensive,
			model.ReportCategoryFeedbackAnalysis,
			model.ReportCategoryBusinessMetrics,
		}
	case model.ReportTypeMonthly:
		return []model.ReportCategory{model.ReportCategoryComprehensive}
	default:
		return nil
	}
}

// GenerateScheduledSet 生成指定周期的全部分类报表。单个分类失败不阻断其余分类，
// 失败会逐条记日志并在最后合并返回。
func (s *ReportService) GenerateScheduledSet(ctx context.Context, reportType model.ReportType, generatedBy string) error {
	categories := ScheduledCategories(reportType)
	if len(categories) == 0 {
		return s.err.New(fmt.Sprintf("报表类型 %s 没有定时生成计划", reportType), nil).ValidWithCtx()
	}

	var errs []error
	for _, category := range categories {
		if _, err := s.GenerateScheduled(ctx, reportType, category, generatedBy); err != nil {
			s.log.WithErr(err).WithField("type", reportType).
				WithField("category", category).Error("定时报表生成失败")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// GenerateScheduled 按周期类型生成报表；同周期同分类已存在（未失败）则跳过
func (s *ReportService) GenerateScheduled(ctx context.Context, reportType model.ReportType, category model.ReportCategory, generatedBy string) (*model.Report, error) {
	start, end, ok := PeriodFor(reportType, time.Now())
	if !ok {
		return nil, s.err.New(fmt.Sprintf("报表类型 %s 没有固定统计周期", reportType), nil).ValidWithCtx()
	}

	exists, err := s.ReportDao.ExistsForPeriod(ctx, reportType, category, start)
	if err != nil {
		return nil, err
	}
	if exists {
		s.log.WithField("type", reportType).WithField("category", category).
			WithField("periodStart", start).Info("同周期报表已存在，跳过生成")
		return nil, nil
	}

	return s.Generate(ctx, reportType, category, start, end, generatedBy)
}

// Generate 生成一份报表。记录先落库为GENERATING，之后恰好流转一次到
// COMPLETED或FAILED；数据计算中的panic会被捕获并记为FAILED。
func (s *ReportService) Generate(ctx context.Context, reportType model.ReportType, category model.ReportCategory, periodStart, periodEnd time.Time, generatedBy string) (*model.Report, error) {
	if !periodEnd.After(periodStart) {
		return nil, s.err.New("统计周期结束时间必须晚于开始时间", nil).ValidWithCtx()
	}

	report := &model.Report{
		Type:        reportType,
		Category:    category,
		Status:      model.ReportStatusGenerating,
		Title:       fmt.Sprintf("%s %s 报表 %s", reportType, category, periodStart.Format("2006-01-02")),
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		GeneratedBy: generatedBy,
	}
	report.ID = uuid.NewString()

	if err := s.ReportDao.Create(ctx, report); err != nil {
		return nil, err
	}

	startedAt := time.Now()
	data, genErr := s.computeSafely(ctx, category, periodStart, periodEnd)
	durationMs := time.Since(startedAt).Milliseconds()

	if genErr != nil {
		if _, markErr := s.ReportDao.MarkFailed(ctx, report.ID, genErr.Error(), durationMs); markErr != nil {
			s.log.WithErr(markErr).WithField("reportId", report.ID).Error("标记报表失败状态出错")
		}
		return nil, genErr
	}

	affected, err := s.ReportDao.MarkCompleted(ctx, report.ID, data, durationMs)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// 已被并发流转过，不再改写
		return s.GetReport(ctx, report.ID)
	}

	report.Status = model.ReportStatusCompleted
	report.Data = data
	report.DurationMs = durationMs

	s.dispatchSvc.DispatchReport(report)

	return report, nil
}

// computeSafely 计算报表数据，panic转换为error返回
func (s *ReportService) computeSafely(ctx context.Context, category model.ReportCategory, since, until time.Time) (data *model.ReportData, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", r).Error("报表数据计算panic")
			err = s.err.New(fmt.Sprintf("报表数据计算panic: %v", r), nil)
		}
	}()
	return s.computeData(ctx, category, since, until)
}

func (s *ReportService) computeData(ctx context.Context, category model.ReportCategory, since, until time.Time) (*model.ReportData, error) {
	data := &model.ReportData{}

	fill := func(c model.ReportCategory) error {
		switch c {
		case model.ReportCategoryUserActivity:
			block, err := s.computeUserMetrics(ctx, since, until)
			if err != nil {
				return err
			}
			data.User = block
		case model.ReportCategorySystemPerformance:
			block, err := s.computeSystemMetrics(ctx, since, until)
			if err != nil {
				return err
			}
			data.System = block
		case model.ReportCategoryContentUsage:
			block, err := s.computeContentMetrics(ctx, since, until)
			if err != nil {
				return err
			}
			data.Content = block
		case model.ReportCategoryFeedbackAnalysis:
			block, err := s.computeFeedbackMetrics(ctx, since, until)
			if err != nil {
				return err
			}
			data.Feedback = block
		case model.ReportCategoryBusinessMetrics:
			block, err := s.computeBusinessMetrics(ctx, since, until)
			if err != nil {
				return err
			}
			data.Business = block
		default:
			return s.err.New(fmt.Sprintf("未知报表分类: %s", c), nil)
		}
		return nil
	}

	if category == model.ReportCategoryComprehensive {
		for _, c := range []model.ReportCategory{
			model.ReportCategoryUserActivity,
			model.ReportCategorySystemPerformance,
			model.ReportCategoryContentUsage,
			model.ReportCategoryFeedbackAnalysis,
			model.ReportCategoryBusinessMetrics,
		} {
			if err := fill(c); err != nil {
				return nil, err
			}
		}
		return data, nil
	}

	if err := fill(category); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *ReportService) computeUserMetrics(ctx context.Context, since, until time.Time) (*model.UserMetrics, error) {
	activeUsers, err := s.SessionDao.CountDistinctUsers(ctx, since, until)
	if err != nil {
		return nil, err
	}
	newUsers, err := s.SessionDao.CountNewUsers(ctx, since, until)
	if err != nil {
		return nil, err
	}
	totalSessions, err := s.SessionDao.CountInWindow(ctx, since, until)
	if err != nil {
		return nil, err
	}
	avgDuration, err := s.SessionDao.AvgDurationSeconds(ctx, since, until)
	if err != nil {
		return nil, err
	}
	pageViews, err := s.ActionDao.CountByTypeInWindow(ctx, model.ActionTypePageView, since, until)
	if err != nil {
		return nil, err
	}
	totalActions, err := s.ActionDao.CountInWindow(ctx, since, until)
	if err != nil {
		return nil, err
	}
	return &model.UserMetrics{
		ActiveUsers:        activeUsers,
		NewUsers:           newUsers,
		TotalSessions:      totalSessions,
		AvgSessionDuration: avgDuration,
		TotalPageViews:     pageViews,
		TotalActions:       totalActions,
	}, nil
}

func (s *ReportService) computeSystemMetrics(ctx context.Context, since, until time.Time) (*model.SystemMetrics, error) {
	totalActions, err := s.ActionDao.CountInWindow(ctx, since, until)
	if err != nil {
		return nil, err
	}
	totalErrors, err := s.ActionDao.CountErrorsInWindow(ctx, since, until)
	if err != nil {
		return nil, err
	}
	avgResponse, err := s.ActionDao.AvgResponseTimeInWindow(ctx, since, until)
	if err != nil {
		return nil, err
	}
	var errorRate float64
	if totalActions > 0 {
		errorRate = float64(totalErrors) / float64(totalActions) * 100
	}
	return &model.SystemMetrics{
		AvgResponseTime: avgResponse,
		ErrorRate:       errorRate,
		TotalErrors:     totalErrors,
		TotalRequests:   totalActions,
	}, nil
}

func (s *ReportService) computeContentMetrics(ctx context.Context, since, until time.Time) (*model.ContentMetrics, error) {
	counts, err := s.ActionDao.CountByCategoryGroupByType(ctx, model.ActionCategoryContent, since, until)
	if err != nil {
		return nil, err
	}
	block := &model.ContentMetrics{UsageByType: make(map[string]int64, len(counts))}
	for _, tc := range counts {
		block.UsageByType[string(tc.Type)] = tc.Count
		switch tc.Type {
		case model.ActionTypeContentViewed:
			block.ContentViewed = tc.Count
		case model.ActionTypeContentCreated:
			block.ContentCreated = tc.Count
		}
	}
	return block, nil
}

func (s *ReportService) computeFeedbackMetrics(ctx context.Context, since, until time.Time) (*model.FeedbackMetrics, error) {
	totalFeedback, err := s.ActionDao.CountByTypeInWindow(ctx, model.ActionTypeFeedbackSubmitted, since, until)
	if err != nil {
		return nil, err
	}
	totalErrors, err := s.ActionDao.CountErrorsInWindow(ctx, since, until)
	if err != nil {
		return nil, err
	}
	activeUsers, err := s.SessionDao.CountDistinctUsers(ctx, since, until)
	if err != nil {
		return nil, err
	}
	var perUser float64
	if activeUsers > 0 {
		perUser = float64(totalFeedback) / float64(activeUsers)
	}
	return &model.FeedbackMetrics{
		TotalFeedback:     totalFeedback,
		FeedbackPerUser:   perUser,
		ErrorsEncountered: totalErrors,
	}, nil
}

// lowEngagementThreshold 低参与度判定分数线
const lowEngagementThreshold = 10.0

func (s *ReportService) computeBusinessMetrics(ctx context.Context, since, until time.Time) (*model.BusinessMetrics, error) {
	sessions, err := s.SessionDao.FindActiveInWindow(ctx, since, until)
	if err != nil {
		return nil, err
	}

	scoreByUser := make(map[string]float64)
	for _, sess := range sessions {
		if sess.UserID == "" {
			continue
		}
		scoreByUser[sess.UserID] += sess.EngagementScore()
	}

	var totalScore float64
	var lowEngagement int64
	for _, score := range scoreByUser {
		totalScore += score
		if score < lowEngagementThreshold {
			lowEngagement++
		}
	}

	activeNow := int64(len(scoreByUser))
	var avgScore float64
	if activeNow > 0 {
		avgScore = totalScore / float64(activeNow)
	}

	// 流失率：上一个等长窗口活跃、本窗口未出现的用户占比
	windowLen := until.Sub(since)
	prevSessions, err := s.SessionDao.FindActiveInWindow(ctx, since.Add(-windowLen), since)
	if err != nil {
		return nil, err
	}
	prevUsers := make(map[string]struct{})
	for _, sess := range prevSessions {
		if sess.UserID != "" {
			prevUsers[sess.UserID] = struct{}{}
		}
	}
	var churned int64
	for userID := range prevUsers {
		if _, ok := scoreByUser[userID]; !ok {
			churned++
		}
	}
	var churnRate float64
	if len(prevUsers) > 0 {
		churnRate = float64(churned) / float64(len(prevUsers)) * 100
	}

	var engagementPct float64
	if activeNow > 0 {
		engagementPct = float64(activeNow-lowEngagement) / float64(activeNow) * 100
	}

	return &model.BusinessMetrics{
		ChurnRatePct:       churnRate,
		LowEngagementUsers: lowEngagement,
		AvgEngagementScore: avgScore,
		EngagementPct:      engagementPct,
	}, nil
}

// GetReport 查询单份报表
func (s *ReportService) GetReport(ctx context.Context, id string) (*model.Report, error) {
	report, err := s.ReportDao.FindOneByColumn(ctx, "id", id)
	if err != nil {
		if errorc.IsNotFound(err) {
			return nil, s.err.NotFound("报表不存在")
		}
		return nil, err
	}
	return report, nil
}

// ListReports 分页查询报表
func (s *ReportService) ListReports(ctx context.Context, reportType model.ReportType, category model.ReportCategory, pageNum, pageSize int) ([]*model.Report, int64, error) {
	if pageNum <= 0 {
		pageNum = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return s.ReportDao.FindPage(ctx, reportType, category, pageNum, pageSize)
}
