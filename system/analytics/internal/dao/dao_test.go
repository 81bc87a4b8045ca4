package dao

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Renagang21/o4o-platform-sub035/pkg/core/logger"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics/internal/model"
)

// newTestDB 创建内存数据库并建表，限制单连接避免内存库跨连接丢失
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层连接失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.Session{}, &model.Alert{}, &model.Report{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	return db
}

// TestAlertDaoMarkEscalated 测试告警升级：通道列表落库为JSON且至多升级一次
func TestAlertDaoMarkEscalated(t *testing.T) {
	ctx := context.Background()
	d := NewAlertDao(newTestDB(t), logger.GetLogger())

	alert := &model.Alert{
		Type:     model.AlertTypePerformance,
		Severity: model.AlertSeverityHigh,
		Status:   model.AlertStatusActive,
		Title:    "平均响应时间超阈值",
		Channels: model.ChannelsForSeverity(model.AlertSeverityHigh),
	}
	alert.ID = "alert-1"
	if err := d.Create(ctx, alert); err != nil {
		t.Fatalf("创建告警失败: %v", err)
	}

	now := time.Now()
	escalated := alert.Channels.WithChannel(model.ChannelSlack)
	affected, err := d.MarkEscalated(ctx, alert.ID, now, "active-over-30m", escalated)
	if err != nil {
		t.Fatalf("升级告警失败: %v", err)
	}
	if affected != 1 {
		t.Fatalf("首次升级应影响1行, got %d", affected)
	}

	got, err := d.FindOneByColumn(ctx, "id", alert.ID)
	if err != nil {
		t.Fatalf("查询告警失败: %v", err)
	}
	if !got.IsEscalated {
		t.Error("告警应已标记为升级")
	}
	if got.EscalationRule != "active-over-30m" {
		t.Errorf("升级规则未落库, got %q", got.EscalationRule)
	}
	if !got.Channels.Contains(model.ChannelSlack) || !got.Channels.Contains(model.ChannelEmail) {
		t.Errorf("通道列表JSON读回不完整, got %v", got.Channels)
	}

	// 并发扫描下第二次升级不生效
	affected, err = d.MarkEscalated(ctx, alert.ID, now, "active-over-30m", escalated)
	if err != nil {
		t.Fatalf("重复升级调用失败: %v", err)
	}
	if affected != 0 {
		t.Errorf("已升级的告警不应再被改写, got affected=%d", affected)
	}
}

// TestAlertDaoTransitionStatus 测试状态条件更新的乐观并发语义
func TestAlertDaoTransitionStatus(t *testing.T) {
	ctx := context.Background()
	d := NewAlertDao(newTestDB(t), logger.GetLogger())

	alert := &model.Alert{
		Type:     model.AlertTypeError,
		Severity: model.AlertSeverityCritical,
		Status:   model.AlertStatusActive,
		Title:    "错误率超阈值",
	}
	alert.ID = "alert-2"
	if err := d.Create(ctx, alert); err != nil {
		t.Fatalf("创建告警失败: %v", err)
	}

	affected, err := d.TransitionStatus(ctx, alert.ID, model.AlertStatusActive, model.AlertStatusAcknowledged,
		map[string]interface{}{"acknowledged_by": "ops"})
	if err != nil {
		t.Fatalf("状态流转失败: %v", err)
	}
	if affected != 1 {
		t.Fatalf("ACTIVE到ACKNOWLEDGED应影响1行, got %d", affected)
	}

	got, err := d.FindOneByColumn(ctx, "id", alert.ID)
	if err != nil {
		t.Fatalf("查询告警失败: %v", err)
	}
	if got.Status != model.AlertStatusAcknowledged {
		t.Errorf("状态未更新, got %s", got.Status)
	}
	if got.AcknowledgedBy != "ops" {
		t.Errorf("附加字段未更新, got %q", got.AcknowledgedBy)
	}

	// 原状态已变，再按ACTIVE流转应零行受影响
	affected, err = d.TransitionStatus(ctx, alert.ID, model.AlertStatusActive, model.AlertStatusResolved, nil)
	if err != nil {
		t.Fatalf("状态流转失败: %v", err)
	}
	if affected != 0 {
		t.Errorf("原状态不匹配时不应改写, got affected=%d", affected)
	}
}

// TestReportDaoMarkCompleted 测试报表完成：数据落库为JSON且只允许流转一次
func TestReportDaoMarkCompleted(t *testing.T) {
	ctx := context.Background()
	d := NewReportDao(newTestDB(t), logger.GetLogger())

	report := &model.Report{
		Type:        model.ReportTypeDaily,
		Category:    model.ReportCategoryUserActivity,
		Status:      model.ReportStatusGenerating,
		PeriodStart: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	}
	report.ID = "report-1"
	if err := d.Create(ctx, report); err != nil {
		t.Fatalf("创建报表失败: %v", err)
	}

	data := &model.ReportData{
		User: &model.UserMetrics{ActiveUsers: 12, TotalSessions: 30},
	}
	affected, err := d.MarkCompleted(ctx, report.ID, data, 250)
	if err != nil {
		t.Fatalf("标记报表完成失败: %v", err)
	}
	if affected != 1 {
		t.Fatalf("GENERATING到COMPLETED应影响1行, got %d", affected)
	}

	got, err := d.FindOneByColumn(ctx, "id", report.ID)
	if err != nil {
		t.Fatalf("查询报表失败: %v", err)
	}
	if got.Status != model.ReportStatusCompleted {
		t.Errorf("状态未更新, got %s", got.Status)
	}
	if got.DurationMs != 250 {
		t.Errorf("耗时未落库, got %d", got.DurationMs)
	}
	if got.Data == nil || got.Data.User == nil || got.Data.User.ActiveUsers != 12 {
		t.Errorf("报表数据JSON读回不完整, got %+v", got.Data)
	}

	// 已完成的报表不能再次流转
	affected, err = d.MarkCompleted(ctx, report.ID, data, 300)
	if err != nil {
		t.Fatalf("重复标记调用失败: %v", err)
	}
	if affected != 0 {
		t.Errorf("已完成报表不应再被改写, got affected=%d", affected)
	}
	affected, err = d.MarkFailed(ctx, report.ID, "should not apply", 300)
	if err != nil {
		t.Fatalf("标记失败调用出错: %v", err)
	}
	if affected != 0 {
		t.Errorf("已完成报表不应被标记失败, got affected=%d", affected)
	}
}

// TestReportDaoMarkFailed 测试报表失败流转
func TestReportDaoMarkFailed(t *testing.T) {
	ctx := context.Background()
	d := NewReportDao(newTestDB(t), logger.GetLogger())

	report := &model.Report{
		Type:        model.ReportTypeWeekly,
		Category:    model.ReportCategoryComprehensive,
		Status:      model.ReportStatusGenerating,
		PeriodStart: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC),
	}
	report.ID = "report-2"
	if err := d.Create(ctx, report); err != nil {
		t.Fatalf("创建报表失败: %v", err)
	}

	affected, err := d.MarkFailed(ctx, report.ID, "统计查询超时", 120)
	if err != nil {
		t.Fatalf("标记报表失败出错: %v", err)
	}
	if affected != 1 {
		t.Fatalf("GENERATING到FAILED应影响1行, got %d", affected)
	}

	got, err := d.FindOneByColumn(ctx, "id", report.ID)
	if err != nil {
		t.Fatalf("查询报表失败: %v", err)
	}
	if got.Status != model.ReportStatusFailed {
		t.Errorf("状态未更新, got %s", got.Status)
	}
	if got.FailureReason != "统计查询超时" {
		t.Errorf("失败原因未落库, got %q", got.FailureReason)
	}

	affected, err = d.MarkCompleted(ctx, report.ID, &model.ReportData{}, 120)
	if err != nil {
		t.Fatalf("重复流转调用失败: %v", err)
	}
	if affected != 0 {
		t.Errorf("已失败的报表不应再被改写, got affected=%d", affected)
	}
}

// TestSessionDaoEnd 测试会话结束的幂等性
func TestSessionDaoEnd(t *testing.T) {
	ctx := context.Background()
	d := NewSessionDao(newTestDB(t), logger.GetLogger())

	start := time.Now().Add(-90 * time.Second)
	session := &model.Session{
		UserID:         "user-1",
		Status:         model.SessionStatusActive,
		LastActivityAt: start,
	}
	session.ID = "sess-1"
	session.CreatedAt = start
	if err := d.Create(ctx, session); err != nil {
		t.Fatalf("创建会话失败: %v", err)
	}

	now := time.Now()
	affected, err := d.End(ctx, session.ID, now, session.DurationAt(now))
	if err != nil {
		t.Fatalf("结束会话失败: %v", err)
	}
	if affected != 1 {
		t.Fatalf("首次结束应影响1行, got %d", affected)
	}

	got, err := d.FindOneByColumn(ctx, "id", session.ID)
	if err != nil {
		t.Fatalf("查询会话失败: %v", err)
	}
	if got.Status != model.SessionStatusInactive {
		t.Errorf("状态应为INACTIVE, got %s", got.Status)
	}
	if got.EndedAt == nil {
		t.Fatal("结束时间未落库")
	}
	if got.DurationSeconds < 89 || got.DurationSeconds > 92 {
		t.Errorf("时长不符, got %d", got.DurationSeconds)
	}

	// 重复结束不改变首次结果
	later := now.Add(time.Hour)
	affected, err = d.End(ctx, session.ID, later, session.DurationAt(later))
	if err != nil {
		t.Fatalf("重复结束调用失败: %v", err)
	}
	if affected != 0 {
		t.Errorf("已结束会话不应再被改写, got affected=%d", affected)
	}
	again, err := d.FindOneByColumn(ctx, "id", session.ID)
	if err != nil {
		t.Fatalf("查询会话失败: %v", err)
	}
	if !again.EndedAt.Equal(*got.EndedAt) {
		t.Errorf("结束时间被改写: %v != %v", again.EndedAt, got.EndedAt)
	}
}

// TestSessionDaoIncrementCounter 测试计数列与行为计数同步递增
func TestSessionDaoIncrementCounter(t *testing.T) {
	ctx := context.Background()
	d := NewSessionDao(newTestDB(t), logger.GetLogger())

	start := time.Now().Add(-time.Minute)
	session := &model.Session{
		UserID:         "user-2",
		Status:         model.SessionStatusActive,
		LastActivityAt: start,
	}
	session.ID = "sess-2"
	session.CreatedAt = start
	if err := d.Create(ctx, session); err != nil {
		t.Fatalf("创建会话失败: %v", err)
	}

	now := time.Now()
	for i := 0; i < 2; i++ {
		affected, err := d.IncrementCounter(ctx, session.ID, "page_view_count", now, session.DurationAt(now))
		if err != nil {
			t.Fatalf("递增计数失败: %v", err)
		}
		if affected != 1 {
			t.Fatalf("ACTIVE会话计数应影响1行, got %d", affected)
		}
	}

	got, err := d.FindOneByColumn(ctx, "id", session.ID)
	if err != nil {
		t.Fatalf("查询会话失败: %v", err)
	}
	if got.PageViewCount != 2 {
		t.Errorf("页面浏览计数不符, got %d", got.PageViewCount)
	}
	if got.ActionCount != 2 {
		t.Errorf("行为计数应同步递增, got %d", got.ActionCount)
	}

	// 结束后的会话不再计数
	if _, err := d.End(ctx, session.ID, now, session.DurationAt(now)); err != nil {
		t.Fatalf("结束会话失败: %v", err)
	}
	affected, err := d.IncrementCounter(ctx, session.ID, "page_view_count", now, session.DurationAt(now))
	if err != nil {
		t.Fatalf("递增计数失败: %v", err)
	}
	if affected != 0 {
		t.Errorf("已结束会话不应计数, got affected=%d", affected)
	}
}
