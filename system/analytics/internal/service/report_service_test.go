package service

import (
	"context"
	"testing"
	"time"

	errorc "github.com/Renagang21/o4o-platform-sub035/pkg/core/err"
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/logger"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics/internal/model"
)

// TestDailyPeriod 测试日报统计区间取昨天整天
func TestDailyPeriod(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
	start, end := DailyPeriod(now)

	wantStart := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) || !end.Equal(wantEnd) {
		t.Errorf("DailyPeriod() = [%v, %v), want [%v, %v)", start, end, wantStart, wantEnd)
	}
}

// TestWeeklyPeriod 测试周报统计区间为截至今日00:00的最近7天
func TestWeeklyPeriod(t *testing.T) {
	now := time.Date(2025, 6, 16, 7, 0, 0, 0, time.UTC)
	start, end := WeeklyPeriod(now)

	wantStart := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) || !end.Equal(wantEnd) {
		t.Errorf("WeeklyPeriod() = [%v, %v), want [%v, %v)", start, end, wantStart, wantEnd)
	}
}

// TestMonthlyPeriod 测试月报统计区间为上一个自然月
func TestMonthlyPeriod(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			"年中",
			time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
			time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"跨年",
			time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC),
			time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := MonthlyPeriod(tt.now)
			if !start.Equal(tt.wantStart) || !end.Equal(tt.wantEnd) {
				t.Errorf("MonthlyPeriod() = [%v, %v), want [%v, %v)", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

// TestPeriodFor 测试按报表类型取区间，MANUAL没有固定周期
func TestPeriodFor(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	for _, reportType := range []model.ReportType{model.ReportTypeDaily, model.ReportTypeWeekly, model.ReportTypeMonthly} {
		start, end, ok := PeriodFor(reportType, now)
		if !ok {
			t.Errorf("PeriodFor(%s) ok = false, want true", reportType)
		}
		if !end.After(start) {
			t.Errorf("PeriodFor(%s) 区间无效: [%v, %v)", reportType, start, end)
		}
	}

	if _, _, ok := PeriodFor(model.ReportTypeManual, now); ok {
		t.Error("PeriodFor(MANUAL) ok = true, want false")
	}
}

// TestScheduledCategories 测试各周期任务生成的报表分类集合
func TestScheduledCategories(t *testing.T) {
	tests := []struct {
		reportType model.ReportType
		want       []model.ReportCategory
	}{
		{model.ReportTypeDaily, []model.ReportCategory{
			model.ReportCategoryUserActivity,
			model.ReportCategorySystemPerformance,
			model.ReportCategoryContentUsage,
		}},
		{model.ReportTypeWeekly, []model.ReportCategory{
			model.ReportCategoryComprehensive,
			model.ReportCategoryFeedbackAnalysis,
			model.ReportCategoryBusinessMetrics,
		}},
		{model.ReportTypeMonthly, []model.ReportCategory{
			model.ReportCategoryComprehensive,
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.reportType), func(t *testing.T) {
			got := ScheduledCategories(tt.reportType)
			if len(got) != len(tt.want) {
				t.Fatalf("ScheduledCategories(%s) 返回%d个分类, want %d", tt.reportType, len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("ScheduledCategories(%s)[%d] = %s, want %s", tt.reportType, i, got[i], tt.want[i])
				}
			}
		})
	}

	if got := ScheduledCategories(model.ReportTypeManual); got != nil {
		t.Errorf("MANUAL不应有定时生成计划, got %v", got)
	}
}

// TestComputeSafelyRecoversPanic 测试报表计算中的panic被捕获为error
func TestComputeSafelyRecoversPanic(t *testing.T) {
	s := &ReportService{
		log: logger.GetLogger(),
		err: errorc.NewErrorBuilder("ReportService"),
	}

	// dao为nil，计算过程必然panic
	data, err := s.computeSafely(context.Background(), model.ReportCategoryUserActivity,
		time.Now().Add(-time.Hour), time.Now())
	if err == nil {
		t.Fatal("computeSafely 应返回error")
	}
	if data != nil {
		t.Errorf("panic后data应为nil，got %v", data)
	}
}
