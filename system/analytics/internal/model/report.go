package model

import (
	"time"

	"github.com/Renagang21/o4o-platform-sub035/pkg/core/model/common"
)

// UserMetrics 用户活跃子指标
type UserMetrics struct {
	ActiveUsers        int64   `json:"activeUsers"`
	NewUsers           int64   `json:"newUsers"`
	TotalSessions      int64   `json:"totalSessions"`
	AvgSessionDuration float64 `json:"avgSessionDuration"`
	TotalPageViews     int64   `json:"totalPageViews"`
	TotalActions       int64   `json:"totalActions"`
}

// SystemMetrics 系统性能子指标
type SystemMetrics struct {
	AvgResponseTime float64 `json:"avgResponseTime"`
	ErrorRate       float64 `json:"errorRate"`
	TotalErrors     int64   `json:"totalErrors"`
	TotalRequests   int64   `json:"totalRequests"`
}

// ContentMetrics 内容使用子指标
type ContentMetrics struct {
	ContentViewed  int64            `json:"contentViewed"`
	ContentCreated int64            `json:"contentCreated"`
	UsageByType    map[string]int64 `json:"usageByType"`
}

// FeedbackMetrics 反馈子指标
type FeedbackMetrics struct {
	TotalFeedback     int64   `json:"totalFeedback"`
	FeedbackPerUser   float64 `json:"feedbackPerUser"`
	ErrorsEncountered int64   `json:"errorsEncountered"`
}

// BusinessMetrics 业务子指标
type BusinessMetrics struct {
	ChurnRatePct       float64 `json:"churnRatePct"`
	LowEngagementUsers int64   `json:"lowEngagementUsers"`
	AvgEngagementScore float64 `json:"avgEngagementScore"`
	EngagementPct      float64 `json:"engagementPct"`
}

// ReportData 报表数据，按分类填充若干子指标块
type ReportData struct {
	User     *UserMetrics     `json:"user,omitempty"`
	System   *SystemMetrics   `json:"system,omitempty"`
	Content  *ContentMetrics  `json:"content,omitempty"`
	Feedback *FeedbackMetrics `json:"feedback,omitempty"`
	Business *BusinessMetrics `json:"business,omitempty"`
}

// Report 一份固定周期与分类的聚合报表
type Report struct {
	common.ModelString
	Type          ReportType     `gorm:"type:varchar(20);not null;index;comment:报表周期类型" json:"type" comment:"报表周期类型"`
	Category      ReportCategory `gorm:"type:varchar(50);not null;index;comment:报表分类" json:"category" comment:"报表分类"`
	Status        ReportStatus   `gorm:"type:varchar(20);not null;index;comment:报表状态" json:"status" comment:"报表状态"`
	Title         string         `gorm:"type:varchar(255);comment:标题" json:"title" comment:"标题"`
	PeriodStart   time.Time      `gorm:"not null;comment:统计周期开始" json:"periodStart" comment:"统计周期开始"`
	PeriodEnd     time.Time      `gorm:"not null;comment:统计周期结束" json:"periodEnd" comment:"统计周期结束"`
	Data          *ReportData    `gorm:"serializer:json;comment:报表数据JSON" json:"data" comment:"报表数据JSON"`
	GeneratedBy   string         `gorm:"type:varchar(64);comment:生成者" json:"generatedBy" comment:"生成者"`
	DurationMs    int64          `gorm:"not null;default:0;comment:生成耗时(毫秒)" json:"durationMs" comment:"生成耗时(毫秒)"`
	FailureReason string         `gorm:"type:varchar(2048);comment:失败原因" json:"failureReason" comment:"失败原因"`
}

// TableName 设置表名
func (Report) TableName() string {
	return "analytics_reports"
}
