package model

import (
	"time"

	"github.com/Renagang21/o4o-platform-sub035/pkg/core/model/common"
)

// ChannelList 通知渠道集合，JSON数组持久化
type ChannelList []NotificationChannel

// Contains 是否包含指定渠道
func (c ChannelList) Contains(channel NotificationChannel) bool {
	for _, ch := range c {
		if ch == channel {
			return true
		}
	}
	return false
}

// WithChannel 返回包含指定渠道的集合，已存在则原样返回
func (c ChannelList) WithChannel(channel NotificationChannel) ChannelList {
	if c.Contains(channel) {
		return c
	}
	return append(c, channel)
}

// ChannelsForSeverity 按告警级别决定通知渠道，DASHBOARD始终包含
func ChannelsForSeverity(severity AlertSeverity) ChannelList {
	switch severity {
	case AlertSeverityCritical:
		return ChannelList{ChannelEmail, ChannelSlack, ChannelDashboard}
	case AlertSeverityHigh:
		return ChannelList{ChannelEmail, ChannelDashboard}
	default:
		return ChannelList{ChannelDashboard}
	}
}

// Alert 一条检测到的异常记录
type Alert struct {
	common.ModelString
	Type               AlertType     `gorm:"type:varchar(50);not null;index;comment:告警类型" json:"type" comment:"告警类型"`
	Severity           AlertSeverity `gorm:"type:varchar(20);not null;index;comment:告警级别" json:"severity" comment:"告警级别"`
	Status             AlertStatus   `gorm:"type:varchar(20);not null;index;comment:告警状态" json:"status" comment:"告警状态"`
	Title              string        `gorm:"type:varchar(255);not null;comment:标题" json:"title" comment:"标题"`
	Message            string        `gorm:"type:varchar(2048);comment:详细信息" json:"message" comment:"详细信息"`
	MetricName         string        `gorm:"type:varchar(128);comment:触发指标名称" json:"metricName" comment:"触发指标名称"`
	CurrentValue       *float64      `gorm:"comment:当前值" json:"currentValue" comment:"当前值"`
	Threshold          *float64      `gorm:"comment:阈值" json:"threshold" comment:"阈值"`
	Comparison         string        `gorm:"type:varchar(10);comment:比较运算符" json:"comparison" comment:"比较运算符"`
	Unit               string        `gorm:"type:varchar(20);comment:单位" json:"unit" comment:"单位"`
	Channels           ChannelList   `gorm:"serializer:json;comment:通知渠道JSON" json:"channels" comment:"通知渠道JSON"`
	OccurrenceCount    int64         `gorm:"not null;default:1;comment:发生次数" json:"occurrenceCount" comment:"发生次数"`
	IsRecurring        bool          `gorm:"type:tinyint(1);not null;default:0;comment:是否重复发生" json:"isRecurring" comment:"是否重复发生"`
	FirstOccurredAt    time.Time     `gorm:"comment:首次发生时间" json:"firstOccurredAt" comment:"首次发生时间"`
	LastOccurredAt     time.Time     `gorm:"comment:最近发生时间" json:"lastOccurredAt" comment:"最近发生时间"`
	IsEscalated        bool          `gorm:"type:tinyint(1);not null;default:0;index;comment:是否已升级" json:"isEscalated" comment:"是否已升级"`
	EscalatedAt        *time.Time    `gorm:"comment:升级时间" json:"escalatedAt" comment:"升级时间"`
	EscalationRule     string        `gorm:"type:varchar(128);comment:升级规则" json:"escalationRule" comment:"升级规则"`
	AcknowledgedBy     string        `gorm:"type:varchar(64);comment:确认人" json:"acknowledgedBy" comment:"确认人"`
	AcknowledgedAt     *time.Time    `gorm:"comment:确认时间" json:"acknowledgedAt" comment:"确认时间"`
	AcknowledgmentNote string        `gorm:"type:varchar(1024);comment:确认备注" json:"acknowledgmentNote" comment:"确认备注"`
	ResolvedBy         string        `gorm:"type:varchar(64);comment:处理人" json:"resolvedBy" comment:"处理人"`
	ResolvedAt         *time.Time    `gorm:"comment:处理时间" json:"resolvedAt" comment:"处理时间"`
	ResolutionNote     string        `gorm:"type:varchar(1024);comment:处理备注" json:"resolutionNote" comment:"处理备注"`
	ResolutionAction   string        `gorm:"type:varchar(255);comment:处理动作" json:"resolutionAction" comment:"处理动作"`
}

// TableName 设置表名
func (Alert) TableName() string {
	return "analytics_alerts"
}

// AgeMinutes 告警存在的整分钟数
func (a *Alert) AgeMinutes(now time.Time) int64 {
	return int64(now.Sub(a.CreatedAt).Minutes())
}
