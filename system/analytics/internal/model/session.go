package model

import (
	"time"

	"github.com/Renagang21/o4o-platform-sub035/pkg/core/model/common"
)

// Session 一个访客的连续交互窗口，主键为客户端上报的会话ID
type Session struct {
	common.ModelString
	UserID            string        `gorm:"type:varchar(64);index;comment:用户ID" json:"userId" comment:"用户ID"`
	Status            SessionStatus `gorm:"type:varchar(20);not null;index;comment:会话状态" json:"status" comment:"会话状态"`
	Device            DeviceType    `gorm:"type:varchar(20);comment:设备类型" json:"device" comment:"设备类型"`
	Browser           string        `gorm:"type:varchar(50);comment:浏览器" json:"browser" comment:"浏览器"`
	OS                string        `gorm:"type:varchar(50);comment:操作系统" json:"os" comment:"操作系统"`
	PageViewCount     int64         `gorm:"not null;default:0;comment:页面浏览次数" json:"pageViewCount" comment:"页面浏览次数"`
	ActionCount       int64         `gorm:"not null;default:0;comment:行为次数" json:"actionCount" comment:"行为次数"`
	FeedbackSubmitted int64         `gorm:"not null;default:0;comment:反馈提交次数" json:"feedbackSubmitted" comment:"反馈提交次数"`
	ContentViewed     int64         `gorm:"not null;default:0;comment:内容浏览次数" json:"contentViewed" comment:"内容浏览次数"`
	ErrorsEncountered int64         `gorm:"not null;default:0;comment:遇到错误次数" json:"errorsEncountered" comment:"遇到错误次数"`
	LastActivityAt    time.Time     `gorm:"index;comment:最近活跃时间" json:"lastActivityAt" comment:"最近活跃时间"`
	EndedAt           *time.Time    `gorm:"comment:结束时间" json:"endedAt" comment:"结束时间"`
	DurationSeconds   int64         `gorm:"not null;default:0;comment:持续时长(秒)" json:"durationSeconds" comment:"持续时长(秒)"`
}

// TableName 设置表名
func (Session) TableName() string {
	return "analytics_sessions"
}

// ComputeDuration 从创建时间到结束时间（或最近活跃时间）的时长
func (s *Session) ComputeDuration() int64 {
	end := s.LastActivityAt
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	return s.DurationAt(end)
}

// DurationAt 从创建时间到指定时刻的时长（秒），时钟回拨归零
func (s *Session) DurationAt(at time.Time) int64 {
	seconds := int64(at.Sub(s.CreatedAt).Seconds())
	if seconds < 0 {
		return 0
	}
	return seconds
}

// DurationMinutes 持续时长（分钟）
func (s *Session) DurationMinutes() float64 {
	return float64(s.DurationSeconds) / 60
}

// EngagementScore 参与度评分，下限为0
func (s *Session) EngagementScore() float64 {
	durationPart := s.DurationMinutes() / 10
	if durationPart > 10 {
		durationPart = 10
	}

	score := float64(s.PageViewCount)*1 +
		float64(s.ActionCount)*2 +
		float64(s.FeedbackSubmitted)*5 +
		float64(s.ContentViewed)*3 +
		durationPart -
		float64(s.ErrorsEncountered)

	if score < 0 {
		return 0
	}
	return score
}
