package dto

import (
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/model/common"
)

// TrackActionRequest 上报用户行为请求
type TrackActionRequest struct {
	UserID         string                 `json:"userId" comment:"用户ID"`
	SessionID      string                 `json:"sessionId" validate:"required" comment:"会话ID"`
	Type           string                 `json:"type" validate:"required" comment:"行为类型"`
	TargetURL      string                 `json:"targetUrl" comment:"目标URL"`
	TargetElement  string                 `json:"targetElement" comment:"目标元素"`
	ResponseTimeMs *float64               `json:"responseTimeMs" comment:"响应耗时(毫秒)"`
	IsError        bool                   `json:"isError" comment:"是否错误行为"`
	ErrorMessage   string                 `json:"errorMessage" comment:"错误信息"`
	Metadata       map[string]interface{} `json:"metadata" comment:"附加数据"`
}

// TrackPageViewRequest 上报页面访问请求
type TrackPageViewRequest struct {
	UserID    string `json:"userId" comment:"用户ID"`
	SessionID string `json:"sessionId" validate:"required" comment:"会话ID"`
	URL       string `json:"url" validate:"required" comment:"页面URL"`
	Title     string `json:"title" comment:"页面标题"`
}

// TrackErrorRequest 上报前端错误请求
type TrackErrorRequest struct {
	UserID    string `json:"userId" comment:"用户ID"`
	SessionID string `json:"sessionId" validate:"required" comment:"会话ID"`
	Message   string `json:"message" validate:"required" comment:"错误信息"`
	URL       string `json:"url" comment:"发生页面"`
}

// SessionStartRequest 会话开始/心跳请求
type SessionStartRequest struct {
	SessionID string `json:"sessionId" validate:"required" comment:"会话ID"`
	UserID    string `json:"userId" comment:"用户ID"`
	UserAgent string `json:"userAgent" comment:"UA字符串"`
}

// SessionEndRequest 会话结束请求
type SessionEndRequest struct {
	SessionID string `json:"sessionId" validate:"required" comment:"会话ID"`
}

// RecordMetricRequest 上报系统指标请求
type RecordMetricRequest struct {
	Name      string                 `json:"name" validate:"required" comment:"指标名称"`
	Type      string                 `json:"type" comment:"指标类型"`
	Category  string                 `json:"category" validate:"required" comment:"指标分类"`
	Value     float64                `json:"value" comment:"指标值"`
	Unit      string                 `json:"unit" comment:"单位"`
	Source    string                 `json:"source" comment:"来源"`
	Endpoint  string                 `json:"endpoint" comment:"接口"`
	Component string                 `json:"component" comment:"组件"`
	Tags      map[string]interface{} `json:"tags" comment:"标签"`
	Metadata  map[string]interface{} `json:"metadata" comment:"附加数据"`
}

// AlertActionRequest 告警操作请求（确认/处理/忽略）
type AlertActionRequest struct {
	Actor  string `json:"actor" validate:"required" comment:"操作人"`
	Note   string `json:"note" comment:"备注"`
	Action string `json:"action" comment:"处理动作"`
}

// GenerateReportRequest 手动生成报表请求
type GenerateReportRequest struct {
	Category    string           `json:"category" validate:"required" comment:"报表分类"`
	PeriodStart *common.FlexTime `json:"periodStart" validate:"required" comment:"统计周期开始"`
	PeriodEnd   *common.FlexTime `json:"periodEnd" validate:"required" comment:"统计周期结束"`
	GeneratedBy string           `json:"generatedBy" comment:"生成者"`
}

// NotifierChannelRequest 通知渠道配置请求
type NotifierChannelRequest struct {
	ID          string                 `json:"id" comment:"渠道ID，更新时必填"`
	Type        string                 `json:"type" validate:"required" comment:"渠道类型"`
	Name        string                 `json:"name" validate:"required" comment:"渠道名称"`
	Enabled     bool                   `json:"enabled" comment:"是否启用"`
	Description string                 `json:"description" comment:"描述"`
	Config      map[string]interface{} `json:"config" validate:"required" comment:"渠道配置"`
}
