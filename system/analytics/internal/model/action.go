package model

import (
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/model/common"
)

// Action 一条不可变的用户行为记录
type Action struct {
	common.ModelString
	UserID         string         `gorm:"type:varchar(64);index;comment:用户ID" json:"userId" comment:"用户ID"`
	SessionID      string         `gorm:"type:varchar(64);index;comment:会话ID" json:"sessionId" comment:"会话ID"`
	Type           ActionType     `gorm:"type:varchar(50);not null;index;comment:行为类型" json:"type" comment:"行为类型"`
	Category       ActionCategory `gorm:"type:varchar(50);not null;index;comment:行为分类" json:"category" comment:"行为分类"`
	TargetURL      string         `gorm:"type:varchar(2048);comment:目标URL" json:"targetUrl" comment:"目标URL"`
	TargetElement  string         `gorm:"type:varchar(255);comment:目标元素" json:"targetElement" comment:"目标元素"`
	ResponseTimeMs *float64       `gorm:"comment:响应耗时(毫秒)" json:"responseTimeMs" comment:"响应耗时(毫秒)"`
	IsError        bool           `gorm:"type:tinyint(1);not null;default:0;index;comment:是否为错误" json:"isError" comment:"是否为错误"`
	ErrorMessage   string         `gorm:"type:varchar(1024);comment:错误信息" json:"errorMessage" comment:"错误信息"`
	Metadata       common.JSON    `gorm:"serializer:json;comment:附加元数据JSON" json:"metadata" comment:"附加元数据JSON"`
}

// TableName 设置表名
func (Action) TableName() string {
	return "analytics_actions"
}
