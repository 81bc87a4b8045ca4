package model

import (
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/model/common"
)

// Metric 一条不可变的指标采样
type Metric struct {
	common.ModelString
	Name      string         `gorm:"type:varchar(128);not null;index;comment:指标名称" json:"name" comment:"指标名称"`
	Type      MetricType     `gorm:"type:varchar(50);not null;comment:指标类型" json:"type" comment:"指标类型"`
	Category  MetricCategory `gorm:"type:varchar(50);not null;index;comment:指标分类" json:"category" comment:"指标分类"`
	Value     float64        `gorm:"not null;comment:指标值" json:"value" comment:"指标值"`
	Unit      string         `gorm:"type:varchar(20);comment:单位" json:"unit" comment:"单位"`
	Source    string         `gorm:"type:varchar(128);comment:来源" json:"source" comment:"来源"`
	Endpoint  string         `gorm:"type:varchar(255);comment:接口路径" json:"endpoint" comment:"接口路径"`
	Component string         `gorm:"type:varchar(128);comment:组件" json:"component" comment:"组件"`
	Tags      common.JSON    `gorm:"serializer:json;comment:标签JSON" json:"tags" comment:"标签JSON"`
	Metadata  common.JSON    `gorm:"serializer:json;comment:附加元数据JSON" json:"metadata" comment:"附加元数据JSON"`
}

// TableName 设置表名
func (Metric) TableName() string {
	return "analytics_metrics"
}
