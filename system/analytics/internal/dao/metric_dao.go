package dao

import (
	"context"
	"time"

	"gorm.io/gorm"

	errorc "github.com/Renagang21/o4o-platform-sub035/pkg/core/err"
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/logger"
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/mvc"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics/internal/model"
)

// MetricDao 指标数据访问层
type MetricDao struct {
	mvc.IBaseDao[model.Metric]
	log *logger.Log
	err *errorc.ErrorBuilder
	DB  *gorm.DB
}

// NewMetricDao 创建指标 DAO 实例
func NewMetricDao(db *gorm.DB, log *logger.Log) *MetricDao {
	return &MetricDao{
		IBaseDao: mvc.NewGormDao[model.Metric](db),
		log:      log.WithEntryName("MetricDao"),
		err:      errorc.NewErrorBuilder("MetricDao"),
		DB:       db,
	}
}

// AvgValueInWindow 窗口内指定分类指标的平均值
func (d *MetricDao) AvgValueInWindow(ctx context.Context, category model.MetricCategory, since, until time.Time) (float64, error) {
	var avg *float64
	err := d.DB.WithContext(ctx).Model(&model.Metric{}).
		Select("AVG(value)").
		Where("category = ? AND created_at >= ? AND created_at < ?", category, since, until).
		Scan(&avg).Error
	if err != nil {
		return 0, d.err.New("统计指标平均值失败", err).DB()
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// CountInWindow 窗口内指定分类的指标采样数
func (d *MetricDao) CountInWindow(ctx context.Context, category model.MetricCategory, since, until time.Time) (int64, error) {
	var count int64
	err := d.DB.WithContext(ctx).Model(&model.Metric{}).
		Where("category = ? AND created_at >= ? AND created_at < ?", category, since, until).
		Count(&count).Error
	if err != nil {
		return 0, d.err.New("统计指标采样数失败", err).DB()
	}
	return count, nil
}
