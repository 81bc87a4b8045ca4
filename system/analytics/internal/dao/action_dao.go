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

// ActionDao 用户行为数据访问层
type ActionDao struct {
	mvc.IBaseDao[model.Action]
	log *logger.Log
	err *errorc.ErrorBuilder
	DB  *gorm.DB
}

// NewActionDao 创建行为 DAO 实例
func NewActionDao(db *gorm.DB, log *logger.Log) *ActionDao {
	return &ActionDao{
		IBaseDao: mvc.NewGormDao[model.Action](db),
		log:      log.WithEntryName("ActionDao"),
		err:      errorc.NewErrorBuilder("ActionDao"),
		DB:       db,
	}
}

// CountInWindow 窗口内行为总数
func (d *ActionDao) CountInWindow(ctx context.Context, since, until time.Time) (int64, error) {
	var count int64
	err := d.DB.WithContext(ctx).Model(&model.Action{}).
		Where("created_at >= ? AND created_at < ?", since, until).Count(&count).Error
	if err != nil {
		return 0, d.err.New("统计行为数失败", err).DB()
	}
	return count, nil
}

// CountByTypeInWindow 窗口内指定类型的行为数
func (d *ActionDao) CountByTypeInWindow(ctx context.Context, actionType model.ActionType, since, until time.Time) (int64, error) {
	var count int64
	err := d.DB.WithContext(ctx).Model(&model.Action{}).
		Where("type = ? AND created_at >= ? AND created_at < ?", actionType, since, until).
		Count(&count).Error
	if err != nil {
		return 0, d.err.New("按类型统计行为数失败", err).DB()
	}
	return count, nil
}

// CountErrorsInWindow 窗口内错误行为数
func (d *ActionDao) CountErrorsInWindow(ctx context.Context, since, until time.Time) (int64, error) {
	var count int64
	err := d.DB.WithContext(ctx).Model(&model.Action{}).
		Where("is_error = ? AND created_at >= ? AND created_at < ?", true, since, until).
		Count(&count).Error
	if err != nil {
		return 0, d.err.New("统计错误行为数失败", err).DB()
	}
	return count, nil
}

// AvgResponseTimeInWindow 窗口内有响应耗时记录的行为平均耗时（毫秒）
func (d *ActionDao) AvgResponseTimeInWindow(ctx context.Context, since, until time.Time) (float64, error) {
	var avg *float64
	err := d.DB.WithContext(ctx).Model(&model.Action{}).
		Select("AVG(response_time_ms)").
		Where("response_time_ms IS NOT NULL AND created_at >= ? AND created_at < ?", since, until).
		Scan(&avg).Error
	if err != nil {
		return 0, d.err.New("统计平均响应耗时失败", err).DB()
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// TypeCount 按类型的行为计数
type TypeCount struct {
	Type  model.ActionType `json:"type"`
	Count int64            `json:"count"`
}

// CountByCategoryGroupByType 窗口内指定分类的行为数按类型分组
func (d *ActionDao) CountByCategoryGroupByType(ctx context.Context, category model.ActionCategory, since, until time.Time) ([]TypeCount, error) {
	var rows []TypeCount
	err := d.DB.WithContext(ctx).Model(&model.Action{}).
		Select("type, COUNT(*) AS count").
		Where("category = ? AND created_at >= ? AND created_at < ?", category, since, until).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, d.err.New("按类型分组统计行为数失败", err).DB()
	}
	return rows, nil
}
