package dao

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	errorc "github.com/Renagang21/o4o-platform-sub035/pkg/core/err"
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/logger"
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/mvc"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics/internal/model"
)

// ReportDao 报表数据访问层
type ReportDao struct {
	mvc.IBaseDao[model.Report]
	log *logger.Log
	err *errorc.ErrorBuilder
	DB  *gorm.DB
}

// NewReportDao 创建报表 DAO 实例
func NewReportDao(db *gorm.DB, log *logger.Log) *ReportDao {
	return &ReportDao{
		IBaseDao: mvc.NewGormDao[model.Report](db),
		log:      log.WithEntryName("ReportDao"),
		err:      errorc.NewErrorBuilder("ReportDao"),
		DB:       db,
	}
}

// MarkCompleted 标记报表完成，只允许从GENERATING改写一次。
// map形式的Updates不走模型的serializer，报表数据要先手动序列化成JSON文本。
func (d *ReportDao) MarkCompleted(ctx context.Context, id string, data *model.ReportData, durationMs int64) (int64, error) {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return 0, d.err.New("序列化报表数据失败", err)
	}

	result := d.DB.WithContext(ctx).Model(&model.Report{}).
		Where("id = ? AND status = ?", id, model.ReportStatusGenerating).
		Updates(map[string]interface{}{
			"status":      model.ReportStatusCompleted,
			"data":        string(dataJSON),
			"duration_ms": durationMs,
		})
	if result.Error != nil {
		return 0, d.err.New("标记报表完成失败", result.Error).DB()
	}
	return result.RowsAffected, nil
}

// MarkFailed 标记报表失败，只允许从GENERATING改写一次
func (d *ReportDao) MarkFailed(ctx context.Context, id string, reason string, durationMs int64) (int64, error) {
	result := d.DB.WithContext(ctx).Model(&model.Report{}).
		Where("id = ? AND status = ?", id, model.ReportStatusGenerating).
		Updates(map[string]interface{}{
			"status":         model.ReportStatusFailed,
			"failure_reason": reason,
			"duration_ms":    durationMs,
		})
	if result.Error != nil {
		return 0, d.err.New("标记报表失败状态失败", result.Error).DB()
	}
	return result.RowsAffected, nil
}

// FindPage 分页查询报表，可按类型/分类过滤，新的在前
func (d *ReportDao) FindPage(ctx context.Context, reportType model.ReportType, category model.ReportCategory, pageNum, pageSize int) ([]*model.Report, int64, error) {
	var reports []*model.Report
	var total int64

	query := d.DB.WithContext(ctx).Model(&model.Report{})
	if reportType != "" {
		query = query.Where("type = ?", reportType)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, d.err.New("统计报表数量失败", err).DB()
	}

	err := query.Scopes(mvc.Paginate(&mvc.Page{PageNum: pageNum, Size: pageSize})).
		Order("created_at DESC").Find(&reports).Error
	if err != nil {
		return nil, 0, d.err.New("分页查询报表失败", err).DB()
	}

	return reports, total, nil
}

// ExistsForPeriod 指定类型+分类+周期是否已有报表（用于防重复生成）
func (d *ReportDao) ExistsForPeriod(ctx context.Context, reportType model.ReportType, category model.ReportCategory, periodStart time.Time) (bool, error) {
	var count int64
	err := d.DB.WithContext(ctx).Model(&model.Report{}).
		Where("type = ? AND category = ? AND period_start = ? AND status <> ?",
			reportType, category, periodStart, model.ReportStatusFailed).
		Count(&count).Error
	if err != nil {
		return false, d.err.New("检查报表是否存在失败", err).DB()
	}
	return count > 0, nil
}
