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

// AlertDao 告警数据访问层
type AlertDao struct {
	mvc.IBaseDao[model.Alert]
	log *logger.Log
	err *errorc.ErrorBuilder
	DB  *gorm.DB
}

// NewAlertDao 创建告警 DAO 实例
func NewAlertDao(db *gorm.DB, log *logger.Log) *AlertDao {
	return &AlertDao{
		IBaseDao: mvc.NewGormDao[model.Alert](db),
		log:      log.WithEntryName("AlertDao"),
		err:      errorc.NewErrorBuilder("AlertDao"),
		DB:       db,
	}
}

// TransitionStatus 条件更新状态，WHERE带上原状态实现乐观并发；0行受影响说明状态已被并发修改
func (d *AlertDao) TransitionStatus(ctx context.Context, id string, from, to model.AlertStatus, updates map[string]interface{}) (int64, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = to

	result := d.DB.WithContext(ctx).Model(&model.Alert{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return 0, d.err.New("更新告警状态失败", result.Error).DB()
	}
	return result.RowsAffected, nil
}

// MarkEscalated 条件升级：仅ACTIVE且未升级的告警会被改写，保证并发扫描下至多升级一次。
// map形式的Updates不走模型的serializer，通道列表要先手动序列化成JSON文本。
func (d *AlertDao) MarkEscalated(ctx context.Context, id string, now time.Time, rule string, channels model.ChannelList) (int64, error) {
	channelsJSON, err := json.Marshal(channels)
	if err != nil {
		return 0, d.err.New("序列化告警通道失败", err)
	}

	result := d.DB.WithContext(ctx).Model(&model.Alert{}).
		Where("id = ? AND status = ? AND is_escalated = ?", id, model.AlertStatusActive, false).
		Updates(map[string]interface{}{
			"is_escalated":    true,
			"escalated_at":    now,
			"escalation_rule": rule,
			"channels":        string(channelsJSON),
		})
	if result.Error != nil {
		return 0, d.err.New("升级告警失败", result.Error).DB()
	}
	return result.RowsAffected, nil
}

// IncrementOccurrence 记录一次重复发生
func (d *AlertDao) IncrementOccurrence(ctx context.Context, id string, now time.Time) (int64, error) {
	result := d.DB.WithContext(ctx).Model(&model.Alert{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"occurrence_count": gorm.Expr("occurrence_count + ?", 1),
			"is_recurring":     true,
			"last_occurred_at": now,
		})
	if result.Error != nil {
		return 0, d.err.New("更新告警发生次数失败", result.Error).DB()
	}
	return result.RowsAffected, nil
}

// FindEscalationCandidates 待升级的告警：ACTIVE、级别HIGH/CRITICAL、未升级、创建早于截止时间
func (d *AlertDao) FindEscalationCandidates(ctx context.Context, createdBefore time.Time) ([]*model.Alert, error) {
	var alerts []*model.Alert
	err := d.DB.WithContext(ctx).
		Where("status = ? AND is_escalated = ? AND severity IN ? AND created_at <= ?",
			model.AlertStatusActive, false,
			[]model.AlertSeverity{model.AlertSeverityHigh, model.AlertSeverityCritical},
			createdBefore).
		Find(&alerts).Error
	if err != nil {
		return nil, d.err.New("查询待升级告警失败", err).DB()
	}
	return alerts, nil
}

// FindPageByStatus 按状态分页查询，新的在前
func (d *AlertDao) FindPageByStatus(ctx context.Context, status model.AlertStatus, pageNum, pageSize int) ([]*model.Alert, int64, error) {
	var alerts []*model.Alert
	var total int64

	query := d.DB.WithContext(ctx).Model(&model.Alert{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, d.err.New("统计告警数量失败", err).DB()
	}

	err := query.Scopes(mvc.Paginate(&mvc.Page{PageNum: pageNum, Size: pageSize})).
		Order("created_at DESC").Find(&alerts).Error
	if err != nil {
		return nil, 0, d.err.New("分页查询告警失败", err).DB()
	}

	return alerts, total, nil
}
