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

// SessionDao 会话数据访问层
type SessionDao struct {
	mvc.IBaseDao[model.Session]
	log *logger.Log
	err *errorc.ErrorBuilder
	DB  *gorm.DB
}

// NewSessionDao 创建会话 DAO 实例
func NewSessionDao(db *gorm.DB, log *logger.Log) *SessionDao {
	return &SessionDao{
		IBaseDao: mvc.NewGormDao[model.Session](db),
		log:      log.WithEntryName("SessionDao"),
		err:      errorc.NewErrorBuilder("SessionDao"),
		DB:       db,
	}
}

// Touch 更新最近活跃时间与时长，返回受影响行数。时长由调用方基于会话创建时间算好传入
func (d *SessionDao) Touch(ctx context.Context, sessionID string, now time.Time, durationSeconds int64) (int64, error) {
	result := d.DB.WithContext(ctx).Model(&model.Session{}).
		Where("id = ? AND status = ?", sessionID, model.SessionStatusActive).
		Updates(map[string]interface{}{
			"last_activity_at": now,
			"duration_seconds": durationSeconds,
		})
	if result.Error != nil {
		return 0, d.err.New("更新会话活跃时间失败", result.Error).DB()
	}
	return result.RowsAffected, nil
}

// End 结束会话，幂等：只有ACTIVE会话会被改写
func (d *SessionDao) End(ctx context.Context, sessionID string, now time.Time, durationSeconds int64) (int64, error) {
	result := d.DB.WithContext(ctx).Model(&model.Session{}).
		Where("id = ? AND status = ?", sessionID, model.SessionStatusActive).
		Updates(map[string]interface{}{
			"status":           model.SessionStatusInactive,
			"ended_at":         now,
			"duration_seconds": durationSeconds,
		})
	if result.Error != nil {
		return 0, d.err.New("结束会话失败", result.Error).DB()
	}
	return result.RowsAffected, nil
}

// IncrementCounter 原子递增指定计数列，同时刷新活跃时间与时长
func (d *SessionDao) IncrementCounter(ctx context.Context, sessionID string, column string, now time.Time, durationSeconds int64) (int64, error) {
	result := d.DB.WithContext(ctx).Model(&model.Session{}).
		Where("id = ? AND status = ?", sessionID, model.SessionStatusActive).
		Updates(map[string]interface{}{
			column:             gorm.Expr(column+" + ?", 1),
			"action_count":     gorm.Expr("action_count + ?", 1),
			"last_activity_at": now,
			"duration_seconds": durationSeconds,
		})
	if result.Error != nil {
		return 0, d.err.New("更新会话计数失败", result.Error).DB()
	}
	return result.RowsAffected, nil
}

// IncrementActionCount 只递增行为计数
func (d *SessionDao) IncrementActionCount(ctx context.Context, sessionID string, now time.Time, durationSeconds int64) (int64, error) {
	result := d.DB.WithContext(ctx).Model(&model.Session{}).
		Where("id = ? AND status = ?", sessionID, model.SessionStatusActive).
		Updates(map[string]interface{}{
			"action_count":     gorm.Expr("action_count + ?", 1),
			"last_activity_at": now,
			"duration_seconds": durationSeconds,
		})
	if result.Error != nil {
		return 0, d.err.New("更新会话计数失败", result.Error).DB()
	}
	return result.RowsAffected, nil
}

// CountActive 当前ACTIVE会话数
func (d *SessionDao) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := d.DB.WithContext(ctx).Model(&model.Session{}).
		Where("status = ?", model.SessionStatusActive).Count(&count).Error
	if err != nil {
		return 0, d.err.New("统计活跃会话失败", err).DB()
	}
	return count, nil
}

// CountDistinctUsers 窗口内有活跃记录的去重用户数
func (d *SessionDao) CountDistinctUsers(ctx context.Context, since, until time.Time) (int64, error) {
	var count int64
	err := d.DB.WithContext(ctx).Model(&model.Session{}).
		Where("last_activity_at >= ? AND last_activity_at < ? AND user_id <> ''", since, until).
		Distinct("user_id").Count(&count).Error
	if err != nil {
		return 0, d.err.New("统计活跃用户失败", err).DB()
	}
	return count, nil
}

// CountDistinctUsersTotal 历史累计去重用户数
func (d *SessionDao) CountDistinctUsersTotal(ctx context.Context) (int64, error) {
	var count int64
	err := d.DB.WithContext(ctx).Model(&model.Session{}).
		Where("user_id <> ''").
		Distinct("user_id").Count(&count).Error
	if err != nil {
		return 0, d.err.New("统计累计用户失败", err).DB()
	}
	return count, nil
}

// CountNewUsers 窗口内首次出现的用户数（首个会话创建于窗口内）
func (d *SessionDao) CountNewUsers(ctx context.Context, since, until time.Time) (int64, error) {
	var count int64
	err := d.DB.WithContext(ctx).Model(&model.Session{}).
		Select("COUNT(DISTINCT user_id)").
		Where("user_id <> ''").
		Where("user_id NOT IN (?)",
			d.DB.Model(&model.Session{}).Select("user_id").Where("created_at < ? AND user_id <> ''", since),
		).
		Where("created_at >= ? AND created_at < ?", since, until).
		Count(&count).Error
	if err != nil {
		return 0, d.err.New("统计新用户失败", err).DB()
	}
	return count, nil
}

// CountInWindow 窗口内创建的会话数
func (d *SessionDao) CountInWindow(ctx context.Context, since, until time.Time) (int64, error) {
	var count int64
	err := d.DB.WithContext(ctx).Model(&model.Session{}).
		Where("created_at >= ? AND created_at < ?", since, until).Count(&count).Error
	if err != nil {
		return 0, d.err.New("统计会话数失败", err).DB()
	}
	return count, nil
}

// AvgDurationSeconds 窗口内会话平均时长（秒）
func (d *SessionDao) AvgDurationSeconds(ctx context.Context, since, until time.Time) (float64, error) {
	var avg *float64
	err := d.DB.WithContext(ctx).Model(&model.Session{}).
		Select("AVG(duration_seconds)").
		Where("created_at >= ? AND created_at < ?", since, until).
		Scan(&avg).Error
	if err != nil {
		return 0, d.err.New("统计会话平均时长失败", err).DB()
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// FindActiveInWindow 窗口内有活跃记录的会话
func (d *SessionDao) FindActiveInWindow(ctx context.Context, since, until time.Time) ([]*model.Session, error) {
	var sessions []*model.Session
	err := d.DB.WithContext(ctx).
		Where("last_activity_at >= ? AND last_activity_at < ?", since, until).
		Find(&sessions).Error
	if err != nil {
		return nil, d.err.New("查询窗口内会话失败", err).DB()
	}
	return sessions, nil
}

// CounterSums 窗口内各计数列的总和
type CounterSums struct {
	PageViews int64
	Actions   int64
	Feedback  int64
	Content   int64
	Errors    int64
}

// SumCountersInWindow 窗口内会话计数合计
func (d *SessionDao) SumCountersInWindow(ctx context.Context, since, until time.Time) (*CounterSums, error) {
	var row struct {
		PageViews int64
		Actions   int64
		Feedback  int64
		Content   int64
		Errors    int64
	}
	err := d.DB.WithContext(ctx).Model(&model.Session{}).
		Select("COALESCE(SUM(page_view_count),0) AS page_views, COALESCE(SUM(action_count),0) AS actions, COALESCE(SUM(feedback_submitted),0) AS feedback, COALESCE(SUM(content_viewed),0) AS content, COALESCE(SUM(errors_encountered),0) AS errors").
		Where("created_at >= ? AND created_at < ?", since, until).
		Scan(&row).Error
	if err != nil {
		return nil, d.err.New("统计会话计数合计失败", err).DB()
	}
	return &CounterSums{
		PageViews: row.PageViews,
		Actions:   row.Actions,
		Feedback:  row.Feedback,
		Content:   row.Content,
		Errors:    row.Errors,
	}, nil
}
