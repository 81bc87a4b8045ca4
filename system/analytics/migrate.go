package analytics

import (
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/logger"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate 自动执行运营分析组件的数据库迁移
func AutoMigrate(db *gorm.DB, log *logger.Log) error {
	log.Info("开始迁移运营分析组件表...")

	if err := db.AutoMigrate(
		&model.Session{},
		&model.Action{},
		&model.Metric{},
		&model.Alert{},
		&model.Report{},
	); err != nil {
		log.WithErr(err).Error("运营分析组件表迁移失败")
		return err
	}

	log.Info("运营分析组件表迁移完成")
	return nil
}
