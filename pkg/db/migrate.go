package db

import (
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/logger"
	"github.com/Renagang21/o4o-platform-sub035/system/analytics"

	"gorm.io/gorm"
)

// AutoMigrate 自动执行所有数据库迁移
func AutoMigrate(db *gorm.DB) error {
	log := logger.GetLogger().WithEntryName("DatabaseMigration")

	log.Info("开始执行数据库迁移...")

	// 运营分析组件表迁移
	if err := analytics.AutoMigrate(db, log); err != nil {
		return err
	}

	log.Info("数据库迁移全部完成")
	return nil
}
