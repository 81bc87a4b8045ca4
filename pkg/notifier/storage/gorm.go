// Package storage 提供通知器配置存储实现
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Renagang21/o4o-platform-sub035/pkg/notifier"
)

// channelRecord 通知器配置的数据库记录
type channelRecord struct {
	ID          string    `gorm:"type:varchar(64);primaryKey"`
	Type        string    `gorm:"type:varchar(32);index;comment:通知器类型"`
	Name        string    `gorm:"type:varchar(128);comment:通知器名称"`
	Config      string    `gorm:"type:text;comment:通知器配置JSON"`
	Enabled     bool      `gorm:"comment:是否启用"`
	Description string    `gorm:"type:varchar(255);comment:描述"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (channelRecord) TableName() string {
	return "notify_channels"
}

// GormStorage 基于数据库的通知器配置存储
type GormStorage struct {
	db     *gorm.DB
	logger *zap.Logger
}

// GormStorageConfig 数据库存储配置
type GormStorageConfig struct {
	// 数据库连接
	DB *gorm.DB
	// 日志器
	Logger *zap.Logger
}

// NewGormStorage 创建新的数据库存储实例
func NewGormStorage(config GormStorageConfig) (notifier.Storage, error) {
	if config.DB == nil {
		return nil, fmt.Errorf("数据库连接不能为空")
	}

	if config.Logger == nil {
		logger, _ := zap.NewProduction()
		config.Logger = logger
	}

	if err := config.DB.AutoMigrate(&channelRecord{}); err != nil {
		return nil, fmt.Errorf("迁移通知器配置表失败: %w", err)
	}

	return &GormStorage{
		db:     config.DB,
		logger: config.Logger,
	}, nil
}

// GetNotifier 获取单个通知器配置
func (s *GormStorage) GetNotifier(ctx context.Context, id string) (*notifier.NotifierConfig, error) {
	var record channelRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("通知器不存在: %s", id)
		}
		return nil, fmt.Errorf("查询通知器配置失败: %w", err)
	}

	return recordToConfig(&record)
}

// GetNotifiers 获取所有通知器配置
func (s *GormStorage) GetNotifiers(ctx context.Context) ([]*notifier.NotifierConfig, error) {
	var records []channelRecord
	if err := s.db.WithContext(ctx).Order("created_at asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("查询通知器配置失败: %w", err)
	}

	configs := make([]*notifier.NotifierConfig, 0, len(records))
	for i := range records {
		config, err := recordToConfig(&records[i])
		if err != nil {
			s.logger.Error("解析通知器配置失败",
				zap.String("id", records[i].ID),
				zap.Error(err))
			continue
		}
		configs = append(configs, config)
	}

	return configs, nil
}

// SaveNotifier 保存通知器配置
func (s *GormStorage) SaveNotifier(ctx context.Context, config *notifier.NotifierConfig) error {
	if config == nil || config.ID == "" {
		return fmt.Errorf("通知器配置不合法")
	}

	configData, err := json.Marshal(config.Config)
	if err != nil {
		return fmt.Errorf("序列化通知器配置失败: %w", err)
	}

	record := channelRecord{
		ID:          config.ID,
		Type:        string(config.Type),
		Name:        config.Name,
		Config:      string(configData),
		Enabled:     config.Enabled,
		Description: config.Description,
		CreatedAt:   config.CreatedAt,
		UpdatedAt:   config.UpdatedAt,
	}

	if err := s.db.WithContext(ctx).Save(&record).Error; err != nil {
		return fmt.Errorf("保存通知器配置失败: %w", err)
	}
	return nil
}

// DeleteNotifier 删除通知器配置
func (s *GormStorage) DeleteNotifier(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&channelRecord{})
	if result.Error != nil {
		return fmt.Errorf("删除通知器配置失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("通知器不存在: %s", id)
	}
	return nil
}

// recordToConfig 数据库记录转通知器配置
func recordToConfig(record *channelRecord) (*notifier.NotifierConfig, error) {
	var configData map[string]interface{}
	if record.Config != "" {
		if err := json.Unmarshal([]byte(record.Config), &configData); err != nil {
			return nil, fmt.Errorf("解析通知器配置失败: %w", err)
		}
	}

	return &notifier.NotifierConfig{
		ID:          record.ID,
		Type:        notifier.NotifierType(record.Type),
		Name:        record.Name,
		Config:      configData,
		Enabled:     record.Enabled,
		Description: record.Description,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}, nil
}
