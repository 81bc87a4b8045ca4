package mvc

import (
	"context"

	"gorm.io/gorm"

	errorc "github.com/Renagang21/o4o-platform-sub035/pkg/core/err"
)

// GormDaoImpl GORM数据访问实现
type GormDaoImpl[T any] struct {
	db *gorm.DB
}

// NewGormDao 创建GORM数据访问实例
func NewGormDao[T any](db *gorm.DB) IBaseDao[T] {
	return &GormDaoImpl[T]{
		db: db,
	}
}

func (d *GormDaoImpl[T]) Create(ctx context.Context, entity *T) error {
	err := d.db.WithContext(ctx).Create(entity).Error
	if err != nil {
		return errorc.New("数据库操作失败", err).DB()
	}
	return nil
}

func (d *GormDaoImpl[T]) FindOneByColumn(ctx context.Context, column string, value interface{}) (*T, error) {
	var entity T
	err := d.db.WithContext(ctx).Where(column+" = ?", value).First(&entity).Error
	if err != nil {
		return nil, errorc.New("查询记录失败", err).DB()
	}
	return &entity, nil
}
