package mvc

import (
	"context"
)

// IBaseDao 通用的数据访问接口。各DAO以嵌入方式复用通用读写，
// 场景化的条件更新与聚合查询由DAO自己持有*gorm.DB实现。
type IBaseDao[T any] interface {
	// Create 创建记录
	Create(ctx context.Context, entity *T) error
	// FindOneByColumn 根据指定列查询单条记录
	FindOneByColumn(ctx context.Context, column string, value interface{}) (*T, error)
}
