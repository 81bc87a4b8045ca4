package base

import (
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/logger"
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/start"
	"github.com/Renagang21/o4o-platform-sub035/pkg/lock"
	"github.com/Renagang21/o4o-platform-sub035/pkg/notifier"
	"github.com/Renagang21/o4o-platform-sub035/pkg/scheduler"
	"github.com/Renagang21/o4o-platform-sub035/pkg/workqueue"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	Configures  *start.Configures
	Logger      *logger.Log
	ENV         string
	DB          *gorm.DB
	RDB         *redis.Client
	Cache       *cache.Cache
	LockManager *lock.RedisLockManager
	Scheduler   *scheduler.Scheduler
	Queue       *workqueue.Queue
	Notifier    *notifier.Manager
)
