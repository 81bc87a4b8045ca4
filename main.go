package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Renagang21/o4o-platform-sub035/app"
	"github.com/Renagang21/o4o-platform-sub035/base"
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/start"
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/system"
	"github.com/Renagang21/o4o-platform-sub035/pkg/db"
	"github.com/Renagang21/o4o-platform-sub035/pkg/lock"
	"github.com/Renagang21/o4o-platform-sub035/pkg/notifier"
	notifierstorage "github.com/Renagang21/o4o-platform-sub035/pkg/notifier/storage"
	"github.com/Renagang21/o4o-platform-sub035/pkg/scheduler"
	"github.com/Renagang21/o4o-platform-sub035/pkg/workqueue"
	"github.com/Renagang21/o4o-platform-sub035/router"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	env, filename := getBaseInfo()

	file, err := os.ReadFile(filename)
	if err != nil {
		panic(fmt.Sprintf("读取配置文件失败,因为：%v", err))
	}

	configures := start.NewConfigures(file, env)
	base.Configures = configures
	base.Logger = configures.Logger
	base.ENV = env

	base.DB = configures.EnableMysql()

	// 执行数据库迁移
	if err := db.AutoMigrate(base.DB); err != nil {
		configures.Logger.Panic(fmt.Sprintf("数据库迁移失败: %v", err))
	}

	base.RDB = configures.EnableRedis()
	base.Cache = configures.EnableCache(base.RDB)
	base.LockManager = lock.NewRedisLockManager(base.RDB, nil)

	// 启动分布式调度器
	base.Scheduler = scheduler.NewScheduler(base.LockManager, schedulerConfig(configures))
	if err := base.Scheduler.Start(); err != nil {
		configures.Logger.Panic(fmt.Sprintf("启动调度器失败: %v", err))
	}
	system.RegisterClose(func() {
		_ = base.Scheduler.Stop()
	})

	// 启动异步任务队列
	base.Queue = workqueue.New(workqueue.Config{})
	if err := base.Queue.Start(); err != nil {
		configures.Logger.Panic(fmt.Sprintf("启动任务队列失败: %v", err))
	}
	system.RegisterClose(func() {
		base.Queue.Stop()
	})

	// 初始化通知器管理器
	zapLogger, err := createZapLogger(env)
	if err != nil {
		configures.Logger.Panic(fmt.Sprintf("创建 zap logger 失败: %v", err))
	}
	base.Notifier = initNotifier(zapLogger)
	system.RegisterClose(func() {
		base.Notifier.Stop()
	})

	// 创建应用组合根
	appRoot := app.NewApp()

	// 注册运营分析定时任务
	if err := appRoot.AnalyticsModule.RegisterTasks(base.Scheduler); err != nil {
		configures.Logger.Panic(fmt.Sprintf("注册定时任务失败: %v", err))
	}

	// 创建 Fiber 应用并注册路由
	fiberApp := app.GetApp()
	router.Register(appRoot, fiberApp)

	log.Fatal(fiberApp.Listen(fmt.Sprintf(":%d", base.Configures.Config.Port)))
}

func getBaseInfo() (string, string) {
	env := flag.String("env", "dev", "环境配置 (dev, prod, test等)")
	configFile := flag.String("config", "", "配置文件路径，默认为 ./resources/{env}.yaml")

	flag.Parse()

	var filename string
	if *configFile == "" {
		getwd, err := os.Getwd()
		if err != nil {
			panic(fmt.Sprintf("获取当前文件位置失败,因为：%v", err))
		}
		filename = getwd + "/resources/" + *env + ".yaml"
	} else {
		filename = *configFile
	}
	return *env, filename
}

// schedulerConfig 把配置文件中的调度器配置转为调度器参数，缺省值用默认配置补齐
func schedulerConfig(configures *start.Configures) *scheduler.SchedulerConfig {
	cfg := scheduler.DefaultSchedulerConfig()

	sc := configures.Config.Scheduler
	if sc.LockKey != "" {
		cfg.LockKey = sc.LockKey
	}
	if sc.LockTTL > 0 {
		cfg.LockTTL = time.Duration(sc.LockTTL) * time.Second
	}
	if sc.CheckInterval > 0 {
		cfg.CheckInterval = time.Duration(sc.CheckInterval) * time.Second
	}
	if sc.MaxWorkers > 0 {
		cfg.MaxWorkers = sc.MaxWorkers
	}
	return cfg
}

// initNotifier 初始化通知器管理器，配置存库；没有任何渠道时自动创建站内看板渠道
func initNotifier(zapLogger *zap.Logger) *notifier.Manager {
	storage, err := notifierstorage.NewGormStorage(notifierstorage.GormStorageConfig{
		DB:     base.DB,
		Logger: zapLogger,
	})
	if err != nil {
		base.Logger.Panic(fmt.Sprintf("初始化通知器存储失败: %v", err))
	}

	manager, err := notifier.NewManager(notifier.ManagerConfig{
		Storage: storage,
		Logger:  zapLogger,
	})
	if err != nil {
		base.Logger.Panic(fmt.Sprintf("创建通知器管理器失败: %v", err))
	}

	if err := manager.Start(); err != nil {
		base.Logger.Panic(fmt.Sprintf("启动通知器管理器失败: %v", err))
	}

	if len(manager.GetNotifiers()) == 0 {
		err := manager.CreateNotifier(&notifier.NotifierConfig{
			ID:          "dashboard-default",
			Type:        notifier.NotifierTypeDashboard,
			Name:        "站内看板",
			Config:      &notifier.DashboardNotifierConfig{MaxEntries: 200},
			Enabled:     true,
			Description: "默认站内看板通知渠道",
		})
		if err != nil {
			base.Logger.WithErr(err).Error("创建默认看板通知渠道失败")
		}
	}

	return manager
}

// createZapLogger 创建 zap logger 用于通知器等基于 zap 的组件
func createZapLogger(env string) (*zap.Logger, error) {
	var config zap.Config

	if env == "prod" {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	} else {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return config.Build()
}
