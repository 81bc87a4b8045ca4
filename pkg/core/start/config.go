package start

import (
	"fmt"
	"net"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/Renagang21/o4o-platform-sub035/pkg/core/config"
	"github.com/Renagang21/o4o-platform-sub035/pkg/core/logger"
)

type Config struct {
	AppName   string                 `yaml:"app-name"`
	Env       string                 `yaml:"env"`
	Host      string                 `yaml:"host"`
	Port      int                    `yaml:"port"`
	Log       config.LogConfig       `yaml:"log"`
	Redis     config.RedisConfig     `yaml:"redis"`
	Database  config.Database        `yaml:"db"`
	Scheduler config.SchedulerConfig `yaml:"scheduler"`
}

type Configures struct {
	Config Config
	Logger *logger.Log
}

func NewConfigures(file []byte, env string) *Configures {
	var cfg Config
	err := yaml.Unmarshal(file, &cfg)
	if err != nil {
		panic(fmt.Sprintf("读取文件信息失败，因为%v", err))
	}

	cfg.Env = env
	cfg.Host, _ = getLocalIP()

	level := cfg.Log.Level
	if level == "" {
		level = "debug"
	}

	return &Configures{
		Config: cfg,
		Logger: logger.InitLogger(level),
	}
}

// getLocalIP 获取本机IP地址（优先获取内网IP）
func getLocalIP() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}

	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				// 优先返回内网IP
				if ipnet.IP.IsPrivate() {
					return ipnet.IP.String(), nil
				}
			}
		}
	}

	// 如果没找到内网IP，返回第一个非回环地址
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String(), nil
			}
		}
	}

	return "127.0.0.1", nil
}

func (c *Configures) EnableRedis() *redis.Client {
	return config.InitRDB(c.Config.Redis)
}

func (c *Configures) EnableCache(rdb *redis.Client) *cache.Cache {
	return config.InitCache(rdb)
}

func (c *Configures) EnableMysql() *gorm.DB {
	db, err := config.InitMysql(c.Config.Database)
	if err != nil {
		c.Logger.WithField("database", c.Config.Database.Host).WithField("err", err).Panic("failed connect database")
	}
	c.Logger.Info("connect database success")
	return db
}
