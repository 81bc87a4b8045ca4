package config

import (
	"strings"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Mode     string `yaml:"mode"`
	Host     string `yaml:"host"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func InitRDB(redisConfig RedisConfig) *redis.Client {
	if redisConfig.Mode == "single" {
		return redis.NewClient(&redis.Options{
			Addr:     redisConfig.Host,
			Password: redisConfig.Password,
			DB:       redisConfig.DB,
		})
	}

	return redis.NewFailoverClient(&redis.FailoverOptions{
		MasterName:       "mymaster",
		SentinelAddrs:    strings.Split(redisConfig.Host, ","),
		Password:         redisConfig.Password,
		SentinelPassword: redisConfig.Password,
		DB:               redisConfig.DB,
	})
}

func InitCache(rdb *redis.Client) *cache.Cache {
	return cache.New(&cache.Options{
		Redis:      rdb,
		LocalCache: cache.NewTinyLFU(5, time.Minute),
	})
}
