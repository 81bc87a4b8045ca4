package config

type SchedulerConfig struct {
	LockKey       string `yaml:"lock-key"`
	LockTTL       int    `yaml:"lock-ttl"`
	CheckInterval int    `yaml:"check-interval"`
	MaxWorkers    int    `yaml:"max-workers"`
}
