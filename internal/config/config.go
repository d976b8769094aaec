package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Ocypod    OcypodConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Host string
	Port string
}

// OcypodConfig points at the external queue service and carries the
// queue parameters pushed on startup.
type OcypodConfig struct {
	BaseURL      string
	Queue        string
	Timeout      string
	ExpiresAfter string
	Retries      int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	CreatePerMin int
}

type WorkerConfig struct {
	KVPath      string // parKVFinder install root
	JobPath     string // root of per-job working directories
	BackoffSecs int    // sleep between failed lease attempts
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variables
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8081")
	viper.SetDefault("ocypod.base_url", "http://ocypod:8023")
	viper.SetDefault("ocypod.queue", "kvfinder")
	viper.SetDefault("ocypod.timeout", "30m")
	viper.SetDefault("ocypod.expires_after", "1d")
	viper.SetDefault("ocypod.retries", 0)
	viper.SetDefault("redis.addr", "")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("ratelimit.create_per_min", 30)
	viper.SetDefault("worker.kv_path", "/KVFinder")
	viper.SetDefault("worker.job_path", "/jobs")
	viper.SetDefault("worker.backoff_secs", 5)

	// Try to read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("server.host"),
			Port: viper.GetString("server.port"),
		},
		Ocypod: OcypodConfig{
			BaseURL:      viper.GetString("ocypod.base_url"),
			Queue:        viper.GetString("ocypod.queue"),
			Timeout:      viper.GetString("ocypod.timeout"),
			ExpiresAfter: viper.GetString("ocypod.expires_after"),
			Retries:      viper.GetInt("ocypod.retries"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		RateLimit: RateLimitConfig{
			CreatePerMin: viper.GetInt("ratelimit.create_per_min"),
		},
		Worker: WorkerConfig{
			KVPath:      viper.GetString("worker.kv_path"),
			JobPath:     viper.GetString("worker.job_path"),
			BackoffSecs: viper.GetInt("worker.backoff_secs"),
		},
	}

	return cfg, nil
}
