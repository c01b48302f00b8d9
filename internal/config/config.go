package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`   // 服务器配置
	Postgres PostgresConfig `mapstructure:"postgres"` // PostgreSQL配置
	Cache    CacheConfig    `mapstructure:"cache"`    // 查询缓存配置
	NATS     NATSConfig     `mapstructure:"nats"`     // 结果镜像（NATS）配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// PostgresConfig PostgreSQL数据库配置
type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// CacheConfig 查询缓存配置。TTL对所有查询种类统一生效
type CacheConfig struct {
	TTL                time.Duration `mapstructure:"ttl"`                 // 条目过期时间
	Capacity           int           `mapstructure:"capacity"`            // 最大条目数
	NumShards          int           `mapstructure:"num_shards"`          // 分片数
	EvictionPercentage int           `mapstructure:"eviction_percentage"` // 容量满时淘汰比例(1-100)
}

// NATSConfig 结果镜像配置。连接失败时服务降级为仅记录日志，不影响查询
type NATSConfig struct {
	URL     string `mapstructure:"url"`     // NATS服务器地址
	Subject string `mapstructure:"subject"` // 查询结果发布主题
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
}

// applyDefaults 缓存参数空值兜底
func applyDefaults(cfg *Config) {
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = 60 * time.Minute
	}
	if cfg.Cache.Capacity <= 0 {
		cfg.Cache.Capacity = 10000
	}
	if cfg.Cache.NumShards <= 0 {
		cfg.Cache.NumShards = 256
	}
	if cfg.Cache.EvictionPercentage < 1 || cfg.Cache.EvictionPercentage > 100 {
		cfg.Cache.EvictionPercentage = 10
	}
}
