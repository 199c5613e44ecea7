// Package config 基于 viper 的配置加载：优先环境变量，
// 其次工作目录下的 config.yaml，最后内置默认值。
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin 的 debug/release/test
	// ReadTimeout 列表读路径的统一超时，超时返回降级空页
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	RateLimit   float64       `mapstructure:"rate_limit"` // 每秒请求数，0 表示不限
	RateBurst   int           `mapstructure:"rate_burst"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	// Addr 为空时不启用 redis（在线状态功能降级）
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// PresenceTTL 在线心跳 key 的存活时间
	PresenceTTL time.Duration `mapstructure:"presence_ttl"`
}

type AuthConfig struct {
	// ProviderURL 身份服务（GoTrue 兼容）根地址
	ProviderURL string `mapstructure:"provider_url"`
	// ServiceKey 服务端密钥，注册补偿删除账号时需要
	ServiceKey string `mapstructure:"service_key"`
	// JWTSecret 本地校验 access token 用的 HS256 密钥
	JWTSecret string `mapstructure:"jwt_secret"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type SentryConfig struct {
	DSN string `mapstructure:"dsn"`
}

type TracingConfig struct {
	// Endpoint OTLP/HTTP 上报地址，为空则关闭
	Endpoint string `mapstructure:"endpoint"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("JAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.rate_limit", 0)
	v.SetDefault("server.rate_burst", 50)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "jam")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.presence_ttl", 5*time.Minute)
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		// 配置文件可缺省，其余错误要暴露
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
