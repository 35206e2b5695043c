package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 服务端配置
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Redis   RedisConfig   `yaml:"redis"`
	Game    GameConfig    `yaml:"game"`
	Scoring ScoringConfig `yaml:"scoring"`
	Catalog CatalogConfig `yaml:"catalog"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig 对局配置
type GameConfig struct {
	RoomGrace     int `yaml:"room_grace"`      // 空房间保留时长（分钟）
	AutoEvalDelay int `yaml:"auto_eval_delay"` // 自动结算延迟上限（毫秒）
	SaveRetries   int `yaml:"save_retries"`    // 乐观写入重试次数
}

// ScoringConfig 评分服务配置
type ScoringConfig struct {
	URL     string `yaml:"url"`     // 为空时使用本地精确匹配评分
	Timeout int    `yaml:"timeout"` // 请求超时（秒）
}

// CatalogConfig 曲库配置
type CatalogConfig struct {
	Path string `yaml:"path"` // 曲库 yaml 文件路径
}

// RoomGraceDuration 返回空房间保留时长
func (c *GameConfig) RoomGraceDuration() time.Duration {
	return time.Duration(c.RoomGrace) * time.Minute
}

// AutoEvalDelayDuration 返回自动结算延迟上限
func (c *GameConfig) AutoEvalDelayDuration() time.Duration {
	return time.Duration(c.AutoEvalDelay) * time.Millisecond
}

// TimeoutDuration 返回评分请求超时
func (c *ScoringConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	return &cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg
}

// applyDefaults 设置默认值
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 1812
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Game.RoomGrace == 0 {
		c.Game.RoomGrace = 10
	}
	if c.Game.AutoEvalDelay == 0 {
		c.Game.AutoEvalDelay = 500
	}
	if c.Game.SaveRetries == 0 {
		c.Game.SaveRetries = 3
	}
	if c.Scoring.Timeout == 0 {
		c.Scoring.Timeout = 5
	}
	if c.Catalog.Path == "" {
		c.Catalog.Path = "configs/catalog.yaml"
	}
}

// applyEnv 环境变量覆盖（部署时通过 .env 注入）
func (c *Config) applyEnv() {
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.Redis.DB = db
		}
	}
	if v := os.Getenv("SCORING_URL"); v != "" {
		c.Scoring.URL = v
	}
}
