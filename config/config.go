package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 完整配置
type Config struct {
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Storage      StorageConfig      `yaml:"storage" mapstructure:"storage"`
	Tasks        TasksConfig        `yaml:"tasks" mapstructure:"tasks"`
	Reminder     ReminderConfig     `yaml:"reminder" mapstructure:"reminder"`
	Notification NotificationConfig `yaml:"notification" mapstructure:"notification"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// StorageConfig 持久化配置
type StorageConfig struct {
	Driver  string      `yaml:"driver" mapstructure:"driver"` // sqlite, redis, file, memory
	Key     string      `yaml:"key" mapstructure:"key"`
	SQLite  string      `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	DataDir string      `yaml:"data_dir" mapstructure:"data_dir"`
	Redis   RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

// TasksConfig 添加任务时的规则
type TasksConfig struct {
	RequireDue bool `yaml:"require_due" mapstructure:"require_due"`
}

// ReminderConfig 提醒引擎配置
type ReminderConfig struct {
	Interval     time.Duration `yaml:"interval" mapstructure:"interval"`
	AutoComplete bool          `yaml:"auto_complete" mapstructure:"auto_complete"`
}

// NotificationConfig 通知配置
type NotificationConfig struct {
	Notifier   string `yaml:"notifier" mapstructure:"notifier"`     // desktop, log
	Permission string `yaml:"permission" mapstructure:"permission"` // default, granted, denied
	Sound      bool   `yaml:"sound" mapstructure:"sound"`
	Icon       string `yaml:"icon" mapstructure:"icon"`
}

// Default 默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":7789"},
		Storage: StorageConfig{
			Driver:  "sqlite",
			Key:     "tasks",
			SQLite:  "./tasks.db",
			DataDir: "./data",
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
		Reminder: ReminderConfig{
			Interval:     time.Second,
			AutoComplete: true,
		},
		Notification: NotificationConfig{
			Notifier:   "desktop",
			Permission: "default",
			Sound:      true,
		},
	}
}

// Load 读取配置文件和 TODO_* 环境变量。
// path 为空时在当前目录和 ~/.todo 下查找 todo.yaml，找不到则使用默认值。
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	setDefaults(v, cfg)

	v.SetEnvPrefix("TODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("todo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".todo"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults 注册所有键，AutomaticEnv 只对已知键生效
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("storage.driver", cfg.Storage.Driver)
	v.SetDefault("storage.key", cfg.Storage.Key)
	v.SetDefault("storage.sqlite_path", cfg.Storage.SQLite)
	v.SetDefault("storage.data_dir", cfg.Storage.DataDir)
	v.SetDefault("storage.redis.addr", cfg.Storage.Redis.Addr)
	v.SetDefault("storage.redis.password", cfg.Storage.Redis.Password)
	v.SetDefault("storage.redis.db", cfg.Storage.Redis.DB)
	v.SetDefault("tasks.require_due", cfg.Tasks.RequireDue)
	v.SetDefault("reminder.interval", cfg.Reminder.Interval)
	v.SetDefault("reminder.auto_complete", cfg.Reminder.AutoComplete)
	v.SetDefault("notification.notifier", cfg.Notification.Notifier)
	v.SetDefault("notification.permission", cfg.Notification.Permission)
	v.SetDefault("notification.sound", cfg.Notification.Sound)
	v.SetDefault("notification.icon", cfg.Notification.Icon)
}

// Validate 检查配置取值
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "sqlite", "redis", "file", "memory":
	default:
		return fmt.Errorf("invalid storage.driver %q", c.Storage.Driver)
	}
	switch c.Notification.Notifier {
	case "desktop", "log":
	default:
		return fmt.Errorf("invalid notification.notifier %q", c.Notification.Notifier)
	}
	if c.Reminder.Interval <= 0 {
		return fmt.Errorf("reminder.interval must be positive, got %s", c.Reminder.Interval)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage.key must not be empty")
	}
	return nil
}
