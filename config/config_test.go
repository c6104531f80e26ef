package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "todo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
storage:
  driver: redis
  redis:
    addr: "cache:6379"
    db: 2
reminder:
  interval: 5s
  auto_complete: false
notification:
  notifier: log
  permission: granted
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, "cache:6379", cfg.Storage.Redis.Addr)
	assert.Equal(t, 2, cfg.Storage.Redis.DB)
	assert.Equal(t, 5*time.Second, cfg.Reminder.Interval)
	assert.False(t, cfg.Reminder.AutoComplete)
	assert.Equal(t, "log", cfg.Notification.Notifier)
	assert.Equal(t, "granted", cfg.Notification.Permission)

	// 未出现在文件中的键保持默认值
	assert.Equal(t, "tasks", cfg.Storage.Key)
	assert.True(t, cfg.Notification.Sound)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "storage:\n  driver: file\n")
	t.Setenv("TODO_STORAGE_DRIVER", "memory")
	t.Setenv("TODO_REMINDER_AUTO_COMPLETE", "false")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.False(t, cfg.Reminder.AutoComplete)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, "storage:\n  driver: etcd\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "reminder:\n  interval: 0s\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.Second, cfg.Reminder.Interval)
	assert.True(t, cfg.Reminder.AutoComplete)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
}
