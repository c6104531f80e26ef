package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-reminder/config"
	"todo-reminder/reminder"
	"todo-reminder/store"
)

func TestOpen_PersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	cfg.Storage.SQLite = filepath.Join(t.TempDir(), "tasks.db")
	cfg.Notification.Notifier = "log"

	a, err := Open(ctx, cfg, nil)
	require.NoError(t, err)

	_, err = a.List.Add(ctx, store.AddInput{Text: "first", Priority: "high"})
	require.NoError(t, err)
	_, err = a.List.Add(ctx, store.AddInput{Text: "second"})
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer b.Close()

	snap := b.List.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "first", snap[0].Text)
	assert.Equal(t, "second", snap[1].Text)
}

func TestOpen_SharedStoreBetweenProcesses(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	cfg.Storage.SQLite = filepath.Join(t.TempDir(), "tasks.db")
	cfg.Notification.Notifier = "log"
	cfg.Notification.Permission = "granted"

	// watch 长时间运行，cli 在它运行期间添加任务
	watch, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer watch.Close()

	_, err = watch.List.Add(ctx, store.AddInput{Text: "standup", Date: "2025-01-01", Time: "09:00"})
	require.NoError(t, err)

	cli, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	added, err := cli.List.Add(ctx, store.AddInput{Text: "from cli", Date: "2025-01-01", Time: "10:00"})
	require.NoError(t, err)
	require.NoError(t, cli.Close())

	statuses := watch.Engine.Tick(ctx, time.Date(2025, 1, 2, 0, 0, 0, 0, time.Local))
	require.Len(t, statuses, 2)
	assert.Equal(t, added.ID, statuses[1].ID)
	assert.True(t, statuses[1].Fired)

	reopened, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer reopened.Close()

	snap := reopened.List.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "standup", snap[0].Text)
	assert.Equal(t, "from cli", snap[1].Text)
	assert.True(t, snap[0].Notified)
	assert.True(t, snap[1].Notified)
}

func TestNewSignal(t *testing.T) {
	s := NewSignal(config.NotificationConfig{Notifier: "log", Permission: "granted"})
	assert.Equal(t, reminder.PermissionGranted, s.Permission())

	s = NewSignal(config.NotificationConfig{Notifier: "desktop"})
	assert.Equal(t, reminder.PermissionDefault, s.Permission())
}
