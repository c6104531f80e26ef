// Package app 根据配置组装存储、任务列表和提醒引擎，供 server 和 CLI 共用。
package app

import (
	"context"
	"time"

	"todo-reminder/config"
	"todo-reminder/database"
	"todo-reminder/reminder"
	"todo-reminder/store"
)

type App struct {
	Config *config.Config
	KV     database.KV
	List   *store.TaskList
	Signal *reminder.Signal
	Engine *reminder.Engine
}

// Open 打开存储并加载任务列表。onTick 可以为 nil
func Open(ctx context.Context, cfg *config.Config, onTick func(time.Time, []reminder.Status)) (*App, error) {
	kv, err := database.Open(ctx, database.Options{
		Driver:    cfg.Storage.Driver,
		SQLite:    cfg.Storage.SQLite,
		RedisAddr: cfg.Storage.Redis.Addr,
		RedisPass: cfg.Storage.Redis.Password,
		RedisDB:   cfg.Storage.Redis.DB,
		DataDir:   cfg.Storage.DataDir,
	})
	if err != nil {
		return nil, err
	}

	p := database.NewPersistence(kv, cfg.Storage.Key)
	if err := p.Migrate(ctx); err != nil {
		kv.Close()
		return nil, err
	}
	list := store.New(p.Load(ctx), p, store.Options{RequireDue: cfg.Tasks.RequireDue})

	signal := NewSignal(cfg.Notification)
	engine := reminder.NewEngine(list, signal, reminder.Config{
		Interval:     cfg.Reminder.Interval,
		AutoComplete: cfg.Reminder.AutoComplete,
		OnTick:       onTick,
	})

	return &App{
		Config: cfg,
		KV:     kv,
		List:   list,
		Signal: signal,
		Engine: engine,
	}, nil
}

// NewSignal 按通知配置创建 Signal
func NewSignal(cfg config.NotificationConfig) *reminder.Signal {
	var notifier reminder.Notifier = reminder.LogNotifier{}
	if cfg.Notifier == "desktop" {
		notifier = reminder.DesktopNotifier{Icon: cfg.Icon}
	}

	var sound reminder.Sound
	if cfg.Sound {
		sound = reminder.Beep{}
	}

	return reminder.NewSignal(reminder.ParsePermission(cfg.Permission), notifier, sound)
}

func (a *App) Close() error {
	return a.KV.Close()
}
