package reminder

import (
	"context"
	"log"
	"time"

	"todo-reminder/model"
)

// DefaultInterval 倒计时和提醒检查共用的周期
const DefaultInterval = time.Second

// TaskSource 引擎需要的任务列表操作
type TaskSource interface {
	Snapshot() []model.Task
	MarkNotified(ctx context.Context, id string, autoComplete bool) (model.Task, bool, error)
}

// Firer 发出提醒
type Firer interface {
	Fire(text string)
}

// Status 单个任务在某次 tick 中的显示状态
type Status struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	DueAt     time.Time `json:"due_at"`
	Remaining Remaining `json:"-"`
	Display   string    `json:"display"`
	Overdue   bool      `json:"overdue"`
	Completed bool      `json:"completed"`
	Notified  bool      `json:"notified"`
	// Fired 为 true 表示本次 tick 触发了提醒
	Fired bool `json:"fired"`
}

// Config 引擎配置
type Config struct {
	Interval time.Duration
	// AutoComplete 到期提醒时同时把任务标记为完成
	AutoComplete bool
	// OnTick 每次 tick 后调用，可为 nil
	OnTick func(now time.Time, statuses []Status)
}

// Engine 周期性计算倒计时并在到期时触发一次提醒
type Engine struct {
	tasks  TaskSource
	signal Firer
	cfg    Config
	now    func() time.Time
}

func NewEngine(tasks TaskSource, signal Firer, cfg Config) *Engine {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &Engine{
		tasks:  tasks,
		signal: signal,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Statuses 只计算倒计时，不触发提醒
func Statuses(tasks []model.Task, now time.Time) []Status {
	out := make([]Status, 0, len(tasks))
	for _, t := range tasks {
		if t.DueAt == nil {
			continue
		}
		r := Countdown(*t.DueAt, now)
		out = append(out, Status{
			ID:        t.ID,
			Text:      t.Text,
			DueAt:     *t.DueAt,
			Remaining: r,
			Display:   r.String(),
			Overdue:   r.Overdue,
			Completed: t.Completed,
			Notified:  t.Notified,
		})
	}
	return out
}

// Tick 执行一次检查。每个到期任务最多触发一次提醒：
// 先持久化 notified，成功后才发出提醒。
func (e *Engine) Tick(ctx context.Context, now time.Time) []Status {
	statuses := Statuses(e.tasks.Snapshot(), now)

	for i := range statuses {
		st := &statuses[i]
		if !st.Overdue || st.Notified {
			continue
		}

		task, fired, err := e.tasks.MarkNotified(ctx, st.ID, e.cfg.AutoComplete)
		if err != nil {
			log.Printf("Failed to mark task %s notified: %v", st.ID, err)
			continue
		}
		if !fired {
			continue
		}

		st.Fired = true
		st.Notified = true
		st.Completed = task.Completed
		if e.signal != nil {
			e.signal.Fire(task.Text)
		}
	}

	if e.cfg.OnTick != nil {
		e.cfg.OnTick(now, statuses)
	}
	return statuses
}

// Run 按固定周期 tick，直到 ctx 被取消
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()

	log.Printf("Reminder engine started, interval %s", e.cfg.Interval)
	e.Tick(ctx, e.now())

	for {
		select {
		case <-ctx.Done():
			log.Println("Reminder engine stopped")
			return nil
		case <-ticker.C:
			e.Tick(ctx, e.now())
		}
	}
}
