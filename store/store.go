package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"todo-reminder/model"
)

var (
	ErrNotFound      = errors.New("task not found")
	ErrEmptyText     = errors.New("task text is empty")
	ErrIncompleteDue = errors.New("due date and time must both be set")
	ErrInvalidDue    = errors.New("invalid due date or time")
	ErrAmbiguousID   = errors.New("task id prefix is ambiguous")
)

// Persister 保存完整的有序任务列表
type Persister interface {
	Save(ctx context.Context, tasks []model.Task) error
}

// Loader 从存储读取最新的完整列表。实现了 Loader 的 Persister 会在
// 每次读写前刷新内存列表，这样共享同一份存储的多个进程不会互相覆盖。
type Loader interface {
	Reload(ctx context.Context) ([]model.Task, error)
}

// Options 控制添加任务时的校验
type Options struct {
	// RequireDue 为 true 时，没有截止时间的任务会被拒绝
	RequireDue bool
}

// AddInput 添加任务的输入
type AddInput struct {
	Text     string
	Priority string
	Date     string // YYYY-MM-DD
	Time     string // HH:MM
}

// TaskList 有序任务列表。每次修改都会在返回前同步持久化；
// 持久化失败时内存中的列表保持不变。存储同时是 Loader 时，
// 每次操作都基于存储中的最新列表进行。
type TaskList struct {
	mu    sync.Mutex
	tasks []model.Task
	saver Persister
	opts  Options
}

// New 用已加载的任务创建列表
func New(initial []model.Task, saver Persister, opts Options) *TaskList {
	tasks := make([]model.Task, len(initial))
	copy(tasks, initial)
	return &TaskList{tasks: tasks, saver: saver, opts: opts}
}

// refreshLocked 用存储中的列表替换内存列表
func (l *TaskList) refreshLocked(ctx context.Context) error {
	ld, ok := l.saver.(Loader)
	if !ok {
		return nil
	}
	tasks, err := ld.Reload(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload tasks: %w", err)
	}
	l.tasks = tasks
	return nil
}

// readLocked 只读操作刷新失败时继续使用内存中的列表
func (l *TaskList) readLocked() {
	if err := l.refreshLocked(context.Background()); err != nil {
		log.Printf("Serving cached tasks: %v", err)
	}
}

// commitLocked 持久化 next，成功后替换内存列表
func (l *TaskList) commitLocked(ctx context.Context, next []model.Task) error {
	if l.saver != nil {
		if err := l.saver.Save(ctx, next); err != nil {
			return fmt.Errorf("failed to persist tasks: %w", err)
		}
	}
	l.tasks = next
	return nil
}

func (l *TaskList) cloneLocked() []model.Task {
	out := make([]model.Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

func (l *TaskList) indexLocked(id string) int {
	for i, t := range l.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Snapshot 返回当前顺序的副本
func (l *TaskList) Snapshot() []model.Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.readLocked()
	return l.cloneLocked()
}

// Len 任务数量
func (l *TaskList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.readLocked()
	return len(l.tasks)
}

// Get 根据 ID 获取任务
func (l *TaskList) Get(id string) (model.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.readLocked()

	i := l.indexLocked(id)
	if i < 0 {
		return model.Task{}, ErrNotFound
	}
	return l.tasks[i], nil
}

// Resolve 把完整 ID 或唯一前缀解析为完整 ID
func (l *TaskList) Resolve(prefix string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.readLocked()

	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", ErrNotFound
	}

	match := ""
	for _, t := range l.tasks {
		if t.ID == prefix {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, prefix) {
			if match != "" {
				return "", ErrAmbiguousID
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", ErrNotFound
	}
	return match, nil
}

// Add 追加一个新任务到列表末尾
func (l *TaskList) Add(ctx context.Context, in AddInput) (model.Task, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return model.Task{}, ErrEmptyText
	}

	due, complete, err := model.CombineDue(in.Date, in.Time)
	if err != nil {
		return model.Task{}, fmt.Errorf("%w: %v", ErrInvalidDue, err)
	}
	if !complete || (l.opts.RequireDue && due == nil) {
		return model.Task{}, ErrIncompleteDue
	}

	task := model.NewTask(text, model.ParsePriority(in.Priority), due)

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.refreshLocked(ctx); err != nil {
		return model.Task{}, err
	}

	next := append(l.cloneLocked(), task)
	if err := l.commitLocked(ctx, next); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// Remove 删除任务，不存在时不报错
func (l *TaskList) Remove(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.refreshLocked(ctx); err != nil {
		return err
	}

	i := l.indexLocked(id)
	if i < 0 {
		return nil
	}

	next := l.cloneLocked()
	next = append(next[:i], next[i+1:]...)
	return l.commitLocked(ctx, next)
}

// update 对单个任务应用 fn 并持久化
func (l *TaskList) update(ctx context.Context, id string, fn func(t *model.Task)) (model.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.refreshLocked(ctx); err != nil {
		return model.Task{}, err
	}

	i := l.indexLocked(id)
	if i < 0 {
		return model.Task{}, ErrNotFound
	}

	next := l.cloneLocked()
	fn(&next[i])
	if err := l.commitLocked(ctx, next); err != nil {
		return model.Task{}, err
	}
	return next[i], nil
}

// ToggleCompleted 切换完成状态
func (l *TaskList) ToggleCompleted(ctx context.Context, id string) (model.Task, error) {
	return l.update(ctx, id, func(t *model.Task) { t.Toggle() })
}

// EditText 替换任务文本。空字符串也会被接受
func (l *TaskList) EditText(ctx context.Context, id, text string) (model.Task, error) {
	return l.update(ctx, id, func(t *model.Task) { t.Text = text })
}

// MarkNotified 标记提醒已触发。已经标记过时 fired 为 false 且不写存储。
// autoComplete 为 true 时同时把任务标记为完成。
func (l *TaskList) MarkNotified(ctx context.Context, id string, autoComplete bool) (task model.Task, fired bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.refreshLocked(ctx); err != nil {
		return model.Task{}, false, err
	}

	i := l.indexLocked(id)
	if i < 0 {
		return model.Task{}, false, ErrNotFound
	}
	if l.tasks[i].Notified {
		return l.tasks[i], false, nil
	}

	next := l.cloneLocked()
	next[i].Notified = true
	if autoComplete {
		next[i].Complete()
	}
	if err := l.commitLocked(ctx, next); err != nil {
		return model.Task{}, false, err
	}
	return next[i], true, nil
}

// ClearCompleted 删除所有已完成任务，保持其余任务的相对顺序
func (l *TaskList) ClearCompleted(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.refreshLocked(ctx); err != nil {
		return 0, err
	}

	next := make([]model.Task, 0, len(l.tasks))
	for _, t := range l.tasks {
		if !t.Completed {
			next = append(next, t)
		}
	}

	removed := len(l.tasks) - len(next)
	if err := l.commitLocked(ctx, next); err != nil {
		return 0, err
	}
	return removed, nil
}

// SortBy 排序方式
type SortBy string

const (
	SortByDate     SortBy = "date"
	SortByPriority SortBy = "priority"
)

// ParseSortBy 解析排序方式
func ParseSortBy(s string) (SortBy, error) {
	switch SortBy(strings.ToLower(strings.TrimSpace(s))) {
	case SortByDate:
		return SortByDate, nil
	case SortByPriority:
		return SortByPriority, nil
	default:
		return "", fmt.Errorf("unknown sort %q (want date or priority)", s)
	}
}

// Sorted 返回按 by 稳定排序后的副本
func Sorted(tasks []model.Task, by SortBy) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)

	switch by {
	case SortByPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() > out[j].Priority.Rank()
		})
	case SortByDate:
		// 没有截止时间的排在最后
		sort.SliceStable(out, func(i, j int) bool {
			di, dj := out[i].DueAt, out[j].DueAt
			switch {
			case di == nil:
				return false
			case dj == nil:
				return true
			default:
				return di.Before(*dj)
			}
		})
	}
	return out
}

// Sort 排序并把结果作为新的用户顺序保存
func (l *TaskList) Sort(ctx context.Context, by SortBy) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.refreshLocked(ctx); err != nil {
		return err
	}
	return l.commitLocked(ctx, Sorted(l.tasks, by))
}

// Filter 只读视图的过滤条件，零值表示不过滤
type Filter struct {
	TodayOnly bool
}

// Filter 返回满足条件的任务，不修改列表
func (l *TaskList) Filter(f Filter, now time.Time) []model.Task {
	tasks := l.Snapshot()
	if !f.TodayOnly {
		return tasks
	}

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.DueAt != nil && sameDay(t.DueAt.In(now.Location()), now) {
			out = append(out, t)
		}
	}
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
