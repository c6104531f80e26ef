package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DueLayout 截止时间的持久化格式（本地时间，精确到分钟）
const DueLayout = "2006-01-02T15:04"

// Priority 任务优先级
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority 解析优先级，未知值按 medium 处理
func ParsePriority(s string) Priority {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow
	case PriorityHigh:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// Rank 返回排序权重，high 最大
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityLow:
		return 1
	default:
		return 2
	}
}

// Stars 返回优先级对应的星级标记
func (p Priority) Stars() string {
	return strings.Repeat("*", p.Rank())
}

// Task 表示一个待办任务
type Task struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	Priority  Priority   `json:"priority"`
	DueAt     *time.Time `json:"due_at,omitempty"`
	Completed bool       `json:"completed"`
	// Notified 到期提醒触发后置为 true，之后不再清除
	Notified  bool       `json:"notified"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewTask 创建一个新的任务
func NewTask(text string, priority Priority, dueAt *time.Time) Task {
	return Task{
		ID:        NewID(),
		Text:      text,
		Priority:  priority,
		DueAt:     dueAt,
		CreatedAt: time.Now(),
	}
}

// NewID 生成任务 ID
func NewID() string {
	return uuid.NewString()
}

// Toggle 切换完成状态
func (t *Task) Toggle() {
	t.Completed = !t.Completed
}

// Complete 标记任务为完成
func (t *Task) Complete() {
	t.Completed = true
}

// HasDue 是否设置了截止时间
func (t Task) HasDue() bool {
	return t.DueAt != nil
}

// DueString 返回持久化格式的截止时间，未设置时为空字符串
func (t Task) DueString() string {
	if t.DueAt == nil {
		return ""
	}
	return t.DueAt.Format(DueLayout)
}

// ParseDue 解析 "YYYY-MM-DDTHH:MM"，空字符串表示没有截止时间
func ParseDue(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DueLayout, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid due time %q: %w", s, err)
	}
	return &t, nil
}

// CombineDue 把日期和时间输入组合为截止时间。
// 两者都为空返回 nil；只给出其中一个时 complete 为 false。
func CombineDue(date, clock string) (due *time.Time, complete bool, err error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" && clock == "" {
		return nil, true, nil
	}
	if date == "" || clock == "" {
		return nil, false, nil
	}
	due, err = ParseDue(date + "T" + clock)
	if err != nil {
		return nil, true, err
	}
	return due, true, nil
}
