package database

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"todo-reminder/model"
)

// SchemaVersion 当前持久化格式版本
const SchemaVersion = 2

var ErrUnsupportedVersion = errors.New("unsupported schema version")

// Record 单个任务的持久化形状
type Record struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text"`
	Priority  string `json:"priority"`
	Completed bool   `json:"completed"`
	Datetime  string `json:"datetime"`
	Notified  bool   `json:"notified,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type envelope struct {
	Version int      `json:"version"`
	Tasks   []Record `json:"tasks"`
}

// Encode 把有序任务列表编码为带版本号的 JSON
func Encode(tasks []model.Task) ([]byte, error) {
	env := envelope{
		Version: SchemaVersion,
		Tasks:   make([]Record, 0, len(tasks)),
	}
	for _, t := range tasks {
		env.Tasks = append(env.Tasks, toRecord(t))
	}

	b, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tasks: %w", err)
	}
	return b, nil
}

// Decode 解码任务列表。
// 版本 1 是不带外层对象的数组 [{text, priority, completed, datetime}]，
// 读取时迁移到当前版本：分配 ID，notified 置为 false。
func Decode(b []byte) ([]model.Task, error) {
	tasks, _, err := decode(b)
	return tasks, err
}

// decode 同 Decode，changed 表示结果与存储内容不一致（迁移过或重新分配过 ID），需要写回
func decode(b []byte) (tasks []model.Task, changed bool, err error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return []model.Task{}, false, nil
	}

	var records []Record
	switch b[0] {
	case '[':
		if err := json.Unmarshal(b, &records); err != nil {
			return nil, false, fmt.Errorf("failed to decode v1 tasks: %w", err)
		}
		records = migrateV1(records)
		changed = true
	case '{':
		var env envelope
		if err := json.Unmarshal(b, &env); err != nil {
			return nil, false, fmt.Errorf("failed to decode tasks: %w", err)
		}
		if env.Version != SchemaVersion {
			return nil, false, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
		}
		records = env.Tasks
	case 'n':
		// "null" 等价于空列表
		if string(b) == "null" {
			return []model.Task{}, false, nil
		}
		return nil, false, fmt.Errorf("failed to decode tasks: unexpected input")
	default:
		return nil, false, fmt.Errorf("failed to decode tasks: unexpected input")
	}

	tasks = make([]model.Task, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		t := fromRecord(r)
		if t.ID == "" || seen[t.ID] {
			t.ID = model.NewID()
			changed = true
		}
		seen[t.ID] = true
		tasks = append(tasks, t)
	}
	return tasks, changed, nil
}

func migrateV1(records []Record) []Record {
	for i := range records {
		records[i].ID = ""
		records[i].Notified = false
	}
	return records
}

func toRecord(t model.Task) Record {
	r := Record{
		ID:        t.ID,
		Text:      t.Text,
		Priority:  string(t.Priority),
		Completed: t.Completed,
		Datetime:  t.DueString(),
		Notified:  t.Notified,
	}
	if !t.CreatedAt.IsZero() {
		r.CreatedAt = t.CreatedAt.UTC().Format(time.RFC3339)
	}
	return r
}

func fromRecord(r Record) model.Task {
	t := model.Task{
		ID:        r.ID,
		Text:      r.Text,
		Priority:  model.ParsePriority(r.Priority),
		Completed: r.Completed,
		Notified:  r.Notified,
	}

	due, err := model.ParseDue(r.Datetime)
	if err != nil {
		log.Printf("dropping unreadable datetime %q on task %q: %v", r.Datetime, r.Text, err)
	} else {
		t.DueAt = due
	}

	if r.CreatedAt != "" {
		if ts, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
			t.CreatedAt = ts
		}
	}
	return t
}
