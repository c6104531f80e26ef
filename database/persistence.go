package database

import (
	"context"
	"fmt"
	"log"

	"todo-reminder/model"
)

// DefaultKey 任务列表在存储中的固定键名
const DefaultKey = "tasks"

// Persistence 以整体为单位保存和恢复有序任务列表
type Persistence struct {
	kv  KV
	key string
}

func NewPersistence(kv KV, key string) *Persistence {
	if key == "" {
		key = DefaultKey
	}
	return &Persistence{kv: kv, key: key}
}

// Key 返回存储键名
func (p *Persistence) Key() string {
	return p.key
}

// Save 序列化并写入完整列表
func (p *Persistence) Save(ctx context.Context, tasks []model.Task) error {
	b, err := Encode(tasks)
	if err != nil {
		return err
	}
	return p.kv.Set(ctx, p.key, b)
}

// Load 读取列表。不存在、读取失败或数据损坏时返回空列表，只记录日志
func (p *Persistence) Load(ctx context.Context) []model.Task {
	tasks, err := p.Reload(ctx)
	if err != nil {
		log.Printf("Failed to read stored tasks, starting empty: %v", err)
		return []model.Task{}
	}
	return tasks
}

// Reload 读取存储中的最新列表。只有读取失败才返回错误；
// 不存在或数据损坏时返回空列表，下一次保存会覆盖损坏的数据。
func (p *Persistence) Reload(ctx context.Context) ([]model.Task, error) {
	tasks, _, err := p.read(ctx)
	return tasks, err
}

// Migrate 把旧版本数据或缺少 ID 的记录改写为当前格式，
// 使之后每次 Reload 得到的 ID 保持一致
func (p *Persistence) Migrate(ctx context.Context) error {
	tasks, changed, err := p.read(ctx)
	if err != nil || !changed {
		return err
	}

	log.Printf("Rewriting stored tasks under %q as schema version %d", p.key, SchemaVersion)
	return p.Save(ctx, tasks)
}

func (p *Persistence) read(ctx context.Context) ([]model.Task, bool, error) {
	b, ok, err := p.kv.Get(ctx, p.key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %q: %w", p.key, err)
	}
	if !ok {
		return []model.Task{}, false, nil
	}

	tasks, changed, err := decode(b)
	if err != nil {
		log.Printf("Stored tasks under %q are malformed, treating as empty: %v", p.key, err)
		return []model.Task{}, false, nil
	}
	return tasks, changed, nil
}
