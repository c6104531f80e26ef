package database

import (
	"context"
	"fmt"
	"sync"
)

// KV 持久化的键值槽位，整个任务列表作为一个值存储
type KV interface {
	// Get 返回 key 对应的值；不存在时 ok 为 false
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Options 选择并配置存储后端
type Options struct {
	Driver    string // sqlite, redis, file, memory
	SQLite    string // 数据库文件路径
	RedisAddr string
	RedisDB   int
	RedisPass string
	DataDir   string // file 后端的目录
}

// Open 根据 Driver 打开对应的存储后端
func Open(ctx context.Context, opts Options) (KV, error) {
	switch opts.Driver {
	case "", "sqlite":
		return NewSQLite(opts.SQLite)
	case "redis":
		return NewRedis(ctx, opts.RedisAddr, opts.RedisPass, opts.RedisDB)
	case "file":
		return NewFile(opts.DataDir)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

// MemoryKV 内存实现，用于测试和临时运行
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *MemoryKV {
	return &MemoryKV{data: map[string][]byte{}}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

func (m *MemoryKV) Close() error { return nil }
