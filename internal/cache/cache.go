package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCacheMiss 缓存未命中错误。
var ErrCacheMiss = errors.New("cache miss")

// IsCacheMiss 判断是否为缓存未命中错误。
func IsCacheMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}

// Cache 是带 TTL 的字符串缓存接口。
type Cache interface {
	// Get 获取缓存值；未命中返回 ErrCacheMiss。
	Get(ctx context.Context, key string) (string, error)

	// Set 设置缓存值；ttl 为 0 时使用实现方的默认过期时间。
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// =============================================================================
// 进程内 TTL 缓存
// =============================================================================

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// Memory 是进程内 TTL 缓存，适合单机部署与测试。
type Memory struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	defaultTTL time.Duration
	now        func() time.Time
}

// NewMemory 创建进程内缓存。defaultTTL 为 0 时取 5 分钟。
func NewMemory(defaultTTL time.Duration) *Memory {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	return &Memory{
		entries:    make(map[string]memoryEntry),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Get 获取缓存值，过期条目按未命中处理并顺手删除。
func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return "", ErrCacheMiss
	}
	if m.now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return "", ErrCacheMiss
	}
	return entry.value, nil
}

// Set 设置缓存值。
func (m *Memory) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	m.mu.Lock()
	m.entries[key] = memoryEntry{value: value, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

// Len 返回当前条目数（含尚未清理的过期条目）。
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
