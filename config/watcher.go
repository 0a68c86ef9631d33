package config

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ReloadWatcher 监听配置文件变更并在变更后重新加载配置。
// 基于修改时间轮询，带防抖；回调收到的是已通过校验的新配置。
type ReloadWatcher struct {
	mu sync.Mutex

	loader       *Loader
	path         string
	pollInterval time.Duration
	debounce     time.Duration

	running  bool
	stopChan chan struct{}

	callbacks []func(*Config)
	lastMod   time.Time

	logger *zap.Logger
}

// WatcherOption 配置 ReloadWatcher。
type WatcherOption func(*ReloadWatcher)

// WithPollInterval 设置轮询间隔。
func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *ReloadWatcher) {
		w.pollInterval = d
	}
}

// WithDebounce 设置变更事件防抖时长。
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *ReloadWatcher) {
		w.debounce = d
	}
}

// WithWatcherLogger 设置日志记录器。
func WithWatcherLogger(logger *zap.Logger) WatcherOption {
	return func(w *ReloadWatcher) {
		w.logger = logger
	}
}

// NewReloadWatcher 创建配置变更监听器。
// 文件不存在时不报错，创建后的首次出现视为一次变更。
func NewReloadWatcher(path string, opts ...WatcherOption) (*ReloadWatcher, error) {
	w := &ReloadWatcher{
		loader:       NewLoader().WithConfigPath(path),
		path:         path,
		pollInterval: time.Second,
		debounce:     100 * time.Millisecond,
		stopChan:     make(chan struct{}),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With(zap.String("component", "config_watcher"))

	info, err := os.Stat(path)
	switch {
	case err == nil:
		w.lastMod = info.ModTime()
	case os.IsNotExist(err):
		w.logger.Warn("config file does not exist, will watch for creation",
			zap.String("path", path))
	default:
		return nil, fmt.Errorf("failed to stat path %s: %w", path, err)
	}

	return w, nil
}

// OnReload 注册配置重载回调。
func (w *ReloadWatcher) OnReload(callback func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start 开始监听。重复启动返回错误。
func (w *ReloadWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	go w.pollLoop(ctx)

	w.logger.Info("config watcher started",
		zap.String("path", w.path),
		zap.Duration("poll_interval", w.pollInterval))
	return nil
}

// Stop 停止监听。幂等。
func (w *ReloadWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	close(w.stopChan)
	w.running = false
	w.logger.Info("config watcher stopped")
}

// IsRunning 报告监听器是否在运行。
func (w *ReloadWatcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *ReloadWatcher) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-ticker.C:
			if w.changed() {
				// 防抖：等写入方完成后再加载。
				time.Sleep(w.debounce)
				w.reload()
			}
		}
	}
}

// changed 报告配置文件自上次检查后是否被修改或新建。
func (w *ReloadWatcher) changed() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if info.ModTime().After(w.lastMod) {
		w.lastMod = info.ModTime()
		return true
	}
	return false
}

// reload 重新加载配置并分发到回调。
// 加载失败只记录日志，旧配置继续生效。
func (w *ReloadWatcher) reload() {
	cfg, err := w.loader.Load()
	if err != nil {
		w.logger.Warn("config reload failed, keeping previous config",
			zap.String("path", w.path), zap.Error(err))
		return
	}

	w.mu.Lock()
	callbacks := make([]func(*Config), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	w.logger.Info("config reloaded", zap.String("path", w.path))
	for _, cb := range callbacks {
		cb(cfg)
	}
}
