package game

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"

	"github.com/gonewx/softskills/pkg/config"
	"github.com/gonewx/softskills/pkg/utils"
)

// KeyValueStore 进度持久化所需的最小接口
// *gdata.Manager 直接满足此接口；测试使用内存实现
type KeyValueStore interface {
	ObjectPropExists(objectKey, propKey string) bool
	LoadObjectProp(objectKey, propKey string) ([]byte, error)
	SaveObjectProp(objectKey, propKey string, data []byte) error
}

// OpenStorage 打开 gdata 存储（按应用名决定存档目录）
func OpenStorage(appName string) (*gdata.Manager, error) {
	manager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gdata storage %q: %w", appName, err)
	}
	return manager, nil
}

// ProgressManager 已完成练习集合
//
// 集合只增不减（Reset 除外），以 JSON 字符串数组整体写入固定键
// progress/completedExercises。读取失败或数据损坏时静默回退为空集合。
//
// 读者通过 Subscribe 订阅首次完成通知；MarkCompleted 是唯一的写入口。
type ProgressManager struct {
	mu        sync.Mutex
	store     KeyValueStore // 可为 nil（降级模式，仅内存）
	completed map[string]bool
	order     []string // 完成顺序，持久化时保持
	logger    *zap.Logger

	nextSubID   int
	subscribers map[int]func(id string)
}

// NewProgressManager 创建进度管理器并加载已保存的进度
//
// 参数：
//   - store: 持久化存储，可为 nil（降级模式）
//   - logger: 可为 nil
func NewProgressManager(store KeyValueStore, logger *zap.Logger) *ProgressManager {
	pm := &ProgressManager{
		store:       store,
		completed:   make(map[string]bool),
		logger:      utils.OrNop(logger).Named("ProgressManager"),
		subscribers: make(map[int]func(id string)),
	}
	pm.load()
	return pm
}

// load 读取已保存的进度，任何失败都回退为空集合
func (pm *ProgressManager) load() {
	if pm.store == nil {
		return
	}
	if !pm.store.ObjectPropExists(config.ProgressObjectKey, config.ProgressPropertyKey) {
		return
	}

	data, err := pm.store.LoadObjectProp(config.ProgressObjectKey, config.ProgressPropertyKey)
	if err != nil {
		pm.logger.Warn("failed to load progress, starting empty", zap.Error(err))
		return
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		pm.logger.Warn("corrupt progress data, starting empty", zap.Error(err))
		return
	}

	for _, id := range ids {
		if id == "" || pm.completed[id] {
			continue
		}
		pm.completed[id] = true
		pm.order = append(pm.order, id)
	}
	pm.logger.Debug("progress loaded", zap.Int("completed", len(pm.order)))
}

// IsCompleted 练习是否已完成
func (pm *ProgressManager) IsCompleted(id string) bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.completed[id]
}

// MarkCompleted 标记完成并整体写回存储（幂等）
// 写入失败只记录日志，内存中的集合仍然更新
func (pm *ProgressManager) MarkCompleted(id string) {
	pm.mu.Lock()
	if id == "" || pm.completed[id] {
		pm.mu.Unlock()
		return
	}
	pm.completed[id] = true
	pm.order = append(pm.order, id)
	snapshot := append([]string(nil), pm.order...)
	subs := pm.subscriberList()
	pm.mu.Unlock()

	if err := pm.save(snapshot); err != nil {
		pm.logger.Warn("failed to persist progress", zap.String("id", id), zap.Error(err))
	}
	pm.logger.Info("exercise completed", zap.String("id", id))

	for _, fn := range subs {
		fn(id)
	}
}

// Completed 按完成顺序返回所有已完成 ID
func (pm *ProgressManager) Completed() []string {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return append([]string(nil), pm.order...)
}

// Count 已完成数量
func (pm *ProgressManager) Count() int {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return len(pm.order)
}

// Reset 清空进度并写回空数组
func (pm *ProgressManager) Reset() error {
	pm.mu.Lock()
	pm.completed = make(map[string]bool)
	pm.order = nil
	pm.mu.Unlock()

	if err := pm.save([]string{}); err != nil {
		return err
	}
	pm.logger.Info("progress reset")
	return nil
}

// Subscribe 订阅首次完成通知，返回取消订阅函数
// 回调在 MarkCompleted 的调用方 goroutine 中执行
func (pm *ProgressManager) Subscribe(fn func(id string)) (unsubscribe func()) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	id := pm.nextSubID
	pm.nextSubID++
	pm.subscribers[id] = fn

	return func() {
		pm.mu.Lock()
		defer pm.mu.Unlock()
		delete(pm.subscribers, id)
	}
}

// subscriberList 按订阅顺序返回回调（调用方持有锁）
func (pm *ProgressManager) subscriberList() []func(id string) {
	ids := make([]int, 0, len(pm.subscribers))
	for id := range pm.subscribers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	subs := make([]func(id string), 0, len(ids))
	for _, id := range ids {
		subs = append(subs, pm.subscribers[id])
	}
	return subs
}

func (pm *ProgressManager) save(ids []string) error {
	// 降级模式：无法持久化，但不报错
	if pm.store == nil {
		return nil
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}
	if err := pm.store.SaveObjectProp(config.ProgressObjectKey, config.ProgressPropertyKey, data); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}
