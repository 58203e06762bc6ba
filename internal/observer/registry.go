// internal/observer/registry.go
package observer

import (
	"reflect"

	"github.com/Slade66/weather-observer/internal/logger"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrObserverNotFound 在移除一个从未注册过的观察者时返回
var ErrObserverNotFound = errors.New("observer not found")

// Registry 按注册顺序保存观察者，具体的主题通过嵌入它来实现 Subject 接口
//
// 注册的观察者应当是可比较的类型（通常是指针），否则无法被 Remove 移除。
// Registry 不是并发安全的，一个主题只能属于一个 goroutine。
// 广播时遍历的是开始时的快照：在 Update 回调中注册或移除观察者
// 只会在下一次广播时生效，不要依赖这种用法。
type Registry struct {
	observers []Observer
	lggr      logger.Logger
}

// NewRegistry 创建一个空的观察者注册表
func NewRegistry(lggr logger.Logger) *Registry {
	r := &Registry{}
	r.SetLogger(lggr)
	return r
}

// SetLogger 替换广播日志使用的 Logger，传入 nil 表示不记录
func (r *Registry) SetLogger(lggr logger.Logger) {
	if lggr == nil {
		lggr = logger.Nop()
	}
	r.lggr = lggr
}

// Register 将观察者追加到注册表末尾
// 不做去重：同一个观察者注册两次，每次广播就会收到两次通知
func (r *Registry) Register(o Observer) {
	r.observers = append(r.observers, o)
}

// Remove 移除第一个匹配的观察者
// 观察者按接口相等判断是否匹配，因此动态类型必须可比较（通常是指针）。
// 含切片、map 或函数字段的值类型观察者永远匹配不到，返回 ErrObserverNotFound。
func (r *Registry) Remove(o Observer) error {
	for i, obs := range r.observers {
		if sameObserver(obs, o) {
			r.observers = append(r.observers[:i:i], r.observers[i+1:]...)
			return nil
		}
	}
	return errors.Wrapf(ErrObserverNotFound, "移除观察者 %T", o)
}

// NotifyAll 按注册顺序同步调用每个观察者的 Update
// 任意一个观察者返回错误都会中止本次广播，后面的观察者不会再收到通知
func (r *Registry) NotifyAll() error {
	snapshot := r.Observers()
	if len(snapshot) == 0 {
		return nil
	}

	broadcastID := uuid.New()
	r.logger().Debugw("开始广播", "broadcast_id", broadcastID, "observers", len(snapshot))

	for i, obs := range snapshot {
		if err := obs.Update(); err != nil {
			r.logger().Debugw("广播中止", "broadcast_id", broadcastID, "position", i, "err", err)
			return errors.Wrapf(err, "通知第 %d 个观察者 (%T) 失败", i, obs)
		}
	}
	return nil
}

// sameObserver 只在动态类型相同且可比较时才用 == 比较，避免运行时 panic
func sameObserver(a, b Observer) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta == nil {
		return true
	}
	if !ta.Comparable() {
		return false
	}
	return a == b
}

// Len 返回当前注册的条目数（重复注册按多条计算）
func (r *Registry) Len() int {
	return len(r.observers)
}

// Observers 返回注册表的副本
func (r *Registry) Observers() []Observer {
	out := make([]Observer, len(r.observers))
	copy(out, r.observers)
	return out
}

// 零值 Registry 也可以直接使用
func (r *Registry) logger() logger.Logger {
	if r.lggr == nil {
		r.lggr = logger.Nop()
	}
	return r.lggr
}
