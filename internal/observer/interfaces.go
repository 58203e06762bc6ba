// internal/observer/interfaces.go
package observer

// Observer 观察者接口
// Update 不携带任何数据，观察者需要自己从主题中拉取 (pull) 所需的状态
type Observer interface {
	Update() error
}

// Display 展示接口，与 Observer 相互独立
type Display interface {
	Display() error
}

// DisplayObserver 同时具备观察和展示能力的组合接口
type DisplayObserver interface {
	Observer
	Display
}

// Subject 被观察者（主题）接口
type Subject interface {
	Register(o Observer)
	Remove(o Observer) error
	NotifyAll() error
}
