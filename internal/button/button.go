// internal/button/button.go
package button

import (
	"fmt"
	"io"
	"os"

	"github.com/Slade66/weather-observer/internal/logger"
	"github.com/Slade66/weather-observer/internal/observer"
)

// State 按钮的开关状态
type State int

const (
	On State = iota + 1
	Off
)

func (s State) String() string {
	switch s {
	case On:
		return "ON"
	case Off:
		return "OFF"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Button 是一个只有开关两种状态的主题，初始状态为 On
type Button struct {
	observer.Registry
	state State
}

var _ observer.Subject = (*Button)(nil)

// New 创建一个新的按钮
func New(lggr logger.Logger) *Button {
	b := &Button{state: On}
	b.SetLogger(lggr)
	return b
}

// State 返回当前状态
func (b *Button) State() State {
	return b.state
}

// SetState 设置状态后通知所有监听器，即使状态没有变化也会通知
func (b *Button) SetState(s State) error {
	b.state = s
	return b.NotifyAll()
}

// StateSource 监听器持有的只读引用
type StateSource interface {
	State() State
}

// EventListener 只在按钮处于指定状态时做出反应
type EventListener struct {
	src   StateSource
	when  State
	out   io.Writer
	fired int
}

// NewOnEventListener 创建一个在按钮打开时做出反应的监听器
func NewOnEventListener(src StateSource, out io.Writer) *EventListener {
	return newListener(src, On, out)
}

// NewOffEventListener 创建一个在按钮关闭时做出反应的监听器
func NewOffEventListener(src StateSource, out io.Writer) *EventListener {
	return newListener(src, Off, out)
}

func newListener(src StateSource, when State, out io.Writer) *EventListener {
	if out == nil {
		out = os.Stdout
	}
	return &EventListener{src: src, when: when, out: out}
}

// Update 实现了 Observer 接口
func (l *EventListener) Update() error {
	if l.src.State() != l.when {
		return nil
	}
	l.fired++
	_, err := fmt.Fprintf(l.out, "THE BUTTON IS %s SO I AM DOING SOMETHING\n", l.when)
	return err
}

// Fired 返回监听器被触发的次数
func (l *EventListener) Fired() int {
	return l.fired
}
