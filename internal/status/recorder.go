package status

import (
	"context"
	"time"

	"github.com/Slade66/weather-observer/internal/observer"
	"github.com/Slade66/weather-observer/internal/weather"
)

// Recorder 是一个把气象站最新读数写入 Redis 的观察者
type Recorder struct {
	manager   *Manager
	src       weather.Source
	station   string
	timeout   time.Duration
	readingID string
	now       func() time.Time
}

var _ observer.Observer = (*Recorder)(nil)

// NewRecorder 创建一个快照记录器
func NewRecorder(manager *Manager, src weather.Source, station string, timeout time.Duration) *Recorder {
	return &Recorder{
		manager: manager,
		src:     src,
		station: station,
		timeout: timeout,
		now:     time.Now,
	}
}

// SetReadingID 设置下一次快照关联的读数 ID
func (r *Recorder) SetReadingID(id string) {
	r.readingID = id
}

// Update 实现了 Observer 接口，Redis 写入失败会作为错误返回
func (r *Recorder) Update() error {
	m := weather.SnapshotOf(r.src)

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	return r.manager.SaveSnapshot(ctx, Snapshot{
		Station:     r.station,
		ReadingID:   r.readingID,
		Temperature: m.Temperature,
		Pressure:    m.Pressure,
		Humidity:    m.Humidity,
		Pollen:      m.Pollen,
		UpdatedAt:   r.now().UTC().Format(time.RFC3339),
	})
}
