// internal/weather/station.go
package weather

import (
	"github.com/Slade66/weather-observer/internal/logger"
	"github.com/Slade66/weather-observer/internal/observer"
)

// Measurements 是气象站一次完整的测量数据
type Measurements struct {
	Temperature float64 `json:"temperature"`
	Pressure    float64 `json:"pressure"`
	Humidity    float64 `json:"humidity"`
	Pollen      float64 `json:"pollen"`
}

// Source 观察者持有的只读引用，只用于拉取最新状态，不拥有主题的生命周期
type Source interface {
	Temperature() float64
	Pressure() float64
	Humidity() float64
	Pollen() float64
}

// Station 即 WeatherData 主题，持有测量数据和观察者注册表
type Station struct {
	observer.Registry
	current Measurements
}

var _ observer.Subject = (*Station)(nil)
var _ Source = (*Station)(nil)

// NewStation 创建一个所有读数都为 0 的气象站
func NewStation(lggr logger.Logger) *Station {
	s := &Station{}
	s.SetLogger(lggr)
	return s
}

func (s *Station) Temperature() float64 { return s.current.Temperature }
func (s *Station) Pressure() float64    { return s.current.Pressure }
func (s *Station) Humidity() float64    { return s.current.Humidity }
func (s *Station) Pollen() float64      { return s.current.Pollen }

// Measurements 返回当前读数的副本
func (s *Station) Measurements() Measurements {
	return s.current
}

// SetMeasurements 无条件覆盖所有读数（不做范围校验），最后通知所有观察者
func (s *Station) SetMeasurements(m Measurements) error {
	s.current = m
	return s.NotifyAll()
}

// SnapshotOf 从任意 Source 中拉取一份完整读数
func SnapshotOf(src Source) Measurements {
	return Measurements{
		Temperature: src.Temperature(),
		Pressure:    src.Pressure(),
		Humidity:    src.Humidity(),
		Pollen:      src.Pollen(),
	}
}
