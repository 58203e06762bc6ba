package reading

import (
	"time"

	"github.com/Slade66/weather-observer/internal/weather"
	"github.com/google/uuid"
)

// Reading 定义了一次提交给气象站的测量，它将作为消息在 Redis Stream 中传递。
type Reading struct {
	// 读数的唯一标识符，由 API 服务在接收读数时生成。
	ID uuid.UUID `json:"id"`

	Temperature float64 `json:"temperature"`
	Pressure    float64 `json:"pressure"`
	Humidity    float64 `json:"humidity"`
	Pollen      float64 `json:"pollen"`

	// 读数被 API 接收的时间 (UTC)。
	SubmittedAt time.Time `json:"submitted_at"`
}

// New 根据测量数据创建一个带新 ID 的读数
func New(m weather.Measurements) Reading {
	return Reading{
		ID:          uuid.New(),
		Temperature: m.Temperature,
		Pressure:    m.Pressure,
		Humidity:    m.Humidity,
		Pollen:      m.Pollen,
		SubmittedAt: time.Now().UTC(),
	}
}

// Measurements 将读数转换为气象站的测量数据
func (r Reading) Measurements() weather.Measurements {
	return weather.Measurements{
		Temperature: r.Temperature,
		Pressure:    r.Pressure,
		Humidity:    r.Humidity,
		Pollen:      r.Pollen,
	}
}
