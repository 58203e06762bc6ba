// internal/weather/gauge.go
package weather

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// HumidityGauge 是一个具体的观察者，用条形图在终端显示相对湿度
type HumidityGauge struct {
	src      Source
	out      io.Writer
	percent  float64
	barWidth int
}

// NewHumidityGauge 创建一个新的湿度条形图
func NewHumidityGauge(src Source, out io.Writer) *HumidityGauge {
	if out == nil {
		out = os.Stdout
	}
	return &HumidityGauge{
		src:      src,
		out:      out,
		barWidth: 50, // 条形图在终端的显示宽度
	}
}

// Update 实现了 Observer 接口
func (g *HumidityGauge) Update() error {
	g.percent = clamp(g.src.Humidity(), 0, 100)
	return g.Display()
}

// Display 在终端上绘制条形图
func (g *HumidityGauge) Display() error {
	filledWidth := int(g.percent / 100 * float64(g.barWidth))
	bar := strings.Repeat("=", filledWidth) + strings.Repeat(" ", g.barWidth-filledWidth)
	_, err := fmt.Fprintf(g.out, "[%s] %.2f%% humidity\n", bar, g.percent)
	return err
}

func clamp(v, lo, hi float64) float64 {
	if v != v { // NaN
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
