// internal/weather/displays.go
package weather

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/Slade66/weather-observer/internal/observer"
)

// fieldDisplay 是四个控制台展示器的公共实现：拉取一个字段并打印
type fieldDisplay struct {
	label string
	pull  func(Source) float64
	src   Source
	out   io.Writer
	value float64
}

func newFieldDisplay(label string, pull func(Source) float64, src Source, out io.Writer) fieldDisplay {
	if out == nil {
		out = os.Stdout
	}
	return fieldDisplay{label: label, pull: pull, src: src, out: out}
}

// Update 实现了 Observer 接口
func (d *fieldDisplay) Update() error {
	d.value = d.pull(d.src)
	return d.Display()
}

// Display 实现了 Display 接口
func (d *fieldDisplay) Display() error {
	_, err := fmt.Fprintf(d.out, "The current %s is: %s\n", d.label, FormatValue(d.value))
	return err
}

// Value 返回最近一次拉取到的值
func (d *fieldDisplay) Value() float64 {
	return d.value
}

// TemperatureDisplay 显示当前温度
type TemperatureDisplay struct{ fieldDisplay }

// NewTemperatureDisplay 创建温度显示器，out 为 nil 时输出到标准输出
func NewTemperatureDisplay(src Source, out io.Writer) *TemperatureDisplay {
	return &TemperatureDisplay{newFieldDisplay("temperature", Source.Temperature, src, out)}
}

// HumidityDisplay 显示当前湿度
type HumidityDisplay struct{ fieldDisplay }

func NewHumidityDisplay(src Source, out io.Writer) *HumidityDisplay {
	return &HumidityDisplay{newFieldDisplay("humidity", Source.Humidity, src, out)}
}

// PressureDisplay 显示当前气压
type PressureDisplay struct{ fieldDisplay }

func NewPressureDisplay(src Source, out io.Writer) *PressureDisplay {
	return &PressureDisplay{newFieldDisplay("pressure", Source.Pressure, src, out)}
}

// PollenDisplay 显示当前花粉浓度
type PollenDisplay struct{ fieldDisplay }

func NewPollenDisplay(src Source, out io.Writer) *PollenDisplay {
	return &PollenDisplay{newFieldDisplay("pollen", Source.Pollen, src, out)}
}

var (
	_ observer.DisplayObserver = (*TemperatureDisplay)(nil)
	_ observer.DisplayObserver = (*HumidityDisplay)(nil)
	_ observer.DisplayObserver = (*PressureDisplay)(nil)
	_ observer.DisplayObserver = (*PollenDisplay)(nil)
)

// FormatValue 以能精确还原的最短位数输出浮点数：
// 十进制指数在 [-4, 16) 之间用定点形式并至少保留一位小数 (60 -> "60.0")，
// 否则用科学计数法 (1e16 -> "1e+16", 1e-5 -> "1e-05")；无穷和 NaN 为 "inf"、"-inf"、"nan"。
func FormatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	// 'e' 格式的指数带符号且至少两位
	sci := strconv.FormatFloat(v, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err == nil && (exp < -4 || exp >= 16) {
		return sci
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
