// main.go
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/Slade66/weather-observer/internal/button"
	"github.com/Slade66/weather-observer/internal/logger"
	"github.com/Slade66/weather-observer/internal/weather"
	"github.com/pkg/errors"
)

func main() {
	// 1. 参数解析
	demo := flag.String("demo", "all", "要运行的演示: weather, button 或 all")
	logLevel := flag.String("log-level", "warn", "日志级别")
	flag.Parse()

	// 2. 运行演示
	if err := run(*demo, *logLevel, os.Stdout); err != nil {
		if errors.Is(err, errUnknownDemo) {
			fmt.Printf("错误: %v\n", err)
			flag.Usage()
			os.Exit(1)
		}
		log.Fatalf("❌ 演示失败: %v", err)
	}
}

var errUnknownDemo = errors.New("未知的演示")

// run 按名称运行演示，日志在返回前刷新
func run(demo, logLevel string, out io.Writer) error {
	lggr, err := logger.New(logLevel)
	if err != nil {
		return errors.Wrap(err, "无效的日志级别")
	}
	defer lggr.Sync()

	switch demo {
	case "weather":
		return runWeather(out, lggr)
	case "button":
		return runButton(out, lggr)
	case "all":
		if err := runWeather(out, lggr); err != nil {
			return err
		}
		return runButton(out, lggr)
	default:
		return errors.Wrapf(errUnknownDemo, "%q", demo)
	}
}

// runWeather 依次注册显示器并更新读数
func runWeather(out io.Writer, lggr logger.Logger) error {
	station := weather.NewStation(lggr.Named("weather"))
	pressureDisplay := weather.NewPressureDisplay(station, out)
	temperatureDisplay := weather.NewTemperatureDisplay(station, out)
	humidityDisplay := weather.NewHumidityDisplay(station, out)

	station.Register(pressureDisplay)
	if err := station.SetMeasurements(weather.Measurements{Temperature: 50, Pressure: 120, Humidity: 120, Pollen: 123}); err != nil {
		return err
	}
	station.Register(temperatureDisplay)
	if err := station.SetMeasurements(weather.Measurements{Temperature: 60, Pressure: 105, Humidity: 100, Pollen: 123}); err != nil {
		return err
	}
	station.Register(humidityDisplay)
	if err := station.SetMeasurements(weather.Measurements{Temperature: 70, Pressure: 50, Humidity: 50, Pollen: 123}); err != nil {
		return err
	}
	if err := station.Remove(humidityDisplay); err != nil {
		return err
	}
	station.Register(weather.NewPollenDisplay(station, out))
	station.Register(weather.NewHumidityGauge(station, out))
	return station.SetMeasurements(weather.Measurements{Temperature: 70, Pressure: 50, Humidity: 50, Pollen: 123})
}

// runButton 演示按钮的开关监听器
func runButton(out io.Writer, lggr logger.Logger) error {
	b := button.New(lggr.Named("button"))
	b.Register(button.NewOnEventListener(b, out))
	// 按钮打开时 OnEventListener 才会做事，这里什么都不会输出
	if err := b.SetState(button.Off); err != nil {
		return err
	}

	b.Register(button.NewOffEventListener(b, out))
	if err := b.SetState(button.Off); err != nil {
		return err
	}
	return b.SetState(button.On)
}
