package weather

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type valueDisplay interface {
	Update() error
	Value() float64
}

func TestDisplays_PullAndRender(t *testing.T) {
	s := NewStation(nil)
	m := Measurements{Temperature: 60, Pressure: 105.5, Humidity: 100, Pollen: 7.25}

	tests := []struct {
		name  string
		build func(*bytes.Buffer) valueDisplay
		want  string
		value float64
	}{
		{"temperature", func(b *bytes.Buffer) valueDisplay { return NewTemperatureDisplay(s, b) }, "The current temperature is: 60.0\n", 60},
		{"pressure", func(b *bytes.Buffer) valueDisplay { return NewPressureDisplay(s, b) }, "The current pressure is: 105.5\n", 105.5},
		{"humidity", func(b *bytes.Buffer) valueDisplay { return NewHumidityDisplay(s, b) }, "The current humidity is: 100.0\n", 100},
		{"pollen", func(b *bytes.Buffer) valueDisplay { return NewPollenDisplay(s, b) }, "The current pollen is: 7.25\n", 7.25},
	}

	require.NoError(t, s.SetMeasurements(m))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			d := tt.build(&buf)
			assert.Zero(t, d.Value())
			require.NoError(t, d.Update())
			assert.Equal(t, tt.want, buf.String())
			assert.Equal(t, tt.value, d.Value())
		})
	}
}

func TestDisplay_RendersStoredValueWithoutPulling(t *testing.T) {
	s := NewStation(nil)
	var buf bytes.Buffer
	d := NewTemperatureDisplay(s, &buf)
	s.Register(d)
	require.NoError(t, s.SetMeasurements(Measurements{Temperature: 60}))

	// 未注册的变化不会影响已存储的值
	require.NoError(t, s.Remove(d))
	require.NoError(t, s.SetMeasurements(Measurements{Temperature: 99}))
	buf.Reset()
	require.NoError(t, d.Display())
	assert.Equal(t, "The current temperature is: 60.0\n", buf.String())
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{math.Copysign(0, -1), "-0.0"},
		{60, "60.0"},
		{-12, "-12.0"},
		{0.1, "0.1"},
		{123.456, "123.456"},
		{0.0001, "0.0001"},
		{0.00001, "1e-05"},
		{0.000012345, "1.2345e-05"},
		{1e15, "1000000000000000.0"},
		{9999999999999998, "9999999999999998.0"},
		{1e16, "1e+16"},
		{1.5e16, "1.5e+16"},
		{-2.5e20, "-2.5e+20"},
		{1e100, "1e+100"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
		{math.NaN(), "nan"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.in), "FormatValue(%v)", tt.in)
	}
}

func TestDisplay_RendersExponentForm(t *testing.T) {
	s := NewStation(nil)
	var buf bytes.Buffer
	s.Register(NewPollenDisplay(s, &buf))

	require.NoError(t, s.SetMeasurements(Measurements{Pollen: 1e16}))
	assert.Equal(t, "The current pollen is: 1e+16\n", buf.String())
}

func TestHumidityGauge(t *testing.T) {
	s := NewStation(nil)
	var buf bytes.Buffer
	g := NewHumidityGauge(s, &buf)
	s.Register(g)

	require.NoError(t, s.SetMeasurements(Measurements{Humidity: 50}))
	assert.Equal(t, "["+strings.Repeat("=", 25)+strings.Repeat(" ", 25)+"] 50.00% humidity\n", buf.String())

	buf.Reset()
	require.NoError(t, s.SetMeasurements(Measurements{Humidity: 150}))
	assert.Equal(t, "["+strings.Repeat("=", 50)+"] 100.00% humidity\n", buf.String())

	buf.Reset()
	require.NoError(t, s.SetMeasurements(Measurements{Humidity: -5}))
	assert.Equal(t, "["+strings.Repeat(" ", 50)+"] 0.00% humidity\n", buf.String())
}

