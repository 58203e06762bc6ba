// internal/config/config.go
package config

import (
	"io/fs"
	"os"
	"slices"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// RedisConfig Redis 连接与读数队列配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"` // Secret
	Stream   string `mapstructure:"stream"`
	Group    string `mapstructure:"group"`
}

// ObsConfig 华为云 OBS 归档配置，全部留空表示不启用归档
type ObsConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	AK       string `mapstructure:"ak"` // Secret
	SK       string `mapstructure:"sk"` // Secret
	Bucket   string `mapstructure:"bucket"`
	Prefix   string `mapstructure:"prefix"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type StationConfig struct {
	Name string `mapstructure:"name"`
}

// Config 服务的全部配置
type Config struct {
	Redis   RedisConfig   `mapstructure:"redis"`
	Obs     ObsConfig     `mapstructure:"obs"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Log     LogConfig     `mapstructure:"log"`
	Station StationConfig `mapstructure:"station"`
}

// Enabled 判断 OBS 归档是否已配置
func (c ObsConfig) Enabled() bool {
	return c.Endpoint != "" || c.AK != "" || c.SK != "" || c.Bucket != ""
}

// Validate 检查 OBS 配置是否完整
func (c ObsConfig) Validate() error {
	if c.Endpoint == "" || c.AK == "" || c.SK == "" || c.Bucket == "" {
		return errors.New("OBS 配置不完整，请检查 OBS_ENDPOINT, OBS_AK, OBS_SK, OBS_BUCKET")
	}
	return nil
}

// Validate 检查 Redis 配置
func (c RedisConfig) Validate() error {
	if c.Addr == "" {
		return errors.New("缺少 Redis 地址 (REDIS_ADDR)")
	}
	if c.Stream == "" || c.Group == "" {
		return errors.New("缺少 Redis Stream 或消费者组名称")
	}
	return nil
}

var (
	defaults = map[string]any{
		"redis.addr":   "localhost:6379",
		"redis.stream": "weather_readings",
		"redis.group":  "weather-group",
		"obs.prefix":   "snapshots",
		"http.addr":    ":8080",
		"log.level":    "info",
		"station.name": "default",
	}

	// envBindings 配置键到环境变量的映射
	envBindings = map[string][]string{
		"redis.addr":     {"REDIS_ADDR"},
		"redis.password": {"REDIS_PASSWORD"},
		"redis.stream":   {"REDIS_STREAM"},
		"redis.group":    {"REDIS_GROUP"},
		"obs.endpoint":   {"OBS_ENDPOINT"},
		"obs.ak":         {"OBS_AK"},
		"obs.sk":         {"OBS_SK"},
		"obs.bucket":     {"OBS_BUCKET"},
		"obs.prefix":     {"OBS_PREFIX"},
		"http.addr":      {"HTTP_ADDR"},
		"log.level":      {"LOG_LEVEL"},
		"station.name":   {"STATION_NAME"},
	}
)

// Load 从配置文件加载配置，文件不存在时只使用环境变量
// 文件存在时，已设置的环境变量会覆盖文件中的值
func Load(filePath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(filePath)

	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "读取配置文件 %s 失败", filePath)
		}
	}

	return unmarshal(v)
}

// LoadEnv 只从环境变量加载配置
func LoadEnv() (*Config, error) {
	v := newViper()
	if err := bindEnvs(v); err != nil {
		return nil, err
	}
	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "解析配置失败")
	}
	return cfg, nil
}

func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		inputs := slices.Insert(slices.Clone(envs), 0, key)
		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}
	return nil
}
