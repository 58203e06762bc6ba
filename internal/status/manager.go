package status

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Slade66/weather-observer/internal/weather"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// ErrSnapshotNotFound 表示该气象站还没有保存过任何快照
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot 定义了气象站最新读数的快照，用于JSON序列化
type Snapshot struct {
	Station     string  `json:"station"`
	ReadingID   string  `json:"reading_id,omitempty"`
	Temperature float64 `json:"temperature"`
	Pressure    float64 `json:"pressure"`
	Humidity    float64 `json:"humidity"`
	Pollen      float64 `json:"pollen"`
	UpdatedAt   string  `json:"updated_at"`
}

// Measurements 返回快照中的测量数据
func (s Snapshot) Measurements() weather.Measurements {
	return weather.Measurements{
		Temperature: s.Temperature,
		Pressure:    s.Pressure,
		Humidity:    s.Humidity,
		Pollen:      s.Pollen,
	}
}

// HashClient 是 Manager 用到的 Redis Hash 命令子集，*redis.Client 实现了它
type HashClient interface {
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
}

// Manager 结构体封装了与Redis的交互
type Manager struct {
	rdb HashClient
}

// NewManager 创建一个新的快照管理器实例
func NewManager(rdb HashClient) *Manager {
	return &Manager{rdb: rdb}
}

// snapshotKey 返回一个气象站快照在Redis中的键名
func (m *Manager) snapshotKey(station string) string {
	return fmt.Sprintf("station:snapshot:%s", station)
}

// SaveSnapshot 覆盖保存气象站的最新快照
func (m *Manager) SaveSnapshot(ctx context.Context, s Snapshot) error {
	if s.UpdatedAt == "" {
		s.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	fields, err := structToMap(s)
	if err != nil {
		return errors.Wrap(err, "序列化快照失败")
	}
	// HSet 会一次性设置多个字段
	if err := m.rdb.HSet(ctx, m.snapshotKey(s.Station), fields).Err(); err != nil {
		return errors.Wrapf(err, "保存气象站 %s 的快照失败", s.Station)
	}
	return nil
}

// GetSnapshot 读取气象站的最新快照
func (m *Manager) GetSnapshot(ctx context.Context, station string) (Snapshot, error) {
	// HGetAll 以 map[string]string 的形式返回哈希表的所有字段和值
	data, err := m.rdb.HGetAll(ctx, m.snapshotKey(station)).Result()
	if err != nil {
		return Snapshot{}, errors.Wrapf(err, "读取气象站 %s 的快照失败", station)
	}
	if len(data) == 0 {
		return Snapshot{}, errors.Wrapf(ErrSnapshotNotFound, "station %s", station)
	}

	s := Snapshot{
		Station:   data["station"],
		ReadingID: data["reading_id"],
		UpdatedAt: data["updated_at"],
	}
	for field, dst := range map[string]*float64{
		"temperature": &s.Temperature,
		"pressure":    &s.Pressure,
		"humidity":    &s.Humidity,
		"pollen":      &s.Pollen,
	} {
		raw, ok := data[field]
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Snapshot{}, errors.Wrapf(err, "快照字段 %s 无效", field)
		}
		*dst = v
	}
	return s, nil
}

// structToMap 是一个辅助函数，用于将快照转换为 map
func structToMap(s Snapshot) (map[string]interface{}, error) {
	// 使用 json 标签来控制键名
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var resultMap map[string]interface{}
	if err := json.Unmarshal(data, &resultMap); err != nil {
		return nil, err
	}
	// 删除空的字段，避免在 Redis 中存储空值
	for k, v := range resultMap {
		if vs, ok := v.(string); ok && vs == "" {
			delete(resultMap, k)
		}
	}
	return resultMap, nil
}
