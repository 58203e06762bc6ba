package status

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Slade66/weather-observer/internal/weather"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHash 在内存中模拟 Redis Hash
type fakeHash struct {
	data map[string]map[string]string
	err  error
}

func newFakeHash() *fakeHash {
	return &fakeHash{data: map[string]map[string]string{}}
}

func (f *fakeHash) HSet(_ context.Context, key string, values ...interface{}) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	h, ok := f.data[key]
	if !ok {
		h = map[string]string{}
		f.data[key] = h
	}
	fields := values[0].(map[string]interface{})
	for k, v := range fields {
		h[k] = fmt.Sprint(v)
	}
	return redis.NewIntResult(int64(len(fields)), nil)
}

func (f *fakeHash) HGetAll(_ context.Context, key string) *redis.MapStringStringCmd {
	if f.err != nil {
		return redis.NewMapStringStringResult(nil, f.err)
	}
	out := map[string]string{}
	for k, v := range f.data[key] {
		out[k] = v
	}
	return redis.NewMapStringStringResult(out, nil)
}

func TestManager_SaveAndGet(t *testing.T) {
	rdb := newFakeHash()
	m := NewManager(rdb)
	ctx := context.Background()

	in := Snapshot{Station: "roof", ReadingID: "abc", Temperature: 60.5, Pressure: 105, Humidity: 40, Pollen: 3}
	require.NoError(t, m.SaveSnapshot(ctx, in))
	assert.Contains(t, rdb.data, "station:snapshot:roof")

	got, err := m.GetSnapshot(ctx, "roof")
	require.NoError(t, err)
	assert.Equal(t, in.Measurements(), got.Measurements())
	assert.Equal(t, "abc", got.ReadingID)
	assert.NotEmpty(t, got.UpdatedAt)
}

func TestManager_OmitsEmptyReadingID(t *testing.T) {
	rdb := newFakeHash()
	m := NewManager(rdb)

	require.NoError(t, m.SaveSnapshot(context.Background(), Snapshot{Station: "roof"}))
	assert.NotContains(t, rdb.data["station:snapshot:roof"], "reading_id")
}

func TestManager_GetMissing(t *testing.T) {
	m := NewManager(newFakeHash())

	_, err := m.GetSnapshot(context.Background(), "nowhere")
	assert.True(t, errors.Is(err, ErrSnapshotNotFound))
}

func TestManager_GetInvalidField(t *testing.T) {
	rdb := newFakeHash()
	rdb.data["station:snapshot:roof"] = map[string]string{"station": "roof", "temperature": "hot"}

	_, err := NewManager(rdb).GetSnapshot(context.Background(), "roof")
	assert.Error(t, err)
}

func TestRecorder_Update(t *testing.T) {
	rdb := newFakeHash()
	s := weather.NewStation(nil)
	rec := NewRecorder(NewManager(rdb), s, "roof", time.Second)
	rec.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	rec.SetReadingID("r-1")
	s.Register(rec)

	require.NoError(t, s.SetMeasurements(weather.Measurements{Temperature: 70, Pressure: 50, Humidity: 50, Pollen: 123}))

	got, err := NewManager(rdb).GetSnapshot(context.Background(), "roof")
	require.NoError(t, err)
	assert.Equal(t, s.Measurements(), got.Measurements())
	assert.Equal(t, "r-1", got.ReadingID)
	assert.Equal(t, "2024-05-01T12:00:00Z", got.UpdatedAt)
}

func TestRecorder_RedisFailureAbortsBroadcast(t *testing.T) {
	rdb := newFakeHash()
	rdb.err = errors.New("connection reset")
	s := weather.NewStation(nil)
	s.Register(NewRecorder(NewManager(rdb), s, "roof", time.Second))

	err := s.SetMeasurements(weather.Measurements{Temperature: 1})
	require.Error(t, err)
	assert.Equal(t, rdb.err, errors.Cause(err))
}
