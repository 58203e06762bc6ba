package uploader

import (
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/Slade66/weather-observer/internal/logger"
	"github.com/Slade66/weather-observer/internal/weather"
	"github.com/huaweicloud/huaweicloud-sdk-go-obs/obs"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capture struct {
	inputs []*obs.PutObjectInput
	bodies [][]byte
	err    error
}

func (c *capture) put(input *obs.PutObjectInput) (*obs.PutObjectOutput, error) {
	if c.err != nil {
		return nil, c.err
	}
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	c.inputs = append(c.inputs, input)
	c.bodies = append(c.bodies, body)
	out := &obs.PutObjectOutput{}
	out.ETag = "etag"
	return out, nil
}

func TestObsArchiver_Update(t *testing.T) {
	s := weather.NewStation(nil)
	c := &capture{}
	a := newArchiver(c.put, "weather", "snapshots/roof", s, logger.Test(t))
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return at }
	s.Register(a)

	require.NoError(t, s.SetMeasurements(weather.Measurements{Temperature: 60, Pressure: 105, Humidity: 100, Pollen: 123}))

	require.Len(t, c.inputs, 1)
	assert.Equal(t, "weather", c.inputs[0].Bucket)
	assert.Equal(t, "snapshots/roof/1714564800000000000.json", c.inputs[0].Key)
	assert.Equal(t, "application/json", c.inputs[0].ContentType)

	var got struct {
		weather.Measurements
		RecordedAt time.Time `json:"recorded_at"`
	}
	require.NoError(t, json.Unmarshal(c.bodies[0], &got))
	assert.Equal(t, s.Measurements(), got.Measurements)
	assert.True(t, at.Equal(got.RecordedAt))
}

func TestObsArchiver_ObsError(t *testing.T) {
	s := weather.NewStation(nil)
	obsErr := obs.ObsError{}
	obsErr.Code = "NoSuchBucket"
	obsErr.Message = "The specified bucket does not exist"
	a := newArchiver((&capture{err: obsErr}).put, "missing", "", s, nil)

	err := a.Update()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NoSuchBucket")
}

func TestObsArchiver_TransportError(t *testing.T) {
	s := weather.NewStation(nil)
	boom := errors.New("dial tcp: timeout")
	a := newArchiver((&capture{err: boom}).put, "weather", "", s, nil)

	err := a.Update()
	require.Error(t, err)
	assert.Equal(t, boom, errors.Cause(err))
}

func TestObsArchiver_CloseWithoutClient(t *testing.T) {
	a := newArchiver((&capture{}).put, "weather", "", weather.NewStation(nil), nil)
	assert.NotPanics(t, a.Close)
}
