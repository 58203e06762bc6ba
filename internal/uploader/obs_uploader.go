// internal/uploader/obs_uploader.go
package uploader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/Slade66/weather-observer/internal/logger"
	"github.com/Slade66/weather-observer/internal/observer"
	"github.com/Slade66/weather-observer/internal/weather"
	"github.com/huaweicloud/huaweicloud-sdk-go-obs/obs"
	"github.com/pkg/errors"
)

// putObjectFunc 对应 ObsClient.PutObject，便于在测试中替换
type putObjectFunc func(input *obs.PutObjectInput) (*obs.PutObjectOutput, error)

// ObsArchiver 是一个观察者，每次收到通知都把气象站读数归档到 OBS
type ObsArchiver struct {
	client *obs.ObsClient
	put    putObjectFunc
	bucket string
	prefix string
	src    weather.Source
	lggr   logger.Logger
	now    func() time.Time
}

var _ observer.Observer = (*ObsArchiver)(nil)

// NewObsArchiver 根据官方文档创建一个新的 OBS 客户端并包装为归档观察者
func NewObsArchiver(endpoint, ak, sk, bucket, prefix string, src weather.Source, lggr logger.Logger) (*ObsArchiver, error) {
	// obs.New 是创建客户端实例的函数
	client, err := obs.New(ak, sk, endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "无法创建 OBS 客户端")
	}

	a := newArchiver(func(input *obs.PutObjectInput) (*obs.PutObjectOutput, error) {
		return client.PutObject(input)
	}, bucket, prefix, src, lggr)
	a.client = client
	return a, nil
}

func newArchiver(put putObjectFunc, bucket, prefix string, src weather.Source, lggr logger.Logger) *ObsArchiver {
	if lggr == nil {
		lggr = logger.Nop()
	}
	return &ObsArchiver{
		put:    put,
		bucket: bucket,
		prefix: prefix,
		src:    src,
		lggr:   lggr.Named("archiver"),
		now:    time.Now,
	}
}

// Update 实现了 Observer 接口：拉取最新读数并上传为 JSON 对象
func (a *ObsArchiver) Update() error {
	at := a.now().UTC()
	body, err := json.Marshal(struct {
		weather.Measurements
		RecordedAt time.Time `json:"recorded_at"`
	}{weather.SnapshotOf(a.src), at})
	if err != nil {
		return errors.Wrap(err, "序列化读数失败")
	}

	// PutObjectInput 是上传对象所需的参数结构体
	input := &obs.PutObjectInput{}
	input.Bucket = a.bucket
	input.Key = a.objectKey(at)
	input.ContentType = "application/json"
	input.Body = bytes.NewReader(body)

	output, err := a.put(input)
	if err != nil {
		// 尝试解析 OBS 返回的详细错误信息
		if obsError, ok := err.(obs.ObsError); ok {
			return errors.Errorf("归档失败，OBS错误码: %s, 错误信息: %s", obsError.Code, obsError.Message)
		}
		return errors.Wrap(err, "上传读数到 OBS 失败")
	}

	a.lggr.Debugw("读数已归档到 OBS", "bucket", a.bucket, "key", input.Key, "etag", output.ETag)
	return nil
}

// objectKey 以纳秒时间戳命名对象，保证同一前缀下按时间排序
func (a *ObsArchiver) objectKey(at time.Time) string {
	return path.Join(a.prefix, fmt.Sprintf("%d.json", at.UnixNano()))
}

// Close 关闭客户端连接
func (a *ObsArchiver) Close() {
	if a.client != nil {
		a.client.Close()
	}
}
