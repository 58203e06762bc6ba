// internal/queue/queue.go
package queue

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/Slade66/weather-observer/internal/logger"
	"github.com/Slade66/weather-observer/internal/reading"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	payloadField = "payload"

	// 读取失败后的重试间隔
	retryDelay = 5 * time.Second

	// 单次 XReadGroup 的阻塞时长，超时后重新检查 ctx
	blockTimeout = 5 * time.Second
)

// StreamClient 是 Queue 用到的 Redis Stream 命令子集，*redis.Client 实现了它
type StreamClient interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
}

// Handler 处理一条读数，返回错误时消息不会被 ACK
type Handler func(ctx context.Context, r reading.Reading) error

// Queue 基于 Redis Stream 的读数队列
type Queue struct {
	rdb    StreamClient
	stream string
	group  string
	lggr   logger.Logger
}

// New 创建一个新的读数队列
func New(rdb StreamClient, stream, group string, lggr logger.Logger) *Queue {
	if lggr == nil {
		lggr = logger.Nop()
	}
	return &Queue{rdb: rdb, stream: stream, group: group, lggr: lggr.Named("queue")}
}

// Publish 将读数序列化后投递到 Stream，返回消息 ID
func (q *Queue) Publish(ctx context.Context, r reading.Reading) (string, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return "", errors.Wrap(err, "序列化读数失败")
	}
	id, err := q.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		Values: map[string]interface{}{payloadField: string(payload)},
	}).Result()
	if err != nil {
		return "", errors.Wrap(err, "无法将读数发布到 Redis")
	}
	return id, nil
}

// EnsureGroup 确保消费者组存在，如果不存在则创建
func (q *Queue) EnsureGroup(ctx context.Context) error {
	err := q.rdb.XGroupCreateMkStream(ctx, q.stream, q.group, "$").Err()
	if err == nil {
		q.lggr.Infow("成功创建消费者组", "group", q.group, "stream", q.stream)
		return nil
	}
	if strings.Contains(err.Error(), "BUSYGROUP") {
		q.lggr.Debugw("消费者组已存在，无需创建", "group", q.group)
		return nil
	}
	return errors.Wrapf(err, "无法创建消费者组 %s", q.group)
}

// Consume 是 Worker 的主循环，持续读取并处理读数，直到 ctx 结束
func (q *Queue) Consume(ctx context.Context, consumer string, handle Handler) error {
	q.lggr.Infow("开始监听读数", "consumer", consumer, "stream", q.stream)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		streams, err := q.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    q.group,
			Consumer: consumer,
			Streams:  []string{q.stream, ">"}, // ">" 表示只接收从未被消费过的新消息
			Count:    1,
			Block:    blockTimeout,
		}).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			q.lggr.Errorw("从 Redis Stream 读取失败，稍后重试", "err", err, "delay", retryDelay)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay):
			}
			continue
		}

		for _, s := range streams {
			for _, msg := range s.Messages {
				q.handleMessage(ctx, msg, handle)
			}
		}
	}
}

func (q *Queue) handleMessage(ctx context.Context, msg redis.XMessage, handle Handler) {
	r, err := decode(msg)
	if err != nil {
		// 无法解析的消息直接 ACK 并跳过，防止阻塞队列
		q.lggr.Warnw("无法解析的消息，已跳过", "id", msg.ID, "err", err)
		q.ack(ctx, msg.ID)
		return
	}

	if err := handle(ctx, r); err != nil {
		// 处理失败的消息不 ACK，留在 pending 列表中以便重试或人工处理
		q.lggr.Errorw("读数处理失败，消息保留在 pending 列表", "id", msg.ID, "reading_id", r.ID, "err", err)
		return
	}
	q.ack(ctx, msg.ID)
}

func (q *Queue) ack(ctx context.Context, id string) {
	if err := q.rdb.XAck(ctx, q.stream, q.group, id).Err(); err != nil {
		q.lggr.Errorw("无法 ACK 消息", "id", id, "err", err)
	}
}

func decode(msg redis.XMessage) (reading.Reading, error) {
	var r reading.Reading
	raw, ok := msg.Values[payloadField].(string)
	if !ok {
		return r, errors.Errorf("消息缺少 %s 字段", payloadField)
	}
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return r, errors.Wrap(err, "无法解析读数 payload")
	}
	return r, nil
}
