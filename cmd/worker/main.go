package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Slade66/weather-observer/internal/config"
	"github.com/Slade66/weather-observer/internal/logger"
	"github.com/Slade66/weather-observer/internal/queue"
	"github.com/Slade66/weather-observer/internal/reading"
	"github.com/Slade66/weather-observer/internal/status"
	"github.com/Slade66/weather-observer/internal/uploader"
	"github.com/Slade66/weather-observer/internal/weather"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// 每次写 Redis 快照的超时时间
const snapshotTimeout = 3 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "配置文件路径 (不存在时只读取环境变量)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

// run 组装气象站并消费读数队列，直到收到退出信号
func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return errors.Wrap(err, "加载配置失败")
	}
	if err := cfg.Redis.Validate(); err != nil {
		return err
	}
	if cfg.Obs.Enabled() {
		if err := cfg.Obs.Validate(); err != nil {
			return err
		}
	}

	lggr, err := logger.New(cfg.Log.Level)
	if err != nil {
		return errors.Wrap(err, "初始化日志失败")
	}
	defer lggr.Sync()
	lggr = lggr.Named("worker")

	// 初始化 Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	defer rdb.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return errors.Wrap(err, "Worker 无法连接到 Redis")
	}
	lggr.Infow("成功连接到 Redis", "addr", cfg.Redis.Addr)

	// 组装气象站和它的观察者
	station := weather.NewStation(lggr.Named("station"))
	station.Register(weather.NewTemperatureDisplay(station, os.Stdout))
	station.Register(weather.NewHumidityDisplay(station, os.Stdout))
	station.Register(weather.NewPressureDisplay(station, os.Stdout))
	station.Register(weather.NewPollenDisplay(station, os.Stdout))

	recorder := status.NewRecorder(status.NewManager(rdb), station, cfg.Station.Name, snapshotTimeout)
	station.Register(recorder)

	// 初始化 OBS 归档（可选）
	if cfg.Obs.Enabled() {
		archiver, err := uploader.NewObsArchiver(cfg.Obs.Endpoint, cfg.Obs.AK, cfg.Obs.SK, cfg.Obs.Bucket,
			cfg.Obs.Prefix+"/"+cfg.Station.Name, station, lggr)
		if err != nil {
			return errors.Wrap(err, "初始化 OBS 归档失败")
		}
		defer archiver.Close() // 确保程序退出时关闭客户端
		station.Register(archiver)
		lggr.Infow("OBS 归档已启用", "bucket", cfg.Obs.Bucket)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	q := queue.New(rdb, cfg.Redis.Stream, cfg.Redis.Group, lggr)
	if err := q.EnsureGroup(ctx); err != nil {
		return err
	}

	consumerName, err := os.Hostname()
	if err != nil {
		consumerName = fmt.Sprintf("worker-%d", time.Now().Unix())
		lggr.Warnw("无法获取主机名，使用默认消费者名称", "consumer", consumerName, "err", err)
	}

	// 队列循环是气象站唯一的所有者，广播全部在这个 goroutine 中同步完成
	err = q.Consume(ctx, consumerName, func(_ context.Context, r reading.Reading) error {
		lggr.Infow("接收到新读数", "reading_id", r.ID)
		recorder.SetReadingID(r.ID.String())
		return station.SetMeasurements(r.Measurements())
	})
	if errors.Is(err, context.Canceled) {
		lggr.Infow("收到退出信号，Worker 已停止")
		return nil
	}
	return err
}
