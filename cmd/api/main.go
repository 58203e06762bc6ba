package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/Slade66/weather-observer/internal/config"
	"github.com/Slade66/weather-observer/internal/logger"
	"github.com/Slade66/weather-observer/internal/queue"
	"github.com/Slade66/weather-observer/internal/status"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

func main() {
	configPath := flag.String("config", "config.yaml", "配置文件路径 (不存在时只读取环境变量)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

// run 初始化依赖并启动 API 服务，所有 defer 都会在返回前执行
func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return errors.Wrap(err, "加载配置失败")
	}
	if err := cfg.Redis.Validate(); err != nil {
		return err
	}

	lggr, err := logger.New(cfg.Log.Level)
	if err != nil {
		return errors.Wrap(err, "初始化日志失败")
	}
	defer lggr.Sync()
	lggr = lggr.Named("api")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "API 无法连接到 Redis")
	}
	lggr.Infow("成功连接到 Redis", "addr", cfg.Redis.Addr)

	h := &handlers{
		queue:     queue.New(rdb, cfg.Redis.Stream, cfg.Redis.Group, lggr),
		snapshots: status.NewManager(rdb),
		station:   cfg.Station.Name,
		lggr:      lggr,
	}

	gin.SetMode(gin.ReleaseMode)
	router := newRouter(h)

	lggr.Infow("API 服务已启动", "addr", cfg.HTTP.Addr)
	return errors.Wrap(router.Run(cfg.HTTP.Addr), "API 服务退出")
}
