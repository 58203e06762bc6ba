package main

import (
	"context"
	"net/http"

	"github.com/Slade66/weather-observer/internal/logger"
	"github.com/Slade66/weather-observer/internal/reading"
	"github.com/Slade66/weather-observer/internal/status"
	"github.com/Slade66/weather-observer/internal/weather"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type readingPublisher interface {
	Publish(ctx context.Context, r reading.Reading) (string, error)
}

type snapshotReader interface {
	GetSnapshot(ctx context.Context, station string) (status.Snapshot, error)
}

type handlers struct {
	queue     readingPublisher
	snapshots snapshotReader
	station   string
	lggr      logger.Logger
}

// submitReadingHandler 接收一次测量并投递到读数队列
func (h *handlers) submitReadingHandler(c *gin.Context) {
	// 指针字段用于区分“未提供”和 0
	var request struct {
		Temperature *float64 `json:"temperature" binding:"required"`
		Pressure    *float64 `json:"pressure" binding:"required"`
		Humidity    *float64 `json:"humidity" binding:"required"`
		Pollen      *float64 `json:"pollen" binding:"required"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求: " + err.Error()})
		return
	}

	r := reading.New(weather.Measurements{
		Temperature: *request.Temperature,
		Pressure:    *request.Pressure,
		Humidity:    *request.Humidity,
		Pollen:      *request.Pollen,
	})

	msgID, err := h.queue.Publish(c.Request.Context(), r)
	if err != nil {
		h.lggr.Errorw("无法将读数发布到 Redis", "reading_id", r.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法将读数发布到 Redis"})
		return
	}

	h.lggr.Infow("读数已投递到消息队列", "reading_id", r.ID, "message_id", msgID)
	c.JSON(http.StatusAccepted, gin.H{
		"message":    "读数已接收，正在排队等待处理...",
		"reading_id": r.ID.String(),
	})
}

// getSnapshotHandler 返回气象站最新的快照，默认为配置中的气象站
func (h *handlers) getSnapshotHandler(c *gin.Context) {
	station := c.DefaultQuery("station", h.station)

	snapshot, err := h.snapshots.GetSnapshot(c.Request.Context(), station)
	if errors.Is(err, status.ErrSnapshotNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "该气象站还没有任何读数"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法从 Redis 获取快照: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func newRouter(h *handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", healthHandler)
	api := router.Group("/api")
	{
		api.POST("/readings", h.submitReadingHandler)
		api.GET("/snapshot", h.getSnapshotHandler)
	}
	return router
}
