package handler

import (
	"context"
	"time"

	"github.com/kevinpauljacob/cal/internal/api/dto"
	"github.com/kevinpauljacob/cal/internal/pkg/consts"
	"github.com/kevinpauljacob/cal/internal/pkg/response"
	"github.com/kevinpauljacob/cal/internal/service"

	"github.com/gin-gonic/gin"
)

// Collector 手动触发一次采集批次，与定时任务共用同一把锁
type Collector interface {
	Collect(ctx context.Context) (*dto.CollectReportDTO, error)
}

type MindshareHandler struct {
	rankingSvc service.RankingService
	windowSvc  service.WindowService
	collector  Collector
	pageSize   int
}

func NewMindshareHandler(rankingSvc service.RankingService, windowSvc service.WindowService,
	collector Collector, pageSize int) *MindshareHandler {
	return &MindshareHandler{
		rankingSvc: rankingSvc,
		windowSvc:  windowSvc,
		collector:  collector,
		pageSize:   pageSize,
	}
}

// GetListings 排行榜 (sortField / sortOrder / page / q)
func (h *MindshareHandler) GetListings(c *gin.Context) {
	var raw dto.RankQueryDTO
	if err := c.ShouldBindQuery(&raw); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	q, err := service.ParseRankQuery(raw, h.pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	page, err := h.rankingSvc.Rank(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// GetListingMindshare 单个项目的窗口指标
func (h *MindshareHandler) GetListingMindshare(c *gin.Context) {
	handle := c.Param(consts.HandleKey)
	if handle == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := h.windowSvc.ComputeWindows(c.Request.Context(), handle, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetTrending 指定窗口涨幅榜
func (h *MindshareHandler) GetTrending(c *gin.Context) {
	items, err := h.rankingSvc.Trending(c.Request.Context(), c.Query("timeframe"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

// Collect 立即执行一次采集
func (h *MindshareHandler) Collect(c *gin.Context) {
	report, err := h.collector.Collect(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, report)
}
