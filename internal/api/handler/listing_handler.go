package handler

import (
	"github.com/kevinpauljacob/cal/internal/api/dto"
	"github.com/kevinpauljacob/cal/internal/pkg/consts"
	"github.com/kevinpauljacob/cal/internal/pkg/response"
	"github.com/kevinpauljacob/cal/internal/service"

	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	listingSvc service.ListingService
}

func NewListingHandler(listingSvc service.ListingService) *ListingHandler {
	return &ListingHandler{
		listingSvc: listingSvc,
	}
}

// CreateListing 提交项目
func (h *ListingHandler) CreateListing(c *gin.Context) {
	req := &dto.CreateListingDTO{}
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	listing, err := h.listingSvc.CreateListing(c.Request.Context(), c.GetString(consts.HandleKey), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, listing)
}

// UpdateLaunchDate 修改上线日期，仅提交者可操作
func (h *ListingHandler) UpdateLaunchDate(c *gin.Context) {
	req := &dto.UpdateLaunchDateDTO{}
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	listing, err := h.listingSvc.UpdateLaunchDate(c.Request.Context(), c.GetString(consts.HandleKey), c.Param(consts.HandleKey), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, listing)
}

// GetCount 活跃项目数
func (h *ListingHandler) GetCount(c *gin.Context) {
	count, err := h.listingSvc.CountActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.CountDTO{Count: count})
}
