package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Hemu21/crowdfunding/internal/conv"
	"github.com/Hemu21/crowdfunding/internal/ledger"
	"github.com/Hemu21/crowdfunding/internal/session"
	"github.com/gin-gonic/gin"
)

// CampaignHandler 活动读取接口
type CampaignHandler struct {
	session *session.Session
}

// NewCampaignHandler 创建活动读取接口
func NewCampaignHandler(s *session.Session) *CampaignHandler {
	return &CampaignHandler{session: s}
}

// ListCampaigns 获取活动列表
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	campaigns, err := h.session.Aggregate.ListCampaigns(c.Request.Context())
	if err != nil {
		c.JSON(readErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns})
}

// GetCampaignDetail 获取活动聚合详情
func (h *CampaignHandler) GetCampaignDetail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid campaign id"})
		return
	}

	detail, err := h.session.Aggregate.GetCampaignDetail(c.Request.Context(), id)
	if err != nil {
		c.JSON(readErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"campaign": detail})
}

// GetBackerProfile 获取资助者画像
func (h *CampaignHandler) GetBackerProfile(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid campaign id"})
		return
	}
	backer := c.Param("address")

	profile, err := h.session.Aggregate.GetBackerProfile(c.Request.Context(), id, backer)
	if err != nil {
		c.JSON(readErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"backer": profile})
}

// ListMyCampaigns 获取当前账户拥有的活动
func (h *CampaignHandler) ListMyCampaigns(c *gin.Context) {
	account := c.DefaultQuery("account", h.session.Account())

	campaigns, err := h.session.Aggregate.ListMyCampaigns(c.Request.Context(), account)
	if err != nil {
		c.JSON(readErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns})
}

// GetCampaignCount 获取活动总数
func (h *CampaignHandler) GetCampaignCount(c *gin.Context) {
	count, err := h.session.Aggregate.CampaignCount(c.Request.Context())
	if err != nil {
		c.JSON(readErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// readErrorStatus 读取错误到HTTP状态码的映射
func readErrorStatus(err error) int {
	var notFound *ledger.NotFoundError
	var stale *ledger.StaleDataError
	var divZero *conv.DivisionByZeroError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &stale):
		return http.StatusConflict
	case errors.As(err, &divZero):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
