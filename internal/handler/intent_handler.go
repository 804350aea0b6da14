package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Hemu21/crowdfunding/internal/conv"
	"github.com/Hemu21/crowdfunding/internal/session"
	"github.com/Hemu21/crowdfunding/internal/wallet"
	"github.com/gin-gonic/gin"
)

// IntentHandler 变更操作接口
// 单位换算在此完成: 写入适配器只接受wei和epoch秒
type IntentHandler struct {
	session *session.Session
	// 意图查询依赖注册表
	registry *wallet.Registry
}

// NewIntentHandler 创建变更操作接口
func NewIntentHandler(s *session.Session, registry *wallet.Registry) *IntentHandler {
	return &IntentHandler{session: s, registry: registry}
}

// CreateCampaign 创建活动
func (h *IntentHandler) CreateCampaign(c *gin.Context) {
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target, err := conv.EthToWei(req.Target)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	deadline, err := conv.ToUnixTimestamp(req.Deadline)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	intent, err := h.session.Writer.CreateCampaign(c.Request.Context(), req.Title, req.Description, target, deadline, req.Image)
	if err != nil {
		c.JSON(writeErrorStatus(err), gin.H{"error": err.Error(), "intent": ToIntentResponse(intent)})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"intent": ToIntentResponse(intent)})
}

// UpdateCampaign 更新活动
func (h *IntentHandler) UpdateCampaign(c *gin.Context) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	var req UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target, err := conv.EthToWei(req.Target)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	deadline, err := conv.ToUnixTimestamp(req.Deadline)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	intent, err := h.session.Writer.UpdateCampaign(c.Request.Context(), id, req.Title, req.Description, target, deadline, req.Image)
	if err != nil {
		c.JSON(writeErrorStatus(err), gin.H{"error": err.Error(), "intent": ToIntentResponse(intent)})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"intent": ToIntentResponse(intent)})
}

// AddTier 添加档位
func (h *IntentHandler) AddTier(c *gin.Context) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	var req AddTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := conv.EthToWei(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	intent, err := h.session.Writer.AddTier(c.Request.Context(), id, req.Name, amount)
	if err != nil {
		c.JSON(writeErrorStatus(err), gin.H{"error": err.Error(), "intent": ToIntentResponse(intent)})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"intent": ToIntentResponse(intent)})
}

// Fund 资助活动
// 先拉取当前聚合视图做本地守卫: 已关闭或已截止的活动在提交前直接拒绝
func (h *IntentHandler) Fund(c *gin.Context) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	var req FundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := conv.EthToWei(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := h.session.Aggregate.GetCampaignDetail(c.Request.Context(), id)
	if err != nil {
		c.JSON(readErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	guard := wallet.FundGuard{IsClosed: detail.IsClosed, Deadline: detail.Deadline}
	intent, err := h.session.Writer.Fund(c.Request.Context(), id, req.TierIndex, amount, guard)
	if err != nil {
		if intent == nil {
			// 本地守卫拒绝, 未产生任何账本调用
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(writeErrorStatus(err), gin.H{"error": err.Error(), "intent": ToIntentResponse(intent)})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"intent": ToIntentResponse(intent)})
}

// Refund 申请退款
func (h *IntentHandler) Refund(c *gin.Context) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	intent, err := h.session.Writer.Refund(c.Request.Context(), id)
	if err != nil {
		c.JSON(writeErrorStatus(err), gin.H{"error": err.Error(), "intent": ToIntentResponse(intent)})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"intent": ToIntentResponse(intent)})
}

// Withdraw 提取资金
func (h *IntentHandler) Withdraw(c *gin.Context) {
	id, ok := campaignId(c)
	if !ok {
		return
	}

	intent, err := h.session.Writer.Withdraw(c.Request.Context(), id)
	if err != nil {
		c.JSON(writeErrorStatus(err), gin.H{"error": err.Error(), "intent": ToIntentResponse(intent)})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"intent": ToIntentResponse(intent)})
}

// GetIntent 查询交易意图状态
func (h *IntentHandler) GetIntent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid intent id"})
		return
	}

	intent, err := h.registry.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"intent": ToIntentResponse(intent)})
}

// campaignId 解析路径中的活动ID
func campaignId(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid campaign id"})
		return 0, false
	}
	return id, true
}

// writeErrorStatus 写入错误到HTTP状态码的映射
func writeErrorStatus(err error) int {
	var rejected *wallet.RejectedError
	var reverted *wallet.RevertedError

	switch {
	case errors.Is(err, wallet.ErrCampaignClosed), errors.Is(err, wallet.ErrDeadlinePassed):
		return http.StatusConflict
	case errors.As(err, &rejected):
		return http.StatusForbidden
	case errors.As(err, &reverted):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}
