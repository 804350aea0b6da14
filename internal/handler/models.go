package handler

import (
	"github.com/Hemu21/crowdfunding/internal/wallet"
)

// CreateCampaignRequest 创建活动请求, 金额为ETH, 截止时间为本地日期时间字符串
type CreateCampaignRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Target      float64 `json:"target" binding:"required,gt=0"`
	Deadline    string  `json:"deadline" binding:"required"`
	Image       string  `json:"image" binding:"required"`
}

// UpdateCampaignRequest 更新活动请求
type UpdateCampaignRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Target      float64 `json:"target" binding:"required,gt=0"`
	Deadline    string  `json:"deadline" binding:"required"`
	Image       string  `json:"image" binding:"required"`
}

// AddTierRequest 添加档位请求, 金额为ETH
type AddTierRequest struct {
	Name   string  `json:"name" binding:"required"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// FundRequest 资助请求, 金额为ETH
type FundRequest struct {
	TierIndex int64   `json:"tierIndex" binding:"min=0"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

// IntentResponse 交易意图响应
type IntentResponse struct {
	Id         int64  `json:"id"`
	Operation  string `json:"operation"`
	CampaignId int64  `json:"campaignId"`
	TxHash     string `json:"txHash,omitempty"`
	Status     string `json:"status"`
	FailReason string `json:"failReason,omitempty"`
}

// SessionResponse 会话状态响应
type SessionResponse struct {
	Account string `json:"account"`
	Theme   string `json:"theme"`
}

// ToIntentResponse 将交易意图转换为响应模型
func ToIntentResponse(intent *wallet.Intent) IntentResponse {
	status, err := intent.Status()
	resp := IntentResponse{
		Id:         intent.Id,
		Operation:  string(intent.Operation),
		CampaignId: intent.CampaignId,
		TxHash:     intent.TxHash(),
		Status:     string(status),
	}
	if err != nil {
		resp.FailReason = err.Error()
	}
	return resp
}
