package model

import (
	"time"
)

// IntentModel 交易意图记录
type IntentModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Operation  string       `json:"operation" gorm:"not null"`
	CampaignId int64        `json:"campaign_id"`
	TxHash     string       `json:"tx_hash" gorm:"index"`
	Status     IntentStatus `json:"status" gorm:"default:'building'"`
	FailReason string       `json:"fail_reason"`
	BlockNum   int64        `json:"block_num"`
}

// IntentStatus 交易意图状态
type IntentStatus string

const (
	IntentStatusBuilding  IntentStatus = "building"  // 本地组装参数
	IntentStatusSubmitted IntentStatus = "submitted" // 已提交签名/发送
	IntentStatusPending   IntentStatus = "pending"   // 等待链上确认
	IntentStatusConfirmed IntentStatus = "confirmed" // 终态: 成功
	IntentStatusFailed    IntentStatus = "failed"    // 终态: 失败
)

// Terminal 是否为终态
func (s IntentStatus) Terminal() bool {
	return s == IntentStatusConfirmed || s == IntentStatusFailed
}

// TableName 自定义表名
func (IntentModel) TableName() string {
	return "tx_intent"
}
