package wallet

import (
	"sync"

	"github.com/Hemu21/crowdfunding/internal/logger"
	"github.com/Hemu21/crowdfunding/internal/model"
	"gorm.io/gorm"
)

// Operation 变更操作类型
type Operation string

const (
	OpCreateCampaign Operation = "createCampaign"
	OpAddTier        Operation = "addTier"
	OpFund           Operation = "fund"
	OpRefund         Operation = "refund"
	OpWithdraw       Operation = "withdraw"
	OpUpdateCampaign Operation = "updateCampaign"
)

// Intent 一次待定变更及其生命周期
// 状态流转: building -> submitted -> pending -> confirmed | failed
type Intent struct {
	Id         int64
	Operation  Operation
	CampaignId int64

	mu     sync.RWMutex
	txHash string
	status model.IntentStatus
	err    error
	subs   []chan model.IntentStatus
}

// Status 当前状态, 终态为failed时err携带失败原因
func (i *Intent) Status() (model.IntentStatus, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.status, i.err
}

// TxHash 已提交交易的哈希, 未提交时为空
func (i *Intent) TxHash() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.txHash
}

// Subscribe 订阅状态变更
// 返回的通道在意图进入终态后关闭; 订阅时如已是终态则立即收到该状态
func (i *Intent) Subscribe() <-chan model.IntentStatus {
	ch := make(chan model.IntentStatus, 8)

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.status.Terminal() {
		ch <- i.status
		close(ch)
		return ch
	}
	i.subs = append(i.subs, ch)
	return ch
}

// setStatus 更新状态并通知订阅者, 终态后不再变更
func (i *Intent) setStatus(status model.IntentStatus, err error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.status.Terminal() {
		return
	}
	i.status = status
	i.err = err

	for _, ch := range i.subs {
		select {
		case ch <- status:
		default: // 订阅者未及时消费, 丢弃中间状态
		}
		if status.Terminal() {
			close(ch)
		}
	}
	if status.Terminal() {
		i.subs = nil
	}
}

// Registry 交易意图注册表
// 内存为权威状态, 可选地将变更镜像到簿记表
type Registry struct {
	mu      sync.RWMutex
	nextId  int64
	intents map[int64]*Intent
	db      *gorm.DB
}

// NewRegistry 创建注册表, db可为nil(不落库)
func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{
		intents: make(map[int64]*Intent),
		db:      db,
	}
}

// create 新建building状态的意图
func (r *Registry) create(op Operation, campaignId int64) *Intent {
	r.mu.Lock()
	r.nextId++
	intent := &Intent{
		Id:         r.nextId,
		Operation:  op,
		CampaignId: campaignId,
		status:     model.IntentStatusBuilding,
	}
	r.intents[intent.Id] = intent
	r.mu.Unlock()

	r.record(intent, 0)
	return intent
}

// Get 按ID查找意图
func (r *Registry) Get(id int64) (*Intent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	intent, ok := r.intents[id]
	if !ok {
		return nil, ErrIntentNotFound
	}
	return intent, nil
}

// InFlight 返回已提交且未到终态的意图
func (r *Registry) InFlight() []*Intent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Intent
	for _, intent := range r.intents {
		status, _ := intent.Status()
		if intent.TxHash() != "" && !status.Terminal() {
			result = append(result, intent)
		}
	}
	return result
}

// markSubmitted 标记已提交
func (r *Registry) markSubmitted(intent *Intent, txHash string) {
	intent.mu.Lock()
	intent.txHash = txHash
	intent.mu.Unlock()

	intent.setStatus(model.IntentStatusSubmitted, nil)
	r.record(intent, 0)
}

// markPending 标记等待确认
func (r *Registry) markPending(intent *Intent) {
	intent.setStatus(model.IntentStatusPending, nil)
	r.record(intent, 0)
}

// markConfirmed 标记确认终态
func (r *Registry) markConfirmed(intent *Intent, blockNum int64) {
	intent.setStatus(model.IntentStatusConfirmed, nil)
	r.record(intent, blockNum)
}

// markFailed 标记失败终态, 保留区分性的失败原因
func (r *Registry) markFailed(intent *Intent, err error) {
	intent.setStatus(model.IntentStatusFailed, err)
	r.record(intent, 0)
}

// record 将意图状态镜像到簿记表
func (r *Registry) record(intent *Intent, blockNum int64) {
	if r.db == nil {
		return
	}

	status, err := intent.Status()
	row := model.IntentModel{
		Id:         intent.Id,
		Operation:  string(intent.Operation),
		CampaignId: intent.CampaignId,
		TxHash:     intent.TxHash(),
		Status:     status,
		BlockNum:   blockNum,
	}
	if err != nil {
		row.FailReason = err.Error()
	}

	if dbErr := r.db.Save(&row).Error; dbErr != nil {
		logger.Error("Failed to record intent %d: %v", intent.Id, dbErr)
	}
}
