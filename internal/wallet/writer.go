package wallet

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/Hemu21/crowdfunding/internal/config"
	"github.com/Hemu21/crowdfunding/internal/ledger"
	"github.com/Hemu21/crowdfunding/internal/logger"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// contractTransactor 合约变更调用, 由bind.BoundContract实现
type contractTransactor interface {
	Transact(opts *bind.TransactOpts, method string, params ...interface{}) (*types.Transaction, error)
}

// FundGuard 资助前的本地守卫快照, 由调用方从当前聚合视图提供
type FundGuard struct {
	IsClosed bool
	Deadline int64
}

// Writer 账本写入适配器
// 组装变更调用并交给签名能力提交, 每次调用返回可观察生命周期的交易意图
// 失败即终态, 不做任何重试; 同一活动上的写入不做串行化, 顺序由账本保证
type Writer struct {
	contract contractTransactor
	auth     *bind.TransactOpts
	registry *Registry
}

// NewWriter 创建写入适配器
func NewWriter(client *ethclient.Client, cfg config.ChainConfig, registry *Registry) (*Writer, error) {
	parsedABI, err := ledger.LoadABI(cfg.ABIPath)
	if err != nil {
		return nil, err
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, &RejectedError{Reason: "invalid private key"}
	}

	auth, err := bind.NewKeyedTransactorWithChainID(privateKey, big.NewInt(cfg.ChainId))
	if err != nil {
		return nil, err
	}

	contractAddr := common.HexToAddress(cfg.ContractAddr)
	bound := bind.NewBoundContract(contractAddr, parsedABI, client, client, client)

	return &Writer{
		contract: bound,
		auth:     auth,
		registry: registry,
	}, nil
}

// NewWriterWithContract 使用已有合约绑定创建写入适配器, 测试用
func NewWriterWithContract(contract contractTransactor, auth *bind.TransactOpts, registry *Registry) *Writer {
	return &Writer{contract: contract, auth: auth, registry: registry}
}

// Account 签名账户地址
func (w *Writer) Account() string {
	if w.auth == nil {
		return ""
	}
	return w.auth.From.Hex()
}

// CreateCampaign 创建活动
// target为wei, deadline为epoch秒: 单位换算是调用方的边界责任
func (w *Writer) CreateCampaign(ctx context.Context, title, description string, target *big.Int, deadline int64, image string) (*Intent, error) {
	intent := w.registry.create(OpCreateCampaign, -1)
	return w.transact(ctx, intent, nil, "createCampaign", title, description, target, big.NewInt(deadline), image)
}

// AddTier 为活动添加档位, amount为wei
func (w *Writer) AddTier(ctx context.Context, id int64, name string, amount *big.Int) (*Intent, error) {
	intent := w.registry.create(OpAddTier, id)
	return w.transact(ctx, intent, nil, "addTier", big.NewInt(id), name, amount)
}

// Fund 资助活动的某个档位, amount为随交易附带的wei
// 活动已关闭或截止已过时在本地直接拒绝, 不产生账本调用;
// 账本仍可能独立拒绝, 该路径以RevertedError终态呈现
func (w *Writer) Fund(ctx context.Context, id, tierIndex int64, amount *big.Int, guard FundGuard) (*Intent, error) {
	if guard.IsClosed {
		return nil, ErrCampaignClosed
	}
	if guard.Deadline <= time.Now().Unix() {
		return nil, ErrDeadlinePassed
	}

	intent := w.registry.create(OpFund, id)
	return w.transact(ctx, intent, amount, "fund", big.NewInt(id), big.NewInt(tierIndex))
}

// Refund 申请退款
func (w *Writer) Refund(ctx context.Context, id int64) (*Intent, error) {
	intent := w.registry.create(OpRefund, id)
	return w.transact(ctx, intent, nil, "refund", big.NewInt(id))
}

// Withdraw 活动所有者提取资金
func (w *Writer) Withdraw(ctx context.Context, id int64) (*Intent, error) {
	intent := w.registry.create(OpWithdraw, id)
	return w.transact(ctx, intent, nil, "withdraw", big.NewInt(id))
}

// UpdateCampaign 更新活动, target为wei, deadline为epoch秒
func (w *Writer) UpdateCampaign(ctx context.Context, id int64, title, description string, target *big.Int, deadline int64, image string) (*Intent, error) {
	intent := w.registry.create(OpUpdateCampaign, id)
	return w.transact(ctx, intent, nil, "updateCampaign", big.NewInt(id), title, description, target, big.NewInt(deadline), image)
}

// transact 提交变更调用并推进意图状态
func (w *Writer) transact(ctx context.Context, intent *Intent, value *big.Int, method string, params ...interface{}) (*Intent, error) {
	opts := *w.auth
	opts.Context = ctx
	opts.Value = value

	tx, err := w.contract.Transact(&opts, method, params...)
	if err != nil {
		classified := classifySubmitError(err)
		w.registry.markFailed(intent, classified)
		logger.Error("Failed to submit %s: %v", method, err)
		return intent, classified
	}

	w.registry.markSubmitted(intent, tx.Hash().Hex())
	logger.Info("Submitted %s tx %s (intent %d)", method, tx.Hash().Hex(), intent.Id)
	return intent, nil
}

// classifySubmitError 区分提交失败原因: 签名拒绝/预执行revert/网络错误
func classifySubmitError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "execution reverted"):
		return &RevertedError{Reason: msg}
	case strings.Contains(msg, "rejected") || strings.Contains(msg, "denied"):
		return &RejectedError{Reason: msg}
	case strings.Contains(msg, "insufficient funds"):
		return &RejectedError{Reason: msg}
	default:
		return &SubmitError{Err: err}
	}
}
