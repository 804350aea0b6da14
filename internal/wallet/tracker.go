package wallet

import (
	"context"
	"errors"
	"sync"

	"github.com/Hemu21/crowdfunding/internal/config"
	"github.com/Hemu21/crowdfunding/internal/logger"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/panjf2000/ants/v2"
)

// receiptClient 回执查询能力, 由ethclient.Client实现
type receiptClient interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Tracker 交易回执轮询器
// 将submitted/pending意图推进到confirmed或failed; 由任务调度器按周期驱动
type Tracker struct {
	client        receiptClient
	registry      *Registry
	confirmations uint64
	poolSize      int
}

// NewTracker 创建回执轮询器
func NewTracker(client receiptClient, registry *Registry, cfg config.TrackerConfig) *Tracker {
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 4
	}

	return &Tracker{
		client:        client,
		registry:      registry,
		confirmations: uint64(cfg.Confirmations),
		poolSize:      poolSize,
	}
}

// Poll 检查所有在途意图的回执
func (t *Tracker) Poll(ctx context.Context) error {
	inFlight := t.registry.InFlight()
	if len(inFlight) == 0 {
		return nil
	}

	logger.Debug("Polling receipts for %d in-flight intents", len(inFlight))

	size := t.poolSize
	if len(inFlight) < size {
		size = len(inFlight)
	}

	pool, err := ants.NewPool(size)
	if err != nil {
		return err
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, intent := range inFlight {
		intent := intent
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			t.check(ctx, intent)
		}); err != nil {
			wg.Done()
			logger.Error("Failed to submit poll task for intent %d: %v", intent.Id, err)
		}
	}
	wg.Wait()

	return nil
}

// check 检查单个意图的回执并推进状态
func (t *Tracker) check(ctx context.Context, intent *Intent) {
	receipt, err := t.client.TransactionReceipt(ctx, common.HexToHash(intent.TxHash()))
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			// 交易尚未上链
			t.registry.markPending(intent)
			return
		}
		logger.Error("Failed to fetch receipt for intent %d (%s): %v", intent.Id, intent.TxHash(), err)
		return
	}

	if receipt.Status == types.ReceiptStatusFailed {
		t.registry.markFailed(intent, &RevertedError{Reason: "transaction reverted on chain"})
		logger.Warn("Intent %d failed: tx %s reverted", intent.Id, intent.TxHash())
		return
	}

	latest, err := t.client.BlockNumber(ctx)
	if err != nil {
		logger.Error("Failed to fetch latest block number: %v", err)
		return
	}

	if latest >= receipt.BlockNumber.Uint64()+t.confirmations {
		t.registry.markConfirmed(intent, receipt.BlockNumber.Int64())
		logger.Info("Intent %d confirmed at block %d", intent.Id, receipt.BlockNumber.Int64())
	} else {
		t.registry.markPending(intent)
	}
}
