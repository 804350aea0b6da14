package wallet

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/Hemu21/crowdfunding/internal/model"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransactor struct {
	methods []string
	values  []*big.Int
	err     error
}

func (f *fakeTransactor) Transact(opts *bind.TransactOpts, method string, _ ...interface{}) (*types.Transaction, error) {
	f.methods = append(f.methods, method)
	f.values = append(f.values, opts.Value)
	if f.err != nil {
		return nil, f.err
	}
	return types.NewTx(&types.LegacyTx{Nonce: uint64(len(f.methods))}), nil
}

func newTestWriter(transactor *fakeTransactor) (*Writer, *Registry) {
	registry := NewRegistry(nil)
	auth := &bind.TransactOpts{From: common.HexToAddress("0x1111111111111111111111111111111111111111")}
	return NewWriterWithContract(transactor, auth, registry), registry
}

func TestCreateCampaignSubmitted(t *testing.T) {
	transactor := &fakeTransactor{}
	writer, registry := newTestWriter(transactor)

	intent, err := writer.CreateCampaign(context.Background(), "Solar Farm", "Community solar", big.NewInt(1), time.Now().Unix()+86400, "")
	require.NoError(t, err)
	require.NotNil(t, intent)

	status, statusErr := intent.Status()
	assert.Equal(t, model.IntentStatusSubmitted, status)
	assert.NoError(t, statusErr)
	assert.NotEmpty(t, intent.TxHash())
	assert.Equal(t, OpCreateCampaign, intent.Operation)
	assert.Equal(t, []string{"createCampaign"}, transactor.methods)

	got, err := registry.Get(intent.Id)
	require.NoError(t, err)
	assert.Same(t, intent, got)
}

func TestFundAttachesValue(t *testing.T) {
	transactor := &fakeTransactor{}
	writer, _ := newTestWriter(transactor)

	amount := big.NewInt(500)
	guard := FundGuard{IsClosed: false, Deadline: time.Now().Unix() + 3600}
	intent, err := writer.Fund(context.Background(), 2, 0, amount, guard)
	require.NoError(t, err)

	assert.Equal(t, int64(2), intent.CampaignId)
	require.Len(t, transactor.values, 1)
	assert.Equal(t, amount, transactor.values[0])
}

func TestFundRejectedWhenClosed(t *testing.T) {
	transactor := &fakeTransactor{}
	writer, registry := newTestWriter(transactor)

	guard := FundGuard{IsClosed: true, Deadline: time.Now().Unix() + 3600}
	intent, err := writer.Fund(context.Background(), 0, 0, big.NewInt(1), guard)

	// 本地守卫拒绝: 不创建意图, 不触发任何账本调用
	require.ErrorIs(t, err, ErrCampaignClosed)
	assert.Nil(t, intent)
	assert.Empty(t, transactor.methods)
	_, getErr := registry.Get(1)
	assert.ErrorIs(t, getErr, ErrIntentNotFound)
}

func TestFundRejectedWhenDeadlinePassed(t *testing.T) {
	transactor := &fakeTransactor{}
	writer, _ := newTestWriter(transactor)

	guard := FundGuard{IsClosed: false, Deadline: time.Now().Unix() - 1}
	intent, err := writer.Fund(context.Background(), 0, 0, big.NewInt(1), guard)

	require.ErrorIs(t, err, ErrDeadlinePassed)
	assert.Nil(t, intent)
	assert.Empty(t, transactor.methods)
}

func TestSubmitErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		submitErr error
		check     func(t *testing.T, err error)
	}{
		{
			name:      "pre-execution revert",
			submitErr: errors.New("execution reverted: campaign is closed"),
			check: func(t *testing.T, err error) {
				var reverted *RevertedError
				assert.ErrorAs(t, err, &reverted)
			},
		},
		{
			name:      "signer rejection",
			submitErr: errors.New("user rejected the request"),
			check: func(t *testing.T, err error) {
				var rejected *RejectedError
				assert.ErrorAs(t, err, &rejected)
			},
		},
		{
			name:      "insufficient funds",
			submitErr: errors.New("insufficient funds for gas * price + value"),
			check: func(t *testing.T, err error) {
				var rejected *RejectedError
				assert.ErrorAs(t, err, &rejected)
			},
		},
		{
			name:      "network failure",
			submitErr: errors.New("connection refused"),
			check: func(t *testing.T, err error) {
				var submit *SubmitError
				require.ErrorAs(t, err, &submit)
				assert.Equal(t, "connection refused", submit.Err.Error())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transactor := &fakeTransactor{err: tt.submitErr}
			writer, _ := newTestWriter(transactor)

			intent, err := writer.Refund(context.Background(), 0)
			require.Error(t, err)
			tt.check(t, err)

			// 提交失败即终态, 意图保留失败原因
			require.NotNil(t, intent)
			status, statusErr := intent.Status()
			assert.Equal(t, model.IntentStatusFailed, status)
			assert.Equal(t, err, statusErr)
		})
	}
}

func TestIntentSubscribe(t *testing.T) {
	transactor := &fakeTransactor{}
	writer, registry := newTestWriter(transactor)

	intent, err := writer.Withdraw(context.Background(), 3)
	require.NoError(t, err)

	ch := intent.Subscribe()
	registry.markPending(intent)
	registry.markConfirmed(intent, 100)

	assert.Equal(t, model.IntentStatusPending, <-ch)
	assert.Equal(t, model.IntentStatusConfirmed, <-ch)

	// 终态后通道关闭
	_, open := <-ch
	assert.False(t, open)
}

func TestIntentSubscribeAfterTerminal(t *testing.T) {
	transactor := &fakeTransactor{err: errors.New("connection refused")}
	writer, _ := newTestWriter(transactor)

	intent, _ := writer.Refund(context.Background(), 0)

	// 终态后订阅立即收到终态并关闭
	ch := intent.Subscribe()
	assert.Equal(t, model.IntentStatusFailed, <-ch)
	_, open := <-ch
	assert.False(t, open)
}

func TestTerminalStatusIsSticky(t *testing.T) {
	transactor := &fakeTransactor{}
	writer, registry := newTestWriter(transactor)

	intent, err := writer.Refund(context.Background(), 0)
	require.NoError(t, err)

	registry.markConfirmed(intent, 100)
	registry.markFailed(intent, errors.New("late failure"))

	status, statusErr := intent.Status()
	assert.Equal(t, model.IntentStatusConfirmed, status)
	assert.NoError(t, statusErr)
}

func TestAccount(t *testing.T) {
	writer, _ := newTestWriter(&fakeTransactor{})
	assert.Equal(t, common.HexToAddress("0x1111111111111111111111111111111111111111").Hex(), writer.Account())
}
