package ledger

import (
	"context"
	"math/big"
	"strings"

	"github.com/Hemu21/crowdfunding/internal/config"
	"github.com/Hemu21/crowdfunding/internal/conv"
	"github.com/Hemu21/crowdfunding/internal/model"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// contractCaller 只读合约调用, 由bind.BoundContract实现
type contractCaller interface {
	Call(opts *bind.CallOpts, results *[]interface{}, method string, params ...interface{}) error
}

// Reader 账本读取适配器
// 将合约只读调用映射为规范化领域记录; 不缓存, 不重试, 失败立即上抛
type Reader struct {
	contract contractCaller
}

// rawCampaignSummary getCampaigns返回的元组, donators/tiers为计数
type rawCampaignSummary struct {
	Owner           common.Address
	Title           string
	Description     string
	Target          *big.Int
	Deadline        *big.Int
	AmountCollected *big.Int
	Image           string
	Donators        *big.Int
	State           uint8
	Tiers           *big.Int
}

// rawCampaign getCampaign返回的元组, donators为地址列表, tiers为档位列表
type rawCampaign struct {
	Owner           common.Address
	Title           string
	Description     string
	Target          *big.Int
	Deadline        *big.Int
	AmountCollected *big.Int
	Image           string
	Donators        []common.Address
	State           uint8
	Tiers           []rawTier
}

type rawTier struct {
	Name    string
	Amount  *big.Int
	Backers *big.Int
}

// NewReader 创建读取适配器
func NewReader(client *ethclient.Client, cfg config.ChainConfig) (*Reader, error) {
	parsedABI, err := LoadABI(cfg.ABIPath)
	if err != nil {
		return nil, err
	}

	contractAddr := common.HexToAddress(cfg.ContractAddr)
	bound := bind.NewBoundContract(contractAddr, parsedABI, client, client, client)

	return &Reader{contract: bound}, nil
}

// NewReaderWithContract 使用已有合约绑定创建读取适配器, 测试用
func NewReaderWithContract(contract contractCaller) *Reader {
	return &Reader{contract: contract}
}

// ListCampaigns 枚举全部活动
// id为合约返回序列中的位置, 顺序保持合约返回顺序不重排
func (r *Reader) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
	var out []interface{}
	if err := r.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getCampaigns"); err != nil {
		return nil, &ReadError{Op: "getCampaigns", Err: err}
	}

	raws := *abi.ConvertType(out[0], new([]rawCampaignSummary)).(*[]rawCampaignSummary)
	campaigns := make([]model.Campaign, len(raws))
	for i, raw := range raws {
		campaigns[i] = model.Campaign{
			Id:              int64(i),
			Owner:           raw.Owner.Hex(),
			Title:           raw.Title,
			Description:     raw.Description,
			Image:           raw.Image,
			Target:          conv.WeiToEth(raw.Target),
			Deadline:        raw.Deadline.Int64(),
			TimeLeft:        conv.TimeLeft(raw.Deadline.Int64()),
			AmountCollected: conv.WeiToEth(raw.AmountCollected),
			State:           model.CampaignState(raw.State),
			TierCount:       raw.Tiers.Int64(),
			BackerCount:     raw.Donators.Int64(),
		}
	}

	return campaigns, nil
}

// GetCampaign 读取单个活动
func (r *Reader) GetCampaign(ctx context.Context, id int64) (*model.Campaign, error) {
	if id < 0 {
		return nil, &NotFoundError{Id: id}
	}

	var out []interface{}
	if err := r.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getCampaign", big.NewInt(id)); err != nil {
		if isRevert(err) {
			return nil, &NotFoundError{Id: id}
		}
		return nil, &ReadError{Op: "getCampaign", Err: err}
	}

	raw := *abi.ConvertType(out[0], new(rawCampaign)).(*rawCampaign)
	return &model.Campaign{
		Id:              id,
		Owner:           raw.Owner.Hex(),
		Title:           raw.Title,
		Description:     raw.Description,
		Image:           raw.Image,
		Target:          conv.WeiToEth(raw.Target),
		Deadline:        raw.Deadline.Int64(),
		TimeLeft:        conv.TimeLeft(raw.Deadline.Int64()),
		AmountCollected: conv.WeiToEth(raw.AmountCollected),
		State:           model.CampaignState(raw.State),
		TierCount:       int64(len(raw.Tiers)),
		BackerCount:     int64(len(raw.Donators)),
	}, nil
}

// ListTiers 读取活动档位列表, 金额换算为ETH
func (r *Reader) ListTiers(ctx context.Context, id int64) ([]model.Tier, error) {
	var out []interface{}
	if err := r.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getTiers", big.NewInt(id)); err != nil {
		return nil, &ReadError{Op: "getTiers", Err: err}
	}

	raws := *abi.ConvertType(out[0], new([]rawTier)).(*[]rawTier)
	tiers := make([]model.Tier, len(raws))
	for i, raw := range raws {
		tiers[i] = model.Tier{
			Name:        raw.Name,
			Amount:      conv.WeiToEth(raw.Amount),
			BackerCount: raw.Backers.Int64(),
		}
	}

	return tiers, nil
}

// ListBackers 读取原始资助者地址列表
// 同一地址多次资助会重复出现, 去重在聚合层完成
func (r *Reader) ListBackers(ctx context.Context, id int64) ([]string, error) {
	var out []interface{}
	if err := r.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getBackers", big.NewInt(id)); err != nil {
		return nil, &ReadError{Op: "getBackers", Err: err}
	}

	addrs := *abi.ConvertType(out[0], new([]common.Address)).(*[]common.Address)
	backers := make([]string, len(addrs))
	for i, addr := range addrs {
		backers[i] = addr.Hex()
	}

	return backers, nil
}

// FundedTierMask 读取资助掩码, 位置与同一时刻的ListTiers严格对齐
// 若两次调用之间档位数量变化, 掩码即过期, 不得与不同的档位列表配对使用
func (r *Reader) FundedTierMask(ctx context.Context, id int64, backer string) ([]bool, error) {
	var out []interface{}
	if err := r.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getFundedTiers", big.NewInt(id), common.HexToAddress(backer)); err != nil {
		return nil, &ReadError{Op: "getFundedTiers", Err: err}
	}

	mask := *abi.ConvertType(out[0], new([]bool)).(*[]bool)
	return mask, nil
}

// TotalContribution 读取某资助者的总出资, 返回wei
func (r *Reader) TotalContribution(ctx context.Context, id int64, backer string) (*big.Int, error) {
	var out []interface{}
	if err := r.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getTotalContribution", big.NewInt(id), common.HexToAddress(backer)); err != nil {
		return nil, &ReadError{Op: "getTotalContribution", Err: err}
	}

	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// BackerCount 读取活动的原始资助计数(含重复资助)
func (r *Reader) BackerCount(ctx context.Context, id int64) (int64, error) {
	var out []interface{}
	if err := r.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getNumberOfBackers", big.NewInt(id)); err != nil {
		return 0, &ReadError{Op: "getNumberOfBackers", Err: err}
	}

	count := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	return count.Int64(), nil
}

// CampaignCount 读取活动总数
func (r *Reader) CampaignCount(ctx context.Context) (int64, error) {
	var out []interface{}
	if err := r.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getNumberOfCampaigns"); err != nil {
		return 0, &ReadError{Op: "getNumberOfCampaigns", Err: err}
	}

	count := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	return count.Int64(), nil
}

// isRevert 判断是否为合约revert
func isRevert(err error) bool {
	return err != nil && strings.Contains(err.Error(), "execution reverted")
}
