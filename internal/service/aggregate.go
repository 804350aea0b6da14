package service

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/Hemu21/crowdfunding/internal/conv"
	"github.com/Hemu21/crowdfunding/internal/ledger"
	"github.com/Hemu21/crowdfunding/internal/model"
)

// LedgerReader 聚合层依赖的账本读取能力, 由ledger.Reader实现
type LedgerReader interface {
	ListCampaigns(ctx context.Context) ([]model.Campaign, error)
	GetCampaign(ctx context.Context, id int64) (*model.Campaign, error)
	ListTiers(ctx context.Context, id int64) ([]model.Tier, error)
	ListBackers(ctx context.Context, id int64) ([]string, error)
	FundedTierMask(ctx context.Context, id int64, backer string) ([]bool, error)
	TotalContribution(ctx context.Context, id int64, backer string) (*big.Int, error)
	BackerCount(ctx context.Context, id int64) (int64, error)
	CampaignCount(ctx context.Context) (int64, error)
}

// AggregateService 活动聚合服务
// 唯一做多调用组合的层: 将读取适配器的多个调用拼装为一致的UI视图
type AggregateService struct {
	reader LedgerReader
}

// NewAggregateService 创建聚合服务
func NewAggregateService(reader LedgerReader) *AggregateService {
	return &AggregateService{reader: reader}
}

// ListCampaigns 枚举全部活动, 顺序与账本返回一致
func (s *AggregateService) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
	return s.reader.ListCampaigns(ctx)
}

// CampaignCount 活动总数
func (s *AggregateService) CampaignCount(ctx context.Context) (int64, error) {
	return s.reader.CampaignCount(ctx)
}

// GetCampaignDetail 获取单个活动的完整视图
// 活动/档位/资助者/计数四路读取并发执行, 任一失败则整体失败, 不暴露部分更新的视图;
// 各读取之间不保证账本快照一致(读偏斜), 对展示层可接受
func (s *AggregateService) GetCampaignDetail(ctx context.Context, id int64) (*model.CampaignDetail, error) {
	var (
		wg          sync.WaitGroup
		campaign    *model.Campaign
		tiers       []model.Tier
		backers     []string
		backerCount int64

		mu       sync.Mutex
		firstErr error
	)

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	wg.Add(4)
	go func() {
		defer wg.Done()
		var err error
		if campaign, err = s.reader.GetCampaign(ctx, id); err != nil {
			fail(err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if tiers, err = s.reader.ListTiers(ctx, id); err != nil {
			fail(err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if backers, err = s.reader.ListBackers(ctx, id); err != nil {
			fail(err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if backerCount, err = s.reader.BackerCount(ctx, id); err != nil {
			fail(err)
		}
	}()
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	percentage, err := conv.Percentage(campaign.AmountCollected, campaign.Target)
	if err != nil {
		return nil, err
	}

	return &model.CampaignDetail{
		Campaign:           *campaign,
		Tiers:              tiers,
		Backers:            dedupe(backers),
		RawBackerCount:     backerCount,
		IsClosed:           percentage >= 100,
		ProgressPercentage: conv.ClampPercentage(percentage),
	}, nil
}

// GetBackerProfile 获取某资助者在活动下的画像
// 档位列表与掩码在同一组合中重新拉取; 长度不一致说明档位在两次读取间发生变化,
// 返回StaleDataError而不是拼接错位数据
func (s *AggregateService) GetBackerProfile(ctx context.Context, id int64, backer string) (*model.BackerProfile, error) {
	var (
		wg    sync.WaitGroup
		tiers []model.Tier
		mask  []bool
		total *big.Int

		mu       sync.Mutex
		firstErr error
	)

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		var err error
		if tiers, err = s.reader.ListTiers(ctx, id); err != nil {
			fail(err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if mask, err = s.reader.FundedTierMask(ctx, id, backer); err != nil {
			fail(err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if total, err = s.reader.TotalContribution(ctx, id, backer); err != nil {
			fail(err)
		}
	}()
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	if len(mask) != len(tiers) {
		return nil, &ledger.StaleDataError{TierCount: len(tiers), MaskLength: len(mask)}
	}

	funded := make([]model.Tier, 0, len(tiers))
	for i, tier := range tiers {
		if mask[i] {
			funded = append(funded, tier)
		}
	}

	return &model.BackerProfile{
		CampaignId:        id,
		Backer:            backer,
		TotalContribution: conv.WeiToEth(total),
		FundedTiers:       funded,
		FundedMask:        mask,
	}, nil
}

// ListMyCampaigns 列出指定账户拥有的活动
// 账本没有按owner索引的查询, 只能拉全量后在客户端过滤, O(n)于活动总数,
// 是已知的可扩展性上限; 保留原始序号id
func (s *AggregateService) ListMyCampaigns(ctx context.Context, account string) ([]model.Campaign, error) {
	if account == "" {
		return []model.Campaign{}, nil
	}

	campaigns, err := s.reader.ListCampaigns(ctx)
	if err != nil {
		return nil, err
	}

	mine := make([]model.Campaign, 0)
	for _, campaign := range campaigns {
		if strings.EqualFold(campaign.Owner, account) {
			mine = append(mine, campaign)
		}
	}

	return mine, nil
}

// dedupe 保序去重
func dedupe(addrs []string) []string {
	seen := make(map[string]struct{}, len(addrs))
	result := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		result = append(result, addr)
	}
	return result
}
