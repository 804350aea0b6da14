package ledger

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContract struct {
	calls   []string
	results map[string][]interface{}
	errs    map[string]error
}

func newFakeContract() *fakeContract {
	return &fakeContract{
		results: make(map[string][]interface{}),
		errs:    make(map[string]error),
	}
}

func (f *fakeContract) Call(_ *bind.CallOpts, results *[]interface{}, method string, _ ...interface{}) error {
	f.calls = append(f.calls, method)
	if err := f.errs[method]; err != nil {
		return err
	}
	*results = f.results[method]
	return nil
}

func eth(v int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(v), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func TestListCampaigns(t *testing.T) {
	contract := newFakeContract()
	contract.results["getCampaigns"] = []interface{}{[]rawCampaignSummary{
		{
			Owner:           common.HexToAddress("0x1111111111111111111111111111111111111111"),
			Title:           "Solar Farm",
			Description:     "Community solar",
			Target:          eth(10),
			Deadline:        big.NewInt(4_000_000_000),
			AmountCollected: eth(5),
			Image:           "https://example.com/a.png",
			Donators:        big.NewInt(3),
			State:           0,
			Tiers:           big.NewInt(2),
		},
		{
			Owner:           common.HexToAddress("0x2222222222222222222222222222222222222222"),
			Title:           "Library",
			Description:     "New wing",
			Target:          eth(20),
			Deadline:        big.NewInt(4_000_000_000),
			AmountCollected: eth(20),
			Image:           "https://example.com/b.png",
			Donators:        big.NewInt(7),
			State:           1,
			Tiers:           big.NewInt(4),
		},
	}}

	reader := NewReaderWithContract(contract)
	campaigns, err := reader.ListCampaigns(context.Background())
	require.NoError(t, err)
	require.Len(t, campaigns, 2)

	// id为枚举顺序的序号, 顺序不重排
	assert.Equal(t, int64(0), campaigns[0].Id)
	assert.Equal(t, int64(1), campaigns[1].Id)
	assert.Equal(t, "Solar Farm", campaigns[0].Title)
	assert.Equal(t, float64(10), campaigns[0].Target)
	assert.Equal(t, float64(5), campaigns[0].AmountCollected)
	assert.Equal(t, int64(3), campaigns[0].BackerCount)
	assert.Equal(t, int64(2), campaigns[0].TierCount)
	assert.Equal(t, common.HexToAddress("0x2222222222222222222222222222222222222222").Hex(), campaigns[1].Owner)
}

func TestListCampaignsReadError(t *testing.T) {
	contract := newFakeContract()
	netErr := errors.New("connection refused")
	contract.errs["getCampaigns"] = netErr

	reader := NewReaderWithContract(contract)
	_, err := reader.ListCampaigns(context.Background())
	require.Error(t, err)

	var readErr *ReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, "getCampaigns", readErr.Op)
	assert.ErrorIs(t, err, netErr)
}

func TestGetCampaign(t *testing.T) {
	contract := newFakeContract()
	contract.results["getCampaign"] = []interface{}{rawCampaign{
		Owner:           common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Title:           "Solar Farm",
		Description:     "Community solar",
		Target:          eth(10),
		Deadline:        big.NewInt(4_000_000_000),
		AmountCollected: eth(5),
		Image:           "https://example.com/a.png",
		Donators: []common.Address{
			common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
			common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
			common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"),
		},
		State: 0,
		Tiers: []rawTier{
			{Name: "Bronze", Amount: eth(1), Backers: big.NewInt(2)},
			{Name: "Gold", Amount: eth(5), Backers: big.NewInt(1)},
		},
	}}

	reader := NewReaderWithContract(contract)
	campaign, err := reader.GetCampaign(context.Background(), 4)
	require.NoError(t, err)

	assert.Equal(t, int64(4), campaign.Id)
	assert.Equal(t, float64(10), campaign.Target)
	assert.Equal(t, int64(2), campaign.TierCount)
	assert.Equal(t, int64(3), campaign.BackerCount)
}

func TestGetCampaignNotFound(t *testing.T) {
	contract := newFakeContract()
	contract.errs["getCampaign"] = errors.New("execution reverted: campaign does not exist")

	reader := NewReaderWithContract(contract)
	_, err := reader.GetCampaign(context.Background(), 99)
	require.Error(t, err)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(99), notFound.Id)
}

func TestGetCampaignNegativeId(t *testing.T) {
	contract := newFakeContract()

	reader := NewReaderWithContract(contract)
	_, err := reader.GetCampaign(context.Background(), -1)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Empty(t, contract.calls)
}

func TestListBackersKeepsDuplicates(t *testing.T) {
	contract := newFakeContract()
	contract.results["getBackers"] = []interface{}{[]common.Address{
		common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"),
	}}

	reader := NewReaderWithContract(contract)
	backers, err := reader.ListBackers(context.Background(), 0)
	require.NoError(t, err)

	// 适配器返回原始数据, 去重是聚合层的职责
	assert.Len(t, backers, 3)
	assert.Equal(t, backers[0], backers[1])
}

func TestListTiersConvertsAmounts(t *testing.T) {
	contract := newFakeContract()
	contract.results["getTiers"] = []interface{}{[]rawTier{
		{Name: "Bronze", Amount: eth(1), Backers: big.NewInt(2)},
		{Name: "Gold", Amount: eth(5), Backers: big.NewInt(0)},
	}}

	reader := NewReaderWithContract(contract)
	tiers, err := reader.ListTiers(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, tiers, 2)

	assert.Equal(t, "Bronze", tiers[0].Name)
	assert.Equal(t, float64(1), tiers[0].Amount)
	assert.Equal(t, int64(2), tiers[0].BackerCount)
	assert.Equal(t, float64(5), tiers[1].Amount)
}

func TestFundedTierMask(t *testing.T) {
	contract := newFakeContract()
	contract.results["getFundedTiers"] = []interface{}{[]bool{true, false, true}}

	reader := NewReaderWithContract(contract)
	mask, err := reader.FundedTierMask(context.Background(), 0, "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, mask)
}

func TestTotalContribution(t *testing.T) {
	contract := newFakeContract()
	contract.results["getTotalContribution"] = []interface{}{eth(3)}

	reader := NewReaderWithContract(contract)
	total, err := reader.TotalContribution(context.Background(), 0, "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	require.NoError(t, err)
	assert.Equal(t, eth(3), total)
}

func TestCounts(t *testing.T) {
	contract := newFakeContract()
	contract.results["getNumberOfBackers"] = []interface{}{big.NewInt(5)}
	contract.results["getNumberOfCampaigns"] = []interface{}{big.NewInt(12)}

	reader := NewReaderWithContract(contract)

	backers, err := reader.BackerCount(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), backers)

	campaigns, err := reader.CampaignCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), campaigns)
}

func TestLoadABIEmbedded(t *testing.T) {
	parsed, err := LoadABI("")
	require.NoError(t, err)

	for _, method := range []string{
		"getCampaigns", "getCampaign", "getTiers", "getBackers",
		"getFundedTiers", "getTotalContribution", "getNumberOfBackers",
		"getNumberOfCampaigns", "createCampaign", "addTier", "fund",
		"refund", "withdraw", "updateCampaign",
	} {
		_, ok := parsed.Methods[method]
		assert.True(t, ok, "missing method %s", method)
	}
}
