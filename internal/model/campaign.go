package model

// CampaignState 合约定义的活动生命周期状态
type CampaignState uint8

const (
	CampaignStateActive     CampaignState = iota // 进行中
	CampaignStateSuccessful                      // 达标
	CampaignStateFailed                          // 失败
)

func (s CampaignState) String() string {
	switch s {
	case CampaignStateActive:
		return "active"
	case CampaignStateSuccessful:
		return "successful"
	case CampaignStateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Campaign 活动列表视图, 金额已换算为ETH, id为合约枚举顺序的序号
type Campaign struct {
	Id              int64         `json:"id"`
	Owner           string        `json:"owner"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Image           string        `json:"image"`
	Target          float64       `json:"target"`
	Deadline        int64         `json:"deadline"`
	TimeLeft        string        `json:"timeLeft"`
	AmountCollected float64       `json:"amountCollected"`
	State           CampaignState `json:"state"`
	TierCount       int64         `json:"tierCount"`
	BackerCount     int64         `json:"backerCount"`
}

// Tier 资助档位, 创建后不可变更
type Tier struct {
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
	BackerCount int64   `json:"backerCount"`
}

// CampaignDetail 单个活动的聚合视图
// Backers为去重后的地址列表, RawBackerCount为合约返回的原始计数, 两者独立暴露
type CampaignDetail struct {
	Campaign
	Tiers              []Tier   `json:"tiers"`
	Backers            []string `json:"backers"`
	RawBackerCount     int64    `json:"rawBackerCount"`
	IsClosed           bool     `json:"isClosed"`
	ProgressPercentage float64  `json:"progressPercentage"`
}

// BackerProfile 单个资助者在某活动下的画像
type BackerProfile struct {
	CampaignId        int64   `json:"campaignId"`
	Backer            string  `json:"backer"`
	TotalContribution float64 `json:"totalContribution"`
	FundedTiers       []Tier  `json:"fundedTiers"`
	FundedMask        []bool  `json:"fundedMask"`
}
