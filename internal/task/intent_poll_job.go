package task

import (
	"context"
	"time"

	"github.com/Hemu21/crowdfunding/internal/config"
	"github.com/Hemu21/crowdfunding/internal/logger"
	"github.com/Hemu21/crowdfunding/internal/wallet"
	"github.com/go-co-op/gocron/v2"
)

// IntentPollJob 交易回执轮询任务
type IntentPollJob struct {
	tracker *wallet.Tracker
	config  *config.Config
}

// NewIntentPollJob 创建回执轮询任务
func NewIntentPollJob(tracker *wallet.Tracker, cfg *config.Config) *IntentPollJob {
	return &IntentPollJob{
		tracker: tracker,
		config:  cfg,
	}
}

// GetName 获取任务名称
func (j *IntentPollJob) GetName() string {
	return "intent_receipt_poller"
}

// GetSchedule 获取调度配置
func (j *IntentPollJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Tracker.Interval) * time.Second)
}

// Execute 执行任务
func (j *IntentPollJob) Execute() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := j.tracker.Poll(ctx); err != nil {
		logger.Error("Intent receipt poll failed: %v", err)
	}
}
