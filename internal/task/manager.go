package task

import (
	"github.com/Hemu21/crowdfunding/internal/config"
	"github.com/Hemu21/crowdfunding/internal/logger"
	"github.com/Hemu21/crowdfunding/internal/wallet"
	"github.com/go-co-op/gocron/v2"
)

// Manager 任务管理器
type Manager struct {
	scheduler gocron.Scheduler
	tracker   *wallet.Tracker
	config    *config.Config
}

// NewManager 创建新的任务管理器
func NewManager(tracker *wallet.Tracker, cfg *config.Config) *Manager {
	s, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal("Failed to create scheduler: %v", err)
	}

	return &Manager{
		scheduler: s,
		tracker:   tracker,
		config:    cfg,
	}
}

// Start 启动任务管理器
func Start(tracker *wallet.Tracker, cfg *config.Config) *Manager {
	manager := NewManager(tracker, cfg)

	// 注册所有任务
	manager.RegisterJobs()

	// 启动调度器
	manager.scheduler.Start()

	logger.Info("Task manager started successfully")
	return manager
}

// RegisterJobs 注册所有任务
func (m *Manager) RegisterJobs() {
	// 注册回执轮询任务
	m.RegisterIntentPollJob()
}

// RegisterIntentPollJob 注册回执轮询任务
func (m *Manager) RegisterIntentPollJob() {
	job := NewIntentPollJob(m.tracker, m.config)

	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logger.Error("Failed to register job %s: %v", job.GetName(), err)
	}
}

// Stop 停止任务管理器
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Task manager stopped")
}
