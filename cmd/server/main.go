package main

import (
	"log"

	"github.com/Hemu21/crowdfunding/internal/config"
	"github.com/Hemu21/crowdfunding/internal/database"
	"github.com/Hemu21/crowdfunding/internal/ledger"
	"github.com/Hemu21/crowdfunding/internal/logger"
	"github.com/Hemu21/crowdfunding/internal/router"
	"github.com/Hemu21/crowdfunding/internal/service"
	"github.com/Hemu21/crowdfunding/internal/session"
	"github.com/Hemu21/crowdfunding/internal/task"
	"github.com/Hemu21/crowdfunding/internal/wallet"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	if err := logger.Setup(cfg.Log); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 连接账本
	client, err := ethclient.Dial(cfg.Chain.RpcUrl)
	if err != nil {
		logger.Fatal("Failed to connect to chain RPC: %v", err)
	}
	defer client.Close()

	// 读写适配器
	reader, err := ledger.NewReader(client, cfg.Chain)
	if err != nil {
		logger.Fatal("Failed to create ledger reader: %v", err)
	}

	registry := wallet.NewRegistry(db)
	writer, err := wallet.NewWriter(client, cfg.Chain, registry)
	if err != nil {
		logger.Fatal("Failed to create ledger writer: %v", err)
	}

	// 聚合服务与会话
	aggregate := service.NewAggregateService(reader)
	prefs := database.NewPreferenceStore(db)
	sess := session.New(aggregate, writer, prefs)

	// 启动回执轮询任务
	tracker := wallet.NewTracker(client, registry, cfg.Tracker)
	manager := task.Start(tracker, cfg)
	defer manager.Stop()

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由并启动服务器
	r := router.Setup(sess, registry)
	logger.Info("Server starting on port %s (account %s)", cfg.Server.Port, sess.Account())
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
