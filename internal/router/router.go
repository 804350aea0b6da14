package router

import (
	"github.com/Hemu21/crowdfunding/internal/handler"
	"github.com/Hemu21/crowdfunding/internal/session"
	"github.com/Hemu21/crowdfunding/internal/wallet"
	"github.com/gin-gonic/gin"
)

func Setup(s *session.Session, registry *wallet.Registry) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "crowdfunding",
		})
	})

	// API版本组
	v1 := r.Group("/api/v1")
	{
		campaignHandler := handler.NewCampaignHandler(s)
		intentHandler := handler.NewIntentHandler(s, registry)
		sessionHandler := handler.NewSessionHandler(s)

		campaigns := v1.Group("/campaigns")
		{
			campaigns.GET("", campaignHandler.ListCampaigns)
			campaigns.GET("/count", campaignHandler.GetCampaignCount)
			campaigns.GET("/:id", campaignHandler.GetCampaignDetail)
			campaigns.GET("/:id/backers/:address", campaignHandler.GetBackerProfile)

			campaigns.POST("", intentHandler.CreateCampaign)
			campaigns.PUT("/:id", intentHandler.UpdateCampaign)
			campaigns.POST("/:id/tiers", intentHandler.AddTier)
			campaigns.POST("/:id/fund", intentHandler.Fund)
			campaigns.POST("/:id/refund", intentHandler.Refund)
			campaigns.POST("/:id/withdraw", intentHandler.Withdraw)
		}

		v1.GET("/my-campaigns", campaignHandler.ListMyCampaigns)
		v1.GET("/intents/:id", intentHandler.GetIntent)
		v1.GET("/session", sessionHandler.GetSession)
		v1.POST("/session/theme/toggle", sessionHandler.ToggleTheme)
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
