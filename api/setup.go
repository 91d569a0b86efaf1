package api

import (
	"os"
	"strings"
	"time"

	characterHandlers "backend/api/handlers/character"
	gamestateHandlers "backend/api/handlers/gamestate"
	sessionHandlers "backend/api/handlers/session"
	worldHandlers "backend/api/handlers/world"
	"backend/internal/character"
	"backend/internal/config"
	"backend/internal/gamestate"
	"backend/internal/infra"
	"backend/internal/logger"
	"backend/internal/metrics"
	"backend/internal/realtime"
	"backend/internal/world"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupRouter 设置并返回 Gin 路由与变更广播器
func SetupRouter(db *gorm.DB, cfg *config.Config) (*gin.Engine, *realtime.Broadcaster) {
	router := gin.New()

	// 全局中间件
	router.Use(gin.Recovery())
	router.Use(RequestLogger())
	router.Use(CORS())

	// Prometheus 指标收集中间件
	router.Use(metrics.GinMiddleware())

	// 公开端点（不需要认证）
	router.GET("/health", HealthCheck(db))
	router.GET("/ready", ReadinessCheck(db))

	// Prometheus 指标端点
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 实时推送 hub
	hubOpts := []realtime.HubOption{}
	if cfg.Realtime.KeepAliveSeconds > 0 {
		hubOpts = append(hubOpts, realtime.WithKeepAliveInterval(time.Duration(cfg.Realtime.KeepAliveSeconds)*time.Second))
	}
	if cfg.Realtime.WriteTimeoutSecs > 0 {
		hubOpts = append(hubOpts, realtime.WithWriteTimeout(time.Duration(cfg.Realtime.WriteTimeoutSecs)*time.Second))
	}
	hub := realtime.NewHub(hubOpts...)

	// 变更广播器（多实例部署时经 Redis 中继扇出）
	broadcasterOpts := []realtime.BroadcasterOption{}
	if redisClient := infra.GetRedis(); redisClient != nil {
		broadcasterOpts = append(broadcasterOpts, realtime.WithRelay(redisClient))
	}
	broadcaster := realtime.NewBroadcaster(db, hub, broadcasterOpts...)

	// 初始化 Services
	characterService := character.NewService(db)
	gamestateService := gamestate.NewService(db, broadcaster)
	worldService := world.NewService(db)

	// 初始化 Handlers
	characterHandler := characterHandlers.NewHandler(characterService)
	worldHandler := worldHandlers.NewHandler(worldService)
	gamestateHandler := gamestateHandlers.NewHandler(gamestateService, worldService)
	wsHandler := sessionHandlers.NewWebSocketHandler(hub, worldService)

	// 路由注册器，同时挂载 /api 与 /api/v1
	registerAPIRoutes := func(apiGroup *gin.RouterGroup) {
		// WebSocket 订阅
		apiGroup.GET("/ws/channels/:channelId", wsHandler.Connect)

		// 角色管理
		charactersGroup := apiGroup.Group("/characters")
		{
			charactersGroup.POST("", characterHandler.Create)
			charactersGroup.GET("", characterHandler.List)
			charactersGroup.GET("/:id", characterHandler.Get)
			charactersGroup.PUT("/:id", characterHandler.Update)
			charactersGroup.DELETE("/:id", characterHandler.Delete)
			charactersGroup.GET("/:id/history", characterHandler.History)
			charactersGroup.GET("/:id/current", characterHandler.Current)
		}

		// 世界管理
		worldsGroup := apiGroup.Group("/worlds")
		{
			worldsGroup.POST("", worldHandler.CreateWorld)
			worldsGroup.GET("", worldHandler.ListWorlds)
			worldsGroup.GET("/:id", worldHandler.GetWorld)
			worldsGroup.PUT("/:id", worldHandler.UpdateWorld)
			worldsGroup.DELETE("/:id", worldHandler.DeleteWorld)

			// 频道管理（挂载在世界下）
			worldsGroup.POST("/:id/channels", worldHandler.CreateChannel)
			worldsGroup.GET("/:id/channels", worldHandler.ListChannels)
		}

		// 频道管理（独立路由）
		channelsGroup := apiGroup.Group("/channels")
		{
			channelsGroup.GET("/:channelId", worldHandler.GetChannel)
			channelsGroup.DELETE("/:channelId", worldHandler.DeleteChannel)
			channelsGroup.PUT("/:channelId/binding", worldHandler.BindChannel)
			channelsGroup.DELETE("/:channelId/binding", worldHandler.UnbindChannel)
			channelsGroup.GET("/:channelId/world-state", gamestateHandler.GetByChannel)
		}

		// 世界状态管理与变更 API
		statesGroup := apiGroup.Group("/world-states")
		{
			statesGroup.POST("", gamestateHandler.Create)
			statesGroup.GET("/:id", gamestateHandler.Get)
			statesGroup.DELETE("/:id", gamestateHandler.Delete)
			statesGroup.GET("/:id/items/resolved", gamestateHandler.ResolveItems)

			// 角色状态变更
			statesGroup.PUT("/:id/characters/stat", gamestateHandler.UpdateCharacterStat)
			statesGroup.PUT("/:id/characters/info", gamestateHandler.UpdateCharacterInfo)
			statesGroup.PUT("/:id/characters/numeric-fields", gamestateHandler.UpdateCharacterNumericFields)
			statesGroup.PUT("/:id/characters/properties", gamestateHandler.UpdateCharacterProperties)
			statesGroup.PUT("/:id/characters/goals", gamestateHandler.UpdateCharacterGoals)
			statesGroup.PUT("/:id/characters/secrets", gamestateHandler.UpdateCharacterSecrets)
			statesGroup.PUT("/:id/characters/location", gamestateHandler.UpdateCharacterLocation)

			// 地点与剧情
			statesGroup.POST("/:id/locations", gamestateHandler.AddLocation)
			statesGroup.PUT("/:id/locations", gamestateHandler.UpdateLocation)
			statesGroup.POST("/:id/plots", gamestateHandler.AddPlot)
			statesGroup.PUT("/:id/plots", gamestateHandler.UpdatePlot)

			// 物品
			statesGroup.POST("/:id/items", gamestateHandler.AddItem)
			statesGroup.PUT("/:id/items/property", gamestateHandler.UpdateItemProperty)
			statesGroup.DELETE("/:id/items/:itemKey", gamestateHandler.DeleteItem)
			statesGroup.POST("/:id/item-templates", gamestateHandler.AddItemTemplate)
			statesGroup.POST("/:id/inventory/add", gamestateHandler.AddItemToInventory)
			statesGroup.POST("/:id/inventory/remove", gamestateHandler.RemoveItemFromInventory)

			// 传说、事件与元信息
			statesGroup.POST("/:id/lore", gamestateHandler.AddLore)
			statesGroup.POST("/:id/events", gamestateHandler.AppendEvent)
			statesGroup.PUT("/:id/metadata", gamestateHandler.UpdateMetadata)

			// 角色挂接
			statesGroup.PUT("/:id/characters", gamestateHandler.UpdateCharacters)
			statesGroup.DELETE("/:id/characters/:characterId", gamestateHandler.RemoveCharacter)
		}
	}

	// 主 API 组（向后兼容）
	api := router.Group("/api")
	registerAPIRoutes(api)

	// 版本化 API 组
	apiV1 := router.Group("/api/v1")
	registerAPIRoutes(apiV1)

	return router, broadcaster
}

// RequestLogger 请求日志中间件
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// CORS 跨域中间件
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowedOrigins := getEnvList("CORS_ALLOW_ORIGINS")
		origin := c.GetHeader("Origin")
		switch {
		case len(allowedOrigins) == 0:
			// 开发缺省：全部放行
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && stringInSlice(origin, allowedOrigins):
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		default:
			// 未匹配则不设置 Allow-Origin，浏览器将拦截
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With, X-User-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Max-Age", "600")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// HealthCheck 健康检查
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "worldstate",
		})
	}
}

// ReadinessCheck 就绪检查，包含数据库连通性结果
func ReadinessCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil {
			c.JSON(503, gin.H{
				"status": "not_ready",
				"reason": "database connection error",
			})
			return
		}

		if err := sqlDB.Ping(); err != nil {
			c.JSON(503, gin.H{
				"status": "not_ready",
				"reason": "database ping failed",
			})
			return
		}

		c.JSON(200, gin.H{
			"status":   "ready",
			"database": "connected",
		})
	}
}

// getEnvList 读取逗号分隔的环境变量列表
func getEnvList(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	var res []string
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			res = append(res, v)
		}
	}
	return res
}

// stringInSlice 判断字符串是否存在
func stringInSlice(target string, list []string) bool {
	for _, v := range list {
		if v == target {
			return true
		}
	}
	return false
}
