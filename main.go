package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitframe/tryon-api/common"
	"github.com/fitframe/tryon-api/common/config"
	"github.com/fitframe/tryon-api/common/logger"
	"github.com/fitframe/tryon-api/middleware"
	"github.com/fitframe/tryon-api/monitor"
	relay "github.com/fitframe/tryon-api/relay/controller"
	"github.com/fitframe/tryon-api/router"
)

// monitorGoroutines 定期监控 goroutine 数量
func monitorGoroutines() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		count := runtime.NumGoroutine()

		// 记录当前goroutine数量
		if count > 5000 {
			logger.SysError(fmt.Sprintf("⚠️ High goroutine count detected: %d", count))
		} else if count > 2000 {
			logger.SysLog(fmt.Sprintf("⚠️ Goroutine count elevated: %d", count))
		} else {
			// 只在调试模式下记录正常数量
			if config.DebugEnabled {
				logger.SysLog(fmt.Sprintf("Goroutine count: %d", count))
			}
		}

		// 记录内存统计
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		if config.DebugEnabled {
			logger.SysLog(fmt.Sprintf("Memory: Alloc=%dMB, TotalAlloc=%dMB, Sys=%dMB, NumGC=%d",
				m.Alloc/1024/1024, m.TotalAlloc/1024/1024, m.Sys/1024/1024, m.NumGC))
		}
	}
}

// setupMonitoringEndpoints 设置监控端点
func setupMonitoringEndpoints(server *gin.Engine) {
	// 添加健康检查端点
	server.GET("/api/monitor/health", func(c *gin.Context) {
		count := runtime.NumGoroutine()
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		c.JSON(200, gin.H{
			"status":     "ok",
			"goroutines": count,
			"memory": gin.H{
				"alloc_mb":       m.Alloc / 1024 / 1024,
				"total_alloc_mb": m.TotalAlloc / 1024 / 1024,
				"sys_mb":         m.Sys / 1024 / 1024,
				"num_gc":         m.NumGC,
			},
		})
	})

	logger.SysLog("monitoring endpoints enabled at /api/monitor/health")
}

// validateConfig 启动时检查 URL 形式的配置项，配错了直接失败比跑到一半失败好
func validateConfig() {
	required := map[string]string{
		"KOLORS_SPACE_URL":   config.KolorsSpaceURL,
		"IDM_VTON_SPACE_URL": config.IDMVtonSpaceURL,
		"FAL_BASE_URL":       config.FalBaseURL,
		"REPLICATE_BASE_URL": config.ReplicateBaseURL,
	}
	for name, value := range required {
		if err := common.Validate.Var(value, "required,url"); err != nil {
			logger.FatalLog(fmt.Sprintf("config %s is not a valid URL: %q", name, value))
		}
	}
	optional := map[string]string{
		"SERVER_ADDRESS":     config.ServerAddress,
		"OUTBOUND_PROXY_URL": config.OutboundProxyURL,
		"R2_ENDPOINT":        config.CfFileEndpoint,
		"R2_PUBLIC_URL":      config.CfFilePublicUrl,
	}
	for name, value := range optional {
		if value == "" {
			continue
		}
		if err := common.Validate.Var(value, "url"); err != nil {
			logger.SysError(fmt.Sprintf("config %s is not a valid URL: %q", name, value))
		}
	}
}

// logBackendAvailability 启动时打印每个后端的凭证配置情况
func logBackendAvailability() {
	for _, adaptor := range relay.Backends {
		state := "not configured"
		if adaptor.Available() {
			state = "configured"
		}
		logger.SysLog(fmt.Sprintf("backend %s: %s", adaptor.GetChannelName(), state))
	}
}

// @title FitFrame Virtual Try-On API
// @version 1.0
// @description 虚拟试穿生成服务：多后端按优先级回退，几何合成兜底
// @BasePath /
func main() {
	logger.SetupLogger()
	logger.SysLog(fmt.Sprintf("%s %s started", config.SystemName, common.Version))
	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.DebugEnabled {
		logger.SysLog("running in debug mode")
	}

	validateConfig()

	// Initialize Redis
	err := common.InitRedisClient()
	if err != nil {
		logger.FatalLog("failed to initialize Redis: " + err.Error())
	}

	logBackendAvailability()

	if config.EnableMetric {
		logger.SysLog("metric enabled, will flag backend as degraded if too much request failed")
	}

	// 启动 CloudWatch 上报
	if err := monitor.StartCloudWatchReporter(context.Background()); err != nil {
		logger.SysError("failed to start CloudWatch reporter: " + err.Error())
	}
	defer monitor.StopCloudWatchReporter()

	// 启动 Goroutine 监控
	go monitorGoroutines()

	// Initialize HTTP server
	server := gin.New()
	server.Use(gin.Recovery())
	server.Use(middleware.RequestId())
	middleware.SetUpLogger(server)

	router.SetRouter(server)

	// 添加监控端点
	setupMonitoringEndpoints(server)
	var port = os.Getenv("PORT")
	if port == "" {
		port = strconv.Itoa(*common.Port)
	}
	err = server.Run(":" + port)
	if err != nil {
		logger.FatalLog("failed to start HTTP server: " + err.Error())
	}
}
