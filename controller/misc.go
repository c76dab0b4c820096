package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitframe/tryon-api/common"
	"github.com/fitframe/tryon-api/common/config"
	"github.com/fitframe/tryon-api/monitor"
	relay "github.com/fitframe/tryon-api/relay/controller"
)

// aiEnabled 任意一个后端配了凭证就算开
func aiEnabled() bool {
	return config.ReplicateAPIToken != "" || config.FalKey != "" || config.HuggingFaceToken != ""
}

// Root 服务横幅
// @Summary 服务信息
// @Tags misc
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":    "Virtual Try-On API",
		"version":    common.Version,
		"ai_enabled": aiEnabled(),
		"backends": gin.H{
			"fal":         config.FalKey != "",
			"replicate":   config.ReplicateAPIToken != "",
			"huggingface": config.HuggingFaceToken != "",
		},
		"docs": "/docs",
	})
}

// Health 健康检查，每个标志都只看凭证是否配置
// @Summary 健康检查
// @Tags misc
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":                 "healthy",
		"version":                common.Version,
		"ai_enabled":             aiEnabled(),
		"replicate_configured":   config.ReplicateAPIToken != "",
		"fal_configured":         config.FalKey != "",
		"huggingface_configured": config.HuggingFaceToken != "",
		"kolors_available":       config.HuggingFaceToken != "",
	})
}

// Status 运行状态
// @Summary 运行状态
// @Description 版本、运行时长、各后端可用性和累计计数、取图缓存占用
// @Tags misc
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/status [get]
func Status(c *gin.Context) {
	availability := gin.H{}
	for _, adaptor := range relay.Backends {
		availability[adaptor.GetChannelName()] = adaptor.Available()
	}
	size, capacity := FetchCache.Stats()
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"version":        common.Version,
		"uptime_seconds": time.Now().Unix() - common.StartTime,
		"backends":       availability,
		"counters":       monitor.Stats(),
		"cache": gin.H{
			"size":     size,
			"capacity": capacity,
		},
	})
}

// SupportedSites 支持的电商站点清单
// @Summary 支持的电商站点
// @Tags misc
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/supported-sites [get]
func SupportedSites(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sites": []gin.H{
			{"domain": "lululemon.com", "name": "Lululemon", "status": "active"},
			{"domain": "amazon.com", "name": "Amazon", "status": "active"},
			{"domain": "asos.com", "name": "ASOS", "status": "active"},
			{"domain": "zara.com", "name": "Zara", "status": "active"},
			{"domain": "hm.com", "name": "H&M", "status": "active"},
			{"domain": "nordstrom.com", "name": "Nordstrom", "status": "active"},
			{"domain": "nike.com", "name": "Nike", "status": "active"},
			{"domain": "adidas.com", "name": "Adidas", "status": "active"},
			{"domain": "gap.com", "name": "Gap", "status": "active"},
			{"domain": "uniqlo.com", "name": "Uniqlo", "status": "active"},
		},
	})
}
