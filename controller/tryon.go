package controller

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitframe/tryon-api/common"
	"github.com/fitframe/tryon-api/common/cache"
	"github.com/fitframe/tryon-api/common/config"
	"github.com/fitframe/tryon-api/common/logger"
	"github.com/fitframe/tryon-api/common/storage"
	relay "github.com/fitframe/tryon-api/relay/controller"
	"github.com/fitframe/tryon-api/relay/model"
)

// FetchCache 取图缓存，试穿和代理端点共用一份
var FetchCache = cache.NewFIFO(config.FetchCacheSize)

// GenerateTryon 虚拟试穿主入口
// @Summary 生成虚拟试穿图
// @Description 按优先级尝试各个远程生成后端，全部失败时退到几何合成的预览图。只有输入图有问题才会 success=false
// @Tags tryon
// @Accept json
// @Produce json
// @Param request body model.TryonRequest true "试穿请求"
// @Success 200 {object} model.TryonResponse
// @Failure 400 {object} map[string]interface{} "请求体不合法"
// @Router /api/tryon/generate [post]
func GenerateTryon(c *gin.Context) {
	var req model.TryonRequest
	if err := common.UnmarshalBodyReusable(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid request: " + err.Error(),
		})
		return
	}

	resp := relay.GenerateTryon(c.Request.Context(), FetchCache, &req)
	resp.RequestId = c.GetString(logger.RequestIdKey)
	if resp.Success && config.ArchiveEnabled() {
		archiveResult(c.Request.Context(), resp)
	}
	c.JSON(http.StatusOK, resp)
}

// archiveResult 异步把结果存到 R2，响应里先带上可预期的公开地址
func archiveResult(ctx context.Context, resp *model.TryonResponse) {
	payload := strings.TrimPrefix(resp.ResultImage, "data:image/jpeg;base64,")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		logger.Warnf(ctx, "archive skipped, result payload not decodable: %s", err.Error())
		return
	}
	key := storage.ResultObjectKey(resp.RequestId)
	resp.ResultURL = storage.PublicURL(key)
	common.RelayCtxGo(ctx, func() {
		uploadCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := storage.UploadResult(uploadCtx, key, data, "image/jpeg"); err != nil {
			logger.SysError("failed to archive result: " + err.Error())
		}
	})
}

// AnalyzeBody 身体数据占位接口
// @Summary 分析身体数据
// @Description 返回固定的占位测量值，真正的姿态估计不在当前版本里
// @Tags tryon
// @Produce json
// @Param user_photo query string true "用户照片（data URL）"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "缺少照片"
// @Router /api/body/analyze [post]
func AnalyzeBody(c *gin.Context) {
	userPhoto := c.Query("user_photo")
	if userPhoto == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "user_photo is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"measurements": gin.H{
			"shoulderWidth": 45,
			"chestWidth":    40,
			"waistWidth":    32,
			"hipWidth":      38,
			"armLength":     60,
			"confidence":    0.75,
		},
	})
}
