package controller

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	img "github.com/fitframe/tryon-api/common/image"
)

// ProxyImage 图片代理
// @Summary 代理拉取外部图片
// @Description 绕开浏览器扩展的跨域限制，带一天的缓存头
// @Tags proxy
// @Produce image/jpeg
// @Param url query string true "图片地址"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]interface{} "URL 协议不合法"
// @Router /api/proxy/image [get]
func ProxyImage(c *gin.Context) {
	rawURL := c.Query("url")
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid URL scheme"})
		return
	}

	data, err := img.FetchImage(c.Request.Context(), FetchCache, rawURL)
	if err != nil {
		status := http.StatusInternalServerError
		detail := "Proxy error: " + err.Error()
		var fetchErr *img.FetchError
		if errors.As(err, &fetchErr) && fetchErr.StatusCode != 0 {
			// 上游的失败状态原样透出
			status = fetchErr.StatusCode
			detail = "Failed to fetch image: " + err.Error()
		}
		c.JSON(status, gin.H{"detail": detail})
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, proxyContentType(rawURL), data)
}

// proxyContentType 按扩展名猜类型，猜不出一律按 JPEG
func proxyContentType(rawURL string) string {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	case strings.HasSuffix(lower, ".gif"):
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

// ProxyImageBase64 图片代理（data URI 版）
// @Summary 代理拉取外部图片并转成 data URI
// @Description 统一转成 JPEG 输出，方便直接喂给 canvas 或 img src。失败也是 200，错误放在 error 字段里
// @Tags proxy
// @Produce json
// @Param url query string true "图片地址"
// @Success 200 {object} map[string]interface{}
// @Router /api/proxy/image/base64 [get]
func ProxyImageBase64(c *gin.Context) {
	rawURL := c.Query("url")
	data, err := img.FetchImage(c.Request.Context(), FetchCache, rawURL)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		return
	}
	decoded, err := img.DecodeBytes(data)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		return
	}
	dataUri, err := img.EncodeToDataURL(decoded.Image)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"dataUri": dataUri,
		"width":   decoded.Width(),
		"height":  decoded.Height(),
	})
}
