package router

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/fitframe/tryon-api/controller"
	"github.com/fitframe/tryon-api/middleware"
)

func SetApiRouter(router *gin.Engine) {
	router.Use(middleware.CORS())
	router.GET("/", controller.Root)
	router.GET("/health", controller.Health)

	apiRouter := router.Group("/api")
	apiRouter.Use(gzip.Gzip(gzip.DefaultCompression))
	apiRouter.Use(middleware.RelayPanicRecover())
	apiRouter.Use(middleware.CloudWatchMetrics())
	{
		apiRouter.GET("/status", controller.Status)
		apiRouter.GET("/supported-sites", controller.SupportedSites)

		tryonRoute := apiRouter.Group("/tryon")
		{
			tryonRoute.POST("/generate", controller.GenerateTryon)
		}

		bodyRoute := apiRouter.Group("/body")
		{
			bodyRoute.POST("/analyze", controller.AnalyzeBody)
		}

		// 代理端点给前端绕过商品图的防盗链
		proxyRoute := apiRouter.Group("/proxy")
		{
			proxyRoute.GET("/image", controller.ProxyImage)
			proxyRoute.GET("/image/base64", controller.ProxyImageBase64)
		}
	}
}
