package router

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/fitframe/tryon-api/common/logger"
	_ "github.com/fitframe/tryon-api/docs"
)

func SetRouter(router *gin.Engine) {
	SetApiRouter(router)

	// Swagger UI 路由配置
	// 默认直接服务 docs 包里注册的文档，配了 SWAGGER_JSON_URL 则指向托管版本
	var opts []func(*ginSwagger.Config)
	docSource := "/swagger/doc.json"
	if swaggerURL := os.Getenv("SWAGGER_JSON_URL"); swaggerURL != "" {
		opts = append(opts, ginSwagger.URL(swaggerURL))
		docSource = swaggerURL
	}
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, opts...))
	logger.SysLog(fmt.Sprintf("Swagger UI enabled at /swagger/index.html (doc: %s)", docSource))

	// Scalar API 文档路由
	router.StaticFile("/docs", "./static/api-docs.html")
	logger.SysLog("Scalar API documentation enabled at /docs")
}
