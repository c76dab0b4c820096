package util

import (
	"net/http"
	"time"

	"github.com/fitframe/tryon-api/common/config"
	"github.com/fitframe/tryon-api/common/logger"
	"github.com/fitframe/tryon-api/service"
)

var HTTPClient *http.Client

func init() {
	if config.RelayTimeout == 0 {
		HTTPClient = &http.Client{}
	} else {
		HTTPClient = &http.Client{
			Timeout: time.Duration(config.RelayTimeout) * time.Second,
		}
	}
}

// BackendHTTPClient 生成后端统一出口，配置了 OUTBOUND_PROXY_URL 时走代理
func BackendHTTPClient() *http.Client {
	if config.OutboundProxyURL == "" {
		return HTTPClient
	}
	client, err := service.NewProxyHttpClient(config.OutboundProxyURL)
	if err != nil {
		logger.SysError("failed to build proxy client, falling back to direct: " + err.Error())
		return HTTPClient
	}
	return client
}
