package config

import (
	"os"
	"strings"

	"github.com/fitframe/tryon-api/common/env"
	"github.com/google/uuid"
)

var SystemName = "FitFrame Try-On API"
var ServiceName = env.String("SERVICE_NAME", "tryon-api")
var InstanceId = env.String("INSTANCE_ID", uuid.New().String()[:8])
var ServerAddress = env.String("SERVER_ADDRESS", "http://localhost:8000")

var DebugEnabled = strings.ToLower(os.Getenv("DEBUG")) == "true"

// 后端凭证：缺失即判定该后端不可用，不是运行时错误
// 两组别名都接受，部署环境里两种写法都有人用
var HuggingFaceToken = env.String("HUGGINGFACE_API_TOKEN", os.Getenv("HF_TOKEN"))
var FalKey = env.String("FAL_KEY", os.Getenv("FAL_API_KEY"))
var ReplicateAPIToken = os.Getenv("REPLICATE_API_TOKEN")

// 后端地址，测试时可指向本地 stub
var KolorsSpaceURL = env.String("KOLORS_SPACE_URL", "https://kwai-kolors-kolors-virtual-try-on.hf.space")
var IDMVtonSpaceURL = env.String("IDM_VTON_SPACE_URL", "https://yisol-idm-vton.hf.space")
var FalBaseURL = env.String("FAL_BASE_URL", "https://fal.run")
var ReplicateBaseURL = env.String("REPLICATE_BASE_URL", "https://api.replicate.com")

// All duration's unit is seconds
var (
	KolorsTimeout     = env.Int("KOLORS_TIMEOUT", 120)
	KolorsFastTimeout = env.Int("KOLORS_FAST_TIMEOUT", 90)
	FalTimeout        = env.Int("FAL_TIMEOUT", 90)
	ReplicateTimeout  = env.Int("REPLICATE_TIMEOUT", 90)

	// 整个编排序列的总 deadline，0 表示不限制
	TryonDeadline = env.Int("TRYON_DEADLINE", 0)

	// 远程图片抓取超时
	FetchTimeout = env.Int("FETCH_TIMEOUT", 30)

	// 出站请求的兜底超时，0 表示不限制
	RelayTimeout = env.Int("RELAY_TIMEOUT", 0)
)

var FetchCacheSize = env.Int("FETCH_CACHE_SIZE", 100)

var OutboundProxyURL = env.String("OUTBOUND_PROXY_URL", "")

// Cloudflare R2 结果归档（可选），四项配置齐全才启用
var CfFileAccessKey = os.Getenv("R2_ACCESS_KEY")
var CfFileSecretKey = os.Getenv("R2_SECRET_KEY")
var CfBucketFileName = os.Getenv("R2_BUCKET")
var CfFileEndpoint = os.Getenv("R2_ENDPOINT")
var CfFilePublicUrl = os.Getenv("R2_PUBLIC_URL")

func ArchiveEnabled() bool {
	return CfFileAccessKey != "" && CfFileSecretKey != "" && CfBucketFileName != "" && CfFileEndpoint != ""
}

// CloudWatch 指标上报（可选）
var CloudWatchEnabled = env.Bool("CLOUDWATCH_ENABLED", false)
var CloudWatchNamespace = env.String("CLOUDWATCH_NAMESPACE", "TryonAPI")
var CloudWatchRegion = env.String("CLOUDWATCH_REGION", "us-west-1")
var CloudWatchFlushInterval = env.Int("CLOUDWATCH_FLUSH_INTERVAL", 60)
var CloudWatchSampleInterval = env.Int("CLOUDWATCH_SAMPLE_INTERVAL", 10)

var EnableMetric = env.Bool("ENABLE_METRIC", false)
var MetricQueueSize = env.Int("METRIC_QUEUE_SIZE", 10)
var MetricSuccessRateThreshold = env.Float64("METRIC_SUCCESS_RATE_THRESHOLD", 0.8)
