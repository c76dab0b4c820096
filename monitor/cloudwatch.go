package monitor

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/fitframe/tryon-api/common/config"
	"github.com/fitframe/tryon-api/common/logger"
	"github.com/fitframe/tryon-api/relay/model"
)

type attemptCounts struct {
	Succeeded int64
	Failed    int64
	Skipped   int64
}

// metricData 两次上报之间累积的缓冲区
type metricData struct {
	SuccessLatencies []float64
	FailureLatencies []float64

	RequestCount  int64
	MaxConcurrent int64

	// HTTP 状态分类
	ExplicitErrors int64 // 4xx
	ImplicitErrors int64 // 5xx
	PolicyErrors   int64 // 429, 401, 403

	// 生成链路
	BackendAttempts    map[string]*attemptCounts
	CompositeFallbacks int64
	InputErrors        int64

	mutex sync.Mutex
}

// saturationSamples 饱和度采样缓冲区
type saturationSamples struct {
	GoroutineSamples   []int
	MemoryAllocSamples []uint64
	MemorySysSamples   []uint64
	mutex              sync.Mutex
}

type reporter struct {
	client             *cloudwatch.Client
	namespace          string
	buffer             *metricData
	saturation         *saturationSamples
	concurrentRequests int64
	flushTicker        *time.Ticker
	sampleTicker       *time.Ticker
	ctx                context.Context
	cancel             context.CancelFunc
}

var globalReporter *reporter
var reporterMutex sync.Mutex

// StartCloudWatchReporter 启动指标上报，CLOUDWATCH_ENABLED 未开时直接返回
func StartCloudWatchReporter(ctx context.Context) error {
	if !config.CloudWatchEnabled {
		return nil
	}

	reporterMutex.Lock()
	defer reporterMutex.Unlock()

	if globalReporter != nil {
		return fmt.Errorf("cloudwatch reporter already started")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(config.CloudWatchRegion),
	)
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	reporterCtx, cancel := context.WithCancel(ctx)
	r := &reporter{
		client:       cloudwatch.NewFromConfig(cfg),
		namespace:    config.CloudWatchNamespace,
		buffer:       newMetricData(),
		saturation:   &saturationSamples{},
		flushTicker:  time.NewTicker(time.Duration(config.CloudWatchFlushInterval) * time.Second),
		sampleTicker: time.NewTicker(time.Duration(config.CloudWatchSampleInterval) * time.Second),
		ctx:          reporterCtx,
		cancel:       cancel,
	}

	globalReporter = r

	go r.flushLoop()
	go r.sampleLoop()

	logger.SysLog(fmt.Sprintf("CloudWatch reporter started (namespace: %s, region: %s, flush: %ds, sample: %ds)",
		config.CloudWatchNamespace, config.CloudWatchRegion, config.CloudWatchFlushInterval, config.CloudWatchSampleInterval))

	return nil
}

// StopCloudWatchReporter 停止上报并把缓冲区里剩下的指标刷出去
func StopCloudWatchReporter() {
	reporterMutex.Lock()
	defer reporterMutex.Unlock()

	if globalReporter != nil {
		globalReporter.cancel()
		globalReporter.flushTicker.Stop()
		globalReporter.sampleTicker.Stop()
		globalReporter.flush()
		globalReporter = nil
		logger.SysLog("CloudWatch reporter stopped")
	}
}

func newMetricData() *metricData {
	return &metricData{BackendAttempts: make(map[string]*attemptCounts)}
}

// RecordRequest 记录一次 HTTP 请求的延迟和状态
func RecordRequest(latency time.Duration, statusCode int, success bool) {
	if !config.CloudWatchEnabled || globalReporter == nil {
		return
	}
	globalReporter.recordRequest(latency, statusCode, success)
}

// IncrementConcurrent 增加并发计数
func IncrementConcurrent() {
	if !config.CloudWatchEnabled || globalReporter == nil {
		return
	}
	current := atomic.AddInt64(&globalReporter.concurrentRequests, 1)
	globalReporter.updateMaxConcurrent(current)
}

// DecrementConcurrent 减少并发计数
func DecrementConcurrent() {
	if !config.CloudWatchEnabled || globalReporter == nil {
		return
	}
	atomic.AddInt64(&globalReporter.concurrentRequests, -1)
}

func recordAttemptMetric(backend string, outcome string) {
	if !config.CloudWatchEnabled || globalReporter == nil {
		return
	}
	r := globalReporter
	r.buffer.mutex.Lock()
	defer r.buffer.mutex.Unlock()

	counts := r.buffer.BackendAttempts[backend]
	if counts == nil {
		counts = &attemptCounts{}
		r.buffer.BackendAttempts[backend] = counts
	}
	switch outcome {
	case model.OutcomeSucceeded:
		counts.Succeeded++
	case model.OutcomeFailed:
		counts.Failed++
	case model.OutcomeSkipped:
		counts.Skipped++
	}
}

func recordOutcomeMetric(method string, success bool) {
	if !config.CloudWatchEnabled || globalReporter == nil {
		return
	}
	r := globalReporter
	r.buffer.mutex.Lock()
	defer r.buffer.mutex.Unlock()

	if !success {
		r.buffer.InputErrors++
		return
	}
	if method == model.MethodComposite {
		r.buffer.CompositeFallbacks++
	}
}

func (r *reporter) recordRequest(latency time.Duration, statusCode int, success bool) {
	r.buffer.mutex.Lock()
	defer r.buffer.mutex.Unlock()

	latencyMs := float64(latency.Milliseconds())
	if success {
		r.buffer.SuccessLatencies = append(r.buffer.SuccessLatencies, latencyMs)
	} else {
		r.buffer.FailureLatencies = append(r.buffer.FailureLatencies, latencyMs)
	}

	r.buffer.RequestCount++

	switch classifyError(statusCode) {
	case "explicit_error":
		r.buffer.ExplicitErrors++
	case "implicit_error":
		r.buffer.ImplicitErrors++
	case "policy_error":
		r.buffer.PolicyErrors++
	}
}

func (r *reporter) updateMaxConcurrent(current int64) {
	r.buffer.mutex.Lock()
	defer r.buffer.mutex.Unlock()

	if current > r.buffer.MaxConcurrent {
		r.buffer.MaxConcurrent = current
	}
}

// classifyError HTTP 状态分类
func classifyError(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 400:
		return "success"
	case statusCode == 401 || statusCode == 403:
		return "policy_error"
	case statusCode == 429:
		return "policy_error"
	case statusCode >= 400 && statusCode < 500:
		return "explicit_error"
	case statusCode >= 500:
		return "implicit_error"
	default:
		return "unknown"
	}
}

func (r *reporter) sampleLoop() {
	// 启动先采一次
	r.sampleSaturation()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-r.sampleTicker.C:
			r.sampleSaturation()
		}
	}
}

func (r *reporter) sampleSaturation() {
	goroutineCount := runtime.NumGoroutine()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r.saturation.mutex.Lock()
	defer r.saturation.mutex.Unlock()

	r.saturation.GoroutineSamples = append(r.saturation.GoroutineSamples, goroutineCount)
	r.saturation.MemoryAllocSamples = append(r.saturation.MemoryAllocSamples, m.Alloc/1024/1024)
	r.saturation.MemorySysSamples = append(r.saturation.MemorySysSamples, m.Sys/1024/1024)
}

func (r *reporter) flushLoop() {
	for {
		select {
		case <-r.ctx.Done():
			return
		case <-r.flushTicker.C:
			r.flush()
		}
	}
}

// flush 把缓冲区换下来，算好统计值后整批发往 CloudWatch
func (r *reporter) flush() {
	r.buffer.mutex.Lock()
	data := r.buffer
	r.buffer = newMetricData()
	data.mutex.Unlock()

	r.saturation.mutex.Lock()
	satSamples := r.saturation
	r.saturation = &saturationSamples{}
	satSamples.mutex.Unlock()

	if data.RequestCount == 0 && len(data.BackendAttempts) == 0 && len(satSamples.GoroutineSamples) == 0 {
		return
	}

	metrics := []types.MetricDatum{}
	timestamp := aws.Time(time.Now())

	if len(data.SuccessLatencies) > 0 {
		metrics = append(metrics, buildLatencyMetrics("SuccessLatency", data.SuccessLatencies, timestamp)...)
	}
	if len(data.FailureLatencies) > 0 {
		metrics = append(metrics, buildLatencyMetrics("FailureLatency", data.FailureLatencies, timestamp)...)
	}

	if data.RequestCount > 0 {
		metrics = append(metrics, types.MetricDatum{
			MetricName: aws.String("RequestCount"),
			Value:      aws.Float64(float64(data.RequestCount)),
			Unit:       types.StandardUnitCount,
			Timestamp:  timestamp,
		})

		qps := float64(data.RequestCount) / float64(config.CloudWatchFlushInterval)
		metrics = append(metrics, types.MetricDatum{
			MetricName: aws.String("QPS"),
			Value:      aws.Float64(qps),
			Unit:       types.StandardUnitCountSecond,
			Timestamp:  timestamp,
		})
	}

	if data.MaxConcurrent > 0 {
		metrics = append(metrics, types.MetricDatum{
			MetricName: aws.String("MaxConcurrentRequests"),
			Value:      aws.Float64(float64(data.MaxConcurrent)),
			Unit:       types.StandardUnitCount,
			Timestamp:  timestamp,
		})
	}

	for _, item := range []struct {
		name  string
		value int64
	}{
		{"ExplicitErrors", data.ExplicitErrors},
		{"ImplicitErrors", data.ImplicitErrors},
		{"PolicyErrors", data.PolicyErrors},
		{"CompositeFallbacks", data.CompositeFallbacks},
		{"InputErrors", data.InputErrors},
	} {
		if item.value > 0 {
			metrics = append(metrics, types.MetricDatum{
				MetricName: aws.String(item.name),
				Value:      aws.Float64(float64(item.value)),
				Unit:       types.StandardUnitCount,
				Timestamp:  timestamp,
			})
		}
	}

	if data.RequestCount > 0 {
		totalErrors := data.ExplicitErrors + data.ImplicitErrors + data.PolicyErrors
		errorRate := float64(totalErrors) / float64(data.RequestCount) * 100
		metrics = append(metrics, types.MetricDatum{
			MetricName: aws.String("ErrorRate"),
			Value:      aws.Float64(errorRate),
			Unit:       types.StandardUnitPercent,
			Timestamp:  timestamp,
		})
	}

	metrics = append(metrics, buildAttemptMetrics(data.BackendAttempts, timestamp)...)

	if len(satSamples.GoroutineSamples) > 0 {
		avgGoroutine, maxGoroutine := calculateStats(satSamples.GoroutineSamples)
		metrics = append(metrics,
			types.MetricDatum{
				MetricName: aws.String("GoroutineCount"),
				Value:      aws.Float64(avgGoroutine),
				Unit:       types.StandardUnitCount,
				Timestamp:  timestamp,
			},
			types.MetricDatum{
				MetricName: aws.String("MaxGoroutineCount"),
				Value:      aws.Float64(maxGoroutine),
				Unit:       types.StandardUnitCount,
				Timestamp:  timestamp,
			},
		)
	}

	if len(satSamples.MemoryAllocSamples) > 0 {
		avgMemAlloc, maxMemAlloc := calculateStatsUint64(satSamples.MemoryAllocSamples)
		metrics = append(metrics,
			types.MetricDatum{
				MetricName: aws.String("MemoryAllocMB"),
				Value:      aws.Float64(avgMemAlloc),
				Unit:       types.StandardUnitMegabytes,
				Timestamp:  timestamp,
			},
			types.MetricDatum{
				MetricName: aws.String("MaxMemoryAllocMB"),
				Value:      aws.Float64(maxMemAlloc),
				Unit:       types.StandardUnitMegabytes,
				Timestamp:  timestamp,
			},
		)
	}

	if len(satSamples.MemorySysSamples) > 0 {
		avgMemSys, maxMemSys := calculateStatsUint64(satSamples.MemorySysSamples)
		metrics = append(metrics,
			types.MetricDatum{
				MetricName: aws.String("MemorySysMB"),
				Value:      aws.Float64(avgMemSys),
				Unit:       types.StandardUnitMegabytes,
				Timestamp:  timestamp,
			},
			types.MetricDatum{
				MetricName: aws.String("MaxMemorySysMB"),
				Value:      aws.Float64(maxMemSys),
				Unit:       types.StandardUnitMegabytes,
				Timestamp:  timestamp,
			},
		)
	}

	if len(metrics) > 0 {
		r.sendMetrics(metrics)
	}
}

// buildAttemptMetrics 按后端维度展开尝试计数
func buildAttemptMetrics(attempts map[string]*attemptCounts, timestamp *time.Time) []types.MetricDatum {
	if len(attempts) == 0 {
		return nil
	}
	names := make([]string, 0, len(attempts))
	for name := range attempts {
		names = append(names, name)
	}
	sort.Strings(names)

	metrics := []types.MetricDatum{}
	for _, name := range names {
		counts := attempts[name]
		dimensions := []types.Dimension{{
			Name:  aws.String("Backend"),
			Value: aws.String(name),
		}}
		for _, item := range []struct {
			metric string
			value  int64
		}{
			{"BackendSucceeded", counts.Succeeded},
			{"BackendFailed", counts.Failed},
			{"BackendSkipped", counts.Skipped},
		} {
			if item.value > 0 {
				metrics = append(metrics, types.MetricDatum{
					MetricName: aws.String(item.metric),
					Value:      aws.Float64(float64(item.value)),
					Unit:       types.StandardUnitCount,
					Timestamp:  timestamp,
					Dimensions: dimensions,
				})
			}
		}
	}
	return metrics
}

// buildLatencyMetrics 构建延迟指标（平均值、P50、P95、P99、最大值）
func buildLatencyMetrics(metricName string, latencies []float64, timestamp *time.Time) []types.MetricDatum {
	if len(latencies) == 0 {
		return nil
	}

	sorted := make([]float64, len(latencies))
	copy(sorted, latencies)
	sort.Float64s(sorted)

	avg := calculateAverage(sorted)
	p50 := calculatePercentile(sorted, 0.50)
	p95 := calculatePercentile(sorted, 0.95)
	p99 := calculatePercentile(sorted, 0.99)
	max := sorted[len(sorted)-1]

	return []types.MetricDatum{
		{
			MetricName: aws.String(metricName + "Avg"),
			Value:      aws.Float64(avg),
			Unit:       types.StandardUnitMilliseconds,
			Timestamp:  timestamp,
		},
		{
			MetricName: aws.String(metricName + "P50"),
			Value:      aws.Float64(p50),
			Unit:       types.StandardUnitMilliseconds,
			Timestamp:  timestamp,
		},
		{
			MetricName: aws.String(metricName + "P95"),
			Value:      aws.Float64(p95),
			Unit:       types.StandardUnitMilliseconds,
			Timestamp:  timestamp,
		},
		{
			MetricName: aws.String(metricName + "P99"),
			Value:      aws.Float64(p99),
			Unit:       types.StandardUnitMilliseconds,
			Timestamp:  timestamp,
		},
		{
			MetricName: aws.String(metricName + "Max"),
			Value:      aws.Float64(max),
			Unit:       types.StandardUnitMilliseconds,
			Timestamp:  timestamp,
		},
	}
}

// sendMetrics 分批发送，每批最多 1000 个
func (r *reporter) sendMetrics(metrics []types.MetricDatum) {
	const maxMetricsPerRequest = 1000

	for i := 0; i < len(metrics); i += maxMetricsPerRequest {
		end := i + maxMetricsPerRequest
		if end > len(metrics) {
			end = len(metrics)
		}

		input := &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(r.namespace),
			MetricData: metrics[i:end],
		}

		_, err := r.client.PutMetricData(r.ctx, input)
		if err != nil {
			logger.SysError(fmt.Sprintf("Failed to send CloudWatch metrics: %s", err.Error()))
		}
	}
}

func calculateAverage(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func calculatePercentile(sortedValues []float64, percentile float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	index := int(float64(len(sortedValues)) * percentile)
	if index >= len(sortedValues) {
		index = len(sortedValues) - 1
	}
	return sortedValues[index]
}

func calculateStats(values []int) (avg float64, max float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := 0
	maxVal := values[0]
	for _, v := range values {
		sum += v
		if v > maxVal {
			maxVal = v
		}
	}
	avg = float64(sum) / float64(len(values))
	max = float64(maxVal)
	return
}

func calculateStatsUint64(values []uint64) (avg float64, max float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := uint64(0)
	maxVal := values[0]
	for _, v := range values {
		sum += v
		if v > maxVal {
			maxVal = v
		}
	}
	avg = float64(sum) / float64(len(values))
	max = float64(maxVal)
	return
}
