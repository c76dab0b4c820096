package monitor

import (
	"fmt"
	"sync"

	"github.com/fitframe/tryon-api/common/config"
	"github.com/fitframe/tryon-api/common/logger"
	"github.com/fitframe/tryon-api/relay/model"
)

// BackendStats 单个后端的累计尝试数据
type BackendStats struct {
	Succeeded   int64   `json:"succeeded"`
	Failed      int64   `json:"failed"`
	Skipped     int64   `json:"skipped"`
	SuccessRate float64 `json:"success_rate"`
	Degraded    bool    `json:"degraded"`
}

// Snapshot 服务启动以来的请求与后端计数
type Snapshot struct {
	Requests    int64                   `json:"requests"`
	AIResults   int64                   `json:"ai_results"`
	Composites  int64                   `json:"composite_results"`
	InputErrors int64                   `json:"input_errors"`
	Backends    map[string]BackendStats `json:"backends"`
}

type backendRecord struct {
	succeeded int64
	failed    int64
	skipped   int64
	// 最近若干次真实尝试的成败，跳过不计入窗口
	recent   []bool
	degraded bool
}

type tracker struct {
	mu          sync.Mutex
	requests    int64
	aiResults   int64
	composites  int64
	inputErrors int64
	backends    map[string]*backendRecord
}

var global = &tracker{backends: make(map[string]*backendRecord)}

// RecordAttempt 记录一次后端尝试的结局，窗口内成功率跌破阈值时写一条系统日志。
// 后端不会因此被停用，下一个请求仍按固定优先级尝试。
func RecordAttempt(backend string, outcome string) {
	global.mu.Lock()
	rec := global.backends[backend]
	if rec == nil {
		rec = &backendRecord{}
		global.backends[backend] = rec
	}
	switch outcome {
	case model.OutcomeSucceeded:
		rec.succeeded++
		rec.push(true)
	case model.OutcomeFailed:
		rec.failed++
		rec.push(false)
	case model.OutcomeSkipped:
		rec.skipped++
	}
	if config.EnableMetric && len(rec.recent) >= config.MetricQueueSize {
		rate := rec.successRate()
		if rate < config.MetricSuccessRateThreshold {
			if !rec.degraded {
				rec.degraded = true
				logger.SysError(fmt.Sprintf("backend %s success rate %.2f%% dropped below threshold %.2f%%",
					backend, rate*100, config.MetricSuccessRateThreshold*100))
			}
		} else if rec.degraded {
			rec.degraded = false
			logger.SysLog(fmt.Sprintf("backend %s success rate recovered to %.2f%%", backend, rate*100))
		}
	}
	global.mu.Unlock()

	recordAttemptMetric(backend, outcome)
}

// RecordOutcome 记录一次试穿请求的最终产出方式
func RecordOutcome(method string, success bool) {
	global.mu.Lock()
	global.requests++
	switch {
	case !success:
		global.inputErrors++
	case method == model.MethodComposite:
		global.composites++
	default:
		global.aiResults++
	}
	global.mu.Unlock()

	recordOutcomeMetric(method, success)
}

// Stats 返回当前计数的拷贝，给状态接口用
func Stats() Snapshot {
	global.mu.Lock()
	defer global.mu.Unlock()

	snap := Snapshot{
		Requests:    global.requests,
		AIResults:   global.aiResults,
		Composites:  global.composites,
		InputErrors: global.inputErrors,
		Backends:    make(map[string]BackendStats, len(global.backends)),
	}
	for name, rec := range global.backends {
		snap.Backends[name] = BackendStats{
			Succeeded:   rec.succeeded,
			Failed:      rec.failed,
			Skipped:     rec.skipped,
			SuccessRate: rec.successRate(),
			Degraded:    rec.degraded,
		}
	}
	return snap
}

func (rec *backendRecord) push(success bool) {
	rec.recent = append(rec.recent, success)
	if limit := config.MetricQueueSize; len(rec.recent) > limit {
		rec.recent = rec.recent[len(rec.recent)-limit:]
	}
}

func (rec *backendRecord) successRate() float64 {
	if len(rec.recent) == 0 {
		return 1
	}
	var succeeded int
	for _, ok := range rec.recent {
		if ok {
			succeeded++
		}
	}
	return float64(succeeded) / float64(len(rec.recent))
}

func reset() {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.requests = 0
	global.aiResults = 0
	global.composites = 0
	global.inputErrors = 0
	global.backends = make(map[string]*backendRecord)
}
