package controller

import (
	"context"
	"fmt"
	"image"
	"math"
	"strings"
	"time"

	"github.com/jinzhu/copier"

	"github.com/fitframe/tryon-api/common/config"
	img "github.com/fitframe/tryon-api/common/image"
	"github.com/fitframe/tryon-api/common/logger"
	"github.com/fitframe/tryon-api/monitor"
	"github.com/fitframe/tryon-api/relay/channel"
	"github.com/fitframe/tryon-api/relay/channel/fal"
	"github.com/fitframe/tryon-api/relay/channel/kolors"
	"github.com/fitframe/tryon-api/relay/channel/replicate"
	"github.com/fitframe/tryon-api/relay/composite"
	"github.com/fitframe/tryon-api/relay/constant"
	"github.com/fitframe/tryon-api/relay/model"
)

// Backends 生成后端的固定优先级，免费的 Space 排最前，付费接口垫后
var Backends = []channel.Adaptor{
	&kolors.Adaptor{},
	&fal.Adaptor{},
	&replicate.Adaptor{},
}

// GenerateTryon 执行一次完整的试穿：解码并预处理两张输入图，按优先级
// 尝试各个生成后端，全部失败时退到几何合成兜底。
// 只有输入阶段的问题会产出 success=false，后端失败从不向上冒泡。
func GenerateTryon(ctx context.Context, store img.Store, req *model.TryonRequest) *model.TryonResponse {
	startTime := time.Now()
	req.Normalize()

	if config.TryonDeadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(config.TryonDeadline)*time.Second)
		defer cancel()
	}

	task, err := buildTask(ctx, store, req)
	if err != nil {
		logger.Errorf(ctx, "tryon input rejected: %s", err.Error())
		monitor.RecordOutcome("", false)
		return failureResponse(err, startTime)
	}

	result, method, attempts := runBackends(ctx, task)
	if result == nil {
		logger.Infof(ctx, "no backend produced a result (%s), falling back to composite", attemptSummary(attempts))
		composed, err := composite.Compose(task)
		if err != nil {
			// 预处理保证了两张图都有尺寸，正常流程到不了这里
			logger.Errorf(ctx, "composite fallback failed: %s", err.Error())
			monitor.RecordOutcome("", false)
			return failureResponse(err, startTime)
		}
		result = composed
		method = model.MethodComposite
	}

	encoded, err := img.EncodeToDataURL(result)
	if err != nil {
		logger.Errorf(ctx, "encode result failed: %s", err.Error())
		monitor.RecordOutcome("", false)
		return failureResponse(err, startTime)
	}

	monitor.RecordOutcome(method, true)
	return &model.TryonResponse{
		Success:        true,
		ResultImage:    encoded,
		Method:         method,
		ProcessingTime: processingTime(startTime),
	}
}

// buildTask 解码、预处理并归类两张输入图。这里的任何失败都算输入问题，
// 是整条链路里唯一允许 success=false 的地方。
func buildTask(ctx context.Context, store img.Store, req *model.TryonRequest) (*model.GenerationTask, error) {
	person, err := img.Decode(req.UserPhoto)
	if err != nil {
		return nil, err
	}
	garment, err := img.Resolve(ctx, store, req.ProductImage)
	if err != nil {
		return nil, err
	}

	task := &model.GenerationTask{}
	if err := copier.Copy(task, req); err != nil {
		return nil, err
	}
	task.Person = img.PreprocessUser(person.Image, task.FastMode)
	task.Garment = img.PreprocessGarment(garment.Image, task.FastMode)
	task.GarmentHasAlpha = garment.HasAlpha
	task.Category = constant.GarmentCategory(req.GarmentType)
	task.Description = constant.GarmentDescription(req.GarmentType)

	logger.Infof(ctx, "task ready: person %dx%d, garment %dx%d (%s), type %s, fast %t",
		task.Person.Bounds().Dx(), task.Person.Bounds().Dy(),
		task.Garment.Bounds().Dx(), task.Garment.Bounds().Dy(),
		garment.Format, task.GarmentType, task.FastMode)
	if req.Measurements != nil {
		// 身体数据只记录，当前不参与生成
		logger.Debug(ctx, "measurements provided, not used by generation")
	}
	return task, nil
}

// runBackends 按固定顺序尝试，第一个成功的直接采用。
// 没配凭证的后端跳过，失败的只记录不上抛。
func runBackends(ctx context.Context, task *model.GenerationTask) (*image.NRGBA, string, []model.Attempt) {
	attempts := make([]model.Attempt, 0, len(Backends))
	for _, adaptor := range Backends {
		name := adaptor.GetChannelName()
		if !adaptor.Available() {
			logger.Infof(ctx, "backend %s skipped, credentials not configured", name)
			attempts = append(attempts, model.Attempt{Backend: name, Outcome: model.OutcomeSkipped})
			monitor.RecordAttempt(name, model.OutcomeSkipped)
			continue
		}

		attemptStart := time.Now()
		result, err := invokeBackend(ctx, adaptor, task)
		elapsed := time.Since(attemptStart)
		if err != nil {
			logger.Warnf(ctx, "backend %s failed after %.1fs: %s", name, elapsed.Seconds(), err.Error())
			attempts = append(attempts, model.Attempt{Backend: name, Outcome: model.OutcomeFailed, Elapsed: elapsed, Err: err})
			monitor.RecordAttempt(name, model.OutcomeFailed)
			continue
		}

		logger.Infof(ctx, "backend %s produced result in %.1fs", name, elapsed.Seconds())
		attempts = append(attempts, model.Attempt{Backend: name, Outcome: model.OutcomeSucceeded, Elapsed: elapsed})
		monitor.RecordAttempt(name, model.OutcomeSucceeded)
		return result, model.AIMethod(name), attempts
	}
	return nil, "", attempts
}

// invokeBackend 给单次尝试套上该后端自己的超时，panic 也折算成普通失败，
// 一个后端的问题不能波及后面的尝试
func invokeBackend(ctx context.Context, adaptor channel.Adaptor, task *model.GenerationTask) (result *image.NRGBA, err error) {
	attemptCtx, cancel := context.WithTimeout(ctx, adaptor.Timeout(task.FastMode))
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			err = model.NewBackendFailure(adaptor.GetChannelName(), fmt.Sprintf("panic recovered: %v", r), nil)
		}
	}()
	return adaptor.Generate(attemptCtx, task)
}

func attemptSummary(attempts []model.Attempt) string {
	if len(attempts) == 0 {
		return "no backends attempted"
	}
	parts := make([]string, 0, len(attempts))
	for _, a := range attempts {
		switch a.Outcome {
		case model.OutcomeSkipped:
			parts = append(parts, a.Backend+" skipped")
		case model.OutcomeSucceeded:
			parts = append(parts, fmt.Sprintf("%s succeeded (%.1fs)", a.Backend, a.Elapsed.Seconds()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed (%.1fs)", a.Backend, a.Elapsed.Seconds()))
		}
	}
	return strings.Join(parts, ", ")
}

func failureResponse(err error, startTime time.Time) *model.TryonResponse {
	return &model.TryonResponse{
		Success:        false,
		Error:          err.Error(),
		ProcessingTime: processingTime(startTime),
	}
}

func processingTime(startTime time.Time) float64 {
	return math.Round(time.Since(startTime).Seconds()*100) / 100
}
