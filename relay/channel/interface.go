package channel

import (
	"context"
	"image"
	"time"

	"github.com/fitframe/tryon-api/relay/model"
)

// Adaptor 单个远程生成后端的统一接口
// 新增供应商时实现一个 Adaptor 并注册到编排器的优先级列表，
// 编排逻辑本身不感知具体供应商
type Adaptor interface {
	// GetChannelName returns the backend name used in method tags and logs.
	GetChannelName() string

	// Available reports whether the backend's credential is configured.
	// Absence of a credential disables the backend, it is not an error.
	Available() bool

	// Timeout returns the attempt budget for the chosen tier.
	Timeout(fastMode bool) time.Duration

	// Generate renders the try-on for the task. Implementations convert every
	// transport or provider problem into *model.BackendFailure and never
	// panic past this boundary.
	Generate(ctx context.Context, task *model.GenerationTask) (*image.NRGBA, error)
}
