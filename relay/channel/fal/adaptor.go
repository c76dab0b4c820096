package fal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	"github.com/fitframe/tryon-api/common/config"
	"github.com/fitframe/tryon-api/common/logger"
	"github.com/fitframe/tryon-api/relay/channel"
	"github.com/fitframe/tryon-api/relay/model"
	"github.com/fitframe/tryon-api/relay/util"
)

const ChannelName = "fal"

// Adaptor 调用 fal.ai 托管的 IDM-VTON，速度快、按张计费
type Adaptor struct{}

func (a *Adaptor) GetChannelName() string {
	return ChannelName
}

func (a *Adaptor) Available() bool {
	return config.FalKey != ""
}

func (a *Adaptor) Timeout(fastMode bool) time.Duration {
	return time.Duration(config.FalTimeout) * time.Second
}

func (a *Adaptor) Generate(ctx context.Context, task *model.GenerationTask) (*image.NRGBA, error) {
	humanURL, err := task.PersonDataURL()
	if err != nil {
		return nil, model.NewBackendFailure(ChannelName, "encode person image", err)
	}
	garmentURL, err := task.GarmentDataURL()
	if err != nil {
		return nil, model.NewBackendFailure(ChannelName, "encode garment image", err)
	}

	payload := &TryonPayload{
		HumanImageURL:     humanURL,
		GarmentImageURL:   garmentURL,
		Description:       task.Description,
		Category:          task.Category,
		NumInferenceSteps: 30,
		Seed:              42,
		GuidanceScale:     2.5,
	}
	if task.FastMode {
		payload.NumInferenceSteps = 20
		payload.GuidanceScale = 2.0
	}
	logger.Infof(ctx, "using fal idm-vton, category: %s, steps: %d", payload.Category, payload.NumInferenceSteps)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, model.NewBackendFailure(ChannelName, "marshal request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, config.FalBaseURL+"/fal-ai/idm-vton", bytes.NewReader(body))
	if err != nil {
		return nil, model.NewBackendFailure(ChannelName, "build request", err)
	}
	req.Header.Set("Authorization", "Key "+config.FalKey)
	req.Header.Set("Content-Type", "application/json")

	client := util.BackendHTTPClient()
	resp, err := client.Do(req)
	if err != nil {
		return nil, model.NewBackendFailure(ChannelName, "request failed", err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, model.NewBackendFailure(ChannelName, "read response", err)
	}
	if resp.StatusCode != http.StatusOK {
		reason := fmt.Sprintf("status %d: %s", resp.StatusCode, channel.TruncateBody(respBody, 500))
		return nil, model.NewBackendFailure(ChannelName, reason, nil)
	}

	imageURL, err := ResultImageURL(respBody)
	if err != nil {
		return nil, model.NewBackendFailure(ChannelName, "parse response", err)
	}
	result, err := channel.FetchResultImage(ctx, client, imageURL, nil)
	if err != nil {
		return nil, model.NewBackendFailure(ChannelName, "fetch result", err)
	}
	return result, nil
}
