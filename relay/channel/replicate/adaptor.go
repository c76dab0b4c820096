package replicate

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
	"github.com/fitframe/tryon-api/relay/constant"
	"github.com/fitframe/tryon-api/relay/model"
	"github.com/fitframe/tryon-api/relay/util"
)

const ChannelName = "replicate"

const pollInterval = time.Second

// Adaptor 走 Replicate 的 predictions 接口：创建预测后轮询到终态
type Adaptor struct{}

func (a *Adaptor) GetChannelName() string {
	return ChannelName
}

func (a *Adaptor) Available() bool {
	return config.ReplicateAPIToken != ""
}

func (a *Adaptor) Timeout(fastMode bool) time.Duration {
	return time.Duration(config.ReplicateTimeout) * time.Second
}

func (a *Adaptor) Generate(ctx context.Context, task *model.GenerationTask) (*image.NRGBA, error) {
	humanURI, err := task.PersonDataURL()
	if err != nil {
		return nil, model.NewBackendFailure(ChannelName, "encode person image", err)
	}
	garmentURI, err := task.GarmentDataURL()
	if err != nil {
		return nil, model.NewBackendFailure(ChannelName, "encode garment image", err)
	}

	// OOTDiffusion 用 hd 权重处理上半身和连衣裙，dc 处理下半身
	modelType := "hd"
	ootdCategory := 0
	if task.Category == constant.CategoryLowerBody {
		modelType = "dc"
		ootdCategory = 1
	}
	requests := []PredictionRequest{
		{
			Version: IDMVtonVersion,
			Input: IDMVtonInput{
				Crop:       false,
				Seed:       42,
				Steps:      40,
				Category:   task.Category,
				ForceDC:    false,
				HumanImg:   humanURI,
				GarmImg:    garmentURI,
				GarmentDes: task.Description,
			},
		},
		{
			Version: OOTDiffusionVersion,
			Input: OOTDiffusionInput{
				Seed:              42,
				Steps:             30,
				ModelType:         modelType,
				Category:          ootdCategory,
				HumanImg:          humanURI,
				GarmentImg:        garmentURI,
				GuidanceScale:     2.5,
				NumInferenceSteps: 30,
			},
		},
	}

	logger.Infof(ctx, "generating with replicate, type: %s, category: %s", task.GarmentType, task.Category)
	client := util.BackendHTTPClient()
	var lastErr error
	for _, request := range requests {
		result, err := a.runPrediction(ctx, client, request)
		if err == nil {
			return result, nil
		}
		lastErr = err
		logger.Warnf(ctx, "replicate model %s failed: %s", request.Version[:8], err.Error())
	}
	return nil, model.NewBackendFailure(ChannelName, "all replicate models failed", lastErr)
}

func (a *Adaptor) runPrediction(ctx context.Context, client *http.Client, request PredictionRequest) (*image.NRGBA, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, config.ReplicateBaseURL+"/v1/predictions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+config.ReplicateAPIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("create prediction: status %d: %s", resp.StatusCode, channel.TruncateBody(respBody, 500))
	}
	var prediction Prediction
	if err := json.Unmarshal(respBody, &prediction); err != nil {
		return nil, err
	}
	if prediction.ID == "" {
		return nil, fmt.Errorf("create prediction: missing id")
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}

		current, err := a.getPrediction(ctx, client, prediction.ID)
		if err != nil {
			return nil, err
		}
		switch current.Status {
		case "succeeded":
			outputURL, err := current.OutputURL()
			if err != nil {
				return nil, err
			}
			return channel.FetchResultImage(ctx, client, outputURL, nil)
		case "failed", "canceled":
			return nil, fmt.Errorf("prediction %s: %v", current.Status, current.Error)
		}
	}
}

func (a *Adaptor) getPrediction(ctx context.Context, client *http.Client, id string) (*Prediction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, config.ReplicateBaseURL+"/v1/predictions/"+id, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+config.ReplicateAPIToken)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("poll prediction: status %d: %s", resp.StatusCode, channel.TruncateBody(respBody, 500))
	}
	var prediction Prediction
	if err := json.Unmarshal(respBody, &prediction); err != nil {
		return nil, err
	}
	return &prediction, nil
}
