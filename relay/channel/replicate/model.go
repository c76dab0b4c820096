package replicate

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// 按效果优先排序的两个模型版本
const (
	IDMVtonVersion      = "c871bb9b046607b680449ecbae55fd8c6d945e0a1948644bf2361b3d021d3ff4"
	OOTDiffusionVersion = "dc2f0c870be33de6e66ae3d348564e13e42523a1dff8c3a3d91def0a5c3bf5d5"
)

type PredictionRequest struct {
	Version string      `json:"version"`
	Input   interface{} `json:"input"`
}

type IDMVtonInput struct {
	Crop       bool   `json:"crop"`
	Seed       int    `json:"seed"`
	Steps      int    `json:"steps"`
	Category   string `json:"category"`
	ForceDC    bool   `json:"force_dc"`
	HumanImg   string `json:"human_img"`
	GarmImg    string `json:"garm_img"`
	GarmentDes string `json:"garment_des"`
}

type OOTDiffusionInput struct {
	Seed              int     `json:"seed"`
	Steps             int     `json:"steps"`
	ModelType         string  `json:"model_type"`
	Category          int     `json:"category"`
	HumanImg          string  `json:"human_img"`
	GarmentImg        string  `json:"garment_img"`
	GuidanceScale     float64 `json:"guidance_scale"`
	NumInferenceSteps int     `json:"num_inference_steps"`
}

type Prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  interface{}     `json:"error"`
	URLs   PredictionURLs  `json:"urls"`
}

type PredictionURLs struct {
	Get    string `json:"get"`
	Cancel string `json:"cancel"`
}

// OutputURL 结果可能是单个地址或地址列表，取第一个
func (p *Prediction) OutputURL() (string, error) {
	if len(p.Output) == 0 {
		return "", errors.New("empty output")
	}
	var single string
	if err := json.Unmarshal(p.Output, &single); err == nil && single != "" {
		return single, nil
	}
	var many []string
	if err := json.Unmarshal(p.Output, &many); err == nil && len(many) > 0 {
		return many[0], nil
	}
	return "", errors.New("unexpected output format")
}
