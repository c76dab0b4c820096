package fal

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// IDM-VTON 请求体，图片以数据 URL 形式内嵌
type TryonPayload struct {
	HumanImageURL     string  `json:"human_image_url"`
	GarmentImageURL   string  `json:"garment_image_url"`
	Description       string  `json:"description"`
	Category          string  `json:"category"`
	NumInferenceSteps int     `json:"num_inference_steps"`
	Seed              int     `json:"seed"`
	GuidanceScale     float64 `json:"guidance_scale"`
}

// 响应里 image 可能是 {url: ...} 对象或纯字符串，images 同理
type TryonResult struct {
	Image  json.RawMessage   `json:"image"`
	Images []json.RawMessage `json:"images"`
}

type imageRef struct {
	URL string `json:"url"`
}

// ResultImageURL 从响应体里解析出结果图地址
func ResultImageURL(body []byte) (string, error) {
	var result TryonResult
	if err := json.Unmarshal(body, &result); err != nil {
		return "", errors.Wrap(err, "parse response")
	}
	if len(result.Image) > 0 {
		if url, err := refURL(result.Image); err == nil {
			return url, nil
		}
	}
	if len(result.Images) > 0 {
		if url, err := refURL(result.Images[0]); err == nil {
			return url, nil
		}
	}
	return "", errors.New("unexpected response format")
}

func refURL(raw json.RawMessage) (string, error) {
	var direct string
	if err := json.Unmarshal(raw, &direct); err == nil && direct != "" {
		return direct, nil
	}
	var ref imageRef
	if err := json.Unmarshal(raw, &ref); err == nil && ref.URL != "" {
		return ref.URL, nil
	}
	return "", errors.New("unrecognized image reference")
}
