package model

import (
	"image"
	"time"

	img "github.com/fitframe/tryon-api/common/image"
)

// Measurements 占位的身体数据，接受并记录，不参与生成
type Measurements struct {
	Height        *float64 `json:"height,omitempty"`
	Weight        *float64 `json:"weight,omitempty"`
	Chest         *float64 `json:"chest,omitempty"`
	Waist         *float64 `json:"waist,omitempty"`
	Hips          *float64 `json:"hips,omitempty"`
	Inseam        *float64 `json:"inseam,omitempty"`
	ShoulderWidth *float64 `json:"shoulder_width,omitempty"`
	ArmLength     *float64 `json:"arm_length,omitempty"`
}

type TryonRequest struct {
	// 数据 URL 或裸 base64
	UserPhoto string `json:"user_photo" binding:"required"`
	// 数据 URL、裸 base64 或 http(s) 商品图地址
	ProductImage string        `json:"product_image" binding:"required"`
	GarmentType  string        `json:"garment_type"`
	FastMode     *bool         `json:"fast_mode"`
	Measurements *Measurements `json:"measurements,omitempty"`
}

// Normalize 补齐缺省值：garment_type 默认 top，fast_mode 默认开启
func (r *TryonRequest) Normalize() {
	if r.GarmentType == "" {
		r.GarmentType = "top"
	}
	if r.FastMode == nil {
		fast := true
		r.FastMode = &fast
	}
}

func (r *TryonRequest) Fast() bool {
	return r.FastMode == nil || *r.FastMode
}

type TryonResponse struct {
	Success        bool    `json:"success"`
	ResultImage    string  `json:"result_image,omitempty"`
	ResultURL      string  `json:"result_url,omitempty"`
	Error          string  `json:"error,omitempty"`
	ProcessingTime float64 `json:"processing_time"`
	RequestId      string  `json:"request_id,omitempty"`
	Method         string  `json:"method,omitempty"`
}

const MethodComposite = "composite"

// AIMethod returns the method tag for a successful backend, e.g. "ai-kolors".
func AIMethod(backend string) string {
	return "ai-" + backend
}

// GenerationTask 一次生成的全部输入，由编排器构造后在各后端间复用
type GenerationTask struct {
	Person          *image.NRGBA
	Garment         *image.NRGBA
	GarmentHasAlpha bool
	GarmentType     string
	Category        string
	Description     string
	FastMode        bool

	personDataURL  string
	garmentDataURL string
}

// PersonDataURL returns the person raster as a JPEG data URL, memoized so
// every backend shares a single encode.
func (t *GenerationTask) PersonDataURL() (string, error) {
	if t.personDataURL == "" {
		encoded, err := img.EncodeToDataURL(t.Person)
		if err != nil {
			return "", err
		}
		t.personDataURL = encoded
	}
	return t.personDataURL, nil
}

// GarmentDataURL returns the garment raster as a JPEG data URL, memoized.
func (t *GenerationTask) GarmentDataURL() (string, error) {
	if t.garmentDataURL == "" {
		encoded, err := img.EncodeToDataURL(t.Garment)
		if err != nil {
			return "", err
		}
		t.garmentDataURL = encoded
	}
	return t.garmentDataURL, nil
}

// Attempt outcome tags.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeSkipped   = "skipped"
)

// Attempt 单个后端的尝试记录，仅用于观测，不持久化
type Attempt struct {
	Backend string
	Outcome string
	Elapsed time.Duration
	Err     error
}
