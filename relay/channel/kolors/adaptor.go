package kolors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/fitframe/tryon-api/common/config"
	img "github.com/fitframe/tryon-api/common/image"
	"github.com/fitframe/tryon-api/common/logger"
	"github.com/fitframe/tryon-api/relay/channel"
	"github.com/fitframe/tryon-api/relay/model"
	"github.com/fitframe/tryon-api/relay/util"
)

const ChannelName = "kolors"

// Space 上传用高一档的质量，生成效果对输入压缩比较敏感
const uploadQuality = 95

// Adaptor 走 Hugging Face Space 的 gradio /call 协议
// 先试 Kwai-Kolors，失败后在同一预算内换 yisol/IDM-VTON Space
type Adaptor struct{}

func (a *Adaptor) GetChannelName() string {
	return ChannelName
}

func (a *Adaptor) Available() bool {
	return config.HuggingFaceToken != ""
}

func (a *Adaptor) Timeout(fastMode bool) time.Duration {
	if fastMode {
		return time.Duration(config.KolorsFastTimeout) * time.Second
	}
	return time.Duration(config.KolorsTimeout) * time.Second
}

func (a *Adaptor) Generate(ctx context.Context, task *model.GenerationTask) (*image.NRGBA, error) {
	personJPEG, err := img.EncodeJPEGWithQuality(task.Person, uploadQuality)
	if err != nil {
		return nil, model.NewBackendFailure(ChannelName, "encode person image", err)
	}
	garmentJPEG, err := img.EncodeJPEGWithQuality(task.Garment, uploadQuality)
	if err != nil {
		return nil, model.NewBackendFailure(ChannelName, "encode garment image", err)
	}

	client := util.BackendHTTPClient()

	logger.Info(ctx, "connecting to Kolors virtual try-on space")
	result, err := a.tryKolorsSpace(ctx, client, personJPEG, garmentJPEG)
	if err == nil {
		return result, nil
	}
	logger.Warnf(ctx, "kolors space failed: %s", err.Error())

	logger.Info(ctx, "trying IDM-VTON space as fallback")
	result, err = a.tryIDMVtonSpace(ctx, client, personJPEG, garmentJPEG, task.Description)
	if err == nil {
		return result, nil
	}
	logger.Warnf(ctx, "idm-vton space failed: %s", err.Error())

	return nil, model.NewBackendFailure(ChannelName, "all spaces failed", err)
}

func (a *Adaptor) tryKolorsSpace(ctx context.Context, client *http.Client, personJPEG []byte, garmentJPEG []byte) (*image.NRGBA, error) {
	base := config.KolorsSpaceURL
	personPath, err := a.uploadImage(ctx, client, base, "person.jpg", personJPEG)
	if err != nil {
		return nil, err
	}
	garmentPath, err := a.uploadImage(ctx, client, base, "garment.jpg", garmentJPEG)
	if err != nil {
		return nil, err
	}
	data := []interface{}{
		NewFileData(personPath),
		NewFileData(garmentPath),
		42,    // seed
		false, // randomize_seed
	}
	return a.invokeTryon(ctx, client, base, data)
}

func (a *Adaptor) tryIDMVtonSpace(ctx context.Context, client *http.Client, personJPEG []byte, garmentJPEG []byte, description string) (*image.NRGBA, error) {
	base := config.IDMVtonSpaceURL
	personPath, err := a.uploadImage(ctx, client, base, "person.jpg", personJPEG)
	if err != nil {
		return nil, err
	}
	garmentPath, err := a.uploadImage(ctx, client, base, "garment.jpg", garmentJPEG)
	if err != nil {
		return nil, err
	}
	data := []interface{}{
		ImageEditorValue{Background: NewFileData(personPath), Layers: []interface{}{}, Composite: nil},
		NewFileData(garmentPath),
		description,
		true,  // is_checked, 自动生成 mask
		false, // is_checked_crop
		30,    // denoise_steps
		42,    // seed
	}
	return a.invokeTryon(ctx, client, base, data)
}

func (a *Adaptor) uploadImage(ctx context.Context, client *http.Client, base string, name string, data []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("files", name)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/upload", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	a.setAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload: status %d: %s", resp.StatusCode, channel.TruncateBody(respBody, 500))
	}
	var paths []string
	if err := json.Unmarshal(respBody, &paths); err != nil {
		return "", fmt.Errorf("upload: unexpected response: %s", channel.TruncateBody(respBody, 200))
	}
	if len(paths) == 0 {
		return "", fmt.Errorf("upload: empty path list")
	}
	return paths[0], nil
}

func (a *Adaptor) invokeTryon(ctx context.Context, client *http.Client, base string, data []interface{}) (*image.NRGBA, error) {
	body, err := json.Marshal(CallRequest{Data: data})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/call/tryon", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	a.setAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("call: status %d: %s", resp.StatusCode, channel.TruncateBody(respBody, 500))
	}
	var call CallResponse
	if err := json.Unmarshal(respBody, &call); err != nil {
		return nil, err
	}
	if call.EventID == "" {
		return nil, fmt.Errorf("call: missing event_id")
	}

	eventReq, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/call/tryon/"+call.EventID, nil)
	if err != nil {
		return nil, err
	}
	eventReq.Header.Set("Accept", "text/event-stream")
	a.setAuth(eventReq)

	eventResp, err := client.Do(eventReq)
	if err != nil {
		return nil, err
	}
	defer eventResp.Body.Close()
	if eventResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("event stream: status %d", eventResp.StatusCode)
	}
	raw, err := ReadCallResult(eventResp.Body)
	if err != nil {
		return nil, err
	}
	fileURL, err := ResultFileURL(base, raw)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	if config.HuggingFaceToken != "" {
		header.Set("Authorization", "Bearer "+config.HuggingFaceToken)
	}
	return channel.FetchResultImage(ctx, client, fileURL, header)
}

func (a *Adaptor) setAuth(req *http.Request) {
	if config.HuggingFaceToken != "" {
		req.Header.Set("Authorization", "Bearer "+config.HuggingFaceToken)
	}
}
