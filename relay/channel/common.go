package channel

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"

	img "github.com/fitframe/tryon-api/common/image"
	"github.com/pkg/errors"
)

// FetchResultImage 拉取后端返回的结果图地址并解码成位图
func FetchResultImage(ctx context.Context, client *http.Client, url string, header http.Header) (*image.NRGBA, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build result request")
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch result image")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch result image: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read result image")
	}
	decoded, err := img.DecodeBytes(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode result image")
	}
	return decoded.Image, nil
}

// TruncateBody 截断错误响应，避免日志被整页 HTML 刷爆
func TruncateBody(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit])
}
