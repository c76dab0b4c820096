package image

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fitframe/tryon-api/common"
	"github.com/fitframe/tryon-api/common/cache"
	"github.com/fitframe/tryon-api/common/config"
	"github.com/fitframe/tryon-api/common/logger"
)

// Store is the byte cache consulted before touching the network.
type Store interface {
	Get(url string) ([]byte, bool)
	Set(url string, data []byte)
}

// FetchError 远程图片拉取失败
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch image %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch image %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// 部分电商图床会拒绝非浏览器 UA
const fetchUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var fetchClient *http.Client

func init() {
	fetchClient = &http.Client{
		Timeout: time.Duration(config.FetchTimeout) * time.Second,
	}
}

// FetchImage retrieves the bytes behind an absolute http(s) URL, going through
// the local byte cache and the optional Redis tier before the network.
func FetchImage(ctx context.Context, store Store, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("unsupported scheme %q", parsed.Scheme)}
	}

	if store != nil {
		if data, ok := store.Get(rawURL); ok {
			return data, nil
		}
	}
	redisKey := fmt.Sprintf("fetch_image:%s", cache.Hash(rawURL))
	if common.RedisEnabled {
		if cached, err := common.RedisGet(redisKey); err == nil && cached != "" {
			data := []byte(cached)
			if store != nil {
				store.Set(rawURL, data)
			}
			return data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", fetchUserAgent)
	req.Header.Set("Accept", "image/webp,image/apng,image/*,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", parsed.Scheme+"://"+parsed.Host+"/")

	resp, err := fetchClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	if store != nil {
		store.Set(rawURL, data)
	}
	if common.RedisEnabled {
		if err := common.RedisSet(redisKey, string(data), 24*time.Hour); err != nil {
			logger.SysError("failed to cache fetched image in Redis: " + err.Error())
		}
	}
	return data, nil
}

// Resolve turns any accepted image reference, a data URL, bare base64 or an
// absolute http(s) URL, into a decoded raster.
func Resolve(ctx context.Context, store Store, input string) (*Decoded, error) {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		data, err := FetchImage(ctx, store, input)
		if err != nil {
			return nil, err
		}
		return DecodeBytes(data)
	}
	return Decode(input)
}
