package controller

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// pngBytes 生成纯色 PNG
func pngBytes(t *testing.T, width, height int, c color.NRGBA) []byte {
	t.Helper()
	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			canvas.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func proxyGet(t *testing.T, handler gin.HandlerFunc, target string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.GET("/proxy", handler)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestProxyImageRejectsBadScheme(t *testing.T) {
	for _, raw := range []string{"ftp://example.com/a.jpg", "file:///etc/passwd", "not a url at all"} {
		w := proxyGet(t, ProxyImage, "/proxy?url="+url.QueryEscape(raw))
		if w.Code != http.StatusBadRequest {
			t.Errorf("url %q: status = %d, want 400", raw, w.Code)
		}
		if !strings.Contains(w.Body.String(), "Invalid URL scheme") {
			t.Errorf("url %q: body = %s", raw, w.Body.String())
		}
	}
}

func TestProxyImageServesUpstreamBytes(t *testing.T) {
	payload := pngBytes(t, 8, 8, color.NRGBA{R: 255, A: 255})
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer upstream.Close()

	w := proxyGet(t, ProxyImage, "/proxy?url="+url.QueryEscape(upstream.URL+"/garment.png"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", got)
	}
	if got := w.Header().Get("Cache-Control"); got != "public, max-age=86400" {
		t.Errorf("Cache-Control = %q", got)
	}
	if !bytes.Equal(w.Body.Bytes(), payload) {
		t.Errorf("body differs from upstream payload")
	}
}

func TestProxyImageSecondRequestServedFromCache(t *testing.T) {
	payload := pngBytes(t, 8, 8, color.NRGBA{B: 180, A: 255})
	hits := 0
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write(payload)
	}))
	defer upstream.Close()

	target := "/proxy?url=" + url.QueryEscape(upstream.URL+"/cached.png")
	for i := 0; i < 2; i++ {
		w := proxyGet(t, ProxyImage, target)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, w.Code)
		}
		if !bytes.Equal(w.Body.Bytes(), payload) {
			t.Fatalf("request %d: body differs from upstream payload", i)
		}
	}
	if hits != 1 {
		t.Errorf("upstream hits = %d, want 1", hits)
	}
}

func TestProxyImageContentTypeByExtension(t *testing.T) {
	tests := []struct {
		rawURL string
		want   string
	}{
		{"https://cdn.example.com/a.png", "image/png"},
		{"https://cdn.example.com/a.PNG", "image/png"},
		{"https://cdn.example.com/a.webp", "image/webp"},
		{"https://cdn.example.com/a.gif", "image/gif"},
		{"https://cdn.example.com/a.jpg", "image/jpeg"},
		{"https://cdn.example.com/product?id=1", "image/jpeg"},
	}
	for _, tt := range tests {
		if got := proxyContentType(tt.rawURL); got != tt.want {
			t.Errorf("proxyContentType(%q) = %q, want %q", tt.rawURL, got, tt.want)
		}
	}
}

func TestProxyImageUpstreamStatusPropagates(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer upstream.Close()

	w := proxyGet(t, ProxyImage, "/proxy?url="+url.QueryEscape(upstream.URL+"/missing.jpg"))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Failed to fetch image") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestProxyImageBase64(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		payload := pngBytes(t, 8, 6, color.NRGBA{G: 200, A: 255})
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(payload)
		}))
		defer upstream.Close()

		w := proxyGet(t, ProxyImageBase64, "/proxy?url="+url.QueryEscape(upstream.URL+"/garment.png"))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("response is not JSON: %v", err)
		}
		if body["success"] != true {
			t.Fatalf("success = %v, error = %v", body["success"], body["error"])
		}
		dataUri, _ := body["dataUri"].(string)
		if !strings.HasPrefix(dataUri, "data:image/jpeg;base64,") {
			t.Errorf("dataUri prefix wrong: %.40s", dataUri)
		}
		if body["width"] != float64(8) || body["height"] != float64(6) {
			t.Errorf("dimensions = %v x %v, want 8 x 6", body["width"], body["height"])
		}
	})

	t.Run("failure keeps 200", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer upstream.Close()

		w := proxyGet(t, ProxyImageBase64, "/proxy?url="+url.QueryEscape(upstream.URL+"/blocked.jpg"))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 even on failure", w.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("response is not JSON: %v", err)
		}
		if body["success"] != false {
			t.Errorf("success = %v, want false", body["success"])
		}
		if msg, _ := body["error"].(string); msg == "" {
			t.Errorf("error message missing: %v", body)
		}
	})

	t.Run("undecodable payload", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("this is not an image"))
		}))
		defer upstream.Close()

		w := proxyGet(t, ProxyImageBase64, "/proxy?url="+url.QueryEscape(upstream.URL+"/bogus.jpg"))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("response is not JSON: %v", err)
		}
		if body["success"] != false {
			t.Errorf("success = %v, want false", body["success"])
		}
	})
}
