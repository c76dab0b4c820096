package image

import (
	"context"
	"errors"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fitframe/tryon-api/common/cache"
)

func TestFetchImageRejectsNonHTTPSchemes(t *testing.T) {
	for _, rawURL := range []string{"ftp://host/img.png", "file:///etc/passwd", "javascript:alert(1)", "not a url at all"} {
		_, err := FetchImage(context.Background(), nil, rawURL)
		if err == nil {
			t.Errorf("expected error for %q", rawURL)
			continue
		}
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Errorf("expected *FetchError for %q, got %T", rawURL, err)
		}
	}
}

func TestFetchImageSendsBrowserHeaders(t *testing.T) {
	payload := pngBytes(t, 5, 5, color.NRGBA{A: 255})
	var gotUA, gotAccept, gotLanguage, gotReferer string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		gotLanguage = r.Header.Get("Accept-Language")
		gotReferer = r.Header.Get("Referer")
		w.Write(payload)
	}))
	defer server.Close()

	data, err := FetchImage(context.Background(), nil, server.URL+"/p.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) != len(payload) {
		t.Errorf("expected %d bytes, got %d", len(payload), len(data))
	}
	if gotUA != fetchUserAgent {
		t.Errorf("unexpected User-Agent: %s", gotUA)
	}
	if gotAccept != "image/webp,image/apng,image/*,*/*;q=0.8" {
		t.Errorf("unexpected Accept: %s", gotAccept)
	}
	if gotLanguage != "en-US,en;q=0.9" {
		t.Errorf("unexpected Accept-Language: %s", gotLanguage)
	}
	if gotReferer != server.URL+"/" {
		t.Errorf("unexpected Referer: %s", gotReferer)
	}
}

func TestFetchImageUsesCache(t *testing.T) {
	payload := pngBytes(t, 5, 5, color.NRGBA{A: 255})
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write(payload)
	}))
	defer server.Close()

	store := cache.NewFIFO(10)
	for i := 0; i < 3; i++ {
		if _, err := FetchImage(context.Background(), store, server.URL+"/cached.png"); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}
	if hits != 1 {
		t.Errorf("expected a single upstream hit, got %d", hits)
	}
}

func TestFetchImageReportsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := FetchImage(context.Background(), nil, server.URL+"/missing.png")
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if fetchErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", fetchErr.StatusCode)
	}
}

func TestResolve(t *testing.T) {
	payload := pngBytes(t, 7, 9, color.NRGBA{A: 255})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	fromURL, err := Resolve(context.Background(), cache.NewFIFO(10), server.URL+"/r.png")
	if err != nil {
		t.Fatalf("resolve url: %v", err)
	}
	if fromURL.Width() != 7 || fromURL.Height() != 9 {
		t.Errorf("expected 7x9, got %dx%d", fromURL.Width(), fromURL.Height())
	}

	dataURL, err := EncodeToDataURL(fromURL.Image)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	fromPayload, err := Resolve(context.Background(), nil, dataURL)
	if err != nil {
		t.Fatalf("resolve data URL: %v", err)
	}
	if fromPayload.Width() != 7 || fromPayload.Height() != 9 {
		t.Errorf("expected 7x9, got %dx%d", fromPayload.Width(), fromPayload.Height())
	}
}
