package model

import (
	"image"
	"strings"
	"testing"
)

func TestNormalizeDefaults(t *testing.T) {
	req := &TryonRequest{UserPhoto: "x", ProductImage: "y"}
	req.Normalize()

	if req.GarmentType != "top" {
		t.Errorf("garment type = %q, want top", req.GarmentType)
	}
	if !req.Fast() {
		t.Error("fast mode should default to true")
	}

	off := false
	req = &TryonRequest{UserPhoto: "x", ProductImage: "y", GarmentType: "dress", FastMode: &off}
	req.Normalize()
	if req.GarmentType != "dress" {
		t.Errorf("garment type overridden to %q", req.GarmentType)
	}
	if req.Fast() {
		t.Error("explicit fast_mode=false was ignored")
	}
}

func TestAIMethod(t *testing.T) {
	if got := AIMethod("fal"); got != "ai-fal" {
		t.Errorf("AIMethod = %q", got)
	}
	if MethodComposite != "composite" {
		t.Errorf("MethodComposite = %q", MethodComposite)
	}
}

func TestGenerationTaskMemoizesDataURLs(t *testing.T) {
	task := &GenerationTask{
		Person:  image.NewNRGBA(image.Rect(0, 0, 8, 8)),
		Garment: image.NewNRGBA(image.Rect(0, 0, 4, 4)),
	}

	first, err := task.PersonDataURL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(first, "data:image/jpeg;base64,") {
		t.Errorf("unexpected payload prefix: %.40s", first)
	}
	second, err := task.PersonDataURL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Error("payload changed between calls")
	}

	garment, err := task.GarmentDataURL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if garment == first {
		t.Error("garment payload should differ from person payload")
	}
}

func TestBackendFailureUnwrap(t *testing.T) {
	inner := &CompositorError{Reason: "boom"}
	failure := NewBackendFailure("fal", "request rejected", inner)

	if !strings.Contains(failure.Error(), "fal") || !strings.Contains(failure.Error(), "request rejected") {
		t.Errorf("failure text = %q", failure.Error())
	}
	if failure.Unwrap() != inner {
		t.Error("Unwrap lost the cause")
	}
}
