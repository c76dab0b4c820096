package composite

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/fitframe/tryon-api/relay/model"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

func TestPlacementFor(t *testing.T) {
	lower := placement{widthFrac: 0.55, anchorFrac: 0.42, maxHeightFrac: 0.55}
	dress := placement{widthFrac: 0.60, anchorFrac: 0.12, maxHeightFrac: 0.75}
	upper := placement{widthFrac: 0.58, anchorFrac: 0.12, maxHeightFrac: 0.50}

	tests := []struct {
		garmentType string
		want        placement
	}{
		{"pants", lower},
		{"jeans", lower},
		{"shorts", lower},
		{"skirt", lower},
		{"dress", dress},
		{"top", upper},
		{"jacket", upper},
		{"hoodie", upper},
		{"", upper},
	}
	for _, tt := range tests {
		if got := placementFor(tt.garmentType); got != tt.want {
			t.Errorf("placementFor(%q) = %+v, want %+v", tt.garmentType, got, tt.want)
		}
	}
}

func TestScaledSizeHeightPrecedence(t *testing.T) {
	// 1000x1000 人像配 1:2 的连衣裙：按宽缩放会超高，必须回落到高度上限
	p := placementFor("dress")
	w, h := scaledSize(1000, 1000, 100, 200, p)
	if w != 375 || h != 750 {
		t.Errorf("got %dx%d, want 375x750", w, h)
	}
}

func TestScaledSizeWidthBound(t *testing.T) {
	p := placementFor("skirt")
	w, h := scaledSize(600, 800, 400, 400, p)
	if w != 330 || h != 330 {
		t.Errorf("square garment: got %dx%d, want 330x330", w, h)
	}
	w, h = scaledSize(600, 800, 200, 400, p)
	if w != 220 || h != 440 {
		t.Errorf("tall garment: got %dx%d, want 220x440", w, h)
	}
}

func TestComposeOpaquePlacement(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	task := &model.GenerationTask{
		Person:          solid(600, 800, white),
		Garment:         solid(400, 400, red),
		GarmentHasAlpha: false,
		GarmentType:     "skirt",
	}
	out, err := Compose(task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Bounds().Dx() != 600 || out.Bounds().Dy() != 800 {
		t.Fatalf("output size changed: %v", out.Bounds())
	}

	// 330x330，水平居中 x=135，锚点 y=int(800*0.42)=336
	inside := [][2]int{{135, 336}, {464, 336}, {135, 665}, {464, 665}}
	for _, pt := range inside {
		c := out.NRGBAAt(pt[0], pt[1])
		if c.R != 255 || c.G != 0 || c.B != 0 {
			t.Errorf("pixel (%d,%d) = %v, want garment red", pt[0], pt[1], c)
		}
	}
	outside := [][2]int{{134, 336}, {465, 336}, {135, 335}, {135, 666}}
	for _, pt := range outside {
		c := out.NRGBAAt(pt[0], pt[1])
		if c != white {
			t.Errorf("pixel (%d,%d) = %v, want untouched person white", pt[0], pt[1], c)
		}
	}
}

func TestComposeAlphaPathShadow(t *testing.T) {
	blue := color.NRGBA{B: 255, A: 255}
	task := &model.GenerationTask{
		Person:          solid(400, 600, white),
		Garment:         solid(100, 100, blue),
		GarmentHasAlpha: true,
		GarmentType:     "top",
	}
	out, err := Compose(task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 232x232 at (84,72)，服装中心必须还是纯蓝，投影不能盖到前面
	center := out.NRGBAAt(200, 188)
	if center.B < 200 || center.R > 60 {
		t.Errorf("garment center = %v, want blue", center)
	}

	// 投影偏移 (+5,+5)，在服装右侧露出一条暗边
	band := out.NRGBAAt(318, 250)
	if band.R > 240 {
		t.Errorf("shadow band pixel = %v, want darkened", band)
	}

	// 远离服装和投影的区域保持原样
	clear := out.NRGBAAt(20, 500)
	if clear != white {
		t.Errorf("background pixel = %v, want white", clear)
	}
}

func TestComposeBadge(t *testing.T) {
	task := &model.GenerationTask{
		Person:          solid(300, 400, white),
		Garment:         solid(10, 10, white),
		GarmentHasAlpha: false,
		GarmentType:     "top",
	}
	out, err := Compose(task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 半透明黑底：白底上混出深灰，取右内边距里的点避开文字
	backdrop := out.NRGBAAt(286, 378)
	if backdrop.R > 80 || backdrop.R < 30 {
		t.Errorf("badge backdrop pixel = %v, want dark gray", backdrop)
	}

	// 底上必须有金色文字像素
	foundText := false
	for y := 365; y < 390 && !foundText; y++ {
		for x := 0; x < 290; x++ {
			c := out.NRGBAAt(x, y)
			if c.R > 150 && c.G > 100 && c.B < 200 && c.B > 40 {
				foundText = true
				break
			}
		}
	}
	if !foundText {
		t.Error("no badge text pixels found")
	}
}

func TestComposeDeterministic(t *testing.T) {
	garment := image.NewNRGBA(image.Rect(0, 0, 80, 120))
	for y := 0; y < 120; y++ {
		for x := 0; x < 80; x++ {
			garment.SetNRGBA(x, y, color.NRGBA{R: 40, G: 200, B: 90, A: uint8(x * 3)})
		}
	}
	task := &model.GenerationTask{
		Person:          solid(500, 700, white),
		Garment:         garment,
		GarmentHasAlpha: true,
		GarmentType:     "dress",
	}
	first, err := Compose(task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Compose(task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(first.Pix, second.Pix) {
		t.Error("identical inputs produced different outputs")
	}
}

func TestComposeDegenerateGarment(t *testing.T) {
	t.Run("zero size garment", func(t *testing.T) {
		task := &model.GenerationTask{
			Person:      solid(100, 100, white),
			Garment:     image.NewNRGBA(image.Rect(0, 0, 0, 0)),
			GarmentType: "top",
		}
		_, err := Compose(task)
		var compErr *model.CompositorError
		if !errors.As(err, &compErr) {
			t.Fatalf("expected *model.CompositorError, got %v", err)
		}
	})
	t.Run("person too small to place on", func(t *testing.T) {
		task := &model.GenerationTask{
			Person:      solid(1, 1, white),
			Garment:     solid(10, 10, white),
			GarmentType: "top",
		}
		_, err := Compose(task)
		var compErr *model.CompositorError
		if !errors.As(err, &compErr) {
			t.Fatalf("expected *model.CompositorError, got %v", err)
		}
	})
}
