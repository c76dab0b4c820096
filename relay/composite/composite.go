// Package composite 在所有生成后端都不可用时，用确定性的几何叠加产出保底结果。
// 输入输出都是内存里的位图，不落盘，同样的输入永远得到同样的输出。
package composite

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/fitframe/tryon-api/relay/model"
)

const (
	alphaBoost    = 1.2
	garmentSigma  = 1.0
	shadowOpacity = 0.3
	shadowSigma   = 8.0
	shadowOffset  = 5

	badgeText    = "Preview - AI Try-On Available"
	badgePadding = 8
	badgeMargin  = 10
	badgeRadius  = 5
	badgeHeight  = 25
	fontSize     = 14
)

// placement 服装相对人像的缩放与落点，按服装类型分三档
type placement struct {
	widthFrac     float64
	anchorFrac    float64
	maxHeightFrac float64
}

func placementFor(garmentType string) placement {
	switch garmentType {
	case "pants", "jeans", "shorts", "skirt":
		return placement{widthFrac: 0.55, anchorFrac: 0.42, maxHeightFrac: 0.55}
	case "dress":
		return placement{widthFrac: 0.60, anchorFrac: 0.12, maxHeightFrac: 0.75}
	default:
		return placement{widthFrac: 0.58, anchorFrac: 0.12, maxHeightFrac: 0.50}
	}
}

// scaledSize 先按宽度比例缩放，超出高度上限时改用高度反推宽度
func scaledSize(personW, personH, garmentW, garmentH int, p placement) (int, int) {
	newW := int(float64(personW) * p.widthFrac)
	aspect := float64(garmentW) / float64(garmentH)
	newH := int(float64(newW) / aspect)
	maxH := int(float64(personH) * p.maxHeightFrac)
	if newH > maxH {
		newH = maxH
		newW = int(float64(newH) * aspect)
	}
	return newW, newH
}

// Compose 把服装贴到人像上并盖章标记为预览图。
// 带透明通道的服装走柔化加投影的路径，完全不透明的服装直接覆盖。
func Compose(task *model.GenerationTask) (*image.NRGBA, error) {
	person := task.Person
	garment := task.Garment
	gw := garment.Bounds().Dx()
	gh := garment.Bounds().Dy()
	if gw <= 0 || gh <= 0 {
		return nil, &model.CompositorError{Reason: "garment raster has zero size"}
	}
	pw := person.Bounds().Dx()
	ph := person.Bounds().Dy()

	p := placementFor(task.GarmentType)
	newW, newH := scaledSize(pw, ph, gw, gh, p)
	if newW <= 0 || newH <= 0 {
		return nil, &model.CompositorError{Reason: "garment collapses to zero size after scaling"}
	}
	resized := imaging.Resize(garment, newW, newH, imaging.Lanczos)

	x := (pw - newW) / 2
	y := int(float64(ph) * p.anchorFrac)

	out := imaging.Clone(person)
	if task.GarmentHasAlpha {
		boosted := boostAlpha(resized)
		soft := imaging.Blur(boosted, garmentSigma)

		garmentLayer := imaging.Paste(imaging.New(pw, ph, color.NRGBA{}), soft, image.Pt(x, y))
		shadowLayer := imaging.Paste(imaging.New(pw, ph, color.NRGBA{}), shadowOf(boosted), image.Pt(x+shadowOffset, y+shadowOffset))

		// 投影永远垫在服装下面，各自压一遍
		out = imaging.Overlay(out, shadowLayer, image.Pt(0, 0), 1.0)
		out = imaging.Overlay(out, garmentLayer, image.Pt(0, 0), 1.0)
	} else {
		out = imaging.Paste(out, resized, image.Pt(x, y))
	}

	drawBadge(out)
	return out, nil
}

func boostAlpha(img *image.NRGBA) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		a := int(float64(c.A) * alphaBoost)
		if a > 255 {
			a = 255
		}
		c.A = uint8(a)
		return c
	})
}

// shadowOf 把服装压成半透明的纯黑剪影并大半径虚化
func shadowOf(img *image.NRGBA) *image.NRGBA {
	silhouette := imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{A: uint8(float64(c.A) * shadowOpacity)}
	})
	return imaging.Blur(silhouette, shadowSigma)
}

var (
	badgeFaceOnce sync.Once
	badgeFontFace font.Face
)

func badgeFace() font.Face {
	badgeFaceOnce.Do(func() {
		ft, err := opentype.Parse(goregular.TTF)
		if err != nil {
			badgeFontFace = basicfont.Face7x13
			return
		}
		face, err := opentype.NewFace(ft, &opentype.FaceOptions{Size: fontSize, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			badgeFontFace = basicfont.Face7x13
			return
		}
		badgeFontFace = face
	})
	return badgeFontFace
}

// drawBadge 在右下角画半透明圆角底加一行金色说明文字
func drawBadge(canvas *image.NRGBA) {
	face := badgeFace()
	textW := font.MeasureString(face, badgeText).Ceil()

	w := canvas.Bounds().Dx()
	h := canvas.Bounds().Dy()
	badgeX := w - textW - 2*badgePadding - badgeMargin
	badgeY := h - badgeMargin - badgeHeight

	rect := image.Rect(badgeX, badgeY, w-badgeMargin, h-badgeMargin)
	fillRoundedRect(canvas, rect, badgeRadius, color.NRGBA{R: 0, G: 0, B: 0, A: 200})

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.NRGBA{R: 212, G: 173, B: 117, A: 255}),
		Face: face,
		Dot:  fixed.P(badgeX+badgePadding, badgeY+5+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(badgeText)
}

func fillRoundedRect(dst draw.Image, r image.Rectangle, radius int, c color.Color) {
	mask := image.NewAlpha(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			if insideRoundedRect(x, y, r.Dx(), r.Dy(), radius) {
				mask.SetAlpha(x, y, color.Alpha{A: 255})
			}
		}
	}
	draw.DrawMask(dst, r, image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
}

// insideRoundedRect 只有四角圆弧以外的像素不落笔
func insideRoundedRect(x, y, w, h, radius int) bool {
	cx, cy := -1, -1
	if x < radius {
		cx = radius
	} else if x >= w-radius {
		cx = w - radius - 1
	}
	if y < radius {
		cy = radius
	} else if y >= h-radius {
		cy = h - radius - 1
	}
	if cx < 0 || cy < 0 {
		return true
	}
	dx := x - cx
	dy := y - cy
	return dx*dx+dy*dy <= radius*radius
}
