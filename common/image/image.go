package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"regexp"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	_ "golang.org/x/image/webp"
)

// Regex to match data URL pattern
var dataURLPattern = regexp.MustCompile(`data:image/([^;]+);base64,(.*)`)

var base64Cleaner = strings.NewReplacer("\n", "", "\r", "", "\t", "", " ", "")

const jpegQuality = 90

// DecodeError 图片载荷无法解析，整个请求据此失败
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode image: %s: %s", e.Reason, e.Err.Error())
	}
	return "decode image: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decoded 解析后的内存位图
// HasAlpha reflects the source format, not the pixel values: an all-opaque
// PNG with an alpha channel still reports true.
type Decoded struct {
	Image    *image.NRGBA
	HasAlpha bool
	Format   string
}

func (d *Decoded) Width() int  { return d.Image.Bounds().Dx() }
func (d *Decoded) Height() int { return d.Image.Bounds().Dy() }

// Decode parses a data URL or a bare base64 string into a raster.
func Decode(input string) (*Decoded, error) {
	payload := base64Cleaner.Replace(strings.TrimSpace(input))
	if matches := dataURLPattern.FindStringSubmatch(payload); len(matches) == 3 {
		payload = matches[2]
	} else if strings.HasPrefix(payload, "data:") {
		// data URL with an unexpected media type, keep whatever follows the comma
		idx := strings.Index(payload, ",")
		if idx < 0 {
			return nil, &DecodeError{Reason: "malformed data URL"}
		}
		payload = payload[idx+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &DecodeError{Reason: "invalid base64 image data", Err: err}
	}
	return DecodeBytes(raw)
}

// DecodeBytes parses encoded image bytes into a raster normalized to NRGBA.
func DecodeBytes(raw []byte) (*Decoded, error) {
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, &DecodeError{Reason: "unsupported or corrupt image data", Err: err}
	}
	return &Decoded{
		Image:    imaging.Clone(img),
		HasAlpha: hasAlphaChannel(img),
		Format:   format,
	}, nil
}

func hasAlphaChannel(img image.Image) bool {
	switch v := img.(type) {
	case *image.NRGBA, *image.NRGBA64, *image.NYCbCrA:
		return true
	case *image.Paletted:
		for _, c := range v.Palette {
			if _, _, _, a := c.RGBA(); a < 0xffff {
				return true
			}
		}
	}
	return false
}

// EncodeJPEG flattens any transparency onto white and serializes at quality 90.
func EncodeJPEG(img image.Image) ([]byte, error) {
	return EncodeJPEGWithQuality(img, jpegQuality)
}

func EncodeJPEGWithQuality(img image.Image, quality int) ([]byte, error) {
	canvas := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	flattened := imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flattened, &jpeg.Options{Quality: quality}); err != nil {
		return nil, errors.Wrap(err, "encode jpeg")
	}
	return buf.Bytes(), nil
}

// EncodeToDataURL renders the raster as a JPEG data URL for the response body.
func EncodeToDataURL(img image.Image) (string, error) {
	data, err := EncodeJPEG(img)
	if err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data), nil
}

var readerPool = sync.Pool{
	New: func() interface{} {
		return &bytes.Reader{}
	},
}

// Probe reports the pixel dimensions of encoded image bytes without a full decode.
func Probe(data []byte) (width int, height int, err error) {
	reader := readerPool.Get().(*bytes.Reader)
	defer readerPool.Put(reader)
	reader.Reset(data)

	cfg, _, err := image.DecodeConfig(reader)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
