package image

import (
	"image"

	"github.com/disintegration/imaging"
)

// Bounding envelopes for the two processing tiers. Fast mode trades about a
// third of the resolution for latency.
const (
	UserMaxWidth  = 768
	UserMaxHeight = 1024

	GarmentMaxWidth  = 768
	GarmentMaxHeight = 768

	FastUserMaxWidth  = 512
	FastUserMaxHeight = 680

	FastGarmentMaxWidth  = 512
	FastGarmentMaxHeight = 512
)

// Bound shrinks img so neither dimension exceeds the envelope, preserving
// aspect ratio. Images already inside the envelope keep their size, Bound
// never enlarges.
func Bound(img image.Image, maxWidth, maxHeight int) *image.NRGBA {
	return imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
}

// PreprocessUser bounds a person photo to its tier envelope.
func PreprocessUser(img image.Image, fastMode bool) *image.NRGBA {
	if fastMode {
		return Bound(img, FastUserMaxWidth, FastUserMaxHeight)
	}
	return Bound(img, UserMaxWidth, UserMaxHeight)
}

// PreprocessGarment bounds a garment image to its tier envelope.
func PreprocessGarment(img image.Image, fastMode bool) *image.NRGBA {
	if fastMode {
		return Bound(img, FastGarmentMaxWidth, FastGarmentMaxHeight)
	}
	return Bound(img, GarmentMaxWidth, GarmentMaxHeight)
}
