package codec

import (
	"image"
	"image/color"
)

// opaquer is implemented by every concrete image type in the stdlib.
type opaquer interface {
	Opaque() bool
}

// HasAlpha reports whether img carries any transparency.
// Images that cannot represent alpha (YCbCr, Gray, CMYK) never do.
func HasAlpha(img image.Image) bool {
	switch src := img.(type) {
	case *image.YCbCr, *image.Gray, *image.Gray16, *image.CMYK:
		return false
	case opaquer:
		return !src.Opaque()
	}

	switch img.ColorModel() {
	case color.YCbCrModel, color.GrayModel, color.Gray16Model, color.CMYKModel:
		return false
	}
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			if a < 0xffff {
				return true
			}
		}
	}
	return false
}
