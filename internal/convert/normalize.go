package convert

import (
	"image"
	"image/color"

	"github.com/AnyUserName/imgconv/internal/codec"
	"github.com/disintegration/imaging"
)

// Flatten removes transparency by compositing img onto an opaque black
// canvas of the same size. Images without alpha are returned as is.
//
// The result is an *image.NRGBA whose every pixel has alpha 0xff, so it
// reports Opaque() and codec.HasAlpha is false. The stdlib has no
// lossless RGB-only raster; encoders that support alpha (PNG, TIFF)
// write it without an alpha channel because the image is opaque.
func Flatten(img image.Image) image.Image {
	out, _ := flatten(img)
	return out
}

func flatten(img image.Image) (image.Image, bool) {
	if !codec.HasAlpha(img) {
		return img, false
	}
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.Black)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0), true
}
