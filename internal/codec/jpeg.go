package codec

import (
	"bytes"
	"image"
	"image/jpeg"
	"io"

	"github.com/disintegration/imaging"
)

// DefaultQuality matches the stdlib JPEG default.
const DefaultQuality = 75

type jpegDecoder struct {
	autoOrient bool
}

func (d *jpegDecoder) Format() string           { return "jpeg" }
func (d *jpegDecoder) Aliases() []string        { return []string{"jpg"} }
func (d *jpegDecoder) Match(header []byte) bool { return matchAny(header, "\xff\xd8\xff") }

func (d *jpegDecoder) Decode(r io.Reader) (image.Image, error) {
	if d.autoOrient {
		// imaging reads the EXIF orientation tag and rotates accordingly.
		return imaging.Decode(r, imaging.AutoOrientation(true))
	}
	return jpeg.Decode(r)
}

// JPEGEncoder encodes images to baseline JPEG. JPEG has no alpha channel,
// so callers flatten transparent rasters first.
type JPEGEncoder struct{}

func (e *JPEGEncoder) Format() string    { return "jpeg" }
func (e *JPEGEncoder) Aliases() []string { return []string{"jpg"} }
func (e *JPEGEncoder) Extension() string { return "jpeg" }
func (e *JPEGEncoder) MIMEType() string  { return "image/jpeg" }
func (e *JPEGEncoder) Available() bool   { return true }

func (e *JPEGEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	var buf bytes.Buffer
	buf.Grow(256 * 1024) // typical photo output

	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
