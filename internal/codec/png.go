package codec

import (
	"bytes"
	"image"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
)

type pngDecoder struct{}

func (d *pngDecoder) Format() string                          { return "png" }
func (d *pngDecoder) Aliases() []string                       { return nil }
func (d *pngDecoder) Match(header []byte) bool                { return matchAny(header, "\x89PNG\r\n\x1a\n") }
func (d *pngDecoder) Decode(r io.Reader) (image.Image, error) { return png.Decode(r) }

// PNGEncoder encodes images to PNG.
type PNGEncoder struct{}

func (e *PNGEncoder) Format() string    { return "png" }
func (e *PNGEncoder) Aliases() []string { return nil }
func (e *PNGEncoder) Extension() string { return "png" }
func (e *PNGEncoder) MIMEType() string  { return "image/png" }
func (e *PNGEncoder) Available() bool   { return true }

func (e *PNGEncoder) Encode(img image.Image, _ int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(512 * 1024)

	err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
