package codec

import (
	"bytes"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
)

type bmpDecoder struct{}

func (d *bmpDecoder) Format() string                          { return "bmp" }
func (d *bmpDecoder) Aliases() []string                       { return nil }
func (d *bmpDecoder) Match(header []byte) bool                { return matchAny(header, "BM????\x00\x00\x00\x00") }
func (d *bmpDecoder) Decode(r io.Reader) (image.Image, error) { return bmp.Decode(r) }

// BMPEncoder encodes uncompressed BMP.
type BMPEncoder struct{}

func (e *BMPEncoder) Format() string    { return "bmp" }
func (e *BMPEncoder) Aliases() []string { return nil }
func (e *BMPEncoder) Extension() string { return "bmp" }
func (e *BMPEncoder) MIMEType() string  { return "image/bmp" }
func (e *BMPEncoder) Available() bool   { return true }

func (e *BMPEncoder) Encode(img image.Image, _ int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.BMP); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
