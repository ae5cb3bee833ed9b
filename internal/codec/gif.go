package codec

import (
	"bytes"
	"image"
	"image/gif"
	"io"

	"github.com/disintegration/imaging"
)

type gifDecoder struct{}

func (d *gifDecoder) Format() string                          { return "gif" }
func (d *gifDecoder) Aliases() []string                       { return nil }
func (d *gifDecoder) Match(header []byte) bool                { return matchAny(header, "GIF87a", "GIF89a") }
func (d *gifDecoder) Decode(r io.Reader) (image.Image, error) { return gif.Decode(r) }

// GIFEncoder encodes the first frame as a 256-colour GIF.
type GIFEncoder struct{}

func (e *GIFEncoder) Format() string    { return "gif" }
func (e *GIFEncoder) Aliases() []string { return nil }
func (e *GIFEncoder) Extension() string { return "gif" }
func (e *GIFEncoder) MIMEType() string  { return "image/gif" }
func (e *GIFEncoder) Available() bool   { return true }

func (e *GIFEncoder) Encode(img image.Image, _ int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.GIF, imaging.GIFNumColors(256)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
