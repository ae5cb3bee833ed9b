package codec

import (
	"bytes"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"golang.org/x/image/tiff"
)

type tiffDecoder struct{}

func (d *tiffDecoder) Format() string                          { return "tiff" }
func (d *tiffDecoder) Aliases() []string                       { return []string{"tif"} }
func (d *tiffDecoder) Match(header []byte) bool                { return matchAny(header, "II*\x00", "MM\x00*") }
func (d *tiffDecoder) Decode(r io.Reader) (image.Image, error) { return tiff.Decode(r) }

// TIFFEncoder encodes Deflate-compressed TIFF.
type TIFFEncoder struct{}

func (e *TIFFEncoder) Format() string    { return "tiff" }
func (e *TIFFEncoder) Aliases() []string { return []string{"tif"} }
func (e *TIFFEncoder) Extension() string { return "tiff" }
func (e *TIFFEncoder) MIMEType() string  { return "image/tiff" }
func (e *TIFFEncoder) Available() bool   { return true }

func (e *TIFFEncoder) Encode(img image.Image, _ int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.TIFF); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
