package codec

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"io"
)

// fakeDecoder recognises a fixed prefix and counts calls.
type fakeDecoder struct {
	name    string
	aliases []string
	prefix  string
	img     image.Image
	err     error
	matches int
	decodes int
}

func (d *fakeDecoder) Format() string    { return d.name }
func (d *fakeDecoder) Aliases() []string { return d.aliases }

func (d *fakeDecoder) Match(header []byte) bool {
	d.matches++
	return bytes.HasPrefix(header, []byte(d.prefix))
}

func (d *fakeDecoder) Decode(r io.Reader) (image.Image, error) {
	d.decodes++
	if d.err != nil {
		return nil, d.err
	}
	return d.img, nil
}

// fakeEncoder writes a fixed payload and counts calls.
type fakeEncoder struct {
	name     string
	aliases  []string
	missing  bool
	out      []byte
	err      error
	encodes  int
	lastSeen image.Image
}

func (e *fakeEncoder) Format() string    { return e.name }
func (e *fakeEncoder) Aliases() []string { return e.aliases }
func (e *fakeEncoder) Extension() string { return e.name }
func (e *fakeEncoder) MIMEType() string  { return "image/" + e.name }
func (e *fakeEncoder) Available() bool   { return !e.missing }

func (e *fakeEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	e.encodes++
	e.lastSeen = img
	if e.err != nil {
		return nil, e.err
	}
	return e.out, nil
}

var errBoom = errors.New("boom")

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}
