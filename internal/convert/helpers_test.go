package convert

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"
)

// countingPNG decodes real PNG data and counts how often it is used.
type countingPNG struct {
	matches int
	decodes int
	panics  bool
}

func (d *countingPNG) Format() string    { return "png" }
func (d *countingPNG) Aliases() []string { return nil }

func (d *countingPNG) Match(header []byte) bool {
	d.matches++
	return bytes.HasPrefix(header, []byte("\x89PNG\r\n\x1a\n"))
}

func (d *countingPNG) Decode(r io.Reader) (image.Image, error) {
	d.decodes++
	if d.panics {
		panic("corrupt chunk")
	}
	return png.Decode(r)
}

// failingWriter rejects every write.
type failingWriter struct{ err error }

func (w failingWriter) Write(p []byte) (int, error) { return 0, w.err }

var errDiskFull = errors.New("disk full")

func fillNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}
