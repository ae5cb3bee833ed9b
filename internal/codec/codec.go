package codec

import (
	"image"
	"io"
)

// Decoder turns bytes of one format family into a raster.
type Decoder interface {
	// Format returns the canonical lower-case name (e.g. "png", "jpeg").
	Format() string

	// Aliases returns extra names the decoder answers to (e.g. "jpg").
	Aliases() []string

	// Match reports whether header carries this format's signature.
	Match(header []byte) bool

	// Decode reads one image from r.
	Decode(r io.Reader) (image.Image, error)
}

// Encoder encodes a raster to a specific format.
type Encoder interface {
	// Format returns the canonical lower-case name (e.g. "jpeg", "webp").
	Format() string

	// Aliases returns extra names the encoder answers to.
	Aliases() []string

	// Extension returns the file extension without dot.
	Extension() string

	// MIMEType returns the content type of the encoded output.
	MIMEType() string

	// Available returns true if the encoder is ready to use.
	// External encoders (cwebp, avifenc) may not be installed.
	Available() bool

	// Encode converts the image to bytes at the given quality (1-100).
	// Encoders without a quality knob ignore it.
	Encode(img image.Image, quality int) ([]byte, error)
}

// magic is a signature prefix; '?' matches any byte.
type magic string

func (m magic) match(b []byte) bool {
	if len(b) < len(m) {
		return false
	}
	for i := 0; i < len(m); i++ {
		if m[i] != '?' && m[i] != b[i] {
			return false
		}
	}
	return true
}

// matchAny reports whether any of sigs prefixes b.
func matchAny(b []byte, sigs ...magic) bool {
	for _, s := range sigs {
		if s.match(b) {
			return true
		}
	}
	return false
}
