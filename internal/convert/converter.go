// Package convert re-encodes untrusted image bytes into a requested format.
//
// A conversion always runs the same sequence: buffer the input, validate
// the target format, detect the input format, validate it, decode, strip
// alpha, encode. Every failure is a *codec.Error.
package convert

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/AnyUserName/imgconv/internal/codec"
	"go.uber.org/zap"
)

// Converter runs conversions against a fixed codec registry. It holds no
// per-call state and is safe for concurrent use.
type Converter struct {
	registry *codec.Registry
	quality  int
	log      *zap.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger used for step failures.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.log = l
		}
	}
}

// WithQuality sets the encoder quality (1-100). Out-of-range values fall
// back to codec.DefaultQuality.
func WithQuality(q int) Option {
	return func(c *Converter) {
		if q > 0 && q <= 100 {
			c.quality = q
		}
	}
}

// New creates a converter over reg.
func New(reg *codec.Registry, opts ...Option) *Converter {
	c := &Converter{
		registry: reg,
		quality:  codec.DefaultQuality,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result describes a successful conversion.
type Result struct {
	SourceFormat string
	TargetFormat string
	Width        int
	Height       int
	Flattened    bool // alpha was stripped
	Bytes        int  // bytes written to the sink
}

// Convert reads an image from r and writes it to w encoded as target.
// On failure nothing is written to w unless the sink itself failed
// part-way through the final write.
func (c *Converter) Convert(r io.Reader, w io.Writer, target string) error {
	_, err := c.Do(r, w, target)
	return err
}

// Do is Convert with a description of what was done.
func (c *Converter) Do(r io.Reader, w io.Writer, target string) (res *Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			res = nil
			err = &codec.Error{
				Kind:   codec.KindConversionFailure,
				Op:     "convert",
				Format: target,
				Msg:    fmt.Sprintf("Error during image conversion: %v", p),
				Err:    fmt.Errorf("panic: %v", p),
			}
		}
		if err != nil {
			err = codec.Wrap("convert", err)
			c.log.Debug("conversion failed",
				zap.String("target", target),
				zap.Stringer("kind", codec.KindOf(err)),
				zap.Error(err),
			)
		}
	}()

	// Step 1: buffer the whole input; detection and decoding both need it.
	data, err := buffer(r)
	if err != nil {
		return nil, err
	}

	// Step 2: fail fast on targets we cannot write.
	if err := c.registry.IsWriteable(target); err != nil {
		return nil, err
	}

	// Step 3: detect.
	source, err := c.registry.Detect(data)
	if err != nil {
		return nil, err
	}

	// Step 4: validate source.
	if err := c.registry.IsReadable(source); err != nil {
		return nil, err
	}

	// Step 5: decode.
	dec, err := c.registry.ResolveDecoder(source)
	if err != nil {
		return nil, err
	}
	img, err := dec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, codec.NewReadFailure(source, err)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, codec.NewReadFailure(source, nil)
	}

	// Step 6: normalize.
	flat, flattened := flatten(img)

	// Step 7: encode, then hand the complete output to the sink at once.
	enc, err := c.registry.ResolveEncoder(target)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, codec.NewWriteFailure(enc.Format(), errors.New("no output sink"))
	}
	out, err := enc.Encode(flat, c.quality)
	if err != nil {
		return nil, codec.NewWriteFailure(enc.Format(), err)
	}
	n, err := w.Write(out)
	if err == nil && n < len(out) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return nil, codec.NewWriteFailure(enc.Format(), err)
	}

	b := img.Bounds()
	return &Result{
		SourceFormat: source,
		TargetFormat: enc.Format(),
		Width:        b.Dx(),
		Height:       b.Dy(),
		Flattened:    flattened,
		Bytes:        n,
	}, nil
}

// ReadableFormats lists the formats that can be converted from.
func (c *Converter) ReadableFormats() []string { return c.registry.ListReadable() }

// WriteableFormats lists the formats that can be converted to.
func (c *Converter) WriteableFormats() []string { return c.registry.ListWriteable() }

// Encoder exposes the resolved encoder for format, for callers that need
// its extension or content type.
func (c *Converter) Encoder(format string) (codec.Encoder, error) {
	if err := c.registry.IsWriteable(format); err != nil {
		return nil, err
	}
	return c.registry.ResolveEncoder(format)
}

func buffer(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, &codec.Error{
			Kind: codec.KindInvalidStream,
			Op:   "buffer",
			Msg:  "Cannot create image input stream",
		}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &codec.Error{
			Kind: codec.KindInvalidStream,
			Op:   "buffer",
			Msg:  "Cannot read image input stream: " + err.Error(),
			Err:  err,
		}
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}
