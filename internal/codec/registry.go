package codec

import (
	"fmt"
	"sort"
	"strings"
)

// Registry is the read-only catalogue of installed decoders and encoders.
// It is built once by NewRegistry and never mutated afterwards, so it is
// safe for concurrent use without locking.
type Registry struct {
	decoders  []Decoder // probe order
	readers   map[string]Decoder
	writers   map[string]Encoder
	readable  []string
	writeable []string
}

type options struct {
	autoOrient bool
	external   bool
	decoders   []Decoder
	encoders   []Encoder
}

// Option configures NewRegistry.
type Option func(*options)

// WithJPEGAutoOrientation rotates JPEG input according to its EXIF
// orientation tag while decoding.
func WithJPEGAutoOrientation(on bool) Option {
	return func(o *options) { o.autoOrient = on }
}

// WithExternalEncoders enables probing PATH for cwebp and avifenc.
func WithExternalEncoders(on bool) Option {
	return func(o *options) { o.external = on }
}

// WithDecoders replaces the built-in decoders. Order is probe order.
// A non-nil empty slice yields a registry with no readable formats.
func WithDecoders(decs ...Decoder) Option {
	return func(o *options) {
		o.decoders = append([]Decoder{}, decs...)
	}
}

// WithEncoders replaces the built-in encoders.
// A non-nil empty slice yields a registry with no writeable formats.
func WithEncoders(encs ...Encoder) Option {
	return func(o *options) {
		o.encoders = append([]Encoder{}, encs...)
	}
}

// NewRegistry creates a registry, probing all encoders for availability.
// An empty capability set is not an error here; it surfaces when a
// specific format is validated.
func NewRegistry(opts ...Option) *Registry {
	o := options{external: true}
	for _, opt := range opts {
		opt(&o)
	}

	decs := o.decoders
	if decs == nil {
		decs = []Decoder{
			&pngDecoder{},
			&jpegDecoder{autoOrient: o.autoOrient},
			&gifDecoder{},
			&bmpDecoder{},
			&tiffDecoder{},
			&webpDecoder{},
		}
	}
	encs := o.encoders
	if encs == nil {
		encs = []Encoder{
			&JPEGEncoder{},
			&PNGEncoder{},
			&GIFEncoder{},
			&BMPEncoder{},
			&TIFFEncoder{},
		}
		if o.external {
			encs = append(encs, &WebPEncoder{}, &AVIFEncoder{})
		}
	}

	r := &Registry{
		readers: make(map[string]Decoder),
		writers: make(map[string]Encoder),
	}

	// First registration of a name wins.
	for _, d := range decs {
		r.decoders = append(r.decoders, d)
		for _, name := range names(d.Format(), d.Aliases()) {
			if _, ok := r.readers[name]; !ok {
				r.readers[name] = d
			}
		}
	}
	for _, e := range encs {
		if !e.Available() {
			continue
		}
		for _, name := range names(e.Format(), e.Aliases()) {
			if _, ok := r.writers[name]; !ok {
				r.writers[name] = e
			}
		}
	}

	r.readable = sortedKeys(r.readers)
	r.writeable = sortedKeys(r.writers)
	return r
}

// IsReadable returns nil when format has an installed decoder.
func (r *Registry) IsReadable(format string) error {
	_, err := lookup(r.readers, format, "read", "readable", "reading")
	return err
}

// IsWriteable returns nil when format has an installed encoder.
func (r *Registry) IsWriteable(format string) error {
	_, err := lookup(r.writers, format, "write", "writeable", "writing")
	return err
}

// ListReadable returns the sorted, lower-case readable format names.
func (r *Registry) ListReadable() []string {
	return append([]string{}, r.readable...)
}

// ListWriteable returns the sorted, lower-case writeable format names.
func (r *Registry) ListWriteable() []string {
	return append([]string{}, r.writeable...)
}

// ResolveDecoder returns the decoder registered for format.
func (r *Registry) ResolveDecoder(format string) (Decoder, error) {
	return lookup(r.readers, format, "read", "readable", "reading")
}

// ResolveEncoder returns the encoder registered for format.
func (r *Registry) ResolveEncoder(format string) (Encoder, error) {
	name := Normalize(format)
	if name == "" {
		return nil, invalidFormat("resolve-encoder")
	}
	enc, ok := r.writers[name]
	if !ok || enc == nil {
		return nil, &Error{
			Kind:   KindNoEncoderAvailable,
			Op:     "resolve-encoder",
			Format: name,
			Msg:    "No writer found for the format: " + format,
		}
	}
	return enc, nil
}

// Detect probes the decoders in registration order and returns the
// canonical name of the first one whose signature matches data.
func (r *Registry) Detect(data []byte) (string, error) {
	if data == nil {
		return "", &Error{
			Kind: KindInvalidStream,
			Op:   "detect",
			Msg:  "Cannot create image input stream",
		}
	}
	for _, d := range r.decoders {
		if d.Match(data) {
			return Normalize(d.Format()), nil
		}
	}
	return "", &Error{
		Kind: KindUnrecognizedFormat,
		Op:   "detect",
		Msg:  "No reader found for the provided image data",
	}
}

// String returns a summary of available codecs.
func (r *Registry) String() string {
	read, write := "none", "none"
	if len(r.readable) > 0 {
		read = strings.Join(r.readable, ", ")
	}
	if len(r.writeable) > 0 {
		write = strings.Join(r.writeable, ", ")
	}
	return fmt.Sprintf("decoders: %s; encoders: %s", read, write)
}

// Normalize lower-cases and trims a format name. A leading dot is
// dropped so file extensions can be passed directly.
func Normalize(format string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(format)), ".")
}

func lookup[T any](set map[string]T, format, op, adjective, gerund string) (T, error) {
	var zero T
	name := Normalize(format)
	if name == "" {
		return zero, invalidFormat("validate-" + op)
	}
	if len(set) == 0 {
		return zero, &Error{
			Kind:   KindUnsupportedFormat,
			Op:     "validate-" + op,
			Format: name,
			Msg:    fmt.Sprintf("No %s formats configured.", adjective),
		}
	}
	v, ok := set[name]
	if !ok {
		return zero, &Error{
			Kind:   KindUnsupportedFormat,
			Op:     "validate-" + op,
			Format: name,
			Msg:    fmt.Sprintf("Unsupported format for %s: %s", gerund, strings.TrimSpace(format)),
		}
	}
	return v, nil
}

func invalidFormat(op string) error {
	return &Error{Kind: KindInvalidFormat, Op: op, Msg: "Format cannot be null"}
}

func names(format string, aliases []string) []string {
	out := make([]string, 0, 1+len(aliases))
	for _, n := range append([]string{format}, aliases...) {
		if n = Normalize(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
