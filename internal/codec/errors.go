package codec

import (
	"errors"
	"fmt"
)

// Kind classifies a conversion failure.
type Kind int

const (
	// KindConversionFailure wraps any failure outside the taxonomy below.
	KindConversionFailure Kind = iota
	KindInvalidFormat
	KindUnsupportedFormat
	KindInvalidStream
	KindUnrecognizedFormat
	KindReadFailure
	KindNoEncoderAvailable
	KindWriteFailure
)

var kindNames = map[Kind]string{
	KindConversionFailure:  "ConversionFailure",
	KindInvalidFormat:      "InvalidFormat",
	KindUnsupportedFormat:  "UnsupportedFormat",
	KindInvalidStream:      "InvalidStream",
	KindUnrecognizedFormat: "UnrecognizedFormat",
	KindReadFailure:        "ReadFailure",
	KindNoEncoderAvailable: "NoEncoderAvailable",
	KindWriteFailure:       "WriteFailure",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the single error type returned by the registry and the
// conversion pipeline. Compare with errors.Is against the Err* sentinels
// or inspect the kind with KindOf.
type Error struct {
	Kind   Kind
	Op     string // e.g. "validate-write", "decode"
	Format string // format name involved, if any
	Msg    string
	Err    error // underlying cause, if any
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Kind.String() + ": " + e.Err.Error()
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches a bare sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Err == nil && t.Op == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrConversionFailure  = &Error{Kind: KindConversionFailure}
	ErrInvalidFormat      = &Error{Kind: KindInvalidFormat}
	ErrUnsupportedFormat  = &Error{Kind: KindUnsupportedFormat}
	ErrInvalidStream      = &Error{Kind: KindInvalidStream}
	ErrUnrecognizedFormat = &Error{Kind: KindUnrecognizedFormat}
	ErrReadFailure        = &Error{Kind: KindReadFailure}
	ErrNoEncoderAvailable = &Error{Kind: KindNoEncoderAvailable}
	ErrWriteFailure       = &Error{Kind: KindWriteFailure}
)

// KindOf reports the kind of err. Errors outside the taxonomy are
// reported as KindConversionFailure.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindConversionFailure
}

// Wrap returns err unchanged when it already belongs to the taxonomy,
// otherwise it wraps it as a ConversionFailure.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{
		Kind: KindConversionFailure,
		Op:   op,
		Msg:  "Error during image conversion: " + err.Error(),
		Err:  err,
	}
}

// NewWriteFailure wraps a low-level encode or write error.
func NewWriteFailure(format string, err error) error {
	return &Error{
		Kind:   KindWriteFailure,
		Op:     "write",
		Format: format,
		Msg:    "Error writing image: " + err.Error(),
		Err:    err,
	}
}

// NewReadFailure reports a decoder that accepted the format but produced
// no usable raster. err may be nil.
func NewReadFailure(format string, err error) error {
	return &Error{
		Kind:   KindReadFailure,
		Op:     "decode",
		Format: format,
		Msg:    "Invalid file for image conversion",
		Err:    err,
	}
}
