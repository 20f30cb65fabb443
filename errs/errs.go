// Package errs defines the error kinds reported by the vicar packages.
//
// Every failure is reported through one of five kinds. Each kind has a sentinel
// error usable with errors.Is, and the kinds that carry detail (byte offset,
// field name) have a typed error usable with errors.As:
//
//	var mle *errs.MalformedLabelError
//	if errors.As(err, &mle) {
//	    fmt.Println("bad label at byte", mle.Offset)
//	}
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedLabel indicates a syntax fault in a label area.
	ErrMalformedLabel = errors.New("malformed label")
	// ErrInvalidSystemLabel indicates a system label schema or invariant violation.
	ErrInvalidSystemLabel = errors.New("invalid system label")
	// ErrOutOfRange indicates a pixel index outside the declared dimensions.
	ErrOutOfRange = errors.New("pixel index out of range")
	// ErrUnsupportedEncoding indicates an unrecognized data type or byte order descriptor.
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
	// ErrTruncatedData indicates fewer bytes are available than the format declares.
	ErrTruncatedData = errors.New("truncated data")
	// ErrUnrepresentableValue indicates a sample value that the target encoding cannot hold.
	ErrUnrepresentableValue = errors.New("value not representable in target encoding")
)

// MalformedLabelError is a tokenizer-level syntax fault.
type MalformedLabelError struct {
	Offset int    // byte offset in the label area
	Reason string // what went wrong
}

func (e *MalformedLabelError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", ErrMalformedLabel, e.Offset, e.Reason)
}

// Is reports whether target is ErrMalformedLabel.
func (e *MalformedLabelError) Is(target error) bool {
	return target == ErrMalformedLabel
}

// MalformedLabel creates a MalformedLabelError.
func MalformedLabel(offset int, format string, args ...any) error {
	return &MalformedLabelError{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}

// InvalidSystemLabelError names the offending system label field.
type InvalidSystemLabelError struct {
	Field  string
	Reason string
}

func (e *InvalidSystemLabelError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidSystemLabel, e.Field, e.Reason)
}

// Is reports whether target is ErrInvalidSystemLabel.
func (e *InvalidSystemLabelError) Is(target error) bool {
	return target == ErrInvalidSystemLabel
}

// InvalidSystemLabel creates an InvalidSystemLabelError.
func InvalidSystemLabel(field string, format string, args ...any) error {
	return &InvalidSystemLabelError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// UnsupportedEncodingError names the descriptor that was not recognized.
type UnsupportedEncodingError struct {
	Field string
	Value string
}

func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("%s: %s=%q", ErrUnsupportedEncoding, e.Field, e.Value)
}

// Is reports whether target is ErrUnsupportedEncoding.
func (e *UnsupportedEncodingError) Is(target error) bool {
	return target == ErrUnsupportedEncoding
}

// UnsupportedEncoding creates an UnsupportedEncodingError.
func UnsupportedEncoding(field, value string) error {
	return &UnsupportedEncodingError{Field: field, Value: value}
}

// TruncatedDataError reports how many bytes were needed and how many exist.
type TruncatedDataError struct {
	Offset    int // offset of the first byte needed
	Need      int // bytes required starting at Offset
	Available int // total bytes available in the source
}

func (e *TruncatedDataError) Error() string {
	return fmt.Sprintf("%s: need %d bytes at offset %d, source has %d", ErrTruncatedData, e.Need, e.Offset, e.Available)
}

// Is reports whether target is ErrTruncatedData.
func (e *TruncatedDataError) Is(target error) bool {
	return target == ErrTruncatedData
}

// TruncatedData creates a TruncatedDataError.
func TruncatedData(offset, need, available int) error {
	return &TruncatedDataError{Offset: offset, Need: need, Available: available}
}

// OutOfRange creates an error wrapping ErrOutOfRange for the given index triple.
func OutOfRange(line, sample, band int) error {
	return fmt.Errorf("%w: line=%d sample=%d band=%d", ErrOutOfRange, line, sample, band)
}
