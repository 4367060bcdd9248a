package message

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStatus matches any *InvalidStatusError.
	ErrInvalidStatus = errors.New("midi: invalid status byte")
	// ErrUnsupported matches any *UnsupportedFeatureError.
	ErrUnsupported = errors.New("midi: unsupported feature")
	// ErrIO matches any *IOError.
	ErrIO = errors.New("midi: byte source failure")
	// ErrLengthMismatch is returned by FromBytes when the buffer is longer than
	// the message its status byte describes.
	ErrLengthMismatch = errors.New("midi: message length mismatch")
)

// InvalidStatusError reports a byte that does not classify to any Status.
type InvalidStatusError struct {
	Status byte
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("midi: invalid status byte 0x%02X", e.Status)
}

func (e *InvalidStatusError) Is(target error) bool { return target == ErrInvalidStatus }

// UnsupportedFeatureError reports a status the decoder deliberately refuses,
// such as a system exclusive start.
type UnsupportedFeatureError struct {
	Status Status
	Reason string
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("midi: %s (status 0x%02X)", e.Reason, uint8(e.Status))
}

func (e *UnsupportedFeatureError) Is(target error) bool { return target == ErrUnsupported }

// IOError wraps a failure from the byte source. Offset is the position within
// the message being read: 0 for the status byte, 1 or 2 for a data byte.
type IOError struct {
	Offset int
	Err    error
}

func (e *IOError) Error() string {
	if e.Offset == 0 {
		return fmt.Sprintf("midi: reading status byte: %v", e.Err)
	}
	return fmt.Sprintf("midi: reading data byte %d: %v", e.Offset, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }
