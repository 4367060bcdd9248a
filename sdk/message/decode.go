package message

import (
	"bytes"
	"fmt"
	"io"
)

// Decode reads one status byte from src and then the data bytes it requires.
// Every failure from src is returned as an *IOError.
func Decode(src io.ByteReader) (Message, error) {
	status, err := src.ReadByte()
	if err != nil {
		return Message{}, &IOError{Offset: 0, Err: err}
	}
	return DecodeGivenStatus(status, src)
}

// DecodeGivenStatus completes a message whose status byte has already been
// read. Nothing is read from src when the status is invalid or unsupported.
func DecodeGivenStatus(status byte, src io.ByteReader) (Message, error) {
	n, err := dataLength(status)
	if err != nil {
		return Message{}, err
	}

	m := Message{n: 1}
	m.buf[0] = status
	for i := 1; i <= n; i++ {
		b, err := src.ReadByte()
		if err != nil {
			return Message{}, &IOError{Offset: i, Err: err}
		}
		m.buf[i] = b
		m.n++
	}
	return m, nil
}

func dataLength(status byte) (int, error) {
	switch l := DataBytes(status); l {
	case 0, 1, 2:
		return int(l), nil
	case LengthVariable:
		return 0, &UnsupportedFeatureError{Status: tag(status), Reason: "variable length messages are not decoded"}
	case LengthSysEx:
		return 0, &UnsupportedFeatureError{Status: tag(status), Reason: "system exclusive messages are not decoded"}
	default:
		return 0, &InvalidStatusError{Status: status}
	}
}

// FromBytes decodes a message that must span all of b.
func FromBytes(b []byte) (Message, error) {
	r := bytes.NewReader(b)
	m, err := Decode(r)
	if err != nil {
		return Message{}, err
	}
	if r.Len() != 0 {
		return Message{}, fmt.Errorf("%w: %d trailing bytes after %s", ErrLengthMismatch, r.Len(), m.Status())
	}
	return m, nil
}
