// Package message models MIDI channel voice and system messages and converts
// them to and from their wire form.
//
// A Message is a small immutable value: a status byte followed by zero, one
// or two data bytes. Messages are produced either by the typed builders
// (NoteOn, ControlChange, ...) or by Decode, which reads from any
// io.ByteReader. System exclusive and running status are not decoded.
package message

import (
	"fmt"
	"io"
)

// MaxLen is the size of the largest message this package decodes.
const MaxLen = 3

// Message is a single MIDI message. The zero value is not a valid message.
type Message struct {
	buf [MaxLen]byte
	n   uint8
}

func newMessage(b ...byte) Message {
	var m Message
	m.n = uint8(copy(m.buf[:], b))
	return m
}

// Valid reports whether m holds a complete message.
func (m Message) Valid() bool {
	if m.n == 0 {
		return false
	}
	l := DataBytes(m.buf[0])
	return l.Fixed() && int(m.n) == 1+int(l)
}

// Status returns the kind of the message, derived from the status byte.
func (m Message) Status() Status {
	if m.n == 0 {
		return 0
	}
	s, err := Classify(m.buf[0])
	if err != nil {
		return 0
	}
	return s
}

// Channel returns the 1-based channel (1-16) of a voice message. System
// messages have no channel and report 0.
func (m Message) Channel() uint8 {
	if !m.Status().IsVoice() {
		return 0
	}
	return m.buf[0]&channelMask + 1
}

// Data returns the byte at index. Index 0 is the status byte. It panics if
// index is outside the message.
func (m Message) Data(index int) byte {
	if index < 0 || index >= int(m.n) {
		panic(fmt.Sprintf("midi: data index %d out of range for %d-byte message", index, m.n))
	}
	return m.buf[index]
}

// Len returns the number of bytes in the message, status included.
func (m Message) Len() int { return int(m.n) }

// Bytes returns a copy of the raw message bytes.
func (m Message) Bytes() []byte {
	out := make([]byte, m.n)
	copy(out, m.buf[:m.n])
	return out
}

// PitchBendAmount combines the two data bytes of a 14-bit message (pitch bend
// or song position) into a single value. 0x2000 is the pitch bend centre.
// Any other message yields 0.
func (m Message) PitchBendAmount() uint16 {
	if s := m.Status(); s != StatusPitchBend && s != StatusSongPositionPointer {
		return 0
	}
	return uint16(m.buf[2]&0x7F)<<7 | uint16(m.buf[1]&0x7F)
}

// WriteTo writes the raw message bytes to w.
func (m Message) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(m.buf[:m.n])
	return int64(n), err
}

// MarshalBinary returns the wire form of m.
func (m Message) MarshalBinary() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("midi: marshal of empty message")
	}
	return m.Bytes(), nil
}

// UnmarshalBinary replaces m with the message decoded from data.
func (m *Message) UnmarshalBinary(data []byte) error {
	decoded, err := FromBytes(data)
	if err != nil {
		return err
	}
	*m = decoded
	return nil
}

func (m Message) String() string {
	s := m.Status()
	var body string
	switch m.n {
	case 0:
		return "<empty>"
	case 2:
		body = fmt.Sprintf("%s: [%d]", s, m.buf[1])
	case 3:
		body = fmt.Sprintf("%s: [%d,%d]", s, m.buf[1], m.buf[2])
	default:
		body = fmt.Sprintf("%s: [no data]", s)
	}
	if !s.IsVoice() {
		return body
	}
	return fmt.Sprintf("%s\tchannel: %d", body, m.Channel())
}
