// Package bridge converts between message.Message and the message type of
// gitlab.com/gomidi/midi/v2, so decoded messages can be sent through gomidi
// output ports and gomidi input can be validated by the decoder.
package bridge

import (
	"fmt"

	"github.com/leandrodaf/midicodec/sdk/message"
	gomidi "gitlab.com/gomidi/midi/v2"
)

// ToGoMIDI returns m as a gomidi message.
func ToGoMIDI(m message.Message) gomidi.Message {
	return gomidi.Message(m.Bytes())
}

// FromGoMIDI decodes a gomidi message. System exclusive messages fail with
// message.ErrUnsupported.
func FromGoMIDI(gm gomidi.Message) (message.Message, error) {
	m, err := message.FromBytes([]byte(gm))
	if err != nil {
		return message.Message{}, fmt.Errorf("convert gomidi message % X: %w", []byte(gm), err)
	}
	return m, nil
}

// Sink forwards messages to a gomidi send function, such as the one returned
// by gomidi.SendTo for an output port.
type Sink struct {
	send func(gomidi.Message) error
	sent int
}

// NewSink returns a Sink writing through send.
func NewSink(send func(gomidi.Message) error) *Sink {
	return &Sink{send: send}
}

// Send writes one message.
func (s *Sink) Send(m message.Message) error {
	if !m.Valid() {
		return fmt.Errorf("send: invalid message")
	}
	if err := s.send(ToGoMIDI(m)); err != nil {
		return fmt.Errorf("send %s: %w", m.Status(), err)
	}
	s.sent++
	return nil
}

// Sent returns how many messages were written successfully.
func (s *Sink) Sent() int { return s.sent }
