// Package packet turns the raw buffers delivered by platform MIDI APIs into
// decoded messages.
package packet

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/leandrodaf/midicodec/sdk/contracts"
	"github.com/leandrodaf/midicodec/sdk/message"
)

// ErrIncompletePacket is returned when a packet ends in the middle of a message.
var ErrIncompletePacket = errors.New("incomplete MIDI packet")

// Decode splits a CoreMIDI style packet, which may hold several complete
// messages, into events stamped with timestamp. Messages rejected by filter
// are dropped. On error the events decoded before the failure are returned.
func Decode(data []byte, timestamp uint64, filter *contracts.MIDIEventFilter) ([]contracts.Event, error) {
	r := bytes.NewReader(data)
	var events []contracts.Event
	for r.Len() > 0 {
		msg, err := message.Decode(r)
		if err != nil {
			if errors.Is(err, message.ErrIO) {
				return events, fmt.Errorf("%w: %v", ErrIncompletePacket, err)
			}
			return events, err
		}
		if !filter.Allows(msg.Status()) {
			continue
		}
		events = append(events, contracts.Event{Timestamp: timestamp, Message: msg})
	}
	return events, nil
}

// DecodeShortMessage decodes a WinMM short message, which packs the status
// byte and up to two data bytes into the low three bytes of param. Unused
// data bytes are ignored.
func DecodeShortMessage(param uint32) (message.Message, error) {
	status := byte(param)
	data := []byte{byte(param >> 8), byte(param >> 16)}
	return message.DecodeGivenStatus(status, bytes.NewReader(data))
}
